package quarkts_internal

import (
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/huandu/go-clone"
)

type LoadConfigTestCase struct {
	Name       string
	Data       string
	WantConfig *QuarkTSConfig
	WantErr    bool
}

func testLoadConfig(t *testing.T, tc *LoadConfigTestCase) {
	data := []byte(strings.ReplaceAll(tc.Data, "\t", "  "))
	got, err := LoadConfig("", data)
	if tc.WantErr {
		if err == nil {
			t.Fatalf("want an error, got none")
		}
		return
	}
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(tc.WantConfig, got); diff != "" {
		t.Fatalf("QuarkTSConfig mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadConfig(t *testing.T) {
	base := DefaultQuarkTSConfig()

	cfgTick := clone.Clone(base).(*QuarkTSConfig)
	cfgTick.SchedulerConfig.Tick = 2 * time.Millisecond

	cfgQueue := clone.Clone(base).(*QuarkTSConfig)
	cfgQueue.SchedulerConfig.QueueCapacity = 64

	cfgLog := clone.Clone(base).(*QuarkTSConfig)
	cfgLog.LoggerConfig.Level = "debug"

	cfgMempool := clone.Clone(base).(*QuarkTSConfig)
	cfgMempool.MemPoolConfig.BlockSize = "128B"
	cfgMempool.MemPoolConfig.BlockCount = 4

	for _, tc := range []*LoadConfigTestCase{
		{
			Name:       "default",
			WantConfig: DefaultQuarkTSConfig(),
		},
		{
			Name: "empty_section",
			Data: `
				quarkts_config:
			`,
			WantConfig: DefaultQuarkTSConfig(),
		},
		{
			Name: "scheduler_tick",
			Data: `
				quarkts_config:
					scheduler_config:
						tick: 2ms
			`,
			WantConfig: cfgTick,
		},
		{
			Name: "scheduler_queue_capacity",
			Data: `
				quarkts_config:
					scheduler_config:
						queue_capacity: 64
			`,
			WantConfig: cfgQueue,
		},
		{
			Name: "log_config",
			Data: `
				quarkts_config:
					log_config:
						level: debug
			`,
			WantConfig: cfgLog,
		},
		{
			Name: "mempool_config",
			Data: `
				quarkts_config:
					mempool_config:
						block_size: 128B
						block_count: 4
			`,
			WantConfig: cfgMempool,
		},
		{
			Name: "unrelated_top_level_key_is_ignored",
			Data: `
				unrelated:
					foo: bar
				quarkts_config:
					scheduler_config:
						tick: 2ms
			`,
			WantConfig: cfgTick,
		},
		{
			Name: "zero_tick_is_rejected",
			Data: `
				quarkts_config:
					scheduler_config:
						tick: 0
			`,
			WantErr: true,
		},
		{
			Name: "zero_queue_capacity_is_rejected",
			Data: `
				quarkts_config:
					scheduler_config:
						queue_capacity: 0
			`,
			WantErr: true,
		},
	} {
		t.Run(tc.Name, func(t *testing.T) { testLoadConfig(t, tc) })
	}
}
