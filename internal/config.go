// QuarkTS-Go configuration.
//
// The configuration is loaded from a YAML file, with the following
// structure:
//
//  quarkts_config:
//    scheduler_config:
//      tick: 1ms
//      queue_capacity: 32
//    log_config:
//      ...
//    mempool_config:
//      ...
//
// Grounded on the teacher's internal/config.go LoadConfig/VmiConfig
// pattern: a single named top-level section decoded into a defaults-primed
// struct, the rest of the document ignored (QuarkTS-Go has no analogue to
// the teacher's "generators" second section).

package quarkts_internal

import (
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	QUARKTS_CONFIG_SECTION_NAME = "quarkts_config"

	SCHEDULER_CONFIG_TICK_DEFAULT           = time.Millisecond
	SCHEDULER_CONFIG_QUEUE_CAPACITY_DEFAULT = 32

	MEMPOOL_CONFIG_BLOCK_SIZE_DEFAULT  = "64B"
	MEMPOOL_CONFIG_BLOCK_COUNT_DEFAULT = 16
)

// SchedulerConfig configures the scheduler's tick period (an integrator
// concern — the scheduler core itself only knows about Tick() calls, it has
// no wall-clock opinion) and its queue capacity.
type SchedulerConfig struct {
	Tick          time.Duration `yaml:"tick"`
	QueueCapacity int           `yaml:"queue_capacity"`
}

func DefaultSchedulerConfig() *SchedulerConfig {
	return &SchedulerConfig{
		Tick:          SCHEDULER_CONFIG_TICK_DEFAULT,
		QueueCapacity: SCHEDULER_CONFIG_QUEUE_CAPACITY_DEFAULT,
	}
}

// Validate checks the admission rules SPEC_FULL.md §6 calls out: both
// fields must be positive, the same way a task's own interval is validated.
func (c *SchedulerConfig) Validate() error {
	if c.Tick <= 0 {
		return fmt.Errorf("scheduler_config.tick must be > 0, got %s", c.Tick)
	}
	if c.QueueCapacity <= 0 {
		return fmt.Errorf("scheduler_config.queue_capacity must be > 0, got %d", c.QueueCapacity)
	}
	return nil
}

// MemPoolConfig configures the optional companion memory pool (see
// mempool.go); block_size accepts the same human-readable size strings
// docker/go-units parses for the teacher's CompressorPoolConfig.
type MemPoolConfig struct {
	BlockSize  string `yaml:"block_size"`
	BlockCount int    `yaml:"block_count"`
}

func DefaultMemPoolConfig() *MemPoolConfig {
	return &MemPoolConfig{
		BlockSize:  MEMPOOL_CONFIG_BLOCK_SIZE_DEFAULT,
		BlockCount: MEMPOOL_CONFIG_BLOCK_COUNT_DEFAULT,
	}
}

// QuarkTSConfig is the top-level configuration section, decoded from the
// quarkts_config YAML key.
type QuarkTSConfig struct {
	SchedulerConfig *SchedulerConfig `yaml:"scheduler_config"`
	LoggerConfig    *LoggerConfig    `yaml:"log_config"`
	MemPoolConfig   *MemPoolConfig   `yaml:"mempool_config"`
}

func DefaultQuarkTSConfig() *QuarkTSConfig {
	return &QuarkTSConfig{
		SchedulerConfig: DefaultSchedulerConfig(),
		LoggerConfig:    DefaultLoggerConfig(),
		MemPoolConfig:   DefaultMemPoolConfig(),
	}
}

// LoadConfig loads the quarkts_config section from the given YAML file (or
// buf directly, for testing — passing a non-nil buf skips the file read).
// Unrecognized top-level keys are ignored, matching the teacher's tolerant
// LoadConfig behavior.
func LoadConfig(cfgFile string, buf []byte) (*QuarkTSConfig, error) {
	if buf == nil {
		f, err := os.Open(cfgFile)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		buf, err = io.ReadAll(f)
		if err != nil {
			return nil, fmt.Errorf("file: %q: %v", cfgFile, err)
		}
	}

	docNode := yaml.Node{}
	if err := yaml.Unmarshal(buf, &docNode); err != nil {
		return nil, fmt.Errorf("file: %q: %v", cfgFile, err)
	}

	cfg := DefaultQuarkTSConfig()
	if docNode.Kind == yaml.DocumentNode && len(docNode.Content) > 0 {
		rootNode := docNode.Content[0]
		if rootNode.Kind != yaml.MappingNode {
			return nil, fmt.Errorf("file: %q: invalid YAML root node %q", cfgFile, rootNode.Tag)
		}
		var toCfg any
		for _, n := range rootNode.Content {
			if n.Kind == yaml.ScalarNode {
				if n.Value == QUARKTS_CONFIG_SECTION_NAME {
					toCfg = cfg
				} else {
					toCfg = nil
				}
				continue
			}
			if n.Kind == yaml.MappingNode && toCfg != nil {
				if err := n.Decode(toCfg); err != nil {
					return nil, fmt.Errorf("file: %q: %v", cfgFile, err)
				}
			}
			toCfg = nil
		}
	}

	if err := cfg.SchedulerConfig.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}
