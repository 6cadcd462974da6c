//go:build unix

// Host tick hint and idle-task host stats: out of scope per spec.md §1
// (the scheduler's notion of time is Tick() calls, not wall clock) but
// wired in as SPEC_FULL.md §2's C11 "Host tick hint" component, so that the pack's go-sysconf/go-osstat dependencies have a
// concrete home rather than sitting unused in go.mod.
//
// Grounded on internal/clktck_unix.go's go-sysconf usage (same import,
// same build tag), extended with mackerelio/go-osstat for the load/uptime
// figures cmd/quarkdemo prints from its idle callback.

package quarkts_internal

import (
	"time"

	"github.com/mackerelio/go-osstat/loadavg"
	"github.com/mackerelio/go-osstat/uptime"
	"github.com/tklauser/go-sysconf"
)

// SysClockTicksPerSecond reports SC_CLK_TCK, the host's notion of a clock
// tick. It's a reasonable default tick period for a host-driven demo, not a
// value the scheduler itself depends on.
func SysClockTicksPerSecond() (int64, error) {
	return sysconf.Sysconf(sysconf.SC_CLK_TCK)
}

// HostLoad is a snapshot of host load/uptime suitable for logging from an
// idle-task callback, exactly the kind of low-frequency, best-effort info an
// idle hook is meant for.
type HostLoad struct {
	Load1, Load5, Load15 float64
	Uptime               time.Duration
}

// GetHostLoad reads the host's current load averages and uptime. Either
// figure may be zero-valued (with a non-nil error) on platforms where the
// underlying proc file is unavailable; callers in a demo context should log
// and continue rather than treat this as fatal.
func GetHostLoad() (HostLoad, error) {
	var hl HostLoad
	la, err := loadavg.Get()
	if err != nil {
		return hl, err
	}
	hl.Load1, hl.Load5, hl.Load15 = la.Loadavg1, la.Loadavg5, la.Loadavg15
	up, err := uptime.Get()
	if err != nil {
		return hl, err
	}
	hl.Uptime = up
	return hl, nil
}
