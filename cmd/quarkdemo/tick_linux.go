// Linux tick driver: absolute-deadline ClockNanosleep on CLOCK_MONOTONIC,
// which does not accumulate the scheduling jitter a relative sleep loop
// would (each wait is computed from the fixed start epoch, not from the
// previous wakeup).

//go:build linux

package main

import (
	"time"

	"golang.org/x/sys/unix"
)

type tickDriver struct {
	period   time.Duration
	deadline unix.Timespec
}

func newTickDriver(period time.Duration) *tickDriver {
	var now unix.Timespec
	if err := unix.ClockGettime(unix.CLOCK_MONOTONIC, &now); err != nil {
		return &tickDriver{period: period}
	}
	return &tickDriver{period: period, deadline: now}
}

// wait blocks until the next tick boundary and advances the deadline by one
// period, regardless of how long the previous sweep took.
func (d *tickDriver) wait() {
	if d.deadline == (unix.Timespec{}) {
		time.Sleep(d.period)
		return
	}
	d.deadline = unix.NsecToTimespec(d.deadline.Nano() + d.period.Nanoseconds())
	for {
		err := unix.ClockNanosleep(unix.CLOCK_MONOTONIC, unix.TIMER_ABSTIME, &d.deadline, nil)
		if err == nil || err != unix.EINTR {
			return
		}
	}
}
