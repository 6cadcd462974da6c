// Portable fallback tick driver for hosts without ClockNanosleep: a plain
// time.Ticker. Good enough off Linux; it is not immune to the occasional
// skipped tick under load, which the absolute-deadline Linux driver avoids.

//go:build !linux

package main

import "time"

type tickDriver struct {
	ticker *time.Ticker
}

func newTickDriver(period time.Duration) *tickDriver {
	return &tickDriver{ticker: time.NewTicker(period)}
}

func (d *tickDriver) wait() {
	<-d.ticker.C
}
