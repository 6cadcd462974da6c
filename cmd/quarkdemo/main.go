// quarkdemo is a small integrator example: it wires up a Scheduler from a
// config file, registers a few demo tasks (periodic, async event, FSM,
// ring-buffer-linked) plus idle and release callbacks, and drives it from a host tick loop until SIGINT/SIGTERM.
//
// Grounded on the teacher's reference/main.go: build-info update and
// source-path prefix registration in init(), Bootstrap/Run split between
// "load config, set up logging" and "drive the scheduler", os.Exit(code)
// at the very end of main.
package main

import (
	"fmt"
	"os"
	"time"

	quarkts "github.com/qrktasks/quarkts-go"
)

const demoInstance = "quarkdemo"

var mainLog = quarkts.NewCompLogger(demoInstance)

func init() {
	quarkts.AddCallerSrcPathPrefixToLogger(0)
	quarkts.UpdateBuildInfo(Version, GitInfo)
}

func main() {
	os.Exit(run())
}

func run() int {
	cfg, exitCode, done := quarkts.Bootstrap()
	if done {
		return exitCode
	}

	mainLog.Info("start")
	s := quarkts.NewSchedulerFromConfig(cfg)

	pool, err := quarkts.NewMemPoolFromSizeString(cfg.MemPoolConfig.BlockSize, cfg.MemPoolConfig.BlockCount)
	if err != nil {
		mainLog.Errorf("mempool setup: %v", err)
		return 1
	}

	registerBlinkTask(s)
	registerSensorTask(s, pool)
	registerTrafficLightTask(s)
	registerSampleBufferTask(s)
	registerIdleCallback(s)

	cancelWatchdog := func() {}
	shutdown := make(chan struct{})
	go func() {
		defer close(shutdown)
		cancelWatchdog = quarkts.WaitForShutdownSignal(s, 5*time.Second)
	}()

	driver := newTickDriver(cfg.SchedulerConfig.Tick)
	for {
		driver.wait()
		s.Tick()
		s.Run()
		if s.State() == quarkts.SchedulerStateReleased {
			break
		}
	}

	<-shutdown
	cancelWatchdog()
	mainLog.Info("stop")
	return 0
}

// registerBlinkTask demonstrates a plain periodic task (enabled at
// admission, Periodic iteration count): logs a line every 500 ticks, forever.
func registerBlinkTask(s *quarkts.Scheduler) {
	count := 0
	_, err := s.AddTask(10, 500, quarkts.Periodic, true, func(ev *quarkts.EventInfo) {
		count++
		mainLog.Infof("blink #%d", count)
	}, nil)
	if err != nil {
		mainLog.Errorf("blink task: %v", err)
	}
}

// registerSensorTask demonstrates an event-only task fed by SendAsync from a
// producer goroutine standing in for an interrupt handler. The producer
// formats each reading into a pool-backed scratch buffer, frees it, and sends
// the float64 reading itself as the payload.
func registerSensorTask(s *quarkts.Scheduler, pool *quarkts.MemPool) {
	t, err := s.AddEventTask(20, func(ev *quarkts.EventInfo) {
		reading, _ := ev.EventData.(float64)
		mainLog.Infof("sensor reading: %.2f", reading)
	}, nil)
	if err != nil {
		mainLog.Errorf("sensor task: %v", err)
		return
	}

	go func() {
		ticker := time.NewTicker(750 * time.Millisecond)
		defer ticker.Stop()
		for range ticker.C {
			handle, buf, err := pool.Alloc(8)
			if err != nil {
				continue
			}
			reading := simulatedSensorReading()
			copy(buf, fmt.Sprintf("%8.2f", reading))
			if err := pool.Free(handle); err != nil {
				mainLog.Warnf("mempool free: %v", err)
			}
			t.SendAsync(reading)
		}
	}()
}

func simulatedSensorReading() float64 {
	load, err := quarkts.GetHostLoad()
	if err != nil {
		return 0
	}
	return load.Load1
}

// registerTrafficLightTask demonstrates an FSM-driven task: a three-state
// cycle, one transition per firing.
func registerTrafficLightTask(s *quarkts.Scheduler) {
	var red, yellow, green quarkts.State

	red = func(fsm *quarkts.FSM) quarkts.StateStatus {
		mainLog.Info("light: red")
		fsm.NextState = green
		return quarkts.StatusSuccess
	}
	green = func(fsm *quarkts.FSM) quarkts.StateStatus {
		mainLog.Info("light: green")
		fsm.NextState = yellow
		return quarkts.StatusSuccess
	}
	yellow = func(fsm *quarkts.FSM) quarkts.StateStatus {
		mainLog.Info("light: yellow")
		fsm.NextState = red
		return quarkts.StatusSuccess
	}

	fsm := quarkts.NewFSM(red)
	_, err := s.AddFSMTask(15, 2000, quarkts.Periodic, true, fsm, nil)
	if err != nil {
		mainLog.Errorf("traffic light task: %v", err)
	}
}

// registerSampleBufferTask demonstrates a ring-buffer-linked task. RBCount
// fires while the buffer holds at most 4 samples (empty included), on every
// sweep; the callback only logs and does not drain the buffer, so once more
// than 4 samples have accumulated it stops firing.
func registerSampleBufferTask(s *quarkts.Scheduler) {
	rb, err := quarkts.NewRingBuffer[int](8)
	if err != nil {
		mainLog.Errorf("sample ring buffer: %v", err)
		return
	}

	t, err := s.AddEventTask(5, func(ev *quarkts.EventInfo) {
		mainLog.Infof("sample buffer count event, trigger=%v", ev.Trigger)
	}, nil)
	if err != nil {
		mainLog.Errorf("sample buffer task: %v", err)
		return
	}

	if err := quarkts.LinkRingBuffer(t, rb, quarkts.RBLinkCount, 4); err != nil {
		mainLog.Errorf("link sample ring buffer: %v", err)
		return
	}

	go func() {
		ticker := time.NewTicker(300 * time.Millisecond)
		defer ticker.Stop()
		n := 0
		for range ticker.C {
			n++
			rb.Push(n)
		}
	}()
}

// registerIdleCallback logs host load once per sweep in which nothing else
// fired, a housekeeping task in everything but name.
func registerIdleCallback(s *quarkts.Scheduler) {
	s.SetIdleCallback(func(ev *quarkts.EventInfo) {
		load, err := quarkts.GetHostLoad()
		if err != nil {
			return
		}
		mainLog.Debugf("idle: load1=%.2f uptime=%s", load.Load1, load.Uptime)
	})
	s.SetReleaseCallback(func(ev *quarkts.EventInfo) {
		mainLog.Info("scheduler released")
	})
}
