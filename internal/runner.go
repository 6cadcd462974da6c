// Runner: the bootstrap glue between a cmd/ main() and the library —
// parses the command line, loads the YAML config, wires up the logger, and
// builds a ready-to-drive Scheduler. Distinct from Scheduler.Run, which is
// the per-sweep cooperative step; Bootstrap and WaitForShutdownSignal here
// are "set everything up" and "wait for a shutdown signal".
//
// Grounded on the teacher's internal/runner.go: flag vars declared at
// package scope so they are parsed once by main, FormatFlagUsage-wrapped
// help text, a stopped shutdown timer armed only once a signal arrives, and
// the --version short-circuit. The HTTP/compressor-pool/metrics-generator
// machinery that runner.go orchestrated doesn't apply to an in-process
// scheduler library, so this file ends at "scheduler built, tasks are the
// caller's to add" rather than owning a generator registry.

package quarkts_internal

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"
)

const (
	CONFIG_FLAG_NAME         = "config"
	CONFIG_FILE_NAME_DEFAULT = "quarkts-config.yaml"
)

var (
	// Version and GitInfo are normally set via -ldflags by the build, same
	// as the teacher's Version/GitInfo globals.
	Version string
	GitInfo string
)

var (
	versionArg = flag.Bool(
		"version",
		false,
		FormatFlagUsage(`Print the version and exit`),
	)

	configFileArg = flag.String(
		CONFIG_FLAG_NAME,
		CONFIG_FILE_NAME_DEFAULT,
		FormatFlagUsage(`Config file to load`),
	)

	tickArg = flag.Duration(
		"tick",
		0,
		FormatFlagUsage(`Override the "scheduler_config.tick" config setting`),
	)

	logLevelArg = flag.String(
		"log-level",
		"",
		FormatFlagUsage(`Override the "log_config.level" config setting`),
	)
)

var runnerLog = NewCompLogger("runner")

// Bootstrap parses the command line (if not already parsed), loads the
// config file, applies command-line overrides, and sets up the root
// logger. It returns (nil, 0, true) when --version was passed, the same
// "print and exit cleanly" contract as the teacher's Run.
func Bootstrap() (cfg *QuarkTSConfig, exitCode int, done bool) {
	if !flag.Parsed() {
		flag.Parse()
	}

	if *versionArg {
		fmt.Fprintf(os.Stderr, "Version: %s, GitInfo: %s\n", Version, GitInfo)
		return nil, 0, true
	}

	cfg, err := LoadConfig(*configFileArg, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error loading config file %q: %v\n", *configFileArg, err)
		return nil, 1, true
	}

	if *tickArg > 0 {
		cfg.SchedulerConfig.Tick = *tickArg
	}
	if *logLevelArg != "" {
		cfg.LoggerConfig.Level = *logLevelArg
	}

	if err := SetLogger(cfg.LoggerConfig); err != nil {
		fmt.Fprintf(os.Stderr, "error setting up the logger: %v\n", err)
		return nil, 1, true
	}

	return cfg, 0, false
}

// NewSchedulerFromConfig builds a Scheduler sized per cfg.
func NewSchedulerFromConfig(cfg *QuarkTSConfig) *Scheduler {
	return NewScheduler(cfg.SchedulerConfig.QueueCapacity)
}

// WaitForShutdownSignal blocks until SIGINT or SIGTERM, then calls
// s.Release() so the next Scheduler.Run sweep fires the release callback
// and stops scheduling further work. shutdownMaxWait, if > 0, arms a
// watchdog that force-exits the process if the caller's own cleanup (run
// after this function returns) takes too long; the watchdog timer itself
// is stopped via the returned cancel func once cleanup completes, matching
// the teacher's "stopped timer, armed only after the signal" pattern.
func WaitForShutdownSignal(s *Scheduler, shutdownMaxWait time.Duration) (cancelWatchdog func()) {
	shutdownTimer := time.NewTimer(time.Hour)
	shutdownTimer.Stop()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	sig := <-sigChan

	runnerLog.Warnf("%s signal received, releasing scheduler", sig)
	s.Release()

	if shutdownMaxWait > 0 {
		shutdownTimer.Reset(shutdownMaxWait)
		go func() {
			<-shutdownTimer.C
			runnerLog.Fatalf("shutdown timed out after %s, force exit", shutdownMaxWait)
		}()
	}

	return func() { shutdownTimer.Stop() }
}
