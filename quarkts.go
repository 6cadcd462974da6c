// Package quarkts is the public face of the scheduler for its users; the
// actual implementation lives in internal/, following the same two-package
// (public re-export + internal implementation) split the teacher uses
// between its root package and vmi_internal.
package quarkts

import (
	"time"

	"github.com/sirupsen/logrus"

	internal "github.com/qrktasks/quarkts-go/internal"
)

// Core types, re-exported from internal so callers never import the
// internal package directly.
type (
	Scheduler       = internal.Scheduler
	SchedulerState  = internal.SchedulerState
	Task            = internal.Task
	TaskCallback    = internal.TaskCallback
	EventInfo       = internal.EventInfo
	Trigger         = internal.Trigger
	CriticalSection = internal.CriticalSection

	FSM       = internal.FSM
	State     = internal.State
	SubState  = internal.SubState

	RingBuffer = internal.RingBuffer[any]
	EventQueue = internal.EventQueue
	RBLinkMode = internal.RBLinkMode

	STimer  = internal.STimer
	MemPool = internal.MemPool

	QuarkTSConfig   = internal.QuarkTSConfig
	SchedulerConfig = internal.SchedulerConfig
	LoggerConfig    = internal.LoggerConfig
	MemPoolConfig   = internal.MemPoolConfig

	HostLoad = internal.HostLoad
)

// Trigger, scheduling and priority sentinels, unchanged in meaning from
// spec.md.
const (
	Immediate   = internal.Immediate
	Periodic    = internal.Periodic
	Singleshot  = internal.Singleshot
	PriorityMin = internal.PriorityMin
	PriorityMax = internal.PriorityMax

	NoTrigger       = internal.NoTrigger
	TimeElapsed     = internal.TimeElapsed
	Async           = internal.Async
	QueueExtraction = internal.QueueExtraction
	RBFull          = internal.RBFull
	RBCount         = internal.RBCount
	RBAutoPop       = internal.RBAutoPop
	RBEmpty         = internal.RBEmpty
	Priority        = internal.Priority

	RBLinkNone    = internal.RBLinkNone
	RBLinkAutoPop = internal.RBLinkAutoPop
	RBLinkFull    = internal.RBLinkFull
	RBLinkCount   = internal.RBLinkCount
	RBLinkEmpty   = internal.RBLinkEmpty

	StatusSuccess = internal.StatusSuccess
	StatusFailure = internal.StatusFailure

	SchedulerStateIdle     = internal.SchedulerStateIdle
	SchedulerStateRunning  = internal.SchedulerStateRunning
	SchedulerStateReleased = internal.SchedulerStateReleased
)

// Version and GitInfo should be set (via -ldflags, typically) before the
// runner is invoked.
func UpdateBuildInfo(version, gitInfo string) {
	internal.Version = version
	internal.GitInfo = gitInfo
}

// NewScheduler builds a Scheduler with the given event-queue capacity (0
// disables the queue).
func NewScheduler(queueCapacity int) *Scheduler {
	return internal.NewScheduler(queueCapacity)
}

// NewFSM builds a finite state machine whose first transition runs
// initState.
func NewFSM(initState State) *FSM {
	return internal.NewFSM(initState)
}

// NewSTimer builds a software timer driven by s's own tick clock.
func NewSTimer(s *Scheduler) *STimer {
	return internal.NewSTimer(s.Clock())
}

// NewMemPool builds a fixed-block memory pool of numBlocks blocks of
// blockSize bytes each.
func NewMemPool(blockSize, numBlocks int) (*MemPool, error) {
	return internal.NewMemPool(blockSize, numBlocks)
}

// NewMemPoolFromSizeString is NewMemPool with blockSize given as a
// human-readable size ("64B", "1k", ...).
func NewMemPoolFromSizeString(blockSizeStr string, numBlocks int) (*MemPool, error) {
	return internal.NewMemPoolFromSizeString(blockSizeStr, numBlocks)
}

// GetHostLoad reports the host's load average and uptime, for use from an
// idle callback or a low-priority housekeeping task.
func GetHostLoad() (HostLoad, error) {
	return internal.GetHostLoad()
}

// LinkRingBuffer attaches rb to t under the given mode; see
// internal.LinkRingBuffer for the meaning of arg per mode.
func LinkRingBuffer[T any](t *Task, rb *internal.RingBuffer[T], mode RBLinkMode, arg uint32) error {
	return internal.LinkRingBuffer(t, rb, mode, arg)
}

// NewRingBuffer allocates a ring buffer of element type T.
func NewRingBuffer[T any](requestedCapacity int) (*internal.RingBuffer[T], error) {
	return internal.NewRingBuffer[T](requestedCapacity)
}

// LoadConfig loads a QuarkTSConfig from cfgFile (or from buf directly, for
// testing, when buf is non-nil).
func LoadConfig(cfgFile string, buf []byte) (*QuarkTSConfig, error) {
	return internal.LoadConfig(cfgFile, buf)
}

// Bootstrap parses the command line, loads the config file, and sets up the
// root logger. done is true when the caller should exit immediately with
// exitCode (e.g. --version was passed, or config loading failed).
func Bootstrap() (cfg *QuarkTSConfig, exitCode int, done bool) {
	return internal.Bootstrap()
}

// NewSchedulerFromConfig builds a Scheduler sized per cfg.
func NewSchedulerFromConfig(cfg *QuarkTSConfig) *Scheduler {
	return internal.NewSchedulerFromConfig(cfg)
}

// WaitForShutdownSignal blocks until SIGINT/SIGTERM, releases s, and arms a
// force-exit watchdog if shutdownMaxWait > 0. The returned func must be
// called once the caller's own cleanup completes, to disarm the watchdog.
func WaitForShutdownSignal(s *Scheduler, shutdownMaxWait time.Duration) (cancelWatchdog func()) {
	return internal.WaitForShutdownSignal(s, shutdownMaxWait)
}

// GetRootLogger exposes the root logger, mainly for tests using
// testutils.NewTestLogCollect.
func GetRootLogger() *internal.CollectableLogger { return internal.GetRootLogger() }

// NewCompLogger creates a component logger tagged with comp=compName.
func NewCompLogger(comp string) *logrus.Entry {
	return internal.NewCompLogger(comp)
}

// AddCallerSrcPathPrefixToLogger registers the caller's module path with the
// logger's source-path shortener; see internal.ModuleDirPathCache.
func AddCallerSrcPathPrefixToLogger(upNDirs int) error {
	return internal.AddCallerSrcPathPrefixToLogger(upNDirs, 1)
}
