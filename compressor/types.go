package compressor

import (
	"context"
	"time"

	"github.com/dendrascience/precompress/codec"
)

// State is the phase of a run.
type State int32

const (
	Idle State = iota
	Scanning
	Draining
	Done
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Scanning:
		return "scanning"
	case Draining:
		return "draining"
	case Done:
		return "done"
	default:
		return "unknown"
	}
}

// Task binds one discovered file to the full codec set. A task is never
// split: every codec for the file runs inside the same pool slot.
type Task struct {
	Path   string
	Codecs codec.Set
}

// Run applies every codec to the task's file.
func (t Task) Run(ctx context.Context) TaskResult {
	return TaskResult{Path: t.Path, Outcomes: t.Codecs.Apply(ctx, t.Path)}
}

// TaskResult holds one outcome per codec, in codec order. Err is set when
// the task itself did not run to completion, such as after a panic.
type TaskResult struct {
	Path     string
	Outcomes []codec.Outcome
	Err      error
}

// Failed returns the outcomes whose encode did not succeed.
func (r TaskResult) Failed() []codec.Outcome {
	var failed []codec.Outcome
	for _, o := range r.Outcomes {
		if !o.OK() {
			failed = append(failed, o)
		}
	}
	return failed
}

// OK reports whether every codec succeeded.
func (r TaskResult) OK() bool {
	return r.Err == nil && len(r.Failed()) == 0
}

// Snapshot is a consistent view of the progress counters.
// Completed never exceeds Discovered.
type Snapshot struct {
	Discovered int64
	Completed  int64
}

// Percent is the integer percentage of discovered files that are complete.
// While the run is still scanning it is provisional, since more files may be
// discovered. It is 0 when nothing has been discovered.
func (s Snapshot) Percent() int {
	if s.Discovered <= 0 {
		return 0
	}
	return int(s.Completed * 100 / s.Discovered)
}

// Summary describes a finished run.
type Summary struct {
	RunID      string
	Root       string
	Discovered int64
	Completed  int64
	// Encodes counts codec invocations; Failures counts the ones that failed.
	Encodes     int64
	Failures    int64
	FailedFiles []string
	// SourceBytes is the size of every fully read source file, counted once
	// per file. BytesIn is the bytes read across all successful encodes, so
	// it is roughly SourceBytes times the number of codecs.
	SourceBytes int64
	BytesIn     int64
	BytesOut    int64
	Duration    time.Duration
}

// Ratio is BytesOut over BytesIn, across all successful encodes. It is the
// average artifact size relative to its source.
func (s Summary) Ratio() float64 {
	if s.BytesIn == 0 {
		return 0
	}
	return float64(s.BytesOut) / float64(s.BytesIn)
}

// Observer receives progress from a run. All methods are called from the
// goroutine running Compressor.Run, in order.
type Observer interface {
	OnStart(root string)
	OnProgress(s Snapshot)
	OnTaskDone(r TaskResult)
	OnFinish(s Summary)
}

// Logger is the logging surface the compressor needs.
type Logger interface {
	Debugf(format string, args ...any)
	Infof(format string, args ...any)
	Warnf(format string, args ...any)
}

type nopObserver struct{}

func (nopObserver) OnStart(string)        {}
func (nopObserver) OnProgress(Snapshot)   {}
func (nopObserver) OnTaskDone(TaskResult) {}
func (nopObserver) OnFinish(Summary)      {}

type nopLogger struct{}

func (nopLogger) Debugf(string, ...any) {}
func (nopLogger) Infof(string, ...any)  {}
func (nopLogger) Warnf(string, ...any)  {}
