package compressor

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/dendrascience/precompress/codec"
	"github.com/dendrascience/precompress/pool"
	"github.com/dendrascience/precompress/util"
)

// ErrAlreadyRun is returned when Run is called a second time.
var ErrAlreadyRun = errors.New("compressor has already been run")

type options struct {
	workers        int
	maxConcurrency int
	observer       Observer
	logger         Logger
	walkOpts       []util.WalkOption
	runID          string
}

// Option configures a Compressor.
type Option func(*options)

// WithWorkers sets how many goroutines execute tasks. Zero means one per CPU.
func WithWorkers(n int) Option {
	return func(o *options) { o.workers = n }
}

// WithMaxConcurrency caps how many tasks execute at once. Zero means no cap
// beyond the worker count.
func WithMaxConcurrency(n int) Option {
	return func(o *options) { o.maxConcurrency = n }
}

// WithObserver registers a progress observer.
func WithObserver(obs Observer) Option {
	return func(o *options) {
		if obs != nil {
			o.observer = obs
		}
	}
}

// WithLogger sets the logger. A nil logger discards everything.
func WithLogger(l Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithWalkOptions passes options through to util.Files.
func WithWalkOptions(opts ...util.WalkOption) Option {
	return func(o *options) { o.walkOpts = append(o.walkOpts, opts...) }
}

// WithRunID overrides the generated run ID.
func WithRunID(id string) Option {
	return func(o *options) { o.runID = id }
}

// Compressor compresses every regular file under a root with every codec of
// a set. A Compressor runs once.
type Compressor struct {
	root   string
	codecs codec.Set
	opts   options

	state      atomic.Int32
	discovered atomic.Int64
	completed  atomic.Int64
}

// New validates root and builds a Compressor. An invalid root is reported as
// a *util.ConfigError before anything is read.
func New(root string, codecs codec.Set, opts ...Option) (*Compressor, error) {
	if err := util.ValidateRoot(root); err != nil {
		return nil, err
	}
	if codecs.Len() == 0 {
		return nil, codec.ErrEmptySet
	}
	o := options{
		observer: nopObserver{},
		logger:   nopLogger{},
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.runID == "" {
		o.runID = uuid.NewString()
	}
	return &Compressor{root: root, codecs: codecs, opts: o}, nil
}

// Root returns the directory being compressed.
func (c *Compressor) Root() string { return c.root }

// RunID identifies this run in logs and summaries.
func (c *Compressor) RunID() string { return c.opts.runID }

// State returns the current phase.
func (c *Compressor) State() State { return State(c.state.Load()) }

// Snapshot reads the progress counters. It is safe from any goroutine.
func (c *Compressor) Snapshot() Snapshot {
	// completed first, so a concurrent reader never sees it ahead of discovered
	completed := c.completed.Load()
	return Snapshot{Discovered: c.discovered.Load(), Completed: completed}
}

// Run walks the root, submits one task per regular file, waits for every
// task, and returns the summary.
//
// Codec failures never stop the run; they are reported in the summary. If ctx
// is cancelled while scanning, no more files are discovered, but the tasks
// already submitted are still drained and ctx.Err() is returned with the
// summary.
func (c *Compressor) Run(ctx context.Context) (Summary, error) {
	if !c.state.CompareAndSwap(int32(Idle), int32(Scanning)) {
		return Summary{}, ErrAlreadyRun
	}
	start := time.Now()
	log := c.opts.logger
	obs := c.opts.observer

	summary := Summary{RunID: c.opts.runID, Root: c.root}
	obs.OnStart(c.root)
	log.Infof("Compressing %s with %v (run %s)", c.root, c.codecs.Names(), c.opts.runID)

	p := pool.New[TaskResult](
		pool.WithWorkers(c.opts.workers),
		pool.WithMaxConcurrency(c.opts.maxConcurrency),
	)
	paths := make(map[*pool.Handle[TaskResult]]string)

	walkOpts := append([]util.WalkOption{
		util.OnWalkError(func(path string, err error) {
			log.Debugf("Skipping %s: %v", path, err)
		}),
	}, c.opts.walkOpts...)

	var runErr error
	for path := range util.Files(c.root, walkOpts...) {
		if err := ctx.Err(); err != nil {
			runErr = err
			break
		}
		c.discovered.Add(1)
		obs.OnProgress(c.Snapshot())

		task := Task{Path: path, Codecs: c.codecs}
		paths[p.Submit(task.Run)] = path
	}
	if runErr == nil {
		runErr = ctx.Err()
	}
	if runErr != nil {
		log.Warnf("Stopped scanning after %d files: %v", c.discovered.Load(), runErr)
	}

	c.state.Store(int32(Draining))
	log.Debugf("Discovered %d files, waiting for outstanding tasks", c.discovered.Load())
	for {
		h, err := p.Next(context.Background())
		if errors.Is(err, pool.ErrIdle) {
			break
		}
		result, err := h.Result()
		if err != nil {
			result = TaskResult{Path: paths[h], Err: err}
		}
		delete(paths, h)

		c.record(&summary, result)
		c.completed.Add(1)
		obs.OnProgress(c.Snapshot())
		obs.OnTaskDone(result)
	}

	if err := p.Close(context.Background()); err != nil {
		log.Warnf("Failed to close worker pool: %v", err)
	}
	c.state.Store(int32(Done))

	summary.Discovered = c.discovered.Load()
	summary.Completed = c.completed.Load()
	summary.Duration = time.Since(start)
	obs.OnFinish(summary)
	return summary, runErr
}

func (c *Compressor) record(s *Summary, r TaskResult) {
	log := c.opts.logger
	if r.Err != nil {
		log.Warnf("Failed to compress %s: %v", r.Path, r.Err)
		s.Encodes += int64(c.codecs.Len())
		s.Failures += int64(c.codecs.Len())
		s.FailedFiles = append(s.FailedFiles, r.Path)
		return
	}

	failed, sized := false, false
	for _, o := range r.Outcomes {
		s.Encodes++
		if !o.OK() {
			s.Failures++
			failed = true
			log.Warnf("Failed to compress %s: %v", r.Path, o.Err)
			continue
		}
		if !sized {
			s.SourceBytes += o.BytesIn
			sized = true
		}
		s.BytesIn += o.BytesIn
		s.BytesOut += o.BytesOut
	}
	if failed {
		s.FailedFiles = append(s.FailedFiles, r.Path)
		return
	}
	log.Debugf("Compressed %s", r.Path)
}

// String renders the summary as a single log line.
func (s Summary) String() string {
	return fmt.Sprintf("%d/%d files (%d bytes), %d encodes, %d failures, %d -> %d bytes (%.1f%%) in %s",
		s.Completed, s.Discovered, s.SourceBytes, s.Encodes, s.Failures, s.BytesIn, s.BytesOut,
		s.Ratio()*100, s.Duration.Round(time.Millisecond))
}
