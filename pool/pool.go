package pool

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"
	"runtime/debug"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
)

var (
	// ErrShutdown resolves handles whose work was abandoned or rejected
	// because the pool was shut down.
	ErrShutdown = errors.New("pool: shut down")

	// ErrIdle is returned by Next when every submitted handle has already
	// been returned.
	ErrIdle = errors.New("pool: no outstanding work")
)

// PanicError is the error of a handle whose work panicked.
type PanicError struct {
	Value any
	Stack []byte
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("pool: work panicked: %v", e.Value)
}

// Work is a unit of work. ctx is cancelled when the pool is shut down.
type Work[T any] func(ctx context.Context) T

// Handle resolves when its work finishes, fails, or is abandoned.
type Handle[T any] struct {
	work  Work[T]
	done  chan struct{}
	value T
	err   error
}

// Done is closed once the handle is resolved.
func (h *Handle[T]) Done() <-chan struct{} { return h.done }

// Wait blocks until the handle resolves or ctx is done.
func (h *Handle[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-h.done:
		return h.value, h.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// Result returns the resolved value and error. It must only be called after
// Done is closed.
func (h *Handle[T]) Result() (T, error) {
	return h.value, h.err
}

// Stats is a point-in-time view of the pool's instrumentation counters.
type Stats struct {
	Workers        int
	MaxConcurrency int64
	Submitted      int64
	Finished       int64
	Queued         int
	Running        int64
	PeakRunning    int64
}

type options struct {
	workers        int
	maxConcurrency int64
}

// Option configures a Pool.
type Option func(*options)

// WithWorkers sets the number of worker goroutines. Values below 1 fall back
// to runtime.NumCPU().
func WithWorkers(n int) Option {
	return func(o *options) { o.workers = n }
}

// WithMaxConcurrency caps how many work items may run at once. Zero or a
// negative value leaves the cap effectively unbounded.
func WithMaxConcurrency(n int) Option {
	return func(o *options) { o.maxConcurrency = int64(n) }
}

// Pool is a bounded-concurrency executor. The zero value is not usable; use New.
type Pool[T any] struct {
	opts    options
	permits *semaphore.Weighted

	jobs      *fifo[*Handle[T]]
	completed *fifo[*Handle[T]]

	ctx    context.Context
	cancel context.CancelFunc

	workers sync.WaitGroup
	pending sync.WaitGroup

	mu       sync.Mutex
	closing  bool
	shutdown sync.Once

	submitted  atomic.Int64
	finished   atomic.Int64
	unreported atomic.Int64
	running    atomic.Int64
	peak       atomic.Int64
}

// New starts a pool and its worker goroutines.
func New[T any](opts ...Option) *Pool[T] {
	o := options{workers: runtime.NumCPU()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.workers < 1 {
		o.workers = runtime.NumCPU()
	}
	if o.maxConcurrency <= 0 {
		o.maxConcurrency = math.MaxInt64
	}

	ctx, cancel := context.WithCancel(context.Background())
	p := &Pool[T]{
		opts:      o,
		permits:   semaphore.NewWeighted(o.maxConcurrency),
		jobs:      newFIFO[*Handle[T]](),
		completed: newFIFO[*Handle[T]](),
		ctx:       ctx,
		cancel:    cancel,
	}

	p.workers.Add(o.workers)
	for range o.workers {
		go p.worker()
	}
	return p
}

// Submit queues work and returns its handle without blocking. Work submitted
// after Close or Shutdown resolves immediately with ErrShutdown.
func (p *Pool[T]) Submit(work Work[T]) *Handle[T] {
	h := &Handle[T]{work: work, done: make(chan struct{})}
	p.submitted.Add(1)
	p.unreported.Add(1)

	p.mu.Lock()
	if p.closing {
		p.mu.Unlock()
		p.resolve(h, ErrShutdown)
		return h
	}
	p.pending.Add(1)
	p.mu.Unlock()

	if !p.jobs.push(h) {
		p.finish(h, ErrShutdown)
	}
	return h
}

// Next returns the next handle to resolve, in completion order. It returns
// ErrIdle once every submitted handle has been returned.
func (p *Pool[T]) Next(ctx context.Context) (*Handle[T], error) {
	if p.unreported.Load() <= 0 {
		return nil, ErrIdle
	}
	h, ok := p.completed.pop(ctx)
	if !ok {
		return nil, ctx.Err()
	}
	p.unreported.Add(-1)
	return h, nil
}

// Running returns the number of work items executing right now.
func (p *Pool[T]) Running() int {
	return int(p.running.Load())
}

// Stats returns the pool's counters.
func (p *Pool[T]) Stats() Stats {
	return Stats{
		Workers:        p.opts.workers,
		MaxConcurrency: p.opts.maxConcurrency,
		Submitted:      p.submitted.Load(),
		Finished:       p.finished.Load(),
		Queued:         p.jobs.size(),
		Running:        p.running.Load(),
		PeakRunning:    p.peak.Load(),
	}
}

// Close stops accepting work, waits for every submitted handle to resolve,
// and then stops the workers. If ctx ends first the pool is shut down
// without waiting and ctx.Err() is returned.
func (p *Pool[T]) Close(ctx context.Context) error {
	p.mu.Lock()
	p.closing = true
	p.mu.Unlock()

	drained := make(chan struct{})
	go func() {
		p.pending.Wait()
		close(drained)
	}()

	select {
	case <-drained:
	case <-ctx.Done():
		p.Shutdown()
		return ctx.Err()
	}

	p.Shutdown()
	p.workers.Wait()
	return nil
}

// Shutdown tears the pool down without waiting. Queued work is abandoned and
// resolves with ErrShutdown; running work has its context cancelled and is
// not awaited. Callers that need every result must drain before calling it.
func (p *Pool[T]) Shutdown() {
	p.shutdown.Do(func() {
		p.mu.Lock()
		p.closing = true
		p.mu.Unlock()

		p.cancel()
		for _, h := range p.jobs.close() {
			p.finish(h, ErrShutdown)
		}
	})
}

func (p *Pool[T]) worker() {
	defer p.workers.Done()
	for {
		h, ok := p.jobs.pop(p.ctx)
		if !ok {
			return
		}
		p.run(h)
	}
}

func (p *Pool[T]) run(h *Handle[T]) {
	if err := p.permits.Acquire(p.ctx, 1); err != nil {
		p.finish(h, ErrShutdown)
		return
	}
	value, err := p.execute(h)
	h.value = value
	p.finish(h, err)
}

func (p *Pool[T]) execute(h *Handle[T]) (value T, err error) {
	defer p.permits.Release(1)

	p.trackPeak(p.running.Add(1))
	defer p.running.Add(-1)

	defer func() {
		if r := recover(); r != nil {
			err = &PanicError{Value: r, Stack: debug.Stack()}
		}
	}()
	return h.work(p.ctx), nil
}

func (p *Pool[T]) trackPeak(n int64) {
	for {
		peak := p.peak.Load()
		if n <= peak || p.peak.CompareAndSwap(peak, n) {
			return
		}
	}
}

// finish resolves a handle that was counted in pending.
func (p *Pool[T]) finish(h *Handle[T], err error) {
	p.resolve(h, err)
	p.pending.Done()
}

func (p *Pool[T]) resolve(h *Handle[T], err error) {
	h.err = err
	p.finished.Add(1)
	close(h.done)
	p.completed.push(h)
}
