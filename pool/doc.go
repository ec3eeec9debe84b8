// Package pool runs submitted work on a fixed set of worker goroutines while
// capping how many work items execute at the same time.
//
// The two limits are independent:
//   - Workers: how many goroutines pull work off the queue (WithWorkers).
//   - Max concurrency: how many permits a work item must share before it may
//     run (WithMaxConcurrency). Zero means effectively unbounded, so only the
//     worker count applies.
//
// Submit never blocks. Work is queued on an unbounded FIFO, so far more work
// can be queued than can run, while CPU, memory and open files stay bounded
// by the permit count.
//
// Every work item takes one permit before it starts and gives it back in a
// deferred release, including when the work panics. A panic resolves the
// handle with a *PanicError instead of crashing the process.
//
// Handles can be awaited one by one (Handle.Wait) or in completion order
// (Pool.Next). Close waits for every submitted handle before tearing the
// workers down; Shutdown abandons queued work immediately.
package pool
