// Package compressor drives a compression run over a directory tree.
//
// A run moves through four states:
//
//	Idle → Scanning → Draining → Done
//
// While Scanning, files are pulled one at a time from util.Files. Each one
// bumps the discovered counter, emits a Snapshot and is submitted to a
// pool.Pool as a single Task carrying every codec. Submission never blocks,
// so discovery runs ahead of compression; the pool's concurrency cap bounds
// how many tasks actually execute.
//
// Once the walk ends the run is Draining: tasks are collected in completion
// order, each bumping the completed counter and emitting a Snapshot. When
// nothing is outstanding the pool is closed, the run is Done and the Summary
// is reported.
//
// Percentages seen during Scanning are provisional since the denominator is
// still growing. A codec failure is recorded and logged but never aborts the
// run or the other codecs for the same file.
package compressor
