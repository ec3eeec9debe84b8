// Package util provides the filesystem building blocks for precompress.
//
// Key Components:
//
// Traversal:
//   - Files lazily yields every regular file under a root as an iter.Seq
//   - ValidateRoot reports unusable roots as a *ConfigError before any walk
//   - Partial artifact files (PartialMarker) are never yielded
//
// Writing:
//   - AtomicCreate / Commit / Abort publish artifacts via temp file and rename
//
// Hashing:
//   - SHA-256 of files, readers and strings; Bucket spreads names with a
//     color hash
//
// Locking:
//   - AcquireRunLock takes an advisory flock per root in the OS temp dir
package util
