// Package main provides the precompress command-line interface.
//
// precompress walks a directory tree and writes a compressed artifact next to
// every regular file, once per codec, so that a static file server can serve
// pre-encoded content:
//
//	precompress /srv/www
//
// The main binary supports multiple subcommands:
//   - compress: Compress a directory tree (the default action)
//   - verify: Check artifacts against their sources
//   - count: Count the files a run would process
//   - seed: Generate a test tree for benchmarking
package main
