// Package cmd provides the command-line interface implementation for precompress.
//
// It uses the Cobra library for command structure and Fang for styling.
//
// The package is organized into the following commands:
//   - root: Entry point; "precompress DIRECTORY" runs compress
//   - compress: Compress a directory tree with every configured codec
//   - verify: Decode artifacts and compare them with their sources
//   - count: Count the files a run would process
//   - seed: Generate a test tree for benchmarking
//
// Each command is implemented in its own file with a constructor returning a
// *cobra.Command. Configuration comes from internal/config, with flags taking
// precedence over the config file.
package cmd
