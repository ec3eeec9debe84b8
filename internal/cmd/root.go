package cmd

import (
	"github.com/spf13/cobra"

	"github.com/dendrascience/precompress/version"
)

// NewRootCmd creates and returns the root cobra command for the precompress CLI.
// It sets up all subcommands and command groups. Called with a single
// DIRECTORY and no subcommand it behaves like "compress DIRECTORY".
func NewRootCmd() *cobra.Command {
	opts := &compressOptions{}

	rootCmd := &cobra.Command{
		Use:   "precompress [DIRECTORY]",
		Short: "precompress - compress every file in a directory tree with several codecs",
		Long: `precompress walks a directory tree and writes a compressed copy of every
regular file next to it, once per codec (brotli, deflate, gzip and zstd by
default), so a static file server can pick whichever encoding a client accepts.

Use subcommands to perform different operations:
  - compress: Compress a directory tree (also the default action)
  - verify: Check that every artifact decodes back to its source
  - count: Count the files a run would compress
  - seed: Generate a test tree for benchmarking`,
		Version:      version.GetFullVersion(),
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return missingDirectory(cmd, nil)
			}
			return runCompress(cmd, args[0], opts)
		},
	}
	opts.bind(rootCmd)

	groupCompression := "compression"
	groupUtilities := "utilities"

	rootCmd.AddGroup(&cobra.Group{
		ID:    groupCompression,
		Title: "Compression",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    groupUtilities,
		Title: "Utility Commands",
	})

	compressCmd := NewCompressCmd()
	verifyCmd := NewVerifyCmd()
	countCmd := NewCountCmd()
	seedCmd := NewSeedCmd()

	compressCmd.GroupID = groupCompression
	verifyCmd.GroupID = groupCompression
	countCmd.GroupID = groupUtilities
	seedCmd.GroupID = groupUtilities

	rootCmd.AddCommand(compressCmd)
	rootCmd.AddCommand(verifyCmd)
	rootCmd.AddCommand(countCmd)
	rootCmd.AddCommand(seedCmd)

	return rootCmd
}
