package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/dendrascience/precompress/codec"
	"github.com/dendrascience/precompress/util"
)

// NewCountCmd creates and returns the count subcommand.
// It counts the files a compress run would pick up.
func NewCountCmd() *cobra.Command {
	var (
		path         string
		showProgress bool
		all          bool
	)

	cmd := &cobra.Command{
		Use:   "count [PATH]",
		Short: "Count the files a compress run would process",
		Long: `Count the regular files in a directory tree.

Uses the same rules as compress: symlinks, sockets, devices and pipes are
ignored, unreadable entries are skipped, and existing artifacts are left out
unless --all is given.`,
		Args: cobra.MaximumNArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) > 0 {
				path = args[0]
			}
			runCount(cmd.OutOrStdout(), path, showProgress, all)
		},
	}

	cmd.Flags().StringVarP(&path, "path", "p", "./", "Path to count files in")
	cmd.Flags().BoolVar(&showProgress, "progress", false, "Show progress every 10,000 files")
	cmd.Flags().BoolVarP(&all, "all", "a", false, "Include existing artifacts (.br, .deflate, .gz, .zstd)")

	return cmd
}

func runCount(out io.Writer, path string, showProgress, all bool) int {
	if err := util.ValidateDir(path); err != nil {
		fmt.Fprintf(out, "Error counting files: %v\n", err)
		return 0
	}
	var opts []util.WalkOption
	if !all {
		opts = append(opts, util.ExcludeSuffixes(codec.Default().Suffixes()...))
	}

	count := 0
	for range util.Files(path, opts...) {
		count++
		if showProgress && count%10000 == 0 {
			fmt.Fprintf(out, "Progress: %d files counted\n", count)
		}
	}

	fmt.Fprintf(out, "Total files: %d\n", count)
	return count
}
