package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"runtime"
	"sync/atomic"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/dendrascience/precompress/codec"
	"github.com/dendrascience/precompress/internal/config"
	"github.com/dendrascience/precompress/internal/logger"
	"github.com/dendrascience/precompress/util"
)

// ErrVerifyFailed is returned when at least one artifact does not match.
var ErrVerifyFailed = errors.New("verification failed")

// NewVerifyCmd creates and returns the verify subcommand.
// It checks that every artifact decodes back to its source.
func NewVerifyCmd() *cobra.Command {
	var (
		configPath string
		codecs     []string
		workers    int
		verbose    bool
		strict     bool
	)

	cmd := &cobra.Command{
		Use:   "verify DIRECTORY",
		Short: "Verify that every artifact decodes back to its source",
		Long: `Verify the artifacts written by compress.

For every source file under DIRECTORY, each configured codec's artifact is
decoded and its SHA-256 compared with the source's. Missing artifacts are
counted and, with --strict, treated as failures. Exits non-zero when
DIRECTORY is not an absolute path to a directory, or when any artifact is
corrupt or does not match.`,
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			cfg.MergeWithFlags(config.Overrides{Codecs: codecs})
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("invalid configuration: %w", err)
			}
			if workers <= 0 {
				workers = runtime.NumCPU()
			}
			level := cfg.LogLevel
			if verbose {
				level = "debug"
			}
			log := logger.NewConsoleLogger(cmd.ErrOrStderr(), level)
			set, err := cfg.CodecSet()
			if err != nil {
				return err
			}
			if err := util.ValidateRoot(args[0]); err != nil {
				fmt.Fprintln(cmd.OutOrStdout(), missingDirectoryMessage)
				return fmt.Errorf("%w: %w", ErrVerifyFailed, err)
			}

			report, err := runVerify(cmd.Context(), args[0], set, workers, log)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "\nVerification complete:\n")
			fmt.Fprintf(out, "  Sources checked: %d\n", report.sources)
			fmt.Fprintf(out, "  Artifacts verified: %d\n", report.verified)
			fmt.Fprintf(out, "  Missing artifacts: %d\n", report.missing)
			fmt.Fprintf(out, "  Failed artifacts: %d\n", report.failed)

			if report.failed > 0 || (strict && report.missing > 0) {
				return ErrVerifyFailed
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "Path to config file (default ./"+config.DefaultFileName+")")
	cmd.Flags().StringSliceVarP(&codecs, "codecs", "c", nil, "Codecs to verify (default from config)")
	cmd.Flags().IntVarP(&workers, "workers", "w", 0, "Files verified in parallel (0 = one per CPU)")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Log every verified artifact")
	cmd.Flags().BoolVar(&strict, "strict", false, "Treat missing artifacts as failures")

	return cmd
}

type verifyReport struct {
	sources  int64
	verified int64
	missing  int64
	failed   int64
}

func runVerify(ctx context.Context, root string, set codec.Set, workers int, log *logger.ConsoleLogger) (verifyReport, error) {
	var sources, verified, missing, failed atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for path := range util.Files(root, util.ExcludeSuffixes(set.Suffixes()...)) {
		if gctx.Err() != nil {
			break
		}
		sources.Add(1)
		g.Go(func() error {
			for _, c := range set.Codecs() {
				err := codec.Verify(path, c)
				switch {
				case err == nil:
					verified.Add(1)
					log.Debugf("OK %s", codec.OutputPath(path, c))
				case errors.Is(err, fs.ErrNotExist):
					missing.Add(1)
					log.Debugf("Missing %s", codec.OutputPath(path, c))
				default:
					failed.Add(1)
					log.Errorf("%s: %v", path, err)
				}
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return verifyReport{}, err
	}
	if err := ctx.Err(); err != nil {
		return verifyReport{}, err
	}
	return verifyReport{
		sources:  sources.Load(),
		verified: verified.Load(),
		missing:  missing.Load(),
		failed:   failed.Load(),
	}, nil
}
