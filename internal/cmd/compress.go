package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dendrascience/precompress/compressor"
	"github.com/dendrascience/precompress/internal/config"
	"github.com/dendrascience/precompress/internal/logger"
	"github.com/dendrascience/precompress/internal/progress"
	"github.com/dendrascience/precompress/util"
)

const missingDirectoryMessage = "Please specify an absolute path to a directory"

// compressOptions holds the flags shared by the root and compress commands.
type compressOptions struct {
	configPath     string
	maxConcurrency int
	workers        int
	codecs         []string
	skipArtifacts  bool
	logLevel       string
	progress       string
	lock           bool
}

func (o *compressOptions) bind(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&o.configPath, "config", "", "Path to config file (default ./"+config.DefaultFileName+")")
	f.IntVarP(&o.maxConcurrency, "max-concurrency", "j", 0, "Maximum files compressed at once (0 = unlimited)")
	f.IntVarP(&o.workers, "workers", "w", 0, "Number of worker goroutines (0 = one per CPU)")
	f.StringSliceVarP(&o.codecs, "codecs", "c", nil, "Codecs to run, in order (br, deflate, gzip, zstd)")
	f.BoolVar(&o.skipArtifacts, "skip-artifacts", true, "Skip files that already carry a codec suffix")
	f.StringVarP(&o.logLevel, "log-level", "l", "info", "Log level (trace, debug, info, warn, error)")
	f.StringVar(&o.progress, "progress", config.ProgressAuto, "Progress display (auto, always, never)")
	f.BoolVar(&o.lock, "lock", true, "Refuse to run while another precompress run holds the directory")
}

// overrides returns only the flags that were set on the command line.
func (o *compressOptions) overrides(cmd *cobra.Command) config.Overrides {
	var ov config.Overrides
	f := cmd.Flags()
	if f.Changed("max-concurrency") {
		ov.MaxConcurrency = &o.maxConcurrency
	}
	if f.Changed("workers") {
		ov.Workers = &o.workers
	}
	if f.Changed("codecs") {
		ov.Codecs = o.codecs
	}
	if f.Changed("skip-artifacts") {
		ov.SkipArtifacts = &o.skipArtifacts
	}
	if f.Changed("log-level") {
		ov.LogLevel = &o.logLevel
	}
	if f.Changed("progress") {
		ov.Progress = &o.progress
	}
	if f.Changed("lock") {
		ov.Lock = &o.lock
	}
	return ov
}

// NewCompressCmd creates and returns the compress subcommand.
func NewCompressCmd() *cobra.Command {
	opts := &compressOptions{}

	cmd := &cobra.Command{
		Use:   "compress DIRECTORY",
		Short: "Compress every file under DIRECTORY with every codec",
		Long: `Compress every regular file under DIRECTORY, writing one artifact per codec
next to the source (data.json -> data.json.br, data.json.gz, ...).

DIRECTORY must be an absolute path. Files are discovered lazily and handed to a
bounded worker pool; --max-concurrency caps how many files are compressed at
once regardless of how many are waiting. A failing codec is reported but never
stops the run.

With skip_artifacts (on by default), files already ending in a codec suffix
(.br, .deflate, .gz, .zstd) are not discovered or compressed, so reruns never
compress artifacts again. Pre-compressed inputs with those suffixes are
therefore left alone; use --skip-artifacts=false to include them.

Settings are read from --config or ./` + config.DefaultFileName + `; flags win over the file.`,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return missingDirectory(cmd, nil)
			}
			return runCompress(cmd, args[0], opts)
		},
	}
	opts.bind(cmd)

	return cmd
}

// missingDirectory prints the usage diagnostic. The exit status stays 0.
func missingDirectory(cmd *cobra.Command, cause error) error {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, missingDirectoryMessage)
	if cause != nil {
		fmt.Fprintf(out, "  %v\n", cause)
	}
	return nil
}

// loadConfig reads path, or ./precompress.yaml when path is empty. An
// explicitly named file must exist.
func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.LoadConfig(config.DefaultFileName)
	}
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return config.LoadConfig(path)
}

func runCompress(cmd *cobra.Command, dir string, opts *compressOptions) error {
	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		return err
	}
	cfg.MergeWithFlags(opts.overrides(cmd))
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	log := logger.NewConsoleLogger(cmd.ErrOrStderr(), cfg.LogLevel)
	set, err := cfg.CodecSet()
	if err != nil {
		return err
	}

	var walkOpts []util.WalkOption
	if cfg.SkipArtifacts {
		walkOpts = append(walkOpts, util.ExcludeSuffixes(set.Suffixes()...))
	}

	c, err := compressor.New(dir, set,
		compressor.WithWorkers(cfg.Workers),
		compressor.WithMaxConcurrency(cfg.MaxConcurrency),
		compressor.WithLogger(log),
		compressor.WithObserver(progress.NewRenderer(cmd.OutOrStdout(), cfg.Progress, log)),
		compressor.WithWalkOptions(walkOpts...),
	)
	if util.IsConfigError(err) {
		return missingDirectory(cmd, err)
	}
	if err != nil {
		return err
	}

	if cfg.Lock {
		lock, err := util.AcquireRunLock(dir)
		if err != nil {
			return err
		}
		defer lock.Release()
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	_, err = c.Run(ctx)
	if errors.Is(err, context.Canceled) {
		return fmt.Errorf("interrupted: %w", err)
	}
	return err
}
