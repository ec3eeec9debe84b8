package config

import (
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/dendrascience/precompress/codec"
	"github.com/dendrascience/precompress/internal/logger"
)

// DefaultFileName is looked up in the working directory when no --config
// flag is given.
const DefaultFileName = "precompress.yaml"

// Progress modes
const (
	ProgressAuto   = "auto"
	ProgressAlways = "always"
	ProgressNever  = "never"
)

// LevelsConfig holds per-codec compression levels. Zero keeps the codec default.
type LevelsConfig struct {
	Zstd    int `yaml:"zstd"`
	Brotli  int `yaml:"br"`
	Gzip    int `yaml:"gzip"`
	Deflate int `yaml:"deflate"`
}

// Config represents precompress configuration options
type Config struct {
	// MaxConcurrency caps how many files are compressed at once (0 = unlimited)
	MaxConcurrency int `yaml:"max_concurrency"`

	// Workers is the number of worker goroutines (0 = one per CPU)
	Workers int `yaml:"workers"`

	// Codecs lists the codecs to run, in order
	Codecs []string `yaml:"codecs"`

	// Levels sets the compression level of each codec
	Levels LevelsConfig `yaml:"levels"`

	// BrotliWindow is the log2 brotli window size
	BrotliWindow int `yaml:"brotli_window"`

	// SkipArtifacts excludes files that already carry a codec suffix
	SkipArtifacts bool `yaml:"skip_artifacts"`

	// LogLevel sets the logging verbosity (trace, debug, info, warn, error)
	LogLevel string `yaml:"log_level"`

	// Progress selects the progress display (auto, always, never)
	Progress string `yaml:"progress"`

	// Lock takes an advisory lock on the directory for the whole run
	Lock bool `yaml:"lock"`
}

// DefaultConfig returns a Config with the default values
func DefaultConfig() *Config {
	levels := codec.DefaultLevels()
	return &Config{
		MaxConcurrency: 0,
		Workers:        0,
		Codecs:         slices.Clone(codec.DefaultNames),
		Levels: LevelsConfig{
			Zstd:    levels.Zstd,
			Brotli:  levels.Brotli,
			Gzip:    levels.Gzip,
			Deflate: levels.Deflate,
		},
		BrotliWindow:  levels.BrotliWindow,
		SkipArtifacts: true,
		LogLevel:      "info",
		Progress:      ProgressAuto,
		Lock:          true,
	}
}

// LoadConfig loads configuration from the specified file path.
// If the file doesn't exist, returns default configuration without error.
// If the file exists but is malformed, returns an error.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// pointers tell an explicit false or zero apart from an absent key
	type yamlConfig struct {
		MaxConcurrency *int          `yaml:"max_concurrency"`
		Workers        *int          `yaml:"workers"`
		Codecs         []string      `yaml:"codecs"`
		Levels         *LevelsConfig `yaml:"levels"`
		BrotliWindow   *int          `yaml:"brotli_window"`
		SkipArtifacts  *bool         `yaml:"skip_artifacts"`
		LogLevel       string        `yaml:"log_level"`
		Progress       string        `yaml:"progress"`
		Lock           *bool         `yaml:"lock"`
	}

	var yamlCfg yamlConfig
	if err := yaml.Unmarshal(data, &yamlCfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if yamlCfg.MaxConcurrency != nil {
		cfg.MaxConcurrency = *yamlCfg.MaxConcurrency
	}
	if yamlCfg.Workers != nil {
		cfg.Workers = *yamlCfg.Workers
	}
	if len(yamlCfg.Codecs) > 0 {
		cfg.Codecs = yamlCfg.Codecs
	}
	if l := yamlCfg.Levels; l != nil {
		if l.Zstd != 0 {
			cfg.Levels.Zstd = l.Zstd
		}
		if l.Brotli != 0 {
			cfg.Levels.Brotli = l.Brotli
		}
		if l.Gzip != 0 {
			cfg.Levels.Gzip = l.Gzip
		}
		if l.Deflate != 0 {
			cfg.Levels.Deflate = l.Deflate
		}
	}
	if yamlCfg.BrotliWindow != nil {
		cfg.BrotliWindow = *yamlCfg.BrotliWindow
	}
	if yamlCfg.SkipArtifacts != nil {
		cfg.SkipArtifacts = *yamlCfg.SkipArtifacts
	}
	if yamlCfg.LogLevel != "" {
		cfg.LogLevel = yamlCfg.LogLevel
	}
	if yamlCfg.Progress != "" {
		cfg.Progress = yamlCfg.Progress
	}
	if yamlCfg.Lock != nil {
		cfg.Lock = *yamlCfg.Lock
	}

	return cfg, nil
}

// Overrides carries CLI flag values. Nil fields were not set on the command
// line and leave the configuration untouched.
type Overrides struct {
	MaxConcurrency *int
	Workers        *int
	Codecs         []string
	SkipArtifacts  *bool
	LogLevel       *string
	Progress       *string
	Lock           *bool
}

// MergeWithFlags applies CLI flags over the configuration, so flags take
// precedence over the config file.
func (c *Config) MergeWithFlags(o Overrides) {
	if o.MaxConcurrency != nil {
		c.MaxConcurrency = *o.MaxConcurrency
	}
	if o.Workers != nil {
		c.Workers = *o.Workers
	}
	if len(o.Codecs) > 0 {
		c.Codecs = o.Codecs
	}
	if o.SkipArtifacts != nil {
		c.SkipArtifacts = *o.SkipArtifacts
	}
	if o.LogLevel != nil {
		c.LogLevel = *o.LogLevel
	}
	if o.Progress != nil {
		c.Progress = *o.Progress
	}
	if o.Lock != nil {
		c.Lock = *o.Lock
	}
}

// CodecLevels converts the configured levels for codec.Build.
func (c *Config) CodecLevels() codec.Levels {
	return codec.Levels{
		Zstd:         c.Levels.Zstd,
		Brotli:       c.Levels.Brotli,
		Gzip:         c.Levels.Gzip,
		Deflate:      c.Levels.Deflate,
		BrotliWindow: c.BrotliWindow,
	}
}

// CodecSet builds the configured codecs.
func (c *Config) CodecSet() (codec.Set, error) {
	return codec.Build(c.Codecs, c.CodecLevels())
}

// Validate validates the configuration values
func (c *Config) Validate() error {
	if c.MaxConcurrency < 0 {
		return fmt.Errorf("max_concurrency must be >= 0, got %d", c.MaxConcurrency)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must be >= 0, got %d", c.Workers)
	}
	if !logger.ValidLevel(c.LogLevel) {
		return fmt.Errorf("invalid log_level %q, must be one of: trace, debug, info, warn, error", c.LogLevel)
	}
	switch c.Progress {
	case ProgressAuto, ProgressAlways, ProgressNever:
	default:
		return fmt.Errorf("invalid progress %q, must be one of: auto, always, never", c.Progress)
	}
	if len(c.Codecs) == 0 {
		return fmt.Errorf("codecs cannot be empty")
	}
	if _, err := c.CodecSet(); err != nil {
		return fmt.Errorf("invalid codecs: %w", err)
	}
	return nil
}
