package util

import (
	"errors"
	"io/fs"
	"iter"
	"os"
	"path/filepath"
	"strings"
)

// PartialMarker is embedded in the names of in-flight artifact files.
// Files containing it are never yielded by Files.
const PartialMarker = ".precompress-"

type walkConfig struct {
	suffixes []string
	exclude  func(path string) bool
	onError  func(path string, err error)
}

// WalkOption configures Files.
type WalkOption func(*walkConfig)

// ExcludeSuffixes skips files whose names end with any of the given suffixes.
func ExcludeSuffixes(suffixes ...string) WalkOption {
	return func(c *walkConfig) {
		for _, s := range suffixes {
			if s != "" {
				c.suffixes = append(c.suffixes, s)
			}
		}
	}
}

// ExcludeFunc skips any file for which fn returns true.
func ExcludeFunc(fn func(path string) bool) WalkOption {
	return func(c *walkConfig) { c.exclude = fn }
}

// OnWalkError registers a hook called for every entry that is skipped
// because it could not be read.
func OnWalkError(fn func(path string, err error)) WalkOption {
	return func(c *walkConfig) { c.onError = fn }
}

// ValidateRoot checks that root is an absolute path to an existing directory.
// Any failure is returned as a *ConfigError.
func ValidateRoot(root string) error {
	if root == "" || !filepath.IsAbs(root) {
		return &ConfigError{Path: root, Err: ErrRelativePath}
	}
	return ValidateDir(root)
}

// ValidateDir checks that path, absolute or relative, is an existing
// directory. Any failure is returned as a *ConfigError.
func ValidateDir(root string) error {
	info, err := os.Stat(root)
	if errors.Is(err, fs.ErrNotExist) {
		return &ConfigError{Path: root, Err: ErrRootNotFound}
	}
	if err != nil {
		return &ConfigError{Path: root, Err: err}
	}
	if !info.IsDir() {
		return &ConfigError{Path: root, Err: ErrExpectedDirectory}
	}
	return nil
}

// Files lazily yields the absolute path of every regular file under root.
//
// Only regular files are produced. Directories, symlinks (which are never
// followed), sockets, devices and named pipes are skipped, so every file is
// yielded at most once. Entries that cannot be read are skipped and the walk
// continues; an unreadable directory is pruned. Breaking out of the range
// loop stops the walk.
func Files(root string, opts ...WalkOption) iter.Seq[string] {
	var cfg walkConfig
	for _, opt := range opts {
		opt(&cfg)
	}
	return func(yield func(string) bool) {
		dir := resolveRoot(root)
		filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				if cfg.onError != nil {
					cfg.onError(path, err)
				}
				if d != nil && d.IsDir() && path != dir {
					return filepath.SkipDir
				}
				return nil
			}
			if !d.Type().IsRegular() {
				return nil
			}
			if cfg.skip(path, d.Name()) {
				return nil
			}
			if !yield(path) {
				return filepath.SkipAll
			}
			return nil
		})
	}
}

// resolveRoot cleans root and resolves symlinks in it, since WalkDir does not
// descend into a symlinked root. Unresolvable roots are returned cleaned.
func resolveRoot(root string) string {
	root = filepath.Clean(root)
	if resolved, err := filepath.EvalSymlinks(root); err == nil {
		return resolved
	}
	return root
}

func (c walkConfig) skip(path, name string) bool {
	if strings.Contains(name, PartialMarker) {
		return true
	}
	for _, s := range c.suffixes {
		if strings.HasSuffix(name, s) {
			return true
		}
	}
	return c.exclude != nil && c.exclude(path)
}

// CountFiles returns the number of files Files would yield for root.
func CountFiles(root string, opts ...WalkOption) int {
	count := 0
	for range Files(root, opts...) {
		count++
	}
	return count
}
