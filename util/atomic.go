package util

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// AtomicFile is an output file that only appears under its final name once
// Commit succeeds. Until then the data lives in a hidden temp file in the
// same directory, so the rename stays on one filesystem.
type AtomicFile struct {
	*os.File
	path string
	perm fs.FileMode
	done bool
}

// AtomicCreate starts an atomic write of path. The committed file gets the
// permission bits perm.
func AtomicCreate(path string, perm fs.FileMode) (*AtomicFile, error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+PartialMarker+"*.partial")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file for %s: %w", path, err)
	}
	return &AtomicFile{File: tmp, path: path, perm: perm.Perm()}, nil
}

// Commit flushes the temp file and renames it over the final path.
func (f *AtomicFile) Commit() error {
	if f.done {
		return nil
	}
	f.done = true
	tmpPath := f.File.Name()
	if err := f.File.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, f.perm); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to set permissions: %w", err)
	}
	if err := os.Rename(tmpPath, f.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("failed to rename temp file to %s: %w", f.path, err)
	}
	return nil
}

// Abort discards the temp file. It is a no-op after Commit, so it is safe
// to defer right after AtomicCreate.
func (f *AtomicFile) Abort() {
	if f.done {
		return
	}
	f.done = true
	f.File.Close()
	os.Remove(f.File.Name())
}
