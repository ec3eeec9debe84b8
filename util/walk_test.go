package util

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"testing"
)

func buildTree(t *testing.T, files ...string) string {
	t.Helper()
	root, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	for _, f := range files {
		path := filepath.Join(root, f)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(f), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func collect(root string, opts ...WalkOption) []string {
	var got []string
	for path := range Files(root, opts...) {
		got = append(got, path)
	}
	slices.Sort(got)
	return got
}

func rel(t *testing.T, root string, paths []string) []string {
	t.Helper()
	out := make([]string, len(paths))
	for i, p := range paths {
		r, err := filepath.Rel(root, p)
		if err != nil {
			t.Fatal(err)
		}
		out[i] = filepath.ToSlash(r)
	}
	return out
}

func TestFilesYieldsRegularFilesOnly(t *testing.T) {
	root := buildTree(t, "a.json", "b/c.json", "b/d/e.txt")
	os.MkdirAll(filepath.Join(root, "empty", "deeper"), 0o755)
	os.Symlink(filepath.Join(root, "a.json"), filepath.Join(root, "link.json"))
	os.Symlink(filepath.Join(root, "missing"), filepath.Join(root, "broken"))
	// a directory loop must not cause duplicates or hang
	os.Symlink(root, filepath.Join(root, "b", "loop"))
	mkfifo(filepath.Join(root, "pipe"))

	got := rel(t, root, collect(root))
	want := []string{"a.json", "b/c.json", "b/d/e.txt"}
	if !slices.Equal(got, want) {
		t.Errorf("Files() = %v, want %v", got, want)
	}
	for _, p := range collect(root) {
		if !filepath.IsAbs(p) {
			t.Errorf("Files() yielded relative path %q", p)
		}
	}
}

func TestFilesExclusions(t *testing.T) {
	root := buildTree(t,
		"a.json", "a.json.gz", "a.json.br",
		"b/c.txt", "b/c.txt.zstd",
		"b/.c.txt.zstd"+PartialMarker+"123.partial",
	)

	tests := []struct {
		name string
		opts []WalkOption
		want []string
	}{
		{
			name: "partial files are always skipped",
			want: []string{"a.json", "a.json.br", "a.json.gz", "b/c.txt", "b/c.txt.zstd"},
		},
		{
			name: "suffixes",
			opts: []WalkOption{ExcludeSuffixes(".gz", ".br", ".zstd", "")},
			want: []string{"a.json", "b/c.txt"},
		},
		{
			name: "predicate",
			opts: []WalkOption{ExcludeFunc(func(p string) bool { return filepath.Base(filepath.Dir(p)) == "b" })},
			want: []string{"a.json", "a.json.br", "a.json.gz"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := rel(t, root, collect(root, tt.opts...))
			if !slices.Equal(got, tt.want) {
				t.Errorf("Files() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFilesSkipsUnreadableDirectories(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root can read any directory")
	}
	root := buildTree(t, "ok.txt", "locked/secret.txt", "z/after.txt")
	locked := filepath.Join(root, "locked")
	if err := os.Chmod(locked, 0o000); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Chmod(locked, 0o755) })

	var skipped []string
	got := rel(t, root, collect(root, OnWalkError(func(path string, err error) {
		skipped = append(skipped, path)
	})))

	want := []string{"ok.txt", "z/after.txt"}
	if !slices.Equal(got, want) {
		t.Errorf("Files() = %v, want %v", got, want)
	}
	if !slices.Contains(skipped, locked) {
		t.Errorf("OnWalkError not called for %s, got %v", locked, skipped)
	}
}

func TestFilesStopsEarly(t *testing.T) {
	root := buildTree(t, "1", "2", "3", "4")
	n := 0
	for range Files(root) {
		n++
		if n == 2 {
			break
		}
	}
	if n != 2 {
		t.Errorf("iterated %d times, want 2", n)
	}
}

func TestFilesFollowsSymlinkedRoot(t *testing.T) {
	root := buildTree(t, "a.txt", "b/c.txt")
	link := filepath.Join(t.TempDir(), "root-link")
	if err := os.Symlink(root, link); err != nil {
		t.Skip("symlinks unsupported")
	}
	if got := CountFiles(link); got != 2 {
		t.Errorf("CountFiles(symlinked root) = %d, want 2", got)
	}
}

func TestFilesSequenceIsReusable(t *testing.T) {
	root := buildTree(t, "a.txt", "b/c.txt", "b/d/e.txt")
	link := filepath.Join(t.TempDir(), "root-link")
	if err := os.Symlink(root, link); err != nil {
		t.Skip("symlinks unsupported")
	}
	seq := Files(link)

	counts := make([]int, 8)
	var wg sync.WaitGroup
	for i := range counts {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range seq {
				counts[i]++
			}
		}()
	}
	wg.Wait()

	for i, n := range counts {
		if n != 3 {
			t.Errorf("range %d yielded %d files, want 3", i, n)
		}
	}
	for path := range seq {
		if !strings.HasPrefix(path, root) {
			t.Errorf("Files() yielded %q outside resolved root %q", path, root)
		}
	}
}

func TestValidateRoot(t *testing.T) {
	root := buildTree(t, "file.txt")

	tests := []struct {
		name string
		path string
		want error
	}{
		{name: "valid", path: root},
		{name: "empty", path: "", want: ErrRelativePath},
		{name: "relative", path: "data/stations", want: ErrRelativePath},
		{name: "missing", path: filepath.Join(root, "missing"), want: ErrRootNotFound},
		{name: "file", path: filepath.Join(root, "file.txt"), want: ErrExpectedDirectory},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRoot(tt.path)
			if tt.want == nil {
				if err != nil {
					t.Errorf("ValidateRoot() = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.want) {
				t.Errorf("ValidateRoot() = %v, want %v", err, tt.want)
			}
			if !IsConfigError(err) {
				t.Errorf("ValidateRoot() = %T, want *ConfigError", err)
			}
		})
	}
}

func TestValidateDir(t *testing.T) {
	root := buildTree(t, "file.txt")
	if err := ValidateDir(root); err != nil {
		t.Errorf("ValidateDir(%q) = %v, want nil", root, err)
	}
	if err := ValidateDir("."); err != nil {
		t.Errorf("ValidateDir(\".\") = %v, want nil", err)
	}
	if err := ValidateDir(filepath.Join(root, "missing")); !errors.Is(err, ErrRootNotFound) || !IsConfigError(err) {
		t.Errorf("ValidateDir(missing) = %v, want ErrRootNotFound", err)
	}
	if err := ValidateDir(filepath.Join(root, "file.txt")); !errors.Is(err, ErrExpectedDirectory) {
		t.Errorf("ValidateDir(file) = %v, want ErrExpectedDirectory", err)
	}
}

func TestCountFiles(t *testing.T) {
	root := buildTree(t, "a", "b/c", "b/d/e", "b/d/e.gz")
	if got := CountFiles(root); got != 4 {
		t.Errorf("CountFiles() = %d, want 4", got)
	}
	if got := CountFiles(root, ExcludeSuffixes(".gz")); got != 3 {
		t.Errorf("CountFiles(exclude .gz) = %d, want 3", got)
	}
	if got := CountFiles(t.TempDir()); got != 0 {
		t.Errorf("CountFiles(empty) = %d, want 0", got)
	}
}
