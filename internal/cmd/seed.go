package cmd

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/dendrascience/precompress/util"
)

// NewSeedCmd creates and returns the seed subcommand.
// It generates a tree of compressible test files for benchmarking runs.
func NewSeedCmd() *cobra.Command {
	var (
		outputPath string
		fileCount  int
		buckets    int
		verbose    bool
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Generate a test tree of compressible files",
		Long: `Generate a directory tree of test files for benchmarking precompress.

Files are spread over --buckets directories, each split into a second level,
with the directory picked by a color hash of the file name. Each file holds
between 1 and 200 lines drawn from a small pool of UUIDs, so the content is
realistic to compress.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := runSeed(cmd.OutOrStdout(), outputPath, fileCount, buckets, verbose)
			return err
		},
	}

	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "Path to output directory (required)")
	cmd.Flags().IntVarP(&fileCount, "count", "c", 10000, "Number of files to generate")
	cmd.Flags().IntVarP(&buckets, "buckets", "b", 100, "Number of top-level directories")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")

	cmd.MarkFlagRequired("output")

	return cmd
}

func randInt(n int64) int64 {
	v, err := rand.Int(rand.Reader, big.NewInt(n))
	if err != nil {
		return 0
	}
	return v.Int64()
}

// runSeed writes fileCount files under outputPath and returns the number of
// directories used.
func runSeed(out io.Writer, outputPath string, fileCount, buckets int, verbose bool) (int, error) {
	if buckets < 1 {
		buckets = 1
	}
	if verbose {
		fmt.Fprintf(out, "Generating %d test files in %s\n", fileCount, outputPath)
	}

	if err := os.MkdirAll(outputPath, 0o755); err != nil {
		return 0, fmt.Errorf("failed to create output directory: %w", err)
	}

	uuidPool := make([]string, 50)
	for i := range uuidPool {
		uuidPool[i] = uuid.NewString()
	}

	dirFileCounts := make(map[string]int)
	for i := range fileCount {
		ext := ".json"
		if randInt(2) == 1 {
			ext = ".txt"
		}
		name := fmt.Sprintf("%08x%s", i, ext)
		dirPath := filepath.Join(outputPath,
			fmt.Sprintf("%03d", util.Bucket(name, buckets)),
			fmt.Sprintf("%02d", util.Bucket(strings.ToUpper(name), 10)),
		)
		if err := os.MkdirAll(dirPath, 0o755); err != nil {
			return 0, fmt.Errorf("failed to create directory %s: %w", dirPath, err)
		}

		var b strings.Builder
		lines := 1 + randInt(200)
		for range lines {
			b.WriteString(uuidPool[randInt(int64(len(uuidPool)))])
			b.WriteByte('\n')
		}
		filePath := filepath.Join(dirPath, name)
		if err := os.WriteFile(filePath, []byte(b.String()), 0o644); err != nil {
			return 0, fmt.Errorf("failed to write file %s: %w", filePath, err)
		}
		dirFileCounts[dirPath]++

		if verbose && (i+1)%1000 == 0 {
			fmt.Fprintf(out, "Created %d/%d files...\n", i+1, fileCount)
		}
	}

	if verbose {
		fmt.Fprintf(out, "Successfully created %d files\n", fileCount)
		fmt.Fprintf(out, "Files distributed across %d directories\n", len(dirFileCounts))

		maxFiles, minFiles := 0, fileCount
		for _, count := range dirFileCounts {
			maxFiles = max(maxFiles, count)
			minFiles = min(minFiles, count)
		}
		fmt.Fprintf(out, "Directory file counts: min=%d, max=%d\n", minFiles, maxFiles)
	}
	return len(dirFileCounts), nil
}
