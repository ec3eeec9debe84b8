package codec

import (
	"context"
	"io/fs"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerify(t *testing.T) {
	for _, c := range Default().Codecs() {
		t.Run(c.Name(), func(t *testing.T) {
			dir := t.TempDir()
			src := writeFile(t, dir, "data.csv", sample())

			err := Verify(src, c)
			assert.ErrorIs(t, err, fs.ErrNotExist)

			require.NoError(t, Encode(context.Background(), src, c).Err)
			assert.NoError(t, Verify(src, c))

			// source changed after compression
			require.NoError(t, os.WriteFile(src, []byte("different"), 0o644))
			assert.ErrorIs(t, Verify(src, c), ErrMismatch)
		})
	}
}

func TestVerifyCorruptArtifact(t *testing.T) {
	c := mustLookup(t, "gzip")
	src := writeFile(t, t.TempDir(), "data.csv", sample())
	require.NoError(t, os.WriteFile(OutputPath(src, c), []byte("not gzip at all"), 0o644))

	err := Verify(src, c)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrMismatch)
}
