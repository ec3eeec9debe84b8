package codec

import (
	"errors"
	"fmt"
	"os"

	"github.com/dendrascience/precompress/util"
)

// ErrMismatch means an artifact decodes to different bytes than its source.
var ErrMismatch = errors.New("artifact does not match source")

// Verify decodes the artifact c wrote for src and compares its SHA-256 with
// the source's. A missing artifact is reported with an error wrapping
// fs.ErrNotExist.
func Verify(src string, c Codec) error {
	want, err := util.GetFileHash(src)
	if err != nil {
		return fmt.Errorf("failed to hash source: %w", err)
	}

	path := OutputPath(src, c)
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%s: %w", c.Name(), err)
	}
	defer f.Close()

	r, err := c.NewReader(f)
	if err != nil {
		return fmt.Errorf("%s: failed to create decoder: %w", c.Name(), err)
	}
	defer r.Close()

	got, err := util.GetHash(r)
	if err != nil {
		return fmt.Errorf("%s: failed to decode %s: %w", c.Name(), path, err)
	}
	if got != want {
		return fmt.Errorf("%s: %w: %s", c.Name(), ErrMismatch, path)
	}
	return nil
}
