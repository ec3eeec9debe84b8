package codec

import (
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"
)

// DefaultZstdLevel is the zstd level used when none is configured.
const DefaultZstdLevel = 3

type zstdCodec struct {
	level zstd.EncoderLevel
}

// NewZstd returns a zstd codec writing ".zstd" artifacts. level uses the
// zstd command line scale, 1 to 22.
func NewZstd(level int) (Codec, error) {
	if level == 0 {
		level = DefaultZstdLevel
	}
	if level < 1 || level > 22 {
		return nil, fmt.Errorf("%w: zstd level %d", ErrInvalidLevel, level)
	}
	return &zstdCodec{level: zstd.EncoderLevelFromZstd(level)}, nil
}

func (*zstdCodec) Name() string   { return "zstd" }
func (*zstdCodec) Suffix() string { return ".zstd" }

// Each task already runs on its own worker, so the encoder stays on one
// goroutine.
func (c *zstdCodec) NewWriter(dst io.Writer) (io.WriteCloser, error) {
	return zstd.NewWriter(dst,
		zstd.WithEncoderLevel(c.level),
		zstd.WithEncoderConcurrency(1),
	)
}

func (*zstdCodec) NewReader(src io.Reader) (io.ReadCloser, error) {
	dec, err := zstd.NewReader(src, zstd.WithDecoderConcurrency(1))
	if err != nil {
		return nil, err
	}
	return dec.IOReadCloser(), nil
}
