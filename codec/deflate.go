package codec

import (
	"fmt"
	"io"

	"github.com/klauspost/compress/flate"
)

// DefaultDeflateLevel is the deflate level used when none is configured.
const DefaultDeflateLevel = 6

type deflateCodec struct {
	level int
}

// NewDeflate returns a raw deflate codec writing ".deflate" artifacts.
func NewDeflate(level int) (Codec, error) {
	if level == 0 {
		level = DefaultDeflateLevel
	}
	if level < flate.HuffmanOnly || level > flate.BestCompression {
		return nil, fmt.Errorf("%w: deflate level %d", ErrInvalidLevel, level)
	}
	return &deflateCodec{level: level}, nil
}

func (*deflateCodec) Name() string   { return "deflate" }
func (*deflateCodec) Suffix() string { return ".deflate" }

func (c *deflateCodec) NewWriter(dst io.Writer) (io.WriteCloser, error) {
	return flate.NewWriter(dst, c.level)
}

func (*deflateCodec) NewReader(src io.Reader) (io.ReadCloser, error) {
	return flate.NewReader(src), nil
}
