package codec

import (
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
)

// DefaultGzipLevel is the gzip level used when none is configured.
const DefaultGzipLevel = gzip.BestCompression

type gzipCodec struct {
	level int
}

// NewGzip returns a gzip codec writing ".gz" artifacts. Zero takes the
// default level; gzip.HuffmanOnly through gzip.BestCompression are accepted.
func NewGzip(level int) (Codec, error) {
	if level == 0 {
		level = DefaultGzipLevel
	}
	if level < gzip.HuffmanOnly || level > gzip.BestCompression {
		return nil, fmt.Errorf("%w: gzip level %d", ErrInvalidLevel, level)
	}
	return &gzipCodec{level: level}, nil
}

func (*gzipCodec) Name() string   { return "gzip" }
func (*gzipCodec) Suffix() string { return ".gz" }

// The header carries no name or mtime, so output depends only on content.
func (c *gzipCodec) NewWriter(dst io.Writer) (io.WriteCloser, error) {
	return gzip.NewWriterLevel(dst, c.level)
}

func (*gzipCodec) NewReader(src io.Reader) (io.ReadCloser, error) {
	return gzip.NewReader(src)
}
