package codec

import (
	"fmt"
	"io"

	"github.com/andybalholm/brotli"
)

// Brotli settings used when none are configured.
const (
	DefaultBrotliQuality = 11
	DefaultBrotliWindow  = 22 // log2 of the sliding window size
)

type brotliCodec struct {
	quality int
	window  int
}

// NewBrotli returns a brotli codec writing ".br" artifacts. quality is 0 to
// 11 and window is log2 of the sliding window, 10 to 24. Zero values take
// the defaults.
func NewBrotli(quality, window int) (Codec, error) {
	if quality == 0 {
		quality = DefaultBrotliQuality
	}
	if window == 0 {
		window = DefaultBrotliWindow
	}
	if quality < brotli.BestSpeed || quality > brotli.BestCompression {
		return nil, fmt.Errorf("%w: brotli quality %d", ErrInvalidLevel, quality)
	}
	if window < 10 || window > 24 {
		return nil, fmt.Errorf("%w: brotli window %d", ErrInvalidLevel, window)
	}
	return &brotliCodec{quality: quality, window: window}, nil
}

func (*brotliCodec) Name() string   { return "br" }
func (*brotliCodec) Suffix() string { return ".br" }

func (c *brotliCodec) NewWriter(dst io.Writer) (io.WriteCloser, error) {
	return brotli.NewWriterOptions(dst, brotli.WriterOptions{
		Quality: c.quality,
		LGWin:   c.window,
	}), nil
}

func (*brotliCodec) NewReader(src io.Reader) (io.ReadCloser, error) {
	return io.NopCloser(brotli.NewReader(src)), nil
}
