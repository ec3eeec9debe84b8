package codec

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dendrascience/precompress/util"
)

// Sentinel errors for package codec.
// These errors can be checked with errors.Is() for specific error handling.
var (
	// Lookup errors
	ErrUnknownCodec = errors.New("unknown codec")

	// Set errors
	ErrDuplicateCodec = errors.New("duplicate codec")
	ErrEmptySet       = errors.New("no codecs configured")

	// Constructor errors
	ErrInvalidLevel = errors.New("compression level out of range")
)

// Codec is one independent encoding of a file. Writers must be closed to
// flush their trailing frames.
type Codec interface {
	Name() string
	Suffix() string
	NewWriter(dst io.Writer) (io.WriteCloser, error)
	NewReader(src io.Reader) (io.ReadCloser, error)
}

// Outcome is the result of encoding one file with one codec.
type Outcome struct {
	Codec    string
	Output   string
	BytesIn  int64
	BytesOut int64
	Err      error
}

// OK reports whether the artifact was written.
func (o Outcome) OK() bool { return o.Err == nil }

// OutputPath returns where c writes the artifact for src.
func OutputPath(src string, c Codec) string {
	return src + c.Suffix()
}

// Encode compresses src into OutputPath(src, c). The artifact only appears
// once it is complete; on any error nothing is left behind and a previous
// artifact, if any, is untouched.
func Encode(ctx context.Context, src string, c Codec) Outcome {
	out := Outcome{Codec: c.Name(), Output: OutputPath(src, c)}
	if err := ctx.Err(); err != nil {
		out.Err = fmt.Errorf("%s: %w", c.Name(), err)
		return out
	}
	in, err := os.Open(src)
	if err != nil {
		out.Err = fmt.Errorf("%s: failed to open source: %w", c.Name(), err)
		return out
	}
	defer in.Close()
	info, err := in.Stat()
	if err != nil {
		out.Err = fmt.Errorf("%s: failed to stat source: %w", c.Name(), err)
		return out
	}

	dst, err := util.AtomicCreate(out.Output, info.Mode())
	if err != nil {
		out.Err = fmt.Errorf("%s: %w", c.Name(), err)
		return out
	}
	defer dst.Abort()

	counter := &countingWriter{w: dst}
	enc, err := c.NewWriter(counter)
	if err != nil {
		out.Err = fmt.Errorf("%s: failed to create encoder: %w", c.Name(), err)
		return out
	}
	n, err := io.Copy(enc, in)
	out.BytesIn = n
	if err != nil {
		enc.Close()
		out.Err = fmt.Errorf("%s: failed to encode: %w", c.Name(), err)
		return out
	}
	if err := enc.Close(); err != nil {
		out.Err = fmt.Errorf("%s: failed to finalize: %w", c.Name(), err)
		return out
	}
	if err := dst.Commit(); err != nil {
		out.Err = fmt.Errorf("%s: %w", c.Name(), err)
		return out
	}
	out.BytesOut = counter.n
	return out
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}

// Set is an ordered collection of codecs with distinct names and suffixes.
type Set struct {
	codecs []Codec
}

// NewSet builds a set, rejecting duplicate names or suffixes since their
// artifacts would overwrite each other.
func NewSet(codecs ...Codec) (Set, error) {
	if len(codecs) == 0 {
		return Set{}, ErrEmptySet
	}
	names := make(map[string]bool, len(codecs))
	suffixes := make(map[string]bool, len(codecs))
	for _, c := range codecs {
		if c.Suffix() == "" {
			return Set{}, fmt.Errorf("codec %q has an empty suffix", c.Name())
		}
		if names[c.Name()] {
			return Set{}, fmt.Errorf("%w: name %q", ErrDuplicateCodec, c.Name())
		}
		if suffixes[c.Suffix()] {
			return Set{}, fmt.Errorf("%w: suffix %q", ErrDuplicateCodec, c.Suffix())
		}
		names[c.Name()] = true
		suffixes[c.Suffix()] = true
	}
	return Set{codecs: append([]Codec(nil), codecs...)}, nil
}

// Len returns the number of codecs.
func (s Set) Len() int { return len(s.codecs) }

// Codecs returns the codecs in order.
func (s Set) Codecs() []Codec { return append([]Codec(nil), s.codecs...) }

// Names returns the codec names in order.
func (s Set) Names() []string {
	names := make([]string, len(s.codecs))
	for i, c := range s.codecs {
		names[i] = c.Name()
	}
	return names
}

// Suffixes returns the artifact suffixes in order.
func (s Set) Suffixes() []string {
	suffixes := make([]string, len(s.codecs))
	for i, c := range s.codecs {
		suffixes[i] = c.Suffix()
	}
	return suffixes
}

// Apply runs every codec on src in order. A failing codec never stops the
// ones after it.
func (s Set) Apply(ctx context.Context, src string) []Outcome {
	outcomes := make([]Outcome, 0, len(s.codecs))
	for _, c := range s.codecs {
		outcomes = append(outcomes, Encode(ctx, src, c))
	}
	return outcomes
}

// IsArtifact reports whether path carries one of the set's suffixes.
func (s Set) IsArtifact(path string) bool {
	for _, c := range s.codecs {
		if strings.HasSuffix(path, c.Suffix()) {
			return true
		}
	}
	return false
}

// Levels holds per-codec compression settings.
type Levels struct {
	Zstd         int
	Brotli       int
	Gzip         int
	Deflate      int
	BrotliWindow int
}

// DefaultLevels returns the settings used when none are configured.
func DefaultLevels() Levels {
	return Levels{
		Zstd:         DefaultZstdLevel,
		Brotli:       DefaultBrotliQuality,
		Gzip:         DefaultGzipLevel,
		Deflate:      DefaultDeflateLevel,
		BrotliWindow: DefaultBrotliWindow,
	}
}

// DefaultNames is the codec order used when none is configured.
var DefaultNames = []string{"br", "deflate", "gzip", "zstd"}

// Lookup builds a single codec by name.
func Lookup(name string, levels Levels) (Codec, error) {
	switch name {
	case "zstd":
		return NewZstd(levels.Zstd)
	case "br", "brotli":
		return NewBrotli(levels.Brotli, levels.BrotliWindow)
	case "gzip", "gz":
		return NewGzip(levels.Gzip)
	case "deflate":
		return NewDeflate(levels.Deflate)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownCodec, name)
	}
}

// Build looks up every name and returns them as a set.
func Build(names []string, levels Levels) (Set, error) {
	codecs := make([]Codec, 0, len(names))
	for _, name := range names {
		c, err := Lookup(name, levels)
		if err != nil {
			return Set{}, err
		}
		codecs = append(codecs, c)
	}
	return NewSet(codecs...)
}

// Default returns br, deflate, gzip and zstd at their default settings.
func Default() Set {
	s, err := Build(DefaultNames, DefaultLevels())
	if err != nil {
		panic(err)
	}
	return s
}
