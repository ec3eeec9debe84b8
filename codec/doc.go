// Package codec defines the encoders applied to every file.
//
// A Codec names itself, picks the suffix appended to the source path for its
// artifact, and wraps a writer with its encoder. Encode streams one source
// file through one codec and publishes the artifact atomically; Set.Apply
// does that for every codec of a Set in order, collecting one Outcome per
// codec without letting a failure stop the rest.
//
// Built-in codecs:
//
//	br       .br       github.com/andybalholm/brotli     quality 11, window 22
//	deflate  .deflate  github.com/klauspost/compress     level 6
//	gzip     .gz       github.com/klauspost/compress     level 9
//	zstd     .zstd     github.com/klauspost/compress     level 3
//
// All settings are deterministic: the same input always produces the same
// artifact bytes.
package codec
