// Package source opens message logs for reading and writing, picking a
// compression codec from the file extension.
package source

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/s2"
	"github.com/klauspost/compress/snappy"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"

	"github.com/nnnkkk7/go-simdfix"
)

// Stdio is the path that selects stdin for Open and stdout for Create.
const Stdio = "-"

// Codec identifies a compression format.
type Codec string

// Supported codecs.
const (
	CodecNone   Codec = "none"
	CodecGzip   Codec = "gzip"
	CodecLZ4    Codec = "lz4"
	CodecZstd   Codec = "zstd"
	CodecSnappy Codec = "snappy"
	CodecS2     Codec = "s2"
)

// CodecFor returns the codec implied by the extension of path.
func CodecFor(path string) Codec {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz", ".gzip":
		return CodecGzip
	case ".lz4":
		return CodecLZ4
	case ".zst", ".zstd":
		return CodecZstd
	case ".sz", ".snappy":
		return CodecSnappy
	case ".s2":
		return CodecS2
	}
	return CodecNone
}

// Open opens path for reading, decompressing according to its extension.
func Open(path string) (io.ReadCloser, error) {
	if path == Stdio {
		return io.NopCloser(os.Stdin), nil
	}

	f, err := os.Open(path) //nolint:gosec // path comes from the command line
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}

	r, err := NewReader(f, CodecFor(path))
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	return &readCloser{Reader: r, closers: []io.Closer{r, f}}, nil
}

// NewReader wraps r with the decompressor for c. Closing the result
// releases the decompressor but not r.
func NewReader(r io.Reader, c Codec) (io.ReadCloser, error) {
	switch c {
	case CodecNone:
		return io.NopCloser(r), nil
	case CodecGzip:
		zr, err := gzip.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("gzip: %w", err)
		}
		return zr, nil
	case CodecLZ4:
		return io.NopCloser(lz4.NewReader(r)), nil
	case CodecZstd:
		dec, err := zstd.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("zstd: %w", err)
		}
		return dec.IOReadCloser(), nil
	case CodecSnappy:
		return io.NopCloser(snappy.NewReader(r)), nil
	case CodecS2:
		return io.NopCloser(s2.NewReader(r)), nil
	}
	return nil, fmt.Errorf("unknown codec %q", c)
}

// Create creates path for writing, compressing according to its extension.
// The file is complete only after Close returns nil.
func Create(path string) (io.WriteCloser, error) {
	if path == Stdio {
		return nopWriteCloser{os.Stdout}, nil
	}

	f, err := os.Create(path) //nolint:gosec // path comes from the command line
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", path, err)
	}

	w, err := NewWriter(f, CodecFor(path))
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("failed to create %s: %w", path, err)
	}
	return &writeCloser{Writer: w, closers: []io.Closer{w, f}}, nil
}

// NewWriter wraps w with the compressor for c. Closing the result flushes
// the compressor but does not close w.
func NewWriter(w io.Writer, c Codec) (io.WriteCloser, error) {
	switch c {
	case CodecNone:
		return nopWriteCloser{w}, nil
	case CodecGzip:
		return gzip.NewWriter(w), nil
	case CodecLZ4:
		return lz4.NewWriter(w), nil
	case CodecZstd:
		enc, err := zstd.NewWriter(w)
		if err != nil {
			return nil, fmt.Errorf("zstd: %w", err)
		}
		return enc, nil
	case CodecSnappy:
		return snappy.NewBufferedWriter(w), nil
	case CodecS2:
		return s2.NewWriter(w), nil
	}
	return nil, fmt.Errorf("unknown codec %q", c)
}

// ReadMessages reads r to the end and returns one slice per non-blank line,
// with any trailing '\r' removed. The slices share one buffer.
func ReadMessages(r io.Reader, maxSize int64) ([][]byte, error) {
	if maxSize <= 0 {
		maxSize = simdfix.DefaultMaxInputSize
	}

	n := maxSize
	if n < math.MaxInt64 {
		n++
	}
	buf, err := io.ReadAll(io.LimitReader(r, n))
	if err != nil {
		return nil, fmt.Errorf("failed to read messages: %w", err)
	}
	if int64(len(buf)) > maxSize {
		return nil, simdfix.ErrInputTooLarge
	}
	return SplitLines(buf), nil
}

// SplitLines splits buf at '\n' using the auto-selected delimiter scanner.
// Blank lines are dropped and a trailing '\r' is removed from each line.
func SplitLines(buf []byte) [][]byte {
	ends := simdfix.SelectScanner(simdfix.StrategyAuto).AppendDelimiters(nil, buf, '\n')
	ends = append(ends, len(buf))

	lines := make([][]byte, 0, len(ends))
	start := 0
	for _, end := range ends {
		line := buf[start:end:end]
		start = end + 1
		if n := len(line); n > 0 && line[n-1] == '\r' {
			line = line[:n-1]
		}
		if len(line) > 0 {
			lines = append(lines, line)
		}
	}
	return lines
}

// WriteMessages writes each message followed by '\n' through a buffered
// writer.
func WriteMessages(w io.Writer, msgs [][]byte) error {
	bw := bufio.NewWriter(w)
	for _, m := range msgs {
		if _, err := bw.Write(m); err != nil {
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}

type readCloser struct {
	io.Reader
	closers []io.Closer
}

func (r *readCloser) Close() error {
	var errs []error
	for _, c := range r.closers {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}

type writeCloser struct {
	io.Writer
	closers []io.Closer
}

// Close flushes the compressor before closing the file.
func (w *writeCloser) Close() error {
	var errs []error
	for _, c := range w.closers {
		errs = append(errs, c.Close())
	}
	return errors.Join(errs...)
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }
