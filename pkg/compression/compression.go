// Package compression lets the line scanner read compressed CSV sources
// transparently. The algorithm is chosen from the file extension.
//
// # Supported formats
//
//   - .gz, .gzip: gzip
//   - .zst, .zstd: Zstandard
//   - .lz4: LZ4 frame
//   - .s2: S2 stream
//   - .sz, .snappy: Snappy framed stream
//
// Anything else is read as plain text.
package compression

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/s2"
	"github.com/klauspost/compress/snappy"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Algorithm represents a compression algorithm.
type Algorithm string

const (
	// None represents no compression
	None Algorithm = "none"
	// Gzip represents gzip compression
	Gzip Algorithm = "gzip"
	// Snappy represents snappy framed compression
	Snappy Algorithm = "snappy"
	// LZ4 represents lz4 frame compression
	LZ4 Algorithm = "lz4"
	// Zstd represents zstandard compression
	Zstd Algorithm = "zstd"
	// S2 represents s2 compression (Snappy compatible)
	S2 Algorithm = "s2"
)

var extensions = map[string]Algorithm{
	".gz":     Gzip,
	".gzip":   Gzip,
	".zst":    Zstd,
	".zstd":   Zstd,
	".lz4":    LZ4,
	".s2":     S2,
	".sz":     Snappy,
	".snappy": Snappy,
}

// Detect returns the algorithm implied by the extension of path.
func Detect(path string) Algorithm {
	if alg, ok := extensions[strings.ToLower(filepath.Ext(path))]; ok {
		return alg
	}
	return None
}

// TrimExtension removes a recognised compression extension from name.
func TrimExtension(name string) string {
	ext := filepath.Ext(name)
	if _, ok := extensions[strings.ToLower(ext)]; ok && ext != name {
		return strings.TrimSuffix(name, ext)
	}
	return name
}

// NewReader wraps src in a decompressing reader. Closing the result does
// not close src.
func NewReader(src io.Reader, alg Algorithm) (io.ReadCloser, error) {
	switch alg {
	case None, "":
		return io.NopCloser(src), nil
	case Gzip:
		r, err := gzip.NewReader(src)
		if err != nil {
			return nil, fmt.Errorf("open gzip stream: %w", err)
		}
		return r, nil
	case Zstd:
		d, err := zstd.NewReader(src)
		if err != nil {
			return nil, fmt.Errorf("open zstd stream: %w", err)
		}
		return d.IOReadCloser(), nil
	case LZ4:
		return io.NopCloser(lz4.NewReader(src)), nil
	case S2:
		return io.NopCloser(s2.NewReader(src)), nil
	case Snappy:
		return io.NopCloser(snappy.NewReader(src)), nil
	default:
		return nil, fmt.Errorf("unsupported compression algorithm: %s", alg)
	}
}

// NewWriter wraps dst in a compressing writer. Close flushes the stream
// but does not close dst.
func NewWriter(dst io.Writer, alg Algorithm) (io.WriteCloser, error) {
	switch alg {
	case None, "":
		return nopWriteCloser{dst}, nil
	case Gzip:
		return gzip.NewWriter(dst), nil
	case Zstd:
		e, err := zstd.NewWriter(dst)
		if err != nil {
			return nil, fmt.Errorf("create zstd writer: %w", err)
		}
		return e, nil
	case LZ4:
		return lz4.NewWriter(dst), nil
	case S2:
		return s2.NewWriter(dst), nil
	case Snappy:
		return snappy.NewBufferedWriter(dst), nil
	default:
		return nil, fmt.Errorf("unsupported compression algorithm: %s", alg)
	}
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
