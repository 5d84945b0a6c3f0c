// Package linescan reads a source file as a sequence of physical lines.
//
// Lines are split on '\n' with a trailing '\r' removed; a final line without
// a newline still counts. Compressed sources are decoded based on their
// extension (see pkg/compression).
package linescan

import (
	"bufio"
	stderrors "errors"
	"io"
	"os"
	"unicode/utf8"

	"github.com/ajitpratap0/rowscols/pkg/compression"
	"github.com/ajitpratap0/rowscols/pkg/errors"
)

const initialBufferSize = 64 * 1024

// ErrInvalidUTF8 is the cause reported for a line that is not valid UTF-8.
var ErrInvalidUTF8 = stderrors.New("stream did not contain valid UTF-8")

// Scanner yields the lines of one file. It is not safe for concurrent use.
type Scanner struct {
	path    string
	file    *os.File
	decoded io.Closer
	scanner *bufio.Scanner
	line    int
	err     error
}

// Open opens path for line scanning. maxLineBytes bounds a single line;
// zero or less selects the initial buffer size.
func Open(path string, maxLineBytes int) (*Scanner, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.FileSystem(err, "open", path)
	}

	rc, err := compression.NewReader(f, compression.Detect(path))
	if err != nil {
		_ = f.Close()
		return nil, errors.FileSystem(err, "decompress", path)
	}

	if maxLineBytes <= 0 {
		maxLineBytes = initialBufferSize
	}
	initial := initialBufferSize
	if initial > maxLineBytes {
		initial = maxLineBytes
	}

	sc := bufio.NewScanner(rc)
	sc.Buffer(make([]byte, 0, initial), maxLineBytes)

	return &Scanner{
		path:    path,
		file:    f,
		decoded: rc,
		scanner: sc,
	}, nil
}

// Next advances to the next line, returning false at end of input or on
// error. A line that is not valid UTF-8 stops the scan.
func (s *Scanner) Next() bool {
	if s.err != nil || !s.scanner.Scan() {
		return false
	}
	s.line++
	if !utf8.Valid(s.scanner.Bytes()) {
		s.err = errors.FileSystem(ErrInvalidUTF8, "read", s.path).WithDetail(errors.DetailLine, s.line)
		return false
	}
	return true
}

// Text returns the current line without its terminator.
func (s *Scanner) Text() string {
	return s.scanner.Text()
}

// Line returns the 1-based number of the current line.
func (s *Scanner) Line() int {
	return s.line
}

// Err returns the first read error, wrapped as a file-system error naming
// the line that failed. It returns nil at a clean end of input.
func (s *Scanner) Err() error {
	if s.err != nil {
		return s.err
	}
	if err := s.scanner.Err(); err != nil {
		return errors.FileSystem(err, "read", s.path).WithDetail(errors.DetailLine, s.line+1)
	}
	return nil
}

// Path returns the scanned path.
func (s *Scanner) Path() string {
	return s.path
}

// Close releases the decoder and the file.
func (s *Scanner) Close() error {
	decErr := s.decoded.Close()
	if err := s.file.Close(); err != nil {
		return err
	}
	return decErr
}
