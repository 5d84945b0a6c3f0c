// Package metadata persists analysis findings as a TOML sidecar next to
// the analysed source.
//
// The sidecar is rendered by hand so the layout stays stable: header
// comments, total_columns, then one [column_<n>] table per column in index
// order. Reading it back goes through BurntSushi/toml.
package metadata

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/ajitpratap0/rowscols/pkg/errors"
	"github.com/ajitpratap0/rowscols/pkg/schema"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// Render produces the sidecar text for columns. Each table is keyed by the
// column's own index.
func Render(columns []schema.ColumnInfo) []byte {
	var b bytes.Buffer
	b.WriteString("# CSV Metadata File\n")
	b.WriteString("# Generated by rowscols\n\n")
	fmt.Fprintf(&b, "total_columns = %d\n\n", len(columns))

	for _, col := range columns {
		fmt.Fprintf(&b, "[column_%d]\n", col.Index+1)
		fmt.Fprintf(&b, "name = %s\n", quote(col.Name))
		fmt.Fprintf(&b, "data_type = %s\n", quote(col.DetectedType.Tag()))
		fmt.Fprintf(&b, "column_index = %d\n", col.Index)
		fmt.Fprintf(&b, "non_empty_values = %d\n", col.NonEmptyCount)
		fmt.Fprintf(&b, "empty_values = %d\n\n", col.EmptyCount)
	}
	return b.Bytes()
}

// quote renders s as a TOML basic string.
func quote(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 2)
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		case '\r':
			b.WriteString(`\r`)
		case '\b':
			b.WriteString(`\b`)
		case '\f':
			b.WriteString(`\f`)
		default:
			if r < 0x20 || r == 0x7f {
				fmt.Fprintf(&b, `\u%04X`, r)
				continue
			}
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

// Store writes sidecars to the file system.
type Store struct {
	logger *zap.Logger
}

// NewStore creates a store. A nil logger disables logging.
func NewStore(logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{logger: logger}
}

// Write fully replaces the sidecar at path, creating parent directories.
func (s *Store) Write(path string, columns []schema.ColumnInfo) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, dirPerm); err != nil {
			return errors.FileSystem(err, "create directory", dir)
		}
	}

	data := Render(columns)
	if err := os.WriteFile(path, data, filePerm); err != nil {
		return errors.FileSystem(err, "write", path)
	}

	s.logger.Debug("metadata written",
		zap.String("path", path),
		zap.Int("columns", len(columns)),
		zap.Int("bytes", len(data)))
	return nil
}

// Exists reports whether a file exists at path.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
