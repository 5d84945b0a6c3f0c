// Package testutil provides fixtures shared by rowscols tests.
package testutil

import (
	"bytes"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"

	"github.com/ajitpratap0/rowscols/pkg/compression"
)

// TestLogger creates a test logger that writes to the test output.
func TestLogger(t *testing.T) *zap.Logger {
	return zaptest.NewLogger(t)
}

// WriteFile writes content to name inside a fresh temp dir and returns the path.
func WriteFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write fixture %s: %v", name, err)
	}
	return path
}

// WriteCompressed is WriteFile with content encoded by alg.
func WriteCompressed(t *testing.T, name string, alg compression.Algorithm, content string) string {
	t.Helper()
	var buf bytes.Buffer
	w, err := compression.NewWriter(&buf, alg)
	if err != nil {
		t.Fatalf("compress fixture %s: %v", name, err)
	}
	if _, err := w.Write([]byte(content)); err != nil {
		t.Fatalf("compress fixture %s: %v", name, err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("compress fixture %s: %v", name, err)
	}
	return WriteFile(t, name, buf.String())
}

// NumericRows returns n lines of two integer fields each, starting at 100
// and 200. No line parses as a boolean token.
func NumericRows(n int) string {
	var b strings.Builder
	for i := 0; i < n; i++ {
		b.WriteString(strconv.Itoa(100 + i))
		b.WriteByte(',')
		b.WriteString(strconv.Itoa(200 + i))
		b.WriteByte('\n')
	}
	return b.String()
}
