package testutil

import (
	"io"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/rowscols/pkg/compression"
)

func TestWriteFile(t *testing.T) {
	path := WriteFile(t, "a.csv", "x,y\n")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "x,y\n", string(data))
}

func TestWriteCompressed(t *testing.T) {
	path := WriteCompressed(t, "a.csv.zst", compression.Zstd, "x,y\n")

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	r, err := compression.NewReader(f, compression.Detect(path))
	require.NoError(t, err)
	defer r.Close()

	data, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, "x,y\n", string(data))
}

func TestNumericRows(t *testing.T) {
	lines := strings.Split(strings.TrimSuffix(NumericRows(3), "\n"), "\n")
	assert.Equal(t, []string{"100,200", "101,201", "102,202"}, lines)
}
