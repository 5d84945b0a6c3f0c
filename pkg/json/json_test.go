package json

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Name  string   `json:"name"`
	Count int      `json:"count"`
	Tags  []string `json:"tags,omitempty"`
}

func TestMarshalUnmarshal(t *testing.T) {
	in := sample{Name: "a<b>", Count: 3, Tags: []string{"x"}}
	data, err := Marshal(in)
	require.NoError(t, err)

	var out sample
	require.NoError(t, Unmarshal(data, &out))
	assert.Equal(t, in, out)
}

func TestWriteIndented(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteIndented(&buf, sample{Name: "a<b>", Count: 1}))
	assert.Equal(t, "{\n  \"name\": \"a<b>\",\n  \"count\": 1\n}\n", buf.String())
}

func TestMarshalIndent(t *testing.T) {
	data, err := MarshalIndent(map[string]int{"k": 1}, "", "\t")
	require.NoError(t, err)
	assert.Equal(t, "{\n\t\"k\": 1\n}", string(data))
}
