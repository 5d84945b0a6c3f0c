package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ajitpratap0/rowscols/pkg/errors"
	"github.com/ajitpratap0/rowscols/pkg/json"
	"github.com/ajitpratap0/rowscols/pkg/testutil"
)

type invocation struct {
	code   int
	stdout string
	stderr string
}

func invoke(t *testing.T, args ...string) invocation {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), args, &stdout, &stderr)
	return invocation{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

const people = "id,name,active\n1,alice,true\n2,bob,false\n3,carol,true\n"

func TestAnalyzeText(t *testing.T) {
	src := testutil.WriteFile(t, "people.csv", people)
	dataDir := t.TempDir()

	res := invoke(t, "analyze", "--data-dir", dataDir, src)
	require.Equal(t, exitOK, res.code, res.stderr)

	assert.Contains(t, res.stdout, "CSV Analysis Results")
	assert.Contains(t, res.stdout, "  Data Rows: 3")
	assert.Contains(t, res.stdout, "  3. active (boolean)")
	assert.Contains(t, res.stdout, "✓ Created new: ")
	assert.DirExists(t, filepath.Join(dataDir, "csv_imports"))
	assert.FileExists(t, filepath.Join(filepath.Dir(src), "people.csv_metadata.toml"))

	again := invoke(t, "analyze", "--data-dir", dataDir, src)
	require.Equal(t, exitOK, again.code, again.stderr)
	assert.Contains(t, again.stdout, "✓ Updated existing: ")
}

func TestAnalyzeJSON(t *testing.T) {
	src := testutil.WriteFile(t, "people.csv", people)

	res := invoke(t, "analyze", "-f", "json", "--data-dir", t.TempDir(), src)
	require.Equal(t, exitOK, res.code, res.stderr)

	var doc struct {
		Analysis struct {
			ColumnCount int  `json:"column_count"`
			HasHeader   bool `json:"has_header"`
		} `json:"analysis"`
		Workspace struct {
			Imports string `json:"imports"`
		} `json:"workspace"`
	}
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &doc))
	assert.Equal(t, 3, doc.Analysis.ColumnCount)
	assert.True(t, doc.Analysis.HasHeader)
	assert.NotEmpty(t, doc.Workspace.Imports)
}

func TestAnalyzeRelativePath(t *testing.T) {
	src := testutil.WriteFile(t, "people.csv", people)
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(filepath.Dir(src)))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	res := invoke(t, "analyze", "-f", "json", "--data-dir", t.TempDir(), "people.csv")
	require.Equal(t, exitOK, res.code, res.stderr)

	var doc struct {
		Analysis struct {
			SourcePath   string `json:"source_path"`
			MetadataPath string `json:"metadata_path"`
		} `json:"analysis"`
	}
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &doc))
	assert.True(t, filepath.IsAbs(doc.Analysis.SourcePath), doc.Analysis.SourcePath)
	assert.True(t, filepath.IsAbs(doc.Analysis.MetadataPath), doc.Analysis.MetadataPath)
	assert.Equal(t, "people.csv_metadata.toml", filepath.Base(doc.Analysis.MetadataPath))

	text := invoke(t, "show", "people.csv")
	require.Equal(t, exitOK, text.code, text.stderr)
	assert.Contains(t, text.stdout, doc.Analysis.MetadataPath)
}

func TestExitCodes(t *testing.T) {
	dataDir := t.TempDir()
	empty := testutil.WriteFile(t, "empty.csv", "")
	src := testutil.WriteFile(t, "people.csv", people)

	tests := []struct {
		name string
		args []string
		want int
	}{
		{"missing file", []string{"analyze", "--data-dir", dataDir, filepath.Join(dataDir, "nope.csv")}, exitFileSystem},
		{"empty file", []string{"analyze", "--data-dir", dataDir, empty}, exitProcessing},
		{"bad sample rows", []string{"analyze", "--sample-rows", "0", src}, exitConfig},
		{"bad delimiter", []string{"analyze", "--delimiter", ";;", src}, exitConfig},
		{"bad format", []string{"analyze", "-f", "xml", "--data-dir", dataDir, src}, exitConfig},
		{"missing argument", []string{"analyze"}, exitOther},
		{"show without sidecar", []string{"show", filepath.Join(dataDir, "never.csv")}, exitFileSystem},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := invoke(t, tt.args...)
			assert.Equal(t, tt.want, res.code, res.stderr)
			assert.Contains(t, res.stderr, "Error: ")
		})
	}
}

func TestShowStoredMetadata(t *testing.T) {
	src := testutil.WriteFile(t, "people.csv", people)
	require.Equal(t, exitOK, invoke(t, "analyze", "--data-dir", t.TempDir(), src).code)

	res := invoke(t, "show", src)
	require.Equal(t, exitOK, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Total Columns: 3")
	assert.Contains(t, res.stdout, "  1. id (integer)")
}

func TestShowMalformedMetadata(t *testing.T) {
	src := testutil.WriteFile(t, "broken.csv", people)
	sidecar := filepath.Join(filepath.Dir(src), "broken.csv_metadata.toml")
	require.NoError(t, os.WriteFile(sidecar, []byte("total_columns = \"many\"\n"), 0o644))

	res := invoke(t, "show", src)
	assert.Equal(t, exitMetadata, res.code)
}

func TestSchemaCommand(t *testing.T) {
	src := testutil.WriteFile(t, "people.csv", people)

	res := invoke(t, "schema", "--data-dir", t.TempDir(), src)
	require.Equal(t, exitOK, res.code, res.stderr)
	assert.Contains(t, res.stdout, "Arrow schema (3 fields):")
	assert.Contains(t, res.stdout, "  id: int64\n")
	assert.Contains(t, res.stdout, "  name: utf8\n")
	assert.Contains(t, res.stdout, "  active: bool\n")
}

func TestConfigCommand(t *testing.T) {
	res := invoke(t, "config", "--sample-rows", "25", "--delimiter", ";")
	require.Equal(t, exitOK, res.code, res.stderr)
	assert.Contains(t, res.stdout, "sample_rows: 25")
	assert.Contains(t, res.stdout, "delimiter: ;")
}

func TestConfigFromEnv(t *testing.T) {
	t.Setenv("ROWSCOLS_ANALYSIS_HEADER_MODE", "absent")

	res := invoke(t, "config")
	require.Equal(t, exitOK, res.code, res.stderr)
	assert.Contains(t, res.stdout, "header_mode: absent")
}

func TestVersionCommand(t *testing.T) {
	res := invoke(t, "version")
	require.Equal(t, exitOK, res.code)
	assert.Contains(t, res.stdout, "rowscols v"+version)
}

func TestMetricsFile(t *testing.T) {
	src := testutil.WriteFile(t, "people.csv", people)
	metricsPath := filepath.Join(t.TempDir(), "rowscols.prom")

	res := invoke(t, "analyze", "--data-dir", t.TempDir(), "--metrics-file", metricsPath, src)
	require.Equal(t, exitOK, res.code, res.stderr)

	data, err := os.ReadFile(metricsPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), `rowscols_analyses_total{status="success"} 1`)
	assert.Contains(t, string(data), "rowscols_data_rows_total 3")
}

func TestTraceFlag(t *testing.T) {
	src := testutil.WriteFile(t, "people.csv", people)

	res := invoke(t, "analyze", "--trace", "--data-dir", t.TempDir(), src)
	require.Equal(t, exitOK, res.code, res.stderr)
	assert.Contains(t, res.stderr, "rowscols.analyze")
	assert.Contains(t, res.stderr, "rowscols.structure")
}

func TestExitCodeMapping(t *testing.T) {
	assert.Equal(t, exitConfig, exitCode(errors.Config("x")))
	assert.Equal(t, exitFileSystem, exitCode(errors.FileSystem(nil, "open", "x")))
	assert.Equal(t, exitProcessing, exitCode(errors.Processing("x", 1, -1)))
	assert.Equal(t, exitMetadata, exitCode(errors.New(errors.ErrorTypeMetadata, "x")))
	assert.Equal(t, exitOther, exitCode(context.Canceled))
}
