package report

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/ajitpratap0/rowscols/pkg/analyzer"
	"github.com/ajitpratap0/rowscols/pkg/json"
	"github.com/ajitpratap0/rowscols/pkg/metadata"
	"github.com/ajitpratap0/rowscols/pkg/schema"
	"github.com/ajitpratap0/rowscols/pkg/workspace"
)

func sampleResult() *analyzer.AnalysisResult {
	return &analyzer.AnalysisResult{
		RunID:        "run-1",
		SourcePath:   "/data/people.csv",
		SourceSize:   2048,
		HasHeader:    true,
		ColumnCount:  2,
		DataRowCount: 7,
		Columns: []schema.ColumnInfo{
			{Index: 0, Name: "id", DetectedType: schema.TypeInteger, NonEmptyCount: 7, SampleValues: []string{"1", "2", "3", "4", "5"}},
			{Index: 1, Name: "ok", DetectedType: schema.TypeBoolean, NonEmptyCount: 2, EmptyCount: 5, SampleValues: []string{"y", "n"}},
		},
		MetadataPath: "/data/people.csv_metadata.toml",
		Warnings:     []string{"inconsistent column counts: line 1 has 2 fields, line 2 has 3"},
	}
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"": FormatText, "TEXT": FormatText, "json": FormatJSON, "yml": FormatYAML, "yaml": FormatYAML} {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseFormat("xml")
	assert.Error(t, err)
}

func TestSampleSummary(t *testing.T) {
	assert.Equal(t, "a", SampleSummary([]string{"a"}))
	assert.Equal(t, "a, b, c", SampleSummary([]string{"a", "b", "c"}))
	assert.Equal(t, "a, b ... (showing 3 of 5)", SampleSummary([]string{"a", "b", "c", "d", "e"}))
}

func TestFormatSize(t *testing.T) {
	assert.Equal(t, "12 B", FormatSize(12))
	assert.Equal(t, "2.0 KB", FormatSize(2048))
	assert.Equal(t, "1.5 MB", FormatSize(1536*1024))
	assert.Equal(t, "3.0 GB", FormatSize(3*1024*1024*1024))
}

func TestWriteAnalysisText(t *testing.T) {
	var buf bytes.Buffer
	ws := &workspace.Paths{Root: "/opt/rowscols_data", Imports: "/opt/rowscols_data/csv_imports"}
	require.NoError(t, WriteAnalysis(&buf, FormatText, sampleResult(), ws))

	out := buf.String()
	assert.Contains(t, out, "  Size: 2.0 KB (2048 bytes)")
	assert.Contains(t, out, "  Total Columns: 2\n  Data Rows: 7\n  Has Header Row: true\n")
	assert.Contains(t, out, "  1. id (integer)\n     Values: 7 non-empty, 0 empty\n     Samples: 1, 2 ... (showing 3 of 5)\n")
	assert.Contains(t, out, "  2. ok (boolean)\n     Values: 2 non-empty, 5 empty\n     Samples: y, n\n")
	assert.Contains(t, out, "  ! inconsistent column counts")
	assert.Contains(t, out, "✓ Created new: /data/people.csv_metadata.toml")
	assert.Contains(t, out, "Data will be stored in:\n  /opt/rowscols_data/csv_imports\n")
	assert.Contains(t, out, "rowscols analyze /data/people.csv")
}

func TestWriteAnalysisTextUpdated(t *testing.T) {
	r := sampleResult()
	r.MetadataExisted = true
	r.Warnings = nil

	var buf bytes.Buffer
	require.NoError(t, WriteAnalysis(&buf, FormatText, r, nil))
	assert.Contains(t, buf.String(), "✓ Updated existing: ")
	assert.NotContains(t, buf.String(), "Warnings:")
	assert.NotContains(t, buf.String(), "Data will be stored in:")
}

func TestWriteAnalysisJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteAnalysis(&buf, FormatJSON, sampleResult(), nil))

	var doc struct {
		Analysis struct {
			RunID   string `json:"run_id"`
			Columns []struct {
				Name         string `json:"name"`
				DetectedType string `json:"detected_type"`
			} `json:"columns"`
		} `json:"analysis"`
		Workspace *workspace.Paths `json:"workspace"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, "run-1", doc.Analysis.RunID)
	assert.Equal(t, "integer", doc.Analysis.Columns[0].DetectedType)
	assert.Equal(t, "boolean", doc.Analysis.Columns[1].DetectedType)
	assert.Nil(t, doc.Workspace)
}

func TestWriteAnalysisYAML(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteAnalysis(&buf, FormatYAML, sampleResult(), nil))

	var doc map[string]map[string]interface{}
	require.NoError(t, yaml.Unmarshal(buf.Bytes(), &doc))
	assert.Equal(t, 7, doc["analysis"]["data_row_count"])
	assert.Contains(t, buf.String(), "detected_type: integer")
}

func TestWriteRecord(t *testing.T) {
	rec := &metadata.Record{
		TotalColumns: 1,
		Columns: []metadata.ColumnRecord{
			{Name: "price", DataType: schema.TypeFloat, RawType: "float", ColumnIndex: 0, NonEmptyValues: 9, EmptyValues: 1},
		},
	}

	var text bytes.Buffer
	require.NoError(t, WriteRecord(&text, FormatText, "/x.toml", rec))
	assert.Contains(t, text.String(), "  1. price (float)\n     Values: 9 non-empty, 1 empty\n")

	var js bytes.Buffer
	require.NoError(t, WriteRecord(&js, FormatJSON, "/x.toml", rec))
	assert.Contains(t, js.String(), `"detected_type": "float"`)
}

func TestWriteSchema(t *testing.T) {
	s := schema.ToArrowSchema(sampleResult().Columns)

	var text bytes.Buffer
	require.NoError(t, WriteSchema(&text, FormatText, s))
	assert.Contains(t, text.String(), "  id: int64\n")
	assert.Contains(t, text.String(), "  ok: bool, nullable\n")

	var js bytes.Buffer
	require.NoError(t, WriteSchema(&js, FormatJSON, s))
	var fields []SchemaField
	require.NoError(t, json.Unmarshal(js.Bytes(), &fields))
	assert.Equal(t, []SchemaField{{Name: "id", Type: "int64"}, {Name: "ok", Type: "bool", Nullable: true}}, fields)
}
