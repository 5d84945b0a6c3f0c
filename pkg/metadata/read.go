package metadata

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/ajitpratap0/rowscols/pkg/errors"
	"github.com/ajitpratap0/rowscols/pkg/schema"
)

const (
	keyTotalColumns = "total_columns"
	tablePrefix     = "column_"
)

// Record is a decoded sidecar.
type Record struct {
	TotalColumns int
	Columns      []ColumnRecord
}

// ColumnRecord is one [column_<n>] table.
type ColumnRecord struct {
	Name           string                `toml:"name"`
	DataType       schema.ColumnDataType `toml:"-"`
	RawType        string                `toml:"data_type"`
	ColumnIndex    int                   `toml:"column_index"`
	NonEmptyValues int                   `toml:"non_empty_values"`
	EmptyValues    int                   `toml:"empty_values"`
}

// ColumnInfo converts the record to the analysis model. Samples are not
// persisted, so SampleValues is empty.
func (c ColumnRecord) ColumnInfo() schema.ColumnInfo {
	return schema.ColumnInfo{
		Index:         c.ColumnIndex,
		Name:          c.Name,
		DetectedType:  c.DataType,
		NonEmptyCount: c.NonEmptyValues,
		EmptyCount:    c.EmptyValues,
	}
}

// Read decodes the sidecar at path. Columns come back ordered by index.
func Read(path string) (*Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.FileSystem(err, "read", path)
	}
	return Parse(data, path)
}

// Parse decodes sidecar text; path is only used in errors.
func Parse(data []byte, path string) (*Record, error) {
	var raw map[string]toml.Primitive
	md, err := toml.Decode(string(data), &raw)
	if err != nil {
		return nil, malformed(path, err, "invalid TOML")
	}

	rec := &Record{}
	total, ok := raw[keyTotalColumns]
	if !ok {
		return nil, malformed(path, nil, "missing total_columns")
	}
	if err := md.PrimitiveDecode(total, &rec.TotalColumns); err != nil {
		return nil, malformed(path, err, "total_columns is not an integer")
	}

	for key, prim := range raw {
		if !strings.HasPrefix(key, tablePrefix) {
			continue
		}
		if _, err := strconv.Atoi(strings.TrimPrefix(key, tablePrefix)); err != nil {
			continue
		}

		var col ColumnRecord
		if err := md.PrimitiveDecode(prim, &col); err != nil {
			return nil, malformed(path, err, fmt.Sprintf("table %s", key))
		}
		if !md.IsDefined(key, "data_type") {
			return nil, malformed(path, nil, fmt.Sprintf("table %s has no data_type", key))
		}
		typ, ok := schema.ParseColumnDataType(col.RawType)
		if !ok {
			return nil, malformed(path, nil, fmt.Sprintf("table %s has unknown data_type %q", key, col.RawType))
		}
		col.DataType = typ
		rec.Columns = append(rec.Columns, col)
	}

	sort.Slice(rec.Columns, func(i, j int) bool {
		return rec.Columns[i].ColumnIndex < rec.Columns[j].ColumnIndex
	})

	if len(rec.Columns) != rec.TotalColumns {
		return nil, malformed(path, nil,
			fmt.Sprintf("total_columns is %d but %d column tables found", rec.TotalColumns, len(rec.Columns)))
	}
	return rec, nil
}

func malformed(path string, cause error, message string) *errors.Error {
	var e *errors.Error
	if cause != nil {
		e = errors.Wrap(cause, errors.ErrorTypeMetadata, message)
	} else {
		e = errors.New(errors.ErrorTypeMetadata, message)
	}
	return e.WithDetail(errors.DetailPath, path)
}
