package schema

import (
	"strconv"

	"github.com/apache/arrow-go/v18/arrow"
)

// FieldMetadataIndex is the Arrow field metadata key holding the 0-based
// source column position.
const FieldMetadataIndex = "rowscols.column_index"

// ToArrowSchema converts detected columns to an Arrow schema. A column with
// any empty sampled value is nullable.
func ToArrowSchema(columns []ColumnInfo) *arrow.Schema {
	fields := make([]arrow.Field, 0, len(columns))
	for _, col := range columns {
		fields = append(fields, arrow.Field{
			Name:     col.Name,
			Type:     ArrowType(col.DetectedType),
			Nullable: col.EmptyCount > 0,
			Metadata: arrow.NewMetadata(
				[]string{FieldMetadataIndex},
				[]string{strconv.Itoa(col.Index)},
			),
		})
	}
	return arrow.NewSchema(fields, nil)
}

// ArrowType maps a detected type to its Arrow counterpart.
func ArrowType(t ColumnDataType) arrow.DataType {
	switch t {
	case TypeBoolean:
		return arrow.FixedWidthTypes.Boolean
	case TypeInteger:
		return arrow.PrimitiveTypes.Int64
	case TypeFloat:
		return arrow.PrimitiveTypes.Float64
	default:
		return arrow.BinaryTypes.String
	}
}
