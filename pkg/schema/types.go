// Package schema defines the column model produced by analysis and the
// pure type classification applied to sampled values.
package schema

import (
	"fmt"
	"strings"
)

// MaxSampleValues caps the values retained per column.
const MaxSampleValues = 5

// ColumnDataType is the detected type of a column. The zero value is
// TypeString, the universal fallback.
type ColumnDataType int

const (
	// TypeString is text, or anything not clearly typed
	TypeString ColumnDataType = iota
	// TypeBoolean is true/false, yes/no, 1/0, t/f, y/n
	TypeBoolean
	// TypeInteger is a whole number fitting in 64 bits
	TypeInteger
	// TypeFloat is a 64-bit floating point number
	TypeFloat
)

// AllTypes lists every variant in classification priority order, fallback last.
var AllTypes = []ColumnDataType{TypeBoolean, TypeInteger, TypeFloat, TypeString}

// Tag returns the canonical lowercase tag stored in metadata.
func (t ColumnDataType) Tag() string {
	switch t {
	case TypeBoolean:
		return "boolean"
	case TypeInteger:
		return "integer"
	case TypeFloat:
		return "float"
	default:
		return "string"
	}
}

// String implements fmt.Stringer.
func (t ColumnDataType) String() string {
	return t.Tag()
}

// ParseColumnDataType resolves a tag or synonym, case-insensitively.
// ok is false for unrecognised text; the caller decides what that means.
func ParseColumnDataType(text string) (ColumnDataType, bool) {
	switch strings.ToLower(text) {
	case "boolean", "bool":
		return TypeBoolean, true
	case "integer", "int":
		return TypeInteger, true
	case "float", "decimal", "number":
		return TypeFloat, true
	case "string", "text", "str":
		return TypeString, true
	default:
		return TypeString, false
	}
}

// MarshalText encodes the type as its tag.
func (t ColumnDataType) MarshalText() ([]byte, error) {
	return []byte(t.Tag()), nil
}

// UnmarshalText accepts any tag or synonym.
func (t *ColumnDataType) UnmarshalText(text []byte) error {
	parsed, ok := ParseColumnDataType(string(text))
	if !ok {
		return fmt.Errorf("unknown column data type %q", string(text))
	}
	*t = parsed
	return nil
}

// ColumnInfo describes one detected column.
// Counts cover the sampled window only, not the whole file.
type ColumnInfo struct {
	Index         int            `json:"index" yaml:"index"`
	Name          string         `json:"name" yaml:"name"`
	DetectedType  ColumnDataType `json:"detected_type" yaml:"detected_type"`
	NonEmptyCount int            `json:"non_empty_count" yaml:"non_empty_count"`
	EmptyCount    int            `json:"empty_count" yaml:"empty_count"`
	SampleValues  []string       `json:"sample_values" yaml:"sample_values"`
}

// PlaceholderName returns the generated name for a 0-based column index.
func PlaceholderName(index int) string {
	return fmt.Sprintf("column_%d", index+1)
}
