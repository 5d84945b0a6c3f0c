package schema

import (
	"errors"
	"strconv"
	"strings"
)

// Votes counts how sampled values classified individually.
type Votes struct {
	Boolean int
	Integer int
	Float   int
	Total   int
}

// Threshold is the 70% majority a type needs, rounded down.
func (v Votes) Threshold() int {
	return v.Total * 7 / 10
}

// Winner applies the priority order Boolean, Integer, Float; String otherwise.
func (v Votes) Winner() ColumnDataType {
	if v.Total == 0 {
		return TypeString
	}
	threshold := v.Threshold()
	switch {
	case v.Boolean >= threshold:
		return TypeBoolean
	case v.Integer >= threshold:
		return TypeInteger
	case v.Float >= threshold:
		return TypeFloat
	default:
		return TypeString
	}
}

// Tally classifies each value on its own. A value votes for at most one
// type: boolean tokens first, then integer, then float.
func Tally(samples []string) Votes {
	v := Votes{Total: len(samples)}
	for _, s := range samples {
		value := strings.ToLower(strings.TrimSpace(s))
		switch {
		case IsBooleanToken(value):
			v.Boolean++
		case IsInteger(value):
			v.Integer++
		case IsFloat(value):
			v.Float++
		}
	}
	return v
}

// Classify picks the column type for a sample. An empty sample is TypeString.
func Classify(samples []string) ColumnDataType {
	return Tally(samples).Winner()
}

// IsBooleanToken reports whether value (already trimmed and lowercased)
// is one of the recognised boolean tokens.
func IsBooleanToken(value string) bool {
	switch value {
	case "true", "false", "yes", "no", "1", "0", "t", "f", "y", "n":
		return true
	}
	return false
}

// IsInteger reports whether s parses as a 64-bit signed integer.
func IsInteger(s string) bool {
	_, err := strconv.ParseInt(s, 10, 64)
	return err == nil
}

// IsFloat reports whether s parses as a 64-bit float. Out-of-range
// magnitudes count (they saturate to infinity); hexadecimal notation does not.
func IsFloat(s string) bool {
	if strings.ContainsAny(s, "xX") {
		return false
	}
	_, err := strconv.ParseFloat(s, 64)
	return err == nil || errors.Is(err, strconv.ErrRange)
}

// IsNumeric reports whether the trimmed field looks numeric.
func IsNumeric(field string) bool {
	trimmed := strings.TrimSpace(field)
	return IsInteger(trimmed) || IsFloat(trimmed)
}

// CountNumeric returns how many fields look numeric.
func CountNumeric(fields []string) int {
	n := 0
	for _, f := range fields {
		if IsNumeric(f) {
			n++
		}
	}
	return n
}
