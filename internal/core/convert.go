package core

// convert.go turns raw CSV field strings into typed Values.
//
// The rules are applied in order and the first match wins:
//   - "" stays the empty string (it is not null)
//   - true/false in any case become booleans
//   - null/undefined in any case become null
//   - a complete finite decimal number becomes an int when it has no
//     fractional part and fits in int64, otherwise a float
//   - anything else is kept as the original string
//
// A column holding the text "true" in every row is therefore boolean.

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// numericRegex validates that a string is a plain decimal number.
// Matches integers, decimals, and scientific notation.
var numericRegex = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

// Coerce converts a raw field into a typed Value.
func Coerce(raw string) Value {
	if raw == "" {
		return String("")
	}

	switch strings.ToLower(raw) {
	case "true":
		return Bool(true)
	case "false":
		return Bool(false)
	case "null", "undefined":
		return Null()
	}

	if f, ok := parseNumber(raw); ok {
		if f == math.Trunc(f) && f >= math.MinInt64 && f < math.MaxInt64 {
			return Int(int64(f))
		}
		return Float(f)
	}

	return String(raw)
}

// CoerceAll coerces every field of a tokenized line.
func CoerceAll(fields []string) Row {
	row := make(Row, len(fields))
	for i, f := range fields {
		row[i] = Coerce(f)
	}
	return row
}

// IsNumeric reports whether s reads as a finite decimal number.
// Surrounding whitespace is ignored.
func IsNumeric(s string) bool {
	_, ok := parseNumber(s)
	return ok
}

// parseNumber parses s when it is a complete, finite decimal number.
func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" || !numericRegex.MatchString(s) {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
