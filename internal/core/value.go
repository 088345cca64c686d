package core

import (
	"math"
	"strconv"
	"strings"
)

// Kind identifies which scalar a Value holds.
type Kind int

const (
	// KindMissing marks a key that is absent from a row. It is the zero Kind
	// and only appears in datasets decoded from heterogeneous JSON.
	KindMissing Kind = iota
	KindString
	KindInt
	KindFloat
	KindBool
	KindNull
)

func (k Kind) String() string {
	switch k {
	case KindMissing:
		return "missing"
	case KindString:
		return "string"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindNull:
		return "null"
	default:
		return "unknown"
	}
}

// Value is a single typed cell. The zero Value is missing.
type Value struct {
	kind Kind
	str  string
	num  int64
	flt  float64
	bl   bool
}

// String returns a string Value.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Int returns an integer Value.
func Int(i int64) Value { return Value{kind: KindInt, num: i} }

// Float returns a float Value.
func Float(f float64) Value { return Value{kind: KindFloat, flt: f} }

// Bool returns a boolean Value.
func Bool(b bool) Value { return Value{kind: KindBool, bl: b} }

// Null returns the null Value.
func Null() Value { return Value{kind: KindNull} }

// Missing returns the missing Value.
func Missing() Value { return Value{} }

func (v Value) Kind() Kind { return v.kind }

// IsNumber reports whether v holds an int or a float.
func (v Value) IsNumber() bool { return v.kind == KindInt || v.kind == KindFloat }

// IsEmpty reports whether v is null, missing, or the empty string.
func (v Value) IsEmpty() bool {
	switch v.kind {
	case KindMissing, KindNull:
		return true
	case KindString:
		return v.str == ""
	}
	return false
}

// Str returns the string payload and whether v is a string.
func (v Value) Str() (string, bool) { return v.str, v.kind == KindString }

// IntValue returns the integer payload and whether v is an int.
func (v Value) IntValue() (int64, bool) { return v.num, v.kind == KindInt }

// BoolValue returns the boolean payload and whether v is a bool.
func (v Value) BoolValue() (bool, bool) { return v.bl, v.kind == KindBool }

// Float64 returns v as a float64 for either numeric kind.
func (v Value) Float64() (float64, bool) {
	switch v.kind {
	case KindInt:
		return float64(v.num), true
	case KindFloat:
		return v.flt, true
	}
	return 0, false
}

// String renders v the way it is written into CSV output.
// Missing renders as "", null as "null".
func (v Value) String() string {
	switch v.kind {
	case KindString:
		return v.str
	case KindInt:
		return strconv.FormatInt(v.num, 10)
	case KindFloat:
		return formatFloat(v.flt)
	case KindBool:
		return strconv.FormatBool(v.bl)
	case KindNull:
		return "null"
	default:
		return ""
	}
}

// Any returns the Go value held by v: string, int64, float64, bool or nil.
func (v Value) Any() any {
	switch v.kind {
	case KindString:
		return v.str
	case KindInt:
		return v.num
	case KindFloat:
		return v.flt
	case KindBool:
		return v.bl
	default:
		return nil
	}
}

// Equal reports whether two Values have the same kind and payload.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindString:
		return v.str == o.str
	case KindInt:
		return v.num == o.num
	case KindFloat:
		return v.flt == o.flt
	case KindBool:
		return v.bl == o.bl
	}
	return true
}

// formatFloat uses the shortest representation that round-trips, switching
// to exponent form for very large and very small magnitudes.
func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	abs := math.Abs(f)
	if abs != 0 && (abs < 1e-6 || abs >= 1e21) {
		// Go pads the exponent to two digits ("1e-07"); drop the padding.
		s := strconv.FormatFloat(f, 'e', -1, 64)
		i := strings.IndexByte(s, 'e')
		mant, exp := s[:i], s[i+1:]
		sign := exp[:1]
		digits := strings.TrimLeft(exp[1:], "0")
		return mant + "e" + sign + digits
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
