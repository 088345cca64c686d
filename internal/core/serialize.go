package core

import (
	"strings"
)

// Serialize writes d as CSV text, the inverse of Parse.
//
// Columns are opts.Fields when given, otherwise every key present in at
// least one row, in first-seen order. Values that contain the delimiter, a
// double quote, CR or LF are wrapped in quotes with inner quotes doubled.
// Lines are joined with "\n" and there is no trailing newline. An empty
// dataset serializes to "".
func Serialize(d *Dataset, opts SerializeOptions) string {
	if d == nil || d.Len() == 0 {
		return ""
	}

	delim := opts.delimiter()
	fields := opts.Fields
	if fields == nil {
		fields = d.keyUnion()
	}

	lines := make([]string, 0, d.Len()+1)
	cells := make([]string, len(fields))

	if opts.IncludeHeaders {
		for i, f := range fields {
			cells[i] = EscapeField(f, delim)
		}
		lines = append(lines, strings.Join(cells, string(delim)))
	}

	for i := 0; i < d.Len(); i++ {
		for j, f := range fields {
			v, _ := d.Value(i, f)
			cells[j] = EscapeField(v.String(), delim)
		}
		lines = append(lines, strings.Join(cells, string(delim)))
	}

	return strings.Join(lines, "\n")
}

// EscapeField quotes s when it contains the delimiter, a double quote, or a
// line break, doubling any quotes inside it.
func EscapeField(s string, delim rune) string {
	if !strings.ContainsRune(s, delim) && !strings.ContainsAny(s, "\"\r\n") {
		return s
	}
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// keyUnion returns the headers that hold a value in at least one row.
func (d *Dataset) keyUnion() []string {
	present := make([]bool, len(d.headers))
	for _, row := range d.rows {
		for j, v := range row {
			if v.Kind() != KindMissing {
				present[j] = true
			}
		}
	}
	keys := make([]string, 0, len(d.headers))
	for j, ok := range present {
		if ok {
			keys = append(keys, d.headers[j])
		}
	}
	return keys
}
