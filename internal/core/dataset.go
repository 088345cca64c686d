package core

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
)

// Row is one record, aligned to its Dataset's headers.
type Row []Value

// Dataset is an ordered list of rows sharing one header list.
// A Dataset is never modified after construction; accessors return copies
// and derived datasets are new values.
type Dataset struct {
	headers []string
	index   map[string]int
	rows    []Row
}

// NewDataset builds a Dataset from headers and rows. Header names must be
// unique. Short rows are padded with missing values; long rows are an error.
func NewDataset(headers []string, rows []Row) (*Dataset, error) {
	index := make(map[string]int, len(headers))
	for i, h := range headers {
		if _, dup := index[h]; dup {
			return nil, &InvalidInputError{Reason: fmt.Sprintf("duplicate header %q", h)}
		}
		index[h] = i
	}

	out := make([]Row, len(rows))
	for i, r := range rows {
		if len(r) > len(headers) {
			return nil, &InvalidInputError{
				Reason: fmt.Sprintf("row %d has %d values for %d headers", i+1, len(r), len(headers)),
			}
		}
		row := make(Row, len(headers))
		copy(row, r)
		out[i] = row
	}

	return &Dataset{
		headers: append([]string(nil), headers...),
		index:   index,
		rows:    out,
	}, nil
}

// newDataset wraps already-aligned rows without copying.
func newDataset(headers []string, index map[string]int, rows []Row) *Dataset {
	return &Dataset{headers: headers, index: index, rows: rows}
}

// Headers returns a copy of the header list.
func (d *Dataset) Headers() []string {
	return append([]string(nil), d.headers...)
}

// Len returns the number of rows.
func (d *Dataset) Len() int { return len(d.rows) }

// Row returns a copy of row i.
func (d *Dataset) Row(i int) Row {
	return append(Row(nil), d.rows[i]...)
}

// Rows returns a copy of every row.
func (d *Dataset) Rows() []Row {
	out := make([]Row, len(d.rows))
	for i := range d.rows {
		out[i] = d.Row(i)
	}
	return out
}

// Value returns the cell at row i under column col.
// The boolean is false when the column does not exist.
func (d *Dataset) Value(i int, col string) (Value, bool) {
	pos, ok := d.index[col]
	if !ok {
		return Value{}, false
	}
	return d.rows[i][pos], true
}

// HasColumn reports whether col is one of the headers.
func (d *Dataset) HasColumn(col string) bool {
	_, ok := d.index[col]
	return ok
}

// Filter returns a new Dataset holding the rows for which keep returns true.
func (d *Dataset) Filter(keep func(Row) bool) *Dataset {
	var rows []Row
	for i := range d.rows {
		if r := d.Row(i); keep(r) {
			rows = append(rows, r)
		}
	}
	return newDataset(d.Headers(), d.index, rows)
}

// Select returns a new Dataset with only the named columns, in the given order.
func (d *Dataset) Select(cols ...string) (*Dataset, error) {
	pos := make([]int, len(cols))
	for i, c := range cols {
		p, ok := d.index[c]
		if !ok {
			return nil, &InvalidInputError{Reason: fmt.Sprintf("column %q not found", c)}
		}
		pos[i] = p
	}

	rows := make([]Row, len(d.rows))
	for i, src := range d.rows {
		row := make(Row, len(cols))
		for j, p := range pos {
			row[j] = src[p]
		}
		rows[i] = row
	}
	return NewDataset(cols, rows)
}

// presentKeys returns the headers of row i whose value is not missing.
func (d *Dataset) presentKeys(i int) []string {
	var keys []string
	for j, v := range d.rows[i] {
		if v.Kind() != KindMissing {
			keys = append(keys, d.headers[j])
		}
	}
	return keys
}

// MarshalJSON encodes the dataset as an array of objects whose keys follow
// header order. Missing values are omitted.
func (d *Dataset) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('[')
	for i, row := range d.rows {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteByte('{')
		first := true
		for j, v := range row {
			if v.Kind() == KindMissing {
				continue
			}
			if !first {
				buf.WriteByte(',')
			}
			first = false
			key, err := json.Marshal(d.headers[j])
			if err != nil {
				return nil, err
			}
			buf.Write(key)
			buf.WriteByte(':')
			val, err := v.MarshalJSON()
			if err != nil {
				return nil, fmt.Errorf("row %d column %q: %w", i+1, d.headers[j], err)
			}
			buf.Write(val)
		}
		buf.WriteByte('}')
	}
	buf.WriteByte(']')
	return buf.Bytes(), nil
}

// MarshalJSON encodes v as a JSON scalar. Missing encodes as null.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindString:
		return json.Marshal(v.str)
	case KindInt, KindFloat:
		if v.kind == KindFloat && (math.IsNaN(v.flt) || math.IsInf(v.flt, 0)) {
			return nil, fmt.Errorf("cannot encode %s as JSON", v.String())
		}
		return []byte(v.String()), nil
	case KindBool:
		return json.Marshal(v.bl)
	default:
		return []byte("null"), nil
	}
}
