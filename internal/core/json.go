package core

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"strconv"
)

// DecodeJSON reads a JSON array of flat objects into a Dataset.
//
// Key order is preserved: headers are the union of keys in first-seen order
// and keys absent from an object become missing values. Nested objects and
// arrays are kept as their compact JSON text. A repeated key inside one
// object keeps its first position and its last value.
func DecodeJSON(r io.Reader) (*Dataset, error) {
	if r == nil {
		return nil, &InvalidInputError{Reason: "no input provided"}
	}

	dec := json.NewDecoder(r)
	dec.UseNumber()

	if err := expectDelim(dec, '['); err != nil {
		return nil, err
	}

	var headers []string
	index := map[string]int{}
	var rows []map[int]Value

	for n := 1; dec.More(); n++ {
		tok, err := dec.Token()
		if err != nil {
			return nil, &InvalidInputError{Reason: "malformed JSON", Err: err}
		}
		if d, ok := tok.(json.Delim); !ok || d != '{' {
			return nil, &InvalidInputError{Reason: fmt.Sprintf("element %d is not an object", n)}
		}

		row := map[int]Value{}
		for dec.More() {
			tok, err := dec.Token()
			if err != nil {
				return nil, &InvalidInputError{Reason: "malformed JSON", Err: err}
			}
			key := tok.(string)

			var raw json.RawMessage
			if err := dec.Decode(&raw); err != nil {
				return nil, &InvalidInputError{Reason: fmt.Sprintf("element %d key %q", n, key), Err: err}
			}
			v, err := jsonValue(raw)
			if err != nil {
				return nil, &InvalidInputError{Reason: fmt.Sprintf("element %d key %q", n, key), Err: err}
			}

			pos, ok := index[key]
			if !ok {
				pos = len(headers)
				index[key] = pos
				headers = append(headers, key)
			}
			row[pos] = v
		}
		if err := expectDelim(dec, '}'); err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}

	if err := expectDelim(dec, ']'); err != nil {
		return nil, err
	}

	aligned := make([]Row, len(rows))
	for i, m := range rows {
		row := make(Row, len(headers))
		for pos, v := range m {
			row[pos] = v
		}
		aligned[i] = row
	}
	return newDataset(headers, index, aligned), nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return &InvalidInputError{Reason: "malformed JSON", Err: err}
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return &InvalidInputError{Reason: fmt.Sprintf("malformed JSON: expected %q, got %v", want, tok)}
	}
	return nil
}

// jsonValue converts one raw JSON value into a Value.
func jsonValue(raw json.RawMessage) (Value, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return Value{}, fmt.Errorf("empty value")
	}

	switch raw[0] {
	case '"':
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return Value{}, err
		}
		return String(s), nil
	case 't', 'f':
		var b bool
		if err := json.Unmarshal(raw, &b); err != nil {
			return Value{}, err
		}
		return Bool(b), nil
	case 'n':
		return Null(), nil
	case '{', '[':
		var buf bytes.Buffer
		if err := json.Compact(&buf, raw); err != nil {
			return Value{}, err
		}
		return String(buf.String()), nil
	}

	f, err := strconv.ParseFloat(string(raw), 64)
	if err != nil {
		return Value{}, err
	}
	if f == math.Trunc(f) && f >= math.MinInt64 && f < math.MaxInt64 {
		return Int(int64(f)), nil
	}
	return Float(f), nil
}
