package core

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Parse converts CSV text into a Dataset.
//
// Lines are split on "\n" or "\r\n". Blank lines are dropped when
// SkipEmptyLines is set, and if nothing remains the result is an empty
// Dataset. Ragged rows are tolerated: missing fields become "" before
// coercion and extra fields are dropped. Unless opts.Strict is set, the only
// error is *InvalidInputError for unusable options.
func Parse(text string, opts Options) (*Dataset, error) {
	return parse(text, opts, CoerceAll)
}

// ParseRaw is Parse without coercion: every cell is the String of its
// tokenized field. Contact checks need it, since coercion turns a phone
// like 0123456789 into a number and drops the leading zero.
func ParseRaw(text string, opts Options) (*Dataset, error) {
	return parse(text, opts, rawRow)
}

func parse(text string, opts Options, toRow func([]string) Row) (*Dataset, error) {
	delim := opts.delimiter()
	if err := checkDelimiter(delim); err != nil {
		return nil, err
	}

	lines := splitLines(text, opts.SkipEmptyLines)
	if len(lines) == 0 {
		return newDataset(nil, map[string]int{}, nil), nil
	}

	tokenized := make([][]string, len(lines))
	for i, l := range lines {
		fields, unterminated := scanLine(l.text, delim, opts.TrimValues)
		if opts.Strict && unterminated {
			return nil, &MalformedError{Line: l.num, Reason: "unterminated quoted field"}
		}
		tokenized[i] = fields
	}

	var names []string
	data, dataLines := tokenized, lines
	if opts.HasHeaders {
		names = tokenized[0]
		data, dataLines = tokenized[1:], lines[1:]
	} else {
		names = syntheticHeaders(tokenized)
	}

	if opts.Strict {
		for i, fields := range data {
			if len(fields) != len(names) {
				return nil, &MalformedError{
					Line:   dataLines[i].num,
					Reason: fmt.Sprintf("has %d columns, expected %d", len(fields), len(names)),
				}
			}
		}
	}

	headers, source := resolveHeaders(names)
	index := make(map[string]int, len(headers))
	for i, h := range headers {
		index[h] = i
	}

	rows := make([]Row, len(data))
	aligned := make([]string, len(headers))
	for i, fields := range data {
		for j, src := range source {
			aligned[j] = ""
			if src < len(fields) {
				aligned[j] = fields[src]
			}
		}
		rows[i] = toRow(aligned)
	}

	return newDataset(headers, index, rows), nil
}

func rawRow(fields []string) Row {
	row := make(Row, len(fields))
	for i, f := range fields {
		row[i] = String(f)
	}
	return row
}

// ParseReader reads all of r and parses it with Parse.
func ParseReader(r io.Reader, opts Options) (*Dataset, error) {
	if r == nil {
		return nil, &InvalidInputError{Reason: "no input provided"}
	}
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, &InvalidInputError{Reason: "read failed", Err: err}
	}
	return Parse(string(b), opts)
}

// line is one retained input line and its 1-based position in the text.
type line struct {
	text string
	num  int
}

// splitLines splits on \r?\n, optionally dropping lines that are blank
// after trimming.
func splitLines(text string, skipEmpty bool) []line {
	if text == "" && skipEmpty {
		return nil
	}
	raw := strings.Split(text, "\n")
	lines := make([]line, 0, len(raw))
	for i, l := range raw {
		l = strings.TrimSuffix(l, "\r")
		if skipEmpty && strings.TrimSpace(l) == "" {
			continue
		}
		lines = append(lines, line{text: l, num: i + 1})
	}
	return lines
}

// syntheticHeaders names columns column_1..column_N, where N is the widest
// tokenized line.
func syntheticHeaders(tokenized [][]string) []string {
	width := 0
	for _, fields := range tokenized {
		width = max(width, len(fields))
	}
	names := make([]string, width)
	for i := range names {
		names[i] = "column_" + strconv.Itoa(i+1)
	}
	return names
}

// resolveHeaders collapses repeated names into one key. The key keeps the
// position of its first occurrence and reads its value from the last one.
// source[i] is the field index that feeds headers[i].
func resolveHeaders(names []string) (headers []string, source []int) {
	seen := make(map[string]int, len(names))
	for i, n := range names {
		if pos, ok := seen[n]; ok {
			source[pos] = i
			continue
		}
		seen[n] = len(headers)
		headers = append(headers, n)
		source = append(source, i)
	}
	return headers, source
}
