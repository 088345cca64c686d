package core

import (
	"strings"
	"unicode/utf8"
)

// SplitLine splits one line of CSV text into fields.
//
// Double quotes switch quoted mode on and off and are not emitted; a doubled
// quote inside quoted mode emits a single literal quote. The delimiter is
// literal while quoted. The last field is always emitted, even when empty.
// With trim set, surrounding whitespace is removed from every field after
// quotes are resolved, so whitespace inside quotes is trimmed too.
//
// An unterminated quote never fails: the rest of the line is read as quoted
// content.
func SplitLine(line string, delim rune, trim bool) []string {
	fields, _ := scanLine(line, delim, trim)
	return fields
}

// scanLine is SplitLine that also reports whether the line ended in quoted mode.
func scanLine(line string, delim rune, trim bool) (fields []string, unterminated bool) {
	var cur strings.Builder
	inQuotes := false

	emit := func() {
		f := cur.String()
		if trim {
			f = strings.TrimSpace(f)
		}
		fields = append(fields, f)
		cur.Reset()
	}

	for i := 0; i < len(line); {
		r, size := utf8.DecodeRuneInString(line[i:])
		switch {
		case r == '"':
			if inQuotes && i+size < len(line) && line[i+size] == '"' {
				cur.WriteByte('"')
				i += size + 1
				continue
			}
			inQuotes = !inQuotes
		case r == delim && !inQuotes:
			emit()
		default:
			cur.WriteString(line[i : i+size])
		}
		i += size
	}
	emit()

	return fields, inQuotes
}
