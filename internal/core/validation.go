package core

// validation.go checks raw CSV text for structural problems before conversion.
//
// Validation is advisory: it never stops Parse or Serialize from running.
// Findings are returned as data in a ValidationResult rather than as errors,
// so a caller can decide to go ahead with a partially valid file.
//
// The structural pass only detects ragged rows (lines whose field count
// differs from the first line). Type problems are not validation errors.
// Domain-specific passes such as ValidateContacts run separately and can be
// combined with Merge.

import (
	"fmt"
	"strings"
)

// Validate checks that every non-blank line of text has as many fields as
// the first one. Fields are counted untrimmed and blank lines are always
// ignored, regardless of opts.SkipEmptyLines.
func Validate(text string, opts Options) ValidationResult {
	res := newResult()

	if strings.TrimSpace(text) == "" {
		return res.fail("CSV data is empty")
	}

	delim := opts.delimiter()
	if err := checkDelimiter(delim); err != nil {
		return res.fail("Validation error: " + err.Error())
	}

	lines := splitLines(text, true)
	if len(lines) == 0 {
		return res.fail("No valid data lines found")
	}

	expected := -1
	for i, l := range lines {
		fields, unterminated := scanLine(l.text, delim, false)
		count := len(fields)
		if expected < 0 {
			expected = count
		} else if count != expected {
			res.Errors = append(res.Errors,
				fmt.Sprintf("Row %d has %d columns, expected %d", i+1, count, expected))
		}
		if unterminated {
			res.Warnings = append(res.Warnings,
				fmt.Sprintf("Row %d has an unterminated quoted field", i+1))
		}
	}

	res.Valid = len(res.Errors) == 0
	return res
}

// Merge combines the results of several validation passes. The merged result
// is valid only if every input is valid. The last non-nil Stats wins.
func Merge(results ...ValidationResult) ValidationResult {
	merged := newResult()
	merged.Valid = true
	for _, r := range results {
		merged.Valid = merged.Valid && r.Valid
		merged.Errors = append(merged.Errors, r.Errors...)
		merged.Warnings = append(merged.Warnings, r.Warnings...)
		if r.Stats != nil {
			merged.Stats = r.Stats
		}
	}
	return merged
}

func newResult() ValidationResult {
	return ValidationResult{Errors: []string{}, Warnings: []string{}}
}

// fail records a single fatal error and marks the result invalid.
func (r ValidationResult) fail(msg string) ValidationResult {
	r.Valid = false
	r.Errors = append(r.Errors, msg)
	return r
}
