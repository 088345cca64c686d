package core

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput is matched by every *InvalidInputError.
	ErrInvalidInput = errors.New("invalid input")

	// ErrMalformed is matched by every *MalformedError.
	ErrMalformed = errors.New("malformed csv")
)

// InvalidInputError reports input the engine cannot work with at all:
// a missing reader, unreadable bytes, or unusable options.
// Malformed CSV content is never an InvalidInputError.
type InvalidInputError struct {
	Reason string
	Err    error // Underlying cause, if any
}

func (e *InvalidInputError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid input: %s: %v", e.Reason, e.Err)
	}
	return "invalid input: " + e.Reason
}

func (e *InvalidInputError) Unwrap() error { return e.Err }

// Is makes errors.Is(err, ErrInvalidInput) succeed.
func (e *InvalidInputError) Is(target error) bool { return target == ErrInvalidInput }

// MalformedError is returned by Parse in strict mode only.
type MalformedError struct {
	Line   int // 1-based line in the input text, blank lines included
	Reason string
}

func (e *MalformedError) Error() string {
	return fmt.Sprintf("malformed csv: line %d: %s", e.Line, e.Reason)
}

func (e *MalformedError) Is(target error) bool { return target == ErrMalformed }

// checkDelimiter rejects delimiters that would make tokenizing ambiguous.
func checkDelimiter(d rune) error {
	switch d {
	case '"':
		return &InvalidInputError{Reason: "delimiter cannot be a double quote"}
	case '\r', '\n':
		return &InvalidInputError{Reason: "delimiter cannot be a line break"}
	}
	return nil
}
