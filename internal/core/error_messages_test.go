package core

import (
	"errors"
	"fmt"
	"testing"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantCode    string
		wantMessage string
	}{
		{
			name:        "nil error returns empty",
			err:         nil,
			wantCode:    "",
			wantMessage: "",
		},
		{
			name:        "missing input maps correctly",
			err:         &InvalidInputError{Reason: "no input provided"},
			wantCode:    "INP001",
			wantMessage: "Nothing was provided to convert",
		},
		{
			name:        "bad delimiter maps correctly",
			err:         checkDelimiter('"'),
			wantCode:    "INP002",
			wantMessage: "The delimiter cannot be used",
		},
		{
			name:        "malformed json maps correctly",
			err:         &InvalidInputError{Reason: "malformed JSON", Err: errors.New("unexpected EOF")},
			wantCode:    "INP003",
			wantMessage: "The JSON input could not be read",
		},
		{
			name:        "non-object element maps correctly",
			err:         &InvalidInputError{Reason: "element 2 is not an object"},
			wantCode:    "INP003",
			wantMessage: "The JSON array must contain objects",
		},
		{
			name:        "strict mode rejection maps correctly",
			err:         &MalformedError{Line: 4, Reason: "unterminated quoted field"},
			wantCode:    "CSV001",
			wantMessage: "The CSV file has a malformed row",
		},
		{
			name:        "file too large maps correctly",
			err:         errors.New("file too large: 20971520 bytes exceeds limit of 10485760"),
			wantCode:    "FILE001",
			wantMessage: "File exceeds the maximum size limit",
		},
		{
			name:        "wrapped error maps correctly",
			err:         fmt.Errorf("convert: %w", errors.New("file must be a CSV file: notes.txt")),
			wantCode:    "FILE002",
			wantMessage: "Please select a valid CSV file",
		},
		{
			name:        "encoding error maps correctly",
			err:         errors.New("encoding error: unsupported charset x-mac-klingon"),
			wantCode:    "FILE003",
			wantMessage: "File contains invalid characters",
		},
		{
			name:        "read failure maps correctly",
			err:         errors.New("failed to read file: open x.csv: no such file or directory"),
			wantCode:    "FILE006",
			wantMessage: "The file could not be read",
		},
		{
			name:        "unknown error returns default",
			err:         errors.New("some random internal error"),
			wantCode:    "ERR000",
			wantMessage: "An unexpected error occurred",
		},
		{
			name:        "case insensitive matching",
			err:         errors.New("EMPTY FILE: data.csv"),
			wantCode:    "FILE005",
			wantMessage: "The file is empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err)
			if got.Code != tt.wantCode {
				t.Errorf("MapError() code = %q, want %q", got.Code, tt.wantCode)
			}
			if got.Message != tt.wantMessage {
				t.Errorf("MapError() message = %q, want %q", got.Message, tt.wantMessage)
			}
		})
	}
}

func TestFormatUserError(t *testing.T) {
	err := errors.New("no file provided")
	result := FormatUserError(err)

	expected := "No file was selected (Code: FILE004). Please select a CSV file"
	if result != expected {
		t.Errorf("FormatUserError() = %q, want %q", result, expected)
	}

	if got := FormatUserError(nil); got != "" {
		t.Errorf("FormatUserError(nil) = %q, want empty", got)
	}
}

func TestIsUserFacing(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{
			name: "nil error is not user facing",
			err:  nil,
			want: false,
		},
		{
			name: "known error is user facing",
			err:  errors.New("empty file"),
			want: true,
		},
		{
			name: "unknown error is not user facing",
			err:  errors.New("random internal error xyz"),
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := IsUserFacing(tt.err)
			if got != tt.want {
				t.Errorf("IsUserFacing() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNewUserError(t *testing.T) {
	t.Run("nil error returns nil", func(t *testing.T) {
		if got := NewUserError(nil); got != nil {
			t.Errorf("NewUserError(nil) = %v, want nil", got)
		}
	})

	t.Run("wraps technical error with user message", func(t *testing.T) {
		techErr := &MalformedError{Line: 2, Reason: "has 3 columns, expected 2"}
		userErr := NewUserError(techErr)

		if userErr.Error() != "The CSV file has a malformed row" {
			t.Errorf("Error() = %q, want user message", userErr.Error())
		}

		if !errors.Is(userErr, ErrMalformed) {
			t.Error("Unwrap() should return original error")
		}
	})
}
