// Package core provides the CSV conversion engine.
//
// # Error Codes Reference
//
// This file defines user-friendly error messages with codes for support reference.
// Hard failures (bad input, unreadable files) are mapped here; soft failures
// such as ragged rows are reported in a ValidationResult and never reach
// MapError.
//
// # Input Errors (INP001-INP099)
//
//	INP001 - No input: Nothing was provided to convert
//	         Action: Provide CSV text or a file path
//	         Patterns: "no input provided"
//
//	INP002 - Bad delimiter: The delimiter cannot be used
//	         Action: Use a single character other than a quote or line break
//	         Patterns: "delimiter cannot"
//
//	INP003 - Bad JSON: The JSON input could not be read
//	         Action: Provide an array of flat objects
//	         Patterns: "malformed json", "is not an object"
//
// # CSV Errors (CSV001-CSV099)
//
//	CSV001 - Malformed CSV: Strict mode rejected a row
//	         Action: Fix the reported line or run without strict mode
//	         Patterns: "malformed csv"
//
// # File Errors (FILE001-FILE099)
//
//	FILE001 - File too large: File exceeds the maximum size limit
//	FILE002 - Not a CSV: File must be a CSV file
//	FILE003 - Encoding error: File contains invalid characters
//	FILE004 - No file: No file was selected
//	FILE005 - Empty file: The file is empty
//	FILE006 - Read failure: The file could not be read
//
// # Default Error (ERR000)
//
// Fallback when no specific pattern matches. Check the logs for the original
// technical error.
//
// # Pattern Matching
//
// Patterns are matched case-insensitively with strings.Contains. The first
// matching pattern wins, so specific patterns come before general ones.
package core

import (
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns maps technical error patterns (case-insensitive) to user messages.
// The first matching pattern wins, so order matters.
var errorPatterns = []errorPattern{
	// =========================================================================
	// Input Errors (INP001-INP003)
	// =========================================================================
	{
		pattern: "no input provided",
		msg: UserMessage{
			Message: "Nothing was provided to convert",
			Action:  "Provide CSV text or a file path",
			Code:    "INP001",
		},
	},
	{
		pattern: "delimiter cannot",
		msg: UserMessage{
			Message: "The delimiter cannot be used",
			Action:  "Use a single character other than a quote or line break",
			Code:    "INP002",
		},
	},
	{
		pattern: "malformed json",
		msg: UserMessage{
			Message: "The JSON input could not be read",
			Action:  "Provide an array of flat objects",
			Code:    "INP003",
		},
	},
	{
		pattern: "is not an object",
		msg: UserMessage{
			Message: "The JSON array must contain objects",
			Action:  "Provide an array of flat objects",
			Code:    "INP003",
		},
	},

	// =========================================================================
	// CSV Errors (CSV001)
	// =========================================================================
	{
		pattern: "malformed csv",
		msg: UserMessage{
			Message: "The CSV file has a malformed row",
			Action:  "Fix the reported line or run without strict mode",
			Code:    "CSV001",
		},
	},

	// =========================================================================
	// File Errors (FILE001-FILE006)
	// =========================================================================
	{
		pattern: "file too large",
		msg: UserMessage{
			Message: "File exceeds the maximum size limit",
			Action:  "Split the file into smaller chunks",
			Code:    "FILE001",
		},
	},
	{
		pattern: "must be a csv file",
		msg: UserMessage{
			Message: "Please select a valid CSV file",
			Action:  "Choose a file with a .csv extension",
			Code:    "FILE002",
		},
	},
	{
		pattern: "encoding error",
		msg: UserMessage{
			Message: "File contains invalid characters",
			Action:  "Save file as UTF-8 encoding",
			Code:    "FILE003",
		},
	},
	{
		pattern: "no file provided",
		msg: UserMessage{
			Message: "No file was selected",
			Action:  "Please select a CSV file",
			Code:    "FILE004",
		},
	},
	{
		pattern: "empty file",
		msg: UserMessage{
			Message: "The file is empty",
			Action:  "Please provide a CSV file with data rows",
			Code:    "FILE005",
		},
	},
	{
		pattern: "failed to read file",
		msg: UserMessage{
			Message: "The file could not be read",
			Action:  "Check that the file exists and is readable",
			Code:    "FILE006",
		},
	},
}

// defaultMessage is returned when no pattern matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or check the logs",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// If no pattern matches, the ERR000 fallback is returned.
//
// Example:
//
//	msg := MapError(fileio.ErrFileTooLarge)
//	// msg.Code == "FILE001"
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	errStr := strings.ToLower(err.Error())

	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Code: XXX). Action"
func FormatUserError(err error) string {
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err matches a known pattern rather than the
// ERR000 fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}

// UserError pairs a technical error with its user-friendly message.
type UserError struct {
	Technical error       // Original technical error for logging
	User      UserMessage // User-friendly message for display
}

func (e *UserError) Error() string {
	return e.User.Message
}

func (e *UserError) Unwrap() error {
	return e.Technical
}

// NewUserError maps err to a UserError. Returns nil if err is nil.
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	return &UserError{
		Technical: err,
		User:      MapError(err),
	}
}
