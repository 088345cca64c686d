// Package config provides centralized configuration management for the application.
// It loads configuration from environment variables with sensible defaults and
// validates all settings on startup to fail fast on misconfiguration.
package config

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/JonMunkholm/csvconv/internal/core"
	"github.com/JonMunkholm/csvconv/internal/fileio"
)

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Convert ConvertConfig
	Output  OutputConfig
	File    FileConfig
	Logging LoggingConfig
}

// ConvertConfig holds CSV parsing settings.
type ConvertConfig struct {
	// Delimiter is a single character or one of comma, semicolon, tab, pipe (default: comma)
	Delimiter string `env:"CSV_DELIMITER" default:"comma"`

	// HasHeaders treats the first row as column names (default: true)
	HasHeaders bool `env:"CSV_HAS_HEADERS" default:"true"`

	// SkipEmptyLines drops whitespace-only lines before parsing (default: true)
	SkipEmptyLines bool `env:"CSV_SKIP_EMPTY_LINES" default:"true"`

	// TrimValues trims whitespace around every field (default: true)
	TrimValues bool `env:"CSV_TRIM_VALUES" default:"true"`

	// Strict rejects ragged rows and unterminated quotes (default: false)
	Strict bool `env:"CSV_STRICT" default:"false"`
}

// OutputConfig holds serialization settings.
type OutputConfig struct {
	// Delimiter used when writing CSV (default: comma)
	Delimiter string `env:"OUTPUT_DELIMITER" default:"comma"`

	// IncludeHeaders writes a header line (default: true)
	IncludeHeaders bool `env:"OUTPUT_INCLUDE_HEADERS" default:"true"`

	// Indent is the JSON indentation width; 0 writes compact JSON (default: 2)
	Indent int `env:"OUTPUT_INDENT" default:"2"`
}

// FileConfig holds file reading limits.
type FileConfig struct {
	// MaxSize is the maximum allowed file size in bytes (default: 10MB)
	MaxSize int64 `env:"FILE_MAX_SIZE" default:"10485760"`

	// AllowedExtensions is a comma-separated list of accepted extensions (default: .csv)
	AllowedExtensions []string `env:"FILE_ALLOWED_EXTENSIONS" default:".csv"`

	// DetectEncoding decodes non-UTF-8 files using charset detection (default: true)
	DetectEncoding bool `env:"FILE_DETECT_ENCODING" default:"true"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: warn)
	Level string `env:"LOG_LEVEL" default:"warn"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

// namedDelimiters are the delimiter names accepted in place of a character.
var namedDelimiters = map[string]rune{
	"comma":     ',',
	"semicolon": ';',
	"tab":       '\t',
	"pipe":      '|',
	`\t`:        '\t',
}

// ParseDelimiter converts a delimiter setting to a rune. It accepts a single
// character or one of the names comma, semicolon, tab, pipe and `\t`.
func ParseDelimiter(s string) (rune, error) {
	if r, ok := namedDelimiters[strings.ToLower(s)]; ok {
		return r, nil
	}
	if utf8.RuneCountInString(s) != 1 {
		return 0, fmt.Errorf("delimiter %q must be a single character", s)
	}
	r, _ := utf8.DecodeRuneInString(s)
	switch r {
	case '"':
		return 0, fmt.Errorf("delimiter cannot be a double quote")
	case '\r', '\n':
		return 0, fmt.Errorf("delimiter cannot be a line break")
	}
	return r, nil
}

// ConversionOptions returns the parser options described by c.
// Call after Validate; an unparsable delimiter falls back to comma.
func (c *ConvertConfig) ConversionOptions() core.Options {
	delim, err := ParseDelimiter(c.Delimiter)
	if err != nil {
		delim = ','
	}
	return core.Options{
		Delimiter:      delim,
		HasHeaders:     c.HasHeaders,
		SkipEmptyLines: c.SkipEmptyLines,
		TrimValues:     c.TrimValues,
		Strict:         c.Strict,
	}
}

// SerializeOptions returns the serializer options described by c.
func (c *OutputConfig) SerializeOptions() core.SerializeOptions {
	delim, err := ParseDelimiter(c.Delimiter)
	if err != nil {
		delim = ','
	}
	return core.SerializeOptions{
		Delimiter:      delim,
		IncludeHeaders: c.IncludeHeaders,
	}
}

// Limits returns the file reader limits described by c.
func (c *FileConfig) Limits() fileio.Limits {
	exts := make([]string, 0, len(c.AllowedExtensions))
	for _, e := range c.AllowedExtensions {
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		exts = append(exts, strings.ToLower(e))
	}
	return fileio.Limits{
		MaxSize:           c.MaxSize,
		AllowedExtensions: exts,
		DetectEncoding:    c.DetectEncoding,
	}
}
