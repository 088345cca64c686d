package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"reflect"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Load reads configuration from environment variables.
// It applies defaults for unset values and validates the result.
// Returns an error if required values are missing or validation fails.
func Load() (*Config, error) {
	cfg := &Config{}

	if err := loadStruct(reflect.ValueOf(cfg).Elem()); err != nil {
		return nil, fmt.Errorf("config load: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

// loadStruct recursively populates struct fields from environment variables.
func loadStruct(v reflect.Value) error {
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		fieldVal := v.Field(i)

		// Skip unexported fields
		if !fieldVal.CanSet() {
			continue
		}

		if field.Type.Kind() == reflect.Struct {
			if err := loadStruct(fieldVal); err != nil {
				return err
			}
			continue
		}

		envName := field.Tag.Get("env")
		envAlt := field.Tag.Get("envAlt")
		defaultVal := field.Tag.Get("default")
		required := field.Tag.Get("required") == "true"

		if envName == "" {
			continue
		}

		// Try primary env var, then alternate
		value := os.Getenv(envName)
		if value == "" && envAlt != "" {
			value = os.Getenv(envAlt)
		}

		if value == "" {
			if required {
				return fmt.Errorf("required environment variable %s is not set", envName)
			}
			value = defaultVal
		}

		if value == "" {
			continue
		}

		if err := setField(fieldVal, value); err != nil {
			return fmt.Errorf("invalid value for %s=%q: %w", envName, value, err)
		}
	}

	return nil
}

// setField sets a reflect.Value from a string based on its type.
func setField(field reflect.Value, value string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(value)

	case reflect.Int, reflect.Int64:
		i, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid integer: %w", err)
		}
		field.SetInt(i)

	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean: %w", err)
		}
		field.SetBool(b)

	case reflect.Slice:
		if field.Type().Elem().Kind() != reflect.String {
			return fmt.Errorf("unsupported slice type: %s", field.Type().Elem().Kind())
		}
		// Split comma-separated values, trim whitespace
		parts := strings.Split(value, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			p = strings.TrimSpace(p)
			if p != "" {
				result = append(result, p)
			}
		}
		field.Set(reflect.ValueOf(result))

	default:
		return fmt.Errorf("unsupported field type: %s", field.Kind())
	}

	return nil
}

// Profile is a YAML file of conversion settings. Keys that are present
// override the environment; absent keys leave it untouched.
//
//	convert:
//	  delimiter: semicolon
//	  strict: true
//	output:
//	  delimiter: tab
//	  indent: 0
type Profile struct {
	Convert struct {
		Delimiter      *string `yaml:"delimiter"`
		HasHeaders     *bool   `yaml:"has_headers"`
		SkipEmptyLines *bool   `yaml:"skip_empty_lines"`
		TrimValues     *bool   `yaml:"trim_values"`
		Strict         *bool   `yaml:"strict"`
	} `yaml:"convert"`
	Output struct {
		Delimiter      *string `yaml:"delimiter"`
		IncludeHeaders *bool   `yaml:"include_headers"`
		Indent         *int    `yaml:"indent"`
	} `yaml:"output"`
}

// LoadProfile reads the profile at path and applies it to c, then
// revalidates.
func (c *Config) LoadProfile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open profile: %w", err)
	}
	defer f.Close()

	p, err := ParseProfile(f)
	if err != nil {
		return fmt.Errorf("profile %s: %w", path, err)
	}
	p.Apply(c)

	if err := c.Validate(); err != nil {
		return fmt.Errorf("profile %s: %w", path, err)
	}
	return nil
}

// ParseProfile decodes a profile. Unknown keys are rejected so typos are
// not silently ignored. An empty document yields an empty profile.
func ParseProfile(r io.Reader) (*Profile, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	p := &Profile{}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(p); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode profile: %w", err)
	}
	return p, nil
}

// Apply overlays the keys set in p onto c.
func (p *Profile) Apply(c *Config) {
	setIf(&c.Convert.Delimiter, p.Convert.Delimiter)
	setIf(&c.Convert.HasHeaders, p.Convert.HasHeaders)
	setIf(&c.Convert.SkipEmptyLines, p.Convert.SkipEmptyLines)
	setIf(&c.Convert.TrimValues, p.Convert.TrimValues)
	setIf(&c.Convert.Strict, p.Convert.Strict)

	setIf(&c.Output.Delimiter, p.Output.Delimiter)
	setIf(&c.Output.IncludeHeaders, p.Output.IncludeHeaders)
	setIf(&c.Output.Indent, p.Output.Indent)
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

// Validate checks that the configuration is valid.
// Returns an error describing all validation failures.
func (c *Config) Validate() error {
	var errs []string

	// Convert validation
	if _, err := ParseDelimiter(c.Convert.Delimiter); err != nil {
		errs = append(errs, fmt.Sprintf("CSV_DELIMITER: %v", err))
	}

	// Output validation
	if _, err := ParseDelimiter(c.Output.Delimiter); err != nil {
		errs = append(errs, fmt.Sprintf("OUTPUT_DELIMITER: %v", err))
	}
	if c.Output.Indent < 0 || c.Output.Indent > 8 {
		errs = append(errs, fmt.Sprintf("OUTPUT_INDENT (%d) must be 0-8", c.Output.Indent))
	}

	// File validation
	if c.File.MaxSize <= 0 {
		errs = append(errs, "FILE_MAX_SIZE must be positive")
	}

	// Logging validation
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, fmt.Sprintf("LOG_LEVEL (%q) must be one of: debug, info, warn, error", c.Logging.Level))
	}

	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[strings.ToLower(c.Logging.Format)] {
		errs = append(errs, fmt.Sprintf("LOG_FORMAT (%q) must be one of: text, json", c.Logging.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}

// String returns a compact representation of the config for logging.
func (c *Config) String() string {
	var b strings.Builder
	b.WriteString("Config{")
	b.WriteString(fmt.Sprintf("Convert: {Delimiter: %q, HasHeaders: %v, SkipEmptyLines: %v, TrimValues: %v, Strict: %v}, ",
		c.Convert.Delimiter, c.Convert.HasHeaders, c.Convert.SkipEmptyLines, c.Convert.TrimValues, c.Convert.Strict))
	b.WriteString(fmt.Sprintf("Output: {Delimiter: %q, IncludeHeaders: %v, Indent: %d}, ",
		c.Output.Delimiter, c.Output.IncludeHeaders, c.Output.Indent))
	b.WriteString(fmt.Sprintf("File: {MaxSize: %d, AllowedExtensions: %v, DetectEncoding: %v}, ",
		c.File.MaxSize, c.File.AllowedExtensions, c.File.DetectEncoding))
	b.WriteString(fmt.Sprintf("Logging: {Level: %q, Format: %q}",
		c.Logging.Level, c.Logging.Format))
	b.WriteString("}")
	return b.String()
}
