package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/JonMunkholm/csvconv/internal/core"
	"github.com/google/go-cmp/cmp"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Convert.Delimiter != "comma" {
		t.Errorf("Convert.Delimiter = %q, want %q", cfg.Convert.Delimiter, "comma")
	}
	if !cfg.Convert.HasHeaders || !cfg.Convert.SkipEmptyLines || !cfg.Convert.TrimValues {
		t.Errorf("Convert booleans = %+v, want all true except Strict", cfg.Convert)
	}
	if cfg.Convert.Strict {
		t.Error("Convert.Strict = true, want false")
	}
	if cfg.Output.Indent != 2 {
		t.Errorf("Output.Indent = %d, want %d", cfg.Output.Indent, 2)
	}
	if cfg.File.MaxSize != 10485760 {
		t.Errorf("File.MaxSize = %d, want %d", cfg.File.MaxSize, 10485760)
	}
	if diff := cmp.Diff([]string{".csv"}, cfg.File.AllowedExtensions); diff != "" {
		t.Errorf("File.AllowedExtensions mismatch (-want +got):\n%s", diff)
	}
}

func TestLoad_OverrideDefaults(t *testing.T) {
	t.Setenv("CSV_DELIMITER", "semicolon")
	t.Setenv("CSV_STRICT", "true")
	t.Setenv("OUTPUT_INDENT", "0")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Convert.Delimiter != "semicolon" {
		t.Errorf("Convert.Delimiter = %q, want %q", cfg.Convert.Delimiter, "semicolon")
	}
	if !cfg.Convert.Strict {
		t.Error("Convert.Strict = false, want true")
	}
	if cfg.Output.Indent != 0 {
		t.Errorf("Output.Indent = %d, want 0", cfg.Output.Indent)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Logging.Level = %q, want %q", cfg.Logging.Level, "debug")
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name    string
		env     string
		value   string
		mention string
	}{
		{"bad boolean", "CSV_HAS_HEADERS", "maybe", "CSV_HAS_HEADERS"},
		{"bad integer", "FILE_MAX_SIZE", "ten", "FILE_MAX_SIZE"},
		{"quote delimiter", "CSV_DELIMITER", `"`, "CSV_DELIMITER"},
		{"long delimiter", "OUTPUT_DELIMITER", "::", "OUTPUT_DELIMITER"},
		{"negative size", "FILE_MAX_SIZE", "-1", "FILE_MAX_SIZE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.env, tt.value)

			_, err := Load()
			if err == nil {
				t.Fatalf("Load() expected error for %s=%q", tt.env, tt.value)
			}
			if !strings.Contains(err.Error(), tt.mention) {
				t.Errorf("error should mention %s: %v", tt.mention, err)
			}
		})
	}
}

func TestLoad_CommaSeparatedSlice(t *testing.T) {
	t.Setenv("FILE_ALLOWED_EXTENSIONS", ".csv, txt , .TSV")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if diff := cmp.Diff([]string{".csv", "txt", ".TSV"}, cfg.File.AllowedExtensions); diff != "" {
		t.Errorf("AllowedExtensions mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{".csv", ".txt", ".tsv"}, cfg.File.Limits().AllowedExtensions); diff != "" {
		t.Errorf("Limits().AllowedExtensions mismatch (-want +got):\n%s", diff)
	}
}

func TestParseDelimiter(t *testing.T) {
	tests := []struct {
		in      string
		want    rune
		wantErr bool
	}{
		{"comma", ',', false},
		{"SEMICOLON", ';', false},
		{"tab", '\t', false},
		{`\t`, '\t', false},
		{"\t", '\t', false},
		{"pipe", '|', false},
		{",", ',', false},
		{"§", '§', false},
		{"", 0, true},
		{`"`, 0, true},
		{"\n", 0, true},
		{"ab", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseDelimiter(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseDelimiter(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseDelimiter(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestValidate_InvalidLogLevel(t *testing.T) {
	cfg := validConfig()
	cfg.Logging.Level = "verbose"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate() expected error for invalid log level")
	}
	if !strings.Contains(err.Error(), "LOG_LEVEL") {
		t.Errorf("error should mention LOG_LEVEL: %v", err)
	}
}

func TestValidate_ReportsEveryProblem(t *testing.T) {
	cfg := validConfig()
	cfg.Convert.Delimiter = "\n"
	cfg.Output.Indent = 20
	cfg.Logging.Format = "xml"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate() expected error")
	}
	for _, want := range []string{"CSV_DELIMITER", "OUTPUT_INDENT", "LOG_FORMAT"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error should mention %s: %v", want, err)
		}
	}
}

func TestConversionOptions(t *testing.T) {
	cfg := validConfig()
	cfg.Convert.Delimiter = "pipe"
	cfg.Convert.TrimValues = false

	want := core.Options{
		Delimiter:      '|',
		HasHeaders:     true,
		SkipEmptyLines: true,
		TrimValues:     false,
	}
	if diff := cmp.Diff(want, cfg.Convert.ConversionOptions()); diff != "" {
		t.Errorf("ConversionOptions() mismatch (-want +got):\n%s", diff)
	}

	ser := cfg.Output.SerializeOptions()
	if ser.Delimiter != ',' || !ser.IncludeHeaders {
		t.Errorf("SerializeOptions() = %+v", ser)
	}
}

func TestLoadProfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.yaml")
	data := "convert:\n  delimiter: tab\n  strict: true\noutput:\n  include_headers: false\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg := validConfig()
	if err := cfg.LoadProfile(path); err != nil {
		t.Fatalf("LoadProfile() error = %v", err)
	}

	if cfg.Convert.Delimiter != "tab" {
		t.Errorf("Convert.Delimiter = %q, want %q", cfg.Convert.Delimiter, "tab")
	}
	if !cfg.Convert.Strict {
		t.Error("Convert.Strict = false, want true")
	}
	if cfg.Output.IncludeHeaders {
		t.Error("Output.IncludeHeaders = true, want false")
	}
	// Untouched keys keep their previous values.
	if !cfg.Convert.HasHeaders || cfg.Output.Indent != 2 {
		t.Errorf("profile overwrote unset keys: %+v %+v", cfg.Convert, cfg.Output)
	}
}

func TestLoadProfile_Errors(t *testing.T) {
	dir := t.TempDir()
	write := func(name, data string) string {
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, []byte(data), 0o644); err != nil {
			t.Fatal(err)
		}
		return p
	}

	tests := []struct {
		name string
		path string
	}{
		{"missing file", filepath.Join(dir, "nope.yaml")},
		{"unknown key", write("unknown.yaml", "convert:\n  delimeter: tab\n")},
		{"invalid delimiter", write("bad.yaml", "convert:\n  delimiter: '\"'\n")},
		{"not yaml", write("broken.yaml", "convert: [\n")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			if err := cfg.LoadProfile(tt.path); err == nil {
				t.Errorf("LoadProfile(%s) expected error", tt.name)
			}
		})
	}
}

func TestParseProfile_Empty(t *testing.T) {
	p, err := ParseProfile(strings.NewReader(""))
	if err != nil {
		t.Fatalf("ParseProfile() error = %v", err)
	}

	cfg := validConfig()
	before := *cfg
	p.Apply(cfg)
	if diff := cmp.Diff(before, *cfg); diff != "" {
		t.Errorf("empty profile changed config (-want +got):\n%s", diff)
	}
}

func TestConfigString(t *testing.T) {
	str := validConfig().String()
	for _, want := range []string{"Convert:", "Output:", "File:", "Logging:"} {
		if !strings.Contains(str, want) {
			t.Errorf("String() = %q, missing %q", str, want)
		}
	}
}

func validConfig() *Config {
	return &Config{
		Convert: ConvertConfig{Delimiter: "comma", HasHeaders: true, SkipEmptyLines: true, TrimValues: true},
		Output:  OutputConfig{Delimiter: "comma", IncludeHeaders: true, Indent: 2},
		File:    FileConfig{MaxSize: 1024, AllowedExtensions: []string{".csv"}, DetectEncoding: true},
		Logging: LoggingConfig{Level: "info", Format: "text"},
	}
}
