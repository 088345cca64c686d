package core

import (
	"errors"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name        string
		text        string
		opts        func(*Options)
		wantHeaders []string
		wantRows    []Row
	}{
		{
			name:        "typed columns",
			text:        "name,age,active\nAlice,30,true\nBob,25.5,false",
			wantHeaders: []string{"name", "age", "active"},
			wantRows: []Row{
				{String("Alice"), Int(30), Bool(true)},
				{String("Bob"), Float(25.5), Bool(false)},
			},
		},
		{
			name:        "CRLF line endings",
			text:        "a,b\r\n1,2\r\n",
			wantHeaders: []string{"a", "b"},
			wantRows:    []Row{{Int(1), Int(2)}},
		},
		{
			name:        "blank lines skipped",
			text:        "a,b\n\n   \n1,2\n",
			wantHeaders: []string{"a", "b"},
			wantRows:    []Row{{Int(1), Int(2)}},
		},
		{
			name:        "blank lines kept",
			text:        "a,b\n\n1,2",
			opts:        func(o *Options) { o.SkipEmptyLines = false },
			wantHeaders: []string{"a", "b"},
			wantRows: []Row{
				{String(""), String("")},
				{Int(1), Int(2)},
			},
		},
		{
			name:        "short row padded with empty strings",
			text:        "a,b,c\n1",
			wantHeaders: []string{"a", "b", "c"},
			wantRows:    []Row{{Int(1), String(""), String("")}},
		},
		{
			name:        "long row truncated",
			text:        "a,b\n1,2,3",
			wantHeaders: []string{"a", "b"},
			wantRows:    []Row{{Int(1), Int(2)}},
		},
		{
			name:        "synthetic headers use widest line",
			text:        "a,b\nc,d,e",
			opts:        func(o *Options) { o.HasHeaders = false },
			wantHeaders: []string{"column_1", "column_2", "column_3"},
			wantRows: []Row{
				{String("a"), String("b"), String("")},
				{String("c"), String("d"), String("e")},
			},
		},
		{
			name:        "duplicate headers keep first position and last value",
			text:        "id,name,id\n1,x,2",
			wantHeaders: []string{"id", "name"},
			wantRows:    []Row{{Int(2), String("x")}},
		},
		{
			name:        "quoted fields",
			text:        "name,desc\nx,\"a, b\"\ny,\"say \"\"hi\"\"\"",
			wantHeaders: []string{"name", "desc"},
			wantRows: []Row{
				{String("x"), String("a, b")},
				{String("y"), String(`say "hi"`)},
			},
		},
		{
			name:        "untrimmed values",
			text:        "a, b\nx , y",
			opts:        func(o *Options) { o.TrimValues = false },
			wantHeaders: []string{"a", " b"},
			wantRows:    []Row{{String("x "), String(" y")}},
		},
		{
			name:        "semicolon delimiter",
			text:        "a;b\n1,5;null",
			opts:        func(o *Options) { o.Delimiter = ';' },
			wantHeaders: []string{"a", "b"},
			wantRows:    []Row{{String("1,5"), Null()}},
		},
		{
			name:        "header only",
			text:        "a,b",
			wantHeaders: []string{"a", "b"},
			wantRows:    []Row{},
		},
		{
			name:        "empty text",
			text:        "",
			wantHeaders: []string{},
			wantRows:    []Row{},
		},
		{
			name:        "only blank lines",
			text:        "\n  \n\r\n",
			wantHeaders: []string{},
			wantRows:    []Row{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			if tt.opts != nil {
				tt.opts(&opts)
			}

			d, err := Parse(tt.text, opts)
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			if diff := cmp.Diff(tt.wantHeaders, d.Headers(), cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("headers mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.wantRows, d.Rows(), cmpopts.EquateEmpty()); diff != "" {
				t.Errorf("rows mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParse_Strict(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		wantLine int
		wantText string
	}{
		{"short row", "a,b\n1,2\n3", 3, "has 1 columns, expected 2"},
		{"long row", "a,b\n1,2,3", 2, "has 3 columns, expected 2"},
		{"unterminated quote", "a,b\n\"x,2", 2, "unterminated quoted field"},
		{"blank lines counted", "a,b\n\n1,2\n   \n3", 5, "has 1 columns, expected 2"},
		{"crlf with blank line", "a,b\r\n\r\n\"x,2\r\n", 3, "unterminated quoted field"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := DefaultOptions()
			opts.Strict = true

			_, err := Parse(tt.text, opts)
			if !errors.Is(err, ErrMalformed) {
				t.Fatalf("Parse() error = %v, want ErrMalformed", err)
			}
			var me *MalformedError
			if !errors.As(err, &me) {
				t.Fatalf("Parse() error type = %T, want *MalformedError", err)
			}
			if me.Line != tt.wantLine {
				t.Errorf("Line = %d, want %d", me.Line, tt.wantLine)
			}
			if !strings.Contains(me.Reason, tt.wantText) {
				t.Errorf("Reason = %q, want it to contain %q", me.Reason, tt.wantText)
			}
			if got := MapError(err).Code; got != "CSV001" {
				t.Errorf("MapError().Code = %q, want CSV001", got)
			}
		})
	}

	t.Run("well formed input passes", func(t *testing.T) {
		opts := DefaultOptions()
		opts.Strict = true
		d, err := Parse("a,b\n1,\"2,3\"", opts)
		if err != nil {
			t.Fatalf("Parse() error = %v", err)
		}
		if d.Len() != 1 {
			t.Errorf("Len() = %d, want 1", d.Len())
		}
	})
}

func TestParseRaw(t *testing.T) {
	d, err := ParseRaw("phone,n,ok\n0123456789, 1.50 ,true\n0,null,", DefaultOptions())
	if err != nil {
		t.Fatalf("ParseRaw() error = %v", err)
	}

	want := []Row{
		{String("0123456789"), String("1.50"), String("true")},
		{String("0"), String("null"), String("")},
	}
	if diff := cmp.Diff(want, d.Rows()); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}

	t.Run("ragged rows padded with empty text", func(t *testing.T) {
		d, err := ParseRaw("a,b\n1", DefaultOptions())
		if err != nil {
			t.Fatal(err)
		}
		if v, _ := d.Value(0, "b"); v.Kind() != KindString || v.String() != "" {
			t.Errorf("Value(0, b) = %#v, want empty string", v)
		}
	})
}

func TestParse_InvalidDelimiter(t *testing.T) {
	for _, delim := range []rune{'"', '\n', '\r'} {
		opts := DefaultOptions()
		opts.Delimiter = delim

		_, err := Parse("a,b", opts)
		if !errors.Is(err, ErrInvalidInput) {
			t.Errorf("Parse() with delimiter %q error = %v, want ErrInvalidInput", delim, err)
		}
		if got := MapError(err).Code; got != "INP002" {
			t.Errorf("MapError().Code = %q, want INP002", got)
		}
	}
}

func TestParse_ZeroDelimiterDefaultsToComma(t *testing.T) {
	d, err := Parse("a,b\n1,2", Options{HasHeaders: true})
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if diff := cmp.Diff([]string{"a", "b"}, d.Headers()); diff != "" {
		t.Errorf("headers mismatch (-want +got):\n%s", diff)
	}
}

func TestParseReader(t *testing.T) {
	d, err := ParseReader(strings.NewReader("x\n1\n2"), DefaultOptions())
	if err != nil {
		t.Fatalf("ParseReader() error = %v", err)
	}
	if d.Len() != 2 {
		t.Errorf("Len() = %d, want 2", d.Len())
	}

	if _, err := ParseReader(nil, DefaultOptions()); !errors.Is(err, ErrInvalidInput) {
		t.Errorf("ParseReader(nil) error = %v, want ErrInvalidInput", err)
	}

	readErr := errors.New("disk on fire")
	_, err = ParseReader(iotest.ErrReader(readErr), DefaultOptions())
	if !errors.Is(err, ErrInvalidInput) || !errors.Is(err, readErr) {
		t.Errorf("ParseReader(failing) error = %v, want ErrInvalidInput wrapping the read error", err)
	}
}

func TestParse_DoesNotShareState(t *testing.T) {
	d, err := Parse("a\n1", DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}

	row := d.Row(0)
	row[0] = String("changed")
	headers := d.Headers()
	headers[0] = "changed"

	if v, _ := d.Value(0, "a"); !v.Equal(Int(1)) {
		t.Errorf("dataset row modified through copy: %v", v)
	}
	if d.Headers()[0] != "a" {
		t.Errorf("dataset headers modified through copy: %v", d.Headers())
	}
}
