// Package cli implements the csvconv command line.
//
// Every subcommand reads one input (a file path argument, or stdin when the
// argument is missing or "-"), runs it through the conversion engine, and
// writes the result to -o or stdout. Hard failures are reported with the
// coded messages from core.MapError.
package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/JonMunkholm/csvconv/internal/config"
	"github.com/JonMunkholm/csvconv/internal/core"
	"github.com/JonMunkholm/csvconv/internal/fileio"
	"github.com/JonMunkholm/csvconv/internal/logging"
	"github.com/spf13/cobra"
)

// errInvalid signals a completed validation that found errors. The report
// has already been written, so Execute exits 1 without printing anything.
var errInvalid = errors.New("validation failed")

// app holds the loaded configuration and the global flag values shared by
// all subcommands.
type app struct {
	cfg *config.Config

	delimiter      string
	noHeaders      bool
	keepEmptyLines bool
	noTrim         bool
	strict         bool
	profile        string
	output         string
}

// NewRootCommand builds the command tree around cfg. Flags and a profile
// given on the command line are applied to a copy, so cfg is not modified.
func NewRootCommand(cfg *config.Config) *cobra.Command {
	a := &app{}

	var cmd = &cobra.Command{
		Use:   "csvconv",
		Short: "Convert CSV to JSON and back, validate and summarize CSV files",
		Long: `csvconv converts between CSV and JSON, validates CSV structure and
contact lists, summarizes columns, and exports spreadsheets.

Input is read from the file argument, or from stdin when it is missing or "-".
Settings come from the environment (CSV_*, OUTPUT_*, FILE_*, LOG_*), then an
optional --profile YAML file, then flags.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.configure(cmd, cfg)
		},
	}

	pf := cmd.PersistentFlags()
	pf.StringVarP(&a.delimiter, "delimiter", "d", "", "field delimiter: a character or comma, semicolon, tab, pipe")
	pf.BoolVar(&a.noHeaders, "no-headers", false, "the CSV has no header row (input) or gets none (output)")
	pf.BoolVar(&a.keepEmptyLines, "keep-empty-lines", false, "keep whitespace-only lines as rows")
	pf.BoolVar(&a.noTrim, "no-trim", false, "keep whitespace around fields")
	pf.BoolVar(&a.strict, "strict", false, "reject ragged rows and unterminated quotes")
	pf.StringVar(&a.profile, "profile", "", "YAML file with convert/output settings")
	pf.StringVarP(&a.output, "output", "o", "", `output file ("-" or empty for stdout)`)

	cmd.AddCommand(a.newJSONCommand())
	cmd.AddCommand(a.newCSVCommand())
	cmd.AddCommand(a.newValidateCommand())
	cmd.AddCommand(a.newStatsCommand())
	cmd.AddCommand(a.newXLSXCommand())
	cmd.AddCommand(a.newContactsCommand())

	return cmd
}

// configure layers the profile and flags over a copy of base.
func (a *app) configure(cmd *cobra.Command, base *config.Config) error {
	cfg := *base
	cfg.File.AllowedExtensions = append([]string(nil), base.File.AllowedExtensions...)

	if a.profile != "" {
		if err := cfg.LoadProfile(a.profile); err != nil {
			return err
		}
	}

	flags := cmd.Flags()
	if flags.Changed("delimiter") {
		cfg.Convert.Delimiter = a.delimiter
		cfg.Output.Delimiter = a.delimiter
	}
	if a.noHeaders {
		cfg.Convert.HasHeaders = false
		cfg.Output.IncludeHeaders = false
	}
	if a.keepEmptyLines {
		cfg.Convert.SkipEmptyLines = false
	}
	if a.noTrim {
		cfg.Convert.TrimValues = false
	}
	if a.strict {
		cfg.Convert.Strict = true
	}

	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = &cfg

	logging.FromContext(cmd.Context()).Debug("configuration resolved",
		"command", cmd.Name(),
		"config", cfg.String(),
	)
	return nil
}

// Execute runs the command line and returns the process exit status.
func Execute(ctx context.Context, cfg *config.Config, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	ctx = logging.WithRunID(ctx)

	cmd := NewRootCommand(cfg)
	cmd.SetArgs(args)
	cmd.SetIn(stdin)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errInvalid):
		return 1
	}

	logging.FromContext(ctx).Error("command failed", "error", err)
	if core.IsUserFacing(err) {
		fmt.Fprintln(stderr, "Error:", core.FormatUserError(err))
	} else {
		fmt.Fprintln(stderr, "Error:", err)
	}
	return 1
}

// source returns the input path named by args, or "-" for stdin.
func source(args []string) string {
	if len(args) == 0 || args[0] == "" {
		return fileio.Stdout
	}
	return args[0]
}

// readInput reads the CSV input named by args.
func (a *app) readInput(cmd *cobra.Command, args []string) (string, error) {
	ctx := cmd.Context()
	lim := a.cfg.File.Limits()

	src := source(args)
	if src == fileio.Stdout {
		return fileio.ReadText(ctx, cmd.InOrStdin(), lim)
	}
	return fileio.ReadCSV(ctx, src, lim)
}

// parseFunc is core.Parse or core.ParseRaw.
type parseFunc func(string, core.Options) (*core.Dataset, error)

// parseInput reads the CSV input named by args and parses it with parse.
func (a *app) parseInput(cmd *cobra.Command, args []string, parse parseFunc) (*core.Dataset, error) {
	text, err := a.readInput(cmd, args)
	if err != nil {
		return nil, err
	}

	d, err := parse(text, a.cfg.Convert.ConversionOptions())
	if err != nil {
		return nil, err
	}

	logging.WithFields(cmd.Context(), "command", cmd.Name(), "input", source(args)).Info("parsed",
		"rows", d.Len(),
		"columns", len(d.Headers()),
	)
	return d, nil
}

// writeJSON encodes v with the configured indentation and writes it to the
// output destination.
func (a *app) writeJSON(cmd *cobra.Command, v any) error {
	var (
		data []byte
		err  error
	)
	if n := a.cfg.Output.Indent; n > 0 {
		data, err = json.MarshalIndent(v, "", strings.Repeat(" ", n))
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return a.writeText(cmd, append(data, '\n'))
}

func (a *app) writeText(cmd *cobra.Command, data []byte) error {
	return fileio.WriteText(cmd.Context(), a.output, cmd.OutOrStdout(), data)
}
