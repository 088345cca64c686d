package cli

import (
	"fmt"
	"strings"

	"github.com/JonMunkholm/csvconv/internal/core"
	"github.com/JonMunkholm/csvconv/internal/fileio"
	"github.com/JonMunkholm/csvconv/internal/logging"
	"github.com/spf13/cobra"
)

func (a *app) newJSONCommand() *cobra.Command {
	var cmd = &cobra.Command{
		Use:   "json [file.csv]",
		Short: "Convert CSV to a JSON array of objects",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.parseInput(cmd, args, core.Parse)
			if err != nil {
				return err
			}
			return a.writeJSON(cmd, d)
		},
	}
	return cmd
}

func (a *app) newCSVCommand() *cobra.Command {
	var fields []string

	var cmd = &cobra.Command{
		Use:   "csv [file.json]",
		Short: "Convert a JSON array of objects to CSV",
		Long: `Convert a JSON array of flat objects to CSV.

Columns are every key that appears in the input, in first-seen order, unless
--fields names them explicitly. Nested objects and arrays are written as JSON.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			// JSON input is not restricted to the CSV extensions.
			lim := a.cfg.File.Limits()
			lim.AllowedExtensions = nil

			var (
				text string
				err  error
			)
			if src := source(args); src == fileio.Stdout {
				text, err = fileio.ReadText(ctx, cmd.InOrStdin(), lim)
			} else {
				text, err = fileio.ReadCSV(ctx, src, lim)
			}
			if err != nil {
				return err
			}

			d, err := core.DecodeJSON(strings.NewReader(text))
			if err != nil {
				return err
			}

			opts := a.cfg.Output.SerializeOptions()
			opts.Fields = fields
			out := core.Serialize(d, opts)

			logging.FromContext(ctx).Info("serialized", "rows", d.Len(), "bytes", len(out))
			if out == "" {
				return a.writeText(cmd, nil)
			}
			return a.writeText(cmd, []byte(out+"\n"))
		},
	}

	cmd.Flags().StringSliceVar(&fields, "fields", nil, "columns to write, in order")
	return cmd
}

func (a *app) newValidateCommand() *cobra.Command {
	var contacts bool

	var cmd = &cobra.Command{
		Use:   "validate [file.csv]",
		Short: "Check CSV structure and report errors and warnings",
		Long: `Check that every row has as many columns as the first row.

With --contacts the file is also checked as a contact list: it needs an email
or phone column, and every email and phone value must be well formed.
The exit status is 1 when any error is reported.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := a.readInput(cmd, args)
			if err != nil {
				return err
			}

			opts := a.cfg.Convert.ConversionOptions()
			result := core.Validate(text, opts)

			if contacts && result.Valid {
				// Contact checks always parse leniently; structure is reported above.
				opts.Strict = false
				d, err := core.ParseRaw(text, opts)
				if err != nil {
					return err
				}
				result = core.Merge(result, core.ValidateContacts(d))
			}

			logging.FromContext(cmd.Context()).Info("validated",
				"valid", result.Valid,
				"errors", len(result.Errors),
				"warnings", len(result.Warnings),
			)

			if err := a.writeJSON(cmd, result); err != nil {
				return err
			}
			if !result.Valid {
				return errInvalid
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&contacts, "contacts", false, "also validate email, phone and name columns")
	return cmd
}

func (a *app) newStatsCommand() *cobra.Command {
	var cmd = &cobra.Command{
		Use:   "stats [file.csv]",
		Short: "Summarize row counts, column types, empty cells and numeric columns",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.parseInput(cmd, args, core.Parse)
			if err != nil {
				return err
			}
			return a.writeJSON(cmd, core.Summarize(d))
		},
	}
	return cmd
}

func (a *app) newXLSXCommand() *cobra.Command {
	var cmd = &cobra.Command{
		Use:   "xlsx [file.csv]",
		Short: "Export CSV as an Excel workbook",
		Long: `Export CSV as an Excel workbook with one sheet.

Without -o the workbook is written to the working directory, named after
the input file (data.xlsx for stdin). Use -o - to write it to stdout.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.parseInput(cmd, args, core.Parse)
			if err != nil {
				return err
			}

			path := a.output
			if path == "" {
				path = fileio.SuggestName(source(args), ".xlsx")
			}
			if err := fileio.WriteXLSX(cmd.Context(), path, cmd.OutOrStdout(), d); err != nil {
				return err
			}
			if path != fileio.Stdout {
				fmt.Fprintln(cmd.ErrOrStderr(), "wrote", path)
			}
			return nil
		},
	}
	return cmd
}

func (a *app) newContactsCommand() *cobra.Command {
	var cmd = &cobra.Command{
		Use:   "contacts [file.csv]",
		Short: "Extract cleaned contacts with a valid email or phone as JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := a.parseInput(cmd, args, core.ParseRaw)
			if err != nil {
				return err
			}

			contacts := core.CleanContacts(d)
			logging.FromContext(cmd.Context()).Info("contacts cleaned",
				"rows", d.Len(),
				"kept", len(contacts),
			)
			if contacts == nil {
				contacts = []core.Contact{}
			}
			return a.writeJSON(cmd, contacts)
		},
	}
	return cmd
}
