package fileio

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/JonMunkholm/csvconv/internal/core"
	"github.com/JonMunkholm/csvconv/internal/logging"
	"github.com/xuri/excelize/v2"
)

// Stdout is the path that means "write to the provided writer".
const Stdout = "-"

// defaultBaseName is used when there is no source file to name output after.
const defaultBaseName = "data"

// sheetName is the single worksheet written by WriteXLSX.
const sheetName = "Sheet1"

// SuggestName derives an output file name from the source path by swapping
// its extension for ext. Without a source it returns "data" + ext.
func SuggestName(src, ext string) string {
	if !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	base := filepath.Base(src)
	if src == "" || src == Stdout || base == "." || base == string(filepath.Separator) {
		return defaultBaseName + ext
	}
	return strings.TrimSuffix(base, filepath.Ext(base)) + ext
}

// WriteText writes data to path, or to stdout when path is "" or "-".
// Files are written to a temporary sibling and renamed into place.
func WriteText(ctx context.Context, path string, stdout io.Writer, data []byte) error {
	if path == "" || path == Stdout {
		_, err := stdout.Write(data)
		return err
	}

	if err := writeAtomic(path, func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	}); err != nil {
		return err
	}

	logging.FromContext(ctx).Info("output written", "path", path, "bytes", len(data))
	return nil
}

// WriteXLSX writes d as a single-sheet workbook. The first row holds the
// headers; numbers and booleans keep their types and null or missing cells
// are left blank.
func WriteXLSX(ctx context.Context, path string, stdout io.Writer, d *core.Dataset) error {
	f := excelize.NewFile()
	defer f.Close()

	headers := d.Headers()
	header := make([]any, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i := 0; i < d.Len(); i++ {
		row := d.Row(i)
		cells := make([]any, len(row))
		for j, v := range row {
			cells[j] = v.Any()
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheetName, cell, &cells); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}

	if len(headers) > 0 {
		if err := f.SetPanes(sheetName, &excelize.Panes{
			Freeze:      true,
			YSplit:      1,
			TopLeftCell: "A2",
			ActivePane:  "bottomLeft",
		}); err != nil {
			return fmt.Errorf("freeze header: %w", err)
		}
	}

	if path == "" || path == Stdout {
		_, err := f.WriteTo(stdout)
		return err
	}

	if err := writeAtomic(path, func(w io.Writer) error {
		_, err := f.WriteTo(w)
		return err
	}); err != nil {
		return err
	}

	logging.FromContext(ctx).Info("workbook written", "path", path, "rows", d.Len())
	return nil
}

// writeAtomic writes through fill into a temp file next to path and renames
// it into place, so readers never see a partial file.
func writeAtomic(path string, fill func(io.Writer) error) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create output: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := fill(tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("write output: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close output: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename output: %w", err)
	}
	return nil
}
