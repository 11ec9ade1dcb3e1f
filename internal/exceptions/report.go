// Package exceptions writes the exception report of a batch as CSV or XLSX.
package exceptions

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/xuri/excelize/v2"

	"ledgerconv/internal/classify"
	"ledgerconv/internal/config"
	"ledgerconv/internal/fileutil"
	"ledgerconv/internal/record"
)

// Trailing report columns.
const (
	ColumnReasons  = "reasons"
	ColumnComments = "comments"
)

const sheetName = "Exceptions"

// Report is a tabular exception listing.
type Report struct {
	Columns []string
	Rows    [][]string
}

// Build lays out exceptions under the source header. Synthetic extra_col_*
// columns are left out; reasons and comments are appended.
func Build(columns []string, items []classify.Exception) Report {
	keep := make([]int, 0, len(columns))
	header := make([]string, 0, len(columns)+2)
	for i, name := range columns {
		if record.IsExtraColumn(name) {
			continue
		}
		keep = append(keep, i)
		header = append(header, name)
	}
	header = append(header, ColumnReasons, ColumnComments)

	rows := make([][]string, 0, len(items))
	for _, item := range items {
		row := make([]string, 0, len(header))
		for _, idx := range keep {
			value := ""
			if idx < len(item.Record.Fields) {
				value = item.Record.Fields[idx]
			}
			row = append(row, value)
		}
		row = append(row, item.ReasonCodes(), item.Comments())
		rows = append(rows, row)
	}
	return Report{Columns: header, Rows: rows}
}

// Extension returns the file extension for format.
func Extension(format string) string {
	if format == config.ExceptionFormatXLSX {
		return "xlsx"
	}
	return "csv"
}

// Write renders report in format and atomically replaces path. The report is
// written even when it has no rows.
func Write(path, format string, report Report) error {
	var (
		data []byte
		err  error
	)
	switch format {
	case config.ExceptionFormatXLSX:
		data, err = renderXLSX(report)
	case config.ExceptionFormatCSV, "":
		data, err = renderCSV(report)
	default:
		return fmt.Errorf("unsupported exception format %q", format)
	}
	if err != nil {
		return err
	}
	if err := fileutil.WriteFileAtomic(path, data, 0o644); err != nil {
		return fmt.Errorf("write exceptions %s: %w", path, err)
	}
	return nil
}

func renderCSV(report Report) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write(report.Columns); err != nil {
		return nil, fmt.Errorf("csv write error: %w", err)
	}
	if err := w.WriteAll(report.Rows); err != nil {
		return nil, fmt.Errorf("csv write error: %w", err)
	}
	return buf.Bytes(), nil
}

func renderXLSX(report Report) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return nil, fmt.Errorf("name sheet: %w", err)
	}

	writeRow := func(rowIdx int, cells []string) error {
		values := make([]any, len(cells))
		for i, cell := range cells {
			values[i] = cell
		}
		cellName, err := excelize.CoordinatesToCellName(1, rowIdx)
		if err != nil {
			return err
		}
		return f.SetSheetRow(sheetName, cellName, &values)
	}

	if err := writeRow(1, report.Columns); err != nil {
		return nil, fmt.Errorf("write xlsx header: %w", err)
	}
	for i, row := range report.Rows {
		if err := writeRow(i+2, row); err != nil {
			return nil, fmt.Errorf("write xlsx row %d: %w", i+2, err)
		}
	}

	if len(report.Columns) > 0 {
		last, _ := excelize.ColumnNumberToName(len(report.Columns))
		if err := f.SetColWidth(sheetName, "A", last, 18); err != nil {
			return nil, fmt.Errorf("set xlsx column width: %w", err)
		}
		if err := f.SetPanes(sheetName, &excelize.Panes{
			Freeze:      true,
			YSplit:      1,
			TopLeftCell: "A2",
			ActivePane:  "bottomLeft",
		}); err != nil {
			return nil, fmt.Errorf("freeze xlsx header: %w", err)
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write xlsx: %w", err)
	}
	return buf.Bytes(), nil
}
