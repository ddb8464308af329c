package sheet

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Format is a spreadsheet file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"

	MIMECSV  = "text/csv; charset=utf-8"
	MIMEXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	// DefaultSheetName names the worksheet written by WriteXLSX.
	DefaultSheetName = "Project"
)

// FormatOf infers the format from a file name.
func FormatOf(name string) (Format, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv":
		return FormatCSV, nil
	case ".xlsx", ".xlsm":
		return FormatXLSX, nil
	}
	return "", fmt.Errorf("unsupported spreadsheet %q: expected .csv or .xlsx", name)
}

// Read decodes r according to the extension of name.
func Read(name string, r io.Reader) (Sheet, error) {
	f, err := FormatOf(name)
	if err != nil {
		return Sheet{}, err
	}
	if f == FormatXLSX {
		return ReadXLSX(r)
	}
	return ReadCSV(r)
}

// ReadCSV decodes a CSV document whose first record is the header.
func ReadCSV(r io.Reader) (Sheet, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	records, err := cr.ReadAll()
	if err != nil {
		return Sheet{}, fmt.Errorf("read csv: %w", err)
	}
	return fromRecords(records)
}

// ReadXLSX decodes the first worksheet of a workbook. Date cells are read as raw
// serial numbers and handled by Sheet.ParseCell.
func ReadXLSX(r io.Reader) (Sheet, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return Sheet{}, fmt.Errorf("open workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return Sheet{}, errors.New("workbook has no worksheets")
	}
	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return Sheet{}, fmt.Errorf("read worksheet %q: %w", sheets[0], err)
	}
	s, err := fromRecords(rows)
	s.Serials = true
	return s, err
}

func fromRecords(records [][]string) (Sheet, error) {
	if len(records) == 0 {
		return Sheet{}, errors.New("spreadsheet is empty")
	}
	return Sheet{Header: records[0], Records: records[1:]}, nil
}

// WriteCSV encodes s with its header.
func WriteCSV(w io.Writer, s Sheet) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(s.Header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	if err := cw.WriteAll(s.Records); err != nil {
		return fmt.Errorf("write csv records: %w", err)
	}
	return nil
}

// WriteXLSX encodes s as a single-sheet workbook.
func WriteXLSX(w io.Writer, s Sheet, sheetName string) error {
	if sheetName == "" {
		sheetName = DefaultSheetName
	}
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return fmt.Errorf("name worksheet: %w", err)
	}
	widths := make([]int, len(s.Header))
	all := append([][]string{s.Header}, s.Records...)
	for i, rec := range all {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("cell name: %w", err)
		}
		values := make([]any, len(rec))
		for j, v := range rec {
			values[j] = v
			if j < len(widths) && len(v) > widths[j] {
				widths[j] = len(v)
			}
		}
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return fmt.Errorf("write row %d: %w", i+1, err)
		}
	}
	for j, width := range widths {
		col, err := excelize.ColumnNumberToName(j + 1)
		if err != nil {
			return fmt.Errorf("column name: %w", err)
		}
		if err := f.SetColWidth(sheetName, col, col, float64(width+2)); err != nil {
			return fmt.Errorf("set column width: %w", err)
		}
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
