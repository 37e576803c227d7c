package dataset

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const defaultSheet = "Sheet1"

// WriteXLSX writes the frame, index first, into a single-sheet workbook.
func (f *Frame) WriteXLSX(w io.Writer, sheet string) error {
	book := excelize.NewFile()
	defer book.Close()

	if sheet == "" {
		sheet = defaultSheet
	}
	if sheet != defaultSheet {
		if err := book.SetSheetName(defaultSheet, sheet); err != nil {
			return fmt.Errorf("rename sheet: %w", err)
		}
	}

	header := make([]any, 0, len(f.columns)+1)
	header = append(header, f.IndexName)
	for _, c := range f.columns {
		header = append(header, c)
	}
	if err := book.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	numeric := make(map[string]bool, len(f.columns))
	for _, c := range f.columns {
		numeric[c] = InferColumnType(f, c) == Numerical
	}
	floats := make(map[string][]float64)
	for c, ok := range numeric {
		if ok {
			values, err := f.Floats(c)
			if err != nil {
				return err
			}
			floats[c] = values
		}
	}

	for i := 0; i < f.Len(); i++ {
		row := make([]any, 0, len(f.columns)+1)
		row = append(row, f.Index[i])
		for _, c := range f.columns {
			raw := f.data[c][i]
			switch {
			case isMissing(raw):
				row = append(row, nil)
			case numeric[c]:
				row = append(row, floats[c][i])
			default:
				row = append(row, raw)
			}
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := book.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}

	if err := book.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// ReadXLSX parses the first sheet of a workbook. The first row is the header.
func ReadXLSX(r io.Reader, opts Options) (*Frame, error) {
	book, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer book.Close()

	sheets := book.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrEmptyInput
	}
	rows, err := book.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, ErrEmptyInput
	}

	header := rows[0]
	body := rows[1:]
	// GetRows trims trailing empty cells.
	for i, row := range body {
		if len(row) < len(header) {
			padded := make([]string, len(header))
			copy(padded, row)
			body[i] = padded
		}
	}
	return fromRows(header, body, opts)
}
