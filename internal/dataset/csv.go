package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ErrEmptyInput is returned when a source holds no header row.
var ErrEmptyInput = errors.New("empty input")

// Options controls how tabular sources are parsed.
type Options struct {
	// IndexCol treats the first column as the row index.
	IndexCol bool
}

// ReadCSVFile opens and parses a CSV file.
func ReadCSVFile(path string, opts Options) (*Frame, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer fh.Close()

	frame, err := ReadCSV(fh, opts)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return frame, nil
}

// ReadCSV parses CSV with a header row.
func ReadCSV(r io.Reader, opts Options) (*Frame, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyInput
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}
	return fromRows(header, rows, opts)
}

func fromRows(header []string, rows [][]string, opts Options) (*Frame, error) {
	indexName := ""
	columns := header
	if opts.IndexCol {
		if len(header) < 2 {
			return nil, fmt.Errorf("index column requested but header has %d columns", len(header))
		}
		indexName = header[0]
		columns = header[1:]
	}

	frame := New(indexName, columns...)
	for n, row := range rows {
		if len(row) != len(header) {
			return nil, fmt.Errorf("row %d has %d fields, header has %d", n+1, len(row), len(header))
		}
		index := strconv.Itoa(n)
		values := row
		if opts.IndexCol {
			index = row[0]
			values = row[1:]
		}
		if err := frame.AppendRow(index, values...); err != nil {
			return nil, err
		}
	}
	return frame, nil
}

// WriteCSV writes the frame with its index as the first column.
func (f *Frame) WriteCSV(w io.Writer) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(append([]string{f.IndexName}, f.columns...)); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	record := make([]string, len(f.columns)+1)
	for i := 0; i < f.Len(); i++ {
		record[0] = f.Index[i]
		for j, c := range f.columns {
			record[j+1] = f.data[c][i]
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("write row %d: %w", i, err)
		}
	}
	writer.Flush()
	return writer.Error()
}
