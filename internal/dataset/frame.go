// Package dataset holds the in-memory tables behind every demo: CSV and
// spreadsheet IO, filtering, descriptive statistics and distribution helpers.
package dataset

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// ErrUnknownColumn is returned when a frame does not hold the requested column.
var ErrUnknownColumn = errors.New("unknown column")

// Frame is a column-oriented table of string cells with an optional index.
// Empty cells are treated as missing values.
type Frame struct {
	IndexName string
	Index     []string
	columns   []string
	data      map[string][]string
}

// New returns an empty frame with the given columns.
func New(indexName string, columns ...string) *Frame {
	f := &Frame{
		IndexName: indexName,
		columns:   append([]string(nil), columns...),
		data:      make(map[string][]string, len(columns)),
	}
	for _, c := range columns {
		f.data[c] = nil
	}
	return f
}

// AppendRow adds one row. values must line up with Columns().
func (f *Frame) AppendRow(index string, values ...string) error {
	if len(values) != len(f.columns) {
		return fmt.Errorf("row has %d values, frame has %d columns", len(values), len(f.columns))
	}
	f.Index = append(f.Index, index)
	for i, c := range f.columns {
		f.data[c] = append(f.data[c], values[i])
	}
	return nil
}

// Columns returns the column names in order.
func (f *Frame) Columns() []string {
	return append([]string(nil), f.columns...)
}

// HasColumn reports whether the frame holds the column.
func (f *Frame) HasColumn(name string) bool {
	_, ok := f.data[name]
	return ok
}

// Len returns the number of rows.
func (f *Frame) Len() int {
	return len(f.Index)
}

// Empty reports whether the frame has no rows or no columns.
func (f *Frame) Empty() bool {
	return f == nil || f.Len() == 0 || len(f.columns) == 0
}

// Column returns a copy of the raw cells of a column.
func (f *Frame) Column(name string) ([]string, error) {
	values, ok := f.data[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownColumn, name)
	}
	return append([]string(nil), values...), nil
}

// Value returns the cell at row i.
func (f *Frame) Value(i int, column string) string {
	return f.data[column][i]
}

// Floats parses a column as float64. Missing cells become NaN.
func (f *Frame) Floats(name string) ([]float64, error) {
	values, ok := f.data[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownColumn, name)
	}
	out := make([]float64, len(values))
	for i, v := range values {
		if isMissing(v) {
			out[i] = math.NaN()
			continue
		}
		parsed, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		if err != nil {
			return nil, fmt.Errorf("column %s row %d: %w", name, i, err)
		}
		out[i] = parsed
	}
	return out, nil
}

// Row returns row i as a column to cell map.
func (f *Frame) Row(i int) map[string]string {
	row := make(map[string]string, len(f.columns))
	for _, c := range f.columns {
		row[c] = f.data[c][i]
	}
	return row
}

// Records converts the frame into JSON-friendly rows. Numerical columns are
// emitted as numbers, missing cells as nil. The index is stored under its
// name, or "index" when unnamed.
func (f *Frame) Records() []map[string]any {
	numeric := make(map[string]bool, len(f.columns))
	for _, c := range f.columns {
		numeric[c] = InferColumnType(f, c) == Numerical
	}
	indexKey := f.IndexName
	if indexKey == "" {
		indexKey = "index"
	}

	records := make([]map[string]any, f.Len())
	for i := range records {
		rec := make(map[string]any, len(f.columns)+1)
		rec[indexKey] = f.Index[i]
		for _, c := range f.columns {
			v := f.data[c][i]
			switch {
			case isMissing(v):
				rec[c] = nil
			case numeric[c]:
				parsed, _ := strconv.ParseFloat(strings.TrimSpace(v), 64)
				rec[c] = parsed
			default:
				rec[c] = v
			}
		}
		records[i] = rec
	}
	return records
}

// Filter returns the rows for which keep returns true.
func (f *Frame) Filter(keep func(i int) bool) *Frame {
	var idx []int
	for i := 0; i < f.Len(); i++ {
		if keep(i) {
			idx = append(idx, i)
		}
	}
	return f.take(idx)
}

// Select returns a frame restricted to the given columns.
func (f *Frame) Select(columns ...string) (*Frame, error) {
	out := New(f.IndexName, columns...)
	out.Index = append([]string(nil), f.Index...)
	for _, c := range columns {
		values, ok := f.data[c]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownColumn, c)
		}
		out.data[c] = append([]string(nil), values...)
	}
	return out, nil
}

// Slice returns rows in [lo, hi), clamped to the frame bounds.
func (f *Frame) Slice(lo, hi int) *Frame {
	if lo < 0 {
		lo = 0
	}
	if hi > f.Len() {
		hi = f.Len()
	}
	idx := make([]int, 0, max(hi-lo, 0))
	for i := lo; i < hi; i++ {
		idx = append(idx, i)
	}
	return f.take(idx)
}

// Head returns the first n rows.
func (f *Frame) Head(n int) *Frame {
	return f.Slice(0, n)
}

// SortBy orders rows by a column. Numerical columns sort numerically with
// missing values last; others sort lexically. The sort is stable.
func (f *Frame) SortBy(column string, desc bool) (*Frame, error) {
	if !f.HasColumn(column) {
		return nil, fmt.Errorf("%w: %s", ErrUnknownColumn, column)
	}
	idx := make([]int, f.Len())
	for i := range idx {
		idx[i] = i
	}

	if InferColumnType(f, column) == Numerical {
		values, err := f.Floats(column)
		if err != nil {
			return nil, err
		}
		sort.SliceStable(idx, func(a, b int) bool {
			va, vb := values[idx[a]], values[idx[b]]
			if math.IsNaN(va) || math.IsNaN(vb) {
				return !math.IsNaN(va) && math.IsNaN(vb)
			}
			if desc {
				return va > vb
			}
			return va < vb
		})
	} else {
		values := f.data[column]
		sort.SliceStable(idx, func(a, b int) bool {
			if desc {
				return values[idx[a]] > values[idx[b]]
			}
			return values[idx[a]] < values[idx[b]]
		})
	}
	return f.take(idx), nil
}

// Unique returns the distinct non-missing values of a column in order of
// first appearance.
func (f *Frame) Unique(column string) ([]string, error) {
	values, ok := f.data[column]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownColumn, column)
	}
	seen := make(map[string]struct{})
	var out []string
	for _, v := range values {
		if isMissing(v) {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out, nil
}

// ValueCount pairs a category with its frequency.
type ValueCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// ValueCounts counts non-missing values, most frequent first. Ties keep
// the order of first appearance.
func (f *Frame) ValueCounts(column string) ([]ValueCount, error) {
	uniques, err := f.Unique(column)
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int, len(uniques))
	for _, v := range f.data[column] {
		if !isMissing(v) {
			counts[v]++
		}
	}
	out := make([]ValueCount, len(uniques))
	for i, u := range uniques {
		out[i] = ValueCount{Value: u, Count: counts[u]}
	}
	sort.SliceStable(out, func(a, b int) bool { return out[a].Count > out[b].Count })
	return out, nil
}

// AddColumn appends or replaces a column.
func (f *Frame) AddColumn(name string, values []string) error {
	if len(values) != f.Len() {
		return fmt.Errorf("column %s has %d values, frame has %d rows", name, len(values), f.Len())
	}
	if !f.HasColumn(name) {
		f.columns = append(f.columns, name)
	}
	f.data[name] = append([]string(nil), values...)
	return nil
}

// Concat stacks frames vertically using the columns of the first frame.
// Missing columns in later frames are filled with empty cells.
func Concat(frames ...*Frame) *Frame {
	if len(frames) == 0 {
		return New("")
	}
	out := New(frames[0].IndexName, frames[0].columns...)
	for _, fr := range frames {
		if fr == nil {
			continue
		}
		out.Index = append(out.Index, fr.Index...)
		for _, c := range out.columns {
			values, ok := fr.data[c]
			if !ok {
				values = make([]string, fr.Len())
			}
			out.data[c] = append(out.data[c], values...)
		}
	}
	return out
}

func (f *Frame) take(idx []int) *Frame {
	out := New(f.IndexName, f.columns...)
	out.Index = make([]string, len(idx))
	for j, i := range idx {
		out.Index[j] = f.Index[i]
	}
	for _, c := range f.columns {
		src := f.data[c]
		dst := make([]string, len(idx))
		for j, i := range idx {
			dst[j] = src[i]
		}
		out.data[c] = dst
	}
	return out
}

func isMissing(v string) bool {
	switch strings.TrimSpace(v) {
	case "", "NaN", "nan", "NA", "null":
		return true
	}
	return false
}
