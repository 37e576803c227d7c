package dataset

import (
	"strconv"
	"strings"
	"time"
)

// ColumnType classifies a column for plotting and formatting.
type ColumnType string

const (
	Categorical ColumnType = "categorical"
	Datetime    ColumnType = "datetime"
	Numerical   ColumnType = "numerical"
)

var datetimeLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// InferColumnType inspects the non-missing cells of a column. A column is
// numerical when every value parses as a float, datetime when every value
// parses with one of the supported layouts, and categorical otherwise.
// Columns without any value are categorical.
func InferColumnType(f *Frame, column string) ColumnType {
	values, ok := f.data[column]
	if !ok {
		return Categorical
	}

	numeric, datetime, seen := true, true, false
	for _, v := range values {
		if isMissing(v) {
			continue
		}
		seen = true
		v = strings.TrimSpace(v)
		if numeric {
			if _, err := strconv.ParseFloat(v, 64); err != nil {
				numeric = false
			}
		}
		if datetime && !parsesAsTime(v) {
			datetime = false
		}
		if !numeric && !datetime {
			return Categorical
		}
	}

	switch {
	case !seen:
		return Categorical
	case numeric:
		return Numerical
	case datetime:
		return Datetime
	default:
		return Categorical
	}
}

// ColumnInfo describes a column and its inferred type.
type ColumnInfo struct {
	Name string     `json:"name"`
	Type ColumnType `json:"type"`
}

// Schema returns the inferred type of every column.
func Schema(f *Frame) []ColumnInfo {
	out := make([]ColumnInfo, 0, len(f.columns))
	for _, c := range f.columns {
		out = append(out, ColumnInfo{Name: c, Type: InferColumnType(f, c)})
	}
	return out
}

func parsesAsTime(v string) bool {
	for _, layout := range datetimeLayouts {
		if _, err := time.Parse(layout, v); err == nil {
			return true
		}
	}
	return false
}
