package dataset

import (
	"math"
	"sort"
	"strconv"

	"github.com/montanaflynn/stats"
)

var (
	numericStats     = []string{"count", "mean", "std", "min", "25%", "50%", "75%", "max"}
	categoricalStats = []string{"count", "unique", "top", "freq"}
)

// Describe summarises a frame the way a notebook would: numerical columns
// get count, mean, sample std, min, quartiles and max; every other column
// gets count, unique, top and freq. Each summary is a frame indexed by
// statistic name. A summary with no matching columns has no rows.
func Describe(f *Frame) (numeric, categorical *Frame, err error) {
	var numCols, catCols []string
	for _, c := range f.columns {
		if InferColumnType(f, c) == Numerical {
			numCols = append(numCols, c)
		} else {
			catCols = append(catCols, c)
		}
	}

	numeric = New("index", numCols...)
	if len(numCols) > 0 {
		cells := make([][]string, len(numericStats))
		for _, c := range numCols {
			values, err := f.Floats(c)
			if err != nil {
				return nil, nil, err
			}
			for i, v := range describeNumeric(DropNaN(values)) {
				cells[i] = append(cells[i], formatFloat(v))
			}
		}
		for i, name := range numericStats {
			if err := numeric.AppendRow(name, cells[i]...); err != nil {
				return nil, nil, err
			}
		}
	}

	categorical = New("index", catCols...)
	if len(catCols) > 0 {
		cells := make([][]string, len(categoricalStats))
		for _, c := range catCols {
			for i, v := range describeCategorical(f, c) {
				cells[i] = append(cells[i], v)
			}
		}
		for i, name := range categoricalStats {
			if err := categorical.AppendRow(name, cells[i]...); err != nil {
				return nil, nil, err
			}
		}
	}
	return numeric, categorical, nil
}

func describeNumeric(data []float64) []float64 {
	out := make([]float64, len(numericStats))
	out[0] = float64(len(data))
	if len(data) == 0 {
		for i := 1; i < len(out); i++ {
			out[i] = math.NaN()
		}
		return out
	}

	sorted := append([]float64(nil), data...)
	sort.Float64s(sorted)

	out[1], _ = stats.Mean(data)
	if len(data) > 1 {
		out[2], _ = stats.StandardDeviationSample(data)
	} else {
		out[2] = math.NaN()
	}
	out[3] = sorted[0]
	out[4] = Quantile(sorted, 0.25)
	out[5] = Quantile(sorted, 0.5)
	out[6] = Quantile(sorted, 0.75)
	out[7] = sorted[len(sorted)-1]
	return out
}

func describeCategorical(f *Frame, column string) []string {
	counts, _ := f.ValueCounts(column)
	total := 0
	for _, vc := range counts {
		total += vc.Count
	}
	if len(counts) == 0 {
		return []string{"0", "0", "", ""}
	}
	return []string{
		strconv.Itoa(total),
		strconv.Itoa(len(counts)),
		counts[0].Value,
		strconv.Itoa(counts[0].Count),
	}
}

func formatFloat(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
