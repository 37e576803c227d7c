package service

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"path/filepath"
	"slices"
	"strconv"

	"github.com/vanshika/demolab/internal/dataset"
	"github.com/vanshika/demolab/internal/figure"
	"github.com/vanshika/demolab/internal/ui"
)

const (
	ColIncomeBracket = "Income Bracket"
	ColIncome        = "Income"

	// DefaultDistributionFeature is the feature plotted before the user picks one.
	DefaultDistributionFeature = "Total Wealth"

	HighlightHelp = "Bars that are orange indicate that the selected data point lives within this range."
)

// IncomeBrackets label the income quartiles, lowest first.
var IncomeBrackets = []string{"Below Q1", "Above Q1", "Above Q2", "Above Q3"}

var (
	stickyColumns    = []string{"Eligible for 401K", ColIncomeBracket}
	thresholdColumns = []string{"Total Wealth", "Net Financial Assets"}
)

// Table filter kinds.
const (
	FilterNumeric = "numeric"
	FilterText    = "text"
)

// Badge is a coloured label for a categorical cell value.
type Badge struct {
	Color string `json:"color"`
	Label string `json:"label"`
}

// Threshold colours cells whose value lies within Bounds.
type Threshold struct {
	Color  string     `json:"color"`
	Bounds [2]float64 `json:"bounds"`
}

// Formatter decorates a table column.
type Formatter struct {
	Type       string           `json:"type"`
	Badges     map[string]Badge `json:"badges,omitempty"`
	Thresholds []Threshold      `json:"thresholds,omitempty"`
}

// TableColumn describes how one column of the 401k table is shown.
type TableColumn struct {
	ID        string     `json:"col_id"`
	Label     string     `json:"label"`
	Filter    string     `json:"filter"`
	Formatter *Formatter `json:"formatter,omitempty"`
	Sticky    string     `json:"sticky,omitempty"`
}

// ExplorerTable is the 401k data with its column descriptors.
type ExplorerTable struct {
	Rows    []map[string]any `json:"rows"`
	Columns []TableColumn    `json:"columns"`
}

// ExplorerService backs the data interactivity app.
type ExplorerService struct {
	logger      *slog.Logger
	data        *dataset.Frame
	categorical map[string]bool
}

// LoadExplorer reads 401k.csv from root.
func LoadExplorer(root string, logger *slog.Logger) (*ExplorerService, error) {
	data, err := dataset.ReadCSVFile(filepath.Join(root, "401k.csv"), dataset.Options{IndexCol: true})
	if err != nil {
		return nil, err
	}
	return NewExplorerService(data, logger)
}

// NewExplorerService adds the income bracket column to data.
func NewExplorerService(data *dataset.Frame, logger *slog.Logger) (*ExplorerService, error) {
	income, err := data.Floats(ColIncome)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	brackets, err := dataset.QCut(income, IncomeBrackets)
	if err != nil {
		return nil, fmt.Errorf("income brackets: %w", err)
	}
	if err := data.AddColumn(ColIncomeBracket, brackets); err != nil {
		return nil, err
	}

	categorical := map[string]bool{ColIncomeBracket: true}
	for _, c := range data.Columns() {
		if dataset.InferColumnType(data, c) != dataset.Numerical {
			categorical[c] = true
		}
	}
	logger.Debug("401k dataset loaded", slog.Int("rows", data.Len()), slog.Int("columns", len(data.Columns())))
	return &ExplorerService{logger: logger, data: data, categorical: categorical}, nil
}

// Features lists every column.
func (s *ExplorerService) Features() []string { return s.data.Columns() }

// CategoricalFeatures lists the non-numerical columns, income bracket included.
func (s *ExplorerService) CategoricalFeatures() []string {
	var out []string
	for _, c := range s.data.Columns() {
		if s.categorical[c] {
			out = append(out, c)
		}
	}
	return out
}

// Table returns the dataset with per-column formatting.
func (s *ExplorerService) Table() ExplorerTable {
	columns := make([]TableColumn, 0, len(s.data.Columns()))
	for _, feature := range s.data.Columns() {
		col := TableColumn{ID: feature, Label: feature, Filter: FilterNumeric}
		switch {
		case feature == ColIncomeBracket:
			badges := make(map[string]Badge, len(IncomeBrackets))
			for i, b := range IncomeBrackets {
				badges[b] = Badge{Color: figure.Blues5[i+1], Label: b}
			}
			col.Formatter = &Formatter{Type: "badge", Badges: badges}
			col.Filter = FilterText
		case s.categorical[feature]:
			col.Formatter = &Formatter{Type: "badge", Badges: map[string]Badge{
				"Y": {Color: figure.Green, Label: "Yes"},
				"N": {Color: figure.Red, Label: "No"},
			}}
			col.Filter = FilterText
		case slices.Contains(thresholdColumns, feature):
			col.Formatter = &Formatter{Type: "threshold", Thresholds: []Threshold{
				{Color: figure.Red, Bounds: [2]float64{-1e13, -0.01}},
			}}
		}
		if slices.Contains(stickyColumns, feature) {
			col.Sticky = "left"
		}
		columns = append(columns, col)
	}
	return ExplorerTable{Rows: s.data.Records(), Columns: columns}
}

// Distribution is a plot of one feature plus an optional help text.
type Distribution struct {
	Figure *figure.Figure `json:"figure,omitempty"`
	Help   string         `json:"help,omitempty"`
	Empty  bool           `json:"empty"`
}

// Distribution plots feature for the rows with the given index labels. One
// row is highlighted against the whole dataset; several rows are plotted on
// their own.
func (s *ExplorerService) Distribution(feature string, rows []string) (Distribution, error) {
	if feature == "" {
		feature = DefaultDistributionFeature
	}
	if !s.data.HasColumn(feature) {
		return Distribution{}, fmt.Errorf("%w: feature %q", ErrNotFound, feature)
	}
	if len(rows) == 0 {
		return Distribution{Empty: true}, nil
	}
	selected, err := s.rows(rows)
	if err != nil {
		return Distribution{}, err
	}

	var (
		fig  figure.Figure
		help string
	)
	if len(rows) == 1 {
		fig, err = s.plot(s.data, feature, selected, true)
		help = HighlightHelp
	} else {
		fig, err = s.plot(selected, feature, nil, false)
	}
	if err != nil {
		return Distribution{}, err
	}
	return Distribution{Figure: &fig, Help: help}, nil
}

func (s *ExplorerService) plot(data *dataset.Frame, feature string, individual *dataset.Frame, highlight bool) (figure.Figure, error) {
	if s.categorical[feature] {
		return s.categoricalBars(data, feature, individual, highlight)
	}
	return continuousHistogram(data, feature, individual, highlight)
}

func distributionTitle(feature string, highlight bool) string {
	if highlight {
		return feature + " Distribution (Whole Dataset)"
	}
	return feature + " Distribution (Selected Individuals)"
}

func (s *ExplorerService) categoricalBars(data *dataset.Frame, feature string, individual *dataset.Frame, highlight bool) (figure.Figure, error) {
	counts, err := data.ValueCounts(feature)
	if err != nil {
		return figure.Figure{}, err
	}
	bracketColor := make(map[string]string, len(IncomeBrackets))
	for i, b := range IncomeBrackets {
		bracketColor[b] = figure.Blues4[i]
	}

	series := figure.Series{}
	for _, vc := range counts {
		var color string
		switch {
		case highlight:
			color = figure.SteelBlue
			if vc.Value == individual.Value(0, feature) {
				color = figure.Coral
			}
		case feature == ColIncomeBracket:
			color = bracketColor[vc.Value]
		case vc.Value == "Y":
			color = figure.Green
		case vc.Value == "N":
			color = figure.Red
		}
		series.Labels = append(series.Labels, vc.Value)
		series.X = append(series.X, float64(vc.Count))
		series.Colors = append(series.Colors, color)
	}
	return figure.Figure{
		Kind:       figure.KindHBar,
		Title:      distributionTitle(feature, highlight),
		Categories: series.Labels,
		Series:     []figure.Series{series},
		Tooltip:    "@{" + feature + "}: @count",
	}, nil
}

func continuousHistogram(data *dataset.Frame, feature string, individual *dataset.Frame, highlight bool) (figure.Figure, error) {
	values, err := data.Floats(feature)
	if err != nil {
		return figure.Figure{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	hist, err := dataset.NewHistogram(values, 10)
	if err != nil {
		return figure.Figure{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	point := math.NaN()
	if highlight {
		if point, err = strconv.ParseFloat(individual.Value(0, feature), 64); err != nil {
			point = math.NaN()
		}
	}

	series := figure.Series{}
	for i, c := range hist.Counts {
		color := figure.SteelBlue
		if highlight && point > hist.Left(i) && point < hist.Right(i) {
			color = figure.Coral
		}
		series.X = append(series.X, hist.Left(i))
		series.X2 = append(series.X2, hist.Right(i))
		series.Y = append(series.Y, float64(c))
		series.Colors = append(series.Colors, color)
	}
	return figure.Figure{
		Kind:    figure.KindHistogram,
		Title:   distributionTitle(feature, highlight),
		Series:  []figure.Series{series},
		Tooltip: "@{" + feature + "}{0.00}",
	}, nil
}

// Summary holds the descriptive statistics of a selection.
type Summary struct {
	Numerical   []map[string]any `json:"numerical"`
	Categorical []map[string]any `json:"categorical"`
	Empty       bool             `json:"empty"`
}

// Describe summarises the selected rows.
func (s *ExplorerService) Describe(rows []string) (Summary, error) {
	if len(rows) == 0 {
		return Summary{Empty: true}, nil
	}
	selected, err := s.rows(rows)
	if err != nil {
		return Summary{}, err
	}
	numeric, categorical, err := dataset.Describe(selected)
	if err != nil {
		return Summary{}, err
	}
	return Summary{Numerical: numeric.Records(), Categorical: categorical.Records()}, nil
}

// rows returns the rows with the given index labels in request order.
func (s *ExplorerService) rows(labels []string) (*dataset.Frame, error) {
	position := make(map[string]int, s.data.Len())
	for i, idx := range s.data.Index {
		position[idx] = i
	}
	positions := make([]int, 0, len(labels))
	var missing []error
	for _, l := range labels {
		p, ok := position[l]
		if !ok {
			missing = append(missing, fmt.Errorf("%w: row %q", ErrNotFound, l))
			continue
		}
		positions = append(positions, p)
	}
	if err := errors.Join(missing...); err != nil {
		return nil, err
	}
	return s.data.Take(positions), nil
}

// Page lays out the explorer for the component tree endpoint.
func (s *ExplorerService) Page() ui.Component {
	return ui.Stack(
		ui.Heading("Explore Your Dataset", 3),
		ui.Text("Click on an individual row to see where this datapoint lies in the total data distribution. "+
			"Or click on multiple datapoints to view the distribution amongst these individuals.").With(ui.Props{"italic": true}),
		ui.Table("/api/explorer/table", s.Table().Columns),
		ui.HStack(
			ui.Stack(
				ui.Select(s.Features(), DefaultDistributionFeature, "/api/explorer/distribution"),
				ui.Figure("/api/explorer/distribution"),
			),
			ui.Figure("/api/explorer/describe"),
		),
	)
}
