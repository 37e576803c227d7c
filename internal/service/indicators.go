package service

import (
	"fmt"
	"log/slog"
	"math"
	"path/filepath"
	"slices"
	"sort"
	"strconv"

	"github.com/vanshika/demolab/internal/dataset"
	"github.com/vanshika/demolab/internal/figure"
)

const (
	ColArea = "area"
	ColYear = "year"

	DefaultIndicator = "crops_production_tonnes"
	DefaultYear      = 2019

	MaxCountries = 10

	MsgNoSelectionData = "No data available for this selection."
)

// IndicatorPlot is a figure or the reason it could not be drawn.
type IndicatorPlot struct {
	Figure  *figure.Figure `json:"figure,omitempty"`
	Message string         `json:"message,omitempty"`
}

// IndicatorsService backs the plot interactivity app: country indicators
// on a world map, a top ten chart and per-country time series.
type IndicatorsService struct {
	logger    *slog.Logger
	data      *dataset.Frame
	countries dataset.FeatureCollection
}

// LoadIndicators reads gdp.csv and countries.json from root.
func LoadIndicators(root string, logger *slog.Logger) (*IndicatorsService, error) {
	data, err := dataset.ReadCSVFile(filepath.Join(root, "gdp.csv"), dataset.Options{IndexCol: true})
	if err != nil {
		return nil, err
	}
	countries, err := dataset.ReadGeoJSONFile(filepath.Join(root, "countries.json"))
	if err != nil {
		return nil, err
	}
	return NewIndicatorsService(data, countries, logger)
}

func NewIndicatorsService(data *dataset.Frame, countries dataset.FeatureCollection, logger *slog.Logger) (*IndicatorsService, error) {
	for _, c := range []string{ColArea, ColYear} {
		if !data.HasColumn(c) {
			return nil, fmt.Errorf("%w: indicators table lacks column %q", ErrInvalidInput, c)
		}
	}
	logger.Debug("indicators loaded", slog.Int("rows", data.Len()), slog.Int("shapes", len(countries.Features)))
	return &IndicatorsService{logger: logger, data: data, countries: countries}, nil
}

// Features lists the plottable indicator columns.
func (s *IndicatorsService) Features() []string {
	var out []string
	for _, c := range s.data.Columns() {
		if c != ColArea && c != ColYear {
			out = append(out, c)
		}
	}
	return out
}

// Years lists the distinct years in order of appearance.
func (s *IndicatorsService) Years() ([]int, error) {
	raw, err := s.data.Unique(ColYear)
	if err != nil {
		return nil, err
	}
	years := make([]int, 0, len(raw))
	for _, r := range raw {
		y, err := strconv.Atoi(r)
		if err != nil {
			return nil, fmt.Errorf("%w: year %q", ErrInvalidInput, r)
		}
		years = append(years, y)
	}
	return years, nil
}

// yearValues returns area -> value for one year. ok is false when every
// value of the year is missing.
func (s *IndicatorsService) yearValues(feature string, year int) (areas []string, values []float64, ok bool, err error) {
	if !s.data.HasColumn(feature) || feature == ColArea || feature == ColYear {
		return nil, nil, false, fmt.Errorf("%w: feature %q", ErrNotFound, feature)
	}
	all, err := s.data.Floats(feature)
	if err != nil {
		return nil, nil, false, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	want := strconv.Itoa(year)
	for i := 0; i < s.data.Len(); i++ {
		if s.data.Value(i, ColYear) != want {
			continue
		}
		areas = append(areas, s.data.Value(i, ColArea))
		values = append(values, all[i])
		if !math.IsNaN(all[i]) {
			ok = true
		}
	}
	return areas, values, ok, nil
}

// WorldMap joins one year of feature onto the country shapes and fills
// them on a linear RdBu scale.
func (s *IndicatorsService) WorldMap(feature string, year int) (IndicatorPlot, error) {
	areas, values, ok, err := s.yearValues(feature, year)
	if err != nil {
		return IndicatorPlot{}, err
	}
	if !ok {
		return IndicatorPlot{Message: MsgNoSelectionData}, nil
	}
	byArea := make(map[string]float64, len(areas))
	for i, a := range areas {
		if !math.IsNaN(values[i]) {
			byArea[a] = values[i]
		}
	}

	regions := make([]figure.Region, 0, len(s.countries.Features))
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, feat := range s.countries.Features {
		name := feat.Property(ColArea)
		region := figure.Region{Name: name, Properties: feat.Properties, Geometry: feat.Geometry}
		if v, found := byArea[name]; found {
			value := v
			region.Value = &value
			lo, hi = math.Min(lo, v), math.Max(hi, v)
		}
		regions = append(regions, region)
	}

	var mapper *figure.LinearColorMapper
	if !math.IsInf(lo, 1) {
		m := figure.NewLinearColorMapper(figure.RdBu11, lo, hi)
		mapper = &m
		for i := range regions {
			if regions[i].Value != nil {
				regions[i].Fill = m.Map(*regions[i].Value)
			}
		}
	}
	return IndicatorPlot{Figure: &figure.Figure{
		Kind:       figure.KindChoropleth,
		Title:      "Countries by " + figure.Label(feature),
		Regions:    regions,
		ColorScale: figure.RdBu11,
		Mapper:     mapper,
		Tooltip:    "@area: @{" + feature + "}{,}",
	}}, nil
}

// TopTen charts the ten countries with the highest value of feature.
func (s *IndicatorsService) TopTen(feature string, year int) (IndicatorPlot, error) {
	areas, values, ok, err := s.yearValues(feature, year)
	if err != nil {
		return IndicatorPlot{}, err
	}
	if !ok {
		return IndicatorPlot{Message: MsgNoSelectionData}, nil
	}
	type entry struct {
		area  string
		value float64
	}
	var rows []entry
	for i, a := range areas {
		if !math.IsNaN(values[i]) {
			rows = append(rows, entry{a, values[i]})
		}
	}
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].value > rows[j].value })
	if len(rows) > 10 {
		rows = rows[:10]
	}

	series := figure.Series{Colors: figure.RdBu11[:len(rows)]}
	for _, r := range rows {
		series.Labels = append(series.Labels, r.area)
		series.Y = append(series.Y, r.value)
	}
	label := figure.Label(feature)
	return IndicatorPlot{Figure: &figure.Figure{
		Kind:       figure.KindBar,
		Title:      "Top 10 countries: " + label,
		YLabel:     label,
		Categories: series.Labels,
		Series:     []figure.Series{series},
		Tooltip:    "@country: @value{,}",
	}}, nil
}

// Timeseries draws feature through the years for each selected country.
// Lines are ordered by country name; countries without rows are skipped.
func (s *IndicatorsService) Timeseries(countries []string, feature string) (IndicatorPlot, error) {
	if !s.data.HasColumn(feature) {
		return IndicatorPlot{}, fmt.Errorf("%w: feature %q", ErrNotFound, feature)
	}
	label := figure.Label(feature)
	if len(countries) == 0 {
		return IndicatorPlot{Message: "Please select countries on the map or in the selector to view their " + label + " through time."}, nil
	}

	values, err := s.data.Floats(feature)
	if err != nil {
		return IndicatorPlot{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	years, err := s.data.Floats(ColYear)
	if err != nil {
		return IndicatorPlot{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	ordered := slices.Clone(countries)
	sort.Strings(ordered)
	ordered = slices.Compact(ordered)

	var lines []figure.Series
	for _, country := range ordered {
		type point struct{ year, value float64 }
		var points []point
		for i := 0; i < s.data.Len(); i++ {
			if s.data.Value(i, ColArea) == country {
				points = append(points, point{years[i], values[i]})
			}
		}
		if len(points) == 0 {
			continue
		}
		sort.Slice(points, func(i, j int) bool { return points[i].year < points[j].year })
		line := figure.Series{Name: country, Color: figure.RdBu11[(len(lines)+1)%len(figure.RdBu11)]}
		for _, p := range points {
			line.X = append(line.X, p.year)
			line.Y = append(line.Y, p.value)
		}
		lines = append(lines, line)
	}
	return IndicatorPlot{Figure: &figure.Figure{
		Kind:   figure.KindLine,
		Title:  label,
		XLabel: ColYear,
		YLabel: label,
		Series: lines,
	}}, nil
}

// ToggleCountry adds or removes country from selection. A full selection
// first drops its oldest entry.
func ToggleCountry(selection []string, country string) []string {
	out := slices.Clone(selection)
	if out == nil {
		out = []string{}
	}
	if len(out) == MaxCountries {
		out = out[1:]
	}
	if i := slices.Index(out, country); i >= 0 {
		return slices.Delete(out, i, i+1)
	}
	return append(out, country)
}
