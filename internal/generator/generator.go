package generator

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"math/rand/v2"
	"strconv"
	"time"

	"github.com/vanshika/demolab/internal/dataset"
	"github.com/vanshika/demolab/internal/domain"
	"github.com/vanshika/demolab/internal/service"
)

// Dataset contains every generated sample table.
type Dataset struct {
	Friendships  []domain.Friendship
	Interactions []domain.Interaction
	Households   *dataset.Frame
	Indicators   *dataset.Frame
	Countries    dataset.FeatureCollection
	Advertising  *dataset.Frame
	Iris         *dataset.Frame
}

// Generator produces synthetic datasets shaped like the demo data.
type Generator struct {
	cfg           Config
	rand          *rand.Rand
	nameFragments nameFragments
}

// New returns a configured Generator instance.
func New(cfg Config) *Generator {
	def := DefaultConfig()
	if cfg.Individuals <= 1 {
		cfg.Individuals = def.Individuals
	}
	if cfg.FriendsPerNode <= 0 {
		cfg.FriendsPerNode = def.FriendsPerNode
	}
	if cfg.MaxInteractions <= 0 {
		cfg.MaxInteractions = def.MaxInteractions
	}
	if cfg.Households <= 0 {
		cfg.Households = def.Households
	}
	if cfg.Countries <= 0 {
		cfg.Countries = def.Countries
	}
	if cfg.FirstYear == 0 || cfg.LastYear < cfg.FirstYear {
		cfg.FirstYear, cfg.LastYear = def.FirstYear, def.LastYear
	}
	if cfg.AdvertisingRows <= 0 {
		cfg.AdvertisingRows = def.AdvertisingRows
	}
	if cfg.IrisPerSpecies <= 0 {
		cfg.IrisPerSpecies = def.IrisPerSpecies
	}
	if cfg.Seed == 0 {
		cfg.Seed = uint64(time.Now().UnixNano())
	}

	return &Generator{
		cfg:           cfg,
		rand:          rand.New(rand.NewPCG(cfg.Seed, cfg.Seed^0x9e3779b97f4a7c15)),
		nameFragments: defaultNameFragments(),
	}
}

// Generate synthesises every dataset. It respects context cancellation.
func (g *Generator) Generate(ctx context.Context) (Dataset, error) {
	var ds Dataset
	steps := []func() error{
		func() error {
			ds.Friendships, ds.Interactions = g.socialNetwork()
			return nil
		},
		func() (err error) {
			ds.Households, err = g.households()
			return err
		},
		func() (err error) {
			ds.Indicators, ds.Countries, err = g.indicators()
			return err
		},
		func() (err error) {
			ds.Advertising, err = g.advertising()
			return err
		},
		func() (err error) {
			ds.Iris, err = g.iris()
			return err
		},
	}
	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			return Dataset{}, err
		}
		if err := step(); err != nil {
			return Dataset{}, err
		}
	}
	return ds, nil
}

// socialNetwork links every individual to a few random friends and logs one
// dated event per interaction.
func (g *Generator) socialNetwork() ([]domain.Friendship, []domain.Interaction) {
	names := g.uniqueNames(g.cfg.Individuals)
	var rows []domain.Friendship
	for i, a := range names {
		for k := 0; k < g.cfg.FriendsPerNode; k++ {
			j := g.rand.IntN(len(names))
			if j == i {
				continue
			}
			rows = append(rows, domain.Friendship{
				IndividualA:  a,
				IndividualB:  names[j],
				Interactions: 1 + g.rand.IntN(g.cfg.MaxInteractions),
			})
		}
	}
	rows = service.NormalizeFriendships(rows)

	start := time.Date(g.cfg.LastYear, time.January, 1, 0, 0, 0, 0, time.UTC)
	var events []domain.Interaction
	for _, r := range rows {
		for n := 0; n < r.Interactions; n++ {
			a, b := r.IndividualA, r.IndividualB
			if g.rand.IntN(2) == 1 {
				a, b = b, a
			}
			events = append(events, domain.Interaction{
				Date:        start.AddDate(0, 0, g.rand.IntN(365)),
				IndividualA: a,
				IndividualB: b,
				Kind:        g.nameFragments.interactions[g.rand.IntN(len(g.nameFragments.interactions))],
			})
		}
	}
	return rows, events
}

func (g *Generator) uniqueNames(n int) []string {
	seen := make(map[string]struct{}, n)
	names := make([]string, 0, n)
	for len(names) < n {
		name := g.randomFullName()
		if _, ok := seen[name]; ok {
			name = fmt.Sprintf("%s %d", name, len(names))
		}
		seen[name] = struct{}{}
		names = append(names, name)
	}
	return names
}

// households mirrors the 401k eligibility survey columns.
func (g *Generator) households() (*dataset.Frame, error) {
	f := dataset.New("", "Total Wealth", "Net Financial Assets", "Age", "Income", "Family Size",
		"Education", "Eligible for 401K", "Married", "Two Earners", "Home Owner")
	for i := 0; i < g.cfg.Households; i++ {
		age := 25 + g.rand.IntN(40)
		income := math.Round(math.Max(2000, 38000+18000*g.rand.NormFloat64()))
		eligible := g.rand.Float64() < 0.25+income/250000
		nfa := math.Round((income-30000)*0.4 + 20000*g.rand.NormFloat64())
		if eligible {
			nfa += 10000
		}
		homeOwner := g.rand.Float64() < 0.6
		wealth := nfa
		if homeOwner {
			wealth += math.Round(40000 + 30000*g.rand.Float64())
		}
		married := g.rand.Float64() < 0.6
		err := f.AppendRow(strconv.Itoa(i),
			ftoa(wealth), ftoa(nfa), strconv.Itoa(age), ftoa(income),
			strconv.Itoa(1+g.rand.IntN(5)), strconv.Itoa(8+g.rand.IntN(11)),
			yesNo(eligible), yesNo(married), yesNo(married && g.rand.Float64() < 0.5), yesNo(homeOwner),
		)
		if err != nil {
			return nil, err
		}
	}
	return f, nil
}

// indicators draws a growth series per country and a square shape for each
// on a coarse world grid.
func (g *Generator) indicators() (*dataset.Frame, dataset.FeatureCollection, error) {
	f := dataset.New("", service.ColArea, service.ColYear, "gdp_usd", service.DefaultIndicator)
	countries := dataset.FeatureCollection{Type: "FeatureCollection"}
	row := 0
	for c := 0; c < g.cfg.Countries; c++ {
		name := g.countryName(c)
		gdp := math.Exp(22 + 3*g.rand.Float64())
		crops := math.Exp(13 + 4*g.rand.Float64())
		growth := 0.01 + 0.04*g.rand.Float64()
		for year := g.cfg.FirstYear; year <= g.cfg.LastYear; year++ {
			gdp *= 1 + growth + 0.02*g.rand.NormFloat64()
			crops *= 1 + 0.03*g.rand.NormFloat64()
			err := f.AppendRow(strconv.Itoa(row), name, strconv.Itoa(year), g.maybeMissing(gdp), g.maybeMissing(crops))
			if err != nil {
				return nil, countries, err
			}
			row++
		}

		geometry, err := squareGeometry(c)
		if err != nil {
			return nil, countries, err
		}
		countries.Features = append(countries.Features, dataset.Feature{
			Type:       "Feature",
			Properties: map[string]any{service.ColArea: name},
			Geometry:   geometry,
		})
	}
	return f, countries, nil
}

func (g *Generator) maybeMissing(v float64) string {
	if g.rand.Float64() < g.cfg.MissingChance {
		return ""
	}
	return ftoa(math.Round(v))
}

func squareGeometry(c int) (json.RawMessage, error) {
	lon := -170 + float64(c%17)*20
	lat := -50 + float64(c/17%6)*20
	ring := [][2]float64{{lon, lat}, {lon + 15, lat}, {lon + 15, lat + 15}, {lon, lat + 15}, {lon, lat}}
	return json.Marshal(map[string]any{"type": "Polygon", "coordinates": [][][2]float64{ring}})
}

// advertising draws spend per channel and sales from a known linear model.
func (g *Generator) advertising() (*dataset.Frame, error) {
	f := dataset.New("", append(append([]string{}, service.SalesFeatures...), "Sales")...)
	for i := 0; i < g.cfg.AdvertisingRows; i++ {
		tv := 300 * g.rand.Float64()
		radio := 50 * g.rand.Float64()
		newspaper := 100 * g.rand.Float64()
		sales := 4.7 + 0.045*tv + 0.19*radio + 0.001*newspaper + 1.5*g.rand.NormFloat64()
		err := f.AppendRow(strconv.Itoa(i), round1(tv), round1(radio), round1(newspaper), round1(math.Max(sales, 0)))
		if err != nil {
			return nil, err
		}
	}
	return f, nil
}

type species struct {
	name  string
	mean  [4]float64
	scale [4]float64
}

var irisSpecies = []species{
	{"setosa", [4]float64{5.0, 3.4, 1.5, 0.2}, [4]float64{0.35, 0.38, 0.17, 0.1}},
	{"versicolor", [4]float64{5.9, 2.8, 4.3, 1.3}, [4]float64{0.52, 0.31, 0.47, 0.2}},
	{"virginica", [4]float64{6.6, 3.0, 5.6, 2.0}, [4]float64{0.64, 0.32, 0.55, 0.27}},
}

// iris samples each species around the measurements of the classic dataset.
func (g *Generator) iris() (*dataset.Frame, error) {
	f := dataset.New("", "sepal length (cm)", "sepal width (cm)", "petal length (cm)", "petal width (cm)", "species")
	row := 0
	for _, s := range irisSpecies {
		for n := 0; n < g.cfg.IrisPerSpecies; n++ {
			values := make([]string, 0, 5)
			for k := range s.mean {
				values = append(values, round1(math.Max(0.1, s.mean[k]+s.scale[k]*g.rand.NormFloat64())))
			}
			if err := f.AppendRow(strconv.Itoa(row), append(values, s.name)...); err != nil {
				return nil, err
			}
			row++
		}
	}
	return f, nil
}

func (g *Generator) randomFullName() string {
	return fmt.Sprintf("%s %s", g.nameFragments.first[g.rand.IntN(len(g.nameFragments.first))],
		g.nameFragments.last[g.rand.IntN(len(g.nameFragments.last))])
}

func (g *Generator) countryName(i int) string {
	base := g.nameFragments.countries[i%len(g.nameFragments.countries)]
	if i < len(g.nameFragments.countries) {
		return base
	}
	return fmt.Sprintf("%s %d", base, i/len(g.nameFragments.countries)+1)
}

func ftoa(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

func round1(v float64) string { return ftoa(math.Round(v*10) / 10) }

func yesNo(b bool) string {
	if b {
		return "Y"
	}
	return "N"
}

type nameFragments struct {
	first        []string
	last         []string
	interactions []string
	countries    []string
}

func defaultNameFragments() nameFragments {
	return nameFragments{
		first:        []string{"Jane", "John", "Alex", "Priya", "Liu", "Maria", "Omar", "Sofia", "Noah", "Emma", "Lucas", "Mia", "Ava", "Ethan", "Zara"},
		last:         []string{"Doe", "Smith", "Chen", "Patel", "Garcia", "Khan", "Kim", "Ivanov", "Nguyen", "Silva", "Brown", "Lee"},
		interactions: []string{"Call", "Text", "Lunch", "Coffee", "Email", "Meeting"},
		countries: []string{"Argentina", "Australia", "Brazil", "Canada", "Chile", "China", "Egypt", "France",
			"Germany", "India", "Indonesia", "Italy", "Japan", "Kenya", "Mexico", "Nigeria", "Norway",
			"Peru", "Poland", "Spain", "Sweden", "Thailand", "Turkey", "Viet Nam"},
	}
}
