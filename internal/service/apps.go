package service

import (
	"strconv"

	"github.com/vanshika/demolab/internal/network"
	"github.com/vanshika/demolab/internal/ui"
)

// Services bundles every demo so the apps can be registered together.
// Nil services are skipped.
type Services struct {
	Social     *SocialNetworkService
	Explorer   *ExplorerService
	Wrangler   *WranglerService
	Indicators *IndicatorsService
	Reactivity *ReactivityService
	Advisor    *AdvisorService
}

// RegisterApps adds one ui.App per loaded service.
func RegisterApps(reg *ui.Registry, s Services) {
	if s.Social != nil {
		reg.Register(socialApp(s.Social))
	}
	if s.Explorer != nil {
		app := &ui.App{Name: "data-interactivity", Title: "Data Interactivity"}
		app.AddPage("Data Interactivity", "table", func() (ui.Component, error) { return s.Explorer.Page(), nil })
		reg.Register(app)
	}
	if s.Wrangler != nil {
		app := &ui.App{Name: "dataset-wrangler", Title: "Dataset Wrangler"}
		app.AddPage("Dataset Wrangler", "table", func() (ui.Component, error) {
			return ui.Stack(
				ui.Heading("Upload data", 3),
				ui.Card("",
					ui.Component{Type: "UploadDropzone", Props: ui.Props{"endpoint": "/api/wrangler/datasets"}},
					ui.Button("Use Sample Dataset", "/api/wrangler/datasets/sample"),
				),
				ui.Placeholder(MsgNoData),
			), nil
		})
		reg.Register(app)
	}
	if s.Indicators != nil {
		app := &ui.App{Name: "plot-interactivity", Title: "Plot Interactivity"}
		app.AddPage("Plot Interactivity", "chart-bar", func() (ui.Component, error) {
			years, err := s.Indicators.Years()
			if err != nil {
				return ui.Component{}, err
			}
			return ui.Stack(
				ui.Heading("Explore Your Dataset", 2),
				ui.Text("Explore the map to inspect features for each country").With(ui.Props{"italic": true}),
				ui.HStack(
					ui.Select(s.Indicators.Features(), DefaultIndicator, "/api/indicators/map"),
					ui.Select(intStrings(years), DefaultYear, "/api/indicators/map"),
					ui.Button("Reset Selection", "/api/indicators/selection"),
				),
				ui.Grid(2, ui.Figure("/api/indicators/map"), ui.Figure("/api/indicators/top")),
				ui.Figure("/api/indicators/timeseries"),
			), nil
		})
		reg.Register(app)
	}
	if s.Reactivity != nil {
		reg.Register(reactivityApp())
	}
	if s.Advisor != nil {
		app := &ui.App{Name: "llm", Title: "Sales Predictions"}
		app.AddPage("Sales Predictions", "comments", func() (ui.Component, error) {
			summary := s.Advisor.Summary()
			return ui.Stack(
				s.Advisor.ChatBox(),
				ui.HStack(
					ui.Card("Sales Prediction",
						ui.Text("This page is a summary of an OLS model that predicts Sales based on marketing spend in TV, Radio, and Newspaper."),
					),
					ui.Table(s.Advisor.Data().Records(), s.Advisor.Data().Columns()),
				),
				ui.HStack(
					ui.Card("",
						ui.Select(SalesFeatures, SalesFeatures[0], "/api/advisor/scatter"),
						ui.Figure("/api/advisor/scatter"),
					),
					ui.Card("Model Details", ui.Text(summary.Equation), ui.Table(summary.Coefficients[:len(summary.Coefficients)-1], nil)),
				),
				ui.Card("Model Performance", ui.Table([]Performance{summary.Performance}, nil), ui.Figure("/api/advisor/residuals")),
			), nil
		})
		reg.Register(app)
	}
	reg.Register(stylingApp())
}

func socialApp(s *SocialNetworkService) *ui.App {
	app := &ui.App{Name: "graph-viewer", Title: "Graph Viewer", Sidebar: true}
	app.AddPage("Introduction", "book", func() (ui.Component, error) {
		return ui.HStack(
			ui.Component{Type: "GraphViewer", Props: ui.Props{"graph": s.Graph(), "on_click_edge": "/api/graph/interactions"}},
			ui.Stack(
				ui.Card("Social Network Analysis",
					ui.Text("Social Network Analysis (SNA) is the process of investigating social structures through the use of graph theory."),
					ui.Text("Select an edge on the graph to view a log of the individual's interactions."),
				),
				ui.Table(s.Friendships().Records(), s.Friendships().Columns()),
			),
		), nil
	})
	app.AddPage("Strongest Paths", "route", func() (ui.Component, error) {
		return ui.HStack(
			ui.Component{Type: "GraphViewer", Props: ui.Props{"graph": s.Graph(), "on_click_node": "/api/graph/selection"}},
			ui.Card("Strongest Path", ui.Text("Select two nodes to find the strongest connection path between two individuals.")),
		), nil
	})
	app.AddPage("Influential Individuals", "star", func() (ui.Component, error) {
		report, err := s.Centrality(network.Degree)
		if err != nil {
			return ui.Component{}, err
		}
		return ui.HStack(
			ui.Component{Type: "GraphViewer", Props: ui.Props{"graph": report.Graph}},
			ui.Card("Influential Individuals",
				ui.Select(network.CentralityMeasures, report.Measure, "/api/graph/centrality"),
				ui.Text(report.Definition),
				ui.Figure(report.Figure),
			),
		), nil
	})
	app.AddPage("Connections", "users", func() (ui.Component, error) {
		t := s.Transitivity(nil)
		return ui.HStack(
			ui.Component{Type: "GraphViewer", Props: ui.Props{"graph": s.Graph(), "editable": true, "on_update": "/api/graph/transitivity"}},
			ui.Stack(
				ui.Heading("Transitivity Index", 4),
				ui.Text("The Transitivity Index demonstrates how well your graph is connected out of its full connectivity potential."),
				ui.Text(strconvPercent(t.OriginalPercent)).With(ui.Props{"font_size": "2rem"}),
			),
		), nil
	})
	return app
}

func reactivityApp() *ui.App {
	app := &ui.App{Name: "interactivity", Title: "Interactivity", Sidebar: true}
	app.AddPage("Variables", "square-root-variable", func() (ui.Component, error) {
		return ui.Stack(ui.Heading("Variables", 3), ui.Text(SumText("1", "2"))), nil
	})
	app.AddPage("Derived Variables", "calculator", func() (ui.Component, error) {
		return ui.Card("", ui.Text("The sum of 1 and 1 is "+SumText("1", "1"))), nil
	})
	app.AddPage("Py Components", "code", func() (ui.Component, error) {
		return ui.Stack(BarPlot("1", "1"), Vertical("My text")), nil
	})
	app.AddPage("Expensive Calculations", "microchip", func() (ui.Component, error) {
		return ui.Stack(
			ui.Heading("Hyperparameter Search", 3),
			ui.Button("Run grid search", "/api/reactivity/gridsearch"),
			ui.Placeholder("Run a search to see its confusion matrix."),
		), nil
	})
	return app
}

func stylingApp() *ui.App {
	app := &ui.App{Name: "custom-css", Title: "Custom CSS", Sidebar: true}
	app.AddPage("Customizing Components", "paintbrush", func() (ui.Component, error) {
		return ui.Stack(ui.Heading("Customizing Components", 3), StyledBox(DefaultBoxStyle())), nil
	})
	app.AddPage("CSS Units", "ruler", func() (ui.Component, error) { return UnitsPage(), nil })
	app.AddPage("Resources", "book", func() (ui.Component, error) { return ResourcesPage(), nil })
	return app
}

func intStrings(values []int) []string {
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = strconv.Itoa(v)
	}
	return out
}

func strconvPercent(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
