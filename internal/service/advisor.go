package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/vanshika/demolab/internal/dataset"
	"github.com/vanshika/demolab/internal/figure"
	"github.com/vanshika/demolab/internal/llm"
	"github.com/vanshika/demolab/internal/regression"
	"github.com/vanshika/demolab/internal/ui"
)

const (
	salesTarget    = "Sales"
	salesTestSize  = 0.3
	salesSplitSeed = 100

	MsgMissingAPIKey = "Please set the OPENAI_API_KEY environment variable in your .env file with your OpenAI API key so that the app can query ChatGPT."
)

// SalesFeatures are the advertising channels the sales model uses.
var SalesFeatures = []string{"TV", "Radio", "Newspaper"}

// CoefficientRow is one row of the model details table.
type CoefficientRow struct {
	Feature     string  `json:"Feature"`
	Coefficient float64 `json:"Coefficient"`
	PValue      float64 `json:"P-Values"`
}

// Performance holds the headline fit statistics rounded to two decimals.
type Performance struct {
	FStatistic    float64 `json:"F Statistic"`
	RSquared      float64 `json:"R Squared"`
	LogLikelihood float64 `json:"Log Likelihood"`
}

// ModelSummary describes the fitted sales model.
type ModelSummary struct {
	TrainRows    int              `json:"train_rows"`
	Equation     string           `json:"equation"`
	Coefficients []CoefficientRow `json:"coefficients"`
	Performance  Performance      `json:"performance"`
}

// Answer is the assistant's reply to one question.
type Answer struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
	HTML     string `json:"html"`
}

// AdvisorService fits the sales model and explains it through a chat model.
type AdvisorService struct {
	logger    *slog.Logger
	data      *dataset.Frame
	model     *regression.OLS
	testX     [][]float64
	testY     []float64
	predicted []float64
	residuals []float64
	completer llm.Completer
}

// LoadAdvisor reads advertising.csv from root. completer may be nil when no
// API key is configured.
func LoadAdvisor(root string, completer llm.Completer, logger *slog.Logger) (*AdvisorService, error) {
	data, err := dataset.ReadCSVFile(filepath.Join(root, "advertising.csv"), dataset.Options{})
	if err != nil {
		return nil, err
	}
	return NewAdvisorService(data, completer, logger)
}

// NewAdvisorService trains the model on a seeded 70% split of data.
func NewAdvisorService(data *dataset.Frame, completer llm.Completer, logger *slog.Logger) (*AdvisorService, error) {
	columns := make([][]float64, len(SalesFeatures))
	for j, f := range SalesFeatures {
		values, err := data.Floats(f)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
		}
		columns[j] = values
	}
	target, err := data.Floats(salesTarget)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	train, test, err := dataset.TrainTestSplit(data.Len(), salesTestSize, salesSplitSeed)
	if err != nil {
		return nil, err
	}
	gather := func(positions []int) ([][]float64, []float64) {
		xs := make([][]float64, len(positions))
		ys := make([]float64, len(positions))
		for i, p := range positions {
			row := make([]float64, len(columns))
			for j := range columns {
				row[j] = columns[j][p]
			}
			xs[i], ys[i] = row, target[p]
		}
		return xs, ys
	}
	trainX, trainY := gather(train)
	testX, testY := gather(test)

	model, err := regression.FitOLS(trainX, trainY, SalesFeatures)
	if err != nil {
		return nil, fmt.Errorf("fit sales model: %w", err)
	}
	predicted, err := model.Predict(testX)
	if err != nil {
		return nil, err
	}
	residuals := make([]float64, len(testY))
	for i := range testY {
		residuals[i] = testY[i] - predicted[i]
	}

	logger.Info("sales model fitted",
		slog.Int("train_rows", len(train)),
		slog.Float64("r_squared", model.RSquared),
		slog.Bool("assistant", completer != nil),
	)
	return &AdvisorService{
		logger:    logger,
		data:      data,
		model:     model,
		testX:     testX,
		testY:     testY,
		predicted: predicted,
		residuals: residuals,
		completer: completer,
	}, nil
}

// Data returns the advertising table.
func (s *AdvisorService) Data() *dataset.Frame { return s.data }

// Coefficients lists the rounded model terms with the intercept last.
func (s *AdvisorService) Coefficients() []CoefficientRow {
	rows := make([]CoefficientRow, 0, len(s.model.Names))
	var intercept CoefficientRow
	for i, name := range s.model.Names {
		row := CoefficientRow{
			Feature:     name,
			Coefficient: llm.Round2(s.model.Params[i]),
			PValue:      llm.Round2(s.model.PValues[i]),
		}
		if name == regression.ConstName {
			intercept = row
			continue
		}
		rows = append(rows, row)
	}
	return append(rows, intercept)
}

// Summary describes the model and its fit.
func (s *AdvisorService) Summary() ModelSummary {
	var b strings.Builder
	b.WriteString(salesTarget + " =")
	for i, f := range SalesFeatures {
		coef, _ := s.model.Param(f)
		if i > 0 {
			b.WriteString(" +")
		}
		b.WriteString(" " + llm.FormatNumber(llm.Round2(coef)) + " × " + f)
	}
	intercept, _ := s.model.Param(regression.ConstName)
	b.WriteString(" + " + llm.FormatNumber(llm.Round2(intercept)))

	return ModelSummary{
		TrainRows:    s.model.NObs,
		Equation:     b.String(),
		Coefficients: s.Coefficients(),
		Performance: Performance{
			FStatistic:    llm.Round2(s.model.FValue),
			RSquared:      llm.Round2(s.model.RSquared),
			LogLikelihood: llm.Round2(s.model.LogLikelihood),
		},
	}
}

// ResidualPlots are the two residual views of the performance card.
type ResidualPlots struct {
	Histogram figure.Figure `json:"histogram"`
	Scatter   figure.Figure `json:"scatter"`
}

// Residuals plots the test residuals.
func (s *AdvisorService) Residuals() (ResidualPlots, error) {
	hist, err := dataset.NewHistogram(s.residuals, 20)
	if err != nil {
		return ResidualPlots{}, err
	}
	bars := figure.Series{Name: "Value", Color: figure.Theme.Orange}
	for i, c := range hist.Counts {
		bars.X = append(bars.X, hist.Left(i))
		bars.X2 = append(bars.X2, hist.Right(i))
		bars.Y = append(bars.Y, float64(c))
	}
	return ResidualPlots{
		Histogram: figure.Figure{
			Kind:   figure.KindHistogram,
			Title:  "Residual Distribution",
			XLabel: "Value",
			Series: []figure.Series{bars},
		},
		Scatter: figure.Figure{
			Kind:   figure.KindScatter,
			Title:  "Sales (Predictions) vs. Residuals",
			XLabel: "Sales (Predictions)",
			YLabel: "Residuals",
			Series: []figure.Series{{
				X:     append([]float64(nil), s.predicted...),
				Y:     append([]float64(nil), s.residuals...),
				Color: figure.Theme.Violet,
			}},
		},
	}, nil
}

// Scatter plots feature against sales with the model's line of fit for
// that feature.
func (s *AdvisorService) Scatter(feature string) (figure.Figure, error) {
	if feature == "" {
		feature = SalesFeatures[0]
	}
	xs, err := s.data.Floats(feature)
	if err != nil {
		return figure.Figure{}, fmt.Errorf("%w: feature %q", ErrNotFound, feature)
	}
	ys, err := s.data.Floats(salesTarget)
	if err != nil {
		return figure.Figure{}, err
	}
	fig := figure.Figure{
		Kind:   figure.KindScatter,
		Title:  feature + " vs. " + salesTarget,
		XLabel: feature,
		YLabel: salesTarget,
		Series: []figure.Series{{Name: salesTarget, X: xs, Y: ys, Color: figure.Theme.Violet}},
	}
	if coef, ok := s.model.Param(feature); ok {
		intercept, _ := s.model.Param(regression.ConstName)
		fit := make([]float64, len(xs))
		for i, x := range xs {
			fit[i] = intercept + x*coef
		}
		fig.Series = append(fig.Series, figure.Series{Name: "Fit", X: append([]float64(nil), xs...), Y: fit, Color: figure.Theme.Orange})
	}
	return fig, nil
}

// Questions lists the predefined questions.
func (s *AdvisorService) Questions() []string {
	return append([]string(nil), llm.PredefinedQuestions...)
}

// Available reports whether an assistant is configured.
func (s *AdvisorService) Available() bool { return s.completer != nil }

// ModelContext is what the assistant is told about the model.
func (s *AdvisorService) ModelContext() llm.ModelContext {
	_, _, skew, kurtosis := regression.JarqueBera(s.model.Residuals)
	coefs := s.Coefficients()
	mc := llm.ModelContext{
		FValue:        s.model.FValue,
		RSquared:      s.model.RSquared,
		LogLikelihood: s.model.LogLikelihood,
		Skew:          skew,
		Kurtosis:      kurtosis,
	}
	for _, c := range coefs {
		mc.Coefficients = append(mc.Coefficients, llm.Coefficient{Feature: c.Feature, Coefficient: c.Coefficient, PValue: c.PValue})
	}
	return mc
}

// Ask sends question with the model context to the assistant.
func (s *AdvisorService) Ask(ctx context.Context, question string) (Answer, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return Answer{}, nil
	}
	if s.completer == nil {
		return Answer{}, fmt.Errorf("%w: %s", ErrUnavailable, MsgMissingAPIKey)
	}
	reply, err := s.completer.Complete(ctx, llm.ComposePrompt(s.ModelContext(), question))
	if err != nil {
		if errors.Is(err, llm.ErrNotConfigured) {
			return Answer{}, fmt.Errorf("%w: %s", ErrUnavailable, MsgMissingAPIKey)
		}
		return Answer{}, fmt.Errorf("ask assistant: %w", err)
	}
	s.logger.Debug("assistant answered", slog.Int("question_len", len(question)), slog.Int("answer_len", len(reply)))
	return Answer{Question: question, Answer: reply, HTML: llm.RenderAnswer(reply)}, nil
}

// ChatBox is the chat panel, or a warning card without an assistant.
func (s *AdvisorService) ChatBox() ui.Component {
	if !s.Available() {
		return ui.Card("", ui.Text(MsgMissingAPIKey).With(ui.Props{"align": "center"})).
			With(ui.Props{"border": "5px solid " + figure.Theme.Error})
	}
	return ui.Card("",
		ui.Text("Try some of the example prompts below:"),
		ui.Select(s.Questions(), "", "/api/advisor/ask"),
		ui.Text("Or alternatively ask me anything given the context of this page:"),
		ui.Component{Type: "Textarea", Props: ui.Props{"endpoint": "/api/advisor/ask"}},
	)
}
