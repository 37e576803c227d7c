package service

import (
	"context"
	"errors"
	"math"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vanshika/demolab/internal/dataset"
	"github.com/vanshika/demolab/internal/figure"
	"github.com/vanshika/demolab/internal/llm"
)

type fakeCompleter struct {
	prompts []string
	reply   string
	err     error
}

func (f *fakeCompleter) Complete(_ context.Context, prompt string) (string, error) {
	f.prompts = append(f.prompts, prompt)
	return f.reply, f.err
}

func advertising(t *testing.T) *dataset.Frame {
	t.Helper()
	f := dataset.New("", "TV", "Radio", "Newspaper", "Sales")
	for i := 0; i < 40; i++ {
		tv := float64((i * 37) % 300)
		radio := float64((i * 13) % 50)
		paper := float64((i * 29) % 100)
		sales := 3 + 0.05*tv + 0.2*radio + 0.01*paper + 0.3*math.Sin(float64(i))
		format := func(v float64) string { return strconv.FormatFloat(v, 'f', 4, 64) }
		require.NoError(t, f.AppendRow(strconv.Itoa(i), format(tv), format(radio), format(paper), format(sales)))
	}
	return f
}

func TestAdvisorFitsSalesModel(t *testing.T) {
	svc, err := NewAdvisorService(advertising(t), nil, discardLogger())
	require.NoError(t, err)

	coefs := svc.Coefficients()
	require.Len(t, coefs, 4)
	assert.Equal(t, "TV", coefs[0].Feature)
	assert.Equal(t, "const", coefs[3].Feature)
	assert.InDelta(t, 0.05, coefs[0].Coefficient, 0.011)
	assert.InDelta(t, 0.2, coefs[1].Coefficient, 0.011)
	assert.InDelta(t, 3, coefs[3].Coefficient, 0.5)

	summary := svc.Summary()
	assert.Equal(t, 28, summary.TrainRows)
	assert.Contains(t, summary.Equation, "Sales = ")
	assert.Contains(t, summary.Equation, "× Newspaper + ")
	assert.Greater(t, summary.Performance.RSquared, 0.95)

	plots, err := svc.Residuals()
	require.NoError(t, err)
	assert.Len(t, plots.Histogram.Series[0].Y, 20)
	assert.Len(t, plots.Scatter.Series[0].X, 12)
}

func TestAdvisorScatter(t *testing.T) {
	svc, err := NewAdvisorService(advertising(t), nil, discardLogger())
	require.NoError(t, err)

	fig, err := svc.Scatter("")
	require.NoError(t, err)
	assert.Equal(t, "TV vs. Sales", fig.Title)
	require.Len(t, fig.Series, 2)
	assert.Len(t, fig.Series[1].Y, 40)
	assert.Equal(t, figure.Theme.Orange, fig.Series[1].Color)

	_, err = svc.Scatter("Billboards")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestAdvisorAsk(t *testing.T) {
	completer := &fakeCompleter{reply: "TV spend is **significant**."}
	svc, err := NewAdvisorService(advertising(t), completer, discardLogger())
	require.NoError(t, err)
	assert.True(t, svc.Available())

	answer, err := svc.Ask(context.Background(), "  Explain the model's R-Squared value. ")
	require.NoError(t, err)
	assert.Equal(t, "Explain the model's R-Squared value.", answer.Question)
	assert.Contains(t, answer.HTML, "<strong>significant</strong>")
	require.Len(t, completer.prompts, 1)
	assert.Contains(t, completer.prompts[0], "TV has the coefficient")
	assert.Contains(t, completer.prompts[0], "Explain the model's R-Squared value.Answer in three sentences.")

	empty, err := svc.Ask(context.Background(), "")
	require.NoError(t, err)
	assert.Equal(t, Answer{}, empty)
	assert.Len(t, completer.prompts, 1)

	completer.err = errors.New("boom")
	_, err = svc.Ask(context.Background(), "Why?")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnavailable)
}

func TestAdvisorWithoutAssistant(t *testing.T) {
	svc, err := NewAdvisorService(advertising(t), nil, discardLogger())
	require.NoError(t, err)
	assert.False(t, svc.Available())

	_, err = svc.Ask(context.Background(), "Why?")
	require.ErrorIs(t, err, ErrUnavailable)

	box := svc.ChatBox()
	require.Len(t, box.Children, 1)
	assert.Equal(t, MsgMissingAPIKey, box.Children[0].Props["text"])
	assert.Equal(t, len(llm.PredefinedQuestions), len(svc.Questions()))
}
