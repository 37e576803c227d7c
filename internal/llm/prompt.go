package llm

import (
	"math"
	"strconv"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// Coefficient is one model term with its significance.
type Coefficient struct {
	Feature     string  `json:"Feature"`
	Coefficient float64 `json:"Coefficient"`
	PValue      float64 `json:"P-Values"`
}

// ModelContext is what the prompt tells the assistant about the model.
// Coefficients are expected to be rounded already; the intercept is the
// entry named InterceptName.
type ModelContext struct {
	Coefficients  []Coefficient
	FValue        float64
	RSquared      float64
	LogLikelihood float64
	Skew          float64
	Kurtosis      float64
}

// InterceptName labels the intercept coefficient.
const InterceptName = "const"

// PredefinedQuestions are offered in the chat box.
var PredefinedQuestions = []string{
	"Explain the model's coefficients and whether they are significant.",
	"Explain the model's overall performance.",
	"Explain whether the distribution of my model's residuals is normal.",
	"Explain the model's R-Squared value.",
	"Explain the model's F-Statistic value.",
	"Explain the model's Log Likelihood value.",
}

// ComposePrompt wraps question with the model context. An empty question
// yields an empty prompt.
func ComposePrompt(mc ModelContext, question string) string {
	if question == "" {
		return ""
	}
	var b strings.Builder
	b.WriteString("I have a dataset with the following features: ")
	b.WriteString("TV Marketing Spend, Radio Marketing Spend, and Newspaper Marketing Spend.")
	b.WriteString("These features are used to predict the target which is the number of Sales.")
	b.WriteString("To predict Sales, I built an Ordinary Least Squares Model.")

	b.WriteString("The OLS model has the following coefficients and corresponding p values: ")
	for _, c := range mc.Coefficients {
		if c.Feature == InterceptName {
			continue
		}
		b.WriteString(c.Feature + " has the coefficient " + FormatNumber(c.Coefficient) +
			" with a p-value of " + FormatNumber(c.PValue) + ". ")
	}
	for _, c := range mc.Coefficients {
		if c.Feature != InterceptName {
			continue
		}
		b.WriteString("The intercept has a value of " + FormatNumber(c.Coefficient) +
			" with a p-value of " + FormatNumber(c.PValue) + ".")
	}

	b.WriteString("The model has an F-Statistic of " + FormatNumber(Round2(mc.FValue)) +
		", a R-Squared of " + FormatNumber(Round2(mc.RSquared)) +
		", and a Log Likelihood of " + FormatNumber(Round2(mc.LogLikelihood)))

	b.WriteString("The skewness of the model's residual distribution is " + FormatNumber(Round2(mc.Skew)) + ". ")
	b.WriteString("The kurtosis of the model's residual distribution is " + FormatNumber(Round2(mc.Kurtosis)) + ". ")

	b.WriteString(question)
	b.WriteString("Answer in three sentences.")
	return b.String()
}

// Round2 rounds half away from zero to two decimals.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// FormatNumber prints v in its shortest form, always with a decimal point
// for finite whole numbers (3 prints as "3.0").
func FormatNumber(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if math.IsInf(v, 0) || math.IsNaN(v) || strings.ContainsAny(s, ".e") {
		return s
	}
	return s + ".0"
}

// RenderAnswer converts a markdown answer to HTML.
func RenderAnswer(md string) string {
	p := parser.NewWithExtensions(parser.CommonExtensions | parser.AutoHeadingIDs)
	r := html.NewRenderer(html.RendererOptions{Flags: html.CommonFlags | html.HrefTargetBlank | html.SkipHTML})
	return string(markdown.ToHTML([]byte(md), p, r))
}
