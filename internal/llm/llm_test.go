package llm

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleContext() ModelContext {
	return ModelContext{
		Coefficients: []Coefficient{
			{Feature: "TV", Coefficient: 0.05, PValue: 0},
			{Feature: "Radio", Coefficient: 0.1, PValue: 0.01},
			{Feature: "const", Coefficient: 4.7, PValue: 0},
		},
		FValue:        439.123,
		RSquared:      0.9034,
		LogLikelihood: -271.004,
		Skew:          -0.4012,
		Kurtosis:      3,
	}
}

func TestComposePrompt(t *testing.T) {
	got := ComposePrompt(sampleContext(), "Why?")
	want := "I have a dataset with the following features: " +
		"TV Marketing Spend, Radio Marketing Spend, and Newspaper Marketing Spend." +
		"These features are used to predict the target which is the number of Sales." +
		"To predict Sales, I built an Ordinary Least Squares Model." +
		"The OLS model has the following coefficients and corresponding p values: " +
		"TV has the coefficient 0.05 with a p-value of 0.0. " +
		"Radio has the coefficient 0.1 with a p-value of 0.01. " +
		"The intercept has a value of 4.7 with a p-value of 0.0." +
		"The model has an F-Statistic of 439.12, a R-Squared of 0.9, and a Log Likelihood of -271.0" +
		"The skewness of the model's residual distribution is -0.4. " +
		"The kurtosis of the model's residual distribution is 3.0. " +
		"Why?Answer in three sentences."
	assert.Equal(t, want, got)

	assert.Equal(t, "", ComposePrompt(sampleContext(), ""))
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "3.0", FormatNumber(3))
	assert.Equal(t, "-0.4", FormatNumber(-0.4))
	assert.Equal(t, "NaN", FormatNumber(math.NaN()))
	assert.Equal(t, 2.68, Round2(2.6789))
}

func TestRenderAnswer(t *testing.T) {
	out := RenderAnswer("The model is **significant**.\n\n- one\n- two\n")
	assert.Contains(t, out, "<strong>significant</strong>")
	assert.Contains(t, out, "<li>one</li>")
}

func TestNewClientRequiresKey(t *testing.T) {
	_, err := NewClient(Config{})
	require.ErrorIs(t, err, ErrNotConfigured)
}

func TestCompleteSendsChatRequest(t *testing.T) {
	var got chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"Sales rise with TV spend."}}]}`))
	}))
	defer srv.Close()

	client, err := NewClient(Config{APIKey: "secret", BaseURL: srv.URL + "/v1/", Temperature: 1})
	require.NoError(t, err)

	answer, err := client.Complete(context.Background(), "hello")
	require.NoError(t, err)
	assert.Equal(t, "Sales rise with TV spend.", answer)
	assert.Equal(t, "gpt-3.5-turbo", got.Model)
	assert.Equal(t, 1.0, got.Temperature)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, chatMessage{Role: "user", Content: "hello"}, got.Messages[0])
}

func TestCompleteSurfacesHTTPErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client, err := NewClient(Config{APIKey: "k", BaseURL: srv.URL})
	require.NoError(t, err)
	_, err = client.Complete(context.Background(), "hello")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
	assert.Contains(t, err.Error(), "quota exceeded")
}
