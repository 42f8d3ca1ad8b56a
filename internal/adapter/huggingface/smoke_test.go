//go:build huggingface

package huggingface

import (
	"context"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/couchcryptid/climate-canvas/internal/domain"
	"github.com/couchcryptid/climate-canvas/internal/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// These tests hit the real Hugging Face Inference API and require HF_API_KEY.
// Run with: go test -tags=huggingface ./internal/adapter/huggingface/ -v -count=1

func smokeClient(t *testing.T) *Client {
	t.Helper()
	token := os.Getenv("HF_API_KEY")
	if token == "" {
		t.Fatal("HF_API_KEY must be set to run smoke tests")
	}
	return NewClient(Options{
		Token:        token,
		BaseURL:      "https://api-inference.huggingface.co/models",
		SummaryModel: "facebook/bart-large-cnn",
		QAModel:      "deepset/roberta-base-squad2",
		Timeout:      60 * time.Second,
	}, observability.NewMetricsForTesting(), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestSmoke_Summarize(t *testing.T) {
	c := smokeClient(t)
	records, err := domain.GenerateSeries(domain.DefaultParams())
	require.NoError(t, err)
	window := domain.FilterYears(records, 1950, 2023)

	summary, err := c.Summarize(context.Background(), domain.SummaryPrompt(window, 1950, 2023))
	require.NoError(t, err)
	assert.NotEmpty(t, summary)
	t.Logf("summary: %s", summary)
}

func TestSmoke_Answer(t *testing.T) {
	c := smokeClient(t)
	records, err := domain.GenerateSeries(domain.DefaultParams())
	require.NoError(t, err)

	ans, err := c.Answer(context.Background(), "What years does the dataset cover?", domain.QAContext(records))
	require.NoError(t, err)
	assert.NotEmpty(t, ans.Text)
	assert.Greater(t, ans.Score, 0.0)
	t.Logf("answer: %q score=%.3f", ans.Text, ans.Score)
}
