package openai

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/couchcryptid/climate-canvas/internal/domain"
	"github.com/couchcryptid/climate-canvas/internal/observability"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSummarizer(baseURL string) *Summarizer {
	return NewSummarizer(Options{
		APIKey:  "sk-test",
		BaseURL: baseURL + "/",
		Model:   "gpt-4o-mini",
		Timeout: 5 * time.Second,
	}, observability.NewMetricsForTesting(), slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func completion(content string) map[string]any {
	return map[string]any{
		"id":      "chatcmpl-1",
		"object":  "chat.completion",
		"created": 1700000000,
		"model":   "gpt-4o-mini",
		"choices": []map[string]any{{
			"index":         0,
			"finish_reason": "stop",
			"message":       map[string]any{"role": "assistant", "content": content},
		}},
	}
}

func TestSummarizer_Success(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

		var body struct {
			Model    string `json:"model"`
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "gpt-4o-mini", body.Model)
		require.Len(t, body.Messages, 2)
		assert.Equal(t, "system", body.Messages[0].Role)
		assert.Equal(t, "user", body.Messages[1].Role)
		assert.Equal(t, "trend please", body.Messages[1].Content)

		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(completion(" Warming accelerated after 1980. ")))
	}))
	defer srv.Close()

	s := testSummarizer(srv.URL)
	got, err := s.Summarize(context.Background(), "trend please")
	require.NoError(t, err)
	assert.Equal(t, "Warming accelerated after 1980.", got)
	assert.InDelta(t, 1, testutil.ToFloat64(s.metrics.InferenceRequests.WithLabelValues("summarize", "success")), 0)
}

func TestSummarizer_EmptyCompletion(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(completion("")))
	}))
	defer srv.Close()

	_, err := testSummarizer(srv.URL).Summarize(context.Background(), "trend please")
	require.ErrorIs(t, err, domain.ErrUpstream)
}

func TestSummarizer_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"Incorrect API key provided","type":"invalid_request_error"}}`))
	}))
	defer srv.Close()

	s := testSummarizer(srv.URL)
	_, err := s.Summarize(context.Background(), "trend please")
	require.ErrorIs(t, err, domain.ErrUpstream)
	assert.InDelta(t, 1, testutil.ToFloat64(s.metrics.InferenceRequests.WithLabelValues("summarize", "error")), 0)
}
