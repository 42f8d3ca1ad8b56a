package huggingface

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/couchcryptid/climate-canvas/internal/domain"
	"github.com/couchcryptid/climate-canvas/internal/observability"
)

// Summary length bounds passed to the summarization model, in tokens.
const (
	summaryMaxLength = 150
	summaryMinLength = 30
)

// maxErrorBody caps how much of a failed response is echoed into the error.
const maxErrorBody = 512

// Client implements domain.Summarizer and domain.QuestionAnswerer using the
// Hugging Face Inference API.
type Client struct {
	token        string
	httpClient   *http.Client
	baseURL      string
	summaryModel string
	qaModel      string
	metrics      *observability.Metrics
	logger       *slog.Logger
}

// Options selects the endpoint and models.
type Options struct {
	Token        string
	BaseURL      string
	SummaryModel string
	QAModel      string
	Timeout      time.Duration
}

// NewClient creates a Hugging Face inference client.
func NewClient(opts Options, metrics *observability.Metrics, logger *slog.Logger) *Client {
	return &Client{
		token: opts.Token,
		httpClient: &http.Client{
			Timeout: opts.Timeout,
		},
		baseURL:      strings.TrimRight(opts.BaseURL, "/"),
		summaryModel: opts.SummaryModel,
		qaModel:      opts.QAModel,
		metrics:      metrics,
		logger:       logger,
	}
}

// Summarize asks the summarization model for a short summary of prompt.
func (c *Client) Summarize(ctx context.Context, prompt string) (string, error) {
	payload := summaryRequest{
		Inputs:     prompt,
		Parameters: summaryParameters{MaxLength: summaryMaxLength, MinLength: summaryMinLength},
	}

	var resp []summaryResponse
	if err := c.post(ctx, "summarize", c.summaryModel, payload, &resp); err != nil {
		return "", err
	}
	if len(resp) == 0 || strings.TrimSpace(resp[0].SummaryText) == "" {
		c.metrics.InferenceRequests.WithLabelValues("summarize", "error").Inc()
		return "", fmt.Errorf("%w: empty summary", domain.ErrUpstream)
	}
	c.metrics.InferenceRequests.WithLabelValues("summarize", "success").Inc()
	return strings.TrimSpace(resp[0].SummaryText), nil
}

// Answer asks the extractive QA model to answer question from passage.
func (c *Client) Answer(ctx context.Context, question, passage string) (domain.Answer, error) {
	payload := qaRequest{Inputs: qaInputs{Question: question, Context: passage}}

	var resp qaResponse
	if err := c.post(ctx, "answer", c.qaModel, payload, &resp); err != nil {
		return domain.Answer{}, err
	}
	c.metrics.InferenceRequests.WithLabelValues("answer", "success").Inc()
	return domain.Answer{Text: resp.Answer, Score: resp.Score}, nil
}

// post sends payload to the model endpoint and decodes the JSON response into
// out. Every failure wraps domain.ErrUpstream.
func (c *Client) post(ctx context.Context, task, model string, payload, out any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s request: %w", task, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/"+model, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	c.metrics.InferenceDuration.WithLabelValues(task).Observe(time.Since(start).Seconds())
	if err != nil {
		return c.fail(task, fmt.Errorf("%w: %s request: %w", domain.ErrUpstream, task, err))
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return c.fail(task, fmt.Errorf("%w: huggingface API error: status %d: %s", domain.ErrUpstream, resp.StatusCode, msg))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return c.fail(task, fmt.Errorf("%w: decode %s response: %w", domain.ErrUpstream, task, err))
	}
	return nil
}

func (c *Client) fail(task string, err error) error {
	c.metrics.InferenceRequests.WithLabelValues(task, "error").Inc()
	level := slog.LevelWarn
	if errors.Is(err, context.Canceled) {
		level = slog.LevelDebug
	}
	c.logger.Log(context.Background(), level, "inference request failed", "task", task, "error", err)
	return err
}

// Hugging Face API payload types.

type summaryRequest struct {
	Inputs     string            `json:"inputs"`
	Parameters summaryParameters `json:"parameters"`
}

type summaryParameters struct {
	MaxLength int `json:"max_length"`
	MinLength int `json:"min_length"`
}

type summaryResponse struct {
	SummaryText string `json:"summary_text"`
}

type qaRequest struct {
	Inputs qaInputs `json:"inputs"`
}

type qaInputs struct {
	Question string `json:"question"`
	Context  string `json:"context"`
}

type qaResponse struct {
	Answer string  `json:"answer"`
	Score  float64 `json:"score"`
	Start  int     `json:"start"`
	End    int     `json:"end"`
}
