// Package openai summarizes through any OpenAI-compatible chat completions
// endpoint. It is an alternative to the Hugging Face summarization model and
// never answers questions.
package openai

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/couchcryptid/climate-canvas/internal/domain"
	"github.com/couchcryptid/climate-canvas/internal/observability"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

const systemPrompt = "You summarize climate indicator trends for a dashboard. " +
	"Answer in at most four sentences of plain prose. Do not invent figures that are not in the request."

// Summarizer implements domain.Summarizer with a chat completion model.
type Summarizer struct {
	client  openai.Client
	model   string
	metrics *observability.Metrics
	logger  *slog.Logger
}

// Options selects the endpoint and model.
type Options struct {
	APIKey     string
	BaseURL    string
	Model      string
	Timeout    time.Duration
	MaxRetries int
}

// NewSummarizer creates a chat-completions summarizer.
func NewSummarizer(opts Options, metrics *observability.Metrics, logger *slog.Logger) *Summarizer {
	reqOpts := []option.RequestOption{
		option.WithAPIKey(opts.APIKey),
		option.WithMaxRetries(opts.MaxRetries),
	}
	if opts.BaseURL != "" {
		reqOpts = append(reqOpts, option.WithBaseURL(opts.BaseURL))
	}
	if opts.Timeout > 0 {
		reqOpts = append(reqOpts, option.WithRequestTimeout(opts.Timeout))
	}
	return &Summarizer{
		client:  openai.NewClient(reqOpts...),
		model:   opts.Model,
		metrics: metrics,
		logger:  logger,
	}
}

// Summarize sends prompt as the user message and returns the first choice.
func (s *Summarizer) Summarize(ctx context.Context, prompt string) (string, error) {
	start := time.Now()
	chat, err := s.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(prompt),
		},
		Model: openai.ChatModel(s.model),
	})
	s.metrics.InferenceDuration.WithLabelValues("summarize").Observe(time.Since(start).Seconds())
	if err != nil {
		return "", s.fail(fmt.Errorf("%w: openai chat completion: %w", domain.ErrUpstream, err))
	}

	if len(chat.Choices) == 0 || strings.TrimSpace(chat.Choices[0].Message.Content) == "" {
		return "", s.fail(fmt.Errorf("%w: empty completion", domain.ErrUpstream))
	}
	s.metrics.InferenceRequests.WithLabelValues("summarize", "success").Inc()
	return strings.TrimSpace(chat.Choices[0].Message.Content), nil
}

func (s *Summarizer) fail(err error) error {
	s.metrics.InferenceRequests.WithLabelValues("summarize", "error").Inc()
	level := slog.LevelWarn
	if errors.Is(err, context.Canceled) {
		level = slog.LevelDebug
	}
	s.logger.Log(context.Background(), level, "summary completion failed", "model", s.model, "error", err)
	return err
}
