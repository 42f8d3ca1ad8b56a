package domain

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrAIUnavailable means no inference backend is configured.
	ErrAIUnavailable = errors.New("AI inference is not configured")

	// ErrUpstream wraps any failure of a remote inference endpoint:
	// transport errors, non-2xx statuses and malformed bodies.
	ErrUpstream = errors.New("inference endpoint failed")
)

// NoAnswerFallback is returned when the QA model produces no answer.
const NoAnswerFallback = "The AI could not find a specific answer in the provided context."

// Summarizer turns a prompt into a short summary.
type Summarizer interface {
	Summarize(ctx context.Context, prompt string) (string, error)
}

// Answer is the result of an extractive question-answering call.
type Answer struct {
	Text  string  `json:"answer"`
	Score float64 `json:"score"`
}

// QuestionAnswerer answers a question from a supplied context passage.
type QuestionAnswerer interface {
	Answer(ctx context.Context, question, passage string) (Answer, error)
}

// InsightKind distinguishes the two AI interactions.
type InsightKind string

const (
	InsightSummary InsightKind = "summary"
	InsightAnswer  InsightKind = "answer"
)

// ConfidenceLevel buckets a QA score for display.
type ConfidenceLevel string

const (
	ConfidenceHigh   ConfidenceLevel = "high"
	ConfidenceMedium ConfidenceLevel = "medium"
	ConfidenceLow    ConfidenceLevel = "low"
)

// ConfidenceFor maps a score to high (> 0.5), medium (> 0.1) or low.
func ConfidenceFor(score float64) ConfidenceLevel {
	switch {
	case score > 0.5:
		return ConfidenceHigh
	case score > 0.1:
		return ConfidenceMedium
	default:
		return ConfidenceLow
	}
}

// Insight is one completed AI interaction.
type Insight struct {
	ID         string          `json:"id"`
	Kind       InsightKind     `json:"kind"`
	Prompt     string          `json:"prompt"`
	Answer     string          `json:"answer"`
	Score      float64         `json:"score,omitempty"`
	Confidence ConfidenceLevel `json:"confidence,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

// InsightStore keeps a history of insights.
type InsightStore interface {
	SaveInsight(ctx context.Context, in Insight) error
	RecentInsights(ctx context.Context, limit int) ([]Insight, error)
}

// NewSummaryInsight stamps a summary with the current time.
func NewSummaryInsight(id, prompt, summary string) Insight {
	return Insight{
		ID:        id,
		Kind:      InsightSummary,
		Prompt:    prompt,
		Answer:    summary,
		CreatedAt: clock.Now().UTC(),
	}
}

// NewAnswerInsight stamps an answer with the current time, substituting the
// fallback text when the model returned nothing.
func NewAnswerInsight(id, question string, a Answer) Insight {
	text := strings.TrimSpace(a.Text)
	if text == "" {
		text = NoAnswerFallback
	}
	return Insight{
		ID:         id,
		Kind:       InsightAnswer,
		Prompt:     question,
		Answer:     text,
		Score:      a.Score,
		Confidence: ConfidenceFor(a.Score),
		CreatedAt:  clock.Now().UTC(),
	}
}

// SummaryPrompt builds the summarization prompt for the selected window.
func SummaryPrompt(window []YearlyRecord, from, to int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Provide a concise summary of the global temperature anomaly trend shown in the data between the years %d and %d.\n", from, to)
	b.WriteString("Focus on the overall pattern (e.g., increasing, decreasing, stable), any notable acceleration or deceleration, ")
	b.WriteString("and mention the approximate anomaly values at the start and end of the period based on the general trend.\n")
	b.WriteString("Context: The data represents global average temperature deviations from a baseline.")
	if len(window) > 0 {
		first, last := window[0], window[len(window)-1]
		fmt.Fprintf(&b, "\nExample data points: Start year %d anomaly might be around %.2f°C, end year %d anomaly might be around %.2f°C.",
			first.Year, first.TemperatureAnomaly, last.Year, last.TemperatureAnomaly)
	}
	return b.String()
}

const qaClosing = "The data generally shows warming temperatures, rising CO2, and rising sea levels throughout the period, especially accelerating in recent decades."

// QAContext describes the dataset for the question-answering model.
func QAContext(records []YearlyRecord) string {
	if len(records) == 0 {
		return "Basic climate indicators like temperature anomaly, CO2 levels, and sea level rise are tracked over time. " + qaClosing
	}

	s := summarize(records)
	parts := []string{
		fmt.Sprintf("The dataset covers the years %d to %d.", s.minYear, s.maxYear),
		fmt.Sprintf("Global temperature anomalies range roughly from %.2f°C to %.2f°C, showing a general increasing trend.", s.minTemp, s.maxTemp),
		fmt.Sprintf("Atmospheric CO2 levels range from approximately %d ppm to %d ppm, with a clear upward trend.", s.minCO2, s.maxCO2),
		fmt.Sprintf("Cumulative sea level rise ranges from %.1f mm to %.1f mm, also increasing over time.", s.minSea, s.maxSea),
		qaClosing,
	}
	return strings.Join(parts, " ")
}

type seriesStats struct {
	minYear, maxYear int
	minTemp, maxTemp float64
	minCO2, maxCO2   int
	minSea, maxSea   float64
}

func summarize(records []YearlyRecord) seriesStats {
	r0 := records[0]
	s := seriesStats{
		minYear: r0.Year, maxYear: r0.Year,
		minTemp: r0.TemperatureAnomaly, maxTemp: r0.TemperatureAnomaly,
		minCO2: r0.CO2PPM, maxCO2: r0.CO2PPM,
		minSea: r0.SeaLevelMM, maxSea: r0.SeaLevelMM,
	}
	for _, r := range records[1:] {
		s.minYear, s.maxYear = min(s.minYear, r.Year), max(s.maxYear, r.Year)
		s.minTemp, s.maxTemp = min(s.minTemp, r.TemperatureAnomaly), max(s.maxTemp, r.TemperatureAnomaly)
		s.minCO2, s.maxCO2 = min(s.minCO2, r.CO2PPM), max(s.maxCO2, r.CO2PPM)
		s.minSea, s.maxSea = min(s.minSea, r.SeaLevelMM), max(s.maxSea, r.SeaLevelMM)
	}
	return s
}
