// Package dashboard composes the generator, forecaster, region map and AI
// collaborators into the operations served over HTTP and the CLI.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/couchcryptid/climate-canvas/internal/adapter/geodata"
	"github.com/couchcryptid/climate-canvas/internal/cache"
	"github.com/couchcryptid/climate-canvas/internal/domain"
	"github.com/couchcryptid/climate-canvas/internal/observability"
	"github.com/google/uuid"
)

// ErrEmptyQuestion is returned by Ask for a blank question.
var ErrEmptyQuestion = errors.New("question must not be empty")

const (
	defaultInsightLimit = 20
	maxInsightLimit     = 100
)

// ForecastPublisher ships forecast reports downstream.
type ForecastPublisher interface {
	PublishForecast(ctx context.Context, report domain.ForecastReport) error
}

// RegionLoader returns a GeoJSON document and the name of its source.
type RegionLoader interface {
	Load(ctx context.Context) (string, []byte, error)
}

// Deps are the collaborators of a Service. Summarizer, Answerer, Store and
// Publisher are optional.
type Deps struct {
	Series     *cache.SeriesCache
	Regions    RegionLoader
	Summarizer domain.Summarizer
	Answerer   domain.QuestionAnswerer
	Store      domain.InsightStore
	Publisher  ForecastPublisher
}

// Settings are the defaults applied when a request leaves a value unset.
type Settings struct {
	Params     domain.GeneratorParams
	Horizon    int
	CutoffYear int
	RegionSeed int64
}

// ForecastView is a fitted CO2 trend ready for display.
type ForecastView struct {
	Model  domain.LinearModel     `json:"model"`
	Points []domain.ForecastPoint `json:"points"`
	Rows   []domain.DisplayRow    `json:"rows"`
	Cutoff int                    `json:"cutoff_year"`
}

// RegionsView is the simulated regional anomaly map.
type RegionsView struct {
	Source  string          `json:"source"`
	Regions []domain.Region `json:"regions"`
	GeoJSON []byte          `json:"-"`
}

// Service implements the dashboard operations. Every call recomputes from
// the cached series; nothing else is shared between requests except the
// memoized region map.
type Service struct {
	deps     Deps
	settings Settings
	logger   *slog.Logger
	metrics  *observability.Metrics
	ready    atomic.Bool

	regionsMu sync.Mutex
	regions   *RegionsView
}

// New creates a Service.
func New(deps Deps, settings Settings, logger *slog.Logger, metrics *observability.Metrics) *Service {
	s := &Service{
		deps:     deps,
		settings: settings,
		logger:   logger,
		metrics:  metrics,
	}
	if s.AIEnabled() {
		metrics.AIEnabled.Set(1)
	} else {
		metrics.AIEnabled.Set(0)
	}
	return s
}

// Defaults returns the configured default settings.
func (s *Service) Defaults() Settings {
	return s.settings
}

// AIEnabled reports whether question answering is available.
func (s *Service) AIEnabled() bool {
	return s.deps.Answerer != nil
}

// Warm generates the default series so the first request is served from
// cache, and marks the service ready.
func (s *Service) Warm(_ context.Context) error {
	records, err := s.Series(s.settings.Params)
	if err != nil {
		return fmt.Errorf("generate default series: %w", err)
	}
	s.logger.Info("default series generated",
		"start_year", s.settings.Params.StartYear,
		"end_year", s.settings.Params.EndYear,
		"records", len(records),
	)
	return nil
}

// CheckReadiness returns nil once the default series has been generated.
func (s *Service) CheckReadiness(_ context.Context) error {
	if !s.ready.Load() {
		return errors.New("default series has not been generated yet")
	}
	return nil
}

// Series returns the records for p.
func (s *Service) Series(p domain.GeneratorParams) ([]domain.YearlyRecord, error) {
	records, err := s.deps.Series.Series(p)
	if err != nil {
		return nil, err
	}
	if p == s.settings.Params {
		s.ready.Store(true)
	}
	return records, nil
}

// Forecast fits the CO2 trend over the series for p, extrapolates horizon
// years and merges the result with history up to cutoff.
func (s *Service) Forecast(_ context.Context, p domain.GeneratorParams, horizon, cutoff int) (ForecastView, error) {
	records, err := s.Series(p)
	if err != nil {
		return ForecastView{}, err
	}

	points, model, err := domain.ForecastCO2(records, horizon)
	if err != nil {
		var fitErr *domain.FittingError
		if errors.As(err, &fitErr) {
			s.metrics.FittingErrors.Inc()
		}
		return ForecastView{}, err
	}
	s.metrics.ForecastsComputed.Inc()

	return ForecastView{
		Model:  model,
		Points: points,
		Rows:   domain.MergeForDisplay(records, cutoff, points),
		Cutoff: cutoff,
	}, nil
}

// PublishForecast sends a computed forecast to the configured publisher.
// Failures are logged and never reach the caller.
func (s *Service) PublishForecast(ctx context.Context, p domain.GeneratorParams, view ForecastView) {
	if s.deps.Publisher == nil {
		return
	}
	report := domain.NewForecastReport(p, view.Model, view.Points)
	if err := s.deps.Publisher.PublishForecast(ctx, report); err != nil {
		s.logger.Warn("forecast publish failed", "error", err)
	}
}

// Regions loads, simulates and renders the regional anomaly map. The first
// successful result is reused for the life of the service.
func (s *Service) Regions(ctx context.Context) (RegionsView, error) {
	s.regionsMu.Lock()
	defer s.regionsMu.Unlock()

	if s.regions != nil {
		return *s.regions, nil
	}

	source, data, err := s.deps.Regions.Load(ctx)
	if err != nil {
		return RegionsView{}, fmt.Errorf("load regions: %w", err)
	}
	m, err := geodata.ParseFeatures(data)
	if err != nil {
		return RegionsView{}, fmt.Errorf("parse regions from %s: %w", source, err)
	}
	regions := domain.SimulateRegionalAnomalies(m.Features, s.settings.RegionSeed)
	doc, err := m.Choropleth(regions)
	if err != nil {
		return RegionsView{}, err
	}

	s.regions = &RegionsView{Source: source, Regions: regions, GeoJSON: doc}
	s.logger.Info("regional map prepared", "source", source, "regions", len(regions))
	return *s.regions, nil
}

// Summarize asks the summarizer to describe the temperature trend between
// from and to.
func (s *Service) Summarize(ctx context.Context, p domain.GeneratorParams, from, to int) (domain.Insight, error) {
	if from > to {
		return domain.Insight{}, fmt.Errorf("%w: from %d after to %d", domain.ErrInvalidConfig, from, to)
	}
	if s.deps.Summarizer == nil {
		return domain.Insight{}, domain.ErrAIUnavailable
	}
	records, err := s.Series(p)
	if err != nil {
		return domain.Insight{}, err
	}

	prompt := domain.SummaryPrompt(domain.FilterYears(records, from, to), from, to)
	summary, err := s.deps.Summarizer.Summarize(ctx, prompt)
	if err != nil {
		return domain.Insight{}, err
	}

	in := domain.NewSummaryInsight(uuid.NewString(), prompt, summary)
	s.record(ctx, in)
	return in, nil
}

// Ask answers a free-text question about the series for p.
func (s *Service) Ask(ctx context.Context, p domain.GeneratorParams, question string) (domain.Insight, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return domain.Insight{}, ErrEmptyQuestion
	}
	if s.deps.Answerer == nil {
		return domain.Insight{}, domain.ErrAIUnavailable
	}
	records, err := s.Series(p)
	if err != nil {
		return domain.Insight{}, err
	}

	answer, err := s.deps.Answerer.Answer(ctx, question, domain.QAContext(records))
	if err != nil {
		return domain.Insight{}, err
	}

	in := domain.NewAnswerInsight(uuid.NewString(), question, answer)
	s.record(ctx, in)
	return in, nil
}

// Insights returns the most recent recorded insights. limit is clamped to
// [1, 100]; zero or negative selects the default of 20.
func (s *Service) Insights(ctx context.Context, limit int) ([]domain.Insight, error) {
	if s.deps.Store == nil {
		return []domain.Insight{}, nil
	}
	switch {
	case limit <= 0:
		limit = defaultInsightLimit
	case limit > maxInsightLimit:
		limit = maxInsightLimit
	}
	insights, err := s.deps.Store.RecentInsights(ctx, limit)
	if err != nil {
		return nil, err
	}
	if insights == nil {
		insights = []domain.Insight{}
	}
	return insights, nil
}

func (s *Service) record(ctx context.Context, in domain.Insight) {
	if s.deps.Store == nil {
		return
	}
	if err := s.deps.Store.SaveInsight(ctx, in); err != nil {
		s.logger.Warn("insight not recorded", "id", in.ID, "kind", in.Kind, "error", err)
	}
}
