// Package cache holds generated series keyed by the parameters that produced
// them, so repeated dashboard interactions do not regenerate identical data.
package cache

import (
	"github.com/couchcryptid/climate-canvas/internal/domain"
	"github.com/couchcryptid/climate-canvas/internal/observability"
)

// GenerateFunc produces a series for a parameter set.
type GenerateFunc func(domain.GeneratorParams) ([]domain.YearlyRecord, error)

// SeriesCache memoizes a GenerateFunc by parameter set.
type SeriesCache struct {
	generate GenerateFunc
	cache    *LRU[domain.GeneratorParams, []domain.YearlyRecord]
	metrics  *observability.Metrics
}

// NewSeriesCache wraps generate (usually domain.GenerateSeries) with a cache
// of at most maxEntries parameter sets.
func NewSeriesCache(generate GenerateFunc, maxEntries int, metrics *observability.Metrics) *SeriesCache {
	return &SeriesCache{
		generate: generate,
		cache:    NewLRU[domain.GeneratorParams, []domain.YearlyRecord](maxEntries),
		metrics:  metrics,
	}
}

// Series returns the series for p, generating it on a miss. The returned
// slice is a copy; cached data is never exposed for mutation.
func (c *SeriesCache) Series(p domain.GeneratorParams) ([]domain.YearlyRecord, error) {
	if records, ok := c.cache.Get(p); ok {
		c.metrics.SeriesCache.WithLabelValues("hit").Inc()
		return clone(records), nil
	}
	c.metrics.SeriesCache.WithLabelValues("miss").Inc()

	records, err := c.generate(p)
	if err != nil {
		return nil, err
	}
	c.metrics.SeriesGenerated.Inc()
	c.cache.Put(p, records)
	return clone(records), nil
}

// Invalidate drops the series for p so the next call regenerates it.
func (c *SeriesCache) Invalidate(p domain.GeneratorParams) {
	c.cache.Delete(p)
}

// Purge drops every cached series.
func (c *SeriesCache) Purge() {
	c.cache.Purge()
}

func clone(records []domain.YearlyRecord) []domain.YearlyRecord {
	return append([]domain.YearlyRecord(nil), records...)
}
