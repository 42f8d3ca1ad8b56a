package cache

import (
	"errors"
	"testing"

	"github.com/couchcryptid/climate-canvas/internal/domain"
	"github.com/couchcryptid/climate-canvas/internal/observability"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- counting generator ---

type countingGenerator struct {
	calls int
	err   error
}

func (g *countingGenerator) generate(p domain.GeneratorParams) ([]domain.YearlyRecord, error) {
	g.calls++
	if g.err != nil {
		return nil, g.err
	}
	return domain.GenerateSeries(p)
}

func newTestCache(g *countingGenerator, size int) (*SeriesCache, *observability.Metrics) {
	m := observability.NewMetricsForTesting()
	return NewSeriesCache(g.generate, size, m), m
}

// --- SeriesCache tests ---

func TestSeriesCache_HitDoesNotRegenerate(t *testing.T) {
	g := &countingGenerator{}
	c, m := newTestCache(g, 4)
	p := domain.DefaultParams()

	first, err := c.Series(p)
	require.NoError(t, err)
	second, err := c.Series(p)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, g.calls, "should only generate once")
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SeriesCache.WithLabelValues("hit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SeriesCache.WithLabelValues("miss")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SeriesGenerated))
}

func TestSeriesCache_DifferentParamsMiss(t *testing.T) {
	g := &countingGenerator{}
	c, _ := newTestCache(g, 4)

	p := domain.DefaultParams()
	_, _ = c.Series(p)
	p.Seed = 99
	_, _ = c.Series(p)

	assert.Equal(t, 2, g.calls)
}

func TestSeriesCache_ReturnsCopies(t *testing.T) {
	g := &countingGenerator{}
	c, _ := newTestCache(g, 4)
	p := domain.DefaultParams()

	first, err := c.Series(p)
	require.NoError(t, err)
	original := first[0].CO2PPM
	first[0].CO2PPM = -1

	second, err := c.Series(p)
	require.NoError(t, err)
	assert.Equal(t, original, second[0].CO2PPM)
}

func TestSeriesCache_Invalidate(t *testing.T) {
	g := &countingGenerator{}
	c, _ := newTestCache(g, 4)
	p := domain.DefaultParams()

	_, _ = c.Series(p)
	c.Invalidate(p)
	_, _ = c.Series(p)

	assert.Equal(t, 2, g.calls)
}

func TestSeriesCache_Purge(t *testing.T) {
	g := &countingGenerator{}
	c, _ := newTestCache(g, 4)

	a := domain.DefaultParams()
	b := a
	b.Seed = 1
	_, _ = c.Series(a)
	_, _ = c.Series(b)
	c.Purge()
	_, _ = c.Series(a)
	_, _ = c.Series(b)

	assert.Equal(t, 4, g.calls)
}

func TestSeriesCache_ErrorsAreNotCached(t *testing.T) {
	g := &countingGenerator{err: errors.New("boom")}
	c, m := newTestCache(g, 4)
	p := domain.DefaultParams()

	_, err := c.Series(p)
	require.Error(t, err)
	_, err = c.Series(p)
	require.Error(t, err)

	assert.Equal(t, 2, g.calls)
	assert.Equal(t, 0.0, testutil.ToFloat64(m.SeriesGenerated))
}

func TestSeriesCache_InvalidParams(t *testing.T) {
	c, _ := newTestCache(&countingGenerator{}, 4)
	p := domain.DefaultParams()
	p.EndYear = p.StartYear - 1

	_, err := c.Series(p)
	require.ErrorIs(t, err, domain.ErrInvalidConfig)
}

// --- LRU unit tests ---

func TestLRU_BasicGetPut(t *testing.T) {
	c := NewLRU[string, int](3)

	c.Put("a", 1)
	c.Put("b", 2)

	v, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 1, v)

	_, ok = c.Get("missing")
	assert.False(t, ok)
	assert.Equal(t, 2, c.Len())
}

func TestLRU_Eviction(t *testing.T) {
	c := NewLRU[string, int](2)

	c.Put("a", 1)
	c.Put("b", 2)
	c.Put("c", 3) // evicts "a"

	_, ok := c.Get("a")
	assert.False(t, ok, "a should have been evicted")

	v, ok := c.Get("b")
	assert.True(t, ok)
	assert.Equal(t, 2, v)

	v, ok = c.Get("c")
	assert.True(t, ok)
	assert.Equal(t, 3, v)
}

func TestLRU_AccessPromotesEntry(t *testing.T) {
	c := NewLRU[string, int](2)

	c.Put("a", 1)
	c.Put("b", 2)

	c.Get("a")

	// "b" is now least recently used.
	c.Put("c", 3)

	_, ok := c.Get("a")
	assert.True(t, ok, "a was accessed recently, should not be evicted")

	_, ok = c.Get("b")
	assert.False(t, ok, "b should have been evicted")
}

func TestLRU_UpdateExisting(t *testing.T) {
	c := NewLRU[string, int](2)

	c.Put("a", 1)
	c.Put("a", 2)

	v, ok := c.Get("a")
	assert.True(t, ok)
	assert.Equal(t, 2, v)
	assert.Equal(t, 1, c.Len())
}

func TestLRU_Delete(t *testing.T) {
	c := NewLRU[string, int](3)
	c.Put("a", 1)
	c.Put("b", 2)
	c.Put("c", 3)

	assert.True(t, c.Delete("b"))
	assert.False(t, c.Delete("b"))

	// List stays consistent after unlinking a middle entry.
	c.Put("d", 4)
	c.Put("e", 5) // evicts "a"
	_, ok := c.Get("a")
	assert.False(t, ok)
	assert.Equal(t, 3, c.Len())
}

func TestLRU_NonPositiveCapacity(t *testing.T) {
	c := NewLRU[string, int](0)
	c.Put("a", 1)
	c.Put("b", 2)

	assert.Equal(t, 1, c.Len())
	_, ok := c.Get("b")
	assert.True(t, ok)
}
