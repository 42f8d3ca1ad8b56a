package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/couchcryptid/climate-canvas/internal/domain"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openMemory(t *testing.T) *Store {
	t.Helper()
	s, err := Open(MemoryPath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

var base = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func TestStore_SaveAndRecent(t *testing.T) {
	s := openMemory(t)
	ctx := context.Background()

	older := domain.Insight{
		ID: "a", Kind: domain.InsightSummary, Prompt: "summarize", Answer: "warming",
		CreatedAt: base,
	}
	newer := domain.Insight{
		ID: "b", Kind: domain.InsightAnswer, Prompt: "why?", Answer: "CO2",
		Score: 0.73, Confidence: domain.ConfidenceHigh, CreatedAt: base.Add(time.Minute),
	}
	require.NoError(t, s.SaveInsight(ctx, older))
	require.NoError(t, s.SaveInsight(ctx, newer))

	got, err := s.RecentInsights(ctx, 10)
	require.NoError(t, err)
	if diff := cmp.Diff([]domain.Insight{newer, older}, got); diff != "" {
		t.Errorf("RecentInsights mismatch (-want +got):\n%s", diff)
	}
}

func TestStore_Limit(t *testing.T) {
	s := openMemory(t)
	ctx := context.Background()
	for i, id := range []string{"a", "b", "c"} {
		require.NoError(t, s.SaveInsight(ctx, domain.Insight{
			ID: id, Kind: domain.InsightSummary, CreatedAt: base.Add(time.Duration(i) * time.Second),
		}))
	}

	got, err := s.RecentInsights(ctx, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "c", got[0].ID)
	assert.Equal(t, "b", got[1].ID)
}

func TestStore_ReplaceByID(t *testing.T) {
	s := openMemory(t)
	ctx := context.Background()
	require.NoError(t, s.SaveInsight(ctx, domain.Insight{ID: "a", Answer: "first", CreatedAt: base}))
	require.NoError(t, s.SaveInsight(ctx, domain.Insight{ID: "a", Answer: "second", CreatedAt: base}))

	got, err := s.RecentInsights(ctx, 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "second", got[0].Answer)
}

func TestStore_Empty(t *testing.T) {
	got, err := openMemory(t).RecentInsights(context.Background(), 5)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestStore_FilePersists(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "insights.db")
	ctx := context.Background()

	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.SaveInsight(ctx, domain.Insight{ID: "a", Kind: domain.InsightSummary, CreatedAt: base}))
	require.NoError(t, s.Close())

	s, err = Open(path)
	require.NoError(t, err)
	defer s.Close()
	require.NoError(t, s.Ping(ctx))

	got, err := s.RecentInsights(ctx, 10)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].ID)
}
