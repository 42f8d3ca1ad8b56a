//go:build integration

package integration_test

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/couchcryptid/climate-canvas/internal/adapter/geodata"
	"github.com/couchcryptid/climate-canvas/internal/adapter/kafka"
	"github.com/couchcryptid/climate-canvas/internal/cache"
	"github.com/couchcryptid/climate-canvas/internal/config"
	"github.com/couchcryptid/climate-canvas/internal/dashboard"
	"github.com/couchcryptid/climate-canvas/internal/domain"
	"github.com/couchcryptid/climate-canvas/internal/observability"
	"github.com/prometheus/client_golang/prometheus/testutil"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testForecastTopic = "test-climate-forecasts"

// TestForecastPublishedToKafka runs a forecast through the dashboard service
// and reads the published report back from the topic.
func TestForecastPublishedToKafka(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	broker := startKafka(ctx, t)
	createTopic(t, broker, testForecastTopic)

	cfg := &config.Config{
		KafkaBrokers:       []string{broker},
		KafkaForecastTopic: testForecastTopic,
		KafkaEnabled:       true,
	}
	metrics := observability.NewMetricsForTesting()
	publisher := kafka.NewPublisher(cfg, metrics, discardLogger())
	t.Cleanup(func() { _ = publisher.Close() })

	svc := dashboard.New(dashboard.Deps{
		Series:    cache.NewSeriesCache(domain.GenerateSeries, 4, metrics),
		Regions:   geodata.NewChain(metrics, discardLogger(), geodata.EmbeddedSource{}),
		Publisher: publisher,
	}, dashboard.Settings{Params: domain.DefaultParams(), Horizon: 10, CutoffYear: 2000, RegionSeed: 42},
		discardLogger(), metrics)

	view, err := svc.Forecast(ctx, domain.DefaultParams(), 10, 2000)
	require.NoError(t, err)
	svc.PublishForecast(ctx, domain.DefaultParams(), view)
	assert.InDelta(t, 1, testutil.ToFloat64(metrics.ForecastsPublished), 0)

	consumer := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     []string{broker},
		Topic:       testForecastTopic,
		GroupID:     fmt.Sprintf("test-consumer-%d", time.Now().UnixNano()),
		StartOffset: kafkago.FirstOffset,
	})
	t.Cleanup(func() { _ = consumer.Close() })

	readCtx, readCancel := context.WithTimeout(ctx, 30*time.Second)
	defer readCancel()
	msg, err := consumer.ReadMessage(readCtx)
	require.NoError(t, err, "read from forecast topic")

	assert.Equal(t, "42-1900-2023", string(msg.Key))
	headers := make(map[string]string, len(msg.Headers))
	for _, h := range msg.Headers {
		headers[h.Key] = string(h.Value)
	}
	assert.Equal(t, "10", headers["horizon"])
	assert.NotEmpty(t, headers["generated_at"])

	var report domain.ForecastReport
	require.NoError(t, json.Unmarshal(msg.Value, &report))
	assert.Equal(t, domain.DefaultParams(), report.Params)
	assert.Equal(t, view.Model, report.Model)
	assert.Equal(t, view.Points, report.Points)
}
