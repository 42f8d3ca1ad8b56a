// Package kafka publishes forecast reports to a Kafka topic.
package kafka

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/couchcryptid/climate-canvas/internal/config"
	"github.com/couchcryptid/climate-canvas/internal/domain"
	"github.com/couchcryptid/climate-canvas/internal/observability"
	kafkago "github.com/segmentio/kafka-go"
)

// Publisher produces forecast reports to a Kafka topic.
// It implements dashboard.ForecastPublisher.
type Publisher struct {
	writer  *kafkago.Writer
	metrics *observability.Metrics
	logger  *slog.Logger
}

// NewPublisher creates a Kafka producer for the configured forecast topic.
func NewPublisher(cfg *config.Config, metrics *observability.Metrics, logger *slog.Logger) *Publisher {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.KafkaBrokers...),
		Topic:        cfg.KafkaForecastTopic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
		BatchTimeout: 50 * time.Millisecond,
	}
	return &Publisher{writer: w, metrics: metrics, logger: logger}
}

// PublishForecast serializes report and writes it as a single message.
func (p *Publisher) PublishForecast(ctx context.Context, report domain.ForecastReport) error {
	msg, err := serializeToMessage(report)
	if err != nil {
		p.metrics.PublishErrors.Inc()
		return err
	}
	if err := p.writer.WriteMessages(ctx, msg); err != nil {
		p.metrics.PublishErrors.Inc()
		return fmt.Errorf("publish forecast: %w", err)
	}
	p.metrics.ForecastsPublished.Inc()
	p.logger.Debug("forecast published", "topic", p.writer.Topic, "key", string(msg.Key), "points", len(report.Points))
	return nil
}

func (p *Publisher) Close() error {
	return p.writer.Close()
}

// messageKey groups reports generated from the same series parameters.
func messageKey(params domain.GeneratorParams) string {
	return fmt.Sprintf("%d-%d-%d", params.Seed, params.StartYear, params.EndYear)
}

// serializeToMessage marshals a ForecastReport into a Kafka message.
func serializeToMessage(report domain.ForecastReport) (kafkago.Message, error) {
	data, err := json.Marshal(report)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize forecast report: %w", err)
	}
	return kafkago.Message{
		Key:   []byte(messageKey(report.Params)),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "horizon", Value: []byte(strconv.Itoa(len(report.Points)))},
			{Key: "generated_at", Value: []byte(report.GeneratedAt.Format(time.RFC3339))},
		},
	}, nil
}
