package geodata

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/couchcryptid/climate-canvas/internal/domain"
	"github.com/couchcryptid/climate-canvas/internal/observability"
)

// Chain tries region sources in order. A source reporting
// domain.ErrSourceNotFound hands over to the next one; any other error
// stops the chain.
type Chain struct {
	sources []domain.RegionSource
	metrics *observability.Metrics
	logger  *slog.Logger
}

// NewChain creates a chain over sources, in priority order.
func NewChain(metrics *observability.Metrics, logger *slog.Logger, sources ...domain.RegionSource) *Chain {
	return &Chain{sources: sources, metrics: metrics, logger: logger}
}

// Load returns the first document found and the name of the source that
// supplied it.
func (c *Chain) Load(ctx context.Context) (string, []byte, error) {
	for _, src := range c.sources {
		data, err := src.Load(ctx)
		switch {
		case err == nil:
			c.metrics.RegionSourceLoads.WithLabelValues(src.Name(), "found").Inc()
			c.logger.Info("region data loaded", "source", src.Name(), "bytes", len(data))
			return src.Name(), data, nil
		case errors.Is(err, domain.ErrSourceNotFound):
			c.metrics.RegionSourceLoads.WithLabelValues(src.Name(), "not_found").Inc()
			c.logger.Debug("region source has no data", "source", src.Name())
		default:
			c.metrics.RegionSourceLoads.WithLabelValues(src.Name(), "error").Inc()
			c.logger.Warn("region source failed", "source", src.Name(), "error", err)
			return "", nil, fmt.Errorf("region source %s: %w", src.Name(), err)
		}
	}
	return "", nil, domain.ErrSourceNotFound
}
