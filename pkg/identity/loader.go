package identity

import (
	"context"
	"fmt"
	"sync"

	"github.com/edgegate-dev/edgegate/pkg/observability"
)

// Loader fetches the identity config and memoizes the first successful
// result for the lifetime of the process. Failures are never memoized, so
// the next caller retries the fetch. Two concurrent cold calls may both pay
// the round-trip; the writes commit identical data last-write-wins, which is
// the documented duplicate-work window rather than a correctness problem.
type Loader struct {
	source  Source
	logger  *observability.Logger
	metrics *observability.Metrics
	otel    *observability.OTelMetrics

	mu     sync.RWMutex
	cached *Config
}

// NewLoader creates a loader over the given source. metrics may be nil.
func NewLoader(source Source, logger *observability.Logger, metrics *observability.Metrics) *Loader {
	return &Loader{
		source:  source,
		logger:  logger,
		metrics: metrics,
	}
}

// WithOTel attaches OpenTelemetry instruments to the loader
func (l *Loader) WithOTel(m *observability.OTelMetrics) *Loader {
	l.otel = m
	return l
}

// Load returns the identity config, fetching it on first use
func (l *Loader) Load(ctx context.Context) (*Config, error) {
	l.mu.RLock()
	cached := l.cached
	l.mu.RUnlock()
	if cached != nil {
		return cached, nil
	}

	data, err := l.source.Fetch(ctx)
	if err != nil {
		l.countLoad(ctx, "error")
		return nil, fmt.Errorf("%w: %v", ErrConfigUnavailable, err)
	}

	cfg, err := ParseConfig(data)
	if err != nil {
		l.countLoad(ctx, "error")
		return nil, fmt.Errorf("%w: %v", ErrConfigUnavailable, err)
	}

	l.mu.Lock()
	l.cached = cfg
	l.mu.Unlock()

	l.countLoad(ctx, "success")
	l.logger.WithFields(map[string]interface{}{
		"source":  l.source.Name(),
		"region":  cfg.Region,
		"pool_id": cfg.PoolID,
	}).Info("Identity config loaded")

	return cfg, nil
}

// Invalidate clears the memoized config so the next Load refetches
func (l *Loader) Invalidate() {
	l.mu.Lock()
	l.cached = nil
	l.mu.Unlock()
}

// Probe implements observability.Prober. Readiness probes warm the memo, so
// a pod only reports ready once the identity source has answered.
func (l *Loader) Probe(ctx context.Context) error {
	_, err := l.Load(ctx)
	return err
}

func (l *Loader) countLoad(ctx context.Context, status string) {
	if l.metrics != nil {
		l.metrics.ConfigLoadsTotal.WithLabelValues(l.source.Name(), status).Inc()
	}
	l.otel.RecordConfigLoad(ctx, l.source.Name(), status)
}
