package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// OTelMetrics holds OpenTelemetry metric instruments. They mirror the
// Prometheus set for deployments that export through the collector instead
// of being scraped. Every Record method is safe to call on a nil receiver.
type OTelMetrics struct {
	decisionsTotal   metric.Int64Counter
	decisionDuration metric.Float64Histogram

	configLoadsTotal metric.Int64Counter

	keySetFetchesTotal  metric.Int64Counter
	keySetFetchDuration metric.Float64Histogram
	keyCacheHitsTotal   metric.Int64Counter
	keyCacheMissesTotal metric.Int64Counter
}

// NewOTelMetrics creates a new OTel metrics instance
func NewOTelMetrics() (*OTelMetrics, error) {
	meter := otel.Meter("github.com/edgegate-dev/edgegate")

	m := &OTelMetrics{}
	var err error

	m.decisionsTotal, err = meter.Int64Counter(
		"edgegate.decisions",
		metric.WithDescription("Total number of gateway decisions"),
		metric.WithUnit("{decision}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create decisions counter: %w", err)
	}

	m.decisionDuration, err = meter.Float64Histogram(
		"edgegate.decision.duration",
		metric.WithDescription("Gateway decision duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create decision duration histogram: %w", err)
	}

	m.configLoadsTotal, err = meter.Int64Counter(
		"edgegate.config.loads",
		metric.WithDescription("Total number of identity config loads"),
		metric.WithUnit("{load}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create config loads counter: %w", err)
	}

	m.keySetFetchesTotal, err = meter.Int64Counter(
		"edgegate.keyset.fetches",
		metric.WithDescription("Total number of signing key document fetches"),
		metric.WithUnit("{fetch}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create keyset fetches counter: %w", err)
	}

	m.keySetFetchDuration, err = meter.Float64Histogram(
		"edgegate.keyset.fetch.duration",
		metric.WithDescription("Signing key document fetch duration in seconds"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create keyset fetch duration histogram: %w", err)
	}

	m.keyCacheHitsTotal, err = meter.Int64Counter(
		"edgegate.key.cache.hits",
		metric.WithDescription("Total number of signing key cache hits"),
		metric.WithUnit("{hit}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create key cache hits counter: %w", err)
	}

	m.keyCacheMissesTotal, err = meter.Int64Counter(
		"edgegate.key.cache.misses",
		metric.WithDescription("Total number of signing key cache misses"),
		metric.WithUnit("{miss}"),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create key cache misses counter: %w", err)
	}

	return m, nil
}

// RecordDecision records a gateway decision with its outcome
func (m *OTelMetrics) RecordDecision(ctx context.Context, outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("outcome", outcome))
	m.decisionsTotal.Add(ctx, 1, attrs)
	m.decisionDuration.Record(ctx, duration.Seconds(), attrs)
}

// RecordConfigLoad records an identity config load attempt
func (m *OTelMetrics) RecordConfigLoad(ctx context.Context, source, status string) {
	if m == nil {
		return
	}
	m.configLoadsTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("source", source),
		attribute.String("status", status),
	))
}

// RecordKeySetFetch records a signing key document fetch
func (m *OTelMetrics) RecordKeySetFetch(ctx context.Context, status string, duration time.Duration) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String("status", status))
	m.keySetFetchesTotal.Add(ctx, 1, attrs)
	m.keySetFetchDuration.Record(ctx, duration.Seconds(), attrs)
}

// RecordKeyCacheHit records a signing key cache hit
func (m *OTelMetrics) RecordKeyCacheHit(ctx context.Context) {
	if m == nil {
		return
	}
	m.keyCacheHitsTotal.Add(ctx, 1)
}

// RecordKeyCacheMiss records a signing key cache miss
func (m *OTelMetrics) RecordKeyCacheMiss(ctx context.Context) {
	if m == nil {
		return
	}
	m.keyCacheMissesTotal.Add(ctx, 1)
}
