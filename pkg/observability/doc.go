// Package observability provides structured logging, Prometheus metrics, and OpenTelemetry tracing.
//
// # Overview
//
// This package centralizes observability infrastructure for both deployment
// surfaces of the gateway: JSON logging, decision metrics, health checks,
// graceful shutdown, and optional OTLP export.
//
// # Structured Logging
//
// Create logger:
//
//	logger := observability.NewLogger(observability.InfoLevel, os.Stdout)
//	logger.WithField("path", req.URI).Info("redirecting to login")
//
// Request-scoped fields travel through the context:
//
//	ctx = observability.WithRequestID(ctx, cfConf.RequestID)
//	observability.FromContext(ctx).Warn("token rejected")
//
// # Prometheus Metrics
//
// Initialize metrics against a private registry:
//
//	registry := prometheus.NewRegistry()
//	metrics := observability.NewMetrics(registry)
//	metrics.DecisionsTotal.WithLabelValues(observability.OutcomeForward).Inc()
//
// In server mode the registry is exposed on the health listener:
//
//	observability.RegisterMetricsEndpoint(healthMux, registry)
//
// # Health Checks
//
// Readiness aggregates registered dependency probes; the identity config
// loader is the usual one:
//
//	checker := observability.NewHealthChecker()
//	checker.AddProbe("identity-config", loader)
//	observability.RegisterHealthRoutes(healthMux, checker)
//
// # OpenTelemetry
//
// Disabled by default. When enabled, trace and metric exporters share one
// gRPC connection to the collector:
//
//	providers, err := observability.InitOTel(ctx, cfg.OTelConfig(), logger)
//	defer observability.ShutdownOTel(ctx, providers, logger)
//
// # Related Packages
//
//   - pkg/config: observability settings
//   - pkg/gateway: records decision metrics
package observability
