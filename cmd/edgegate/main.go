// Command edgegate runs the authentication gateway as a standalone reverse
// proxy. It fronts a single origin, applies the same request decisions as the
// edge deployment (cmd/edgegate-lambda), and serves health and metrics
// endpoints on a separate listener.
//
// All configuration comes from EDGEGATE_* environment variables; see
// pkg/config for the full list. EDGEGATE_ORIGIN_URL is required in this mode.
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/http/httputil"
	"net/url"
	"os"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/sync/errgroup"

	"github.com/edgegate-dev/edgegate/pkg/config"
	"github.com/edgegate-dev/edgegate/pkg/gateway"
	"github.com/edgegate-dev/edgegate/pkg/identity"
	"github.com/edgegate-dev/edgegate/pkg/keys"
	"github.com/edgegate-dev/edgegate/pkg/observability"
	"github.com/edgegate-dev/edgegate/pkg/session"
)

const warmLoadTimeout = 30 * time.Second

func main() {
	ctx := context.Background()

	// Load and validate configuration before the structured logger exists
	settings, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if settings.OriginURL == "" {
		log.Fatalf("EDGEGATE_ORIGIN_URL is required in server mode")
	}

	logger := observability.NewLogger(settings.LogLevel(), os.Stdout)
	logger.WithFields(map[string]interface{}{
		"tenant":        settings.Tenant,
		"config_source": settings.ConfigSource,
		"origin":        settings.OriginURL,
	}).Info("Starting edgegate")

	// Prometheus metrics
	registry := prometheus.NewRegistry()
	metrics := observability.NewMetrics(registry)

	// OpenTelemetry (optional; providers is nil when disabled)
	providers, err := observability.InitOTel(ctx, settings.OTel(), logger)
	if err != nil {
		logger.WithError(err).Error("Failed to initialize OpenTelemetry")
		os.Exit(1)
	}
	var otelMetrics *observability.OTelMetrics
	if providers != nil {
		otelMetrics, err = observability.NewOTelMetrics()
		if err != nil {
			logger.WithError(err).Error("Failed to create OpenTelemetry instruments")
			os.Exit(1)
		}
	}

	// Identity config source
	var source identity.Source
	switch {
	case settings.ConfigSource == "file":
		source = identity.NewFileSource(settings.IdentityFile)
	case settings.SSMEndpoint != "":
		source = identity.NewParameterStoreSourceLocal(settings.SSMEndpoint, settings.SSMRegion, settings.ParameterName())
	default:
		source, err = identity.NewParameterStoreSourceFromEnv(ctx, settings.ParameterName())
		if err != nil {
			logger.WithError(err).Error("Failed to initialize parameter store client")
			os.Exit(1)
		}
	}

	// Decision pipeline: config loader, key resolver, token verifier, gateway
	loader := identity.NewLoader(source, logger, metrics).WithOTel(otelMetrics)
	resolver := keys.NewResolver(logger, metrics,
		keys.WithTTL(settings.JWKSTTL),
		keys.WithOTelMetrics(otelMetrics),
	)
	verifier := session.NewVerifier(resolver, settings.VerifyLeeway, metrics)
	gw := gateway.New(gateway.Config{
		CallbackPath:    settings.CallbackPath,
		PublicPath:      settings.PublicPath,
		DefaultDocument: settings.DefaultDocument,
		EmailHeader:     settings.EmailHeader,
		Scopes:          settings.Scopes,
		SessionDuration: settings.SessionDuration,
	}, loader, verifier, logger, metrics).WithOTel(otelMetrics)

	// Origin proxy behind the gateway middleware. Settings validation already
	// checked the URL, so a parse failure here is a programming error.
	origin, err := url.Parse(settings.OriginURL)
	if err != nil {
		logger.WithError(err).Error("Failed to parse origin URL")
		os.Exit(1)
	}
	proxy := httputil.NewSingleHostReverseProxy(origin)

	router := mux.NewRouter()
	router.PathPrefix("/").Handler(gw.Middleware(proxy))

	var handler http.Handler = router
	handler = observability.HTTPMetricsMiddleware(metrics)(handler)
	if providers != nil {
		handler = otelhttp.NewHandler(handler, "edgegate")
	}

	server := &http.Server{
		Addr:         settings.ListenAddr(),
		Handler:      handler,
		ReadTimeout:  settings.ReadTimeout,
		WriteTimeout: settings.WriteTimeout,
		IdleTimeout:  settings.IdleTimeout,
	}

	// Health and metrics on a separate listener so probes and scrapes never
	// pass through the auth pipeline
	checker := observability.NewHealthChecker()
	checker.AddProbe("identity-config", loader)
	healthMux := http.NewServeMux()
	observability.RegisterHealthRoutes(healthMux, checker)
	if settings.MetricsEnabled {
		observability.RegisterMetricsEndpoint(healthMux, registry)
	}
	healthServer := &http.Server{
		Addr:    settings.HealthAddr(),
		Handler: healthMux,
	}

	g, gctx := errgroup.WithContext(ctx)

	// Warm the identity config and cross-check the provider's discovery
	// document without blocking startup. Both are advisory; the first real
	// request loads the config if this fails.
	g.Go(func() error {
		defer observability.RecoverPanic(logger, "identity config warm load")
		warmCtx, cancel := context.WithTimeout(gctx, warmLoadTimeout)
		defer cancel()
		cfg, err := loader.Load(warmCtx)
		if err != nil {
			logger.WithError(err).Warn("Identity config warm load failed")
			return nil
		}
		if err := identity.CheckDiscovery(warmCtx, cfg, logger); err != nil {
			logger.WithError(err).Warn("OIDC discovery check failed")
		}
		return nil
	})

	// Pick up identity config edits without a restart in file mode
	if fs, ok := source.(*identity.FileSource); ok {
		g.Go(func() error {
			err := identity.WatchFile(gctx, fs.Path(), loader, logger)
			if err != nil && !errors.Is(err, context.Canceled) {
				logger.WithError(err).Warn("Identity file watcher stopped")
			}
			return nil
		})
	}

	g.Go(func() error {
		logger.WithField("addr", server.Addr).Info("Gateway listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("gateway listener: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		logger.WithField("addr", healthServer.Addr).Info("Health endpoints listening")
		if err := healthServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("health listener: %w", err)
		}
		return nil
	})

	shutdown := observability.NewShutdownManager(logger, server, settings.ShutdownTimeout)
	shutdown.RegisterShutdownFunc(func(sctx context.Context) error {
		return healthServer.Shutdown(sctx)
	})
	if providers != nil {
		shutdown.RegisterShutdownFunc(func(sctx context.Context) error {
			return observability.ShutdownOTel(sctx, providers, logger)
		})
	}
	g.Go(func() error {
		return shutdown.WaitForShutdown(gctx)
	})

	if err := g.Wait(); err != nil {
		logger.WithError(err).Error("Gateway exited with error")
		os.Exit(1)
	}
	logger.Info("Gateway stopped")
}
