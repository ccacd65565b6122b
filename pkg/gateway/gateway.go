package gateway

import (
	"context"
	"strings"
	"time"

	"github.com/edgegate-dev/edgegate/pkg/edge"
	"github.com/edgegate-dev/edgegate/pkg/identity"
	"github.com/edgegate-dev/edgegate/pkg/observability"
	"github.com/edgegate-dev/edgegate/pkg/session"
)

// Config fixes the routing surface of one gateway deployment. All paths
// are absolute and compared literally against the request URI.
type Config struct {
	// CallbackPath receives the browser coming back from hosted UI login.
	CallbackPath string

	// PublicPath is served without authentication, so the error page
	// stays reachable when sign-in itself is broken.
	PublicPath string

	// DefaultDocument is appended to directory paths before the auth
	// decision runs.
	DefaultDocument string

	// EmailHeader names the header carrying the verified subject email
	// to the origin.
	EmailHeader string

	// Scopes requested from the identity provider on login.
	Scopes []string

	// SessionDuration is the validity window of the cookies written by
	// the callback page.
	SessionDuration time.Duration
}

// Gateway decides, per request, whether to forward toward the origin,
// redirect the viewer to login, or synthesize a response at the edge.
// Every outcome is decided in a single pass; there are no retries.
type Gateway struct {
	cfg      Config
	loader   *identity.Loader
	verifier *session.Verifier
	logger   *observability.Logger
	metrics  *observability.Metrics
	otel     *observability.OTelMetrics
	routes   []route
}

// New creates a gateway. metrics may be nil.
func New(cfg Config, loader *identity.Loader, verifier *session.Verifier, logger *observability.Logger, metrics *observability.Metrics) *Gateway {
	g := &Gateway{
		cfg:      cfg,
		loader:   loader,
		verifier: verifier,
		logger:   logger,
		metrics:  metrics,
	}
	g.routes = g.buildRoutes()
	return g
}

// WithOTel attaches OpenTelemetry instruments to the gateway
func (g *Gateway) WithOTel(m *observability.OTelMetrics) *Gateway {
	g.otel = m
	return g
}

// Handle runs one request through the decision procedure. A returned error
// is fatal: the caller surfaces it as a generic server error without
// retrying, and nothing about the failure reaches the viewer.
func (g *Gateway) Handle(ctx context.Context, req *edge.Request) (*edge.Result, error) {
	start := time.Now()

	result, outcome, err := g.decide(ctx, req)
	elapsed := time.Since(start)
	if err != nil {
		g.observe(ctx, observability.OutcomeFatal, elapsed)
		return nil, err
	}

	g.observe(ctx, outcome, elapsed)
	return result, nil
}

func (g *Gateway) authorize(ctx context.Context, req *edge.Request) (*edge.Result, string, error) {
	// Directory requests resolve to the default document before the auth
	// decision, so the attached header and the origin fetch agree on the
	// final path.
	if strings.HasSuffix(req.URI, "/") {
		req.URI += g.cfg.DefaultDocument
	}

	cfg, err := g.loader.Load(ctx)
	if err != nil {
		return nil, "", err
	}

	logger := observability.UpdateLoggerWithTraceContext(ctx, g.logger)
	if id := observability.GetRequestID(ctx); id != "" {
		logger = logger.WithField("request_id", id)
	}

	raw, ok := session.TokenFromCookies(req.Headers.Values("cookie"), session.IDTokenCookie(cfg.ClientID))
	if !ok || raw == "" {
		logger.WithField("uri", req.URI).Debug("No session token, redirecting to login")
		return edge.Respond(g.loginRedirect(req, cfg)), observability.OutcomeRedirect, nil
	}

	claims, err := g.verifier.Verify(ctx, raw, cfg)
	if err != nil {
		if session.IsRecoverable(err) {
			// Same redirect as the no-token case: the viewer never
			// learns why their token was rejected.
			logger.WithField("uri", req.URI).WithError(err).Debug("Session token rejected, redirecting to login")
			return edge.Respond(g.loginRedirect(req, cfg)), observability.OutcomeRedirect, nil
		}
		return nil, "", err
	}

	req.Headers.Set(g.cfg.EmailHeader, claims.Email)
	return edge.Continue(req), observability.OutcomeForward, nil
}

func (g *Gateway) observe(ctx context.Context, outcome string, elapsed time.Duration) {
	if g.metrics != nil {
		g.metrics.ObserveDecision(outcome, elapsed)
	}
	g.otel.RecordDecision(ctx, outcome, elapsed)
}
