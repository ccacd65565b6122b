package keys

import (
	"context"
	"crypto/rsa"
	"fmt"
	"net/http"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/lestrrat-go/jwx/jwk"

	"github.com/edgegate-dev/edgegate/pkg/identity"
	"github.com/edgegate-dev/edgegate/pkg/observability"
)

const (
	// DefaultTTL bounds how long a cached key document is trusted before
	// the next request refetches it. Provider key rotation therefore
	// becomes visible within this window.
	DefaultTTL = 10 * time.Minute

	// A gateway instance serves a single pool, so the cache bound only
	// matters for multi-tenant test rigs.
	maxCachedPools = 16
)

// Resolver fetches published signing key documents and caches them per
// user pool. A cache miss or an expired entry refetches the entire
// document; individual keys are never fetched or refreshed on their own.
type Resolver struct {
	client   *http.Client
	cache    *expirable.LRU[string, jwk.Set]
	endpoint func(region, poolID string) string
	logger   *observability.Logger
	metrics  *observability.Metrics
	otel     *observability.OTelMetrics
}

type options struct {
	client   *http.Client
	ttl      time.Duration
	endpoint func(region, poolID string) string
	otel     *observability.OTelMetrics
}

// Option configures a Resolver
type Option func(*options)

// WithHTTPClient overrides the HTTP client used for key document fetches
func WithHTTPClient(client *http.Client) Option {
	return func(o *options) {
		o.client = client
	}
}

// WithTTL overrides how long fetched key documents stay cached
func WithTTL(ttl time.Duration) Option {
	return func(o *options) {
		o.ttl = ttl
	}
}

// WithEndpoint overrides the key document URL builder. Tests point this at
// a local server; production uses the provider URL derived from the pool.
func WithEndpoint(endpoint func(region, poolID string) string) Option {
	return func(o *options) {
		o.endpoint = endpoint
	}
}

// WithOTelMetrics attaches OpenTelemetry instruments to the resolver
func WithOTelMetrics(m *observability.OTelMetrics) Option {
	return func(o *options) {
		o.otel = m
	}
}

// NewResolver creates a resolver with a bounded expiring cache.
// metrics may be nil.
func NewResolver(logger *observability.Logger, metrics *observability.Metrics, opts ...Option) *Resolver {
	o := options{
		client:   &http.Client{Timeout: 5 * time.Second},
		ttl:      DefaultTTL,
		endpoint: identity.JWKSURL,
	}
	for _, opt := range opts {
		opt(&o)
	}

	return &Resolver{
		client:   o.client,
		cache:    expirable.NewLRU[string, jwk.Set](maxCachedPools, nil, o.ttl),
		endpoint: o.endpoint,
		logger:   logger,
		metrics:  metrics,
		otel:     o.otel,
	}
}

// ResolveKey returns the RSA public key with the given key ID for a user
// pool. The pool coordinates come from the loaded identity config, never
// from token claims, so a token cannot steer verification toward a foreign
// pool's keys.
func (r *Resolver) ResolveKey(ctx context.Context, region, poolID, kid string) (*rsa.PublicKey, error) {
	set, err := r.keySet(ctx, region, poolID)
	if err != nil {
		return nil, err
	}

	key, ok := set.LookupKeyID(kid)
	if !ok {
		return nil, fmt.Errorf("%w: no key with id %q", ErrKeyNotFound, kid)
	}

	var pub rsa.PublicKey
	if err := key.Raw(&pub); err != nil {
		return nil, fmt.Errorf("%w: key %q is not an RSA public key: %v", ErrKeyNotFound, kid, err)
	}
	return &pub, nil
}

func (r *Resolver) keySet(ctx context.Context, region, poolID string) (jwk.Set, error) {
	cacheKey := region + "/" + poolID
	if set, ok := r.cache.Get(cacheKey); ok {
		r.countCacheHit(ctx)
		return set, nil
	}
	r.countCacheMiss(ctx)

	url := r.endpoint(region, poolID)
	start := time.Now()
	set, err := jwk.Fetch(ctx, url, jwk.WithHTTPClient(r.client))
	if err != nil {
		r.countFetch(ctx, "error", time.Since(start))
		return nil, fmt.Errorf("%w: %v", ErrKeyFetchFailed, err)
	}
	r.countFetch(ctx, "success", time.Since(start))

	r.cache.Add(cacheKey, set)
	r.logger.WithFields(map[string]interface{}{
		"region":  region,
		"pool_id": poolID,
		"keys":    set.Len(),
	}).Info("Signing key document fetched")

	return set, nil
}

func (r *Resolver) countCacheHit(ctx context.Context) {
	if r.metrics != nil {
		r.metrics.KeyCacheHitsTotal.Inc()
	}
	r.otel.RecordKeyCacheHit(ctx)
}

func (r *Resolver) countCacheMiss(ctx context.Context) {
	if r.metrics != nil {
		r.metrics.KeyCacheMissesTotal.Inc()
	}
	r.otel.RecordKeyCacheMiss(ctx)
}

func (r *Resolver) countFetch(ctx context.Context, status string, elapsed time.Duration) {
	if r.metrics != nil {
		r.metrics.KeySetFetchesTotal.WithLabelValues(status).Inc()
		r.metrics.KeySetFetchDuration.Observe(elapsed.Seconds())
	}
	r.otel.RecordKeySetFetch(ctx, status, elapsed)
}
