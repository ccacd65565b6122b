package identity

import (
	"context"
	"fmt"

	"github.com/coreos/go-oidc/v3/oidc"

	"github.com/edgegate-dev/edgegate/pkg/observability"
)

// discoveryDocument is the slice of the provider metadata worth checking
type discoveryDocument struct {
	JWKSURI string `json:"jwks_uri"`
}

// CheckDiscovery fetches the provider's published discovery document and
// compares its advertised endpoints against the ones derived from cfg.
// Mismatches are logged, never fatal: the derived endpoints stay
// authoritative for verification, and discovery is only a startup sanity
// check for deployments with outbound network access.
func CheckDiscovery(ctx context.Context, cfg *Config, logger *observability.Logger) error {
	provider, err := oidc.NewProvider(ctx, cfg.Issuer())
	if err != nil {
		return fmt.Errorf("failed to discover OIDC provider: %w", err)
	}

	var doc discoveryDocument
	if err := provider.Claims(&doc); err != nil {
		return fmt.Errorf("failed to decode discovery document: %w", err)
	}

	if doc.JWKSURI != "" && doc.JWKSURI != cfg.JWKSURL() {
		logger.WithFields(map[string]interface{}{
			"advertised": doc.JWKSURI,
			"derived":    cfg.JWKSURL(),
		}).Warn("Discovery document advertises a different jwks_uri")
	}

	authorizeURL := cfg.HostedUIBase() + "/oauth2/authorize"
	if advertised := provider.Endpoint().AuthURL; advertised != "" && advertised != authorizeURL {
		logger.WithFields(map[string]interface{}{
			"advertised": advertised,
			"derived":    authorizeURL,
		}).Warn("Discovery document advertises a different authorization endpoint")
	}

	return nil
}
