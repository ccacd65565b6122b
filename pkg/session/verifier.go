package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/edgegate-dev/edgegate/pkg/identity"
	"github.com/edgegate-dev/edgegate/pkg/keys"
	"github.com/edgegate-dev/edgegate/pkg/observability"
)

// Claims are the verified token claims the gateway acts on.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Verifier checks session tokens against the loaded identity config. The
// signature is verified before any claim is looked at, so claim errors are
// only ever reported for authentically signed tokens.
type Verifier struct {
	resolver *keys.Resolver
	parser   *jwt.Parser
	metrics  *observability.Metrics
}

// NewVerifier creates a verifier. Leeway widens the expiry check for
// clock-skewed deployments; zero is the norm since the gateway and the
// issuer share a time authority. metrics may be nil.
func NewVerifier(resolver *keys.Resolver, leeway time.Duration, metrics *observability.Metrics) *Verifier {
	return &Verifier{
		resolver: resolver,
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
			jwt.WithExpirationRequired(),
			jwt.WithLeeway(leeway),
		),
		metrics: metrics,
	}
}

// Verify parses and verifies a raw token. The expected issuer, audience,
// and signing keys all derive from cfg; nothing in the token steers which
// pool is consulted, so a token minted by a foreign pool can never verify.
func (v *Verifier) Verify(ctx context.Context, raw string, cfg *identity.Config) (*Claims, error) {
	claims := &Claims{}
	_, err := v.parser.ParseWithClaims(raw, claims, func(token *jwt.Token) (interface{}, error) {
		kid, ok := token.Header["kid"].(string)
		if !ok || kid == "" {
			return nil, ErrUnknownKeyID
		}
		return v.resolver.ResolveKey(ctx, cfg.Region, cfg.PoolID, kid)
	})
	if err != nil {
		return nil, v.reject(classify(err))
	}

	if claims.Issuer != cfg.Issuer() {
		return nil, v.reject(fmt.Errorf("%w: issuer mismatch", ErrClaimsInvalid))
	}
	if !audienceMatches(claims.Audience, cfg.ClientID) {
		return nil, v.reject(fmt.Errorf("%w: audience mismatch", ErrClaimsInvalid))
	}
	if claims.Email == "" {
		return nil, v.reject(fmt.Errorf("%w: email claim missing", ErrClaimsInvalid))
	}

	return claims, nil
}

func audienceMatches(audience jwt.ClaimStrings, clientID string) bool {
	for _, aud := range audience {
		if aud == clientID {
			return true
		}
	}
	return false
}

// classify maps parse errors onto the package sentinels. Resolver and
// keyfunc errors pass through untouched so callers can distinguish a
// missing key from an unreachable key document.
func classify(err error) error {
	switch {
	case errors.Is(err, ErrUnknownKeyID),
		errors.Is(err, keys.ErrKeyNotFound),
		errors.Is(err, keys.ErrKeyFetchFailed):
		return err
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return fmt.Errorf("%w: %v", ErrSignatureInvalid, err)
	case errors.Is(err, jwt.ErrTokenExpired),
		errors.Is(err, jwt.ErrTokenNotValidYet),
		errors.Is(err, jwt.ErrTokenUsedBeforeIssued),
		errors.Is(err, jwt.ErrTokenRequiredClaimMissing),
		errors.Is(err, jwt.ErrTokenInvalidClaims):
		return fmt.Errorf("%w: %v", ErrClaimsInvalid, err)
	default:
		return fmt.Errorf("%w: %v", ErrInvalidTokenFormat, err)
	}
}

func (v *Verifier) reject(err error) error {
	if v.metrics != nil {
		v.metrics.TokenRejectionsTotal.WithLabelValues(rejectionReason(err)).Inc()
	}
	return err
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, ErrSignatureInvalid):
		return "signature"
	case errors.Is(err, ErrClaimsInvalid):
		return "claims"
	case errors.Is(err, ErrUnknownKeyID), errors.Is(err, keys.ErrKeyNotFound):
		return "unknown_key"
	case errors.Is(err, keys.ErrKeyFetchFailed):
		return "key_fetch"
	default:
		return "format"
	}
}
