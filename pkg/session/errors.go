package session

import (
	"errors"

	"github.com/edgegate-dev/edgegate/pkg/identity"
	"github.com/edgegate-dev/edgegate/pkg/keys"
)

var (
	// ErrNoToken means the viewer presented no session token cookie
	ErrNoToken = errors.New("no session token")

	// ErrInvalidTokenFormat means the presented value could not be parsed
	// as a token at all
	ErrInvalidTokenFormat = errors.New("invalid token format")

	// ErrUnknownKeyID means the token header names no usable signing key
	ErrUnknownKeyID = errors.New("token names no usable signing key")

	// ErrSignatureInvalid means the token signature did not verify
	ErrSignatureInvalid = errors.New("token signature invalid")

	// ErrClaimsInvalid means the signature verified but a claim check
	// failed (expiry, issuer, audience, or a missing email)
	ErrClaimsInvalid = errors.New("token claims invalid")
)

// IsRecoverable reports whether a verification failure should send the
// viewer back through login. Everything wrong with the presented token
// itself is recoverable. Infrastructure failures are not: without signing
// keys or identity config no token could ever verify, and bouncing the
// viewer to login would loop forever.
func IsRecoverable(err error) bool {
	switch {
	case errors.Is(err, keys.ErrKeyFetchFailed):
		return false
	case errors.Is(err, identity.ErrConfigUnavailable):
		return false
	case errors.Is(err, ErrNoToken),
		errors.Is(err, ErrInvalidTokenFormat),
		errors.Is(err, ErrUnknownKeyID),
		errors.Is(err, ErrSignatureInvalid),
		errors.Is(err, ErrClaimsInvalid),
		errors.Is(err, keys.ErrKeyNotFound):
		return true
	default:
		return false
	}
}
