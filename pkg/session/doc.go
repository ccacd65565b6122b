// Package session extracts and verifies the browser session tokens that
// authenticate viewers at the edge.
//
// A session is a signed identity token stored in a cookie named
// <prefix>.<clientId>.idToken. TokenFromCookies pulls the raw token out of
// the viewer's Cookie headers; Verifier checks its signature against the
// pool's published keys and then its claims against the loaded identity
// config. Every expectation (issuer, audience, signing keys) derives from
// the config, never from the token, and the signature is always checked
// before any claim.
//
// Verification failures split into two classes. Recoverable failures are
// properties of the presented token (missing, malformed, expired, bad
// signature, wrong audience) and send the viewer back through login.
// Infrastructure failures (key document unreachable, config unavailable)
// are not recoverable and surface as errors instead, since redirecting
// could never produce a token that verifies. IsRecoverable tells the two
// apart.
package session
