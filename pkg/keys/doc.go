// Package keys resolves the RSA public keys that session tokens are
// signed with.
//
// The identity provider publishes its signing keys as a JWKS document at a
// well-known URL derived from the pool's region and ID. Resolver fetches
// that document, caches it with a bounded TTL, and looks individual keys up
// by key ID. When a token names a key ID the cached document does not
// contain, the lookup fails and the request is sent back through login;
// the document is refetched only when the cache entry expires, so a key
// rotation is picked up within one TTL window.
package keys
