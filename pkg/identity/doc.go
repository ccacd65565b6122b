// Package identity loads and memoizes the per-tenant identity provider
// configuration that drives every authentication decision.
//
// # Overview
//
// Each tenant deployment is bound to one Cognito user pool. The pool's
// coordinates (pool ID, app client ID, region, hosted UI domain prefix, and
// the application domain cookies are scoped to) are published as a single
// JSON or YAML document in AWS Systems Manager Parameter Store under
// /edgegate/<tenant>/identity, or in a local file for development. This
// package fetches that document, validates it, and caches it for the life
// of the process.
//
// # Sources
//
// The Source interface abstracts where the document comes from:
//
//   - ParameterStoreSource: fetches from SSM with decryption enabled.
//     Production deployments use this; the parameter name is derived from
//     the tenant identifier at startup.
//   - FileSource: reads a local file. Used in development and tests, and
//     can be paired with WatchFile to invalidate the cache when the file
//     changes on disk.
//
// # Caching Semantics
//
// Loader memoizes exactly one successful load for the process lifetime.
// Failed loads are never cached: a transient SSM outage at cold start must
// not poison the instance, so every request retries until a load succeeds.
// After the first success the source is never contacted again unless
// Invalidate is called.
//
// Config carries no secrets. Pool IDs, client IDs, and domains are public
// knowledge embedded in every login redirect; the document lives in
// Parameter Store for operational convenience, not confidentiality.
//
// # Derived Endpoints
//
// All provider URLs are derived from the validated config, never from
// request input:
//
//	issuer := cfg.Issuer()       // https://cognito-idp.<region>.amazonaws.com/<poolId>
//	jwks := cfg.JWKSURL()        // <issuer>/.well-known/jwks.json
//	hosted := cfg.HostedUIBase() // https://<prefix>.auth.<region>.amazoncognito.com
//
// CheckDiscovery optionally cross-checks these against the provider's
// published discovery document at startup and logs any drift.
//
// # Related Packages
//
//   - pkg/keys: fetches the JWKS document from the derived endpoint
//   - pkg/session: verifies tokens against the loaded config
//   - pkg/gateway: builds login redirects from the hosted UI base
package identity
