// Package gateway implements the per-request authentication decision at
// the edge of a static site deployment.
//
// # Overview
//
// Every viewer request is evaluated through a fixed sequence of states;
// the first match wins:
//
//  1. The public path is forwarded without authentication.
//  2. The callback path synthesizes the post-login response.
//  3. Directory paths get the default document appended.
//  4. A request without a session token is redirected to login.
//  5. A request whose token fails verification is redirected to login,
//     indistinguishably from having no token at all.
//  6. A verified request is forwarded with the subject's email attached.
//
// The email header is deleted from the incoming request before anything
// else happens, on every path, so its presence downstream always means the
// gateway verified a token on this request.
//
// # Login Flow
//
// The gateway holds no session state of its own. A redirect to the hosted
// login UI carries the requested URI in the OAuth state parameter; the
// provider returns the browser to the callback path with tokens in the URL
// fragment. Fragments never reach a server, so the callback response is a
// small HTML page whose script moves the tokens into domain-scoped cookies
// and then navigates to the path recovered from state. Subsequent requests
// present the cookie and flow through state 6.
//
// # Failure Behavior
//
// Anything wrong with a presented token collapses into the same login
// redirect. Provider-reported login errors render as an escaped 400 page.
// Infrastructure failures (identity config or signing keys unreachable)
// propagate out of Handle as errors and surface as a generic server error,
// never as a redirect loop.
//
// # Deployment Surfaces
//
// Handle speaks edge.Request/edge.Result and backs both deployment modes:
// cmd/edgegate-lambda feeds it viewer-request events, while cmd/edgegate
// wraps it as net/http middleware via Middleware in front of a reverse
// proxy.
package gateway
