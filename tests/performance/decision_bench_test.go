package performance

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/lestrrat-go/jwx/jwk"

	"github.com/edgegate-dev/edgegate/pkg/edge"
	"github.com/edgegate-dev/edgegate/pkg/gateway"
	"github.com/edgegate-dev/edgegate/pkg/identity"
	"github.com/edgegate-dev/edgegate/pkg/keys"
	"github.com/edgegate-dev/edgegate/pkg/observability"
	"github.com/edgegate-dev/edgegate/pkg/session"
)

type memSource struct{ data []byte }

func (s *memSource) Fetch(ctx context.Context) ([]byte, error) { return s.data, nil }
func (s *memSource) Name() string                              { return "mem" }

type benchEnv struct {
	gateway  *gateway.Gateway
	verifier *session.Verifier
	idCfg    *identity.Config
	token    string
}

// newBenchEnv builds the decision pipeline with a warmed config and key
// cache so the benchmarks measure steady-state cost, not first-request
// fetches.
func newBenchEnv(b *testing.B) *benchEnv {
	b.Helper()

	priv, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		b.Fatalf("Failed to generate key: %v", err)
	}
	key, err := jwk.New(priv.Public())
	if err != nil {
		b.Fatalf("Failed to build JWK: %v", err)
	}
	if err := key.Set(jwk.KeyIDKey, "bench-kid"); err != nil {
		b.Fatalf("Failed to set kid: %v", err)
	}
	set := jwk.NewSet()
	set.Add(key)
	body, err := json.Marshal(set)
	if err != nil {
		b.Fatalf("Failed to marshal key set: %v", err)
	}
	jwks := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write(body)
	}))
	b.Cleanup(jwks.Close)

	idCfg := &identity.Config{
		PoolID:               "us-west-2_Bench001",
		ClientID:             "benchclient",
		Region:               "us-west-2",
		HostedUIDomainPrefix: "acme-auth",
		AppDomain:            "app.acme.example.com",
	}
	doc, err := json.Marshal(idCfg)
	if err != nil {
		b.Fatalf("Failed to marshal identity config: %v", err)
	}

	logger := observability.NewLogger(observability.ErrorLevel, io.Discard)
	loader := identity.NewLoader(&memSource{data: doc}, logger, nil)
	resolver := keys.NewResolver(logger, nil,
		keys.WithEndpoint(func(string, string) string { return jwks.URL }))
	verifier := session.NewVerifier(resolver, 0, nil)
	gw := gateway.New(gateway.Config{
		CallbackPath:    "/oauth2/callback",
		PublicPath:      "/error.html",
		DefaultDocument: "index.html",
		EmailHeader:     "x-edgegate-auth-email",
		Scopes:          []string{"openid", "email"},
		SessionDuration: 12 * time.Hour,
	}, loader, verifier, logger, nil)

	token := jwt.NewWithClaims(jwt.SigningMethodRS256, jwt.MapClaims{
		"iss":   idCfg.Issuer(),
		"aud":   idCfg.ClientID,
		"exp":   time.Now().Add(24 * time.Hour).Unix(),
		"iat":   time.Now().Add(-time.Minute).Unix(),
		"email": "bench@acme.example.com",
	})
	token.Header["kid"] = "bench-kid"
	raw, err := token.SignedString(priv)
	if err != nil {
		b.Fatalf("Failed to sign token: %v", err)
	}

	env := &benchEnv{gateway: gw, verifier: verifier, idCfg: idCfg, token: raw}

	// Warm the config memo and the key cache
	if _, err := gw.Handle(context.Background(), env.request(true)); err != nil {
		b.Fatalf("Warmup decision failed: %v", err)
	}
	return env
}

func (e *benchEnv) request(withSession bool) *edge.Request {
	headers := edge.Headers{}
	headers.Set("Host", "app.acme.example.com")
	if withSession {
		headers.Add("Cookie", session.IDTokenCookie(e.idCfg.ClientID)+"="+e.token)
	}
	return &edge.Request{
		Method:      "GET",
		URI:         "/dashboard",
		QueryString: "",
		Headers:     headers,
		ClientIP:    "203.0.113.9",
	}
}

// BenchmarkDecisionForward measures the hot path: cookie parse, cached key
// lookup, and RS256 signature verification on every request.
func BenchmarkDecisionForward(b *testing.B) {
	env := newBenchEnv(b)
	ctx := context.Background()
	req := env.request(true)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		result, err := env.gateway.Handle(ctx, req)
		if err != nil {
			b.Fatalf("Decision failed: %v", err)
		}
		if result.IsResponse() {
			b.Fatal("Expected a forward decision")
		}
	}
}

// BenchmarkDecisionRedirect measures the anonymous path, which builds the
// login URL but verifies nothing.
func BenchmarkDecisionRedirect(b *testing.B) {
	env := newBenchEnv(b)
	ctx := context.Background()
	req := env.request(false)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		result, err := env.gateway.Handle(ctx, req)
		if err != nil {
			b.Fatalf("Decision failed: %v", err)
		}
		if !result.IsResponse() {
			b.Fatal("Expected a redirect decision")
		}
	}
}

// BenchmarkTokenVerify isolates signature and claims verification.
func BenchmarkTokenVerify(b *testing.B) {
	env := newBenchEnv(b)
	ctx := context.Background()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := env.verifier.Verify(ctx, env.token, env.idCfg); err != nil {
			b.Fatalf("Verification failed: %v", err)
		}
	}
}

// BenchmarkCookieExtraction isolates pulling the session token out of a
// realistic multi-cookie header.
func BenchmarkCookieExtraction(b *testing.B) {
	env := newBenchEnv(b)
	name := session.IDTokenCookie(env.idCfg.ClientID)
	headerValues := []string{
		"_ga=GA1.2.1234567890; theme=dark; " + name + "=" + env.token + "; locale=en-US",
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, ok := session.TokenFromCookies(headerValues, name); !ok {
			b.Fatal("Token not found in cookie header")
		}
	}
}
