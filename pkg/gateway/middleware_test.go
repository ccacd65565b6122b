package gateway

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// noRedirectClient keeps the 302 observable instead of following it to the
// hosted UI.
func noRedirectClient() *http.Client {
	return &http.Client{
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func TestMiddleware_ForwardsVerified(t *testing.T) {
	f := newGatewayFixture(t)
	cookie := f.sessionCookie(f.mint(t, "kid-1", f.claims()))

	var sawPath, sawEmail string
	backend := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sawPath = r.URL.Path
		sawEmail = r.Header.Get(testEmailHeader)
		w.WriteHeader(http.StatusNoContent)
	})

	server := httptest.NewServer(f.gateway.Middleware(backend))
	t.Cleanup(server.Close)

	req, err := http.NewRequest(http.MethodGet, server.URL+"/", nil)
	require.NoError(t, err)
	req.Header.Set("Cookie", cookie)

	res, err := noRedirectClient().Do(req)
	require.NoError(t, err)
	defer res.Body.Close()

	assert.Equal(t, http.StatusNoContent, res.StatusCode)
	assert.Equal(t, "/index.html", sawPath)
	assert.Equal(t, testEmail, sawEmail)
}

func TestMiddleware_RedirectsAnonymous(t *testing.T) {
	f := newGatewayFixture(t)

	backendHit := false
	backend := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		backendHit = true
	})

	server := httptest.NewServer(f.gateway.Middleware(backend))
	t.Cleanup(server.Close)

	res, err := noRedirectClient().Get(server.URL + "/dashboard")
	require.NoError(t, err)
	defer res.Body.Close()

	assert.Equal(t, http.StatusFound, res.StatusCode)
	assert.Contains(t, res.Header.Get("Location"), "acme-auth.auth.us-west-2.amazoncognito.com/oauth2/authorize")
	assert.Contains(t, res.Header.Get("Location"), "state=%2Fdashboard")
	assert.Equal(t, "no-store", res.Header.Get("Cache-Control"))
	assert.False(t, backendHit, "an anonymous request must never reach the origin")
}

func TestMiddleware_ServesCallback(t *testing.T) {
	f := newGatewayFixture(t)

	server := httptest.NewServer(f.gateway.Middleware(http.NotFoundHandler()))
	t.Cleanup(server.Close)

	res, err := noRedirectClient().Get(server.URL + "/oauth2/callback?error=access_denied&error_description=User%20cancelled")
	require.NoError(t, err)
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusBadRequest, res.StatusCode)
	assert.Contains(t, res.Header.Get("Content-Type"), "text/html")
	assert.Contains(t, string(body), "access_denied")
}

func TestMiddleware_PanicBecomesGeneric500(t *testing.T) {
	f := newGatewayFixture(t)
	// A nil verifier panics as soon as a session cookie reaches the
	// decision path.
	f.gateway.verifier = nil

	server := httptest.NewServer(f.gateway.Middleware(http.NotFoundHandler()))
	t.Cleanup(server.Close)

	req, err := http.NewRequest(http.MethodGet, server.URL+"/dashboard", nil)
	require.NoError(t, err)
	req.Header.Set("Cookie", f.sessionCookie(f.mint(t, "kid-1", f.claims())))

	res, err := noRedirectClient().Do(req)
	require.NoError(t, err)
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusInternalServerError, res.StatusCode)
	assert.Equal(t, "Internal Server Error\n", string(body))
}

func TestMiddleware_FatalErrorsBecomeGeneric500(t *testing.T) {
	f := newGatewayFixture(t)
	f.source.fail(errors.New("ssm: AccessDeniedException on /edgegate/acme/identity"))

	server := httptest.NewServer(f.gateway.Middleware(http.NotFoundHandler()))
	t.Cleanup(server.Close)

	res, err := noRedirectClient().Get(server.URL + "/dashboard")
	require.NoError(t, err)
	defer res.Body.Close()

	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)

	assert.Equal(t, http.StatusInternalServerError, res.StatusCode)
	assert.Equal(t, "Internal Server Error\n", string(body))
	assert.NotContains(t, string(body), "AccessDenied", "internal failure detail must never reach the viewer")
}
