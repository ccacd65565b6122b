package gateway

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"net/http"
	"net/url"

	"github.com/edgegate-dev/edgegate/pkg/edge"
	"github.com/edgegate-dev/edgegate/pkg/observability"
	"github.com/edgegate-dev/edgegate/pkg/session"
)

// The identity provider delivers tokens in the URL fragment, which
// browsers never send to any server. The success page therefore carries a
// script that moves the tokens from the fragment into cookies entirely
// client-side, then navigates to the path stashed in state.
var successPage = template.Must(template.New("callback-success").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Signing in</title>
</head>
<body>
<noscript>JavaScript is required to complete sign-in.</noscript>
<p id="status">Completing sign-in&hellip;</p>
<script>
(function () {
  var fail = function (message) {
    document.getElementById("status").textContent = message;
  };
  var fragment = window.location.hash;
  if (!fragment || fragment.length < 2) {
    fail("Sign-in failed: the identity provider returned no credentials.");
    return;
  }
  var params = new URLSearchParams(fragment.substring(1));
  var idToken = params.get("id_token");
  if (!idToken) {
    fail("Sign-in failed: the identity provider returned no identity token.");
    return;
  }
  var expires = new Date(Date.now() + {{.SessionMillis}}).toUTCString();
  var attributes = "; Domain={{.AppDomain}}; Path=/; Secure; SameSite=Lax; Expires=" + expires;
  document.cookie = "{{.IDTokenCookie}}=" + idToken + attributes;
  var accessToken = params.get("access_token");
  if (accessToken) {
    document.cookie = "{{.AccessTokenCookie}}=" + accessToken + attributes;
  }
  var target = params.get("state") || "/";
  if (target.charAt(0) !== "/" || target.charAt(1) === "/") {
    target = "/";
  }
  window.location.replace(target);
})();
</script>
</body>
</html>
`))

// errorPage renders a provider-reported login failure. The error values
// arrive through a redirect chain and are untrusted; html/template escapes
// them in context.
var errorPage = template.Must(template.New("callback-error").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Sign-in failed</title>
</head>
<body>
<h1>Sign-in failed</h1>
<p>The identity provider reported an error.</p>
<p><strong>{{.Error}}</strong>{{if .Description}}: {{.Description}}{{end}}</p>
<p><a href="/">Return to the application</a></p>
</body>
</html>
`))

type successPageData struct {
	AppDomain         string
	IDTokenCookie     string
	AccessTokenCookie string
	SessionMillis     int64
}

type errorPageData struct {
	Error       string
	Description string
}

func (g *Gateway) callbackResponse(ctx context.Context, req *edge.Request) (*edge.Response, string, error) {
	cfg, err := g.loader.Load(ctx)
	if err != nil {
		return nil, "", err
	}

	query, err := url.ParseQuery(req.QueryString)
	if err != nil {
		// A mangled query string carries no usable provider error; serve
		// the success page and let the fragment script report what is
		// actually there.
		query = url.Values{}
	}

	if errCode := query.Get("error"); errCode != "" {
		page, err := renderPage(errorPage, errorPageData{
			Error:       errCode,
			Description: query.Get("error_description"),
		})
		if err != nil {
			return nil, "", err
		}
		g.logger.WithField("error", errCode).Warn("Identity provider reported a login error")
		return htmlResponse(http.StatusBadRequest, "Bad Request", page), observability.OutcomeCallbackError, nil
	}

	page, err := renderPage(successPage, successPageData{
		AppDomain:         cfg.AppDomain,
		IDTokenCookie:     session.IDTokenCookie(cfg.ClientID),
		AccessTokenCookie: session.AccessTokenCookie(cfg.ClientID),
		SessionMillis:     g.cfg.SessionDuration.Milliseconds(),
	})
	if err != nil {
		return nil, "", err
	}
	return htmlResponse(http.StatusOK, "OK", page), observability.OutcomeCallback, nil
}

func renderPage(t *template.Template, data interface{}) (string, error) {
	var buf bytes.Buffer
	if err := t.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render callback page: %w", err)
	}
	return buf.String(), nil
}

func htmlResponse(status int, description, body string) *edge.Response {
	headers := edge.Headers{}
	headers.Set("Content-Type", "text/html; charset=utf-8")
	headers.Set("Cache-Control", "no-store")

	return &edge.Response{
		Status:            status,
		StatusDescription: description,
		Headers:           headers,
		Body:              body,
	}
}
