package gateway

import (
	"net/http"

	"golang.org/x/oauth2"

	"github.com/edgegate-dev/edgegate/pkg/edge"
	"github.com/edgegate-dev/edgegate/pkg/identity"
)

// loginRedirect sends the viewer to the hosted login UI. The requested URI
// rides along in the state parameter so the callback page can navigate
// back to it afterwards; no server-side session records where anyone was
// headed.
func (g *Gateway) loginRedirect(req *edge.Request, cfg *identity.Config) *edge.Response {
	oauth := oauth2.Config{
		ClientID: cfg.ClientID,
		Endpoint: oauth2.Endpoint{
			AuthURL: cfg.HostedUIBase() + "/oauth2/authorize",
		},
		RedirectURL: "https://" + cfg.AppDomain + g.cfg.CallbackPath,
		Scopes:      g.cfg.Scopes,
	}

	state := req.URI
	if req.QueryString != "" {
		state += "?" + req.QueryString
	}

	// Tokens come back in the URL fragment: response_type=token selects
	// implicit-style delivery over the default code flow.
	location := oauth.AuthCodeURL(state, oauth2.SetAuthURLParam("response_type", "token"))

	headers := edge.Headers{}
	headers.Set("Location", location)
	headers.Set("Cache-Control", "no-store")

	return &edge.Response{
		Status:            http.StatusFound,
		StatusDescription: "Found",
		Headers:           headers,
	}
}
