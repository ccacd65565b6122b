package gateway

import (
	"context"
	"fmt"

	"github.com/edgegate-dev/edgegate/pkg/edge"
	"github.com/edgegate-dev/edgegate/pkg/observability"
)

// route is one state of the decision machine. Routes are evaluated in
// order and the first match wins, so new path rules slot in without
// disturbing the guarantees of the rules around them.
type route struct {
	name   string
	match  func(*edge.Request) bool
	handle func(context.Context, *edge.Request) (*edge.Result, string, error)
}

func (g *Gateway) buildRoutes() []route {
	return []route{
		{
			name:   "passthrough",
			match:  func(r *edge.Request) bool { return r.URI == g.cfg.PublicPath },
			handle: g.passthrough,
		},
		{
			name:   "callback",
			match:  func(r *edge.Request) bool { return r.URI == g.cfg.CallbackPath },
			handle: g.callback,
		},
		{
			name:   "default",
			match:  func(*edge.Request) bool { return true },
			handle: g.authorize,
		},
	}
}

// decide strips the viewer-spoofable email header and dispatches to the
// first matching route. Dropping the header before anything else, on every
// path, means its presence downstream always signals a token this gateway
// verified on this request.
func (g *Gateway) decide(ctx context.Context, req *edge.Request) (*edge.Result, string, error) {
	req.Headers.Del(g.cfg.EmailHeader)

	for _, rt := range g.routes {
		if !rt.match(req) {
			continue
		}
		return rt.handle(ctx, req)
	}
	return nil, "", fmt.Errorf("no route matched %q", req.URI)
}

func (g *Gateway) passthrough(_ context.Context, req *edge.Request) (*edge.Result, string, error) {
	return edge.Continue(req), observability.OutcomePassthrough, nil
}

func (g *Gateway) callback(ctx context.Context, req *edge.Request) (*edge.Result, string, error) {
	res, outcome, err := g.callbackResponse(ctx, req)
	if err != nil {
		return nil, "", err
	}
	return edge.Respond(res), outcome, nil
}
