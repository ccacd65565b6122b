// Command edgegate-lambda runs the authentication gateway as a CloudFront
// viewer-request trigger. The handler returns either the forwarded request
// or a synthesized response; a returned error makes the distribution serve
// its generic 5xx page.
//
// Replicated functions cannot read environment variables, so edge builds
// bake the tenant in at link time:
//
//	go build -ldflags "-X github.com/edgegate-dev/edgegate/pkg/config.DefaultTenant=acme" ./cmd/edgegate-lambda
//
// The identity config, once fetched from the parameter store, and the
// signing key cache both live for the life of the replica, so warm
// invocations make no remote calls.
package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/aws/aws-lambda-go/lambda"

	"github.com/edgegate-dev/edgegate/pkg/config"
	"github.com/edgegate-dev/edgegate/pkg/edge"
	"github.com/edgegate-dev/edgegate/pkg/gateway"
	"github.com/edgegate-dev/edgegate/pkg/identity"
	"github.com/edgegate-dev/edgegate/pkg/keys"
	"github.com/edgegate-dev/edgegate/pkg/observability"
	"github.com/edgegate-dev/edgegate/pkg/session"
)

type handler struct {
	gw     *gateway.Gateway
	logger *observability.Logger
}

func newHandler(ctx context.Context) (*handler, error) {
	settings, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logger := observability.NewLogger(settings.LogLevel(), os.Stdout)

	var source identity.Source
	switch settings.ConfigSource {
	case "file":
		source = identity.NewFileSource(settings.IdentityFile)
	default:
		source, err = identity.NewParameterStoreSourceFromEnv(ctx, settings.ParameterName())
		if err != nil {
			return nil, fmt.Errorf("failed to initialize parameter store client: %w", err)
		}
	}

	// No scrape surface at the edge, so no Prometheus registry here.
	// Decision outcomes still reach CloudWatch through the structured logs.
	loader := identity.NewLoader(source, logger, nil)
	resolver := keys.NewResolver(logger, nil, keys.WithTTL(settings.JWKSTTL))
	verifier := session.NewVerifier(resolver, settings.VerifyLeeway, nil)
	gw := gateway.New(gateway.Config{
		CallbackPath:    settings.CallbackPath,
		PublicPath:      settings.PublicPath,
		DefaultDocument: settings.DefaultDocument,
		EmailHeader:     settings.EmailHeader,
		Scopes:          settings.Scopes,
		SessionDuration: settings.SessionDuration,
	}, loader, verifier, logger, nil)

	return &handler{gw: gw, logger: logger}, nil
}

// handleEvent decides one viewer request. The return value is either the
// request to forward, mutations applied, or a synthesized response. A panic
// anywhere in the decision comes back as an error so the distribution serves
// its 5xx page instead of the replica crashing.
func (h *handler) handleEvent(ctx context.Context, event edge.CloudFrontEvent) (out interface{}, err error) {
	defer func() {
		if rerr := observability.MustRecover(recover()); rerr != nil {
			h.logger.WithError(rerr).Error("PANIC in request decision")
			out, err = nil, rerr
		}
	}()

	cf, conf, err := event.ViewerRequest()
	if err != nil {
		return nil, err
	}
	ctx = observability.WithRequestID(ctx, conf.RequestID)

	result, err := h.gw.Handle(ctx, edge.FromCloudFront(cf))
	if err != nil {
		h.logger.WithError(err).WithField("request_id", conf.RequestID).Error("Request decision failed")
		return nil, err
	}

	if result.IsResponse() {
		return edge.ToCloudFrontResponse(result.Response), nil
	}
	return edge.ApplyToCloudFront(result.Request, cf), nil
}

func main() {
	h, err := newHandler(context.Background())
	if err != nil {
		log.Fatalf("Failed to initialize gateway: %v", err)
	}
	lambda.Start(h.handleEvent)
}
