package gateway

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/edgegate-dev/edgegate/pkg/edge"
	"github.com/edgegate-dev/edgegate/pkg/observability"
)

// Middleware adapts the gateway decision to net/http for server
// deployments. Forwarded requests continue into next with the decided
// mutations applied; synthesized responses are written directly. Fatal
// decision errors become a generic 500 with nothing from the failure in
// the body.
func (g *Gateway) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-Id")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		ctx := observability.WithRequestID(r.Context(), requestID)

		req := edge.FromHTTP(r)

		result, err := g.safeHandle(ctx, req)
		if err != nil {
			g.logger.WithError(err).Error("Gateway decision failed")
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		if result.IsResponse() {
			if err := edge.WriteResponse(w, result.Response); err != nil {
				g.logger.WithError(err).Warn("Failed to write edge response")
			}
			return
		}

		edge.ApplyToHTTP(result.Request, r)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// safeHandle runs the decision with panic containment: a panic surfaces as
// a decision error, so the request gets the generic 500 instead of killing
// the connection.
func (g *Gateway) safeHandle(ctx context.Context, req *edge.Request) (result *edge.Result, err error) {
	defer func() {
		if rerr := observability.MustRecover(recover()); rerr != nil {
			g.logger.WithError(rerr).Error("PANIC in request decision")
			result, err = nil, rerr
		}
	}()
	return g.Handle(ctx, req)
}
