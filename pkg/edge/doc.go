// Package edge defines the deployment-neutral request and response types the
// gateway decides over, plus codecs for the two surfaces that feed it.
//
// # Overview
//
// A viewer request arrives either as a CloudFront Lambda@Edge event or as a
// plain net/http request. Both are converted into an edge.Request, the
// gateway produces an edge.Result, and the result is converted back to the
// surface it came from: a mutated request continues toward the origin, a
// synthesized response terminates the exchange at the edge.
//
// # Headers
//
// Header names are case-insensitive and multi-valued. The map is keyed by
// the lowercased name while each entry keeps the casing it was sent with,
// mirroring the CloudFront event encoding:
//
//	req.Headers.Set("x-auth-email", "user@example.com") // replaces all values
//	req.Headers.Get("cookie")                           // first value or ""
//
// Set always replaces the full value list. Forwarding a caller-supplied
// value for a header the gateway owns requires an explicit Add.
//
// # CloudFront wire format
//
// The stock aws-lambda-go event types do not carry a body on generated
// responses, which the gateway needs for the callback page. The wire types
// here model the viewer-request event and the generated-response object
// directly:
//
//	var event edge.CloudFrontEvent
//	cfReq, cfConf, err := event.ViewerRequest()
//	req := edge.FromCloudFront(cfReq)
//
// # Related Packages
//
//   - pkg/gateway: produces edge.Result values
//   - cmd/edgegate-lambda: CloudFront surface
//   - cmd/edgegate: net/http surface
package edge
