package edge

import (
	"errors"
	"strconv"
)

// ErrNoViewerRequest is returned when an event carries no request record.
var ErrNoViewerRequest = errors.New("event contains no viewer request")

// CloudFrontEvent is the envelope delivered to a viewer-request trigger.
type CloudFrontEvent struct {
	Records []CloudFrontRecord `json:"Records"`
}

// CloudFrontRecord is a single record within the event envelope.
type CloudFrontRecord struct {
	CF CloudFrontEventData `json:"cf"`
}

// CloudFrontEventData holds the distribution config and the viewer request.
type CloudFrontEventData struct {
	Config  CloudFrontConfig   `json:"config"`
	Request *CloudFrontRequest `json:"request"`
}

// CloudFrontConfig describes the distribution and the event that fired.
type CloudFrontConfig struct {
	DistributionDomainName string `json:"distributionDomainName"`
	DistributionID         string `json:"distributionId"`
	EventType              string `json:"eventType"`
	RequestID              string `json:"requestId"`
}

// CloudFrontRequest is the viewer request payload. Header names are
// lowercased map keys; each entry keeps its original casing.
type CloudFrontRequest struct {
	ClientIP    string              `json:"clientIp"`
	Headers     map[string][]Header `json:"headers"`
	Method      string              `json:"method"`
	QueryString string              `json:"querystring"`
	URI         string              `json:"uri"`
	Body        *CloudFrontBody     `json:"body,omitempty"`
}

// CloudFrontBody is the optional request body record. The gateway never
// reads it but must hand it back unchanged on forwarded requests.
type CloudFrontBody struct {
	InputTruncated bool   `json:"inputTruncated"`
	Action         string `json:"action"`
	Encoding       string `json:"encoding"`
	Data           string `json:"data"`
}

// CloudFrontResponse is a generated response returned in place of the
// request. Status is a numeric string per the event contract.
type CloudFrontResponse struct {
	Status            string              `json:"status"`
	StatusDescription string              `json:"statusDescription,omitempty"`
	Headers           map[string][]Header `json:"headers,omitempty"`
	Body              string              `json:"body,omitempty"`
	BodyEncoding      string              `json:"bodyEncoding,omitempty"`
}

// ViewerRequest returns the request record and distribution config of the
// event.
func (e *CloudFrontEvent) ViewerRequest() (*CloudFrontRequest, *CloudFrontConfig, error) {
	if len(e.Records) == 0 || e.Records[0].CF.Request == nil {
		return nil, nil, ErrNoViewerRequest
	}
	data := &e.Records[0].CF
	return data.Request, &data.Config, nil
}

// FromCloudFront converts the wire request into the neutral form.
func FromCloudFront(cf *CloudFrontRequest) *Request {
	headers := make(Headers, len(cf.Headers))
	for name, entries := range cf.Headers {
		headers[name] = append([]Header(nil), entries...)
	}
	return &Request{
		Method:      cf.Method,
		URI:         cf.URI,
		QueryString: cf.QueryString,
		Headers:     headers,
		ClientIP:    cf.ClientIP,
	}
}

// ApplyToCloudFront writes the mutations carried by req back onto the wire
// request. Fields outside the neutral form, such as the body record, stay
// untouched so the forwarded request round-trips intact.
func ApplyToCloudFront(req *Request, cf *CloudFrontRequest) *CloudFrontRequest {
	cf.Method = req.Method
	cf.URI = req.URI
	cf.QueryString = req.QueryString
	cf.Headers = map[string][]Header(req.Headers.Clone())
	return cf
}

// ToCloudFrontResponse converts a synthesized response to the wire form.
func ToCloudFrontResponse(res *Response) *CloudFrontResponse {
	out := &CloudFrontResponse{
		Status:            strconv.Itoa(res.Status),
		StatusDescription: res.StatusDescription,
	}
	if len(res.Headers) > 0 {
		out.Headers = map[string][]Header(res.Headers.Clone())
	}
	if res.Body != "" {
		out.Body = res.Body
		out.BodyEncoding = "text"
	}
	return out
}
