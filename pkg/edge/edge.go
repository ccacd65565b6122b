package edge

import "strings"

// Header is a single header value carrying its original casing.
type Header struct {
	Key   string `json:"key,omitempty"`
	Value string `json:"value"`
}

// Headers maps lowercased header names to their values. Each value keeps the
// casing it was originally sent with.
type Headers map[string][]Header

// Get returns the first value of the named header, or "" when absent.
func (h Headers) Get(name string) string {
	entries := h[strings.ToLower(name)]
	if len(entries) == 0 {
		return ""
	}
	return entries[0].Value
}

// Values returns every value of the named header in order.
func (h Headers) Values(name string) []string {
	entries := h[strings.ToLower(name)]
	if len(entries) == 0 {
		return nil
	}
	values := make([]string, 0, len(entries))
	for _, e := range entries {
		values = append(values, e.Value)
	}
	return values
}

// Set replaces every value of the named header with the given one.
func (h Headers) Set(name, value string) {
	h[strings.ToLower(name)] = []Header{{Key: name, Value: value}}
}

// Add appends a value to the named header.
func (h Headers) Add(name, value string) {
	key := strings.ToLower(name)
	h[key] = append(h[key], Header{Key: name, Value: value})
}

// Del removes the named header entirely.
func (h Headers) Del(name string) {
	delete(h, strings.ToLower(name))
}

// Clone returns a deep copy of the header map.
func (h Headers) Clone() Headers {
	out := make(Headers, len(h))
	for name, entries := range h {
		out[name] = append([]Header(nil), entries...)
	}
	return out
}

// Request is a viewer request as seen at the edge, before the origin.
type Request struct {
	Method      string
	URI         string
	QueryString string
	Headers     Headers
	ClientIP    string
}

// Response is a response synthesized at the edge. It terminates the request
// without contacting the origin.
type Response struct {
	Status            int
	StatusDescription string
	Headers           Headers
	Body              string
}

// Result is the outcome of an edge decision. Exactly one of Request or
// Response is set: a request continues to the origin, a response terminates
// the exchange.
type Result struct {
	Request  *Request
	Response *Response
}

// Continue forwards the (possibly mutated) request toward the origin.
func Continue(req *Request) *Result {
	return &Result{Request: req}
}

// Respond terminates the request with a synthesized response.
func Respond(res *Response) *Result {
	return &Result{Response: res}
}

// IsResponse reports whether the result terminates the request at the edge.
func (r *Result) IsResponse() bool {
	return r.Response != nil
}
