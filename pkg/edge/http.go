package edge

import (
	"net"
	"net/http"
	"strings"
)

// FromHTTP converts a net/http request into the neutral form.
func FromHTTP(r *http.Request) *Request {
	headers := make(Headers, len(r.Header))
	for name, values := range r.Header {
		key := strings.ToLower(name)
		for _, v := range values {
			headers[key] = append(headers[key], Header{Key: name, Value: v})
		}
	}
	clientIP := r.RemoteAddr
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		clientIP = host
	}
	return &Request{
		Method:      r.Method,
		URI:         r.URL.Path,
		QueryString: r.URL.RawQuery,
		Headers:     headers,
		ClientIP:    clientIP,
	}
}

// ApplyToHTTP writes the mutations carried by req back onto the net/http
// request before it is handed to the next handler.
func ApplyToHTTP(req *Request, r *http.Request) {
	r.URL.Path = req.URI
	r.URL.RawPath = ""
	r.URL.RawQuery = req.QueryString
	header := make(http.Header, len(req.Headers))
	for _, entries := range req.Headers {
		for _, e := range entries {
			header.Add(e.Key, e.Value)
		}
	}
	r.Header = header
}

// WriteResponse writes a synthesized response to an HTTP client.
func WriteResponse(w http.ResponseWriter, res *Response) error {
	for _, entries := range res.Headers {
		for _, e := range entries {
			w.Header().Add(e.Key, e.Value)
		}
	}
	w.WriteHeader(res.Status)
	if res.Body == "" {
		return nil
	}
	_, err := w.Write([]byte(res.Body))
	return err
}
