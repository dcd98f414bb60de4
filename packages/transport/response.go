package transport

import (
	"fmt"

	"github.com/tidwall/gjson"
)

// Response is the normalized result of one call. Header keys appear as
// delivered by the HTTP layer; values keep their received order. The body is
// optional: a response that returned zero bytes has no body, which is
// distinct from an explicit empty string.
type Response struct {
	Status  int
	Headers map[string][]string

	body    string
	hasBody bool
}

// NewResponse constructs a response carrying a body. Status codes outside
// [100, 599] are rejected.
func NewResponse(status int, headers map[string][]string, body string) (*Response, error) {
	r, err := NewEmptyResponse(status, headers)
	if err != nil {
		return nil, err
	}
	r.body = body
	r.hasBody = true
	return r, nil
}

// NewEmptyResponse constructs a response with no body
func NewEmptyResponse(status int, headers map[string][]string) (*Response, error) {
	if status < 100 || status > 599 {
		return nil, fmt.Errorf("invalid HTTP status %d", status)
	}
	if headers == nil {
		headers = map[string][]string{}
	}
	return &Response{Status: status, Headers: headers}, nil
}

// SyntheticFailure is the degraded response returned for transport-level
// failures: status 500, no headers, no body.
func SyntheticFailure() *Response {
	return &Response{Status: 500, Headers: map[string][]string{}}
}

// Body returns the body text and whether one was present
func (r *Response) Body() (string, bool) {
	return r.body, r.hasBody
}

// BodyString returns the body text, empty when absent
func (r *Response) BodyString() string {
	return r.body
}

// Header returns the first value of the named header, or empty
func (r *Response) Header(key string) string {
	values := r.Headers[key]
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

// IsError reports whether the status is in the client or server error range
func (r *Response) IsError() bool {
	return r.Status >= 400 && r.Status <= 599
}

// IsSuccess reports whether the status is in the 2xx range
func (r *Response) IsSuccess() bool {
	return r.Status >= 200 && r.Status < 300
}

// JSON queries the body as JSON using a gjson path. An absent or non-JSON
// body yields a non-existent result.
func (r *Response) JSON(path string) gjson.Result {
	if !r.hasBody {
		return gjson.Result{}
	}
	return gjson.Get(r.body, path)
}
