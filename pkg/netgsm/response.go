package netgsm

import (
	"encoding/json"
	"net/http"
)

// Response is an HTTP response whose body has been read and transcoded to
// UTF-8. The embedded Response.Body stream is already closed; use Body.
type Response struct {
	*http.Response
	Body []byte
}

// DecodeJSON unmarshals the body into target.
func (r *Response) DecodeJSON(target any) error {
	return json.Unmarshal(r.Body, target)
}

// OK reports whether the status code is in the 2xx range.
func (r *Response) OK() bool {
	return r.StatusCode/100 == 2
}
