package netgsm

import (
	"context"
	"net/http"

	"github.com/netgsm-go/netgsm/pkg/log"
)

// Option configures optional behavior of a Client.
type Option func(*options)

// RequestEditorFn edits an outgoing request after the client has set its
// own headers, credentials and body. Returning an error aborts the call.
type RequestEditorFn func(ctx context.Context, req *http.Request) error

type options struct {
	httpClient HTTPClient
	logger     log.Logger
	editors    []RequestEditorFn
}

// WithHTTPClient replaces the default *http.Client. Config.Timeout does not
// apply to an injected client.
func WithHTTPClient(client HTTPClient) Option {
	return func(o *options) {
		o.httpClient = client
	}
}

// WithLogger sets the logger for request tracing. The default discards
// everything.
func WithLogger(logger log.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithRequestEditor appends fn to the editors run on every request, in
// registration order. Editors may override any header the client set.
func WithRequestEditor(fn RequestEditorFn) Option {
	return func(o *options) {
		o.editors = append(o.editors, fn)
	}
}
