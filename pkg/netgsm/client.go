package netgsm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"runtime"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"

	"github.com/netgsm-go/netgsm/pkg/log"
	"github.com/netgsm-go/netgsm/pkg/query"
)

// UserAgent is sent on every request made from a server-side host.
const UserAgent = "NetGsm REST API - Go Client"

const (
	contentTypeJSON = "application/json;charset=utf-8"
	apiPrefix       = "/api/"
)

// serverHost is false under js/wasm, where the browser owns User-Agent.
var serverHost = runtime.GOOS != "js"

// Client issues requests against the NetGSM REST API.
// A Client is immutable after New and safe for concurrent use.
type Client struct {
	baseURL         string
	usercode        string
	password        string
	msgHeader       string
	queryStringAuth bool
	charset         encoding.Encoding

	http    HTTPClient
	logger  log.Logger
	editors []RequestEditorFn
}

// New creates a Client. Defaults are applied to cfg before validation.
func New(cfg Config, opts ...Option) (*Client, error) {
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := options{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		logger:     log.NewNop(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.httpClient == nil {
		o.httpClient = &http.Client{Timeout: cfg.Timeout}
	}
	if o.logger == nil {
		o.logger = log.NewNop()
	}

	charset, err := responseCharset(cfg.Encoding)
	if err != nil {
		return nil, &ConfigError{Field: "Encoding", Rule: "charset", Err: ErrInvalidConfig}
	}

	return &Client{
		baseURL:         strings.TrimRight(cfg.BaseURL, "/"),
		usercode:        cfg.Usercode,
		password:        cfg.Password,
		msgHeader:       cfg.MsgHeader,
		queryStringAuth: cfg.QueryStringAuth,
		charset:         charset,
		http:            o.httpClient,
		logger:          o.logger,
		editors:         append([]RequestEditorFn(nil), o.editors...),
	}, nil
}

// responseCharset returns nil when bodies are already UTF-8.
func responseCharset(label string) (encoding.Encoding, error) {
	enc, err := htmlindex.Get(label)
	if err != nil {
		return nil, err
	}
	if name, _ := htmlindex.Name(enc); name == "utf-8" {
		return nil, nil
	}
	return enc, nil
}

// BaseURL returns the API root without a trailing slash.
func (c *Client) BaseURL() string { return c.baseURL }

// MsgHeader returns the configured sender name.
func (c *Client) MsgHeader() string { return c.msgHeader }

// URL returns the canonical request URL for endpoint and params, including
// credentials when QueryStringAuth is set.
func (c *Client) URL(endpoint string, params query.Params) (string, error) {
	if c.queryStringAuth {
		params = params.Merge(query.Params{
			"usercode": query.String(c.usercode),
			"password": query.String(c.password),
		})
	}
	return query.Normalize(c.baseURL+apiPrefix+strings.TrimPrefix(endpoint, "/"), params)
}

// Get sends a GET request.
func (c *Client) Get(ctx context.Context, endpoint string, params query.Params) (*Response, error) {
	return c.Request(ctx, http.MethodGet, endpoint, nil, params)
}

// Post sends data as a JSON body in a POST request.
func (c *Client) Post(ctx context.Context, endpoint string, data any, params query.Params) (*Response, error) {
	return c.Request(ctx, http.MethodPost, endpoint, data, params)
}

// Put sends data as a JSON body in a PUT request.
func (c *Client) Put(ctx context.Context, endpoint string, data any, params query.Params) (*Response, error) {
	return c.Request(ctx, http.MethodPut, endpoint, data, params)
}

// Delete sends a DELETE request.
func (c *Client) Delete(ctx context.Context, endpoint string, params query.Params) (*Response, error) {
	return c.Request(ctx, http.MethodDelete, endpoint, nil, params)
}

// Request sends one request and reads the whole response.
//
// A nil data sends no body. Transport errors are returned as produced by the
// HTTPClient. A non-2xx answer returns both the Response and a *StatusError.
func (c *Client) Request(ctx context.Context, method, endpoint string, data any, params query.Params) (*Response, error) {
	method = strings.ToUpper(method)
	switch method {
	case http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete:
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedMethod, method)
	}

	target, err := c.URL(endpoint, params)
	if err != nil {
		return nil, err
	}

	var body io.Reader
	if data != nil {
		b, err := json.Marshal(data)
		if err != nil {
			return nil, fmt.Errorf("marshal request body: %w", err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	if serverHost {
		req.Header.Set("User-Agent", UserAgent)
	}
	if data != nil {
		req.Header.Set("Content-Type", contentTypeJSON)
	}
	if !c.queryStringAuth {
		req.SetBasicAuth(c.usercode, c.password)
	}

	for _, edit := range c.editors {
		if err := edit(ctx, req); err != nil {
			return nil, fmt.Errorf("request editor: %w", err)
		}
	}

	requestID := uuid.NewString()
	c.logger.Debug("netgsm request",
		log.String("request_id", requestID),
		log.String("method", method),
		log.String("endpoint", endpoint),
		log.Bool("body", data != nil),
	)

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.logger.Debug("netgsm transport failure",
			log.String("request_id", requestID),
			log.Duration("took", time.Since(start)),
			log.Err(err),
		)
		return nil, err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if c.charset != nil {
		if raw, err = c.charset.NewDecoder().Bytes(raw); err != nil {
			return nil, fmt.Errorf("decode response body: %w", err)
		}
	}

	c.logger.Debug("netgsm response",
		log.String("request_id", requestID),
		log.Int("status", resp.StatusCode),
		log.Int("bytes", len(raw)),
		log.Duration("took", time.Since(start)),
	)

	out := &Response{Response: resp, Body: raw}
	if !out.OK() {
		return out, &StatusError{
			Method:     method,
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode,
			Body:       raw,
		}
	}
	return out, nil
}
