package netgsm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/netgsm-go/netgsm/pkg/query"
)

func testConfig(baseURL string) Config {
	cfg := DefaultConfig()
	cfg.BaseURL = baseURL
	cfg.Usercode = "8503020000"
	cfg.Password = "s3cret"
	cfg.MsgHeader = "ACME"
	return cfg
}

func TestNew_Defaults(t *testing.T) {
	c, err := New(Config{Usercode: "u", Password: "p"})
	require.NoError(t, err)

	assert.Equal(t, DefaultBaseURL, c.BaseURL())
	assert.Equal(t, "", c.MsgHeader())
	assert.Nil(t, c.charset)

	hc, ok := c.http.(*http.Client)
	require.True(t, ok)
	assert.Equal(t, DefaultTimeout, hc.Timeout)
}

func TestNew_MissingCredentials(t *testing.T) {
	for _, cfg := range []Config{
		{},
		{Usercode: "u"},
		{Password: "p"},
	} {
		_, err := New(cfg)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrMissingCredentials)
		assert.ErrorIs(t, err, ErrInvalidConfig)

		var cfgErr *ConfigError
		require.ErrorAs(t, err, &cfgErr)
		assert.Equal(t, "required", cfgErr.Rule)
	}
}

func TestClient_URL(t *testing.T) {
	tests := []struct {
		name     string
		baseURL  string
		qsAuth   bool
		endpoint string
		params   query.Params
		want     string
	}{
		{
			name:     "plain endpoint",
			baseURL:  "https://api.netgsm.com.tr",
			endpoint: "sms/report",
			want:     "https://api.netgsm.com.tr/api/sms/report",
		},
		{
			name:     "trailing slash on base",
			baseURL:  "https://api.netgsm.com.tr/",
			endpoint: "/sms/report",
			want:     "https://api.netgsm.com.tr/api/sms/report",
		},
		{
			name:     "params are canonical",
			baseURL:  "https://api.netgsm.com.tr",
			endpoint: "sms/report",
			params: query.Params{
				"page":   query.Int(2),
				"filter": query.StringMap(map[string]string{"status": "1"}),
			},
			want: "https://api.netgsm.com.tr/api/sms/report?filter[status]=1&page=2",
		},
		{
			name:     "query string auth adds credentials",
			baseURL:  "https://api.netgsm.com.tr",
			qsAuth:   true,
			endpoint: "balance",
			params:   query.Params{"stip": query.Int(1)},
			want:     "https://api.netgsm.com.tr/api/balance?password=s3cret&stip=1&usercode=8503020000",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig(tt.baseURL)
			cfg.QueryStringAuth = tt.qsAuth
			c, err := New(cfg)
			require.NoError(t, err)

			got, err := c.URL(tt.endpoint, tt.params)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestClient_URL_DoesNotMutateParams(t *testing.T) {
	cfg := testConfig("https://h")
	cfg.QueryStringAuth = true
	c, err := New(cfg)
	require.NoError(t, err)

	params := query.Params{"a": query.Int(1)}
	_, err = c.URL("x", params)
	require.NoError(t, err)
	assert.Len(t, params, 1)
}

func TestClient_Get(t *testing.T) {
	api := newFakeAPI(t)
	c, err := New(testConfig(api.URL))
	require.NoError(t, err)

	resp, err := c.Get(context.Background(), "sms/report", query.Params{
		"bulkid": query.String("42"),
		"type":   query.Int(0),
	})
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"code":"00"}`, string(resp.Body))

	got := api.last(t)
	assert.Equal(t, http.MethodGet, got.Method)
	assert.Equal(t, "/sms/report", got.Endpoint)
	assert.Equal(t, "bulkid=42&type=0", got.RawQuery)
	assert.Equal(t, "application/json", got.Header.Get("Accept"))
	assert.Equal(t, UserAgent, got.Header.Get("User-Agent"))
	assert.Empty(t, got.Header.Get("Content-Type"))
	assert.Empty(t, got.Body)
	assert.True(t, got.HasAuth)
	assert.Equal(t, "8503020000", got.User)
	assert.Equal(t, "s3cret", got.Pass)
}

func TestClient_PostAndPut(t *testing.T) {
	type message struct {
		Msg string `json:"msg"`
		No  string `json:"no"`
	}
	payload := map[string]any{
		"msgheader": "ACME",
		"messages":  []message{{Msg: "Merhaba", No: "5551234567"}},
	}

	for _, method := range []string{http.MethodPost, http.MethodPut} {
		t.Run(method, func(t *testing.T) {
			api := newFakeAPI(t)
			c, err := New(testConfig(api.URL))
			require.NoError(t, err)

			ctx := context.Background()
			if method == http.MethodPost {
				_, err = c.Post(ctx, "sms/send", payload, nil)
			} else {
				_, err = c.Put(ctx, "sms/send", payload, query.Params{"dry": query.Bool(true)})
			}
			require.NoError(t, err)

			got := api.last(t)
			assert.Equal(t, method, got.Method)
			assert.Equal(t, "application/json;charset=utf-8", got.Header.Get("Content-Type"))
			assert.JSONEq(t, `{"msgheader":"ACME","messages":[{"msg":"Merhaba","no":"5551234567"}]}`, string(got.Body))
			if method == http.MethodPut {
				assert.Equal(t, "dry=true", got.RawQuery)
			}
		})
	}
}

func TestClient_Delete(t *testing.T) {
	api := newFakeAPI(t)
	c, err := New(testConfig(api.URL))
	require.NoError(t, err)

	_, err = c.Delete(context.Background(), "blacklist", query.Params{"no": query.String("5551234567")})
	require.NoError(t, err)

	got := api.last(t)
	assert.Equal(t, http.MethodDelete, got.Method)
	assert.Equal(t, "/blacklist", got.Endpoint)
	assert.Equal(t, "no=5551234567", got.RawQuery)
	assert.Empty(t, got.Body)
}

func TestClient_QueryStringAuth(t *testing.T) {
	api := newFakeAPI(t)
	cfg := testConfig(api.URL)
	cfg.QueryStringAuth = true
	c, err := New(cfg)
	require.NoError(t, err)

	_, err = c.Get(context.Background(), "balance", nil)
	require.NoError(t, err)

	got := api.last(t)
	assert.False(t, got.HasAuth)
	assert.Equal(t, "password=s3cret&usercode=8503020000", got.RawQuery)
}

func TestClient_StatusError(t *testing.T) {
	api := newFakeAPI(t)
	api.respond(http.StatusUnauthorized, []byte(`{"code":"30"}`))
	c, err := New(testConfig(api.URL))
	require.NoError(t, err)

	resp, err := c.Get(context.Background(), "balance", nil)
	require.Error(t, err)

	var statusErr *StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusUnauthorized, statusErr.StatusCode)
	assert.Equal(t, "balance", statusErr.Endpoint)
	assert.Equal(t, `{"code":"30"}`, string(statusErr.Body))
	assert.Contains(t, err.Error(), "401")

	require.NotNil(t, resp)
	assert.False(t, resp.OK())
}

type failingTransport struct{ err error }

func (f failingTransport) Do(*http.Request) (*http.Response, error) { return nil, f.err }

func TestClient_TransportErrorUnchanged(t *testing.T) {
	boom := errors.New("connection refused")
	c, err := New(testConfig("https://h"), WithHTTPClient(failingTransport{err: boom}))
	require.NoError(t, err)

	resp, err := c.Get(context.Background(), "balance", nil)
	assert.Nil(t, resp)
	assert.Same(t, boom, err)
}

func TestClient_UnsupportedMethod(t *testing.T) {
	c, err := New(testConfig("https://h"))
	require.NoError(t, err)

	_, err = c.Request(context.Background(), http.MethodPatch, "x", nil, nil)
	assert.ErrorIs(t, err, ErrUnsupportedMethod)
}

func TestClient_LowercaseMethod(t *testing.T) {
	api := newFakeAPI(t)
	c, err := New(testConfig(api.URL))
	require.NoError(t, err)

	_, err = c.Request(context.Background(), "get", "x", nil, nil)
	require.NoError(t, err)
	assert.Equal(t, http.MethodGet, api.last(t).Method)
}

func TestClient_NestedParamsRejected(t *testing.T) {
	c, err := New(testConfig("https://h"), WithHTTPClient(failingTransport{err: errors.New("unreachable")}))
	require.NoError(t, err)

	_, err = c.Get(context.Background(), "x", query.Params{
		"f": query.Map(map[string]query.Value{"g": query.StringMap(nil)}),
	})
	assert.ErrorIs(t, err, query.ErrNestedMapping)
}

func TestClient_UnmarshalableBody(t *testing.T) {
	c, err := New(testConfig("https://h"))
	require.NoError(t, err)

	_, err = c.Post(context.Background(), "x", map[string]any{"ch": make(chan int)}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "marshal request body")
}

func TestClient_RequestEditor(t *testing.T) {
	api := newFakeAPI(t)

	var order []string
	c, err := New(testConfig(api.URL),
		WithRequestEditor(func(ctx context.Context, req *http.Request) error {
			order = append(order, "first")
			req.Header.Set("User-Agent", "custom-agent")
			return nil
		}),
		WithRequestEditor(func(ctx context.Context, req *http.Request) error {
			order = append(order, "second")
			req.Header.Set("X-Trace", "t-1")
			return nil
		}),
	)
	require.NoError(t, err)

	_, err = c.Get(context.Background(), "x", nil)
	require.NoError(t, err)

	got := api.last(t)
	assert.Equal(t, "custom-agent", got.Header.Get("User-Agent"))
	assert.Equal(t, "t-1", got.Header.Get("X-Trace"))
	assert.Equal(t, []string{"first", "second"}, order)
}

func TestClient_RequestEditorError(t *testing.T) {
	denied := errors.New("denied")
	c, err := New(testConfig("https://h"),
		WithHTTPClient(failingTransport{err: errors.New("unreachable")}),
		WithRequestEditor(func(context.Context, *http.Request) error { return denied }),
	)
	require.NoError(t, err)

	_, err = c.Get(context.Background(), "x", nil)
	assert.ErrorIs(t, err, denied)
}

func TestClient_BrowserHostOmitsUserAgent(t *testing.T) {
	api := newFakeAPI(t)
	c, err := New(testConfig(api.URL))
	require.NoError(t, err)

	serverHost = false
	t.Cleanup(func() { serverHost = true })

	_, err = c.Get(context.Background(), "x", nil)
	require.NoError(t, err)

	// net/http fills in its own agent when none is set.
	assert.NotEqual(t, UserAgent, api.last(t).Header.Get("User-Agent"))
}

func TestClient_ResponseEncoding(t *testing.T) {
	api := newFakeAPI(t)
	// "şğ" in windows-1254.
	api.respond(http.StatusOK, []byte{0xFE, 0xF0})

	cfg := testConfig(api.URL)
	cfg.Encoding = "iso-8859-9"
	c, err := New(cfg)
	require.NoError(t, err)

	resp, err := c.Get(context.Background(), "x", nil)
	require.NoError(t, err)
	assert.Equal(t, "şğ", string(resp.Body))
}

func TestClient_DecodeJSON(t *testing.T) {
	api := newFakeAPI(t)
	api.respond(http.StatusOK, []byte(`{"code":"00","balance":[{"amount":"12.5"}]}`))
	c, err := New(testConfig(api.URL))
	require.NoError(t, err)

	resp, err := c.Get(context.Background(), "balance", nil)
	require.NoError(t, err)

	var out struct {
		Code    string `json:"code"`
		Balance []struct {
			Amount json.Number `json:"amount"`
		} `json:"balance"`
	}
	require.NoError(t, resp.DecodeJSON(&out))
	assert.Equal(t, "00", out.Code)
	require.Len(t, out.Balance, 1)
	assert.Equal(t, "12.5", out.Balance[0].Amount.String())
}

func TestClient_LogsWithoutCredentials(t *testing.T) {
	api := newFakeAPI(t)
	logger := &recordingLogger{}
	cfg := testConfig(api.URL)
	cfg.QueryStringAuth = true
	c, err := New(cfg, WithLogger(logger))
	require.NoError(t, err)

	_, err = c.Get(context.Background(), "balance", nil)
	require.NoError(t, err)

	logger.mu.Lock()
	defer logger.mu.Unlock()
	require.Len(t, logger.records, 2)
	assert.Equal(t, "netgsm request", logger.records[0].msg)
	assert.Equal(t, "netgsm response", logger.records[1].msg)
	assert.Equal(t, logger.records[0].fields["request_id"], logger.records[1].fields["request_id"])
	for _, r := range logger.records {
		assert.Equal(t, "debug", r.level)
		for k, v := range r.fields {
			assert.NotContains(t, fmt.Sprint(v), "s3cret", "field %s", k)
		}
	}
}

func TestClient_ConcurrentUse(t *testing.T) {
	api := newFakeAPI(t)
	cfg := testConfig(api.URL)
	cfg.Encoding = "windows-1254"
	c, err := New(cfg)
	require.NoError(t, err)

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := c.Get(context.Background(), "x", query.Params{"i": query.Int(int64(i))})
			errs <- err
		}(i)
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		assert.NoError(t, err)
	}

	api.mu.Lock()
	defer api.mu.Unlock()
	assert.Len(t, api.requests, 16)
	for _, r := range api.requests {
		assert.True(t, strings.HasPrefix(r.RawQuery, "i="))
	}
}
