package netgsm

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/julienschmidt/httprouter"

	"github.com/netgsm-go/netgsm/pkg/log"
)

// captured is what the fake API saw for one request.
type captured struct {
	Method   string
	Endpoint string
	RawQuery string
	Header   http.Header
	Body     []byte
	User     string
	Pass     string
	HasAuth  bool
}

// fakeAPI serves /api/*endpoint and records every request.
type fakeAPI struct {
	*httptest.Server

	mu       sync.Mutex
	requests []captured

	status int
	reply  []byte
}

func newFakeAPI(t *testing.T) *fakeAPI {
	t.Helper()

	f := &fakeAPI{status: http.StatusOK, reply: []byte(`{"code":"00"}`)}

	router := httprouter.New()
	for _, method := range []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete} {
		router.Handle(method, "/api/*endpoint", f.handle)
	}

	f.Server = httptest.NewServer(router)
	t.Cleanup(f.Close)
	return f
}

func (f *fakeAPI) handle(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	body, _ := io.ReadAll(r.Body)
	user, pass, ok := r.BasicAuth()

	f.mu.Lock()
	f.requests = append(f.requests, captured{
		Method:   r.Method,
		Endpoint: ps.ByName("endpoint"),
		RawQuery: r.URL.RawQuery,
		Header:   r.Header.Clone(),
		Body:     body,
		User:     user,
		Pass:     pass,
		HasAuth:  ok,
	})
	status, reply := f.status, f.reply
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(reply)
}

func (f *fakeAPI) respond(status int, reply []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.status = status
	f.reply = reply
}

func (f *fakeAPI) last(t *testing.T) captured {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.requests) == 0 {
		t.Fatal("fake API received no requests")
	}
	return f.requests[len(f.requests)-1]
}

// recordingLogger keeps every record for later inspection.
type recordingLogger struct {
	mu      sync.Mutex
	records []record
}

type record struct {
	level  string
	msg    string
	fields map[string]any
}

func (l *recordingLogger) add(level, msg string, fields []log.Field) {
	m := make(map[string]any, len(fields))
	for _, f := range fields {
		m[f.Key] = f.Value
	}
	l.mu.Lock()
	l.records = append(l.records, record{level: level, msg: msg, fields: m})
	l.mu.Unlock()
}

func (l *recordingLogger) Debug(msg string, fields ...log.Field) { l.add("debug", msg, fields) }
func (l *recordingLogger) Info(msg string, fields ...log.Field)  { l.add("info", msg, fields) }
func (l *recordingLogger) Warn(msg string, fields ...log.Field)  { l.add("warn", msg, fields) }
func (l *recordingLogger) Error(msg string, fields ...log.Field) { l.add("error", msg, fields) }
