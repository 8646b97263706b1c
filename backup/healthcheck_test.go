package backup

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

// pingRecorder is a fake monitoring endpoint that records request paths.
type pingRecorder struct {
	mu     sync.Mutex
	paths  []string
	status int
}

func newPingServer(t *testing.T, status int) (*httptest.Server, *pingRecorder) {
	t.Helper()
	rec := &pingRecorder{status: status}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec.mu.Lock()
		rec.paths = append(rec.paths, r.Method+" "+r.URL.Path)
		rec.mu.Unlock()
		w.WriteHeader(rec.status)
	}))
	t.Cleanup(srv.Close)
	return srv, rec
}

func (r *pingRecorder) got() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.paths...)
}

func TestPinger(t *testing.T) {
	srv, rec := newPingServer(t, http.StatusOK)
	ctx := context.Background()

	p := NewPinger(srv.URL+"/ping/abc", false)
	p.Start(ctx)
	p.Success(ctx)
	p.Fail(ctx)

	assert.Equal(t, []string{"GET /ping/abc/start", "GET /ping/abc", "GET /ping/abc/fail"}, rec.got())
}

func TestPinger_TrailingSlash(t *testing.T) {
	srv, rec := newPingServer(t, http.StatusOK)

	NewPinger(srv.URL+"/ping/abc/", false).Fail(context.Background())

	assert.Equal(t, []string{"GET /ping/abc/fail"}, rec.got())
}

func TestPinger_ErrorsAreSwallowed(t *testing.T) {
	srv, rec := newPingServer(t, http.StatusInternalServerError)
	ctx := context.Background()

	assert.NotPanics(t, func() {
		NewPinger(srv.URL, false).Start(ctx)
		NewPinger("http://127.0.0.1:1", false).Start(ctx)
		NewPinger("://bad url", false).Start(ctx)
	})
	assert.Equal(t, []string{"GET /start"}, rec.got())
}

func TestPinger_Noop(t *testing.T) {
	srv, rec := newPingServer(t, http.StatusOK)
	ctx := context.Background()

	var nilPinger *Pinger
	nilPinger.Start(ctx)
	NewPinger("", false).Success(ctx)
	NewPinger(srv.URL, true).Success(ctx)

	assert.Empty(t, rec.got())
}

func TestPinger_CancelledContext(t *testing.T) {
	srv, rec := newPingServer(t, http.StatusOK)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	NewPinger(srv.URL, false).Fail(ctx)

	assert.Equal(t, []string{"GET /fail"}, rec.got())
}
