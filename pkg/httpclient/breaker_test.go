package httpclient

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sony/gobreaker/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/akajrolkar2644/Assessment/pkg/errors"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testBreaker(name string) *Breaker {
	cfg := DefaultBreakerConfig(name)
	cfg.MinRequests = 3
	cfg.OpenFor = 5 * time.Second
	return NewBreaker(New(Config{Timeout: 5 * time.Second, MaxConnsPerHost: 4}), cfg, testLogger())
}

func statusServer(t *testing.T, status int, body string, hits *atomic.Int32) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if hits != nil {
			hits.Add(1)
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func send(b *Breaker, url string) (*http.Response, error) {
	req, _ := http.NewRequest(http.MethodPost, url, http.NoBody)
	resp, err := b.Do(context.Background(), req)
	if err == nil {
		_ = resp.Body.Close()
	}
	return resp, err
}

func TestBreaker_PassesSuccess(t *testing.T) {
	srv := statusServer(t, http.StatusOK, `{"ok":true}`, nil)
	b := testBreaker("br-ok")

	resp, err := send(b, srv.URL)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, gobreaker.StateClosed, b.State())
	assert.NoError(t, b.Healthy(context.Background()))
}

func TestBreaker_ServerErrorBecomesUpstreamError(t *testing.T) {
	srv := statusServer(t, http.StatusBadGateway, `{"error":{"code":502,"message":"provider down"}}`, nil)
	b := testBreaker("br-502")

	_, err := send(b, srv.URL)
	var upErr *UpstreamError
	require.ErrorAs(t, err, &upErr)
	assert.Equal(t, "br-502", upErr.Service)
	assert.Equal(t, "provider down", upErr.Message)
	assert.ErrorIs(t, err, apperrors.ErrServiceUnavail)
}

func TestBreaker_OpensAndStopsSending(t *testing.T) {
	var hits atomic.Int32
	srv := statusServer(t, http.StatusTooManyRequests, `{"error":{"code":"rate_limited","message":"slow down"}}`, &hits)
	b := testBreaker("br-trip")

	for i := 0; i < 3; i++ {
		_, _ = send(b, srv.URL)
	}
	require.Equal(t, gobreaker.StateOpen, b.State())
	assert.ErrorIs(t, b.Healthy(context.Background()), ErrCircuitOpen)
	assert.Equal(t, float64(2), testutil.ToFloat64(breakerState.WithLabelValues("br-trip")))

	_, err := send(b, srv.URL)
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.Equal(t, int32(3), hits.Load())
	assert.Equal(t, float64(1), testutil.ToFloat64(breakerRejected.WithLabelValues("br-trip")))
}

func TestBreaker_ClientErrorsDoNotTrip(t *testing.T) {
	srv := statusServer(t, http.StatusUnauthorized, `{"error":{"message":"bad key"}}`, nil)
	b := testBreaker("br-401")

	for i := 0; i < 5; i++ {
		resp, err := send(b, srv.URL)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	}
	assert.Equal(t, gobreaker.StateClosed, b.State())
}

func TestBreaker_CanceledRequestsDoNotTrip(t *testing.T) {
	var hits atomic.Int32
	srv := statusServer(t, http.StatusOK, `{"ok":true}`, &hits)
	b := testBreaker("br-cancel")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	for i := 0; i < 5; i++ {
		req, _ := http.NewRequestWithContext(ctx, http.MethodPost, srv.URL, http.NoBody)
		_, err := b.Do(ctx, req)
		require.ErrorIs(t, err, context.Canceled)
	}
	assert.Equal(t, gobreaker.StateClosed, b.State())

	resp, err := send(b, srv.URL)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestBreaker_ClosesAfterSuccessfulProbe(t *testing.T) {
	var failing atomic.Bool
	failing.Store(true)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if failing.Load() {
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer srv.Close()

	cfg := DefaultBreakerConfig("br-probe")
	cfg.MinRequests = 3
	cfg.OpenFor = 100 * time.Millisecond
	b := NewBreaker(New(DefaultConfig()), cfg, testLogger())

	for i := 0; i < 3; i++ {
		_, _ = send(b, srv.URL)
	}
	require.Equal(t, gobreaker.StateOpen, b.State())

	time.Sleep(150 * time.Millisecond)
	failing.Store(false)

	_, err := send(b, srv.URL)
	require.NoError(t, err)
	assert.Equal(t, gobreaker.StateClosed, b.State())
}

func TestDefaultBreakerConfig(t *testing.T) {
	cfg := DefaultBreakerConfig("openrouter")
	assert.Equal(t, "openrouter", cfg.Name)
	assert.Equal(t, uint32(5), cfg.MinRequests)
	assert.Equal(t, 30*time.Second, cfg.OpenFor)
}
