package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
)

func serveFrom(h http.Handler, remoteAddr, path string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.RemoteAddr = remoteAddr
	h.ServeHTTP(rec, req)
	return rec
}

func TestAllowCIDRs(t *testing.T) {
	h := AllowCIDRs([]string{"10.0.0.0/8", "::1/128", "not-a-cidr"}, discardLogger())(okHandler())

	tests := []struct {
		name       string
		remoteAddr string
		want       int
	}{
		{"inside range", "10.1.2.3:5000", http.StatusOK},
		{"ipv6 loopback", "[::1]:5000", http.StatusOK},
		{"ipv4-mapped ipv6", "[::ffff:10.0.0.7]:5000", http.StatusOK},
		{"outside range", "192.168.1.1:5000", http.StatusForbidden},
		{"unparseable address", "garbage", http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, serveFrom(h, tt.remoteAddr, "/").Code)
		})
	}
}

func TestAllowCIDRs_IgnoresForwardedFor(t *testing.T) {
	h := AllowCIDRs([]string{"10.0.0.0/8"}, discardLogger())(okHandler())

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "203.0.113.9:1234"
	req.Header.Set("X-Forwarded-For", "10.0.0.1")
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "FORBIDDEN", decodeError(t, rec).Code)
}

func TestAllowCIDRs_EmptyAdmitsAll(t *testing.T) {
	h := AllowCIDRs(nil, discardLogger())(okHandler())
	assert.Equal(t, http.StatusOK, serveFrom(h, "198.51.100.1:80", "/").Code)
}

func TestMountPprof(t *testing.T) {
	r := chi.NewRouter()
	MountPprof(r, []string{"127.0.0.0/8"}, discardLogger())

	assert.Equal(t, http.StatusOK, serveFrom(r, "127.0.0.1:9999", "/debug/pprof/").Code)
	assert.Equal(t, http.StatusForbidden, serveFrom(r, "10.0.0.1:9999", "/debug/pprof/").Code)
}

func TestMountPprof_DisabledWithoutCIDRs(t *testing.T) {
	r := chi.NewRouter()
	MountPprof(r, nil, discardLogger())

	assert.Equal(t, http.StatusNotFound, serveFrom(r, "127.0.0.1:9999", "/debug/pprof/").Code)
}
