package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func metricsRouter(service string, handler http.HandlerFunc) *chi.Mux {
	r := chi.NewRouter()
	r.Use(PrometheusMetrics(service))
	r.Get("/api/v1/admin/reviews/{id}", handler)
	return r
}

func TestPrometheusMetrics_CountsByRoutePattern(t *testing.T) {
	r := metricsRouter("count-svc", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	for _, id := range []string{"1", "2", "3"} {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/admin/reviews/"+id, nil))
		assert.Equal(t, http.StatusOK, rec.Code)
	}

	got := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("count-svc", "GET", "/api/v1/admin/reviews/{id}", "200"))
	assert.Equal(t, float64(3), got)
}

func TestPrometheusMetrics_RecordsStatus(t *testing.T) {
	r := metricsRouter("status-svc", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.WriteHeader(http.StatusOK) // superfluous; first status wins
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/admin/reviews/9", nil))

	got := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("status-svc", "GET", "/api/v1/admin/reviews/{id}", "404"))
	assert.Equal(t, float64(1), got)
}

func TestPrometheusMetrics_DefaultStatusIs200(t *testing.T) {
	r := metricsRouter("default-svc", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/admin/reviews/1", nil))

	got := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("default-svc", "GET", "/api/v1/admin/reviews/{id}", "200"))
	assert.Equal(t, float64(1), got)
}

func TestPrometheusMetrics_InFlight(t *testing.T) {
	var during float64
	r := metricsRouter("inflight-svc", func(w http.ResponseWriter, r *http.Request) {
		during = testutil.ToFloat64(httpRequestsInFlight.WithLabelValues("inflight-svc"))
	})

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/admin/reviews/1", nil))

	assert.Equal(t, float64(1), during)
	assert.Equal(t, float64(0), testutil.ToFloat64(httpRequestsInFlight.WithLabelValues("inflight-svc")))
}
