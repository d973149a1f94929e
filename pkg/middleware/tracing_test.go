package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/akajrolkar2644/Assessment/pkg/logger"
)

// recordSpans installs an in-memory tracer provider for the test.
func recordSpans(t *testing.T) *tracetest.InMemoryExporter {
	t.Helper()

	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))

	prevTP, prevProp := otel.GetTracerProvider(), otel.GetTextMapPropagator()
	otel.SetTracerProvider(tp)
	otel.SetTextMapPropagator(propagation.TraceContext{})
	t.Cleanup(func() {
		_ = tp.Shutdown(context.Background())
		otel.SetTracerProvider(prevTP)
		otel.SetTextMapPropagator(prevProp)
	})
	return exporter
}

func tracedRouter(pattern string, status int) *chi.Mux {
	r := chi.NewRouter()
	r.Use(Tracing("feedback"))
	r.Get(pattern, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
	})
	return r
}

func spanAttr(span sdktrace.ReadOnlySpan, key string) (attribute.Value, bool) {
	for _, kv := range span.Attributes() {
		if string(kv.Key) == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}

func TestTracing_SpanPerRequest(t *testing.T) {
	tests := []struct {
		name       string
		status     int
		wantCode   codes.Code
		wantStatus int64
	}{
		{"ok", http.StatusOK, codes.Unset, 200},
		{"client error", http.StatusNotFound, codes.Unset, 404},
		{"server error", http.StatusServiceUnavailable, codes.Error, 503},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exporter := recordSpans(t)

			r := tracedRouter("/api/v1/admin/reviews/{id}", tt.status)
			r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/admin/reviews/42", nil))

			spans := exporter.GetSpans().Snapshots()
			require.Len(t, spans, 1)
			span := spans[0]

			assert.Equal(t, "GET /api/v1/admin/reviews/{id}", span.Name())
			assert.Equal(t, tt.wantCode, span.Status().Code)

			status, ok := spanAttr(span, "http.status_code")
			require.True(t, ok)
			assert.Equal(t, tt.wantStatus, status.AsInt64())

			route, ok := spanAttr(span, "http.route")
			require.True(t, ok)
			assert.Equal(t, "/api/v1/admin/reviews/{id}", route.AsString())
		})
	}
}

func TestTracing_ContinuesInboundTrace(t *testing.T) {
	exporter := recordSpans(t)

	req := httptest.NewRequest(http.MethodGet, "/traced", nil)
	req.Header.Set("traceparent", "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01")
	rec := httptest.NewRecorder()
	tracedRouter("/traced", http.StatusOK).ServeHTTP(rec, req)

	spans := exporter.GetSpans()
	require.Len(t, spans, 1)
	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", spans[0].SpanContext.TraceID().String())
	assert.Equal(t, "00f067aa0ba902b7", spans[0].Parent.SpanID().String())
	assert.Contains(t, rec.Header().Get("traceparent"), "4bf92f3577b34da6a3ce929d0e0e4736")
}

func TestTracing_RecordsCorrelationID(t *testing.T) {
	exporter := recordSpans(t)

	req := httptest.NewRequest(http.MethodGet, "/x", nil)
	req = req.WithContext(logger.WithCorrelationID(req.Context(), "corr-7"))
	tracedRouter("/x", http.StatusOK).ServeHTTP(httptest.NewRecorder(), req)

	spans := exporter.GetSpans().Snapshots()
	require.Len(t, spans, 1)
	id, ok := spanAttr(spans[0], "correlation_id")
	require.True(t, ok)
	assert.Equal(t, "corr-7", id.AsString())
}
