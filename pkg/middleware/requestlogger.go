package middleware

import (
	"log/slog"
	"net/http"

	"github.com/akajrolkar2644/Assessment/pkg/logger"
)

// RequestLogger stores a logger enriched with correlation_id, actor,
// trace_id and span_id in the request context, for retrieval with
// logger.FromContext. Mount it after RequestLogging and Tracing. Routes
// behind Auth re-run it so the actor is picked up.
func RequestLogger(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			if logger.ActorFromContext(ctx) == "" {
				if subject := SubjectFromContext(ctx); subject != "" {
					ctx = logger.WithActor(ctx, subject)
				}
			}

			ctx = logger.NewContext(ctx, logger.WithContext(ctx, base))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
