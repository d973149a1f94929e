package middleware

import (
	"log/slog"
	"net"
	"net/http"
	"net/http/pprof"
	"net/netip"

	"github.com/go-chi/chi/v5"

	"github.com/akajrolkar2644/Assessment/pkg/httputil"
	"github.com/akajrolkar2644/Assessment/pkg/logger"
)

// MountPprof serves /debug/pprof on r to callers inside cidrs. Nothing is
// mounted when cidrs is empty.
func MountPprof(r chi.Router, cidrs []string, l *slog.Logger) {
	if len(cidrs) == 0 {
		return
	}
	r.Route("/debug/pprof", func(r chi.Router) {
		r.Use(AllowCIDRs(cidrs, l))
		r.HandleFunc("/cmdline", pprof.Cmdline)
		r.HandleFunc("/profile", pprof.Profile)
		r.HandleFunc("/symbol", pprof.Symbol)
		r.HandleFunc("/trace", pprof.Trace)
		r.HandleFunc("/*", pprof.Index)
	})
}

// AllowCIDRs rejects requests whose connection address lies outside every
// prefix in cidrs. Forwarding headers are ignored. An empty list admits
// everyone; entries that fail to parse are logged and dropped.
func AllowCIDRs(cidrs []string, l *slog.Logger) func(http.Handler) http.Handler {
	if len(cidrs) == 0 {
		return func(next http.Handler) http.Handler { return next }
	}

	prefixes := make([]netip.Prefix, 0, len(cidrs))
	for _, c := range cidrs {
		p, err := netip.ParsePrefix(c)
		if err != nil {
			l.Warn("ignoring invalid CIDR", slog.String("cidr", c), slog.String("error", err.Error()))
			continue
		}
		prefixes = append(prefixes, p.Masked())
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if addr, ok := remoteAddr(r); ok {
				for _, p := range prefixes {
					if p.Contains(addr) {
						next.ServeHTTP(w, r)
						return
					}
				}
			}

			l.WarnContext(r.Context(), "request outside allowed networks",
				slog.String("remote_addr", r.RemoteAddr),
				slog.String("path", r.URL.Path),
			)
			httputil.WriteJSON(w, http.StatusForbidden, httputil.Response{
				Error: &httputil.ErrorResponse{
					Code:      "FORBIDDEN",
					Message:   "endpoint is restricted to internal networks",
					RequestID: logger.CorrelationIDFromContext(r.Context()),
				},
			})
		})
	}
}

func remoteAddr(r *http.Request) (netip.Addr, bool) {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	addr, err := netip.ParseAddr(host)
	if err != nil {
		return netip.Addr{}, false
	}
	return addr.Unmap(), true
}
