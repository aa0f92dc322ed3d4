package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/lavrik91/test-task-1/internal/observability"
)

// ServerTimingApp adds an app;dur=... Server-Timing entry and reports every
// request to m, labelled with the matched route pattern rather than the raw
// path so order ids do not explode label cardinality.
func ServerTimingApp(m observability.Metrics) func(http.Handler) http.Handler {
	if m == nil {
		m = observability.Noop{}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			dur := observability.SinceMs(start)
			observability.AppendServerTiming(w, "app", dur, "")
			m.ObserveHTTP(r.Method, routeOf(r), ww.Status(), dur)
		})
	}
}

func routeOf(r *http.Request) string {
	if rc := chi.RouteContext(r.Context()); rc != nil {
		if p := rc.RoutePattern(); p != "" {
			return p
		}
	}
	return r.URL.Path
}
