package middleware

import (
	"context"
	"net/http"
	"time"

	"go.opentelemetry.io/otel/metric"
)

// HTTPMetrics is the subset of observability.Metrics used by the HTTP layer.
type HTTPMetrics interface {
	RecordHTTPRequest(ctx context.Context, method, path string, statusCode int, duration time.Duration)
}

// ActiveRequests tracks in-flight requests. observability.Metrics exposes one.
type ActiveRequests interface {
	Add(ctx context.Context, incr int64, options ...metric.AddOption)
}

// Observability records HTTP metrics for requests.
// Paths not in routes are recorded as "other" to bound label cardinality.
func Observability(metrics HTTPMetrics, active ActiveRequests, routes ...string) Middleware {
	known := make(map[string]bool, len(routes))
	for _, r := range routes {
		known[r] = true
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			if active != nil {
				active.Add(r.Context(), 1)
				defer active.Add(r.Context(), -1)
			}

			rw := &responseWriter{
				ResponseWriter: w,
				statusCode:     http.StatusOK,
			}

			next.ServeHTTP(rw, r)

			route := r.URL.Path
			if len(known) > 0 && !known[route] {
				route = "other"
			}

			metrics.RecordHTTPRequest(
				r.Context(),
				r.Method,
				route,
				rw.statusCode,
				time.Since(start),
			)
		})
	}
}
