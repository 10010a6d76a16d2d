package middleware

import (
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/Harikishanth/HealBee-AI/internal/infrastructure/observability"
)

const unmatchedRoute = "unmatched"

// knownRoutes bounds the route label on spans and metrics. The mux sits inside
// this middleware, so r.Pattern is not populated yet when the label is chosen.
var knownRoutes = map[string]struct{}{
	"/health":                    {},
	"/api/facilities/nearby":     {},
	"/api/facilities/nearby/gps": {},
	"/api/condition-hints":       {},
	"/api/geocode":               {},
}

func routeLabel(path string) string {
	if path != "/" {
		path = strings.TrimSuffix(path, "/")
	}
	if _, ok := knownRoutes[path]; ok {
		return path
	}
	return unmatchedRoute
}

// ObservabilityMiddleware opens a server span per request and records request metrics
func ObservabilityMiddleware(metrics *observability.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			route := routeLabel(r.URL.Path)

			ctx, span := observability.StartSpan(r.Context(), r.Method+" "+route)
			defer span.End()

			observability.SetSpanAttributes(span,
				attribute.String("http.method", r.Method),
				attribute.String("http.route", route),
				attribute.String("http.user_agent", r.UserAgent()),
				attribute.String("http.request_id", observability.RequestIDFromContext(ctx)),
			)

			rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			start := time.Now()
			next.ServeHTTP(rw, r.WithContext(ctx))
			observability.RecordRequestMetric(ctx, metrics, r.Method, route, rw.statusCode, time.Since(start))

			observability.SetSpanAttributes(span, attribute.Int("http.status_code", rw.statusCode))
			if cache := w.Header().Get("X-Cache"); cache != "" {
				observability.SetSpanAttributes(span, attribute.String("http.cache", cache))
			}
			if rw.statusCode >= http.StatusInternalServerError {
				span.SetStatus(codes.Error, http.StatusText(rw.statusCode))
			}
		})
	}
}

// responseWriter captures the status code for span and metric labels
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(statusCode int) {
	rw.statusCode = statusCode
	rw.ResponseWriter.WriteHeader(statusCode)
}
