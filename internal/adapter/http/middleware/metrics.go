package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/iho/gopay/internal/infrastructure/metrics"
)

// Metrics records request counts and durations for every route.
func Metrics(m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// Wrap response writer to capture status code
			wrapped := &metricsRecorder{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(wrapped, r)

			duration := time.Since(start).Seconds()
			path := normalizePath(r.URL.Path)

			m.HTTPRequests.WithLabelValues(r.Method, path, strconv.Itoa(wrapped.statusCode)).Inc()
			m.HTTPDuration.WithLabelValues(r.Method, path).Observe(duration)
		})
	}
}

type metricsRecorder struct {
	http.ResponseWriter

	statusCode int
}

func (r *metricsRecorder) WriteHeader(code int) {
	r.statusCode = code
	r.ResponseWriter.WriteHeader(code)
}

const transactionsPrefix = "/api/v1/transactions/"

// normalizePath collapses transaction IDs so the path label stays
// low-cardinality: /api/v1/transactions/01ABC -> /api/v1/transactions/:id.
func normalizePath(path string) string {
	if rest, ok := strings.CutPrefix(path, transactionsPrefix); ok && rest != "" {
		if i := strings.IndexByte(rest, '/'); i >= 0 {
			return transactionsPrefix + ":id" + rest[i:]
		}

		return transactionsPrefix + ":id"
	}

	return path
}
