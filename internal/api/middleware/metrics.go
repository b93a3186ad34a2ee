// metrics.go — Prometheus HTTP метрики для Listings Module.
// Регистрирует метрики: lm_http_requests_total, lm_http_request_duration_seconds.
package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP метрики
var (
	// httpRequestsTotal — общее количество HTTP-запросов.
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lm_http_requests_total",
			Help: "Общее количество HTTP-запросов к Listings Module",
		},
		[]string{"method", "path", "status"},
	)

	// httpRequestDuration — гистограмма длительности HTTP-запросов.
	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "lm_http_request_duration_seconds",
			Help:    "Длительность HTTP-запросов к Listings Module в секундах",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)

// MetricsMiddleware возвращает HTTP middleware для сбора Prometheus метрик.
// Записывает количество запросов и длительность для каждого endpoint.
func MetricsMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// Нормализуем путь для лейблов метрик
			// (заменяем идентификаторы на {id} для предотвращения кардинальности)
			normalizedPath := normalizePath(r.URL.Path)

			wrapped := newMetricsResponseWriter(w)
			next.ServeHTTP(wrapped, r)

			duration := time.Since(start).Seconds()
			status := strconv.Itoa(wrapped.statusCode)

			httpRequestsTotal.WithLabelValues(r.Method, normalizedPath, status).Inc()
			httpRequestDuration.WithLabelValues(r.Method, normalizedPath).Observe(duration)
		})
	}
}

// metricsResponseWriter — обёртка для перехвата статус-кода.
type metricsResponseWriter struct {
	http.ResponseWriter
	statusCode int
}

func newMetricsResponseWriter(w http.ResponseWriter) *metricsResponseWriter {
	return &metricsResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}
}

func (rw *metricsResponseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

// Unwrap позволяет http.ResponseController получить доступ к оригинальному ResponseWriter.
func (rw *metricsResponseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}

// normalizePath заменяет идентификаторы в сегментах пути на {id}
// для предотвращения взрывного роста кардинальности метрик.
// /api/v1/properties/42 → /api/v1/properties/{id}
// /api/v1/admin/properties/42/images/3 → /api/v1/admin/properties/{id}/images/{key}
func normalizePath(path string) string {
	// Статические пути — возвращаем как есть
	switch path {
	case "/health/live", "/health/ready", "/metrics",
		"/api/v1/properties",
		"/api/v1/blog",
		"/api/v1/testimonials",
		"/api/v1/agents",
		"/api/v1/contact",
		"/api/v1/admin/properties",
		"/api/v1/admin/blog",
		"/api/v1/admin/testimonials",
		"/api/v1/admin/agents",
		"/api/v1/admin/leads":
		return path
	}

	// Динамические пути с идентификаторами
	prefixes := []struct {
		prefix string
		result string
	}{
		{"/api/v1/admin/properties/", "/api/v1/admin/properties/{id}"},
		{"/api/v1/admin/blog/", "/api/v1/admin/blog/{id}"},
		{"/api/v1/admin/testimonials/", "/api/v1/admin/testimonials/{id}"},
		{"/api/v1/admin/agents/", "/api/v1/admin/agents/{id}"},
		{"/api/v1/properties/", "/api/v1/properties/{id}"},
		{"/api/v1/blog/", "/api/v1/blog/{id}"},
	}

	for _, p := range prefixes {
		if !strings.HasPrefix(path, p.prefix) {
			continue
		}
		rest := path[len(p.prefix):]
		// Суффиксы после идентификатора: /images и /images/{key}
		if i := strings.IndexByte(rest, '/'); i >= 0 {
			switch {
			case rest[i:] == "/images":
				return p.result + "/images"
			case strings.HasPrefix(rest[i:], "/images/"):
				return p.result + "/images/{key}"
			}
		}
		return p.result
	}

	return path
}
