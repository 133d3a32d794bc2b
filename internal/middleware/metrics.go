package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

const otherResource = "other"

// Metrics собирает счётчик и гистограмму длительности HTTP-запросов
// в разрезе ресурса, метода и статуса.
type Metrics struct {
	requests  *prometheus.CounterVec
	latency   *prometheus.HistogramVec
	resources map[string]struct{}
}

// NewMetrics регистрирует метрики в reg. Ресурсы вне списка resources
// учитываются под меткой "other".
func NewMetrics(reg prometheus.Registerer, resources ...string) (*Metrics, error) {
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "orderdesk",
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests.",
	}, []string{"resource", "method", "status"})
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "orderdesk",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency in seconds.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"resource", "method"})

	if err := reg.Register(requests); err != nil {
		return nil, err
	}
	if err := reg.Register(latency); err != nil {
		return nil, err
	}

	known := make(map[string]struct{}, len(resources))
	for _, r := range resources {
		known[r] = struct{}{}
	}

	return &Metrics{requests: requests, latency: latency, resources: known}, nil
}

// Middleware возвращает middleware, обновляющее метрики после каждого запроса.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		resource := m.resource(r.URL.Path)
		method := strings.ToLower(r.Method)

		m.requests.WithLabelValues(resource, method, strconv.Itoa(status)).Inc()
		m.latency.WithLabelValues(resource, method).Observe(time.Since(start).Seconds())
	})
}

func (m *Metrics) resource(path string) string {
	path = strings.Trim(path, "/")
	if i := strings.IndexByte(path, '/'); i >= 0 {
		path = path[:i]
	}
	if _, ok := m.resources[path]; ok {
		return path
	}
	return otherResource
}
