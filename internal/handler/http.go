package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/mmeshcher/orderdesk/internal/middleware"
)

// Resources перечисляет ресурсы API, учитываемые в метриках по отдельности.
var Resources = []string{"users", "tokens", "menu", "shoppingcarts", "orders"}

// NewHTTPHandler собирает HTTP-сервер: middleware chi, /metrics и таблицу
// маршрутов api для всех остальных путей. metrics может быть nil.
func NewHTTPHandler(api http.Handler, logger *zap.Logger, metrics *middleware.Metrics, gatherer prometheus.Gatherer) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.GzipMiddleware)
	if metrics != nil {
		r.Use(metrics.Middleware)
	}

	if gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Handle("/*", api)

	return r
}
