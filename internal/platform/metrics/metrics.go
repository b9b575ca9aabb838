package metrics

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	MessagesProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "avtobot_messages_processed_total",
		Help: "Chat notifications processed, by webhook type.",
	}, []string{"type"})

	AdsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "avtobot_ads_created_total",
		Help: "Ads successfully created through the sell wizard.",
	})

	CatalogRenders = promauto.NewCounter(prometheus.CounterOpts{
		Name: "avtobot_catalog_renders_total",
		Help: "Catalog pages rendered.",
	})

	HandlerErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "avtobot_handler_errors_total",
		Help: "Errors converted into chat replies, by area.",
	}, []string{"area"})
)

// Router exposes /metrics for Prometheus scraping.
func Router() chi.Router {
	r := chi.NewRouter()
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return r
}
