package observability

import (
	"log"
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	LedgerRowsAppended = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "achadinhos_ledger_rows_appended_total",
			Help: "Linhas gravadas no banco de ofertas",
		},
	)
	LedgerRowsRejected = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "achadinhos_ledger_rows_rejected_total",
			Help: "Ofertas descartadas pelo filtro de qualidade",
		},
	)
	CanonicalOffers = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "achadinhos_canonical_offers",
			Help: "Ofertas únicas após a consolidação",
		},
	)
	FeedItemsWritten = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "achadinhos_feed_items_written_total",
			Help: "Ofertas exportadas para o site",
		},
	)
	FeedRowsSkipped = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "achadinhos_feed_rows_skipped_total",
			Help: "Linhas ignoradas na geração do site, por motivo",
		},
		[]string{"reason"},
	)
	ReconcileRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "achadinhos_reconcile_runs_total",
			Help: "Execuções de consolidação, por resultado",
		},
		[]string{"outcome"},
	)
	APIRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "achadinhos_api_requests_total",
			Help: "Requisições à API de afiliados, por resultado",
		},
		[]string{"result"},
	)
)

var registerOnce sync.Once

// Register adds the collectors to the default registry.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			LedgerRowsAppended,
			LedgerRowsRejected,
			CanonicalOffers,
			FeedItemsWritten,
			FeedRowsSkipped,
			ReconcileRuns,
			APIRequests,
		)
	})
}

// Start serves /metrics on port in the background.
func Start(port string) {
	Register()
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	go func() {
		if err := http.ListenAndServe(":"+port, mux); err != nil {
			log.Printf("[Metrics] Servidor de métricas parou: %v", err)
		}
	}()
}
