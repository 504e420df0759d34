package server

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics counts invoice creation outcomes and latency.
type Metrics struct {
	invoicesCreated *prometheus.CounterVec
	invoiceDuration prometheus.Histogram
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		invoicesCreated: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "billhive",
			Name:      "invoices_created_total",
			Help:      "Invoice creation attempts by outcome.",
		}, []string{"outcome"}),
		invoiceDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "billhive",
			Name:      "invoice_create_duration_seconds",
			Help:      "Latency of the invoice creation transaction.",
			Buckets:   prometheus.DefBuckets,
		}),
	}
}

func (m *Metrics) ObserveInvoiceCreate(start time.Time, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.invoicesCreated.WithLabelValues(outcome).Inc()
	m.invoiceDuration.Observe(time.Since(start).Seconds())
}
