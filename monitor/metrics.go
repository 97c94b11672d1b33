package monitor

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "vaultguard"

type metrics struct {
	events       *prometheus.CounterVec
	decodeErrors prometheus.Counter
	payouts      prometheus.Counter
	refunds      prometheus.Counter
}

func newMetrics(reg prometheus.Registerer) *metrics {
	f := promauto.With(reg)

	return &metrics{
		events: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "events_total",
				Help:      "Total number of processed contract notifications",
			},
			[]string{"event"},
		),
		decodeErrors: f.NewCounter(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "decode_errors_total",
				Help:      "Total number of contract notifications failed to decode",
			},
		),
		payouts: f.NewCounter(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "payouts_amount_total",
				Help:      "Total amount sent to researchers in token fractions",
			},
		),
		refunds: f.NewCounter(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "refunds_amount_total",
				Help:      "Total amount refunded to vault owners in token fractions",
			},
		),
	}
}
