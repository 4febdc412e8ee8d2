package sweep

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type metrics struct {
	addressesSwept       prometheus.Counter
	transactionsDetected prometheus.Counter
	confirmationsUpdated prometheus.Counter
	providerFailures     prometheus.Counter

	// Duration of the last full sweep in milliseconds
	sweepDuration prometheus.Gauge
}

func newMetrics(namespace string) *metrics {
	return &metrics{
		addressesSwept: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "addresses_swept_total",
			Help:      "Monitored addresses polled across all sweeps",
		}),
		transactionsDetected: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "transactions_detected_total",
			Help:      "Newly recorded on-chain transactions",
		}),
		confirmationsUpdated: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "confirmations_updated_total",
			Help:      "Known transactions whose confirmation count advanced",
		}),
		providerFailures: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "provider_failures_total",
			Help:      "Address lookups where every provider failed",
		}),
		sweepDuration: promauto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_sweep_duration",
			Help:      "Duration of the last full sweep in milliseconds",
		}),
	}
}
