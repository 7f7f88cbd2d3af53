package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups all Prometheus instruments used by the service.
type Metrics struct {
	PartsPerReply      prometheus.Histogram
	TruncatedReplies   prometheus.Counter
	CoalesceStrategies *prometheus.CounterVec
	ConnectorFallbacks *prometheus.CounterVec
	BufferSweeps       prometheus.Counter
	SweptMessages      prometheus.Counter
	SessionEvents      *prometheus.CounterVec
}

func NewMetrics(namespace string) *Metrics {
	return &Metrics{
		PartsPerReply: promauto.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "parts_per_reply",
			Help:      "Number of parts an outgoing reply was segmented into.",
			Buckets:   []float64{1, 2, 3, 4, 5},
		}),
		TruncatedReplies: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "truncated_replies_total",
			Help:      "Replies that lost trailing content to the part cap.",
		}),
		CoalesceStrategies: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "coalesce_strategies_total",
			Help:      "Inbound coalescing runs by join strategy.",
		}, []string{"strategy"}),
		ConnectorFallbacks: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "connector_fallbacks_total",
			Help:      "Deterministic connector fallbacks by reason.",
		}, []string{"reason"}),
		BufferSweeps: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "buffer_sweeps_total",
			Help:      "Maintenance sweeps over the session buffer store.",
		}),
		SweptMessages: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "swept_messages_total",
			Help:      "Buffered messages evicted by maintenance sweeps.",
		}),
		SessionEvents: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "session_events_total",
			Help:      "Session buffer events by type.",
		}, []string{"event"}),
	}
}

func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
