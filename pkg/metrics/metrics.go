package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "reports"

// Metrics instruments report rendering and upstream fetching.
type Metrics struct {
	Renders        *prometheus.CounterVec
	RenderErrors   *prometheus.CounterVec
	RenderLatency  *prometheus.HistogramVec
	Fetches        *prometheus.CounterVec
	CacheHits      *prometheus.CounterVec
	DroppedRecords *prometheus.CounterVec
	ActiveSessions prometheus.Gauge
}

// New registers the report metrics with reg. Pass prometheus.NewRegistry()
// in tests so repeated construction does not collide.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Renders: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "renders_total",
			Help:      "Number of completed report renders",
		}, []string{"report"}),
		RenderErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "render_errors_total",
			Help:      "Number of failed report renders by error kind",
		}, []string{"report", "kind"}),
		RenderLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "render_duration_seconds",
			Help:      "Time spent rendering a report, fetch included",
			Buckets:   prometheus.DefBuckets,
		}, []string{"report"}),
		Fetches: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_fetches_total",
			Help:      "Number of upstream payload fetches",
		}, []string{"report"}),
		CacheHits: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cache_hits_total",
			Help:      "Number of renders served from the session cache",
		}, []string{"report"}),
		DroppedRecords: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "dropped_records_total",
			Help:      "Number of malformed upstream records dropped",
		}, []string{"report"}),
		ActiveSessions: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_sessions",
			Help:      "Number of report sessions held in memory",
		}),
	}
}
