package observability

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// analysis service.
type Metrics struct {
	AnalysesTotal    *prometheus.CounterVec   // labels: kind={point,aoi}, status
	AnalysisDuration *prometheus.HistogramVec // labels: kind={point,aoi}
	ServiceReady     prometheus.Gauge

	// Backend request metrics.
	BackendRequests *prometheus.CounterVec // labels: service={wcs,wfs}, outcome={success,error,unreachable}
	ClipFallbacks   prometheus.Counter

	// Spatial gate metrics.
	MembershipChecks *prometheus.CounterVec // labels: outcome={inside,outside,skipped,error}
	MembershipCache  *prometheus.CounterVec // labels: result={hit,miss}

	// Audit trail metrics.
	AuditPublished prometheus.Counter
	AuditErrors    prometheus.Counter
}

// NewMetrics creates and registers all service metrics with the default
// Prometheus registry.
func NewMetrics() *Metrics {
	m := &Metrics{
		AnalysesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "heatlens",
			Name:      "analyses_total",
			Help:      "Completed analyses by kind and terminal status.",
		}, []string{"kind", "status"}),
		AnalysisDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "heatlens",
			Name:      "analysis_duration_seconds",
			Help:      "End-to-end analysis duration in seconds.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}, []string{"kind"}),
		ServiceReady: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "heatlens",
			Name:      "service_ready",
			Help:      "1 when the raster backend is reachable, 0 otherwise.",
		}),
		BackendRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "heatlens",
			Name:      "backend_requests_total",
			Help:      "GeoServer requests by service and outcome.",
		}, []string{"service", "outcome"}),
		ClipFallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "heatlens",
			Name:      "clip_fallbacks_total",
			Help:      "Polygon clip requests that fell back to a bounding box subset.",
		}),
		MembershipChecks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "heatlens",
			Name:      "membership_checks_total",
			Help:      "Spatial gate membership checks by outcome.",
		}, []string{"outcome"}),
		MembershipCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "heatlens",
			Name:      "membership_cache_total",
			Help:      "Membership cache lookups by result.",
		}, []string{"result"}),
		AuditPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "heatlens",
			Name:      "audit_published_total",
			Help:      "Audit events successfully published to Kafka.",
		}),
		AuditErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "heatlens",
			Name:      "audit_errors_total",
			Help:      "Audit events that failed to publish.",
		}),
	}

	prometheus.MustRegister(
		m.AnalysesTotal,
		m.AnalysisDuration,
		m.ServiceReady,
		m.BackendRequests,
		m.ClipFallbacks,
		m.MembershipChecks,
		m.MembershipCache,
		m.AuditPublished,
		m.AuditErrors,
	)

	return m
}

// NewMetricsForTesting creates Metrics with a fresh registry to avoid
// "already registered" panics when called from multiple tests.
func NewMetricsForTesting() *Metrics {
	return &Metrics{
		AnalysesTotal:    prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "heatlens", Name: "analyses_total"}, []string{"kind", "status"}),
		AnalysisDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: "heatlens", Name: "analysis_duration_seconds"}, []string{"kind"}),
		ServiceReady:     prometheus.NewGauge(prometheus.GaugeOpts{Namespace: "heatlens", Name: "service_ready"}),
		BackendRequests:  prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "heatlens", Name: "backend_requests_total"}, []string{"service", "outcome"}),
		ClipFallbacks:    prometheus.NewCounter(prometheus.CounterOpts{Namespace: "heatlens", Name: "clip_fallbacks_total"}),
		MembershipChecks: prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "heatlens", Name: "membership_checks_total"}, []string{"outcome"}),
		MembershipCache:  prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: "heatlens", Name: "membership_cache_total"}, []string{"result"}),
		AuditPublished:   prometheus.NewCounter(prometheus.CounterOpts{Namespace: "heatlens", Name: "audit_published_total"}),
		AuditErrors:      prometheus.NewCounter(prometheus.CounterOpts{Namespace: "heatlens", Name: "audit_errors_total"}),
	}
}
