package metrics

import "github.com/prometheus/client_golang/prometheus"

// MailMetrics exposes counters/histograms for template rendering and dispatch.
type MailMetrics struct {
	renderTotal     *prometheus.CounterVec
	dispatchTotal   *prometheus.CounterVec
	dispatchLatency *prometheus.HistogramVec
	templatesStored prometheus.Gauge
}

func NewMailMetrics(reg prometheus.Registerer) *MailMetrics {
	m := &MailMetrics{
		renderTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "templated_mail",
			Subsystem: "render",
			Name:      "total",
			Help:      "Template body renders by field and outcome",
		}, []string{"field", "status"}),
		dispatchTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "templated_mail",
			Subsystem: "dispatch",
			Name:      "total",
			Help:      "Rendered messages handed to the delivery provider",
		}, []string{"provider", "status"}),
		dispatchLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "templated_mail",
			Subsystem: "dispatch",
			Name:      "latency_seconds",
			Help:      "Latency of delivery provider calls",
			Buckets:   prometheus.DefBuckets,
		}, []string{"provider"}),
		templatesStored: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "templated_mail",
			Name:      "templates_stored",
			Help:      "Templates currently held in the store",
		}),
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	reg.MustRegister(m.renderTotal, m.dispatchTotal, m.dispatchLatency, m.templatesStored)
	return m
}

func (m *MailMetrics) ObserveRender(field string, ok bool) {
	if m == nil {
		return
	}
	status := "ok"
	if !ok {
		status = "error"
	}
	m.renderTotal.WithLabelValues(field, status).Inc()
}

func (m *MailMetrics) ObserveDispatch(provider string, accepted bool, seconds float64) {
	if m == nil {
		return
	}
	status := "accepted"
	if !accepted {
		status = "rejected"
	}
	m.dispatchTotal.WithLabelValues(provider, status).Inc()
	m.dispatchLatency.WithLabelValues(provider).Observe(seconds)
}

func (m *MailMetrics) SetTemplatesStored(n int) {
	if m == nil {
		return
	}
	m.templatesStored.Set(float64(n))
}
