package sequence

import "github.com/prometheus/client_golang/prometheus"

const (
	statusAllocated = "allocated"
	statusFailed    = "failed"
)

// Metrics records allocation outcomes per kind.
type Metrics struct {
	allocations *prometheus.CounterVec
}

// NewMetrics creates allocation metrics and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		allocations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "bulletin",
			Subsystem: "sequence",
			Name:      "allocations_total",
			Help:      "Identifier allocation attempts by kind and outcome",
		}, []string{"kind", "status"}),
	}
	reg.MustRegister(m.allocations)
	return m
}

func (m *Metrics) observe(kind Kind, status string) {
	if m == nil {
		return
	}
	m.allocations.WithLabelValues(string(kind), status).Inc()
}
