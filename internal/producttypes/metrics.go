package producttypes

import "github.com/prometheus/client_golang/prometheus"

// Metrics counts product type submissions.
type Metrics struct {
	created     *prometheus.CounterVec
	submissions *prometheus.CounterVec
}

// NewMetrics registers the collectors against registerer.
func NewMetrics(registerer prometheus.Registerer) *Metrics {
	created := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "odyssey_product_types_created_total",
		Help: "Product types created, by kind.",
	}, []string{"kind"})
	submissions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "odyssey_product_type_submissions_total",
		Help: "Product type create submissions, by outcome.",
	}, []string{"outcome"})
	registerer.MustRegister(created, submissions)
	return &Metrics{created: created, submissions: submissions}
}

func (m *Metrics) observe(outcome string, kind Kind) {
	if m == nil {
		return
	}
	m.submissions.WithLabelValues(outcome).Inc()
	if outcome == outcomeCreated {
		m.created.WithLabelValues(string(kind)).Inc()
	}
}
