package lending

import "github.com/prometheus/client_golang/prometheus"

// Outcome labels for the transitions counter.
const (
	outcomeOK       = "ok"
	outcomeNotFound = "not_found"
	outcomeConflict = "conflict"
	outcomeError    = "error"
)

// Metrics counts transition attempts by action and outcome.
type Metrics struct {
	transitions *prometheus.CounterVec
}

// NewMetrics registers the lending collectors with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "shareit_transitions_total",
			Help: "Borrow and return attempts by outcome.",
		}, []string{"action", "outcome"}),
	}
	reg.MustRegister(m.transitions)
	return m
}

func (m *Metrics) observe(action, outcome string) {
	if m == nil {
		return
	}
	m.transitions.WithLabelValues(action, outcome).Inc()
}
