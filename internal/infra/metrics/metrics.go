package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics exposes the counters and gauges served on /metrics. The
// financial gauges are refreshed from a snapshot after every mutation.
type Metrics struct {
	Mutations *prometheus.CounterVec
	Imports   prometheus.Counter
	Revenue   prometheus.Gauge
	Debt      prometheus.Gauge
	Students  prometheus.Gauge
}

// New registers the collectors with reg. The server passes the default
// registerer; tests pass a private registry.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Mutations: f.NewCounterVec(prometheus.CounterOpts{
			Name: "edudesk_mutations_total",
			Help: "Store mutations by operation.",
		}, []string{"op"}),
		Imports: f.NewCounter(prometheus.CounterOpts{
			Name: "edudesk_imports_total",
			Help: "Whole-state imports applied.",
		}),
		Revenue: f.NewGauge(prometheus.GaugeOpts{
			Name: "edudesk_revenue_total",
			Help: "All-time realized revenue.",
		}),
		Debt: f.NewGauge(prometheus.GaugeOpts{
			Name: "edudesk_debt_total",
			Help: "All-time uncollected balance.",
		}),
		Students: f.NewGauge(prometheus.GaugeOpts{
			Name: "edudesk_students",
			Help: "Registered students.",
		}),
	}
}
