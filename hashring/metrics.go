package hashring

import "github.com/prometheus/client_golang/prometheus"

const (
	lookupHit   = "hit"
	lookupEmpty = "empty"
)

// Metrics holds the Prometheus collectors a HashRing reports to.
//
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	lookups    *prometheus.CounterVec
	positions  prometheus.Gauge
	nodes      prometheus.Gauge
	collisions prometheus.Counter
}

// NewMetrics creates the ring collectors and registers them with reg.
// Pass prometheus.DefaultRegisterer to expose them process-wide.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		lookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hashring_lookups_total",
			Help: "Total number of key lookups, by result.",
		}, []string{"result"}),
		positions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "hashring_positions",
			Help: "Current number of virtual node positions on the ring.",
		}),
		nodes: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "hashring_nodes",
			Help: "Current number of distinct physical nodes added to the ring.",
		}),
		collisions: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hashring_position_collisions_total",
			Help: "Total number of virtual node positions whose owner was overwritten.",
		}),
	}
	reg.MustRegister(m.lookups, m.positions, m.nodes, m.collisions)
	return m
}

func (m *Metrics) observeLookup(result string) {
	if m == nil {
		return
	}
	m.lookups.WithLabelValues(result).Inc()
}

func (m *Metrics) observeLayout(positions, nodes, collisions int) {
	if m == nil {
		return
	}
	m.positions.Set(float64(positions))
	m.nodes.Set(float64(nodes))
	m.collisions.Add(float64(collisions))
}
