// Package metrics експортує лічильники епізоду у Prometheus-колектори.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/youryharchenko/go-forager/agent"
)

const namespace = "forager"

// Metrics - колектори одного або кількох епізодів.
type Metrics struct {
	Ticks     prometheus.Counter
	Battery   prometheus.Gauge
	State     *prometheus.GaugeVec
	Events    *prometheus.CounterVec
	Plans     *prometheus.CounterVec
	PlanCost  prometheus.Histogram
	PlanCache *prometheus.CounterVec
	Known     prometheus.Gauge
}

// New створює колектори і реєструє їх у reg. Реєстрація двічі в одному
// реєстрі панікує, тому в тестах передавайте свіжий prometheus.NewRegistry().
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Ticks: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "ticks_total",
			Help:      "Simulation ticks executed.",
		}),
		Battery: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "battery_level",
			Help:      "Battery level at the end of the last tick.",
		}),
		State: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "state",
			Help:      "1 for the current agent state, 0 otherwise.",
		}, []string{"state"}),
		Events: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_total",
			Help:      "Agent events by kind.",
		}, []string{"kind"}),
		Plans: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "planner",
			Name:      "plans_total",
			Help:      "Planner calls by purpose and result.",
		}, []string{"purpose", "result"}),
		PlanCost: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "planner",
			Name:      "path_cost",
			Help:      "Total terrain cost of reachable plans.",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 8),
		}),
		PlanCache: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "planner",
			Name:      "cache_lookups_total",
			Help:      "Plan cache lookups by result.",
		}, []string{"result"}),
		Known: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "memory_known_cells",
			Help:      "Cells the agent has observed at least once.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.Ticks, m.Battery, m.State, m.Events, m.Plans, m.PlanCost, m.PlanCache, m.Known)
	}
	return m
}

// Observe записує результат тіку.
func (m *Metrics) Observe(r *agent.Robot, res agent.TickResult) {
	if m == nil {
		return
	}
	m.Ticks.Inc()
	m.Battery.Set(r.Battery)
	m.Known.Set(float64(r.Memory.Known()))
	for _, s := range agent.States() {
		v := 0.0
		if s == r.State {
			v = 1
		}
		m.State.WithLabelValues(s.String()).Set(v)
	}
	for _, e := range res.Events {
		m.Events.WithLabelValues(e.Kind.String()).Inc()
	}
	for _, p := range res.Plans {
		result := "unreachable"
		if p.Reachable {
			result = "ok"
			m.PlanCost.Observe(p.Cost)
		}
		m.Plans.WithLabelValues(p.Purpose, result).Inc()
	}
}

// ObserveCache додає приріст влучань і промахів кешу планів за тік.
func (m *Metrics) ObserveCache(hits, misses int) {
	if m == nil {
		return
	}
	m.PlanCache.WithLabelValues("hit").Add(float64(hits))
	m.PlanCache.WithLabelValues("miss").Add(float64(misses))
}
