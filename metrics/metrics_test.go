package metrics

import (
	"bytes"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/youryharchenko/go-forager/agent"
	"github.com/youryharchenko/go-forager/config"
	"github.com/youryharchenko/go-forager/grid"
)

func TestObserve(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)
	r := agent.NewRobot(config.Default(), grid.MustParse("H.."))
	r.Battery = 42

	m.Observe(r, agent.TickResult{
		Events: []agent.Event{{Kind: agent.EventDiscovered}, {Kind: agent.EventDiscovered}, {Kind: agent.EventPickedUp}},
		Plans: []agent.PlanRecord{
			{Purpose: "candidate", Reachable: true, Cost: 4},
			{Purpose: "patrol"},
		},
	})
	m.Observe(r, agent.TickResult{})

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Ticks))
	assert.Equal(t, 42.0, testutil.ToFloat64(m.Battery))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.State.WithLabelValues("searching")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.State.WithLabelValues("charging")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Events.WithLabelValues("discovered")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Plans.WithLabelValues("candidate", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Plans.WithLabelValues("patrol", "unreachable")))
	assert.Equal(t, 1, testutil.CollectAndCount(m.PlanCost))
}

func TestObserveCache(t *testing.T) {
	m := New(prometheus.NewRegistry())
	m.ObserveCache(3, 1)
	m.ObserveCache(0, 2)

	assert.Equal(t, 3.0, testutil.ToFloat64(m.PlanCache.WithLabelValues("hit")))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.PlanCache.WithLabelValues("miss")))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.Observe(nil, agent.TickResult{})
		m.ObserveCache(1, 1)
	})
}

func TestDump(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)
	m.Ticks.Add(3)
	m.Events.WithLabelValues("delivered").Inc()
	m.PlanCost.Observe(5)

	var buf bytes.Buffer
	require.NoError(t, Dump(&buf, reg))
	out := buf.String()
	assert.Contains(t, out, "forager_ticks_total 3\n")
	assert.Contains(t, out, `forager_events_total{kind="delivered"} 1`)
	assert.Contains(t, out, "forager_planner_path_cost_count 1\n")
	assert.Contains(t, out, "forager_planner_path_cost_sum 5\n")
}
