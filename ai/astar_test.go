package ai_test

import (
	"container/heap"
	"context"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/youryharchenko/go-forager/ai"
	"github.com/youryharchenko/go-forager/grid"
	"github.com/youryharchenko/go-forager/memory"
	"github.com/youryharchenko/go-forager/planning"
)

// dijkstra - еталон без евристики і без черги з пріоритетами, O(V^2).
func dijkstra(d planning.Domain[grid.Cell], start, goal grid.Cell) (float64, bool) {
	dist := map[grid.Cell]float64{start: 0}
	done := map[grid.Cell]bool{}
	for {
		best, bestD, found := grid.Cell{}, math.Inf(1), false
		for c, v := range dist {
			if !done[c] && v < bestD {
				best, bestD, found = c, v, true
			}
		}
		if !found {
			return 0, false
		}
		if best == goal {
			return bestD, true
		}
		done[best] = true
		for _, a := range d.Actions(best) {
			next := d.Result(best, a)
			nd := bestD + d.StepCost(best, a, next)
			if old, ok := dist[next]; !ok || nd < old {
				dist[next] = nd
			}
		}
	}
}

func observeAll(w *grid.World) *memory.Map {
	m := memory.New(w.Height(), w.Width(), w.SlowCost)
	for r := range w.Cells {
		for c := range w.Cells[r] {
			cell := grid.Cell{Row: r, Col: c}
			_, _ = m.Observe(cell, w.MustKind(cell))
		}
	}
	return m
}

// checkPath перевіряє, що шлях - ланцюжок сусідніх прохідних клітинок з чесною вартістю.
func checkPath(t *testing.T, d planning.Domain[grid.Cell], path planning.Path[grid.Cell], start, goal grid.Cell) {
	t.Helper()
	require.NotEmpty(t, path.States)
	assert.Equal(t, start, path.States[0])
	assert.Equal(t, goal, path.States[len(path.States)-1])

	cost := 0.0
	for i := 1; i < len(path.States); i++ {
		from, to := path.States[i-1], path.States[i]
		require.Equal(t, 1, from.Manhattan(to), "step %v -> %v", from, to)
		var step planning.Action
		for _, a := range d.Actions(from) {
			if d.Result(from, a) == to {
				step = a
			}
		}
		require.NotEmpty(t, step, "%v is not passable from %v", to, from)
		cost += d.StepCost(from, step, to)
	}
	assert.InDelta(t, cost, path.Cost, 1e-9)
}

func TestAStarMatchesDijkstra(t *testing.T) {
	cfg := grid.GenConfig{Height: 8, Width: 9, Targets: 6, Obstacles: 18, SlowCells: 14, SlowCost: 8}
	planner := ai.NewAStar[grid.Cell]()

	for seed := int64(1); seed <= 25; seed++ {
		w, err := grid.Generate(cfg, rand.New(rand.NewSource(seed)))
		require.NoError(t, err)

		for _, domain := range []planning.Domain[grid.Cell]{w, observeAll(w)} {
			for _, goal := range w.Targets() {
				want, ok := dijkstra(domain, w.Home(), goal)
				require.True(t, ok, "seed %d: generator promised %v reachable", seed, goal)

				path, err := planner.MakePlan(context.Background(), w.Home(), goal, domain)
				require.NoError(t, err)
				assert.InDelta(t, want, path.Cost, 1e-9, "seed %d goal %v", seed, goal)
				checkPath(t, domain, path, w.Home(), goal)
			}
		}
	}
}

func TestAStarStartIsGoal(t *testing.T) {
	w := grid.MustParse("H..")
	path, err := ai.NewAStar[grid.Cell]().MakePlan(context.Background(), w.Home(), w.Home(), w)
	require.NoError(t, err)
	assert.Equal(t, []grid.Cell{w.Home()}, path.States)
	assert.Zero(t, path.Cost)
	assert.Empty(t, path.Steps())
	assert.Zero(t, path.Len())
}

func TestAStarTieBreakIsInsertionOrder(t *testing.T) {
	w := grid.MustParse(
		"H..",
		"...",
		"...",
	)
	planner := ai.NewAStar[grid.Cell]()
	want := []grid.Cell{{Row: 0, Col: 0}, {Row: 0, Col: 1}, {Row: 0, Col: 2}, {Row: 1, Col: 2}, {Row: 2, Col: 2}}

	for range 5 {
		path, err := planner.MakePlan(context.Background(), grid.Cell{Row: 0, Col: 0}, grid.Cell{Row: 2, Col: 2}, w)
		require.NoError(t, err)
		assert.Equal(t, want, path.States)
		assert.Equal(t, 4.0, path.Cost)
	}
}

func TestAStarPrefersCheaperDetour(t *testing.T) {
	w := grid.MustParse(
		"H~G",
		"...",
	)
	w.SlowCost = 8
	path, err := ai.NewAStar[grid.Cell]().MakePlan(context.Background(), grid.Cell{Row: 0, Col: 0}, grid.Cell{Row: 0, Col: 2}, w)
	require.NoError(t, err)
	assert.Equal(t, 4.0, path.Cost)
	assert.NotContains(t, path.States, grid.Cell{Row: 0, Col: 1})

	w.SlowCost = 1
	path, err = ai.NewAStar[grid.Cell]().MakePlan(context.Background(), grid.Cell{Row: 0, Col: 0}, grid.Cell{Row: 0, Col: 2}, w)
	require.NoError(t, err)
	assert.Equal(t, 2.0, path.Cost)
}

func TestAStarUnreachable(t *testing.T) {
	w := grid.MustParse(
		"H.#.",
		"..#G",
		"..#.",
	)
	_, err := ai.NewAStar[grid.Cell]().MakePlan(context.Background(), w.Home(), grid.Cell{Row: 1, Col: 3}, w)
	assert.ErrorIs(t, err, ai.ErrUnreachable)

	// Мета у невідомій клітинці недосяжна по пам'яті.
	m := memory.New(3, 4, 1)
	_, _ = m.Observe(grid.Cell{Row: 0, Col: 0}, grid.Home)
	_, _ = m.Observe(grid.Cell{Row: 0, Col: 1}, grid.Empty)
	_, err = ai.NewAStar[grid.Cell]().MakePlan(context.Background(), grid.Cell{Row: 0, Col: 0}, grid.Cell{Row: 0, Col: 3}, m)
	assert.ErrorIs(t, err, ai.ErrUnreachable)
}

func TestAStarCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	w := grid.MustParse("H...", "....")
	_, err := ai.NewAStar[grid.Cell]().MakePlan(ctx, w.Home(), grid.Cell{Row: 1, Col: 3}, w)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAStarNeverExpandsBlockedCells(t *testing.T) {
	w, err := grid.Generate(grid.GenConfig{Height: 10, Width: 10, Targets: 4, Obstacles: 20, SlowCells: 10, SlowCost: 8},
		rand.New(rand.NewSource(7)))
	require.NoError(t, err)

	// Пам'ять знає лише ліву половину світу.
	m := memory.New(w.Height(), w.Width(), w.SlowCost)
	for r := range w.Cells {
		for c := 0; c < w.Width()/2; c++ {
			cell := grid.Cell{Row: r, Col: c}
			_, _ = m.Observe(cell, w.MustKind(cell))
		}
	}

	trace := ai.NewTrace[grid.Cell]()
	planner := &ai.AStar[grid.Cell]{Trace: trace}
	for r := range w.Height() {
		for c := range w.Width() {
			_, _ = planner.MakePlan(context.Background(), w.Home(), grid.Cell{Row: r, Col: c}, m)
		}
	}

	var states []grid.Cell
	trace.Range(func(key, _ any) bool {
		states = append(states, key.(grid.Cell))
		return true
	})
	require.NotEmpty(t, states)
	for _, s := range states {
		v, err := m.Get(s)
		require.NoError(t, err)
		assert.NotEqual(t, memory.Unknown, v, "expanded unknown %v", s)
		assert.NotEqual(t, memory.Obstacle, v, "expanded obstacle %v", s)
	}
	assert.True(t, trace.HasVisited(w.Home()))

	trace.Clear()
	assert.False(t, trace.HasVisited(w.Home()))
}

// node - стан маленького графа для перевірки decrease-key.
type node string

func (n node) String() string               { return string(n) }
func (n node) Equals(o planning.State) bool { return o == planning.State(n) }

type edge struct {
	to   node
	cost float64
}

type graph map[node][]edge

func (g graph) Actions(s node) []planning.Action {
	var out []planning.Action
	for _, e := range g[s] {
		out = append(out, planning.Action(e.to))
	}
	return out
}
func (g graph) Result(s node, a planning.Action) node { return node(a) }
func (g graph) StepCost(from node, a planning.Action, to node) float64 {
	for _, e := range g[from] {
		if e.to == to {
			return e.cost
		}
	}
	return math.Inf(1)
}
func (g graph) Heuristic(from, goal node) float64 { return 0 }

func TestAStarDecreaseKey(t *testing.T) {
	g := graph{
		"S": {{"A", 5}, {"B", 1}},
		"B": {{"A", 1}},
		"A": {{"G", 1}},
	}
	planner := ai.NewAStar[node]()
	path, err := planner.MakePlan(context.Background(), "S", "G", g)
	require.NoError(t, err)
	assert.Equal(t, []node{"S", "B", "A", "G"}, path.States)
	assert.Equal(t, 3.0, path.Cost)
	// A розкрито один раз: оновлення пріоритету не дублює вузол у черзі.
	assert.Equal(t, 3, planner.Expanded)
}

func TestPriorityQueueOrder(t *testing.T) {
	pq := ai.PriorityQueue[string]{}
	items := []*ai.Item[string]{
		{Value: "late-low", Priority: 1, Seq: 3},
		{Value: "high", Priority: 5, Seq: 0},
		{Value: "early-low", Priority: 1, Seq: 1},
		{Value: "mid", Priority: 2, Seq: 2},
	}
	for _, it := range items {
		heap.Push(&pq, it)
	}
	items[1].Priority = 0
	heap.Fix(&pq, items[1].Index)

	var got []string
	for pq.Len() > 0 {
		got = append(got, heap.Pop(&pq).(*ai.Item[string]).Value)
	}
	assert.Equal(t, []string{"high", "early-low", "late-low", "mid"}, got)
}

func TestDistances(t *testing.T) {
	w := grid.MustParse(
		"H~#.",
		"..#.",
	)
	d := ai.Distances[grid.Cell](w.Home(), w)
	assert.Equal(t, map[grid.Cell]int{
		{Row: 0, Col: 0}: 0, {Row: 0, Col: 1}: 1, {Row: 1, Col: 0}: 1, {Row: 1, Col: 1}: 2,
	}, d)
}
