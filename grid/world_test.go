package grid

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	w, err := Parse([]string{
		"H..G",
		".#~.",
		"G...",
	})
	require.NoError(t, err)

	assert.Equal(t, 3, w.Height())
	assert.Equal(t, 4, w.Width())
	assert.Equal(t, Cell{0, 0}, w.Home())
	assert.Equal(t, []Cell{{0, 3}, {2, 0}}, w.Targets())
	assert.Equal(t, Obstacle, w.MustKind(Cell{1, 1}))
	assert.Equal(t, Slow, w.MustKind(Cell{1, 2}))
	assert.Equal(t, "H..G\n.#~.\nG...", w.String())
}

func TestParseRejectsBadLayouts(t *testing.T) {
	tests := []struct {
		name   string
		layout []string
	}{
		{"empty", nil},
		{"no home", []string{"...", "..."}},
		{"two homes", []string{"H..", "..H"}},
		{"ragged", []string{"H..", ".."}},
		{"unknown rune", []string{"H.x"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.layout)
			assert.ErrorIs(t, err, ErrInvalidLayout)
		})
	}
}

func TestKindOutOfBounds(t *testing.T) {
	w := MustParse("H.", "..")

	for _, c := range []Cell{{-1, 0}, {0, -1}, {2, 0}, {0, 2}} {
		_, err := w.Kind(c)
		require.ErrorIs(t, err, ErrOutOfBounds, "cell %v", c)

		var oob *OutOfBoundsError
		require.True(t, errors.As(err, &oob))
		assert.Equal(t, c, oob.Cell)
		assert.Equal(t, 2, oob.Height)
	}
	assert.Panics(t, func() { w.MustKind(Cell{5, 5}) })
}

func TestRemoveTarget(t *testing.T) {
	w := MustParse("H.G", "G..")

	require.NoError(t, w.RemoveTarget(Cell{0, 2}))
	assert.Equal(t, Empty, w.MustKind(Cell{0, 2}))
	assert.Equal(t, []Cell{{1, 0}}, w.Targets())
	assert.False(t, w.HasTarget(Cell{0, 2}))

	assert.ErrorIs(t, w.RemoveTarget(Cell{0, 2}), ErrNoTarget)
	assert.ErrorIs(t, w.RemoveTarget(Cell{0, 0}), ErrNoTarget)
	assert.ErrorIs(t, w.RemoveTarget(Cell{9, 9}), ErrOutOfBounds)
}

func TestSetKeepsTargetsAndHome(t *testing.T) {
	w := MustParse("H..", "...")

	require.NoError(t, w.Set(Cell{1, 1}, Target))
	require.NoError(t, w.Set(Cell{1, 1}, Target))
	assert.Equal(t, []Cell{{1, 1}}, w.Targets())

	require.NoError(t, w.Set(Cell{1, 1}, Obstacle))
	assert.Empty(t, w.Targets())

	assert.ErrorIs(t, w.Set(Cell{0, 0}, Empty), ErrInvalidLayout)
	assert.ErrorIs(t, w.Set(Cell{1, 2}, Home), ErrInvalidLayout)
}

func TestCloneIsDeep(t *testing.T) {
	w := MustParse("H.G")
	c := w.Clone()
	require.NoError(t, c.RemoveTarget(Cell{0, 2}))

	assert.True(t, w.HasTarget(Cell{0, 2}))
	assert.Equal(t, Target, w.MustKind(Cell{0, 2}))
}

func TestDomain(t *testing.T) {
	w := MustParse(
		"H~.",
		"#..",
	)
	w.SlowCost = 8

	assert.ElementsMatch(t, []string{"RIGHT"}, actionNames(w, Cell{0, 0}))
	assert.ElementsMatch(t, []string{"RIGHT", "LEFT", "DOWN"}, actionNames(w, Cell{0, 1}))
	assert.Equal(t, Cell{0, 1}, w.Result(Cell{0, 0}, "RIGHT"))
	assert.Equal(t, 8.0, w.StepCost(Cell{0, 0}, "RIGHT", Cell{0, 1}))
	assert.Equal(t, 1.0, w.StepCost(Cell{0, 1}, "RIGHT", Cell{0, 2}))
	assert.Equal(t, 3.0, w.Heuristic(Cell{0, 0}, Cell{1, 2}))

	w.SlowCost = 1
	assert.Equal(t, 1.0, w.StepCost(Cell{0, 0}, "RIGHT", Cell{0, 1}))
}

func actionNames(w *World, c Cell) []string {
	var out []string
	for _, a := range w.Actions(c) {
		out = append(out, string(a))
	}
	return out
}

func TestStepAndManhattan(t *testing.T) {
	c := Cell{2, 2}
	assert.Equal(t, Cell{2, 3}, Step(c, "RIGHT"))
	assert.Equal(t, Cell{2, 1}, Step(c, "LEFT"))
	assert.Equal(t, Cell{3, 2}, Step(c, "DOWN"))
	assert.Equal(t, Cell{1, 2}, Step(c, "UP"))
	assert.Equal(t, c, Step(c, "JUMP"))
	assert.Equal(t, 5, Cell{0, 0}.Manhattan(Cell{-2, 3}))
	assert.True(t, c.Equals(Cell{2, 2}))
	assert.Equal(t, "(2,2)", c.String())
}

func TestGenerate(t *testing.T) {
	cfg := GenConfig{Height: 10, Width: 10, Targets: 10, Obstacles: 15, SlowCells: 20, SlowCost: 8}

	for seed := int64(1); seed <= 20; seed++ {
		w, err := Generate(cfg, rand.New(rand.NewSource(seed)))
		require.NoError(t, err, "seed %d", seed)

		counts := map[Kind]int{}
		for r := range w.Cells {
			for c := range w.Cells[r] {
				k := w.Cells[r][c]
				counts[k]++
				if k == Obstacle {
					dr, dc := r-cfg.Home.Row, c-cfg.Home.Col
					assert.Greater(t, dr*dr+dc*dc, 4, "obstacle too close to home at (%d,%d)", r, c)
				}
			}
		}
		assert.Equal(t, 15, counts[Obstacle])
		assert.Equal(t, 20, counts[Slow])
		assert.Equal(t, 10, counts[Target])
		assert.Equal(t, 1, counts[Home])
		assert.Len(t, w.Targets(), 10)
		assert.Equal(t, 8.0, w.SlowCost)
		assert.True(t, allReachable(w))
	}
}

func TestGenerateDeterministic(t *testing.T) {
	cfg := GenConfig{Height: 8, Width: 12, Targets: 5, Obstacles: 10, SlowCells: 5}
	a, err := Generate(cfg, rand.New(rand.NewSource(42)))
	require.NoError(t, err)
	b, err := Generate(cfg, rand.New(rand.NewSource(42)))
	require.NoError(t, err)
	assert.Equal(t, a.String(), b.String())
}

func TestGenerateErrors(t *testing.T) {
	_, err := Generate(GenConfig{Height: 3, Width: 3, Targets: 20}, rand.New(rand.NewSource(1)))
	assert.ErrorIs(t, err, ErrInvalidLayout)

	_, err = Generate(GenConfig{Height: 3, Width: 3}, nil)
	assert.Error(t, err)
}

func TestDiameter(t *testing.T) {
	w := MustParse(
		"H.#.",
		"..#.",
		"....",
	)
	// Найдальша клітинка (0,3): вниз, праворуч по нижньому рядку, вгору.
	assert.Equal(t, 7, w.Diameter())
}
