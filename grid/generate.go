package grid

import (
	"errors"
	"fmt"
	"math/rand"

	"github.com/youryharchenko/go-forager/ai"
)

// ErrNoLayout - генератор не зміг розкласти світ, де всі цілі досяжні з дому.
var ErrNoLayout = errors.New("no reachable layout")

const maxGenerateAttempts = 64

// Стіни не ставимо ближче цієї відстані до дому, щоб агент міг стартувати.
const homeClearance = 2.0

// GenConfig - параметри випадкового світу.
type GenConfig struct {
	Height, Width int
	Targets       int
	Obstacles     int
	SlowCells     int
	SlowCost      float64
	Home          Cell
}

// Generate розкладає стіни, болото і цілі на різних порожніх клітинках.
// Розклад, де хоч одна ціль недосяжна з дому, відкидається і генерується заново.
func Generate(cfg GenConfig, rng *rand.Rand) (*World, error) {
	if rng == nil {
		return nil, errors.New("generate: nil rng")
	}
	for attempt := 0; attempt < maxGenerateAttempts; attempt++ {
		w, err := generateOnce(cfg, rng)
		if err != nil {
			return nil, err
		}
		if allReachable(w) {
			return w, nil
		}
	}
	return nil, fmt.Errorf("%w after %d attempts (%d obstacles on %dx%d)",
		ErrNoLayout, maxGenerateAttempts, cfg.Obstacles, cfg.Height, cfg.Width)
}

func generateOnce(cfg GenConfig, rng *rand.Rand) (*World, error) {
	w, err := NewWorld(cfg.Height, cfg.Width, cfg.Home)
	if err != nil {
		return nil, err
	}
	if cfg.SlowCost > 0 {
		w.SlowCost = cfg.SlowCost
	}

	farFromHome := func(c Cell) bool {
		dr, dc := float64(c.Row-cfg.Home.Row), float64(c.Col-cfg.Home.Col)
		return dr*dr+dc*dc > homeClearance*homeClearance
	}
	if err := scatter(w, rng, cfg.Obstacles, Obstacle, farFromHome); err != nil {
		return nil, err
	}
	if err := scatter(w, rng, cfg.SlowCells, Slow, nil); err != nil {
		return nil, err
	}
	if err := scatter(w, rng, cfg.Targets, Target, nil); err != nil {
		return nil, err
	}
	return w, nil
}

// scatter ставить n клітинок типу k на випадкові порожні місця.
func scatter(w *World, rng *rand.Rand, n int, k Kind, allow func(Cell) bool) error {
	if n <= 0 {
		return nil
	}
	var free []Cell
	for r := 0; r < w.Height(); r++ {
		for c := 0; c < w.Width(); c++ {
			cell := Cell{Row: r, Col: c}
			if w.Cells[r][c] == Empty && (allow == nil || allow(cell)) {
				free = append(free, cell)
			}
		}
	}
	if len(free) < n {
		return fmt.Errorf("%w: %d %s cells requested, %d free", ErrInvalidLayout, n, k, len(free))
	}
	rng.Shuffle(len(free), func(i, j int) { free[i], free[j] = free[j], free[i] })
	for _, cell := range free[:n] {
		if err := w.Set(cell, k); err != nil {
			return err
		}
	}
	return nil
}

func allReachable(w *World) bool {
	dist := ai.Distances[Cell](w.Home(), w)
	for _, g := range w.Gnomes {
		if _, ok := dist[g]; !ok {
			return false
		}
	}
	return true
}

// Diameter повертає найбільшу кількість кроків від дому до досяжної клітинки.
func (w *World) Diameter() int {
	longest := 0
	for _, d := range ai.Distances[Cell](w.Home(), w) {
		longest = max(longest, d)
	}
	return longest
}
