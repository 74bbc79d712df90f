package grid

import (
	"fmt"
	"slices"
	"strings"

	"github.com/youryharchenko/go-forager/planning"
)

// World - справжній стан світу (ground truth).
// Поля експортовані, щоб світ переживав gob-серіалізацію разом з агентом.
type World struct {
	Cells    [][]Kind
	HomeCell Cell
	Gnomes   []Cell

	// SlowCost - вартість кроку в болото для пошуку по справжній карті.
	SlowCost float64
}

// NewWorld створює порожній світ з домом у home.
func NewWorld(height, width int, home Cell) (*World, error) {
	if height <= 0 || width <= 0 {
		return nil, fmt.Errorf("%w: size %dx%d", ErrInvalidLayout, height, width)
	}
	w := &World{
		Cells:    make([][]Kind, height),
		HomeCell: home,
		SlowCost: 1,
	}
	for r := range w.Cells {
		w.Cells[r] = make([]Kind, width)
	}
	if err := w.Bounds().Check(home); err != nil {
		return nil, fmt.Errorf("home: %w", err)
	}
	w.Cells[home.Row][home.Col] = Home
	return w, nil
}

// Parse будує світ з текстової карти: '.' порожньо, '#' стіна, '~' болото,
// 'G' ціль, 'H' дім. Рівно один дім, рядки однакової довжини.
func Parse(layout []string) (*World, error) {
	if len(layout) == 0 || len(layout[0]) == 0 {
		return nil, fmt.Errorf("%w: empty layout", ErrInvalidLayout)
	}
	width := len([]rune(layout[0]))
	w := &World{Cells: make([][]Kind, len(layout)), SlowCost: 1}
	homes := 0
	for r, line := range layout {
		runes := []rune(line)
		if len(runes) != width {
			return nil, fmt.Errorf("%w: row %d has %d cells, want %d", ErrInvalidLayout, r, len(runes), width)
		}
		w.Cells[r] = make([]Kind, width)
		for c, ch := range runes {
			k, ok := KindFromRune(ch)
			if !ok {
				return nil, fmt.Errorf("%w: unknown rune %q at (%d,%d)", ErrInvalidLayout, ch, r, c)
			}
			w.Cells[r][c] = k
			switch k {
			case Home:
				homes++
				w.HomeCell = Cell{Row: r, Col: c}
			case Target:
				w.Gnomes = append(w.Gnomes, Cell{Row: r, Col: c})
			}
		}
	}
	if homes != 1 {
		return nil, fmt.Errorf("%w: %d home cells, want exactly one", ErrInvalidLayout, homes)
	}
	return w, nil
}

// MustParse - як Parse, але панікує. Для тестів і прикладів.
func MustParse(layout ...string) *World {
	w, err := Parse(layout)
	if err != nil {
		panic(err)
	}
	return w
}

func (w *World) Height() int { return len(w.Cells) }

func (w *World) Width() int {
	if len(w.Cells) == 0 {
		return 0
	}
	return len(w.Cells[0])
}

func (w *World) Bounds() Bounds { return Bounds{Height: w.Height(), Width: w.Width()} }

func (w *World) InBounds(c Cell) bool { return w.Bounds().Contains(c) }

func (w *World) Home() Cell { return w.HomeCell }

// Kind повертає тип клітинки. Поза межами - *OutOfBoundsError, без "обрізання".
func (w *World) Kind(c Cell) (Kind, error) {
	if err := w.Bounds().Check(c); err != nil {
		return Empty, err
	}
	return w.Cells[c.Row][c.Col], nil
}

// MustKind панікує на координаті поза сіткою.
func (w *World) MustKind(c Cell) Kind {
	k, err := w.Kind(c)
	if err != nil {
		panic(err)
	}
	return k
}

// Set змінює тип клітинки. Підтримує список цілей у синхроні з сіткою.
func (w *World) Set(c Cell, k Kind) error {
	if err := w.Bounds().Check(c); err != nil {
		return err
	}
	prev := w.Cells[c.Row][c.Col]
	if prev == Home && k != Home {
		return fmt.Errorf("%w: cannot overwrite home at %v", ErrInvalidLayout, c)
	}
	if k == Home && c != w.HomeCell {
		return fmt.Errorf("%w: second home at %v", ErrInvalidLayout, c)
	}
	if prev == Target && k != Target {
		w.Gnomes = slices.DeleteFunc(w.Gnomes, func(g Cell) bool { return g == c })
	}
	if k == Target && prev != Target {
		w.Gnomes = append(w.Gnomes, c)
	}
	w.Cells[c.Row][c.Col] = k
	return nil
}

// Targets повертає копію списку цілей, що лишилися, у порядку появи.
func (w *World) Targets() []Cell {
	return slices.Clone(w.Gnomes)
}

func (w *World) HasTarget(c Cell) bool {
	return slices.Contains(w.Gnomes, c)
}

// RemoveTarget забирає ціль: клітинка стає порожньою.
func (w *World) RemoveTarget(c Cell) error {
	k, err := w.Kind(c)
	if err != nil {
		return err
	}
	if k != Target {
		return fmt.Errorf("%w %v", ErrNoTarget, c)
	}
	return w.Set(c, Empty)
}

// Clone повертає глибоку копію світу.
func (w *World) Clone() *World {
	out := &World{
		Cells:    make([][]Kind, len(w.Cells)),
		HomeCell: w.HomeCell,
		Gnomes:   slices.Clone(w.Gnomes),
		SlowCost: w.SlowCost,
	}
	for r, row := range w.Cells {
		out.Cells[r] = slices.Clone(row)
	}
	return out
}

// String малює світ тими ж рунами, що й Parse.
func (w *World) String() string {
	var b strings.Builder
	for r, row := range w.Cells {
		if r > 0 {
			b.WriteByte('\n')
		}
		for _, k := range row {
			b.WriteRune(k.Rune())
		}
	}
	return b.String()
}

// --- Реалізація planning.Domain[Cell] по справжній карті ---

// Actions повертає рухи у межах світу, що не ведуть у стіну.
func (w *World) Actions(s Cell) []planning.Action {
	var actions []planning.Action
	for _, m := range Moves {
		next := s.Add(m.DR, m.DC)
		if k, err := w.Kind(next); err == nil && k != Obstacle {
			actions = append(actions, m.Name)
		}
	}
	return actions
}

func (w *World) Result(s Cell, a planning.Action) Cell {
	return Step(s, a)
}

func (w *World) StepCost(from Cell, a planning.Action, to Cell) float64 {
	if k, err := w.Kind(to); err == nil && k == Slow && w.SlowCost > 1 {
		return w.SlowCost
	}
	return 1.0
}

// Heuristic повертає Манхеттенську відстань.
func (w *World) Heuristic(from, goal Cell) float64 {
	return float64(from.Manhattan(goal))
}
