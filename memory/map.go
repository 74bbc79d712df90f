// Package memory тримає карту переконань агента: те, що він бачив сам.
// Планувальник працює лише з нею і ніколи зі справжнім світом.
package memory

import (
	"slices"
	"strings"

	"github.com/youryharchenko/go-forager/grid"
	"github.com/youryharchenko/go-forager/planning"
)

// Value - що агент пам'ятає про клітинку.
type Value int

const (
	Unknown Value = iota
	Empty
	Obstacle
	Target
	Home
	Slow
)

var valueNames = [...]string{"unknown", "empty", "obstacle", "target", "home", "slow"}

func (v Value) String() string {
	if v < 0 || int(v) >= len(valueNames) {
		return "invalid"
	}
	return valueNames[v]
}

// Rune повертає символ для текстової карти; невідоме - пробіл.
func (v Value) Rune() rune {
	if v == Unknown {
		return ' '
	}
	return v.kind().Rune()
}

// kind спирається на однаковий порядок Value (після Unknown) і grid.Kind.
func (v Value) kind() grid.Kind {
	return grid.Kind(v - 1)
}

// FromKind переводить справжній тип клітинки у значення пам'яті.
func FromKind(k grid.Kind) Value {
	switch k {
	case grid.Empty:
		return Empty
	case grid.Obstacle:
		return Obstacle
	case grid.Target:
		return Target
	case grid.Home:
		return Home
	case grid.Slow:
		return Slow
	}
	return Unknown
}

// Map - частково спостережена сітка. Поля експортовані для gob.
type Map struct {
	Cells [][]Value
	Rev   uint64

	// SlowCost - вартість кроку в болото під час планування.
	SlowCost float64
}

// New створює карту height x width, де все невідоме.
func New(height, width int, slowCost float64) *Map {
	m := &Map{Cells: make([][]Value, height), SlowCost: slowCost}
	for r := range m.Cells {
		m.Cells[r] = make([]Value, width)
	}
	return m
}

func (m *Map) Height() int { return len(m.Cells) }

func (m *Map) Width() int {
	if len(m.Cells) == 0 {
		return 0
	}
	return len(m.Cells[0])
}

func (m *Map) Bounds() grid.Bounds { return grid.Bounds{Height: m.Height(), Width: m.Width()} }

// Get повертає значення клітинки або *grid.OutOfBoundsError.
func (m *Map) Get(c grid.Cell) (Value, error) {
	if err := m.Bounds().Check(c); err != nil {
		return Unknown, err
	}
	return m.Cells[c.Row][c.Col], nil
}

// Observe записує побачений справжній тип клітинки.
// Повертає true, якщо пам'ять змінилася.
func (m *Map) Observe(c grid.Cell, k grid.Kind) (bool, error) {
	return m.set(c, FromKind(k))
}

// Collect позначає зібрану ціль порожньою клітинкою.
func (m *Map) Collect(c grid.Cell) error {
	_, err := m.set(c, Empty)
	return err
}

func (m *Map) set(c grid.Cell, v Value) (bool, error) {
	if err := m.Bounds().Check(c); err != nil {
		return false, err
	}
	if m.Cells[c.Row][c.Col] == v {
		return false, nil
	}
	m.Cells[c.Row][c.Col] = v
	m.Rev++
	return true, nil
}

// Known рахує клітинки, про які агент щось знає.
func (m *Map) Known() int {
	n := 0
	for _, row := range m.Cells {
		for _, v := range row {
			if v != Unknown {
				n++
			}
		}
	}
	return n
}

// Revision реалізує planning.Versioned.
func (m *Map) Revision() uint64 { return m.Rev }

// Rows повертає глибоку копію сітки (для знімків телеметрії).
func (m *Map) Rows() [][]Value {
	out := make([][]Value, len(m.Cells))
	for r, row := range m.Cells {
		out[r] = slices.Clone(row)
	}
	return out
}

func (m *Map) Clone() *Map {
	return &Map{Cells: m.Rows(), Rev: m.Rev, SlowCost: m.SlowCost}
}

func (m *Map) String() string {
	return Render(m.Cells)
}

// Render малює сітку пам'яті рядками.
func Render(rows [][]Value) string {
	var b strings.Builder
	for r, row := range rows {
		if r > 0 {
			b.WriteByte('\n')
		}
		for _, v := range row {
			b.WriteRune(v.Rune())
		}
	}
	return b.String()
}

// --- Реалізація planning.Domain[grid.Cell] (сітка вартостей) ---

// passable: невідоме і стіни ніколи не розкриваються.
func (m *Map) passable(c grid.Cell) bool {
	v, err := m.Get(c)
	return err == nil && v != Unknown && v != Obstacle
}

func (m *Map) Actions(s grid.Cell) []planning.Action {
	var actions []planning.Action
	for _, mv := range grid.Moves {
		if m.passable(s.Add(mv.DR, mv.DC)) {
			actions = append(actions, mv.Name)
		}
	}
	return actions
}

func (m *Map) Result(s grid.Cell, a planning.Action) grid.Cell {
	return grid.Step(s, a)
}

// StepCost: 1 для звичайних клітинок, дому і цілей, SlowCost для болота.
func (m *Map) StepCost(from grid.Cell, a planning.Action, to grid.Cell) float64 {
	if v, err := m.Get(to); err == nil && v == Slow && m.SlowCost > 1 {
		return m.SlowCost
	}
	return 1.0
}

func (m *Map) Heuristic(from, goal grid.Cell) float64 {
	return float64(from.Manhattan(goal))
}
