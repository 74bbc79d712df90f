// Package vision рахує, які клітинки агент бачить зі своєї пози,
// і переносить побачене зі справжнього світу в пам'ять агента.
package vision

import (
	"math"

	"github.com/youryharchenko/go-forager/grid"
	"github.com/youryharchenko/go-forager/memory"
)

// DefaultRange - дальність огляду за Чебишевим.
const DefaultRange = 4

// Facing - один з чотирьох основних напрямків.
type Facing int

const (
	East Facing = iota
	North
	West
	South
)

var facingNames = [...]string{"east", "north", "west", "south"}

func (f Facing) String() string {
	if f < 0 || int(f) >= len(facingNames) {
		return "invalid"
	}
	return facingNames[f]
}

// Degrees повертає кут напрямку: East=0, North=90, West=180, South=270.
func (f Facing) Degrees() float64 {
	return float64(f) * 90
}

// Snap вибирає найближчий основний напрямок за абсолютною кутовою відстанню.
func Snap(deg float64) Facing {
	best, bestDiff := East, math.Inf(1)
	for f := East; f <= South; f++ {
		if d := math.Abs(AngleDiff(f.Degrees(), deg)); d < bestDiff {
			best, bestDiff = f, d
		}
	}
	return best
}

// AngleDiff повертає to - from, зведене до (-180, 180].
func AngleDiff(from, to float64) float64 {
	d := math.Mod(to-from, 360)
	if d <= -180 {
		d += 360
	} else if d > 180 {
		d -= 360
	}
	return d
}

// Offset - зсув (dr, dc) відносно агента.
type Offset struct {
	DR, DC int
}

// Pattern будує конус для погляду на схід: dc >= 1, |dr| <= dc, dc <= rng.
// Порядок: за dc, потім за dr.
func Pattern(rng int) []Offset {
	var out []Offset
	for dc := 1; dc <= rng; dc++ {
		for dr := -dc; dr <= dc; dr++ {
			out = append(out, Offset{DR: dr, DC: dc})
		}
	}
	return out
}

// Rotate повертає східний зсув під напрямок f.
func Rotate(o Offset, f Facing) Offset {
	switch f {
	case North:
		return Offset{DR: -o.DC, DC: o.DR}
	case West:
		return Offset{DR: -o.DR, DC: -o.DC}
	case South:
		return Offset{DR: o.DC, DC: -o.DR}
	}
	return o
}

// Line повертає клітинки прямої Брезенгема від a до b включно з обома кінцями.
func Line(a, b grid.Cell) []grid.Cell {
	r0, c0 := a.Row, a.Col
	dr, dc := abs(b.Row-r0), -abs(b.Col-c0)
	sr, sc := step(r0, b.Row), step(c0, b.Col)
	errAcc := dr + dc

	var out []grid.Cell
	for {
		out = append(out, grid.Cell{Row: r0, Col: c0})
		if r0 == b.Row && c0 == b.Col {
			return out
		}
		e2 := 2 * errAcc
		if e2 >= dc {
			errAcc += dc
			r0 += sr
		}
		if e2 <= dr {
			errAcc += dr
			c0 += sc
		}
	}
}

func step(from, to int) int {
	if from < to {
		return 1
	}
	return -1
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Model - модель зору з наперед повернутими зсувами для кожного напрямку.
type Model struct {
	Range   int
	offsets [4][]Offset
}

// New будує модель з дальністю rng (<= 0 означає DefaultRange).
func New(rng int) *Model {
	if rng <= 0 {
		rng = DefaultRange
	}
	m := &Model{Range: rng}
	base := Pattern(rng)
	for f := East; f <= South; f++ {
		rotated := make([]Offset, len(base))
		for i, o := range base {
			rotated[i] = Rotate(o, f)
		}
		m.offsets[f] = rotated
	}
	return m
}

// Offsets повертає зсуви для напрямку, найближчого до кута heading.
func (m *Model) Offsets(heading float64) []Offset {
	return m.offsets[Snap(heading)]
}

// Visible повертає клітинки конуса в межах сітки, без перевірки прямої видимості.
func (m *Model) Visible(at grid.Cell, heading float64, b grid.Bounds) []grid.Cell {
	var out []grid.Cell
	for _, o := range m.Offsets(heading) {
		c := at.Add(o.DR, o.DC)
		if b.Contains(c) {
			out = append(out, c)
		}
	}
	return out
}

// Sweep записує в пам'ять власну клітинку агента і все, що видно вздовж прямих
// до клітинок конуса. Пряма обривається на першій стіні (сама стіна записується),
// тож клітинки за нею лишаються невідомими. Світ не змінюється.
// Повертає кількість змінених клітинок пам'яті.
func (m *Model) Sweep(world *grid.World, mem *memory.Map, at grid.Cell, heading float64) (int, error) {
	changed := 0
	observe := func(c grid.Cell) (grid.Kind, error) {
		k, err := world.Kind(c)
		if err != nil {
			return k, err
		}
		ok, err := mem.Observe(c, k)
		if ok {
			changed++
		}
		return k, err
	}

	if _, err := observe(at); err != nil {
		return changed, err
	}
	for _, target := range m.Visible(at, heading, world.Bounds()) {
		for _, c := range Line(at, target) {
			k, err := observe(c)
			if err != nil {
				return changed, err
			}
			if k == grid.Obstacle && c != at {
				break
			}
		}
	}
	return changed, nil
}
