package agent

import (
	"math"

	"github.com/youryharchenko/go-forager/grid"
	"github.com/youryharchenko/go-forager/vision"
)

// TurnTolerance - максимальна різниця кутів (градуси), за якої агент їде без повороту.
const TurnTolerance = 5.0

// Pose - положення агента: клітинка і кут погляду в градусах [0, 360).
type Pose struct {
	Cell    grid.Cell
	Heading float64
}

// Facing повертає найближчий основний напрямок.
func (p Pose) Facing() vision.Facing {
	return vision.Snap(p.Heading)
}

// Bearing - кут від from до сусідньої клітинки to: схід 0, північ 90.
func Bearing(from, to grid.Cell) float64 {
	dr, dc := to.Row-from.Row, to.Col-from.Col
	deg := math.Atan2(float64(-dr), float64(dc)) * 180 / math.Pi
	return normalize(deg)
}

func normalize(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}

// Drain - ставки розряду батареї за секунду.
type Drain struct {
	Base, Move, Turn float64
	SlowModifier     float64
}

// Motion перетворює голову шляху на дію "повернути, потім їхати".
// Поля експортовані для gob.
type Motion struct {
	Action        Action
	Progress      float64
	Path          []grid.Cell
	TargetHeading float64
}

// Busy - є незавершена дія або залишок шляху.
func (m *Motion) Busy() bool {
	return m.Action != Idle || len(m.Path) > 0
}

// Follow замінює шлях повністю (без латання) і починає перший крок.
func (m *Motion) Follow(pose Pose, steps []grid.Cell) {
	m.Path = steps
	m.Progress = 0
	m.Action = Idle
	m.startNext(pose)
}

// Stop скидає шлях і дію.
func (m *Motion) Stop() {
	m.Path = nil
	m.Progress = 0
	m.Action = Idle
}

func (m *Motion) startNext(pose Pose) {
	if len(m.Path) == 0 {
		m.Action = Idle
		return
	}
	m.TargetHeading = Bearing(pose.Cell, m.Path[0])
	if math.Abs(vision.AngleDiff(pose.Heading, m.TargetHeading)) > TurnTolerance {
		m.Action = Turning
	} else {
		m.Action = Moving
	}
}

// Step просуває поточну дію на dt секунд при швидкості speed (дій за секунду)
// і повертає розряд за цей час. Базовий розряд нараховується і в спокої.
// На болоті весь розряд множиться на SlowModifier.
func (m *Motion) Step(pose *Pose, dt, speed float64, drain Drain, onSlow bool) float64 {
	rate := drain.Base
	switch m.Action {
	case Turning:
		rate += drain.Turn
	case Moving:
		rate += drain.Move
	}
	used := rate * dt
	if onSlow && drain.SlowModifier > 0 {
		used *= drain.SlowModifier
	}

	if m.Action == Idle {
		return used
	}

	m.Progress += speed * dt
	if m.Progress < 1 {
		return used
	}
	m.Progress = math.Mod(m.Progress, 1)

	switch m.Action {
	case Turning:
		pose.Heading = m.TargetHeading
	case Moving:
		if len(m.Path) > 0 {
			pose.Cell = m.Path[0]
			m.Path = m.Path[1:]
		}
	}
	if len(m.Path) == 0 {
		m.Action = Idle
		m.Progress = 0
	} else {
		m.startNext(*pose)
	}
	return used
}
