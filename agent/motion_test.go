package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/youryharchenko/go-forager/grid"
	"github.com/youryharchenko/go-forager/vision"
)

func cell(r, c int) grid.Cell { return grid.Cell{Row: r, Col: c} }

func TestBearing(t *testing.T) {
	from := cell(5, 5)
	assert.Equal(t, 0.0, Bearing(from, cell(5, 6)))
	assert.Equal(t, 90.0, Bearing(from, cell(4, 5)))
	assert.Equal(t, 180.0, Bearing(from, cell(5, 4)))
	assert.Equal(t, 270.0, Bearing(from, cell(6, 5)))
}

func TestMotionTurnThenMove(t *testing.T) {
	pose := Pose{Cell: cell(0, 0), Heading: vision.East.Degrees()}
	drain := Drain{Base: 0.05, Move: 2, Turn: 1, SlowModifier: 3}
	var m Motion

	m.Follow(pose, []grid.Cell{cell(1, 0), cell(2, 0)})
	require.Equal(t, Turning, m.Action)
	assert.True(t, m.Busy())

	// Чотири тіки по 0.25 с при швидкості 4 - одна дія за тік.
	used := m.Step(&pose, 0.25, 4, drain, false)
	assert.InDelta(t, (0.05+1)*0.25, used, 1e-12)
	assert.Equal(t, 270.0, pose.Heading)
	assert.Equal(t, vision.South, pose.Facing())
	assert.Equal(t, Moving, m.Action, "already facing the next cell")

	used = m.Step(&pose, 0.25, 4, drain, false)
	assert.InDelta(t, (0.05+2)*0.25, used, 1e-12)
	assert.Equal(t, cell(1, 0), pose.Cell)
	assert.Equal(t, Moving, m.Action)

	used = m.Step(&pose, 0.25, 4, drain, true)
	assert.InDelta(t, (0.05+2)*0.25*3, used, 1e-12, "slow terrain multiplies the whole drain")
	assert.Equal(t, cell(2, 0), pose.Cell)
	assert.Equal(t, Idle, m.Action)
	assert.False(t, m.Busy())

	used = m.Step(&pose, 0.25, 4, drain, false)
	assert.InDelta(t, 0.05*0.25, used, 1e-12, "base drain applies while idle")
	assert.Equal(t, cell(2, 0), pose.Cell)
}

func TestMotionPartialProgress(t *testing.T) {
	pose := Pose{Cell: cell(0, 0)}
	var m Motion
	m.Follow(pose, []grid.Cell{cell(0, 1)})
	require.Equal(t, Moving, m.Action, "no turn within tolerance")

	m.Step(&pose, 0.1, 4, Drain{}, false)
	m.Step(&pose, 0.1, 4, Drain{}, false)
	assert.Equal(t, cell(0, 0), pose.Cell)
	assert.InDelta(t, 0.8, m.Progress, 1e-9)

	m.Step(&pose, 0.1, 4, Drain{}, false)
	assert.Equal(t, cell(0, 1), pose.Cell)
	assert.Zero(t, m.Progress)
}

func TestMotionFollowReplacesPath(t *testing.T) {
	pose := Pose{Cell: cell(2, 2), Heading: 3}
	var m Motion
	m.Follow(pose, []grid.Cell{cell(2, 3), cell(2, 4)})
	m.Progress = 0.5

	m.Follow(pose, []grid.Cell{cell(1, 2)})
	assert.Equal(t, []grid.Cell{cell(1, 2)}, m.Path)
	assert.Zero(t, m.Progress)
	assert.Equal(t, Turning, m.Action)
	assert.Equal(t, 90.0, m.TargetHeading)

	m.Follow(pose, nil)
	assert.Equal(t, Idle, m.Action)

	m.Follow(pose, []grid.Cell{cell(2, 3)})
	m.Stop()
	assert.False(t, m.Busy())
	assert.Empty(t, m.Path)
}
