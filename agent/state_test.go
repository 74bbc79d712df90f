package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTransitionTable(t *testing.T) {
	allowed := map[[2]State]bool{
		{Searching, GoingToTarget}:      true,
		{Searching, ReturningHome}:      true,
		{Searching, Finished}:           true,
		{GoingToTarget, GoingToDropoff}: true,
		{GoingToTarget, ReturningHome}:  true,
		{GoingToDropoff, Searching}:     true,
		{GoingToDropoff, ReturningHome}: true,
		{ReturningHome, Charging}:       true,
		{Charging, Searching}:           true,
		{Charging, GoingToTarget}:       true,
		{Charging, GoingToDropoff}:      true,
	}
	for _, from := range States() {
		for _, to := range States() {
			assert.Equal(t, allowed[[2]State{from, to}], CanTransition(from, to), "%s -> %s", from, to)
		}
	}
	assert.Empty(t, Transitions[Finished], "finished is terminal")
}

func TestSetStatePanicsOnIllegalTransition(t *testing.T) {
	r := &Robot{State: Charging}
	r.Bind()
	assert.Panics(t, func() { r.setState(Finished) })

	assert.NotPanics(t, func() { r.setState(Charging) }, "staying put is not a transition")
	assert.NotPanics(t, func() { r.setState(Searching) })
	assert.Equal(t, Searching, r.State)
}

func TestNames(t *testing.T) {
	assert.Equal(t, "going_to_dropoff", GoingToDropoff.String())
	assert.Equal(t, "invalid", State(42).String())
	assert.Equal(t, "turning", Turning.String())
	assert.Equal(t, "low_battery", EventLowBattery.String())
	assert.Equal(t, "picked_up (1,2) [going_to_dropoff]",
		Event{Kind: EventPickedUp, State: GoingToDropoff, Cell: cell(1, 2)}.String())
}
