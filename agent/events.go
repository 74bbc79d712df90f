package agent

import (
	"fmt"

	"github.com/youryharchenko/go-forager/grid"
	"github.com/youryharchenko/go-forager/planning"
)

// BenefitScale - чисельник вигоди K / вартість. Значення не важливе,
// важливий лише порядок: коротший шлях виграє.
const BenefitScale = 1000.0

// Decision - кандидат на переслідування, рахується заново кожного циклу.
type Decision struct {
	Target  grid.Cell
	Path    planning.Path[grid.Cell]
	Cost    float64
	Benefit float64
}

// EventKind - значуща подія тіку.
type EventKind int

const (
	EventDiscovered EventKind = iota
	EventPickedUp
	EventDelivered
	EventLowBattery
	EventArrivedHome
	EventCharged
	EventUnreachable
	EventFinished
	EventDepleted
)

var eventNames = [...]string{
	"discovered", "picked_up", "delivered", "low_battery", "arrived_home",
	"charged", "unreachable", "finished", "depleted",
}

func (k EventKind) String() string {
	if k < 0 || int(k) >= len(eventNames) {
		return "invalid"
	}
	return eventNames[k]
}

// Event - подія разом зі станом, у якому агент опинився після неї.
type Event struct {
	Kind  EventKind
	State State
	Cell  grid.Cell
}

func (e Event) String() string {
	return fmt.Sprintf("%s %v [%s]", e.Kind, e.Cell, e.State)
}

// PlanRecord - результат одного звернення до планувальника.
type PlanRecord struct {
	Purpose   string
	From      grid.Cell
	Goal      grid.Cell
	Reachable bool
	Cost      float64
	Steps     int
}

// TickResult - все, що сталося за тік.
type TickResult struct {
	Events []Event
	Plans  []PlanRecord
}

func (r *TickResult) emit(kind EventKind, state State, cell grid.Cell) {
	r.Events = append(r.Events, Event{Kind: kind, State: state, Cell: cell})
}

// Has перевіряє, чи була подія kind.
func (r TickResult) Has(kind EventKind) bool {
	for _, e := range r.Events {
		if e.Kind == kind {
			return true
		}
	}
	return false
}
