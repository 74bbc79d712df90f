// Package forage запускає епізод фуражира поверх акторної системи mas:
// агент-фуражир володіє симуляцією, консоль малює знімки, годинник тікає.
package forage

import (
	"encoding/gob"

	"github.com/youryharchenko/go-forager/metrics"
	"github.com/youryharchenko/go-forager/sim"
	"github.com/youryharchenko/go-forager/telemetry"
)

// ID агентів за замовчуванням.
const (
	ForagerID = "forager"
	ConsoleID = "console"
	ClockID   = "clock"
)

// Tick просить фуражира прогнати один тік.
type Tick struct{}

// Reset починає новий епізод з іншим зерном.
type Reset struct {
	Seed int64
}

// Pause зупиняє (On) або відновлює тіки; годинник при цьому тікає далі.
type Pause struct {
	On bool
}

// StatusQuery - запит поточного стану; відповідь - Status.
type StatusQuery struct{}

// Instrument під'єднує метрики до живого агента (після Startup).
type Instrument struct {
	Metrics *metrics.Metrics
}

// Status - стан епізоду після тіку або на запит.
type Status struct {
	Outcome  sim.Outcome
	Result   sim.Result
	Snapshot telemetry.Snapshot
	Events   []string
	Paused   bool
}

// Done - епізод закінчився, більше тікати немає сенсу.
func (s Status) Done() bool {
	return s.Outcome != sim.Running
}

func init() {
	// Зберігаються лише фуражири; консоль і годинник тимчасові.
	gob.Register(&ForagerAgent{})
}
