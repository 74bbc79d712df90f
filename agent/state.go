package agent

// State - стан автомата агента. Закритий перелік, рядкові імена лише для логів.
type State int

const (
	Searching State = iota
	GoingToTarget
	GoingToDropoff
	ReturningHome
	Charging
	Finished
)

var stateNames = [...]string{"searching", "going_to_target", "going_to_dropoff", "returning_home", "charging", "finished"}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "invalid"
	}
	return stateNames[s]
}

// States перелічує всі стани автомата.
func States() []State {
	return []State{Searching, GoingToTarget, GoingToDropoff, ReturningHome, Charging, Finished}
}

// Transitions - дозволені переходи. Robot.setState панікує на будь-якому іншому.
var Transitions = map[State][]State{
	Searching:      {GoingToTarget, ReturningHome, Finished},
	GoingToTarget:  {GoingToDropoff, ReturningHome},
	GoingToDropoff: {Searching, ReturningHome},
	ReturningHome:  {Charging},
	Charging:       {Searching, GoingToTarget, GoingToDropoff},
	Finished:       nil,
}

// CanTransition перевіряє, чи є перехід from -> to у таблиці.
func CanTransition(from, to State) bool {
	for _, s := range Transitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Action - дія, яку зараз виконує рушій.
type Action int

const (
	Idle Action = iota
	Turning
	Moving
)

var actionNames = [...]string{"idle", "turning", "moving"}

func (a Action) String() string {
	if a < 0 || int(a) >= len(actionNames) {
		return "invalid"
	}
	return actionNames[a]
}
