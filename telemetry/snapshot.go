// Package telemetry публікує знімки стану агента для зовнішніх переглядачів.
package telemetry

import (
	"slices"
	"sort"
	"sync"

	"github.com/youryharchenko/go-forager/agent"
	"github.com/youryharchenko/go-forager/grid"
	"github.com/youryharchenko/go-forager/memory"
)

// Snapshot - незмінний зліпок стану на кінець тіку.
// Всі зрізи - власні копії, переглядач може їх читати без блокувань.
type Snapshot struct {
	EpisodeID string
	Tick      int

	Cell    grid.Cell
	Heading float64
	Facing  string

	State    agent.State
	Action   agent.Action
	Progress float64

	Battery      float64
	Capacity     float64
	LowThreshold float64

	Memory     [][]memory.Value
	Path       []grid.Cell
	Target     *grid.Cell
	Discovered []grid.Cell
	Inventory  []grid.Cell

	// Decisions - кандидати останнього пошуку за спаданням вигоди; перший обраний.
	Decisions []DecisionView

	Home             grid.Cell
	TargetsRemaining int
}

// DecisionView - кандидат без шляху, лише те, що показує панель рішень.
type DecisionView struct {
	Target  grid.Cell
	Cost    float64
	Benefit float64
	Chosen  bool
}

// decisionViews копіює кандидатів і сортує їх за вигодою. Сортування стабільне,
// тож при рівній вигоді першим лишається той, кого агент і обрав.
func decisionViews(ds []agent.Decision) []DecisionView {
	if len(ds) == 0 {
		return nil
	}
	out := make([]DecisionView, len(ds))
	for i, d := range ds {
		out[i] = DecisionView{Target: d.Target, Cost: d.Cost, Benefit: d.Benefit}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Benefit > out[j].Benefit })
	out[0].Chosen = true
	return out
}

// Capture знімає копію стану агента і світу.
func Capture(episodeID string, tick int, r *agent.Robot, w *grid.World) Snapshot {
	s := Snapshot{
		EpisodeID:        episodeID,
		Tick:             tick,
		Cell:             r.Pose.Cell,
		Heading:          r.Pose.Heading,
		Facing:           r.Pose.Facing().String(),
		State:            r.State,
		Action:           r.Motion.Action,
		Progress:         r.Motion.Progress,
		Battery:          r.Battery,
		Capacity:         r.Cfg.BatteryCapacity,
		LowThreshold:     r.Cfg.LowThreshold,
		Memory:           r.Memory.Rows(),
		Path:             r.Path(),
		Discovered:       slices.Clone(r.Discovered),
		Inventory:        slices.Clone(r.Inventory),
		Decisions:        decisionViews(r.Decisions),
		Home:             w.Home(),
		TargetsRemaining: len(w.Gnomes),
	}
	if r.Target != nil {
		t := *r.Target
		s.Target = &t
	}
	return s
}

// BatteryRatio - заряд у частках від ємності.
func (s Snapshot) BatteryRatio() float64 {
	if s.Capacity <= 0 {
		return 0
	}
	return s.Battery / s.Capacity
}

// Publisher тримає останній знімок під одним м'ютексом.
// Симуляція - єдиний писач і завжди замінює знімок цілком.
type Publisher struct {
	mu     sync.Mutex
	latest Snapshot
	ok     bool
	seq    uint64
}

func NewPublisher() *Publisher {
	return &Publisher{}
}

// Publish замінює знімок.
func (p *Publisher) Publish(s Snapshot) {
	p.mu.Lock()
	p.latest = s
	p.ok = true
	p.seq++
	p.mu.Unlock()
}

// Latest повертає останній знімок; false, якщо ще нічого не публікувалось.
func (p *Publisher) Latest() (Snapshot, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.latest, p.ok
}

// Seq - кількість публікацій. Переглядач за нею бачить, чи є щось нове.
func (p *Publisher) Seq() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.seq
}
