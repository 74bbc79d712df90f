package forage

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/youryharchenko/go-forager/mas"
	"github.com/youryharchenko/go-forager/metrics"
	"github.com/youryharchenko/go-forager/sim"
	"github.com/youryharchenko/go-forager/telemetry"
)

// ForagerAgent володіє одним епізодом. Весь стан симуляції змінюється
// лише в горутині агента, тому блокувань не потрібно.
type ForagerAgent struct {
	mas.BaseAgent
	Sim       *sim.Simulation
	ConsoleID string
	Paused    bool

	pub     *telemetry.Publisher
	metrics *metrics.Metrics
}

// NewForager створює агента з готовою симуляцією.
func NewForager(id string, s *sim.Simulation, consoleID string) *ForagerAgent {
	return &ForagerAgent{
		BaseAgent: mas.BaseAgent{IDVal: id},
		Sim:       s,
		ConsoleID: consoleID,
	}
}

func (f *ForagerAgent) Bind(sys *mas.System, inbox <-chan mas.Envelope, me mas.Agent) {
	f.BaseAgent.Bind(sys, inbox, me)
	if f.pub == nil {
		f.pub = telemetry.NewPublisher()
	}
	// Після Startup з gob у симуляції немає ні логера, ні планувальника.
	f.Sim.Bind(sim.WithLogger(f.Logger()), sim.WithPublisher(f.pub))
}

// Publisher - останній знімок для переглядачів поза системою.
func (f *ForagerAgent) Publisher() *telemetry.Publisher { return f.pub }

func (f *ForagerAgent) OnWakeUp(ctx context.Context) {
	f.pub.Publish(f.Sim.Snapshot())
	f.Logger().Info("forager awake", "episode", f.Sim.ID, "tick", f.Sim.Ticks)
}

func (f *ForagerAgent) Plan(ctx context.Context, msg mas.Envelope) ([]mas.Action, error) {
	switch p := msg.Payload.(type) {
	case Tick:
		return f.tick(ctx)

	case Reset:
		cfg := f.Sim.Cfg
		cfg.Seed = p.Seed
		s, err := sim.NewRandom(cfg, sim.WithLogger(f.Logger()), sim.WithPublisher(f.pub), sim.WithMetrics(f.metrics))
		if err != nil {
			err = fmt.Errorf("reset: %w", err)
			if msg.From == "" {
				return nil, err
			}
			return []mas.Action{mas.Reply(msg, mas.Failure, err.Error())}, nil
		}
		return []mas.Action{
			mas.Mutate(func(mas.Agent) error {
				f.Sim = s
				f.pub.Publish(s.Snapshot())
				return nil
			}),
			mas.Log(slog.LevelInfo, "episode reset", "seed", p.Seed, "episode", s.ID),
		}, nil

	case Pause:
		return []mas.Action{
			mas.Mutate(func(mas.Agent) error {
				f.Paused = p.On
				return nil
			}),
			mas.Log(slog.LevelInfo, "pause", "on", p.On, "tick", f.Sim.Ticks),
		}, nil

	case StatusQuery:
		return []mas.Action{mas.Reply(msg, mas.Inform, f.status(nil))}, nil

	case Instrument:
		return []mas.Action{
			mas.Mutate(func(mas.Agent) error {
				f.metrics = p.Metrics
				f.Sim.Bind(sim.WithMetrics(p.Metrics))
				return nil
			}),
		}, nil
	}
	err := fmt.Errorf("unexpected payload %T from %q", msg.Payload, msg.From)
	if msg.From == "" {
		return nil, err
	}
	return []mas.Action{mas.Reply(msg, mas.Failure, err.Error())}, nil
}

func (f *ForagerAgent) tick(ctx context.Context) ([]mas.Action, error) {
	if f.Paused || f.Sim.Outcome() != sim.Running {
		return nil, nil
	}
	_, res, err := f.Sim.Step(ctx)
	if err != nil {
		return nil, err
	}
	if f.ConsoleID == "" {
		return nil, nil
	}
	events := make([]string, len(res.Events))
	for i, e := range res.Events {
		events[i] = e.String()
	}
	return []mas.Action{mas.Send(f.ConsoleID, mas.Inform, f.status(events))}, nil
}

func (f *ForagerAgent) status(events []string) Status {
	snap, ok := f.pub.Latest()
	if !ok {
		snap = f.Sim.Snapshot()
	}
	outcome := f.Sim.Outcome()
	return Status{
		Outcome:  outcome,
		Result:   f.Sim.Result(outcome),
		Snapshot: snap,
		Events:   events,
		Paused:   f.Paused,
	}
}
