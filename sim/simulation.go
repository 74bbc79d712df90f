// Package sim зв'язує світ, агента, телеметрію і метрики в один синхронний цикл тіків.
package sim

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand"

	"github.com/google/uuid"

	"github.com/youryharchenko/go-forager/agent"
	"github.com/youryharchenko/go-forager/ai"
	"github.com/youryharchenko/go-forager/config"
	"github.com/youryharchenko/go-forager/grid"
	"github.com/youryharchenko/go-forager/metrics"
	"github.com/youryharchenko/go-forager/telemetry"
)

// Outcome - чим закінчився (або ще не закінчився) епізод.
type Outcome int

const (
	Running Outcome = iota
	Finished
	Depleted
	TickLimit
	Canceled
)

var outcomeNames = [...]string{"running", "finished", "depleted", "tick_limit", "canceled"}

func (o Outcome) String() string {
	if o < 0 || int(o) >= len(outcomeNames) {
		return "invalid"
	}
	return outcomeNames[o]
}

// Result - підсумок епізоду.
type Result struct {
	EpisodeID  string
	Outcome    Outcome
	Ticks      int
	Delivered  int
	Discovered int
	Remaining  int
	Battery    float64
}

// Simulation - один епізод. Експортовані поля переживають gob;
// логер, метрики і публікатор під'єднуються через Bind.
type Simulation struct {
	ID    string
	Ticks int
	Cfg   config.Config
	World *grid.World
	Robot *agent.Robot

	Delivered int

	base    *slog.Logger
	log     *slog.Logger
	metrics *metrics.Metrics
	pub     *telemetry.Publisher
	cache   *ai.CachedPlanner[grid.Cell]
}

// Option налаштовує Simulation.
type Option func(*Simulation)

func WithLogger(l *slog.Logger) Option {
	return func(s *Simulation) { s.base = l }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Simulation) { s.metrics = m }
}

func WithPublisher(p *telemetry.Publisher) Option {
	return func(s *Simulation) { s.pub = p }
}

// WithEpisodeID задає ідентифікатор епізоду замість випадкового UUID.
func WithEpisodeID(id string) Option {
	return func(s *Simulation) { s.ID = id }
}

// New створює епізод у готовому світі. Світ належить симуляції.
func New(cfg config.Config, world *grid.World, opts ...Option) (*Simulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if world == nil {
		return nil, fmt.Errorf("sim: nil world")
	}
	world.SlowCost = cfg.SlowCost
	s := &Simulation{Cfg: cfg, World: world}
	for _, opt := range opts {
		opt(s)
	}
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	s.Robot = agent.NewRobot(cfg, world)
	s.Bind()

	if err := s.ValidateReserve(); err != nil {
		s.log.Warn("battery reserve may not cover the way home", "err", err)
	}
	return s, nil
}

// NewRandom генерує світ з cfg.Seed і створює епізод.
func NewRandom(cfg config.Config, opts ...Option) (*Simulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	world, err := GenerateWorld(cfg)
	if err != nil {
		return nil, err
	}
	return New(cfg, world, opts...)
}

// GenerateWorld будує світ з cfg.Seed; одне зерно - один і той самий світ.
func GenerateWorld(cfg config.Config) (*grid.World, error) {
	world, err := grid.Generate(GenConfig(cfg), rand.New(rand.NewSource(cfg.Seed)))
	if err != nil {
		return nil, fmt.Errorf("generate world: %w", err)
	}
	return world, nil
}

// GenConfig переводить конфігурацію в параметри генератора. Дім завжди в (0,0).
func GenConfig(cfg config.Config) grid.GenConfig {
	return grid.GenConfig{
		Height:    cfg.GridHeight,
		Width:     cfg.GridWidth,
		Targets:   cfg.NumTargets,
		Obstacles: cfg.NumObstacles,
		SlowCells: cfg.NumSlowCells,
		SlowCost:  cfg.SlowCost,
	}
}

// Bind під'єднує компоненти, яких немає після відновлення з gob.
func (s *Simulation) Bind(opts ...Option) {
	for _, opt := range opts {
		opt(s)
	}
	if s.base == nil {
		s.base = slog.New(slog.DiscardHandler)
	}
	s.log = s.base.With("episode", s.ID)

	var planner = ai.NewAStar[grid.Cell]()
	cached, err := ai.NewCachedPlanner[grid.Cell](planner, 0)
	if err != nil {
		s.log.Warn("plan cache disabled", "err", err)
		s.Robot.Bind(agent.WithPlanner(planner), agent.WithLogger(s.log))
		return
	}
	s.cache = cached
	s.Robot.Bind(agent.WithPlanner(cached), agent.WithLogger(s.log))
}

func (s *Simulation) cacheStats() (hits, misses int) {
	if s.cache == nil {
		return 0, 0
	}
	return s.cache.Hits, s.cache.Misses
}

// Publisher повертає публікатор знімків (може бути nil).
func (s *Simulation) Publisher() *telemetry.Publisher { return s.pub }

// ValidateReserve перевіряє поріг розряду проти найдальшої досяжної клітинки світу.
func (s *Simulation) ValidateReserve() error {
	return s.Cfg.CheckReserve(s.World.Diameter())
}

// Step проганяє один тік і публікує знімок.
func (s *Simulation) Step(ctx context.Context) (Outcome, agent.TickResult, error) {
	if o := s.Outcome(); o != Running {
		return o, agent.TickResult{}, nil
	}
	hits, misses := s.cacheStats()
	res, err := s.Robot.Tick(ctx, s.World, s.Cfg.TickDt)
	if err != nil {
		return Running, res, fmt.Errorf("tick %d: %w", s.Ticks, err)
	}
	s.Ticks++
	for _, e := range res.Events {
		if e.Kind == agent.EventDelivered {
			s.Delivered++
		}
		s.log.Debug("event", "tick", s.Ticks, "kind", e.Kind, "cell", e.Cell, "state", e.State)
	}
	s.metrics.Observe(s.Robot, res)
	h, m := s.cacheStats()
	s.metrics.ObserveCache(h-hits, m-misses)
	if s.pub != nil {
		s.pub.Publish(s.Snapshot())
	}
	return s.Outcome(), res, nil
}

// Snapshot знімає поточний стан.
func (s *Simulation) Snapshot() telemetry.Snapshot {
	return telemetry.Capture(s.ID, s.Ticks, s.Robot, s.World)
}

// Outcome - поточний підсумок епізоду; Running, поки є що робити.
func (s *Simulation) Outcome() Outcome {
	switch {
	case s.Robot.Depleted():
		return Depleted
	case s.Robot.State == agent.Finished:
		return Finished
	case s.Ticks >= s.Cfg.MaxTicks:
		return TickLimit
	}
	return Running
}

// Run крутить тіки, доки епізод не закінчиться або не скасують контекст.
func (s *Simulation) Run(ctx context.Context) (Result, error) {
	s.log.Info("episode started", "size", fmt.Sprintf("%dx%d", s.World.Height(), s.World.Width()),
		"targets", len(s.World.Gnomes))
	outcome := s.Outcome()
	for outcome == Running {
		if ctx.Err() != nil {
			outcome = Canceled
			break
		}
		var err error
		outcome, _, err = s.Step(ctx)
		if err != nil {
			return s.Result(Running), err
		}
	}
	res := s.Result(outcome)
	s.log.Info("episode ended", "outcome", res.Outcome, "ticks", res.Ticks,
		"delivered", res.Delivered, "remaining", res.Remaining, "battery", res.Battery)
	return res, nil
}

// Result складає підсумок із поточного стану.
func (s *Simulation) Result(o Outcome) Result {
	return Result{
		EpisodeID:  s.ID,
		Outcome:    o,
		Ticks:      s.Ticks,
		Delivered:  s.Delivered,
		Discovered: len(s.Robot.Discovered),
		Remaining:  len(s.World.Gnomes),
		Battery:    s.Robot.Battery,
	}
}
