// Package agent містить автомат рішень фуражира і виконавця руху.
//
// Один тік: зір оновлює пам'ять, автомат приймає рішення (за потреби просить
// план у планувальника), рушій виконує голову шляху і списує заряд.
package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/youryharchenko/go-forager/ai"
	"github.com/youryharchenko/go-forager/config"
	"github.com/youryharchenko/go-forager/grid"
	"github.com/youryharchenko/go-forager/memory"
	"github.com/youryharchenko/go-forager/planning"
	"github.com/youryharchenko/go-forager/vision"
)

// Resume - слот для відновлення роботи після зарядки.
type Resume struct {
	State  State
	Target *grid.Cell
}

// Robot - агент-фуражир. Експортовані поля переживають gob-серіалізацію;
// планувальник, зір і логер під'єднуються через Bind.
type Robot struct {
	Cfg config.Config

	Pose      Pose
	State     State
	Target    *grid.Cell
	Saved     *Resume
	Inventory []grid.Cell
	Battery   float64

	Patrol      []grid.Cell
	PatrolIndex int

	Discovered []grid.Cell
	Decisions  []Decision

	Memory *memory.Map
	Motion Motion

	planner planning.Planner[grid.Cell]
	eyes    *vision.Model
	log     *slog.Logger
}

// Option налаштовує Robot.
type Option func(*Robot)

// WithPlanner підміняє планувальник (за замовчуванням A*).
func WithPlanner(p planning.Planner[grid.Cell]) Option {
	return func(r *Robot) { r.planner = p }
}

// WithLogger задає логер.
func WithLogger(l *slog.Logger) Option {
	return func(r *Robot) { r.log = l }
}

// NewRobot ставить агента в дім обличчям на схід з повною батареєю
// і порожньою пам'яттю розміру світу.
func NewRobot(cfg config.Config, world *grid.World, opts ...Option) *Robot {
	r := &Robot{
		Cfg:     cfg,
		Pose:    Pose{Cell: world.Home(), Heading: vision.East.Degrees()},
		State:   Searching,
		Battery: cfg.BatteryCapacity,
		Patrol:  Patrol(world.Height(), world.Width()),
		Memory:  memory.New(world.Height(), world.Width(), cfg.SlowCost),
	}
	r.Bind(opts...)
	return r
}

// Bind під'єднує компоненти, яких немає після відновлення з gob.
func (r *Robot) Bind(opts ...Option) {
	for _, opt := range opts {
		opt(r)
	}
	if r.planner == nil {
		r.planner = ai.NewAStar[grid.Cell]()
	}
	if r.eyes == nil {
		r.eyes = vision.New(r.Cfg.ViewRange)
	}
	if r.log == nil {
		r.log = slog.New(slog.DiscardHandler)
	}
}

// Patrol будує змійку (boustrophedon): парні рядки зліва направо, непарні - справа наліво.
func Patrol(height, width int) []grid.Cell {
	points := make([]grid.Cell, 0, height*width)
	for r := 0; r < height; r++ {
		for i := 0; i < width; i++ {
			c := i
			if r%2 == 1 {
				c = width - 1 - i
			}
			points = append(points, grid.Cell{Row: r, Col: c})
		}
	}
	return points
}

// Depleted - батарея сіла, агент більше нічого не робить.
func (r *Robot) Depleted() bool {
	return r.Battery <= 0
}

// Done - епізод для агента завершено.
func (r *Robot) Done() bool {
	return r.State == Finished || r.Depleted()
}

// Path повертає копію залишку шляху.
func (r *Robot) Path() []grid.Cell {
	return slices.Clone(r.Motion.Path)
}

// Tick проганяє один крок конвеєра: зір -> рішення -> рух.
// Помилка означає помилку програміста (координата поза світом).
func (r *Robot) Tick(ctx context.Context, world *grid.World, dt float64) (TickResult, error) {
	var res TickResult
	if r.planner == nil {
		r.Bind()
	}
	if r.Done() {
		return res, nil
	}

	if _, err := r.eyes.Sweep(world, r.Memory, r.Pose.Cell, r.Pose.Heading); err != nil {
		return res, fmt.Errorf("vision sweep: %w", err)
	}
	if err := r.decide(ctx, world, dt, &res); err != nil {
		return res, err
	}

	if r.State == Charging || r.State == Finished {
		return res, nil
	}
	here, err := world.Kind(r.Pose.Cell)
	if err != nil {
		return res, fmt.Errorf("motion: %w", err)
	}
	drain := Drain{
		Base:         r.Cfg.DrainBase,
		Move:         r.Cfg.DrainMove,
		Turn:         r.Cfg.DrainTurn,
		SlowModifier: r.Cfg.SlowDrainModifier,
	}
	used := r.Motion.Step(&r.Pose, dt, r.Cfg.StepSpeed, drain, here == grid.Slow)
	r.Battery = max(0, r.Battery-used)
	if r.Depleted() {
		r.Motion.Stop()
		res.emit(EventDepleted, r.State, r.Pose.Cell)
		r.log.Warn("battery depleted", "cell", r.Pose.Cell, "state", r.State)
	}
	return res, nil
}

func (r *Robot) decide(ctx context.Context, world *grid.World, dt float64, res *TickResult) error {
	// Переривання через низький заряд має пріоритет над усім.
	if r.Battery <= r.Cfg.LowThreshold && r.State != ReturningHome && r.State != Charging && r.State != Finished {
		r.Saved = &Resume{State: r.State, Target: r.Target}
		home := world.Home()
		r.Target = &home
		r.setState(ReturningHome)
		res.emit(EventLowBattery, r.State, r.Pose.Cell)
		r.navigate(ctx, home, "home", res)
		return nil
	}

	if r.State == Searching {
		return r.search(ctx, world, res)
	}
	if r.Motion.Busy() {
		return nil
	}

	switch r.State {
	case GoingToTarget:
		return r.arriveAtTarget(ctx, world, res)
	case GoingToDropoff:
		if r.Pose.Cell != world.Home() {
			r.navigate(ctx, world.Home(), "dropoff", res)
			return nil
		}
		if len(r.Inventory) > 0 {
			delivered := r.Inventory[0]
			r.Inventory = r.Inventory[1:]
			res.emit(EventDelivered, Searching, delivered)
		}
		r.Target = nil
		r.setState(Searching)
	case ReturningHome:
		if r.Pose.Cell != world.Home() {
			r.navigate(ctx, world.Home(), "home", res)
			return nil
		}
		r.setState(Charging)
		res.emit(EventArrivedHome, r.State, r.Pose.Cell)
	case Charging:
		r.Battery += r.Cfg.ChargeRate * dt
		if r.Battery >= r.Cfg.BatteryCapacity {
			r.Battery = r.Cfg.BatteryCapacity
			r.resume(ctx, world, res)
		}
	case Searching, Finished:
	}
	return nil
}

// search: спершу цілі в полі зору, інакше наступна точка патрулювання.
func (r *Robot) search(ctx context.Context, world *grid.World, res *TickResult) error {
	r.Decisions = r.evaluate(ctx, world, res)
	if len(r.Decisions) > 0 {
		best := r.Decisions[0]
		for _, d := range r.Decisions[1:] {
			if d.Benefit > best.Benefit {
				best = d
			}
		}
		target := best.Target
		r.Discovered = append(r.Discovered, target)
		r.Target = &target
		r.setState(GoingToTarget)
		r.Motion.Follow(r.Pose, best.Path.Steps())
		res.emit(EventDiscovered, r.State, target)
		r.log.Info("target discovered", "target", target, "cost", best.Cost, "candidates", len(r.Decisions))
		return nil
	}

	if r.Motion.Busy() {
		return nil
	}
	if r.PatrolIndex < len(r.Patrol) {
		next := r.Patrol[r.PatrolIndex]
		r.PatrolIndex++
		if next != r.Pose.Cell {
			r.Target = &next
			r.navigate(ctx, next, "patrol", res)
		}
		return nil
	}

	// Патрулювання вичерпане: робити більше нічого (NoTargetsRemaining).
	r.Target = nil
	r.setState(Finished)
	res.emit(EventFinished, r.State, r.Pose.Cell)
	r.log.Info("patrol exhausted", "discovered", len(r.Discovered), "remaining", len(world.Targets()))
	return nil
}

// evaluate будує кандидатів для видимих, ще не виявлених цілей.
func (r *Robot) evaluate(ctx context.Context, world *grid.World, res *TickResult) []Decision {
	var out []Decision
	for _, c := range r.eyes.Visible(r.Pose.Cell, r.Pose.Heading, world.Bounds()) {
		if v, err := r.Memory.Get(c); err != nil || v != memory.Target {
			continue
		}
		if !world.HasTarget(c) || slices.Contains(r.Discovered, c) {
			continue
		}
		path, ok := r.plan(ctx, c, "candidate", res)
		if !ok || path.Len() == 0 {
			continue
		}
		out = append(out, Decision{Target: c, Path: path, Cost: path.Cost, Benefit: BenefitScale / path.Cost})
	}
	return out
}

func (r *Robot) arriveAtTarget(ctx context.Context, world *grid.World, res *TickResult) error {
	if r.Target == nil {
		return fmt.Errorf("state %s without target", r.State)
	}
	target := *r.Target
	if r.Pose.Cell != target {
		r.navigate(ctx, target, "target", res)
		return nil
	}
	if world.HasTarget(target) {
		if err := world.RemoveTarget(target); err != nil {
			return fmt.Errorf("collect %v: %w", target, err)
		}
		if err := r.Memory.Collect(target); err != nil {
			return fmt.Errorf("collect %v: %w", target, err)
		}
		r.Inventory = append(r.Inventory, target)
		res.emit(EventPickedUp, GoingToDropoff, target)
	}
	home := world.Home()
	r.Target = &home
	r.setState(GoingToDropoff)
	r.navigate(ctx, home, "dropoff", res)
	return nil
}

// resume відновлює збережений стан. Ціль, якої вже немає у світі,
// не відновлюється: агент повертається до пошуку з поточного місця.
func (r *Robot) resume(ctx context.Context, world *grid.World, res *TickResult) {
	state, target := Searching, (*grid.Cell)(nil)
	if r.Saved != nil {
		state, target = r.Saved.State, r.Saved.Target
	}
	r.Saved = nil
	if state == GoingToDropoff {
		// gob не відрізняє вказівник на (0,0) від nil, тож дім беремо зі світу.
		home := world.Home()
		target = &home
	}
	if target != nil && state == GoingToTarget && !world.HasTarget(*target) {
		target = nil
	}
	if target == nil {
		state = Searching
	}

	r.Target = target
	r.setState(state)
	res.emit(EventCharged, r.State, r.Pose.Cell)
	if target != nil {
		r.navigate(ctx, *target, "resume", res)
	} else {
		r.Motion.Stop()
	}
}

// navigate планує шлях до goal і віддає його рушію.
// Недосяжна мета лишає агента без шляху в поточному стані.
func (r *Robot) navigate(ctx context.Context, goal grid.Cell, purpose string, res *TickResult) bool {
	path, ok := r.plan(ctx, goal, purpose, res)
	if !ok {
		r.Motion.Stop()
		return false
	}
	r.Motion.Follow(r.Pose, path.Steps())
	return true
}

func (r *Robot) plan(ctx context.Context, goal grid.Cell, purpose string, res *TickResult) (planning.Path[grid.Cell], bool) {
	from := r.Pose.Cell
	path, err := r.planner.MakePlan(ctx, from, goal, r.Memory)
	rec := PlanRecord{Purpose: purpose, From: from, Goal: goal}
	if err != nil {
		res.Plans = append(res.Plans, rec)
		if errors.Is(err, ai.ErrUnreachable) {
			if purpose != "candidate" {
				res.emit(EventUnreachable, r.State, goal)
			}
			r.log.Debug("goal unreachable", "purpose", purpose, "from", from, "goal", goal)
		} else {
			r.log.Warn("planning failed", "purpose", purpose, "goal", goal, "err", err)
		}
		return path, false
	}
	rec.Reachable, rec.Cost, rec.Steps = true, path.Cost, path.Len()
	res.Plans = append(res.Plans, rec)
	return path, true
}

func (r *Robot) setState(to State) {
	if to == r.State {
		return
	}
	if !CanTransition(r.State, to) {
		panic(fmt.Sprintf("agent: illegal transition %s -> %s", r.State, to))
	}
	r.log.Debug("state", "from", r.State, "to", to, "cell", r.Pose.Cell, "battery", r.Battery)
	r.State = to
}
