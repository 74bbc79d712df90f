// Package config описує всі налаштування епізоду фуражира.
// Конфігурація передається компонентам явно, глобального стану немає.
package config

import (
	"errors"
	"fmt"
	"time"
)

// ErrInsufficientReserve - поріг розряду не покриває дорогу додому.
var ErrInsufficientReserve = errors.New("low-battery threshold below worst-case return drain")

// ErrInvalid - конфігурація не проходить перевірку.
var ErrInvalid = errors.New("invalid config")

// Config - повний набір параметрів симуляції.
type Config struct {
	// Світ
	GridWidth    int `yaml:"grid_width" mapstructure:"grid_width"`
	GridHeight   int `yaml:"grid_height" mapstructure:"grid_height"`
	NumTargets   int `yaml:"num_targets" mapstructure:"num_targets"`
	NumObstacles int `yaml:"num_obstacles" mapstructure:"num_obstacles"`
	NumSlowCells int `yaml:"num_slow_cells" mapstructure:"num_slow_cells"`

	// Болото: вартість кроку для планувальника і множник розряду.
	SlowCost          float64 `yaml:"slow_cost" mapstructure:"slow_cost"`
	SlowDrainModifier float64 `yaml:"slow_drain_modifier" mapstructure:"slow_drain_modifier"`

	// Батарея
	BatteryCapacity float64 `yaml:"battery_capacity" mapstructure:"battery_capacity"`
	LowThreshold    float64 `yaml:"low_threshold" mapstructure:"low_threshold"`
	DrainBase       float64 `yaml:"drain_base" mapstructure:"drain_base"`
	DrainMove       float64 `yaml:"drain_move" mapstructure:"drain_move"`
	DrainTurn       float64 `yaml:"drain_turn" mapstructure:"drain_turn"`
	ChargeRate      float64 `yaml:"charge_rate" mapstructure:"charge_rate"`

	// StepSpeed - частка дії за секунду (швидкість анімації).
	StepSpeed float64 `yaml:"step_speed" mapstructure:"step_speed"`
	ViewRange int     `yaml:"view_range" mapstructure:"view_range"`

	// Виконання
	TickDt       float64       `yaml:"tick_dt" mapstructure:"tick_dt"`
	TickInterval time.Duration `yaml:"tick_interval" mapstructure:"tick_interval"`
	MaxTicks     int           `yaml:"max_ticks" mapstructure:"max_ticks"`
	Seed         int64         `yaml:"seed" mapstructure:"seed"`
}

// Default повертає параметри оригінальної дискретної симуляції.
func Default() Config {
	return Config{
		GridWidth:         10,
		GridHeight:        10,
		NumTargets:        10,
		NumObstacles:      15,
		NumSlowCells:      20,
		SlowCost:          8,
		SlowDrainModifier: 3,
		BatteryCapacity:   150,
		LowThreshold:      30,
		DrainBase:         0.05,
		DrainMove:         2,
		DrainTurn:         1,
		ChargeRate:        10,
		StepSpeed:         4,
		ViewRange:         4,
		TickDt:            0.25,
		TickInterval:      100 * time.Millisecond,
		MaxTicks:          20000,
		Seed:              1,
	}
}

// Validate перевіряє узгодженість параметрів і повертає всі порушення разом.
func (c Config) Validate() error {
	var errs []error
	check := func(ok bool, format string, args ...any) {
		if !ok {
			errs = append(errs, fmt.Errorf("%w: "+format, append([]any{ErrInvalid}, args...)...))
		}
	}

	check(c.GridWidth > 0 && c.GridHeight > 0, "grid %dx%d must be positive", c.GridHeight, c.GridWidth)
	check(c.NumTargets >= 0 && c.NumObstacles >= 0 && c.NumSlowCells >= 0, "cell counts must be non-negative")
	cells := c.GridWidth * c.GridHeight
	check(c.NumTargets+c.NumObstacles+c.NumSlowCells < cells,
		"%d targets + %d obstacles + %d slow cells do not fit %d cells", c.NumTargets, c.NumObstacles, c.NumSlowCells, cells)
	check(c.SlowCost >= 1, "slow_cost %.2f must be >= 1", c.SlowCost)
	check(c.SlowDrainModifier >= 1, "slow_drain_modifier %.2f must be >= 1", c.SlowDrainModifier)
	check(c.BatteryCapacity > 0, "battery_capacity %.2f must be positive", c.BatteryCapacity)
	check(c.LowThreshold >= 0 && c.LowThreshold < c.BatteryCapacity,
		"low_threshold %.2f must be in [0, capacity %.2f)", c.LowThreshold, c.BatteryCapacity)
	check(c.DrainBase >= 0 && c.DrainMove >= 0 && c.DrainTurn >= 0, "drain rates must be non-negative")
	check(c.ChargeRate > 0, "charge_rate %.2f must be positive", c.ChargeRate)
	check(c.StepSpeed > 0, "step_speed %.2f must be positive", c.StepSpeed)
	check(c.ViewRange > 0, "view_range %d must be positive", c.ViewRange)
	check(c.TickDt > 0, "tick_dt %.3f must be positive", c.TickDt)
	check(c.MaxTicks > 0, "max_ticks %d must be positive", c.MaxTicks)

	return errors.Join(errs...)
}

// ActionDuration - скільки секунд триває одна дія (поворот або крок).
func (c Config) ActionDuration() float64 {
	return 1 / c.StepSpeed
}

// WorstCaseDrain - розряд на steps кроків, коли кожному кроку передує поворот
// і все відбувається на болоті (якщо болото є у світі).
func (c Config) WorstCaseDrain(steps int) float64 {
	modifier := 1.0
	if c.NumSlowCells > 0 {
		modifier = c.SlowDrainModifier
	}
	d := c.ActionDuration()
	perStep := ((c.DrainBase+c.DrainMove)*d + (c.DrainBase+c.DrainTurn)*d) * modifier
	return float64(steps) * perStep
}

// CheckReserve перевіряє, що поріг розряду покриває дорогу додому довжиною steps.
func (c Config) CheckReserve(steps int) error {
	need := c.WorstCaseDrain(steps)
	if c.LowThreshold < need {
		return fmt.Errorf("%w: threshold %.2f, %d steps need %.2f", ErrInsufficientReserve, c.LowThreshold, steps, need)
	}
	return nil
}
