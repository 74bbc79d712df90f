package forage

import (
	"context"
	"errors"
	"time"

	"github.com/youryharchenko/go-forager/mas"
)

// Clock шле Tick цільовому агенту з фіксованим інтервалом.
type Clock struct {
	mas.BaseAgent
	Target   string
	Interval time.Duration
}

func NewClock(id, target string, interval time.Duration) *Clock {
	return &Clock{
		BaseAgent: mas.BaseAgent{IDVal: id},
		Target:    target,
		Interval:  interval,
	}
}

// OnWakeUp запускає таймер; він живе, доки живе контекст системи.
func (c *Clock) OnWakeUp(ctx context.Context) {
	interval := c.Interval
	if interval <= 0 {
		interval = time.Millisecond
	}
	sys := c.System()
	go func() {
		t := time.NewTicker(interval)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				err := sys.Send(ctx, c.IDVal, c.Target, mas.Request, Tick{})
				if errors.Is(err, mas.ErrAgentNotFound) {
					c.Logger().Warn("clock target gone", "target", c.Target)
					return
				}
			}
		}
	}()
}

// Годиннику ніхто не пише.
func (c *Clock) Plan(ctx context.Context, msg mas.Envelope) ([]mas.Action, error) {
	return nil, nil
}
