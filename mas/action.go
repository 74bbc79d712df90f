package mas

import (
	"context"
	"log/slog"
)

// Action - команда, яку агент хоче виконати (надіслати лист, змінити стан).
type Action func(ctx context.Context, agent Agent, sys *System) error

// Send створює дію відправки повідомлення
func Send(to string, perf Performative, payload any) Action {
	return func(ctx context.Context, a Agent, sys *System) error {
		return sys.Send(ctx, a.ID(), to, perf, payload)
	}
}

// Log пише в системний логер від імені агента.
func Log(level slog.Level, msg string, args ...any) Action {
	return func(ctx context.Context, a Agent, sys *System) error {
		sys.Logger().Log(ctx, level, msg, append([]any{"agent", a.ID()}, args...)...)
		return nil
	}
}

// Mutate змінює стан агента в його власній горутині.
func Mutate(fn func(agent Agent) error) Action {
	return func(ctx context.Context, a Agent, sys *System) error {
		return fn(a)
	}
}
