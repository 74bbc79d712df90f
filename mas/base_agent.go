package mas

import (
	"context"
	"errors"
	"log/slog"
)

// BaseAgent бере на себе всю рутину: канали, системні виклики, цикл.
type BaseAgent struct {
	// Експортовані поля для GOB
	IDVal string

	sys   *System
	inbox <-chan Envelope
	me    Agent
	log   *slog.Logger
}

func (b *BaseAgent) ID() string { return b.IDVal }

func (b *BaseAgent) Bind(sys *System, inbox <-chan Envelope, me Agent) {
	b.sys = sys
	b.inbox = inbox
	b.me = me
	b.log = sys.Logger().With("agent", b.IDVal)
}

func (b *BaseAgent) System() *System { return b.sys }

// Logger - логер агента; до Bind мовчить.
func (b *BaseAgent) Logger() *slog.Logger {
	if b.log == nil {
		return slog.New(slog.DiscardHandler)
	}
	return b.log
}

// Run - стандартний цикл для всіх агентів.
func (b *BaseAgent) Run(ctx context.Context) error {
	b.log.Debug("agent running")
	if hook, ok := b.me.(WakeUpper); ok {
		hook.OnWakeUp(ctx)
	}

	for {
		select {
		case msg := <-b.inbox:
			b.processMessage(ctx, msg)
		case <-ctx.Done():
			b.drainInbox(ctx)
			b.log.Debug("agent done")
			return nil
		}
	}
}

// drainInbox вичитує залишки повідомлень без блокування.
// Контекст уже Done, і планувальник агента може це врахувати.
func (b *BaseAgent) drainInbox(ctx context.Context) {
	for {
		select {
		case msg := <-b.inbox:
			b.processMessage(ctx, msg)
		default:
			return
		}
	}
}

func (b *BaseAgent) processMessage(ctx context.Context, msg Envelope) {
	actions, err := b.me.Plan(ctx, msg)
	if err != nil {
		b.log.Warn("planning failed", "from", msg.From, "type", msg.Type, "err", err)
		return
	}

	for _, action := range actions {
		err := action(ctx, b.me, b.sys)
		switch {
		case err == nil:
		case errors.Is(err, ErrShuttingDown):
			// Send під час зупинки системи падає, це нормально.
			b.log.Debug("action dropped", "err", err)
		default:
			b.log.Warn("action failed", "from", msg.From, "type", msg.Type, "err", err)
		}
	}
}
