package mas

import "context"

// Agent - базовий інтерфейс
type Agent interface {
	ID() string

	// Bind викликається Системою при старті (Spawn або Restore).
	// Тут агент отримує свій канал (Inbox) та посилання на Систему.
	Bind(sys *System, inbox <-chan Envelope, me Agent)

	// Run - запуск основної логіки (горутини)
	Run(ctx context.Context) error

	// Plan вирішує, що робити з повідомленням. Побічні ефекти - лише через Action.
	Plan(ctx context.Context, msg Envelope) ([]Action, error)
}

// WakeUpper - агент, якому треба щось зробити після Bind і перед першим повідомленням.
type WakeUpper interface {
	OnWakeUp(ctx context.Context)
}
