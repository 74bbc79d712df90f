// Package mas - маленька акторна система: агенти з власними скриньками,
// адресація за ID і збереження стану через gob між запусками.
package mas

import (
	"context"
	"encoding/gob"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"sync"
)

const defaultInboxSize = 100

var (
	ErrAgentExists   = errors.New("agent already exists")
	ErrAgentNotFound = errors.New("agent not found")
	ErrShuttingDown  = errors.New("system is shutting down")
)

type System struct {
	mu       sync.RWMutex
	agents   map[string]Agent         // Тут живуть типи
	registry map[string]chan Envelope // Тут живуть канали (runtime)

	filename  string // Куди зберігати dump
	inboxSize int
	log       *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// Option - функціональна опція для налаштування системи.
type Option func(*System)

// WithPersistence налаштовує шлях до файлу збереження стану.
func WithPersistence(filename string) Option {
	return func(s *System) {
		s.filename = filename
	}
}

// WithContext дозволяє передати батьківський контекст (наприклад, для тестів або signal.Notify).
func WithContext(ctx context.Context) Option {
	return func(s *System) {
		s.cancel()
		s.ctx, s.cancel = context.WithCancel(ctx)
	}
}

// WithLogger задає системний логер; агенти отримують його через Bind.
func WithLogger(l *slog.Logger) Option {
	return func(s *System) { s.log = l }
}

// WithInboxSize змінює буфер скриньки агента.
func WithInboxSize(n int) Option {
	return func(s *System) {
		if n > 0 {
			s.inboxSize = n
		}
	}
}

// NewSystem створює новий екземпляр системи.
func NewSystem(opts ...Option) *System {
	ctx, cancel := context.WithCancel(context.Background())
	s := &System{
		agents:    make(map[string]Agent),
		registry:  make(map[string]chan Envelope),
		inboxSize: defaultInboxSize,
		log:       slog.New(slog.DiscardHandler),
		ctx:       ctx,
		cancel:    cancel,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *System) Context() context.Context {
	return s.ctx
}

func (s *System) Logger() *slog.Logger {
	return s.log
}

// Startup відновлює агентів із файлу збереження і запускає їх.
// Типи агентів мають бути зареєстровані через gob.Register().
func (s *System) Startup() error {
	if s.filename == "" {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	file, err := os.Open(s.filename)
	if errors.Is(err, os.ErrNotExist) {
		return nil // починаємо з чистого аркуша
	} else if err != nil {
		return fmt.Errorf("open state: %w", err)
	}
	defer file.Close()

	restored := make(map[string]Agent)
	if err := gob.NewDecoder(file).Decode(&restored); err != nil {
		return fmt.Errorf("decode state %s: %w", s.filename, err)
	}
	for id, agent := range restored {
		if _, exists := s.agents[id]; exists {
			return fmt.Errorf("restore %q: %w", id, ErrAgentExists)
		}
		s.start(id, agent)
	}
	s.log.Info("agents restored", "file", s.filename, "count", len(restored))
	return nil
}

// Shutdown зупиняє агентів і, якщо задано файл, зберігає їх стан.
func (s *System) Shutdown() error {
	s.log.Debug("system shutting down")
	s.cancel()
	s.wg.Wait()

	if s.filename == "" {
		return nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	file, err := os.Create(s.filename)
	if err != nil {
		return fmt.Errorf("create state: %w", err)
	}
	defer file.Close()

	// GOB сам збереже конкретні структури, сховані за інтерфейсом Agent.
	if err := gob.NewEncoder(file).Encode(s.agents); err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	s.log.Info("agents saved", "file", s.filename, "count", len(s.agents))
	return nil
}

func (s *System) GetAgent(id string) (Agent, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	agent, exists := s.agents[id]
	return agent, exists
}

// IDs повертає відсортовані ID живих агентів.
func (s *System) IDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.agents))
	for id := range s.agents {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Spawn реєструє нового агента в системі та запускає його цикл обробки.
func (s *System) Spawn(agent Agent) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := agent.ID()
	if _, exists := s.agents[id]; exists {
		return fmt.Errorf("spawn %q: %w", id, ErrAgentExists)
	}
	s.start(id, agent)
	return nil
}

// start викликається під s.mu.
func (s *System) start(id string, agent Agent) {
	inbox := make(chan Envelope, s.inboxSize)
	s.registry[id] = inbox
	s.agents[id] = agent

	// Bind наповнює приватні поля, які GOB ігнорує.
	agent.Bind(s, inbox, agent)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := agent.Run(s.ctx); err != nil {
			s.log.Error("agent stopped with error", "agent", id, "err", err)
		}
	}()
}

// Send відправляє повідомлення від одного агента іншому.
// Блокується, якщо скринька отримувача повна, доки не скасують ctx або систему.
func (s *System) Send(ctx context.Context, fromID, toID string, perf Performative, payload any) error {
	s.mu.RLock()
	ch, exists := s.registry[toID]
	s.mu.RUnlock()

	if !exists {
		return fmt.Errorf("send to %q: %w", toID, ErrAgentNotFound)
	}

	env := Envelope{
		From:    fromID,
		To:      toID,
		Type:    perf,
		Payload: payload,
	}

	select {
	case <-s.ctx.Done():
		return ErrShuttingDown
	default:
	}

	select {
	case ch <- env:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("send canceled by caller: %w", ctx.Err())
	case <-s.ctx.Done():
		return ErrShuttingDown
	}
}

// Kill видаляє агента з системи (пам'яті та реєстру).
// Корисно для тимчасових агентів (консоль, годинник), які не треба зберігати.
func (s *System) Kill(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.agents, id)
	delete(s.registry, id)
}
