package planning

import (
	"context"
	"fmt"
)

// Action - це атомарний крок, який планувальник може застосувати до стану.
// Ми використовуємо string для простоти логування ("UP", "LEFT"...).
type Action string

// State - це "зліпок" положення в конкретний момент.
// Конкретні типи додатково мають бути comparable, щоб служити ключем у map.
type State interface {
	fmt.Stringer
	Equals(State) bool
}

// Domain описує правила світу для пошуку.
// Це чиста логіка: вона не зберігає стан пошуку, а лише відповідає на запитання.
type Domain[S State] interface {
	// Actions повертає дії, що ведуть лише у прохідні стани.
	Actions(s S) []Action

	// Result (Transition Model) повертає стан після виконання дії: S x A -> S'.
	Result(s S, a Action) S

	// StepCost повертає вартість переходу (1.0 для звичайної клітинки, більше для болота).
	StepCost(from S, action Action, to S) float64

	// Heuristic оцінює залишок шляху від from до goal. Має бути допустимою.
	Heuristic(from, goal S) float64
}

// Versioned - домен, який знає свою ревізію.
// Ревізія змінюється щоразу, коли змінюється вартість або прохідність хоча б одного стану.
type Versioned interface {
	Revision() uint64
}

// Memory - абстракція пам'яті про відвідані стани.
// Планувальник використовує її як трасу розкритих вершин (для тестів і візуалізації).
type Memory[S State] interface {
	Remember(s S)
	HasVisited(s S) bool
	Clear()
	Range(f func(key, value any) bool)
}

// Path - результат планування: стани від start до goal включно.
type Path[S State] struct {
	States []S
	Cost   float64
}

// Steps повертає стани, які треба пройти (без стартового).
func (p Path[S]) Steps() []S {
	if len(p.States) <= 1 {
		return nil
	}
	steps := make([]S, len(p.States)-1)
	copy(steps, p.States[1:])
	return steps
}

// Len повертає кількість кроків шляху.
func (p Path[S]) Len() int {
	if len(p.States) == 0 {
		return 0
	}
	return len(p.States) - 1
}

// Planner будує повний план від start до goal, не виконуючи його.
type Planner[S State] interface {
	MakePlan(ctx context.Context, start, goal S, domain Domain[S]) (Path[S], error)
}
