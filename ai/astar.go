package ai

import (
	"container/heap"
	"context"
	"errors"
	"slices"

	"github.com/youryharchenko/go-forager/planning"
)

// ErrUnreachable - відкрита множина спорожніла, а мети не досягнуто.
// Це нормальний результат (мета оточена невідомими клітинками), а не збій.
var ErrUnreachable = errors.New("goal unreachable")

// AStar реалізує пошук A*.
// F = G + H (Вартість шляху + Евристика)
type AStar[S interface {
	planning.State
	comparable
}] struct {
	// Trace (опціонально) запам'ятовує кожну розкриту вершину.
	Trace planning.Memory[S]

	// Expanded - скільки вершин розкрито останнім викликом MakePlan.
	Expanded int
}

func NewAStar[S interface {
	planning.State
	comparable
}]() *AStar[S] {
	return &AStar[S]{}
}

// MakePlan шукає найдешевший шлях від start до goal.
// Серед вузлів з рівним F першим розкривається той, що раніше потрапив у чергу.
func (p *AStar[S]) MakePlan(ctx context.Context, start, goal S, domain planning.Domain[S]) (planning.Path[S], error) {
	p.Expanded = 0
	if start == goal {
		return planning.Path[S]{States: []S{start}}, nil
	}

	open := make(PriorityQueue[S], 0)
	queued := make(map[S]*Item[S]) // вузли, що зараз у черзі (для decrease-key)
	cameFrom := make(map[S]S)
	gScore := map[S]float64{start: 0}
	seq := 0

	push := func(s S, f float64) {
		it := &Item[S]{Value: s, Priority: f, Seq: seq}
		seq++
		heap.Push(&open, it)
		queued[s] = it
	}
	push(start, domain.Heuristic(start, goal))

	for open.Len() > 0 {
		if err := ctx.Err(); err != nil {
			return planning.Path[S]{}, err
		}

		current := heap.Pop(&open).(*Item[S]).Value
		delete(queued, current)
		if current == goal {
			return planning.Path[S]{States: reconstruct(cameFrom, start, goal), Cost: gScore[goal]}, nil
		}
		p.Expanded++
		if p.Trace != nil {
			p.Trace.Remember(current)
		}

		for _, act := range domain.Actions(current) {
			neighbor := domain.Result(current, act)
			tentativeG := gScore[current] + domain.StepCost(current, act, neighbor)

			// Переглядаємо сусіда лише якщо нова вартість строго краща.
			if oldG, seen := gScore[neighbor]; seen && tentativeG >= oldG {
				continue
			}
			cameFrom[neighbor] = current
			gScore[neighbor] = tentativeG
			f := tentativeG + domain.Heuristic(neighbor, goal)

			if it, ok := queued[neighbor]; ok {
				it.Priority = f
				heap.Fix(&open, it.Index)
				continue
			}
			// Новий або вже розкритий вузол з кращою вартістю (повторне відкриття).
			push(neighbor, f)
		}
	}
	return planning.Path[S]{}, ErrUnreachable
}

func reconstruct[S comparable](cameFrom map[S]S, start, goal S) []S {
	path := []S{goal}
	for cur := goal; cur != start; {
		cur = cameFrom[cur]
		path = append(path, cur)
	}
	slices.Reverse(path)
	return path
}

// --- Priority Queue Implementation ---

type Item[S any] struct {
	Value    S
	Priority float64 // f-score
	Seq      int     // порядок вставки, для стабільного розриву нічиїх
	Index    int
}

type PriorityQueue[S any] []*Item[S]

func (pq PriorityQueue[S]) Len() int { return len(pq) }
func (pq PriorityQueue[S]) Less(i, j int) bool {
	if pq[i].Priority != pq[j].Priority {
		return pq[i].Priority < pq[j].Priority
	}
	return pq[i].Seq < pq[j].Seq
}
func (pq PriorityQueue[S]) Swap(i, j int) {
	pq[i], pq[j] = pq[j], pq[i]
	pq[i].Index = i
	pq[j].Index = j
}
func (pq *PriorityQueue[S]) Push(x any) {
	n := len(*pq)
	item := x.(*Item[S])
	item.Index = n
	*pq = append(*pq, item)
}
func (pq *PriorityQueue[S]) Pop() any {
	old := *pq
	n := len(old)
	item := old[n-1]
	old[n-1] = nil
	item.Index = -1
	*pq = old[0 : n-1]
	return item
}
