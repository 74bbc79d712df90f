package ai

import (
	"github.com/youryharchenko/go-forager/planning"
)

// Distances обходить домен шарами (Breadth-First Search) від start
// і повертає кількість кроків до кожного досяжного стану.
// Вартість кроків ігнорується: рахуються лише переходи.
func Distances[S interface {
	planning.State
	comparable
}](start S, domain planning.Domain[S]) map[S]int {
	dist := map[S]int{start: 0}
	queue := []S{start} // Frontier

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, act := range domain.Actions(current) {
			neighbor := domain.Result(current, act)
			if _, known := dist[neighbor]; known {
				continue
			}
			dist[neighbor] = dist[current] + 1
			queue = append(queue, neighbor)
		}
	}
	return dist
}
