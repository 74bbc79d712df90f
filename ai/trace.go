package ai

import (
	"sync"

	"github.com/youryharchenko/go-forager/planning"
)

// Trace - потокобезпечна пам'ять розкритих вершин.
// Використовує sync.Map, щоб переглядач міг читати її під час пошуку.
type Trace[S planning.State] struct {
	visited sync.Map
}

func NewTrace[S planning.State]() *Trace[S] {
	return &Trace[S]{}
}

// Remember додає стан у пам'ять.
func (t *Trace[S]) Remember(s S) {
	t.visited.Store(s, true)
}

// HasVisited перевіряє наявність стану.
func (t *Trace[S]) HasVisited(s S) bool {
	_, exists := t.visited.Load(s)
	return exists
}

// Clear очищає пам'ять. Вказівник могли вже віддати переглядачу,
// тому не підміняємо map, а видаляємо ключі.
func (t *Trace[S]) Clear() {
	t.visited.Range(func(key, value any) bool {
		t.visited.Delete(key)
		return true
	})
}

func (t *Trace[S]) Range(f func(key, value any) bool) {
	t.visited.Range(f)
}
