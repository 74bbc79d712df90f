package ai

import (
	"context"
	"errors"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/youryharchenko/go-forager/planning"
)

const defaultCacheSize = 256

type planKey[S comparable] struct {
	start, goal S
	revision    uint64
}

type planEntry[S planning.State] struct {
	path planning.Path[S]
	err  error
}

// CachedPlanner запам'ятовує плани, поки домен не змінив ревізію.
// Домени без planning.Versioned завжди йдуть напряму в делегат.
type CachedPlanner[S interface {
	planning.State
	comparable
}] struct {
	delegate planning.Planner[S]
	cache    *lru.Cache[planKey[S], planEntry[S]]

	Hits, Misses int
}

// NewCachedPlanner обгортає delegate LRU-кешем. size <= 0 означає розмір за замовчуванням.
func NewCachedPlanner[S interface {
	planning.State
	comparable
}](delegate planning.Planner[S], size int) (*CachedPlanner[S], error) {
	if delegate == nil {
		return nil, errors.New("cached planner: nil delegate")
	}
	if size <= 0 {
		size = defaultCacheSize
	}
	cache, err := lru.New[planKey[S], planEntry[S]](size)
	if err != nil {
		return nil, fmt.Errorf("cached planner: %w", err)
	}
	return &CachedPlanner[S]{delegate: delegate, cache: cache}, nil
}

func (c *CachedPlanner[S]) MakePlan(ctx context.Context, start, goal S, domain planning.Domain[S]) (planning.Path[S], error) {
	versioned, ok := domain.(planning.Versioned)
	if !ok {
		return c.delegate.MakePlan(ctx, start, goal, domain)
	}
	key := planKey[S]{start: start, goal: goal, revision: versioned.Revision()}
	if e, ok := c.cache.Get(key); ok {
		c.Hits++
		return e.path, e.err
	}
	c.Misses++
	path, err := c.delegate.MakePlan(ctx, start, goal, domain)
	// Скасування контексту не кешуємо: це не властивість карти.
	if err == nil || errors.Is(err, ErrUnreachable) {
		c.cache.Add(key, planEntry[S]{path: path, err: err})
	}
	return path, err
}

// Purge очищає кеш.
func (c *CachedPlanner[S]) Purge() {
	c.cache.Purge()
}
