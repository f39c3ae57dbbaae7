package model

import "sync"

// Feed holds the last fetched collection of one feed. Collections are only
// ever replaced wholesale; readers get copies so filtering never mutates the
// stored order.
type Feed[T any] struct {
	mu       sync.RWMutex
	items    []T
	gen    uint64 // generation of the request that produced items
	loaded bool
}

func NewFeed[T any]() *Feed[T] {
	return &Feed[T]{}
}

// Replace swaps in items produced by the request with generation gen.
// A replacement older than the one already applied is refused and Replace
// reports false.
func (f *Feed[T]) Replace(gen uint64, items []T) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.loaded && gen < f.gen {
		return false
	}
	cp := make([]T, len(items))
	copy(cp, items)
	f.items = cp
	f.gen = gen
	f.loaded = true
	return true
}

func (f *Feed[T]) Snapshot() []T {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]T, len(f.items))
	copy(out, f.items)
	return out
}

func (f *Feed[T]) Len() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.items)
}

// Loaded reports whether any fetch has populated the feed yet.
func (f *Feed[T]) Loaded() bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.loaded
}

// Generation is the generation of the request behind the stored items.
func (f *Feed[T]) Generation() uint64 {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.gen
}
