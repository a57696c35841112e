// Package reconcile keeps a local collection snapshot and the remote store
// converged. The local swap is synchronous; the remote write is detached.
package reconcile

import "sync"

// Keyed is anything with a stable primary key.
type Keyed interface {
	Key() string
}

// Collection is an in-memory snapshot of one remote collection, in order.
type Collection[T Keyed] struct {
	mu    sync.RWMutex
	items []T
}

func NewCollection[T Keyed](items []T) *Collection[T] {
	return &Collection[T]{items: append([]T(nil), items...)}
}

// All returns a copy of the snapshot.
func (c *Collection[T]) All() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return append([]T(nil), c.items...)
}

func (c *Collection[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Find returns the item with the given key.
func (c *Collection[T]) Find(id string) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, it := range c.items {
		if it.Key() == id {
			return it, true
		}
	}
	var zero T
	return zero, false
}

// FindFunc returns the first item matching fn.
func (c *Collection[T]) FindFunc(fn func(T) bool) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, it := range c.items {
		if fn(it) {
			return it, true
		}
	}
	var zero T
	return zero, false
}

// Replace swaps the snapshot and returns the previous one.
func (c *Collection[T]) Replace(next []T) []T {
	c.mu.Lock()
	defer c.mu.Unlock()
	prev := c.items
	c.items = append([]T(nil), next...)
	return prev
}

// Append adds an item at the end.
func (c *Collection[T]) Append(item T) {
	c.mu.Lock()
	c.items = append(c.items, item)
	c.mu.Unlock()
}

// Remove deletes the item with the given key and reports whether it existed.
func (c *Collection[T]) Remove(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.items {
		if c.items[i].Key() == id {
			c.items = append(c.items[:i:i], c.items[i+1:]...)
			return true
		}
	}
	return false
}

// Update applies fn to the item with the given key under the write lock.
// It reports whether the item was found.
func (c *Collection[T]) Update(id string, fn func(*T)) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.items {
		if c.items[i].Key() == id {
			fn(&c.items[i])
			return true
		}
	}
	return false
}
