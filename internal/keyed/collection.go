package keyed

import "sync"

// Collection is an insertion-ordered container whose elements are unique by
// a string key derived from each element. Duplicate adds and absent removes
// are no-ops reported through the boolean result rather than errors, so
// callers can apply at-least-once input without double-applying a mutation.
//
// The zero value is not usable; construct with NewCollection.
type Collection[T any] struct {
	mu    sync.RWMutex
	key   func(T) string
	items []T
	index map[string]T
}

// NewCollection creates an empty collection keyed by the given accessor.
func NewCollection[T any](key func(T) string) *Collection[T] {
	return &Collection[T]{
		key:   key,
		index: map[string]T{},
	}
}

// Add appends item if its key is not already present.
// Returns false, without mutating the collection, on a duplicate key.
func (c *Collection[T]) Add(item T) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	k := c.key(item)
	if _, ok := c.index[k]; ok {
		return false
	}

	c.index[k] = item
	c.items = append(c.items, item)
	return true
}

// Remove deletes the element whose key matches item's key.
// Returns false if no such element exists.
func (c *Collection[T]) Remove(item T) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	k := c.key(item)
	if _, ok := c.index[k]; !ok {
		return false
	}

	delete(c.index, k)
	for i := range c.items {
		if c.key(c.items[i]) == k {
			c.items = append(c.items[:i], c.items[i+1:]...)
			break
		}
	}
	return true
}

// Get returns the element stored under key. The boolean reports presence;
// absence is expected (not an error) and callers must check it.
func (c *Collection[T]) Get(key string) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	item, ok := c.index[key]
	return item, ok
}

// Len returns the number of elements.
func (c *Collection[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.items)
}

// Items returns a copy of the elements in insertion order.
func (c *Collection[T]) Items() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]T, len(c.items))
	copy(out, c.items)
	return out
}
