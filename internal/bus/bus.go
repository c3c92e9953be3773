package bus

import "sync"

// Bus is a minimal in-process publish/subscribe fan-out over named subjects.
// It mirrors the wire-transport contract (subscribe to a named event, emit a
// named event with a payload) so local notification surfaces and inbound
// frame dispatch share one capability instead of ad-hoc handler registries.
//
// Handlers run synchronously on the emitting goroutine, in subscription
// order. A handler may unsubscribe itself or others during delivery.
type Bus[T any] struct {
	mu     sync.RWMutex
	nextId int
	subs   map[string][]subscription[T]
}

type subscription[T any] struct {
	id      int
	handler func(T)
}

// New creates an empty bus.
func New[T any]() *Bus[T] {
	return &Bus[T]{
		subs: map[string][]subscription[T]{},
	}
}

// Subscribe registers handler for subject and returns the function that
// removes the registration. The returned function is safe to call more than
// once.
func (b *Bus[T]) Subscribe(subject string, handler func(T)) func() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.nextId++
	id := b.nextId
	b.subs[subject] = append(b.subs[subject], subscription[T]{id: id, handler: handler})

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()

		list := b.subs[subject]
		for i := range list {
			if list[i].id == id {
				b.subs[subject] = append(list[:i], list[i+1:]...)
				break
			}
		}
		if len(b.subs[subject]) == 0 {
			delete(b.subs, subject)
		}
	}
}

// Emit delivers v to every handler registered for subject.
// The subscriber list is snapshotted before delivery so handlers can
// unsubscribe without invalidating the iteration.
func (b *Bus[T]) Emit(subject string, v T) {
	b.mu.RLock()
	list := b.subs[subject]
	snapshot := make([]subscription[T], len(list))
	copy(snapshot, list)
	b.mu.RUnlock()

	for _, s := range snapshot {
		s.handler(v)
	}
}
