package usecases

import "sync"

// listeners is an append-only, ordered list of callbacks. Emit delivers
// synchronously in registration order.
type listeners[T any] struct {
	mu  sync.RWMutex
	fns []func(T)
}

func (l *listeners[T]) add(fn func(T)) {
	if fn == nil {
		return
	}
	l.mu.Lock()
	l.fns = append(l.fns, fn)
	l.mu.Unlock()
}

func (l *listeners[T]) emit(v T) {
	l.mu.RLock()
	fns := l.fns
	l.mu.RUnlock()
	for _, fn := range fns {
		fn(v)
	}
}
