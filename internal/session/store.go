// Package session holds the per-sender in-memory state the bot keeps
// between messages: sell-wizard progress, catalog caches, waiting flags.
// Everything here is process-local; only filter state is persisted
// elsewhere.
package session

import "sync"

// Store is a concurrent map keyed by sender id.
type Store[T any] struct {
	mu    sync.RWMutex
	items map[string]T
}

func NewStore[T any]() *Store[T] {
	return &Store[T]{items: make(map[string]T)}
}

func (s *Store[T]) Get(sender string) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.items[sender]
	return v, ok
}

func (s *Store[T]) Set(sender string, value T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[sender] = value
}

func (s *Store[T]) Delete(sender string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.items, sender)
}

func (s *Store[T]) Has(sender string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.items[sender]
	return ok
}

func (s *Store[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Dedup remembers the last capacity ids it has seen. Seen reports whether
// the id was already recorded and records it otherwise.
type Dedup struct {
	mu       sync.Mutex
	capacity int
	order    []string
	seen     map[string]struct{}
}

func NewDedup(capacity int) *Dedup {
	return &Dedup{
		capacity: capacity,
		seen:     make(map[string]struct{}, capacity),
	}
}

func (d *Dedup) Seen(id string) bool {
	if id == "" {
		return false
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.seen[id]; ok {
		return true
	}
	d.seen[id] = struct{}{}
	d.order = append(d.order, id)
	if len(d.order) > d.capacity {
		oldest := d.order[0]
		d.order = d.order[1:]
		delete(d.seen, oldest)
	}
	return false
}
