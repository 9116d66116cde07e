package client

import (
	"context"
	"sync"
)

// Store caches single values per key (a like counter, a follower state) and
// tracks the in-flight refetch for each so a mutation can cancel it.
type Store[T any] struct {
	mu       sync.Mutex
	values   map[QueryKey]T
	inflight map[QueryKey]context.CancelFunc
}

func NewStore[T any]() *Store[T] {
	return &Store[T]{
		values:   make(map[QueryKey]T),
		inflight: make(map[QueryKey]context.CancelFunc),
	}
}

func (s *Store[T]) Get(key QueryKey) (T, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	return v, ok
}

func (s *Store[T]) Set(key QueryKey, value T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.values[key] = value
}

// Refetch loads the value from the server unless a mutation cancels it
// first. A cancelled refetch leaves the cache as the mutation wrote it;
// that is the point of the cancellation.
func (s *Store[T]) Refetch(ctx context.Context, key QueryKey, fetch func(context.Context) (T, error)) error {
	ctx, cancel := context.WithCancel(ctx)

	s.mu.Lock()
	if prev, ok := s.inflight[key]; ok {
		prev()
	}
	s.inflight[key] = cancel
	s.mu.Unlock()

	value, err := fetch(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inflight[key] != nil {
		delete(s.inflight, key)
	}
	cancel()
	if err != nil {
		return err
	}
	if ctx.Err() != nil {
		// A mutation superseded this fetch; its result is stale.
		return ctx.Err()
	}
	s.values[key] = value
	return nil
}

// Mutate applies an optimistic toggle: cancel any refetch racing this key,
// derive the optimistic value from the LATEST cached state, show it, then
// confirm with the server. On failure the snapshot is restored exactly and
// the error surfaces to the caller; nothing else observes it.
func Mutate[T any](ctx context.Context, s *Store[T], key QueryKey, apply func(T) T, send func(ctx context.Context, optimistic T) (T, error)) (T, error) {
	s.mu.Lock()
	if cancel, ok := s.inflight[key]; ok {
		cancel()
		delete(s.inflight, key)
	}
	snapshot, hadValue := s.values[key]
	optimistic := apply(snapshot)
	s.values[key] = optimistic
	s.mu.Unlock()

	settled, err := send(ctx, optimistic)
	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		if hadValue {
			s.values[key] = snapshot
		} else {
			delete(s.values, key)
		}
		var zero T
		return zero, err
	}
	s.values[key] = settled
	return settled, nil
}
