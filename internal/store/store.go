// Package store provides in-memory entity stores seeded from fixtures.
//
// Each store owns an ordered list of records for one entity type and is
// constructed explicitly at the composition root; there are no package
// level singletons. Every operation crosses a simulated-latency async
// boundary whose delay is injectable, so tests run with zero delay and
// a deployment can emulate network round trips.
package store

import (
	"context"
	"errors"
	"strconv"
	"sync"
	"time"
)

var (
	// ErrNotFound is returned when no record matches the requested id.
	ErrNotFound = errors.New("record not found")

	// ErrInvalidID is returned when an id does not parse as an integer.
	ErrInvalidID = errors.New("invalid id")
)

// Record is the contract every stored entity satisfies. Clone must
// return a copy deep enough that callers cannot mutate stored state.
type Record[T any] interface {
	EntityID() int
	SetEntityID(id int)
	Clone() T
}

// createStamper is implemented by records carrying a creation timestamp.
type createStamper interface {
	StampCreated(time.Time)
}

// updateStamper is implemented by records carrying a modification timestamp.
type updateStamper interface {
	StampUpdated(time.Time)
}

// Option configures a store.
type Option func(*settings)

type settings struct {
	latency time.Duration
	clock   func() time.Time
}

// WithLatency sets the simulated per-operation delay. Zero disables it.
func WithLatency(d time.Duration) Option {
	return func(s *settings) { s.latency = d }
}

// WithClock sets the time source used to stamp records.
func WithClock(fn func() time.Time) Option {
	return func(s *settings) { s.clock = fn }
}

// Store is an in-memory ordered collection of records for one entity
// type. Insertion order is preserved; all reads return clones.
type Store[T Record[T]] struct {
	mu       sync.RWMutex
	records  []T
	nextID   int
	settings settings
}

// New creates an empty store.
func New[T Record[T]](opts ...Option) *Store[T] {
	s := &Store[T]{nextID: 1}
	s.settings.clock = time.Now
	for _, opt := range opts {
		opt(&s.settings)
	}
	return s
}

// ParseID parses a caller-supplied id string. Non-integer input yields
// ErrInvalidID; stores themselves only ever see integer ids.
func ParseID(raw string) (int, error) {
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, ErrInvalidID
	}
	return id, nil
}

// wait blocks for the configured simulated latency, honoring context
// cancellation. A caller that abandons the context gets ctx.Err()
// instead of a mutated store.
func (s *Store[T]) wait(ctx context.Context) error {
	if s.settings.latency <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(s.settings.latency)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Seed replaces the store contents with fixture records and primes the
// id allocator past the highest seeded id. Seeding bypasses the
// latency boundary; it runs once at startup.
func (s *Store[T]) Seed(records []T) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = make([]T, 0, len(records))
	high := 0
	for _, rec := range records {
		if rec.EntityID() > high {
			high = rec.EntityID()
		}
		s.records = append(s.records, rec.Clone())
	}
	if high >= s.nextID {
		s.nextID = high + 1
	}
}

// GetAll returns a clone of every record in insertion order.
func (s *Store[T]) GetAll(ctx context.Context) ([]T, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]T, 0, len(s.records))
	for _, rec := range s.records {
		out = append(out, rec.Clone())
	}
	return out, nil
}

// GetByID returns a clone of the record with the given id, or
// ErrNotFound.
func (s *Store[T]) GetByID(ctx context.Context, id int) (T, error) {
	var zero T
	if err := s.wait(ctx); err != nil {
		return zero, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, rec := range s.records {
		if rec.EntityID() == id {
			return rec.Clone(), nil
		}
	}
	return zero, ErrNotFound
}

// Create allocates the next id, stamps timestamps where the entity
// carries them, appends the record and returns a clone. Any id on the
// incoming record is overwritten; ids are assigned once and never
// reused within the process lifetime, even after deletes.
func (s *Store[T]) Create(ctx context.Context, rec T) (T, error) {
	var zero T
	if err := s.wait(ctx); err != nil {
		return zero, err
	}

	now := s.settings.clock()

	s.mu.Lock()
	defer s.mu.Unlock()

	stored := rec.Clone()
	stored.SetEntityID(s.nextID)
	s.nextID++
	if cs, ok := any(stored).(createStamper); ok {
		cs.StampCreated(now)
	}
	if us, ok := any(stored).(updateStamper); ok {
		us.StampUpdated(now)
	}
	s.records = append(s.records, stored)
	return stored.Clone(), nil
}

// Update applies mutate to the record with the given id under the store
// lock, restores the original id afterwards, stamps the modification
// time and returns a clone of the result. Returns ErrNotFound when the
// id is absent.
func (s *Store[T]) Update(ctx context.Context, id int, mutate func(T)) (T, error) {
	var zero T
	if err := s.wait(ctx); err != nil {
		return zero, err
	}

	now := s.settings.clock()

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, rec := range s.records {
		if rec.EntityID() != id {
			continue
		}
		mutate(rec)
		// The id is immutable; undo any change the mutation made.
		rec.SetEntityID(id)
		if us, ok := any(rec).(updateStamper); ok {
			us.StampUpdated(now)
		}
		return rec.Clone(), nil
	}
	return zero, ErrNotFound
}

// Delete removes the record with the given id. Returns ErrNotFound when
// the id is absent. The id is never handed out again.
func (s *Store[T]) Delete(ctx context.Context, id int) error {
	if err := s.wait(ctx); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i, rec := range s.records {
		if rec.EntityID() == id {
			s.records = append(s.records[:i], s.records[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

// Find returns clones of every record matching the predicate, in
// insertion order. A linear scan; lists are fixture-sized.
func (s *Store[T]) Find(ctx context.Context, match func(T) bool) ([]T, error) {
	if err := s.wait(ctx); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []T
	for _, rec := range s.records {
		if match(rec) {
			out = append(out, rec.Clone())
		}
	}
	return out, nil
}

// Count returns the number of records currently stored.
func (s *Store[T]) Count(ctx context.Context) (int, error) {
	if err := s.wait(ctx); err != nil {
		return 0, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records), nil
}
