package store

import (
	"context"
	"errors"
	"sync"

	"github.com/ukydev/fleet-rental-console/internal/apiclient"
)

// Status is the load state of a slice.
type Status string

const (
	StatusIdle      Status = "idle"
	StatusLoading   Status = "loading"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// ErrSuperseded is returned by Run when a newer Run started before this one
// finished; its result was dropped.
var ErrSuperseded = errors.New("result superseded by a newer request")

// State is a snapshot of a slice.
type State[T any] struct {
	Data   T
	Status Status
	Error  string
}

// Slice holds one piece of remote data with its load status.
type Slice[T any] struct {
	mu    sync.RWMutex
	state State[T]
	seq   uint64
	last  func(context.Context) (T, error)
}

// Get returns the current snapshot.
func (s *Slice[T]) Get() State[T] {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st := s.state
	if st.Status == "" {
		st.Status = StatusIdle
	}
	return st
}

// Run loads the slice with fetch. Data from the previous load stays visible
// while loading. Only the most recent Run may write its result.
func (s *Slice[T]) Run(ctx context.Context, fetch func(context.Context) (T, error)) error {
	s.mu.Lock()
	s.seq++
	seq := s.seq
	s.last = fetch
	s.state.Status = StatusLoading
	s.state.Error = ""
	s.mu.Unlock()

	data, err := fetch(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.seq {
		return ErrSuperseded
	}
	if err != nil {
		s.state.Status = StatusFailed
		s.state.Error = apiclient.UserMessage(err)
		return err
	}
	s.state = State[T]{Data: data, Status: StatusSucceeded}
	return nil
}

// Retry runs the last fetch again.
func (s *Slice[T]) Retry(ctx context.Context) error {
	s.mu.RLock()
	fetch := s.last
	s.mu.RUnlock()
	if fetch == nil {
		return nil
	}
	return s.Run(ctx, fetch)
}

// Update replaces the data with fn(current) without touching the status.
// fn must not modify its argument in place.
func (s *Slice[T]) Update(fn func(T) T) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state.Data = fn(s.state.Data)
}
