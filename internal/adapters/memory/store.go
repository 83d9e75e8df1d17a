// Package memory keeps exploration state in process memory. Nothing survives
// a restart.
package memory

import (
	"context"
	"sync"

	"github.com/samirrijal/fogtrail/internal/core/domain"
)

// Store implements ports.RevealRepository and ports.ProgressRepository.
type Store struct {
	mu       sync.RWMutex
	reveals  []domain.RevealEvent
	progress domain.ProgressionState
}

// New creates an empty Store.
func New() *Store {
	return &Store{}
}

func (s *Store) LoadReveals(ctx context.Context) ([]domain.RevealEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.RevealEvent, len(s.reveals))
	copy(out, s.reveals)
	return out, nil
}

func (s *Store) SaveReveals(ctx context.Context, events []domain.RevealEvent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reveals = make([]domain.RevealEvent, len(events))
	copy(s.reveals, events)
	return nil
}

func (s *Store) LoadProgress(ctx context.Context) (domain.ProgressionState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.progress, nil
}

func (s *Store) SaveProgress(ctx context.Context, state domain.ProgressionState) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.progress = state
	return nil
}

// Ping always succeeds.
func (s *Store) Ping(ctx context.Context) error { return nil }

// Close is a no-op.
func (s *Store) Close() error { return nil }
