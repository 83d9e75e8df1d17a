package valkey

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/samirrijal/fogtrail/internal/core/domain"
)

// Store persists exploration state under two keys, mirroring the browser
// layout: <prefix>revealed and <prefix>leveling_progress.
type Store struct {
	kv     *Cache
	prefix string
}

// NewStore implements ports.RevealRepository and ports.ProgressRepository on kv.
func NewStore(kv *Cache, prefix string) *Store {
	return &Store{kv: kv, prefix: prefix}
}

func (s *Store) LoadReveals(ctx context.Context) ([]domain.RevealEvent, error) {
	data, err := s.kv.Get(ctx, s.prefix+domain.RevealsKey)
	if err != nil {
		return nil, fmt.Errorf("get reveals: %w", err)
	}
	return domain.DecodeReveals(data)
}

func (s *Store) SaveReveals(ctx context.Context, events []domain.RevealEvent) error {
	data, err := domain.EncodeReveals(events)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, s.prefix+domain.RevealsKey, data, 0)
}

func (s *Store) LoadProgress(ctx context.Context) (domain.ProgressionState, error) {
	data, err := s.kv.Get(ctx, s.prefix+domain.ProgressKey)
	if err != nil {
		return domain.ProgressionState{}, fmt.Errorf("get progress: %w", err)
	}
	if len(data) == 0 {
		return domain.ProgressionState{}, nil
	}
	var state domain.ProgressionState
	if err := json.Unmarshal(data, &state); err != nil {
		return domain.ProgressionState{}, fmt.Errorf("decode progress: %w", err)
	}
	return state, nil
}

func (s *Store) SaveProgress(ctx context.Context, state domain.ProgressionState) error {
	data, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return s.kv.Set(ctx, s.prefix+domain.ProgressKey, data, 0)
}
