package usecases_test

import (
	"context"
	"math"
	"sync"

	"github.com/samirrijal/fogtrail/internal/core/domain"
	"github.com/samirrijal/fogtrail/internal/pkg/geospatial"
)

// --- Mock RevealRepository ---

type mockRevealRepo struct {
	loadFn func(ctx context.Context) ([]domain.RevealEvent, error)
	saveFn func(ctx context.Context, events []domain.RevealEvent) error

	saved [][]domain.RevealEvent
}

func (m *mockRevealRepo) LoadReveals(ctx context.Context) ([]domain.RevealEvent, error) {
	if m.loadFn != nil {
		return m.loadFn(ctx)
	}
	return nil, nil
}

func (m *mockRevealRepo) SaveReveals(ctx context.Context, events []domain.RevealEvent) error {
	m.saved = append(m.saved, events)
	if m.saveFn != nil {
		return m.saveFn(ctx, events)
	}
	return nil
}

func (m *mockRevealRepo) last() []domain.RevealEvent {
	if len(m.saved) == 0 {
		return nil
	}
	return m.saved[len(m.saved)-1]
}

// --- Mock ProgressRepository ---

type mockProgressRepo struct {
	loadFn func(ctx context.Context) (domain.ProgressionState, error)
	saveFn func(ctx context.Context, state domain.ProgressionState) error

	saved []domain.ProgressionState
}

func (m *mockProgressRepo) LoadProgress(ctx context.Context) (domain.ProgressionState, error) {
	if m.loadFn != nil {
		return m.loadFn(ctx)
	}
	return domain.ProgressionState{}, nil
}

func (m *mockProgressRepo) SaveProgress(ctx context.Context, state domain.ProgressionState) error {
	m.saved = append(m.saved, state)
	if m.saveFn != nil {
		return m.saveFn(ctx, state)
	}
	return nil
}

// --- Mock EventPublisher ---

type mockPublisher struct {
	mu       sync.Mutex
	reveals  []domain.RevealEvent
	progress []domain.ProgressSnapshot
	levelUps []domain.LevelUp
}

func (m *mockPublisher) PublishReveal(ctx context.Context, e *domain.RevealEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reveals = append(m.reveals, *e)
	return nil
}

func (m *mockPublisher) PublishProgress(ctx context.Context, p *domain.ProgressSnapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.progress = append(m.progress, *p)
	return nil
}

func (m *mockPublisher) PublishLevelUp(ctx context.Context, lu *domain.LevelUp) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.levelUps = append(m.levelUps, *lu)
	return nil
}

// --- Mock MaskDrawer ---

type mockDrawer struct {
	drawFn func(ctx context.Context, mask domain.FogMask) error
	masks  []domain.FogMask
}

func (m *mockDrawer) Draw(ctx context.Context, mask domain.FogMask) error {
	m.masks = append(m.masks, mask)
	if m.drawFn != nil {
		return m.drawFn(ctx, mask)
	}
	return nil
}

// --- Helpers ---

// north returns p moved the given ground distance along its meridian.
func north(p domain.GeoPoint, meters float64) domain.GeoPoint {
	return domain.GeoPoint{Lat: p.Lat + meters/(geospatial.EarthRadiusMeters*math.Pi/180), Lon: p.Lon}
}

var origin = domain.GeoPoint{Lat: 40, Lon: -73}
