package usecases

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"sync"

	"github.com/samirrijal/fogtrail/internal/core/domain"
	"github.com/samirrijal/fogtrail/internal/core/ports"
	"github.com/samirrijal/fogtrail/internal/pkg/geospatial"
)

// JitterMeters is the GPS noise floor. Samples closer than this to the last
// reveal are rejected.
const JitterMeters = 1.0

// RevealStore owns the append-only reveal log and reports the newly exposed
// area of each accepted reveal.
//
// Overlap is only measured against the immediately preceding reveal. Sequential
// GPS samples are spatially local, so this bounds the cost per insert at the
// price of over-crediting when a path crosses an older, non-adjacent reveal.
//
// Readers only take mu. Writers hold persistMu across commit and save so
// saves land in commit order, and release mu before touching storage.
type RevealStore struct {
	repo ports.RevealRepository

	persistMu sync.Mutex
	mu        sync.Mutex
	events    []domain.RevealEvent
}

// NewRevealStore creates a RevealStore and loads the persisted log. A load
// failure is logged and the store starts empty.
func NewRevealStore(ctx context.Context, repo ports.RevealRepository) *RevealStore {
	s := &RevealStore{repo: repo}
	if repo == nil {
		return s
	}

	events, err := repo.LoadReveals(ctx)
	if err != nil {
		slog.Warn("reveal log unavailable, starting empty", "error", err)
		return s
	}

	s.events = make([]domain.RevealEvent, 0, len(events))
	for _, e := range events {
		if e.Point.Validate() != nil || !(e.RadiusMeters > 0) {
			slog.Warn("skipping malformed persisted reveal", "lat", e.Point.Lat, "lon", e.Point.Lon, "radius", e.RadiusMeters)
			continue
		}
		e.Sequence = len(s.events) + 1
		s.events = append(s.events, e)
	}
	return s
}

// Record offers a coordinate sample as a reveal of radiusMeters.
//
// A PersistenceError is returned alongside a valid result when the log could
// not be saved; the in-memory append is kept.
func (s *RevealStore) Record(ctx context.Context, p domain.GeoPoint, radiusMeters float64) (domain.RecordResult, error) {
	if math.IsNaN(radiusMeters) || math.IsInf(radiusMeters, 0) || radiusMeters <= 0 {
		return domain.RecordResult{}, &domain.ValidationError{
			Field:  "radius_meters",
			Reason: fmt.Sprintf("must be positive and finite, got %v", radiusMeters),
		}
	}
	if err := p.Validate(); err != nil {
		return domain.RecordResult{}, err
	}

	s.persistMu.Lock()
	defer s.persistMu.Unlock()

	s.mu.Lock()
	newArea := geospatial.CircleArea(radiusMeters)
	if n := len(s.events); n > 0 {
		prev := s.events[n-1]
		d := geospatial.Haversine(prev.Point.Lat, prev.Point.Lon, p.Lat, p.Lon)
		if d < JitterMeters {
			s.mu.Unlock()
			return domain.RecordResult{Accepted: false}, nil
		}
		newArea -= geospatial.CircleOverlapArea(radiusMeters, prev.RadiusMeters, d)
		if newArea < 0 {
			newArea = 0
		}
	}

	event := domain.RevealEvent{
		Point:        p,
		RadiusMeters: radiusMeters,
		Sequence:     len(s.events) + 1,
	}
	s.events = append(s.events, event)
	snapshot := s.snapshot()
	s.mu.Unlock()

	result := domain.RecordResult{Accepted: true, NewAreaSquareMeters: newArea, Event: &event}
	if err := s.persist(ctx, snapshot); err != nil {
		return result, err
	}
	return result, nil
}

// Reset clears all events in memory and in the durable store.
func (s *RevealStore) Reset(ctx context.Context) error {
	s.persistMu.Lock()
	defer s.persistMu.Unlock()

	s.mu.Lock()
	s.events = nil
	s.mu.Unlock()
	return s.persist(ctx, []domain.RevealEvent{})
}

// AllPoints returns a snapshot of the log in insertion order.
func (s *RevealStore) AllPoints() []domain.RevealEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// Len returns the number of recorded reveals.
func (s *RevealStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.events)
}

// Last returns the most recent reveal, if any.
func (s *RevealStore) Last() (domain.RevealEvent, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.events) == 0 {
		return domain.RevealEvent{}, false
	}
	return s.events[len(s.events)-1], true
}

// snapshot must be called with s.mu held.
func (s *RevealStore) snapshot() []domain.RevealEvent {
	out := make([]domain.RevealEvent, len(s.events))
	copy(out, s.events)
	return out
}

// persist must be called with s.persistMu held and s.mu released.
func (s *RevealStore) persist(ctx context.Context, events []domain.RevealEvent) error {
	if s.repo == nil {
		return nil
	}
	if err := s.repo.SaveReveals(ctx, events); err != nil {
		return &domain.PersistenceError{Op: "reveals", Err: err}
	}
	return nil
}
