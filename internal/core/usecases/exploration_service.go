package usecases

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/samirrijal/fogtrail/internal/core/domain"
	"github.com/samirrijal/fogtrail/internal/core/ports"
	"github.com/samirrijal/fogtrail/internal/pkg/metrics"
	"github.com/samirrijal/fogtrail/internal/pkg/telemetry"
)

// DefaultRevealRadius is the ground radius credited around each sample.
const DefaultRevealRadius = 50.0

// ExplorationService runs the sample → reveal → XP pipeline and renders fog
// for viewports.
type ExplorationService struct {
	reveals   *RevealStore
	progress  *ProgressionEngine
	renderer  *FogRenderer
	publisher ports.EventPublisher
	radius    float64

	// observeMu keeps samples strictly sequential so level-ups are attributed
	// to the sample that caused them.
	observeMu sync.Mutex
}

// NewExplorationService wires the stores together. publisher may be nil.
func NewExplorationService(
	reveals *RevealStore,
	progress *ProgressionEngine,
	renderer *FogRenderer,
	publisher ports.EventPublisher,
	radiusMeters float64,
) *ExplorationService {
	if !(radiusMeters > 0) {
		radiusMeters = DefaultRevealRadius
	}
	s := &ExplorationService{
		reveals:   reveals,
		progress:  progress,
		renderer:  renderer,
		publisher: publisher,
		radius:    radiusMeters,
	}

	progress.OnProgress(func(p domain.ProgressSnapshot) {
		metrics.TotalXP.Set(p.TotalXP)
		metrics.Level.Set(float64(p.Level))
		if s.publisher != nil {
			if err := s.publisher.PublishProgress(context.Background(), &p); err != nil {
				slog.Warn("publish progress failed", "error", err)
			}
		}
	})
	progress.OnLevelUp(func(lu domain.LevelUp) {
		metrics.LevelUps.Inc()
		slog.Info("level up", "level", lu.Level, "title", lu.Title)
		if s.publisher != nil {
			if err := s.publisher.PublishLevelUp(context.Background(), &lu); err != nil {
				slog.Warn("publish level up failed", "error", err)
			}
		}
	})

	snap := progress.Progress()
	metrics.TotalXP.Set(snap.TotalXP)
	metrics.Level.Set(float64(snap.Level))
	return s
}

// Reveals exposes the underlying reveal store.
func (s *ExplorationService) Reveals() *RevealStore { return s.reveals }

// Progression exposes the underlying progression engine.
func (s *ExplorationService) Progression() *ProgressionEngine { return s.progress }

// RadiusMeters is the reveal radius applied to every sample.
func (s *ExplorationService) RadiusMeters() float64 { return s.radius }

// Observe feeds one coordinate sample through the pipeline.
//
// A ValidationError leaves all state untouched. Persistence failures do not
// undo anything: the observation is returned with Persisted=false together
// with the error.
func (s *ExplorationService) Observe(ctx context.Context, p domain.GeoPoint) (domain.Observation, error) {
	ctx, span := telemetry.Tracer().Start(ctx, telemetry.SpanObserve)
	defer span.End()
	span.SetAttributes(attribute.Float64("lat", p.Lat), attribute.Float64("lon", p.Lon))

	s.observeMu.Lock()
	defer s.observeMu.Unlock()

	var persistErrs []error

	rec, err := s.reveals.Record(ctx, p, s.radius)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrPersistence):
		metrics.PersistenceErrors.WithLabelValues("reveals").Inc()
		persistErrs = append(persistErrs, err)
	default:
		span.SetStatus(codes.Error, err.Error())
		return domain.Observation{}, err
	}

	obs := domain.Observation{Record: rec}
	if !rec.Accepted {
		metrics.RevealsTotal.WithLabelValues("rejected").Inc()
		obs.Progress = s.progress.Progress()
		obs.Persisted = true
		return obs, nil
	}

	metrics.RevealsTotal.WithLabelValues("accepted").Inc()
	metrics.AreaRevealed.Add(rec.NewAreaSquareMeters)
	span.SetAttributes(attribute.Float64("new_area_m2", rec.NewAreaSquareMeters))

	if s.publisher != nil && rec.Event != nil {
		if err := s.publisher.PublishReveal(ctx, rec.Event); err != nil {
			slog.Warn("publish reveal failed", "sequence", rec.Event.Sequence, "error", err)
		}
	}

	before := s.progress.Progress()
	obs.Progress = before
	if rec.NewAreaSquareMeters > 0 {
		after, err := s.progress.AddXP(ctx, rec.NewAreaSquareMeters)
		if err != nil {
			if !errors.Is(err, domain.ErrPersistence) {
				return obs, fmt.Errorf("add xp: %w", err)
			}
			metrics.PersistenceErrors.WithLabelValues("progress").Inc()
			persistErrs = append(persistErrs, err)
		}
		obs.Progress = after
		obs.LevelUps = LevelUpsBetween(before, after)
	}

	obs.Persisted = len(persistErrs) == 0
	if !obs.Persisted {
		err := errors.Join(persistErrs...)
		slog.Warn("observation not persisted", "error", err)
		span.RecordError(err)
		return obs, err
	}
	return obs, nil
}

// Render computes the fog mask for vp from the current reveal log.
func (s *ExplorationService) Render(ctx context.Context, vp domain.Viewport) (domain.FogMask, error) {
	_, span := telemetry.Tracer().Start(ctx, telemetry.SpanRender)
	defer span.End()

	start := time.Now()
	points := s.reveals.AllPoints()
	mask, err := s.renderer.Render(points, vp)
	metrics.RenderDuration.Observe(time.Since(start).Seconds())
	span.SetAttributes(attribute.Int("cutouts", len(points)))
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return domain.FogMask{}, err
	}
	return mask, nil
}

// Draw renders the fog for vp and hands it to a drawing backend.
func (s *ExplorationService) Draw(ctx context.Context, vp domain.Viewport, drawer ports.MaskDrawer) error {
	mask, err := s.Render(ctx, vp)
	if err != nil {
		return err
	}
	if err := drawer.Draw(ctx, mask); err != nil {
		return fmt.Errorf("draw mask: %w", err)
	}
	return nil
}

// ResetAll clears the reveal log and the XP total.
func (s *ExplorationService) ResetAll(ctx context.Context) error {
	s.observeMu.Lock()
	defer s.observeMu.Unlock()

	return errors.Join(s.reveals.Reset(ctx), s.progress.Reset(ctx))
}
