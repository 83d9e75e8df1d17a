package usecases_test

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/samirrijal/fogtrail/internal/core/domain"
	"github.com/samirrijal/fogtrail/internal/core/usecases"
)

func newService(revealRepo *mockRevealRepo, progressRepo *mockProgressRepo, pub *mockPublisher) *usecases.ExplorationService {
	ctx := context.Background()
	if revealRepo == nil {
		revealRepo = &mockRevealRepo{}
	}
	if progressRepo == nil {
		progressRepo = &mockProgressRepo{}
	}
	if pub == nil {
		pub = &mockPublisher{}
	}
	return usecases.NewExplorationService(
		usecases.NewRevealStore(ctx, revealRepo),
		usecases.NewProgressionEngine(ctx, progressRepo),
		usecases.NewFogRenderer(2),
		pub,
		50,
	)
}

func TestExplorationService_ObserveCreditsXP(t *testing.T) {
	pub := &mockPublisher{}
	svc := newService(&mockRevealRepo{}, &mockProgressRepo{}, pub)

	obs, err := svc.Observe(context.Background(), origin)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !obs.Record.Accepted || !obs.Persisted {
		t.Fatalf("expected accepted and persisted, got %+v", obs)
	}
	if math.Abs(obs.Progress.TotalXP-fullDisk*usecases.XPPerSquareMeter) > 1e-9 {
		t.Errorf("expected %v xp, got %v", fullDisk*usecases.XPPerSquareMeter, obs.Progress.TotalXP)
	}
	if len(pub.reveals) != 1 || len(pub.progress) != 1 {
		t.Errorf("expected one reveal and one progress published, got %d/%d", len(pub.reveals), len(pub.progress))
	}
}

func TestExplorationService_RevisitDoesNotInflateXP(t *testing.T) {
	pub := &mockPublisher{}
	svc := newService(nil, nil, pub)
	ctx := context.Background()

	first, _ := svc.Observe(ctx, origin)
	again, err := svc.Observe(ctx, origin)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if again.Record.Accepted {
		t.Error("expected revisit to be rejected as jitter")
	}
	if again.Progress.TotalXP != first.Progress.TotalXP {
		t.Errorf("expected xp unchanged, got %v -> %v", first.Progress.TotalXP, again.Progress.TotalXP)
	}
	if len(pub.reveals) != 1 || len(pub.progress) != 1 {
		t.Errorf("expected nothing published for the revisit")
	}
}

func TestExplorationService_ReportsLevelUps(t *testing.T) {
	pub := &mockPublisher{}
	svc := newService(nil, nil, pub)
	ctx := context.Background()

	if err := svc.Progression().Import(ctx, []byte(`{"xp": 19999}`)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	obs, err := svc.Observe(ctx, origin)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(obs.LevelUps) != 1 || obs.LevelUps[0].Level != 2 {
		t.Fatalf("expected level-up to 2, got %+v", obs.LevelUps)
	}
	if len(pub.levelUps) != 1 || pub.levelUps[0].Title != "Block Browser" {
		t.Errorf("expected published level-up, got %+v", pub.levelUps)
	}
}

func TestExplorationService_InvalidSample(t *testing.T) {
	svc := newService(nil, nil, nil)
	_, err := svc.Observe(context.Background(), domain.GeoPoint{Lat: -100, Lon: 0})
	if !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if svc.Reveals().Len() != 0 || svc.Progression().Progress().TotalXP != 0 {
		t.Error("expected no state change")
	}
}

func TestExplorationService_PersistenceFailureIsReported(t *testing.T) {
	failing := func(ctx context.Context, events []domain.RevealEvent) error { return errors.New("io") }
	svc := newService(&mockRevealRepo{saveFn: failing}, &mockProgressRepo{}, nil)

	obs, err := svc.Observe(context.Background(), origin)
	if !errors.Is(err, domain.ErrPersistence) {
		t.Fatalf("expected persistence error, got %v", err)
	}
	if obs.Persisted {
		t.Error("expected Persisted=false")
	}
	if !obs.Record.Accepted || obs.Progress.TotalXP == 0 {
		t.Errorf("expected the session state to advance, got %+v", obs)
	}
}

func TestExplorationService_RenderAndDraw(t *testing.T) {
	svc := newService(nil, nil, nil)
	ctx := context.Background()
	svc.Observe(ctx, origin)
	svc.Observe(ctx, north(origin, 80))

	mask, err := svc.Render(ctx, testViewport())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(mask.Cutouts) != 2 {
		t.Errorf("expected 2 cutouts, got %d", len(mask.Cutouts))
	}

	drawer := &mockDrawer{}
	if err := svc.Draw(ctx, testViewport(), drawer); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(drawer.masks) != 1 || len(drawer.masks[0].Cutouts) != 2 {
		t.Errorf("expected drawer to receive the mask, got %+v", drawer.masks)
	}

	drawer.drawFn = func(ctx context.Context, mask domain.FogMask) error { return errors.New("gpu lost") }
	if err := svc.Draw(ctx, testViewport(), drawer); err == nil {
		t.Error("expected draw error")
	}
}

func TestExplorationService_ResetAll(t *testing.T) {
	svc := newService(nil, nil, nil)
	ctx := context.Background()
	svc.Observe(ctx, origin)

	if err := svc.ResetAll(ctx); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if svc.Reveals().Len() != 0 || svc.Progression().Progress().TotalXP != 0 {
		t.Error("expected everything cleared")
	}
}
