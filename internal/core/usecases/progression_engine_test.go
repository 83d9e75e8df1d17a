package usecases_test

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/samirrijal/fogtrail/internal/core/domain"
	"github.com/samirrijal/fogtrail/internal/core/usecases"
)

type recorder struct {
	progress []domain.ProgressSnapshot
	levelUps []domain.LevelUp
	order    []string
}

func (r *recorder) attach(e *usecases.ProgressionEngine) {
	e.OnProgress(func(p domain.ProgressSnapshot) {
		r.progress = append(r.progress, p)
		r.order = append(r.order, "progress")
	})
	e.OnLevelUp(func(lu domain.LevelUp) {
		r.levelUps = append(r.levelUps, lu)
		r.order = append(r.order, "levelup")
	})
}

func TestXPRequired_Curve(t *testing.T) {
	cases := map[int]float64{
		1:  20000,
		15: 300000,
		16: 800000,
		30: 1500000,
		31: 3100000,
		50: 5000000,
	}
	for level, want := range cases {
		if got := usecases.XPRequired(level); got != want {
			t.Errorf("level %d: expected %v, got %v", level, want, got)
		}
	}
}

func TestXPRequired_StrictlyIncreasing(t *testing.T) {
	for level := 1; level < 100; level++ {
		if usecases.XPRequired(level+1) <= usecases.XPRequired(level) {
			t.Fatalf("curve not increasing at level %d", level)
		}
	}
}

func TestXPRequired_LargeLevelsStayPositive(t *testing.T) {
	for _, level := range []int{usecases.MaxLevel, 1 << 40, 1 << 50} {
		got := usecases.XPRequired(level)
		if got <= 0 || got <= usecases.XPRequired(level-1) {
			t.Errorf("level %d: expected positive increasing xp, got %v", level, got)
		}
	}
}

func TestTitle_Clamps(t *testing.T) {
	if got := usecases.Title(1); got != "Sidewalk Scout" {
		t.Errorf("level 1: got %q", got)
	}
	if got := usecases.Title(0); got != "Sidewalk Scout" {
		t.Errorf("level 0: got %q", got)
	}
	if got := usecases.Title(100); got != "Worldwalker" {
		t.Errorf("level 100: got %q", got)
	}
	if got := usecases.Title(250); got != "Worldwalker" {
		t.Errorf("level 250: got %q", got)
	}
}

func TestProgressionEngine_SmallGainStaysLevelOne(t *testing.T) {
	repo := &mockProgressRepo{}
	e := usecases.NewProgressionEngine(context.Background(), repo)

	snap, err := e.AddXP(context.Background(), 7853.98)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap.Level != 1 {
		t.Errorf("expected level 1, got %d", snap.Level)
	}
	if math.Abs(snap.TotalXP-7.85398) > 1e-9 {
		t.Errorf("expected 7.85398 xp, got %v", snap.TotalXP)
	}
	if snap.XPForNextLevel != 20000 {
		t.Errorf("expected 20000 to next level, got %v", snap.XPForNextLevel)
	}
	if len(repo.saved) != 1 || repo.saved[0].TotalXP != snap.TotalXP {
		t.Errorf("expected persisted total, got %+v", repo.saved)
	}
}

func TestProgressionEngine_ExactlyOneLevelUpForLevelTwo(t *testing.T) {
	e := usecases.NewProgressionEngine(context.Background(), nil)
	rec := &recorder{}
	rec.attach(e)
	ctx := context.Background()

	// 12000 XP twice crosses 20000 once.
	e.AddXP(ctx, 1.2e7)
	if len(rec.levelUps) != 0 {
		t.Fatalf("expected no level-up yet, got %+v", rec.levelUps)
	}
	snap, _ := e.AddXP(ctx, 1.2e7)

	if len(rec.levelUps) != 1 {
		t.Fatalf("expected exactly one level-up, got %+v", rec.levelUps)
	}
	if rec.levelUps[0].Level != 2 || rec.levelUps[0].Title != "Block Browser" {
		t.Errorf("unexpected level-up %+v", rec.levelUps[0])
	}
	if snap.Level != 2 || math.Abs(snap.XPIntoLevel-4000) > 1e-6 {
		t.Errorf("expected level 2 with 4000 xp in, got %+v", snap)
	}
	if math.Abs(snap.Percent-10) > 1e-6 {
		t.Errorf("expected 10%%, got %v", snap.Percent)
	}
	if len(rec.progress) != 2 {
		t.Errorf("expected a progress event per call, got %d", len(rec.progress))
	}
}

func TestProgressionEngine_MultiLevelJumpEmitsEachLevel(t *testing.T) {
	e := usecases.NewProgressionEngine(context.Background(), nil)
	rec := &recorder{}
	rec.attach(e)

	// 70000 XP: level 1 takes 20000, level 2 takes 40000.
	snap, _ := e.AddXP(context.Background(), 7e7)
	if snap.Level != 3 {
		t.Fatalf("expected level 3, got %d", snap.Level)
	}
	want := []string{"progress", "levelup", "levelup"}
	if len(rec.order) != len(want) {
		t.Fatalf("expected %v, got %v", want, rec.order)
	}
	for i := range want {
		if rec.order[i] != want[i] {
			t.Errorf("event %d: expected %s, got %s", i, want[i], rec.order[i])
		}
	}
	if rec.levelUps[0].Level != 2 || rec.levelUps[1].Level != 3 {
		t.Errorf("expected ascending levels 2,3, got %+v", rec.levelUps)
	}
}

func TestProgressionEngine_LevelNeverDecreases(t *testing.T) {
	e := usecases.NewProgressionEngine(context.Background(), nil)
	prev := e.Progress().Level
	for _, area := range []float64{1, 5e5, 3.3e6, 1e7, 0.25, 8e8, 4.2e9} {
		snap, err := e.AddXP(context.Background(), area)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if snap.Level < prev {
			t.Fatalf("level dropped from %d to %d", prev, snap.Level)
		}
		prev = snap.Level
	}
}

func TestProgressionEngine_InvalidAmountIsNoop(t *testing.T) {
	repo := &mockProgressRepo{}
	e := usecases.NewProgressionEngine(context.Background(), repo)
	rec := &recorder{}
	rec.attach(e)

	for _, v := range []float64{0, -10, math.NaN(), math.Inf(1)} {
		snap, err := e.AddXP(context.Background(), v)
		if !errors.Is(err, domain.ErrValidation) {
			t.Errorf("%v: expected validation error, got %v", v, err)
		}
		if snap.TotalXP != 0 || snap.Level != 1 {
			t.Errorf("%v: expected unchanged snapshot, got %+v", v, snap)
		}
	}
	if len(rec.order) != 0 || len(repo.saved) != 0 {
		t.Errorf("expected no events or saves, got %v / %d", rec.order, len(repo.saved))
	}
}

func TestProgressionEngine_Reset(t *testing.T) {
	repo := &mockProgressRepo{}
	e := usecases.NewProgressionEngine(context.Background(), repo)
	e.AddXP(context.Background(), 7e7)

	rec := &recorder{}
	rec.attach(e)
	if err := e.Reset(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(rec.progress) != 1 || len(rec.levelUps) != 0 {
		t.Errorf("expected one progress and no level-up, got %v", rec.order)
	}
	if p := e.Progress(); p.Level != 1 || p.TotalXP != 0 {
		t.Errorf("expected fresh progress, got %+v", p)
	}
	if last := repo.saved[len(repo.saved)-1]; last.TotalXP != 0 {
		t.Errorf("expected 0 persisted, got %v", last.TotalXP)
	}
}

func TestProgressionEngine_ExportImportRoundTrip(t *testing.T) {
	ctx := context.Background()
	src := usecases.NewProgressionEngine(ctx, nil)
	src.AddXP(ctx, 12345678)

	blob, err := src.Export()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	dst := usecases.NewProgressionEngine(ctx, nil)
	rec := &recorder{}
	rec.attach(dst)
	if err := dst.Import(ctx, blob); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if src.Progress() != dst.Progress() {
		t.Errorf("expected %+v, got %+v", src.Progress(), dst.Progress())
	}
	if len(rec.progress) != 1 || len(rec.levelUps) != 0 {
		t.Errorf("expected one progress and no level-up on import, got %v", rec.order)
	}

	// Importing its own export leaves the engine unchanged.
	before := src.Progress()
	blob, _ = src.Export()
	src.Import(ctx, blob)
	if src.Progress() != before {
		t.Errorf("self round-trip changed progress: %+v -> %+v", before, src.Progress())
	}
}

func TestProgressionEngine_ImportIgnoresGarbage(t *testing.T) {
	ctx := context.Background()
	repo := &mockProgressRepo{}
	e := usecases.NewProgressionEngine(ctx, repo)
	e.AddXP(ctx, 5e6)
	before := e.Progress()
	saves := len(repo.saved)

	rec := &recorder{}
	rec.attach(e)

	for _, payload := range []string{
		"",
		"not json",
		`{"level": 9}`,
		`{"xp": "lots"}`,
		`{"xp": -1}`,
		`{"xp": 1e300}`,
		`[1,2,3]`,
	} {
		if err := e.Import(ctx, []byte(payload)); err != nil {
			t.Errorf("%q: expected nil error, got %v", payload, err)
		}
	}
	if e.Progress() != before {
		t.Errorf("expected unchanged progress, got %+v", e.Progress())
	}
	if len(rec.order) != 0 || len(repo.saved) != saves {
		t.Errorf("expected no events or saves, got %v", rec.order)
	}
}

func TestProgressionEngine_PersistenceFailure(t *testing.T) {
	repo := &mockProgressRepo{
		saveFn: func(ctx context.Context, state domain.ProgressionState) error {
			return errors.New("read-only")
		},
	}
	e := usecases.NewProgressionEngine(context.Background(), repo)

	snap, err := e.AddXP(context.Background(), 1000)
	if !errors.Is(err, domain.ErrPersistence) {
		t.Fatalf("expected persistence error, got %v", err)
	}
	if snap.TotalXP != 1 || e.Progress().TotalXP != 1 {
		t.Errorf("expected in-memory xp kept, got %+v", snap)
	}

	if err := e.Import(context.Background(), []byte(`{"xp": 5}`)); !errors.Is(err, domain.ErrPersistence) {
		t.Errorf("expected import to report persistence error, got %v", err)
	}
}

func TestProgressionEngine_LoadsPersistedTotal(t *testing.T) {
	repo := &mockProgressRepo{
		loadFn: func(ctx context.Context) (domain.ProgressionState, error) {
			return domain.ProgressionState{TotalXP: 60000}, nil
		},
	}
	e := usecases.NewProgressionEngine(context.Background(), repo)
	if p := e.Progress(); p.Level != 3 || p.XPIntoLevel != 0 {
		t.Errorf("expected level 3 at 0 xp in, got %+v", p)
	}

	broken := &mockProgressRepo{
		loadFn: func(ctx context.Context) (domain.ProgressionState, error) {
			return domain.ProgressionState{}, errors.New("timeout")
		},
	}
	if p := usecases.NewProgressionEngine(context.Background(), broken).Progress(); p.TotalXP != 0 {
		t.Errorf("expected zero on load failure, got %+v", p)
	}
}

func TestProgressionEngine_ListenersMayReadProgress(t *testing.T) {
	e := usecases.NewProgressionEngine(context.Background(), nil)
	var seen []int
	e.OnLevelUp(func(lu domain.LevelUp) {
		seen = append(seen, e.Progress().Level)
	})
	e.AddXP(context.Background(), 7e7)
	if len(seen) != 2 || seen[0] != 3 {
		t.Errorf("expected listener to observe committed level 3, got %v", seen)
	}
}

func TestProgressionEngine_ListenerOrder(t *testing.T) {
	e := usecases.NewProgressionEngine(context.Background(), nil)
	var calls []int
	for i := 0; i < 3; i++ {
		i := i
		e.OnProgress(func(domain.ProgressSnapshot) { calls = append(calls, i) })
	}
	e.OnProgress(nil)
	e.AddXP(context.Background(), 10)
	if len(calls) != 3 || calls[0] != 0 || calls[1] != 1 || calls[2] != 2 {
		t.Errorf("expected registration order, got %v", calls)
	}
}
