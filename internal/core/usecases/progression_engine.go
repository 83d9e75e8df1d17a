package usecases

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"sync"

	"github.com/samirrijal/fogtrail/internal/core/domain"
	"github.com/samirrijal/fogtrail/internal/core/ports"
)

const (
	// XPPerSquareMeter converts newly revealed ground area into XP.
	XPPerSquareMeter = 0.001

	xpScale = 10000

	// MaxTotalXP bounds the accumulated total. The curve needs roughly 1.4e5
	// levels to consume it, which keeps Progress a short loop.
	MaxTotalXP = 1e15
)

// MaxLevel bounds the levels the curve is queried for. MaxTotalXP is
// exhausted long before it.
const MaxLevel = 1_000_000

// XPRequired returns the XP needed to advance from level to level+1.
func XPRequired(level int) float64 {
	l := float64(level)
	switch {
	case level <= 15:
		return 2 * l * xpScale
	case level <= 30:
		return 5 * l * xpScale
	default:
		return 10 * l * xpScale
	}
}

// Title maps a level to its display name. Levels below 1 get the first title,
// levels past the list keep the last one.
func Title(level int) string {
	if level < 1 {
		level = 1
	}
	if level > len(titles) {
		level = len(titles)
	}
	return titles[level-1]
}

// ProgressionEngine accumulates XP and derives level, title and percent from it.
//
// Listeners run synchronously in registration order after the state change is
// committed. They may call Progress but must not mutate the engine that is
// notifying them.
type ProgressionEngine struct {
	repo ports.ProgressRepository

	mu      sync.Mutex
	totalXP float64

	// emitMu serializes mutations so saves and notifications follow commit
	// order. Readers only take mu and never wait on storage.
	emitMu     sync.Mutex
	onProgress listeners[domain.ProgressSnapshot]
	onLevelUp  listeners[domain.LevelUp]
}

// NewProgressionEngine creates an engine and loads the persisted total. A load
// failure or a corrupt value is logged and the engine starts at zero.
func NewProgressionEngine(ctx context.Context, repo ports.ProgressRepository) *ProgressionEngine {
	e := &ProgressionEngine{repo: repo}
	if repo == nil {
		return e
	}

	state, err := repo.LoadProgress(ctx)
	if err != nil {
		slog.Warn("progression state unavailable, starting at zero", "error", err)
		return e
	}
	if !validTotal(state.TotalXP) {
		slog.Warn("ignoring corrupt persisted xp", "xp", state.TotalXP)
		return e
	}
	e.totalXP = state.TotalXP
	return e
}

// OnProgress registers fn for every progress notification.
func (e *ProgressionEngine) OnProgress(fn func(domain.ProgressSnapshot)) { e.onProgress.add(fn) }

// OnLevelUp registers fn for every level crossed.
func (e *ProgressionEngine) OnLevelUp(fn func(domain.LevelUp)) { e.onLevelUp.add(fn) }

// AddXP credits squareMetersRevealed of new area.
func (e *ProgressionEngine) AddXP(ctx context.Context, squareMetersRevealed float64) (domain.ProgressSnapshot, error) {
	if math.IsNaN(squareMetersRevealed) || math.IsInf(squareMetersRevealed, 0) || squareMetersRevealed <= 0 {
		return e.Progress(), &domain.ValidationError{
			Field:  "square_meters",
			Reason: fmt.Sprintf("must be positive and finite, got %v", squareMetersRevealed),
		}
	}

	e.emitMu.Lock()
	defer e.emitMu.Unlock()

	e.mu.Lock()
	before := progressFor(e.totalXP).Level
	e.totalXP = math.Min(e.totalXP+squareMetersRevealed*XPPerSquareMeter, MaxTotalXP)
	snap := progressFor(e.totalXP)
	e.mu.Unlock()

	err := e.persist(ctx, snap.TotalXP)

	e.onProgress.emit(snap)
	for lvl := before + 1; lvl <= snap.Level; lvl++ {
		e.onLevelUp.emit(domain.LevelUp{Level: lvl, Title: Title(lvl)})
	}
	return snap, err
}

// LevelUpsBetween lists the level-ups crossed going from one snapshot to another.
func LevelUpsBetween(before, after domain.ProgressSnapshot) []domain.LevelUp {
	if after.Level <= before.Level {
		return nil
	}
	out := make([]domain.LevelUp, 0, after.Level-before.Level)
	for lvl := before.Level + 1; lvl <= after.Level; lvl++ {
		out = append(out, domain.LevelUp{Level: lvl, Title: Title(lvl)})
	}
	return out
}

// Progress derives the current snapshot.
func (e *ProgressionEngine) Progress() domain.ProgressSnapshot {
	e.mu.Lock()
	defer e.mu.Unlock()
	return progressFor(e.totalXP)
}

// Reset zeroes XP and emits a single progress notification.
func (e *ProgressionEngine) Reset(ctx context.Context) error {
	return e.set(ctx, 0)
}

// Export serializes the state as {"xp": total}.
func (e *ProgressionEngine) Export() ([]byte, error) {
	e.mu.Lock()
	state := domain.ProgressionState{TotalXP: e.totalXP}
	e.mu.Unlock()
	return json.Marshal(state)
}

// Import restores a blob produced by Export. Unparseable payloads, a missing
// xp field and out-of-range values are ignored. Only a persistence failure is
// reported.
func (e *ProgressionEngine) Import(ctx context.Context, data []byte) error {
	var payload struct {
		XP *float64 `json:"xp"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		slog.Debug("ignoring unparseable progression import", "error", err)
		return nil
	}
	if payload.XP == nil || !validTotal(*payload.XP) {
		slog.Debug("ignoring progression import without usable xp")
		return nil
	}
	return e.set(ctx, *payload.XP)
}

func (e *ProgressionEngine) set(ctx context.Context, xp float64) error {
	e.emitMu.Lock()
	defer e.emitMu.Unlock()

	e.mu.Lock()
	e.totalXP = xp
	snap := progressFor(e.totalXP)
	e.mu.Unlock()

	err := e.persist(ctx, snap.TotalXP)

	e.onProgress.emit(snap)
	return err
}

// persist must be called with e.emitMu held and e.mu released.
func (e *ProgressionEngine) persist(ctx context.Context, totalXP float64) error {
	if e.repo == nil {
		return nil
	}
	if err := e.repo.SaveProgress(ctx, domain.ProgressionState{TotalXP: totalXP}); err != nil {
		return &domain.PersistenceError{Op: "progress", Err: err}
	}
	return nil
}

func progressFor(totalXP float64) domain.ProgressSnapshot {
	level := 1
	remaining := totalXP
	required := XPRequired(level)
	for remaining >= required {
		remaining -= required
		level++
		required = XPRequired(level)
	}
	return domain.ProgressSnapshot{
		Level:          level,
		Title:          Title(level),
		XPIntoLevel:    remaining,
		XPForNextLevel: required,
		Percent:        remaining / required * 100,
		TotalXP:        totalXP,
	}
}

func validTotal(xp float64) bool {
	return !math.IsNaN(xp) && !math.IsInf(xp, 0) && xp >= 0 && xp <= MaxTotalXP
}
