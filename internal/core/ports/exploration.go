package ports

import (
	"context"

	"github.com/samirrijal/fogtrail/internal/core/domain"
)

// RevealRepository persists the ordered reveal log.
// Save always receives the full list; implementations replace what they hold.
type RevealRepository interface {
	LoadReveals(ctx context.Context) ([]domain.RevealEvent, error)
	SaveReveals(ctx context.Context, events []domain.RevealEvent) error
}

// ProgressRepository persists the progression total.
type ProgressRepository interface {
	LoadProgress(ctx context.Context) (domain.ProgressionState, error)
	SaveProgress(ctx context.Context, state domain.ProgressionState) error
}

// MaskDrawer is a rendering backend for a computed fog mask.
type MaskDrawer interface {
	Draw(ctx context.Context, mask domain.FogMask) error
}
