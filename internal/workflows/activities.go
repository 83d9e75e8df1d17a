package workflows

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"

	"github.com/samirrijal/fogtrail/internal/core/domain"
	"github.com/samirrijal/fogtrail/internal/core/usecases"
	"github.com/samirrijal/fogtrail/internal/pkg/telemetry"
)

// ImportActivities holds the activity implementations for track imports.
type ImportActivities struct {
	Exploration *usecases.ExplorationService
}

// BatchResult summarizes one batch of observed samples.
type BatchResult struct {
	Accepted         int              `json:"accepted"`
	Rejected         int              `json:"rejected"`
	Invalid          int              `json:"invalid"`
	AreaSquareMeters float64          `json:"area_m2"`
	LevelUps         []domain.LevelUp `json:"level_ups,omitempty"`
	Unpersisted      int              `json:"unpersisted"`
}

// ObserveBatch feeds samples through the exploration pipeline in order.
// Invalid samples are counted and skipped.
func (a *ImportActivities) ObserveBatch(ctx context.Context, points []domain.GeoPoint) (BatchResult, error) {
	ctx, span := telemetry.Tracer().Start(ctx, telemetry.SpanImport)
	defer span.End()
	span.SetAttributes(attribute.Int("points", len(points)))

	var res BatchResult
	for _, p := range points {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		obs, err := a.Exploration.Observe(ctx, p)
		switch {
		case err == nil:
		case errors.Is(err, domain.ErrValidation):
			res.Invalid++
			continue
		case errors.Is(err, domain.ErrPersistence):
			res.Unpersisted++
		default:
			return res, fmt.Errorf("observe %+v: %w", p, err)
		}

		if !obs.Record.Accepted {
			res.Rejected++
			continue
		}
		res.Accepted++
		res.AreaSquareMeters += obs.Record.NewAreaSquareMeters
		res.LevelUps = append(res.LevelUps, obs.LevelUps...)
	}
	return res, nil
}

// CurrentProgress returns the progression snapshot after the import.
func (a *ImportActivities) CurrentProgress(ctx context.Context) (domain.ProgressSnapshot, error) {
	return a.Exploration.Progression().Progress(), nil
}

// ReportImport logs the outcome of a finished import.
func (a *ImportActivities) ReportImport(ctx context.Context, result TrackImportResult) error {
	slog.Info("track import finished",
		"track", result.TrackID,
		"accepted", result.Accepted,
		"rejected", result.Rejected,
		"invalid", result.Invalid,
		"area_m2", result.AreaSquareMeters,
		"level", result.Progress.Level,
		"level_ups", len(result.LevelUps),
	)
	return nil
}
