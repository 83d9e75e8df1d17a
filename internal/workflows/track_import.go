package workflows

import (
	"time"

	"go.temporal.io/sdk/temporal"
	"go.temporal.io/sdk/workflow"

	"github.com/samirrijal/fogtrail/internal/core/domain"
)

// TaskQueue is the default queue for import workers.
const TaskQueue = "track-import-queue"

// DefaultBatchSize bounds how many samples one activity observes.
const DefaultBatchSize = 500

// TrackImportInput is the input for the track import workflow.
type TrackImportInput struct {
	TrackID   string
	Name      string
	Points    []domain.GeoPoint
	BatchSize int
}

// TrackImportResult is the aggregated outcome of a track import.
type TrackImportResult struct {
	TrackID          string                  `json:"track_id"`
	Accepted         int                     `json:"accepted"`
	Rejected         int                     `json:"rejected"`
	Invalid          int                     `json:"invalid"`
	Unpersisted      int                     `json:"unpersisted"`
	AreaSquareMeters float64                 `json:"area_m2"`
	LevelUps         []domain.LevelUp        `json:"level_ups,omitempty"`
	Progress         domain.ProgressSnapshot `json:"progress"`
}

// TrackImportWorkflow replays a recorded track through the exploration
// pipeline in ordered batches, then reports the aggregate.
func TrackImportWorkflow(ctx workflow.Context, input TrackImportInput) (TrackImportResult, error) {
	logger := workflow.GetLogger(ctx)
	logger.Info("Starting track import", "track", input.TrackID, "points", len(input.Points))

	result := TrackImportResult{TrackID: input.TrackID}

	batchSize := input.BatchSize
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	// Observing is not idempotent: a retried batch would be credited against
	// a log that already holds part of it.
	observeCtx := workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: 2 * time.Minute,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 1,
		},
	})

	var a *ImportActivities
	for start := 0; start < len(input.Points); start += batchSize {
		end := min(start+batchSize, len(input.Points))

		var batch BatchResult
		err := workflow.ExecuteActivity(observeCtx, a.ObserveBatch, input.Points[start:end]).Get(ctx, &batch)
		if err != nil {
			logger.Error("batch failed", "from", start, "to", end, "error", err)
			return result, err
		}
		result.Accepted += batch.Accepted
		result.Rejected += batch.Rejected
		result.Invalid += batch.Invalid
		result.Unpersisted += batch.Unpersisted
		result.AreaSquareMeters += batch.AreaSquareMeters
		result.LevelUps = append(result.LevelUps, batch.LevelUps...)
	}

	readCtx := workflow.WithActivityOptions(ctx, workflow.ActivityOptions{
		StartToCloseTimeout: 30 * time.Second,
		RetryPolicy: &temporal.RetryPolicy{
			MaximumAttempts: 3,
		},
	})
	if err := workflow.ExecuteActivity(readCtx, a.CurrentProgress).Get(ctx, &result.Progress); err != nil {
		return result, err
	}

	// Reporting is best-effort.
	if err := workflow.ExecuteActivity(readCtx, a.ReportImport, result).Get(ctx, nil); err != nil {
		logger.Warn("report failed", "error", err)
	}

	logger.Info("Track import complete", "accepted", result.Accepted, "level", result.Progress.Level)
	return result, nil
}
