package workflows

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.temporal.io/sdk/client"
)

// Starter launches track imports on a Temporal cluster.
type Starter struct {
	client    client.Client
	taskQueue string
}

// NewStarter wraps a connected Temporal client. An empty taskQueue uses TaskQueue.
func NewStarter(c client.Client, taskQueue string) *Starter {
	if taskQueue == "" {
		taskQueue = TaskQueue
	}
	return &Starter{client: c, taskQueue: taskQueue}
}

// StartImport schedules a TrackImportWorkflow and returns its workflow ID.
// A missing TrackID is filled in with a random one.
func (s *Starter) StartImport(ctx context.Context, input TrackImportInput) (string, error) {
	if input.TrackID == "" {
		input.TrackID = uuid.NewString()
	}
	opts := client.StartWorkflowOptions{
		ID:        "track-import-" + input.TrackID,
		TaskQueue: s.taskQueue,
	}
	run, err := s.client.ExecuteWorkflow(ctx, opts, TrackImportWorkflow, input)
	if err != nil {
		return "", fmt.Errorf("start track import: %w", err)
	}
	return run.GetID(), nil
}
