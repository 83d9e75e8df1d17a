package workflows

import (
	"go.temporal.io/sdk/client"
	"go.temporal.io/sdk/worker"

	"github.com/samirrijal/fogtrail/internal/core/usecases"
)

// NewWorker registers the track import workflow and its activities against
// svc. The worker must live in the process that owns svc, since the reveal
// log and XP total are held in memory there.
func NewWorker(c client.Client, taskQueue string, svc *usecases.ExplorationService) worker.Worker {
	if taskQueue == "" {
		taskQueue = TaskQueue
	}
	w := worker.New(c, taskQueue, worker.Options{})
	w.RegisterWorkflow(TrackImportWorkflow)
	w.RegisterActivity(&ImportActivities{Exploration: svc})
	return w
}
