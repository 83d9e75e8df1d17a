package http

import (
	"context"

	"github.com/nats-io/nats.go"

	"github.com/samirrijal/fogtrail/internal/core/ports"
	"github.com/samirrijal/fogtrail/internal/core/usecases"
	"github.com/samirrijal/fogtrail/internal/workflows"
)

// TrackImporter schedules a recorded track for background replay.
type TrackImporter interface {
	StartImport(ctx context.Context, input workflows.TrackImportInput) (string, error)
}

// Dependencies holds all services needed by HTTP handlers.
type Dependencies struct {
	Exploration *usecases.ExplorationService
	// Tracks is optional. Without it uploaded tracks are replayed inline.
	Tracks TrackImporter
	// Store is the durable backend behind the exploration state.
	Store     ports.HealthChecker
	StoreName string
	NATS      *nats.Conn
	Cache     ports.CacheService
	// FogTTL is the PNG cache lifetime in seconds.
	FogTTL int
	// DocsPath overrides DefaultOpenAPIPath.
	DocsPath string
}
