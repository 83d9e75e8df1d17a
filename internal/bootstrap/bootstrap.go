// Package bootstrap builds the exploration engine from configuration so every
// binary wires storage the same way.
package bootstrap

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/samirrijal/fogtrail/internal/adapters/memory"
	"github.com/samirrijal/fogtrail/internal/adapters/postgres"
	"github.com/samirrijal/fogtrail/internal/adapters/sqlite"
	"github.com/samirrijal/fogtrail/internal/adapters/valkey"
	"github.com/samirrijal/fogtrail/internal/core/ports"
	"github.com/samirrijal/fogtrail/internal/core/usecases"
	"github.com/samirrijal/fogtrail/internal/pkg/config"
)

// Store is the durable backend selected by storage.driver.
type Store struct {
	Name     string
	Reveals  ports.RevealRepository
	Progress ports.ProgressRepository
	Health   ports.HealthChecker
	close    func()
}

// Close releases the backend connection.
func (s *Store) Close() {
	if s.close != nil {
		s.close()
	}
}

// OpenStore connects the configured storage driver.
func OpenStore(ctx context.Context, cfg *config.Config) (*Store, error) {
	switch cfg.Storage.Driver {
	case config.DriverMemory:
		m := memory.New()
		return &Store{Name: config.DriverMemory, Reveals: m, Progress: m, Health: m}, nil

	case config.DriverSQLite:
		s, err := sqlite.Open(cfg.Storage.SQLitePath)
		if err != nil {
			return nil, err
		}
		return &Store{
			Name: config.DriverSQLite, Reveals: s, Progress: s, Health: s,
			close: func() {
				if err := s.Close(); err != nil {
					slog.Warn("close sqlite", "error", err)
				}
			},
		}, nil

	case config.DriverPostgres:
		db, err := postgres.New(ctx, cfg.Database.DSN(), cfg.Database.MaxConns)
		if err != nil {
			return nil, fmt.Errorf("database: %w", err)
		}
		repo := postgres.NewExplorationRepo(db)
		return &Store{Name: config.DriverPostgres, Reveals: repo, Progress: repo, Health: db, close: db.Close}, nil

	case config.DriverValkey:
		kv, err := valkey.New(cfg.Valkey.Addr)
		if err != nil {
			return nil, err
		}
		st := valkey.NewStore(kv, cfg.Storage.KeyPrefix)
		return &Store{Name: config.DriverValkey, Reveals: st, Progress: st, Health: kv, close: kv.Close}, nil

	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Storage.Driver)
	}
}

// NewExploration loads persisted state from store and assembles the service.
// publisher may be nil.
func NewExploration(ctx context.Context, cfg *config.Config, store *Store, publisher ports.EventPublisher) *usecases.ExplorationService {
	reveals := usecases.NewRevealStore(ctx, store.Reveals)
	progress := usecases.NewProgressionEngine(ctx, store.Progress)
	svc := usecases.NewExplorationService(
		reveals,
		progress,
		usecases.NewFogRenderer(cfg.Exploration.MaskOversize),
		publisher,
		cfg.Exploration.RadiusMeters,
	)
	snap := progress.Progress()
	slog.Info("exploration state loaded",
		"driver", store.Name,
		"reveals", reveals.Len(),
		"level", snap.Level,
		"title", snap.Title,
	)
	return svc
}
