//go:build integration
// +build integration

package http_test

import (
	"context"
	"os"
	"testing"
	"time"

	handler "github.com/samirrijal/fogtrail/internal/adapters/http"
	"github.com/samirrijal/fogtrail/internal/adapters/postgres"
	"github.com/samirrijal/fogtrail/internal/pkg/config"
)

// setupTestDB connects to the test database and returns a clean DB instance.
func setupTestDB(t *testing.T) *postgres.DB {
	cfg, err := config.Load("fogtrail-test")
	if err != nil {
		t.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	db, err := postgres.New(ctx, cfg.Database.DSN(), 4)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	t.Cleanup(db.Close)

	schema, err := os.ReadFile("../../../migrations/001_exploration.sql")
	if err != nil {
		t.Fatalf("read schema: %v", err)
	}
	if _, err := db.Pool.Exec(ctx, string(schema)); err != nil {
		t.Fatalf("apply schema: %v", err)
	}
	if _, err := db.Pool.Exec(ctx, `TRUNCATE reveal_events, progression`); err != nil {
		t.Fatalf("truncate: %v", err)
	}
	return db
}

// setupTestDeps creates dependencies backed by the real repository.
func setupTestDeps(db *postgres.DB) *handler.Dependencies {
	repo := postgres.NewExplorationRepo(db)
	return &handler.Dependencies{
		Exploration: newExploration(repo),
		Store:       db,
		StoreName:   "postgres",
	}
}

func TestIntegration_StateSurvivesRestart(t *testing.T) {
	db := setupTestDB(t)

	app := setupApp(setupTestDeps(db))
	observe(t, app, 43.2630, -2.9350)
	observe(t, app, 43.2635, -2.9350)
	before := observe(t, app, 43.2640, -2.9350)
	if !before.Persisted {
		t.Fatal("expected observations to be persisted")
	}

	// A fresh service over the same database picks up where the first left off.
	restarted := setupTestDeps(db)
	if n := restarted.Exploration.Reveals().Len(); n != 3 {
		t.Errorf("expected 3 reveals after restart, got %d", n)
	}
	if got := restarted.Exploration.Progression().Progress().TotalXP; got != before.Progress.TotalXP {
		t.Errorf("expected xp %v after restart, got %v", before.Progress.TotalXP, got)
	}

	status, _, _ := do(t, setupApp(restarted), "GET", "/v1/ready", "")
	if status != 200 {
		t.Errorf("expected ready, got %d", status)
	}
}
