package bootstrap_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/samirrijal/fogtrail/internal/bootstrap"
	"github.com/samirrijal/fogtrail/internal/core/domain"
	"github.com/samirrijal/fogtrail/internal/pkg/config"
)

func testConfig(driver string) *config.Config {
	return &config.Config{
		Storage:     config.StorageConfig{Driver: driver},
		Exploration: config.ExplorationConfig{RadiusMeters: 50, MaskOversize: 2},
	}
}

func TestOpenStore_UnknownDriver(t *testing.T) {
	if _, err := bootstrap.OpenStore(context.Background(), testConfig("floppy")); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}

func TestOpenStore_Memory(t *testing.T) {
	ctx := context.Background()
	store, err := bootstrap.OpenStore(ctx, testConfig(config.DriverMemory))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer store.Close()

	if err := store.Health.Ping(ctx); err != nil {
		t.Errorf("expected healthy memory store: %v", err)
	}
	svc := bootstrap.NewExploration(ctx, testConfig(config.DriverMemory), store, nil)
	if svc.RadiusMeters() != 50 {
		t.Errorf("expected radius 50, got %v", svc.RadiusMeters())
	}
}

func TestSQLite_StateSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	cfg := testConfig(config.DriverSQLite)
	cfg.Storage.SQLitePath = filepath.Join(t.TempDir(), "fogtrail.db")

	store, err := bootstrap.OpenStore(ctx, cfg)
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	svc := bootstrap.NewExploration(ctx, cfg, store, nil)
	for _, p := range []domain.GeoPoint{{Lat: 40, Lon: -73}, {Lat: 40.001, Lon: -73}} {
		obs, err := svc.Observe(ctx, p)
		if err != nil || !obs.Persisted {
			t.Fatalf("observe %+v: persisted=%v err=%v", p, obs.Persisted, err)
		}
	}
	wantXP := svc.Progression().Progress().TotalXP
	store.Close()

	store, err = bootstrap.OpenStore(ctx, cfg)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer store.Close()
	reopened := bootstrap.NewExploration(ctx, cfg, store, nil)

	if n := reopened.Reveals().Len(); n != 2 {
		t.Errorf("expected 2 reveals, got %d", n)
	}
	if got := reopened.Progression().Progress().TotalXP; got != wantXP {
		t.Errorf("expected xp %v, got %v", wantXP, got)
	}
	last, _ := reopened.Reveals().Last()
	if last.Sequence != 2 || last.Point.Lat != 40.001 {
		t.Errorf("unexpected last reveal %+v", last)
	}
}
