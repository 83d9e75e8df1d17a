package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	natsadapter "github.com/samirrijal/fogtrail/internal/adapters/nats"
	"github.com/samirrijal/fogtrail/internal/adapters/valkey"
	"github.com/samirrijal/fogtrail/internal/core/domain"
	"github.com/samirrijal/fogtrail/internal/core/ports"
	"github.com/samirrijal/fogtrail/internal/pkg/config"
	"github.com/samirrijal/fogtrail/internal/pkg/logging"
)

// latestProgressKey holds the most recent snapshot for dashboards that do not
// hold a NATS connection.
const latestProgressKey = "latest_progress"

func main() {
	cfg, err := config.Load("fogtrail-notifier")
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// NATS
	sub, err := natsadapter.NewSubscriber(cfg.NATS.URL)
	if err != nil {
		log.Fatalf("nats: %v", err)
	}
	defer sub.Close()

	// Valkey (optional)
	var cache ports.CacheService
	if cfg.Valkey.Enabled {
		kv, err := valkey.New(cfg.Valkey.Addr)
		if err != nil {
			slog.Warn("valkey unavailable, snapshots not cached", "error", err)
		} else {
			defer kv.Close()
			cache = kv
		}
	}

	n := &notifier{cache: cache, key: cfg.Storage.KeyPrefix + latestProgressKey}
	if err := n.subscribe(ctx, sub); err != nil {
		log.Fatalf("subscribe: %v", err)
	}

	slog.Info("notifier started", "stream", natsadapter.StreamName)

	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	// Signal handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	for {
		select {
		case <-ticker.C:
			slog.Info("notifier stats", "progress_events", n.progressEvents.Load(), "level_ups", n.levelUps.Load())
		case sig := <-quit:
			slog.Info("shutting down notifier", "signal", sig.String())
			cancel()
			return
		}
	}
}

// notifier mirrors the latest progress snapshot into the cache.
type notifier struct {
	cache ports.CacheService
	key   string

	progressEvents atomic.Int64
	levelUps       atomic.Int64
}

func (n *notifier) subscribe(ctx context.Context, events ports.EventSubscriber) error {
	if err := events.SubscribeProgress(ctx, n.onProgress); err != nil {
		return fmt.Errorf("progress: %w", err)
	}
	if err := events.SubscribeLevelUps(ctx, n.onLevelUp); err != nil {
		return fmt.Errorf("level ups: %w", err)
	}
	return nil
}

// onProgress caches the snapshot. A reset to zero XP drops the cached one.
// A failed write is retried through redelivery.
func (n *notifier) onProgress(ctx context.Context, snap *domain.ProgressSnapshot) error {
	n.progressEvents.Add(1)
	if n.cache == nil {
		return nil
	}
	if snap.TotalXP == 0 {
		return n.cache.Delete(ctx, n.key)
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return n.cache.Set(ctx, n.key, data, 0)
}

func (n *notifier) onLevelUp(ctx context.Context, lu *domain.LevelUp) error {
	n.levelUps.Add(1)
	slog.Info("level up", "level", lu.Level, "title", lu.Title)
	return nil
}
