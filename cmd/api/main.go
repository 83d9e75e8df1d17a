package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/nats-io/nats.go"
	"go.temporal.io/sdk/client"

	"github.com/samirrijal/fogtrail/internal/adapters/http"
	natsadapter "github.com/samirrijal/fogtrail/internal/adapters/nats"
	"github.com/samirrijal/fogtrail/internal/adapters/postgres"
	"github.com/samirrijal/fogtrail/internal/adapters/valkey"
	"github.com/samirrijal/fogtrail/internal/bootstrap"
	"github.com/samirrijal/fogtrail/internal/core/ports"
	"github.com/samirrijal/fogtrail/internal/pkg/config"
	"github.com/samirrijal/fogtrail/internal/pkg/logging"
	"github.com/samirrijal/fogtrail/internal/pkg/telemetry"
	"github.com/samirrijal/fogtrail/internal/workflows"
)

func main() {
	cfg, err := config.Load("fogtrail-api")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// Structured logging
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Telemetry
	if cfg.Telemetry.Enabled {
		shutdown, err := telemetry.InitTracer(ctx, cfg.Telemetry.ServiceName, cfg.Telemetry.TempoAddr)
		if err != nil {
			slog.Warn("telemetry init failed", "error", err)
		} else {
			defer func() { _ = shutdown(context.Background()) }()
		}
	}

	// Storage
	store, err := bootstrap.OpenStore(ctx, cfg)
	if err != nil {
		log.Fatalf("storage: %v", err)
	}
	defer store.Close()

	// Cache for rendered fog tiles
	var cache *valkey.Cache
	if cfg.Valkey.Enabled {
		cache, err = valkey.New(cfg.Valkey.Addr)
		if err != nil {
			slog.Warn("valkey unavailable", "error", err)
		} else {
			defer cache.Close()
		}
	}

	// NATS. The publisher stays a nil interface when unavailable; its
	// connection also feeds the WebSocket relay.
	var publisher ports.EventPublisher
	var natsConn *nats.Conn
	if cfg.NATS.Enabled {
		pub, err := natsadapter.NewPublisher(cfg.NATS.URL)
		if err != nil {
			slog.Warn("nats unavailable", "error", err)
		} else {
			defer pub.Close()
			publisher = pub
			natsConn = pub.Conn()
		}
	}

	svc := bootstrap.NewExploration(ctx, cfg, store, publisher)

	deps := &http.Dependencies{
		Exploration: svc,
		Store:       store.Health,
		StoreName:   store.Name,
		NATS:        natsConn,
		FogTTL:      cfg.Valkey.FogTTL,
	}
	if cache != nil {
		deps.Cache = cache
	}

	// Temporal: the import worker runs in this process because it must share
	// the in-memory exploration state.
	if cfg.Temporal.Enabled {
		tc, err := client.Dial(client.Options{
			HostPort:  cfg.Temporal.HostPort,
			Namespace: cfg.Temporal.Namespace,
		})
		if err != nil {
			slog.Warn("temporal unavailable, tracks import inline", "error", err)
		} else {
			defer tc.Close()
			w := workflows.NewWorker(tc, cfg.Temporal.TaskQueue, svc)
			if err := w.Start(); err != nil {
				log.Fatalf("temporal worker: %v", err)
			}
			defer w.Stop()
			deps.Tracks = workflows.NewStarter(tc, cfg.Temporal.TaskQueue)
		}
	}

	// DB pool gauges
	if db, ok := store.Health.(*postgres.DB); ok {
		go db.ReportPoolStats(ctx, 15*time.Second)
	}

	// Fiber
	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		BodyLimit:    16 * 1024 * 1024, // GPX uploads
		AppName:      "Fogtrail API",
	})
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.Server.AllowOrigins,
		AllowMethods:     "GET,POST,DELETE,OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: false,
		MaxAge:           3600,
	}))

	http.SetupRoutes(app, deps)

	// Graceful shutdown
	go func() {
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		slog.Info("API server starting", "addr", addr, "storage", store.Name)
		if err := app.Listen(addr); err != nil {
			log.Fatalf("listen: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutdown signal received, draining connections...", "signal", sig.String())

	// Give in-flight requests up to 10s to complete
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		slog.Error("forced shutdown", "error", err)
	}

	slog.Info("server stopped")
}
