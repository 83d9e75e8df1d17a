package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/fiber/v2/middleware/timeout"
	"github.com/gofiber/websocket/v2"

	"github.com/samirrijal/fogtrail/internal/pkg/metrics"
)

// SetupRoutes registers all REST, GraphQL, and WebSocket routes.
func SetupRoutes(app *fiber.App, deps *Dependencies) {
	// Prometheus metrics
	app.Use(metrics.Middleware())
	app.Get("/metrics", metrics.Handler())

	// Response compression (gzip)
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed, // Balance speed vs compression ratio
	}))

	// Request ID
	app.Use(requestid.New())

	// Request-scoped logger and access log
	app.Use(RequestLoggerMiddleware())

	// Rate limiting: 600 requests per minute per IP leaves room for 1 Hz
	// sampling alongside map redraws.
	app.Use(limiter.New(limiter.Config{
		Max:        600,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(429).JSON(fiber.Map{
				"error":   "rate limit exceeded",
				"message": "too many requests, please try again later",
			})
		},
		SkipFailedRequests: false,
	}))

	// Security headers + API version
	app.Use(func(c *fiber.Ctx) error {
		c.Set("X-Content-Type-Options", "nosniff")
		c.Set("X-Frame-Options", "DENY")
		c.Set("X-XSS-Protection", "1; mode=block")
		c.Set("Referrer-Policy", "strict-origin-when-cross-origin")
		c.Set("X-API-Version", "1.0.0")
		return c.Next()
	})

	// ETag / If-None-Match
	app.Use(ConditionalGetMiddleware())

	// Default Cache-Control headers
	app.Use(CachingMiddleware())

	// Health & readiness, no timeout
	app.Get("/v1/health", HealthHandler(deps))
	app.Get("/v1/ready", ReadyHandler(deps))

	// REST API v1, 15s per-request timeout
	v1 := app.Group("/v1")
	v1.Post("/reveals", timeout.NewWithContext(ObserveHandler(deps), 15*time.Second))
	v1.Get("/reveals", timeout.NewWithContext(ListRevealsHandler(deps), 15*time.Second))
	v1.Delete("/reveals", timeout.NewWithContext(ResetRevealsHandler(deps), 15*time.Second))
	v1.Get("/reveals.geojson", timeout.NewWithContext(RevealsGeoJSONHandler(deps), 15*time.Second))
	v1.Get("/fog", timeout.NewWithContext(FogMaskHandler(deps), 15*time.Second))
	v1.Get("/fog.png", timeout.NewWithContext(FogPNGHandler(deps), 15*time.Second))
	v1.Get("/progress", timeout.NewWithContext(ProgressHandler(deps), 15*time.Second))
	v1.Post("/progress/reset", timeout.NewWithContext(ResetProgressHandler(deps), 15*time.Second))
	v1.Get("/progress/export", timeout.NewWithContext(ExportProgressHandler(deps), 15*time.Second))
	v1.Post("/progress/import", timeout.NewWithContext(ImportProgressHandler(deps), 15*time.Second))
	v1.Get("/levels/:level", LevelHandler())
	v1.Post("/reset", timeout.NewWithContext(ResetAllHandler(deps), 15*time.Second))

	// Track uploads can be long when replayed inline
	v1.Post("/tracks", timeout.NewWithContext(ImportTrackHandler(deps), 2*time.Minute))

	// GraphQL
	app.Post("/graphql", GraphQLHandler(deps))

	// API documentation (Swagger UI)
	docs := deps.DocsPath
	if docs == "" {
		docs = DefaultOpenAPIPath
	}
	SetupDocs(app, docs)

	// WebSocket relay needs NATS
	if deps.NATS == nil {
		return
	}
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	app.Get("/ws", websocket.New(WebSocketHandler(deps.NATS)))
}
