package http

import (
	"context"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/fogtrail/internal/core/ports"
)

const readyTimeout = 3 * time.Second

// HealthHandler returns a basic liveness check.
func HealthHandler(deps *Dependencies) fiber.Handler {
	startedAt := time.Now()

	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "healthy",
			"uptime":  time.Since(startedAt).String(),
			"version": "dev",
			"reveals": deps.Exploration.Reveals().Len(),
		})
	}
}

var errNotConfigured = errors.New("not configured")

// readinessCheck probes one backend. Only required checks can make the
// service unready; optional ones degrade it.
type readinessCheck struct {
	name     string
	required bool
	probe    func(ctx context.Context) error
}

func readinessChecks(deps *Dependencies) []readinessCheck {
	return []readinessCheck{
		{name: "store", required: true, probe: func(ctx context.Context) error {
			if deps.Store == nil {
				return errNotConfigured
			}
			return deps.Store.Ping(ctx)
		}},
		{name: "nats", probe: func(ctx context.Context) error {
			switch {
			case deps.NATS == nil:
				return errNotConfigured
			case !deps.NATS.IsConnected():
				return errors.New("disconnected")
			}
			return nil
		}},
		{name: "cache", probe: func(ctx context.Context) error {
			if deps.Cache == nil {
				return errNotConfigured
			}
			if hc, ok := deps.Cache.(ports.HealthChecker); ok {
				return hc.Ping(ctx)
			}
			return nil
		}},
	}
}

// ReadyHandler reports "ready", "degraded" (an optional backend is down) or
// "not ready" (the store is unreachable, 503).
func ReadyHandler(deps *Dependencies) fiber.Handler {
	checks := readinessChecks(deps)

	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), readyTimeout)
		defer cancel()

		results := make(map[string]string, len(checks)+1)
		status, code := "ready", fiber.StatusOK
		for _, chk := range checks {
			err := chk.probe(ctx)
			switch {
			case err == nil:
				results[chk.name] = "ok"
			case errors.Is(err, errNotConfigured) && !chk.required:
				results[chk.name] = err.Error()
			default:
				results[chk.name] = "error: " + err.Error()
				if chk.required {
					status, code = "not ready", fiber.StatusServiceUnavailable
				} else if code == fiber.StatusOK {
					status = "degraded"
				}
			}
		}
		if deps.StoreName != "" {
			results["store_driver"] = deps.StoreName
		}

		return c.Status(code).JSON(fiber.Map{
			"status": status,
			"checks": results,
		})
	}
}
