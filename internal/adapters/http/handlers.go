package http

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/fogtrail/internal/adapters/geojson"
	"github.com/samirrijal/fogtrail/internal/core/domain"
	"github.com/samirrijal/fogtrail/internal/core/usecases"
)

// sampleRequest is one coordinate sample. Pointers distinguish a missing
// field from a legitimate zero coordinate.
type sampleRequest struct {
	Lat *float64 `json:"lat"`
	Lon *float64 `json:"lon"`
}

// ObserveHandler feeds one coordinate sample through the exploration pipeline.
// A storage failure still answers 200 with "persisted": false.
func ObserveHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req sampleRequest
		if err := c.BodyParser(&req); err != nil {
			return errBadRequest(c, "invalid request body")
		}
		if req.Lat == nil || req.Lon == nil {
			return errBadRequest(c, "lat and lon are required")
		}

		obs, err := deps.Exploration.Observe(c.UserContext(), domain.GeoPoint{Lat: *req.Lat, Lon: *req.Lon})
		if err != nil && !errors.Is(err, domain.ErrPersistence) {
			return errFrom(c, err)
		}
		return c.JSON(obs)
	}
}

// ListRevealsHandler returns the reveal log in insertion order.
func ListRevealsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		page := paginate(deps.Exploration.Reveals().AllPoints(), pageFromQuery(c))
		setLinkHeaders(c, page.Pagination)
		return c.JSON(page)
	}
}

// RevealsGeoJSONHandler exports the reveal log as a GeoJSON FeatureCollection.
// ?circles=true emits discs instead of points, ?path=true adds the walked line.
func RevealsGeoJSONHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		fc := geojson.FeatureCollection(deps.Exploration.Reveals().AllPoints(), geojson.Options{
			Circles: c.QueryBool("circles", false),
			Path:    c.QueryBool("path", false),
		})
		data, err := fc.MarshalJSON()
		if err != nil {
			return errInternal(c, err.Error())
		}
		c.Set("Content-Type", "application/geo+json")
		return c.Send(data)
	}
}

// ResetRevealsHandler clears the reveal log only. XP is kept.
func ResetRevealsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := deps.Exploration.Reveals().Reset(c.UserContext())
		return resetResponse(c, err)
	}
}

// ResetAllHandler clears the reveal log and the XP total.
func ResetAllHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := deps.Exploration.ResetAll(c.UserContext())
		return resetResponse(c, err)
	}
}

func resetResponse(c *fiber.Ctx, err error) error {
	if err != nil && !errors.Is(err, domain.ErrPersistence) {
		return errFrom(c, err)
	}
	if err != nil {
		LoggerFromCtx(c.UserContext()).Warn("reset not persisted", "error", err)
	}
	return c.JSON(fiber.Map{"reset": true, "persisted": err == nil})
}

// ProgressHandler returns the current progression snapshot.
func ProgressHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(deps.Exploration.Progression().Progress())
	}
}

// ResetProgressHandler zeroes XP and keeps the reveal log.
func ResetProgressHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := deps.Exploration.Progression().Reset(c.UserContext())
		return progressWrite(c, deps, err)
	}
}

// ExportProgressHandler returns the persisted progression blob ({"xp": ...}).
func ExportProgressHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		data, err := deps.Exploration.Progression().Export()
		if err != nil {
			return errInternal(c, err.Error())
		}
		c.Set("Content-Type", fiber.MIMEApplicationJSON)
		c.Set("Content-Disposition", `attachment; filename="progress.json"`)
		return c.Send(data)
	}
}

// ImportProgressHandler restores a blob produced by the export endpoint.
// Unusable payloads are ignored and the unchanged snapshot is returned.
func ImportProgressHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		err := deps.Exploration.Progression().Import(c.UserContext(), c.Body())
		return progressWrite(c, deps, err)
	}
}

func progressWrite(c *fiber.Ctx, deps *Dependencies, err error) error {
	if err != nil && !errors.Is(err, domain.ErrPersistence) {
		return errFrom(c, err)
	}
	if err != nil {
		LoggerFromCtx(c.UserContext()).Warn("progress not persisted", "error", err)
	}
	return c.JSON(fiber.Map{
		"progress":  deps.Exploration.Progression().Progress(),
		"persisted": err == nil,
	})
}

// LevelHandler describes one level of the curve.
func LevelHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		level, err := strconv.Atoi(c.Params("level"))
		if err != nil || level < 1 || level > usecases.MaxLevel {
			return errBadRequest(c, fmt.Sprintf("level must be an integer in [1, %d]", usecases.MaxLevel))
		}
		return c.JSON(fiber.Map{
			"level":       level,
			"title":       usecases.Title(level),
			"xp_required": usecases.XPRequired(level),
		})
	}
}
