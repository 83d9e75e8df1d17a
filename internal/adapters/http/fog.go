package http

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/fogtrail/internal/adapters/raster"
	"github.com/samirrijal/fogtrail/internal/core/domain"
	"github.com/samirrijal/fogtrail/internal/pkg/metrics"
)

// parseViewport reads center_lat, center_lon, zoom, width and height.
// All five are required.
func parseViewport(c *fiber.Ctx) (domain.Viewport, error) {
	var vp domain.Viewport
	floats := []struct {
		name string
		dst  *float64
	}{
		{"center_lat", &vp.Center.Lat},
		{"center_lon", &vp.Center.Lon},
		{"zoom", &vp.Zoom},
	}
	for _, f := range floats {
		raw := c.Query(f.name)
		if raw == "" {
			return vp, &domain.ValidationError{Field: f.name, Reason: "is required"}
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return vp, &domain.ValidationError{Field: f.name, Reason: "must be a number"}
		}
		*f.dst = v
	}

	ints := []struct {
		name string
		dst  *int
	}{
		{"width", &vp.PixelWidth},
		{"height", &vp.PixelHeight},
	}
	for _, f := range ints {
		raw := c.Query(f.name)
		if raw == "" {
			return vp, &domain.ValidationError{Field: f.name, Reason: "is required"}
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			return vp, &domain.ValidationError{Field: f.name, Reason: "must be an integer"}
		}
		*f.dst = v
	}
	return vp, vp.Validate()
}

// FogMaskHandler returns the fog mask geometry for a viewport.
func FogMaskHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		vp, err := parseViewport(c)
		if err != nil {
			return errFrom(c, err)
		}
		mask, err := deps.Exploration.Render(c.UserContext(), vp)
		if err != nil {
			return errFrom(c, err)
		}
		return c.JSON(mask)
	}
}

// FogPNGHandler rasterizes the fog mask for a viewport. Identical masks are
// served from the cache when one is configured.
func FogPNGHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		log := LoggerFromCtx(ctx)

		vp, err := parseViewport(c)
		if err != nil {
			return errFrom(c, err)
		}
		mask, err := deps.Exploration.Render(ctx, vp)
		if err != nil {
			return errFrom(c, err)
		}

		key, err := fogCacheKey(mask)
		if err != nil {
			return errInternal(c, err.Error())
		}
		tag := `"` + key[len(fogKeyPrefix):len(fogKeyPrefix)+32] + `"`
		c.Set(fiber.HeaderETag, tag)
		if etagMatches(c.Get(fiber.HeaderIfNoneMatch), tag) {
			return c.SendStatus(fiber.StatusNotModified)
		}
		if deps.Cache != nil {
			if cached, err := deps.Cache.Get(ctx, key); err != nil {
				log.Warn("fog cache get failed", "error", err)
			} else if cached != nil {
				metrics.CacheHits.WithLabelValues("fog_png").Inc()
				c.Set("X-Cache", "HIT")
				c.Set("Content-Type", "image/png")
				return c.Send(cached)
			}
		}

		var buf bytes.Buffer
		if err := raster.NewPNGDrawer(&buf, raster.DefaultFog).Draw(ctx, mask); err != nil {
			return errFrom(c, err)
		}

		if deps.Cache != nil {
			metrics.CacheMisses.WithLabelValues("fog_png").Inc()
			if err := deps.Cache.Set(ctx, key, buf.Bytes(), deps.FogTTL); err != nil {
				log.Warn("fog cache set failed", "error", err)
			}
			c.Set("X-Cache", "MISS")
		}
		c.Set("Content-Type", "image/png")
		return c.Send(buf.Bytes())
	}
}

const fogKeyPrefix = "fog:png:"

// fogCacheKey hashes the mask geometry, which fully determines the image.
func fogCacheKey(mask domain.FogMask) (string, error) {
	data, err := json.Marshal(mask)
	if err != nil {
		return "", err
	}
	h := sha256.Sum256(data)
	return fogKeyPrefix + hex.EncodeToString(h[:]), nil
}
