package http

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// ConditionalGetMiddleware tags successful GET bodies with a weak ETag and
// answers a matching If-None-Match with 304. An ETag set by the handler is
// kept as is.
func ConditionalGetMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Method() != fiber.MethodGet {
			return c.Next()
		}
		if err := c.Next(); err != nil {
			return err
		}
		if c.Response().StatusCode() != fiber.StatusOK {
			return nil
		}

		tag := c.GetRespHeader(fiber.HeaderETag)
		if tag == "" {
			body := c.Response().Body()
			if len(body) == 0 {
				return nil
			}
			sum := sha256.Sum256(body)
			tag = `W/"` + hex.EncodeToString(sum[:8]) + `"`
			c.Set(fiber.HeaderETag, tag)
		}

		if etagMatches(c.Get(fiber.HeaderIfNoneMatch), tag) {
			c.Status(fiber.StatusNotModified)
			c.Response().ResetBody()
		}
		return nil
	}
}

// etagMatches applies the weak comparison of RFC 9110 to an If-None-Match list.
func etagMatches(header, tag string) bool {
	if header == "" {
		return false
	}
	opaque := strings.TrimPrefix(tag, "W/")
	for _, candidate := range strings.Split(header, ",") {
		candidate = strings.TrimSpace(candidate)
		if candidate == "*" || strings.TrimPrefix(candidate, "W/") == opaque {
			return true
		}
	}
	return false
}
