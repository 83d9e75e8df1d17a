package http

import (
	"bytes"
	"errors"
	"io"

	"github.com/gofiber/fiber/v2"

	"github.com/samirrijal/fogtrail/internal/adapters/track"
	"github.com/samirrijal/fogtrail/internal/core/domain"
	"github.com/samirrijal/fogtrail/internal/workflows"
)

// maxTrackPoints bounds a single uploaded track.
const maxTrackPoints = 200000

// ImportTrackHandler accepts a GPX document, either as a multipart "file"
// field or as the raw request body, and replays it through the pipeline.
// With a TrackImporter configured the replay runs as a workflow and the
// response is 202 with its ID; otherwise it runs inline.
func ImportTrackHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()

		body, name, err := trackUpload(c)
		if err != nil {
			return errBadRequest(c, err.Error())
		}
		points, err := track.ParseGPX(bytes.NewReader(body))
		if err != nil {
			return errBadRequest(c, err.Error())
		}
		if len(points) == 0 {
			return errBadRequest(c, "track has no points")
		}
		if len(points) > maxTrackPoints {
			return errBadRequest(c, "track has too many points")
		}

		if deps.Tracks != nil {
			id, err := deps.Tracks.StartImport(ctx, workflows.TrackImportInput{Name: name, Points: points})
			if err != nil {
				return errInternal(c, err.Error())
			}
			return c.Status(fiber.StatusAccepted).JSON(fiber.Map{
				"workflow_id": id,
				"points":      len(points),
			})
		}

		acts := &workflows.ImportActivities{Exploration: deps.Exploration}
		res, err := acts.ObserveBatch(ctx, points)
		if err != nil && !errors.Is(err, domain.ErrPersistence) {
			return errFrom(c, err)
		}
		return c.JSON(fiber.Map{
			"points":   len(points),
			"result":   res,
			"progress": deps.Exploration.Progression().Progress(),
		})
	}
}

func trackUpload(c *fiber.Ctx) ([]byte, string, error) {
	if fh, err := c.FormFile("file"); err == nil {
		f, err := fh.Open()
		if err != nil {
			return nil, "", err
		}
		defer f.Close()
		data, err := io.ReadAll(f)
		return data, fh.Filename, err
	}
	body := c.Body()
	if len(body) == 0 {
		return nil, "", errors.New("gpx body or multipart file is required")
	}
	return body, c.Query("name"), nil
}
