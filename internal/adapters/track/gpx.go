// Package track turns recorded or simulated movement into coordinate samples.
package track

import (
	"fmt"
	"io"

	"github.com/tkrajina/gpxgo/gpx"

	"github.com/samirrijal/fogtrail/internal/core/domain"
)

// ParseGPX reads track points in file order, falling back to route points when
// the file has no tracks.
func ParseGPX(r io.Reader) ([]domain.GeoPoint, error) {
	g, err := gpx.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse gpx: %w", err)
	}
	return fromGPX(g), nil
}

// ParseGPXFile is ParseGPX on a file path.
func ParseGPXFile(path string) ([]domain.GeoPoint, error) {
	g, err := gpx.ParseFile(path)
	if err != nil {
		return nil, fmt.Errorf("parse gpx %s: %w", path, err)
	}
	return fromGPX(g), nil
}

func fromGPX(g *gpx.GPX) []domain.GeoPoint {
	var points []domain.GeoPoint
	for _, t := range g.Tracks {
		for _, seg := range t.Segments {
			for _, p := range seg.Points {
				points = append(points, domain.GeoPoint{Lat: p.Latitude, Lon: p.Longitude})
			}
		}
	}
	if len(points) > 0 {
		return points
	}
	for _, rt := range g.Routes {
		for _, p := range rt.Points {
			points = append(points, domain.GeoPoint{Lat: p.Latitude, Lon: p.Longitude})
		}
	}
	return points
}
