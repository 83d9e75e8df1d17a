package usecases

import (
	"fmt"
	"math"

	"github.com/samirrijal/fogtrail/internal/core/domain"
	"github.com/samirrijal/fogtrail/internal/pkg/geospatial"
)

// GeoProjector converts geographic positions and ground distances into the
// pixel space of a viewport. It holds no state.
//
// Pixel radii use the equirectangular approximation (111320 m per degree,
// scaled by cos(latitude)), which is fine for foot/vehicle-scale reveals and
// undefined at the poles.
type GeoProjector struct{}

// ProjectToScreen maps a point to pixels relative to the viewport's top-left.
func (GeoProjector) ProjectToScreen(p domain.GeoPoint, vp domain.Viewport) (domain.ScreenPoint, error) {
	if err := p.Validate(); err != nil {
		return domain.ScreenPoint{}, err
	}
	if err := vp.Validate(); err != nil {
		return domain.ScreenPoint{}, err
	}
	return project(p, vp), nil
}

// MetersToPixelRadius returns the pixel length of meters measured along a
// parallel at atLat for the viewport's zoom.
func (GeoProjector) MetersToPixelRadius(meters, atLat float64, vp domain.Viewport) (float64, error) {
	if math.IsNaN(meters) || math.IsInf(meters, 0) || meters <= 0 {
		return 0, &domain.ValidationError{Field: "meters", Reason: fmt.Sprintf("must be positive and finite, got %v", meters)}
	}
	if err := vp.Validate(); err != nil {
		return 0, err
	}
	return pixelRadius(meters, atLat, vp.Zoom)
}

func project(p domain.GeoPoint, vp domain.Viewport) domain.ScreenPoint {
	px, py := geospatial.WorldPixel(p.Lat, p.Lon, vp.Zoom)
	cx, cy := geospatial.WorldPixel(vp.Center.Lat, vp.Center.Lon, vp.Zoom)
	return domain.ScreenPoint{
		X: px - cx + float64(vp.PixelWidth)/2,
		Y: py - cy + float64(vp.PixelHeight)/2,
	}
}

func pixelRadius(meters, atLat, zoom float64) (float64, error) {
	mpp, ok := geospatial.MetersPerPixel(atLat, zoom)
	if !ok {
		return 0, &domain.DomainError{Op: "meters to pixel radius", Reason: fmt.Sprintf("undefined at latitude %v", atLat)}
	}
	px := meters / mpp
	if math.IsInf(px, 0) || math.IsNaN(px) {
		return 0, &domain.DomainError{Op: "meters to pixel radius", Reason: "non-finite pixel radius"}
	}
	return px, nil
}
