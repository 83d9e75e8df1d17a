package domain

import (
	"fmt"
	"math"
)

// GeoPoint represents a geographic coordinate (WGS 84).
type GeoPoint struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Validate reports a ValidationError when the point is outside the WGS 84 ranges.
func (p GeoPoint) Validate() error {
	if math.IsNaN(p.Lat) || p.Lat < -90 || p.Lat > 90 {
		return &ValidationError{Field: "lat", Reason: fmt.Sprintf("must be within [-90, 90], got %v", p.Lat)}
	}
	if math.IsNaN(p.Lon) || p.Lon < -180 || p.Lon > 180 {
		return &ValidationError{Field: "lon", Reason: fmt.Sprintf("must be within [-180, 180], got %v", p.Lon)}
	}
	return nil
}

// ScreenPoint is a pixel position relative to the top-left corner of a viewport.
type ScreenPoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// MaxZoom is the deepest zoom level a viewport may request.
const MaxZoom = 24

// Viewport describes what the map surface currently shows.
type Viewport struct {
	Center      GeoPoint `json:"center"`
	Zoom        float64  `json:"zoom"`
	PixelWidth  int      `json:"pixel_width"`
	PixelHeight int      `json:"pixel_height"`
}

// Validate checks the viewport can be projected into.
func (v Viewport) Validate() error {
	if err := v.Center.Validate(); err != nil {
		return err
	}
	if math.IsNaN(v.Zoom) || v.Zoom < 0 || v.Zoom > MaxZoom {
		return &ValidationError{Field: "zoom", Reason: fmt.Sprintf("must be within [0, %d], got %v", MaxZoom, v.Zoom)}
	}
	if v.PixelWidth <= 0 || v.PixelHeight <= 0 {
		return &ValidationError{Field: "size", Reason: fmt.Sprintf("pixel size must be positive, got %dx%d", v.PixelWidth, v.PixelHeight)}
	}
	return nil
}
