package usecases

import (
	"fmt"
	"math"

	"github.com/samirrijal/fogtrail/internal/core/domain"
)

// DefaultMaskOversize keeps the mask opaque at the viewport edges while the map
// pans or zooms ahead of the next render.
const DefaultMaskOversize = 2.0

// FogRenderer turns the reveal log and a viewport into a FogMask. It is a pure
// function of its inputs and safe for concurrent use.
type FogRenderer struct {
	projector GeoProjector
	oversize  float64
}

// NewFogRenderer creates a renderer. oversize < 1 falls back to DefaultMaskOversize.
func NewFogRenderer(oversize float64) *FogRenderer {
	if math.IsNaN(oversize) || math.IsInf(oversize, 0) || oversize < 1 {
		oversize = DefaultMaskOversize
	}
	return &FogRenderer{oversize: oversize}
}

// Oversize returns the mask size multiplier.
func (r *FogRenderer) Oversize() float64 { return r.oversize }

// Render computes the mask. Cutouts follow the order of points. A
// ValidationError or DomainError for any point aborts the render with no
// partial mask.
func (r *FogRenderer) Render(points []domain.RevealEvent, vp domain.Viewport) (domain.FogMask, error) {
	if err := vp.Validate(); err != nil {
		return domain.FogMask{}, err
	}

	width := int(math.Ceil(float64(vp.PixelWidth) * r.oversize))
	height := int(math.Ceil(float64(vp.PixelHeight) * r.oversize))
	padX := float64(width-vp.PixelWidth) / 2
	padY := float64(height-vp.PixelHeight) / 2

	cutouts := make([]domain.Cutout, 0, len(points))
	for _, e := range points {
		sp, err := r.projector.ProjectToScreen(e.Point, vp)
		if err != nil {
			return domain.FogMask{}, fmt.Errorf("reveal %d: %w", e.Sequence, err)
		}
		radius, err := r.projector.MetersToPixelRadius(e.RadiusMeters, e.Point.Lat, vp)
		if err != nil {
			return domain.FogMask{}, fmt.Errorf("reveal %d: %w", e.Sequence, err)
		}
		cutouts = append(cutouts, domain.Cutout{
			X:        sp.X + padX,
			Y:        sp.Y + padY,
			RadiusPx: radius,
		})
	}

	return domain.FogMask{
		WidthPx:  width,
		HeightPx: height,
		OffsetX:  padX,
		OffsetY:  padY,
		Cutouts:  cutouts,
	}, nil
}
