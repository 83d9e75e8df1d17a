// Package raster draws fog masks into images.
package raster

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"

	"github.com/fogleman/gg"

	"github.com/samirrijal/fogtrail/internal/core/domain"
)

// MaxPixels caps the mask area a single draw may allocate.
const MaxPixels = 4096 * 4096

// DefaultFog is the opaque covering colour.
var DefaultFog = color.RGBA{R: 28, G: 28, B: 36, A: 235}

// Rasterize paints mask as an RGBA image: fog everywhere except the cutouts,
// which stay fully transparent.
func Rasterize(mask domain.FogMask, fog color.Color) (image.Image, error) {
	w, h := mask.WidthPx, mask.HeightPx
	if w <= 0 || h <= 0 {
		return nil, &domain.ValidationError{Field: "mask", Reason: fmt.Sprintf("empty mask %dx%d", w, h)}
	}
	if w*h > MaxPixels {
		return nil, &domain.ValidationError{Field: "mask", Reason: fmt.Sprintf("%dx%d exceeds %d pixels", w, h, MaxPixels)}
	}

	holes := gg.NewContext(w, h)
	for _, c := range mask.Cutouts {
		holes.DrawCircle(c.X, c.Y, c.RadiusPx)
	}
	holes.SetColor(color.White)
	holes.Fill()

	dc := gg.NewContext(w, h)
	if err := dc.SetMask(holes.AsMask()); err != nil {
		return nil, fmt.Errorf("set mask: %w", err)
	}
	dc.InvertMask()
	dc.SetColor(fog)
	dc.DrawRectangle(0, 0, float64(w), float64(h))
	dc.Fill()
	return dc.Image(), nil
}

// PNGDrawer implements ports.MaskDrawer by encoding the rasterized mask as PNG.
type PNGDrawer struct {
	w   io.Writer
	fog color.Color
}

// NewPNGDrawer writes each drawn mask to w. A nil fog uses DefaultFog.
func NewPNGDrawer(w io.Writer, fog color.Color) *PNGDrawer {
	if fog == nil {
		fog = DefaultFog
	}
	return &PNGDrawer{w: w, fog: fog}
}

func (d *PNGDrawer) Draw(ctx context.Context, mask domain.FogMask) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	img, err := Rasterize(mask, d.fog)
	if err != nil {
		return err
	}
	enc := png.Encoder{CompressionLevel: png.BestSpeed}
	if err := enc.Encode(d.w, img); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}
