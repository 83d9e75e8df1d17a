package raster_test

import (
	"bytes"
	"context"
	"errors"
	"image/png"
	"testing"

	"github.com/samirrijal/fogtrail/internal/adapters/raster"
	"github.com/samirrijal/fogtrail/internal/core/domain"
)

func TestRasterize_CutoutIsTransparent(t *testing.T) {
	mask := domain.FogMask{
		WidthPx:  100,
		HeightPx: 80,
		Cutouts:  []domain.Cutout{{X: 30, Y: 40, RadiusPx: 10}},
	}
	img, err := raster.Rasterize(mask, raster.DefaultFog)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 100 || b.Dy() != 80 {
		t.Fatalf("expected 100x80, got %v", b)
	}

	if _, _, _, a := img.At(30, 40).RGBA(); a != 0 {
		t.Errorf("expected transparent cutout center, got alpha %d", a)
	}
	if _, _, _, a := img.At(90, 10).RGBA(); a == 0 {
		t.Error("expected fog outside cutouts")
	}
}

func TestRasterize_RejectsEmptyAndHugeMasks(t *testing.T) {
	for _, m := range []domain.FogMask{
		{WidthPx: 0, HeightPx: 10},
		{WidthPx: 10000, HeightPx: 10000},
	} {
		if _, err := raster.Rasterize(m, raster.DefaultFog); !errors.Is(err, domain.ErrValidation) {
			t.Errorf("%dx%d: expected validation error, got %v", m.WidthPx, m.HeightPx, err)
		}
	}
}

func TestPNGDrawer_WritesPNG(t *testing.T) {
	var buf bytes.Buffer
	d := raster.NewPNGDrawer(&buf, nil)
	mask := domain.FogMask{WidthPx: 64, HeightPx: 64, Cutouts: []domain.Cutout{{X: 32, Y: 32, RadiusPx: 8}}}

	if err := d.Draw(context.Background(), mask); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	img, err := png.Decode(&buf)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if img.Bounds().Dx() != 64 {
		t.Errorf("expected 64px wide, got %d", img.Bounds().Dx())
	}
}
