package geospatial_test

import (
	"math"
	"testing"

	"github.com/samirrijal/fogtrail/internal/pkg/geospatial"
)

const tolerance = 1e-6

func TestHaversine_KnownDistance(t *testing.T) {
	// One degree of latitude is ~111.19 km on a 6371 km sphere.
	d := geospatial.Haversine(40, -73, 41, -73)
	if math.Abs(d-111194.93) > 1 {
		t.Errorf("expected ~111194.93 m, got %.2f", d)
	}
}

func TestHaversine_SamePoint(t *testing.T) {
	if d := geospatial.Haversine(43.263, -2.935, 43.263, -2.935); d != 0 {
		t.Errorf("expected 0, got %v", d)
	}
}

func TestMetersToLonDegrees_Equator(t *testing.T) {
	deg, ok := geospatial.MetersToLonDegrees(111320, 0)
	if !ok {
		t.Fatal("expected ok at the equator")
	}
	if math.Abs(deg-1) > tolerance {
		t.Errorf("expected 1 degree, got %v", deg)
	}
}

func TestMetersToLonDegrees_Poles(t *testing.T) {
	for _, lat := range []float64{90, -90, 91} {
		if _, ok := geospatial.MetersToLonDegrees(50, lat); ok {
			t.Errorf("expected !ok at lat %v", lat)
		}
	}
}

func TestLensArea_MatchesFormula(t *testing.T) {
	r, d := 50.0, 60.0
	want := 2*r*r*math.Acos(d/(2*r)) - 0.5*d*math.Sqrt(4*r*r-d*d)
	if got := geospatial.LensArea(r, d); math.Abs(got-want) > tolerance {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestLensArea_Bounds(t *testing.T) {
	r := 50.0
	if got := geospatial.LensArea(r, 0); math.Abs(got-math.Pi*r*r) > tolerance {
		t.Errorf("full overlap: expected %v, got %v", math.Pi*r*r, got)
	}
	if got := geospatial.LensArea(r, 100); got != 0 {
		t.Errorf("touching circles: expected 0, got %v", got)
	}
	// Continuity at the d = 2r boundary.
	if got := geospatial.LensArea(r, 99.9999); got > 1e-3 {
		t.Errorf("expected overlap -> 0 near 2r, got %v", got)
	}
}

func TestCircleOverlapArea_EqualRadiiMatchesLens(t *testing.T) {
	for _, d := range []float64{1, 10, 33.3, 60, 99} {
		lens := geospatial.LensArea(50, d)
		general := geospatial.CircleOverlapArea(50, 50, d)
		if math.Abs(lens-general) > tolerance {
			t.Errorf("d=%v: lens %v != general %v", d, lens, general)
		}
	}
}

func TestCircleOverlapArea_UnequalRadii(t *testing.T) {
	// Small circle fully inside the big one.
	if got := geospatial.CircleOverlapArea(100, 10, 20); math.Abs(got-math.Pi*100) > tolerance {
		t.Errorf("containment: expected %v, got %v", math.Pi*100, got)
	}
	// Symmetric in r1/r2.
	a := geospatial.CircleOverlapArea(30, 50, 60)
	b := geospatial.CircleOverlapArea(50, 30, 60)
	if math.Abs(a-b) > tolerance {
		t.Errorf("expected symmetric overlap, got %v and %v", a, b)
	}
	if a <= 0 || a >= math.Pi*30*30 {
		t.Errorf("partial overlap out of range: %v", a)
	}
	if got := geospatial.CircleOverlapArea(30, 50, 80); got != 0 {
		t.Errorf("disjoint: expected 0, got %v", got)
	}
}

func TestWorldPixel_Origin(t *testing.T) {
	x, y := geospatial.WorldPixel(0, 0, 0)
	if math.Abs(x-128) > tolerance || math.Abs(y-128) > tolerance {
		t.Errorf("expected (128,128), got (%v,%v)", x, y)
	}
}

func TestWorldPixel_ClampsLatitude(t *testing.T) {
	_, y := geospatial.WorldPixel(90, 0, 1)
	if math.IsInf(y, 0) || math.IsNaN(y) {
		t.Fatalf("expected finite y at the pole, got %v", y)
	}
	_, top := geospatial.WorldPixel(geospatial.MaxMercatorLat, 0, 1)
	if math.Abs(y-top) > tolerance {
		t.Errorf("expected clamp to %v, got %v", top, y)
	}
}

func TestMetersPerPixel_Zoom18Equator(t *testing.T) {
	mpp, ok := geospatial.MetersPerPixel(0, 18)
	if !ok {
		t.Fatal("expected ok")
	}
	// 111320 * 360 / (256 * 2^18) ≈ 0.597
	if math.Abs(mpp-0.5972) > 1e-3 {
		t.Errorf("expected ~0.597 m/px, got %v", mpp)
	}
}
