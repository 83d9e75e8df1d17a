package track_test

import (
	"math"
	"strings"
	"testing"

	"github.com/samirrijal/fogtrail/internal/adapters/track"
	"github.com/samirrijal/fogtrail/internal/core/domain"
)

const sampleGPX = `<?xml version="1.0" encoding="UTF-8"?>
<gpx version="1.1" creator="test" xmlns="http://www.topografix.com/GPX/1/1">
  <trk><name>morning</name><trkseg>
    <trkpt lat="43.2630" lon="-2.9350"></trkpt>
    <trkpt lat="43.2634" lon="-2.9346"></trkpt>
  </trkseg><trkseg>
    <trkpt lat="43.2640" lon="-2.9340"></trkpt>
  </trkseg></trk>
</gpx>`

const routeGPX = `<?xml version="1.0" encoding="UTF-8"?>
<gpx version="1.1" creator="test" xmlns="http://www.topografix.com/GPX/1/1">
  <rte><rtept lat="1" lon="2"></rtept><rtept lat="3" lon="4"></rtept></rte>
</gpx>`

func TestParseGPX_TrackPoints(t *testing.T) {
	pts, err := track.ParseGPX(strings.NewReader(sampleGPX))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pts) != 3 {
		t.Fatalf("expected 3 points across segments, got %d", len(pts))
	}
	if pts[0] != (domain.GeoPoint{Lat: 43.263, Lon: -2.935}) {
		t.Errorf("unexpected first point %+v", pts[0])
	}
}

func TestParseGPX_RouteFallback(t *testing.T) {
	pts, err := track.ParseGPX(strings.NewReader(routeGPX))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(pts) != 2 || pts[1].Lat != 3 {
		t.Errorf("expected route points, got %+v", pts)
	}
}

func TestParseGPX_Malformed(t *testing.T) {
	if _, err := track.ParseGPX(strings.NewReader("<gpx><trk>")); err == nil {
		t.Error("expected parse error")
	}
}

func TestSimulatedWalk(t *testing.T) {
	start := domain.GeoPoint{Lat: 40, Lon: -73}
	pts := track.SimulatedWalk(start, track.DefaultWalkSteps, track.DefaultWalkStepDegs)
	if len(pts) != 21 {
		t.Fatalf("expected 21 samples, got %d", len(pts))
	}
	if pts[0] != start {
		t.Errorf("expected walk to begin at start, got %+v", pts[0])
	}
	if math.Abs(pts[20].Lat-40.002) > 1e-9 || pts[20].Lon != -73 {
		t.Errorf("unexpected last sample %+v", pts[20])
	}

	capped := track.SimulatedWalk(domain.GeoPoint{Lat: 89.9995}, 10, 0.0001)
	if capped[10].Lat != 90 {
		t.Errorf("expected latitude capped at 90, got %v", capped[10].Lat)
	}
}
