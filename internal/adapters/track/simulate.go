package track

import "github.com/samirrijal/fogtrail/internal/core/domain"

// Defaults for SimulatedWalk: 21 samples about 11 m apart heading north.
const (
	DefaultWalkSteps    = 20
	DefaultWalkStepDegs = 0.0001
)

// SimulatedWalk returns start followed by steps samples, each stepDeg further
// north. Latitude is capped at 90.
func SimulatedWalk(start domain.GeoPoint, steps int, stepDeg float64) []domain.GeoPoint {
	if steps < 0 {
		steps = 0
	}
	out := make([]domain.GeoPoint, 0, steps+1)
	for i := 0; i <= steps; i++ {
		lat := start.Lat + float64(i)*stepDeg
		if lat > 90 {
			lat = 90
		}
		out = append(out, domain.GeoPoint{Lat: lat, Lon: start.Lon})
	}
	return out
}
