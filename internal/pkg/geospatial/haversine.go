package geospatial

import "math"

const (
	// EarthRadiusMeters is the mean Earth radius used for great-circle distances.
	EarthRadiusMeters = 6371000.0

	// MetersPerDegree is the equirectangular approximation of one degree of latitude.
	MetersPerDegree = 111320.0
)

// Haversine calculates the great-circle distance in meters between two points.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)

	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return EarthRadiusMeters * c
}

// MetersToLonDegrees converts a ground distance measured along a parallel at lat
// into degrees of longitude. ok is false where the approximation is undefined
// (|lat| >= 90).
func MetersToLonDegrees(meters, lat float64) (deg float64, ok bool) {
	if math.Abs(lat) >= 90 {
		return 0, false
	}
	cos := math.Cos(toRad(lat))
	if cos <= 0 {
		return 0, false
	}
	deg = meters / (MetersPerDegree * cos)
	if math.IsInf(deg, 0) || math.IsNaN(deg) {
		return 0, false
	}
	return deg, true
}

func toRad(deg float64) float64 {
	return deg * math.Pi / 180
}
