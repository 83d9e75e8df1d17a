package geospatial

import "math"

const (
	// TileSize is the pixel edge of one slippy-map tile.
	TileSize = 256

	// MaxMercatorLat is where spherical Web Mercator is cut off.
	MaxMercatorLat = 85.0511287798
)

// WorldSize is the pixel width of the whole world at zoom.
func WorldSize(zoom float64) float64 {
	return TileSize * math.Pow(2, zoom)
}

// WorldPixel projects lat/lon to absolute Web Mercator pixel coordinates at zoom.
// Latitude is clamped to ±MaxMercatorLat.
func WorldPixel(lat, lon, zoom float64) (x, y float64) {
	lat = math.Max(-MaxMercatorLat, math.Min(MaxMercatorLat, lat))
	size := WorldSize(zoom)
	latRad := toRad(lat)
	x = (lon + 180) / 360 * size
	y = (1 - math.Asinh(math.Tan(latRad))/math.Pi) / 2 * size
	return x, y
}

// MetersPerPixel is the ground resolution at lat for the given zoom, using the
// same equirectangular approximation as MetersToLonDegrees.
func MetersPerPixel(lat, zoom float64) (float64, bool) {
	deg, ok := MetersToLonDegrees(1, lat)
	if !ok {
		return 0, false
	}
	return 1 / (deg / 360 * WorldSize(zoom)), true
}
