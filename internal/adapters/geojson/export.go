// Package geojson exports the reveal log as GeoJSON.
package geojson

import (
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/samirrijal/fogtrail/internal/core/domain"
	"github.com/samirrijal/fogtrail/internal/pkg/geospatial"
)

// CircleSegments is the vertex count used to approximate a reveal disc.
const CircleSegments = 48

// Options controls the export shape.
type Options struct {
	// Circles emits each reveal as a polygon approximating its disc instead of a point.
	Circles bool
	// Path adds a LineString feature connecting reveals in order.
	Path bool
}

// FeatureCollection converts events into a FeatureCollection with a bbox.
// Coordinates are (lon, lat).
func FeatureCollection(events []domain.RevealEvent, opts Options) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	if len(events) == 0 {
		return fc
	}

	bound := orb.Bound{Min: toPoint(events[0].Point), Max: toPoint(events[0].Point)}
	path := make(orb.LineString, 0, len(events))

	for _, e := range events {
		pt := toPoint(e.Point)
		path = append(path, pt)

		var f *geojson.Feature
		if opts.Circles {
			poly := circle(e.Point, e.RadiusMeters)
			bound = bound.Union(poly.Bound())
			f = geojson.NewFeature(poly)
		} else {
			bound = bound.Extend(pt)
			f = geojson.NewFeature(pt)
		}
		f.Properties["sequence"] = e.Sequence
		f.Properties["radius_meters"] = e.RadiusMeters
		fc.Append(f)
	}

	if opts.Path && len(path) > 1 {
		f := geojson.NewFeature(path)
		f.Properties["kind"] = "path"
		fc.Append(f)
	}

	fc.BBox = geojson.NewBBox(bound)
	return fc
}

func toPoint(p domain.GeoPoint) orb.Point {
	return orb.Point{p.Lon, p.Lat}
}

// circle approximates a ground disc with the same equirectangular scaling the
// fog mask uses. Near the poles, where longitude scaling is undefined, the disc
// collapses to its center.
func circle(center domain.GeoPoint, radiusMeters float64) orb.Polygon {
	dLat := radiusMeters / geospatial.MetersPerDegree
	dLon, ok := geospatial.MetersToLonDegrees(radiusMeters, center.Lat)
	if !ok {
		dLon = 0
	}

	ring := make(orb.Ring, 0, CircleSegments+1)
	for i := 0; i < CircleSegments; i++ {
		theta := 2 * math.Pi * float64(i) / CircleSegments
		ring = append(ring, orb.Point{
			center.Lon + dLon*math.Cos(theta),
			center.Lat + dLat*math.Sin(theta),
		})
	}
	ring = append(ring, ring[0])
	return orb.Polygon{ring}
}
