package geo

import (
	"fmt"

	"github.com/paulmach/orb"
	geojson "github.com/paulmach/orb/geojson"
	"github.com/twpayne/go-geos"
)

// Centroid averages the vertices of a polygon's outer ring and returns the
// result as [lat, lng]. A vertex mean is not a true area centroid, but for
// city-block sized polygons the difference is below marker precision.
func Centroid(p orb.Polygon) ([2]float64, bool) {
	if len(p) == 0 || len(p[0]) == 0 {
		return [2]float64{}, false
	}
	ring := p[0]
	var sumLng, sumLat float64
	for _, pt := range ring {
		sumLng += pt[0]
		sumLat += pt[1]
	}
	n := float64(len(ring))
	return [2]float64{sumLat / n, sumLng / n}, true
}

// BoundsOf expands a bound over the outer-ring vertices of every polygon
// in geoms. ok is false when no vertex was seen.
func BoundsOf(geoms []orb.Polygon) (orb.Bound, bool) {
	bound := orb.Bound{Min: orb.Point{1, 1}, Max: orb.Point{-1, -1}}
	seen := false
	for _, p := range geoms {
		if len(p) == 0 {
			continue
		}
		for _, pt := range p[0] {
			if !seen {
				bound = orb.Bound{Min: pt, Max: pt}
				seen = true
				continue
			}
			bound = bound.Extend(pt)
		}
	}
	return bound, seen
}

// Union merges two polygons into one geometry. The result may be a polygon
// or, for disjoint inputs, a multipolygon; either way it round-trips through
// GeoJSON so callers can store it directly.
func Union(a, b orb.Geometry) (geom orb.Geometry, err error) {
	// go-geos panics on some degenerate rings instead of returning an error.
	defer func() {
		if r := recover(); r != nil {
			geom = nil
			err = fmt.Errorf("union panicked: %v", r)
		}
	}()

	ga, err := toGeos(a)
	if err != nil {
		return nil, fmt.Errorf("left operand: %w", err)
	}
	gb, err := toGeos(b)
	if err != nil {
		return nil, fmt.Errorf("right operand: %w", err)
	}

	merged := ga.Union(gb)
	if merged == nil {
		return nil, fmt.Errorf("union produced no geometry")
	}
	if merged.IsEmpty() {
		return nil, fmt.Errorf("union produced an empty geometry")
	}

	return fromGeos(merged)
}

func toGeos(g orb.Geometry) (*geos.Geom, error) {
	raw, err := geojson.NewGeometry(g).MarshalJSON()
	if err != nil {
		return nil, err
	}
	gg, err := geos.NewGeomFromGeoJSON(string(raw))
	if err != nil {
		return nil, err
	}
	return gg, nil
}

func fromGeos(g *geos.Geom) (orb.Geometry, error) {
	raw := g.ToGeoJSON(0)
	if raw == "" {
		return nil, fmt.Errorf("empty GeoJSON from geos")
	}
	out, err := geojson.UnmarshalGeometry([]byte(raw))
	if err != nil {
		return nil, err
	}
	return out.Geometry(), nil
}
