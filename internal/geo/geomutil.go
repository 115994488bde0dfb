package geo

import (
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/xy"
)

// Union combines ward geometries into one district multipolygon. The
// boundaries are disjoint administrative areas, so the union is just the
// collection of their polygons.
func Union(geometries []geom.T) (*geom.MultiPolygon, error) {
	multi := geom.NewMultiPolygon(geom.XY)

	for _, g := range geometries {
		switch t := g.(type) {
		case *geom.Polygon:
			if err := multi.Push(t); err != nil {
				return nil, err
			}
		case *geom.MultiPolygon:
			for i := 0; i < t.NumPolygons(); i++ {
				if err := multi.Push(t.Polygon(i)); err != nil {
					return nil, err
				}
			}
		}
	}

	return multi, nil
}

// ContainsPoint reports whether the lon/lat point lies inside the boundary,
// honoring interior rings as holes.
func ContainsPoint(g geom.T, lon, lat float64) bool {
	point := geom.Coord{lon, lat}

	switch t := g.(type) {
	case *geom.Polygon:
		return polygonContains(t, point)
	case *geom.MultiPolygon:
		for i := 0; i < t.NumPolygons(); i++ {
			if polygonContains(t.Polygon(i), point) {
				return true
			}
		}
	}

	return false
}

func polygonContains(p *geom.Polygon, point geom.Coord) bool {
	if p.NumLinearRings() == 0 {
		return false
	}

	if !xy.IsPointInRing(geom.XY, point, p.LinearRing(0).FlatCoords()) {
		return false
	}

	for i := 1; i < p.NumLinearRings(); i++ {
		if xy.IsPointInRing(geom.XY, point, p.LinearRing(i).FlatCoords()) {
			return false
		}
	}

	return true
}
