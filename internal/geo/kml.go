// Package geo fetches, caches and parses ward boundary geometry.
package geo

import (
	"encoding/xml"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/twpayne/go-geom"
)

// KML parsing errors.
var (
	ErrNoPlacemark   = errors.New("kml contains no placemark")
	ErrNoGeometry    = errors.New("placemark contains no polygon")
	ErrBadCoordinate = errors.New("malformed coordinate tuple")
)

type kmlFile struct {
	Document kmlDocument `xml:"Document"`
}

type kmlDocument struct {
	Placemarks []kmlPlacemark `xml:"Placemark"`
}

type kmlPlacemark struct {
	Name          string       `xml:"name"`
	Polygon       *kmlPolygon  `xml:"Polygon"`
	MultiGeometry *kmlMultiGeo `xml:"MultiGeometry"`
}

type kmlMultiGeo struct {
	Polygons []kmlPolygon `xml:"Polygon"`
}

type kmlPolygon struct {
	Outer kmlRing   `xml:"outerBoundaryIs>LinearRing"`
	Inner []kmlRing `xml:"innerBoundaryIs>LinearRing"`
}

type kmlRing struct {
	Coordinates string `xml:"coordinates"`
}

// ParseBoundary parses one ward KML file into its placemark name and a
// go-geom Polygon or MultiPolygon.
func ParseBoundary(data []byte) (string, geom.T, error) {
	var doc kmlFile
	if err := xml.Unmarshal(data, &doc); err != nil {
		return "", nil, fmt.Errorf("failed to parse kml: %w", err)
	}

	if len(doc.Document.Placemarks) == 0 {
		return "", nil, ErrNoPlacemark
	}

	pm := doc.Document.Placemarks[0]
	name := strings.TrimSpace(pm.Name)

	var polys []kmlPolygon

	switch {
	case pm.MultiGeometry != nil:
		polys = pm.MultiGeometry.Polygons
	case pm.Polygon != nil:
		polys = []kmlPolygon{*pm.Polygon}
	}

	if len(polys) == 0 {
		return "", nil, fmt.Errorf("%w: %q", ErrNoGeometry, name)
	}

	if len(polys) == 1 {
		polygon, err := buildPolygon(polys[0])
		if err != nil {
			return "", nil, err
		}

		return name, polygon, nil
	}

	multi := geom.NewMultiPolygon(geom.XY)

	for _, p := range polys {
		polygon, err := buildPolygon(p)
		if err != nil {
			return "", nil, err
		}

		if err := multi.Push(polygon); err != nil {
			return "", nil, fmt.Errorf("failed to assemble multipolygon: %w", err)
		}
	}

	return name, multi, nil
}

func buildPolygon(p kmlPolygon) (*geom.Polygon, error) {
	rings := make([][]geom.Coord, 0, 1+len(p.Inner))

	outer, err := parseRing(p.Outer.Coordinates)
	if err != nil {
		return nil, err
	}

	rings = append(rings, outer)

	for _, inner := range p.Inner {
		ring, ringErr := parseRing(inner.Coordinates)
		if ringErr != nil {
			return nil, ringErr
		}

		rings = append(rings, ring)
	}

	polygon := geom.NewPolygon(geom.XY)
	if _, err := polygon.SetCoords(rings); err != nil {
		return nil, fmt.Errorf("failed to build polygon: %w", err)
	}

	return polygon, nil
}

// parseRing parses a KML coordinate list: whitespace-separated
// "lon,lat[,alt]" tuples.
func parseRing(coordinates string) ([]geom.Coord, error) {
	fields := strings.Fields(coordinates)
	if len(fields) < 3 {
		return nil, fmt.Errorf("%w: ring needs at least 3 points", ErrBadCoordinate)
	}

	coords := make([]geom.Coord, 0, len(fields))

	for _, field := range fields {
		parts := strings.Split(field, ",")
		if len(parts) < 2 {
			return nil, fmt.Errorf("%w: %q", ErrBadCoordinate, field)
		}

		lon, err := strconv.ParseFloat(parts[0], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrBadCoordinate, field)
		}

		lat, err := strconv.ParseFloat(parts[1], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q", ErrBadCoordinate, field)
		}

		coords = append(coords, geom.Coord{lon, lat})
	}

	return coords, nil
}
