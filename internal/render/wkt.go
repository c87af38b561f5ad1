package render

import (
	"github.com/twpayne/go-geom"
	"github.com/twpayne/go-geom/encoding/wkt"

	"github.com/dpup/corridor/internal/lib/corridor"
	"github.com/dpup/corridor/internal/lib/geo"
)

// CorridorWKT returns the corridor as a closed WKT polygon in (lng lat) order
func CorridorWKT(c corridor.Corridor) (string, error) {
	ring := make([]geom.Coord, 0, 5)
	for _, p := range c.Ring() {
		ring = append(ring, geom.Coord{p.Longitude, p.Latitude})
	}
	poly, err := geom.NewPolygon(geom.XY).SetCoords([][]geom.Coord{ring})
	if err != nil {
		return "", err
	}
	return wkt.Marshal(poly)
}

// PathWKT returns a path as a WKT linestring in (lng lat) order
func PathWKT(points []geo.Point) (string, error) {
	coords := make([]geom.Coord, len(points))
	for i, p := range points {
		coords[i] = geom.Coord{p.Longitude, p.Latitude}
	}
	line, err := geom.NewLineString(geom.XY).SetCoords(coords)
	if err != nil {
		return "", err
	}
	return wkt.Marshal(line)
}
