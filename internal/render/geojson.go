package render

import (
	"fmt"
	"io"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/dpup/corridor/internal/lib/geo"
)

// GeoJSONRenderer writes a FeatureCollection with one feature for the route, one
// for the corridor polygon and one linestring per pair. The "kind" property tells
// them apart: route, corridor, kept or rejected.
type GeoJSONRenderer struct{}

func (GeoJSONRenderer) Format() Format      { return FormatGeoJSON }
func (GeoJSONRenderer) ContentType() string { return "application/geo+json" }

func (GeoJSONRenderer) Render(w io.Writer, scene Scene) error {
	data, err := FeatureCollection(scene).MarshalJSON()
	if err != nil {
		return fmt.Errorf("failed to encode geojson: %w", err)
	}
	_, err = w.Write(data)
	return err
}

// FeatureCollection builds the GeoJSON view of a scene
func FeatureCollection(scene Scene) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	route := geojson.NewFeature(lineString(scene.Route))
	route.Properties["kind"] = "route"
	route.Properties["name"] = scene.Title
	fc.Append(route)

	ring := orb.Ring(lineString(scene.Corridor.Ring()))
	box := geojson.NewFeature(orb.Polygon{ring})
	box.Properties["kind"] = "corridor"
	box.Properties["angle"] = scene.Corridor.Angle
	box.Properties["half_along_km"] = scene.Corridor.HalfAlongKm
	box.Properties["half_cross_km"] = scene.Corridor.HalfCrossKm
	fc.Append(box)

	appendPairs(fc, scene.Kept, "kept")
	appendPairs(fc, scene.Rejected, "rejected")
	return fc
}

func appendPairs(fc *geojson.FeatureCollection, pairs []geo.Pair, kind string) {
	for i, pair := range pairs {
		f := geojson.NewFeature(lineString([]geo.Point{pair.Origin, pair.Destination}))
		f.Properties["kind"] = kind
		f.Properties["index"] = i
		fc.Append(f)
	}
}

func lineString(points []geo.Point) orb.LineString {
	ls := make(orb.LineString, len(points))
	for i, p := range points {
		ls[i] = orb.Point{p.Longitude, p.Latitude}
	}
	return ls
}
