package render

import (
	"fmt"
	"image/color"
	"io"

	"github.com/twpayne/go-kml"

	"github.com/dpup/corridor/internal/lib/geo"
)

// KML colors are written aabbggrr by the encoder from these RGBA values
var (
	routeColor    = color.RGBA{R: 0, G: 0, B: 255, A: 204}
	corridorColor = color.RGBA{R: 0, G: 0, B: 139, A: 255}
	corridorFill  = color.RGBA{R: 0, G: 0, B: 139, A: 26}
	keptColor     = color.RGBA{R: 0, G: 128, B: 0, A: 178}
	rejectedColor = color.RGBA{R: 255, G: 0, B: 0, A: 77}
)

// KMLRenderer writes a KML document for Google Earth and GIS tools
type KMLRenderer struct{}

func (KMLRenderer) Format() Format      { return FormatKML }
func (KMLRenderer) ContentType() string { return "application/vnd.google-earth.kml+xml" }

func (KMLRenderer) Render(w io.Writer, scene Scene) error {
	doc := kml.KML(kml.Document(
		kml.Name(scene.Title),
		kml.Description(fmt.Sprintf("Kept %d of %d pairs (%.1f%%), corridor %.1f° from east",
			len(scene.Kept), scene.Total(), scene.KeptPercent(), scene.Corridor.Angle)),
		kml.SharedStyle("route", kml.LineStyle(kml.Color(routeColor), kml.Width(4))),
		kml.SharedStyle("corridor",
			kml.LineStyle(kml.Color(corridorColor), kml.Width(3)),
			kml.PolyStyle(kml.Color(corridorFill)),
		),
		kml.SharedStyle("kept", kml.LineStyle(kml.Color(keptColor), kml.Width(2))),
		kml.SharedStyle("rejected", kml.LineStyle(kml.Color(rejectedColor), kml.Width(1))),
		kml.Placemark(
			kml.Name("Route"),
			kml.StyleURL("#route"),
			kml.LineString(kml.Coordinates(coordinates(scene.Route)...)),
		),
		kml.Placemark(
			kml.Name(fmt.Sprintf("Corridor (%.1f° from east)", scene.Corridor.Angle)),
			kml.StyleURL("#corridor"),
			kml.Polygon(kml.OuterBoundaryIs(kml.LinearRing(
				kml.Coordinates(coordinates(scene.Corridor.Ring())...),
			))),
		),
		pairFolder("Kept pairs", "#kept", scene.Kept),
		pairFolder("Filtered pairs", "#rejected", scene.Rejected),
	))

	if err := doc.WriteIndent(w, "", "  "); err != nil {
		return fmt.Errorf("failed to write kml: %w", err)
	}
	return nil
}

func pairFolder(name, style string, pairs []geo.Pair) kml.Element {
	children := []kml.Element{kml.Name(name)}
	for i, pair := range pairs {
		children = append(children, kml.Placemark(
			kml.Name(fmt.Sprintf("%s %d", name, i+1)),
			kml.StyleURL(style),
			kml.LineString(kml.Coordinates(coordinates([]geo.Point{pair.Origin, pair.Destination})...)),
		))
	}
	return kml.Folder(children...)
}

func coordinates(points []geo.Point) []kml.Coordinate {
	out := make([]kml.Coordinate, len(points))
	for i, p := range points {
		out[i] = kml.Coordinate{Lon: p.Longitude, Lat: p.Latitude}
	}
	return out
}
