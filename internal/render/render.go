// Package render turns a sized corridor and its partitioned pairs into a map
// artifact: a Leaflet HTML page, a KML document or a GeoJSON feature collection.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/dpup/corridor/internal/lib/corridor"
	"github.com/dpup/corridor/internal/lib/geo"
)

// Format names an output encoding
type Format string

const (
	FormatHTML    Format = "html"
	FormatKML     Format = "kml"
	FormatGeoJSON Format = "geojson"
)

// ParseFormat maps a user supplied name to a Format. Empty selects HTML.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatHTML:
		return FormatHTML, nil
	case FormatKML:
		return FormatKML, nil
	case FormatGeoJSON, "json":
		return FormatGeoJSON, nil
	default:
		return "", fmt.Errorf("unknown render format %q", s)
	}
}

// Extension returns the file extension for the format, without the dot
func (f Format) Extension() string {
	return string(f)
}

// Scene is everything drawn on one corridor map
type Scene struct {
	Title    string
	Route    []geo.Point
	Corridor corridor.Corridor
	Kept     []geo.Pair
	Rejected []geo.Pair
}

// Total returns the number of pairs evaluated
func (s Scene) Total() int {
	return len(s.Kept) + len(s.Rejected)
}

// KeptPercent returns the share of pairs kept, 0 for an empty scene
func (s Scene) KeptPercent() float64 {
	if s.Total() == 0 {
		return 0
	}
	return 100 * float64(len(s.Kept)) / float64(s.Total())
}

// RejectedPercent returns the share of pairs filtered out
func (s Scene) RejectedPercent() float64 {
	if s.Total() == 0 {
		return 0
	}
	return 100 - s.KeptPercent()
}

// Layer is one named path on an overview map
type Layer struct {
	Name   string
	Points []geo.Point
}

// Renderer writes a scene in one format
type Renderer interface {
	Format() Format
	ContentType() string
	Render(w io.Writer, scene Scene) error
}

// New returns the renderer for f
func New(f Format) (Renderer, error) {
	switch f {
	case FormatHTML:
		return NewHTMLRenderer(), nil
	case FormatKML:
		return KMLRenderer{}, nil
	case FormatGeoJSON:
		return GeoJSONRenderer{}, nil
	default:
		return nil, fmt.Errorf("unknown render format %q", f)
	}
}
