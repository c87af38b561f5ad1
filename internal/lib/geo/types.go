package geo

import "fmt"

// Point represents a geographic coordinate in WGS84 degrees
type Point struct {
	Latitude  float64 `json:"lat" yaml:"lat"`
	Longitude float64 `json:"lng" yaml:"lng"`
}

// String renders the point as "(lat, lng)" with six decimals
func (p Point) String() string {
	return fmt.Sprintf("(%.6f, %.6f)", p.Latitude, p.Longitude)
}

// Polyline represents an ordered path with its optional Google encoded form
type Polyline struct {
	EncodedPolyline string  `json:"encoded_polyline,omitempty"`
	Points          []Point `json:"points"`
}

// Pair is an origin/destination tuple. Order matters for display only.
type Pair struct {
	Origin      Point `json:"origin" yaml:"origin"`
	Destination Point `json:"destination" yaml:"destination"`
}

// Endpoints returns origin and destination in order
func (p Pair) Endpoints() [2]Point {
	return [2]Point{p.Origin, p.Destination}
}

// Bounds is an axis-aligned lat/lng bounding box
type Bounds struct {
	MinLat float64 `json:"min_lat"`
	MinLng float64 `json:"min_lng"`
	MaxLat float64 `json:"max_lat"`
	MaxLng float64 `json:"max_lng"`
}

// Extend grows the bounds to include p
func (b Bounds) Extend(p Point) Bounds {
	if p.Latitude < b.MinLat {
		b.MinLat = p.Latitude
	}
	if p.Latitude > b.MaxLat {
		b.MaxLat = p.Latitude
	}
	if p.Longitude < b.MinLng {
		b.MinLng = p.Longitude
	}
	if p.Longitude > b.MaxLng {
		b.MaxLng = p.Longitude
	}
	return b
}
