package geo

import (
	"errors"
	"fmt"
	"math"

	"github.com/twpayne/go-polyline"
)

// EarthRadiusMeters is the mean Earth radius used for all distance calculations
const EarthRadiusMeters = 6371000.0

// ErrInvalidCoordinate is returned for non-finite or out-of-range coordinates
var ErrInvalidCoordinate = errors.New("invalid coordinates: latitude must be [-90, 90], longitude must be [-180, 180]")

// NewPoint creates a Point from latitude and longitude values with validation
func NewPoint(latitude, longitude float64) (Point, error) {
	point := Point{Latitude: latitude, Longitude: longitude}
	if err := ValidatePoint(point); err != nil {
		return Point{}, err
	}
	return point, nil
}

// ValidatePoint reports whether the point is finite and inside the WGS84 ranges
func ValidatePoint(p Point) error {
	if !IsValidCoordinate(p) {
		return fmt.Errorf("%w: got %s", ErrInvalidCoordinate, p)
	}
	return nil
}

// IsValidCoordinate validates latitude and longitude values. NaN fails every comparison.
func IsValidCoordinate(p Point) bool {
	return p.Latitude >= -90 && p.Latitude <= 90 &&
		p.Longitude >= -180 && p.Longitude <= 180
}

// PointToPoint calculates great-circle distance between two points using Haversine formula
func PointToPoint(p1, p2 Point) (float64, error) {
	if !IsValidCoordinate(p1) || !IsValidCoordinate(p2) {
		return 0, ErrInvalidCoordinate
	}

	if p1 == p2 {
		return 0, nil
	}

	lat1 := p1.Latitude * math.Pi / 180
	lon1 := p1.Longitude * math.Pi / 180
	lat2 := p2.Latitude * math.Pi / 180
	lon2 := p2.Longitude * math.Pi / 180

	dlat := lat2 - lat1
	dlon := lon2 - lon1

	a := math.Sin(dlat/2)*math.Sin(dlat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dlon/2)*math.Sin(dlon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusMeters * c, nil
}

// PathLength sums the great-circle length of every segment in meters
func PathLength(points []Point) (float64, error) {
	total := 0.0
	for i := 0; i < len(points)-1; i++ {
		d, err := PointToPoint(points[i], points[i+1])
		if err != nil {
			return 0, fmt.Errorf("segment %d: %w", i, err)
		}
		total += d
	}
	return total, nil
}

// DecodePolyline decodes Google polyline string to point sequence
func DecodePolyline(encoded string) ([]Point, error) {
	if encoded == "" {
		return nil, errors.New("encoded polyline string is empty")
	}

	coords, _, err := polyline.DecodeCoords([]byte(encoded))
	if err != nil {
		return nil, fmt.Errorf("failed to decode polyline: %w", err)
	}

	points := make([]Point, len(coords))
	for i, coord := range coords {
		points[i] = Point{
			Latitude:  coord[0],
			Longitude: coord[1],
		}

		if !IsValidCoordinate(points[i]) {
			return nil, errors.New("decoded polyline contains invalid coordinates")
		}
	}

	return points, nil
}

// EncodePolyline encodes points with Google's polyline algorithm (5 decimal precision)
func EncodePolyline(points []Point) string {
	coords := make([][]float64, len(points))
	for i, p := range points {
		coords[i] = []float64{p.Latitude, p.Longitude}
	}
	return string(polyline.EncodeCoords(coords))
}

// NewPolyline builds a Polyline carrying both the points and their encoded form
func NewPolyline(points []Point) Polyline {
	return Polyline{
		EncodedPolyline: EncodePolyline(points),
		Points:          points,
	}
}

// Densify inserts perSegment linearly interpolated points between every pair of
// consecutive vertices. Original vertices are kept; the input is not modified.
func Densify(points []Point, perSegment int) []Point {
	if len(points) < 2 || perSegment <= 0 {
		out := make([]Point, len(points))
		copy(out, points)
		return out
	}

	dense := make([]Point, 0, len(points)+(len(points)-1)*perSegment)
	dense = append(dense, points[0])

	for i := 0; i < len(points)-1; i++ {
		start, end := points[i], points[i+1]
		for k := 1; k <= perSegment; k++ {
			t := float64(k) / float64(perSegment+1)
			dense = append(dense, interpolatePoint(start, end, t))
		}
		dense = append(dense, end)
	}

	return dense
}

// interpolatePoint returns the point at fraction t of the straight lat/lng segment.
// Linear interpolation is adequate for road segments of a few kilometres.
func interpolatePoint(start, end Point, t float64) Point {
	return Point{
		Latitude:  start.Latitude + t*(end.Latitude-start.Latitude),
		Longitude: start.Longitude + t*(end.Longitude-start.Longitude),
	}
}

// BoundsOf returns the axis-aligned bounds of the given points
func BoundsOf(points ...Point) (Bounds, error) {
	if len(points) == 0 {
		return Bounds{}, errors.New("no points to bound")
	}
	b := Bounds{
		MinLat: points[0].Latitude, MaxLat: points[0].Latitude,
		MinLng: points[0].Longitude, MaxLng: points[0].Longitude,
	}
	for _, p := range points[1:] {
		b = b.Extend(p)
	}
	return b, nil
}

// Centroid returns the mean of the points. Longitudes are averaged as offsets from
// the first point, so a set straddling ±180° centres on the antimeridian; the
// result is wrapped into [-180, 180).
func Centroid(points []Point) Point {
	if len(points) == 0 {
		return Point{}
	}
	ref := points[0].Longitude
	var lat, dLng float64
	for _, p := range points {
		lat += p.Latitude
		dLng += math.Remainder(p.Longitude-ref, 360)
	}
	n := float64(len(points))

	lng := ref + dLng/n
	if lng >= 180 {
		lng -= 360
	} else if lng < -180 {
		lng += 360
	}
	return Point{Latitude: lat / n, Longitude: lng}
}
