package corridor

import (
	"math"

	"github.com/dpup/corridor/internal/lib/geo"
)

// KmPerDegree is the length of one degree of latitude on the mean-radius sphere
const KmPerDegree = 2 * math.Pi * (geo.EarthRadiusMeters / 1000) / 360

// maxFrameLatitude bounds where the equirectangular frame is usable
const maxFrameLatitude = 85.0

// Vector is a position in a corridor frame: U along the heading, V perpendicular
// to it (positive to the left of travel). Both in kilometres.
type Vector struct {
	U float64 `json:"u"`
	V float64 `json:"v"`
}

// Projector maps lat/lng points into a rotated, locally planar frame.
// It is an equirectangular approximation around Origin followed by a rotation,
// so it is affine in (lat, lng) and exactly invertible up to rounding.
type Projector struct {
	origin geo.Point
	angle  float64
	cosLat float64
	sin    float64
	cos    float64
}

// NewProjector builds a frame centered on origin whose U axis points angleDeg
// degrees counter-clockwise from east
func NewProjector(origin geo.Point, angleDeg float64) Projector {
	rad := angleDeg * math.Pi / 180
	return Projector{
		origin: origin,
		angle:  angleDeg,
		cosLat: math.Cos(origin.Latitude * math.Pi / 180),
		sin:    math.Sin(rad),
		cos:    math.Cos(rad),
	}
}

// Origin returns the frame origin
func (p Projector) Origin() geo.Point { return p.origin }

// Angle returns the frame heading in degrees from east
func (p Projector) Angle() float64 { return p.angle }

// planar returns east/north offsets from the origin in kilometres
func (p Projector) planar(pt geo.Point) (x, y float64) {
	dLng := math.Remainder(pt.Longitude-p.origin.Longitude, 360)
	x = dLng * p.cosLat * KmPerDegree
	y = (pt.Latitude - p.origin.Latitude) * KmPerDegree
	return x, y
}

// Project returns the (along, cross) position of pt
func (p Projector) Project(pt geo.Point) Vector {
	x, y := p.planar(pt)
	return Vector{
		U: x*p.cos + y*p.sin,
		V: -x*p.sin + y*p.cos,
	}
}

// Unproject is the inverse of Project
func (p Projector) Unproject(v Vector) geo.Point {
	x := v.U*p.cos - v.V*p.sin
	y := v.U*p.sin + v.V*p.cos

	lng := p.origin.Longitude + x/(p.cosLat*KmPerDegree)
	if lng >= 180 {
		lng -= 360
	} else if lng < -180 {
		lng += 360
	}

	return geo.Point{
		Latitude:  p.origin.Latitude + y/KmPerDegree,
		Longitude: lng,
	}
}

// ProjectAll projects every point in order
func (p Projector) ProjectAll(points []geo.Point) []Vector {
	out := make([]Vector, len(points))
	for i, pt := range points {
		out[i] = p.Project(pt)
	}
	return out
}

// projectPairs projects both endpoints of every pair, fanning out above threshold
func (p Projector) projectPairs(pairs []geo.Pair, threshold int) [][2]Vector {
	out := make([][2]Vector, len(pairs))
	parallelFor(len(pairs), threshold, func(lo, hi int) {
		for i := lo; i < hi; i++ {
			out[i] = [2]Vector{p.Project(pairs[i].Origin), p.Project(pairs[i].Destination)}
		}
	})
	return out
}
