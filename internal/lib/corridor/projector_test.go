package corridor

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dpup/corridor/internal/lib/geo"
)

func TestProjector_RoundTrip(t *testing.T) {
	origin := geo.Point{Latitude: 37.5566, Longitude: -122.1528}

	for _, angle := range []float64{-90, -63.4, -12.5, 0, 1e-7, 33.3, 45, 89.999} {
		proj := NewProjector(origin, angle)
		for dLat := -0.4; dLat <= 0.4; dLat += 0.1 {
			for dLng := -0.4; dLng <= 0.4; dLng += 0.1 {
				p := geo.Point{Latitude: origin.Latitude + dLat, Longitude: origin.Longitude + dLng}
				back := proj.Unproject(proj.Project(p))
				assert.InDelta(t, p.Latitude, back.Latitude, 1e-9, "latitude round trip at angle %v", angle)
				assert.InDelta(t, p.Longitude, back.Longitude, 1e-9, "longitude round trip at angle %v", angle)
			}
		}
	}
}

func TestProjector_Axes(t *testing.T) {
	origin := geo.Point{Latitude: 37.5, Longitude: -122.0}
	north := geo.Point{Latitude: 37.5 + 1/KmPerDegree, Longitude: -122.0}

	// Heading east: north is pure cross-axis, to the left of travel
	v := NewProjector(origin, 0).Project(north)
	assert.InDelta(t, 0, v.U, 1e-12)
	assert.InDelta(t, 1, v.V, 1e-12)

	// Heading north: north is pure along-axis
	v = NewProjector(origin, 90).Project(north)
	assert.InDelta(t, 1, v.U, 1e-12)
	assert.InDelta(t, 0, v.V, 1e-12)

	// Origin maps to zero
	assert.Equal(t, Vector{}, NewProjector(origin, 27).Project(origin))
}

func TestProjector_Antimeridian(t *testing.T) {
	proj := NewProjector(geo.Point{Latitude: 0, Longitude: 179.9}, 0)

	east := geo.Point{Latitude: 0, Longitude: -179.9}
	v := proj.Project(east)
	assert.InDelta(t, 0.2*KmPerDegree, v.U, 1e-6, "crossing the antimeridian stays local")

	back := proj.Unproject(v)
	assert.InDelta(t, east.Longitude, back.Longitude, 1e-9)
}
