package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Highway 101 anchor coordinates: San Francisco City Hall and downtown San Jose
var (
	sfCityHall      = Point{Latitude: 37.7749, Longitude: -122.4194}
	downtownSanJose = Point{Latitude: 37.3382, Longitude: -121.8863}
)

func TestPointToPoint(t *testing.T) {
	distance, err := PointToPoint(sfCityHall, downtownSanJose)
	require.NoError(t, err)

	// ~67.6km great-circle distance between SF and San Jose
	assert.InDelta(t, 67600, distance, 500, "Distance should be approximately 67.6km")

	distance, err = PointToPoint(sfCityHall, sfCityHall)
	require.NoError(t, err)
	assert.Equal(t, 0.0, distance, "Distance from point to itself should be 0")

	_, err = PointToPoint(sfCityHall, Point{Latitude: 200, Longitude: -300})
	assert.ErrorIs(t, err, ErrInvalidCoordinate)
}

func TestValidatePoint(t *testing.T) {
	tests := []struct {
		name  string
		point Point
		valid bool
	}{
		{"sf", sfCityHall, true},
		{"north pole", Point{Latitude: 90, Longitude: 0}, true},
		{"antimeridian", Point{Latitude: 0, Longitude: -180}, true},
		{"latitude too large", Point{Latitude: 90.0001, Longitude: 0}, false},
		{"longitude too small", Point{Latitude: 0, Longitude: -180.5}, false},
		{"nan latitude", Point{Latitude: math.NaN(), Longitude: 0}, false},
		{"infinite longitude", Point{Latitude: 0, Longitude: math.Inf(1)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePoint(tt.point)
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidCoordinate)
			}
		})
	}
}

func TestDecodePolyline(t *testing.T) {
	// Reference polyline from Google's encoding documentation
	points, err := DecodePolyline("_p~iF~ps|U_ulLnnqC_mqNvxq`@")
	require.NoError(t, err)
	require.Len(t, points, 3)

	assert.InDelta(t, 38.5, points[0].Latitude, 1e-9)
	assert.InDelta(t, -120.2, points[0].Longitude, 1e-9)
	assert.InDelta(t, 40.7, points[1].Latitude, 1e-9)
	assert.InDelta(t, -120.95, points[1].Longitude, 1e-9)
	assert.InDelta(t, 43.252, points[2].Latitude, 1e-9)
	assert.InDelta(t, -126.453, points[2].Longitude, 1e-9)

	_, err = DecodePolyline("")
	assert.Error(t, err, "Should return error for empty polyline")

	_, err = DecodePolyline("_p~iF~ps|U_")
	assert.Error(t, err, "Should return error for truncated polyline")
}

func TestEncodePolyline(t *testing.T) {
	points := []Point{
		{Latitude: 38.5, Longitude: -120.2},
		{Latitude: 40.7, Longitude: -120.95},
		{Latitude: 43.252, Longitude: -126.453},
	}
	assert.Equal(t, "_p~iF~ps|U_ulLnnqC_mqNvxq`@", EncodePolyline(points))

	pl := NewPolyline(points)
	assert.Equal(t, points, pl.Points)
	assert.Equal(t, "_p~iF~ps|U_ulLnnqC_mqNvxq`@", pl.EncodedPolyline)
}

func TestDensify(t *testing.T) {
	anchors := []Point{
		{Latitude: 37.0, Longitude: -122.0},
		{Latitude: 37.5, Longitude: -122.0},
		{Latitude: 37.5, Longitude: -121.0},
	}

	dense := Densify(anchors, 4)
	require.Len(t, dense, 3+2*4, "Each segment should gain 4 interpolated points")

	// Anchors survive in place
	assert.Equal(t, anchors[0], dense[0])
	assert.Equal(t, anchors[1], dense[5])
	assert.Equal(t, anchors[2], dense[10])

	// Interpolated points are evenly spaced
	assert.InDelta(t, 37.1, dense[1].Latitude, 1e-12)
	assert.InDelta(t, 37.4, dense[4].Latitude, 1e-12)
	assert.InDelta(t, -121.8, dense[6].Longitude, 1e-12)

	// Degenerate inputs are copied unchanged
	assert.Equal(t, anchors, Densify(anchors, 0))
	single := []Point{sfCityHall}
	assert.Equal(t, single, Densify(single, 4))
}

func TestBoundsAndCentroid(t *testing.T) {
	b, err := BoundsOf(sfCityHall, downtownSanJose)
	require.NoError(t, err)
	assert.Equal(t, 37.3382, b.MinLat)
	assert.Equal(t, 37.7749, b.MaxLat)
	assert.Equal(t, -122.4194, b.MinLng)
	assert.Equal(t, -121.8863, b.MaxLng)

	_, err = BoundsOf()
	assert.Error(t, err)

	c := Centroid([]Point{sfCityHall, downtownSanJose})
	assert.InDelta(t, 37.55655, c.Latitude, 1e-9)
	assert.InDelta(t, (b.MinLng+b.MaxLng)/2, c.Longitude, 1e-12)
}

func TestCentroid_Antimeridian(t *testing.T) {
	c := Centroid([]Point{{Latitude: 0, Longitude: 179.99}, {Latitude: 0, Longitude: -179.99}})
	assert.InDelta(t, 180.0, math.Abs(c.Longitude), 1e-9, "midpoint sits on the antimeridian, not at Greenwich")

	c = Centroid([]Point{{Latitude: 10, Longitude: 170}, {Latitude: 20, Longitude: -160}})
	assert.InDelta(t, 15.0, c.Latitude, 1e-12)
	assert.InDelta(t, -175.0, c.Longitude, 1e-9)

	c = Centroid([]Point{{Latitude: 0, Longitude: -170}, {Latitude: 0, Longitude: 160}})
	assert.InDelta(t, 175.0, c.Longitude, 1e-9)
}

func TestPathLength(t *testing.T) {
	direct, err := PointToPoint(sfCityHall, downtownSanJose)
	require.NoError(t, err)

	length, err := PathLength(Densify([]Point{sfCityHall, downtownSanJose}, 10))
	require.NoError(t, err)
	assert.InDelta(t, direct, length, 5, "Straight densified path keeps its length")

	_, err = PathLength([]Point{sfCityHall, {Latitude: 95, Longitude: 0}})
	assert.Error(t, err)
}
