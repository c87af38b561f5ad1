package corridor

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dpup/corridor/internal/lib/geo"
)

// northbound is a straight path due north from (37, -122) to (38, -122)
var northbound = []geo.Point{
	{Latitude: 37.0, Longitude: -122.0},
	{Latitude: 38.0, Longitude: -122.0},
}

// offsetPairs builds pairs whose endpoints sit at the given cross-axis offsets (km)
// from the northbound path. Destinations sit at half the offset on the other side,
// so each pair's governing distance is |offset|.
func offsetPairs(offsets ...float64) []geo.Pair {
	frame := NewProjector(geo.Point{Latitude: 37.5, Longitude: -122.0}, -90)
	pairs := make([]geo.Pair, len(offsets))
	for i, off := range offsets {
		pairs[i] = geo.Pair{
			Origin:      frame.Unproject(Vector{U: -20, V: off}),
			Destination: frame.Unproject(Vector{U: 15, V: -off / 2}),
		}
	}
	return pairs
}

// randomScenario scatters pairs around a diagonal Bay Area path
func randomScenario(seed int64, n int) ([]geo.Point, []geo.Pair) {
	rng := rand.New(rand.NewSource(seed))
	path := geo.Densify([]geo.Point{
		{Latitude: 37.7749, Longitude: -122.4194},
		{Latitude: 37.5500, Longitude: -122.3040},
		{Latitude: 37.3382, Longitude: -121.8863},
	}, 6)

	jitter := func() geo.Point {
		return geo.Point{
			Latitude:  37.55 + (rng.Float64()-0.5)*0.6,
			Longitude: -122.15 + (rng.Float64()-0.5)*0.7,
		}
	}
	pairs := make([]geo.Pair, n)
	for i := range pairs {
		pairs[i] = geo.Pair{Origin: jitter(), Destination: jitter()}
	}
	return path, pairs
}

func TestSizeCorridor_NorthboundExample(t *testing.T) {
	pairs := offsetPairs(0.1, -0.3, 0.5, -0.7, 0.9)

	c, err := SizeCorridor(northbound, pairs, 3, Options{Method: MethodPercentile})
	require.NoError(t, err)

	assert.Equal(t, -90.0, c.Angle, "due north folds to -90 degrees from east")
	assert.InDelta(t, 0.5, c.HalfCrossKm, 1e-9, "3rd smallest governing distance")
	assert.InDelta(t, 0.5*111.195+1.0, c.HalfAlongKm, 0.01, "half the path span plus the margin")
	assert.InDelta(t, 37.5, c.Center.Latitude, 1e-12)
	assert.InDelta(t, -122.0, c.Center.Longitude, 1e-12)
	assert.Equal(t, MethodPercentile, c.Method)

	kept := FilterPairs(pairs, c, true)
	assert.Equal(t, pairs[:3], kept, "exactly the three closest pairs, boundary pair included")

	// Same result through the corner-only interface
	kept, err = FilterPairsInCorridor(pairs, c.Corners, true)
	require.NoError(t, err)
	assert.Len(t, kept, 3)
}

func TestComputeOrientedCorridor(t *testing.T) {
	pairs := offsetPairs(0.1, -0.3, 0.5, -0.7, 0.9)

	corners, angle, err := ComputeOrientedCorridor(northbound, pairs, 4, MethodPercentile)
	require.NoError(t, err)
	assert.Equal(t, -90.0, angle)

	kept, err := FilterPairsInCorridor(pairs, corners, true)
	require.NoError(t, err)
	assert.Equal(t, pairs[:4], kept)

	// Empty method selects the percentile default
	corners2, _, err := ComputeOrientedCorridor(northbound, pairs, 4, "")
	require.NoError(t, err)
	assert.Equal(t, corners, corners2)
}

func TestSizeCorridor_CornersCounterClockwise(t *testing.T) {
	path, pairs := randomScenario(7, 60)
	c, err := SizeCorridor(path, pairs, 20, Options{})
	require.NoError(t, err)

	flat := NewProjector(c.Center, 0)
	area := 0.0
	for i := range c.Corners {
		a := flat.Project(c.Corners[i])
		b := flat.Project(c.Corners[(i+1)%4])
		area += a.U*b.V - b.U*a.V
	}
	area /= 2

	assert.Greater(t, area, 0.0, "shoelace area is positive for counter-clockwise corners")
	assert.InDelta(t, 4*c.HalfAlongKm*c.HalfCrossKm, area, 1e-6)
}

func TestSizeCorridor_GuaranteeMinimalityMonotonicity(t *testing.T) {
	for _, seed := range []int64{1, 2, 3} {
		path, pairs := randomScenario(seed, 80)

		prevCross, prevCount, sized := 0.0, 0, 0
		for minPairs := 1; minPairs <= len(pairs); minPairs++ {
			c, err := SizeCorridor(path, pairs, minPairs, Options{})
			if errors.Is(err, ErrInsufficientPairs) {
				break
			}
			require.NoError(t, err)
			sized++

			count := len(FilterPairs(pairs, c, true))
			assert.GreaterOrEqual(t, count, minPairs, "guarantee (seed %d, min %d)", seed, minPairs)

			shrunk := c
			shrunk.HalfCrossKm -= 1e-6
			assert.Less(t, len(FilterPairs(pairs, shrunk, true)), minPairs,
				"minimality (seed %d, min %d)", seed, minPairs)

			assert.GreaterOrEqual(t, c.HalfCrossKm, prevCross, "cross extent monotone in min pairs")
			assert.GreaterOrEqual(t, count, prevCount, "filtered count monotone in min pairs")
			prevCross, prevCount = c.HalfCrossKm, count
		}
		assert.Greater(t, sized, 10, "scenario should admit a range of minimums")
	}
}

func TestSizeCorridor_IterativeMatchesPercentile(t *testing.T) {
	path, pairs := randomScenario(11, 120)

	for _, minPairs := range []int{1, 5, 17, 40} {
		pct, err := SizeCorridor(path, pairs, minPairs, Options{Method: MethodPercentile})
		require.NoError(t, err)

		it, err := SizeCorridor(path, pairs, minPairs, Options{Method: MethodIterative})
		require.NoError(t, err)

		assert.Equal(t, MethodIterative, it.Method)
		assert.Equal(t, pct.Angle, it.Angle)
		assert.Equal(t, pct.HalfAlongKm, it.HalfAlongKm)
		assert.GreaterOrEqual(t, it.HalfCrossKm, pct.HalfCrossKm)
		assert.InDelta(t, pct.HalfCrossKm, it.HalfCrossKm, 1e-6)
		assert.GreaterOrEqual(t, len(FilterPairs(pairs, it, true)), minPairs)
	}
}

func TestSizeCorridor_IterationCap(t *testing.T) {
	pairs := offsetPairs(5, 6, 7)

	_, err := SizeCorridor(northbound, pairs, 2, Options{
		Method:         MethodIterative,
		InitialCrossKm: 0.001,
		MaxIterations:  3,
	})
	var insufficient *InsufficientPairsError
	require.ErrorAs(t, err, &insufficient)
	assert.Equal(t, 2, insufficient.Required)
	assert.Equal(t, 0, insufficient.Available)
}

func TestSizeCorridor_ZeroGoverningDistance(t *testing.T) {
	pairs := offsetPairs(0, 0, 0.4)

	c, err := SizeCorridor(northbound, pairs, 2, Options{})
	require.NoError(t, err)
	assert.Equal(t, DefaultOptions().MinHalfExtentKm, c.HalfCrossKm, "on-axis pairs keep the rectangle non-degenerate")
	assert.Len(t, FilterPairs(pairs, c, true), 2)
}

func TestSizeCorridor_SubMetreGoverningDistance(t *testing.T) {
	pairs := offsetPairs(0.0001, 0.0002, 0.0003, 0.5)

	c, err := SizeCorridor(northbound, pairs, 2, Options{})
	require.NoError(t, err)
	assert.InDelta(t, 0.0002, c.HalfCrossKm, 1e-9, "small governing distances are not floored")
	assert.Len(t, FilterPairs(pairs, c, true), 2)

	shrunk := c
	shrunk.HalfCrossKm -= 0.00005
	assert.Len(t, FilterPairs(pairs, shrunk, true), 1, "any smaller extent breaks the guarantee")

	it, err := SizeCorridor(northbound, pairs, 2, Options{Method: MethodIterative})
	require.NoError(t, err)
	assert.InDelta(t, 0.0002, it.HalfCrossKm, 1e-6)
	assert.GreaterOrEqual(t, it.HalfCrossKm, c.HalfCrossKm)
}

func TestSizeCorridor_Antimeridian(t *testing.T) {
	path := []geo.Point{
		{Latitude: 0, Longitude: 179.99},
		{Latitude: 0, Longitude: -179.99},
	}
	across := func(km float64) float64 { return km / KmPerDegree }
	pairs := []geo.Pair{
		{Origin: geo.Point{Latitude: across(0.1), Longitude: 179.995}, Destination: geo.Point{Latitude: -across(0.05), Longitude: -179.995}},
		{Origin: geo.Point{Latitude: -across(0.2), Longitude: 179.995}, Destination: geo.Point{Latitude: across(0.1), Longitude: -179.995}},
		{Origin: geo.Point{Latitude: across(0.3), Longitude: 179.995}, Destination: geo.Point{Latitude: -across(0.15), Longitude: -179.995}},
		// Near Greenwich, half a world away
		{Origin: geo.Point{Latitude: 0, Longitude: 0.001}, Destination: geo.Point{Latitude: 0, Longitude: -0.001}},
	}

	c, err := SizeCorridor(path, pairs, 2, Options{})
	require.NoError(t, err)

	assert.Equal(t, 0.0, c.Angle)
	assert.InDelta(t, 180.0, math.Abs(c.Center.Longitude), 1e-9, "centred on the antimeridian")
	assert.InDelta(t, 0.0, c.Center.Latitude, 1e-12)
	assert.InDelta(t, 0.01*KmPerDegree+1.0, c.HalfAlongKm, 1e-6, "half the path span plus the margin")
	assert.InDelta(t, 0.2, c.HalfCrossKm, 1e-9)

	assert.Equal(t, pairs[:2], FilterPairs(pairs, c, true))

	kept, err := FilterPairsInCorridor(pairs, c.Corners, true)
	require.NoError(t, err)
	assert.Equal(t, pairs[:2], kept)
}

func TestSizeCorridor_Errors(t *testing.T) {
	pairs := offsetPairs(0.1, 0.2, 0.3)

	t.Run("more pairs required than supplied", func(t *testing.T) {
		_, err := SizeCorridor(northbound, pairs, 4, Options{})
		assert.ErrorIs(t, err, ErrInsufficientPairs)

		var insufficient *InsufficientPairsError
		require.True(t, errors.As(err, &insufficient))
		assert.Equal(t, 4, insufficient.Required)
		assert.Equal(t, 3, insufficient.Available)

		_, _, err = ComputeOrientedCorridor(northbound, pairs, 4, MethodIterative)
		assert.ErrorIs(t, err, ErrInsufficientPairs)
	})

	t.Run("pairs beyond the path span", func(t *testing.T) {
		far := geo.Pair{
			Origin:      geo.Point{Latitude: 39.0, Longitude: -122.0},
			Destination: geo.Point{Latitude: 39.1, Longitude: -122.0},
		}
		_, err := SizeCorridor(northbound, append(pairs, far), 4, Options{})

		var insufficient *InsufficientPairsError
		require.ErrorAs(t, err, &insufficient)
		assert.Equal(t, 3, insufficient.Available)
	})

	t.Run("non-positive minimum", func(t *testing.T) {
		_, err := SizeCorridor(northbound, pairs, 0, Options{})
		assert.ErrorIs(t, err, ErrInvalidInput)
		_, err = SizeCorridor(northbound, pairs, -2, Options{})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("short path", func(t *testing.T) {
		_, err := SizeCorridor(northbound[:1], pairs, 1, Options{})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("non-finite pair coordinate", func(t *testing.T) {
		bad := append([]geo.Pair{}, pairs...)
		bad[1].Destination.Longitude = math.NaN()
		_, err := SizeCorridor(northbound, bad, 1, Options{})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("unknown method", func(t *testing.T) {
		_, err := SizeCorridor(northbound, pairs, 1, Options{Method: "bruteforce"})
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("degenerate path", func(t *testing.T) {
		p := northbound[0]
		_, err := SizeCorridor([]geo.Point{p, p, p}, pairs, 1, Options{})
		assert.ErrorIs(t, err, ErrDegenerateRoute)
	})
}

func TestParseMethod(t *testing.T) {
	m, err := ParseMethod("")
	require.NoError(t, err)
	assert.Equal(t, MethodPercentile, m)

	m, err = ParseMethod(" Iterative ")
	require.NoError(t, err)
	assert.Equal(t, MethodIterative, m)

	_, err = ParseMethod("random")
	assert.ErrorIs(t, err, ErrInvalidInput)

	o, err := ParseOrientation("best-fit")
	require.NoError(t, err)
	assert.Equal(t, OrientationBestFit, o)
}
