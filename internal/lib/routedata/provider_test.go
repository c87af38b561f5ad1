package routedata

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/jonas-p/go-shp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dpup/corridor/internal/config"
	"github.com/dpup/corridor/internal/lib/geo"
)

func TestBayArea(t *testing.T) {
	ctx := context.Background()
	d, err := BayArea(false)
	require.NoError(t, err)

	routes, err := d.Routes(ctx)
	require.NoError(t, err)
	require.Len(t, routes, 4)

	expectedPoints := map[string]int{
		"sf_to_sj_us101":     14 + 13*BasePointsPerSegment,
		"sf_to_sj_i280":      13 + 12*BasePointsPerSegment,
		"oakland_to_sj_i880": 15 + 14*BasePointsPerSegment,
		"sf_to_sac_i80":      15 + 14*BasePointsPerSegment,
	}
	for _, r := range routes {
		assert.Len(t, r.Polyline.Points, expectedPoints[r.ID], r.ID)
		assert.NotEmpty(t, r.Polyline.EncodedPolyline)
		assert.Positive(t, r.MinPairs)
	}

	expectedPairs := map[string]int{
		"us101_deliveries": 17,
		"i280_deliveries":  10,
		"i80_deliveries":   17,
		"i880_deliveries":  16,
	}
	for id, n := range expectedPairs {
		pairs, err := d.Pairs(ctx, id)
		require.NoError(t, err)
		assert.Len(t, pairs, n, id)
	}

	all, err := d.Pairs(ctx, AllPairs)
	require.NoError(t, err)
	assert.Len(t, all, 60)
	assert.Equal(t, us101Deliveries[0], all[0], "combined set starts with the US-101 deliveries")
}

func TestBayArea_HighDefinition(t *testing.T) {
	d, err := BayArea(true)
	require.NoError(t, err)

	route, err := d.Route(context.Background(), "sf_to_sj_us101_hd")
	require.NoError(t, err)
	assert.Len(t, route.Polyline.Points, 14+13*HDPointsPerSegment)

	assert.Equal(t, us101Anchors[len(us101Anchors)-1], route.Polyline.Points[len(route.Polyline.Points)-1])
}

func TestDataset_Errors(t *testing.T) {
	ctx := context.Background()
	d, err := BayArea(false)
	require.NoError(t, err)

	_, err = d.Route(ctx, "hwy4")
	assert.ErrorIs(t, err, ErrUnknownRoute)

	_, err = d.Pairs(ctx, "hwy4_deliveries")
	assert.ErrorIs(t, err, ErrUnknownPairSet)

	pairs, err := d.Pairs(ctx, "i280_deliveries")
	require.NoError(t, err)
	pairs[0] = geo.Pair{}
	again, _ := d.Pairs(ctx, "i280_deliveries")
	assert.NotEqual(t, geo.Pair{}, again[0], "returned pairs are a copy")

	line := geo.NewPolyline([]geo.Point{{Latitude: 1, Longitude: 1}, {Latitude: 2, Longitude: 2}})

	_, err = NewDataset([]Route{{ID: "a", Polyline: line}, {ID: "a", Polyline: line}}, nil)
	assert.ErrorContains(t, err, "duplicate route")

	_, err = NewDataset([]Route{{ID: "a", Polyline: line, PairSet: "missing"}}, nil)
	assert.ErrorIs(t, err, ErrUnknownPairSet)

	_, err = NewDataset([]Route{{ID: "a", Polyline: geo.Polyline{Points: line.Points[:1]}}}, nil)
	assert.ErrorContains(t, err, "at least 2 points")

	_, err = NewDataset(nil, []PairSet{{ID: AllPairs}})
	assert.ErrorContains(t, err, "reserved")

	_, err = NewDataset(nil, []PairSet{{ID: "bad", Pairs: []geo.Pair{{Origin: geo.Point{Latitude: 91}}}}})
	assert.ErrorIs(t, err, geo.ErrInvalidCoordinate)
}

func TestInline(t *testing.T) {
	ctx := context.Background()
	cfg := config.DatasetConfig{
		Source: "inline",
		Routes: []config.RouteConfig{
			{
				ID:       "encoded",
				Polyline: "_p~iF~ps|U_ulLnnqC_mqNvxq`@",
				PairSet:  "local",
			},
			{
				ID: "points",
				Points: []config.CoordinatesYAML{
					{Latitude: 37.0, Longitude: -122.0},
					{Latitude: 38.0, Longitude: -122.0},
				},
				Densify:  3,
				MinPairs: 1,
			},
		},
		PairSets: []config.PairSetConfig{{
			ID: "local",
			Pairs: []config.PairYAML{{
				Origin:      config.CoordinatesYAML{Latitude: 37.2, Longitude: -122.0},
				Destination: config.CoordinatesYAML{Latitude: 37.8, Longitude: -122.0},
			}},
		}},
	}

	d, err := FromConfig(cfg)
	require.NoError(t, err)

	encoded, err := d.Route(ctx, "encoded")
	require.NoError(t, err)
	assert.Len(t, encoded.Polyline.Points, 3)
	assert.Equal(t, "encoded", encoded.Name, "name defaults to the id")

	points, err := d.Route(ctx, "points")
	require.NoError(t, err)
	assert.Len(t, points.Polyline.Points, 5)

	cfg.Routes[0].Points = cfg.Routes[1].Points
	_, err = FromConfig(cfg)
	assert.ErrorContains(t, err, "not both")

	_, err = FromConfig(config.DatasetConfig{Source: "postgres"})
	assert.Error(t, err)
}

func writePolylines(t *testing.T, path string, fieldNames []string, lines [][]geo.Point, attrs [][]string) {
	t.Helper()

	w, err := shp.Create(path, shp.POLYLINE)
	require.NoError(t, err)

	fields := make([]shp.Field, len(fieldNames))
	for i, name := range fieldNames {
		fields[i] = shp.StringField(name, 40)
	}
	w.SetFields(fields)

	for i, line := range lines {
		pts := make([]shp.Point, len(line))
		for j, p := range line {
			pts[j] = shp.Point{X: p.Longitude, Y: p.Latitude}
		}
		row := w.Write(shp.NewPolyLine([][]shp.Point{pts}))
		for f, value := range attrs[i] {
			w.WriteAttribute(int(row), f, value)
		}
	}
	w.Close()
}

func TestLoadShapefiles(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	routesPath := filepath.Join(dir, "routes.shp")
	pairsPath := filepath.Join(dir, "pairs.shp")

	writePolylines(t, routesPath, []string{"ID", "NAME"},
		[][]geo.Point{us101Anchors, i880Anchors},
		[][]string{{"us101", "US-101"}, {"i880", "I-880"}})

	writePolylines(t, pairsPath, []string{"SET"},
		[][]geo.Point{
			{us101Deliveries[0].Origin, {Latitude: 37.7, Longitude: -122.4}, us101Deliveries[0].Destination},
			{us101Deliveries[1].Origin, us101Deliveries[1].Destination},
			{i880Deliveries[0].Origin, i880Deliveries[0].Destination},
		},
		[][]string{{"us101"}, {"us101"}, {"i880"}})

	d, err := LoadShapefiles(ShapefileOptions{
		RoutesPath: routesPath,
		PairsPath:  pairsPath,
		IDField:    "id",
		NameField:  "name",
		SetField:   "set",
	})
	require.NoError(t, err)

	route, err := d.Route(ctx, "us101")
	require.NoError(t, err)
	assert.Equal(t, "US-101", route.Name)
	assert.Equal(t, "us101", route.PairSet)
	require.Len(t, route.Polyline.Points, len(us101Anchors))
	assert.InDelta(t, us101Anchors[3].Latitude, route.Polyline.Points[3].Latitude, 1e-9)
	assert.InDelta(t, us101Anchors[3].Longitude, route.Polyline.Points[3].Longitude, 1e-9)

	pairs, err := d.Pairs(ctx, "us101")
	require.NoError(t, err)
	require.Len(t, pairs, 2)
	assert.InDelta(t, us101Deliveries[0].Destination.Latitude, pairs[0].Destination.Latitude, 1e-9)

	_, err = LoadShapefiles(ShapefileOptions{RoutesPath: routesPath})
	assert.Error(t, err)
}

func TestLoadShapefiles_SkipsProjectedGeometry(t *testing.T) {
	dir := t.TempDir()
	routesPath := filepath.Join(dir, "routes.shp")
	pairsPath := filepath.Join(dir, "pairs.shp")

	// UTM zone 10 metres, not degrees
	utm := []geo.Point{
		{Latitude: 4182000, Longitude: 551000},
		{Latitude: 4134000, Longitude: 596000},
	}
	writePolylines(t, routesPath, []string{"ID", "NAME"},
		[][]geo.Point{us101Anchors, utm},
		[][]string{{"us101", "US-101"}, {"utm", "Projected"}})
	writePolylines(t, pairsPath, []string{"SET"},
		[][]geo.Point{
			{us101Deliveries[0].Origin, us101Deliveries[0].Destination},
			utm,
		},
		[][]string{{"us101"}, {"us101"}})

	d, err := LoadShapefiles(ShapefileOptions{
		RoutesPath: routesPath,
		PairsPath:  pairsPath,
		IDField:    "ID",
		NameField:  "NAME",
		SetField:   "SET",
	})
	require.NoError(t, err)

	routes, err := d.Routes(context.Background())
	require.NoError(t, err)
	require.Len(t, routes, 1)
	assert.Equal(t, "us101", routes[0].ID)

	pairs, err := d.Pairs(context.Background(), "us101")
	require.NoError(t, err)
	assert.Equal(t, []geo.Pair{us101Deliveries[0]}, pairs)
}

func TestFromConfig_ExampleFile(t *testing.T) {
	cfg, err := config.Load(filepath.Join("..", "..", "..", "corridor.example.yaml"), nil)
	require.NoError(t, err)
	require.Equal(t, "inline", cfg.Dataset.Source)

	dataset, err := FromConfig(cfg.Dataset)
	require.NoError(t, err)

	route, err := dataset.Route(context.Background(), "hwy4_angels_murphys")
	require.NoError(t, err)
	assert.Equal(t, "hwy4_trips", route.PairSet)
	assert.Len(t, route.Polyline.Points, 2*4+3)

	pairs, err := dataset.Pairs(context.Background(), route.PairSet)
	require.NoError(t, err)
	assert.Len(t, pairs, 3)
}
