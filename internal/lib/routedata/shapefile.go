package routedata

import (
	"fmt"
	"strings"

	"github.com/jonas-p/go-shp"
	"go.uber.org/zap"

	"github.com/dpup/corridor/internal/lib/geo"
)

// ShapefileOptions locates polyline shapefiles (WGS84, X = longitude). Each route
// record becomes a route; each pair record becomes a pair from its first to its
// last vertex.
type ShapefileOptions struct {
	RoutesPath string
	PairsPath  string
	IDField    string
	NameField  string
	// SetField names the attribute grouping pair records into sets. Records
	// without it land in the "shapefile" set.
	SetField string
}

const defaultShapefileSet = "shapefile"

type shapeRecord struct {
	attrs  map[string]string
	points []geo.Point
}

// LoadShapefiles reads routes and pairs into a Dataset
func LoadShapefiles(opts ShapefileOptions) (*Dataset, error) {
	if opts.RoutesPath == "" || opts.PairsPath == "" {
		return nil, fmt.Errorf("shapefile dataset needs both routes_path and pairs_path")
	}

	routeRecords, err := readPolylines(opts.RoutesPath)
	if err != nil {
		return nil, err
	}
	pairRecords, err := readPolylines(opts.PairsPath)
	if err != nil {
		return nil, err
	}

	var sets []PairSet
	setIndex := map[string]int{}
	for _, rec := range pairRecords {
		setID := attr(rec.attrs, opts.SetField)
		if setID == "" {
			setID = defaultShapefileSet
		}
		idx, ok := setIndex[setID]
		if !ok {
			idx = len(sets)
			setIndex[setID] = idx
			sets = append(sets, PairSet{ID: setID, Name: setID})
		}
		sets[idx].Pairs = append(sets[idx].Pairs, geo.Pair{
			Origin:      rec.points[0],
			Destination: rec.points[len(rec.points)-1],
		})
	}

	routes := make([]Route, 0, len(routeRecords))
	for i, rec := range routeRecords {
		id := attr(rec.attrs, opts.IDField)
		if id == "" {
			id = fmt.Sprintf("route_%d", i+1)
		}
		route := Route{
			ID:       id,
			Name:     attr(rec.attrs, opts.NameField),
			Polyline: geo.NewPolyline(rec.points),
		}
		if _, ok := setIndex[id]; ok {
			route.PairSet = id
		} else if len(sets) > 0 {
			route.PairSet = AllPairs
		}
		routes = append(routes, route)
	}

	return NewDataset(routes, sets)
}

// readPolylines returns every PolyLine record with its attributes keyed by
// lower-cased field name. Parts are joined in order.
func readPolylines(path string) ([]shapeRecord, error) {
	reader, err := shp.Open(path)
	if err != nil {
		return nil, fmt.Errorf("routedata: open shapefile %s: %w", path, err)
	}
	defer func() { _ = reader.Close() }()

	fields := reader.Fields()
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = strings.ToLower(strings.TrimRight(f.String(), "\x00"))
	}

	var records []shapeRecord
	var skipped int
	for reader.Next() {
		_, shape := reader.Shape()
		line, ok := shape.(*shp.PolyLine)
		if !ok || line == nil || len(line.Points) < 2 {
			skipped++
			continue
		}

		rec := shapeRecord{attrs: make(map[string]string, len(names))}
		for i, name := range names {
			rec.attrs[name] = strings.TrimSpace(strings.TrimRight(reader.Attribute(i), "\x00"))
		}
		points, err := wgs84Points(line.Points)
		if err != nil {
			// Projected (non-degree) coordinates or corrupt geometry
			zap.L().Debug("routedata: invalid shapefile geometry",
				zap.String("path", path),
				zap.Error(err),
			)
			skipped++
			continue
		}
		rec.points = points
		records = append(records, rec)
	}

	if skipped > 0 {
		zap.L().Debug("routedata: skipped shapefile records",
			zap.String("path", path),
			zap.Int("skipped", skipped),
		)
	}

	return records, nil
}

// wgs84Points converts shapefile vertices (X = longitude) into validated points
func wgs84Points(vertices []shp.Point) ([]geo.Point, error) {
	points := make([]geo.Point, len(vertices))
	for i, v := range vertices {
		p, err := geo.NewPoint(v.Y, v.X)
		if err != nil {
			return nil, fmt.Errorf("vertex %d: %w", i, err)
		}
		points[i] = p
	}
	return points, nil
}

func attr(attrs map[string]string, field string) string {
	if field == "" {
		return ""
	}
	return attrs[strings.ToLower(field)]
}
