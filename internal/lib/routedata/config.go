package routedata

import (
	"fmt"

	"github.com/dpup/corridor/internal/config"
	"github.com/dpup/corridor/internal/lib/geo"
)

// FromConfig builds the provider selected by cfg.Source
func FromConfig(cfg config.DatasetConfig) (*Dataset, error) {
	switch cfg.Source {
	case "", "bayarea":
		return BayArea(cfg.HighDefinition)
	case "inline":
		return Inline(cfg.Routes, cfg.PairSets)
	case "shapefile":
		return LoadShapefiles(ShapefileOptions{
			RoutesPath: cfg.Shapefile.RoutesPath,
			PairsPath:  cfg.Shapefile.PairsPath,
			IDField:    cfg.Shapefile.IDField,
			NameField:  cfg.Shapefile.NameField,
			SetField:   cfg.Shapefile.SetField,
		})
	default:
		return nil, fmt.Errorf("unknown dataset source %q", cfg.Source)
	}
}

// Inline builds a dataset from routes and pair sets written out in configuration.
// A route is given either as a Google encoded polyline or as a list of points.
func Inline(routes []config.RouteConfig, sets []config.PairSetConfig) (*Dataset, error) {
	pairSets := make([]PairSet, 0, len(sets))
	for _, s := range sets {
		pairs := make([]geo.Pair, len(s.Pairs))
		for i, p := range s.Pairs {
			pairs[i] = p.Pair()
		}
		pairSets = append(pairSets, PairSet{ID: s.ID, Name: s.Name, Pairs: pairs})
	}

	out := make([]Route, 0, len(routes))
	for _, r := range routes {
		points, err := routePoints(r)
		if err != nil {
			return nil, fmt.Errorf("route %s: %w", r.ID, err)
		}
		out = append(out, Route{
			ID:       r.ID,
			Name:     r.Name,
			Polyline: geo.NewPolyline(geo.Densify(points, r.Densify)),
			PairSet:  r.PairSet,
			MinPairs: r.MinPairs,
		})
	}

	return NewDataset(out, pairSets)
}

func routePoints(r config.RouteConfig) ([]geo.Point, error) {
	switch {
	case r.Polyline != "" && len(r.Points) > 0:
		return nil, fmt.Errorf("set either polyline or points, not both")
	case r.Polyline != "":
		return geo.DecodePolyline(r.Polyline)
	default:
		points := make([]geo.Point, len(r.Points))
		for i, c := range r.Points {
			points[i] = c.Point()
		}
		return points, nil
	}
}
