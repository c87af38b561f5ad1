// Package routedata supplies reference paths and origin/destination pair sets to
// the corridor service.
package routedata

import (
	"context"
	"errors"
	"fmt"

	"github.com/dpup/corridor/internal/lib/geo"
)

// AllPairs is the pair set id that combines every pair set of a provider
const AllPairs = "all"

var (
	// ErrUnknownRoute is returned for a route id the provider does not hold
	ErrUnknownRoute = errors.New("unknown route")

	// ErrUnknownPairSet is returned for a pair set id the provider does not hold
	ErrUnknownPairSet = errors.New("unknown pair set")
)

// Route is a named reference path
type Route struct {
	ID       string       `json:"id" yaml:"id"`
	Name     string       `json:"name" yaml:"name"`
	Polyline geo.Polyline `json:"polyline" yaml:"-"`
	// PairSet is the pair set evaluated against this route when a request names none
	PairSet string `json:"pair_set" yaml:"pair_set"`
	// MinPairs is the default guarantee for this route
	MinPairs int `json:"min_pairs" yaml:"min_pairs"`
}

// PairSet is a named list of origin/destination pairs
type PairSet struct {
	ID    string     `json:"id" yaml:"id"`
	Name  string     `json:"name" yaml:"name"`
	Pairs []geo.Pair `json:"pairs" yaml:"-"`
}

// Provider is a read-only source of routes and pairs. Implementations must be
// safe for concurrent use.
type Provider interface {
	Routes(ctx context.Context) ([]Route, error)
	Route(ctx context.Context, id string) (Route, error)
	PairSets(ctx context.Context) ([]PairSet, error)
	// Pairs returns the named pair set; AllPairs concatenates every set in listing order
	Pairs(ctx context.Context, setID string) ([]geo.Pair, error)
}

// Dataset is an immutable in-memory Provider
type Dataset struct {
	routes   map[string]Route
	pairSets map[string]PairSet
	routeIDs []string
	setIDs   []string
}

// NewDataset validates routes and pair sets and indexes them by id. Route order
// and pair set order are preserved for listing.
func NewDataset(routes []Route, sets []PairSet) (*Dataset, error) {
	d := &Dataset{
		routes:   make(map[string]Route, len(routes)),
		pairSets: make(map[string]PairSet, len(sets)),
	}

	for _, set := range sets {
		if set.ID == "" || set.ID == AllPairs {
			return nil, fmt.Errorf("pair set id %q is reserved or empty", set.ID)
		}
		if _, dup := d.pairSets[set.ID]; dup {
			return nil, fmt.Errorf("duplicate pair set %q", set.ID)
		}
		for i, pair := range set.Pairs {
			if err := errors.Join(geo.ValidatePoint(pair.Origin), geo.ValidatePoint(pair.Destination)); err != nil {
				return nil, fmt.Errorf("pair set %s, pair %d: %w", set.ID, i, err)
			}
		}
		d.pairSets[set.ID] = set
		d.setIDs = append(d.setIDs, set.ID)
	}

	for _, route := range routes {
		if route.ID == "" {
			return nil, errors.New("route id is empty")
		}
		if _, dup := d.routes[route.ID]; dup {
			return nil, fmt.Errorf("duplicate route %q", route.ID)
		}
		if len(route.Polyline.Points) < 2 {
			return nil, fmt.Errorf("route %s: need at least 2 points, got %d", route.ID, len(route.Polyline.Points))
		}
		for i, p := range route.Polyline.Points {
			if err := geo.ValidatePoint(p); err != nil {
				return nil, fmt.Errorf("route %s, point %d: %w", route.ID, i, err)
			}
		}
		if route.PairSet != "" && route.PairSet != AllPairs {
			if _, ok := d.pairSets[route.PairSet]; !ok {
				return nil, fmt.Errorf("route %s: %w %q", route.ID, ErrUnknownPairSet, route.PairSet)
			}
		}
		if route.Name == "" {
			route.Name = route.ID
		}
		if route.Polyline.EncodedPolyline == "" {
			route.Polyline = geo.NewPolyline(route.Polyline.Points)
		}
		d.routes[route.ID] = route
		d.routeIDs = append(d.routeIDs, route.ID)
	}

	return d, nil
}

func (d *Dataset) Routes(ctx context.Context) ([]Route, error) {
	out := make([]Route, 0, len(d.routeIDs))
	for _, id := range d.routeIDs {
		out = append(out, d.routes[id])
	}
	return out, nil
}

func (d *Dataset) Route(ctx context.Context, id string) (Route, error) {
	route, ok := d.routes[id]
	if !ok {
		return Route{}, fmt.Errorf("%w: %q", ErrUnknownRoute, id)
	}
	return route, nil
}

func (d *Dataset) PairSets(ctx context.Context) ([]PairSet, error) {
	out := make([]PairSet, 0, len(d.setIDs))
	for _, id := range d.setIDs {
		out = append(out, d.pairSets[id])
	}
	return out, nil
}

func (d *Dataset) Pairs(ctx context.Context, setID string) ([]geo.Pair, error) {
	if setID == AllPairs {
		var all []geo.Pair
		for _, id := range d.setIDs {
			all = append(all, d.pairSets[id].Pairs...)
		}
		return all, nil
	}

	set, ok := d.pairSets[setID]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownPairSet, setID)
	}
	// Callers must not be able to mutate the dataset
	return append([]geo.Pair(nil), set.Pairs...), nil
}
