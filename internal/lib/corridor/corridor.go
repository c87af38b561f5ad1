// Package corridor selects origin/destination pairs that fall inside a rectangle
// aligned with a reference path, sized so that at least a requested number of pairs
// are fully contained.
package corridor

import (
	"github.com/dpup/corridor/internal/lib/geo"
)

// ComputeOrientedCorridor sizes a path-aligned corridor that contains at least
// minPairs pairs and returns its counter-clockwise corners and heading in degrees
// from east.
func ComputeOrientedCorridor(path []geo.Point, pairs []geo.Pair, minPairs int, method Method) ([4]geo.Point, float64, error) {
	opts := DefaultOptions()
	opts.Method = method
	if method == "" {
		opts.Method = MethodPercentile
	}

	c, err := SizeCorridor(path, pairs, minPairs, opts)
	if err != nil {
		return [4]geo.Point{}, 0, err
	}
	return c.Corners, c.Angle, nil
}

// FilterPairsInCorridor keeps the pairs inside the rectangle described by corners,
// in input order. It fails only when the corners do not form a rectangle.
func FilterPairsInCorridor(pairs []geo.Pair, corners [4]geo.Point, requireBoth bool) ([]geo.Pair, error) {
	c, err := CorridorFromCorners(corners)
	if err != nil {
		return nil, err
	}
	return FilterPairs(pairs, c, requireBoth), nil
}
