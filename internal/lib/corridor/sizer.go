package corridor

import (
	"math"
	"sort"

	"github.com/dpup/corridor/internal/lib/geo"
)

// boundaryToleranceKm absorbs rounding when a corridor is rebuilt from its corners.
// Points within one micrometre of an edge count as inside.
const boundaryToleranceKm = 1e-9

// SizeCorridor builds the smallest path-aligned corridor that fully contains at least
// minPairs pairs. The along-axis half-extent follows the path span plus a margin; the
// cross-axis half-extent is searched with opts.Method.
func SizeCorridor(path []geo.Point, pairs []geo.Pair, minPairs int, opts Options) (Corridor, error) {
	opts = opts.withDefaults()

	if err := validatePath(path); err != nil {
		return Corridor{}, err
	}
	if err := validatePairs(pairs); err != nil {
		return Corridor{}, err
	}
	if minPairs <= 0 {
		return Corridor{}, invalidInput("min pairs must be positive, got %d", minPairs)
	}
	if opts.Method != MethodPercentile && opts.Method != MethodIterative {
		return Corridor{}, invalidInput("unknown sizing method %q", opts.Method)
	}
	if minPairs > len(pairs) {
		return Corridor{}, &InsufficientPairsError{
			Required:  minPairs,
			Available: len(pairs),
			Reason:    "fewer pairs supplied than required",
		}
	}

	angle, err := EstimateHeading(path, opts.Orientation)
	if err != nil {
		return Corridor{}, err
	}

	center := pathCenter(path, angle)
	if err := validateFrameOrigin(center); err != nil {
		return Corridor{}, err
	}
	proj := NewProjector(center, angle)

	halfAlong := 0.0
	for _, v := range proj.ProjectAll(path) {
		halfAlong = math.Max(halfAlong, math.Abs(v.U))
	}
	halfAlong = math.Max(halfAlong+opts.AlongMarginKm, opts.MinHalfExtentKm)

	governing := reachableGoverning(proj.projectPairs(pairs, opts.ParallelThreshold), halfAlong)
	if len(governing) < minPairs {
		return Corridor{}, &InsufficientPairsError{
			Required:  minPairs,
			Available: len(governing),
			Reason:    "remaining pairs extend beyond the path's along-axis span",
		}
	}
	sort.Float64s(governing)

	var halfCross float64
	switch opts.Method {
	case MethodIterative:
		halfCross, err = iterativeCrossExtent(governing, minPairs, opts)
		if err != nil {
			return Corridor{}, err
		}
	default:
		halfCross = percentileCrossExtent(governing, minPairs)
	}
	if halfCross <= boundaryToleranceKm {
		// Pairs on the axis itself; keep the rectangle non-degenerate
		halfCross = opts.MinHalfExtentKm
	}

	c := newCorridor(proj, halfAlong, halfCross)
	c.Method = opts.Method
	return c, nil
}

// pathCenter returns the midpoint of the path's along and cross ranges in a frame
// rotated to angle. The corridor frame is re-centered here so that sizing and
// membership testing share a single origin.
func pathCenter(path []geo.Point, angle float64) geo.Point {
	provisional := NewProjector(geo.Centroid(path), angle)
	vs := provisional.ProjectAll(path)

	minU, maxU := vs[0].U, vs[0].U
	minV, maxV := vs[0].V, vs[0].V
	for _, v := range vs[1:] {
		minU, maxU = math.Min(minU, v.U), math.Max(maxU, v.U)
		minV, maxV = math.Min(minV, v.V), math.Max(maxV, v.V)
	}

	return provisional.Unproject(Vector{U: (minU + maxU) / 2, V: (minV + maxV) / 2})
}

// reachableGoverning returns max(|V_origin|, |V_destination|) for every pair whose
// endpoints both lie within the along-axis half-extent. Other pairs can never be
// contained, whatever the cross extent.
func reachableGoverning(projected [][2]Vector, halfAlong float64) []float64 {
	governing := make([]float64, 0, len(projected))
	for _, ends := range projected {
		if math.Abs(ends[0].U) > halfAlong || math.Abs(ends[1].U) > halfAlong {
			continue
		}
		governing = append(governing, math.Max(math.Abs(ends[0].V), math.Abs(ends[1].V)))
	}
	return governing
}

// percentileCrossExtent picks the minPairs-th smallest governing distance.
// sorted must be ascending and hold at least minPairs values.
func percentileCrossExtent(sorted []float64, minPairs int) float64 {
	return sorted[minPairs-1]
}

// countWithin counts ascending governing values that are <= extent
func countWithin(sorted []float64, extent float64) int {
	return sort.Search(len(sorted), func(i int) bool { return sorted[i] > extent })
}

// iterativeCrossExtent doubles a trial extent until enough pairs fit, then bisects
// between the last failing and first passing extents. The result never undercuts the
// percentile extent and converges to it as RefineSteps grows.
func iterativeCrossExtent(sorted []float64, minPairs int, opts Options) (float64, error) {
	lo, hi := 0.0, opts.InitialCrossKm
	if countWithin(sorted, lo) >= minPairs {
		return lo, nil
	}

	for i := 0; countWithin(sorted, hi) < minPairs; i++ {
		if i >= opts.MaxIterations {
			return 0, &InsufficientPairsError{
				Required:  minPairs,
				Available: countWithin(sorted, hi),
				Reason:    "iteration cap reached while growing the cross-axis extent",
			}
		}
		lo, hi = hi, hi*2
	}

	for step := 0; step < opts.RefineSteps; step++ {
		mid := (lo + hi) / 2
		if countWithin(sorted, mid) >= minPairs {
			hi = mid
		} else {
			lo = mid
		}
	}

	return hi, nil
}

// newCorridor rotates the (±along, ±cross) corners back into lat/lng
func newCorridor(proj Projector, halfAlong, halfCross float64) Corridor {
	return Corridor{
		Angle:       proj.Angle(),
		Center:      proj.Origin(),
		HalfAlongKm: halfAlong,
		HalfCrossKm: halfCross,
		Corners: [4]geo.Point{
			proj.Unproject(Vector{U: -halfAlong, V: -halfCross}),
			proj.Unproject(Vector{U: halfAlong, V: -halfCross}),
			proj.Unproject(Vector{U: halfAlong, V: halfCross}),
			proj.Unproject(Vector{U: -halfAlong, V: halfCross}),
		},
	}
}
