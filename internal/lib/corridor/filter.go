package corridor

import (
	"math"

	"github.com/dpup/corridor/internal/lib/geo"
)

// Contains reports whether p lies inside the corridor, edges included
func (c Corridor) Contains(p geo.Point) bool {
	return c.containsVector(c.Projector().Project(p))
}

// containsPair applies the membership predicate to both endpoints. With requireBoth
// the pair needs both endpoints inside; otherwise one is enough.
func (c Corridor) containsPair(proj Projector, pair geo.Pair, requireBoth bool) bool {
	origin := c.containsVector(proj.Project(pair.Origin))
	if requireBoth && !origin {
		return false
	}
	if !requireBoth && origin {
		return true
	}
	return c.containsVector(proj.Project(pair.Destination))
}

func (c Corridor) containsVector(v Vector) bool {
	return math.Abs(v.U) <= c.HalfAlongKm+boundaryToleranceKm &&
		math.Abs(v.V) <= c.HalfCrossKm+boundaryToleranceKm
}

// Split partitions pairs against the corridor. Both halves keep input order and the
// input slice is not modified.
func Split(pairs []geo.Pair, c Corridor, requireBoth bool) Partition {
	return SplitIndices(pairs, nil, c, requireBoth, DefaultParallelThreshold)
}

// SplitIndices is Split restricted to the candidate indices (ascending). Pairs not
// listed are rejected without testing. A nil candidates slice tests every pair.
// Containment fans out once the tested count reaches parallelThreshold; zero
// selects DefaultParallelThreshold and a negative value keeps it sequential.
func SplitIndices(pairs []geo.Pair, candidates []int, c Corridor, requireBoth bool, parallelThreshold int) Partition {
	if parallelThreshold == 0 {
		parallelThreshold = DefaultParallelThreshold
	}
	proj := c.Projector()

	keep := make([]bool, len(pairs))
	if candidates == nil {
		parallelFor(len(pairs), parallelThreshold, func(lo, hi int) {
			for i := lo; i < hi; i++ {
				keep[i] = c.containsPair(proj, pairs[i], requireBoth)
			}
		})
	} else {
		parallelFor(len(candidates), parallelThreshold, func(lo, hi int) {
			for _, idx := range candidates[lo:hi] {
				keep[idx] = c.containsPair(proj, pairs[idx], requireBoth)
			}
		})
	}

	// Reassemble in index order
	part := Partition{
		Kept:        []geo.Pair{},
		Rejected:    []geo.Pair{},
		KeptIndices: []int{},
	}
	for i, pair := range pairs {
		if keep[i] {
			part.Kept = append(part.Kept, pair)
			part.KeptIndices = append(part.KeptIndices, i)
		} else {
			part.Rejected = append(part.Rejected, pair)
		}
	}
	return part
}

// FilterPairs returns the pairs inside the corridor in input order
func FilterPairs(pairs []geo.Pair, c Corridor, requireBoth bool) []geo.Pair {
	return Split(pairs, c, requireBoth).Kept
}

// cornerToleranceKm is how far a supplied corner may sit from the rectangle
// implied by the others
const cornerToleranceKm = 1e-6

// CorridorFromCorners rebuilds a corridor from four counter-clockwise corners, the
// first edge running along the corridor axis. Corners produced by SizeCorridor
// round-trip to the same frame and extents.
func CorridorFromCorners(corners [4]geo.Point) (Corridor, error) {
	for i, p := range corners {
		if err := geo.ValidatePoint(p); err != nil {
			return Corridor{}, invalidInput("corner %d: %v", i, err)
		}
	}

	// The lat/lng mapping is affine, so the corner mean is the rectangle center
	center := geo.Centroid(corners[:])
	if err := validateFrameOrigin(center); err != nil {
		return Corridor{}, err
	}

	flat := NewProjector(center, 0)
	a, b := flat.Project(corners[0]), flat.Project(corners[1])
	if a == b {
		return Corridor{}, invalidInput("corners 0 and 1 coincide")
	}
	angle := normalizeAngle(math.Atan2(b.V-a.V, b.U-a.U) * 180 / math.Pi)

	proj := NewProjector(center, angle)
	var halfAlong, halfCross float64
	vs := make([]Vector, 4)
	for i, p := range corners {
		vs[i] = proj.Project(p)
		halfAlong += math.Abs(vs[i].U) / 4
		halfCross += math.Abs(vs[i].V) / 4
	}

	if halfAlong <= 0 || halfCross <= 0 {
		return Corridor{}, invalidInput("corners describe a degenerate rectangle")
	}
	quadrants := map[[2]bool]bool{}
	for i, v := range vs {
		quadrants[[2]bool{v.U > 0, v.V > 0}] = true
		if math.Abs(math.Abs(v.U)-halfAlong) > cornerToleranceKm ||
			math.Abs(math.Abs(v.V)-halfCross) > cornerToleranceKm {
			return Corridor{}, invalidInput("corner %d does not lie on the rectangle", i)
		}
	}
	if len(quadrants) != 4 {
		return Corridor{}, invalidInput("corners do not span the rectangle")
	}

	return Corridor{
		Angle:       angle,
		Center:      center,
		HalfAlongKm: halfAlong,
		HalfCrossKm: halfCross,
		Corners:     corners,
	}, nil
}
