// Package spatial holds an R-tree over pair bounding boxes, used to cut a large
// pair set down to the pairs whose bounds touch a corridor before the exact test.
package spatial

import (
	"errors"
	"fmt"
	"sort"

	"github.com/dhconnelly/rtreego"

	"github.com/dpup/corridor/internal/lib/corridor"
	"github.com/dpup/corridor/internal/lib/geo"
)

const (
	minBranch = 25
	maxBranch = 50

	// rtreego rejects zero-length rectangle sides; a pair with equal latitudes or
	// longitudes still needs a box. Also pads corridor bounds against the
	// containment tolerance.
	padDegrees = 1e-9
)

// entry adapts one pair to rtreego.Spatial
type entry struct {
	idx  int
	rect rtreego.Rect
}

func (e *entry) Bounds() rtreego.Rect {
	return e.rect
}

// PairIndex indexes a fixed pair set by the lat/lng box around both endpoints
type PairIndex struct {
	pairs []geo.Pair
	tree  *rtreego.Rtree
}

// NewPairIndex builds the index. Pairs are validated since the tree cannot hold
// non-finite coordinates.
func NewPairIndex(pairs []geo.Pair) (*PairIndex, error) {
	tree := rtreego.NewTree(2, minBranch, maxBranch)
	for i, pair := range pairs {
		if err := errors.Join(geo.ValidatePoint(pair.Origin), geo.ValidatePoint(pair.Destination)); err != nil {
			return nil, fmt.Errorf("pair %d: %w", i, err)
		}
		b, _ := geo.BoundsOf(pair.Origin, pair.Destination)
		rect, err := boundsRect(b)
		if err != nil {
			return nil, fmt.Errorf("pair %d: %w", i, err)
		}
		tree.Insert(&entry{idx: i, rect: rect})
	}
	return &PairIndex{pairs: pairs, tree: tree}, nil
}

// Len returns the number of indexed pairs
func (ix *PairIndex) Len() int {
	return len(ix.pairs)
}

// Candidates returns, ascending, the indices of pairs whose box intersects b
func (ix *PairIndex) Candidates(b geo.Bounds) []int {
	rect, err := boundsRect(b)
	if err != nil {
		return nil
	}

	hits := ix.tree.SearchIntersect(rect)
	out := make([]int, 0, len(hits))
	for _, hit := range hits {
		out = append(out, hit.(*entry).idx)
	}
	sort.Ints(out)
	return out
}

// Split partitions the indexed pairs against c. The result is identical to
// corridor.Split over the same pairs; only the candidate set is narrowed first.
// parallelThreshold is passed through to corridor.SplitIndices.
func (ix *PairIndex) Split(c corridor.Corridor, requireBoth bool, parallelThreshold int) corridor.Partition {
	b := c.Bounds()
	if b.MaxLng-b.MinLng > 180 {
		// Corners straddle the antimeridian so the lat/lng box is meaningless
		return corridor.SplitIndices(ix.pairs, nil, c, requireBoth, parallelThreshold)
	}
	return corridor.SplitIndices(ix.pairs, ix.Candidates(b), c, requireBoth, parallelThreshold)
}

// boundsRect maps lat/lng bounds to a (lng, lat) rectangle
func boundsRect(b geo.Bounds) (rtreego.Rect, error) {
	return rtreego.NewRect(
		rtreego.Point{b.MinLng - padDegrees, b.MinLat - padDegrees},
		[]float64{b.MaxLng - b.MinLng + 2*padDegrees, b.MaxLat - b.MinLat + 2*padDegrees},
	)
}
