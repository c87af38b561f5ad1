package corridor

import (
	"fmt"
	"strings"

	"github.com/dpup/corridor/internal/lib/geo"
)

// Method selects how the cross-axis half-extent is sized
type Method string

const (
	MethodPercentile Method = "percentile" // rank per-pair governing distances, one pass
	MethodIterative  Method = "iterative"  // grow-and-recount, then bisect
)

// ParseMethod maps a user supplied name to a Method. Empty selects the percentile method.
func ParseMethod(s string) (Method, error) {
	switch Method(strings.ToLower(strings.TrimSpace(s))) {
	case "", MethodPercentile:
		return MethodPercentile, nil
	case MethodIterative:
		return MethodIterative, nil
	default:
		return "", invalidInput("unknown sizing method %q", s)
	}
}

// OrientationMethod selects how the path heading is estimated
type OrientationMethod string

const (
	// OrientationEndpoints uses the first-to-last displacement, falling back to the
	// best-fit line for closed loops
	OrientationEndpoints OrientationMethod = "endpoints"
	// OrientationBestFit uses the principal axis of every path point
	OrientationBestFit OrientationMethod = "best_fit"
)

// ParseOrientation maps a user supplied name to an OrientationMethod
func ParseOrientation(s string) (OrientationMethod, error) {
	switch OrientationMethod(strings.ToLower(strings.TrimSpace(s))) {
	case "", OrientationEndpoints:
		return OrientationEndpoints, nil
	case OrientationBestFit, "bestfit", "best-fit":
		return OrientationBestFit, nil
	default:
		return "", invalidInput("unknown orientation method %q", s)
	}
}

// Options tunes corridor sizing. Zero values are replaced by DefaultOptions.
type Options struct {
	Method            Method            `json:"method" yaml:"method"`
	Orientation       OrientationMethod `json:"orientation" yaml:"orientation"`
	AlongMarginKm     float64           `json:"along_margin_km" yaml:"along_margin_km"`
	MinHalfExtentKm   float64           `json:"min_half_extent_km" yaml:"min_half_extent_km"`
	InitialCrossKm    float64           `json:"initial_cross_km" yaml:"initial_cross_km"`
	MaxIterations     int               `json:"max_iterations" yaml:"max_iterations"`
	RefineSteps       int               `json:"refine_steps" yaml:"refine_steps"`
	ParallelThreshold int               `json:"parallel_threshold" yaml:"parallel_threshold"`
}

// DefaultParallelThreshold is the pair count above which projection and containment fan out
const DefaultParallelThreshold = 2048

// DefaultOptions returns the sizing defaults
func DefaultOptions() Options {
	return Options{
		Method:            MethodPercentile,
		Orientation:       OrientationEndpoints,
		AlongMarginKm:     1.0,
		MinHalfExtentKm:   0.001,
		InitialCrossKm:    0.1,
		MaxIterations:     64,
		RefineSteps:       40,
		ParallelThreshold: DefaultParallelThreshold,
	}
}

// withDefaults fills unset fields. A negative AlongMarginKm is kept as an explicit zero margin.
func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Method == "" {
		o.Method = d.Method
	}
	if o.Orientation == "" {
		o.Orientation = d.Orientation
	}
	if o.AlongMarginKm == 0 {
		o.AlongMarginKm = d.AlongMarginKm
	} else if o.AlongMarginKm < 0 {
		o.AlongMarginKm = 0
	}
	if o.MinHalfExtentKm <= 0 {
		o.MinHalfExtentKm = d.MinHalfExtentKm
	}
	if o.InitialCrossKm <= 0 {
		o.InitialCrossKm = d.InitialCrossKm
	}
	if o.MaxIterations <= 0 {
		o.MaxIterations = d.MaxIterations
	}
	if o.RefineSteps <= 0 {
		o.RefineSteps = d.RefineSteps
	}
	if o.ParallelThreshold == 0 {
		o.ParallelThreshold = d.ParallelThreshold
	}
	return o
}

// Corridor is an oriented rectangle. Corners are counter-clockwise, starting at the
// (-along, -cross) corner. Half extents are kilometres in the corridor frame.
type Corridor struct {
	Angle       float64      `json:"angle"`
	Center      geo.Point    `json:"center"`
	HalfAlongKm float64      `json:"half_along_km"`
	HalfCrossKm float64      `json:"half_cross_km"`
	Corners     [4]geo.Point `json:"corners"`
	Method      Method       `json:"method,omitempty"`
}

// String summarizes the corridor for logs
func (c Corridor) String() string {
	return fmt.Sprintf("corridor(angle=%.1f° center=%s along=±%.3fkm cross=±%.3fkm)",
		c.Angle, c.Center, c.HalfAlongKm, c.HalfCrossKm)
}

// Projector returns the frame the corridor is measured in
func (c Corridor) Projector() Projector {
	return NewProjector(c.Center, c.Angle)
}

// Ring returns the corners closed back onto the first corner
func (c Corridor) Ring() []geo.Point {
	ring := make([]geo.Point, 0, 5)
	ring = append(ring, c.Corners[:]...)
	return append(ring, c.Corners[0])
}

// Bounds returns the axis-aligned lat/lng box enclosing the corridor
func (c Corridor) Bounds() geo.Bounds {
	b, _ := geo.BoundsOf(c.Corners[:]...)
	return b
}

// Partition splits candidate pairs into kept and rejected, both in input order
type Partition struct {
	Kept        []geo.Pair `json:"kept"`
	Rejected    []geo.Pair `json:"rejected"`
	KeptIndices []int      `json:"kept_indices"`
}
