package corridor

import (
	"math"

	"github.com/dpup/corridor/internal/lib/geo"
)

// degenerateSpreadKm2 is the squared spread below which a path is a single point
const degenerateSpreadKm2 = 1e-18

// EstimateHeading returns the dominant direction of the path in degrees from east,
// normalized to [-90, 90). A heading and its 180° twin describe the same corridor.
func EstimateHeading(path []geo.Point, method OrientationMethod) (float64, error) {
	if err := validatePath(path); err != nil {
		return 0, err
	}

	// Planar offsets around the centroid; angle 0 keeps x east and y north
	frame := NewProjector(geo.Centroid(path), 0)
	xy := frame.ProjectAll(path)

	switch method {
	case "", OrientationEndpoints:
		first, last := xy[0], xy[len(xy)-1]
		dx, dy := last.U-first.U, last.V-first.V
		if dx*dx+dy*dy > degenerateSpreadKm2 {
			return normalizeAngle(math.Atan2(dy, dx) * 180 / math.Pi), nil
		}
		// Closed loop: first and last coincide, use the best-fit line instead
		return bestFitHeading(xy)
	case OrientationBestFit:
		return bestFitHeading(xy)
	default:
		return 0, invalidInput("unknown orientation method %q", method)
	}
}

// bestFitHeading returns the principal axis of the points (orthogonal least squares)
func bestFitHeading(xy []Vector) (float64, error) {
	var meanX, meanY float64
	for _, v := range xy {
		meanX += v.U
		meanY += v.V
	}
	n := float64(len(xy))
	meanX /= n
	meanY /= n

	var sxx, syy, sxy float64
	for _, v := range xy {
		dx, dy := v.U-meanX, v.V-meanY
		sxx += dx * dx
		syy += dy * dy
		sxy += dx * dy
	}

	if sxx+syy <= degenerateSpreadKm2 {
		return 0, ErrDegenerateRoute
	}

	theta := 0.5 * math.Atan2(2*sxy, sxx-syy)
	return normalizeAngle(theta * 180 / math.Pi), nil
}

// normalizeAngle folds any angle in degrees into [-90, 90)
func normalizeAngle(deg float64) float64 {
	a := math.Mod(deg+90, 180)
	if a < 0 {
		a += 180
	}
	if a >= 180 {
		a -= 180
	}
	return a - 90
}
