package corridor

import (
	"github.com/dpup/corridor/internal/lib/geo"
)

func validatePath(path []geo.Point) error {
	if len(path) < 2 {
		return invalidInput("path must have at least 2 points, got %d", len(path))
	}
	for i, p := range path {
		if err := geo.ValidatePoint(p); err != nil {
			return invalidInput("path point %d: %v", i, err)
		}
	}
	return nil
}

func validatePairs(pairs []geo.Pair) error {
	for i, pair := range pairs {
		if err := geo.ValidatePoint(pair.Origin); err != nil {
			return invalidInput("pair %d origin: %v", i, err)
		}
		if err := geo.ValidatePoint(pair.Destination); err != nil {
			return invalidInput("pair %d destination: %v", i, err)
		}
	}
	return nil
}

func validateFrameOrigin(origin geo.Point) error {
	if origin.Latitude > maxFrameLatitude || origin.Latitude < -maxFrameLatitude {
		return invalidInput("corridor center latitude %.4f is outside ±%.0f°", origin.Latitude, maxFrameLatitude)
	}
	return nil
}
