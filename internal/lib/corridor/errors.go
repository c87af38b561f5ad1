package corridor

import (
	"errors"
	"fmt"
)

var (
	// ErrDegenerateRoute is returned when every path point coincides and no heading exists
	ErrDegenerateRoute = errors.New("degenerate route: all points coincide, no heading derivable")

	// ErrInsufficientPairs is returned when the minimum pair count cannot be guaranteed
	ErrInsufficientPairs = errors.New("insufficient pairs")

	// ErrInvalidInput covers short paths, bad coordinates, non-positive minimums and unknown methods
	ErrInvalidInput = errors.New("invalid input")
)

// InsufficientPairsError reports how many pairs were required and how many could qualify.
// It matches ErrInsufficientPairs with errors.Is.
type InsufficientPairsError struct {
	Required  int
	Available int
	Reason    string
}

func (e *InsufficientPairsError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("insufficient pairs: %d required, %d available", e.Required, e.Available)
	}
	return fmt.Sprintf("insufficient pairs: %d required, %d available (%s)", e.Required, e.Available, e.Reason)
}

func (e *InsufficientPairsError) Unwrap() error {
	return ErrInsufficientPairs
}

func invalidInput(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}
