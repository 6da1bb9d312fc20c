package planner

import "errors"

var (
	// ErrDataUnavailable is returned when the meal catalog cannot be read.
	ErrDataUnavailable = errors.New("meal catalog unavailable")
	// ErrInfeasibleModel is returned when no selection of meals satisfies
	// the nutritional constraints.
	ErrInfeasibleModel = errors.New("no meal selection satisfies the constraints")
	// ErrInvalidInput is returned for malformed planning requests.
	ErrInvalidInput = errors.New("invalid planning input")
	// ErrTimeout is returned when the planning deadline passes.
	ErrTimeout = errors.New("planning timed out")
)
