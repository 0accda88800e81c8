package apperror

import "errors"

var (
	ErrNotAdjacent     = errors.New("nearest grid points are not adjacent")
	ErrTooFarFromGrid  = errors.New("touch is too far from the grid")
	ErrEdgeExists      = errors.New("edge is already drawn")
	ErrGameFinished    = errors.New("game is already finished")
	ErrGameNotFound    = errors.New("game not found")
	ErrInvalidPosition = errors.New("invalid touch position")
)

// Reason - short machine readable code for a rejected touch.
func Reason(err error) string {
	switch {
	case errors.Is(err, ErrNotAdjacent):
		return "not_adjacent"
	case errors.Is(err, ErrTooFarFromGrid):
		return "too_far_from_grid"
	case errors.Is(err, ErrEdgeExists):
		return "edge_exists"
	case errors.Is(err, ErrGameFinished):
		return "game_finished"
	case errors.Is(err, ErrGameNotFound):
		return "game_not_found"
	case errors.Is(err, ErrInvalidPosition):
		return "invalid_position"
	default:
		return ""
	}
}

// IsRejection reports whether err is a rejected touch rather than a failure.
func IsRejection(err error) bool {
	return errors.Is(err, ErrNotAdjacent) ||
		errors.Is(err, ErrTooFarFromGrid) ||
		errors.Is(err, ErrEdgeExists) ||
		errors.Is(err, ErrInvalidPosition)
}
