package board

import "errors"

var (
	// ErrSquareOutOfRange is returned for a square index outside 0-63.
	ErrSquareOutOfRange = errors.New("square out of range")
	// ErrTargetOutOfRange is returned when a push destination would leave
	// the board. Seeing it during a table build means the generation range
	// is wrong.
	ErrTargetOutOfRange = errors.New("push target out of range")
	// ErrInvalidColor is returned for anything other than White or Black.
	ErrInvalidColor = errors.New("invalid color")
)
