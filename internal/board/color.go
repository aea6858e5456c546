package board

import (
	"fmt"
	"strings"
)

// Color represents the color of a pawn or player.
type Color uint8

const (
	White Color = iota
	Black
	NoColor Color = 2
)

// Colors lists both playing colors in table order.
var Colors = [2]Color{White, Black}

// Rank-forward step in square indices for each color.
const (
	whitePushOffset = 8
	blackPushOffset = -8
)

// Relative ranks that bound pawn pushes.
const (
	// HomeRank is the starting rank, the only one allowing a double push.
	HomeRank = 1
	// LastPushRank is the last rank a pawn can push from; the push
	// lands on the promotion rank.
	LastPushRank = 6
	// PromotionRank is the far edge. A push from here would leave the board.
	PromotionRank = 7
)

// Other returns the opposite color.
func (c Color) Other() Color {
	return c ^ 1
}

// IsValid reports whether c is White or Black.
func (c Color) IsValid() bool {
	return c == White || c == Black
}

// String returns the color name.
func (c Color) String() string {
	switch c {
	case White:
		return "White"
	case Black:
		return "Black"
	default:
		return "NoColor"
	}
}

// ParseColor accepts "white", "w", "black" or "b" in any case.
func ParseColor(s string) (Color, error) {
	switch strings.ToLower(s) {
	case "white", "w":
		return White, nil
	case "black", "b":
		return Black, nil
	}
	return NoColor, fmt.Errorf("%w: %q", ErrInvalidColor, s)
}

// PushOffset returns the square index delta of one step forward for c.
// White moves toward H8 (+8), Black toward A1 (-8). It returns 0 for an
// invalid color.
func PushOffset(c Color) int {
	switch c {
	case White:
		return whitePushOffset
	case Black:
		return blackPushOffset
	}
	return 0
}
