package board

import "fmt"

// PushTable holds push destination masks indexed [Color][Square].
// Entries for squares a pawn cannot push from are Empty.
type PushTable [2][NumSquares]Bitboard

// pawnPushes is the process-wide table, built once before first use.
var pawnPushes PushTable

func init() {
	pawnPushes = MustBuildPushTable()
}

// GeneratePush returns the squares a pawn of color c on sq may push to,
// ignoring occupancy: one step forward, plus two steps from the home rank.
// Destinations off the board are reported as ErrTargetOutOfRange rather
// than set.
func GeneratePush(sq Square, c Color) (Bitboard, error) {
	if !sq.IsValid() {
		return Empty, fmt.Errorf("%w: %d", ErrSquareOutOfRange, sq)
	}
	if !c.IsValid() {
		return Empty, fmt.Errorf("%w: %d", ErrInvalidColor, c)
	}

	offset := PushOffset(c)

	single, err := pushTarget(sq, offset)
	if err != nil {
		return Empty, err
	}
	pushes := SquareBB(single)

	if sq.RelativeRank(c) == HomeRank {
		double, err := pushTarget(sq, 2*offset)
		if err != nil {
			return Empty, err
		}
		pushes = pushes.Set(double)
	}

	return pushes, nil
}

// pushTarget computes sq+delta, rejecting indices outside the board.
func pushTarget(sq Square, delta int) (Square, error) {
	target := int(sq) + delta
	if target < 0 || target >= NumSquares {
		return NoSquare, fmt.Errorf("%w: %s%+d = %d", ErrTargetOutOfRange, sq, delta, target)
	}
	return Square(target), nil
}

// CanPush reports whether a pawn of color c on sq has a push on an empty
// board. It defines the generation range of the table: relative ranks
// HomeRank through LastPushRank. Pawns never stand on their own back rank,
// and on the promotion rank a push would leave the board.
func CanPush(sq Square, c Color) bool {
	if !sq.IsValid() || !c.IsValid() {
		return false
	}
	r := sq.RelativeRank(c)
	return r >= HomeRank && r <= LastPushRank
}

// BuildPushTable generates the push masks for both colors over the squares
// accepted by CanPush. Any generation error aborts the build.
func BuildPushTable() (PushTable, error) {
	var t PushTable
	for _, c := range Colors {
		for sq := A1; sq <= H8; sq++ {
			if !CanPush(sq, c) {
				continue
			}
			pushes, err := GeneratePush(sq, c)
			if err != nil {
				return PushTable{}, fmt.Errorf("build push table: %s pawn on %s: %w", c, sq, err)
			}
			t[c][sq] = pushes
		}
	}
	return t, nil
}

// MustBuildPushTable is like BuildPushTable but panics on error.
func MustBuildPushTable() PushTable {
	t, err := BuildPushTable()
	if err != nil {
		panic(err)
	}
	return t
}

// DefaultPushTable returns a copy of the process-wide table.
func DefaultPushTable() PushTable {
	return pawnPushes
}

// PawnPushes returns the pawn push target bitboard for a square and color.
// No validation is done; an invalid square or color panics on the index.
func PawnPushes(sq Square, c Color) Bitboard {
	return pawnPushes[c][sq]
}

// Lookup returns the push mask for sq and c.
func (t *PushTable) Lookup(sq Square, c Color) (Bitboard, error) {
	if !sq.IsValid() {
		return Empty, fmt.Errorf("%w: %d", ErrSquareOutOfRange, sq)
	}
	if !c.IsValid() {
		return Empty, fmt.Errorf("%w: %d", ErrInvalidColor, c)
	}
	return t[c][sq], nil
}

// Row returns the table for one color as plain integers, the form in which
// it is embedded or persisted.
func (t *PushTable) Row(c Color) [NumSquares]uint64 {
	var row [NumSquares]uint64
	for sq, bb := range t[c] {
		row[sq] = uint64(bb)
	}
	return row
}

// PushTableFromRows rebuilds a table from the rows produced by Row.
// The result is not checked; call Validate before trusting it.
func PushTableFromRows(white, black [NumSquares]uint64) PushTable {
	var t PushTable
	for sq := 0; sq < NumSquares; sq++ {
		t[White][sq] = Bitboard(white[sq])
		t[Black][sq] = Bitboard(black[sq])
	}
	return t
}

// Equal reports whether both tables hold identical masks.
func (t *PushTable) Equal(other *PushTable) bool {
	return *t == *other
}

// Validate checks every entry against the push rules: one step forward,
// a second step only from the home rank, nothing outside the generation
// range.
func (t *PushTable) Validate() error {
	for _, c := range Colors {
		offset := PushOffset(c)
		for sq := A1; sq <= H8; sq++ {
			mask := t[c][sq]
			if !CanPush(sq, c) {
				if mask != Empty {
					return fmt.Errorf("%s pawn on %s: unexpected pushes %#x", c, sq, uint64(mask))
				}
				continue
			}

			single := Square(int(sq) + offset)
			if !mask.IsSet(single) {
				return fmt.Errorf("%s pawn on %s: missing single push to %s", c, sq, single)
			}
			rest := mask &^ SquareBB(single)

			if sq.RelativeRank(c) != HomeRank {
				if rest != Empty {
					return fmt.Errorf("%s pawn on %s: extra pushes %#x", c, sq, uint64(rest))
				}
				continue
			}
			double := Square(int(sq) + 2*offset)
			if rest != SquareBB(double) {
				return fmt.Errorf("%s pawn on %s: double push %#x, want %s", c, sq, uint64(rest), double)
			}
		}
	}
	return nil
}
