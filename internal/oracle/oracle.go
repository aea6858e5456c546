// Package oracle checks push tables against independent move generators.
package oracle

import (
	"fmt"
	"strings"

	"golang.org/x/exp/slices"

	"github.com/hailam/pawnpush/internal/board"
)

// Snapshot is what a move generator reports about the pawns of the side to
// move in one position.
type Snapshot struct {
	SideToMove board.Color
	Occupied   board.Bitboard
	Pawns      board.Bitboard
	// Pushes maps each pawn to the squares it can push to. Pawns without a
	// push may be absent.
	Pushes map[board.Square]board.Bitboard
}

// Generator produces snapshots from FEN positions.
type Generator interface {
	Name() string
	Snapshot(fen string) (*Snapshot, error)
}

// Mismatch is one pawn whose resolved pushes differ from the generator's.
type Mismatch struct {
	From  board.Square
	Table board.Bitboard
	Moves board.Bitboard
}

// MismatchError lists every disagreeing pawn in a position.
type MismatchError struct {
	Generator  string
	FEN        string
	Mismatches []Mismatch
}

func (e *MismatchError) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s disagrees on %d pawn(s) in %q:", e.Generator, len(e.Mismatches), e.FEN)
	for _, m := range e.Mismatches {
		fmt.Fprintf(&sb, " %s table=%v moves=%v", m.From, m.Table.Squares(), m.Moves.Squares())
	}
	return sb.String()
}

// Verify resolves the table against the occupancy of fen and compares the
// result with the pushes g generates for every pawn of the side to move.
// The position must have no checks or pins, since the generator reports
// legal moves while the table is pseudo-legal.
func Verify(t *board.PushTable, g Generator, fen string) error {
	snap, err := g.Snapshot(fen)
	if err != nil {
		return fmt.Errorf("%s: %w", g.Name(), err)
	}

	var mismatches []Mismatch
	for _, from := range snap.Pawns.Squares() {
		want := board.ResolvePushes(t, from, snap.SideToMove, snap.Occupied)
		got := snap.Pushes[from]
		if want != got {
			mismatches = append(mismatches, Mismatch{From: from, Table: want, Moves: got})
		}
	}

	// Pushes from squares that hold no pawn of ours mean the snapshot is broken.
	var strays []board.Square
	for from := range snap.Pushes {
		if !snap.Pawns.IsSet(from) {
			strays = append(strays, from)
		}
	}
	slices.Sort(strays)
	for _, from := range strays {
		mismatches = append(mismatches, Mismatch{From: from, Moves: snap.Pushes[from]})
	}

	if len(mismatches) > 0 {
		return &MismatchError{Generator: g.Name(), FEN: fen, Mismatches: mismatches}
	}
	return nil
}

// VerifyAll runs Verify for every generator over every position and
// returns the first failure.
func VerifyAll(t *board.PushTable, gens []Generator, fens []string) error {
	for _, g := range gens {
		for _, fen := range fens {
			if err := Verify(t, g, fen); err != nil {
				return err
			}
		}
	}
	return nil
}

// Default returns the generators backed by third-party move generators.
func Default() []Generator {
	return []Generator{Dragontooth{}, Corentings{}}
}

// VerificationPositions are check-free, pin-free positions exercising home
// ranks, blocked pushes and pushes onto the promotion rank for both sides.
var VerificationPositions = []string{
	"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",
	"rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq - 0 1",
	"rnbqkbnr/pp1ppppp/8/2p5/4P3/5N2/PPPP1PPP/RNBQKB1R b KQkq - 1 2",
	"r1bqkbnr/pppp1ppp/2n5/4p3/4P3/5N2/PPPP1PPP/RNBQKB1R w KQkq - 2 3",
	// Home-rank pawns blocked on the first and second step, pawns pushing
	// onto the promotion rank, one of them blocked.
	"4k2r/6PP/8/8/1p6/2p1P3/PPPP4/4K3 w - - 0 1",
	"4k2r/6PP/8/8/1p6/2p1P3/PPPP4/4K3 b - - 0 1",
	"4k3/4pppp/3p1P2/6P1/8/8/pp6/R3K3 b - - 0 1",
	"4k3/4pppp/3p1P2/6P1/8/8/pp6/R3K3 w - - 0 1",
}
