package oracle

import (
	"fmt"
	"strings"

	"github.com/dylhunn/dragontoothmg"

	"github.com/hailam/pawnpush/internal/board"
)

// Dragontooth reads pawn pushes from dragontoothmg's legal move generator.
// Its squares use the same A1=0 mapping as the board package.
type Dragontooth struct{}

// Name identifies the generator in mismatch reports.
func (Dragontooth) Name() string { return "dragontoothmg" }

// Snapshot parses fen and collects the pawn pushes dragontoothmg generates
// for the side to move.
func (Dragontooth) Snapshot(fen string) (snap *Snapshot, err error) {
	// ParseFen treats any turn field other than "w" as Black.
	if fields := strings.Fields(fen); len(fields) < 2 || (fields[1] != "w" && fields[1] != "b") {
		return nil, fmt.Errorf("parse fen %q: invalid side to move", fen)
	}

	// ParseFen panics on malformed input.
	defer func() {
		if r := recover(); r != nil {
			snap, err = nil, fmt.Errorf("parse fen %q: %v", fen, r)
		}
	}()

	b := dragontoothmg.ParseFen(fen)

	us, side := b.Black, board.Black
	if b.Wtomove {
		us, side = b.White, board.White
	}

	snap = &Snapshot{
		SideToMove: side,
		Occupied:   board.Bitboard(b.White.All | b.Black.All),
		Pawns:      board.Bitboard(us.Pawns),
		Pushes:     make(map[board.Square]board.Bitboard),
	}

	for _, mv := range b.GenerateLegalMoves() {
		from, to := board.Square(mv.From()), board.Square(mv.To())
		if !snap.Pawns.IsSet(from) || from.File() != to.File() {
			continue
		}
		// Promotions show up once per piece; the union is what matters.
		snap.Pushes[from] = snap.Pushes[from].Set(to)
	}

	return snap, nil
}
