package oracle

import (
	"fmt"

	chess "github.com/corentings/chess/v2"

	"github.com/hailam/pawnpush/internal/board"
)

// Corentings reads pawn pushes from github.com/corentings/chess.
type Corentings struct{}

// Name identifies the generator in mismatch reports.
func (Corentings) Name() string { return "corentings/chess" }

// Snapshot parses fen and collects the pawn pushes corentings/chess
// considers valid for the side to move.
func (Corentings) Snapshot(fen string) (*Snapshot, error) {
	opt, err := chess.FEN(fen)
	if err != nil {
		return nil, fmt.Errorf("parse fen %q: %w", fen, err)
	}
	game := chess.NewGame(opt)
	pos := game.Position()

	side, color := board.Black, chess.Black
	if pos.Turn() == chess.White {
		side, color = board.White, chess.White
	}

	snap := &Snapshot{
		SideToMove: side,
		Pushes:     make(map[board.Square]board.Bitboard),
	}
	for sq, p := range pos.Board().SquareMap() {
		s := board.Square(sq)
		snap.Occupied = snap.Occupied.Set(s)
		if p.Type() == chess.Pawn && p.Color() == color {
			snap.Pawns = snap.Pawns.Set(s)
		}
	}

	moves := game.ValidMoves()
	for i := range moves {
		mv := &moves[i]
		if mv.HasTag(chess.Capture) || mv.HasTag(chess.EnPassant) {
			continue
		}
		from, to := board.Square(mv.S1()), board.Square(mv.S2())
		if !snap.Pawns.IsSet(from) || from.File() != to.File() {
			continue
		}
		snap.Pushes[from] = snap.Pushes[from].Set(to)
	}

	return snap, nil
}
