package oracle

import (
	"errors"
	"testing"

	"github.com/hailam/pawnpush/internal/board"
)

func TestVerifyAgainstMoveGenerators(t *testing.T) {
	table := board.DefaultPushTable()
	for _, g := range Default() {
		for _, fen := range VerificationPositions {
			if err := Verify(&table, g, fen); err != nil {
				t.Errorf("%v", err)
			}
		}
	}
}

func TestSnapshots(t *testing.T) {
	// White: a2 open, b2 stopped at b4, c2 stopped at c3, d2 open,
	// e3 single, g7 promotes, h7 blocked by the rook.
	fen := "4k2r/6PP/8/8/1p6/2p1P3/PPPP4/4K3 w - - 0 1"
	bb := func(sqs ...board.Square) board.Bitboard {
		var b board.Bitboard
		for _, sq := range sqs {
			b = b.Set(sq)
		}
		return b
	}
	want := map[board.Square]board.Bitboard{
		board.A2: bb(board.A3, board.A4),
		board.B2: bb(board.B3),
		board.D2: bb(board.D3, board.D4),
		board.E3: bb(board.E4),
		board.G7: bb(board.G8),
	}

	for _, g := range Default() {
		t.Run(g.Name(), func(t *testing.T) {
			snap, err := g.Snapshot(fen)
			if err != nil {
				t.Fatalf("Snapshot failed: %v", err)
			}
			if snap.SideToMove != board.White {
				t.Errorf("expected White to move, got %s", snap.SideToMove)
			}
			if snap.Pawns.PopCount() != 7 {
				t.Errorf("expected 7 white pawns, got %d", snap.Pawns.PopCount())
			}
			if snap.Occupied.PopCount() != 12 {
				t.Errorf("expected 12 occupied squares, got %d", snap.Occupied.PopCount())
			}
			for from, pushes := range want {
				if snap.Pushes[from] != pushes {
					t.Errorf("%s: got %v, want %v", from, snap.Pushes[from].Squares(), pushes.Squares())
				}
			}
			for from, pushes := range snap.Pushes {
				if _, ok := want[from]; !ok && pushes != board.Empty {
					t.Errorf("unexpected pushes from %s: %v", from, pushes.Squares())
				}
			}
		})
	}
}

type fakeGenerator struct {
	snap *Snapshot
	err  error
}

func (f fakeGenerator) Name() string { return "fake" }

func (f fakeGenerator) Snapshot(string) (*Snapshot, error) { return f.snap, f.err }

func TestVerifyReportsMismatches(t *testing.T) {
	table := board.DefaultPushTable()

	snap := &Snapshot{
		SideToMove: board.White,
		Pawns:      board.SquareBB(board.E2) | board.SquareBB(board.D2),
		Pushes: map[board.Square]board.Bitboard{
			board.E2: board.SquareBB(board.E3), // double push missing
			board.D2: board.SquareBB(board.D3) | board.SquareBB(board.D4),
			board.C5: board.SquareBB(board.C6), // no pawn there
		},
	}

	err := Verify(&table, fakeGenerator{snap: snap}, "fen")
	var mismatch *MismatchError
	if !errors.As(err, &mismatch) {
		t.Fatalf("expected MismatchError, got %v", err)
	}
	if len(mismatch.Mismatches) != 2 {
		t.Fatalf("expected 2 mismatches, got %d: %v", len(mismatch.Mismatches), err)
	}
	if mismatch.Mismatches[0].From != board.E2 || mismatch.Mismatches[1].From != board.C5 {
		t.Errorf("unexpected mismatch order: %v", err)
	}
	t.Log(err)
}

func TestVerifyPropagatesErrors(t *testing.T) {
	table := board.DefaultPushTable()
	boom := errors.New("boom")
	if err := Verify(&table, fakeGenerator{err: boom}, "fen"); !errors.Is(err, boom) {
		t.Errorf("expected wrapped generator error, got %v", err)
	}
}

func TestBadFEN(t *testing.T) {
	bad := []string{
		"",
		"not a fen",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR x KQkq - 0 1",
		"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR",
	}
	for _, g := range Default() {
		t.Run(g.Name(), func(t *testing.T) {
			for _, fen := range bad {
				snap, err := g.Snapshot(fen)
				if err == nil {
					t.Errorf("malformed FEN %q accepted (side %s)", fen, snap.SideToMove)
				}
			}
		})
	}
}

func TestBlackToMoveSnapshot(t *testing.T) {
	fen := "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq - 0 1"
	for _, g := range Default() {
		snap, err := g.Snapshot(fen)
		if err != nil {
			t.Fatalf("%s: Snapshot failed: %v", g.Name(), err)
		}
		if snap.SideToMove != board.Black {
			t.Errorf("%s: expected Black to move, got %s", g.Name(), snap.SideToMove)
		}
	}
}
