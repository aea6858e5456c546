package board

// ResolvePushes narrows the push mask of a pawn on sq against the occupied
// squares, the way a move generator consumes the table. The single push
// needs an empty target; the double push needs both squares in front empty.
func ResolvePushes(t *PushTable, sq Square, c Color, occupied Bitboard) Bitboard {
	if !CanPush(sq, c) {
		return Empty
	}
	mask := t[c][sq]
	single := SquareBB(Square(int(sq) + PushOffset(c)))
	if single&mask == 0 || single&occupied != 0 {
		return Empty
	}
	return mask &^ occupied
}
