package board

// allSquares is the default scan range for Threats.
var allSquares = func() []Square {
	s := make([]Square, 64)
	for i := range s {
		s[i] = Square(i)
	}
	return s
}()

// Threats returns every square attacked by the pieces of color c standing on
// the squares in scan (all squares when scan is nil). Pawns contribute only
// their capture squares. Kings contribute nothing: two kings can never be
// adjacent, which king move generation already guarantees.
// The result may contain duplicates.
func Threats(b *Board, c Color, scan []Square) []Square {
	if scan == nil {
		scan = allSquares
	}
	var result []Square
	for _, sq := range scan {
		piece := b.cells[sq]
		if piece == NoPiece || piece.Color() != c {
			continue
		}
		result = append(result, attacksFrom(b, sq, piece)...)
	}
	return result
}

func attacksFrom(b *Board, sq Square, piece Piece) []Square {
	us := piece.Color()
	switch piece.Type() {
	case Pawn:
		return pawnCaptures(b, sq, us)
	case Knight:
		return stepMoves(b, sq, us, knightOffsets)
	case Bishop:
		return slideMoves(b, sq, us, bishopDirections)
	case Rook:
		return slideMoves(b, sq, us, rookDirections)
	case Queen:
		return slideMoves(b, sq, us, queenDirections)
	}
	return nil
}

// IsChecked reports whether the king of color c is attacked.
// Only opponent pieces inside the king's checkable range are examined.
func IsChecked(b *Board, c Color) bool {
	king := b.kingSquare(c)
	if king == NoSquare {
		return false
	}
	return containsSquare(Threats(b, c.Other(), checkableRange(king)), king)
}

// IsCheckmated reports whether color c is in check with no legal move.
// Legal move lists are recomputed for every piece of c on each call.
func IsCheckmated(b *Board, c Color) bool {
	if !IsChecked(b, c) {
		return false
	}
	if len(legalMoves(b, b.kingSquare(c))) > 0 {
		return false
	}
	return !hasLegalMove(b, c)
}

// IsStalemated reports whether color c is not in check but has no legal move.
func IsStalemated(b *Board, c Color) bool {
	if b.kingSquare(c) == NoSquare || IsChecked(b, c) {
		return false
	}
	return !hasLegalMove(b, c)
}

func hasLegalMove(b *Board, c Color) bool {
	for sq := A1; sq <= H8; sq++ {
		piece := b.cells[sq]
		if piece == NoPiece || piece.Color() != c {
			continue
		}
		if len(legalMoves(b, sq)) > 0 {
			return true
		}
	}
	return false
}
