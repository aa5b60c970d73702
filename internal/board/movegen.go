package board

import "fmt"

// Direction and offset tables. Each entry is {deltaRow, deltaCol}.
var (
	rookDirections   = [][2]int{{1, 0}, {0, 1}, {-1, 0}, {0, -1}}
	bishopDirections = [][2]int{{1, 1}, {1, -1}, {-1, 1}, {-1, -1}}
	queenDirections  = [][2]int{{1, 0}, {1, 1}, {0, 1}, {-1, 1}, {-1, 0}, {-1, -1}, {0, -1}, {1, -1}}
	knightOffsets    = [][2]int{{2, 1}, {2, -1}, {-2, 1}, {-2, -1}, {1, 2}, {1, -2}, {-1, 2}, {-1, -2}}
	kingOffsets      = [][2]int{{1, 1}, {0, 1}, {-1, 1}, {-1, 0}, {-1, -1}, {0, -1}, {1, -1}, {1, 0}}
)

// PawnMoves returns the pseudo-legal destinations of the pawn on sq:
// pushes, double pushes from the starting row, captures and en passant.
func PawnMoves(sq Square, b *Board) ([]Square, error) {
	us, err := b.expect(sq, Pawn)
	if err != nil {
		return nil, err
	}
	return pawnMoves(b, sq, us), nil
}

// PawnCaptureMoves returns the diagonal squares holding an enemy piece.
func PawnCaptureMoves(sq Square, b *Board) ([]Square, error) {
	us, err := b.expect(sq, Pawn)
	if err != nil {
		return nil, err
	}
	return pawnCaptures(b, sq, us), nil
}

// PawnEnPassantMoves returns the en passant destination, if the previous move
// allows one for the pawn on sq.
func PawnEnPassantMoves(sq Square, b *Board) ([]Square, error) {
	us, err := b.expect(sq, Pawn)
	if err != nil {
		return nil, err
	}
	return enPassantTargets(b, sq, us), nil
}

// KnightMoves returns the pseudo-legal destinations of the knight on sq.
func KnightMoves(sq Square, b *Board) ([]Square, error) {
	us, err := b.expect(sq, Knight)
	if err != nil {
		return nil, err
	}
	return stepMoves(b, sq, us, knightOffsets), nil
}

// BishopMoves returns the pseudo-legal destinations of the bishop on sq.
func BishopMoves(sq Square, b *Board) ([]Square, error) {
	us, err := b.expect(sq, Bishop)
	if err != nil {
		return nil, err
	}
	return slideMoves(b, sq, us, bishopDirections), nil
}

// RookMoves returns the pseudo-legal destinations of the rook on sq.
func RookMoves(sq Square, b *Board) ([]Square, error) {
	us, err := b.expect(sq, Rook)
	if err != nil {
		return nil, err
	}
	return slideMoves(b, sq, us, rookDirections), nil
}

// QueenMoves returns the pseudo-legal destinations of the queen on sq.
func QueenMoves(sq Square, b *Board) ([]Square, error) {
	us, err := b.expect(sq, Queen)
	if err != nil {
		return nil, err
	}
	return slideMoves(b, sq, us, queenDirections), nil
}

// KingMoves returns the pseudo-legal destinations of the king on sq.
// Squares next to the opposing king are never included. Castling is not a
// pseudo-legal king move; LegalMoves adds it.
func KingMoves(sq Square, b *Board) ([]Square, error) {
	us, err := b.expect(sq, King)
	if err != nil {
		return nil, err
	}
	return kingMoves(b, sq, us), nil
}

// PseudoLegalMoves dispatches on the piece standing on sq.
func PseudoLegalMoves(sq Square, b *Board) ([]Square, error) {
	if !sq.IsValid() || b.cells[sq] == NoPiece {
		return nil, fmt.Errorf("empty square %s: %w", sq, ErrPrecondition)
	}
	return pseudoLegalMoves(b, sq), nil
}

// expect verifies that sq holds a piece of type pt and returns its color.
func (b *Board) expect(sq Square, pt PieceType) (Color, error) {
	if !sq.IsValid() {
		return NoColor, fmt.Errorf("square %d: %w", sq, ErrOutOfRange)
	}
	piece := b.cells[sq]
	if piece == NoPiece {
		return NoColor, fmt.Errorf("empty square %s: %w", sq, ErrPrecondition)
	}
	if piece.Type() != pt {
		return NoColor, fmt.Errorf("%s holds a %s, not a %s: %w", sq, piece.Type(), pt, ErrPrecondition)
	}
	return piece.Color(), nil
}

// pseudoLegalMoves assumes sq is occupied.
func pseudoLegalMoves(b *Board, sq Square) []Square {
	piece := b.cells[sq]
	us := piece.Color()
	switch piece.Type() {
	case Pawn:
		return pawnMoves(b, sq, us)
	case Knight:
		return stepMoves(b, sq, us, knightOffsets)
	case Bishop:
		return slideMoves(b, sq, us, bishopDirections)
	case Rook:
		return slideMoves(b, sq, us, rookDirections)
	case Queen:
		return slideMoves(b, sq, us, queenDirections)
	case King:
		return kingMoves(b, sq, us)
	}
	return nil
}

func pawnMoves(b *Board, from Square, us Color) []Square {
	var result []Square
	fwd := us.forward()

	if one, ok := from.TryMove(fwd, 0); ok && b.IsEmpty(one) {
		result = append(result, one)
		if from.RelativeRow(us) == 1 {
			if two, ok := from.TryMove(2*fwd, 0); ok && b.IsEmpty(two) {
				result = append(result, two)
			}
		}
	}

	result = append(result, pawnCaptures(b, from, us)...)
	return append(result, enPassantTargets(b, from, us)...)
}

// pawnCaptures returns diagonal squares holding an enemy piece. These are also
// the only squares a pawn threatens for check detection.
func pawnCaptures(b *Board, from Square, us Color) []Square {
	var result []Square
	fwd := us.forward()
	for _, dc := range [2]int{-1, 1} {
		to, ok := from.TryMove(fwd, dc)
		if !ok {
			continue
		}
		if target := b.cells[to]; target != NoPiece && target.Color() != us {
			result = append(result, to)
		}
	}
	return result
}

// enPassantTargets returns the capture square when the previous move was an
// enemy double push landing beside the pawn on from.
func enPassantTargets(b *Board, from Square, us Color) []Square {
	if from.RelativeRow(us) != 4 {
		return nil
	}
	last, ok := b.LastMove()
	if !ok || last.Piece != NewPiece(Pawn, us.Other()) || !last.IsDoublePawnPush() {
		return nil
	}
	if last.To.Row() != from.Row() || abs(last.To.Column()-from.Column()) != 1 {
		return nil
	}
	if b.cells[last.To] != last.Piece {
		return nil
	}
	to, ok := from.TryMove(us.forward(), last.To.Column()-from.Column())
	if !ok || !b.IsEmpty(to) {
		return nil
	}
	return []Square{to}
}

// isEnPassant reports whether from->to is a currently valid en passant capture.
func isEnPassant(b *Board, from, to Square) bool {
	piece := b.cells[from]
	if piece.Type() != Pawn {
		return false
	}
	return containsSquare(enPassantTargets(b, from, piece.Color()), to)
}

// slideMoves walks each ray until the board edge or the first piece,
// including that piece's square only when it is an enemy.
func slideMoves(b *Board, from Square, us Color, directions [][2]int) []Square {
	var result []Square
	for _, d := range directions {
		for dist := 1; dist < 8; dist++ {
			to, ok := from.TryMove(d[0]*dist, d[1]*dist)
			if !ok {
				break
			}
			target := b.cells[to]
			if target == NoPiece {
				result = append(result, to)
				continue
			}
			if target.Color() != us {
				result = append(result, to)
			}
			break
		}
	}
	return result
}

// stepMoves tries each fixed offset once.
func stepMoves(b *Board, from Square, us Color, offsets [][2]int) []Square {
	var result []Square
	for _, o := range offsets {
		to, ok := from.TryMove(o[0], o[1])
		if !ok {
			continue
		}
		if target := b.cells[to]; target == NoPiece || target.Color() != us {
			result = append(result, to)
		}
	}
	return result
}

func kingMoves(b *Board, from Square, us Color) []Square {
	var forbidden []Square
	if enemyKing := b.kingSquare(us.Other()); enemyKing != NoSquare {
		for _, o := range kingOffsets {
			if sq, ok := enemyKing.TryMove(o[0], o[1]); ok {
				forbidden = append(forbidden, sq)
			}
		}
	}

	var result []Square
	for _, o := range kingOffsets {
		to, ok := from.TryMove(o[0], o[1])
		if !ok || containsSquare(forbidden, to) {
			continue
		}
		target := b.cells[to]
		if target == NoPiece || (target.Color() != us && target.Type() != King) {
			result = append(result, to)
		}
	}
	return result
}
