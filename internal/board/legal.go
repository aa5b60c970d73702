package board

import "fmt"

// LegalMoves returns the destinations the piece on sq can legally move to:
// its pseudo-legal moves that do not leave its own king in check, plus
// castling for a king.
func LegalMoves(sq Square, b *Board) ([]Square, error) {
	if !sq.IsValid() || b.cells[sq] == NoPiece {
		return nil, fmt.Errorf("empty square %s: %w", sq, ErrPrecondition)
	}
	return legalMoves(b, sq), nil
}

// FilterLegal drops the candidates that would leave the mover's king in
// check. Each candidate is tested by playing it on a copy of the board.
func FilterLegal(from Square, b *Board, candidates []Square) ([]Square, error) {
	if !from.IsValid() || b.cells[from] == NoPiece {
		return nil, fmt.Errorf("empty square %s: %w", from, ErrPrecondition)
	}
	return filterLegal(b, from, candidates), nil
}

// legalMoves assumes sq is occupied.
func legalMoves(b *Board, sq Square) []Square {
	if sq == NoSquare {
		return nil
	}
	result := filterLegal(b, sq, pseudoLegalMoves(b, sq))
	if b.cells[sq].Type() == King {
		result = append(result, filterLegal(b, sq, castlingMoves(b, sq))...)
	}
	return result
}

func filterLegal(b *Board, from Square, candidates []Square) []Square {
	us := b.cells[from].Color()
	var result []Square
	for _, to := range candidates {
		if IsChecked(applyMove(b, from, to, NoPieceType), us) {
			continue
		}
		result = append(result, to)
	}
	return result
}

// castlingMoves returns the king destinations for castling that are open:
// king and rook unmoved, rook in its corner, the squares between empty, and
// the king neither in check nor passing through an attacked square. Whether
// the destination itself is attacked is left to filterLegal.
func castlingMoves(b *Board, from Square) []Square {
	us := b.cells[from].Color()
	row := us.homeRow()
	s := b.situations[us]
	if from != squareAt(row, 4) || s.KingMoved || IsChecked(b, us) {
		return nil
	}

	rook := NewPiece(Rook, us)
	them := us.Other()
	var result []Square
	if !s.HRookMoved && b.cells[squareAt(row, 7)] == rook && b.emptyColumns(row, 5, 6) &&
		b.transitSafe(from, squareAt(row, 5)) && !b.besideKing(squareAt(row, 6), them) {
		result = append(result, squareAt(row, 6))
	}
	if !s.ARookMoved && b.cells[squareAt(row, 0)] == rook && b.emptyColumns(row, 1, 3) &&
		b.transitSafe(from, squareAt(row, 3)) && !b.besideKing(squareAt(row, 2), them) {
		result = append(result, squareAt(row, 2))
	}
	return result
}

func (b *Board) emptyColumns(row, first, last int) bool {
	for col := first; col <= last; col++ {
		if !b.IsEmpty(squareAt(row, col)) {
			return false
		}
	}
	return true
}

// transitSafe reports whether the king on from could stand on via unchecked.
func (b *Board) transitSafe(from, via Square) bool {
	us := b.cells[from].Color()
	return !b.besideKing(via, us.Other()) && !IsChecked(applyMove(b, from, via, NoPieceType), us)
}

// besideKing reports whether sq touches the king of color c.
func (b *Board) besideKing(sq Square, c Color) bool {
	k := b.kingSquare(c)
	return k != NoSquare && abs(k.Row()-sq.Row()) <= 1 && abs(k.Column()-sq.Column()) <= 1
}

// isCastling reports whether a king move from->to is a castling move.
func isCastling(piece Piece, from, to Square) bool {
	return piece.Type() == King && abs(to.Column()-from.Column()) == 2
}

// ApplyMove returns a new board with the piece on previous moved to current.
// An en passant capture also clears the captured pawn, castling also moves
// the rook, and a pawn reaching the last row becomes a queen. Check flags and
// history are not updated; Board.Move and Board.MoveFromTo do that.
func ApplyMove(previous, current Square, b *Board) (*Board, error) {
	if !previous.IsValid() || !current.IsValid() {
		return nil, fmt.Errorf("%s-%s: %w", previous, current, ErrOutOfRange)
	}
	if b.cells[previous] == NoPiece {
		return nil, fmt.Errorf("empty square %s: %w", previous, ErrPrecondition)
	}
	return applyMove(b, previous, current, NoPieceType), nil
}

func applyMove(b *Board, from, to Square, promo PieceType) *Board {
	next := b.clone()
	piece := next.cells[from]
	us := piece.Color()

	switch piece.Type() {
	case Pawn:
		if isEnPassant(b, from, to) {
			next.cells[squareAt(from.Row(), to.Column())] = NoPiece
		}
		if to.RelativeRow(us) == 7 {
			piece = NewPiece(promotionPiece(promo), us)
		}
	case King:
		if isCastling(piece, from, to) {
			row := from.Row()
			rookFrom, rookTo := squareAt(row, 7), squareAt(row, 5)
			if to.Column() < from.Column() {
				rookFrom, rookTo = squareAt(row, 0), squareAt(row, 3)
			}
			next.cells[rookTo] = next.cells[rookFrom]
			next.cells[rookFrom] = NoPiece
		}
	}

	next.cells[from] = NoPiece
	next.cells[to] = piece
	return next
}

// promotionPiece returns promo when it is a valid promotion choice, else Queen.
func promotionPiece(promo PieceType) PieceType {
	switch promo {
	case Knight, Bishop, Rook, Queen:
		return promo
	}
	return Queen
}
