package board

import (
	"fmt"
	"strings"
)

// Situation is the per-color state derived from a board's history.
type Situation struct {
	InCheck     bool
	InCheckmate bool
	KingMoved   bool
	ARookMoved  bool // the rook that started on the a-file
	HRookMoved  bool // the rook that started on the h-file
}

// Board is an immutable chess position together with the moves that led to it.
// Every move returns a new Board; the receiver is never modified, so keeping a
// reference to an earlier Board is enough to undo.
type Board struct {
	cells    [64]Piece
	history  []Move
	toMove   Color
	fullMove int

	// setup holds moved-flags implied by a FEN start rather than by history.
	setup      [2]Situation
	situations [2]Situation
}

var backRank = [8]PieceType{Rook, Knight, Bishop, Queen, King, Bishop, Knight, Rook}

// NewGame returns the standard starting position with White to move.
func NewGame() *Board {
	b := &Board{toMove: White, fullMove: 1}
	for i := range b.cells {
		b.cells[i] = NoPiece
	}
	for col, pt := range backRank {
		b.cells[col] = NewPiece(pt, White)
		b.cells[8+col] = WhitePawn
		b.cells[48+col] = BlackPawn
		b.cells[56+col] = NewPiece(pt, Black)
	}
	return b
}

// newEmptyBoard returns a board with no pieces and White to move.
func newEmptyBoard() *Board {
	b := &Board{toMove: White, fullMove: 1}
	for i := range b.cells {
		b.cells[i] = NoPiece
	}
	return b
}

// clone copies the cells, history and situations into a new Board.
func (b *Board) clone() *Board {
	nb := *b
	nb.history = make([]Move, len(b.history), len(b.history)+1)
	copy(nb.history, b.history)
	return &nb
}

// PieceAt returns the piece at the given square, or NoPiece if empty.
func (b *Board) PieceAt(sq Square) Piece {
	if !sq.IsValid() {
		return NoPiece
	}
	return b.cells[sq]
}

// IsEmpty reports whether sq is on the board and holds no piece.
func (b *Board) IsEmpty(sq Square) bool {
	return sq.IsValid() && b.cells[sq] == NoPiece
}

// SideToMove returns the color whose turn it is.
func (b *Board) SideToMove() Color {
	return b.toMove
}

// FullMoveNumber returns the move counter, starting at 1 and incremented after Black moves.
func (b *Board) FullMoveNumber() int {
	return b.fullMove
}

// History returns a copy of the moves applied so far, oldest first.
func (b *Board) History() []Move {
	h := make([]Move, len(b.history))
	copy(h, b.history)
	return h
}

// LastMove returns the most recent move, if any.
func (b *Board) LastMove() (Move, bool) {
	if len(b.history) == 0 {
		return Move{}, false
	}
	return b.history[len(b.history)-1], true
}

// Situation returns a snapshot of the flags for one color.
func (b *Board) Situation(c Color) Situation {
	return b.situations[c]
}

// Situations returns a snapshot of the flags for both colors.
func (b *Board) Situations() map[Color]Situation {
	return map[Color]Situation{
		White: b.situations[White],
		Black: b.situations[Black],
	}
}

// kingSquare locates the king of color c, or NoSquare if there is none.
func (b *Board) kingSquare(c Color) Square {
	king := NewPiece(King, c)
	for sq := A1; sq <= H8; sq++ {
		if b.cells[sq] == king {
			return sq
		}
	}
	return NoSquare
}

// Move parses algebraic text for color c and returns the board after it.
// The receiver is left untouched on success and on failure.
func (b *Board) Move(text string, c Color) (*Board, error) {
	if c != b.toMove {
		return nil, &MoveError{Text: text, Color: c, Err: ErrWrongTurn}
	}
	m, err := ParseSAN(text, b, c)
	if err != nil {
		return nil, &MoveError{Text: text, Color: c, Err: err}
	}
	return b.play(m), nil
}

// MoveFromTo applies a coordinate move for the side to move. promo selects the
// piece a pawn promotes to; NoPieceType means a queen.
func (b *Board) MoveFromTo(from, to Square, promo PieceType) (*Board, error) {
	text := from.String() + to.String()
	piece := b.PieceAt(from)
	if piece == NoPiece {
		return nil, &MoveError{Text: text, Color: b.toMove, Err: fmt.Errorf("empty square %s: %w", from, ErrPrecondition)}
	}
	if piece.Color() != b.toMove {
		return nil, &MoveError{Text: text, Color: piece.Color(), Err: ErrWrongTurn}
	}
	if !containsSquare(legalMoves(b, from), to) {
		return nil, &MoveError{Text: text, Color: b.toMove, Err: ErrIllegalMove}
	}
	return b.play(b.describe(from, to, promo)), nil
}

// play applies an already validated move record.
func (b *Board) play(m Move) *Board {
	next := applyMove(b, m.From, m.To, m.Promotion)
	next.history = append(next.history, m)
	next.toMove = m.Piece.Color().Other()
	if m.Piece.Color() == Black {
		next.fullMove++
	}
	next.updateSituations()
	return next
}

// updateSituations recomputes the flags after a move. Moved-flags come from
// scanning the history; the opponent's check flags come from the last move's
// record and the mover is never left in check.
func (b *Board) updateSituations() {
	last, ok := b.LastMove()
	if !ok {
		return
	}
	for _, c := range [2]Color{White, Black} {
		s := b.movedFlags(c)
		if c != last.Piece.Color() {
			s.InCheck = last.Check
			s.InCheckmate = last.Checkmate
		}
		b.situations[c] = s
	}
}

// movedFlags returns the setup flags of c updated with its history. A rook
// corner that anything moved from or onto no longer holds the original rook.
func (b *Board) movedFlags(c Color) Situation {
	aRook, hRook := squareAt(c.homeRow(), 0), squareAt(c.homeRow(), 7)
	s := b.setup[c]
	for _, m := range b.history {
		if m.Piece == NewPiece(King, c) {
			s.KingMoved = true
		}
		if m.From == aRook || m.To == aRook {
			s.ARookMoved = true
		}
		if m.From == hRook || m.To == hRook {
			s.HRookMoved = true
		}
	}
	return s
}

// homeRow is the row the color's pieces start on.
func (c Color) homeRow() int {
	if c == White {
		return 0
	}
	return 7
}

// squareAt builds a square from a row and column already known to be on the board.
func squareAt(row, column int) Square {
	return Square(row*8 + column)
}

// String returns a visual representation of the board.
func (b *Board) String() string {
	var sb strings.Builder
	sb.WriteString("\n")
	for row := 7; row >= 0; row-- {
		fmt.Fprintf(&sb, "%d  ", row+1)
		for col := 0; col < 8; col++ {
			piece := b.cells[squareAt(row, col)]
			if piece == NoPiece {
				sb.WriteString(". ")
			} else {
				sb.WriteString(piece.String() + " ")
			}
		}
		sb.WriteString("\n")
	}
	sb.WriteString("\n   a b c d e f g h\n\n")
	fmt.Fprintf(&sb, "Side to move: %s\n", b.toMove)
	fmt.Fprintf(&sb, "FEN: %s\n", b.FEN())
	fmt.Fprintf(&sb, "Key: %016X\n", b.Hash())
	return sb.String()
}

func containsSquare(squares []Square, sq Square) bool {
	for _, s := range squares {
		if s == sq {
			return true
		}
	}
	return false
}
