package board

// Move records one already-decided transition on the board.
// It is produced by ParseSAN, Board.MoveFromTo or Board.Move and is never
// modified afterwards.
type Move struct {
	Piece     Piece
	From      Square
	To        Square
	Promotion PieceType // NoPieceType unless a pawn reaches the last rank

	Capture   bool
	EnPassant bool
	Castling  bool
	Check     bool
	Checkmate bool

	Algebraic string // SAN text, e.g. "Qxf7#"
}

// String returns the coordinate form of the move (e.g., "e2e4", "e7e8q").
func (m Move) String() string {
	if m.Piece == NoPiece {
		return "0000"
	}
	s := m.From.String() + m.To.String()
	if m.Promotion != NoPieceType {
		s += string(m.Promotion.Char())
	}
	return s
}

// IsDoublePawnPush returns true if the move advanced a pawn two rows.
func (m Move) IsDoublePawnPush() bool {
	if m.Piece.Type() != Pawn {
		return false
	}
	return abs(m.To.Row()-m.From.Row()) == 2
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
