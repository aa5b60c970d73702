package board

import (
	"fmt"
	"strconv"
	"strings"
)

// StartFEN is the FEN string for the starting position.
const StartFEN = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// ParseFEN parses a FEN string and returns a Board.
//
// Castling availability becomes king/rook-moved flags. An en passant square
// becomes a synthetic last history entry (the opponent's double push), since
// en passant is decided from history. The half-move clock is accepted but not
// tracked.
func ParseFEN(fen string) (*Board, error) {
	parts := strings.Fields(fen)
	if len(parts) < 4 {
		return nil, fmt.Errorf("need at least 4 fields, got %d: %w", len(parts), ErrInvalidFEN)
	}

	b := newEmptyBoard()

	// Parse piece placement (field 0)
	if err := parsePiecePlacement(b, parts[0]); err != nil {
		return nil, err
	}

	// Parse side to move (field 1)
	switch parts[1] {
	case "w":
		b.toMove = White
	case "b":
		b.toMove = Black
	default:
		return nil, fmt.Errorf("invalid side to move %q: %w", parts[1], ErrInvalidFEN)
	}

	// Parse castling availability (field 2)
	if err := parseCastling(b, parts[2]); err != nil {
		return nil, err
	}
	b.situations = b.setup

	// Parse full-move number (field 5, optional)
	if len(parts) > 5 {
		fmn, err := strconv.Atoi(parts[5])
		if err != nil || fmn < 1 {
			return nil, fmt.Errorf("invalid full-move number %q: %w", parts[5], ErrInvalidFEN)
		}
		b.fullMove = fmn
	}

	// Parse en passant square (field 3)
	if parts[3] != "-" {
		if err := parseEnPassant(b, parts[3]); err != nil {
			return nil, err
		}
	}

	if err := b.validate(); err != nil {
		return nil, err
	}

	// The side to move may already be in check.
	b.situations[b.toMove].InCheck = IsChecked(b, b.toMove)
	b.situations[b.toMove].InCheckmate = IsCheckmated(b, b.toMove)

	return b, nil
}

// parsePiecePlacement parses the piece placement section of a FEN string.
func parsePiecePlacement(b *Board, placement string) error {
	rows := strings.Split(placement, "/")
	if len(rows) != 8 {
		return fmt.Errorf("need 8 ranks, got %d: %w", len(rows), ErrInvalidFEN)
	}

	for i, rowStr := range rows {
		row := 7 - i // FEN starts from rank 8
		col := 0

		for _, c := range rowStr {
			if col > 7 {
				return fmt.Errorf("too many squares in rank %d: %w", row+1, ErrInvalidFEN)
			}

			if c >= '1' && c <= '8' {
				col += int(c - '0')
				continue
			}

			piece := PieceFromChar(byte(c))
			if piece == NoPiece {
				return fmt.Errorf("invalid piece character %q: %w", c, ErrInvalidFEN)
			}
			b.cells[squareAt(row, col)] = piece
			col++
		}

		if col != 8 {
			return fmt.Errorf("rank %d has %d squares: %w", row+1, col, ErrInvalidFEN)
		}
	}

	return nil
}

// parseCastling maps castling availability onto the setup flags.
func parseCastling(b *Board, castling string) error {
	var kingside, queenside [2]bool
	if castling != "-" {
		for _, c := range castling {
			switch c {
			case 'K':
				kingside[White] = true
			case 'Q':
				queenside[White] = true
			case 'k':
				kingside[Black] = true
			case 'q':
				queenside[Black] = true
			default:
				return fmt.Errorf("invalid castling character %q: %w", c, ErrInvalidFEN)
			}
		}
	}

	for _, c := range [2]Color{White, Black} {
		b.setup[c] = Situation{
			KingMoved:  !kingside[c] && !queenside[c],
			ARookMoved: !queenside[c],
			HRookMoved: !kingside[c],
		}
	}
	return nil
}

// parseEnPassant records the double push that made target capturable.
func parseEnPassant(b *Board, target string) error {
	sq, err := ParseSquare(target)
	if err != nil {
		return fmt.Errorf("invalid en passant square %q: %w", target, ErrInvalidFEN)
	}

	mover := b.toMove.Other()
	if sq.RelativeRow(mover) != 2 {
		return fmt.Errorf("en passant square %s on the wrong rank: %w", sq, ErrInvalidFEN)
	}
	from := squareAt(sq.Row()-mover.forward(), sq.Column())
	to := squareAt(sq.Row()+mover.forward(), sq.Column())
	pawn := NewPiece(Pawn, mover)
	if b.cells[to] != pawn || b.cells[sq] != NoPiece || b.cells[from] != NoPiece {
		return fmt.Errorf("no double push behind en passant square %s: %w", sq, ErrInvalidFEN)
	}

	b.history = append(b.history, Move{
		Piece:     pawn,
		From:      from,
		To:        to,
		Promotion: NoPieceType,
		Algebraic: to.String(),
	})
	return nil
}

// validate checks that each side has exactly one king, that the kings do not
// touch, that no pawn stands on the first or last rank, and that the side not
// to move is not in check.
func (b *Board) validate() error {
	var kings [2]int
	for sq := A1; sq <= H8; sq++ {
		piece := b.cells[sq]
		switch piece.Type() {
		case King:
			kings[piece.Color()]++
		case Pawn:
			if row := sq.Row(); row == 0 || row == 7 {
				return fmt.Errorf("pawn on %s: %w", sq, ErrInvalidFEN)
			}
		}
	}
	if kings[White] != 1 || kings[Black] != 1 {
		return fmt.Errorf("need one king per side, got %d white and %d black: %w", kings[White], kings[Black], ErrInvalidFEN)
	}
	if b.besideKing(b.kingSquare(White), Black) {
		return fmt.Errorf("kings on %s and %s touch: %w", b.kingSquare(White), b.kingSquare(Black), ErrInvalidFEN)
	}
	if IsChecked(b, b.toMove.Other()) {
		return fmt.Errorf("%s is in check but not on move: %w", b.toMove.Other(), ErrInvalidFEN)
	}
	return nil
}

// FEN returns the FEN representation of the board. The half-move clock is
// always written as 0.
func (b *Board) FEN() string {
	var sb strings.Builder

	// Piece placement
	for row := 7; row >= 0; row-- {
		empty := 0
		for col := 0; col < 8; col++ {
			piece := b.cells[squareAt(row, col)]
			if piece == NoPiece {
				empty++
				continue
			}
			if empty > 0 {
				sb.WriteString(strconv.Itoa(empty))
				empty = 0
			}
			sb.WriteString(piece.String())
		}
		if empty > 0 {
			sb.WriteString(strconv.Itoa(empty))
		}
		if row > 0 {
			sb.WriteByte('/')
		}
	}

	// Side to move
	sb.WriteByte(' ')
	if b.toMove == White {
		sb.WriteByte('w')
	} else {
		sb.WriteByte('b')
	}

	sb.WriteByte(' ')
	sb.WriteString(b.castlingField())

	sb.WriteByte(' ')
	sb.WriteString(b.enPassantField())

	sb.WriteString(" 0 ")
	sb.WriteString(strconv.Itoa(b.fullMove))

	return sb.String()
}

// castlingField renders castlingRights in FEN order.
func (b *Board) castlingField() string {
	cr := b.castlingRights()
	s := ""
	for i, c := range "KQkq" {
		if cr&(1<<uint(i)) != 0 {
			s += string(c)
		}
	}
	if s == "" {
		return "-"
	}
	return s
}

func (b *Board) enPassantField() string {
	last, ok := b.LastMove()
	if !ok || !last.IsDoublePawnPush() {
		return "-"
	}
	return squareAt((last.From.Row()+last.To.Row())/2, last.To.Column()).String()
}
