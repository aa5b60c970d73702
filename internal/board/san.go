package board

import (
	"fmt"
	"strings"
)

// Castling notation.
const (
	kingsideCastle  = "O-O"
	queensideCastle = "O-O-O"
)

// Render returns the Standard Algebraic Notation for moving the piece on
// previous to current. A promoting pawn is rendered as promoting to a queen.
func Render(previous, current Square, b *Board) (string, error) {
	return RenderPromotion(previous, current, NoPieceType, b)
}

// RenderPromotion is like Render but names the promotion piece.
func RenderPromotion(previous, current Square, promo PieceType, b *Board) (string, error) {
	if !previous.IsValid() || !current.IsValid() {
		return "", fmt.Errorf("%s-%s: %w", previous, current, ErrOutOfRange)
	}
	if b.cells[previous] == NoPiece {
		return "", fmt.Errorf("empty square %s: %w", previous, ErrPrecondition)
	}
	if !containsSquare(legalMoves(b, previous), current) {
		return "", fmt.Errorf("%s-%s: %w", previous, current, ErrIllegalMove)
	}
	return b.describe(previous, current, promo).Algebraic, nil
}

// describe builds the full record of a legal move: capture, en passant,
// castling and promotion details, check and checkmate on the resulting
// board, and the SAN text.
func (b *Board) describe(from, to Square, promo PieceType) Move {
	piece := b.cells[from]
	us := piece.Color()
	m := Move{Piece: piece, From: from, To: to, Promotion: NoPieceType}

	switch piece.Type() {
	case Pawn:
		m.EnPassant = isEnPassant(b, from, to)
		if to.RelativeRow(us) == 7 {
			m.Promotion = promotionPiece(promo)
		}
	case King:
		m.Castling = isCastling(piece, from, to)
	}
	m.Capture = b.cells[to] != NoPiece || m.EnPassant

	// The defender's replies may depend on this move (en passant), so the
	// simulated board carries it in its history.
	next := applyMove(b, from, to, m.Promotion)
	next.history = append(next.history, m)
	next.toMove = us.Other()
	m.Check = IsChecked(next, us.Other())
	m.Checkmate = m.Check && IsCheckmated(next, us.Other())

	m.Algebraic = b.san(m)
	return m
}

func (b *Board) san(m Move) string {
	var sb strings.Builder

	if m.Castling {
		if m.To.Column() > m.From.Column() {
			sb.WriteString(kingsideCastle)
		} else {
			sb.WriteString(queensideCastle)
		}
	} else {
		pt := m.Piece.Type()
		sb.WriteString(pt.Letter())

		// Pawn captures name their file below, which is always enough.
		if pt != Pawn {
			sb.WriteString(b.disambiguation(m.Piece, m.From, m.To))
		}

		if m.Capture {
			if pt == Pawn {
				sb.WriteByte(m.From.File())
			}
			sb.WriteByte('x')
		}

		sb.WriteString(m.To.String())

		if m.Promotion != NoPieceType {
			sb.WriteByte('=')
			sb.WriteString(m.Promotion.Letter())
		}
	}

	if m.Checkmate {
		sb.WriteByte('#')
	} else if m.Check {
		sb.WriteByte('+')
	}
	return sb.String()
}

// disambiguation returns the file, the rank, or the full origin square,
// whichever is the first to single out from among the pieces like piece that
// can legally reach to.
func (b *Board) disambiguation(piece Piece, from, to Square) string {
	candidates := b.sources(piece, to)
	if len(candidates) < 2 {
		return ""
	}

	sameFile, sameRank := 0, 0
	for _, sq := range candidates {
		if sq.Column() == from.Column() {
			sameFile++
		}
		if sq.Row() == from.Row() {
			sameRank++
		}
	}

	switch {
	case sameFile == 1:
		return string(from.File())
	case sameRank == 1:
		return string(from.Rank())
	default:
		return from.String()
	}
}

// sources returns the squares holding piece from which to is a legal move.
func (b *Board) sources(piece Piece, to Square) []Square {
	var result []Square
	for sq := A1; sq <= H8; sq++ {
		if b.cells[sq] != piece {
			continue
		}
		if containsSquare(legalMoves(b, sq), to) {
			result = append(result, sq)
		}
	}
	return result
}

// ParseSAN resolves algebraic text for color c against b. Check, checkmate
// and capture marks are ignored on input and recomputed on the result.
func ParseSAN(text string, b *Board, c Color) (Move, error) {
	s := strings.TrimRight(strings.TrimSpace(text), "!?")
	s = strings.Map(func(r rune) rune {
		switch r {
		case '+', '#', 'x':
			return -1
		}
		return r
	}, s)

	switch s {
	case kingsideCastle, "0-0":
		return b.parseCastle(text, c, true)
	case queensideCastle, "0-0-0":
		return b.parseCastle(text, c, false)
	}

	if s == "" {
		return Move{}, fmt.Errorf("empty move: %w", ErrInvalidNotation)
	}

	pt := Pawn
	if s[0] >= 'A' && s[0] <= 'Z' {
		var ok bool
		if pt, ok = pieceTypeFromLetter(s[0]); !ok {
			return Move{}, fmt.Errorf("%q: unknown piece %q: %w", text, s[0], ErrInvalidNotation)
		}
		s = s[1:]
	}

	promo := NoPieceType
	if pt == Pawn {
		var err error
		if s, promo, err = splitPromotion(s); err != nil {
			return Move{}, fmt.Errorf("%q: %w", text, err)
		}
	}

	if len(s) < 2 || len(s) > 4 {
		return Move{}, fmt.Errorf("%q: %w", text, ErrInvalidNotation)
	}
	to, err := ParseSquare(s[len(s)-2:])
	if err != nil {
		return Move{}, fmt.Errorf("%q: %w: %w", text, ErrInvalidNotation, err)
	}
	hint := s[:len(s)-2]

	piece := NewPiece(pt, c)
	var candidates []Square
	for _, sq := range b.sources(piece, to) {
		switch len(hint) {
		case 0:
		case 1:
			if hint[0] != sq.File() && hint[0] != sq.Rank() {
				continue
			}
		default:
			if hint != sq.String() {
				continue
			}
		}
		candidates = append(candidates, sq)
	}

	switch len(candidates) {
	case 0:
		return Move{}, fmt.Errorf("%q: no %s %s can move to %s: %w", text, c, pt, to, ErrInvalidNotation)
	case 1:
	default:
		return Move{}, fmt.Errorf("%q: %d %s %ss can move to %s: %w", text, len(candidates), c, pt, to, ErrInvalidNotation)
	}

	if promo != NoPieceType && to.RelativeRow(c) != 7 {
		return Move{}, fmt.Errorf("%q: promotion before the last rank: %w", text, ErrInvalidNotation)
	}
	return b.describe(candidates[0], to, promo), nil
}

// splitPromotion strips a trailing "=Q" or "Q" from pawn move text.
func splitPromotion(s string) (string, PieceType, error) {
	if i := strings.IndexByte(s, '='); i >= 0 {
		if i != len(s)-2 {
			return s, NoPieceType, fmt.Errorf("malformed promotion: %w", ErrInvalidNotation)
		}
		pt, ok := pieceTypeFromLetter(s[i+1])
		if !ok || pt == King {
			return s, NoPieceType, fmt.Errorf("cannot promote to %q: %w", s[i+1], ErrInvalidNotation)
		}
		return s[:i], pt, nil
	}
	if n := len(s); n >= 3 {
		if pt, ok := pieceTypeFromLetter(s[n-1]); ok && pt != King {
			return s[:n-1], pt, nil
		}
	}
	return s, NoPieceType, nil
}

func (b *Board) parseCastle(text string, c Color, kingside bool) (Move, error) {
	from := squareAt(c.homeRow(), 4)
	to := squareAt(c.homeRow(), 2)
	if kingside {
		to = squareAt(c.homeRow(), 6)
	}
	if b.cells[from] != NewPiece(King, c) || !containsSquare(legalMoves(b, from), to) {
		return Move{}, fmt.Errorf("%q: castling not available: %w", text, ErrIllegalMove)
	}
	return b.describe(from, to, NoPieceType), nil
}
