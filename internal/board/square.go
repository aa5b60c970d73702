// Package board implements the chess rules: board state, move generation,
// check detection and algebraic notation.
package board

import "fmt"

// Square represents a square on the chess board (0-63).
// Index = row*8 + column, so A1=0, H1=7, A8=56, H8=63.
type Square uint8

// Square constants for all 64 squares.
const (
	A1 Square = iota
	B1
	C1
	D1
	E1
	F1
	G1
	H1
	A2
	B2
	C2
	D2
	E2
	F2
	G2
	H2
	A3
	B3
	C3
	D3
	E3
	F3
	G3
	H3
	A4
	B4
	C4
	D4
	E4
	F4
	G4
	H4
	A5
	B5
	C5
	D5
	E5
	F5
	G5
	H5
	A6
	B6
	C6
	D6
	E6
	F6
	G6
	H6
	A7
	B7
	C7
	D7
	E7
	F7
	G7
	H7
	A8
	B8
	C8
	D8
	E8
	F8
	G8
	H8
	NoSquare Square = 64
)

// squareNames is built once; String never allocates.
var squareNames [64]string

func init() {
	for sq := A1; sq <= H8; sq++ {
		squareNames[sq] = string([]byte{'a' + byte(sq.Column()), '1' + byte(sq.Row())})
	}
}

// Row returns the row (rank) of the square, 0 for rank 1 through 7 for rank 8.
func (sq Square) Row() int {
	return int(sq) >> 3
}

// Column returns the column (file) of the square, 0 for file a through 7 for file h.
func (sq Square) Column() int {
	return int(sq) & 7
}

// Index returns the linear index of the square.
func (sq Square) Index() int {
	return int(sq)
}

// String returns the algebraic name of the square (e.g., "e4").
func (sq Square) String() string {
	if sq >= NoSquare {
		return "-"
	}
	return squareNames[sq]
}

// File returns the file letter of the square.
func (sq Square) File() byte {
	return 'a' + byte(sq.Column())
}

// Rank returns the rank digit of the square.
func (sq Square) Rank() byte {
	return '1' + byte(sq.Row())
}

// IsValid returns true if the square is one of the 64 board squares.
func (sq Square) IsValid() bool {
	return sq < NoSquare
}

// NewSquare returns the square at row and column (both 0-indexed).
func NewSquare(row, column int) (Square, error) {
	if !onBoard(row, column) {
		return NoSquare, fmt.Errorf("row %d column %d: %w", row, column, ErrOutOfRange)
	}
	return Square(row*8 + column), nil
}

// SquareFromIndex returns the square with the given linear index.
func SquareFromIndex(index int) (Square, error) {
	if index < 0 || index > 63 {
		return NoSquare, fmt.Errorf("index %d: %w", index, ErrOutOfRange)
	}
	return Square(index), nil
}

// ParseSquare parses algebraic notation (e.g., "e4") into a Square.
func ParseSquare(s string) (Square, error) {
	if len(s) != 2 {
		return NoSquare, fmt.Errorf("invalid square %q: %w", s, ErrOutOfRange)
	}

	column := int(s[0]) - 'a'
	row := int(s[1]) - '1'

	if !onBoard(row, column) {
		return NoSquare, fmt.Errorf("invalid square %q: %w", s, ErrOutOfRange)
	}

	return Square(row*8 + column), nil
}

// MustParseSquare is like ParseSquare but panics on malformed input.
// Intended for constants and tests.
func MustParseSquare(s string) Square {
	sq, err := ParseSquare(s)
	if err != nil {
		panic(err)
	}
	return sq
}

// TryMove returns the square offset by deltaRow and deltaCol from sq.
// The second result is false when the target falls off the board.
func (sq Square) TryMove(deltaRow, deltaCol int) (Square, bool) {
	row, column := sq.Row()+deltaRow, sq.Column()+deltaCol
	if !onBoard(row, column) {
		return NoSquare, false
	}
	return Square(row*8 + column), true
}

// Move is like TryMove but reports leaving the board as ErrOutOfRange.
func (sq Square) Move(deltaRow, deltaCol int) (Square, error) {
	to, ok := sq.TryMove(deltaRow, deltaCol)
	if !ok {
		return NoSquare, fmt.Errorf("%s%+d%+d: %w", sq, deltaRow, deltaCol, ErrOutOfRange)
	}
	return to, nil
}

func onBoard(row, column int) bool {
	return row >= 0 && row <= 7 && column >= 0 && column <= 7
}

// RelativeRow returns the row from a given color's perspective.
// For White, row 0 is the 1st rank; for Black, row 0 is the 8th rank.
func (sq Square) RelativeRow(c Color) int {
	if c == White {
		return sq.Row()
	}
	return 7 - sq.Row()
}
