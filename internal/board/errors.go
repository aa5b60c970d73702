package board

import (
	"errors"
	"fmt"
)

// Sentinel errors. Check with errors.Is.
var (
	// ErrOutOfRange indicates a square outside the 8x8 board.
	ErrOutOfRange = errors.New("square out of range")

	// ErrPrecondition indicates a caller bug, e.g. asking for the moves
	// of an empty square or of the wrong piece kind.
	ErrPrecondition = errors.New("precondition violated")

	// ErrInvalidNotation indicates algebraic text that is malformed,
	// ambiguous, or names no piece that can make the move.
	ErrInvalidNotation = errors.New("ambiguous or invalid notation")

	// ErrIllegalMove indicates a well-formed move that is not legal.
	ErrIllegalMove = errors.New("illegal move")

	// ErrWrongTurn indicates a move by the side not on move.
	ErrWrongTurn = fmt.Errorf("not on move: %w", ErrIllegalMove)

	// ErrInvalidFEN indicates a malformed FEN string.
	ErrInvalidFEN = errors.New("invalid FEN string")
)

// MoveError wraps a move failure with the text and side that produced it.
type MoveError struct {
	Text  string // The move as given (SAN or coordinates)
	Color Color  // The side attempting the move
	Err   error  // The underlying error
}

// Error returns a message like `White "Qxf7#": illegal move`.
func (e *MoveError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s %q", e.Color, e.Text)
	}
	return fmt.Sprintf("%s %q: %v", e.Color, e.Text, e.Err)
}

// Unwrap returns the underlying error.
func (e *MoveError) Unwrap() error {
	return e.Err
}
