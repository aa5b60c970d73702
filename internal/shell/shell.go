// Package shell implements a line-oriented command interface to the rules:
// set up positions, play moves in algebraic or coordinate form, and query
// legal moves and game status.
package shell

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/hailam/chessrules/internal/board"
)

// Shell holds the current game and writes all output to out.
type Shell struct {
	out     io.Writer
	board   *board.Board
	workers int
}

// New creates a shell with the starting position. workers bounds the
// goroutines used by perft; 0 means one per CPU.
func New(out io.Writer, workers int) *Shell {
	return &Shell{
		out:     out,
		board:   board.NewGame(),
		workers: workers,
	}
}

// Board returns the current position.
func (s *Shell) Board() *board.Board {
	return s.board
}

// Run reads commands from in until EOF, quit, or ctx is done.
func (s *Shell) Run(ctx context.Context, in io.Reader) error {
	scanner := bufio.NewScanner(in)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !s.Execute(ctx, scanner.Text()) {
			return nil
		}
	}
	return scanner.Err()
}

// Execute runs one command line and reports whether the shell should keep
// reading.
func (s *Shell) Execute(ctx context.Context, line string) bool {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return true
	}
	cmd := parts[0]
	args := parts[1:]

	switch cmd {
	case "newgame":
		s.board = board.NewGame()
	case "position":
		s.handlePosition(args)
	case "move":
		s.handleMove(args)
	case "moves":
		s.handleMoves(args)
	case "status":
		fmt.Fprintln(s.out, status(s.board))
	case "history":
		s.handleHistory()
	case "fen":
		fmt.Fprintln(s.out, s.board.FEN())
	case "d":
		fmt.Fprintln(s.out, s.board.String())
	case "perft":
		s.handlePerft(ctx, args)
	case "help":
		s.handleHelp()
	case "quit":
		return false
	default:
		s.errorf("unknown command %q", cmd)
	}
	return true
}

func (s *Shell) errorf(format string, args ...any) {
	fmt.Fprintf(s.out, "error: "+format+"\n", args...)
}

// handlePosition parses and sets up a position.
// Formats:
//   - position startpos
//   - position startpos moves e4 e5
//   - position fen <fen>
//   - position fen <fen> moves Nf3 e7e5
//
// The current game is only replaced when the whole command succeeds.
func (s *Shell) handlePosition(args []string) {
	if len(args) == 0 {
		s.errorf("position needs startpos or fen")
		return
	}

	setup, moves := args, []string(nil)
	for i, arg := range args {
		if arg == "moves" {
			setup, moves = args[:i], args[i+1:]
			break
		}
	}

	var b *board.Board
	switch args[0] {
	case "startpos":
		b = board.NewGame()
	case "fen":
		pos, err := board.ParseFEN(strings.Join(setup[1:], " "))
		if err != nil {
			s.errorf("%v", err)
			return
		}
		b = pos
	default:
		s.errorf("position needs startpos or fen, got %q", args[0])
		return
	}

	for _, text := range moves {
		next, err := play(b, text)
		if err != nil {
			s.errorf("%v", err)
			return
		}
		b = next
	}
	s.board = b
}

// handleMove plays one move and prints its algebraic form.
func (s *Shell) handleMove(args []string) {
	if len(args) != 1 {
		s.errorf("usage: move <san|coordinates>")
		return
	}
	next, err := play(s.board, args[0])
	if err != nil {
		s.errorf("%v", err)
		return
	}
	s.board = next

	last, _ := next.LastMove()
	fmt.Fprintln(s.out, last.Algebraic)
	switch us := next.SideToMove(); {
	case next.Situation(us).InCheckmate:
		fmt.Fprintf(s.out, "checkmate, %s wins\n", us.Other())
	case board.IsStalemated(next, us):
		fmt.Fprintln(s.out, "stalemate")
	}
}

// promotionChoices are listed for every promoting pawn move.
var promotionChoices = []board.PieceType{board.Queen, board.Rook, board.Bishop, board.Knight}

// handleMoves lists the legal moves of one piece, or of the side to move.
func (s *Shell) handleMoves(args []string) {
	var from []board.Square
	switch len(args) {
	case 0:
		us := s.board.SideToMove()
		for sq := board.A1; sq <= board.H8; sq++ {
			if p := s.board.PieceAt(sq); p != board.NoPiece && p.Color() == us {
				from = append(from, sq)
			}
		}
	case 1:
		sq, err := board.ParseSquare(args[0])
		if err != nil {
			s.errorf("%v", err)
			return
		}
		from = append(from, sq)
	default:
		s.errorf("usage: moves [square]")
		return
	}

	var sans []string
	for _, sq := range from {
		targets, err := board.LegalMoves(sq, s.board)
		if err != nil {
			s.errorf("%v", err)
			return
		}
		piece := s.board.PieceAt(sq)
		for _, to := range targets {
			promos := []board.PieceType{board.NoPieceType}
			if piece.Type() == board.Pawn && to.RelativeRow(piece.Color()) == 7 {
				promos = promotionChoices
			}
			for _, promo := range promos {
				san, err := board.RenderPromotion(sq, to, promo, s.board)
				if err != nil {
					s.errorf("%v", err)
					return
				}
				sans = append(sans, san)
			}
		}
	}
	fmt.Fprintln(s.out, strings.Join(sans, " "))
}

// handleHistory prints the game so far in numbered algebraic notation.
func (s *Shell) handleHistory() {
	hist := s.board.History()
	n := s.board.FullMoveNumber()
	for _, m := range hist {
		if m.Piece.Color() == board.Black {
			n--
		}
	}

	var sb strings.Builder
	for i, m := range hist {
		if i > 0 {
			sb.WriteByte(' ')
		}
		switch {
		case m.Piece.Color() == board.White:
			fmt.Fprintf(&sb, "%d. ", n)
		case i == 0:
			fmt.Fprintf(&sb, "%d... ", n)
		}
		sb.WriteString(m.Algebraic)
		if m.Piece.Color() == board.Black {
			n++
		}
	}
	fmt.Fprintln(s.out, sb.String())
}

func (s *Shell) handlePerft(ctx context.Context, args []string) {
	depth := 3
	if len(args) > 0 {
		d, err := strconv.Atoi(args[0])
		if err != nil || d < 1 {
			s.errorf("invalid depth %q", args[0])
			return
		}
		depth = d
	}

	start := time.Now()
	counts, err := board.Divide(ctx, s.board, depth, s.workers)
	if err != nil {
		s.errorf("%v", err)
		return
	}
	elapsed := time.Since(start)

	keys := make([]string, 0, len(counts))
	var nodes uint64
	for k, n := range counts {
		keys = append(keys, k)
		nodes += n
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(s.out, "%s: %d\n", k, counts[k])
	}
	fmt.Fprintf(s.out, "\nNodes: %d\n", nodes)
	fmt.Fprintf(s.out, "Time: %v\n", elapsed)
}

func (s *Shell) handleHelp() {
	fmt.Fprint(s.out, `commands:
  newgame                          start a new game
  position startpos [moves ...]    set up the starting position
  position fen <fen> [moves ...]   set up a position from FEN
  move <san|coordinates>           play a move (e.g. Nf3, e7e8q)
  moves [square]                   list legal moves
  status                           side to move, check, mate, stalemate
  history                          moves played so far
  fen                              print the position as FEN
  d                                draw the board
  perft [depth]                    count move-tree leaves per root move
  quit                             exit
`)
}

// play applies text as a coordinate move when it looks like one, and as
// algebraic notation otherwise.
func play(b *board.Board, text string) (*board.Board, error) {
	if from, to, promo, ok := parseCoordinates(text); ok {
		return b.MoveFromTo(from, to, promo)
	}
	return b.Move(text, b.SideToMove())
}

// parseCoordinates reads "e2e4" or "e7e8q".
func parseCoordinates(text string) (board.Square, board.Square, board.PieceType, bool) {
	if len(text) != 4 && len(text) != 5 {
		return board.NoSquare, board.NoSquare, board.NoPieceType, false
	}
	from, err := board.ParseSquare(text[0:2])
	if err != nil {
		return board.NoSquare, board.NoSquare, board.NoPieceType, false
	}
	to, err := board.ParseSquare(text[2:4])
	if err != nil {
		return board.NoSquare, board.NoSquare, board.NoPieceType, false
	}

	promo := board.NoPieceType
	if len(text) == 5 {
		switch text[4] {
		case 'q':
			promo = board.Queen
		case 'r':
			promo = board.Rook
		case 'b':
			promo = board.Bishop
		case 'n':
			promo = board.Knight
		default:
			return board.NoSquare, board.NoSquare, board.NoPieceType, false
		}
	}
	return from, to, promo, true
}

// status describes whose turn it is and any check, mate or stalemate.
func status(b *board.Board) string {
	us := b.SideToMove()
	s := b.Situation(us)
	switch {
	case s.InCheckmate:
		return fmt.Sprintf("%s to move, checkmate", us)
	case s.InCheck:
		return fmt.Sprintf("%s to move, check", us)
	case board.IsStalemated(b, us):
		return fmt.Sprintf("%s to move, stalemate", us)
	}
	return fmt.Sprintf("%s to move", us)
}
