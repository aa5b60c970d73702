package board

import (
	"errors"
	"strings"
	"testing"
)

func TestRender(t *testing.T) {
	tests := []struct {
		name     string
		fen      string
		from, to Square
		want     string
	}{
		{"pawn push", StartFEN, E2, E4, "e4"},
		{"knight", StartFEN, G1, F3, "Nf3"},
		{"file disambiguation b", "4k3/8/8/8/8/5N2/8/1N2K3 w - - 0 1", B1, D2, "Nbd2"},
		{"file disambiguation f", "4k3/8/8/8/8/5N2/8/1N2K3 w - - 0 1", F3, D2, "Nfd2"},
		{"rank disambiguation 1", "4k3/8/8/R7/8/8/8/R3K3 w - - 0 1", A1, A3, "R1a3"},
		{"rank disambiguation 5", "4k3/8/8/R7/8/8/8/R3K3 w - - 0 1", A5, A3, "R5a3"},
		{"square disambiguation", "6k1/8/8/8/8/Q7/8/Q1Q4K w - - 0 1", A1, B2, "Qa1b2"},
		{"rank among three", "6k1/8/8/8/8/Q7/8/Q1Q4K w - - 0 1", A3, B2, "Q3b2"},
		{"file among three", "6k1/8/8/8/8/Q7/8/Q1Q4K w - - 0 1", C1, B2, "Qcb2"},
		{"check", "4k3/8/8/8/8/8/8/R3K3 w - - 0 1", A1, A8, "Ra8+"},
		{"promotion", "8/P6k/8/8/8/8/8/K7 w - - 0 1", A7, A8, "a8=Q"},
		{"kingside castle", "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1", E1, G1, "O-O"},
		{"queenside castle", "r3k2r/8/8/8/8/8/8/R3K2R b KQkq - 0 1", E8, C8, "O-O-O"},
		{"pawn capture", "4k3/8/8/3p4/4P3/8/8/4K3 w - - 0 1", E4, D5, "exd5"},
		{"king", "4k3/8/8/8/8/8/8/R3K3 w - - 0 1", E1, F2, "Kf2"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b := mustFEN(t, tc.fen)
			got, err := Render(tc.from, tc.to, b)
			if err != nil {
				t.Fatalf("Render(%s, %s): %v", tc.from, tc.to, err)
			}
			if got != tc.want {
				t.Errorf("Render(%s, %s) = %q, want %q", tc.from, tc.to, got, tc.want)
			}
		})
	}
}

func TestRenderErrors(t *testing.T) {
	b := NewGame()
	tests := []struct {
		name     string
		from, to Square
		want     error
	}{
		{"off board", NoSquare, E4, ErrOutOfRange},
		{"empty origin", E4, E5, ErrPrecondition},
		{"not a legal destination", E2, E5, ErrIllegalMove},
		{"own piece", D1, D2, ErrIllegalMove},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := Render(tc.from, tc.to, b); !errors.Is(err, tc.want) {
				t.Errorf("Render(%s, %s) error = %v, want %v", tc.from, tc.to, err, tc.want)
			}
		})
	}
}

func TestRenderPromotionChoice(t *testing.T) {
	b := mustFEN(t, "8/P6k/8/8/8/8/8/K7 w - - 0 1")
	got, err := RenderPromotion(A7, A8, Knight, b)
	if err != nil {
		t.Fatal(err)
	}
	if got != "a8=N" {
		t.Errorf("RenderPromotion(a7, a8, N) = %q, want %q", got, "a8=N")
	}

	next, err := b.MoveFromTo(A7, A8, Knight)
	if err != nil {
		t.Fatal(err)
	}
	if next.PieceAt(A8) != WhiteKnight {
		t.Errorf("a8 holds %s, want a white knight", next.PieceAt(A8))
	}

	for _, text := range []string{"a8=R", "a8R"} {
		m, err := ParseSAN(text, b, White)
		if err != nil {
			t.Fatalf("ParseSAN(%q): %v", text, err)
		}
		if m.Promotion != Rook || m.Algebraic != "a8=R" {
			t.Errorf("ParseSAN(%q) = %+v, want a rook promotion", text, m)
		}
	}

	m, err := ParseSAN("a8", b, White)
	if err != nil {
		t.Fatal(err)
	}
	if m.Promotion != Queen {
		t.Errorf("ParseSAN(a8).Promotion = %s, want queen", m.Promotion)
	}
}

func TestParseSAN(t *testing.T) {
	tests := []struct {
		name     string
		fen      string
		text     string
		from, to Square
		want     string
	}{
		{"pawn push", StartFEN, "e4", E2, E4, "e4"},
		{"knight", StartFEN, "Nf3", G1, F3, "Nf3"},
		{"annotations are ignored", StartFEN, " Nc3!? ", B1, C3, "Nc3"},
		{"file hint", "4k3/8/8/8/8/5N2/8/1N2K3 w - - 0 1", "Nbd2", B1, D2, "Nbd2"},
		{"rank hint", "4k3/8/8/R7/8/8/8/R3K3 w - - 0 1", "R5a3", A5, A3, "R5a3"},
		{"square hint", "6k1/8/8/8/8/Q7/8/Q1Q4K w - - 0 1", "Qa1b2", A1, B2, "Qa1b2"},
		{"redundant hint", StartFEN, "Ngf3", G1, F3, "Nf3"},
		{"missing capture mark", "4k3/8/8/3p4/4P3/8/8/4K3 w - - 0 1", "ed5", E4, D5, "exd5"},
		{"missing check mark", "4k3/8/8/8/8/8/8/R3K3 w - - 0 1", "Ra8", A1, A8, "Ra8+"},
		{"zero castling", "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1", "0-0", E1, G1, "O-O"},
		{"king to castling square", "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1", "Kc1", E1, C1, "O-O-O"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b := mustFEN(t, tc.fen)
			m, err := ParseSAN(tc.text, b, b.SideToMove())
			if err != nil {
				t.Fatalf("ParseSAN(%q): %v", tc.text, err)
			}
			if m.From != tc.from || m.To != tc.to || m.Algebraic != tc.want {
				t.Errorf("ParseSAN(%q) = %s-%s %q, want %s-%s %q",
					tc.text, m.From, m.To, m.Algebraic, tc.from, tc.to, tc.want)
			}
		})
	}
}

func TestParseSANErrors(t *testing.T) {
	tests := []struct {
		name  string
		fen   string
		text  string
		color Color
		want  error
	}{
		{"empty", StartFEN, "", White, ErrInvalidNotation},
		{"unknown piece", StartFEN, "Zf3", White, ErrInvalidNotation},
		{"off board", StartFEN, "e9", White, ErrInvalidNotation},
		{"garbage", StartFEN, "hello", White, ErrInvalidNotation},
		{"no such move", StartFEN, "e5", White, ErrInvalidNotation},
		{"other color", StartFEN, "Nf3", Black, ErrInvalidNotation},
		{"ambiguous", "4k3/8/8/8/8/5N2/8/1N2K3 w - - 0 1", "Nd2", White, ErrInvalidNotation},
		{"hint matches nothing", "4k3/8/8/8/8/5N2/8/1N2K3 w - - 0 1", "Ncd2", White, ErrInvalidNotation},
		{"early promotion", StartFEN, "e4=Q", White, ErrInvalidNotation},
		{"promote to king", "8/P6k/8/8/8/8/8/K7 w - - 0 1", "a8=K", White, ErrInvalidNotation},
		{"castling blocked", StartFEN, "O-O", White, ErrIllegalMove},
		{"castling through check", "r3k2r/8/8/8/8/8/5r2/R3K2R w KQkq - 0 1", "O-O", White, ErrIllegalMove},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			b := mustFEN(t, tc.fen)
			if _, err := ParseSAN(tc.text, b, tc.color); !errors.Is(err, tc.want) {
				t.Errorf("ParseSAN(%q) error = %v, want %v", tc.text, err, tc.want)
			}
		})
	}
}

// TestRenderParseRoundTrip renders every legal move in a set of positions and
// checks that parsing the text gives back the same move.
func TestRenderParseRoundTrip(t *testing.T) {
	fens := []string{
		StartFEN,
		"r3k2r/p1ppqpb1/bn2pnp1/3PN3/1p2P3/2N2Q1p/PPPBBPPP/R3K2R w KQkq -",
		"8/2p5/3p4/KP5r/1R3p1k/8/4P1P1/8 w - -",
		"6k1/8/8/8/8/Q7/8/Q1Q4K w - - 0 1",
		"4k3/8/8/8/8/5N2/8/1N2K3 w - - 0 1",
		"8/P6k/8/8/8/8/8/K7 w - - 0 1",
		"8/8/8/8/k2Pp2R/8/8/4K3 b - d3 0 1",
	}
	for _, fen := range fens {
		b := mustFEN(t, fen)
		us := b.SideToMove()
		for from := A1; from <= H8; from++ {
			if p := b.PieceAt(from); p == NoPiece || p.Color() != us {
				continue
			}
			moves, err := LegalMoves(from, b)
			if err != nil {
				t.Fatal(err)
			}
			for _, to := range moves {
				text, err := Render(from, to, b)
				if err != nil {
					t.Fatalf("%s: Render(%s, %s): %v", fen, from, to, err)
				}
				m, err := ParseSAN(text, b, us)
				if err != nil {
					t.Errorf("%s: ParseSAN(%q): %v", fen, text, err)
					continue
				}
				if m.From != from || m.To != to || m.Algebraic != text {
					t.Errorf("%s: %q parsed as %s-%s %q, want %s-%s", fen, text, m.From, m.To, m.Algebraic, from, to)
				}
			}
		}
	}
}

func TestCastling(t *testing.T) {
	const open = "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1"

	t.Run("both sides open", func(t *testing.T) {
		b := mustFEN(t, open)
		moves, err := LegalMoves(E1, b)
		if err != nil {
			t.Fatal(err)
		}
		if !containsSquare(moves, G1) || !containsSquare(moves, C1) {
			t.Errorf("LegalMoves(e1) = %v, want g1 and c1", names(moves))
		}

		b = playAll(t, b, "O-O", "O-O-O")
		want := map[Square]Piece{
			G1: WhiteKing, F1: WhiteRook, E1: NoPiece, H1: NoPiece,
			C8: BlackKing, D8: BlackRook, E8: NoPiece, A8: NoPiece,
		}
		for sq, p := range want {
			if b.PieceAt(sq) != p {
				t.Errorf("%s holds %s, want %s", sq, b.PieceAt(sq), p)
			}
		}
		if s := b.Situation(White); !s.KingMoved {
			t.Errorf("Situation(White) = %+v, want KingMoved", s)
		}
		hist := b.History()
		if len(hist) != 2 || !hist[0].Castling || hist[1].Algebraic != "O-O-O" {
			t.Errorf("history = %+v", hist)
		}
	})

	t.Run("transit square attacked", func(t *testing.T) {
		b := mustFEN(t, "r3k2r/8/8/8/8/8/5r2/R3K2R w KQkq - 0 1")
		moves, err := LegalMoves(E1, b)
		if err != nil {
			t.Fatal(err)
		}
		if containsSquare(moves, G1) {
			t.Error("castling through the attacked f1 square is allowed")
		}
		if !containsSquare(moves, C1) {
			t.Error("queenside castling should still be open")
		}
	})

	t.Run("rook has moved", func(t *testing.T) {
		b := playAll(t, mustFEN(t, open), "Rh2", "Rh7", "Rh1", "Rh8")
		if s := b.Situation(White); !s.HRookMoved || s.ARookMoved || s.KingMoved {
			t.Errorf("Situation(White) = %+v, want only HRookMoved", s)
		}
		moves, err := LegalMoves(E1, b)
		if err != nil {
			t.Fatal(err)
		}
		if containsSquare(moves, G1) {
			t.Error("kingside castling after the h-rook moved")
		}
		if !containsSquare(moves, C1) {
			t.Error("queenside castling should still be open")
		}
		if got := b.FEN(); !strings.Contains(got, " Qq ") {
			t.Errorf("FEN() = %q, want castling field Qq", got)
		}
	})

	t.Run("in check", func(t *testing.T) {
		b := mustFEN(t, "r3k2r/8/8/8/8/8/4r3/R3K2R w KQkq - 0 1")
		if _, err := b.Move("O-O", White); !errors.Is(err, ErrIllegalMove) {
			t.Errorf("castling out of check: error = %v, want ErrIllegalMove", err)
		}
	})
}

func TestBoardMoveErrors(t *testing.T) {
	b := NewGame()

	_, err := b.Move("e5", Black)
	if !errors.Is(err, ErrWrongTurn) || !errors.Is(err, ErrIllegalMove) {
		t.Errorf("Move(e5, Black) error = %v, want ErrWrongTurn", err)
	}
	var moveErr *MoveError
	if !errors.As(err, &moveErr) || moveErr.Text != "e5" || moveErr.Color != Black {
		t.Errorf("Move(e5, Black) error = %#v, want a *MoveError for e5", err)
	}

	if _, err := b.Move("Qh5", White); !errors.Is(err, ErrInvalidNotation) {
		t.Errorf("Move(Qh5) error = %v, want ErrInvalidNotation", err)
	}
	if _, err := b.MoveFromTo(E7, E5, NoPieceType); !errors.Is(err, ErrWrongTurn) {
		t.Errorf("MoveFromTo(e7, e5) error = %v, want ErrWrongTurn", err)
	}
	if _, err := b.MoveFromTo(E2, E5, NoPieceType); !errors.Is(err, ErrIllegalMove) {
		t.Errorf("MoveFromTo(e2, e5) error = %v, want ErrIllegalMove", err)
	}
	if _, err := b.MoveFromTo(E4, E5, NoPieceType); !errors.Is(err, ErrPrecondition) {
		t.Errorf("MoveFromTo(e4, e5) error = %v, want ErrPrecondition", err)
	}
}

func TestBoardIsImmutable(t *testing.T) {
	b := NewGame()
	before := b.FEN()

	next, err := b.Move("e4", White)
	if err != nil {
		t.Fatal(err)
	}
	if b.FEN() != before || len(b.History()) != 0 || b.SideToMove() != White {
		t.Errorf("Move changed its receiver: %s", b.FEN())
	}
	if next.PieceAt(E4) != WhitePawn || next.SideToMove() != Black {
		t.Errorf("unexpected board after e4: %s", next.FEN())
	}

	// Branching from the same board keeps the branches apart.
	a, _ := next.Move("e5", Black)
	c, _ := next.Move("c5", Black)
	if a.PieceAt(C5) != NoPiece || c.PieceAt(E5) != NoPiece {
		t.Error("sibling boards share state")
	}
	if len(a.History()) != 2 || len(c.History()) != 2 || a.History()[1].Algebraic != "e5" {
		t.Error("sibling histories are mixed up")
	}
}

// replay plays a numbered game score and checks that every move renders back
// to the text it was parsed from.
func replay(t *testing.T, score string) *Board {
	t.Helper()
	b := NewGame()
	for _, tok := range strings.Fields(score) {
		if strings.HasSuffix(tok, ".") {
			continue // move numbers
		}
		want := strings.Trim(tok, "!?")
		if strings.HasPrefix(want, "0-0") {
			want = strings.ReplaceAll(want, "0", "O")
		}
		next, err := b.Move(tok, b.SideToMove())
		if err != nil {
			t.Fatalf("the move %q failed: %v\n%s", tok, err, b)
		}
		b = next
		if last, _ := b.LastMove(); last.Algebraic != want {
			t.Errorf("unexpected log entry. want=%q, got=%q", want, last.Algebraic)
		}
	}
	return b
}

func TestFoolsMate(t *testing.T) {
	b := replay(t, "1. f3 e5 2. g4 Qh4#")
	if !IsCheckmated(b, White) {
		t.Error("Expected white to be checkmated")
	}
}

func TestImmortalLosingGame(t *testing.T) {
	replay(t, `1. d4 f5 2. g3 g6 3. Bg2 Bg7 4. Nc3 Nf6 5. Bg5 Nc6 6. Qd2 d6
        7. h4 e6 8. 0-0-0 h6 9. Bf4 Bd7 10. e4 fxe4 11. Nxe4 Nd5 12. Ne2 Qe7
        13. c4 Nb6? 14. c5! dxc5 15. Bxc7! 0-0 16. Bd6 Qf7 17. Bxf8 Rxf8
        18. dxc5 Nd5 19. f4 Rd8 20. N2c3 Ndb4 21. Nd6 Qf8 22. Nxb7 Nd4!
        23. Nxd8 Bb5! 24. Nxe6! Bd3! 25. Bd5! Qf5! 26. Nxd4+ Qxd5!
        27. Nc2! Bxc3 28. bxc3! Qxa2 29. cxb4!`)
}

func TestKasparovsImmortal(t *testing.T) {
	replay(t, `1. e4 d6 2. d4 Nf6 3. Nc3 g6 4. Be3 Bg7 5. Qd2 c6 6. f3 b5
        7. Nge2 Nbd7 8. Bh6 Bxh6 9. Qxh6 Bb7 10. a3 e5 11. 0-0-0 Qe7
        12. Kb1 a6 13. Nc1 0-0-0 14. Nb3 exd4 15. Rxd4 c5 16. Rd1 Nb6
        17. g3 Kb8 18. Na5 Ba8 19. Bh3 d5 20. Qf4+ Ka7 21. Rhe1 d4
        22. Nd5 Nbxd5 23. exd5 Qd6 24. Rxd4 cxd4 25. Re7+ Kb6
        26. Qxd4+ Kxa5 27. b4+ Ka4 28. Qc3 Qxd5 29. Ra7 Bb7 30. Rxb7
        Qc4 31. Qxf6 Kxa3 32. Qxa6+ Kxb4 33. c3+ Kxc3 34. Qa1+ Kd2
        35. Qb2+ Kd1 36. Bf1 Rd2 37. Rd7 Rxd7 38. Bxc4 bxc4 39. Qxh8
        Rd3 40. Qa8 c3 41. Qa4+ Ke1 42. f4 f5 43. Kc1 Rd2 44. Qa7`)
}
