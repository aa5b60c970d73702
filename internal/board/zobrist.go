package board

// Zobrist keys for position hashing, generated from a fixed seed so hashes
// are stable across runs.
var (
	zobristPiece      [12][64]uint64
	zobristEnPassant  [8]uint64  // one per file
	zobristCastling   [16]uint64 // every combination of castlingRights
	zobristSideToMove uint64     // XORed in when Black is to move
)

func init() {
	initZobrist()
}

// Simple PRNG for reproducible Zobrist keys
type prng struct {
	state uint64
}

// xorshift64* algorithm
func (p *prng) next() uint64 {
	p.state ^= p.state >> 12
	p.state ^= p.state << 25
	p.state ^= p.state >> 27
	return p.state * 0x2545F4914F6CDD1D
}

func initZobrist() {
	rng := &prng{state: 0x98F107A2BEEF1234}

	for p := WhitePawn; p <= BlackKing; p++ {
		for sq := A1; sq <= H8; sq++ {
			zobristPiece[p][sq] = rng.next()
		}
	}
	for file := range zobristEnPassant {
		zobristEnPassant[file] = rng.next()
	}
	for i := range zobristCastling {
		zobristCastling[i] = rng.next()
	}
	zobristSideToMove = rng.next()
}

// castlingRights packs the castling availability into four bits:
// 1 White kingside, 2 White queenside, 4 Black kingside, 8 Black queenside.
type castlingRights uint8

// castlingRights derives availability from the moved-flags and the pieces
// still standing on their home squares.
func (b *Board) castlingRights() castlingRights {
	var cr castlingRights
	for _, c := range [2]Color{White, Black} {
		sit := b.situations[c]
		row := c.homeRow()
		if sit.KingMoved || b.cells[squareAt(row, 4)] != NewPiece(King, c) {
			continue
		}
		rook := NewPiece(Rook, c)
		shift := 2 * uint(c)
		if !sit.HRookMoved && b.cells[squareAt(row, 7)] == rook {
			cr |= 1 << shift
		}
		if !sit.ARookMoved && b.cells[squareAt(row, 0)] == rook {
			cr |= 2 << shift
		}
	}
	return cr
}

// Hash returns the Zobrist hash of everything that decides the legal moves
// from here: placement, side to move, castling rights and en passant file.
// Two boards reached by different move orders hash alike.
func (b *Board) Hash() uint64 {
	var h uint64
	for sq := A1; sq <= H8; sq++ {
		if p := b.cells[sq]; p != NoPiece {
			h ^= zobristPiece[p][sq]
		}
	}
	if b.toMove == Black {
		h ^= zobristSideToMove
	}
	h ^= zobristCastling[b.castlingRights()]
	if last, ok := b.LastMove(); ok && last.IsDoublePawnPush() {
		h ^= zobristEnPassant[last.To.Column()]
	}
	return h
}
