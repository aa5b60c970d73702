package board

import (
	"context"
	"runtime"
	"sync"

	"golang.org/x/sync/errgroup"
)

var promotionChoices = [...]PieceType{Queen, Rook, Bishop, Knight}

// Perft counts the leaf nodes of the legal move tree to the given depth.
// Each promotion choice counts as its own move.
func Perft(b *Board, depth int) uint64 {
	if depth == 0 {
		return 1
	}
	var nodes uint64
	b.eachLegal(func(from, to Square, promo PieceType) {
		if depth == 1 {
			nodes++
			return
		}
		nodes += Perft(b.advance(from, to, promo), depth-1)
	})
	return nodes
}

// Divide runs Perft below each root move on up to workers goroutines and
// returns the counts keyed by coordinate move ("e2e4", "e7e8n").
// workers <= 0 means one per CPU.
func Divide(ctx context.Context, b *Board, depth, workers int) (map[string]uint64, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if depth < 1 {
		depth = 1
	}

	var (
		mu     sync.Mutex
		result = make(map[string]uint64)
	)
	table := &perftTable{entries: make(map[perftKey]uint64)}
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	b.eachLegal(func(from, to Square, promo PieceType) {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			next := b.advance(from, to, promo)
			key := next.history[len(next.history)-1].String()
			n := table.perft(next, depth-1)
			mu.Lock()
			result[key] = n
			mu.Unlock()
			return nil
		})
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return result, nil
}

type perftKey struct {
	hash  uint64
	depth int
}

// perftTable shares subtree counts between Divide workers, so a position
// reached through different move orders is only counted once.
type perftTable struct {
	mu      sync.Mutex
	entries map[perftKey]uint64
}

func (t *perftTable) perft(b *Board, depth int) uint64 {
	if depth <= 1 {
		return Perft(b, depth)
	}
	key := perftKey{hash: b.Hash(), depth: depth}
	t.mu.Lock()
	n, ok := t.entries[key]
	t.mu.Unlock()
	if ok {
		return n
	}

	b.eachLegal(func(from, to Square, promo PieceType) {
		n += t.perft(b.advance(from, to, promo), depth-1)
	})

	t.mu.Lock()
	t.entries[key] = n
	t.mu.Unlock()
	return n
}

// eachLegal calls fn for every legal move of the side to move, once per
// promotion choice. promo is NoPieceType for other moves.
func (b *Board) eachLegal(fn func(from, to Square, promo PieceType)) {
	us := b.toMove
	for from := A1; from <= H8; from++ {
		piece := b.cells[from]
		if piece == NoPiece || piece.Color() != us {
			continue
		}
		for _, to := range legalMoves(b, from) {
			if piece.Type() == Pawn && to.RelativeRow(us) == 7 {
				for _, promo := range promotionChoices {
					fn(from, to, promo)
				}
				continue
			}
			fn(from, to, NoPieceType)
		}
	}
}

// advance plays a known legal move without describing it. The record it
// appends has no check flags or SAN, which move generation never reads.
func (b *Board) advance(from, to Square, promo PieceType) *Board {
	m := Move{Piece: b.cells[from], From: from, To: to, Promotion: NoPieceType}
	if m.Piece.Type() == Pawn && to.RelativeRow(m.Piece.Color()) == 7 {
		m.Promotion = promotionPiece(promo)
	}
	return b.play(m)
}
