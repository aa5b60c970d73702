package board

import (
	"fmt"
	"sync"
)

// RangeStore persists the checkable-range index between runs.
// Rows are indexed by target square; each row lists square indices.
type RangeStore interface {
	LoadRanges() ([][]int, error)
	SaveRanges(ranges [][]int) error
}

// The checkable-range index: for each square, every square from which some
// piece could reach it in one move on an empty board (queen rays plus knight
// jumps). It only prunes the check scan and never changes its result.
var (
	rangesOnce sync.Once
	ranges     [64][]Square
)

func checkableRange(sq Square) []Square {
	rangesOnce.Do(func() {
		ranges = buildCheckableRanges()
	})
	return ranges[sq]
}

// CheckableRange returns a copy of the checkable range of sq.
func CheckableRange(sq Square) []Square {
	r := checkableRange(sq)
	out := make([]Square, len(r))
	copy(out, r)
	return out
}

// WarmCheckableRanges initializes the index from store. A stored table is
// used only when every row holds the same squares as a fresh build; a
// missing, malformed or stale table is rebuilt and written back. Once the
// index exists, later calls do nothing.
func WarmCheckableRanges(store RangeStore) error {
	var err error
	rangesOnce.Do(func() {
		built := buildCheckableRanges()
		if rows, loadErr := store.LoadRanges(); loadErr == nil {
			if table, convErr := rangesFromRows(rows); convErr == nil && sameRanges(table, built) {
				ranges = table
				return
			}
		}
		ranges = built
		err = store.SaveRanges(rowsFromTable(built))
	})
	return err
}

// CheckableRangeRows returns the index as plain integer rows.
func CheckableRangeRows() [][]int {
	checkableRange(A1)
	return rowsFromTable(ranges)
}

func rowsFromTable(table [64][]Square) [][]int {
	rows := make([][]int, 64)
	for i, r := range table {
		rows[i] = make([]int, len(r))
		for j, sq := range r {
			rows[i][j] = int(sq)
		}
	}
	return rows
}

func buildCheckableRanges() [64][]Square {
	var table [64][]Square
	for sq := A1; sq <= H8; sq++ {
		var r []Square
		for _, d := range queenDirections {
			for dist := 1; dist < 8; dist++ {
				to, ok := sq.TryMove(d[0]*dist, d[1]*dist)
				if !ok {
					break
				}
				r = append(r, to)
			}
		}
		for _, o := range knightOffsets {
			if to, ok := sq.TryMove(o[0], o[1]); ok {
				r = append(r, to)
			}
		}
		table[sq] = r
	}
	return table
}

func rangesFromRows(rows [][]int) ([64][]Square, error) {
	var table [64][]Square
	if len(rows) != 64 {
		return table, fmt.Errorf("checkable ranges: want 64 rows, got %d", len(rows))
	}
	for i, row := range rows {
		if len(row) == 0 {
			return table, fmt.Errorf("checkable ranges: row %d is empty", i)
		}
		table[i] = make([]Square, len(row))
		for j, idx := range row {
			sq, err := SquareFromIndex(idx)
			if err != nil {
				return table, fmt.Errorf("checkable ranges: row %d: %w", i, err)
			}
			table[i][j] = sq
		}
	}
	return table, nil
}

// sameRanges reports whether every row of a holds the same squares as the
// matching row of b, in any order.
func sameRanges(a, b [64][]Square) bool {
	for i := range a {
		if len(a[i]) != len(b[i]) {
			return false
		}
		var seen [64]bool
		for _, sq := range b[i] {
			seen[sq] = true
		}
		for _, sq := range a[i] {
			if !seen[sq] {
				return false
			}
			seen[sq] = false
		}
	}
	return true
}
