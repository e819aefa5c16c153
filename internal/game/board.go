// internal/game/board.go
//
// Board is a fixed rows × cols grid of cells stored row-major.
// Lookups outside the grid report ok=false and mutations outside the grid are
// silent no-ops.

package game

import (
	"strconv"
	"strings"

	"github.com/zyedidia/generic/mapset"
)

// Board holds the cells of one game.
type Board struct {
	rows, cols int
	cells      []Cell
}

// NewBoard returns a board with every cell unknown and hidden.
func NewBoard(rows, cols int) *Board {
	if rows < 0 {
		rows = 0
	}
	if cols < 0 {
		cols = 0
	}
	return &Board{rows: rows, cols: cols, cells: make([]Cell, rows*cols)}
}

func (b *Board) Rows() int { return b.rows }
func (b *Board) Cols() int { return b.cols }

// In reports whether (row, col) lies on the board.
func (b *Board) In(row, col int) bool {
	return row >= 0 && row < b.rows && col >= 0 && col < b.cols
}

// At returns the cell at (row, col).
func (b *Board) At(row, col int) (Cell, bool) {
	if !b.In(row, col) {
		return Cell{}, false
	}
	return b.cells[row*b.cols+col], true
}

func (b *Board) set(row, col int, c Cell) {
	if !b.In(row, col) {
		return
	}
	b.cells[row*b.cols+col] = c
}

// Clone returns an independent copy.
func (b *Board) Clone() *Board {
	out := &Board{rows: b.rows, cols: b.cols, cells: make([]Cell, len(b.cells))}
	copy(out.cells, b.cells)
	return out
}

// Equal reports whether both boards have the same shape and cells.
func (b *Board) Equal(o *Board) bool {
	if b.rows != o.rows || b.cols != o.cols {
		return false
	}
	for i := range b.cells {
		if b.cells[i] != o.cells[i] {
			return false
		}
	}
	return true
}

// eachNeighbor calls fn for the up-to-8 cells around (row, col), clipped at
// the edges.
func (b *Board) eachNeighbor(row, col int, fn func(r, c int)) {
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			if dr == 0 && dc == 0 {
				continue
			}
			r, c := row+dr, col+dc
			if b.In(r, c) {
				fn(r, c)
			}
		}
	}
}

// Populate lays the mine set onto the board and counts, for every non-mine
// cell, the mines in its 8-neighbourhood. Visibility is left untouched.
func (b *Board) Populate(mines mapset.Set[Position]) {
	for r := 0; r < b.rows; r++ {
		for c := 0; c < b.cols; c++ {
			cell := b.cells[r*b.cols+c]
			if mines.Has(Position{r, c}) {
				cell.Kind, cell.AdjacentMines = KindMine, 0
				b.cells[r*b.cols+c] = cell
				continue
			}
			var n uint8
			b.eachNeighbor(r, c, func(nr, nc int) {
				if mines.Has(Position{nr, nc}) {
					n++
				}
			})
			cell.Kind, cell.AdjacentMines = KindEmpty, n
			b.cells[r*b.cols+c] = cell
		}
	}
}

// FlaggedCount counts flagged cells.
func (b *Board) FlaggedCount() int {
	n := 0
	for _, c := range b.cells {
		if c.Visibility == Flagged {
			n++
		}
	}
	return n
}

// Cleared reports whether every non-mine cell is shown. Flags are not
// required; a board that has never been populated is never cleared.
func (b *Board) Cleared() bool {
	if len(b.cells) == 0 {
		return false
	}
	for _, c := range b.cells {
		if c.Kind == KindUnknown {
			return false
		}
		if c.Kind != KindMine && c.Visibility != Shown {
			return false
		}
	}
	return true
}

// String renders the board for debugging: ? hidden, ! flagged, . shown zero,
// 1-8 shown numbers, * shown mine.
func (b *Board) String() string {
	var sb strings.Builder
	for r := 0; r < b.rows; r++ {
		for c := 0; c < b.cols; c++ {
			if c > 0 {
				sb.WriteByte(' ')
			}
			cell := b.cells[r*b.cols+c]
			switch {
			case cell.Visibility == Flagged:
				sb.WriteByte('!')
			case cell.Visibility == Hidden:
				sb.WriteByte('?')
			case cell.IsMine():
				sb.WriteByte('*')
			case cell.AdjacentMines == 0:
				sb.WriteByte('.')
			default:
				sb.WriteString(strconv.Itoa(int(cell.AdjacentMines)))
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
