// internal/game/reveal.go
//
// Cell-level rules that mutate a board: reveal with flood fill, flag toggle
// and chord. None of them know about game state; the session decides when a
// click is allowed and what a mine means.

package game

import "github.com/gammazero/deque"

// Reveal shows (row, col) and returns how many cells became visible.
//
// Out-of-range, shown and flagged targets are no-ops. A mine target is shown
// but never cascades; detecting the loss is the caller's job. A non-mine with
// no adjacent mines opens its 8 neighbours, and so on through the connected
// zero region and its numbered border. The fill walks an explicit FIFO
// frontier so board size does not bound call depth.
func (b *Board) Reveal(row, col int) int {
	cell, ok := b.At(row, col)
	if !ok || cell.Visibility != Hidden {
		return 0
	}
	cell.Visibility = Shown
	b.set(row, col, cell)
	if cell.IsMine() || cell.AdjacentMines > 0 {
		return 1
	}

	// cells are marked shown when queued, so each is queued at most once
	opened := 1
	var frontier deque.Deque[Position]
	frontier.PushBack(Position{row, col})
	for frontier.Len() > 0 {
		p := frontier.PopFront()
		b.eachNeighbor(p.Row, p.Col, func(r, c int) {
			n := &b.cells[r*b.cols+c]
			if n.Visibility != Hidden {
				return
			}
			n.Visibility = Shown
			opened++
			if !n.IsMine() && n.AdjacentMines == 0 {
				frontier.PushBack(Position{r, c})
			}
		})
	}
	return opened
}

// ToggleFlag flags or unflags a hidden cell and returns the change in the
// number of flags placed (-1, 0 or +1). A new flag is refused when remaining
// is 0; shown and out-of-range cells are no-ops.
func (b *Board) ToggleFlag(row, col, remaining int) int {
	cell, ok := b.At(row, col)
	if !ok {
		return 0
	}
	switch cell.Visibility {
	case Flagged:
		cell.Visibility = Hidden
		b.set(row, col, cell)
		return -1
	case Hidden:
		if remaining <= 0 {
			return 0
		}
		cell.Visibility = Flagged
		b.set(row, col, cell)
		return 1
	}
	return 0
}

// chordTargets returns the hidden, unflagged neighbours of a shown number
// whose flagged-neighbour count matches it. Anything else yields nil.
func (b *Board) chordTargets(row, col int) []Position {
	cell, ok := b.At(row, col)
	if !ok || cell.Visibility != Shown || cell.IsMine() || cell.AdjacentMines == 0 {
		return nil
	}
	var flags uint8
	var hidden []Position
	b.eachNeighbor(row, col, func(r, c int) {
		switch b.cells[r*b.cols+c].Visibility {
		case Flagged:
			flags++
		case Hidden:
			hidden = append(hidden, Position{r, c})
		}
	})
	if flags != cell.AdjacentMines {
		return nil
	}
	return hidden
}
