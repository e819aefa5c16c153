// internal/game/view.go
//
// What a browser gets to see: per-cell states and counts plus the game
// header (state, elapsed seconds, remaining flags). Mines stay hidden until
// the game is over.

package game

// CellView is what the presentation layer may know about a cell.
//
// State values:
//   - "hidden", "shown", "flagged" while the game is running;
//   - after a loss: "mine" for unflagged mines, "exploded" for the mine that
//     was clicked, "wrong_flag" for a flag on a safe cell;
//   - after a win: unflagged mines render as "flagged".
//
// Count is only set on shown safe cells.
type CellView struct {
	State string `json:"state"`
	Count int    `json:"count,omitempty"`
}

// View is the observable game state after a click or tick.
type View struct {
	ID             string       `json:"gameId"`
	Rows           int          `json:"rows"`
	Cols           int          `json:"cols"`
	Mines          int          `json:"mines"`
	State          State        `json:"state"`
	ElapsedSeconds int          `json:"elapsedSeconds"`
	RemainingFlags int          `json:"remainingFlags"`
	Cells          [][]CellView `json:"cells"`
}

// View returns the current observable state.
func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

func (s *Session) viewLocked() View {
	b := s.board
	cells := make([][]CellView, b.rows)
	for r := 0; r < b.rows; r++ {
		cells[r] = make([]CellView, b.cols)
		for c := 0; c < b.cols; c++ {
			cells[r][c] = s.cellView(r, c, b.cells[r*b.cols+c])
		}
	}
	return View{
		ID:             s.ID,
		Rows:           b.rows,
		Cols:           b.cols,
		Mines:          s.Config.Mines,
		State:          s.state,
		ElapsedSeconds: s.elapsed,
		RemainingFlags: s.remainingLocked(),
		Cells:          cells,
	}
}

func (s *Session) cellView(r, c int, cell Cell) CellView {
	switch s.state {
	case StateLose:
		switch {
		case s.exploded != nil && *s.exploded == (Position{Row: r, Col: c}):
			return CellView{State: "exploded"}
		case cell.IsMine() && cell.Visibility != Flagged:
			return CellView{State: "mine"}
		case !cell.IsMine() && cell.Visibility == Flagged:
			return CellView{State: "wrong_flag"}
		}
	case StateWin:
		if cell.IsMine() {
			return CellView{State: Flagged.String()}
		}
	}
	v := CellView{State: cell.Visibility.String()}
	if cell.Visibility == Shown && !cell.IsMine() {
		v.Count = int(cell.AdjacentMines)
	}
	return v
}
