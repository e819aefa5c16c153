// internal/game/engine.go
//
// Core game engine for a single Minesweeper session.
// Responsibilities:
//   - Create sessions from a validated Config (fails fast on boards that
//     cannot hold their mines plus a safe first cell).
//   - Generate mines on the first left click, excluding the clicked cell.
//   - Apply clicks: reveal, flag toggle, chord.
//   - Track state transitions: start → playing → win/lose.
//   - Run the elapsed-seconds clock while playing; stop it exactly once.
//
// Notes:
//   - Every mutation, including clock ticks, runs under the session mutex.
//   - Out-of-range clicks and clicks on a finished game are ignored.
package game

import (
	"fmt"
	"math/rand/v2"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/zyedidia/generic/mapset"
)

// Session is one game: board, state, mines, flags and the elapsed counter.
type Session struct {
	ID     string
	Config Config
	Seed   uint64
	Daily  string // YYYY-MM-DD for a daily board, empty otherwise

	mu       sync.Mutex
	board    *Board
	state    State
	mines    mapset.Set[Position] // nil until the first reveal
	layout   []Position           // fixed layout, used instead of the generator
	exploded *Position
	flags    int
	elapsed  int
	rng      *rand.Rand
	clock    Clock
	stop     func()
	closed   bool
	now      func() time.Time
	touched  time.Time
}

// Option customises a new session.
type Option func(*Session)

// WithSeed fixes the mine generator seed.
func WithSeed(seed uint64) Option {
	return func(s *Session) { s.Seed = seed }
}

// WithClock replaces the system clock.
func WithClock(c Clock) Option {
	return func(s *Session) { s.clock = c }
}

// WithID sets the session id instead of generating one.
func WithID(id string) Option {
	return func(s *Session) { s.ID = id }
}

// WithDaily marks the session as the daily board for date.
func WithDaily(date string) Option {
	return func(s *Session) { s.Daily = date }
}

// WithMines fixes the mine layout. If the first click lands on one of these
// mines it is moved to the first free cell in row-major order.
func WithMines(mines ...Position) Option {
	return func(s *Session) { s.layout = append([]Position(nil), mines...) }
}

// NewSession creates a game in the start state with an all-hidden board.
func NewSession(cfg Config, opts ...Option) (*Session, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	s := &Session{
		Config: cfg,
		Seed:   rand.Uint64(),
		board:  NewBoard(cfg.Rows, cfg.Cols),
		state:  StateStart,
		clock:  SystemClock{},
		now:    time.Now,
	}
	for _, o := range opts {
		o(s)
	}
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.layout != nil {
		if err := s.checkLayout(); err != nil {
			return nil, err
		}
	}
	s.rng = newRand(s.Seed)
	s.touched = s.now()
	return s, nil
}

func (s *Session) checkLayout() error {
	if len(s.layout) != s.Config.Mines {
		return fmt.Errorf("%w: layout has %d mines, config wants %d", ErrInvalidConfig, len(s.layout), s.Config.Mines)
	}
	seen := mapset.New[Position]()
	for _, p := range s.layout {
		if !s.board.In(p.Row, p.Col) {
			return fmt.Errorf("%w: mine at (%d,%d) is off the board", ErrInvalidConfig, p.Row, p.Col)
		}
		if seen.Has(p) {
			return fmt.Errorf("%w: duplicate mine at (%d,%d)", ErrInvalidConfig, p.Row, p.Col)
		}
		seen.Put(p)
	}
	return nil
}

// HandleClick applies one click and returns the resulting view.
func (s *Session) HandleClick(row, col int, button Button) View {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.touched = s.now()
	s.apply(row, col, button)
	return s.viewLocked()
}

func (s *Session) apply(row, col int, button Button) {
	if s.closed || s.state.Terminal() || !s.board.In(row, col) {
		return
	}
	switch s.state {
	case StateStart:
		// flagging before the first reveal is not allowed
		if button == ButtonLeft {
			s.begin(Position{Row: row, Col: col})
		}
	case StatePlaying:
		switch button {
		case ButtonLeft:
			s.open(row, col)
		case ButtonRight:
			s.flags += s.board.ToggleFlag(row, col, s.remainingLocked())
		case ButtonChord:
			for _, p := range s.board.chordTargets(row, col) {
				s.open(p.Row, p.Col)
				if s.state != StatePlaying {
					break
				}
			}
		}
	}
}

// begin is the one-time start → playing transition.
func (s *Session) begin(first Position) {
	s.mines = s.placeMines(first)
	s.board.Populate(s.mines)
	s.state = StatePlaying
	s.stop = s.clock.Every(time.Second, s.tick)
	s.board.Reveal(first.Row, first.Col)
	if s.board.Cleared() {
		s.finish(StateWin)
	}
}

func (s *Session) placeMines(first Position) mapset.Set[Position] {
	if s.layout == nil {
		return GenerateMines(s.rng, s.Config.Rows, s.Config.Cols, s.Config.Mines, first)
	}
	mines := mapset.New[Position]()
	moved := false
	for _, p := range s.layout {
		if p == first {
			moved = true
			continue
		}
		mines.Put(p)
	}
	if moved {
		for i := 0; i < s.Config.Rows*s.Config.Cols; i++ {
			p := Position{Row: i / s.Config.Cols, Col: i % s.Config.Cols}
			if p != first && !mines.Has(p) {
				mines.Put(p)
				break
			}
		}
	}
	return mines
}

// open is a left click on a populated board.
func (s *Session) open(row, col int) {
	cell, ok := s.board.At(row, col)
	if !ok || cell.Visibility != Hidden {
		return
	}
	if cell.IsMine() {
		s.exploded = &Position{Row: row, Col: col}
		s.finish(StateLose)
		return
	}
	s.board.Reveal(row, col)
	if s.board.Cleared() {
		s.finish(StateWin)
	}
}

func (s *Session) finish(st State) {
	s.state = st
	s.stopClock()
}

func (s *Session) stopClock() {
	if s.stop != nil {
		s.stop()
		s.stop = nil
	}
}

// tick advances the elapsed counter. Ticks that arrive after the game ended
// or the session was closed are dropped.
func (s *Session) tick() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.state != StatePlaying {
		return
	}
	s.elapsed++
}

// Close stops the clock without changing the game state. Further clicks are
// ignored.
func (s *Session) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.stopClock()
}

func (s *Session) remainingLocked() int { return s.Config.Mines - s.flags }

// State returns the current game state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Elapsed returns whole seconds spent playing.
func (s *Session) Elapsed() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.elapsed
}

// RemainingFlags is the flag budget left: mines minus flags placed.
func (s *Session) RemainingFlags() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.remainingLocked()
}

// Board returns a copy of the board.
func (s *Session) Board() *Board {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.board.Clone()
}

// Mines returns every mine position in row-major order, or nil before the
// first reveal.
func (s *Session) Mines() []Position {
	s.mu.Lock()
	defer s.mu.Unlock()
	return sortedPositions(s.mines)
}

// Exploded returns the mine that ended a lost game.
func (s *Session) Exploded() (Position, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.exploded == nil {
		return Position{}, false
	}
	return *s.exploded, true
}

// IdleSince reports when the session was created or last clicked.
func (s *Session) IdleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.touched
}

func sortedPositions(set mapset.Set[Position]) []Position {
	if set.Size() == 0 {
		return nil
	}
	out := make([]Position, 0, set.Size())
	set.Each(func(p Position) { out = append(out, p) })
	sort.Slice(out, func(i, j int) bool {
		if out[i].Row != out[j].Row {
			return out[i].Row < out[j].Row
		}
		return out[i].Col < out[j].Col
	})
	return out
}
