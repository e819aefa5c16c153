// internal/game/snapshot.go
//
// YAML snapshots of a session: seed, config, state and a one-character-per-cell
// board layout. Snapshots are meant for post-mortem sharing and replay; they
// reveal every mine, so only hand them out for finished games.
//
// Layout characters:
//   .  hidden safe     o  shown safe     f  flagged safe
//   *  hidden mine     x  shown mine     F  flagged mine
//   ?  not yet generated

package game

import (
	"fmt"
	"strings"
	"time"

	"github.com/zyedidia/generic/mapset"
	"gopkg.in/yaml.v2"
)

// Snapshot is the serialised form of a session.
type Snapshot struct {
	ID       string    `yaml:"id"`
	Seed     uint64    `yaml:"seed"`
	Config   Config    `yaml:"config"`
	State    string    `yaml:"state"`
	Elapsed  int       `yaml:"elapsed"`
	Exploded *Position `yaml:"exploded,omitempty"`
	Board    string    `yaml:"board"`
}

// Snapshot serialises the session to YAML.
func (s *Session) Snapshot() ([]byte, error) {
	s.mu.Lock()
	snap := Snapshot{
		ID:       s.ID,
		Seed:     s.Seed,
		Config:   s.Config,
		State:    s.state.String(),
		Elapsed:  s.elapsed,
		Exploded: s.exploded,
		Board:    encodeLayout(s.board),
	}
	s.mu.Unlock()
	return yaml.Marshal(&snap)
}

func encodeLayout(b *Board) string {
	var sb strings.Builder
	for r := 0; r < b.rows; r++ {
		if r > 0 {
			sb.WriteByte('\n')
		}
		for c := 0; c < b.cols; c++ {
			sb.WriteByte(layoutChar(b.cells[r*b.cols+c]))
		}
	}
	return sb.String()
}

func layoutChar(c Cell) byte {
	switch c.Kind {
	case KindUnknown:
		return '?'
	case KindMine:
		switch c.Visibility {
		case Shown:
			return 'x'
		case Flagged:
			return 'F'
		}
		return '*'
	}
	switch c.Visibility {
	case Shown:
		return 'o'
	case Flagged:
		return 'f'
	}
	return '.'
}

// ParseSnapshot decodes a YAML snapshot.
func ParseSnapshot(data []byte) (*Snapshot, error) {
	var snap Snapshot
	if err := yaml.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &snap, nil
}

// Mines lists the mine positions recorded in the layout.
func (snap *Snapshot) Mines() ([]Position, error) {
	rows := snap.rows()
	if len(rows) != snap.Config.Rows {
		return nil, fmt.Errorf("%w: snapshot has %d rows, config wants %d", ErrInvalidConfig, len(rows), snap.Config.Rows)
	}
	var mines []Position
	for r, line := range rows {
		if len(line) != snap.Config.Cols {
			return nil, fmt.Errorf("%w: snapshot row %d has %d cells, config wants %d", ErrInvalidConfig, r, len(line), snap.Config.Cols)
		}
		for c := 0; c < len(line); c++ {
			switch line[c] {
			case '*', 'x', 'F':
				mines = append(mines, Position{Row: r, Col: c})
			case '.', 'o', 'f', '?':
			default:
				return nil, fmt.Errorf("%w: bad layout character %q at (%d,%d)", ErrInvalidConfig, line[c], r, c)
			}
		}
	}
	return mines, nil
}

func (snap *Snapshot) rows() []string {
	return strings.Split(strings.TrimRight(snap.Board, "\n"), "\n")
}

// Replay starts a fresh game on the snapshot's mine layout: every cell hidden,
// state start, timer at zero.
func (snap *Snapshot) Replay(opts ...Option) (*Session, error) {
	mines, err := snap.Mines()
	if err != nil {
		return nil, err
	}
	if len(mines) == 0 {
		return nil, fmt.Errorf("%w: snapshot was taken before mines were placed", ErrInvalidConfig)
	}
	opts = append([]Option{WithSeed(snap.Seed), WithMines(mines...)}, opts...)
	return NewSession(snap.Config, opts...)
}

// Restore rebuilds the session exactly as snapshotted. A playing session gets
// its clock restarted.
//
// The recorded state must agree with the board: win iff every safe cell is
// shown, a shown mine only after a loss, and a lost game names the mine that
// ended it.
func (snap *Snapshot) Restore(opts ...Option) (*Session, error) {
	mines, err := snap.Mines()
	if err != nil {
		return nil, err
	}
	st, err := parseState(snap.State)
	if err != nil {
		return nil, err
	}
	if snap.Elapsed < 0 {
		return nil, fmt.Errorf("%w: negative elapsed time %d", ErrInvalidConfig, snap.Elapsed)
	}
	opts = append([]Option{WithSeed(snap.Seed), WithID(snap.ID)}, opts...)
	s, err := NewSession(snap.Config, opts...)
	if err != nil {
		return nil, err
	}
	if st == StateStart {
		if len(mines) != 0 || snap.Elapsed != 0 || snap.Exploded != nil {
			return nil, fmt.Errorf("%w: a game that has not started has no mines or time", ErrInvalidConfig)
		}
		return s, nil
	}
	if len(mines) != snap.Config.Mines {
		return nil, fmt.Errorf("%w: snapshot has %d mines, config wants %d", ErrInvalidConfig, len(mines), snap.Config.Mines)
	}

	set := mapset.New[Position]()
	for _, p := range mines {
		set.Put(p)
	}
	s.mines = set
	s.board.Populate(set)
	opened := 0
	for r, line := range snap.rows() {
		for c := 0; c < len(line); c++ {
			cell := s.board.cells[r*s.board.cols+c]
			switch line[c] {
			case '?':
				return nil, fmt.Errorf("%w: ungenerated cell (%d,%d) in a started game", ErrInvalidConfig, r, c)
			case 'o':
				cell.Visibility = Shown
				opened++
			case 'x':
				if st != StateLose {
					return nil, fmt.Errorf("%w: shown mine at (%d,%d) in a %s game", ErrInvalidConfig, r, c, st)
				}
				cell.Visibility = Shown
			case 'f', 'F':
				cell.Visibility = Flagged
				s.flags++
			}
			s.board.cells[r*s.board.cols+c] = cell
		}
	}
	if opened == 0 {
		return nil, fmt.Errorf("%w: a started game has at least one shown cell", ErrInvalidConfig)
	}
	if s.flags > s.Config.Mines {
		return nil, fmt.Errorf("%w: snapshot has more flags than mines", ErrInvalidConfig)
	}
	if cleared := s.board.Cleared(); cleared != (st == StateWin) {
		return nil, fmt.Errorf("%w: %s game with cleared=%t", ErrInvalidConfig, st, cleared)
	}
	if err := checkExploded(s.board, st, snap.Exploded); err != nil {
		return nil, err
	}

	s.state = st
	s.elapsed = snap.Elapsed
	if snap.Exploded != nil {
		p := *snap.Exploded
		s.exploded = &p
	}
	if st == StatePlaying {
		s.stop = s.clock.Every(time.Second, s.tick)
	}
	return s, nil
}

// checkExploded requires an exploded mine exactly when the game was lost.
func checkExploded(b *Board, st State, p *Position) error {
	if st != StateLose {
		if p != nil {
			return fmt.Errorf("%w: exploded cell in a %s game", ErrInvalidConfig, st)
		}
		return nil
	}
	if p == nil {
		return fmt.Errorf("%w: lost game without an exploded cell", ErrInvalidConfig)
	}
	cell, ok := b.At(p.Row, p.Col)
	if !ok {
		return fmt.Errorf("%w: exploded cell (%d,%d) is off the board", ErrInvalidConfig, p.Row, p.Col)
	}
	if !cell.IsMine() || cell.Visibility == Flagged {
		return fmt.Errorf("%w: exploded cell (%d,%d) is not an unflagged mine", ErrInvalidConfig, p.Row, p.Col)
	}
	return nil
}

func parseState(name string) (State, error) {
	for _, st := range []State{StateStart, StatePlaying, StateWin, StateLose} {
		if st.String() == name {
			return st, nil
		}
	}
	return 0, fmt.Errorf("%w: unknown state %q", ErrInvalidConfig, name)
}
