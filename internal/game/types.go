// internal/game/types.go
//
// Core type definitions for the Minesweeper game engine.
// Defines:
//   - Kind / Visibility / Cell: one grid position.
//   - Position: a (row, col) pair, usable as a set key.
//   - State: start → playing → win/lose.
//   - Button: the click actions the presentation layer forwards.
//   - Config + presets: board dimensions and mine count.

package game

import (
	"errors"
	"fmt"
	"strings"
)

// Kind is what a cell holds. KindUnknown is the placeholder every cell carries
// until mines are generated on the first reveal.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindEmpty
	KindMine
)

// Visibility is what the player can see of a cell.
type Visibility uint8

const (
	Hidden Visibility = iota
	Shown
	Flagged
)

func (v Visibility) String() string {
	switch v {
	case Shown:
		return "shown"
	case Flagged:
		return "flagged"
	default:
		return "hidden"
	}
}

// Cell is a value; the board replaces cells rather than sharing them.
// AdjacentMines is only meaningful for KindEmpty and stays 0 on mines.
type Cell struct {
	Kind          Kind
	Visibility    Visibility
	AdjacentMines uint8
}

// IsMine reports whether the cell holds a mine.
func (c Cell) IsMine() bool { return c.Kind == KindMine }

// Position addresses a cell in row-major order.
type Position struct {
	Row int `json:"row" yaml:"row"`
	Col int `json:"col" yaml:"col"`
}

// State is the coarse game state.
type State uint8

const (
	StateStart State = iota
	StatePlaying
	StateWin
	StateLose
)

func (s State) String() string {
	switch s {
	case StatePlaying:
		return "playing"
	case StateWin:
		return "win"
	case StateLose:
		return "lose"
	default:
		return "start"
	}
}

// Terminal reports whether no further mutation is accepted.
func (s State) Terminal() bool { return s == StateWin || s == StateLose }

// MarshalText encodes the state as its lowercase name.
func (s State) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// Button is a click action.
type Button uint8

const (
	ButtonLeft Button = iota
	ButtonRight
	// ButtonChord opens the neighbours of a satisfied number.
	ButtonChord
)

// ParseButton maps "left" / "right" / "chord" to a Button.
func ParseButton(s string) (Button, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "left", "reveal", "":
		return ButtonLeft, nil
	case "right", "flag":
		return ButtonRight, nil
	case "chord", "middle":
		return ButtonChord, nil
	}
	return 0, fmt.Errorf("unknown button %q", s)
}

// ErrInvalidConfig is returned when a board cannot hold its mines plus a safe
// first cell.
var ErrInvalidConfig = errors.New("invalid board configuration")

// MaxCells bounds rows × cols for any board.
const MaxCells = 1 << 22

// Config fixes the board dimensions and mine count for one game.
type Config struct {
	Name  string `json:"name" yaml:"name"`
	Rows  int    `json:"rows" yaml:"rows"`
	Cols  int    `json:"cols" yaml:"cols"`
	Mines int    `json:"mines" yaml:"mines"`
}

// Validate rejects configurations the mine generator could never satisfy.
func (c Config) Validate() error {
	if c.Rows < 1 || c.Cols < 1 {
		return fmt.Errorf("%w: board must be at least 1x1, got %dx%d", ErrInvalidConfig, c.Rows, c.Cols)
	}
	if c.Mines < 1 {
		return fmt.Errorf("%w: need at least one mine, got %d", ErrInvalidConfig, c.Mines)
	}
	// divide rather than multiply so huge dimensions cannot overflow
	if c.Rows > MaxCells/c.Cols {
		return fmt.Errorf("%w: %dx%d board exceeds %d cells", ErrInvalidConfig, c.Rows, c.Cols, MaxCells)
	}
	if c.Mines/c.Cols >= c.Rows {
		return fmt.Errorf("%w: %d mines do not fit a %dx%d board", ErrInvalidConfig, c.Mines, c.Rows, c.Cols)
	}
	return nil
}

// Recognised presets.
var (
	Beginner     = Config{Name: "beginner", Rows: 9, Cols: 9, Mines: 10}
	Intermediate = Config{Name: "intermediate", Rows: 16, Cols: 16, Mines: 35}
	Expert       = Config{Name: "expert", Rows: 16, Cols: 30, Mines: 99}
)

// Presets lists the recognised presets from easiest to hardest.
func Presets() []Config {
	return []Config{Beginner, Intermediate, Expert}
}

// PresetByName looks a preset up case-insensitively.
func PresetByName(name string) (Config, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, p := range Presets() {
		if p.Name == name {
			return p, true
		}
	}
	return Config{}, false
}
