package game

import (
	"math/rand/v2"
	"testing"

	"github.com/zyedidia/generic/mapset"
)

func populated(t *testing.T, seed uint64, rows, cols, mines int, first Position) (*Board, mapset.Set[Position]) {
	t.Helper()
	set := GenerateMines(newRand(seed), rows, cols, mines, first)
	b := NewBoard(rows, cols)
	b.Populate(set)
	return b, set
}

func TestGenerateMines(t *testing.T) {
	cases := []struct {
		name             string
		rows, cols, mine int
	}{
		{"beginner", 9, 9, 10},
		{"intermediate", 16, 16, 35},
		{"expert", 16, 30, 99},
		{"all but one", 4, 4, 15},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			for seed := uint64(0); seed < 50; seed++ {
				rng := newRand(seed)
				first := Position{Row: rng.IntN(tc.rows), Col: rng.IntN(tc.cols)}
				set := GenerateMines(rng, tc.rows, tc.cols, tc.mine, first)
				if set.Size() != tc.mine {
					t.Fatalf("seed %d: %d mines, want %d", seed, set.Size(), tc.mine)
				}
				if set.Has(first) {
					t.Fatalf("seed %d: mine on excluded cell %v", seed, first)
				}
				set.Each(func(p Position) {
					if p.Row < 0 || p.Row >= tc.rows || p.Col < 0 || p.Col >= tc.cols {
						t.Fatalf("seed %d: mine off the board at %v", seed, p)
					}
				})
			}
		})
	}
}

func TestPopulateMatchesBruteForce(t *testing.T) {
	for seed := uint64(0); seed < 100; seed++ {
		b, set := populated(t, seed, 16, 30, 99, Position{8, 15})
		for r := 0; r < 16; r++ {
			for c := 0; c < 30; c++ {
				cell, _ := b.At(r, c)
				if set.Has(Position{r, c}) {
					if cell.Kind != KindMine {
						t.Fatalf("seed %d: (%d,%d) should be a mine", seed, r, c)
					}
					continue
				}
				want := 0
				for rr := r - 1; rr <= r+1; rr++ {
					for cc := c - 1; cc <= c+1; cc++ {
						if (rr != r || cc != c) && set.Has(Position{rr, cc}) {
							want++
						}
					}
				}
				if cell.Kind != KindEmpty || int(cell.AdjacentMines) != want {
					t.Fatalf("seed %d: (%d,%d) = %+v, want empty/%d", seed, r, c, cell, want)
				}
				if cell.Visibility != Hidden {
					t.Fatalf("seed %d: populate changed visibility", seed)
				}
			}
		}
	}
}

// recursiveReveal is the plain recursive flood fill, used as the reference.
func recursiveReveal(b *Board, r, c int) {
	cell, ok := b.At(r, c)
	if !ok || cell.Visibility != Hidden {
		return
	}
	cell.Visibility = Shown
	b.set(r, c, cell)
	if cell.IsMine() || cell.AdjacentMines > 0 {
		return
	}
	for dr := -1; dr <= 1; dr++ {
		for dc := -1; dc <= 1; dc++ {
			recursiveReveal(b, r+dr, c+dc)
		}
	}
}

func TestRevealMatchesRecursiveFill(t *testing.T) {
	for seed := uint64(0); seed < 100; seed++ {
		b, _ := populated(t, seed, 16, 16, 35, Position{0, 0})
		rng := rand.New(rand.NewPCG(seed, 1))
		// pre-flag a few cells so the fill has to route around them
		for i := 0; i < 5; i++ {
			b.ToggleFlag(rng.IntN(16), rng.IntN(16), 10)
		}
		ref := b.Clone()

		r, c := rng.IntN(16), rng.IntN(16)
		cell, _ := b.At(r, c)
		if cell.IsMine() {
			continue
		}
		opened := b.Reveal(r, c)
		recursiveReveal(ref, r, c)
		if !b.Equal(ref) {
			t.Fatalf("seed %d: reveal(%d,%d) differs from reference\n%s\nvs\n%s", seed, r, c, b, ref)
		}

		shown := 0
		for i := range b.cells {
			if b.cells[i].Visibility == Shown {
				shown++
			}
		}
		if opened != shown {
			t.Fatalf("seed %d: Reveal returned %d, %d cells shown", seed, opened, shown)
		}
	}
}

func TestRevealIsIdempotent(t *testing.T) {
	b, _ := populated(t, 3, 9, 9, 10, Position{4, 4})
	b.Reveal(4, 4)
	before := b.Clone()
	if n := b.Reveal(4, 4); n != 0 {
		t.Fatalf("second reveal opened %d cells", n)
	}
	if !before.Equal(b) {
		t.Fatal("revealing a shown cell changed the board")
	}
}

func TestRevealNoOps(t *testing.T) {
	b, _ := populated(t, 5, 9, 9, 10, Position{0, 0})
	b.ToggleFlag(0, 0, 10)
	before := b.Clone()
	for _, p := range []Position{{-1, 0}, {0, -1}, {9, 0}, {0, 9}, {0, 0}} {
		if n := b.Reveal(p.Row, p.Col); n != 0 {
			t.Fatalf("Reveal(%v) opened %d cells", p, n)
		}
	}
	if !before.Equal(b) {
		t.Fatal("no-op reveals changed the board")
	}
}

func TestRevealMineDoesNotCascade(t *testing.T) {
	set := mapset.New[Position]()
	set.Put(Position{1, 1})
	b := NewBoard(3, 3)
	b.Populate(set)
	if n := b.Reveal(1, 1); n != 1 {
		t.Fatalf("revealing a mine opened %d cells", n)
	}
	cell, _ := b.At(0, 0)
	if cell.Visibility != Hidden {
		t.Fatal("mine reveal cascaded")
	}
}

func TestRevealLargeOpenBoard(t *testing.T) {
	set := mapset.New[Position]()
	set.Put(Position{0, 0})
	b := NewBoard(400, 400)
	b.Populate(set)
	if n := b.Reveal(399, 399); n != 400*400-1 {
		t.Fatalf("opened %d cells, want %d", n, 400*400-1)
	}
	if !b.Cleared() {
		t.Fatal("board should be cleared")
	}
}

func TestToggleFlag(t *testing.T) {
	b, _ := populated(t, 9, 9, 9, 10, Position{4, 4})

	if d := b.ToggleFlag(2, 2, 10); d != 1 {
		t.Fatalf("flag delta = %d, want 1", d)
	}
	if d := b.ToggleFlag(2, 2, 9); d != -1 {
		t.Fatalf("unflag delta = %d, want -1", d)
	}
	if cell, _ := b.At(2, 2); cell.Visibility != Hidden {
		t.Fatal("double toggle did not restore hidden")
	}

	before := b.Clone()
	if d := b.ToggleFlag(2, 2, 0); d != 0 || !before.Equal(b) {
		t.Fatal("flag placed with no budget left")
	}
	if d := b.ToggleFlag(9, 9, 10); d != 0 {
		t.Fatal("out-of-range toggle changed the flag count")
	}

	b.Reveal(4, 4)
	before = b.Clone()
	if d := b.ToggleFlag(4, 4, 10); d != 0 || !before.Equal(b) {
		t.Fatal("shown cell was flagged")
	}
}

func TestClearedIgnoresFlags(t *testing.T) {
	set := mapset.New[Position]()
	set.Put(Position{0, 1})
	b := NewBoard(1, 3)
	if b.Cleared() {
		t.Fatal("unpopulated board reported cleared")
	}
	b.Populate(set)
	b.Reveal(0, 0)
	if b.Cleared() {
		t.Fatal("cleared with a hidden safe cell")
	}
	b.Reveal(0, 2)
	if !b.Cleared() {
		t.Fatal("expected cleared without flagging the mine")
	}
}

func TestBoardString(t *testing.T) {
	set := mapset.New[Position]()
	set.Put(Position{0, 2})
	b := NewBoard(2, 3)
	b.Populate(set)
	b.Reveal(1, 0)
	b.ToggleFlag(0, 2, 1)
	want := ". 1 !\n. 1 ?\n"
	if got := b.String(); got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
}
