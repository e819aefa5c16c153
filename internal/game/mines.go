// internal/game/mines.go
//
// Mine placement. Mines are drawn from a seeded PCG source so a session's
// seed and first click fully determine its layout.

package game

import (
	"math/rand/v2"

	"github.com/zyedidia/generic/mapset"
)

// GenerateMines picks count distinct mine positions on a rows × cols board,
// never placing one on exclude. Positions are sampled uniformly and resampled
// on collision or on hitting the excluded cell.
//
// The caller must guarantee count < rows*cols; otherwise the loop cannot
// terminate. Config.Validate enforces this before a session exists.
func GenerateMines(rng *rand.Rand, rows, cols, count int, exclude Position) mapset.Set[Position] {
	mines := mapset.New[Position]()
	for mines.Size() < count {
		p := Position{Row: rng.IntN(rows), Col: rng.IntN(cols)}
		if p == exclude || mines.Has(p) {
			continue
		}
		mines.Put(p)
	}
	return mines
}

// newRand returns a deterministic generator for seed.
func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}
