// Package feature turns a board.Position into the dense tensors the
// neural inference session consumes, following a KataGo-style input
// schema: 22 spatial planes and 19 scalar globals.
package feature

import (
	"github.com/badukstudy/aicore/internal/board"
)

const (
	NumSpatialPlanes  = 22
	NumGlobalFeatures = 19
	historyPlanes     = 5
)

// SpatialLen returns the flattened length of one item's spatial tensor for
// a board of the given size.
func SpatialLen(boardSize int) int {
	return NumSpatialPlanes * boardSize * boardSize
}

// Featurize fills the spatial and global slices for p at item index
// batchOffset within a larger batch buffer. spatial must have length at
// least (batchOffset+1)*SpatialLen(p.Size); global must have length at
// least (batchOffset+1)*NumGlobalFeatures. Both slices are expected to be
// pre-zeroed (or freshly allocated) device/host buffers the inference
// session lends to the caller; Featurize writes only the non-zero entries
// (1s for the indicator planes and pass flags, komi/20 for global[5]).
func Featurize(p *board.Position, spatial []float32, global []float32, batchOffset int) {
	size := p.Size
	itemLen := SpatialLen(size)
	planeLen := size * size
	base := batchOffset * itemLen

	plane := func(idx int) []float32 {
		off := base + idx*planeLen
		return spatial[off : off+planeLen]
	}

	me := p.NextToMove
	opp := me.Opponent()

	ones := plane(0)
	for i := range ones {
		ones[i] = 1
	}

	playerMask := plane(1)
	oppMask := plane(2)
	lib1, lib2, lib3 := plane(3), plane(4), plane(5)

	visited := map[board.Coord]bool{}
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			c := board.Coord{X: x, Y: y}
			s := p.At(c)
			if s == board.Empty {
				continue
			}
			idx := y*size + x
			if s == me {
				playerMask[idx] = 1
			} else if s == opp {
				oppMask[idx] = 1
			}
			if visited[c] {
				continue
			}
			group, liberties := p.GroupLiberties(c)
			for _, g := range group {
				visited[g] = true
			}
			switch liberties {
			case 1:
				for _, g := range group {
					lib1[g.Y*size+g.X] = 1
				}
			case 2:
				for _, g := range group {
					lib2[g.Y*size+g.X] = 1
				}
			case 3:
				for _, g := range group {
					lib3[g.Y*size+g.X] = 1
				}
			}
		}
	}

	if p.Ko != nil && p.Ko.Side == me {
		koPlane := plane(6)
		koPlane[p.Ko.Coord.Y*size+p.Ko.Coord.X] = 1
	}

	hist := p.LastHistory(historyPlanes)
	for movesBack := 1; movesBack <= historyPlanes; movesBack++ {
		mv := hist[historyPlanes-movesBack]
		if mv.IsPass() {
			continue
		}
		histPlane := plane(8 + movesBack)
		histPlane[mv.Y*size+mv.X] = 1
	}

	gbase := batchOffset * NumGlobalFeatures
	g := global[gbase : gbase+NumGlobalFeatures]
	for movesBack := 1; movesBack <= historyPlanes; movesBack++ {
		mv := hist[historyPlanes-movesBack]
		if mv.IsPass() {
			g[movesBack-1] = 1
		}
	}
	g[5] = float32(p.Komi / 20.0)
}

// Fingerprint computes a 64-bit cache key as a function of (signMap,
// komi, last-5-history, ko, nextToPlay). It is deliberately independent
// of board.Position.Hash so a change to the Zobrist table layout cannot
// silently invalidate the inference cache.
func Fingerprint(p *board.Position) uint64 {
	var h uint64 = 0xcbf29ce484222325 // FNV-1a offset basis
	const prime = 0x100000001b3

	mix := func(v uint64) {
		h ^= v
		h *= prime
	}
	mixByte := func(b byte) { mix(uint64(b)) }

	for _, s := range p.Signs {
		mixByte(byte(s))
	}
	mix(uint64(int64(p.Komi * 1000)))
	for _, c := range p.LastHistory(historyPlanes) {
		mix(uint64(int32(c.X)))
		mix(uint64(int32(c.Y)))
	}
	if p.Ko != nil {
		mix(uint64(p.Ko.Side))
		mix(uint64(int32(p.Ko.Coord.X)))
		mix(uint64(int32(p.Ko.Coord.Y)))
	}
	mix(uint64(p.NextToMove))
	return h
}
