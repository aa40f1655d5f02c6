package board

import "sync"

// Zobrist table: one 64-bit value per (vertex, side) pair plus one for the
// side to move, generated once from a fixed splitmix64 seed so hashes are
// reproducible across processes. Mirrors the table construction of a
// fixed-board-size engine's zobrist.go, generalized from a fixed-size
// board to the three sizes this module supports.
var (
	zobristOnce  sync.Once
	zobristBlack [][2]uint64 // indexed by vertex; [0]=black, [1]=white
	zobristSide  uint64
)

const maxZobristVertices = 19 * 19

func splitmix64(x *uint64) uint64 {
	*x += 0x9E3779B97F4A7C15
	z := *x
	z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
	z = (z ^ (z >> 27)) * 0x94D049BB133111EB
	return z ^ (z >> 31)
}

func initZobrist() {
	seed := uint64(0xD1B54A32D192ED03)
	zobristBlack = make([][2]uint64, maxZobristVertices)
	for i := range zobristBlack {
		zobristBlack[i][0] = splitmix64(&seed)
		zobristBlack[i][1] = splitmix64(&seed)
	}
	zobristSide = splitmix64(&seed)
}

// CalculateHash recomputes the Zobrist hash from scratch. Used on position
// construction and whenever an incremental update would be error-prone
// (e.g. after a Clone with manual mutation).
func (p *Position) CalculateHash() uint64 {
	zobristOnce.Do(initZobrist)
	var h uint64
	for i, s := range p.Signs {
		switch s {
		case int8(Black):
			h ^= zobristBlack[i][0]
		case int8(White):
			h ^= zobristBlack[i][1]
		}
	}
	if p.NextToMove == White {
		h ^= zobristSide
	}
	return h
}

// EnsureHash recomputes and stores Hash if it is stale; callers that mutate
// Signs or NextToMove directly (rather than through ApplyMove) must call
// this before reading Hash.
func (p *Position) EnsureHash() uint64 {
	p.Hash = p.CalculateHash()
	return p.Hash
}

func zobristStone(vertex int, s Side) uint64 {
	zobristOnce.Do(initZobrist)
	switch s {
	case Black:
		return zobristBlack[vertex][0]
	case White:
		return zobristBlack[vertex][1]
	default:
		return 0
	}
}
