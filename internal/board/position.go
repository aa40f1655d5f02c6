package board

// Position is a square signed grid plus light metadata: an optional
// ko-forbidden vertex, move history (only the last five plies are
// consumed as features, but the full history is kept so callers can
// replay a game), and komi.
type Position struct {
	Size       int
	Signs      []int8 // row-major, len == Size*Size; +1 Black, -1 White, 0 empty
	NextToMove Side
	Komi       float64
	History    []Coord // most-recent last; a pass is stored as Pass()
	Ko         *KoRestriction

	Hash uint64
}

// NewEmptyPosition returns an empty board of the given size with Black to
// move and the default komi for that size.
func NewEmptyPosition(size int) *Position {
	p := &Position{
		Size:       size,
		Signs:      make([]int8, size*size),
		NextToMove: Black,
		Komi:       DefaultKomi(size),
	}
	p.Hash = p.CalculateHash()
	return p
}

func (p *Position) index(c Coord) int {
	return c.Y*p.Size + c.X
}

func (p *Position) InBounds(c Coord) bool {
	return c.X >= 0 && c.X < p.Size && c.Y >= 0 && c.Y < p.Size
}

func (p *Position) At(c Coord) Side {
	if !p.InBounds(c) {
		return Empty
	}
	return Side(p.Signs[p.index(c)])
}

func (p *Position) set(c Coord, s Side) {
	p.Signs[p.index(c)] = int8(s)
}

// PlaceStone sets c to side directly, bypassing capture and ko checks —
// the setup-stone semantics a position record's add-black/add-white
// properties need, as opposed to ApplyMove's played-move semantics.
func (p *Position) PlaceStone(c Coord, s Side) {
	if p.InBounds(c) {
		p.set(c, s)
	}
}

// Clone returns a deep copy; the two positions share no backing arrays.
func (p *Position) Clone() *Position {
	q := &Position{
		Size:       p.Size,
		Signs:      make([]int8, len(p.Signs)),
		NextToMove: p.NextToMove,
		Komi:       p.Komi,
		History:    make([]Coord, len(p.History)),
		Hash:       p.Hash,
	}
	copy(q.Signs, p.Signs)
	copy(q.History, p.History)
	if p.Ko != nil {
		ko := *p.Ko
		q.Ko = &ko
	}
	return q
}

// LastHistory returns up to n most recent history entries, oldest first,
// padded at the front with Pass() if history is shorter than n. This is
// exactly the shape the featurizer needs for its last-five-history-moves
// planes.
func (p *Position) LastHistory(n int) []Coord {
	out := make([]Coord, n)
	for i := range out {
		out[i] = Pass()
	}
	have := len(p.History)
	for i := 0; i < n && i < have; i++ {
		out[n-1-i] = p.History[have-1-i]
	}
	return out
}

func neighbours(c Coord, size int) []Coord {
	cands := [4]Coord{
		{c.X - 1, c.Y}, {c.X + 1, c.Y}, {c.X, c.Y - 1}, {c.X, c.Y + 1},
	}
	out := make([]Coord, 0, 4)
	for _, n := range cands {
		if n.X >= 0 && n.X < size && n.Y >= 0 && n.Y < size {
			out = append(out, n)
		}
	}
	return out
}
