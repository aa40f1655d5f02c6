package board

// ApplyMove plays a stone (or a pass) for side at c and returns the
// resulting position. It enforces full Go legality: occupied-point
// rejection, capture of adjacent opponent groups left without a liberty,
// suicide rejection, and simple-ko (the "one vertex forbidden for one ply"
// rule names via KoRestriction). The receiver is never mutated;
// on success the returned Position is a fresh clone and ok is true. On
// illegality ok is false and the returned pointer is nil.
func (p *Position) ApplyMove(c Coord, side Side) (*Position, bool) {
	if c.IsPass() {
		q := p.Clone()
		q.NextToMove = side.Opponent()
		q.History = append(q.History, c)
		q.Ko = nil
		q.EnsureHash()
		return q, true
	}
	if !p.InBounds(c) {
		return nil, false
	}
	if p.At(c) != Empty {
		return nil, false
	}
	if p.Ko != nil && p.Ko.Side == side && p.Ko.Coord == c {
		return nil, false
	}

	q := p.Clone()
	q.set(c, side)

	captured := make([]Coord, 0, 4)
	opp := side.Opponent()
	for _, n := range neighbours(c, q.Size) {
		if q.At(n) != opp {
			continue
		}
		group, liberties := q.groupLiberties(n)
		if liberties == 0 {
			captured = append(captured, group...)
		}
	}
	for _, cap := range captured {
		q.set(cap, Empty)
	}

	_, ownLiberties := q.groupLiberties(c)
	if ownLiberties == 0 {
		// suicide: no captures freed the placed stone's group
		return nil, false
	}

	q.NextToMove = side.Opponent()
	q.History = append(q.History, c)
	q.Ko = nil
	if len(captured) == 1 {
		group, liberties := q.groupLiberties(c)
		if len(group) == 1 && liberties == 1 {
			q.Ko = &KoRestriction{Side: opp, Coord: captured[0]}
		}
	}
	q.EnsureHash()
	return q, true
}

// GroupLiberties exposes groupLiberties for callers outside the package
// (the featurizer needs per-group liberty counts for its liberty planes).
// start must not be Empty.
func (p *Position) GroupLiberties(start Coord) ([]Coord, int) {
	return p.groupLiberties(start)
}

// groupLiberties flood-fills the group containing start and returns every
// vertex in that group along with its liberty count. start must not be
// Empty.
func (p *Position) groupLiberties(start Coord) ([]Coord, int) {
	colour := p.At(start)
	visited := map[Coord]bool{start: true}
	group := []Coord{start}
	liberties := map[Coord]bool{}
	stack := []Coord{start}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, n := range neighbours(cur, p.Size) {
			switch p.At(n) {
			case Empty:
				liberties[n] = true
			case colour:
				if !visited[n] {
					visited[n] = true
					group = append(group, n)
					stack = append(stack, n)
				}
			}
		}
	}
	return group, len(liberties)
}

// IsPlainLegal is a coarse legality filter: occupancy and the single ko
// vertex only, no suicide simulation. It deliberately accepts some moves
// that ApplyMove would reject so it stays cheap; callers that advance a
// position must still call ApplyMove and discard the move if it returns
// ok == false. internal/search does not call it: its expand step checks
// occupancy inline and relies on the inference layer's ko filter.
func (p *Position) IsPlainLegal(c Coord, side Side) bool {
	if c.IsPass() {
		return true
	}
	if !p.InBounds(c) {
		return false
	}
	if p.At(c) != Empty {
		return false
	}
	if p.Ko != nil && p.Ko.Side == side && p.Ko.Coord == c {
		return false
	}
	return true
}
