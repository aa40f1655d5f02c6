package board

import "fmt"

// gtpColumns skips 'I' per the long-standing Go coordinate convention for
// move strings: the letter I is omitted so it is never confused with the
// digit 1.
const gtpColumns = "ABCDEFGHJKLMNOPQRST"

// String renders c in GTP notation (e.g. "D4"), Size counting rows from 1
// at the bottom edge. Pass renders as "pass".
func (c Coord) String(size int) string {
	if c.IsPass() {
		return "pass"
	}
	col := byte(gtpColumns[c.X])
	row := size - c.Y
	return fmt.Sprintf("%c%d", col, row)
}

// ParseCoord is the inverse of String for a given board size; "pass"
// parses to Pass() with ok true, and malformed input returns false.
func ParseCoord(s string, size int) (Coord, bool) {
	if s == "pass" || s == "" {
		return Pass(), s == "pass"
	}
	col := byte(s[0])
	x := -1
	for i := 0; i < len(gtpColumns); i++ {
		if gtpColumns[i] == col {
			x = i
			break
		}
	}
	if x < 0 {
		return Coord{}, false
	}
	var row int
	if _, err := fmt.Sscanf(s[1:], "%d", &row); err != nil {
		return Coord{}, false
	}
	y := size - row
	c := Coord{X: x, Y: y}
	return c, true
}
