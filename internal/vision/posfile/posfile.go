// Package posfile serialises a set of classified stones into a compact
// SGF-like text record: a size property, add-black and add-white stone
// lists, coordinates written in the 'a'..'s' lowercase alphabet.
package posfile

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Stone is one deduplicated (col,row) position, 0-indexed, to be rendered
// in the 'a'..'s' alphabet (unlike board.Coord's GTP alphabet, this one
// does not skip 'i' — the position-record format is a distinct wire
// convention from the GTP move-suggestion strings in internal/inference).
type Stone struct {
	Col, Row int
}

func coordLetter(i int) byte {
	return byte('a' + i)
}

// Encode renders coordinate (col,row) as the two-letter column-then-row
// string the position-record format uses.
func Encode(col, row int) string {
	return string([]byte{coordLetter(col), coordLetter(row)})
}

// Emit serialises boardSize plus the deduplicated black/white stone lists
// into a position record. Duplicate (col,row) pairs within a single list
// collapse to one entry; empty lists omit their property block entirely.
func Emit(boardSize int, black, white []Stone) string {
	var b strings.Builder
	fmt.Fprintf(&b, "(;GM[1]FF[4]SZ[%d]\n", boardSize)

	if coords := dedupSorted(black); len(coords) > 0 {
		b.WriteString("AB")
		for _, s := range coords {
			fmt.Fprintf(&b, "[%s]", Encode(s.Col, s.Row))
		}
		b.WriteString("\n")
	}
	if coords := dedupSorted(white); len(coords) > 0 {
		b.WriteString("AW")
		for _, s := range coords {
			fmt.Fprintf(&b, "[%s]", Encode(s.Col, s.Row))
		}
		b.WriteString("\n")
	}
	b.WriteString(")\n")
	return b.String()
}

var (
	sizeProp  = regexp.MustCompile(`SZ\[(\d+)\]`)
	coordProp = regexp.MustCompile(`\[([a-z])([a-z])\]`)
)

// Decode parses a position record written by Emit back into its board
// size and stone lists. It is deliberately tolerant of the surrounding
// "(;GM[1]FF[4]..." wrapper: it only looks for the SZ, AB and AW
// properties, in any order, and ignores everything else.
func Decode(record string) (boardSize int, black, white []Stone, err error) {
	m := sizeProp.FindStringSubmatch(record)
	if m == nil {
		return 0, nil, nil, fmt.Errorf("posfile: no SZ property found")
	}
	boardSize, err = strconv.Atoi(m[1])
	if err != nil {
		return 0, nil, nil, fmt.Errorf("posfile: invalid SZ value %q: %w", m[1], err)
	}

	if i := strings.Index(record, "AB"); i >= 0 {
		black = decodeCoordBlock(record[i+2:])
	}
	if i := strings.Index(record, "AW"); i >= 0 {
		white = decodeCoordBlock(record[i+2:])
	}
	return boardSize, black, white, nil
}

// decodeCoordBlock reads consecutive [xy] coordinate tokens from the start
// of s, stopping at the first token that isn't a two-letter coordinate.
func decodeCoordBlock(s string) []Stone {
	var out []Stone
	for {
		m := coordProp.FindStringSubmatchIndex(s)
		if m == nil || m[0] != 0 {
			return out
		}
		col := int(s[m[2]] - 'a')
		row := int(s[m[4]] - 'a')
		out = append(out, Stone{Col: col, Row: row})
		s = s[m[1]:]
	}
}

func dedupSorted(stones []Stone) []Stone {
	seen := map[Stone]bool{}
	var out []Stone
	for _, s := range stones {
		if seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Row != out[j].Row {
			return out[i].Row < out[j].Row
		}
		return out[i].Col < out[j].Col
	})
	return out
}
