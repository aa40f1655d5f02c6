package posfile

import (
	"strings"
	"testing"
)

func TestEmitOmitsEmptyBlocks(t *testing.T) {
	out := Emit(19, nil, nil)
	if strings.Contains(out, "AB") || strings.Contains(out, "AW") {
		t.Fatalf("expected no AB/AW blocks for empty stone lists, got %q", out)
	}
	if !strings.Contains(out, "SZ[19]") {
		t.Fatalf("expected SZ[19], got %q", out)
	}
}

func TestEmitDeduplicatesAndEncodes(t *testing.T) {
	black := []Stone{{Col: 3, Row: 3}, {Col: 3, Row: 3}, {Col: 0, Row: 0}}
	out := Emit(19, black, nil)
	if !strings.Contains(out, "AB") {
		t.Fatalf("expected an AB block, got %q", out)
	}
	if strings.Count(out, "[dd]") != 1 {
		t.Fatalf("expected the duplicate (3,3) stone to collapse to one [dd], got %q", out)
	}
	if !strings.Contains(out, "[aa]") {
		t.Fatalf("expected [aa] for (0,0), got %q", out)
	}
}

func TestEncodeSkipsNoLetters(t *testing.T) {
	if got := Encode(0, 0); got != "aa" {
		t.Fatalf("Encode(0,0) = %q, want aa", got)
	}
	if got := Encode(8, 8); got != "ii" {
		t.Fatalf("Encode(8,8) = %q, want ii (position-record alphabet does not skip i)", got)
	}
}
