package aierr

import (
	"errors"
	"testing"
)

func TestWrapAndIs(t *testing.T) {
	cause := errors.New("disk full")
	err := Wrap(KindLoad, cause, "reading model file")

	if !Is(err, KindLoad) {
		t.Fatalf("expected Is(err, KindLoad) to be true")
	}
	if Is(err, KindAnalysis) {
		t.Fatalf("expected Is(err, KindAnalysis) to be false")
	}
	if !errors.Is(err, cause) {
		t.Fatalf("expected errors.Is to find the wrapped cause")
	}
}

func TestNewfHasNoWrappedCause(t *testing.T) {
	err := Newf(KindConfiguration, "board size %d unsupported", 7)
	if err.Unwrap() != nil {
		t.Fatalf("expected no wrapped cause for Newf")
	}
}
