package eval

import (
	"errors"
	"math"
	"testing"
)

func TestClosestIndicesNearest(t *testing.T) {
	ref := []float64{0, 10, 20, 30}
	queries := []float64{-5, 1, 9, 12, 29, 31, 100}
	idxs, err := ClosestIndices(ref, queries)
	if err != nil {
		t.Fatalf("closest indices: %v", err)
	}
	for qi, v := range queries {
		got := math.Abs(ref[idxs[qi]] - v)
		for j := range ref {
			if math.Abs(ref[j]-v) < got {
				t.Fatalf("query %v: index %d is not nearest, %d is closer", v, idxs[qi], j)
			}
		}
	}
}

func TestClosestIndicesMidpointTie(t *testing.T) {
	ref := []float64{0, 10}
	idxs, err := ClosestIndices(ref, []float64{5})
	if err != nil {
		t.Fatalf("closest indices: %v", err)
	}
	if idxs[0] != 1 {
		t.Fatalf("midpoint tie must pick the higher index, got %d", idxs[0])
	}
}

func TestClosestIndicesBoundaries(t *testing.T) {
	ref := []float64{3, 7, 11}
	idxs, err := ClosestIndices(ref, []float64{-100, 100})
	if err != nil {
		t.Fatalf("closest indices: %v", err)
	}
	if idxs[0] != 0 || idxs[1] != 2 {
		t.Fatalf("boundary queries must clamp to the array ends, got %v", idxs)
	}
}

func TestClosestIndicesExactMatch(t *testing.T) {
	ref := []float64{1, 2, 3}
	idxs, err := ClosestIndices(ref, []float64{2})
	if err != nil {
		t.Fatalf("closest indices: %v", err)
	}
	if idxs[0] != 1 {
		t.Fatalf("exact value must match its own element, got %d", idxs[0])
	}
}

func TestClosestIndicesUnsortedReference(t *testing.T) {
	ref := []float64{20, 0, 10}
	idxs, err := ClosestIndices(ref, []float64{9, 21})
	if err != nil {
		t.Fatalf("closest indices: %v", err)
	}
	if idxs[0] != 2 {
		t.Fatalf("expected index of value 10 in the original layout, got %d", idxs[0])
	}
	if idxs[1] != 0 {
		t.Fatalf("expected index of value 20 in the original layout, got %d", idxs[1])
	}
}

func TestClosestIndicesEmptyReference(t *testing.T) {
	if _, err := ClosestIndices(nil, []float64{1}); !errors.Is(err, ErrEmptyReference) {
		t.Fatalf("expected ErrEmptyReference, got %v", err)
	}
}
