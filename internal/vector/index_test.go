package vector

import (
	"errors"
	"math"
	"testing"
)

func TestAdd_AssignsDensePositions(t *testing.T) {
	idx := NewIndex(3, ModeL2)

	for i := 0; i < 3; i++ {
		pos, err := idx.Add([]float32{float32(i), 0, 0}, int64(100+i))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if pos != i {
			t.Errorf("expected position %d, got %d", i, pos)
		}
	}

	if idx.Count() != 3 {
		t.Errorf("expected count 3, got %d", idx.Count())
	}
}

func TestAdd_DimensionMismatch(t *testing.T) {
	idx := NewIndex(3, ModeL2)

	_, err := idx.Add([]float32{1, 2}, 1)
	if !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("expected ErrDimensionMismatch, got %v", err)
	}

	if idx.Count() != 0 {
		t.Errorf("failed add must not mutate the index, count = %d", idx.Count())
	}
}

func TestAdd_AllowsDuplicateToolIDs(t *testing.T) {
	idx := NewIndex(2, ModeL2)

	if _, err := idx.Add([]float32{1, 0}, 7); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := idx.Add([]float32{0, 1}, 7); err != nil {
		t.Fatalf("re-indexing the same tool must append, got error: %v", err)
	}

	if idx.Count() != 2 {
		t.Errorf("expected 2 entries, got %d", idx.Count())
	}
}

func TestSearch_EmptyIndex(t *testing.T) {
	idx := NewIndex(3, ModeL2)

	matches, err := idx.Search([]float32{1, 2, 3}, 5)
	if err != nil {
		t.Fatalf("empty index search must not fail: %v", err)
	}
	if len(matches) != 0 {
		t.Errorf("expected empty result, got %d matches", len(matches))
	}
}

func TestSearch_NegativeLimit(t *testing.T) {
	idx := NewIndex(3, ModeL2)

	if _, err := idx.Search([]float32{1, 2, 3}, -1); !errors.Is(err, ErrInvalidLimit) {
		t.Errorf("expected ErrInvalidLimit, got %v", err)
	}
}

func TestSearch_QueryDimensionMismatch(t *testing.T) {
	idx := NewIndex(3, ModeL2)

	if _, err := idx.Search([]float32{1, 2}, 1); !errors.Is(err, ErrDimensionMismatch) {
		t.Errorf("expected ErrDimensionMismatch, got %v", err)
	}
}

func TestSearch_ExactMatchIsTop1(t *testing.T) {
	idx := NewIndex(3, ModeL2)

	vec := []float32{0.5, -1.5, 2}
	idx.Add([]float32{9, 9, 9}, 1)
	idx.Add(vec, 2)

	matches, err := idx.Search(vec, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matches))
	}
	if matches[0].ToolID != 2 {
		t.Errorf("expected tool 2 as top match, got %d", matches[0].ToolID)
	}
	if matches[0].Score != 0 {
		t.Errorf("expected distance 0 for identical vector, got %f", matches[0].Score)
	}
}

func TestSearch_RanksNearestSecond(t *testing.T) {
	// Three tools with distinct embeddings; query equals tool 2's vector,
	// tool 3 is nearer to it than tool 1.
	idx := NewIndex(2, ModeL2)
	idx.Add([]float32{10, 0}, 1)
	idx.Add([]float32{0, 1}, 2)
	idx.Add([]float32{1, 1}, 3)

	matches, err := idx.Search([]float32{0, 1}, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(matches))
	}
	if matches[0].ToolID != 2 {
		t.Errorf("expected tool 2 first, got %d", matches[0].ToolID)
	}
	if matches[1].ToolID != 3 {
		t.Errorf("expected tool 3 second, got %d", matches[1].ToolID)
	}
}

func TestSearch_FewerThanK(t *testing.T) {
	idx := NewIndex(2, ModeL2)
	idx.Add([]float32{1, 0}, 1)
	idx.Add([]float32{0, 1}, 2)

	matches, err := idx.Search([]float32{1, 0}, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(matches) != 2 {
		t.Errorf("expected all 2 entries when k exceeds size, got %d", len(matches))
	}
}

func TestSearch_TiesBrokenByPosition(t *testing.T) {
	idx := NewIndex(2, ModeL2)
	// Equidistant from the query.
	idx.Add([]float32{1, 0}, 10)
	idx.Add([]float32{-1, 0}, 20)
	idx.Add([]float32{0, 1}, 30)

	matches, err := idx.Search([]float32{0, 0}, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var got []int64
	for _, m := range matches {
		got = append(got, m.ToolID)
	}
	want := []int64{10, 20, 30}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("expected first-inserted order %v for tied scores, got %v", want, got)
		}
	}
}

func TestSearch_ThresholdExcludesCandidates(t *testing.T) {
	idx := NewIndex(2, ModeL2)
	idx.SetThreshold(1.0)

	// Squared distance from the query is 1.2.
	idx.Add([]float32{0, 0}, 1)

	query := []float32{float32(math.Sqrt(1.2)), 0}
	matches, err := idx.Search(query, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(matches) != 0 {
		t.Errorf("candidate beyond threshold must be excluded, got %d matches", len(matches))
	}
}

func TestSearch_ThresholdKeepsCloseCandidates(t *testing.T) {
	idx := NewIndex(2, ModeL2)
	idx.SetThreshold(1.0)

	idx.Add([]float32{0, 0}, 1)
	idx.Add([]float32{5, 5}, 2)

	matches, err := idx.Search([]float32{0.5, 0}, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(matches) != 1 || matches[0].ToolID != 1 {
		t.Errorf("expected only tool 1 within threshold, got %+v", matches)
	}
}

func TestSearch_InnerProductMode(t *testing.T) {
	idx := NewIndex(2, ModeInnerProduct)

	// Stored vectors are normalized, so magnitude must not affect ranking.
	idx.Add([]float32{10, 0}, 1)
	idx.Add([]float32{0, 3}, 2)

	matches, err := idx.Search([]float32{0, 7}, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if matches[0].ToolID != 2 {
		t.Errorf("expected tool 2 first in similarity order, got %d", matches[0].ToolID)
	}
	if math.Abs(matches[0].Score-1.0) > 1e-6 {
		t.Errorf("expected similarity 1 for parallel vectors, got %f", matches[0].Score)
	}
	if math.Abs(matches[1].Score) > 1e-6 {
		t.Errorf("expected similarity 0 for orthogonal vectors, got %f", matches[1].Score)
	}
}

func TestSearch_InnerProductThreshold(t *testing.T) {
	idx := NewIndex(2, ModeInnerProduct)
	idx.SetThreshold(0.9)

	idx.Add([]float32{1, 0}, 1)
	idx.Add([]float32{0, 1}, 2)

	matches, err := idx.Search([]float32{1, 0}, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(matches) != 1 || matches[0].ToolID != 1 {
		t.Errorf("expected only the parallel vector above threshold, got %+v", matches)
	}
}
