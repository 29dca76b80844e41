package domain

import (
	"errors"
	"testing"
)

func TestEmbeddingPair_Validate(t *testing.T) {
	pair := EmbeddingPair{
		Dense:  []float32{0.1, 0.2, 0.3},
		Sparse: SparseVector{Indices: []int{4, 9}, Values: []float32{0.5, 0.7}},
	}
	if err := pair.Validate(3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// dims=0 skips the dimension check
	if err := pair.Validate(0); err != nil {
		t.Fatalf("unexpected error with dims=0: %v", err)
	}
}

func TestEmbeddingPair_Validate_DimMismatch(t *testing.T) {
	pair := EmbeddingPair{Dense: []float32{0.1, 0.2}}
	err := pair.Validate(1536)
	if !errors.Is(err, ErrVectorDimMismatch) {
		t.Fatalf("expected ErrVectorDimMismatch, got %v", err)
	}
}

func TestEmbeddingPair_Validate_DuplicateSparseIndex(t *testing.T) {
	pair := EmbeddingPair{
		Dense:  []float32{0.1},
		Sparse: SparseVector{Indices: []int{7, 7}, Values: []float32{0.1, 0.2}},
	}
	err := pair.Validate(1)
	if !errors.Is(err, ErrMalformedEmbedding) {
		t.Fatalf("expected ErrMalformedEmbedding, got %v", err)
	}
}

func TestEmbeddingPair_Validate_IndexValueLenMismatch(t *testing.T) {
	pair := EmbeddingPair{
		Dense:  []float32{0.1},
		Sparse: SparseVector{Indices: []int{1, 2}, Values: []float32{0.1}},
	}
	if err := pair.Validate(1); !errors.Is(err, ErrMalformedEmbedding) {
		t.Fatalf("expected ErrMalformedEmbedding, got %v", err)
	}
}

func TestParseLabel(t *testing.T) {
	cases := map[string]Label{
		"question":    LabelQuestion,
		"search term": LabelSearchTerm,
		"search_term": LabelSearchTerm,
		"":            DefaultLabel,
		"gibberish":   DefaultLabel,
	}
	for in, want := range cases {
		if got := ParseLabel(in); got != want {
			t.Errorf("ParseLabel(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestQuery_CacheKey(t *testing.T) {
	q := Query{Text: "What Is Dopamine?"}
	if got := q.CacheKey(); got != "what is dopamine?" {
		t.Fatalf("unexpected cache key: %q", got)
	}
}
