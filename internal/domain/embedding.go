package domain

import "fmt"

// SparseVector is a term-weighted lexical vector in index/value form.
type SparseVector struct {
	Indices []int     `json:"indices"`
	Values  []float32 `json:"values"`
}

// IsZero reports whether the sparse vector carries no terms.
func (s SparseVector) IsZero() bool {
	return len(s.Indices) == 0
}

// EmbeddingPair holds the dense and sparse representations of one query text.
// Produced once per distinct query; cached with a TTL.
type EmbeddingPair struct {
	Dense  []float32    `json:"dense"`
	Sparse SparseVector `json:"sparse"`
}

// Validate checks the pair against the index contract: the dense vector must
// match the index dimensionality and sparse indices must be unique.
func (p EmbeddingPair) Validate(dims int) error {
	if dims > 0 && len(p.Dense) != dims {
		return fmt.Errorf("%w: dense dimension %d, index expects %d",
			ErrVectorDimMismatch, len(p.Dense), dims)
	}
	if len(p.Sparse.Indices) != len(p.Sparse.Values) {
		return fmt.Errorf("%w: %d sparse indices vs %d values",
			ErrMalformedEmbedding, len(p.Sparse.Indices), len(p.Sparse.Values))
	}
	seen := make(map[int]struct{}, len(p.Sparse.Indices))
	for _, idx := range p.Sparse.Indices {
		if _, dup := seen[idx]; dup {
			return fmt.Errorf("%w: duplicate sparse index %d", ErrMalformedEmbedding, idx)
		}
		seen[idx] = struct{}{}
	}
	return nil
}
