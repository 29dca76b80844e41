package retrieval

import "github.com/askcast/askcast/internal/domain"

// hybridConvexScale blends the semantic and lexical signals into one hybrid
// query: alpha*dense and (1-alpha)*sparse. alpha near 1 favors dense
// similarity, alpha near 0 favors term matching. Sparse indices are
// untouched; only the weights scale.
func hybridConvexScale(dense []float32, sparse domain.SparseVector, alpha float64) ([]float32, domain.SparseVector) {
	scaledDense := make([]float32, len(dense))
	for i, v := range dense {
		scaledDense[i] = float32(alpha) * v
	}

	scaledValues := make([]float32, len(sparse.Values))
	for i, v := range sparse.Values {
		scaledValues[i] = float32(1-alpha) * v
	}

	return scaledDense, domain.SparseVector{Indices: sparse.Indices, Values: scaledValues}
}
