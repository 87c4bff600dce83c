package textfeatures

import "math"

// SparseVector holds the non-zero entries of a feature vector. Indices are
// strictly increasing.
type SparseVector struct {
	Indices []int
	Values  []float64
}

// Len returns the number of non-zero entries.
func (v SparseVector) Len() int { return len(v.Indices) }

// Dot returns the inner product of v with a dense weight row.
func (v SparseVector) Dot(dense []float64) float64 {
	var sum float64
	for i, idx := range v.Indices {
		sum += v.Values[i] * dense[idx]
	}
	return sum
}

// Norm returns the Euclidean length of v.
func (v SparseVector) Norm() float64 {
	var sum float64
	for _, x := range v.Values {
		sum += x * x
	}
	return math.Sqrt(sum)
}

// Dense expands v into a slice of the given dimension.
func (v SparseVector) Dense(dim int) []float64 {
	out := make([]float64, dim)
	for i, idx := range v.Indices {
		out[idx] = v.Values[i]
	}
	return out
}
