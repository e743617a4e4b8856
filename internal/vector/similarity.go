package vector

import "math"

// norm returns the L2 norm of v.
func norm(v []float32) float64 {
	var sum float64
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}

// cosineDistance returns 1 - cosine similarity, given precomputed norms.
// A zero-norm operand yields the maximum distance of 1. For unit-norm inputs
// the result lies in [0, 2]; converting to a score via 1 - distance therefore
// maps to [-1, 1], and callers surface out-of-range scores unclamped so a
// misconfigured metric stays visible.
func cosineDistance(a, b []float32, normA, normB float64) float64 {
	if normA == 0 || normB == 0 {
		return 1
	}
	var dot float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
	}
	return 1 - dot/(normA*normB)
}

// CosineSimilarity returns the cosine similarity of two equal-length vectors,
// or 0 when either has zero norm.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	na, nb := norm(a), norm(b)
	if na == 0 || nb == 0 {
		return 0
	}
	var dot float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
	}
	return dot / (na * nb)
}
