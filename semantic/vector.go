package semantic

import "math"

// Cosine returns (a·b)/(‖a‖·‖b‖) over the first min(len(a), len(b))
// components, accumulated in float64. Returns 0 when either norm is 0 or
// the result is not finite.
func Cosine(a, b []float32) float64 {
	n := min(len(a), len(b))

	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	sim := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	if math.IsNaN(sim) || math.IsInf(sim, 0) {
		return 0
	}
	// rounding can push identical vectors just past 1
	return max(-1, min(1, sim))
}
