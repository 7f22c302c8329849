package embedding

import (
	"fmt"
	"math"
)

// CosineSimilarity returns a value in [-1, 1]. A zero vector has no
// direction and scores 0 against anything.
func CosineSimilarity(a, b []float32) (float64, error) {
	if len(a) != len(b) {
		return 0, fmt.Errorf("vector dimensions differ: %d vs %d", len(a), len(b))
	}

	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}
	if normA == 0 || normB == 0 {
		return 0, nil
	}

	sim := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	// rounding can push parallel vectors a hair past 1
	return math.Max(-1, math.Min(1, sim)), nil
}
