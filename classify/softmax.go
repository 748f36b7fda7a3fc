package classify

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Softmax converts a raw score vector into a probability distribution
// over the label set.  The scores are shifted by their maximum before
// exponentiation to keep the computation stable for large magnitudes.
func Softmax(raw []float32) []float64 {

	if len(raw) == 0 {
		return nil
	}

	probs := make([]float64, len(raw))

	for i, v := range raw {
		probs[i] = float64(v)
	}

	max := floats.Max(probs)

	for i := range probs {
		probs[i] = math.Exp(probs[i] - max)
	}

	floats.Scale(1/floats.Sum(probs), probs)

	return probs
}

// Top returns the index and probability of the highest scoring label in
// the distribution.  probs must not be empty.
func Top(probs []float64) (int, float64) {
	idx := floats.MaxIdx(probs)
	return idx, probs[idx]
}
