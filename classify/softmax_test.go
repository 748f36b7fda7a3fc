package classify

import (
	"math"
	"testing"
)

func TestSoftmaxDistribution(t *testing.T) {

	probs := Softmax([]float32{1.0, 2.0, 3.0})

	if len(probs) != 3 {
		t.Fatalf("expected 3 probabilities, got %d", len(probs))
	}

	sum := 0.0
	for _, p := range probs {
		if p <= 0 || p > 1 {
			t.Errorf("probability %v outside (0,1]", p)
		}
		sum += p
	}

	if math.Abs(sum-1.0) > 1e-9 {
		t.Errorf("expected probabilities to sum to 1, got %v", sum)
	}

	// order is preserved
	if !(probs[2] > probs[1] && probs[1] > probs[0]) {
		t.Errorf("expected increasing probabilities, got %v", probs)
	}
}

// TestSoftmaxLargeScores checks the max shift keeps the computation
// stable for scores that would overflow a naive exponentiation
func TestSoftmaxLargeScores(t *testing.T) {

	probs := Softmax([]float32{1000, 1001})

	for _, p := range probs {
		if math.IsNaN(p) || math.IsInf(p, 0) {
			t.Fatalf("expected finite probabilities, got %v", probs)
		}
	}

	if probs[1] <= probs[0] {
		t.Errorf("expected the higher score to win, got %v", probs)
	}
}

func TestSoftmaxEmpty(t *testing.T) {

	if probs := Softmax(nil); probs != nil {
		t.Errorf("expected nil for empty input, got %v", probs)
	}
}

func TestTop(t *testing.T) {

	probs := Softmax([]float32{0.1, 2.5, 0.3})
	idx, conf := Top(probs)

	if idx != 1 {
		t.Errorf("expected top index 1, got %d", idx)
	}

	if conf != probs[1] {
		t.Errorf("expected confidence %v, got %v", probs[1], conf)
	}
}
