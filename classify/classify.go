// Package classify provides the building blocks of the perception
// pipeline's classification stage: the canonical image conversion, the
// softmax transform, the admission gate bounding concurrent inference
// and the opaque scoring capability.
package classify

import (
	"gocv.io/x/gocv"
)

// Scorer is the opaque scoring capability.  Score is a pure function of
// the canonical image, implementations keep no state across calls beyond
// the loaded model.
//
// The classification stage publishes the top scoring label on every
// completed cycle with no confidence threshold, so consumers see a label
// even when the model is guessing.  Apply a display threshold downstream
// if that is unwanted.
type Scorer interface {
	// Score runs the model on a canonical image and returns one raw
	// score per label in the model's fixed label set
	Score(img gocv.Mat) ([]float32, error)
}
