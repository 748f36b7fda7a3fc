// Package detect provides the person detection capability consumed by the
// perception pipeline's tracking stage.
package detect

import (
	"image"

	"gocv.io/x/gocv"
)

// Detector is the detection capability.  Detect is a pure function of a
// single frame, implementations keep no state across calls beyond the
// loaded model.
type Detector interface {
	// Detect returns the bounding boxes of the people found in img, in
	// pixel coordinates of img
	Detect(img gocv.Mat) ([]image.Rectangle, error)
}
