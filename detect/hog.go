package detect

import (
	"errors"
	"fmt"
	"image"
	"sync"

	"gocv.io/x/gocv"
)

// HOG is a Detector using OpenCV's histogram of oriented gradients
// sliding window person detector with the default people SVM
type HOG struct {
	mu  sync.Mutex
	hog gocv.HOGDescriptor
}

// NewHOG returns a ready to use person detector
func NewHOG() (*HOG, error) {

	h := gocv.NewHOGDescriptor()

	det := gocv.HOGDefaultPeopleDetector()
	defer det.Close()

	if err := h.SetSVMDetector(det); err != nil {
		h.Close()
		return nil, fmt.Errorf("error setting people detector: %w", err)
	}

	return &HOG{
		hog: h,
	}, nil
}

// Detect returns the bounding boxes of the people found in img
func (h *HOG) Detect(img gocv.Mat) ([]image.Rectangle, error) {

	if img.Empty() {
		return nil, errors.New("detect: empty frame")
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	return h.hog.DetectMultiScale(img), nil
}

// Close frees the detector
func (h *HOG) Close() error {
	return h.hog.Close()
}
