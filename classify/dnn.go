package classify

import (
	"errors"
	"fmt"
	"image"
	"sync"

	"gocv.io/x/gocv"
)

// DNNScorer is a Scorer backed by an OpenCV DNN classification model,
// eg: an ONNX export of the trained tool classifier
type DNNScorer struct {
	mu   sync.Mutex
	net  gocv.Net
	size int
}

// NewDNNScorer loads the model from modelFile.  size is the square input
// edge length the model expects, it should match the canonical image size.
func NewDNNScorer(modelFile string, size int) (*DNNScorer, error) {

	net := gocv.ReadNet(modelFile, "")

	if net.Empty() {
		return nil, fmt.Errorf("error loading model %s", modelFile)
	}

	if err := net.SetPreferableBackend(gocv.NetBackendDefault); err != nil {
		net.Close()
		return nil, fmt.Errorf("error setting backend: %w", err)
	}

	if err := net.SetPreferableTarget(gocv.NetTargetCPU); err != nil {
		net.Close()
		return nil, fmt.Errorf("error setting target: %w", err)
	}

	return &DNNScorer{
		net:  net,
		size: size,
	}, nil
}

// Score runs the model forward pass on the canonical image and returns
// the raw score vector
func (s *DNNScorer) Score(img gocv.Mat) ([]float32, error) {

	if img.Empty() {
		return nil, errors.New("classify: empty canonical image")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// canonical images are already normalized, no further scaling
	blob := gocv.BlobFromImage(img, 1.0, image.Pt(s.size, s.size),
		gocv.NewScalar(0, 0, 0, 0), false, false)
	defer blob.Close()

	s.net.SetInput(blob, "")

	out := s.net.Forward("")
	defer out.Close()

	raw, err := out.DataPtrFloat32()

	if err != nil {
		return nil, fmt.Errorf("error reading model output: %w", err)
	}

	// copy out of the Mat backed buffer before it is freed
	scores := make([]float32, len(raw))
	copy(scores, raw)

	return scores, nil
}

// Close frees the loaded model
func (s *DNNScorer) Close() error {
	return s.net.Close()
}
