// Package camera provides the capture device capability consumed by the
// perception pipeline's frame source, plus a rolling throughput counter.
package camera

import (
	"errors"
	"fmt"
	"time"

	"gocv.io/x/gocv"
)

var (
	// ErrCaptureFailed indicates a single device read failed.  Transient,
	// the capture loop logs it and continues.
	ErrCaptureFailed = errors.New("camera: frame read failed")

	// ErrEmptyFrame indicates the device returned a frame with no pixel
	// data.  Transient, treated like ErrCaptureFailed.
	ErrEmptyFrame = errors.New("camera: device returned empty frame")

	// ErrNotOpen indicates Read or Close was called before Open succeeded
	ErrNotOpen = errors.New("camera: device not open")
)

// Device is the capture capability consumed by the pipeline.  A Device is
// used by a single goroutine, implementations need not be safe for
// concurrent calls.
type Device interface {
	// Open acquires the device handle
	Open() error
	// Read reads the next frame from the device into buf
	Read(buf *gocv.Mat) error
	// Close releases the device handle.  Safe to call after a failed
	// Open.
	Close() error
}

// Webcam is a Device backed by a local camera through OpenCV
type Webcam struct {
	deviceID    int
	readTimeout time.Duration
	cap         *gocv.VideoCapture
}

// NewWebcam returns a Webcam for the given OpenCV device index.
// readTimeout bounds a single frame read so the capture loop never blocks
// indefinitely on a stalled device.
func NewWebcam(deviceID int, readTimeout time.Duration) *Webcam {
	return &Webcam{
		deviceID:    deviceID,
		readTimeout: readTimeout,
	}
}

// Open acquires the camera handle
func (w *Webcam) Open() error {

	cap, err := gocv.OpenVideoCapture(w.deviceID)

	if err != nil {
		return fmt.Errorf("error opening device %d: %w", w.deviceID, err)
	}

	if w.readTimeout > 0 {
		cap.Set(gocv.VideoCaptureReadTimeoutMsec,
			float64(w.readTimeout.Milliseconds()))
	}

	w.cap = cap

	return nil
}

// Read reads the next frame from the camera into buf
func (w *Webcam) Read(buf *gocv.Mat) error {

	if w.cap == nil {
		return ErrNotOpen
	}

	if ok := w.cap.Read(buf); !ok {
		return ErrCaptureFailed
	}

	if buf.Empty() {
		return ErrEmptyFrame
	}

	return nil
}

// Close releases the camera handle
func (w *Webcam) Close() error {

	if w.cap == nil {
		return nil
	}

	err := w.cap.Close()
	w.cap = nil

	return err
}
