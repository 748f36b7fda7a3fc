package percept

import (
	"errors"
)

var (
	// ErrDeviceUnavailable is returned by Start when the capture device
	// cannot be opened.  The pipeline cannot run without a camera.
	ErrDeviceUnavailable = errors.New("percept: capture device unavailable")

	// ErrShutdownTimeout is returned by Stop when one of the worker loops
	// fails to exit within the configured shutdown timeout.
	ErrShutdownTimeout = errors.New("percept: worker did not stop within timeout")

	// ErrAlreadyStarted is returned by Start when the pipeline is running.
	ErrAlreadyStarted = errors.New("percept: pipeline already started")

	// ErrNotStarted is returned by Stop when the pipeline was never started.
	ErrNotStarted = errors.New("percept: pipeline not started")
)
