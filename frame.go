package percept

import (
	"time"

	"gocv.io/x/gocv"
)

// Frame is a single captured video frame handed out by the Mailbox.  The
// pixel buffer is a private copy, the receiver owns it and must Close it
// when processing of the frame has finished.
type Frame struct {
	// Img is the pixel buffer
	Img gocv.Mat
	// Seq is the capture sequence number assigned when the frame was
	// published.  Sequence numbers increase strictly, readers compare
	// them to detect whether a frame is new since their last read.
	Seq uint64
	// CapturedAt is the time the frame was read from the device
	CapturedAt time.Time
}

// Close frees the frame's pixel buffer
func (f *Frame) Close() error {
	return f.Img.Close()
}
