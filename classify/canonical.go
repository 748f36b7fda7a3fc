package classify

import (
	"errors"
	"image"

	"gocv.io/x/gocv"
)

// Canonicalizer converts captured frames into the canonical
// representation required by the scoring capability: single channel,
// fixed square size, values normalized to [0,1].
//
// The intermediate Mats are allocated once and reused, so a Canonicalizer
// must only be used by one scoring cycle at a time.  The classification
// stage's admission gate guarantees this.
type Canonicalizer struct {
	// size is the square edge length in pixels
	size int
	// intermediate Mats reused across conversions
	gray    gocv.Mat
	resized gocv.Mat
	norm    gocv.Mat
}

// NewCanonicalizer returns a converter producing size x size canonical
// images
func NewCanonicalizer(size int) *Canonicalizer {
	return &Canonicalizer{
		size:    size,
		gray:    gocv.NewMat(),
		resized: gocv.NewMat(),
		norm:    gocv.NewMat(),
	}
}

// Convert turns src into the canonical representation.  The returned Mat
// is an internal buffer valid until the next Convert call, callers must
// not retain it.
func (c *Canonicalizer) Convert(src gocv.Mat) (gocv.Mat, error) {

	if src.Empty() {
		return gocv.Mat{}, errors.New("classify: empty frame")
	}

	gocv.CvtColor(src, &c.gray, gocv.ColorBGRToGray)

	gocv.Resize(c.gray, &c.resized, image.Pt(c.size, c.size), 0, 0,
		gocv.InterpolationArea)

	// scale pixel values from [0,255] to [0,1]
	c.resized.ConvertToWithParams(&c.norm, gocv.MatTypeCV32F, 1.0/255.0, 0)

	return c.norm, nil
}

// Size returns the square edge length of canonical images
func (c *Canonicalizer) Size() int {
	return c.size
}

// Close frees the intermediate Mats
func (c *Canonicalizer) Close() error {

	if err := c.gray.Close(); err != nil {
		return err
	}

	if err := c.resized.Close(); err != nil {
		return err
	}

	return c.norm.Close()
}
