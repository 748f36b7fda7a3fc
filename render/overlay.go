// Package render draws published pipeline results onto video frames for
// the presentation layer.  It only reads results, it never mutates
// pipeline state.
package render

import (
	"fmt"
	"image"

	"github.com/tooltrack/percept"
	"github.com/tooltrack/percept/tracker"
	"gocv.io/x/gocv"
)

// Tracks draws each live track's centroid, trail and ID/speed label
// onto img
func Tracks(img *gocv.Mat, snap tracker.Snapshot, font Font) {

	for _, trk := range snap.Tracks {

		clr := TrackColor(trk.ID)

		// trail from oldest to newest history sample
		for i := 1; i < len(trk.History); i++ {
			gocv.Line(img,
				samplePt(trk.History[i-1]),
				samplePt(trk.History[i]),
				clr, 1)
		}

		center := image.Pt(int(trk.Centroid.X), int(trk.Centroid.Y))
		gocv.Circle(img, center, 4, clr, -1)

		text := fmt.Sprintf("person %d  %.1f px/s", trk.ID, trk.Speed)
		textSize := gocv.GetTextSize(text, font.Face, font.Scale, font.Thickness)

		// box the text gets written on, above the centroid
		bRect := image.Rect(
			center.X-textSize.X/2-font.LeftPad,
			center.Y-24-textSize.Y-font.TopPad-font.BottomPad,
			center.X+textSize.X/2+font.RightPad,
			center.Y-24)
		gocv.Rectangle(img, bRect, clr, -1)

		gocv.PutTextWithParams(img, text,
			image.Pt(center.X-textSize.X/2, center.Y-24-font.BottomPad),
			font.Face, font.Scale, Black, font.Thickness, font.LineType, false)
	}
}

// Banner draws the latest classification result and capture throughput
// along the top edge of img
func Banner(img *gocv.Mat, res percept.ClassificationResult, fps float64,
	font Font) {

	rect := image.Rect(0, 0, img.Cols(), 24)
	gocv.Rectangle(img, rect, Black, -1)

	text := fmt.Sprintf("tool: %s (%.2f)  frame: %d  fps: %.1f",
		res.Label, res.Confidence, res.SourceSeq, fps)

	gocv.PutTextWithParams(img, text, image.Pt(font.LeftPad, 16),
		font.Face, font.Scale, White, font.Thickness, font.LineType, false)
}

// samplePt converts a history sample's centroid to image coordinates
func samplePt(s tracker.Sample) image.Point {
	return image.Pt(int(s.Centroid.X), int(s.Centroid.Y))
}
