// Package tracker assigns persistent identities to person detections
// across frames and derives per identity speed in pixels per second.
package tracker

import (
	"image"
	"time"

	"gonum.org/v1/gonum/floats"
)

// Centroid is the center point of a detection bounding box in pixel
// coordinates
type Centroid struct {
	X, Y float64
}

// BoxCentroid returns the centroid of a detection bounding box
func BoxCentroid(box image.Rectangle) Centroid {
	return Centroid{
		X: float64(box.Min.X+box.Max.X) / 2,
		Y: float64(box.Min.Y+box.Max.Y) / 2,
	}
}

// Distance returns the Euclidean distance to another centroid in pixels
func (c Centroid) Distance(other Centroid) float64 {
	return floats.Distance(
		[]float64{c.X, c.Y},
		[]float64{other.X, other.Y},
		2)
}

// Sample pairs a centroid with the capture time it was observed at
type Sample struct {
	Centroid Centroid
	At       time.Time
}

// Track is a persisted person identity maintained across frames.  Tracks
// are owned exclusively by the tracking loop, other components only see
// the copies published in a Snapshot.
type Track struct {
	// ID is unique for the lifetime of the run
	ID int
	// Centroid is the position from the most recent matched detection
	Centroid Centroid
	// LastSeen is the capture time of the most recent matched detection
	LastSeen time.Time
	// MissCount is the number of consecutive cycles without a matching
	// detection
	MissCount int
	// Speed is the last computed speed in pixels per second.  0 until
	// the track's second match.
	Speed float64
	// History is the bounded centroid history, oldest first, ordered by
	// timestamp
	History []Sample
}

// clone returns a deep copy of the track for publishing in a snapshot
func (t *Track) clone() Track {

	c := *t
	c.History = make([]Sample, len(t.History))
	copy(c.History, t.History)

	return c
}

// Snapshot is the full set of live tracks published after one tracking
// cycle, ordered by increasing track ID
type Snapshot struct {
	// SourceSeq is the frame sequence number the snapshot was computed
	// against
	SourceSeq uint64 `json:"source_seq"`
	// At is the capture time of that frame
	At time.Time `json:"at"`
	// Tracks are copies of the live tracks
	Tracks []Track `json:"tracks"`
}
