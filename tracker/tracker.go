package tracker

import (
	"image"
	"math"
	"sort"
	"time"
)

// Params holds the tracker's tunable settings.  They are configuration
// with defaults, not values derived from the camera or detector.
type Params struct {
	// MatchThreshold is the maximum centroid distance in pixels for a
	// detection to be matched to an existing track
	MatchThreshold float64
	// EvictAfter is the number of consecutive unmatched cycles a track
	// survives, it is removed once MissCount exceeds this
	EvictAfter int
	// HistorySize bounds the centroid history kept per track
	HistorySize int
	// MinDt is the smallest interval speed is computed over.  Matches
	// arriving closer together than this retain the previous speed so a
	// near zero interval never reports an instantaneous spike.
	MinDt time.Duration
}

// DefaultParams returns the settings used when none are configured
func DefaultParams() Params {
	return Params{
		MatchThreshold: 80,
		EvictAfter:     5,
		HistorySize:    32,
		MinDt:          10 * time.Millisecond,
	}
}

// CentroidTracker matches person detections to tracks by greedy nearest
// centroid assignment.  It is not safe for concurrent use, the tracking
// loop is its only caller.
type CentroidTracker struct {
	params Params
	// tracks holds the live tracks keyed by ID
	tracks map[int]*Track
	// nextID is the last track ID handed out
	nextID int
}

// NewCentroidTracker creates a tracker with the given settings
func NewCentroidTracker(params Params) *CentroidTracker {
	return &CentroidTracker{
		params: params,
		tracks: make(map[int]*Track),
	}
}

// Update runs one matching round against the detections of the frame with
// sequence number seq captured at time at, and returns the resulting
// snapshot of live tracks.
//
// Existing tracks are visited in increasing ID order so tie breaking is
// deterministic.  Each track takes the nearest unconsumed detection
// within MatchThreshold.  Detections left over become new tracks,
// tracks left over miss a cycle and are evicted once MissCount exceeds
// EvictAfter.
func (ct *CentroidTracker) Update(boxes []image.Rectangle, at time.Time,
	seq uint64) Snapshot {

	cents := make([]Centroid, len(boxes))
	consumed := make([]bool, len(boxes))

	for i, box := range boxes {
		cents[i] = BoxCentroid(box)
	}

	for _, id := range ct.sortedIDs() {

		trk := ct.tracks[id]

		best := -1
		bestDist := math.MaxFloat64

		for i, c := range cents {

			if consumed[i] {
				continue
			}

			if d := trk.Centroid.Distance(c); d < bestDist {
				best = i
				bestDist = d
			}
		}

		if best >= 0 && bestDist <= ct.params.MatchThreshold {
			consumed[best] = true
			ct.advance(trk, cents[best], at)
			continue
		}

		trk.MissCount++

		if trk.MissCount > ct.params.EvictAfter {
			delete(ct.tracks, id)
		}
	}

	// leftover detections start new tracks
	for i, c := range cents {

		if consumed[i] {
			continue
		}

		ct.nextID++

		ct.tracks[ct.nextID] = &Track{
			ID:       ct.nextID,
			Centroid: c,
			LastSeen: at,
			History:  []Sample{{Centroid: c, At: at}},
		}
	}

	return ct.snapshot(at, seq)
}

// advance applies a matched detection to a track
func (ct *CentroidTracker) advance(trk *Track, c Centroid, at time.Time) {

	dt := at.Sub(trk.LastSeen)

	if dt >= ct.params.MinDt {
		trk.Speed = trk.Centroid.Distance(c) / dt.Seconds()
	}

	trk.Centroid = c
	trk.LastSeen = at
	trk.MissCount = 0

	trk.History = append(trk.History, Sample{Centroid: c, At: at})

	if len(trk.History) > ct.params.HistorySize {
		trk.History = trk.History[len(trk.History)-ct.params.HistorySize:]
	}
}

// Len returns the number of live tracks
func (ct *CentroidTracker) Len() int {
	return len(ct.tracks)
}

// sortedIDs returns the live track IDs in increasing order
func (ct *CentroidTracker) sortedIDs() []int {

	ids := make([]int, 0, len(ct.tracks))

	for id := range ct.tracks {
		ids = append(ids, id)
	}

	sort.Ints(ids)

	return ids
}

// snapshot deep copies the live tracks for publishing
func (ct *CentroidTracker) snapshot(at time.Time, seq uint64) Snapshot {

	s := Snapshot{
		SourceSeq: seq,
		At:        at,
		Tracks:    make([]Track, 0, len(ct.tracks)),
	}

	for _, id := range ct.sortedIDs() {
		s.Tracks = append(s.Tracks, ct.tracks[id].clone())
	}

	return s
}
