package percept

import (
	"sync"
	"time"

	"github.com/tooltrack/percept/tracker"
)

// ClassificationResult is the output of one completed inference cycle of
// the classification stage
type ClassificationResult struct {
	// Label is the top scoring label.  No confidence threshold is
	// applied, the top label is reported even at low confidence.
	Label string `json:"label"`
	// Confidence is the softmax probability of Label, in [0,1]
	Confidence float64 `json:"confidence"`
	// SourceSeq is the frame sequence number the result was computed from
	SourceSeq uint64 `json:"source_seq"`
	// ComputedAt is the time the inference cycle completed
	ComputedAt time.Time `json:"computed_at"`
}

// ResultBus holds the pipeline's two published value cells, one for the
// latest classification result and one for the latest tracking snapshot.
// Each cell is overwritten on publish and keeps no history.  The two
// streams are independently paced, each is monotonic in its SourceSeq
// field but one may lag the other by any number of frames, so readers
// must not assume temporal alignment between them.
type ResultBus struct {
	clsMu  sync.RWMutex
	cls    ClassificationResult
	clsSet bool

	trkMu  sync.RWMutex
	trk    tracker.Snapshot
	trkSet bool
}

// NewResultBus returns a bus with both cells empty
func NewResultBus() *ResultBus {
	return &ResultBus{}
}

// PublishClassification replaces the classification cell's content
func (b *ResultBus) PublishClassification(r ClassificationResult) {
	b.clsMu.Lock()
	defer b.clsMu.Unlock()
	b.cls = r
	b.clsSet = true
}

// Classification returns the most recently published classification
// result.  It returns false before the first publish.
func (b *ResultBus) Classification() (ClassificationResult, bool) {
	b.clsMu.RLock()
	defer b.clsMu.RUnlock()
	return b.cls, b.clsSet
}

// PublishTracking replaces the tracking cell's content.  The snapshot and
// everything it references must not be mutated after publish.
func (b *ResultBus) PublishTracking(s tracker.Snapshot) {
	b.trkMu.Lock()
	defer b.trkMu.Unlock()
	b.trk = s
	b.trkSet = true
}

// Tracking returns the most recently published tracking snapshot.  It
// returns false before the first publish.  Readers must treat the
// snapshot as read only.
func (b *ResultBus) Tracking() (tracker.Snapshot, bool) {
	b.trkMu.RLock()
	defer b.trkMu.RUnlock()
	return b.trk, b.trkSet
}
