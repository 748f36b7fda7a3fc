package percept

import (
	"sync"
	"sync/atomic"
	"time"

	"gocv.io/x/gocv"
)

// Mailbox is the single slot frame cell shared between the capture loop
// and the consuming stages.  It holds at most one frame, always the most
// recently captured.  Publishing overwrites any unread previous frame
// (latest-wins), slow consumers skip frames rather than fall behind.
//
// The mutex is held only for the copy in Publish and the clone in Latest,
// never across detection or scoring, so expensive work is not serialized
// behind the lock.
type Mailbox struct {
	mu sync.Mutex
	// slot holds a copy of the most recently published frame
	slot gocv.Mat
	// seq is the sequence number of the frame in the slot, 0 before the
	// first publish
	seq        uint64
	capturedAt time.Time
	// read records whether any consumer has taken the current frame
	read bool
	// drops counts published frames overwritten before any consumer
	// read them
	drops uint64
}

// NewMailbox returns an empty mailbox
func NewMailbox() *Mailbox {
	return &Mailbox{
		slot: gocv.NewMat(),
	}
}

// Publish copies img into the slot, overwriting any previous frame, and
// returns the sequence number assigned to it.  The caller keeps ownership
// of img.
func (m *Mailbox) Publish(img gocv.Mat, capturedAt time.Time) uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.seq > 0 && !m.read {
		atomic.AddUint64(&m.drops, 1)
	}

	img.CopyTo(&m.slot)
	m.seq++
	m.capturedAt = capturedAt
	m.read = false

	return m.seq
}

// Latest returns a private copy of the most recent frame if its sequence
// number is greater than sinceSeq.  It returns false when no frame has
// been published yet or when the slot still holds the frame the caller
// has already seen.  The caller must Close the returned frame.
func (m *Mailbox) Latest(sinceSeq uint64) (Frame, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.seq == 0 || m.seq <= sinceSeq {
		return Frame{}, false
	}

	m.read = true

	return Frame{
		Img:        m.slot.Clone(),
		Seq:        m.seq,
		CapturedAt: m.capturedAt,
	}, true
}

// Seq returns the sequence number of the frame currently in the slot,
// 0 before the first publish
func (m *Mailbox) Seq() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.seq
}

// Drops returns the number of frames overwritten before any consumer
// read them.  A steadily growing value means the consumers run slower
// than capture, which is expected under latest-wins semantics.
func (m *Mailbox) Drops() uint64 {
	return atomic.LoadUint64(&m.drops)
}

// Close frees the slot buffer.  Publish and Latest must not be called
// after Close.
func (m *Mailbox) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.slot.Close()
}
