package percept

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/tooltrack/percept/classify"
	"github.com/tooltrack/percept/tracker"
	"gocv.io/x/gocv"
)

// captureRetryDelay paces retries after a failed device read so a broken
// device does not spin the loop
const captureRetryDelay = 50 * time.Millisecond

// captureLoop reads frames from the device and publishes each into the
// mailbox until cancelled.  Transient read failures are logged and
// skipped, they never terminate the loop.  The device handle is released
// when the loop exits.
func (p *Pipeline) captureLoop(ctx context.Context) {

	defer p.dev.Close()

	buf := gocv.NewMat()
	defer buf.Close()

	for {
		if ctx.Err() != nil {
			return
		}

		if err := p.dev.Read(&buf); err != nil {
			log.Printf("capture: read failed, skipping frame: %v", err)
			sleep(ctx, captureRetryDelay)
			continue
		}

		now := time.Now()
		p.mailbox.Publish(buf, now)
		p.fps.Tick(now)
	}
}

// classifyLoop scores the latest frame whenever the mailbox holds a new
// sequence number and the admission gate has a free slot.  Scoring runs
// in its own goroutine so a slow inference never blocks the cancellation
// check, the gate guarantees at most one is in flight.
func (p *Pipeline) classifyLoop(ctx context.Context) {

	canon := classify.NewCanonicalizer(p.cfg.CanonicalSize)
	gate := classify.NewGate(1)

	defer func() {
		// wait for any in flight scoring before freeing the
		// canonicalizer's buffers
		gate.Acquire()
		canon.Close()
	}()

	var lastSeq uint64

	for {
		if ctx.Err() != nil {
			return
		}

		frame, ok := p.mailbox.Latest(lastSeq)

		if !ok {
			// no new frame since the last scored one
			sleep(ctx, p.cfg.PollInterval)
			continue
		}

		if !gate.TryAcquire() {
			// previous inference still in flight, skip this cycle
			frame.Close()
			sleep(ctx, p.cfg.PollInterval)
			continue
		}

		lastSeq = frame.Seq

		go func(f Frame) {
			defer gate.Release()
			defer f.Close()

			res, err := p.scoreFrame(canon, f)

			if err != nil {
				// abandon the cycle, the previous result stays
				// published
				log.Printf("classify: cycle for frame %d abandoned: %v",
					f.Seq, err)
				return
			}

			p.bus.PublishClassification(res)
		}(frame)
	}
}

// scoreFrame converts one frame to its canonical representation, scores
// it and normalizes the raw scores into a confidence
func (p *Pipeline) scoreFrame(canon *classify.Canonicalizer,
	f Frame) (ClassificationResult, error) {

	img, err := canon.Convert(f.Img)

	if err != nil {
		return ClassificationResult{}, fmt.Errorf("canonical conversion: %w", err)
	}

	raw, err := p.scorer.Score(img)

	if err != nil {
		return ClassificationResult{}, fmt.Errorf("scoring: %w", err)
	}

	probs := classify.Softmax(raw)

	if len(probs) == 0 {
		return ClassificationResult{}, fmt.Errorf("scoring: empty score vector")
	}

	idx, conf := classify.Top(probs)

	if idx >= len(p.labels) {
		return ClassificationResult{}, fmt.Errorf(
			"scoring: label index %d outside label set of %d", idx, len(p.labels))
	}

	return ClassificationResult{
		Label:      p.labels[idx],
		Confidence: conf,
		SourceSeq:  f.Seq,
		ComputedAt: time.Now(),
	}, nil
}

// trackLoop runs person detection and identity tracking on every new
// frame until cancelled.  It sleeps briefly when the mailbox holds no new
// frame rather than spinning, and abandons a cycle on detection failure
// leaving the previous snapshot published.
func (p *Pipeline) trackLoop(ctx context.Context) {

	ct := tracker.NewCentroidTracker(tracker.Params{
		MatchThreshold: p.cfg.MatchThreshold,
		EvictAfter:     p.cfg.EvictAfter,
		HistorySize:    p.cfg.HistorySize,
		MinDt:          p.cfg.MinSpeedInterval,
	})

	var lastSeq uint64

	for {
		if ctx.Err() != nil {
			return
		}

		frame, ok := p.mailbox.Latest(lastSeq)

		if !ok {
			sleep(ctx, p.cfg.PollInterval)
			continue
		}

		lastSeq = frame.Seq

		boxes, err := p.det.Detect(frame.Img)
		frame.Close()

		if err != nil {
			log.Printf("track: cycle for frame %d abandoned: %v", frame.Seq, err)
			continue
		}

		p.bus.PublishTracking(ct.Update(boxes, frame.CapturedAt, frame.Seq))
	}
}
