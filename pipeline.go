package percept

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/tooltrack/percept/camera"
	"github.com/tooltrack/percept/classify"
	"github.com/tooltrack/percept/detect"
	"github.com/tooltrack/percept/tracker"
)

// Pipeline is the perception pipeline's lifecycle controller.  It owns
// the frame mailbox and result bus and runs the capture, classification
// and tracking loops as background workers.
type Pipeline struct {
	cfg Config

	dev    camera.Device
	det    detect.Detector
	scorer classify.Scorer
	labels []string

	mailbox *Mailbox
	bus     *ResultBus
	fps     *camera.FPSCounter

	mu      sync.Mutex
	started bool
	cancel  context.CancelFunc
	// done is closed once every worker loop has exited
	done chan struct{}
}

// NewPipeline assembles a pipeline from its capabilities.  labels maps
// the scorer's output vector indices to label names.
func NewPipeline(cfg Config, dev camera.Device, det detect.Detector,
	scorer classify.Scorer, labels []string) *Pipeline {

	return &Pipeline{
		cfg:     cfg,
		dev:     dev,
		det:     det,
		scorer:  scorer,
		labels:  labels,
		mailbox: NewMailbox(),
		bus:     NewResultBus(),
		fps:     camera.NewFPSCounter(cfg.FPSWindow),
	}
}

// Start opens the capture device and launches the three worker loops,
// returning immediately once they are running.  It returns
// ErrDeviceUnavailable when the device cannot be opened.
func (p *Pipeline) Start() error {

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.started {
		return ErrAlreadyStarted
	}

	if err := p.dev.Open(); err != nil {
		return fmt.Errorf("%w: %v", ErrDeviceUnavailable, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	p.done = make(chan struct{})
	p.started = true

	var wg sync.WaitGroup
	wg.Add(3)

	go func() {
		defer wg.Done()
		p.captureLoop(ctx)
	}()

	go func() {
		defer wg.Done()
		p.classifyLoop(ctx)
	}()

	go func() {
		defer wg.Done()
		p.trackLoop(ctx)
	}()

	go func(done chan struct{}) {
		wg.Wait()
		close(done)
	}(p.done)

	return nil
}

// Stop signals the worker loops to terminate and waits for them to exit.
// Every loop checks the cancellation signal each iteration, so shutdown
// latency is bounded by one frame interval.  If the workers do not exit
// within the configured shutdown timeout, ErrShutdownTimeout is returned
// and the workers are considered faulted, not silently abandoned.
func (p *Pipeline) Stop() error {

	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.started {
		return ErrNotStarted
	}

	p.cancel()

	select {
	case <-p.done:
	case <-time.After(p.cfg.ShutdownTimeout):
		return ErrShutdownTimeout
	}

	p.started = false

	return nil
}

// Close frees the mailbox buffer.  Call after Stop, once no reader still
// holds the mailbox.
func (p *Pipeline) Close() error {
	return p.mailbox.Close()
}

// Mailbox returns the shared frame mailbox.  The presentation layer may
// read from it at any rate.
func (p *Pipeline) Mailbox() *Mailbox {
	return p.mailbox
}

// Classification returns the most recently published classification
// result, or false before the first publish
func (p *Pipeline) Classification() (ClassificationResult, bool) {
	return p.bus.Classification()
}

// Tracking returns the most recently published tracking snapshot, or
// false before the first publish
func (p *Pipeline) Tracking() (tracker.Snapshot, bool) {
	return p.bus.Tracking()
}

// FPS returns the current capture throughput in frames per second
func (p *Pipeline) FPS() float64 {
	return p.fps.FPS(time.Now())
}

// sleep pauses for d or until ctx is cancelled, returning false on
// cancellation
func sleep(ctx context.Context, d time.Duration) bool {

	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
