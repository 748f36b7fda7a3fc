package percept

import (
	"errors"
	"image"
	"sync"
	"testing"
	"time"

	"gocv.io/x/gocv"
)

// fakeDevice is a Device producing synthetic color frames at a fixed
// interval
type fakeDevice struct {
	mu       sync.Mutex
	interval time.Duration
	failOpen bool
	opened   bool
	closed   bool
	frames   int
}

func (d *fakeDevice) Open() error {

	if d.failOpen {
		return errors.New("no such device")
	}

	d.mu.Lock()
	d.opened = true
	d.mu.Unlock()

	return nil
}

func (d *fakeDevice) Read(buf *gocv.Mat) error {

	time.Sleep(d.interval)

	d.mu.Lock()
	d.frames++
	v := float64(d.frames % 255)
	d.mu.Unlock()

	m := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(v, v, v, 0),
		32, 32, gocv.MatTypeCV8UC3)
	defer m.Close()

	m.CopyTo(buf)

	return nil
}

func (d *fakeDevice) Close() error {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()
	return nil
}

func (d *fakeDevice) isClosed() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.closed
}

// fakeDetector returns one detection drifting right by a pixel per call
type fakeDetector struct {
	mu    sync.Mutex
	calls int
}

func (f *fakeDetector) Detect(img gocv.Mat) ([]image.Rectangle, error) {

	f.mu.Lock()
	f.calls++
	x := 100 + f.calls
	f.mu.Unlock()

	return []image.Rectangle{image.Rect(x-10, 90, x+10, 110)}, nil
}

// fakeScorer returns a fixed score vector and records how many scoring
// calls overlap in time
type fakeScorer struct {
	mu          sync.Mutex
	delay       time.Duration
	failNext    int
	inFlight    int
	maxInFlight int
}

func (f *fakeScorer) Score(img gocv.Mat) ([]float32, error) {

	f.mu.Lock()
	f.inFlight++
	if f.inFlight > f.maxInFlight {
		f.maxInFlight = f.inFlight
	}
	fail := f.failNext > 0
	if fail {
		f.failNext--
	}
	f.mu.Unlock()

	time.Sleep(f.delay)

	f.mu.Lock()
	f.inFlight--
	f.mu.Unlock()

	if fail {
		return nil, errors.New("model exploded")
	}

	// index 1 scores highest
	return []float32{0.1, 2.5, 0.3}, nil
}

func (f *fakeScorer) setFailNext(n int) {
	f.mu.Lock()
	f.failNext = n
	f.mu.Unlock()
}

func (f *fakeScorer) maxConcurrent() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.maxInFlight
}

// testConfig returns settings tightened for fast tests
func testConfig() Config {
	cfg := DefaultConfig()
	cfg.PollInterval = time.Millisecond
	cfg.FPSWindow = 500 * time.Millisecond
	cfg.ShutdownTimeout = 2 * time.Second
	cfg.CanonicalSize = 16
	return cfg
}

var testLabels = []string{"hammer", "wrench", "screwdriver"}

// eventually polls cond until it returns true or the deadline passes
func eventually(t *testing.T, timeout time.Duration, cond func() bool) bool {
	t.Helper()

	deadline := time.Now().Add(timeout)

	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}

	return false
}

func TestPipelineDeviceUnavailable(t *testing.T) {

	dev := &fakeDevice{failOpen: true}
	p := NewPipeline(testConfig(), dev, &fakeDetector{}, &fakeScorer{}, testLabels)

	err := p.Start()

	if !errors.Is(err, ErrDeviceUnavailable) {
		t.Errorf("expected ErrDeviceUnavailable, got %v", err)
	}
}

func TestPipelineStartStop(t *testing.T) {

	dev := &fakeDevice{interval: 5 * time.Millisecond}
	p := NewPipeline(testConfig(), dev, &fakeDetector{}, &fakeScorer{}, testLabels)

	if err := p.Start(); err != nil {
		t.Fatalf("error starting pipeline: %v", err)
	}

	if err := p.Start(); !errors.Is(err, ErrAlreadyStarted) {
		t.Errorf("expected ErrAlreadyStarted, got %v", err)
	}

	if err := p.Stop(); err != nil {
		t.Fatalf("error stopping pipeline: %v", err)
	}

	if !dev.isClosed() {
		t.Error("expected device handle released after Stop")
	}

	if err := p.Stop(); !errors.Is(err, ErrNotStarted) {
		t.Errorf("expected ErrNotStarted on second Stop, got %v", err)
	}
}

// TestPipelineEndToEnd runs the full pipeline on fakes and checks both
// result streams get published
func TestPipelineEndToEnd(t *testing.T) {

	dev := &fakeDevice{interval: 5 * time.Millisecond}
	scorer := &fakeScorer{}
	p := NewPipeline(testConfig(), dev, &fakeDetector{}, scorer, testLabels)

	if err := p.Start(); err != nil {
		t.Fatalf("error starting pipeline: %v", err)
	}

	defer p.Stop()

	if !eventually(t, 2*time.Second, func() bool {
		_, ok := p.Classification()
		return ok
	}) {
		t.Fatal("no classification result published")
	}

	res, _ := p.Classification()

	if res.Label != "wrench" {
		t.Errorf("expected top label wrench, got %q", res.Label)
	}

	if res.Confidence <= 0 || res.Confidence > 1 {
		t.Errorf("expected confidence in (0,1], got %v", res.Confidence)
	}

	if res.SourceSeq == 0 {
		t.Error("expected a non zero source sequence")
	}

	if !eventually(t, 2*time.Second, func() bool {
		snap, ok := p.Tracking()
		return ok && len(snap.Tracks) == 1
	}) {
		t.Fatal("no tracking snapshot with one track published")
	}

	if fps := p.FPS(); fps <= 0 {
		t.Errorf("expected a positive capture fps, got %v", fps)
	}
}

// TestPipelineSingleInference checks the admission gate never lets two
// scoring calls overlap even when capture outpaces inference
func TestPipelineSingleInference(t *testing.T) {

	dev := &fakeDevice{interval: 2 * time.Millisecond}
	scorer := &fakeScorer{delay: 30 * time.Millisecond}
	p := NewPipeline(testConfig(), dev, &fakeDetector{}, scorer, testLabels)

	if err := p.Start(); err != nil {
		t.Fatalf("error starting pipeline: %v", err)
	}

	time.Sleep(500 * time.Millisecond)

	if err := p.Stop(); err != nil {
		t.Fatalf("error stopping pipeline: %v", err)
	}

	if got := scorer.maxConcurrent(); got != 1 {
		t.Errorf("expected at most 1 scoring call in flight, got %d", got)
	}
}

// TestPipelineScorerFailure checks a failing scoring cycle leaves the
// previous result published and the loop recovers on the next success
func TestPipelineScorerFailure(t *testing.T) {

	dev := &fakeDevice{interval: 5 * time.Millisecond}
	scorer := &fakeScorer{}
	p := NewPipeline(testConfig(), dev, &fakeDetector{}, scorer, testLabels)

	if err := p.Start(); err != nil {
		t.Fatalf("error starting pipeline: %v", err)
	}

	defer p.Stop()

	if !eventually(t, 2*time.Second, func() bool {
		_, ok := p.Classification()
		return ok
	}) {
		t.Fatal("no classification result published")
	}

	before, _ := p.Classification()

	scorer.setFailNext(3)

	// while cycles fail, the previous result stays readable
	time.Sleep(100 * time.Millisecond)

	during, ok := p.Classification()

	if !ok {
		t.Fatal("expected previous result still published during failures")
	}

	if during.SourceSeq < before.SourceSeq {
		t.Errorf("result went backwards: %d < %d",
			during.SourceSeq, before.SourceSeq)
	}

	// loop produces a new result once scoring succeeds again
	if !eventually(t, 2*time.Second, func() bool {
		after, _ := p.Classification()
		return after.SourceSeq > during.SourceSeq
	}) {
		t.Error("expected a fresh result after scorer recovered")
	}
}
