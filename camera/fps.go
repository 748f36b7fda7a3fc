package camera

import (
	"sync"
	"time"
)

// FPSCounter measures capture throughput as frames per second over a
// rolling time window.  Safe for concurrent use, the capture loop ticks
// it and the presentation layer reads it.
type FPSCounter struct {
	mu sync.Mutex
	// window is the length of the rolling measurement window
	window time.Duration
	// ticks holds the capture times still inside the window, oldest first
	ticks []time.Time
}

// NewFPSCounter returns a counter measuring over the given window
func NewFPSCounter(window time.Duration) *FPSCounter {
	return &FPSCounter{
		window: window,
	}
}

// Tick records one captured frame at time now
func (c *FPSCounter) Tick(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.ticks = append(c.ticks, now)
	c.evict(now)
}

// FPS returns the frames per second measured over the window ending at
// now.  The value ramps up until a full window has elapsed since the
// first tick.
func (c *FPSCounter) FPS(now time.Time) float64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.evict(now)

	if len(c.ticks) == 0 {
		return 0
	}

	return float64(len(c.ticks)) / c.window.Seconds()
}

// evict drops ticks that have fallen out of the window.  Caller holds
// the mutex.
func (c *FPSCounter) evict(now time.Time) {

	cutoff := now.Add(-c.window)

	i := 0
	for i < len(c.ticks) && c.ticks[i].Before(cutoff) {
		i++
	}

	if i > 0 {
		c.ticks = c.ticks[i:]
	}
}
