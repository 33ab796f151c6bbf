package anim

import (
	"math"
	"sync"
)

// clock is the implementation of the Clock interface.
type clock struct {
	mu      sync.Mutex
	cycle   float64
	elapsed float64
	pinned  bool
	pinnedT float64
}

// Clock produces the normalized animation progress that drives the evaluator.
// In free-running mode progress derives from accumulated elapsed time modulo
// the cycle duration; Set pins progress to an exact value so the exporter can
// step through evenly spaced frames regardless of real frame timing.
type Clock interface {
	// Advance accumulates elapsed seconds. Ignored while the clock is pinned
	// and for non-positive deltas.
	//
	// Parameters:
	//   - dt: elapsed seconds since the previous tick
	Advance(dt float64)

	// T returns the current normalized progress in [0, 1).
	//
	// Returns:
	//   - float64: pinned progress if set, otherwise elapsed time modulo the
	//     cycle duration
	T() float64

	// Set pins progress to t, decoupling the clock from elapsed time until
	// Reset. Values outside [0, 1) are wrapped.
	//
	// Parameters:
	//   - t: normalized progress to pin
	Set(t float64)

	// Reset rewinds to t = 0 and resumes free-running.
	Reset()
}

var _ Clock = &clock{}

// NewClock creates a free-running Clock for the given cycle duration.
// Panics if the duration is not positive; configs are validated before the
// engine is assembled, so a bad duration here is a programmer error.
//
// Parameters:
//   - cycleSeconds: loop length in seconds, must be > 0
//
// Returns:
//   - Clock: a clock starting at t = 0 in free-running mode
func NewClock(cycleSeconds float64) Clock {
	if cycleSeconds <= 0 {
		panic("anim: cycle duration must be positive")
	}
	return &clock{cycle: cycleSeconds}
}

func (c *clock) Advance(dt float64) {
	if dt <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pinned {
		return
	}
	c.elapsed += dt
}

func (c *clock) T() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.pinned {
		return c.pinnedT
	}
	return wrap01(c.elapsed / c.cycle)
}

func (c *clock) Set(t float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.pinned = true
	c.pinnedT = wrap01(t)
}

func (c *clock) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.elapsed = 0
	c.pinned = false
	c.pinnedT = 0
}

// wrap01 maps any value onto [0, 1).
func wrap01(t float64) float64 {
	t = math.Mod(t, 1)
	if t < 0 {
		t += 1
	}
	return t
}
