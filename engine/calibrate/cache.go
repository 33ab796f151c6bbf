package calibrate

import (
	"sync"
)

// cache is the implementation of the Cache interface.
type cache struct {
	mu *sync.Mutex

	results map[string]Result

	currentFP  string
	currentCal Calibrator
}

// Cache keys calibration outcomes by config fingerprint and drives at most
// one calibrator at a time. Completed results are retained, so switching back
// to a recently used config skips recalibration entirely. Results of
// different fingerprints are never mixed; starting a run for a new
// fingerprint abandons the previous run.
type Cache interface {
	// Lookup returns the stored result for a fingerprint.
	//
	// Parameters:
	//   - fingerprint: the config fingerprint
	//
	// Returns:
	//   - Result: the completed calibration
	//   - bool: false when no completed result exists
	Lookup(fingerprint string) (Result, bool)

	// Start registers a calibrator as the current run for a fingerprint,
	// replacing any run in flight. Tick advances it and stores the result
	// under the fingerprint when it completes.
	//
	// Parameters:
	//   - fingerprint: the config fingerprint the run belongs to
	//   - cal: the calibrator to drive (nil clears the current run)
	Start(fingerprint string, cal Calibrator)

	// Current returns the in-flight calibrator, or nil when none is running.
	//
	// Returns:
	//   - Calibrator: the current run or nil
	Current() Calibrator

	// Tick advances the current run by one Step and harvests its result on
	// completion. A no-op when nothing is running.
	Tick()

	// Invalidate drops a fingerprint's stored result. If the current run
	// belongs to that fingerprint it is abandoned as well.
	//
	// Parameters:
	//   - fingerprint: the config fingerprint to forget
	Invalidate(fingerprint string)
}

var _ Cache = &cache{}

// NewCache creates an empty calibration cache.
//
// Returns:
//   - Cache: a cache with no stored results and no current run
func NewCache() Cache {
	return &cache{
		mu:      &sync.Mutex{},
		results: make(map[string]Result),
	}
}

func (c *cache) Lookup(fingerprint string) (Result, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	r, ok := c.results[fingerprint]
	return r, ok
}

func (c *cache) Start(fingerprint string, cal Calibrator) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if cal == nil {
		c.currentFP = ""
		c.currentCal = nil
		return
	}
	c.currentFP = fingerprint
	c.currentCal = cal
}

func (c *cache) Current() Calibrator {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.currentCal
}

func (c *cache) Tick() {
	c.mu.Lock()
	cal := c.currentCal
	fp := c.currentFP
	c.mu.Unlock()

	if cal == nil {
		return
	}
	cal.Step()

	r, ok := cal.Result()
	if !ok {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	// The run may have been replaced or invalidated while stepping.
	if c.currentCal == cal {
		c.results[fp] = r
		c.currentFP = ""
		c.currentCal = nil
	}
}

func (c *cache) Invalidate(fingerprint string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.results, fingerprint)
	if c.currentFP == fingerprint {
		c.currentFP = ""
		c.currentCal = nil
	}
}
