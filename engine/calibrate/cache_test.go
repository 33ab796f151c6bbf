package calibrate

import (
	"testing"

	"github.com/Carmen-Shannon/kinetype/common"
)

// stubCalibrator completes after a fixed number of steps so cache tests do
// not need a full scene.
type stubCalibrator struct {
	steps  int
	needed int
	result Result
}

var _ Calibrator = &stubCalibrator{}

func (s *stubCalibrator) Step() {
	if s.steps < s.needed {
		s.steps++
	}
}

func (s *stubCalibrator) Phase() Phase {
	if s.Done() {
		return PhaseDone
	}
	return PhaseSearching
}

func (s *stubCalibrator) Done() bool {
	return s.steps >= s.needed
}

func (s *stubCalibrator) Result() (Result, bool) {
	if !s.Done() {
		return Result{}, false
	}
	return s.result, true
}

func stubResult(distance float32) Result {
	return Result{
		Distance: distance,
		Bounds:   common.Rect{MinX: 0.1, MinY: 0.2, MaxX: 0.9, MaxY: 0.8},
	}
}

func TestCacheStoresCompletedRun(t *testing.T) {
	c := NewCache()

	if _, ok := c.Lookup("fp-a"); ok {
		t.Fatalf("empty cache reported a hit")
	}

	c.Start("fp-a", &stubCalibrator{needed: 3, result: stubResult(4.2)})
	for i := 0; i < 10; i++ {
		c.Tick()
	}

	res, ok := c.Lookup("fp-a")
	if !ok {
		t.Fatalf("completed run was not stored")
	}
	if res.Distance != 4.2 {
		t.Errorf("stored distance = %v, want 4.2", res.Distance)
	}
	if c.Current() != nil {
		t.Errorf("current run not cleared after completion")
	}
}

func TestCacheTickWithoutRun(t *testing.T) {
	c := NewCache()
	c.Tick()
	if _, ok := c.Lookup(""); ok {
		t.Errorf("idle tick stored a result")
	}
}

func TestCacheInvalidateDropsResult(t *testing.T) {
	c := NewCache()
	c.Start("fp-a", &stubCalibrator{needed: 1, result: stubResult(3.0)})
	c.Tick()
	if _, ok := c.Lookup("fp-a"); !ok {
		t.Fatalf("run did not complete")
	}

	c.Invalidate("fp-a")
	if _, ok := c.Lookup("fp-a"); ok {
		t.Errorf("invalidated fingerprint still resolves")
	}
}

func TestCacheInvalidateAbandonsRun(t *testing.T) {
	c := NewCache()
	cal := &stubCalibrator{needed: 5, result: stubResult(3.0)}
	c.Start("fp-a", cal)
	c.Tick()

	c.Invalidate("fp-a")
	if c.Current() != nil {
		t.Fatalf("invalidating the in-flight fingerprint did not abandon the run")
	}

	// Ticking past the abandoned run's completion must not resurrect it.
	for i := 0; i < 10; i++ {
		c.Tick()
	}
	if _, ok := c.Lookup("fp-a"); ok {
		t.Errorf("abandoned run was stored anyway")
	}
}

func TestCacheInvalidateOtherKeepsRun(t *testing.T) {
	c := NewCache()
	cal := &stubCalibrator{needed: 2, result: stubResult(3.0)}
	c.Start("fp-a", cal)
	c.Invalidate("fp-b")

	if c.Current() != cal {
		t.Fatalf("invalidating another fingerprint abandoned the current run")
	}
	for i := 0; i < 10; i++ {
		c.Tick()
	}
	if _, ok := c.Lookup("fp-a"); !ok {
		t.Errorf("run abandoned by unrelated invalidation")
	}
}

func TestCacheStartReplacesRun(t *testing.T) {
	c := NewCache()
	old := &stubCalibrator{needed: 100, result: stubResult(7.0)}
	c.Start("fp-old", old)
	c.Tick()

	next := &stubCalibrator{needed: 2, result: stubResult(3.3)}
	c.Start("fp-new", next)
	if c.Current() != next {
		t.Fatalf("Start did not replace the current run")
	}

	for i := 0; i < 10; i++ {
		c.Tick()
	}
	if _, ok := c.Lookup("fp-old"); ok {
		t.Errorf("replaced run produced a result")
	}
	if res, ok := c.Lookup("fp-new"); !ok || res.Distance != 3.3 {
		t.Errorf("replacement run result = %v, %v; want 3.3, true", res.Distance, ok)
	}
}

func TestCacheStartNilClearsRun(t *testing.T) {
	c := NewCache()
	c.Start("fp-a", &stubCalibrator{needed: 100})
	c.Start("", nil)
	if c.Current() != nil {
		t.Errorf("nil Start left a current run")
	}
}

func TestCacheKeepsResultsPerFingerprint(t *testing.T) {
	c := NewCache()

	c.Start("fp-a", &stubCalibrator{needed: 1, result: stubResult(3.0)})
	for i := 0; i < 5; i++ {
		c.Tick()
	}
	c.Start("fp-b", &stubCalibrator{needed: 1, result: stubResult(6.0)})
	for i := 0; i < 5; i++ {
		c.Tick()
	}

	a, okA := c.Lookup("fp-a")
	b, okB := c.Lookup("fp-b")
	if !okA || !okB {
		t.Fatalf("lookups = %v, %v; want both hits", okA, okB)
	}
	if a.Distance != 3.0 || b.Distance != 6.0 {
		t.Errorf("distances = %v, %v; want 3.0 and 6.0", a.Distance, b.Distance)
	}
}
