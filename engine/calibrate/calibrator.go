// Package calibrate finds the camera distance and screen-space crop that keep
// an animated lettering group fully in frame across its whole cycle. The
// search runs as a resumable state machine advanced a few samples per tick,
// so a frame is never blocked behind a full sweep.
package calibrate

import (
	"fmt"
	"math"
	"sync"

	"github.com/Carmen-Shannon/kinetype/common"
	"github.com/Carmen-Shannon/kinetype/engine/anim"
	"github.com/Carmen-Shannon/kinetype/engine/config"
	"github.com/Carmen-Shannon/kinetype/engine/scene"
)

const (
	// startDistance is the first camera distance tried.
	startDistance = 3.0

	// distanceStep is the dolly increment applied after any overflow.
	distanceStep = 0.3

	// maxDistance caps the search; the calibrator freezes there and proceeds
	// rather than failing.
	maxDistance = 20.0

	// samplesPerCycle and sweepCycles define the sweep: two full cycles with
	// the second offset by half a step, so extremes that fall between the
	// first cycle's samples are still seen.
	samplesPerCycle = 24
	sweepCycles     = 2
	totalSamples    = samplesPerCycle * sweepCycles

	// vertexStride thins the measuring pass to every tenth mesh vertex.
	vertexStride = 10

	// basePadding is the screen fraction added on every side of the measured
	// bounds.
	basePadding = 0.02

	// defaultStepsPerTick bounds the work done per tick. Diagnostic mode
	// drops to one step so the sweep is observable.
	defaultStepsPerTick = 10
	diagStepsPerTick    = 1

	// minGeometryWidth guards against calibrating incomplete geometry.
	minGeometryWidth = 1e-6
)

// Phase identifies where the calibration state machine currently is.
type Phase int

const (
	// PhaseWaiting polls for usable geometry.
	PhaseWaiting Phase = iota
	// PhaseSearching sweeps the cycle at increasing distances until the
	// lettering fits.
	PhaseSearching
	// PhaseMeasuringBounds re-sweeps at the frozen distance, projecting mesh
	// vertices to accumulate the screen-space extent.
	PhaseMeasuringBounds
	// PhaseDone holds a finished Result.
	PhaseDone
)

func (p Phase) String() string {
	switch p {
	case PhaseWaiting:
		return "waiting"
	case PhaseSearching:
		return "searching"
	case PhaseMeasuringBounds:
		return "measuringBounds"
	case PhaseDone:
		return "done"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Result is the outcome of a completed calibration: the frozen camera
// distance and the padded screen-space crop of the animation over a full
// cycle, normalized to [0, 1] with the origin at the top-left.
type Result struct {
	Distance float32
	Bounds   common.Rect
}

// calibrator is the implementation of the Calibrator interface.
type calibrator struct {
	mu *sync.Mutex

	sc            scene.Scene
	eval          anim.Evaluator
	waveAmplitude float32

	stepsPerTick int

	phase       Phase
	distance    float32
	sampleIndex int

	minX, minY float32
	maxX, maxY float32

	result Result
}

// Calibrator advances camera calibration incrementally. Step is driven from
// the engine tick; the machine moves waiting -> searching -> measuringBounds
// -> done and then holds its Result. While running it repositions the scene's
// pose and camera distance, so it must not run concurrently with rendering of
// the same scene.
type Calibrator interface {
	// Step advances the state machine by at most its per-tick sample budget.
	// Safe to call after completion; a finished calibrator is a no-op.
	Step()

	// Phase returns the current phase.
	//
	// Returns:
	//   - Phase: the machine's position
	Phase() Phase

	// Done reports whether calibration has completed.
	//
	// Returns:
	//   - bool: true once a Result is available
	Done() bool

	// Result returns the calibration outcome.
	//
	// Returns:
	//   - Result: the frozen distance and padded screen bounds
	//   - bool: false while calibration is still running
	Result() (Result, bool)
}

var _ Calibrator = &calibrator{}

// NewCalibrator creates a Calibrator for one config and scene. All three
// dependencies are required and NewCalibrator panics if any is nil.
//
// Parameters:
//   - cfg: the generation config (supplies the wave amplitude, if any)
//   - sc: the scene whose pose and camera the calibrator drives
//   - eval: the transform evaluator for the config's animation
//   - options: functional options to further configure the calibrator
//
// Returns:
//   - Calibrator: a machine in the waiting phase
func NewCalibrator(cfg config.Config, sc scene.Scene, eval anim.Evaluator, options ...CalibratorBuilderOption) Calibrator {
	if cfg == nil {
		panic("calibrate: NewCalibrator requires a non-nil Config")
	}
	if sc == nil {
		panic("calibrate: NewCalibrator requires a non-nil Scene")
	}
	if eval == nil {
		panic("calibrate: NewCalibrator requires a non-nil Evaluator")
	}

	c := &calibrator{
		mu:           &sync.Mutex{},
		sc:           sc,
		eval:         eval,
		stepsPerTick: defaultStepsPerTick,
		phase:        PhaseWaiting,
		distance:     startDistance,
	}
	if a := cfg.Animation(); a.Kind == config.AnimWave {
		c.waveAmplitude = a.Amplitude
	}

	for _, option := range options {
		option(c)
	}

	return c
}

func (c *calibrator) Step() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for i := 0; i < c.stepsPerTick; i++ {
		switch c.phase {
		case PhaseWaiting:
			c.waitStep()
			if c.phase == PhaseWaiting {
				// Geometry not ready; burning the rest of the budget on
				// re-polling the same box gains nothing.
				return
			}
		case PhaseSearching:
			c.searchStep()
		case PhaseMeasuringBounds:
			c.measureStep()
		case PhaseDone:
			return
		}
	}
}

func (c *calibrator) Phase() Phase {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase
}

func (c *calibrator) Done() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.phase == PhaseDone
}

func (c *calibrator) Result() (Result, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.phase != PhaseDone {
		return Result{}, false
	}
	return c.result, true
}

// sampleTime maps a sweep index to normalized cycle time. The second cycle's
// samples sit half a step after the first cycle's.
func sampleTime(index int) float64 {
	cycle := index / samplesPerCycle
	step := index % samplesPerCycle
	return (float64(step) + float64(cycle)*0.5) / samplesPerCycle
}

func (c *calibrator) waitStep() {
	box := c.sc.WorldAABB()
	if box.IsEmpty() || box.Width() <= minGeometryWidth {
		return
	}
	c.distance = startDistance
	c.sc.Camera().SetDistance(c.distance)
	c.sampleIndex = 0
	c.phase = PhaseSearching
}

func (c *calibrator) searchStep() {
	cam := c.sc.Camera()
	c.sc.Apply(c.eval.Evaluate(sampleTime(c.sampleIndex)))

	box := waveInflated(c.sc.WorldAABB(), c.waveAmplitude)
	vp := cam.ViewProjectionMatrix()
	if !frustumContains(box, vp[:]) {
		c.distance += distanceStep
		if c.distance >= maxDistance {
			// Freeze at the cap and measure what we have rather than fail.
			c.distance = maxDistance
			cam.SetDistance(c.distance)
			c.beginMeasuring()
			return
		}
		cam.SetDistance(c.distance)
		c.sampleIndex = 0
		return
	}

	c.sampleIndex++
	if c.sampleIndex >= totalSamples {
		c.beginMeasuring()
	}
}

func (c *calibrator) beginMeasuring() {
	c.phase = PhaseMeasuringBounds
	c.sampleIndex = 0
	inf := float32(math.Inf(1))
	c.minX, c.minY = inf, inf
	c.maxX, c.maxY = -inf, -inf
}

func (c *calibrator) measureStep() {
	cam := c.sc.Camera()
	c.sc.Apply(c.eval.Evaluate(sampleTime(c.sampleIndex)))

	// Projected vertices, not the AABB: box corners overstate the extent of
	// rotated glyphs and would waste output pixels on padding.
	c.sc.VisitWorldVertices(vertexStride, func(x, y, z float32) {
		sx, sy, ok := cam.Project(x, y, z)
		if !ok {
			return
		}
		if sx < c.minX {
			c.minX = sx
		}
		if sx > c.maxX {
			c.maxX = sx
		}
		if sy < c.minY {
			c.minY = sy
		}
		if sy > c.maxY {
			c.maxY = sy
		}
	})

	c.sampleIndex++
	if c.sampleIndex >= totalSamples {
		c.finish()
	}
}

func (c *calibrator) finish() {
	padX := float32(basePadding)
	padY := float32(basePadding)
	if c.waveAmplitude > 0 {
		// Wave offsets never move the measured vertices, so project the
		// amplitude to a screen fraction at the frozen distance instead.
		fov := c.sc.Camera().Fov()
		padY += c.waveAmplitude / (2 * c.distance * float32(math.Tan(float64(fov)/2)))
	}

	c.result = Result{
		Distance: c.distance,
		Bounds: common.Rect{
			MinX: c.minX - padX,
			MinY: c.minY - padY,
			MaxX: c.maxX + padX,
			MaxY: c.maxY + padY,
		}.Clamp01(),
	}
	c.phase = PhaseDone
}
