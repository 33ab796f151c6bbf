// Package engine ties the generation pipeline together: it owns the clock,
// evaluator, scene, calibration cache, and renderer for one piece of
// lettering, and advances all of them one logical tick at a time.
package engine

import (
	"errors"
	"fmt"
	"image"
	"log"
	"sync"
	"time"

	"github.com/Carmen-Shannon/kinetype/engine/anim"
	"github.com/Carmen-Shannon/kinetype/engine/calibrate"
	"github.com/Carmen-Shannon/kinetype/engine/camera"
	"github.com/Carmen-Shannon/kinetype/engine/config"
	"github.com/Carmen-Shannon/kinetype/engine/light"
	"github.com/Carmen-Shannon/kinetype/engine/profiler"
	"github.com/Carmen-Shannon/kinetype/engine/renderer"
	"github.com/Carmen-Shannon/kinetype/engine/renderer/material"
	"github.com/Carmen-Shannon/kinetype/engine/scene"
	"github.com/Carmen-Shannon/kinetype/engine/typeset"
	"github.com/Carmen-Shannon/kinetype/engine/window"
	"github.com/Carmen-Shannon/kinetype/export"
)

const (
	// defaultCanvasWidth and defaultCanvasHeight size the render canvas when
	// no renderer is supplied.
	defaultCanvasWidth  = 800
	defaultCanvasHeight = 600
)

var (
	// ErrNoConfig is returned by operations that need an applied config.
	ErrNoConfig = errors.New("engine: no config applied")

	// ErrNothingToExport is returned when the configured text produced no
	// visible geometry, for example whitespace only.
	ErrNothingToExport = errors.New("engine: text produced no visible geometry")
)

// engine is the implementation of the Engine interface.
// An engine is single-threaded: Tick, SetConfig, RenderAt, and Export must be
// called from one goroutine. Batch jobs each build their own engine.
type engine struct {
	window window.Window
	r      renderer.Renderer
	cam    camera.Camera

	typesetter typeset.Typesetter
	calCache   calibrate.Cache

	cfg    config.Config
	layout *typeset.Layout
	clock  anim.Clock
	eval   anim.Evaluator
	sc     scene.Scene

	profiler         *profiler.Profiler
	profilingEnabled bool
	diagnostics      bool

	frames   uint64
	quitOnce sync.Once
}

// Engine drives one piece of lettering from config to pixels. Apply a config
// with SetConfig, then either Run a real-time preview or pin the clock
// through RenderAt / Export for deterministic offline frames.
type Engine interface {
	// Window returns the preview window, or nil for headless engines.
	//
	// Returns:
	//   - window.Window: the window instance
	Window() window.Window

	// Renderer returns the renderer the engine draws with.
	//
	// Returns:
	//   - renderer.Renderer: the renderer instance
	Renderer() renderer.Renderer

	// Camera returns the scene camera. The calibrator owns its distance once
	// a config is applied.
	//
	// Returns:
	//   - camera.Camera: the camera instance
	Camera() camera.Camera

	// Scene returns the active scene, or nil before the first SetConfig.
	//
	// Returns:
	//   - scene.Scene: the scene built from the applied config
	Scene() scene.Scene

	// Clock returns the active animation clock, or nil before the first
	// SetConfig.
	//
	// Returns:
	//   - anim.Clock: the clock driving the animation
	Clock() anim.Clock

	// Config returns the applied config, or nil before the first SetConfig.
	//
	// Returns:
	//   - config.Config: the active config
	Config() config.Config

	// SetConfig typesets the config's text, rebuilds the scene around it, and
	// restarts the animation clock. Calibration for the config's fingerprint
	// is reused from the cache when present, otherwise a fresh calibration
	// run starts and advances a little on every following tick.
	//
	// Parameters:
	//   - cfg: the generation config to apply
	//
	// Returns:
	//   - error: error if the config is invalid or the font cannot be loaded
	SetConfig(cfg config.Config) error

	// Tick advances the engine by one logical frame: advance the clock,
	// evaluate and apply the pose at the current progress, run a calibration
	// slice, and render.
	//
	// Parameters:
	//   - dt: elapsed seconds since the previous tick; pinned clocks ignore it
	//
	// Returns:
	//   - error: ErrNoConfig before SetConfig, or a render failure
	Tick(dt float64) error

	// Frames returns the number of frames rendered since construction.
	//
	// Returns:
	//   - uint64: the rendered frame count
	Frames() uint64

	// CalibrationPhase reports where calibration stands for the active
	// config.
	//
	// Returns:
	//   - calibrate.Phase: the current phase; PhaseDone when a cached result
	//     already covers the active fingerprint
	CalibrationPhase() calibrate.Phase

	// CalibrationResult returns the calibration result for the active config
	// if it has completed.
	//
	// Returns:
	//   - calibrate.Result: the frozen distance and crop rectangle
	//   - bool: false while calibration is still running or absent
	CalibrationResult() (calibrate.Result, bool)

	// RenderAt pins the clock to t, ticks once, and reads the frame back.
	// Only backends with CPU readback support this; the clock stays pinned
	// until Reset.
	//
	// Parameters:
	//   - t: normalized cycle progress in [0, 1)
	//
	// Returns:
	//   - *image.RGBA: the rendered frame
	//   - error: a render or readback failure
	RenderAt(t float64) (*image.RGBA, error)

	// Export finishes any in-flight calibration for the active config, then
	// captures and encodes the full animation cycle as a looping GIF. The
	// clock is reset to free-running afterward.
	//
	// Parameters:
	//   - opts: output size and progress callback; crop, cycle, chroma key,
	//     and text are filled in from the active config and calibration
	//
	// Returns:
	//   - *export.Result: the encoded GIF and its suggested filename
	//   - error: gate, capture, or encode failure
	Export(opts export.Options) (*export.Result, error)

	// EnableProfiler enables frame statistics output to the log.
	EnableProfiler()

	// DisableProfiler disables frame statistics output.
	DisableProfiler()

	// Run drives Tick from the window's message loop until the window
	// closes. Panics if the engine was built without a window.
	Run()

	// Quit closes the preview window. Safe to call multiple times.
	Quit()
}

var _ Engine = &engine{}

// NewEngine creates a new Engine with the provided options. Without a
// renderer option the engine renders headless on the software backend at the
// default canvas size.
//
// Parameters:
//   - options: functional options for engine configuration
//
// Returns:
//   - Engine: the newly created engine, awaiting SetConfig
func NewEngine(options ...EngineBuilderOption) Engine {
	e := &engine{
		cam:        camera.NewCamera(),
		typesetter: typeset.NewTypesetter(),
		calCache:   calibrate.NewCache(),
		profiler:   profiler.NewProfiler(),
	}

	for _, opt := range options {
		opt(e)
	}

	if e.r == nil {
		e.r = renderer.NewRenderer(
			renderer.BackendTypeSoftware,
			renderer.WithSize(defaultCanvasWidth, defaultCanvasHeight),
		)
	}

	if w, h := e.r.Size(); h > 0 {
		e.cam.SetAspect(float32(w) / float32(h))
	}

	if e.window != nil {
		e.window.SetResizeCallback(func(width, height int) {
			if width <= 0 || height <= 0 {
				return
			}
			e.r.Resize(width, height)
			e.cam.SetAspect(float32(width) / float32(height))
		})
	}

	return e
}

func (e *engine) Window() window.Window {
	return e.window
}

func (e *engine) Renderer() renderer.Renderer {
	return e.r
}

func (e *engine) Camera() camera.Camera {
	return e.cam
}

func (e *engine) Scene() scene.Scene {
	return e.sc
}

func (e *engine) Clock() anim.Clock {
	return e.clock
}

func (e *engine) Config() config.Config {
	return e.cfg
}

func (e *engine) SetConfig(cfg config.Config) error {
	if cfg == nil {
		return ErrNoConfig
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("failed to apply config: %w", err)
	}

	layout, err := e.typesetter.Typeset(cfg)
	if err != nil {
		return fmt.Errorf("failed to typeset %q: %w", cfg.Text(), err)
	}

	st := cfg.Style()
	lt := cfg.Light()

	e.cfg = cfg
	e.layout = layout
	e.clock = anim.NewClock(float64(cfg.Animation().CycleDuration))
	e.eval = anim.NewEvaluator(cfg)
	e.cam.SetFov(cfg.Camera().FOV)
	e.sc = scene.NewScene(layout, e.cam, e.r,
		scene.WithLight(light.NewLight(
			light.WithDirection(lt.Direction[0], lt.Direction[1], lt.Direction[2]),
			light.WithAmbient(lt.Ambient),
			light.WithDiffuse(lt.Diffuse),
		)),
		scene.WithMaterial(material.NewMaterial(
			material.WithName("lettering"),
			material.WithRoughness(st.Roughness),
			material.WithMetalness(st.Metalness),
		)),
	)
	e.r.SetClearColor(st.ChromaKey)

	fp := cfg.Fingerprint()
	if res, ok := e.calCache.Lookup(fp); ok {
		// Same fingerprint seen before; skip straight to the frozen distance.
		e.cam.SetDistance(res.Distance)
		e.calCache.Start("", nil)
		return nil
	}
	if len(layout.Chars) == 0 {
		// Nothing to frame; a calibrator would wait forever.
		e.calCache.Start("", nil)
		return nil
	}

	e.calCache.Start(fp, calibrate.NewCalibrator(cfg, e.sc, e.eval,
		calibrate.WithDiagnostics(e.diagnostics)))
	return nil
}

func (e *engine) Tick(dt float64) error {
	if e.cfg == nil {
		return ErrNoConfig
	}

	e.clock.Advance(dt)
	e.sc.Apply(e.eval.Evaluate(e.clock.T()))
	e.calCache.Tick()

	frame := renderer.Frame{
		ViewProjection: e.cam.ViewProjectionMatrix(),
		Light:          e.sc.Light(),
		Material:       e.sc.Material(),
		Draws:          e.sc.Drawables(),
	}
	if err := e.r.RenderFrame(frame); err != nil {
		return fmt.Errorf("failed to render tick: %w", err)
	}
	e.r.Present()

	e.frames++
	if e.profilingEnabled {
		e.profiler.Tick()
	}
	return nil
}

func (e *engine) Frames() uint64 {
	return e.frames
}

func (e *engine) CalibrationPhase() calibrate.Phase {
	if cal := e.calCache.Current(); cal != nil {
		return cal.Phase()
	}
	if e.cfg != nil {
		if _, ok := e.calCache.Lookup(e.cfg.Fingerprint()); ok {
			return calibrate.PhaseDone
		}
	}
	return calibrate.PhaseWaiting
}

func (e *engine) CalibrationResult() (calibrate.Result, bool) {
	if e.cfg == nil {
		return calibrate.Result{}, false
	}
	return e.calCache.Lookup(e.cfg.Fingerprint())
}

func (e *engine) RenderAt(t float64) (*image.RGBA, error) {
	if e.cfg == nil {
		return nil, ErrNoConfig
	}
	e.clock.Set(t)
	if err := e.Tick(0); err != nil {
		return nil, err
	}
	return e.r.ReadPixels()
}

func (e *engine) Export(opts export.Options) (*export.Result, error) {
	if e.cfg == nil {
		return nil, ErrNoConfig
	}
	if len(e.layout.Chars) == 0 {
		return nil, ErrNothingToExport
	}

	// Finish calibration synchronously; the search always terminates because
	// the distance freezes at its cap.
	calibrated := profiler.Stage("calibrate")
	res, ok := e.calCache.Lookup(e.cfg.Fingerprint())
	for !ok {
		if e.calCache.Current() == nil {
			return nil, fmt.Errorf("failed to export: no calibration run for the active config")
		}
		e.calCache.Tick()
		res, ok = e.calCache.Lookup(e.cfg.Fingerprint())
	}
	calibrated()
	e.cam.SetDistance(res.Distance)

	opts.Bounds = res.Bounds
	opts.CycleDuration = e.cfg.Animation().CycleDuration
	opts.ChromaKey = e.cfg.Style().ChromaKey
	opts.Text = e.cfg.Text()

	// Export pins the clock to step frames; resume free-running afterward.
	defer e.clock.Reset()
	return export.Export(e, opts)
}

func (e *engine) EnableProfiler() {
	e.profilingEnabled = true
}

func (e *engine) DisableProfiler() {
	e.profilingEnabled = false
}

func (e *engine) Run() {
	if e.window == nil {
		panic("engine: Run requires a window; construct with WithWindow")
	}

	last := time.Now()
	e.window.SetUpdateCallback(func() {
		now := time.Now()
		dt := now.Sub(last).Seconds()
		last = now

		if err := e.Tick(dt); err != nil {
			log.Printf("tick failed: %v", err)
			e.Quit()
		}
	})
	e.window.ProcessMessages()
}

func (e *engine) Quit() {
	e.quitOnce.Do(func() {
		if e.window == nil {
			return
		}
		if err := e.window.Close(); err != nil {
			log.Printf("failed to close window: %v", err)
		}
	})
}
