package engine

import (
	"bytes"
	"errors"
	"image/gif"
	"testing"

	"github.com/Carmen-Shannon/kinetype/engine/calibrate"
	"github.com/Carmen-Shannon/kinetype/engine/config"
	"github.com/Carmen-Shannon/kinetype/engine/renderer"
	"github.com/Carmen-Shannon/kinetype/export"
)

func newTestEngine() Engine {
	return NewEngine(WithRenderer(renderer.NewRenderer(
		renderer.BackendTypeSoftware,
		renderer.WithSize(160, 120),
	)))
}

// staticConfig keeps the lettering motionless so calibration converges on the
// resting silhouette.
func staticConfig(text string) config.Config {
	return config.NewConfig(
		config.WithText(text),
		config.WithAnimation(config.Animation{
			Kind:          config.AnimBounce,
			Amplitude:     0,
			CycleDuration: 0.5,
		}),
	)
}

func calibrateEngine(t *testing.T, e Engine) calibrate.Result {
	t.Helper()
	for i := 0; i < 500; i++ {
		if res, ok := e.CalibrationResult(); ok {
			return res
		}
		if err := e.Tick(1.0 / 60); err != nil {
			t.Fatalf("Tick: %v", err)
		}
	}
	t.Fatalf("calibration did not finish within 500 ticks")
	return calibrate.Result{}
}

func TestNewEngineDefaults(t *testing.T) {
	e := NewEngine()
	if e.Renderer() == nil {
		t.Fatalf("no default renderer")
	}
	if w, h := e.Renderer().Size(); w != 800 || h != 600 {
		t.Errorf("default canvas %dx%d, want 800x600", w, h)
	}
	if e.Window() != nil {
		t.Errorf("headless engine has a window")
	}
	if e.Camera() == nil {
		t.Errorf("no camera")
	}
	if e.Scene() != nil || e.Clock() != nil || e.Config() != nil {
		t.Errorf("scene, clock, or config present before SetConfig")
	}
	if got := e.CalibrationPhase(); got != calibrate.PhaseWaiting {
		t.Errorf("CalibrationPhase = %v before SetConfig, want waiting", got)
	}
}

func TestOperationsRequireConfig(t *testing.T) {
	e := newTestEngine()
	if err := e.Tick(0.016); !errors.Is(err, ErrNoConfig) {
		t.Errorf("Tick err = %v, want ErrNoConfig", err)
	}
	if _, err := e.RenderAt(0); !errors.Is(err, ErrNoConfig) {
		t.Errorf("RenderAt err = %v, want ErrNoConfig", err)
	}
	if _, err := e.Export(export.Options{OutputWidth: 64, OutputHeight: 64}); !errors.Is(err, ErrNoConfig) {
		t.Errorf("Export err = %v, want ErrNoConfig", err)
	}
}

func TestSetConfigValidation(t *testing.T) {
	e := newTestEngine()
	if err := e.SetConfig(nil); !errors.Is(err, ErrNoConfig) {
		t.Errorf("SetConfig(nil) err = %v, want ErrNoConfig", err)
	}
	// The default config carries no text.
	if err := e.SetConfig(config.NewConfig()); err == nil {
		t.Errorf("SetConfig accepted a config with empty text")
	}
}

func TestEngineCalibrates(t *testing.T) {
	e := newTestEngine()
	if err := e.SetConfig(staticConfig("HI")); err != nil {
		t.Fatalf("SetConfig: %v", err)
	}

	res := calibrateEngine(t, e)
	if res.Distance < 3.0 {
		t.Errorf("calibrated distance %v below the starting distance", res.Distance)
	}
	if res.Bounds.MinX < 0 || res.Bounds.MaxX > 1 || res.Bounds.MinX >= res.Bounds.MaxX ||
		res.Bounds.MinY < 0 || res.Bounds.MaxY > 1 || res.Bounds.MinY >= res.Bounds.MaxY {
		t.Errorf("crop rectangle %+v is not a proper sub-rectangle of the screen", res.Bounds)
	}
	if got := e.CalibrationPhase(); got != calibrate.PhaseDone {
		t.Errorf("CalibrationPhase = %v after result, want done", got)
	}
	if d := e.Camera().Distance(); d != res.Distance {
		t.Errorf("camera distance %v, want the frozen %v", d, res.Distance)
	}
	if e.Frames() == 0 {
		t.Errorf("Frames() = 0 after ticking")
	}
}

func TestRenderAtPinsClock(t *testing.T) {
	e := newTestEngine()
	if err := e.SetConfig(staticConfig("HI")); err != nil {
		t.Fatalf("SetConfig: %v", err)
	}
	calibrateEngine(t, e)

	img, err := e.RenderAt(0.25)
	if err != nil {
		t.Fatalf("RenderAt: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 160 || b.Dy() != 120 {
		t.Errorf("frame %dx%d, want the 160x120 canvas", b.Dx(), b.Dy())
	}
	// Calibration pads the silhouette away from the screen edge, so the corner
	// is pure background.
	chroma := e.Config().Style().ChromaKey
	if img.Pix[0] != chroma.R || img.Pix[1] != chroma.G || img.Pix[2] != chroma.B {
		t.Errorf("corner pixel (%d,%d,%d), want the chroma key %v",
			img.Pix[0], img.Pix[1], img.Pix[2], chroma)
	}

	if got := e.Clock().T(); got != 0.25 {
		t.Errorf("clock T = %v after RenderAt(0.25), want pinned 0.25", got)
	}
	if err := e.Tick(1.0); err != nil {
		t.Fatalf("Tick: %v", err)
	}
	if got := e.Clock().T(); got != 0.25 {
		t.Errorf("clock advanced to %v while pinned", got)
	}
	e.Clock().Reset()
	if got := e.Clock().T(); got != 0 {
		t.Errorf("clock T = %v after Reset, want 0", got)
	}
}

func TestEngineExportsLoopingGIF(t *testing.T) {
	e := newTestEngine()
	if err := e.SetConfig(staticConfig("HI")); err != nil {
		t.Fatalf("SetConfig: %v", err)
	}

	// Export gates on calibration itself; no prior ticking required.
	res, err := e.Export(export.Options{OutputWidth: 96, OutputHeight: 96})
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if res.FrameCount != 6 {
		t.Errorf("FrameCount = %d, want 6 for a half-second cycle", res.FrameCount)
	}
	if res.Filename != "hi.gif" {
		t.Errorf("Filename = %q, want %q", res.Filename, "hi.gif")
	}
	if res.Width < 1 || res.Width > 96 || res.Height < 1 || res.Height > 96 {
		t.Errorf("output %dx%d does not fit inside the requested 96x96", res.Width, res.Height)
	}

	decoded, err := gif.DecodeAll(bytes.NewReader(res.GIF))
	if err != nil {
		t.Fatalf("DecodeAll: %v", err)
	}
	if len(decoded.Image) != res.FrameCount {
		t.Errorf("decoded %d frames, want %d", len(decoded.Image), res.FrameCount)
	}
	if decoded.LoopCount != 0 {
		t.Errorf("LoopCount = %d, want 0 (loop forever)", decoded.LoopCount)
	}
	if decoded.Config.Width != res.Width || decoded.Config.Height != res.Height {
		t.Errorf("decoded screen %dx%d, want %dx%d",
			decoded.Config.Width, decoded.Config.Height, res.Width, res.Height)
	}

	// The export pinned the clock frame by frame; it must free-run again.
	if got := e.Clock().T(); got != 0 {
		t.Errorf("clock T = %v after export, want reset to 0", got)
	}
}

func TestExportNothingVisible(t *testing.T) {
	e := newTestEngine()
	if err := e.SetConfig(staticConfig("   ")); err != nil {
		t.Fatalf("SetConfig: %v", err)
	}
	if _, err := e.Export(export.Options{OutputWidth: 64, OutputHeight: 64}); !errors.Is(err, ErrNothingToExport) {
		t.Errorf("Export err = %v, want ErrNothingToExport", err)
	}
}

func TestSetConfigReusesCalibration(t *testing.T) {
	e := newTestEngine()
	if err := e.SetConfig(staticConfig("GO")); err != nil {
		t.Fatalf("SetConfig: %v", err)
	}
	res := calibrateEngine(t, e)

	// An identical config fingerprints the same; no second run starts.
	if err := e.SetConfig(staticConfig("GO")); err != nil {
		t.Fatalf("SetConfig again: %v", err)
	}
	if got := e.CalibrationPhase(); got != calibrate.PhaseDone {
		t.Errorf("CalibrationPhase = %v right after reapplying, want done", got)
	}
	if got, ok := e.CalibrationResult(); !ok || got != res {
		t.Errorf("CalibrationResult = %+v, %v; want the cached %+v", got, ok, res)
	}
	if d := e.Camera().Distance(); d != res.Distance {
		t.Errorf("camera distance %v after cache hit, want %v", d, res.Distance)
	}
}

func TestSetConfigRestartsClock(t *testing.T) {
	e := newTestEngine()
	if err := e.SetConfig(staticConfig("GO")); err != nil {
		t.Fatalf("SetConfig: %v", err)
	}
	for i := 0; i < 5; i++ {
		if err := e.Tick(0.05); err != nil {
			t.Fatalf("Tick: %v", err)
		}
	}
	if e.Clock().T() == 0 {
		t.Fatalf("clock did not advance")
	}

	if err := e.SetConfig(staticConfig("GO")); err != nil {
		t.Fatalf("SetConfig again: %v", err)
	}
	if got := e.Clock().T(); got != 0 {
		t.Errorf("clock T = %v after a config swap, want a fresh clock", got)
	}
}
