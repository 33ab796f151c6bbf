package engine

import (
	"github.com/Carmen-Shannon/kinetype/engine/renderer"
	"github.com/Carmen-Shannon/kinetype/engine/typeset"
	"github.com/Carmen-Shannon/kinetype/engine/window"
)

// EngineBuilderOption is a functional option for configuring an Engine.
// Use the With* functions to create options that are applied directly to the
// engine instance.
type EngineBuilderOption func(*engine)

// WithWindow attaches a preview window. The engine wires the resize callback
// and drives its message loop from Run.
//
// Parameters:
//   - w: a pre-configured Window instance
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithWindow(w window.Window) EngineBuilderOption {
	return func(e *engine) {
		e.window = w
	}
}

// WithRenderer sets the renderer the engine draws with. Without it the
// engine constructs a headless software renderer at the default canvas size.
//
// Parameters:
//   - r: a pre-configured Renderer instance
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithRenderer(r renderer.Renderer) EngineBuilderOption {
	return func(e *engine) {
		if r != nil {
			e.r = r
		}
	}
}

// WithTypesetter sets a shared Typesetter. Parsed fonts are cached inside the
// typesetter, so batch jobs that pass the same instance parse each font once.
//
// Parameters:
//   - t: the Typesetter to use
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithTypesetter(t typeset.Typesetter) EngineBuilderOption {
	return func(e *engine) {
		if t != nil {
			e.typesetter = t
		}
	}
}

// WithProfiling enables or disables frame statistics output.
//
// Parameters:
//   - enabled: if true, enables profiling output
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithProfiling(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.profilingEnabled = enabled
	}
}

// WithDiagnostics switches calibration runs started by this engine to
// single-step slices so phase transitions can be observed tick by tick.
//
// Parameters:
//   - enabled: if true, calibrators advance one sample per tick
//
// Returns:
//   - EngineBuilderOption: option function to apply
func WithDiagnostics(enabled bool) EngineBuilderOption {
	return func(e *engine) {
		e.diagnostics = enabled
	}
}
