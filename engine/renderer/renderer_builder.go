package renderer

import (
	"github.com/Carmen-Shannon/kinetype/common"
	"github.com/Carmen-Shannon/kinetype/engine/window"
)

type builderConfig struct {
	width  int
	height int
	clear  common.RGB
	window window.Window
}

// RendererBuilderOption is a functional option applied during construction via NewRenderer.
type RendererBuilderOption func(*builderConfig)

// WithSize sets the render target dimensions in pixels. Only the software backend
// honors this option; the WGPU backend always sizes itself to its window surface.
// Non-positive dimensions are ignored.
//
// Parameters:
//   - width: the render target width in pixels
//   - height: the render target height in pixels
//
// Returns:
//   - RendererBuilderOption: a function that applies the size option to a renderer
func WithSize(width, height int) RendererBuilderOption {
	return func(cfg *builderConfig) {
		if width > 0 && height > 0 {
			cfg.width = width
			cfg.height = height
		}
	}
}

// WithClearColor sets the color the backend clears to before drawing each frame.
// The default is the keying green used for transparency extraction.
//
// Parameters:
//   - c: the clear color
//
// Returns:
//   - RendererBuilderOption: a function that applies the clear color option to a renderer
func WithClearColor(c common.RGB) RendererBuilderOption {
	return func(cfg *builderConfig) {
		cfg.clear = c
	}
}

// WithWindow attaches a presentation window to the renderer. Required by the
// WGPU backend, which renders directly to the window surface.
//
// Parameters:
//   - w: the window whose surface the backend renders to
//
// Returns:
//   - RendererBuilderOption: a function that applies the window option to a renderer
func WithWindow(w window.Window) RendererBuilderOption {
	return func(cfg *builderConfig) {
		cfg.window = w
	}
}
