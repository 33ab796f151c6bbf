package renderer

import (
	"image"

	"github.com/Carmen-Shannon/kinetype/common"
)

// RendererBackendType identifies the backend implementation used by the Renderer.
type RendererBackendType int

const (
	// BackendTypeSoftware selects the CPU rasterizer backend. Deterministic
	// and headless; this is the backend the export pipeline reads pixels from.
	BackendTypeSoftware RendererBackendType = iota

	// BackendTypeWGPU selects the WebGPU-based rendering backend, used for
	// the interactive preview window.
	BackendTypeWGPU
)

// RendererBackend is the backend seam of the Renderer. Both the software
// rasterizer and the WebGPU backend implement it; the Renderer forwards to
// whichever was selected at construction.
type RendererBackend interface {
	// ConfigureSurface sizes or resizes the backend's render target.
	//
	// Parameters:
	//   - width: target width in pixels
	//   - height: target height in pixels
	ConfigureSurface(width, height int)

	// Size returns the current render target dimensions.
	//
	// Returns:
	//   - width, height: dimensions in pixels
	Size() (width, height int)

	// SetClearColor sets the background color frames are cleared to. For
	// export this is the chroma key the encoder later turns transparent.
	//
	// Parameters:
	//   - c: the clear color
	SetClearColor(c common.RGB)

	// RenderFrame draws one complete frame.
	//
	// Parameters:
	//   - frame: the camera, light, material, and draw list for the frame
	//
	// Returns:
	//   - error: error if the frame could not be rendered
	RenderFrame(frame Frame) error

	// ReadPixels returns the most recently rendered frame as an RGBA image.
	// Backends without CPU readback return ErrReadbackUnsupported.
	//
	// Returns:
	//   - *image.RGBA: a copy of the frame's pixels
	//   - error: ErrReadbackUnsupported or a readback failure
	ReadPixels() (*image.RGBA, error)

	// Present displays the rendered frame. A no-op for headless backends.
	Present()
}
