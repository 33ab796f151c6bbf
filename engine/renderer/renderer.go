package renderer

import (
	"errors"
	"image"
	"sync"

	"github.com/Carmen-Shannon/kinetype/common"
	"github.com/Carmen-Shannon/kinetype/engine/light"
	"github.com/Carmen-Shannon/kinetype/engine/model"
	"github.com/Carmen-Shannon/kinetype/engine/renderer/material"
)

// ErrReadbackUnsupported is returned by ReadPixels on backends that render to
// a display surface with no CPU-visible copy of the frame.
var ErrReadbackUnsupported = errors.New("renderer: pixel readback not supported by this backend")

// Draw is one mesh instance in a frame's draw list.
type Draw struct {
	// Model supplies the vertex and index data.
	Model model.Model

	// Transform is the mesh's model matrix (16 floats, column-major),
	// combining the group pose with the character's placement.
	Transform [16]float32
}

// Frame is the complete description of one rendered frame. The scene builds
// it each tick; backends consume it without retained state beyond mesh
// buffers, so the same Frame always produces the same image.
type Frame struct {
	// ViewProjection is the camera's combined matrix (16 floats, column-major).
	ViewProjection [16]float32

	// Light is the scene's directional light.
	Light light.Light

	// Material supplies the shading scalars.
	Material material.Material

	// Draws lists the meshes to render, in a deterministic order.
	Draws []Draw
}

// renderer is the implementation of the Renderer interface.
type renderer struct {
	mu *sync.Mutex

	backendType RendererBackendType
	backend     RendererBackend
}

// Renderer is the drawing surface of the engine. It hides whether frames are
// rasterized on the CPU or on a GPU surface; callers submit a Frame and, for
// headless export, read the pixels back.
type Renderer interface {
	// Backend returns the backend type selected at construction.
	//
	// Returns:
	//   - RendererBackendType: the active backend type
	Backend() RendererBackendType

	// Resize configures the underlying backend for a new target size.
	//
	// Parameters:
	//   - width: the new width in pixels
	//   - height: the new height in pixels
	Resize(width, height int)

	// Size returns the current render target dimensions.
	//
	// Returns:
	//   - width, height: dimensions in pixels
	Size() (width, height int)

	// SetClearColor sets the background color frames are cleared to.
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
	//
	// Returns:
	//   - *image.RGBA: a copy of the frame's pixels
	//   - error: ErrReadbackUnsupported or a readback failure
	ReadPixels() (*image.RGBA, error)

	// Present displays the rendered frame. A no-op for headless backends.
	Present()
}

var _ Renderer = &renderer{}

// NewRenderer creates a new Renderer with the specified backend type and
// options applied. The software backend needs only a size; the WGPU backend
// requires a window option and panics without one.
//
// Parameters:
//   - backendType: the backend to construct (software or WGPU)
//   - options: variadic list of RendererBuilderOption functions to configure the Renderer
//
// Returns:
//   - Renderer: a new Renderer bound to the selected backend
func NewRenderer(backendType RendererBackendType, options ...RendererBuilderOption) Renderer {
	r := &renderer{
		mu:          &sync.Mutex{},
		backendType: backendType,
	}

	cfg := &builderConfig{
		width:  640,
		height: 480,
		clear:  common.RGB{G: 0xff},
	}
	for _, opt := range options {
		opt(cfg)
	}

	switch backendType {
	case BackendTypeWGPU:
		if cfg.window == nil {
			panic("renderer: the WGPU backend requires WithWindow")
		}
		r.backend = newWGPURendererBackend(cfg.window)
	case BackendTypeSoftware:
		fallthrough
	default:
		r.backend = newSoftwareRendererBackend(cfg.width, cfg.height)
	}

	r.backend.SetClearColor(cfg.clear)
	if backendType == BackendTypeWGPU {
		r.backend.ConfigureSurface(cfg.window.Width(), cfg.window.Height())
	}
	return r
}

func (r *renderer) Backend() RendererBackendType {
	return r.backendType
}

func (r *renderer) Resize(width, height int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.backend.ConfigureSurface(width, height)
}

func (r *renderer) Size() (width, height int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.backend.Size()
}

func (r *renderer) SetClearColor(c common.RGB) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.backend.SetClearColor(c)
}

func (r *renderer) RenderFrame(frame Frame) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.backend.RenderFrame(frame)
}

func (r *renderer) ReadPixels() (*image.RGBA, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.backend.ReadPixels()
}

func (r *renderer) Present() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.backend.Present()
}
