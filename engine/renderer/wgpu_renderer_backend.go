package renderer

import (
	"encoding/binary"
	"errors"
	"fmt"
	"image"
	"math"
	"runtime"

	"github.com/Carmen-Shannon/kinetype/common"
	"github.com/Carmen-Shannon/kinetype/engine/light"
	"github.com/Carmen-Shannon/kinetype/engine/model"
	"github.com/Carmen-Shannon/kinetype/engine/renderer/material"
	"github.com/Carmen-Shannon/kinetype/engine/window"
	"github.com/cogentcore/webgpu/wgpu"
)

// letteringShaderSource is the one render pipeline the preview surface needs:
// instanced glyph meshes with per-vertex color and a single directional light.
// Per-draw model matrices live in a storage buffer indexed by instance_index;
// every draw call passes its draw index as firstInstance.
const letteringShaderSource = model.GPUVertexSource + light.GPULightSource + material.GPUMaterialSource + `
struct Globals {
    view_proj: mat4x4<f32>,
    light: Light,
    material: Material,
}

@group(0) @binding(0) var<uniform> globals: Globals;
@group(0) @binding(1) var<storage, read> transforms: array<mat4x4<f32>>;

struct VertexOutput {
    @builtin(position) clip_position: vec4<f32>,
    @location(0) normal: vec3<f32>,
    @location(1) color: vec3<f32>,
}

@vertex
fn vs_main(in: VertexInput, @builtin(instance_index) instance: u32) -> VertexOutput {
    let m = transforms[instance];
    var out: VertexOutput;
    out.clip_position = globals.view_proj * m * vec4<f32>(in.position, 1.0);
    out.normal = normalize((m * vec4<f32>(in.normal, 0.0)).xyz);
    out.color = in.color;
    return out;
}

@fragment
fn fs_main(in: VertexOutput) -> @location(0) vec4<f32> {
    let n = normalize(in.normal);
    let ndl = max(dot(n, globals.light.direction), 0.0);
    let shaped = pow(ndl, 1.0 + globals.material.roughness);
    let intensity = globals.light.ambient + globals.light.diffuse * shaped * (1.0 + globals.material.metalness);
    let shaded = clamp(in.color * intensity, vec3<f32>(0.0), vec3<f32>(1.0));
    return vec4<f32>(shaded, 1.0);
}
`

// globalsBufferSize is the byte size of the WGSL Globals struct: a mat4x4
// (64) plus the Light (32) and Material (16) uniform structs.
const globalsBufferSize = 64 + 32 + 16

// initialTransformCap is the starting capacity of the per-draw transform
// storage buffer, in matrices.
const initialTransformCap = 256

// meshBuffers holds the GPU-resident vertex and index buffers for one mesh.
type meshBuffers struct {
	vertex     *wgpu.Buffer
	index      *wgpu.Buffer
	indexCount int
}

// wgpuRendererBackendImpl renders frames to a window surface through WebGPU.
// It exists for the live preview; pixel readback is not supported, so exports
// always go through the software backend. Mesh buffers are uploaded once per
// model and cached for the lifetime of the backend.
type wgpuRendererBackendImpl struct {
	device *wgpu.Device
	queue  *wgpu.Queue

	instance *wgpu.Instance
	adapter  *wgpu.Adapter
	surface  *wgpu.Surface

	surfaceFormat    *wgpu.TextureFormat
	depthTextureView *wgpu.TextureView

	width  int
	height int
	clear  common.RGB

	pipeline        *wgpu.RenderPipeline
	bindGroupLayout *wgpu.BindGroupLayout
	bindGroup       *wgpu.BindGroup
	globalsBuffer   *wgpu.Buffer
	transformBuffer *wgpu.Buffer
	transformCap    int

	meshes map[model.Model]*meshBuffers

	// Frame state held between RenderFrame and Present.
	frameSurface *wgpu.Texture
	frameView    *wgpu.TextureView
}

var _ RendererBackend = &wgpuRendererBackendImpl{}

func newWGPURendererBackend(win window.Window) *wgpuRendererBackendImpl {
	runtime.LockOSThread()
	w := &wgpuRendererBackendImpl{
		instance: wgpu.CreateInstance(nil),
		meshes:   make(map[model.Model]*meshBuffers),
	}
	w.surface = w.instance.CreateSurface(win.SurfaceDescriptor())

	a, err := w.instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		CompatibleSurface: w.surface,
	})
	if err != nil {
		panic(err)
	}
	w.adapter = a

	d, err := a.RequestDevice(&wgpu.DeviceDescriptor{
		Label: "Lettering Device",
		RequiredLimits: &wgpu.RequiredLimits{
			Limits: wgpu.DefaultLimits(),
		},
	})
	if err != nil {
		panic(err)
	}
	w.device = d
	w.queue = d.GetQueue()

	return w
}

func (b *wgpuRendererBackendImpl) ConfigureSurface(width, height int) {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	b.width = width
	b.height = height

	capabilities := b.surface.GetCapabilities(b.adapter)
	b.surfaceFormat = &capabilities.Formats[0]

	b.surface.Configure(b.adapter, b.device, &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      *b.surfaceFormat,
		Width:       uint32(width),
		Height:      uint32(height),
		PresentMode: wgpu.PresentModeFifo,
		AlphaMode:   capabilities.AlphaModes[0],
	})

	// Depth texture matches the surface size and is rebuilt on every resize.
	depthTexture, err := b.device.CreateTexture(&wgpu.TextureDescriptor{
		Label: "Depth Texture",
		Size: wgpu.Extent3D{
			Width:              uint32(width),
			Height:             uint32(height),
			DepthOrArrayLayers: 1,
		},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        wgpu.TextureFormatDepth24Plus,
		Usage:         wgpu.TextureUsageRenderAttachment,
	})
	if err != nil {
		panic(err)
	}
	b.depthTextureView, err = depthTexture.CreateView(nil)
	if err != nil {
		panic(err)
	}

	// The pipeline needs the surface format, so it is built on the first
	// configure rather than in the constructor.
	if b.pipeline == nil {
		b.initPipeline()
	}
}

func (b *wgpuRendererBackendImpl) Size() (int, int) {
	return b.width, b.height
}

func (b *wgpuRendererBackendImpl) SetClearColor(c common.RGB) {
	b.clear = c
}

func (b *wgpuRendererBackendImpl) RenderFrame(frame Frame) error {
	if frame.Light == nil || frame.Material == nil {
		return errors.New("failed to render frame: frame is missing a light or material")
	}
	if b.pipeline == nil {
		return errors.New("failed to render frame: surface not configured")
	}
	if b.frameSurface != nil {
		return errors.New("failed to render frame: previous frame not yet presented")
	}

	meshes := make([]*meshBuffers, len(frame.Draws))
	for i, d := range frame.Draws {
		if d.Model == nil {
			return fmt.Errorf("failed to render frame: draw %d has no model", i)
		}
		mesh, err := b.meshFor(d.Model)
		if err != nil {
			return err
		}
		meshes[i] = mesh
	}

	b.ensureTransformCapacity(len(frame.Draws))
	b.queue.WriteBuffer(b.globalsBuffer, 0, marshalGlobals(frame))
	if len(frame.Draws) > 0 {
		b.queue.WriteBuffer(b.transformBuffer, 0, marshalTransforms(frame.Draws))
	}

	surfaceTexture, err := b.surface.GetCurrentTexture()
	if err != nil {
		return fmt.Errorf("failed to acquire surface texture: %w", err)
	}
	view, err := surfaceTexture.CreateView(nil)
	if err != nil {
		surfaceTexture.Release()
		return fmt.Errorf("failed to create surface view: %w", err)
	}
	encoder, err := b.device.CreateCommandEncoder(nil)
	if err != nil {
		view.Release()
		surfaceTexture.Release()
		return fmt.Errorf("failed to create command encoder: %w", err)
	}

	pass := encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{
			{
				View:    view,
				LoadOp:  wgpu.LoadOpClear,
				StoreOp: wgpu.StoreOpStore,
				ClearValue: wgpu.Color{
					R: float64(b.clear.R) / 255,
					G: float64(b.clear.G) / 255,
					B: float64(b.clear.B) / 255,
					A: 1.0,
				},
			},
		},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            b.depthTextureView,
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpDiscard,
			DepthClearValue: 1.0,
		},
	})

	pass.SetPipeline(b.pipeline)
	pass.SetBindGroup(0, b.bindGroup, nil)
	for i, mesh := range meshes {
		pass.SetVertexBuffer(0, mesh.vertex, 0, wgpu.WholeSize)
		pass.SetIndexBuffer(mesh.index, wgpu.IndexFormatUint32, 0, wgpu.WholeSize)
		pass.DrawIndexed(uint32(mesh.indexCount), 1, 0, 0, uint32(i))
	}
	pass.End()

	commandBuffer, err := encoder.Finish(nil)
	if err != nil {
		encoder.Release()
		view.Release()
		surfaceTexture.Release()
		return fmt.Errorf("failed to finish command encoder: %w", err)
	}
	b.queue.Submit(commandBuffer)
	commandBuffer.Release()
	encoder.Release()

	b.frameSurface = surfaceTexture
	b.frameView = view
	return nil
}

func (b *wgpuRendererBackendImpl) ReadPixels() (*image.RGBA, error) {
	return nil, ErrReadbackUnsupported
}

func (b *wgpuRendererBackendImpl) Present() {
	if b.frameSurface == nil {
		return
	}

	b.surface.Present()

	if b.frameView != nil {
		b.frameView.Release()
		b.frameView = nil
	}
	b.frameSurface.Release()
	b.frameSurface = nil
}

func (b *wgpuRendererBackendImpl) initPipeline() {
	module, err := b.device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label: "Lettering Shader",
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{
			Code: letteringShaderSource,
		},
	})
	if err != nil {
		panic(err)
	}

	b.bindGroupLayout, err = b.device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: "Lettering Bind Group Layout",
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: wgpu.ShaderStageVertex | wgpu.ShaderStageFragment,
				Buffer: wgpu.BufferBindingLayout{
					Type:           wgpu.BufferBindingTypeUniform,
					MinBindingSize: globalsBufferSize,
				},
			},
			{
				Binding:    1,
				Visibility: wgpu.ShaderStageVertex,
				Buffer: wgpu.BufferBindingLayout{
					Type: wgpu.BufferBindingTypeReadOnlyStorage,
				},
			},
		},
	})
	if err != nil {
		panic(err)
	}

	pipelineLayout, err := b.device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            "Lettering Pipeline Layout",
		BindGroupLayouts: []*wgpu.BindGroupLayout{b.bindGroupLayout},
	})
	if err != nil {
		panic(err)
	}

	vertexSize := (&model.GPUVertex{}).Size()
	b.pipeline, err = b.device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  "Lettering Render Pipeline",
		Layout: pipelineLayout,
		Vertex: wgpu.VertexState{
			Module:     module,
			EntryPoint: "vs_main",
			Buffers: []wgpu.VertexBufferLayout{
				{
					ArrayStride: uint64(vertexSize),
					StepMode:    wgpu.VertexStepModeVertex,
					Attributes: []wgpu.VertexAttribute{
						{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
						{Format: wgpu.VertexFormatFloat32x3, Offset: 12, ShaderLocation: 1},
						{Format: wgpu.VertexFormatFloat32x3, Offset: 24, ShaderLocation: 2},
					},
				},
			},
		},
		Fragment: &wgpu.FragmentState{
			Module:     module,
			EntryPoint: "fs_main",
			Targets: []wgpu.ColorTargetState{
				{
					Format:    *b.surfaceFormat,
					WriteMask: wgpu.ColorWriteMaskAll,
				},
			},
		},
		Primitive: wgpu.PrimitiveState{
			Topology: wgpu.PrimitiveTopologyTriangleList,
			// Glyph meshes are rendered two-sided so thin strokes stay
			// visible edge-on at flip angles.
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeNone,
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
		DepthStencil: &wgpu.DepthStencilState{
			Format:            wgpu.TextureFormatDepth24Plus,
			DepthWriteEnabled: true,
			DepthCompare:      wgpu.CompareFunctionLess,
			StencilFront: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
			StencilBack: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
		},
	})
	if err != nil {
		panic(err)
	}

	b.globalsBuffer, err = b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Globals Buffer",
		Size:  globalsBufferSize,
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		panic(err)
	}

	b.ensureTransformCapacity(initialTransformCap)
}

// ensureTransformCapacity grows the per-draw transform storage buffer to hold
// at least n matrices, rebuilding the bind group when the buffer is replaced.
func (b *wgpuRendererBackendImpl) ensureTransformCapacity(n int) {
	if b.transformBuffer != nil && b.transformCap >= n {
		return
	}
	capacity := b.transformCap
	if capacity < initialTransformCap {
		capacity = initialTransformCap
	}
	for capacity < n {
		capacity *= 2
	}

	if b.transformBuffer != nil {
		b.transformBuffer.Release()
	}
	buf, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: "Transform Buffer",
		Size:  uint64(capacity) * 64,
		Usage: wgpu.BufferUsageStorage | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		panic(err)
	}
	b.transformBuffer = buf
	b.transformCap = capacity

	bindGroup, err := b.device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  "Lettering Bind Group",
		Layout: b.bindGroupLayout,
		Entries: []wgpu.BindGroupEntry{
			{
				Binding: 0,
				Buffer:  b.globalsBuffer,
				Offset:  0,
				Size:    wgpu.WholeSize,
			},
			{
				Binding: 1,
				Buffer:  b.transformBuffer,
				Offset:  0,
				Size:    wgpu.WholeSize,
			},
		},
	})
	if err != nil {
		panic(err)
	}
	if b.bindGroup != nil {
		b.bindGroup.Release()
	}
	b.bindGroup = bindGroup
}

// meshFor returns the cached GPU buffers for a model, uploading them on first
// use. Models are immutable once typeset, so pointer identity is a safe key.
func (b *wgpuRendererBackendImpl) meshFor(m model.Model) (*meshBuffers, error) {
	if cached, ok := b.meshes[m]; ok {
		return cached, nil
	}

	vertexData := m.VertexData()
	indexData := m.IndexData()
	if len(vertexData) == 0 || len(indexData) == 0 {
		return nil, fmt.Errorf("failed to init mesh buffers for %s: mesh is empty", m.Name())
	}

	vbuf, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: m.Name() + " Vertex Buffer",
		Size:  uint64(len(vertexData)),
		Usage: wgpu.BufferUsageVertex | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create vertex buffer for %s: %w", m.Name(), err)
	}
	b.queue.WriteBuffer(vbuf, 0, vertexData)

	ibuf, err := b.device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: m.Name() + " Index Buffer",
		Size:  uint64(len(indexData)),
		Usage: wgpu.BufferUsageIndex | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create index buffer for %s: %w", m.Name(), err)
	}
	b.queue.WriteBuffer(ibuf, 0, indexData)

	mb := &meshBuffers{vertex: vbuf, index: ibuf, indexCount: m.IndexCount()}
	b.meshes[m] = mb
	return mb, nil
}

// marshalGlobals packs the frame's view-projection matrix, light, and
// material into the Globals uniform layout.
func marshalGlobals(frame Frame) []byte {
	buf := make([]byte, globalsBufferSize)
	for i, f := range frame.ViewProjection {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	gl := light.FromLight(frame.Light)
	copy(buf[64:], gl.Marshal())
	gm := material.FromMaterial(frame.Material)
	copy(buf[96:], gm.Marshal())
	return buf
}

// marshalTransforms packs the draw list's model matrices into the transform
// storage buffer layout, one 64-byte mat4x4 per draw.
func marshalTransforms(draws []Draw) []byte {
	buf := make([]byte, len(draws)*64)
	for i, d := range draws {
		base := i * 64
		for j, f := range d.Transform {
			binary.LittleEndian.PutUint32(buf[base+j*4:], math.Float32bits(f))
		}
	}
	return buf
}
