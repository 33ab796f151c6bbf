package renderer

import (
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/Carmen-Shannon/kinetype/common"
)

// shadedVertex is a mesh vertex after vertex processing: screen-space
// position, depth, reciprocal clip w, and the lit color premultiplied by
// invW for perspective-correct interpolation.
type shadedVertex struct {
	sx, sy float32
	z      float32
	invW   float32
	r      float32
	g      float32
	b      float32
	ok     bool
}

// softwareRendererBackend rasterizes frames on the CPU into an offscreen
// RGBA buffer. It exists for headless export: rendering is deterministic
// across machines and the finished pixels are available through ReadPixels.
// Triangles are rendered two-sided, depth-tested against a float buffer,
// and shaded per vertex with perspective-correct interpolation. Every face
// in the meshes it draws is flat, so per-vertex lighting matches per-pixel
// lighting exactly.
type softwareRendererBackend struct {
	width  int
	height int
	clear  common.RGB

	pixels  *image.RGBA
	depth   []float32
	scratch []shadedVertex
}

var _ RendererBackend = &softwareRendererBackend{}

// newSoftwareRendererBackend creates a software backend with an allocated
// surface of the given size.
func newSoftwareRendererBackend(width, height int) *softwareRendererBackend {
	b := &softwareRendererBackend{}
	b.ConfigureSurface(width, height)
	return b
}

func (b *softwareRendererBackend) ConfigureSurface(width, height int) {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	b.width = width
	b.height = height
	b.pixels = image.NewRGBA(image.Rect(0, 0, width, height))
	b.depth = make([]float32, width*height)
}

func (b *softwareRendererBackend) Size() (int, int) {
	return b.width, b.height
}

func (b *softwareRendererBackend) SetClearColor(c common.RGB) {
	b.clear = c
}

func (b *softwareRendererBackend) RenderFrame(frame Frame) error {
	if b.pixels == nil {
		return errors.New("failed to render frame: surface not configured")
	}
	if frame.Light == nil || frame.Material == nil {
		return errors.New("failed to render frame: frame is missing a light or material")
	}

	b.clearBuffers()

	mvp := make([]float32, 16)
	for i, d := range frame.Draws {
		if d.Model == nil {
			return fmt.Errorf("failed to render frame: draw %d has no model", i)
		}
		common.Mul4(mvp, frame.ViewProjection[:], d.Transform[:])
		b.drawModel(frame, d, mvp)
	}
	return nil
}

func (b *softwareRendererBackend) ReadPixels() (*image.RGBA, error) {
	if b.pixels == nil {
		return nil, errors.New("failed to read pixels: surface not configured")
	}
	out := image.NewRGBA(b.pixels.Rect)
	copy(out.Pix, b.pixels.Pix)
	return out, nil
}

func (b *softwareRendererBackend) Present() {
	// No display surface; frames are consumed through ReadPixels.
}

func (b *softwareRendererBackend) clearBuffers() {
	pix := b.pixels.Pix
	for i := 0; i < len(pix); i += 4 {
		pix[i] = b.clear.R
		pix[i+1] = b.clear.G
		pix[i+2] = b.clear.B
		pix[i+3] = 0xff
	}
	inf := float32(math.Inf(1))
	for i := range b.depth {
		b.depth[i] = inf
	}
}

// drawModel runs vertex processing for one draw and rasterizes its triangles.
func (b *softwareRendererBackend) drawModel(frame Frame, d Draw, mvp []float32) {
	verts := d.Model.Vertices()
	if cap(b.scratch) < len(verts) {
		b.scratch = make([]shadedVertex, len(verts))
	}
	sv := b.scratch[:len(verts)]

	halfW := float32(b.width) * 0.5
	halfH := float32(b.height) * 0.5
	for i, v := range verts {
		x, y, z := v.Position[0], v.Position[1], v.Position[2]
		cx := mvp[0]*x + mvp[4]*y + mvp[8]*z + mvp[12]
		cy := mvp[1]*x + mvp[5]*y + mvp[9]*z + mvp[13]
		cz := mvp[2]*x + mvp[6]*y + mvp[10]*z + mvp[14]
		cw := mvp[3]*x + mvp[7]*y + mvp[11]*z + mvp[15]
		if cw <= 1e-6 {
			sv[i] = shadedVertex{}
			continue
		}
		invW := 1.0 / cw

		nx, ny, nz := common.TransformDirection(d.Transform[:], v.Normal[0], v.Normal[1], v.Normal[2])
		lit := frame.Material.Shade(frame.Light, [3]float32{nx, ny, nz}, v.Color)

		sv[i] = shadedVertex{
			sx:   (cx*invW + 1) * halfW,
			sy:   (1 - cy*invW) * halfH,
			z:    cz * invW,
			invW: invW,
			r:    lit[0] * invW,
			g:    lit[1] * invW,
			b:    lit[2] * invW,
			ok:   true,
		}
	}

	idx := d.Model.Indices()
	for i := 0; i+2 < len(idx); i += 3 {
		b.rasterizeTriangle(sv[idx[i]], sv[idx[i+1]], sv[idx[i+2]])
	}
}

func (b *softwareRendererBackend) rasterizeTriangle(v0, v1, v2 shadedVertex) {
	// The camera is calibrated so the whole mesh stays in front of the near
	// plane; a vertex behind it only happens before calibration settles.
	if !v0.ok || !v1.ok || !v2.ok {
		return
	}

	area := edgeFn(v0.sx, v0.sy, v1.sx, v1.sy, v2.sx, v2.sy)
	if area == 0 {
		return
	}
	if area < 0 {
		// Two-sided: flip winding so back faces rasterize like front faces.
		v1, v2 = v2, v1
		area = -area
	}
	invArea := 1.0 / area

	minX := clampInt(int(floorf(min3(v0.sx, v1.sx, v2.sx))), 0, b.width-1)
	maxX := clampInt(int(ceilf(max3(v0.sx, v1.sx, v2.sx))), 0, b.width-1)
	minY := clampInt(int(floorf(min3(v0.sy, v1.sy, v2.sy))), 0, b.height-1)
	maxY := clampInt(int(ceilf(max3(v0.sy, v1.sy, v2.sy))), 0, b.height-1)

	pix := b.pixels.Pix
	for py := minY; py <= maxY; py++ {
		cy := float32(py) + 0.5
		row := py * b.width
		for px := minX; px <= maxX; px++ {
			cx := float32(px) + 0.5
			w0 := edgeFn(v1.sx, v1.sy, v2.sx, v2.sy, cx, cy)
			w1 := edgeFn(v2.sx, v2.sy, v0.sx, v0.sy, cx, cy)
			w2 := edgeFn(v0.sx, v0.sy, v1.sx, v1.sy, cx, cy)
			if w0 < 0 || w1 < 0 || w2 < 0 {
				continue
			}
			l0 := w0 * invArea
			l1 := w1 * invArea
			l2 := w2 * invArea

			z := l0*v0.z + l1*v1.z + l2*v2.z
			di := row + px
			if z >= b.depth[di] {
				continue
			}
			b.depth[di] = z

			invW := l0*v0.invW + l1*v1.invW + l2*v2.invW
			o := di * 4
			pix[o] = colorByte((l0*v0.r + l1*v1.r + l2*v2.r) / invW)
			pix[o+1] = colorByte((l0*v0.g + l1*v1.g + l2*v2.g) / invW)
			pix[o+2] = colorByte((l0*v0.b + l1*v1.b + l2*v2.b) / invW)
			pix[o+3] = 0xff
		}
	}
}

// edgeFn is the signed parallelogram area of (a, b, p); positive when p lies
// to the left of the directed edge a->b in y-down screen coordinates.
func edgeFn(ax, ay, bx, by, px, py float32) float32 {
	return (bx-ax)*(py-ay) - (by-ay)*(px-ax)
}

func colorByte(v float32) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 1 {
		return 0xff
	}
	return uint8(v*255 + 0.5)
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func floorf(v float32) float32 { return float32(math.Floor(float64(v))) }
func ceilf(v float32) float32  { return float32(math.Ceil(float64(v))) }

func min3(a, b, c float32) float32 {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}

func max3(a, b, c float32) float32 {
	if b > a {
		a = b
	}
	if c > a {
		a = c
	}
	return a
}
