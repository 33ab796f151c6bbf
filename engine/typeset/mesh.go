package typeset

import (
	"math"

	"github.com/Carmen-Shannon/kinetype/common"
	"github.com/Carmen-Shannon/kinetype/engine/config"
	"github.com/Carmen-Shannon/kinetype/engine/model"
)

// cellRect is a maximal axis-aligned run of same-class cells in mask space.
type cellRect struct {
	x, y, w, h int
}

// greedyRects partitions the cells selected by include into maximal
// rectangles: rows are scanned top-to-bottom, runs grow right first and then
// down while the full width stays selected. The scan order makes the
// partition deterministic for a given mask.
func greedyRects(w, h int, include func(x, y int) bool) []cellRect {
	if w <= 0 || h <= 0 {
		return nil
	}

	visited := make([]bool, w*h)
	var rects []cellRect

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if visited[y*w+x] || !include(x, y) {
				continue
			}

			rw := 1
			for x+rw < w && !visited[y*w+x+rw] && include(x+rw, y) {
				rw++
			}

			rh := 1
		grow:
			for y+rh < h {
				for i := 0; i < rw; i++ {
					if visited[(y+rh)*w+x+i] || !include(x+i, y+rh) {
						break grow
					}
				}
				rh++
			}

			for dy := 0; dy < rh; dy++ {
				for dx := 0; dx < rw; dx++ {
					visited[(y+dy)*w+x+dx] = true
				}
			}
			rects = append(rects, cellRect{x: x, y: y, w: rw, h: rh})
		}
	}
	return rects
}

// classifyBevel marks every covered cell within bevelPx (Chebyshev distance)
// of an uncovered cell or the mask border. Those cells take the edge color on
// their front and back faces.
func classifyBevel(g *glyphMask, bevelPx int) []bool {
	edge := make([]bool, g.w*g.h)
	if bevelPx <= 0 {
		return edge
	}

	for y := 0; y < g.h; y++ {
		for x := 0; x < g.w; x++ {
			if !g.at(x, y) {
				continue
			}
		scan:
			for dy := -bevelPx; dy <= bevelPx; dy++ {
				for dx := -bevelPx; dx <= bevelPx; dx++ {
					if !g.at(x+dx, y+dy) {
						edge[y*g.w+x] = true
						break scan
					}
				}
			}
		}
	}
	return edge
}

// meshBuilder accumulates quads into flat vertex and index arrays.
type meshBuilder struct {
	verts []model.GPUVertex
	idx   []uint32
}

// addQuad appends one quad: four corners in winding order, a shared normal,
// and one color per corner. Two triangles (0,1,2) and (0,2,3) index it.
func (b *meshBuilder) addQuad(p [4][3]float32, n [3]float32, c [4][3]float32) {
	base := uint32(len(b.verts))
	for i := 0; i < 4; i++ {
		b.verts = append(b.verts, model.GPUVertex{Position: p[i], Normal: n, Color: c[i]})
	}
	b.idx = append(b.idx, base, base+1, base+2, base, base+2, base+3)
}

// buildGlyphMesh extrudes a glyph mask into a 3D mesh. The mask's pixel grid
// maps to world units at 1 em = 1.0, the extrusion straddles z = 0 at
// ±depth/2, and vertex colors encode the style: face color (optionally
// blended toward the edge color down the glyph) on front and back, edge color
// within the bevel margin of the silhouette, side color on the extrusion
// walls. Side quads appear only where a rectangle borders uncovered cells, so
// internal seams between merged rectangles stay open.
func buildGlyphMesh(g *glyphMask, st config.Style, pixelsPerEm int) ([]model.GPUVertex, []uint32, common.AABB) {
	scale := 1 / float32(pixelsPerEm)
	zf := st.Depth / 2
	zb := -st.Depth / 2

	wx := func(px int) float32 { return float32(g.originX+px) * scale }
	wy := func(py int) float32 { return -float32(g.originY+py) * scale }

	faceColor := st.FaceColor.Vec3()
	sideColor := st.SideColor.Vec3()
	edgeColor := st.EdgeColor.Vec3()

	topY := wy(0)
	botY := wy(g.h)
	shade := func(y float32) [3]float32 {
		if st.Gradient != config.GradientVertical || topY <= botY {
			return faceColor
		}
		t := common.Clamp((topY-y)/(topY-botY), 0, 1)
		return [3]float32{
			common.Lerp(faceColor[0], edgeColor[0], t),
			common.Lerp(faceColor[1], edgeColor[1], t),
			common.Lerp(faceColor[2], edgeColor[2], t),
		}
	}

	bevelPx := int(math.Round(float64(st.Bevel) * float64(pixelsPerEm)))
	edge := classifyBevel(g, bevelPx)
	isEdge := func(x, y int) bool { return edge[y*g.w+x] }

	b := &meshBuilder{}

	frontBack := func(r cellRect, flat [3]float32, useFlat bool) {
		x0, x1 := wx(r.x), wx(r.x+r.w)
		y0, y1 := wy(r.y), wy(r.y+r.h)

		corner := func(y float32) [3]float32 {
			if useFlat {
				return flat
			}
			return shade(y)
		}
		cBL, cBR := corner(y1), corner(y1)
		cTR, cTL := corner(y0), corner(y0)

		b.addQuad(
			[4][3]float32{{x0, y1, zf}, {x1, y1, zf}, {x1, y0, zf}, {x0, y0, zf}},
			[3]float32{0, 0, 1},
			[4][3]float32{cBL, cBR, cTR, cTL},
		)
		b.addQuad(
			[4][3]float32{{x1, y1, zb}, {x0, y1, zb}, {x0, y0, zb}, {x1, y0, zb}},
			[3]float32{0, 0, -1},
			[4][3]float32{cBR, cBL, cTL, cTR},
		)
	}

	sides := func(r cellRect) {
		sideC := [4][3]float32{sideColor, sideColor, sideColor, sideColor}

		// Horizontal runs along the rectangle's top and bottom rows.
		emitH := func(py int, probeY int, normalY float32) {
			run := -1
			for x := r.x; x <= r.x+r.w; x++ {
				exposed := x < r.x+r.w && !g.at(x, probeY)
				switch {
				case exposed && run < 0:
					run = x
				case !exposed && run >= 0:
					y := wy(py)
					b.addQuad(
						[4][3]float32{{wx(run), y, zb}, {wx(x), y, zb}, {wx(x), y, zf}, {wx(run), y, zf}},
						[3]float32{0, normalY, 0},
						sideC,
					)
					run = -1
				}
			}
		}
		emitH(r.y, r.y-1, 1)
		emitH(r.y+r.h, r.y+r.h, -1)

		// Vertical runs along the rectangle's left and right columns.
		emitV := func(px int, probeX int, normalX float32) {
			run := -1
			for y := r.y; y <= r.y+r.h; y++ {
				exposed := y < r.y+r.h && !g.at(probeX, y)
				switch {
				case exposed && run < 0:
					run = y
				case !exposed && run >= 0:
					x := wx(px)
					b.addQuad(
						[4][3]float32{{x, wy(y), zb}, {x, wy(run), zb}, {x, wy(run), zf}, {x, wy(y), zf}},
						[3]float32{normalX, 0, 0},
						sideC,
					)
					run = -1
				}
			}
		}
		emitV(r.x, r.x-1, -1)
		emitV(r.x+r.w, r.x+r.w, 1)
	}

	interior := greedyRects(g.w, g.h, func(x, y int) bool { return g.at(x, y) && !isEdge(x, y) })
	for _, r := range interior {
		frontBack(r, [3]float32{}, false)
		sides(r)
	}

	bevel := greedyRects(g.w, g.h, func(x, y int) bool { return g.at(x, y) && isEdge(x, y) })
	for _, r := range bevel {
		frontBack(r, edgeColor, true)
		sides(r)
	}

	return b.verts, b.idx, model.ComputeBounds(b.verts)
}
