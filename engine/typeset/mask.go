package typeset

import (
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

// maskAlphaThreshold is the 8-bit coverage value above which a mask pixel
// counts as part of the glyph.
const maskAlphaThreshold = 127

// glyphMask is a binary coverage grid for one rasterized glyph. Coordinates
// are mask pixels with y growing downward; originX/originY locate the grid's
// top-left corner relative to the pen position on the baseline, so a typical
// glyph has a negative originY.
type glyphMask struct {
	w, h             int
	originX, originY int
	cells            []bool
}

// at reports whether the cell at (x, y) is covered. Out-of-range coordinates
// read as empty, which lets mesh extraction probe neighbors without bounds
// checks.
func (g *glyphMask) at(x, y int) bool {
	if x < 0 || y < 0 || x >= g.w || y >= g.h {
		return false
	}
	return g.cells[y*g.w+x]
}

// empty reports whether the mask has no covered cells at all.
func (g *glyphMask) empty() bool {
	for _, c := range g.cells {
		if c {
			return false
		}
	}
	return true
}

// rasterizeGlyph renders r through the face at the pen origin and thresholds
// the coverage into a binary grid. Returns false when the face has no glyph
// for the rune.
func rasterizeGlyph(face font.Face, r rune) (*glyphMask, bool) {
	dr, maskImg, maskp, _, ok := face.Glyph(fixed.Point26_6{}, r)
	if !ok {
		return nil, false
	}

	g := &glyphMask{
		w:       dr.Dx(),
		h:       dr.Dy(),
		originX: dr.Min.X,
		originY: dr.Min.Y,
	}
	if g.w <= 0 || g.h <= 0 {
		return g, true
	}

	g.cells = make([]bool, g.w*g.h)
	for y := 0; y < g.h; y++ {
		for x := 0; x < g.w; x++ {
			_, _, _, a := maskImg.At(maskp.X+x, maskp.Y+y).RGBA()
			g.cells[y*g.w+x] = uint8(a>>8) > maskAlphaThreshold
		}
	}
	return g, true
}
