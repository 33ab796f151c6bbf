package export

import (
	"fmt"
	"image"
	"math"
	"sync"

	"github.com/Carmen-Shannon/kinetype/common"

	xdraw "golang.org/x/image/draw"
)

// framePool recycles output frame buffers across captures. Batch runs churn
// through frameCount buffers per export; reuse keeps that off the GC.
var framePool = sync.Pool{
	New: func() any { return new(image.RGBA) },
}

// acquireFrame returns a pooled RGBA image re-sliced to w by h, allocating
// backing pixels only when the pooled buffer is too small.
func acquireFrame(w, h int) *image.RGBA {
	img := framePool.Get().(*image.RGBA)
	need := 4 * w * h
	if cap(img.Pix) < need {
		img.Pix = make([]uint8, need)
	}
	img.Pix = img.Pix[:need]
	img.Stride = 4 * w
	img.Rect = image.Rect(0, 0, w, h)
	return img
}

// releaseFrames hands capture output back to the pool.
func releaseFrames(frames []*image.RGBA) {
	for _, f := range frames {
		if f != nil {
			framePool.Put(f)
		}
	}
}

// FrameSeq is a lazy, finite, non-restartable sequence of captured frames in
// increasing cycle-progress order. Iterate with Next until it reports false,
// then check Err.
type FrameSeq struct {
	src   FrameSource
	count int
	crop  image.Rectangle
	outW  int
	outH  int

	next    int
	pending *image.RGBA
	err     error
}

// Capture prepares the frame sequence for one export: it renders the first
// frame to learn the canvas size, resolves the crop rectangle in pixels, and
// fails fast on anything degenerate before a single frame is produced.
//
// Parameters:
//   - src: the calibrated frame source
//   - opts: output bounds, crop rectangle, and cycle duration
//
// Returns:
//   - *FrameSeq: the sequence of exactly FrameCount(opts.CycleDuration) frames
//   - error: error if the source, crop, or options are degenerate
func Capture(src FrameSource, opts Options) (*FrameSeq, error) {
	if src == nil {
		return nil, fmt.Errorf("failed to capture: nil frame source")
	}
	if opts.OutputWidth <= 0 || opts.OutputHeight <= 0 {
		return nil, fmt.Errorf("failed to capture: output size %dx%d is degenerate",
			opts.OutputWidth, opts.OutputHeight)
	}
	count := FrameCount(opts.CycleDuration)
	if count < 1 {
		return nil, fmt.Errorf("failed to capture: cycle of %.3fs produces no frames",
			opts.CycleDuration)
	}

	first, err := src.RenderAt(0)
	if err != nil {
		return nil, fmt.Errorf("failed to capture frame 0: %w", err)
	}
	canvas := first.Bounds()
	if canvas.Dx() < 1 || canvas.Dy() < 1 {
		return nil, fmt.Errorf("failed to capture: source canvas is empty")
	}

	crop := cropRect(opts.Bounds, canvas)
	if crop.Dx() < 1 || crop.Dy() < 1 {
		return nil, fmt.Errorf("failed to capture: crop rectangle %v is degenerate", crop)
	}

	// Fit inside the requested size without upscaling.
	scale := math.Min(
		float64(opts.OutputWidth)/float64(crop.Dx()),
		float64(opts.OutputHeight)/float64(crop.Dy()),
	)
	if scale > 1 {
		scale = 1
	}
	outW := max(1, int(float64(crop.Dx())*scale+0.5))
	outH := max(1, int(float64(crop.Dy())*scale+0.5))

	s := &FrameSeq{
		src:   src,
		count: count,
		crop:  crop,
		outW:  outW,
		outH:  outH,
	}
	s.pending = s.scaleInto(first)
	return s, nil
}

// Count returns the total number of frames the sequence yields.
//
// Returns:
//   - int: the frame count
func (s *FrameSeq) Count() int {
	return s.count
}

// Size returns the dimensions of every yielded frame.
//
// Returns:
//   - width, height: frame dimensions in pixels
func (s *FrameSeq) Size() (width, height int) {
	return s.outW, s.outH
}

// Next yields the following frame. Yielded images come from the package
// frame pool; return them with releaseFrames once encoded.
//
// Returns:
//   - *image.RGBA: the cropped, scaled frame
//   - bool: false when the sequence is exhausted or failed
func (s *FrameSeq) Next() (*image.RGBA, bool) {
	if s.err != nil || s.next >= s.count {
		return nil, false
	}

	if s.pending != nil {
		frame := s.pending
		s.pending = nil
		s.next++
		return frame, true
	}

	t := float64(s.next) / float64(s.count)
	img, err := s.src.RenderAt(t)
	if err != nil {
		s.err = fmt.Errorf("failed to capture frame %d: %w", s.next, err)
		return nil, false
	}
	s.next++
	return s.scaleInto(img), true
}

// Err returns the first failure encountered while iterating, if any.
//
// Returns:
//   - error: the capture failure, or nil after a clean run
func (s *FrameSeq) Err() error {
	return s.err
}

// scaleInto crops src and scales the crop into a pooled output frame.
func (s *FrameSeq) scaleInto(src *image.RGBA) *image.RGBA {
	dst := acquireFrame(s.outW, s.outH)
	if s.outW == s.crop.Dx() && s.outH == s.crop.Dy() {
		// 1:1 keeps chroma pixels exact; no resampling.
		xdraw.Copy(dst, image.Point{}, src, s.crop, xdraw.Src, nil)
		return dst
	}
	xdraw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, s.crop, xdraw.Src, nil)
	return dst
}

// cropRect converts fractional screen bounds to a pixel rectangle clamped to
// the canvas. Floor/ceil keep every partially covered pixel.
func cropRect(b common.Rect, canvas image.Rectangle) image.Rectangle {
	w := float64(canvas.Dx())
	h := float64(canvas.Dy())
	r := image.Rect(
		int(math.Floor(float64(b.MinX)*w)),
		int(math.Floor(float64(b.MinY)*h)),
		int(math.Ceil(float64(b.MaxX)*w)),
		int(math.Ceil(float64(b.MaxY)*h)),
	)
	return r.Intersect(canvas)
}
