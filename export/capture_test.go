package export

import (
	"errors"
	"fmt"
	"image"
	"strings"
	"testing"

	"github.com/Carmen-Shannon/kinetype/common"
)

// fakeSource renders a solid lettering rectangle on a chroma background and
// records every requested cycle progress.
type fakeSource struct {
	w, h   int
	chroma common.RGB
	fill   common.RGB
	rect   image.Rectangle

	calls     []float64
	failAfter int // error once this many calls succeeded; -1 never fails
}

func newFakeSource(w, h int, rect image.Rectangle) *fakeSource {
	return &fakeSource{
		w:         w,
		h:         h,
		chroma:    common.RGB{G: 0xff},
		fill:      common.RGB{R: 0xc8, G: 0x32, B: 0x32},
		rect:      rect,
		failAfter: -1,
	}
}

func (f *fakeSource) RenderAt(t float64) (*image.RGBA, error) {
	if f.failAfter >= 0 && len(f.calls) >= f.failAfter {
		return nil, errors.New("backend lost")
	}
	f.calls = append(f.calls, t)

	img := image.NewRGBA(image.Rect(0, 0, f.w, f.h))
	for y := 0; y < f.h; y++ {
		for x := 0; x < f.w; x++ {
			c := f.chroma
			if image.Pt(x, y).In(f.rect) {
				c = f.fill
			}
			i := img.PixOffset(x, y)
			img.Pix[i+0] = c.R
			img.Pix[i+1] = c.G
			img.Pix[i+2] = c.B
			img.Pix[i+3] = 0xff
		}
	}
	return img, nil
}

func captureOpts() Options {
	return Options{
		OutputWidth:   400,
		OutputHeight:  300,
		CycleDuration: 1,
		Bounds:        common.Rect{MinX: 0.25, MinY: 0.2, MaxX: 0.75, MaxY: 0.8},
		ChromaKey:     common.RGB{G: 0xff},
	}
}

func TestFrameCount(t *testing.T) {
	tests := []struct {
		cycle float32
		want  int
	}{
		{2.0, 24},
		{1.2, 14},
		{1.0, 12},
		{0.5, 6},
		{1.1, 13},
		{0.04, 0},
	}
	for _, tt := range tests {
		if got := FrameCount(tt.cycle); got != tt.want {
			t.Errorf("FrameCount(%v) = %d, want %d", tt.cycle, got, tt.want)
		}
	}
}

func TestCaptureYieldsEveryFrameInOrder(t *testing.T) {
	src := newFakeSource(200, 100, image.Rect(60, 30, 140, 70))
	seq, err := Capture(src, captureOpts())
	if err != nil {
		t.Fatalf("Capture: %v", err)
	}
	if seq.Count() != 12 {
		t.Fatalf("Count = %d, want 12", seq.Count())
	}

	yielded := 0
	for {
		frame, ok := seq.Next()
		if !ok {
			break
		}
		if frame == nil {
			t.Fatalf("frame %d is nil", yielded)
		}
		yielded++
	}
	if err := seq.Err(); err != nil {
		t.Fatalf("Err after clean run: %v", err)
	}
	if yielded != 12 {
		t.Errorf("yielded %d frames, want 12", yielded)
	}
	if _, ok := seq.Next(); ok {
		t.Errorf("Next yielded past the end")
	}

	// Exactly one render per frame, at i/count in increasing order.
	if len(src.calls) != 12 {
		t.Fatalf("source rendered %d times, want 12", len(src.calls))
	}
	for i, tt := range src.calls {
		want := float64(i) / 12
		if tt != want {
			t.Errorf("call %d at t=%v, want %v", i, tt, want)
		}
	}
}

func TestCaptureNeverUpscales(t *testing.T) {
	src := newFakeSource(200, 100, image.Rect(60, 30, 140, 70))
	seq, err := Capture(src, captureOpts())
	if err != nil {
		t.Fatalf("Capture: %v", err)
	}
	// Crop is 100x60; the requested 400x300 must not stretch it.
	if w, h := seq.Size(); w != 100 || h != 60 {
		t.Errorf("Size = %dx%d, want the unscaled 100x60 crop", w, h)
	}
}

func TestCaptureFitsInsideOutput(t *testing.T) {
	src := newFakeSource(200, 100, image.Rect(60, 30, 140, 70))
	opts := captureOpts()
	opts.OutputWidth, opts.OutputHeight = 50, 50
	seq, err := Capture(src, opts)
	if err != nil {
		t.Fatalf("Capture: %v", err)
	}
	// Width binds: 50/100 = 0.5, so 100x60 becomes 50x30.
	if w, h := seq.Size(); w != 50 || h != 30 {
		t.Errorf("Size = %dx%d, want 50x30", w, h)
	}
}

func TestCaptureCropsToBounds(t *testing.T) {
	// The lettering rectangle exactly fills the crop, so at 1:1 every output
	// pixel is the fill color.
	src := newFakeSource(200, 100, image.Rect(50, 20, 150, 80))
	seq, err := Capture(src, captureOpts())
	if err != nil {
		t.Fatalf("Capture: %v", err)
	}
	frame, ok := seq.Next()
	if !ok {
		t.Fatalf("no first frame: %v", seq.Err())
	}
	for i := 0; i < len(frame.Pix); i += 4 {
		if frame.Pix[i] != src.fill.R || frame.Pix[i+1] != src.fill.G || frame.Pix[i+2] != src.fill.B {
			t.Fatalf("pixel %d = (%d,%d,%d), want the fill color",
				i/4, frame.Pix[i], frame.Pix[i+1], frame.Pix[i+2])
		}
	}
}

func TestCaptureFailsFast(t *testing.T) {
	good := captureOpts()

	tests := []struct {
		name string
		src  FrameSource
		opts func() Options
	}{
		{"nil source", nil, func() Options { return good }},
		{"zero output", newFakeSource(200, 100, image.Rect(0, 0, 10, 10)), func() Options {
			o := good
			o.OutputWidth = 0
			return o
		}},
		{"cycle too short", newFakeSource(200, 100, image.Rect(0, 0, 10, 10)), func() Options {
			o := good
			o.CycleDuration = 0.01
			return o
		}},
		{"degenerate crop", newFakeSource(200, 100, image.Rect(0, 0, 10, 10)), func() Options {
			o := good
			o.Bounds = common.Rect{MinX: 0.5, MinY: 0.2, MaxX: 0.5, MaxY: 0.8}
			return o
		}},
		{"failing source", &fakeSource{w: 200, h: 100, failAfter: 0}, func() Options { return good }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seq, err := Capture(tt.src, tt.opts())
			if err == nil {
				t.Fatalf("Capture succeeded, want an error")
			}
			if seq != nil {
				t.Errorf("got a sequence alongside the error")
			}
		})
	}
}

func TestCaptureSurfacesMidSequenceFailure(t *testing.T) {
	src := newFakeSource(200, 100, image.Rect(60, 30, 140, 70))
	src.failAfter = 4
	seq, err := Capture(src, captureOpts())
	if err != nil {
		t.Fatalf("Capture: %v", err)
	}

	yielded := 0
	for {
		if _, ok := seq.Next(); !ok {
			break
		}
		yielded++
	}
	if yielded != 4 {
		t.Errorf("yielded %d frames before the failure, want 4", yielded)
	}
	if err := seq.Err(); err == nil {
		t.Errorf("Err = nil after a failing source")
	} else if want := fmt.Sprintf("frame %d", yielded); !strings.Contains(err.Error(), want) {
		t.Errorf("Err %q does not name %s", err, want)
	}
}
