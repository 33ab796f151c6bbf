// Package export turns the rendered animation cycle into a looping
// chroma-keyed GIF: it captures and crops frames at a fixed 12 fps, builds
// one global 256-color palette keyed on the background color, and encodes a
// GIF89a byte stream any conformant reader can decode.
package export

import (
	"errors"
	"fmt"
	"image"
	"strings"

	"github.com/Carmen-Shannon/kinetype/common"
	"github.com/Carmen-Shannon/kinetype/engine/profiler"

	"github.com/shirou/gopsutil/v3/mem"
)

const (
	// OutputFPS is the fixed frame rate of the exported GIF.
	OutputFPS = 12

	// maxFilenameLen caps the suggested filename stem.
	maxFilenameLen = 30

	// fallbackFilename is used when the text sanitizes to nothing.
	fallbackFilename = "kinetype"
)

var (
	// ErrInsufficientMemory is returned by the preflight when the estimated
	// peak working set exceeds the memory currently available.
	ErrInsufficientMemory = errors.New("export: estimated memory exceeds available")
)

// FrameSource renders the animation at a pinned cycle progress and returns
// the frame's pixels. The engine implements it.
type FrameSource interface {
	// RenderAt pins progress to t, renders one frame, and reads it back.
	//
	// Parameters:
	//   - t: normalized cycle progress in [0, 1)
	//
	// Returns:
	//   - *image.RGBA: the rendered frame at full canvas size
	//   - error: a render or readback failure
	RenderAt(t float64) (*image.RGBA, error)
}

// Options parameterizes one export. OutputWidth, OutputHeight, and Progress
// come from the caller; the engine fills the rest from the active config and
// its calibration.
type Options struct {
	// OutputWidth and OutputHeight bound the exported frame size. The crop is
	// scaled to fit inside while preserving aspect ratio, never upscaled.
	OutputWidth  int
	OutputHeight int

	// Progress, when set, receives completion in [0, 1]. Capture spans the
	// first half.
	Progress func(p float64)

	// CycleDuration is the animation loop length in seconds.
	CycleDuration float32

	// Bounds is the calibrated crop rectangle in screen fractions.
	Bounds common.Rect

	// ChromaKey is the background color that becomes transparent.
	ChromaKey common.RGB

	// Text is the lettering text; its first line suggests the filename.
	Text string
}

// Result is one finished export.
type Result struct {
	// GIF is the complete encoded file.
	GIF []byte

	// Filename is the suggested output name including the .gif extension.
	Filename string

	// FrameCount is the number of frames encoded.
	FrameCount int

	// Width and Height are the final frame dimensions in pixels.
	Width, Height int
}

// Export runs the full pipeline against an already calibrated source:
// preflight, capture, palette, encode.
//
// Parameters:
//   - src: the frame source; its clock is stepped through one full cycle
//   - opts: output size, progress callback, and the engine-filled fields
//
// Returns:
//   - *Result: the encoded GIF and its suggested filename
//   - error: the first preflight, capture, or encode failure
func Export(src FrameSource, opts Options) (*Result, error) {
	if err := Preflight(opts); err != nil {
		return nil, err
	}

	captured := profiler.Stage("capture")
	seq, err := Capture(src, opts)
	if err != nil {
		return nil, err
	}
	frames := make([]*image.RGBA, 0, seq.Count())
	for {
		frame, ok := seq.Next()
		if !ok {
			break
		}
		frames = append(frames, frame)
		reportProgress(opts, 0.5*float64(len(frames))/float64(seq.Count()))
	}
	if err := seq.Err(); err != nil {
		releaseFrames(frames)
		return nil, err
	}
	captured()

	paletted := profiler.Stage("palette")
	pal := BuildPalette(frames, opts.ChromaKey)
	indexed := IndexFrames(pal, frames, opts.ChromaKey)
	paletted()
	reportProgress(opts, 0.75)

	encoded := profiler.Stage("encode")
	w, h := seq.Size()
	gif, err := EncodeGIF(indexed, w, h, pal)
	releaseFrames(frames)
	if err != nil {
		return nil, err
	}
	encoded()
	reportProgress(opts, 1)

	return &Result{
		GIF:        gif,
		Filename:   SuggestFilename(opts.Text),
		FrameCount: seq.Count(),
		Width:      w,
		Height:     h,
	}, nil
}

// Preflight estimates the export's peak working set and fails with
// ErrInsufficientMemory when it exceeds the memory currently available.
// Systems where availability cannot be read skip the check.
//
// Parameters:
//   - opts: the export options; output size and cycle length set the estimate
//
// Returns:
//   - error: ErrInsufficientMemory (wrapped with sizes) or nil
func Preflight(opts Options) error {
	count := FrameCount(opts.CycleDuration)
	estimate := uint64(opts.OutputWidth) * uint64(opts.OutputHeight) * 4 * uint64(count+2)

	vm, err := mem.VirtualMemory()
	if err != nil {
		return nil
	}
	if estimate > vm.Available {
		return fmt.Errorf("%w: need about %d MiB, %d MiB available",
			ErrInsufficientMemory, estimate>>20, vm.Available>>20)
	}
	return nil
}

// FrameCount returns the number of frames one cycle exports at the fixed
// output rate.
//
// Parameters:
//   - cycleDuration: the loop length in seconds
//
// Returns:
//   - int: round(cycleDuration * 12)
func FrameCount(cycleDuration float32) int {
	return int(float64(cycleDuration)*OutputFPS + 0.5)
}

// SuggestFilename derives an output filename from the lettering text: the
// first line, lowercased, with every run of non-alphanumeric characters
// collapsed to one underscore, trimmed to 30 characters, falling back to
// "kinetype" when nothing survives.
//
// Parameters:
//   - text: the raw, possibly multi-line lettering text
//
// Returns:
//   - string: the sanitized stem plus ".gif"
func SuggestFilename(text string) string {
	line, _, _ := strings.Cut(text, "\n")
	line = strings.ToLower(line)

	var b strings.Builder
	pendingSep := false
	for _, r := range line {
		alnum := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9')
		if !alnum {
			pendingSep = b.Len() > 0
			continue
		}
		if pendingSep {
			b.WriteByte('_')
			pendingSep = false
		}
		b.WriteRune(r)
	}

	stem := b.String()
	if len(stem) > maxFilenameLen {
		stem = strings.TrimRight(stem[:maxFilenameLen], "_")
	}
	if stem == "" {
		stem = fallbackFilename
	}
	return stem + ".gif"
}

func reportProgress(opts Options, p float64) {
	if opts.Progress != nil {
		opts.Progress(p)
	}
}
