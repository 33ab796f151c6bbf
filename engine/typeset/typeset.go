// package typeset turns a config's text into renderable geometry: it parses
// the font, rasterizes glyph coverage masks, extrudes them into 3D meshes,
// and lays the characters out line by line around the group origin.
package typeset

import (
	"fmt"
	"os"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/Carmen-Shannon/kinetype/common"
	"github.com/Carmen-Shannon/kinetype/engine/config"
	"github.com/Carmen-Shannon/kinetype/engine/model"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/fixed"
)

// DefaultPixelsPerEm is the glyph mask resolution. One em of the font maps to
// this many mask cells and to exactly 1.0 world units of mesh.
const DefaultPixelsPerEm = 48

// lineGapEm is the baseline-to-baseline distance between lines, in em.
const lineGapEm = 1.2

// typesetter is the implementation of the Typesetter interface.
type typesetter struct {
	mu sync.Mutex

	pixelsPerEm int
	meshWorkers int

	// fontCache holds parsed fonts keyed by file path. The embedded default
	// face is cached under the empty key.
	fontCache map[string]*truetype.Font

	// meshPool fans per-character rasterize-and-extrude jobs out across a
	// bounded set of reusable goroutines.
	meshPool worker.DynamicWorkerPool
}

// Typesetter converts text plus style into per-character 3D meshes with their
// resting placements. One call covers one config; repeated characters within
// a call share a mesh.
type Typesetter interface {
	// Typeset lays out the config's text and builds an extruded mesh for
	// every visible character.
	//
	// Parameters:
	//   - cfg: the generation config supplying text, font, and style
	//
	// Returns:
	//   - *Layout: placed characters and their union bounds
	//   - error: error if the font cannot be read or parsed
	Typeset(cfg config.Config) (*Layout, error)
}

var _ Typesetter = &typesetter{}

// NewTypesetter creates a Typesetter with the options applied. Parsed fonts
// are cached for the lifetime of the instance, so one Typesetter should be
// shared across regenerations.
//
// Parameters:
//   - options: a variadic list of TypesetterBuilderOption functions
//
// Returns:
//   - Typesetter: the configured typesetter
func NewTypesetter(options ...TypesetterBuilderOption) Typesetter {
	t := &typesetter{
		pixelsPerEm: DefaultPixelsPerEm,
		meshWorkers: max(runtime.NumCPU()-1, 1),
		fontCache:   make(map[string]*truetype.Font),
	}

	for _, option := range options {
		option(t)
	}

	// Queue size of 256 covers the unique-rune count of any realistic text.
	t.meshPool = worker.NewDynamicWorkerPool(t.meshWorkers, 256, 1*time.Second)
	return t
}

func (t *typesetter) Typeset(cfg config.Config) (*Layout, error) {
	fnt, err := t.loadFont(cfg.Style().FontPath)
	if err != nil {
		return nil, err
	}

	// One face on the calling goroutine for metrics; faces are not safe for
	// concurrent use, so each mesh job below builds its own.
	face := t.newFace(fnt)
	scale := 1 / float32(t.pixelsPerEm)
	toWorld := func(v fixed.Int26_6) float32 { return float32(v) / 64 * scale }

	type pendingChar struct {
		r       rune
		ordinal int
		x       float32
		line    int
	}

	var (
		pendingChars []pendingChar
		lineWidths   []float32
		uniques      []rune
		slotByRune   = make(map[rune]int)
		advances     = make(map[rune]float32)
	)

	ordinal := 0
	for lineIdx, line := range strings.Split(cfg.Text(), "\n") {
		pen := fixed.Int26_6(0)
		prev := rune(-1)
		for _, r := range line {
			if prev >= 0 {
				pen += face.Kern(prev, r)
			}
			adv, ok := face.GlyphAdvance(r)
			if !ok {
				adv = fixed.I(t.pixelsPerEm) / 2
			}
			if r != ' ' {
				if _, seen := slotByRune[r]; !seen {
					slotByRune[r] = len(uniques)
					uniques = append(uniques, r)
					advances[r] = toWorld(adv)
				}
				pendingChars = append(pendingChars, pendingChar{
					r:       r,
					ordinal: ordinal,
					x:       toWorld(pen),
					line:    lineIdx,
				})
			}
			pen += adv
			ordinal++
			prev = r
		}
		lineWidths = append(lineWidths, toWorld(pen))
	}

	// Phase 1: parallel rasterize-and-extrude, one job per unique rune. Each
	// job writes its own result slot; the WaitGroup is the per-call barrier.
	st := cfg.Style()
	results := make([]model.Model, len(uniques))
	var wg sync.WaitGroup
	for i, r := range uniques {
		wg.Add(1)
		slot := i
		rn := r // capture for closure
		t.meshPool.SubmitTask(worker.Task{
			ID: i,
			Do: func() (any, error) {
				defer wg.Done()

				face := t.newFace(fnt)
				g, ok := rasterizeGlyph(face, rn)
				if !ok || g.empty() {
					return nil, nil
				}

				verts, idx, bounds := buildGlyphMesh(g, st, t.pixelsPerEm)
				results[slot] = model.NewModel(
					model.WithName(fmt.Sprintf("glyph %q", rn)),
					model.WithRune(rn),
					model.WithVertices(verts),
					model.WithIndices(idx),
					model.WithBounds(bounds),
					model.WithAdvance(advances[rn]),
				)
				return nil, nil
			},
		})
	}
	wg.Wait()

	// Phase 2: sequential assembly in reading order. Lines center on X;
	// characters whose mask came up empty (tabs, missing glyphs) keep their
	// ordinal but place nothing.
	layout := &Layout{Bounds: common.EmptyAABB()}
	for _, pc := range pendingChars {
		m := results[slotByRune[pc.r]]
		if m == nil {
			continue
		}
		offset := [3]float32{
			pc.x - lineWidths[pc.line]/2,
			-float32(pc.line) * lineGapEm,
			0,
		}
		layout.Chars = append(layout.Chars, PlacedChar{Model: m, Offset: offset, Ordinal: pc.ordinal})
		layout.Bounds = layout.Bounds.Union(
			m.Bounds().Translate(offset[0], offset[1], offset[2]),
		)
	}

	// Center the whole block on Y.
	if !layout.Bounds.IsEmpty() {
		dy := -(layout.Bounds.Min[1] + layout.Bounds.Max[1]) / 2
		for i := range layout.Chars {
			layout.Chars[i].Offset[1] += dy
		}
		layout.Bounds = layout.Bounds.Translate(0, dy, 0)
	}

	return layout, nil
}

// loadFont returns the parsed font for path, reading and parsing it on first
// use. The empty path selects the embedded Go Regular face.
func (t *typesetter) loadFont(path string) (*truetype.Font, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if f, ok := t.fontCache[path]; ok {
		return f, nil
	}

	data := goregular.TTF
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read font %s: %w", path, err)
		}
	}

	f, err := truetype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font %s: %w", path, err)
	}

	t.fontCache[path] = f
	return f, nil
}

func (t *typesetter) newFace(f *truetype.Font) font.Face {
	return truetype.NewFace(f, &truetype.Options{
		Size:    float64(t.pixelsPerEm),
		DPI:     72,
		Hinting: font.HintingFull,
	})
}
