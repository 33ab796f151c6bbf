package export

import (
	"image"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/Carmen-Shannon/kinetype/common"

	"github.com/Carmen-Shannon/automation/tools/worker"
)

// chromaTolerance is the per-channel distance within which a pixel counts as
// background. Downscaling feathers the chroma edge; this absorbs it.
const chromaTolerance = 8

// Palette is one global GIF color table: entry 0 is the chroma key, entries
// 1..Count-1 are the selected colors, and the rest is black padding that the
// indexer never references.
type Palette struct {
	Colors [256]common.RGB
	Count  int
}

// BuildPalette histograms every frame and selects the 255 most frequent
// non-background colors. Ties break toward the color seen first, scanning
// frame 0's first pixel onward, so the palette is deterministic.
//
// Parameters:
//   - frames: the captured frames, scanned in order
//   - chroma: the background color; nearby pixels are excluded
//
// Returns:
//   - *Palette: the global color table with chroma at index 0
func BuildPalette(frames []*image.RGBA, chroma common.RGB) *Palette {
	type colorStat struct {
		c         common.RGB
		count     int
		firstSeen int
	}

	stats := make(map[common.RGB]*colorStat)
	seen := 0
	for _, frame := range frames {
		pix := frame.Pix
		for i := 0; i+3 < len(pix); i += 4 {
			c := common.RGB{R: pix[i], G: pix[i+1], B: pix[i+2]}
			if c.WithinTolerance(chroma, chromaTolerance) {
				continue
			}
			st, ok := stats[c]
			if !ok {
				st = &colorStat{c: c, firstSeen: seen}
				stats[c] = st
				seen++
			}
			st.count++
		}
	}

	ordered := make([]*colorStat, 0, len(stats))
	for _, st := range stats {
		ordered = append(ordered, st)
	}
	sort.Slice(ordered, func(i, j int) bool {
		if ordered[i].count != ordered[j].count {
			return ordered[i].count > ordered[j].count
		}
		return ordered[i].firstSeen < ordered[j].firstSeen
	})
	if len(ordered) > 255 {
		ordered = ordered[:255]
	}

	p := &Palette{Count: 1 + len(ordered)}
	p.Colors[0] = chroma
	for i, st := range ordered {
		p.Colors[i+1] = st.c
	}
	return p
}

// IndexFrames maps every frame to palette indices. Frames are independent
// once the palette exists, so each one is a task on a bounded worker pool;
// results land in a pre-sized slice by frame index, keeping output order and
// content deterministic for any worker count.
//
// Parameters:
//   - p: the global palette
//   - frames: the captured frames
//   - chroma: the background color mapped to index 0
//
// Returns:
//   - [][]byte: one index buffer per frame, in frame order
func IndexFrames(p *Palette, frames []*image.RGBA, chroma common.RGB) [][]byte {
	indexed := make([][]byte, len(frames))
	if len(frames) == 0 {
		return indexed
	}

	pool := worker.NewDynamicWorkerPool(max(runtime.NumCPU()-1, 1), len(frames), 1*time.Second)
	var wg sync.WaitGroup
	for i, frame := range frames {
		wg.Add(1)
		slot := i
		f := frame // capture for closure
		pool.SubmitTask(worker.Task{
			ID: i,
			Do: func() (any, error) {
				defer wg.Done()
				indexed[slot] = p.indexFrame(f, chroma)
				return nil, nil
			},
		})
	}
	wg.Wait()
	return indexed
}

// indexFrame maps one frame's pixels to palette indices with a per-call memo
// so repeated colors pay the nearest-entry search once.
func (p *Palette) indexFrame(frame *image.RGBA, chroma common.RGB) []byte {
	pix := frame.Pix
	out := make([]byte, len(pix)/4)
	memo := make(map[common.RGB]byte)

	for i, o := 0, 0; i+3 < len(pix); i, o = i+4, o+1 {
		c := common.RGB{R: pix[i], G: pix[i+1], B: pix[i+2]}
		if c.WithinTolerance(chroma, chromaTolerance) {
			continue
		}
		idx, ok := memo[c]
		if !ok {
			idx = p.nearest(c)
			memo[c] = idx
		}
		out[o] = idx
	}
	return out
}

// nearest returns the selected palette entry closest to c by squared
// Euclidean RGB distance, ties to the lowest index. Padding entries are
// never considered.
func (p *Palette) nearest(c common.RGB) byte {
	if p.Count <= 1 {
		return 0
	}
	best := 1
	bestDist := 1 << 30
	for i := 1; i < p.Count; i++ {
		d := c.DistSq(p.Colors[i])
		if d < bestDist {
			best = i
			bestDist = d
			if d == 0 {
				break
			}
		}
	}
	return byte(best)
}
