package profiler

import (
	"log"
	"runtime"
	"sync/atomic"
	"time"
)

// stageLogging gates Stage output; enabled via EnableStages for verbose runs.
var stageLogging atomic.Bool

// EnableStages turns on elapsed-time logging for pipeline stages.
func EnableStages() {
	stageLogging.Store(true)
}

// DisableStages turns off elapsed-time logging for pipeline stages.
func DisableStages() {
	stageLogging.Store(false)
}

// Stage starts timing one pipeline stage and returns the function that stops
// it. Typical usage wraps a stage in a single statement:
//
//	done := profiler.Stage("encode")
//	...
//	done()
//
// Output goes to the log only while stage logging is enabled.
//
// Parameters:
//   - name: the stage name used in the log line
//
// Returns:
//   - func(): stops the timer and logs the elapsed time
func Stage(name string) func() {
	start := time.Now()
	return func() {
		if !stageLogging.Load() {
			return
		}
		log.Printf("[Profiler] %s took %s", name, time.Since(start).Round(time.Millisecond))
	}
}

// Profiler tracks frame rate and memory statistics for the preview loop.
// Outputs stats to the log at a configurable interval.
type Profiler struct {
	frameCount     int
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastTotalAlloc uint64
}

// NewProfiler creates a new Profiler with default settings.
// Update interval defaults to 1 second.
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler() *Profiler {
	return &Profiler{
		lastTime:       time.Now(),
		updateInterval: time.Second,
	}
}

// Tick should be called once per frame to track frame timing.
// Logs FPS, heap usage, allocation rate, and GC count when the update
// interval has elapsed.
//
// Returns:
//   - bool: true if stats were logged this tick, false otherwise
func (p *Profiler) Tick() bool {
	p.frameCount++
	now := time.Now()
	elapsed := now.Sub(p.lastTime)
	if elapsed < p.updateInterval {
		return false
	}

	fps := float64(p.frameCount) / elapsed.Seconds()

	runtime.ReadMemStats(&p.memStats)
	heapMB := float64(p.memStats.Alloc) / 1024 / 1024
	// The allocation rate catches per-tick garbage from pose evaluation and
	// frame submission before it grows into visible preview stutter.
	allocDelta := p.memStats.TotalAlloc - p.lastTotalAlloc
	allocRateMB := float64(allocDelta) / 1024 / 1024 / elapsed.Seconds()

	log.Printf("[Profiler] FPS: %.2f | Heap: %.2f MB | Alloc Rate: %.2f MB/s | GC: %d",
		fps, heapMB, allocRateMB, p.memStats.NumGC)

	p.frameCount = 0
	p.lastTime = now
	p.lastTotalAlloc = p.memStats.TotalAlloc
	return true
}
