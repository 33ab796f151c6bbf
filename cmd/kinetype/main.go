// Command kinetype turns a line of text into a looping chroma-keyed GIF of
// animated extruded 3D lettering.
//
// One-shot export:
//
//	kinetype -text "Hello World" -out hello.gif
//
// Live preview (escape closes the window):
//
//	kinetype -text "Hello World" -preview
//
// Batch export from a YAML job list:
//
//	kinetype -batch jobs.yaml
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/Carmen-Shannon/kinetype/engine"
	"github.com/Carmen-Shannon/kinetype/engine/config"
	"github.com/Carmen-Shannon/kinetype/engine/profiler"
	"github.com/Carmen-Shannon/kinetype/engine/renderer"
	"github.com/Carmen-Shannon/kinetype/engine/style"
	"github.com/Carmen-Shannon/kinetype/engine/typeset"
	"github.com/Carmen-Shannon/kinetype/engine/window"
	"github.com/Carmen-Shannon/kinetype/export"

	"golang.org/x/sync/errgroup"
)

type cliFlags struct {
	text    string
	font    string
	preset  string
	batch   string
	out     string
	width   int
	height  int
	preview bool
	seed    uint64
	diag    bool
	verbose bool

	gifWidth     int
	gifHeight    int
	seedSet      bool
	gifWidthSet  bool
	gifHeightSet bool
}

func parseFlags() cliFlags {
	var fl cliFlags
	flag.StringVar(&fl.text, "text", "", "lettering text; overrides the preset's text")
	flag.StringVar(&fl.font, "font", "", "TTF font path; empty uses the built-in face")
	flag.StringVar(&fl.preset, "preset", "", "YAML preset file")
	flag.StringVar(&fl.batch, "batch", "", "YAML batch file; exports every job, ignores the other mode flags")
	flag.StringVar(&fl.out, "out", "", "output GIF path; defaults to a name derived from the text")
	flag.IntVar(&fl.width, "width", 800, "render canvas width in pixels")
	flag.IntVar(&fl.height, "height", 600, "render canvas height in pixels")
	flag.IntVar(&fl.gifWidth, "gif-width", 480, "maximum exported GIF width")
	flag.IntVar(&fl.gifHeight, "gif-height", 360, "maximum exported GIF height")
	flag.BoolVar(&fl.preview, "preview", false, "open a live preview window instead of exporting")
	flag.Uint64Var(&fl.seed, "seed", 0, "randomize style and animation from this seed")
	flag.BoolVar(&fl.diag, "diag", false, "single-step calibration slices for diagnostics")
	flag.BoolVar(&fl.verbose, "v", false, "log stage timings and progress")
	flag.Parse()

	// Flags beat preset values only when actually given on the command line.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "seed":
			fl.seedSet = true
		case "gif-width":
			fl.gifWidthSet = true
		case "gif-height":
			fl.gifHeightSet = true
		}
	})
	return fl
}

func main() {
	log.SetFlags(0)
	fl := parseFlags()

	if fl.verbose {
		profiler.EnableStages()
	}

	if fl.batch != "" {
		if err := runBatch(fl); err != nil {
			log.Fatalf("batch failed: %v", err)
		}
		return
	}

	cfg, presetOut, err := buildConfig(fl)
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	if fl.preview {
		runPreview(cfg, fl)
		return
	}

	if err := runExport(cfg, fl, presetOut); err != nil {
		log.Fatalf("export failed: %v", err)
	}
}

// buildConfig assembles the config for single-shot modes. Randomized style
// comes first, preset values overlay it, and explicit flags overlay both.
func buildConfig(fl cliFlags) (config.Config, config.OutputSpec, error) {
	var options []config.ConfigBuilderOption
	var out config.OutputSpec

	if fl.seedSet {
		options = append(options, style.Randomize(fl.seed)...)
	}
	if fl.preset != "" {
		base, presetOut, err := config.Load(fl.preset)
		if err != nil {
			return nil, out, err
		}
		out = presetOut
		options = append(options,
			config.WithText(base.Text()),
			config.WithStyle(base.Style()),
			config.WithAnimation(base.Animation()),
			config.WithCamera(base.Camera()),
			config.WithLight(base.Light()),
		)
	}
	if fl.text != "" {
		options = append(options, config.WithText(fl.text))
	}
	if fl.font != "" {
		options = append(options, config.WithFontPath(fl.font))
	}

	cfg := config.NewConfig(options...)
	if cfg.Text() == "" {
		return nil, out, fmt.Errorf("no text: pass -text or a preset with a text key")
	}
	if err := cfg.Validate(); err != nil {
		return nil, out, err
	}
	return cfg, out, nil
}

// outputSize resolves the exported GIF bounds: explicit flags win, then the
// preset's output section, then the defaults.
func (fl cliFlags) outputSize(preset config.OutputSpec) (int, int) {
	w, h := fl.gifWidth, fl.gifHeight
	if !fl.gifWidthSet && preset.Width > 0 {
		w = preset.Width
	}
	if !fl.gifHeightSet && preset.Height > 0 {
		h = preset.Height
	}
	return w, h
}

func runExport(cfg config.Config, fl cliFlags, presetOut config.OutputSpec) error {
	e := engine.NewEngine(
		engine.WithRenderer(renderer.NewRenderer(
			renderer.BackendTypeSoftware,
			renderer.WithSize(fl.width, fl.height),
		)),
		engine.WithDiagnostics(fl.diag),
	)
	if err := e.SetConfig(cfg); err != nil {
		return err
	}

	outW, outH := fl.outputSize(presetOut)
	start := time.Now()
	res, err := e.Export(export.Options{
		OutputWidth:  outW,
		OutputHeight: outH,
		Progress:     progressLogger(fl.verbose),
	})
	if err != nil {
		return err
	}

	path := fl.out
	if path == "" {
		path = res.Filename
	}
	if err := writeGIF(path, res.GIF); err != nil {
		return err
	}
	log.Printf("wrote %s: %d frames at %dx%d in %s",
		path, res.FrameCount, res.Width, res.Height, time.Since(start).Round(time.Millisecond))
	return nil
}

func runBatch(fl cliFlags) error {
	jobs, err := config.LoadBatch(fl.batch)
	if err != nil {
		return err
	}

	// One typesetter so every job shares the parsed font cache; engines,
	// renderers, and frame buffers stay per-job.
	ts := typeset.NewTypesetter()

	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())
	for _, job := range jobs {
		g.Go(func() error {
			e := engine.NewEngine(
				engine.WithRenderer(renderer.NewRenderer(
					renderer.BackendTypeSoftware,
					renderer.WithSize(fl.width, fl.height),
				)),
				engine.WithTypesetter(ts),
				engine.WithDiagnostics(fl.diag),
			)
			if err := e.SetConfig(job.Config); err != nil {
				return fmt.Errorf("%s: %w", job.Out, err)
			}

			outW, outH := fl.outputSize(job.Output)
			res, err := e.Export(export.Options{
				OutputWidth:  outW,
				OutputHeight: outH,
			})
			if err != nil {
				return fmt.Errorf("%s: %w", job.Out, err)
			}
			if err := writeGIF(job.Out, res.GIF); err != nil {
				return err
			}
			log.Printf("wrote %s: %d frames at %dx%d", job.Out, res.FrameCount, res.Width, res.Height)
			return nil
		})
	}
	return g.Wait()
}

func runPreview(cfg config.Config, fl cliFlags) {
	win := window.NewWindow(
		window.WithTitle("kinetype: "+firstLine(cfg.Text())),
		window.WithWidth(fl.width),
		window.WithHeight(fl.height),
	)
	e := engine.NewEngine(
		engine.WithWindow(win),
		engine.WithRenderer(renderer.NewRenderer(
			renderer.BackendTypeWGPU,
			renderer.WithWindow(win),
		)),
		engine.WithDiagnostics(fl.diag),
	)
	if fl.verbose {
		e.EnableProfiler()
	}
	if err := e.SetConfig(cfg); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	e.Run()
}

// progressLogger reports export progress in tenths when verbose, otherwise
// stays silent.
func progressLogger(verbose bool) func(float64) {
	if !verbose {
		return nil
	}
	last := -1
	return func(p float64) {
		tenth := int(p * 10)
		if tenth > last {
			last = tenth
			log.Printf("export %3.0f%%", p*100)
		}
	}
}

func writeGIF(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func firstLine(text string) string {
	line, _, _ := strings.Cut(text, "\n")
	return line
}
