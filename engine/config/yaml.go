package config

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Carmen-Shannon/kinetype/common"
)

// OutputSpec is the requested GIF size carried alongside a preset. Zero
// values mean the file did not specify them and the caller's defaults apply.
type OutputSpec struct {
	Width  int
	Height int
}

// BatchJob is one entry of a batch file: a full config plus its destination
// path and output size.
type BatchJob struct {
	Config Config
	Out    string
	Output OutputSpec
}

// fileConfig mirrors the YAML preset schema. Angles are written in degrees in
// the file and converted to radians here; colors are "#rrggbb" strings.
// Absent sections and fields keep the built-in defaults.
type fileConfig struct {
	Text      string         `yaml:"text"`
	Style     *fileStyle     `yaml:"style"`
	Animation *fileAnimation `yaml:"animation"`
	Camera    *fileCamera    `yaml:"camera"`
	Light     *fileLight     `yaml:"light"`
	Output    *fileOutput    `yaml:"output"`
}

type fileStyle struct {
	Font      string   `yaml:"font"`
	FaceColor string   `yaml:"face_color"`
	SideColor string   `yaml:"side_color"`
	EdgeColor string   `yaml:"edge_color"`
	Gradient  string   `yaml:"gradient"`
	ChromaKey string   `yaml:"chroma_key"`
	Depth     *float32 `yaml:"depth"`
	Bevel     *float32 `yaml:"bevel"`
	Roughness *float32 `yaml:"roughness"`
	Metalness *float32 `yaml:"metalness"`
}

type fileAnimation struct {
	Kind      string   `yaml:"kind"`
	Amplitude *float32 `yaml:"amplitude"`
	Cycle     *float32 `yaml:"cycle"`
	TiltX     *float32 `yaml:"tilt_x"`
	TiltY     *float32 `yaml:"tilt_y"`
}

type fileCamera struct {
	FOV *float32 `yaml:"fov"`
}

type fileLight struct {
	Direction []float32 `yaml:"direction"`
	Ambient   *float32  `yaml:"ambient"`
	Diffuse   *float32  `yaml:"diffuse"`
}

type fileOutput struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

type fileBatch struct {
	Jobs []fileBatchJob `yaml:"jobs"`
}

type fileBatchJob struct {
	Out        string `yaml:"out"`
	fileConfig `yaml:",inline"`
}

// Load reads a YAML preset and builds a Config from it.
//
// Parameters:
//   - path: preset file path
//
// Returns:
//   - Config: the loaded config
//   - OutputSpec: the requested output size, zero fields if unspecified
//   - error: error if the file cannot be read, parsed, or converted
func Load(path string) (Config, OutputSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, OutputSpec{}, fmt.Errorf("read preset: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, OutputSpec{}, fmt.Errorf("parse preset %s: %w", path, err)
	}

	cfg, out, err := fc.build()
	if err != nil {
		return nil, OutputSpec{}, fmt.Errorf("preset %s: %w", path, err)
	}
	return cfg, out, nil
}

// LoadBatch reads a YAML batch file holding a list of jobs.
//
// Parameters:
//   - path: batch file path
//
// Returns:
//   - []BatchJob: one entry per job, in file order
//   - error: error if the file cannot be read or any job is invalid
func LoadBatch(path string) ([]BatchJob, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read batch: %w", err)
	}

	var fb fileBatch
	if err := yaml.Unmarshal(data, &fb); err != nil {
		return nil, fmt.Errorf("parse batch %s: %w", path, err)
	}
	if len(fb.Jobs) == 0 {
		return nil, fmt.Errorf("batch %s: no jobs", path)
	}

	jobs := make([]BatchJob, 0, len(fb.Jobs))
	for i, fj := range fb.Jobs {
		if fj.Out == "" {
			return nil, fmt.Errorf("batch %s: job %d has no out path", path, i)
		}
		cfg, out, err := fj.build()
		if err != nil {
			return nil, fmt.Errorf("batch %s: job %d: %w", path, i, err)
		}
		jobs = append(jobs, BatchJob{Config: cfg, Out: fj.Out, Output: out})
	}
	return jobs, nil
}

// build converts the decoded file schema into an immutable Config, applying
// defaults for everything the file left out.
func (fc *fileConfig) build() (Config, OutputSpec, error) {
	options := []ConfigBuilderOption{WithText(fc.Text)}

	if fc.Style != nil {
		style, err := fc.Style.apply(NewConfig().Style())
		if err != nil {
			return nil, OutputSpec{}, err
		}
		options = append(options, WithStyle(style))
	}
	if fc.Animation != nil {
		anim := NewConfig().Animation()
		if fc.Animation.Kind != "" {
			anim.Kind = AnimationKind(fc.Animation.Kind)
		}
		if fc.Animation.Amplitude != nil {
			anim.Amplitude = *fc.Animation.Amplitude
		}
		if fc.Animation.Cycle != nil {
			anim.CycleDuration = *fc.Animation.Cycle
		}
		if fc.Animation.TiltX != nil {
			anim.TiltX = degToRad(*fc.Animation.TiltX)
		}
		if fc.Animation.TiltY != nil {
			anim.TiltY = degToRad(*fc.Animation.TiltY)
		}
		options = append(options, WithAnimation(anim))
	}
	if fc.Camera != nil && fc.Camera.FOV != nil {
		options = append(options, WithCamera(Camera{FOV: degToRad(*fc.Camera.FOV)}))
	}
	if fc.Light != nil {
		light := NewConfig().Light()
		if len(fc.Light.Direction) == 3 {
			light.Direction = [3]float32{fc.Light.Direction[0], fc.Light.Direction[1], fc.Light.Direction[2]}
		} else if fc.Light.Direction != nil {
			return nil, OutputSpec{}, fmt.Errorf("light direction needs 3 components, got %d", len(fc.Light.Direction))
		}
		if fc.Light.Ambient != nil {
			light.Ambient = *fc.Light.Ambient
		}
		if fc.Light.Diffuse != nil {
			light.Diffuse = *fc.Light.Diffuse
		}
		options = append(options, WithLight(light))
	}

	cfg := NewConfig(options...)
	if err := cfg.Validate(); err != nil {
		return nil, OutputSpec{}, err
	}

	var out OutputSpec
	if fc.Output != nil {
		out = OutputSpec{Width: fc.Output.Width, Height: fc.Output.Height}
	}
	return cfg, out, nil
}

// apply overlays the file's style fields onto the defaults.
func (fs *fileStyle) apply(style Style) (Style, error) {
	style.FontPath = common.Coalesce(fs.Font, style.FontPath)
	if fs.Gradient != "" {
		style.Gradient = GradientKind(fs.Gradient)
	}
	for _, c := range []struct {
		raw  string
		dest *common.RGB
	}{
		{fs.FaceColor, &style.FaceColor},
		{fs.SideColor, &style.SideColor},
		{fs.EdgeColor, &style.EdgeColor},
		{fs.ChromaKey, &style.ChromaKey},
	} {
		if c.raw == "" {
			continue
		}
		rgb, err := common.ParseRGB(c.raw)
		if err != nil {
			return style, err
		}
		*c.dest = rgb
	}
	if fs.Depth != nil {
		style.Depth = *fs.Depth
	}
	if fs.Bevel != nil {
		style.Bevel = *fs.Bevel
	}
	if fs.Roughness != nil {
		style.Roughness = *fs.Roughness
	}
	if fs.Metalness != nil {
		style.Metalness = *fs.Metalness
	}
	return style, nil
}

func degToRad(deg float32) float32 {
	return deg * math.Pi / 180.0
}
