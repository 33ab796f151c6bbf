package material

import (
	"github.com/Carmen-Shannon/kinetype/engine/light"
)

// material is the implementation of the Material interface.
type material struct {
	name      string
	roughness float32
	metalness float32
}

// Material defines the surface response of the lettering. Base color lives in
// the mesh's vertex colors (face, side, edge, gradient); the material holds
// the two scalar knobs shared by both renderer backends and owns the Lambert
// shading formula so the software rasterizer and the WGSL shader agree.
type Material interface {
	// Name retrieves the material identifier.
	//
	// Returns:
	//   - string: the name of the material
	Name() string

	// Roughness retrieves the roughness factor of the material.
	// Higher values make the directional light fall off more sharply as the
	// surface turns away from it.
	//
	// Returns:
	//   - float32: the roughness factor
	Roughness() float32

	// Metalness retrieves the metalness factor of the material.
	// Higher values amplify the directional term, deepening the contrast
	// between lit and unlit faces.
	//
	// Returns:
	//   - float32: the metalness factor
	Metalness() float32

	// Shade computes the lit color of a surface point under the directional
	// light. Flat normals make this exact per face when evaluated per vertex.
	//
	// Parameters:
	//   - l: the scene light
	//   - normal: the world-space surface normal, unit length
	//   - base: the unlit vertex color
	//
	// Returns:
	//   - [3]float32: the lit color, clamped to [0, 1]
	Shade(l light.Light, normal, base [3]float32) [3]float32
}

var _ Material = &material{}

// NewMaterial creates a new Material instance configured with the provided options.
//
// Parameters:
//   - options: variadic list of MaterialBuilderOption functions to configure the material
//
// Returns:
//   - Material: a new Material instance
func NewMaterial(options ...MaterialBuilderOption) Material {
	m := &material{
		roughness: 0.5,
		metalness: 0.1,
	}
	for _, opt := range options {
		opt(m)
	}
	return m
}

func (m *material) Name() string {
	return m.name
}

func (m *material) Roughness() float32 {
	return m.roughness
}

func (m *material) Metalness() float32 {
	return m.metalness
}

func (m *material) Shade(l light.Light, normal, base [3]float32) [3]float32 {
	dir := l.Direction()
	ndl := normal[0]*dir[0] + normal[1]*dir[1] + normal[2]*dir[2]
	if ndl < 0 {
		ndl = 0
	}

	// Roughness shapes the falloff exponent; metalness amplifies the
	// directional term.
	shaped := powf(ndl, 1+m.roughness)
	intensity := l.Ambient() + l.Diffuse()*shaped*(1+m.metalness)

	var out [3]float32
	for i := 0; i < 3; i++ {
		c := base[i] * intensity
		if c > 1 {
			c = 1
		}
		out[i] = c
	}
	return out
}
