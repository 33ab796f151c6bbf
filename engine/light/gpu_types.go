package light

import (
	"encoding/binary"
	"math"
	"unsafe"
)

// GPULightSource is the canonical WGSL definition of the Light uniform
// struct. Matches GPULight layout exactly (32 bytes, uniform aligned).
const GPULightSource = `struct Light {
    direction: vec3<f32>,
    ambient: f32,
    diffuse: f32,
}
`

// GPULight is the GPU-aligned representation of the directional light.
// Matches the WGSL Light struct layout exactly (see GPULightSource).
// Size: 32 bytes (vec3 packing plus tail padding to a 16-byte multiple).
type GPULight struct {
	Direction [3]float32 // offset  0: normalized direction toward the light
	Ambient   float32    // offset 12: base illumination term
	Diffuse   float32    // offset 16: directional illumination scale
	_pad      [3]float32 // offset 20: padding to 32-byte alignment
}

// Size returns the size of the GPULight struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (32)
func (g *GPULight) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPULight struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 32-byte buffer ready for GPU upload
func (g *GPULight) Marshal() []byte {
	buf := make([]byte, 32)
	binary.LittleEndian.PutUint32(buf[0:4], math.Float32bits(g.Direction[0]))
	binary.LittleEndian.PutUint32(buf[4:8], math.Float32bits(g.Direction[1]))
	binary.LittleEndian.PutUint32(buf[8:12], math.Float32bits(g.Direction[2]))
	binary.LittleEndian.PutUint32(buf[12:16], math.Float32bits(g.Ambient))
	binary.LittleEndian.PutUint32(buf[16:20], math.Float32bits(g.Diffuse))
	return buf
}

// FromLight fills a GPULight from a Light.
//
// Parameters:
//   - l: the source light
//
// Returns:
//   - GPULight: the GPU-aligned copy
func FromLight(l Light) GPULight {
	return GPULight{
		Direction: l.Direction(),
		Ambient:   l.Ambient(),
		Diffuse:   l.Diffuse(),
	}
}
