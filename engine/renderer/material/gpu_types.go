package material

import (
	"encoding/binary"
	"math"
	"unsafe"
)

// GPUMaterialSource is the canonical WGSL definition of the Material uniform
// struct. Matches GPUMaterial layout exactly (16 bytes, uniform aligned).
const GPUMaterialSource = `struct Material {
    roughness: f32,
    metalness: f32,
}
`

// GPUMaterial is the GPU-aligned representation of the material scalars.
// Matches the WGSL Material struct layout exactly (see GPUMaterialSource).
// Size: 16 bytes (two f32 plus tail padding to a 16-byte multiple).
type GPUMaterial struct {
	Roughness float32    // offset 0: directional falloff exponent shaper
	Metalness float32    // offset 4: directional term amplifier
	_pad      [2]float32 // offset 8: padding to 16-byte alignment
}

// Size returns the size of the GPUMaterial struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes (16)
func (g *GPUMaterial) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUMaterial struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 16-byte buffer ready for GPU upload
func (g *GPUMaterial) Marshal() []byte {
	buf := make([]byte, 16)
	binary.LittleEndian.PutUint32(buf[0:4], math.Float32bits(g.Roughness))
	binary.LittleEndian.PutUint32(buf[4:8], math.Float32bits(g.Metalness))
	return buf
}

// FromMaterial fills a GPUMaterial from a Material.
//
// Parameters:
//   - m: the source material
//
// Returns:
//   - GPUMaterial: the GPU-aligned copy
func FromMaterial(m Material) GPUMaterial {
	return GPUMaterial{
		Roughness: m.Roughness(),
		Metalness: m.Metalness(),
	}
}
