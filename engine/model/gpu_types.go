package model

import (
	"encoding/binary"
	"math"
	"unsafe"

	"github.com/Carmen-Shannon/kinetype/common"
)

// GPUVertexSource is the canonical WGSL definition of the VertexInput struct
// for the lettering pipeline. Matches GPUVertex layout exactly (36 bytes,
// tightly packed).
const GPUVertexSource = `struct VertexInput {
    @location(0) position: vec3<f32>,
    @location(1) normal: vec3<f32>,
    @location(2) color: vec3<f32>,
};
`

// GPUVertex is the GPU-aligned representation of a single lettering vertex.
// Matches the WGSL VertexInput struct layout exactly (see GPUVertexSource).
// Size: 36 bytes, tightly packed.
type GPUVertex struct {
	Position [3]float32 // offset  0: vertex position in model space (12 bytes)
	Normal   [3]float32 // offset 12: vertex normal for lighting (12 bytes)
	Color    [3]float32 // offset 24: per-vertex RGB color (12 bytes)
}

// Size returns the size of the GPUVertex struct in bytes.
//
// Returns:
//   - int: the size of the struct in bytes.
func (g *GPUVertex) Size() int {
	return int(unsafe.Sizeof(*g))
}

// Marshal serializes the GPUVertex struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: 36-byte buffer ready for GPU upload.
func (g *GPUVertex) Marshal() []byte {
	buf := make([]byte, 36)
	binary.LittleEndian.PutUint32(buf[0:4], math.Float32bits(g.Position[0]))
	binary.LittleEndian.PutUint32(buf[4:8], math.Float32bits(g.Position[1]))
	binary.LittleEndian.PutUint32(buf[8:12], math.Float32bits(g.Position[2]))
	binary.LittleEndian.PutUint32(buf[12:16], math.Float32bits(g.Normal[0]))
	binary.LittleEndian.PutUint32(buf[16:20], math.Float32bits(g.Normal[1]))
	binary.LittleEndian.PutUint32(buf[20:24], math.Float32bits(g.Normal[2]))
	binary.LittleEndian.PutUint32(buf[24:28], math.Float32bits(g.Color[0]))
	binary.LittleEndian.PutUint32(buf[28:32], math.Float32bits(g.Color[1]))
	binary.LittleEndian.PutUint32(buf[32:36], math.Float32bits(g.Color[2]))
	return buf
}

// ComputeBounds calculates the local axis-aligned bounding box from a slice of
// GPUVertex positions.
//
// Parameters:
//   - vertices: the vertex data to compute the bounds from
//
// Returns:
//   - common.AABB: the smallest box containing every vertex position
func ComputeBounds(vertices []GPUVertex) common.AABB {
	box := common.EmptyAABB()
	for _, v := range vertices {
		box = box.ExtendPoint(v.Position[0], v.Position[1], v.Position[2])
	}
	return box
}
