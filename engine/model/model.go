package model

import (
	"github.com/Carmen-Shannon/kinetype/common"
)

// model is the implementation of the Model interface.
type model struct {
	name     string
	char     rune
	vertices []GPUVertex
	indices  []uint32
	bounds   common.AABB
	advance  float32
}

// Model defines the interface for a single extruded character mesh.
// A Model is a render-ready container holding interleaved vertex data,
// triangle indices, the mesh's local bounding box, and the pen advance used
// to place the following character. It is produced by the typesetter.
type Model interface {
	// Name retrieves the model identifier.
	//
	// Returns:
	//   - string: the model name
	Name() string

	// Rune returns the character this mesh renders.
	//
	// Returns:
	//   - rune: the source character
	Rune() rune

	// Vertices returns the interleaved vertex slice for this mesh.
	// The slice is shared, not copied; callers must not modify it.
	//
	// Returns:
	//   - []GPUVertex: the mesh vertices
	Vertices() []GPUVertex

	// Indices returns the triangle index slice for this mesh.
	// The slice is shared, not copied; callers must not modify it.
	//
	// Returns:
	//   - []uint32: the triangle indices
	Indices() []uint32

	// VertexData returns the raw vertex bytes for GPU upload.
	//
	// Returns:
	//   - []byte: little-endian interleaved vertex data
	VertexData() []byte

	// IndexData returns the raw index bytes for GPU upload.
	//
	// Returns:
	//   - []byte: little-endian uint32 index data
	IndexData() []byte

	// IndexCount returns the number of indices in the mesh.
	//
	// Returns:
	//   - int: the index count
	IndexCount() int

	// Bounds returns the local-space axis-aligned bounding box of the mesh.
	//
	// Returns:
	//   - common.AABB: the local bounding box
	Bounds() common.AABB

	// Advance returns the horizontal pen advance in world units, including
	// the character's own width and trailing spacing.
	//
	// Returns:
	//   - float32: the advance width
	Advance() float32
}

var _ Model = &model{}

// NewModel creates a new Model instance with the specified options applied.
//
// Parameters:
//   - options: a variadic list of ModelBuilderOption functions to configure the Model
//
// Returns:
//   - Model: a new instance of Model configured with the provided options
func NewModel(options ...ModelBuilderOption) Model {
	m := &model{
		bounds: common.EmptyAABB(),
	}
	for _, opt := range options {
		opt(m)
	}
	return m
}

func (m *model) Name() string {
	return m.name
}

func (m *model) Rune() rune {
	return m.char
}

func (m *model) Vertices() []GPUVertex {
	return m.vertices
}

func (m *model) Indices() []uint32 {
	return m.indices
}

func (m *model) VertexData() []byte {
	return common.SliceToBytes(m.vertices)
}

func (m *model) IndexData() []byte {
	return common.SliceToBytes(m.indices)
}

func (m *model) IndexCount() int {
	return len(m.indices)
}

func (m *model) Bounds() common.AABB {
	return m.bounds
}

func (m *model) Advance() float32 {
	return m.advance
}
