package typeset

// TypesetterBuilderOption is a functional option for configuring a Typesetter
// via NewTypesetter.
type TypesetterBuilderOption func(*typesetter)

// WithPixelsPerEm is an option builder that sets the glyph mask resolution.
// Higher values give smoother silhouettes and denser meshes. Values below 1
// are ignored.
//
// Parameters:
//   - px: mask cells per em
//
// Returns:
//   - TypesetterBuilderOption: a function that applies the resolution option to a typesetter
func WithPixelsPerEm(px int) TypesetterBuilderOption {
	return func(t *typesetter) {
		if px >= 1 {
			t.pixelsPerEm = px
		}
	}
}

// WithMeshWorkers is an option builder that sets the number of worker
// goroutines used for parallel glyph meshing. Values below 1 are ignored.
//
// Parameters:
//   - n: the worker count
//
// Returns:
//   - TypesetterBuilderOption: a function that applies the worker count option to a typesetter
func WithMeshWorkers(n int) TypesetterBuilderOption {
	return func(t *typesetter) {
		if n >= 1 {
			t.meshWorkers = n
		}
	}
}
