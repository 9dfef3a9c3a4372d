// Package attribute stores per-mesh geometry attributes keyed by their
// semantic kind: vertex normals, UVs, motion positions. Each mesh owns
// two sets, one for triangle geometry and one for subdivision faces.
package attribute

import "github.com/Faultbox/prism/pkg/math"

// Standard identifies the semantic kind of an attribute.
type Standard int

const (
	StdNone Standard = iota
	StdVertexNormal
	StdUV
	StdMotionVertexPosition
	StdMotionVertexNormal
	StdPositionUndisplaced
)

// String returns the attribute kind name.
func (s Standard) String() string {
	switch s {
	case StdVertexNormal:
		return "vertex_normal"
	case StdUV:
		return "uv"
	case StdMotionVertexPosition:
		return "motion_vertex_position"
	case StdMotionVertexNormal:
		return "motion_vertex_normal"
	case StdPositionUndisplaced:
		return "position_undisplaced"
	}
	return "none"
}

// Attribute is one stored attribute array. The element layout depends
// on the kind: per-vertex kinds hold one Vec3 per vertex, motion kinds
// hold (motion steps - 1) consecutive vertex-count blocks. UV data
// packs (u, v) into the X and Y components.
type Attribute struct {
	std  Standard
	data []math.Vec3
}

// Std returns the attribute's semantic kind.
func (a *Attribute) Std() Standard {
	return a.std
}

// Data returns the raw attribute array. The slice aliases the stored
// buffer; writes are visible to all holders of the handle.
func (a *Attribute) Data() []math.Vec3 {
	return a.data
}

// BufferSize returns the number of stored elements.
func (a *Attribute) BufferSize() int {
	return len(a.data)
}

// Set is a collection of attributes for one mesh. It also tracks the
// mesh's motion step count, which sizes the motion attribute kinds.
type Set struct {
	// MotionSteps is the number of motion-blur time steps. The center
	// step is implicit, so motion attributes store MotionSteps-1
	// vertex blocks.
	MotionSteps int

	attrs []*Attribute
}

// NewSet returns an empty attribute set.
func NewSet() *Set {
	return &Set{MotionSteps: 1}
}

// Find returns the attribute of the given kind, or nil.
func (s *Set) Find(std Standard) *Attribute {
	for _, a := range s.attrs {
		if a.std == std {
			return a
		}
	}
	return nil
}

// Add creates an attribute of the given kind sized for numElems base
// elements (vertices or corners). Motion kinds are sized to
// (MotionSteps-1) blocks of numElems. The kind must not already exist;
// callers Find first.
func (s *Set) Add(std Standard, numElems int) *Attribute {
	a := &Attribute{
		std:  std,
		data: make([]math.Vec3, s.elemCount(std, numElems)),
	}
	s.attrs = append(s.attrs, a)
	return a
}

// Remove drops the attribute of the given kind if present.
func (s *Set) Remove(std Standard) {
	for i, a := range s.attrs {
		if a.std == std {
			s.attrs = append(s.attrs[:i], s.attrs[i+1:]...)
			return
		}
	}
}

// Resize adjusts every stored attribute to the new base element count,
// preserving existing data where it overlaps.
func (s *Set) Resize(numElems int) {
	for _, a := range s.attrs {
		n := s.elemCount(a.std, numElems)
		if n == len(a.data) {
			continue
		}
		resized := make([]math.Vec3, n)
		copy(resized, a.data)
		a.data = resized
	}
}

// Clear drops all attributes. The motion step count is kept; it is
// scene state, not derived data.
func (s *Set) Clear() {
	s.attrs = nil
}

// Len returns the number of stored attributes.
func (s *Set) Len() int {
	return len(s.attrs)
}

func (s *Set) elemCount(std Standard, numElems int) int {
	if std == StdMotionVertexPosition || std == StdMotionVertexNormal {
		steps := s.MotionSteps - 1
		if steps < 0 {
			steps = 0
		}
		return numElems * steps
	}
	return numElems
}
