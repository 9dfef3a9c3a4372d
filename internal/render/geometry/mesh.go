// Package geometry holds the canonical mesh representation for one
// renderable object: vertex, triangle and subdivision-face storage,
// derived vertex normals and bounds, transform application, and the
// flat packing consumed by the acceleration-structure builder and the
// shading kernels.
package geometry

import (
	"slices"

	"github.com/Faultbox/prism/internal/render/attribute"
	"github.com/Faultbox/prism/internal/render/shader"
	"github.com/Faultbox/prism/pkg/math"
)

// SubdivisionType selects how the external subdivider refines the
// mesh's subdivision faces.
type SubdivisionType int

const (
	SubdivisionNone SubdivisionType = iota
	SubdivisionLinear
	SubdivisionCatmullClark
)

// BoundaryInterpolation controls subdivision boundary rules.
type BoundaryInterpolation int

const (
	BoundaryNone BoundaryInterpolation = iota
	BoundaryEdgeOnly
	BoundaryEdgeAndCorner
)

// FvarInterpolation controls face-varying subdivision interpolation.
type FvarInterpolation int

const (
	FvarLinearNone FvarInterpolation = iota
	FvarLinearCornersOnly
	FvarLinearCornersPlus1
	FvarLinearCornersPlus2
	FvarLinearBoundaries
	FvarLinearAll
)

// Dirty is a bitset of mesh fields modified since the last
// ClearModified. External change tracking queries it to decide what to
// re-upload or re-tessellate.
type Dirty uint32

const (
	DirtyVerts Dirty = 1 << iota
	DirtyTriangles
	DirtyShader
	DirtySmooth
	DirtySubdFaceCorners
	DirtySubdStartCorner
	DirtySubdNumCorners
	DirtySubdShader
	DirtySubdSmooth
	DirtySubdPtexOffset
	DirtyVertCreases
	DirtyEdgeCreases
	DirtyDicingRate
	DirtyMaxLevel
	DirtySubdObjectToWorld
	DirtySubdivisionType

	DirtyAll Dirty = 1<<32 - 1
)

// Mesh owns the flat geometry arrays for one object.
//
// Triangles is flattened three indices per triangle; Shader and Smooth
// are per-triangle. The subdivision-face arrays are parallel
// per-face, indexing into the shared SubdFaceCorners sequence. Callers
// mutate through the Add*/Resize*/Reserve* API so the dirty set stays
// accurate; parallel-array length invariants are a contract, not
// runtime-checked.
type Mesh struct {
	Name string

	Verts     []math.Vec3
	Triangles []int
	Shader    []int
	Smooth    []bool

	SubdStartCorner []int
	SubdNumCorners  []int
	SubdShader      []int
	SubdSmooth      []bool
	SubdPtexOffset  []int
	SubdFaceCorners []int

	VertCreases       []int
	VertCreaseWeights []float32
	EdgeCreases       []int // flattened, two vertex indices per crease
	EdgeCreaseWeights []float32

	// Attributes holds triangle-geometry attributes, SubdAttributes the
	// subdivision-face ones. Both are referenced, sibling stores: the
	// mesh queries and fills entries but the scene owns their
	// synchronization.
	Attributes     *attribute.Set
	SubdAttributes *attribute.Set

	// UsedShaders maps the per-triangle shader indices to scene
	// shaders. Out-of-range indices resolve to the scene default
	// surface during packing.
	UsedShaders []*shader.Shader

	UseMotionBlur bool

	// VertOffset is this mesh's position in the scene-wide shared
	// vertex pool; packed triangle indices are offset by it.
	VertOffset int

	// NumSubdAddedVerts counts vertices appended by external
	// tessellation beyond the authored set.
	NumSubdAddedVerts int

	Bounds math.BoundBox

	subdivisionType       SubdivisionType
	boundaryInterpolation BoundaryInterpolation
	fvarInterpolation     FvarInterpolation
	dicingRate            float32
	maxLevel              int
	subdObjectToWorld     math.Mat4

	numSubdFaces int

	transformApplied   bool
	transformNegScaled bool
	transformNormal    math.Mat4

	dirty Dirty
}

// NewMesh returns an empty mesh with default subdivision parameters.
func NewMesh() *Mesh {
	return &Mesh{
		Attributes:            attribute.NewSet(),
		SubdAttributes:        attribute.NewSet(),
		boundaryInterpolation: BoundaryEdgeAndCorner,
		fvarInterpolation:     FvarLinearBoundaries,
		dicingRate:            1,
		maxLevel:              1,
		subdObjectToWorld:     math.Identity(),
		transformNormal:       math.Identity(),
	}
}

// NumVerts returns the vertex count.
func (m *Mesh) NumVerts() int {
	return len(m.Verts)
}

// NumTriangles returns the triangle count.
func (m *Mesh) NumTriangles() int {
	return len(m.Triangles) / 3
}

// NumSubdFaces returns the subdivision-face count declared by the last
// resize or reserve.
func (m *Mesh) NumSubdFaces() int {
	return m.numSubdFaces
}

// MotionSteps returns the mesh's motion-blur step count, tracked by
// the attribute store.
func (m *Mesh) MotionSteps() int {
	return m.Attributes.MotionSteps
}

// SetMotionSteps sets the motion-blur step count on both attribute
// sets. Steps must be odd so a center step exists; callers pass the
// scene's configured value.
func (m *Mesh) SetMotionSteps(steps int) {
	m.Attributes.MotionSteps = steps
	m.SubdAttributes.MotionSteps = steps
}

// Tag marks fields as modified. Mutation API calls tag internally;
// external writers that touch the exported arrays directly call Tag
// themselves.
func (m *Mesh) Tag(f Dirty) {
	m.dirty |= f
}

// Modified reports whether any of the given fields changed since the
// last ClearModified.
func (m *Mesh) Modified(f Dirty) bool {
	return m.dirty&f != 0
}

// ClearModified resets the dirty set, typically after device update.
func (m *Mesh) ClearModified() {
	m.dirty = 0
}

// ResizeMesh sets vertex and triangle storage to the given counts and
// resizes geometry attributes to match.
func (m *Mesh) ResizeMesh(numVerts, numTris int) {
	m.Verts = resize(m.Verts, numVerts)
	m.Triangles = resize(m.Triangles, numTris*3)
	m.Shader = resize(m.Shader, numTris)
	m.Smooth = resize(m.Smooth, numTris)

	m.Attributes.Resize(numVerts)

	m.Tag(DirtyVerts | DirtyTriangles | DirtyShader | DirtySmooth)
}

// ReserveMesh reserves capacity for the given counts so the reserved
// Add* calls can run without reallocation.
func (m *Mesh) ReserveMesh(numVerts, numTris int) {
	m.Verts = reserve(m.Verts, numVerts)
	m.Triangles = reserve(m.Triangles, numTris*3)
	m.Shader = reserve(m.Shader, numTris)
	m.Smooth = reserve(m.Smooth, numTris)
}

// ResizeSubdFaces sets subdivision-face storage to the given counts.
func (m *Mesh) ResizeSubdFaces(numFaces, numCorners int) {
	m.SubdStartCorner = resize(m.SubdStartCorner, numFaces)
	m.SubdNumCorners = resize(m.SubdNumCorners, numFaces)
	m.SubdShader = resize(m.SubdShader, numFaces)
	m.SubdSmooth = resize(m.SubdSmooth, numFaces)
	m.SubdPtexOffset = resize(m.SubdPtexOffset, numFaces)
	m.SubdFaceCorners = resize(m.SubdFaceCorners, numCorners)
	m.numSubdFaces = numFaces

	m.SubdAttributes.Resize(len(m.Verts))

	m.Tag(DirtySubdStartCorner | DirtySubdNumCorners | DirtySubdShader |
		DirtySubdSmooth | DirtySubdPtexOffset | DirtySubdFaceCorners)
}

// ReserveSubdFaces reserves capacity for the given counts and records
// the expected face total.
func (m *Mesh) ReserveSubdFaces(numFaces, numCorners int) {
	m.SubdStartCorner = reserve(m.SubdStartCorner, numFaces)
	m.SubdNumCorners = reserve(m.SubdNumCorners, numFaces)
	m.SubdShader = reserve(m.SubdShader, numFaces)
	m.SubdSmooth = reserve(m.SubdSmooth, numFaces)
	m.SubdPtexOffset = reserve(m.SubdPtexOffset, numFaces)
	m.SubdFaceCorners = reserve(m.SubdFaceCorners, numCorners)
	m.numSubdFaces = numFaces
}

// ReserveSubdCreases reserves capacity for the given edge-crease count.
func (m *Mesh) ReserveSubdCreases(numCreases int) {
	m.EdgeCreases = reserve(m.EdgeCreases, numCreases*2)
	m.EdgeCreaseWeights = reserve(m.EdgeCreaseWeights, numCreases)
}

// AddVertex appends a vertex. Callers reserve capacity up front with
// ReserveMesh; this is the hot-path append for bulk construction.
func (m *Mesh) AddVertex(p math.Vec3) {
	m.Verts = append(m.Verts, p)
	m.Tag(DirtyVerts)
}

// AddVertexSlow appends a vertex, growing storage on demand. Used for
// low-frequency appends outside bulk construction.
func (m *Mesh) AddVertexSlow(p math.Vec3) {
	m.Verts = append(m.Verts, p)
	m.Tag(DirtyVerts)
}

// AddTriangle appends a triangle with its shader index and smooth
// flag. Assumes prior ReserveMesh.
func (m *Mesh) AddTriangle(v0, v1, v2, shaderIndex int, smooth bool) {
	m.Triangles = append(m.Triangles, v0, v1, v2)
	m.Shader = append(m.Shader, shaderIndex)
	m.Smooth = append(m.Smooth, smooth)

	m.Tag(DirtyTriangles | DirtyShader | DirtySmooth)
}

// AddSubdFace appends a subdivision face. The ptex offset is derived
// from the previously committed face, so faces append in order; the
// first face gets offset 0. Assumes prior ReserveSubdFaces.
func (m *Mesh) AddSubdFace(corners []int, shaderIndex int, smooth bool) {
	startCorner := len(m.SubdFaceCorners)
	m.SubdFaceCorners = append(m.SubdFaceCorners, corners...)

	ptexOffset := 0
	// numSubdFaces holds the reserved total, not the committed count,
	// so the previous face is looked up through the array length.
	if len(m.SubdShader) > 0 {
		prev := m.SubdFace(len(m.SubdShader) - 1)
		ptexOffset = prev.PtexOffset + prev.NumPtexFaces()
	}

	m.SubdStartCorner = append(m.SubdStartCorner, startCorner)
	m.SubdNumCorners = append(m.SubdNumCorners, len(corners))
	m.SubdShader = append(m.SubdShader, shaderIndex)
	m.SubdSmooth = append(m.SubdSmooth, smooth)
	m.SubdPtexOffset = append(m.SubdPtexOffset, ptexOffset)

	m.Tag(DirtySubdFaceCorners | DirtySubdStartCorner | DirtySubdNumCorners |
		DirtySubdShader | DirtySubdSmooth | DirtySubdPtexOffset)
}

// AddVertexCrease appends a vertex crease, growing storage on demand.
func (m *Mesh) AddVertexCrease(v int, weight float32) {
	m.VertCreases = append(m.VertCreases, v)
	m.VertCreaseWeights = append(m.VertCreaseWeights, weight)

	m.Tag(DirtyVertCreases)
}

// AddEdgeCrease appends an edge crease, growing storage on demand.
func (m *Mesh) AddEdgeCrease(v0, v1 int, weight float32) {
	m.EdgeCreases = append(m.EdgeCreases, v0, v1)
	m.EdgeCreaseWeights = append(m.EdgeCreaseWeights, weight)

	m.Tag(DirtyEdgeCreases)
}

// Clear empties all geometry storage and attributes, resetting the
// subdivision-face and generated-vertex counts. Shaders survive when
// preserveShaders is set.
func (m *Mesh) Clear(preserveShaders bool) {
	m.Verts = nil
	m.Triangles = nil
	m.Shader = nil
	m.Smooth = nil

	m.SubdStartCorner = nil
	m.SubdNumCorners = nil
	m.SubdShader = nil
	m.SubdSmooth = nil
	m.SubdPtexOffset = nil
	m.SubdFaceCorners = nil

	m.VertCreases = nil
	m.VertCreaseWeights = nil
	m.EdgeCreases = nil
	m.EdgeCreaseWeights = nil

	m.Attributes.Clear()
	m.SubdAttributes.Clear()

	if !preserveShaders {
		m.UsedShaders = nil
	}

	m.subdivisionType = SubdivisionNone
	m.numSubdFaces = 0
	m.NumSubdAddedVerts = 0

	m.transformApplied = false
	m.transformNegScaled = false
	m.transformNormal = math.Identity()

	m.Tag(DirtyAll)
}

// SubdivisionType returns the active subdivision mode.
func (m *Mesh) SubdivisionType() SubdivisionType {
	return m.subdivisionType
}

// SetSubdivisionType switches the subdivision mode.
func (m *Mesh) SetSubdivisionType(t SubdivisionType) {
	if m.subdivisionType == t {
		return
	}
	m.subdivisionType = t
	m.Tag(DirtySubdivisionType)
}

// DicingRate returns the subdivision dicing rate.
func (m *Mesh) DicingRate() float32 {
	return m.dicingRate
}

// SetDicingRate sets the subdivision dicing rate.
func (m *Mesh) SetDicingRate(rate float32) {
	if m.dicingRate == rate {
		return
	}
	m.dicingRate = rate
	m.Tag(DirtyDicingRate)
}

// MaxLevel returns the maximum subdivision level.
func (m *Mesh) MaxLevel() int {
	return m.maxLevel
}

// SetMaxLevel sets the maximum subdivision level.
func (m *Mesh) SetMaxLevel(level int) {
	if m.maxLevel == level {
		return
	}
	m.maxLevel = level
	m.Tag(DirtyMaxLevel)
}

// SubdObjectToWorld returns the object-to-world transform used for
// screen-space dicing.
func (m *Mesh) SubdObjectToWorld() math.Mat4 {
	return m.subdObjectToWorld
}

// SetSubdObjectToWorld sets the dicing object-to-world transform.
func (m *Mesh) SetSubdObjectToWorld(tfm math.Mat4) {
	if m.subdObjectToWorld == tfm {
		return
	}
	m.subdObjectToWorld = tfm
	m.Tag(DirtySubdObjectToWorld)
}

// BoundaryInterpolation returns the subdivision boundary rule.
func (m *Mesh) BoundaryInterpolation() BoundaryInterpolation {
	return m.boundaryInterpolation
}

// SetBoundaryInterpolation sets the subdivision boundary rule.
func (m *Mesh) SetBoundaryInterpolation(b BoundaryInterpolation) {
	m.boundaryInterpolation = b
}

// FvarInterpolation returns the face-varying interpolation rule.
func (m *Mesh) FvarInterpolation() FvarInterpolation {
	return m.fvarInterpolation
}

// SetFvarInterpolation sets the face-varying interpolation rule.
func (m *Mesh) SetFvarInterpolation(f FvarInterpolation) {
	m.fvarInterpolation = f
}

// NeedsTessellation reports whether the external subdivider must run
// again: subdivision is active and the inputs it depends on changed.
func (m *Mesh) NeedsTessellation() bool {
	return m.subdivisionType != SubdivisionNone &&
		m.Modified(DirtyVerts|DirtyDicingRate|DirtyMaxLevel|DirtySubdObjectToWorld)
}

// UVTiles returns the set of UDIM tile ids referenced by the UV
// attributes of either attribute set. Tiles follow the 1001 + u + 10*v
// convention; coordinates outside the 10-column UDIM range are
// ignored.
func (m *Mesh) UVTiles() map[int]struct{} {
	tiles := make(map[int]struct{})
	gather := func(attr *attribute.Attribute) {
		if attr == nil {
			return
		}
		for _, uv := range attr.Data() {
			if uv.X < 0 || uv.Y < 0 || uv.X >= 10 {
				continue
			}
			tiles[1001+int(uv.X)+10*int(uv.Y)] = struct{}{}
		}
	}
	gather(m.Attributes.Find(attribute.StdUV))
	gather(m.SubdAttributes.Find(attribute.StdUV))
	return tiles
}

// resize adjusts length, zeroing any exposed capacity so stale data
// never leaks back in.
func resize[S ~[]E, E any](s S, n int) S {
	if n <= cap(s) {
		old := len(s)
		s = s[:n]
		if n > old {
			clear(s[old:])
		}
		return s
	}
	grown := make(S, n)
	copy(grown, s)
	return grown
}

// reserve grows capacity to at least n without changing length.
func reserve[S ~[]E, E any](s S, n int) S {
	if extra := n - len(s); extra > 0 {
		return slices.Grow(s, extra)
	}
	return s
}
