package geometry

import "github.com/Faultbox/prism/pkg/math"

// Triangle is a stateless view of one triangle's three vertex indices.
// Vertex data is passed in so the same view works against the base
// array or any motion-step block.
type Triangle struct {
	V [3]int
}

// Triangle returns the i-th triangle view.
func (m *Mesh) Triangle(i int) Triangle {
	return Triangle{V: [3]int{
		m.Triangles[3*i],
		m.Triangles[3*i+1],
		m.Triangles[3*i+2],
	}}
}

// BoundsGrow expands bounds by the triangle's three vertex positions.
func (t Triangle) BoundsGrow(verts []math.Vec3, bounds *math.BoundBox) {
	bounds.Grow(verts[t.V[0]])
	bounds.Grow(verts[t.V[1]])
	bounds.Grow(verts[t.V[2]])
}

// ComputeNormal returns the unit face normal. A degenerate triangle
// with a zero-length cross product yields (1,0,0) instead of a divide
// by zero.
func (t Triangle) ComputeNormal(verts []math.Vec3) math.Vec3 {
	v0 := verts[t.V[0]]
	v1 := verts[t.V[1]]
	v2 := verts[t.V[2]]
	norm := v1.Sub(v0).Cross(v2.Sub(v0))
	normLen := norm.Length()
	if normLen == 0 {
		return math.Vec3{X: 1}
	}
	return norm.Scale(1 / normLen)
}

// Valid reports whether all three vertex positions are finite.
func (t Triangle) Valid(verts []math.Vec3) bool {
	return verts[t.V[0]].IsFinite() &&
		verts[t.V[1]].IsFinite() &&
		verts[t.V[2]].IsFinite()
}

// motionStepSlot maps a logical motion step to its slot among the
// stored step blocks. The center step equals the base vertex array and
// occupies no slot: stored is false for it, and steps above it shift
// down by one. All center-step offset arithmetic lives here.
func motionStepSlot(step, numSteps int) (slot int, stored bool) {
	center := (numSteps - 1) / 2
	if step == center {
		return 0, false
	}
	if step > center {
		return step - 1, true
	}
	return step, true
}

// VertsForStep fetches the triangle's vertex positions at the given
// logical motion step. vertSteps holds numSteps-1 blocks of numVerts
// positions; the center step reads from verts instead.
func (t Triangle) VertsForStep(verts, vertSteps []math.Vec3, numVerts, numSteps, step int) [3]math.Vec3 {
	slot, stored := motionStepSlot(step, numSteps)
	if !stored {
		return [3]math.Vec3{verts[t.V[0]], verts[t.V[1]], verts[t.V[2]]}
	}
	offset := slot * numVerts
	return [3]math.Vec3{
		vertSteps[offset+t.V[0]],
		vertSteps[offset+t.V[1]],
		vertSteps[offset+t.V[2]],
	}
}

// MotionVerts returns the triangle's vertex positions at normalized
// time in [0,1], linearly interpolated between the two neighboring
// motion steps.
func (t Triangle) MotionVerts(verts, vertSteps []math.Vec3, numVerts, numSteps int, time float32) [3]math.Vec3 {
	// Figure out which steps to fetch and their interpolation factor.
	maxStep := numSteps - 1
	step := int(time * float32(maxStep))
	if step > maxStep-1 {
		step = maxStep - 1
	}
	if step < 0 {
		step = 0
	}
	frac := time*float32(maxStep) - float32(step)

	curr := t.VertsForStep(verts, vertSteps, numVerts, numSteps, step)
	next := t.VertsForStep(verts, vertSteps, numVerts, numSteps, step+1)

	return [3]math.Vec3{
		curr[0].Lerp(next[0], frac),
		curr[1].Lerp(next[1], frac),
		curr[2].Lerp(next[2], frac),
	}
}
