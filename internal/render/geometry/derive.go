package geometry

import (
	"github.com/Faultbox/prism/internal/render/attribute"
	"github.com/Faultbox/prism/pkg/math"
)

// ComputeBounds refreshes the mesh bounds over all vertices and, when
// motion blur is active, all motion-step positions. If the grown box
// is still invalid the pass retries skipping non-finite coordinates.
// An empty mesh degenerates to a point box at the origin.
func (m *Mesh) ComputeBounds() {
	bnds := math.EmptyBounds()

	if len(m.Verts) > 0 {
		for _, v := range m.Verts {
			bnds.Grow(v)
		}

		attr := m.Attributes.Find(attribute.StdMotionVertexPosition)
		if m.UseMotionBlur && attr != nil {
			for _, p := range attr.Data() {
				bnds.Grow(p)
			}
		}

		if !bnds.Valid() {
			bnds = math.EmptyBounds()

			// Skip NaN or Inf coordinates.
			for _, v := range m.Verts {
				bnds.GrowSafe(v)
			}

			if m.UseMotionBlur && attr != nil {
				for _, p := range attr.Data() {
					bnds.GrowSafe(p)
				}
			}
		}
	}

	if !bnds.Valid() {
		// Empty mesh.
		bnds.Grow(math.Vec3{})
	}

	m.Bounds = bnds
}

// ApplyTransform bakes an affine transform into the vertex positions
// and records the normal transform (inverse transpose) and mirroring
// state for later normal handling. When applyToMotion is set, stored
// motion-step positions get the same transform and motion-step normals
// the normal transform, re-normalized.
func (m *Mesh) ApplyTransform(tfm math.Mat4, applyToMotion bool) {
	m.transformNormal = tfm.InverseTranspose()
	m.transformNegScaled = tfm.Determinant3() < 0
	m.transformApplied = true

	for i := range m.Verts {
		m.Verts[i] = tfm.TransformPoint(m.Verts[i])
	}

	m.Tag(DirtyVerts)

	if !applyToMotion {
		return
	}

	if attr := m.Attributes.Find(attribute.StdMotionVertexPosition); attr != nil {
		steps := attr.Data()
		for i := range steps {
			steps[i] = tfm.TransformPoint(steps[i])
		}
	}

	if attrN := m.Attributes.Find(attribute.StdMotionVertexNormal); attrN != nil {
		ntfm := m.transformNormal
		normals := attrN.Data()
		for i := range normals {
			normals[i] = ntfm.TransformDirection(normals[i]).Normalize()
		}
	}
}

// AddVertexNormals derives vertex normals that do not exist yet:
// static normals from triangles, per-step motion normals from motion
// positions, and subdivision normals from subdivision faces. Each is
// an unweighted accumulate-then-normalize pass; meshes under a
// mirrored transform get negated normals so shading stays consistent.
// Already-present attributes are left untouched, so the call is
// idempotent.
func (m *Mesh) AddVertexNormals() {
	flip := m.transformNegScaled
	vertsSize := len(m.Verts)
	trianglesSize := m.NumTriangles()

	// Static vertex normals.
	if m.Attributes.Find(attribute.StdVertexNormal) == nil && trianglesSize > 0 {
		attrVN := m.Attributes.Add(attribute.StdVertexNormal, vertsSize)
		vN := attrVN.Data()

		for i := 0; i < trianglesSize; i++ {
			tri := m.Triangle(i)
			fN := tri.ComputeNormal(m.Verts)
			for _, v := range tri.V {
				vN[v] = vN[v].Add(fN)
			}
		}

		normalizeFlipped(vN, flip)
	}

	// Motion vertex normals, one pass per stored step.
	attrMP := m.Attributes.Find(attribute.StdMotionVertexPosition)
	attrMN := m.Attributes.Find(attribute.StdMotionVertexNormal)

	if m.HasMotionBlur() && attrMP != nil && attrMN == nil && trianglesSize > 0 {
		attrMN = m.Attributes.Add(attribute.StdMotionVertexNormal, vertsSize)

		for step := 0; step < m.MotionSteps()-1; step++ {
			mP := attrMP.Data()[step*vertsSize : (step+1)*vertsSize]
			mN := attrMN.Data()[step*vertsSize : (step+1)*vertsSize]

			for i := 0; i < trianglesSize; i++ {
				tri := m.Triangle(i)
				fN := tri.ComputeNormal(mP)
				for _, v := range tri.V {
					mN[v] = mN[v].Add(fN)
				}
			}

			normalizeFlipped(mN, flip)
		}
	}

	// Subdivision vertex normals: every corner of a face receives the
	// face's flat normal, which can be more than 3 vertices for n-gons.
	if m.SubdAttributes.Find(attribute.StdVertexNormal) == nil && m.NumSubdFaces() > 0 {
		attrVN := m.SubdAttributes.Add(attribute.StdVertexNormal, vertsSize)
		vN := attrVN.Data()

		for i := 0; i < m.NumSubdFaces(); i++ {
			face := m.SubdFace(i)
			fN := face.Normal(m)

			for j := 0; j < face.NumCorners; j++ {
				corner := m.SubdFaceCorners[face.StartCorner+j]
				vN[corner] = vN[corner].Add(fN)
			}
		}

		normalizeFlipped(vN, flip)
	}
}

func normalizeFlipped(normals []math.Vec3, flip bool) {
	if flip {
		for i := range normals {
			normals[i] = normals[i].Normalize().Neg()
		}
		return
	}
	for i := range normals {
		normals[i] = normals[i].Normalize()
	}
}

// AddUndisplaced snapshots the current vertex positions into the
// undisplaced-position attribute consumed by displacement evaluation.
// A second call is a no-op.
func (m *Mesh) AddUndisplaced() {
	attrs := m.Attributes
	if m.subdivisionType != SubdivisionNone {
		attrs = m.SubdAttributes
	}

	if attrs.Find(attribute.StdPositionUndisplaced) != nil {
		return
	}

	attr := attrs.Add(attribute.StdPositionUndisplaced, len(m.Verts))
	copy(attr.Data(), m.Verts)
}

// CopyCenterToMotionStep copies the base vertex positions (and normals
// when both sides exist) into the stored motion block at slot
// motionStep. Callers pass the stored-slot index; the center step has
// no slot.
func (m *Mesh) CopyCenterToMotionStep(motionStep int) {
	attrMP := m.Attributes.Find(attribute.StdMotionVertexPosition)
	if attrMP == nil {
		return
	}

	numVerts := len(m.Verts)
	copy(attrMP.Data()[motionStep*numVerts:(motionStep+1)*numVerts], m.Verts)

	attrMN := m.Attributes.Find(attribute.StdMotionVertexNormal)
	attrN := m.Attributes.Find(attribute.StdVertexNormal)
	if attrMN != nil && attrN != nil {
		copy(attrMN.Data()[motionStep*numVerts:(motionStep+1)*numVerts], attrN.Data())
	}
}
