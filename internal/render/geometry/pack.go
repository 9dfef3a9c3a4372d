package geometry

import (
	"github.com/Faultbox/prism/internal/render/attribute"
	"github.com/Faultbox/prism/internal/render/shader"
	"github.com/Faultbox/prism/pkg/math"
)

// PrimitiveType tells downstream consumers which primitive
// representation the mesh packs into.
type PrimitiveType int

const (
	PrimitiveTriangle PrimitiveType = iota
	PrimitiveMotionTriangle
)

// PackShaders resolves every triangle's packed shader id into
// triShader, sized to the triangle count. Lookups are amortized over
// runs of identical (shader, smooth) pairs: only a change re-queries
// the manager, so alternating assignments pay one lookup per triangle.
// Shader indices outside UsedShaders fall back to the scene default
// surface.
func (m *Mesh) PackShaders(sc *shader.Scene, triShader []uint32) {
	var shaderID uint32
	lastShader := -1
	lastSmooth := false

	trianglesSize := m.NumTriangles()

	for i := 0; i < trianglesSize; i++ {
		newShader := m.Shader[i]
		newSmooth := m.Smooth[i]

		if newShader != lastShader || newSmooth != lastSmooth {
			lastShader = newShader
			lastSmooth = newSmooth
			s := sc.DefaultSurface
			if lastShader >= 0 && lastShader < len(m.UsedShaders) {
				s = m.UsedShaders[lastShader]
			}
			shaderID = sc.Manager.ShaderID(s, lastSmooth)
		}

		triShader[i] = shaderID
	}
}

// PackNormals copies the static vertex normals into vnormal, sized to
// the vertex count. When a transform was baked into the vertex
// positions the normals go through the recorded inverse transpose and
// are re-normalized (zero-length safe); otherwise they copy verbatim.
// Without a vertex-normal attribute the call is a no-op.
func (m *Mesh) PackNormals(vnormal []math.Vec3) {
	attrVN := m.Attributes.Find(attribute.StdVertexNormal)
	if attrVN == nil {
		// Happens on meshes whose normals were never derived.
		return
	}

	vN := attrVN.Data()

	if m.transformApplied {
		ntfm := m.transformNormal
		for i := range vN {
			vnormal[i] = ntfm.TransformDirection(vN[i]).Normalize()
		}
		return
	}

	copy(vnormal, vN)
}

// PackVerts copies vertex positions verbatim into triVerts and writes
// each triangle's indices into triVindex offset by VertOffset, making
// them valid in the scene-wide combined vertex buffer. Both buffers
// are caller-allocated and sized exactly.
func (m *Mesh) PackVerts(triVerts []math.Vec3, triVindex [][3]uint32) {
	copy(triVerts, m.Verts)

	trianglesSize := m.NumTriangles()
	off := 0
	for i := 0; i < trianglesSize; i++ {
		triVindex[i] = [3]uint32{
			uint32(m.Triangles[off+0] + m.VertOffset),
			uint32(m.Triangles[off+1] + m.VertOffset),
			uint32(m.Triangles[off+2] + m.VertOffset),
		}
		off += 3
	}
}

// HasMotionBlur reports whether downstream consumers must treat this
// mesh as motion-blurred: global motion blur is on and motion
// positions exist for the geometry, or for the subdivision surface
// when subdivision is active.
func (m *Mesh) HasMotionBlur() bool {
	return m.UseMotionBlur &&
		(m.Attributes.Find(attribute.StdMotionVertexPosition) != nil ||
			(m.subdivisionType != SubdivisionNone &&
				m.SubdAttributes.Find(attribute.StdMotionVertexPosition) != nil))
}

// PrimitiveType returns the primitive representation for this mesh.
func (m *Mesh) PrimitiveType() PrimitiveType {
	if m.HasMotionBlur() {
		return PrimitiveMotionTriangle
	}
	return PrimitiveTriangle
}
