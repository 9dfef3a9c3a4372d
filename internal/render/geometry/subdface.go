package geometry

import "github.com/Faultbox/prism/pkg/math"

// SubdFace is a stateless view of one subdivision face: a polygon of
// NumCorners corner indices starting at StartCorner in the mesh's
// shared corner sequence.
type SubdFace struct {
	StartCorner int
	NumCorners  int
	Shader      int
	Smooth      bool
	// PtexOffset is the cumulative ptex sub-face count of all prior
	// faces: a quad maps to one ptex face, an n-gon to n.
	PtexOffset int
}

// SubdFace returns the i-th subdivision face view.
func (m *Mesh) SubdFace(i int) SubdFace {
	return SubdFace{
		StartCorner: m.SubdStartCorner[i],
		NumCorners:  m.SubdNumCorners[i],
		Shader:      m.SubdShader[i],
		Smooth:      m.SubdSmooth[i],
		PtexOffset:  m.SubdPtexOffset[i],
	}
}

// IsQuad reports whether the face is a quadrilateral.
func (f SubdFace) IsQuad() bool {
	return f.NumCorners == 4
}

// NumPtexFaces returns how many ptex sub-faces the face maps to.
func (f SubdFace) NumPtexFaces() int {
	if f.IsQuad() {
		return 1
	}
	return f.NumCorners
}

// Normal returns the face normal computed from the first three corner
// vertices: a flat approximation, good enough for normal blending but
// not exact for non-planar polygons. Degenerate corners yield the zero
// vector rather than NaN.
func (f SubdFace) Normal(m *Mesh) math.Vec3 {
	v0 := m.Verts[m.SubdFaceCorners[f.StartCorner+0]]
	v1 := m.Verts[m.SubdFaceCorners[f.StartCorner+1]]
	v2 := m.Verts[m.SubdFaceCorners[f.StartCorner+2]]

	return v1.Sub(v0).Cross(v2.Sub(v0)).Normalize()
}
