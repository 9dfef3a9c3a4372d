package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/Faultbox/prism/internal/config"
	"github.com/Faultbox/prism/internal/render/attribute"
	"github.com/Faultbox/prism/internal/render/geometry"
)

const texturedQuadsOBJ = `v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
v 2 0 0
v 2 1 0
vt 0.5 0.5
vt 1.5 0.5
vt 1.5 1.5
vt 0.5 1.5
usemtl stone
f 1/1 2/2 3/3 4/4
f 2/2 5/2 6/3 3/3
`

func writeTestOBJ(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "quads.obj")
	if err := os.WriteFile(path, []byte(texturedQuadsOBJ), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func TestLoadMeshTriangulated(t *testing.T) {
	m, _, err := loadMesh(config.Default(), writeTestOBJ(t), false)
	if err != nil {
		t.Fatalf("loadMesh failed: %v", err)
	}

	if m.NumVerts() != 6 || m.NumTriangles() != 4 {
		t.Errorf("got %d verts, %d triangles, want 6 and 4", m.NumVerts(), m.NumTriangles())
	}
	if m.NumSubdFaces() != 0 {
		t.Errorf("triangulated import produced %d subd faces", m.NumSubdFaces())
	}
}

func TestLoadMeshFillsUVAttribute(t *testing.T) {
	m, _, err := loadMesh(config.Default(), writeTestOBJ(t), false)
	if err != nil {
		t.Fatalf("loadMesh failed: %v", err)
	}

	attr := m.Attributes.Find(attribute.StdUV)
	if attr == nil {
		t.Fatal("UV attribute missing after import")
	}
	if attr.BufferSize() != m.NumVerts() {
		t.Fatalf("UV attribute size = %d, want %d", attr.BufferSize(), m.NumVerts())
	}
	// Vertex 2 is referenced at vt 3 = (1.5, 1.5) by both faces.
	if uv := attr.Data()[2]; uv.X != 1.5 || uv.Y != 1.5 {
		t.Errorf("UV[2] = %v, want (1.5, 1.5)", uv)
	}

	// The imported UVs span tiles 1001, 1002, 1011, 1012.
	tiles := m.UVTiles()
	for _, id := range []int{1001, 1002, 1011, 1012} {
		if _, ok := tiles[id]; !ok {
			t.Errorf("tile %d missing from %v", id, tiles)
		}
	}
}

func TestLoadMeshSubdiv(t *testing.T) {
	cfg := config.Default()
	cfg.Subdivision.DicingRate = 0.5
	m, _, err := loadMesh(cfg, writeTestOBJ(t), true)
	if err != nil {
		t.Fatalf("loadMesh failed: %v", err)
	}

	if m.SubdivisionType() != geometry.SubdivisionCatmullClark {
		t.Errorf("subdivision type = %v, want catmull-clark", m.SubdivisionType())
	}
	if m.NumSubdFaces() != 2 || m.NumTriangles() != 0 {
		t.Errorf("got %d subd faces, %d triangles, want 2 and 0", m.NumSubdFaces(), m.NumTriangles())
	}
	if !m.SubdFace(0).IsQuad() || !m.SubdFace(1).IsQuad() {
		t.Error("imported faces should be quads")
	}
	if m.DicingRate() != 0.5 {
		t.Errorf("dicing rate = %v, want config value 0.5", m.DicingRate())
	}

	// UVs land on the subd attribute set so tile gathering still works.
	if m.SubdAttributes.Find(attribute.StdUV) == nil {
		t.Error("subdiv import left UVs off the subd attribute set")
	}
	if m.Attributes.Find(attribute.StdUV) != nil {
		t.Error("subdiv import wrote UVs to the triangle attribute set")
	}
	if len(m.UVTiles()) == 0 {
		t.Error("no UV tiles gathered from subdiv import")
	}

	// End to end: the subdivider inputs changed, so tessellation is due.
	if !m.NeedsTessellation() {
		t.Error("freshly imported subdivision mesh should need tessellation")
	}
}
