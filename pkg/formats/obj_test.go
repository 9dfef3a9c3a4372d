package formats

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Faultbox/prism/pkg/math"
)

const cubeTopOBJ = `# two quads sharing an edge
v 0 0 0
v 1 0 0
v 1 1 0
v 0 1 0
v 2 0 0
v 2 1 0
vt 0 0
vt 1 0
vt 1 1
vt 0 1
usemtl stone
s 1
f 1/1 2/2 3/3 4/4
usemtl grass
s off
f 2 5 6 3
`

func TestParseOBJPositions(t *testing.T) {
	obj, err := ParseOBJ([]byte(cubeTopOBJ))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	if len(obj.Positions) != 6 {
		t.Fatalf("positions = %d, want 6", len(obj.Positions))
	}
	if obj.Positions[4] != (math.Vec3{X: 2, Y: 0, Z: 0}) {
		t.Errorf("position 4 = %v, want {2 0 0}", obj.Positions[4])
	}
	if len(obj.TexCoords) != 4 {
		t.Errorf("texcoords = %d, want 4", len(obj.TexCoords))
	}
}

func TestParseOBJFaces(t *testing.T) {
	obj, err := ParseOBJ([]byte(cubeTopOBJ))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	if len(obj.Faces) != 2 {
		t.Fatalf("faces = %d, want 2", len(obj.Faces))
	}

	first := obj.Faces[0]
	if !first.IsQuad() {
		t.Error("first face should be a quad")
	}
	if first.Indices[0] != 0 || first.Indices[3] != 3 {
		t.Errorf("first face indices = %v, want zero-based [0 1 2 3]", first.Indices)
	}
	if !first.Smooth {
		t.Error("first face read inside s 1 should be smooth")
	}
	if len(first.UVs) != 4 || first.UVs[2] != (math.Vec2{X: 1, Y: 1}) {
		t.Errorf("first face UVs = %v", first.UVs)
	}

	second := obj.Faces[1]
	if second.Smooth {
		t.Error("second face read after s off should be flat")
	}
	if second.UVs != nil {
		t.Errorf("second face has no vt refs, UVs = %v", second.UVs)
	}
}

func TestParseOBJMaterials(t *testing.T) {
	obj, err := ParseOBJ([]byte(cubeTopOBJ))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	if len(obj.Materials) != 2 || obj.Materials[0] != "stone" || obj.Materials[1] != "grass" {
		t.Fatalf("materials = %v, want [stone grass]", obj.Materials)
	}
	if obj.Faces[0].Material != 0 || obj.Faces[1].Material != 1 {
		t.Errorf("face materials = %d, %d, want 0, 1", obj.Faces[0].Material, obj.Faces[1].Material)
	}
}

func TestParseOBJNoMaterial(t *testing.T) {
	obj, err := ParseOBJ([]byte("v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\n"))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if obj.Faces[0].Material != -1 {
		t.Errorf("material before any usemtl = %d, want -1", obj.Faces[0].Material)
	}
}

func TestParseOBJNegativeIndices(t *testing.T) {
	obj, err := ParseOBJ([]byte("v 0 0 0\nv 1 0 0\nv 0 1 0\nf -3 -2 -1\n"))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	want := []int{0, 1, 2}
	for i, idx := range obj.Faces[0].Indices {
		if idx != want[i] {
			t.Errorf("index %d = %d, want %d", i, idx, want[i])
		}
	}
}

func TestParseOBJNumTriangles(t *testing.T) {
	obj, err := ParseOBJ([]byte(cubeTopOBJ))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	// Two quads fan into four triangles.
	if obj.NumTriangles() != 4 {
		t.Errorf("NumTriangles = %d, want 4", obj.NumTriangles())
	}
}

func TestParseOBJErrors(t *testing.T) {
	if _, err := ParseOBJ([]byte("v 1 2\n")); !errors.Is(err, ErrMalformedOBJVertex) {
		t.Errorf("short vertex: got %v, want ErrMalformedOBJVertex", err)
	}
	if _, err := ParseOBJ([]byte("v 0 0 0\nf 1 2\n")); !errors.Is(err, ErrMalformedOBJFace) {
		t.Errorf("short face: got %v, want ErrMalformedOBJFace", err)
	}
	if _, err := ParseOBJ([]byte("v 0 0 0\nf 1 2 9\n")); !errors.Is(err, ErrOBJIndexRange) {
		t.Errorf("out-of-range index: got %v, want ErrOBJIndexRange", err)
	}
}

func TestParseOBJSkipsUnknownRecords(t *testing.T) {
	src := "o thing\nvn 0 0 1\nv 0 0 0\nv 1 0 0\nv 0 1 0\nf 1//1 2//1 3//1\n"
	obj, err := ParseOBJ([]byte(src))
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(obj.Faces) != 1 || len(obj.Faces[0].Indices) != 3 {
		t.Fatalf("faces = %+v", obj.Faces)
	}
	if obj.Faces[0].UVs != nil {
		t.Error("v//vn corners must not produce UVs")
	}
}

func TestParseOBJFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tri.obj")
	if err := os.WriteFile(path, []byte("v 0 0 0\nv 1 0 0\nv 0 1 0\nf 1 2 3\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	obj, err := ParseOBJFile(path)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(obj.Positions) != 3 || len(obj.Faces) != 1 {
		t.Errorf("parsed %d positions, %d faces", len(obj.Positions), len(obj.Faces))
	}

	if _, err := ParseOBJFile(filepath.Join(t.TempDir(), "absent.obj")); err == nil {
		t.Error("expected error for missing file")
	}
}
