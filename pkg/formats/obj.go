// Package formats provides parsers for mesh interchange file formats.
package formats

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/Faultbox/prism/pkg/math"
)

// OBJ format errors.
var (
	ErrMalformedOBJVertex = errors.New("malformed OBJ vertex")
	ErrMalformedOBJFace   = errors.New("malformed OBJ face")
	ErrOBJIndexRange      = errors.New("OBJ face index out of range")
)

// OBJFace is a polygon read from an `f` record. Indices are zero-based
// positions into OBJ.Positions; faces with more than three corners are
// kept as read so the caller decides between triangulation and
// subdivision input.
type OBJFace struct {
	Indices  []int
	UVs      []math.Vec2 // Per-corner, empty when the face has no vt refs
	Material int         // Index into Materials, -1 before any usemtl
	Smooth   bool
}

// IsQuad reports whether the face has exactly four corners.
func (f *OBJFace) IsQuad() bool {
	return len(f.Indices) == 4
}

// OBJ represents a parsed Wavefront OBJ file. Only the geometry
// subset the mesh pipeline consumes is kept: positions, texture
// coordinates, faces with material and smooth-group state.
type OBJ struct {
	Positions []math.Vec3
	TexCoords []math.Vec2
	Faces     []OBJFace
	Materials []string
}

// NumTriangles returns the triangle count after fan triangulation.
func (o *OBJ) NumTriangles() int {
	n := 0
	for i := range o.Faces {
		if c := len(o.Faces[i].Indices); c >= 3 {
			n += c - 2
		}
	}
	return n
}

// ParseOBJ parses a Wavefront OBJ file from raw bytes. Unknown record
// types are skipped, matching common exporter output that mixes in
// normals, comments and object groups.
func ParseOBJ(data []byte) (*OBJ, error) {
	obj := &OBJ{}

	material := -1
	smooth := false
	materialIndex := map[string]int{}

	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Fields(line)
		switch fields[0] {
		case "v":
			v, err := parseOBJVec3(fields[1:])
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			obj.Positions = append(obj.Positions, v)

		case "vt":
			if len(fields) < 3 {
				return nil, fmt.Errorf("line %d: %w: want 2 coordinates", lineNo, ErrMalformedOBJVertex)
			}
			u, err1 := parseOBJFloat(fields[1])
			v, err2 := parseOBJFloat(fields[2])
			if err1 != nil || err2 != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, ErrMalformedOBJVertex)
			}
			obj.TexCoords = append(obj.TexCoords, math.Vec2{X: u, Y: v})

		case "f":
			face, err := parseOBJFace(fields[1:], obj, material, smooth)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineNo, err)
			}
			obj.Faces = append(obj.Faces, face)

		case "usemtl":
			name := ""
			if len(fields) > 1 {
				name = fields[1]
			}
			idx, ok := materialIndex[name]
			if !ok {
				idx = len(obj.Materials)
				materialIndex[name] = idx
				obj.Materials = append(obj.Materials, name)
			}
			material = idx

		case "s":
			// "s off" and "s 0" disable smoothing; any group id enables it.
			smooth = len(fields) > 1 && fields[1] != "off" && fields[1] != "0"
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading OBJ: %w", err)
	}

	return obj, nil
}

// ParseOBJFile parses a Wavefront OBJ file from disk.
func ParseOBJFile(path string) (*OBJ, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	obj, err := ParseOBJ(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return obj, nil
}

func parseOBJVec3(fields []string) (math.Vec3, error) {
	if len(fields) < 3 {
		return math.Vec3{}, fmt.Errorf("%w: want 3 coordinates, got %d", ErrMalformedOBJVertex, len(fields))
	}
	x, err1 := parseOBJFloat(fields[0])
	y, err2 := parseOBJFloat(fields[1])
	z, err3 := parseOBJFloat(fields[2])
	if err1 != nil || err2 != nil || err3 != nil {
		return math.Vec3{}, ErrMalformedOBJVertex
	}
	return math.Vec3{X: x, Y: y, Z: z}, nil
}

func parseOBJFloat(s string) (float32, error) {
	f, err := strconv.ParseFloat(s, 32)
	return float32(f), err
}

// parseOBJFace reads one corner list. Corners come as "v", "v/vt",
// "v//vn" or "v/vt/vn"; negative indices count back from the end of
// the arrays read so far, per the OBJ spec.
func parseOBJFace(fields []string, obj *OBJ, material int, smooth bool) (OBJFace, error) {
	if len(fields) < 3 {
		return OBJFace{}, fmt.Errorf("%w: want at least 3 corners, got %d", ErrMalformedOBJFace, len(fields))
	}

	face := OBJFace{
		Indices:  make([]int, 0, len(fields)),
		Material: material,
		Smooth:   smooth,
	}
	hasUV := true

	for _, corner := range fields {
		parts := strings.Split(corner, "/")

		vi, err := resolveOBJIndex(parts[0], len(obj.Positions))
		if err != nil {
			return OBJFace{}, err
		}
		face.Indices = append(face.Indices, vi)

		if len(parts) > 1 && parts[1] != "" {
			ti, err := resolveOBJIndex(parts[1], len(obj.TexCoords))
			if err != nil {
				return OBJFace{}, err
			}
			face.UVs = append(face.UVs, obj.TexCoords[ti])
		} else {
			hasUV = false
		}
	}

	// Drop partial UV sets: either every corner has one or none do.
	if !hasUV {
		face.UVs = nil
	}

	return face, nil
}

func resolveOBJIndex(s string, length int) (int, error) {
	i, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrMalformedOBJFace, s)
	}
	if i < 0 {
		i += length
	} else {
		i--
	}
	if i < 0 || i >= length {
		return 0, fmt.Errorf("%w: %q with %d read", ErrOBJIndexRange, s, length)
	}
	return i, nil
}
