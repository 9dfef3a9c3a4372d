// meshinfo is a CLI utility for inspecting meshes through the geometry
// pipeline: bounds, derived normals and packed buffers.
package main

import (
	"flag"
	"fmt"
	"os"
	"sort"

	"go.uber.org/zap"

	"github.com/Faultbox/prism/internal/config"
	"github.com/Faultbox/prism/internal/logger"
	"github.com/Faultbox/prism/internal/render/attribute"
	"github.com/Faultbox/prism/internal/render/geometry"
	"github.com/Faultbox/prism/internal/render/shader"
	"github.com/Faultbox/prism/pkg/formats"
	"github.com/Faultbox/prism/pkg/math"
)

var flagSubdiv = flag.Bool("subdiv", false, "Import polygons as subdivision faces instead of triangulating")

func main() {
	config.ParseFlags()

	if flag.NArg() < 1 {
		printUsage()
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	command := flag.Arg(0)
	args := flag.Args()[1:]

	switch command {
	case "info":
		cmdInfo(cfg, args)
	case "normals":
		cmdNormals(cfg, args)
	case "pack":
		cmdPack(cfg, args)
	case "help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`meshinfo - mesh geometry pipeline inspector

Usage:
  meshinfo [global options] <command> [options]

Commands:
  info <file.obj>            Show mesh statistics and bounds
  normals <file.obj> [-n N]  Derive and print vertex normals
  pack <file.obj> [-n N]     Run the packing stage and dump buffers

Global options (before the command):
  -subdiv          Import polygons as subdivision faces
  -config PATH     Config file
  -debug           Debug logging
  -motion-blur     Enable motion blur
  -motion-steps N  Motion steps per mesh
  -dicing-rate R   Subdivision dicing rate
  -max-level N     Maximum subdivision level

Examples:
  meshinfo info bunny.obj
  meshinfo normals bunny.obj -n 10
  meshinfo -subdiv -dicing-rate 0.5 info quads.obj`)
}

// loadMesh parses an OBJ file and feeds it through mesh mutation.
// Faces either fan-triangulate or, with subdiv set, go in whole as
// subdivision polygons for the external subdivider. Materials become
// per-face shader runs, per-corner UVs collapse into one UV per vertex
// (later corners win), and the motion and subdivision settings come
// from the config.
func loadMesh(cfg *config.Config, path string, subdiv bool) (*geometry.Mesh, *shader.Scene, error) {
	obj, err := formats.ParseOBJFile(path)
	if err != nil {
		return nil, nil, err
	}

	sc := shader.NewScene()

	m := geometry.NewMesh()
	m.UseMotionBlur = cfg.Render.MotionBlur
	if cfg.Render.MotionBlur {
		m.SetMotionSteps(cfg.Render.MotionSteps)
	}
	m.SetDicingRate(cfg.Subdivision.DicingRate)
	m.SetMaxLevel(cfg.Subdivision.MaxLevel)

	if subdiv {
		m.SetSubdivisionType(geometry.SubdivisionCatmullClark)
		numCorners := 0
		for i := range obj.Faces {
			numCorners += len(obj.Faces[i].Indices)
		}
		m.ReserveMesh(len(obj.Positions), 0)
		m.ReserveSubdFaces(len(obj.Faces), numCorners)
	} else {
		m.ReserveMesh(len(obj.Positions), obj.NumTriangles())
	}
	for _, p := range obj.Positions {
		m.AddVertex(p)
	}

	uvAttrs := m.Attributes
	if subdiv {
		uvAttrs = m.SubdAttributes
	}
	var uvData []math.Vec3

	// One mesh shader slot per OBJ material, plus a fallback slot when
	// faces precede the first usemtl.
	fallback := -1
	for _, name := range obj.Materials {
		s := &shader.Shader{Name: name}
		sc.Manager.Register(s)
		m.UsedShaders = append(m.UsedShaders, s)
	}
	for i := range obj.Faces {
		face := &obj.Faces[i]

		shaderIndex := face.Material
		if shaderIndex < 0 {
			if fallback < 0 {
				fallback = len(m.UsedShaders)
				m.UsedShaders = append(m.UsedShaders, sc.DefaultSurface)
			}
			shaderIndex = fallback
		}

		if subdiv {
			m.AddSubdFace(face.Indices, shaderIndex, face.Smooth)
		} else {
			for c := 2; c < len(face.Indices); c++ {
				m.AddTriangle(face.Indices[0], face.Indices[c-1], face.Indices[c], shaderIndex, face.Smooth)
			}
		}

		for c, uv := range face.UVs {
			if uvData == nil {
				uvData = uvAttrs.Add(attribute.StdUV, len(obj.Positions)).Data()
			}
			uvData[face.Indices[c]] = math.Vec3{X: uv.X, Y: uv.Y}
		}
	}

	logger.Debug("mesh loaded",
		zap.String("path", path),
		zap.Int("verts", m.NumVerts()),
		zap.Int("triangles", m.NumTriangles()),
		zap.Int("subd_faces", m.NumSubdFaces()),
		zap.Int("shaders", len(m.UsedShaders)))

	return m, sc, nil
}

func cmdInfo(cfg *config.Config, args []string) {
	if len(args) < 1 {
		fmt.Fprintln(os.Stderr, "Usage: meshinfo info <file.obj>")
		os.Exit(1)
	}

	m, _, err := loadMesh(cfg, args[0], *flagSubdiv)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	m.ComputeBounds()

	fmt.Printf("Mesh:      %s\n", args[0])
	fmt.Printf("Vertices:  %d\n", m.NumVerts())
	fmt.Printf("Triangles: %d\n", m.NumTriangles())
	if m.NumSubdFaces() > 0 {
		fmt.Printf("SubdFaces: %d\n", m.NumSubdFaces())
	}
	fmt.Printf("Shaders:   %d\n", len(m.UsedShaders))
	fmt.Printf("Primitive: %s\n", primitiveName(m.PrimitiveType()))
	fmt.Printf("Bounds:    min %v\n", m.Bounds.Min)
	fmt.Printf("           max %v\n", m.Bounds.Max)
	fmt.Printf("           size %v\n", m.Bounds.Size())
	if tiles := m.UVTiles(); len(tiles) > 0 {
		ids := make([]int, 0, len(tiles))
		for id := range tiles {
			ids = append(ids, id)
		}
		sort.Ints(ids)
		fmt.Printf("UV tiles:  %v\n", ids)
	}
}

func cmdNormals(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("normals", flag.ExitOnError)
	limit := fs.Int("n", 0, "Limit output to N vertices (0 = all)")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: meshinfo normals <file.obj> [-n N]")
		os.Exit(1)
	}

	m, _, err := loadMesh(cfg, fs.Arg(0), *flagSubdiv)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	m.AddVertexNormals()

	// Subdivision meshes derive their normals on the subd attribute
	// set; packing only covers the triangle side.
	var vnormal []math.Vec3
	if attr := m.SubdAttributes.Find(attribute.StdVertexNormal); attr != nil {
		vnormal = attr.Data()
	} else {
		vnormal = make([]math.Vec3, m.NumVerts())
		m.PackNormals(vnormal)
	}

	count := len(vnormal)
	if *limit > 0 && *limit < count {
		count = *limit
	}
	for i := 0; i < count; i++ {
		fmt.Printf("%6d  % .6f % .6f % .6f\n", i, vnormal[i].X, vnormal[i].Y, vnormal[i].Z)
	}
	if count < len(vnormal) {
		fmt.Fprintf(os.Stderr, "\n(showing first %d of %d)\n", count, len(vnormal))
	}
}

func cmdPack(cfg *config.Config, args []string) {
	fs := flag.NewFlagSet("pack", flag.ExitOnError)
	limit := fs.Int("n", 10, "Limit dump to N entries (0 = all)")
	fs.Parse(args)

	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: meshinfo pack <file.obj> [-n N]")
		os.Exit(1)
	}

	m, sc, err := loadMesh(cfg, fs.Arg(0), *flagSubdiv)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	m.ComputeBounds()
	m.AddVertexNormals()

	triShader := make([]uint32, m.NumTriangles())
	triVerts := make([]math.Vec3, m.NumVerts())
	triVindex := make([][3]uint32, m.NumTriangles())
	m.PackShaders(sc, triShader)
	m.PackVerts(triVerts, triVindex)

	count := m.NumTriangles()
	if *limit > 0 && *limit < count {
		count = *limit
	}
	fmt.Println("tri    index                shader")
	for i := 0; i < count; i++ {
		fmt.Printf("%-6d %-20v %#x\n", i, triVindex[i], triShader[i])
	}
	if count < m.NumTriangles() {
		fmt.Fprintf(os.Stderr, "\n(showing first %d of %d, use -n 0 for all)\n", count, m.NumTriangles())
	}
}

func primitiveName(t geometry.PrimitiveType) string {
	if t == geometry.PrimitiveMotionTriangle {
		return "motion triangle"
	}
	return "triangle"
}
