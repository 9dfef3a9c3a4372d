// Package shader provides the minimal surface-shader bookkeeping the
// geometry pipeline needs: a scene-wide manager that resolves a
// (shader, smooth) pair to a packed id, and the scene's default
// surface fallback.
package shader

// SmoothNormalFlag is or-ed into a packed shader id when the triangle
// uses smooth shading. Shader indices stay below it.
const SmoothNormalFlag uint32 = 1 << 31

// Shader is a surface shader as seen by geometry packing. The material
// graph behind it lives elsewhere; geometry only needs its identity.
type Shader struct {
	Name string

	id uint32
}

// ID returns the manager-assigned shader index.
func (s *Shader) ID() uint32 {
	return s.id
}

// Manager assigns scene-wide shader ids and resolves packed ids for
// geometry packing.
type Manager struct {
	next uint32
}

// NewManager returns an empty shader manager.
func NewManager() *Manager {
	return &Manager{}
}

// Register assigns the shader its scene-wide id. Ids start at 1 so the
// zero value means unregistered; registering twice is a no-op.
func (m *Manager) Register(s *Shader) {
	if s.id != 0 {
		return
	}
	m.next++
	s.id = m.next
}

// ShaderID returns the packed id for a (shader, smooth) pair. The
// result is deterministic for a given pair within one packing pass.
func (m *Manager) ShaderID(s *Shader, smooth bool) uint32 {
	id := s.id
	if smooth {
		id |= SmoothNormalFlag
	}
	return id
}

// Scene carries the scene-level collaborators geometry packing needs.
type Scene struct {
	DefaultSurface *Shader
	Manager        *Manager
}

// NewScene returns a scene with a registered default surface shader.
func NewScene() *Scene {
	m := NewManager()
	def := &Shader{Name: "default_surface"}
	m.Register(def)
	return &Scene{
		DefaultSurface: def,
		Manager:        m,
	}
}
