package shader

import "testing"

func TestRegisterAssignsIDs(t *testing.T) {
	m := NewManager()
	a := &Shader{Name: "a"}
	b := &Shader{Name: "b"}
	m.Register(a)
	m.Register(b)
	if a.ID() == 0 || b.ID() == 0 {
		t.Fatal("registered shader has zero id")
	}
	if a.ID() == b.ID() {
		t.Errorf("distinct shaders share id %d", a.ID())
	}
}

func TestRegisterIdempotent(t *testing.T) {
	m := NewManager()
	s := &Shader{Name: "s"}
	m.Register(s)
	id := s.ID()
	m.Register(s)
	if s.ID() != id {
		t.Errorf("re-register changed id from %d to %d", id, s.ID())
	}
}

func TestShaderIDDeterministic(t *testing.T) {
	m := NewManager()
	s := &Shader{Name: "s"}
	m.Register(s)
	if m.ShaderID(s, true) != m.ShaderID(s, true) {
		t.Error("ShaderID not deterministic for the same pair")
	}
}

func TestShaderIDSmoothFlag(t *testing.T) {
	m := NewManager()
	s := &Shader{Name: "s"}
	m.Register(s)
	flat := m.ShaderID(s, false)
	smooth := m.ShaderID(s, true)
	if flat == smooth {
		t.Error("smooth flag did not change packed id")
	}
	if smooth != flat|SmoothNormalFlag {
		t.Errorf("smooth id = %#x, want %#x", smooth, flat|SmoothNormalFlag)
	}
}

func TestNewSceneHasDefaultSurface(t *testing.T) {
	sc := NewScene()
	if sc.DefaultSurface == nil || sc.DefaultSurface.ID() == 0 {
		t.Fatal("scene default surface not registered")
	}
}
