package scene

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

func TestIcosahedron(t *testing.T) {
	for _, detail := range []int{0, 1, 4} {
		g := NewIcosahedron(4, detail)
		expected := 60 * (detail + 1) * (detail + 1)
		if g.Count() != expected {
			t.Errorf("detail %d: expected %d vertices, got %d", detail, expected, g.Count())
		}
		for i := 0; i < g.Count(); i++ {
			if r := g.At(i).Len(); math32.Abs(r-4) > 1e-4 {
				t.Fatalf("detail %d: vertex %d at radius %v", detail, i, r)
			}
		}
	}
}

func TestGeometryVersion(t *testing.T) {
	g := NewGeometry([]float32{1, 0, 0, 0, 2, 0})
	v := g.Version()
	g.SetPosition(1, 0, 3, 0)
	if g.Version() == v {
		t.Error("expected version to change")
	}
	if !g.At(1).ApproxEqual(mgl32.Vec3{0, 3, 0}) {
		t.Errorf("unexpected position %v", g.At(1))
	}
	if n := g.Normals(); n[3] != 0 || n[4] != 1 {
		t.Errorf("expected unit normal along y, got %v", n[3:6])
	}
}

func TestSceneWalk(t *testing.T) {
	s := NewScene()
	m := NewMesh(NewIcosahedron(1, 0), NewMaterial(mustParseHex("#ffffff")))
	amb := NewAmbientLight(mustParseHex("#ffffff"), 0.5)
	dir := NewPointLight(mustParseHex("#ffffff"), 1)
	s.Add(m, amb)
	m.Add(dir)

	if r := s.Renderables(); len(r) != 1 || r[0] != Renderable(m) {
		t.Errorf("expected the mesh, got %v", r)
	}
	if l := s.Lights(); len(l) != 2 {
		t.Errorf("expected 2 lights, got %d", len(l))
	}
	if d := dir.Direction(); !d.ApproxEqual(mgl32.Vec3{0, -1, 0}) {
		t.Errorf("unexpected light direction %v", d)
	}
}

func TestCameraProjection(t *testing.T) {
	c := NewPerspectiveCamera(DefaultFov, 1, DefaultNear, DefaultFar)
	p := c.Projection()
	c.Aspect = 2
	if c.Projection() != p {
		t.Error("projection changed before update")
	}
	c.UpdateProjectionMatrix()
	// m[0] = f/aspect, m[5] = f
	q := c.Projection()
	if math32.Abs(q[5]/q[0]-2) > 1e-5 {
		t.Errorf("expected aspect 2 in projection, got %v", q[5]/q[0])
	}
}

func TestOrbitControls(t *testing.T) {
	c := NewPerspectiveCamera(DefaultFov, 1, DefaultNear, DefaultFar)
	c.SetPosition(mgl32.Vec3{0, -2, 14})
	o := NewOrbitControls(c)
	dist := c.Position().Len()

	if o.Update() {
		t.Error("expected no movement without input")
	}

	o.Rotate(1, 0)
	if !o.Update() {
		t.Fatal("expected movement after rotate")
	}
	if d := c.Position().Len(); math32.Abs(d-dist) > 1e-3 {
		t.Errorf("rotation changed distance from %v to %v", dist, d)
	}

	o.EnableDamping = false
	o.Zoom(0.5)
	o.Update()
	if d := c.Position().Len(); math32.Abs(d-dist/2) > 1e-3 {
		t.Errorf("expected distance %v after zoom, got %v", dist/2, d)
	}
	if c.Target() != o.Target {
		t.Error("camera should look at the orbit target")
	}
}

func TestPalette(t *testing.T) {
	p, err := NewPalette("#ff6ec7")
	if err != nil {
		t.Fatal(err)
	}
	if !p.Emissive.IsValid() {
		t.Error("expected a valid emissive color")
	}
	_, _, le := p.Emissive.HSLuv()
	_, _, lb := p.Base.HSLuv()
	if le >= lb {
		t.Errorf("expected emissive darker than the base color, got %v >= %v", le, lb)
	}
	if len(p.Glow) != 4 || p.Glow[0].Pos != 0 || p.Glow[3].Pos != 1 {
		t.Errorf("unexpected glow map %v", p.Glow)
	}

	if _, err := NewPalette("pink"); err == nil {
		t.Error("expected error for invalid color")
	}
}

func TestColorMapEnds(t *testing.T) {
	m := NewSpectralColorMap()
	if m.At(-1) != m[0].Col || m.At(2) != m[len(m)-1].Col {
		t.Error("expected out of range values to clamp to the end keypoints")
	}
}

func TestPointLightFalloff(t *testing.T) {
	l := NewPointLight(mustParseHex("#ff8800"), 1)
	l.SetPosition(mgl32.Vec3{0, 0, 2})
	if i := l.IntensityAt(mgl32.Vec3{}); math32.Abs(i-0.25) > 1e-6 {
		t.Errorf("expected inverse square falloff 0.25, got %v", i)
	}

	l.Distance = 1
	if i := l.IntensityAt(mgl32.Vec3{}); i != 0 {
		t.Errorf("expected no light beyond cutoff, got %v", i)
	}

	l.Distance, l.Decay = 100, 0.005
	l.SetPosition(mgl32.Vec3{10, 10, 10})
	if i := l.IntensityAt(mgl32.Vec3{}); i < 0.95 || i > 1 {
		t.Errorf("expected nearly unattenuated light, got %v", i)
	}
}
