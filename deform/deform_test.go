package deform

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

type buffer struct {
	pos    []float32
	writes int
}

func newBuffer(points ...mgl32.Vec3) *buffer {
	b := &buffer{}
	for _, p := range points {
		b.pos = append(b.pos, p[0], p[1], p[2])
	}
	return b
}

func (b *buffer) Positions() []float32 { return b.pos }

func (b *buffer) SetPosition(i int, x, y, z float32) {
	b.pos[3*i], b.pos[3*i+1], b.pos[3*i+2] = x, y, z
	b.writes++
}

func (b *buffer) at(i int) mgl32.Vec3 {
	return mgl32.Vec3{b.pos[3*i], b.pos[3*i+1], b.pos[3*i+2]}
}

type material struct {
	scale float32
	set   int
}

func (m *material) SetDisplacementScale(s float32) {
	m.scale = s
	m.set++
}

func sphere(n int) *buffer {
	b := &buffer{}
	for i := 0; i < n; i++ {
		a := 2 * math32.Pi * float32(i) / float32(n)
		b.pos = append(b.pos, 4*math32.Cos(a), 4*math32.Sin(a), float32(i%3)-1)
	}
	return b
}

func TestDisplacement(t *testing.T) {
	prev := Displacement(0)
	if prev != 0 {
		t.Errorf("expected 0 for silence, got %v", prev)
	}
	for s := 0; s <= 255; s++ {
		d := Displacement(float32(s))
		if d < -1 || d > 1 {
			t.Errorf("displacement(%d) = %v out of bounds", s, d)
		}
		if d < prev {
			t.Errorf("displacement(%d) = %v decreased from %v", s, d, prev)
		}
		prev = d
	}
	if d := Displacement(255); d != 0.99609375 {
		t.Errorf("expected 0.99609375 for 255, got %v", d)
	}
	if d := Displacement(1000); d != 1 {
		t.Errorf("expected clamp to 1, got %v", d)
	}
	if d := Displacement(-1000); d != -1 {
		t.Errorf("expected clamp to -1, got %v", d)
	}
}

func TestDisplacementPlot(t *testing.T) {
	pts := make(plotter.XYs, 256)
	for s := range pts {
		pts[s].X = float64(s)
		pts[s].Y = float64(Displacement(float32(s)))
	}

	p := plot.New()
	p.Title.Text = "displacement"
	p.X.Label.Text = "sample"
	if err := plotutil.AddLinePoints(p, "clamp(s/256)", pts); err != nil {
		t.Fatal(err)
	}
	if err := p.Save(6*vg.Inch, 4*vg.Inch, filepath.Join(t.TempDir(), "displacement.png")); err != nil {
		t.Fatal(err)
	}
}

func TestSilenceKeepsReference(t *testing.T) {
	live := sphere(100)
	e := NewEngine(live, nil, Vertex)

	if err := e.Apply(make([]uint8, 32), 0); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < e.Reference().Len(); i++ {
		if live.at(i) != e.Reference().At(i) {
			t.Errorf("vertex %d: expected %v, got %v", i, e.Reference().At(i), live.at(i))
		}
	}
}

func TestVertexFullScale(t *testing.T) {
	live := newBuffer(mgl32.Vec3{4, 0, 0}, mgl32.Vec3{0, 4, 0})
	e := NewEngine(live, nil, Vertex)

	spectrum := make([]uint8, 32)
	spectrum[0] = 255
	if err := e.Apply(spectrum, 0); err != nil {
		t.Fatal(err)
	}
	if p := live.at(0); p != (mgl32.Vec3{7.984375, 0, 0}) {
		t.Errorf("expected (7.984375, 0, 0), got %v", p)
	}
	// bin 1 is silent
	if p := live.at(1); p != (mgl32.Vec3{0, 4, 0}) {
		t.Errorf("expected (0, 4, 0), got %v", p)
	}
}

func TestVertexWrapsBins(t *testing.T) {
	live := sphere(70)
	e := NewEngine(live, nil, Vertex)

	spectrum := make([]uint8, 32)
	spectrum[5] = 128
	if err := e.Apply(spectrum, 0); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 70; i++ {
		expected := e.Reference().At(i)
		if i%32 == 5 {
			expected = expected.Mul(1.5)
		}
		if !live.at(i).ApproxEqual(expected) {
			t.Errorf("vertex %d: expected %v, got %v", i, expected, live.at(i))
		}
	}
}

func TestVertexIdempotent(t *testing.T) {
	live := sphere(64)
	e := NewEngine(live, nil, Vertex)

	spectrum := make([]uint8, 32)
	for i := range spectrum {
		spectrum[i] = uint8(i * 8)
	}
	if err := e.Apply(spectrum, 0); err != nil {
		t.Fatal(err)
	}
	first := append([]float32(nil), live.pos...)

	for k := 0; k < 3; k++ {
		if err := e.Apply(spectrum, 0); err != nil {
			t.Fatal(err)
		}
	}
	for i := range first {
		if first[i] != live.pos[i] {
			t.Fatalf("component %d drifted from %v to %v", i, first[i], live.pos[i])
		}
	}
	if len(live.pos) != 3*e.Reference().Len() {
		t.Errorf("live length %d differs from reference %d", len(live.pos)/3, e.Reference().Len())
	}
}

func TestNonFiniteKeepsPreviousPosition(t *testing.T) {
	live := newBuffer(mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 1, 0}, mgl32.Vec3{0, 0, 1})
	e := NewEngine(live, nil, Vertex)
	e.displace = func(s float32) float32 {
		if s == 7 {
			return math32.NaN()
		}
		return Displacement(s)
	}

	// move vertex 1 off the reference first
	if err := e.Apply([]uint8{0, 128, 0}, 0); err != nil {
		t.Fatal(err)
	}
	prev := live.at(1)

	if err := e.Apply([]uint8{128, 7, 128}, 0); err != nil {
		t.Fatal(err)
	}
	if live.at(1) != prev {
		t.Errorf("expected vertex 1 unchanged at %v, got %v", prev, live.at(1))
	}
	if p := live.at(0); p != (mgl32.Vec3{1.5, 0, 0}) {
		t.Errorf("expected vertex 0 processed, got %v", p)
	}
	if p := live.at(2); p != (mgl32.Vec3{0, 0, 1.5}) {
		t.Errorf("expected vertex 2 processed, got %v", p)
	}
}

func TestAggregate(t *testing.T) {
	live := sphere(10)
	m := &material{}
	e := NewEngine(live, m, Aggregate)
	before := live.writes

	cases := []struct {
		aggregate float64
		expected  float32
	}{
		{64, 1},
		{0, 0},
		{255, 3.984375},
		{32, 0.5},
	}
	for _, c := range cases {
		if err := e.Apply(make([]uint8, 32), c.aggregate); err != nil {
			t.Fatal(err)
		}
		if m.scale != c.expected {
			t.Errorf("aggregate %v: expected scale %v, got %v", c.aggregate, c.expected, m.scale)
		}
	}
	if live.writes != before {
		t.Errorf("aggregate strategy wrote %d vertices", live.writes-before)
	}
}

func TestSwitchToAggregateRestoresReference(t *testing.T) {
	live := sphere(10)
	m := &material{}
	e := NewEngine(live, m, Vertex)

	full := make([]uint8, 32)
	for i := range full {
		full[i] = 255
	}
	if err := e.Apply(full, 255); err != nil {
		t.Fatal(err)
	}
	if m.scale != 0 {
		t.Errorf("vertex strategy should zero the material scale, got %v", m.scale)
	}

	e.SetStrategy(Aggregate)
	if err := e.Apply(full, 64); err != nil {
		t.Fatal(err)
	}
	for i := 0; i < e.Reference().Len(); i++ {
		if live.at(i) != e.Reference().At(i) {
			t.Fatalf("vertex %d not restored: %v", i, live.at(i))
		}
	}
	if m.scale != 1 {
		t.Errorf("expected scale 1, got %v", m.scale)
	}
}

func TestLengthMismatch(t *testing.T) {
	live := sphere(10)
	e := NewEngine(live, nil, Vertex)
	live.pos = live.pos[:9]
	if err := e.Apply(make([]uint8, 32), 0); !errors.Is(err, ErrLength) {
		t.Errorf("expected ErrLength, got %v", err)
	}
}

func TestParse(t *testing.T) {
	for _, c := range []struct {
		in       string
		expected Strategy
	}{
		{"vertex", Vertex},
		{"Aggregate", Aggregate},
	} {
		s, err := ParseStrategy(c.in)
		if err != nil || s != c.expected {
			t.Errorf("ParseStrategy(%q) = %v, %v", c.in, s, err)
		}
		if s.String() != c.expected.String() {
			t.Errorf("unexpected name %q", s)
		}
	}
	if _, err := ParseStrategy("radial"); err == nil {
		t.Error("expected error for unknown strategy")
	}
	if _, err := ParseBinMapper("zigzag"); err == nil {
		t.Error("expected error for unknown mapping")
	}
}

func TestSpreadBins(t *testing.T) {
	counts := make([]int, 4)
	for i := 0; i < 10; i++ {
		counts[SpreadBins(i, 10, 4)]++
	}
	for b, c := range counts {
		if c < 2 || c > 3 {
			t.Errorf("bin %d drives %d vertices", b, c)
		}
	}
	if b := SpreadBins(9, 10, 4); b != 3 {
		t.Errorf("expected last vertex on last bin, got %d", b)
	}
}
