package scene

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// Light is a node that emits light.
type Light interface {
	Node
	Color() colorful.Color
	Intensity() float32
}

// AmbientLight lights every surface equally.
type AmbientLight struct {
	Object
	color     colorful.Color
	intensity float32
}

func NewAmbientLight(c colorful.Color, intensity float32) *AmbientLight {
	return &AmbientLight{color: c, intensity: intensity}
}

func (l *AmbientLight) Color() colorful.Color { return l.color }

func (l *AmbientLight) Intensity() float32 { return l.intensity }

// PointLight shines in every direction from its position. Distance is the
// cutoff range (0 for none) and Decay the exponent of the distance falloff.
type PointLight struct {
	Object
	Distance float32
	Decay    float32

	color     colorful.Color
	intensity float32
}

// NewPointLight creates a light at (0, 1, 0) without cutoff and with
// physical decay.
func NewPointLight(c colorful.Color, intensity float32) *PointLight {
	l := &PointLight{Decay: 2, color: c, intensity: intensity}
	l.SetPosition(mgl32.Vec3{0, 1, 0})
	return l
}

func (l *PointLight) Color() colorful.Color { return l.color }

func (l *PointLight) Intensity() float32 { return l.intensity }

// Direction is the unit vector the light travels along towards the origin.
func (l *PointLight) Direction() mgl32.Vec3 {
	p := l.Position()
	if p.Len() == 0 {
		return mgl32.Vec3{0, -1, 0}
	}
	return p.Mul(-1).Normalize()
}

// IntensityAt is the attenuated intensity reaching p.
func (l *PointLight) IntensityAt(p mgl32.Vec3) float32 {
	d := l.Position().Sub(p).Len()
	att := 1 / math32.Max(math32.Pow(d, l.Decay), 0.01)
	if l.Distance > 0 {
		f := mgl32.Clamp(1-math32.Pow(d/l.Distance, 4), 0, 1)
		att *= f * f
	}
	return l.intensity * att
}
