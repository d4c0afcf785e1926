// Gradient code sourced from https://github.com/lucasb-eyer/go-colorful/blob/master/doc/gradientgen/gradientgen.go

package scene

import (
	"fmt"

	"github.com/hsluv/hsluv-go"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// Keypoint is a color at a position in [0,1].
type Keypoint struct {
	Col colorful.Color
	Pos float64
}

// ColorMap contains the sorted keypoints of a color gradient.
type ColorMap []Keypoint

// At returns a HCL-blend between the two colors around t.
// Note: It relies heavily on the fact that the gradient keypoints are sorted.
func (g ColorMap) At(t float64) colorful.Color {
	if len(g) == 0 {
		return colorful.Color{}
	}
	if t <= g[0].Pos {
		return g[0].Col
	}
	for i := 0; i < len(g)-1; i++ {
		c1 := g[i]
		c2 := g[i+1]
		if c1.Pos <= t && t <= c2.Pos {
			t := (t - c1.Pos) / (c2.Pos - c1.Pos)
			return c1.Col.BlendHcl(c2.Col, t).Clamped()
		}
	}

	// Nothing found? Means we're at (or past) the last gradient keypoint.
	return g[len(g)-1].Col
}

func mustParseHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic("MustParseHex: " + err.Error())
	}
	return c
}

// NewSpectralColorMap is a diverging red to violet gradient.
func NewSpectralColorMap() ColorMap {
	return ColorMap{
		{mustParseHex("#9e0142"), 0.0},
		{mustParseHex("#d53e4f"), 0.1},
		{mustParseHex("#f46d43"), 0.2},
		{mustParseHex("#fdae61"), 0.3},
		{mustParseHex("#fee090"), 0.4},
		{mustParseHex("#ffffbf"), 0.5},
		{mustParseHex("#e6f598"), 0.6},
		{mustParseHex("#abdda4"), 0.7},
		{mustParseHex("#66c2a5"), 0.8},
		{mustParseHex("#3288bd"), 0.9},
		{mustParseHex("#5e4fa2"), 1.0},
	}
}

// Palette is the set of colors a mesh is shaded with.
type Palette struct {
	Base     colorful.Color
	Emissive colorful.Color
	// Glow maps a normalized displacement to a color.
	Glow ColorMap
}

// NewPalette derives a palette from a hex base color. Companion colors keep
// the HSLuv hue of the base and vary only its lightness, so they stay
// perceptually balanced.
func NewPalette(hex string) (*Palette, error) {
	base, err := colorful.Hex(hex)
	if err != nil {
		return nil, fmt.Errorf("parsing color %q: %w", hex, err)
	}
	h, s, _ := base.HSLuv()

	p := &Palette{
		Base:     base,
		Emissive: keypoint(h, s*100, 20),
	}
	for i, l := range []float64{15, 45, 70, 95} {
		p.Glow = append(p.Glow, Keypoint{keypoint(h, s*100, l), float64(i) / 3})
	}
	return p, nil
}

// keypoint converts HSLuv with saturation and lightness in [0, 100].
func keypoint(h, s, l float64) colorful.Color {
	c, err := colorful.Hex(hsluv.HsluvToHex(h, s, l))
	if err != nil {
		return colorful.HSLuv(h, s/100, l/100).Clamped()
	}
	return c
}
