// Package soft is a CPU implementation of render.Composer for headless use.
// Meshes are drawn as depth tested points into a float buffer, bloom is a
// thresholded box blur screen-blended over the tone mapped frame.
package soft

import (
	"image"
	"image/color"

	"github.com/chewxy/math32"
	ml "github.com/go-gl/mathgl/mgl32"
	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/phrozen/blend"

	"github.com/Arcadia24/voice-interaction-three/render"
	"github.com/Arcadia24/voice-interaction-three/scene"
)

// Composer renders into an *image.RGBA.
type Composer struct {
	// Colors, if set, colors each point by its radial displacement relative
	// to Radius instead of by the material color.
	Colors scene.ColorMap
	Radius float32

	passes []render.Pass

	ratio         float32
	width, height int

	w, h   int
	hdr    []ml.Vec3
	depth  []float32
	bloom  []ml.Vec3
	tmp    []ml.Vec3
	frame  *image.RGBA
	glow   *image.RGBA
	frames uint64
}

// NewComposer creates a composer with a 1x1 frame until sized.
func NewComposer() *Composer {
	c := &Composer{ratio: 1}
	c.allocate(1, 1)
	return c
}

// AddPass implements render.Composer.
func (c *Composer) AddPass(p render.Pass) error {
	switch p.(type) {
	case *render.ScenePass, *render.BloomPass, *render.OutputPass:
		c.passes = append(c.passes, p)
		return nil
	}
	return render.UnknownPass(p)
}

// SetPixelRatio implements render.Sizer.
func (c *Composer) SetPixelRatio(r float32) {
	c.ratio = r
	c.resize()
}

// SetSize implements render.Sizer.
func (c *Composer) SetSize(w, h int) {
	c.width, c.height = w, h
	c.resize()
}

func (c *Composer) resize() {
	if c.width <= 0 || c.height <= 0 {
		return
	}
	c.allocate(render.BufferSize(c.width, c.height, c.ratio))
}

func (c *Composer) allocate(w, h int) {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	if w == c.w && h == c.h {
		return
	}
	c.w, c.h = w, h
	n := w * h
	c.hdr = make([]ml.Vec3, n)
	c.depth = make([]float32, n)
	c.bloom = make([]ml.Vec3, n)
	c.tmp = make([]ml.Vec3, n)
	c.frame = image.NewRGBA(image.Rect(0, 0, w, h))
	c.glow = image.NewRGBA(image.Rect(0, 0, w, h))
}

// Bounds is the size of the frame in pixels.
func (c *Composer) Bounds() image.Rectangle {
	return c.frame.Bounds()
}

// Frame is the last rendered frame. It is overwritten by the next Render.
func (c *Composer) Frame() *image.RGBA {
	return c.frame
}

// Frames counts completed renders.
func (c *Composer) Frames() uint64 {
	return c.frames
}

// Render implements render.Composer.
func (c *Composer) Render() error {
	bloom := false
	for _, p := range c.passes {
		switch p := p.(type) {
		case *render.ScenePass:
			c.renderScene(p)
		case *render.BloomPass:
			c.renderBloom(p)
			bloom = true
		case *render.OutputPass:
			c.renderOutput(p, bloom)
		default:
			return render.UnknownPass(p)
		}
	}
	c.frames++
	return nil
}

func linear(col colorful.Color, k float32) ml.Vec3 {
	r, g, b := col.LinearRgb()
	return ml.Vec3{float32(r) * k, float32(g) * k, float32(b) * k}
}

func (c *Composer) renderScene(p *render.ScenePass) {
	for i := range c.hdr {
		c.hdr[i] = ml.Vec3{}
		c.depth[i] = math32.Inf(1)
	}

	var ambient, lightColor ml.Vec3
	lightDir := ml.Vec3{0, -1, 0}
	for _, l := range p.Scene.Lights() {
		switch l := l.(type) {
		case *scene.AmbientLight:
			ambient = ambient.Add(linear(l.Color(), l.Intensity()))
		case *scene.PointLight:
			lightDir = l.Direction()
			lightColor = linear(l.Color(), l.IntensityAt(ml.Vec3{}))
		}
	}

	vp := p.Camera.ViewProjection()
	for _, r := range p.Scene.Renderables() {
		g := r.Geometry()
		m := r.Material()
		base := linear(m.Color, 1)
		emissive := linear(m.Emissive, 1+m.DisplacementScale())
		model := r.Position()

		for i := 0; i < g.Count(); i++ {
			local := g.At(i)
			clip := vp.Mul4x1(local.Add(model).Vec4(1))
			if clip[3] <= 0 {
				continue
			}
			ndc := clip.Vec3().Mul(1 / clip[3])
			if ndc[2] < -1 || ndc[2] > 1 {
				continue
			}
			x := int((ndc[0] + 1) / 2 * float32(c.w))
			y := int((1 - ndc[1]) / 2 * float32(c.h))
			if x < 0 || x >= c.w || y < 0 || y >= c.h {
				continue
			}
			k := y*c.w + x
			if ndc[2] >= c.depth[k] {
				continue
			}
			c.depth[k] = ndc[2]

			col := base
			if len(c.Colors) > 0 && c.Radius > 0 {
				t := local.Len()/c.Radius - 1
				col = linear(c.Colors.At(float64(ml.Clamp(t, 0, 1))), 1)
			}
			n := local.Normalize()
			diffuse := math32.Max(n.Dot(lightDir.Mul(-1)), 0)
			light := ambient.Add(lightColor.Mul(diffuse))
			c.hdr[k] = ml.Vec3{col[0] * light[0], col[1] * light[1], col[2] * light[2]}.Add(emissive)
		}
	}
}

func luminance(v ml.Vec3) float32 {
	return 0.2126*v[0] + 0.7152*v[1] + 0.0722*v[2]
}

func (c *Composer) renderBloom(p *render.BloomPass) {
	for i, v := range c.hdr {
		if luminance(v) > p.Threshold {
			c.bloom[i] = v
		} else {
			c.bloom[i] = ml.Vec3{}
		}
	}

	r := 1 + int(p.Radius*8*c.ratio)
	boxBlur(c.tmp, c.bloom, c.w, c.h, r, 1, 0)
	boxBlur(c.bloom, c.tmp, c.w, c.h, r, 0, 1)

	for i := range c.bloom {
		c.bloom[i] = c.bloom[i].Mul(p.Strength)
	}
}

// boxBlur averages src over 2r+1 pixels along (dx, dy) into dst.
func boxBlur(dst, src []ml.Vec3, w, h, r, dx, dy int) {
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			var sum ml.Vec3
			n := 0
			for k := -r; k <= r; k++ {
				sx, sy := x+k*dx, y+k*dy
				if sx < 0 || sx >= w || sy < 0 || sy >= h {
					continue
				}
				sum = sum.Add(src[sy*w+sx])
				n++
			}
			dst[y*w+x] = sum.Mul(1 / float32(n))
		}
	}
}

func (c *Composer) renderOutput(p *render.OutputPass, bloom bool) {
	exposure := p.Exposure
	if exposure <= 0 {
		exposure = 1
	}
	for i, v := range c.hdr {
		c.frame.Pix[4*i], c.frame.Pix[4*i+1], c.frame.Pix[4*i+2], c.frame.Pix[4*i+3] = toRGBA(v, exposure)
	}
	if !bloom {
		return
	}
	for i, v := range c.bloom {
		c.glow.SetRGBA(i%c.w, i/c.w, rgba(toRGBA(v, exposure)))
	}
	blend.BlendImage(c.frame, c.glow, blend.Screen)
}

func rgba(r, g, b, a uint8) color.RGBA {
	return color.RGBA{r, g, b, a}
}

// toRGBA tone maps with the ACES filmic fit and encodes as sRGB.
func toRGBA(v ml.Vec3, exposure float32) (uint8, uint8, uint8, uint8) {
	v = v.Mul(exposure / 0.6)
	v = acesInput.Mul3x1(v)
	for i := range v {
		a := v[i]*(v[i]+0.0245786) - 0.000090537
		b := v[i]*(0.983729*v[i]+0.4329510) + 0.238081
		v[i] = a / b
	}
	v = acesOutput.Mul3x1(v)
	return srgb(v[0]), srgb(v[1]), srgb(v[2]), 255
}

var (
	acesInput = ml.Mat3{
		0.59719, 0.07600, 0.02840,
		0.35458, 0.90834, 0.13383,
		0.04823, 0.01566, 0.83777,
	}
	acesOutput = ml.Mat3{
		1.60475, -0.10208, -0.00327,
		-0.53108, 1.10813, -0.07276,
		-0.07367, -0.00605, 1.07602,
	}
)

func srgb(c float32) uint8 {
	c = ml.Clamp(c, 0, 1)
	if c <= 0.0031308 {
		c *= 12.92
	} else {
		c = 1.055*math32.Pow(c, 1/2.4) - 0.055
	}
	return uint8(ml.Clamp(c*255+0.5, 0, 255))
}
