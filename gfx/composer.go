package gfx

import (
	"fmt"
	"time"

	"github.com/go-gl/gl/v4.1-core/gl"
	ml "github.com/go-gl/mathgl/mgl32"
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/Arcadia24/voice-interaction-three/render"
	"github.com/Arcadia24/voice-interaction-three/scene"
)

const bloomMips = 5

// Composer is the OpenGL implementation of render.Composer. Passes render
// into half float targets sized to the viewport; the output pass draws to the
// window.
type Composer struct {
	passes []render.Pass

	ratio         float32
	width, height int
	err           error

	sceneFB *Framebuffer
	bright  *Framebuffer
	mipsH   [bloomMips]*Framebuffer
	mipsV   [bloomMips]*Framebuffer
	bloomFB *Framebuffer

	meshProg    *Program
	brightProg  *Program
	blurProg    *Program
	combineProg *Program
	outputProg  *Program

	quad   *quad
	meshes map[*scene.Geometry]*MeshBuffer
	start  time.Time
}

// NewComposer compiles the programs and allocates the render targets. The
// GL context must be current.
func NewComposer() (*Composer, error) {
	c := &Composer{
		ratio:  1,
		meshes: make(map[*scene.Geometry]*MeshBuffer),
		start:  time.Now(),
	}

	progs := []struct {
		p    **Program
		vert string
		frag string
		name string
	}{
		{&c.meshProg, meshVertexShader, meshFragmentShader, "mesh"},
		{&c.brightProg, quadVertexShader, brightFragmentShader, "bright"},
		{&c.blurProg, quadVertexShader, blurFragmentShader, "blur"},
		{&c.combineProg, quadVertexShader, combineFragmentShader, "combine"},
		{&c.outputProg, quadVertexShader, outputFragmentShader, "output"},
	}
	for _, p := range progs {
		prog, err := NewProgram(
			&ShaderConfig{Typ: VertexShaderType, Source: p.vert},
			&ShaderConfig{Typ: FragmentShaderType, Source: p.frag},
		)
		if err != nil {
			c.Delete()
			return nil, fmt.Errorf("%s program: %w", p.name, err)
		}
		*p.p = prog
	}

	var err error
	if c.sceneFB, err = NewFramebuffer(1, 1, true); err != nil {
		c.Delete()
		return nil, err
	}
	for _, fb := range c.targets()[1:] {
		if *fb, err = NewFramebuffer(1, 1, false); err != nil {
			c.Delete()
			return nil, err
		}
	}
	c.quad = newQuad()
	return c, nil
}

// targets lists every render target, the scene target first.
func (c *Composer) targets() []**Framebuffer {
	t := []**Framebuffer{&c.sceneFB, &c.bright, &c.bloomFB}
	for i := range c.mipsH {
		t = append(t, &c.mipsH[i], &c.mipsV[i])
	}
	return t
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

// SetSize implements render.Sizer. Allocation failures are reported by the
// next Render.
func (c *Composer) SetSize(w, h int) {
	c.width, c.height = w, h
	c.resize()
}

func (c *Composer) resize() {
	if c.width == 0 || c.height == 0 {
		return
	}
	w, h := render.BufferSize(c.width, c.height, c.ratio)
	check := func(err error) {
		if err != nil && c.err == nil {
			c.err = err
		}
	}
	check(c.sceneFB.Resize(w, h))
	check(c.bright.Resize(w, h))
	check(c.bloomFB.Resize(w, h))
	mw, mh := w, h
	for i := 0; i < bloomMips; i++ {
		mw, mh = (mw+1)/2, (mh+1)/2
		check(c.mipsH[i].Resize(mw, mh))
		check(c.mipsV[i].Resize(mw, mh))
	}
}

// Render implements render.Composer.
func (c *Composer) Render() error {
	if c.err != nil {
		return c.err
	}
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
	return CheckError()
}

func linear(col colorful.Color, k float32) ml.Vec3 {
	r, g, b := col.LinearRgb()
	return ml.Vec3{float32(r) * k, float32(g) * k, float32(b) * k}
}

func (c *Composer) renderScene(p *render.ScenePass) {
	c.sceneFB.Bind()
	gl.Enable(gl.DEPTH_TEST)
	gl.ClearColor(0, 0, 0, 1)
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)

	prog := c.meshProg
	prog.Use()
	prog.SetMat4("view", p.Camera.View())
	prog.SetMat4("projection", p.Camera.Projection())
	prog.SetFloat("time", float32(time.Since(c.start).Seconds()))

	var ambient, lightColor ml.Vec3
	lightDir := ml.Vec3{0, -1, 0}
	directional := false
	for _, l := range p.Scene.Lights() {
		switch l := l.(type) {
		case *scene.AmbientLight:
			ambient = ambient.Add(linear(l.Color(), l.Intensity()))
		case *scene.PointLight:
			if !directional {
				lightDir = l.Direction()
				lightColor = linear(l.Color(), l.IntensityAt(ml.Vec3{}))
				directional = true
			}
		}
	}
	prog.SetVec3("ambient", ambient)
	prog.SetVec3("lightDir", lightDir)
	prog.SetVec3("lightColor", lightColor)

	for _, r := range p.Scene.Renderables() {
		g := r.Geometry()
		mb, ok := c.meshes[g]
		if !ok {
			mb = NewMeshBuffer(g)
			c.meshes[g] = mb
		}
		mb.Sync(g)

		pos := r.Position()
		model := ml.Translate3D(pos[0], pos[1], pos[2])
		prog.SetMat4("model", model)
		prog.SetMat3("normalMatrix", model.Mat3().Inv().Transpose())

		m := r.Material()
		prog.SetVec3("color", linear(m.Color, 1))
		prog.SetVec3("emissive", linear(m.Emissive, 1))
		prog.SetFloat("displacementScale", m.DisplacementScale())

		if m.Wireframe {
			gl.PolygonMode(gl.FRONT_AND_BACK, gl.LINE)
		}
		mb.Draw()
		gl.PolygonMode(gl.FRONT_AND_BACK, gl.FILL)
	}
	gl.Disable(gl.DEPTH_TEST)
}

func (c *Composer) renderBloom(p *render.BloomPass) {
	c.bright.Bind()
	c.brightProg.Use()
	c.sceneFB.BindTexture(0)
	c.brightProg.SetInt("tex", 0)
	c.brightProg.SetFloat("threshold", p.Threshold)
	c.quad.Draw()

	c.blurProg.Use()
	c.blurProg.SetInt("tex", 0)
	src := c.bright
	for i := 0; i < bloomMips; i++ {
		h, v := c.mipsH[i], c.mipsV[i]
		c.blurProg.SetVec2("resolution", float32(h.Width), float32(h.Height))

		h.Bind()
		src.BindTexture(0)
		c.blurProg.SetVec2("direction", 1, 0)
		c.quad.Draw()

		v.Bind()
		h.BindTexture(0)
		c.blurProg.SetVec2("direction", 0, 1)
		c.quad.Draw()

		src = v
	}

	c.bloomFB.Bind()
	c.combineProg.Use()
	for i := 0; i < bloomMips; i++ {
		c.mipsV[i].BindTexture(uint32(i))
		c.combineProg.SetInt(fmt.Sprintf("blur%d", i), int32(i))
	}
	c.combineProg.SetFloat("strength", p.Strength)
	c.combineProg.SetFloat("radius", p.Radius)
	c.quad.Draw()
}

func (c *Composer) renderOutput(p *render.OutputPass, bloom bool) {
	gl.BindFramebuffer(gl.FRAMEBUFFER, 0)
	gl.Viewport(0, 0, c.sceneFB.Width, c.sceneFB.Height)
	gl.Clear(gl.COLOR_BUFFER_BIT)

	c.outputProg.Use()
	c.sceneFB.BindTexture(0)
	c.bloomFB.BindTexture(1)
	c.outputProg.SetInt("scene", 0)
	c.outputProg.SetInt("bloom", 1)
	has := int32(0)
	if bloom {
		has = 1
	}
	c.outputProg.SetInt("hasBloom", has)
	exposure := p.Exposure
	if exposure <= 0 {
		exposure = 1
	}
	c.outputProg.SetFloat("exposure", exposure)
	c.quad.Draw()
}

// Delete frees every GL object owned by the composer.
func (c *Composer) Delete() {
	for _, p := range []*Program{c.meshProg, c.brightProg, c.blurProg, c.combineProg, c.outputProg} {
		if p != nil {
			p.Delete()
		}
	}
	for _, fb := range c.targets() {
		if *fb != nil {
			(*fb).Delete()
		}
	}
	for _, m := range c.meshes {
		m.Delete()
	}
	if c.quad != nil {
		c.quad.Delete()
	}
}

// Renderer sizes the default framebuffer viewport.
type Renderer struct {
	ratio float32
}

// SetPixelRatio implements render.Sizer.
func (r *Renderer) SetPixelRatio(ratio float32) {
	r.ratio = ratio
}

// SetSize implements render.Sizer.
func (r *Renderer) SetSize(w, h int) {
	if r.ratio <= 0 {
		r.ratio = 1
	}
	bw, bh := render.BufferSize(w, h, r.ratio)
	gl.Viewport(0, 0, int32(bw), int32(bh))
}
