package render

import (
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/Arcadia24/voice-interaction-three/scene"
)

type fakeViewport struct {
	w, h  int
	ratio float32
}

func (v *fakeViewport) Size() (int, int)    { return v.w, v.h }
func (v *fakeViewport) PixelRatio() float32 { return v.ratio }

// fakeSizer records calls and the camera aspect seen when resized.
type fakeSizer struct {
	name   string
	log    *[]string
	camera *scene.PerspectiveCamera

	ratio        float32
	w, h         int
	aspectAtSize float32
}

func (s *fakeSizer) SetPixelRatio(r float32) {
	s.ratio = r
	*s.log = append(*s.log, s.name+".ratio")
}

func (s *fakeSizer) SetSize(w, h int) {
	s.w, s.h = w, h
	s.aspectAtSize = s.camera.Aspect
	*s.log = append(*s.log, s.name+".size")
}

func (s *fakeSizer) buffer() (int, int) {
	return BufferSize(s.w, s.h, s.ratio)
}

type fakeComposer struct {
	fakeSizer
	passes  []Pass
	renders int
	err     error
	reject  string
}

func (c *fakeComposer) AddPass(p Pass) error {
	if p.Name() == c.reject {
		return UnknownPass(p)
	}
	c.passes = append(c.passes, p)
	return nil
}

func (c *fakeComposer) Render() error {
	c.renders++
	return c.err
}

func newCamera() *scene.PerspectiveCamera {
	return scene.NewPerspectiveCamera(scene.DefaultFov, 1, scene.DefaultNear, scene.DefaultFar)
}

func TestPipelinePassOrder(t *testing.T) {
	cam := newCamera()
	c := &fakeComposer{}
	p, err := NewPipeline(scene.NewScene(), cam, c, BloomPass{Threshold: 0.5, Strength: 0.5, Radius: 0.8})
	if err != nil {
		t.Fatal(err)
	}

	var names []string
	for _, pass := range c.passes {
		names = append(names, pass.Name())
	}
	if !reflect.DeepEqual(names, []string{"scene", "bloom", "output"}) {
		t.Errorf("unexpected pass order %v", names)
	}
	if sp := c.passes[0].(*ScenePass); sp.Camera != cam {
		t.Error("scene pass should render through the pipeline camera")
	}

	p.SetBloom(BloomPass{Threshold: 0.1, Strength: 2, Radius: 0.3})
	if b := c.passes[1].(*BloomPass); b.Strength != 2 || b.Threshold != 0.1 {
		t.Errorf("bloom change not visible to composer: %+v", *b)
	}
	if p.Bloom().Radius != 0.3 {
		t.Errorf("unexpected bloom %+v", p.Bloom())
	}
}

func TestPipelineRejectedPass(t *testing.T) {
	c := &fakeComposer{reject: "bloom"}
	_, err := NewPipeline(scene.NewScene(), newCamera(), c, BloomPass{})
	if !errors.Is(err, ErrUnknownPass) {
		t.Errorf("expected ErrUnknownPass, got %v", err)
	}
}

func TestPipelineRenderError(t *testing.T) {
	lost := fmt.Errorf("context lost")
	c := &fakeComposer{err: lost}
	p, err := NewPipeline(scene.NewScene(), newCamera(), c, BloomPass{})
	if err != nil {
		t.Fatal(err)
	}
	if err := p.Render(); err != lost {
		t.Errorf("expected backend error, got %v", err)
	}
	if c.renders != 1 {
		t.Errorf("expected a single render attempt, got %d", c.renders)
	}
}

func TestResize(t *testing.T) {
	cam := newCamera()
	var log []string
	renderer := &fakeSizer{name: "renderer", log: &log, camera: cam}
	composer := &fakeSizer{name: "composer", log: &log, camera: cam}
	vp := &fakeViewport{}
	h := NewResizeHandler(vp, cam, renderer, composer)

	cases := []fakeViewport{
		{800, 600, 1},
		{1920, 1080, 2},
		{333, 777, 1.5},
		{1920, 1080, 2},
	}
	for _, c := range cases {
		*vp = c
		log = log[:0]
		s := h.Handle()

		aspect := float32(c.w) / float32(c.h)
		if cam.Aspect != aspect {
			t.Errorf("%v: expected aspect %v, got %v", c, aspect, cam.Aspect)
		}
		if s != (ViewportState{c.w, c.h, c.ratio}) {
			t.Errorf("%v: unexpected state %+v", c, s)
		}
		bw, bh := BufferSize(c.w, c.h, c.ratio)
		for _, sz := range []*fakeSizer{renderer, composer} {
			if w, h := sz.buffer(); w != bw || h != bh {
				t.Errorf("%v: %s buffer %dx%d, expected %dx%d", c, sz.name, w, h, bw, bh)
			}
			if sz.aspectAtSize != aspect {
				t.Errorf("%v: %s resized before the camera was updated", c, sz.name)
			}
		}
		expected := []string{"renderer.ratio", "renderer.size", "composer.ratio", "composer.size"}
		if !reflect.DeepEqual(log, expected) {
			t.Errorf("%v: unexpected call order %v", c, log)
		}
	}
}

func TestResizeProjection(t *testing.T) {
	cam := newCamera()
	var log []string
	h := NewResizeHandler(&fakeViewport{1600, 400, 1}, cam, nil, &fakeSizer{name: "composer", log: &log, camera: cam})
	h.Handle()

	expected := scene.NewPerspectiveCamera(scene.DefaultFov, 4, scene.DefaultNear, scene.DefaultFar).Projection()
	if cam.Projection() != expected {
		t.Error("projection matrix not updated")
	}
}

func TestResizeIgnoresZeroArea(t *testing.T) {
	cam := newCamera()
	var log []string
	composer := &fakeSizer{name: "composer", log: &log, camera: cam}
	vp := &fakeViewport{640, 480, 1}
	h := NewResizeHandler(vp, cam, nil, composer)
	h.Handle()

	vp.w, vp.h = 0, 0
	log = log[:0]
	s := h.Handle()
	if len(log) != 0 {
		t.Errorf("expected no buffer changes, got %v", log)
	}
	if s.Width != 640 || cam.Aspect != float32(640)/480 {
		t.Errorf("expected previous state kept, got %+v aspect %v", s, cam.Aspect)
	}
}
