package render

import (
	"fmt"

	"github.com/Arcadia24/voice-interaction-three/scene"
)

// Pipeline owns the scene, the camera and the composer passes
// scene -> bloom -> output.
type Pipeline struct {
	Scene  *scene.Scene
	Camera *scene.PerspectiveCamera

	composer Composer
	bloom    *BloomPass
	output   *OutputPass
}

// NewPipeline adds the passes to c in order.
func NewPipeline(sc *scene.Scene, cam *scene.PerspectiveCamera, c Composer, bloom BloomPass) (*Pipeline, error) {
	p := &Pipeline{
		Scene:    sc,
		Camera:   cam,
		composer: c,
		bloom:    &bloom,
		output:   &OutputPass{Exposure: 1},
	}
	for _, pass := range []Pass{&ScenePass{Scene: sc, Camera: cam}, p.bloom, p.output} {
		if err := c.AddPass(pass); err != nil {
			return nil, fmt.Errorf("adding %s pass: %w", pass.Name(), err)
		}
	}
	return p, nil
}

// Composer is the backend the passes were added to.
func (p *Pipeline) Composer() Composer {
	return p.composer
}

// Bloom returns the current bloom parameters.
func (p *Pipeline) Bloom() BloomPass {
	return *p.bloom
}

// SetBloom changes the bloom parameters from the next frame on.
func (p *Pipeline) SetBloom(b BloomPass) {
	*p.bloom = b
}

// Render runs every pass and presents one frame. Errors come from the
// backend and leave the graphics state undefined.
func (p *Pipeline) Render() error {
	return p.composer.Render()
}
