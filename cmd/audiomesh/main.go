package main

import (
	"context"
	"flag"
	"image/png"
	"math"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/golang/glog"
	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/Arcadia24/voice-interaction-three/audio"
	"github.com/Arcadia24/voice-interaction-three/deform"
	"github.com/Arcadia24/voice-interaction-three/gfx"
	"github.com/Arcadia24/voice-interaction-three/gfx/soft"
	"github.com/Arcadia24/voice-interaction-three/params"
	"github.com/Arcadia24/voice-interaction-three/render"
	"github.com/Arcadia24/voice-interaction-three/scene"
	"github.com/Arcadia24/voice-interaction-three/visualizer"
)

const (
	meshRadius = 4
	meshDetail = 30

	blockSize = 256
)

var (
	width  = flag.Int("width", 1200, "width of window")
	height = flag.Int("height", 800, "height of window")
	vsync  = flag.Bool("vsync", true, "wait for the display refresh between frames")

	headless  = flag.Bool("headless", false, "run without initializing OpenGL display")
	frameRate = flag.Float64("frame-rate", 60,
		"frame rate to target when rendering to something other than opengl")

	snapshot = flag.String("snapshot", "", "png file to write the last headless frame to")

	sampleRate = flag.Float64("sample-rate", 48000, "microphone sample rate")
	preGain    = flag.Bool("pregain", false, "apply automatic gain before analysis")
	console    = flag.Bool("console", false, "read graphql parameter requests from stdin")
)

// autoGesture stands in for a user gesture when there is no window.
type autoGesture struct{}

func (autoGesture) OnPointerDown(fn func()) func() {
	go fn()
	return func() {}
}

// fixedViewport is the headless drawing surface.
type fixedViewport struct {
	w, h int
}

func (v fixedViewport) Size() (int, int) { return v.w, v.h }
func (v fixedViewport) PixelRatio() float32 { return 1 }

func main() {
	flag.Parse()
	defer glog.Flush()

	p, err := loadParameters()
	if err != nil {
		glog.Exitf("loading parameters: %v", err)
	}
	store, err := params.NewStore(p)
	if err != nil {
		glog.Exitf("creating parameter store: %v", err)
	}
	setDebug(p.Debug)

	palette, err := scene.NewPalette(p.Color)
	if err != nil {
		glog.Exitf("creating palette: %v", err)
	}

	// on macOS graphics must be initialized on the main thread, first.
	runtime.LockOSThread()

	var (
		composer render.Composer
		renderer render.Sizer
		viewport render.Viewport
		display  visualizer.Display
		gestures audio.Gestures
		window   *gfx.Window
		cpu      *soft.Composer
	)
	if *headless {
		cpu = soft.NewComposer()
		cpu.Colors = palette.Glow
		cpu.Radius = meshRadius
		tk := visualizer.NewTicker(*frameRate, nil)
		defer tk.Close()

		composer, viewport, display, gestures = cpu, fixedViewport{*width, *height}, tk, autoGesture{}
	} else {
		gctx, err := gfx.NewContext(&gfx.WindowConfig{
			Width: *width, Height: *height,
			Title: "audiomesh",
			VSync: *vsync,
		})
		if err != nil {
			glog.Exitf("error creating display: %v", err)
		}
		defer gctx.Terminate()
		c, err := gfx.NewComposer()
		if err != nil {
			glog.Exitf("error creating composer: %v", err)
		}
		defer c.Delete()

		window = gctx.Window
		composer, renderer, viewport, display, gestures = c, &gfx.Renderer{}, window, window, window
	}

	sc, cam, mesh, controls := newScene(palette, p)

	pipeline, err := render.NewPipeline(sc, cam, composer, bloomPass(p))
	if err != nil {
		glog.Exitf("creating pipeline: %v", err)
	}
	resize := render.NewResizeHandler(viewport, cam, renderer, composer)
	resize.Handle()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	acfg := audio.DefaultAnalyserConfig
	acfg.Spectrum.SampleRate = *sampleRate
	acfg.PreGain = *preGain
	analyser, err := audio.NewAnalyser(ctx, acfg)
	if err != nil {
		glog.Exitf("creating analyser: %v", err)
	}
	device := audio.NewPortAudio(&audio.Config{
		BlockSize:  blockSize,
		Channels:   1,
		SampleRate: *sampleRate,
	})
	defer device.Terminate()
	actx := audio.NewContext(ctx, device, analyser, gestures)
	defer actx.Close()

	strat, _ := deform.ParseStrategy(p.Strategy)
	engine := deform.NewEngine(mesh.Geometry(), mesh.Material(), strat)
	mapper, _ := deform.ParseBinMapper(p.BinMapping)
	engine.SetBinMapper(mapper)

	sched := visualizer.NewScheduler(analyser, engine, controls, pipeline)

	store.OnChange(func(p params.Parameters) {
		sched.Post(func() { apply(p, pipeline, engine, mesh, cpu) })
	})

	if window != nil {
		window.OnResize(func() {
			sched.Post(func() { resize.Handle() })
		})
		window.OnDrag(func(dx, dy float64) {
			_, h := window.Size()
			if h <= 0 {
				return
			}
			controls.Rotate(float32(2*math.Pi*dx/float64(h)), float32(2*math.Pi*dy/float64(h)))
		})
		window.OnScroll(func(dy float64) {
			controls.Zoom(float32(math.Pow(0.95, dy)))
		})
	}

	if *console {
		go func() {
			if err := params.Console(ctx, store, os.Stdin, os.Stdout); err != nil {
				glog.Warningf("console: %v", err)
			}
		}()
	}

	glog.Infof("audiomesh: running with %+v", p)
	if err := sched.Run(ctx, display); err != nil {
		glog.Exitf("audiomesh: %v", err)
	}
	glog.Infof("audiomesh: stopped after %d frames", sched.Frames())

	if cpu != nil && *snapshot != "" {
		if err := writeSnapshot(*snapshot, cpu); err != nil {
			glog.Errorf("writing snapshot: %v", err)
		}
	}
}

func newScene(palette *scene.Palette, p params.Parameters) (*scene.Scene, *scene.PerspectiveCamera, *scene.Mesh, *scene.OrbitControls) {
	mat := scene.NewMaterial(palette.Base)
	mat.Emissive = palette.Emissive
	mat.Wireframe = p.Wireframe
	mesh := scene.NewMesh(scene.NewIcosahedron(meshRadius, meshDetail), mat)

	point := scene.NewPointLight(colorful.Color{R: 1, G: 0x88 / 255.0, B: 0}, 1)
	point.Distance = 100
	point.Decay = 0.005
	point.SetPosition(mgl32.Vec3{10, 10, 10})

	sc := scene.NewScene()
	sc.Add(mesh, scene.NewAmbientLight(colorful.Color{R: 1, G: 1, B: 1}, 2), point)

	cam := scene.NewPerspectiveCamera(scene.DefaultFov, float32(*width)/float32(*height), scene.DefaultNear, scene.DefaultFar)
	cam.SetPosition(mgl32.Vec3{0, 0, 10})
	cam.LookAt(mgl32.Vec3{})

	return sc, cam, mesh, scene.NewOrbitControls(cam)
}

func bloomPass(p params.Parameters) render.BloomPass {
	return render.BloomPass{
		Threshold: float32(p.BloomThreshold),
		Strength:  float32(p.BloomStrength),
		Radius:    float32(p.BloomRadius),
	}
}

// apply runs on the scheduler loop.
func apply(p params.Parameters, pipeline *render.Pipeline, engine *deform.Engine, mesh *scene.Mesh, cpu *soft.Composer) {
	pipeline.SetBloom(bloomPass(p))

	if s, err := deform.ParseStrategy(p.Strategy); err == nil {
		engine.SetStrategy(s)
	}
	if m, err := deform.ParseBinMapper(p.BinMapping); err == nil {
		engine.SetBinMapper(m)
	}

	mat := mesh.Material()
	mat.Wireframe = p.Wireframe
	if palette, err := scene.NewPalette(p.Color); err == nil {
		mat.Color = palette.Base
		mat.Emissive = palette.Emissive
		if cpu != nil {
			cpu.Colors = palette.Glow
		}
	}
	setDebug(p.Debug)
	glog.V(1).Infof("audiomesh: parameters changed: %+v", p)
}

func writeSnapshot(path string, c *soft.Composer) error {
	fp, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(fp, c.Frame()); err != nil {
		fp.Close()
		return err
	}
	return fp.Close()
}
