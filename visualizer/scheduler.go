// Package visualizer drives the frame loop: each tick captures the current
// spectrum, deforms the mesh, advances the camera controls and renders.
package visualizer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/golang/glog"

	"github.com/Arcadia24/voice-interaction-three/audio"
)

// ErrClosed is returned by a Display whose window was closed.
var ErrClosed = errors.New("visualizer: display closed")

// Analyser provides the latest spectrum without blocking.
type Analyser interface {
	Capture() audio.Spectrum
	CaptureAggregate() float64
}

// Deformer applies a spectrum to the mesh.
type Deformer interface {
	Apply(spectrum []uint8, aggregate float64) error
}

// Controls advance interactive camera movement by one step.
type Controls interface {
	Update() bool
}

// Renderer presents one frame.
type Renderer interface {
	Render() error
}

// Display is the refresh source. Present shows the rendered frame, delivers
// pending window events and returns at the next refresh.
type Display interface {
	Present(ctx context.Context) error
}

// Scheduler runs ticks on a single goroutine. Work from other goroutines is
// handed to it with Post.
type Scheduler struct {
	analyser Analyser
	engine   Deformer
	controls Controls
	pipeline Renderer

	mu      sync.Mutex
	pending []func()

	stop     chan struct{}
	stopOnce sync.Once

	frames   uint64
	fpsStart time.Time
}

// NewScheduler creates a scheduler. controls may be nil.
func NewScheduler(a Analyser, e Deformer, c Controls, r Renderer) *Scheduler {
	return &Scheduler{
		analyser: a,
		engine:   e,
		controls: c,
		pipeline: r,
		stop:     make(chan struct{}),
	}
}

// Post queues fn to run on the loop before the next tick. It never blocks
// and may be called from any goroutine, including from within a tick.
func (s *Scheduler) Post(fn func()) {
	s.mu.Lock()
	s.pending = append(s.pending, fn)
	s.mu.Unlock()
}

func (s *Scheduler) drain() {
	s.mu.Lock()
	fns := s.pending
	s.pending = nil
	s.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}

// Tick runs one frame: capture, deform, controls, render.
func (s *Scheduler) Tick() error {
	spectrum := s.analyser.Capture()
	aggregate := s.analyser.CaptureAggregate()

	if err := s.engine.Apply(spectrum, aggregate); err != nil {
		return fmt.Errorf("deforming: %w", err)
	}
	if s.controls != nil {
		s.controls.Update()
	}
	if err := s.pipeline.Render(); err != nil {
		glog.Errorf("visualizer: render failed: %v", err)
		return fmt.Errorf("rendering: %w", err)
	}

	s.frames++
	s.logFPS()
	return nil
}

func (s *Scheduler) logFPS() {
	if !glog.V(1) {
		return
	}
	if s.fpsStart.IsZero() {
		s.fpsStart = time.Now()
		return
	}
	if s.frames%100 == 0 {
		now := time.Now()
		glog.Infof("visualizer: %.1f fps", 100/now.Sub(s.fpsStart).Seconds())
		s.fpsStart = now
	}
}

// Frames is the number of completed ticks.
func (s *Scheduler) Frames() uint64 {
	return s.frames
}

// Run loops posted work, Tick and Present until ctx is done, Stop is called
// or the display is closed, in which cases it returns nil. Errors from a tick
// or the display end the loop and are returned.
func (s *Scheduler) Run(ctx context.Context, d Display) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-s.stop:
			return nil
		default:
		}

		s.drain()
		if err := s.Tick(); err != nil {
			return err
		}
		if err := d.Present(ctx); err != nil {
			if errors.Is(err, ErrClosed) {
				glog.Info("visualizer: display closed")
				return nil
			}
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
	}
}

// Stop ends Run after the current tick.
func (s *Scheduler) Stop() {
	s.stopOnce.Do(func() { close(s.stop) })
}
