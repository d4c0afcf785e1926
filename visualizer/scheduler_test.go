package visualizer

import (
	"context"
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/Arcadia24/voice-interaction-three/audio"
)

type recorder struct {
	log []string
}

func (r *recorder) add(s string) { r.log = append(r.log, s) }

type fakeAnalyser struct {
	*recorder
	spectrum audio.Spectrum
}

func (a *fakeAnalyser) Capture() audio.Spectrum {
	a.add("capture")
	return a.spectrum
}

func (a *fakeAnalyser) CaptureAggregate() float64 {
	a.add("aggregate")
	return audio.Aggregate(a.spectrum)
}

type fakeEngine struct {
	*recorder
	spectra   [][]uint8
	aggregate float64
	err       error
}

func (e *fakeEngine) Apply(s []uint8, agg float64) error {
	e.add("apply")
	e.spectra = append(e.spectra, s)
	e.aggregate = agg
	return e.err
}

type fakeControls struct{ *recorder }

func (c *fakeControls) Update() bool {
	c.add("controls")
	return false
}

type fakeRenderer struct {
	*recorder
	err error
}

func (r *fakeRenderer) Render() error {
	r.add("render")
	return r.err
}

// manual is a Display driven by the test.
type manual struct {
	*recorder
	presents int
	onPresent func(n int) error
}

func (m *manual) Present(ctx context.Context) error {
	m.add("present")
	m.presents++
	if m.onPresent != nil {
		return m.onPresent(m.presents)
	}
	return nil
}

type fixture struct {
	rec      *recorder
	analyser *fakeAnalyser
	engine   *fakeEngine
	renderer *fakeRenderer
	sched    *Scheduler
}

func newFixture() *fixture {
	rec := &recorder{}
	f := &fixture{
		rec:      rec,
		analyser: &fakeAnalyser{recorder: rec, spectrum: audio.Spectrum{64, 64}},
		engine:   &fakeEngine{recorder: rec},
		renderer: &fakeRenderer{recorder: rec},
	}
	f.sched = NewScheduler(f.analyser, f.engine, &fakeControls{rec}, f.renderer)
	return f
}

func TestTickOrder(t *testing.T) {
	f := newFixture()
	if err := f.sched.Tick(); err != nil {
		t.Fatal(err)
	}
	expected := []string{"capture", "aggregate", "apply", "controls", "render"}
	if !reflect.DeepEqual(f.rec.log, expected) {
		t.Errorf("expected %v, got %v", expected, f.rec.log)
	}
	if f.engine.aggregate != 64 || !reflect.DeepEqual(f.engine.spectra[0], []uint8{64, 64}) {
		t.Errorf("engine got %v, %v", f.engine.spectra, f.engine.aggregate)
	}
	if f.sched.Frames() != 1 {
		t.Errorf("expected 1 frame, got %d", f.sched.Frames())
	}
}

func TestRunUntilStop(t *testing.T) {
	f := newFixture()
	d := &manual{recorder: f.rec, onPresent: func(n int) error {
		if n == 3 {
			f.sched.Stop()
		}
		return nil
	}}
	if err := f.sched.Run(context.Background(), d); err != nil {
		t.Fatal(err)
	}
	if f.sched.Frames() != 3 || d.presents != 3 {
		t.Errorf("expected 3 ticks, got %d ticks and %d presents", f.sched.Frames(), d.presents)
	}

	tick := []string{"capture", "aggregate", "apply", "controls", "render", "present"}
	for i, s := range f.rec.log {
		if s != tick[i%len(tick)] {
			t.Fatalf("step %d: expected %s, got %s in %v", i, tick[i%len(tick)], s, f.rec.log)
		}
	}
	f.sched.Stop()
}

func TestPostRunsBeforeTick(t *testing.T) {
	f := newFixture()
	f.sched.Post(func() { f.rec.add("resize") })
	d := &manual{recorder: f.rec, onPresent: func(n int) error {
		if n == 1 {
			f.sched.Post(func() { f.rec.add("params") })
		} else {
			f.sched.Stop()
		}
		return nil
	}}
	if err := f.sched.Run(context.Background(), d); err != nil {
		t.Fatal(err)
	}
	if f.rec.log[0] != "resize" {
		t.Errorf("expected posted work first, got %v", f.rec.log)
	}
	if f.rec.log[7] != "params" || f.rec.log[8] != "capture" {
		t.Errorf("expected posted work between ticks, got %v", f.rec.log)
	}
}

func TestRenderErrorIsFatal(t *testing.T) {
	f := newFixture()
	lost := errors.New("context lost")
	f.renderer.err = lost
	d := &manual{recorder: f.rec}

	err := f.sched.Run(context.Background(), d)
	if !errors.Is(err, lost) {
		t.Errorf("expected render error, got %v", err)
	}
	if d.presents != 0 {
		t.Errorf("expected no present after failed render, got %d", d.presents)
	}
}

func TestDisplayClosed(t *testing.T) {
	f := newFixture()
	d := &manual{recorder: f.rec, onPresent: func(n int) error {
		if n == 2 {
			return ErrClosed
		}
		return nil
	}}
	if err := f.sched.Run(context.Background(), d); err != nil {
		t.Errorf("expected clean exit, got %v", err)
	}
	if f.sched.Frames() != 2 {
		t.Errorf("expected 2 frames, got %d", f.sched.Frames())
	}
}

func TestRunCancel(t *testing.T) {
	f := newFixture()
	ctx, cancel := context.WithCancel(context.Background())
	d := &manual{recorder: f.rec, onPresent: func(n int) error {
		cancel()
		return nil
	}}
	if err := f.sched.Run(ctx, d); err != nil {
		t.Fatal(err)
	}
	if f.sched.Frames() != 1 {
		t.Errorf("expected 1 frame, got %d", f.sched.Frames())
	}
}

func TestRunCancelDuringPresent(t *testing.T) {
	f := newFixture()
	ctx, cancel := context.WithCancel(context.Background())
	d := &manual{recorder: f.rec, onPresent: func(n int) error {
		cancel()
		return ctx.Err()
	}}
	if err := f.sched.Run(ctx, d); err != nil {
		t.Errorf("expected clean exit, got %v", err)
	}
}

func TestSilentAnalyserStillRenders(t *testing.T) {
	f := newFixture()
	f.analyser.spectrum = make(audio.Spectrum, 32)
	for i := 0; i < 5; i++ {
		if err := f.sched.Tick(); err != nil {
			t.Fatal(err)
		}
	}
	if f.engine.aggregate != 0 || len(f.engine.spectra) != 5 {
		t.Errorf("unexpected engine input %v %v", f.engine.aggregate, len(f.engine.spectra))
	}
}

func TestTicker(t *testing.T) {
	frames := 0
	tk := NewTicker(1000, func() error {
		frames++
		return nil
	})
	defer tk.Close()

	start := time.Now()
	for i := 0; i < 3; i++ {
		if err := tk.Present(context.Background()); err != nil {
			t.Fatal(err)
		}
	}
	if frames != 3 {
		t.Errorf("expected 3 frames, got %d", frames)
	}
	if time.Since(start) > time.Second {
		t.Error("ticker too slow")
	}
}
