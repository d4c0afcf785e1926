package audio

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"
)

type fakeDevice struct {
	mu        sync.Mutex
	running   bool
	resumes   int
	openErr   error
	resumeErr error
	frames    chan []float32
}

func (d *fakeDevice) OpenMicrophone(ctx context.Context) (*Stream, error) {
	if d.openErr != nil {
		return nil, d.openErr
	}
	d.frames = make(chan []float32)
	return NewStream(d.frames, nil, nil), nil
}

func (d *fakeDevice) Resume(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.resumes++
	if d.resumeErr != nil {
		return d.resumeErr
	}
	d.running = true
	return nil
}

func (d *fakeDevice) Running() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.running
}

func (d *fakeDevice) Resumes() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.resumes
}

type fakeGestures struct {
	mu   sync.Mutex
	next int
	fns  map[int]func()
}

func (g *fakeGestures) OnPointerDown(fn func()) func() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.fns == nil {
		g.fns = make(map[int]func())
	}
	id := g.next
	g.next++
	g.fns[id] = fn
	return func() {
		g.mu.Lock()
		defer g.mu.Unlock()
		delete(g.fns, id)
	}
}

func (g *fakeGestures) fire() {
	g.mu.Lock()
	var fns []func()
	for _, fn := range g.fns {
		fns = append(fns, fn)
	}
	g.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

func (g *fakeGestures) listeners() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.fns)
}

type fakeConnector struct {
	mu    sync.Mutex
	nodes []*SourceNode
}

func (c *fakeConnector) Connect(node *SourceNode) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nodes = append(c.nodes, node)
}

func (c *fakeConnector) connected() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.nodes)
}

func wait(t *testing.T, what string, ch <-chan struct{}) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for %s", what)
	}
}

func TestContextResumesOnFirstGesture(t *testing.T) {
	dev := &fakeDevice{}
	g := &fakeGestures{}
	c := NewContext(context.Background(), dev, &fakeConnector{}, g)

	if s := c.State(); s != Suspended {
		t.Fatalf("expected suspended, got %v", s)
	}
	if g.listeners() != 1 {
		t.Fatalf("expected one gesture listener, got %d", g.listeners())
	}

	g.fire()
	g.fire()
	wait(t, "gesture handling", c.GestureHandled())

	if s := c.State(); s != Running {
		t.Errorf("expected running, got %v", s)
	}
	if n := c.ResumeAttempts(); n != 1 {
		t.Errorf("expected 1 resume attempt, got %d", n)
	}
	if n := dev.Resumes(); n != 1 {
		t.Errorf("expected device resumed once, got %d", n)
	}
	if g.listeners() != 0 {
		t.Errorf("expected listener removed, got %d", g.listeners())
	}
}

func TestContextResumeFailureIsFinal(t *testing.T) {
	dev := &fakeDevice{resumeErr: errors.New("not allowed")}
	g := &fakeGestures{}
	c := NewContext(context.Background(), dev, &fakeConnector{}, g)

	g.fire()
	wait(t, "gesture handling", c.GestureHandled())
	g.fire()

	if s := c.State(); s != Suspended {
		t.Errorf("expected suspended after failed resume, got %v", s)
	}
	if n := dev.Resumes(); n != 1 {
		t.Errorf("expected a single resume attempt, got %d", n)
	}
	if g.listeners() != 0 {
		t.Errorf("expected listener removed after failure, got %d", g.listeners())
	}
}

func TestContextAlreadyRunning(t *testing.T) {
	dev := &fakeDevice{running: true}
	g := &fakeGestures{}
	c := NewContext(context.Background(), dev, &fakeConnector{}, g)

	if s := c.State(); s != Running {
		t.Fatalf("expected running, got %v", s)
	}
	g.fire()
	wait(t, "gesture handling", c.GestureHandled())

	if n := c.ResumeAttempts(); n != 0 {
		t.Errorf("expected no resume attempt, got %d", n)
	}
	if g.listeners() != 0 {
		t.Errorf("expected listener removed, got %d", g.listeners())
	}
}

func TestContextConnectsMicrophone(t *testing.T) {
	conn := &fakeConnector{}
	c := NewContext(context.Background(), &fakeDevice{}, conn, &fakeGestures{})
	wait(t, "microphone", c.MicrophoneReady())

	if err := c.MicrophoneErr(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n := conn.connected(); n != 1 {
		t.Errorf("expected one connected source, got %d", n)
	}
	if err := c.Close(); err != nil {
		t.Error(err)
	}
}

func TestContextMicrophoneDenied(t *testing.T) {
	denied := errors.New("permission denied")
	conn := &fakeConnector{}
	g := &fakeGestures{}
	c := NewContext(context.Background(), &fakeDevice{openErr: denied}, conn, g)
	wait(t, "microphone", c.MicrophoneReady())

	if err := c.MicrophoneErr(); !errors.Is(err, denied) {
		t.Errorf("expected %v, got %v", denied, err)
	}
	if n := conn.connected(); n != 0 {
		t.Errorf("expected nothing connected, got %d", n)
	}

	// the context stays usable
	g.fire()
	wait(t, "gesture handling", c.GestureHandled())
	if s := c.State(); s != Running {
		t.Errorf("expected running, got %v", s)
	}
}
