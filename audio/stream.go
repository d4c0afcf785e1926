package audio

import (
	"context"
	"fmt"
	"sync"

	"github.com/golang/glog"
	"github.com/gordonklaus/portaudio"
)

// Config represents a config that is used to open a new Stream.
type Config struct {
	// BlockSize refers to the buffer size for each block
	BlockSize int
	// Channels is the number of input channels
	Channels int
	// SampleRate is the sample rate (Fs).
	SampleRate float64
}

// DefaultConfig captures mono blocks of 256 samples at 48kHz.
var DefaultConfig = Config{
	BlockSize:  256,
	Channels:   1,
	SampleRate: 48000,
}

// Stream is a capture stream. Frames are mono blocks of samples; the channel
// is closed when the stream ends.
type Stream struct {
	frames <-chan []float32
	errc   <-chan error
	close  func() error
	once   sync.Once
	err    error
}

// NewStream wraps a frame source as a Stream. closeFn may be nil.
func NewStream(frames <-chan []float32, errc <-chan error, closeFn func() error) *Stream {
	return &Stream{frames: frames, errc: errc, close: closeFn}
}

// Frames delivers captured blocks.
func (s *Stream) Frames() <-chan []float32 {
	return s.frames
}

// Errors delivers read errors. A nil channel never delivers.
func (s *Stream) Errors() <-chan error {
	return s.errc
}

// Close releases the underlying device stream.
func (s *Stream) Close() error {
	s.once.Do(func() {
		if s.close != nil {
			s.err = s.close()
		}
	})
	return s.err
}

// PortAudio is the Device backed by the default portaudio input. Streams it
// opens stay silent until Resume starts them.
type PortAudio struct {
	cfg *Config

	mu          sync.Mutex
	initialized bool
	running     bool
	start       chan struct{}
	streams     []*portaudio.Stream
}

// NewPortAudio creates a suspended device. Portaudio itself is initialized
// lazily by the first OpenMicrophone.
func NewPortAudio(cfg *Config) *PortAudio {
	return &PortAudio{cfg: cfg, start: make(chan struct{})}
}

// Running reports whether Resume has succeeded.
func (p *PortAudio) Running() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

// OpenMicrophone opens the default input device.
func (p *PortAudio) OpenMicrophone(ctx context.Context) (*Stream, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.initialized {
		if err := portaudio.Initialize(); err != nil {
			return nil, fmt.Errorf("initializing portaudio: %w", err)
		}
		p.initialized = true
		if glog.V(2) {
			if err := logDevices(); err != nil {
				glog.Warningf("audio: listing devices: %v", err)
			}
		}
	}

	in := make([]float32, p.cfg.BlockSize*p.cfg.Channels)
	stream, err := portaudio.OpenDefaultStream(
		p.cfg.Channels, 0, p.cfg.SampleRate, p.cfg.BlockSize, in)
	if err != nil {
		return nil, fmt.Errorf("opening stream: %w", err)
	}
	if p.running {
		if err := stream.Start(); err != nil {
			stream.Close()
			return nil, fmt.Errorf("starting stream: %w", err)
		}
	}
	p.streams = append(p.streams, stream)

	out := make(chan []float32, 4)
	errc := make(chan error, 1)
	done := make(chan struct{})
	closed := make(chan struct{})

	go func() {
		defer close(closed)
		defer close(out)
		defer stream.Close()

		select {
		case <-p.start:
		case <-done:
			return
		case <-ctx.Done():
			return
		}

		for {
			select {
			case <-done:
				return
			case <-ctx.Done():
				return
			default:
			}

			if err := stream.Read(); err != nil {
				errc <- fmt.Errorf("reading from stream: %w", err)
				return
			}

			select {
			case out <- downmix(in, p.cfg.Channels):
			case <-done:
				return
			case <-ctx.Done():
				return
			}
		}
	}()

	return NewStream(out, errc, func() error {
		close(done)
		<-closed
		p.forget(stream)
		return nil
	}), nil
}

// Resume starts every open stream; later streams start as they open.
func (p *PortAudio) Resume(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.running {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	for _, s := range p.streams {
		if err := s.Start(); err != nil {
			return fmt.Errorf("starting stream: %w", err)
		}
	}
	p.running = true
	close(p.start)
	return nil
}

// Terminate shuts portaudio down. Streams should be closed first.
func (p *PortAudio) Terminate() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.initialized {
		return nil
	}
	p.initialized = false
	return portaudio.Terminate()
}

func (p *PortAudio) forget(s *portaudio.Stream) {
	p.mu.Lock()
	defer p.mu.Unlock()
	for i := range p.streams {
		if p.streams[i] == s {
			p.streams = append(p.streams[:i], p.streams[i+1:]...)
			return
		}
	}
}

// downmix averages interleaved channels into a fresh mono block.
func downmix(in []float32, channels int) []float32 {
	if channels <= 1 {
		out := make([]float32, len(in))
		copy(out, in)
		return out
	}
	out := make([]float32, len(in)/channels)
	for i := range out {
		var s float32
		for c := 0; c < channels; c++ {
			s += in[i*channels+c]
		}
		out[i] = s / float32(channels)
	}
	return out
}
