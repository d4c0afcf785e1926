package audio

import (
	"context"
	"sync"

	"github.com/golang/glog"
	"gonum.org/v1/gonum/floats"

	"github.com/Arcadia24/voice-interaction-three/audio/fft"
	"github.com/Arcadia24/voice-interaction-three/audio/util"
)

// Spectrum is a frame of byte amplitudes, one per frequency bin.
type Spectrum []uint8

// Connector accepts a capture source.
type Connector interface {
	Connect(node *SourceNode)
}

// SourceNode is a capture stream made connectable to analysers.
type SourceNode struct {
	stream *Stream
}

// NewSourceNode wraps s.
func NewSourceNode(s *Stream) *SourceNode {
	return &SourceNode{stream: s}
}

// Frames delivers the captured blocks.
func (n *SourceNode) Frames() <-chan []float32 {
	return n.stream.Frames()
}

// AnalyserConfig configures an Analyser.
type AnalyserConfig struct {
	Spectrum fft.SpectrumConfig
	// PreGain enables automatic input gain before the transform.
	PreGain bool
	// PreGainParams is used when PreGain is set.
	PreGainParams util.PreGainParams
}

// DefaultAnalyserConfig yields 32 bins from a 64 point transform.
var DefaultAnalyserConfig = AnalyserConfig{
	Spectrum:      fft.DefaultSpectrumConfig,
	PreGainParams: util.DefaultPreGainParams,
}

// Analyser exposes the most recent spectrum of a connected source. Until a
// source is connected, and between frames, Capture returns the last published
// spectrum, which starts out as all zeros.
type Analyser struct {
	ctx context.Context
	cfg AnalyserConfig

	mu     sync.RWMutex
	latest Spectrum
	frames uint64
}

// NewAnalyser validates cfg. The processing chain of every connected source
// stops when ctx is done.
func NewAnalyser(ctx context.Context, cfg AnalyserConfig) (*Analyser, error) {
	if _, err := fft.NewByteSpectrum(cfg.Spectrum); err != nil {
		return nil, err
	}
	return &Analyser{
		ctx:    ctx,
		cfg:    cfg,
		latest: make(Spectrum, cfg.Spectrum.Bins),
	}, nil
}

// Bins is the length of every captured spectrum.
func (a *Analyser) Bins() int {
	return a.cfg.Spectrum.Bins
}

// Connect starts the processing chain
// Buffer -> [PreGain] -> FFT -> ByteSpectrum for node.
func (a *Analyser) Connect(node *SourceNode) {
	// config was validated by NewAnalyser
	bs, _ := fft.NewByteSpectrum(a.cfg.Spectrum)
	proc := fft.NewFFTProcessor(a.cfg.Spectrum.SampleRate, a.cfg.Spectrum.Size)
	done := a.ctx.Done()

	frames := Buffer(done, node.Frames(), a.cfg.Spectrum.Size)
	if a.cfg.PreGain {
		pg := util.NewPreGain(a.cfg.PreGainParams)
		frames = NewNodeF64F64(done, frames, pg.Apply)
	}
	spectra := bs.Process(done, proc.Process(done, frames))

	go func() {
		for s := range spectra {
			a.publish(s)
		}
		glog.V(1).Infof("audio: analyser source disconnected")
	}()
}

func (a *Analyser) publish(s Spectrum) {
	a.mu.Lock()
	a.latest = s
	a.frames++
	a.mu.Unlock()
}

// Frames is the number of spectra published so far.
func (a *Analyser) Frames() uint64 {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.frames
}

// Capture returns a copy of the current spectrum.
func (a *Analyser) Capture() Spectrum {
	a.mu.RLock()
	defer a.mu.RUnlock()
	out := make(Spectrum, len(a.latest))
	copy(out, a.latest)
	return out
}

// CaptureAggregate returns the mean amplitude of the current spectrum, in
// [0, 255].
func (a *Analyser) CaptureAggregate() float64 {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return Aggregate(a.latest)
}

// Aggregate is the mean of s, or 0 for an empty spectrum.
func Aggregate(s Spectrum) float64 {
	if len(s) == 0 {
		return 0
	}
	x := make([]float64, len(s))
	for i, v := range s {
		x[i] = float64(v)
	}
	return floats.Sum(x) / float64(len(x))
}
