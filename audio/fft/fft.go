package fft

import (
	"fmt"
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"github.com/mjibson/go-dsp/window"

	"github.com/Arcadia24/voice-interaction-three/audio/util"
)

// FFTProcessor windows time domain frames and transforms them.
type FFTProcessor struct {
	SampleRate float64
	Size       int

	window []float64
}

// NewFFTProcessor creates a processor for frames of the given size using a
// Blackman window.
func NewFFTProcessor(sampleRate float64, size int) *FFTProcessor {
	return &FFTProcessor{
		SampleRate: sampleRate,
		Size:       size,
		window:     window.Blackman(size),
	}
}

// Transform returns the spectrum of a windowed copy of frame.
func (f *FFTProcessor) Transform(frame []float64) ([]complex128, error) {
	if len(frame) != f.Size {
		return nil, fmt.Errorf("fft: frame size %d, expected %d", len(frame), f.Size)
	}
	fx := make([]float64, len(frame))
	for i := range frame {
		fx[i] = frame[i] * f.window[i]
	}
	return fft.FFTReal(fx), nil
}

// Process transforms every frame read from in until done is closed or in is
// closed. Frames of the wrong size are dropped.
func (f *FFTProcessor) Process(done <-chan struct{}, in <-chan []float64) <-chan []complex128 {
	out := make(chan []complex128)

	go func() {
		defer close(out)
		for {
			select {
			case <-done:
				return
			case fx, ok := <-in:
				if !ok {
					return
				}
				Fx, err := f.Transform(fx)
				if err != nil {
					continue
				}
				select {
				case out <- Fx:
				case <-done:
					return
				}
			}
		}
	}()

	return out
}

// SpectrumConfig configures a ByteSpectrum.
type SpectrumConfig struct {
	// Bins is the number of output amplitudes.
	Bins int
	// Size is the FFT size the input spectra were computed with.
	Size int
	// SampleRate of the analysed signal, needed only when Size > 2*Bins.
	SampleRate float64
	// Smoothing is the time constant in [0, 1) blending each frame with the last.
	Smoothing float64
	// MinDecibels and MaxDecibels are mapped to 0 and 255.
	MinDecibels float64
	MaxDecibels float64
}

// DefaultSpectrumConfig yields 32 bins from a 64 point FFT, smoothed at 0.8
// over [-100, -30] dB.
var DefaultSpectrumConfig = SpectrumConfig{
	Bins:        32,
	Size:        64,
	Smoothing:   0.8,
	MinDecibels: -100,
	MaxDecibels: -30,
}

// ByteSpectrum turns FFT output into byte amplitudes: magnitudes are
// normalized by the FFT size, smoothed over time, converted to decibels and
// scaled linearly from [MinDecibels, MaxDecibels] into [0, 255].
//
// When the FFT has more bins than requested the magnitudes are averaged into
// mel spaced buckets first.
type ByteSpectrum struct {
	cfg      SpectrumConfig
	bucketer *util.Bucketer
	smoothed []float64
}

// NewByteSpectrum validates cfg and creates a converter.
func NewByteSpectrum(cfg SpectrumConfig) (*ByteSpectrum, error) {
	if cfg.Bins <= 0 || cfg.Size < 2*cfg.Bins {
		return nil, fmt.Errorf("fft: invalid spectrum size %d for %d bins", cfg.Size, cfg.Bins)
	}
	if cfg.Smoothing < 0 || cfg.Smoothing >= 1 {
		return nil, fmt.Errorf("fft: smoothing %v out of range [0, 1)", cfg.Smoothing)
	}
	if cfg.MaxDecibels <= cfg.MinDecibels {
		return nil, fmt.Errorf("fft: decibel range [%v, %v] is empty", cfg.MinDecibels, cfg.MaxDecibels)
	}
	b := &ByteSpectrum{
		cfg:      cfg,
		smoothed: make([]float64, cfg.Bins),
	}
	if cfg.Size > 2*cfg.Bins {
		if cfg.SampleRate <= 0 {
			return nil, fmt.Errorf("fft: sample rate required to bucket %d bins", cfg.Size/2)
		}
		b.bucketer = util.NewBucketer(util.MelScale, cfg.Bins, cfg.Size/2, 32, cfg.SampleRate/2)
	}
	return b, nil
}

// Bins is the number of amplitudes produced per frame.
func (b *ByteSpectrum) Bins() int {
	return b.cfg.Bins
}

// Convert maps one FFT frame to byte amplitudes.
func (b *ByteSpectrum) Convert(Fx []complex128) ([]uint8, error) {
	half := b.cfg.Size / 2
	if len(Fx) < half {
		return nil, fmt.Errorf("fft: spectrum has %d bins, expected %d", len(Fx), b.cfg.Size)
	}
	mag := make([]float64, half)
	N := float64(b.cfg.Size)
	for i := range mag {
		mag[i] = cmplx.Abs(Fx[i]) / N
	}
	if b.bucketer != nil {
		var err error
		if mag, err = b.bucketer.Average(mag); err != nil {
			return nil, err
		}
	}

	tau := b.cfg.Smoothing
	lo, hi := b.cfg.MinDecibels, b.cfg.MaxDecibels
	scale := 255 / (hi - lo)
	out := make([]uint8, b.cfg.Bins)
	for i := range out {
		s := tau*b.smoothed[i] + (1-tau)*mag[i]
		if math.IsNaN(s) || math.IsInf(s, 0) {
			s = 0
		}
		b.smoothed[i] = s

		v := scale * (20*math.Log10(s) - lo)
		switch {
		case v <= 0 || math.IsNaN(v):
			out[i] = 0
		case v >= 255:
			out[i] = 255
		default:
			out[i] = uint8(v)
		}
	}
	return out, nil
}

// Process converts every FFT frame read from in.
func (b *ByteSpectrum) Process(done <-chan struct{}, in <-chan []complex128) <-chan []uint8 {
	out := make(chan []uint8)

	go func() {
		defer close(out)
		for {
			select {
			case <-done:
				return
			case Fx, ok := <-in:
				if !ok {
					return
				}
				bs, err := b.Convert(Fx)
				if err != nil {
					continue
				}
				select {
				case out <- bs:
				case <-done:
					return
				}
			}
		}
	}()

	return out
}
