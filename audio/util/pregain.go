package util

import (
	"math"

	"github.com/golang/glog"
)

// PreGainParams tune the automatic input gain. Smoothing weights the new RMS
// measurement against the running one, Kp and Kd are the controller gains.
type PreGainParams struct {
	Smoothing float64
	Kp        float64
	Kd        float64
}

// DefaultPreGainParams keep a quiet microphone in a useful range without
// pumping on transients.
var DefaultPreGainParams = PreGainParams{
	Smoothing: 0.05,
	Kp:        0.002,
	Kd:        0.01,
}

const (
	maxPreGain = 1e6
	minPreGain = 1e-6
)

// PreGain scales the signal so that its RMS energy hovers around 1.
type PreGain struct {
	params PreGainParams
	rms    float64
	gain   float64
	err    float64
}

// NewPreGain returns a new PreGain stage.
func NewPreGain(params PreGainParams) *PreGain {
	return &PreGain{
		params: params,
		gain:   1.0,
		rms:    1.0,
	}
}

// Gain is the gain that will be applied to the next frame.
func (p *PreGain) Gain() float64 {
	return p.gain
}

// Apply pre-gain to the frame in place and return it.
func (p *PreGain) Apply(frame []float64) []float64 {
	if len(frame) == 0 {
		return frame
	}
	sum := 0.0
	for i := range frame {
		frame[i] *= p.gain
		sum += frame[i] * frame[i]
	}

	rms := math.Sqrt(2.0 * sum / float64(len(frame)))
	a := p.params.Smoothing
	p.rms = a*rms + (1-a)*p.rms

	e := logCurve(0.0000001 + p.rms)
	u := p.params.Kp*e + p.params.Kd*(e-p.err)
	p.gain += u
	if p.gain > maxPreGain {
		p.gain = maxPreGain
	} else if p.gain < minPreGain {
		p.gain = minPreGain
	}
	p.err = e

	if glog.V(3) {
		glog.Infof("rms = %.02f\tpregain = %.02f", p.rms, p.gain)
	}
	return frame
}

// logCurve is positive below 1 and negative above, growing with the distance
// in octaves.
func logCurve(x float64) float64 {
	sign := 1.0
	if x > 0 {
		sign = -1.0
	}
	return sign * (math.Log2(math.Abs(x)))
}
