package audio

import (
	"fmt"
	"math"
	"sync/atomic"
)

const numCoefficients = 5

// Filter is a resonant lowpass filter on the Signal input.
type Filter struct {
	*Props
	Signal SignalModule

	cutoff       *atomic.Value
	q            *atomic.Value
	coefficients [numCoefficients]float64

	// state
	y1, y2 float64 // y[n-1] y[n-2]
}

func NewFilter(props *Props) *Filter {
	return &Filter{
		Props:  props,
		cutoff: props.MustRegister("cutoff", setFloat64(20, 20_000), 20_000.),
		q:      props.MustRegister("q", setFloat64(0.1, 20), 1.),
	}
}

func (f *Filter) Fill(buf []float64, info OutputInfo) error {
	if f.Signal == nil {
		zero(buf)
		return nil
	}
	if err := f.Signal.Fill(buf, info); err != nil {
		return fmt.Errorf("filter signal: %w", err)
	}
	cutoff := math.Min(f.cutoff.Load().(float64), 0.49*float64(info.SampleRate))
	f.calculateCoefficients(cutoff, f.q.Load().(float64), float64(info.SampleRate))
	f.process(buf)
	return nil
}

// Lowpass filter based on https://www.w3.org/2011/audio/audio-eq-cookbook.html
func (f *Filter) process(buf []float64) {
	c0 := f.coefficients[0]
	c1 := f.coefficients[1]
	c2 := f.coefficients[2]
	c3 := f.coefficients[3]
	c4 := f.coefficients[4]

	for n := range buf {
		in := buf[n]
		out := c0*in + f.y1
		buf[n] = out
		f.y1 = c1*in - c3*out + f.y2
		f.y2 = c2*in - c4*out
	}
}

func (f *Filter) calculateCoefficients(freq, q, sampleRate float64) {
	omega := 2 * math.Pi * freq / sampleRate
	cos := math.Cos(omega)
	sin := math.Sin(omega)
	alpha := sin / (2. * q)

	b0 := (1 - cos) / 2
	b1 := 1 - cos
	b2 := b0
	a0 := 1 + alpha
	a1 := -2 * cos
	a2 := 1 - alpha

	f.coefficients[0] = b0 / a0
	f.coefficients[1] = b1 / a0
	f.coefficients[2] = b2 / a0
	f.coefficients[3] = a1 / a0
	f.coefficients[4] = a2 / a0
}
