package audio

import (
	"fmt"
	"math"
	"sync/atomic"
)

type Waveform int

const (
	Sine Waveform = iota
	Triangle
	Saw
	Ramp
	Pulse
)

var waveformNames = map[string]Waveform{
	"sine":     Sine,
	"triangle": Triangle,
	"saw":      Saw,
	"ramp":     Ramp,
	"pulse":    Pulse,
}

func (w Waveform) String() string {
	for name, wf := range waveformNames {
		if wf == w {
			return name
		}
	}
	return fmt.Sprintf("Waveform(%d)", int(w))
}

func setWaveform(v interface{}, dest *atomic.Value) error {
	var w Waveform
	switch val := v.(type) {
	case Waveform:
		w = val
	case string:
		var ok bool
		if w, ok = waveformNames[val]; !ok {
			return fmt.Errorf("not a valid waveform type: %v", val)
		}
	default:
		return fmt.Errorf("value is not a waveform: %v", v)
	}
	if w == Triangle {
		return ErrTriangle
	}
	if w < Sine || w > Pulse {
		return fmt.Errorf("not a valid waveform type: %v", v)
	}
	dest.Store(w)
	return nil
}

// Oscillator generates a basic waveform. The phase is derived from the
// absolute sample index, so two oscillators with the same settings render
// identical output.
//
// Exp and Lin modulate the frequency per sample: freq = base*exp + lin.
// Override, when set, replaces the base frequency with its samples; a NaN
// sample keeps the last frequency it set.
type Oscillator struct {
	*Props
	Exp      SignalModule
	Lin      SignalModule
	Override SignalModule

	wave *atomic.Value
	freq *atomic.Value
	pw   *atomic.Value

	last                     float64
	expBuf, linBuf, override []float64
}

func NewOscillator(props *Props) *Oscillator {
	return &Oscillator{
		Props: props,
		wave:  props.MustRegister("wave", setWaveform, Sine),
		freq:  props.MustRegister("freq", setFloat64(0, 22_050), baseFreqs[C]),
		pw:    props.MustRegister("pw", setUnit, 0.5),
		last:  math.NaN(),
	}
}

func (o *Oscillator) Fill(buf []float64, info OutputInfo) error {
	wave := o.wave.Load().(Waveform)
	if wave == Triangle {
		return ErrTriangle
	}
	base := o.freq.Load().(float64)
	pw := o.pw.Load().(float64)

	exp, err := input(&o.expBuf, o.Exp, len(buf), info, 1)
	if err != nil {
		return fmt.Errorf("oscillator exp input: %w", err)
	}
	lin, err := input(&o.linBuf, o.Lin, len(buf), info, 0)
	if err != nil {
		return fmt.Errorf("oscillator lin input: %w", err)
	}
	override, err := input(&o.override, o.Override, len(buf), info, math.NaN())
	if err != nil {
		return fmt.Errorf("oscillator override input: %w", err)
	}

	sr := float64(info.SampleRate)
	for i := range buf {
		if f := override[i]; !math.IsNaN(f) {
			o.last = f
		}
		f := base
		if !math.IsNaN(o.last) {
			f = o.last
		}
		f = f*exp[i] + lin[i]
		t := f * float64(info.Range.At(i)) / sr

		switch wave {
		case Sine:
			buf[i] = math.Sin(2 * math.Pi * t)
		case Ramp:
			buf[i] = math.Mod(2*t, 2) - 1
		case Saw:
			buf[i] = math.Mod(-2*t, 2) + 1
		case Pulse:
			if math.Mod(t, 1) > pw {
				buf[i] = 1
			} else {
				buf[i] = -1
			}
		}
	}
	return nil
}
