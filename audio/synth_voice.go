package audio

import (
	"fmt"
	"math"
	"strings"
)

// SynthVoice is a subtractive voice: an oscillator playing the note, a
// lowpass filter and an amplifier controlled by an envelope that follows
// the note intervals. Properties are addressed with the name of the module
// they belong to, e.g. osc.wave or env.attack.
type SynthVoice struct {
	Osc    *Oscillator
	Filter *Filter
	Env    *Envelope
	Amp    *Attenuverter

	gate Samples
	freq Samples
}

func NewSynthVoice() *SynthVoice {
	v := &SynthVoice{
		Osc:    NewOscillator(NewProps()),
		Filter: NewFilter(NewProps()),
		Env:    NewEnvelope(NewProps()),
		Amp:    NewAttenuverter(NewProps()),
	}
	v.Osc.Override = &v.freq
	v.Filter.Signal = v.Osc
	v.Env.Trigger = &v.gate
	v.Amp.Signal = v.Filter
	v.Amp.Control = v.Env

	mustSet(v.Osc.Props, "wave", "saw")
	mustSet(v.Filter.Props, "cutoff", 4000.)
	mustSet(v.Env.Props, "attack", 5.)
	mustSet(v.Env.Props, "decay", 100.)
	mustSet(v.Env.Props, "sustain", 0.7)
	mustSet(v.Env.Props, "release", 150.)
	return v
}

func mustSet(p *Props, key string, v interface{}) {
	if err := p.Set(key, v); err != nil {
		panic(err)
	}
}

func (v *SynthVoice) modules() map[string]*Props {
	return map[string]*Props{
		"osc":    v.Osc.Props,
		"filter": v.Filter.Props,
		"env":    v.Env.Props,
		"amp":    v.Amp.Props,
	}
}

func (v *SynthVoice) lookup(key string) (*Props, string, error) {
	i := strings.IndexByte(key, '.')
	if i < 0 {
		return nil, "", fmt.Errorf("unknown property %s", key)
	}
	p, ok := v.modules()[key[:i]]
	if !ok {
		return nil, "", fmt.Errorf("unknown property %s", key)
	}
	return p, key[i+1:], nil
}

func (v *SynthVoice) Set(key string, val interface{}) error {
	p, name, err := v.lookup(key)
	if err != nil {
		return err
	}
	if err := p.Set(name, val); err != nil {
		return fmt.Errorf("voice: %w", err)
	}
	return nil
}

func (v *SynthVoice) Get(key string) (interface{}, error) {
	p, name, err := v.lookup(key)
	if err != nil {
		return nil, err
	}
	return p.Get(name)
}

func (v *SynthVoice) Keys() []string {
	var keys []string
	for _, prefix := range []string{"amp", "env", "filter", "osc"} {
		for _, k := range v.modules()[prefix].Keys() {
			keys = append(keys, prefix+"."+k)
		}
	}
	return keys
}

func (v *SynthVoice) Clone() Voice {
	c := NewSynthVoice()
	c.Update(v)
	return c
}

func (v *SynthVoice) Update(ref Voice) {
	r, ok := ref.(*SynthVoice)
	if !ok || r == v {
		return
	}
	v.Osc.CopyFrom(r.Osc.Props)
	v.Filter.CopyFrom(r.Filter.Props)
	v.Env.CopyFrom(r.Env.Props)
	v.Amp.CopyFrom(r.Amp.Props)
}

func (v *SynthVoice) Render(buf []float64, intervals []NoteInterval, info OutputInfo) error {
	gate := grow(&v.gate.Data, len(buf))
	freq := grow(&v.freq.Data, len(buf))
	for i := range buf {
		gate[i] = 0
		freq[i] = math.NaN()
	}
	for _, iv := range intervals {
		start, end := iv.bounds()
		if end > len(buf) {
			end = len(buf)
		}
		f := iv.Note.Freq()
		for i := start; i < end; i++ {
			gate[i] = 1
			freq[i] = f
		}
	}
	return v.Amp.Fill(buf, info)
}

func (v *SynthVoice) Silent() bool {
	return v.Env.Done()
}
