package audio

import (
	"bytes"
	"testing"
)

func TestWavRoundTrip(t *testing.T) {
	const (
		rate   = 8000
		frames = 1000
	)
	osc := NewOscillator(NewProps())
	mustSetProp(t, osc, "freq", 440.)
	out := NewOutput(NewProps())
	mustSetProp(t, out, "volume", 0.5)
	out.Input = osc
	s := NewSynth(out, 0, 0)

	var buf bytes.Buffer
	if err := s.Play(NewWavWriter(&buf, rate, 1, frames)); err != nil {
		t.Fatal(err)
	}
	if s.SampleRate() != rate || s.Channels() != 1 {
		t.Errorf("negotiated %d Hz %d channels", s.SampleRate(), s.Channels())
	}

	samples, err := ReadSamples(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatal(err)
	}
	want := render(t, osc, rate, frames)
	for i := range want {
		want[i] *= 0.5
	}
	if !approxEqual(want, samples.Data, 1e-3) {
		t.Errorf("rendered samples do not match the oscillator")
	}
}

func TestWavWriterChannels(t *testing.T) {
	if _, err := NewWavWriter(&bytes.Buffer{}, 8000, 3, 10).Negotiate(); err == nil {
		t.Error("expected an error for 3 channels")
	}
}
