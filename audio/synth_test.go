package audio

import (
	"errors"
	"testing"
	"time"
)

type failingModule struct {
	err   error
	panic bool
}

func (m failingModule) Fill(buf []float64, info OutputInfo) error {
	if m.panic {
		panic("broken")
	}
	for i := range buf {
		buf[i] = 1
	}
	return m.err
}

func TestSynthRender(t *testing.T) {
	out := NewOutput(NewProps())
	out.Input = Constant(0.5)
	s := NewSynth(out, 4, 2)

	buf := make([]float32, 8)
	s.Render(buf, time.Time{})
	for i, f := range buf {
		if f != 0.5 {
			t.Fatalf("sample %d: want 0.5, got %v", i, f)
		}
	}
	if s.Elapsed() != 4 {
		t.Errorf("want 4 frames rendered, got %d", s.Elapsed())
	}

	mustSetProp(t, out, "panning", 0.)
	s.Render(buf, time.Time{})
	if buf[0] != 0.5 || buf[1] != 0 {
		t.Errorf("panned left: want [0.5 0], got %v", buf[:2])
	}
}

func TestSynthSilenceOnError(t *testing.T) {
	for _, m := range []failingModule{{err: errors.New("oops")}, {panic: true}} {
		out := NewOutput(NewProps())
		out.Input = m
		s := NewSynth(out, 4, 1)
		buf := []float32{1, 1, 1, 1}
		s.Render(buf, time.Time{})
		for i, f := range buf {
			if f != 0 {
				t.Errorf("sample %d: want silence, got %v", i, f)
			}
		}
	}
}

func TestSynthBusyHandle(t *testing.T) {
	h := Share("osc", NewOscillator(NewProps()))
	out := NewOutput(NewProps())
	out.Input = h
	s := NewSynth(out, 4, 1)
	buf := []float32{1, 1, 1, 1}
	h.Update(func() {
		s.Render(buf, time.Now())
	})
	for i, f := range buf {
		if f != 0 {
			t.Errorf("sample %d: want silence while the module is locked, got %v", i, f)
		}
	}
}

func TestFloatConversion(t *testing.T) {
	tests := []struct {
		in  float32
		i16 int16
		u16 uint16
	}{
		{0, 0, 32768},
		{1, 32767, 65535},
		{-1, -32767, 1},
		{2, 32767, 65535},
		{-2, -32767, 1},
	}
	for _, tt := range tests {
		if got := FloatToInt16(tt.in); got != tt.i16 {
			t.Errorf("int16(%v): want %d, got %d", tt.in, tt.i16, got)
		}
		if got := FloatToUint16(tt.in); got != tt.u16 {
			t.Errorf("uint16(%v): want %d, got %d", tt.in, tt.u16, got)
		}
	}
}
