package audio

import (
	"math"
	"testing"
)

func TestCompressorPassesQuietSignal(t *testing.T) {
	c := NewCompressor(NewProps())
	c.Signal = Constant(0.5)
	got := render(t, c, 4, 4)
	if want := []float64{0.5, 0.5, 0.5, 0.5}; !approxEqual(want, got, 1e-9) {
		t.Errorf("want %v, got %v", want, got)
	}
}

func TestCompressor(t *testing.T) {
	c := NewCompressor(NewProps())
	signal := make([]float64, 16)
	signal[0] = 3
	c.Signal = &Samples{Data: signal}

	// slew 1s at 4 Hz: the factor falls by 0.25 per sample
	got := render(t, c, 4, 16)
	if want := 3 / 3.1; math.Abs(got[0]-want) > 1e-9 {
		t.Errorf("first sample: want %v, got %v", want, got[0])
	}
	for i, s := range got {
		if math.Abs(s) > 1 {
			t.Errorf("sample %d out of range: %v", i, s)
		}
	}
	if c.factor != 1 {
		t.Errorf("factor should have returned to 1, got %v", c.factor)
	}
}

func TestCompressorSlew(t *testing.T) {
	c := NewCompressor(NewProps())
	mustSetProp(t, c, "slew", 2e6)
	c.Signal = &Samples{Data: []float64{1.9, 0, 0}}
	render(t, c, 4, 3)
	if want := 2.0 - 2*0.125; math.Abs(c.factor-want) > 1e-9 {
		t.Errorf("want factor %v, got %v", want, c.factor)
	}
}
