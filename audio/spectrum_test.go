package audio

import (
	"math"
	"testing"
)

func TestPeakFrequency(t *testing.T) {
	const rate = 8000
	for _, freq := range []float64{220, 440, 1000} {
		osc := NewOscillator(NewProps())
		mustSetProp(t, osc, "freq", freq)
		got, err := PeakFrequency(render(t, osc, rate, 4000), rate)
		if err != nil {
			t.Fatal(err)
		}
		// bins are rate/4096 wide
		if math.Abs(got-freq) > 2 {
			t.Errorf("want %v Hz, got %v", freq, got)
		}
	}
	if _, err := PeakFrequency([]float64{1}, rate); err == nil {
		t.Error("expected an error for a single sample")
	}
}
