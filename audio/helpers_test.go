package audio

import (
	"math"
	"testing"
)

func approxEqual(want, got []float64, eps float64) bool {
	if len(want) != len(got) {
		return false
	}
	for i := range want {
		if math.Abs(want[i]-got[i]) > eps {
			return false
		}
	}
	return true
}

func info(sampleRate, n int) OutputInfo {
	return OutputInfo{
		SampleRate:   sampleRate,
		ChannelCount: 1,
		Range:        SampleRange{First: 1, Len: n},
	}
}

// render fills n samples of m as the first buffer of a stream.
func render(t *testing.T, m SignalModule, sampleRate, n int) []float64 {
	t.Helper()
	buf := make([]float64, n)
	if err := m.Fill(buf, info(sampleRate, n)); err != nil {
		t.Fatal(err)
	}
	return buf
}

func mustSetProp(t *testing.T, d Device, key string, v interface{}) {
	t.Helper()
	if err := d.Set(key, v); err != nil {
		t.Fatal(err)
	}
}

func pulse(t *testing.T, freq, pw float64) *Oscillator {
	t.Helper()
	osc := NewOscillator(NewProps())
	mustSetProp(t, osc, "wave", "pulse")
	mustSetProp(t, osc, "freq", freq)
	mustSetProp(t, osc, "pw", pw)
	return osc
}
