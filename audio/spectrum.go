package audio

import (
	"errors"
	"math"
	"math/cmplx"

	"github.com/ktye/fft"
)

// PeakFrequency returns the frequency of the strongest bin in the spectrum
// of buf. The buffer is windowed and zero padded to a power of two, so the
// result is accurate to sampleRate/len(padded buffer).
func PeakFrequency(buf []float64, sampleRate int) (float64, error) {
	if len(buf) < 2 {
		return 0, errors.New("spectrum: need at least 2 samples")
	}
	size := 1
	for size < len(buf) {
		size <<= 1
	}
	f, err := fft.New(size)
	if err != nil {
		return 0, err
	}
	x := make([]complex128, size)
	for i, s := range buf {
		w := (1 - math.Cos(2*math.Pi*float64(i)/float64(len(buf)))) / 2
		x[i] = complex(s*w, 0)
	}
	x = f.Transform(x)

	peak, bin := 0., 0
	for k := 1; k <= size/2; k++ {
		if m := cmplx.Abs(x[k]); m > peak {
			peak, bin = m, k
		}
	}
	return float64(bin) * float64(sampleRate) / float64(size), nil
}
