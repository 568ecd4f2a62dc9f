package audio

import (
	"math/rand"
	"sync/atomic"
)

// Noise is a uniform white noise source in [-amp, amp].
type Noise struct {
	*Props
	amp *atomic.Value
	rnd *rand.Rand
}

func NewNoise(props *Props, seed int64) *Noise {
	return &Noise{
		Props: props,
		amp:   props.MustRegister("amp", setUnit, 1.),
		rnd:   rand.New(rand.NewSource(seed)),
	}
}

func (n *Noise) Fill(buf []float64, info OutputInfo) error {
	amp := n.amp.Load().(float64)
	for i := range buf {
		buf[i] = amp * (2*n.rnd.Float64() - 1)
	}
	return nil
}
