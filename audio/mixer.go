package audio

import (
	"fmt"
	"math"
	"strconv"
	"sync/atomic"
)

const (
	MixNone     = "none"
	MixCompress = "compress"
	MixLimit    = "limit"
)

type mixerInput struct {
	module SignalModule
	level  *atomic.Value
}

// Mixer sums its inputs, each scaled by its level.<n> property, and then
// applies the post processing selected by the mode property:
//
//	none      the sum is passed through
//	compress  if the peak of the buffer is 1 or more, the buffer is divided by it
//	limit     samples are clipped to [-1, 1]
type Mixer struct {
	*Props
	mode   *atomic.Value
	inputs []mixerInput
	tmp    []float64
}

func NewMixer(props *Props) *Mixer {
	return &Mixer{
		Props: props,
		mode:  props.MustRegister("mode", setChoice(MixNone, MixCompress, MixLimit), MixNone),
	}
}

// AddInput adds m with the given level and returns its index. Levels are
// in the range [-10, 10].
func (m *Mixer) AddInput(in SignalModule, level float64) int {
	n := len(m.inputs)
	m.inputs = append(m.inputs, mixerInput{
		module: in,
		level:  m.MustRegister("level."+strconv.Itoa(n), setFloat64(-10, 10), level),
	})
	return n
}

func (m *Mixer) NumInputs() int {
	return len(m.inputs)
}

func (m *Mixer) Fill(buf []float64, info OutputInfo) error {
	zero(buf)
	tmp := grow(&m.tmp, len(buf))
	for n, in := range m.inputs {
		if err := in.module.Fill(tmp, info); err != nil {
			return fmt.Errorf("mixer input %d: %w", n, err)
		}
		level := in.level.Load().(float64)
		for i := range buf {
			buf[i] += level * tmp[i]
		}
	}

	switch m.mode.Load().(string) {
	case MixCompress:
		compress(buf)
	case MixLimit:
		limit(buf)
	}
	return nil
}

// compress scales the buffer down so that its peak is 1.
func compress(buf []float64) {
	var peak float64
	for _, s := range buf {
		peak = math.Max(peak, math.Abs(s))
	}
	if peak < 1 {
		return
	}
	for i := range buf {
		buf[i] /= peak
	}
}

func limit(buf []float64) {
	for i, s := range buf {
		buf[i] = math.Max(-1, math.Min(1, s))
	}
}
