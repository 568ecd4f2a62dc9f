package audio

import "sync/atomic"

// Output is the last module in the graph. It renders its mono input and
// spreads it over the device channels.
type Output struct {
	*Props
	Input SignalModule

	volume  *atomic.Value
	panning *atomic.Value
	mono    []float64
}

func NewOutput(props *Props) *Output {
	return &Output{
		Props:   props,
		volume:  props.MustRegister("volume", setUnit, 1.),
		panning: props.MustRegister("panning", setUnit, .5),
	}
}

// Fill renders len(buf)/ChannelCount frames into the interleaved buf. buf is
// only written when the whole graph rendered without an error.
func (o *Output) Fill(buf []float32, info OutputInfo) error {
	channels := info.ChannelCount
	if channels < 1 {
		channels = 1
	}
	frames := len(buf) / channels
	mono, err := input(&o.mono, o.Input, frames, info, 0)
	if err != nil {
		return err
	}

	volume := o.volume.Load().(float64)
	gains := make([]float64, channels)
	for c := range gains {
		gains[c] = volume
	}
	if channels == 2 {
		pan := o.panning.Load().(float64)
		gains[0] *= panGain(1 - pan)
		gains[1] *= panGain(pan)
	}
	for i, s := range mono {
		for c, g := range gains {
			buf[i*channels+c] = float32(s * g)
		}
	}
	for i := frames * channels; i < len(buf); i++ {
		buf[i] = 0
	}
	return nil
}

// panGain is 1 for the centre position and falls off linearly towards the
// opposite side.
func panGain(p float64) float64 {
	if g := 2 * p; g < 1 {
		return g
	}
	return 1
}
