package audio

import (
	"fmt"
	"math"
	"sync/atomic"
)

// Attenuverter scales Signal by the Control input plus the gain property,
// capped at 1. A negative gain inverts the signal.
type Attenuverter struct {
	*Props
	Signal  SignalModule
	Control SignalModule

	gain        *atomic.Value
	controlGain *atomic.Value
	control     []float64
}

func NewAttenuverter(props *Props) *Attenuverter {
	return &Attenuverter{
		Props:       props,
		gain:        props.MustRegister("gain", setFloat64(-1, 1), 0.),
		controlGain: props.MustRegister("control_gain", setFloat64(-10, 10), 1.),
	}
}

func (a *Attenuverter) Fill(buf []float64, info OutputInfo) error {
	if a.Signal == nil {
		zero(buf)
		return nil
	}
	if err := a.Signal.Fill(buf, info); err != nil {
		return fmt.Errorf("attenuverter signal: %w", err)
	}
	control, err := input(&a.control, a.Control, len(buf), info, 0)
	if err != nil {
		return fmt.Errorf("attenuverter control: %w", err)
	}
	gain := a.gain.Load().(float64)
	cg := a.controlGain.Load().(float64)
	for i := range buf {
		buf[i] *= math.Min(1, control[i]*cg+gain)
	}
	return nil
}
