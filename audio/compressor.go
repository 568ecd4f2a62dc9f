package audio

import (
	"fmt"
	"math"
	"sync/atomic"
)

// Compressor keeps its output within [-1, 1] with a gain factor that follows
// the signal level. A sample whose magnitude plus the over property exceeds
// the factor raises it at once; otherwise the factor falls back towards 1 at
// a rate set by slew, the time in microseconds to fall by 1.
type Compressor struct {
	*Props
	Signal SignalModule

	slew   *atomic.Value
	over   *atomic.Value
	factor float64
}

func NewCompressor(props *Props) *Compressor {
	return &Compressor{
		Props:  props,
		slew:   props.MustRegister("slew", setFloat64(1, 60e6), 1e6),
		over:   props.MustRegister("over", setUnit, 0.1),
		factor: 1,
	}
}

func (c *Compressor) Fill(buf []float64, info OutputInfo) error {
	if c.Signal == nil {
		zero(buf)
		return nil
	}
	if err := c.Signal.Fill(buf, info); err != nil {
		return fmt.Errorf("compressor signal: %w", err)
	}
	over := c.over.Load().(float64)
	decay := (1e6 / float64(info.SampleRate)) / c.slew.Load().(float64)
	for i, s := range buf {
		if level := math.Abs(s) + over; level > c.factor {
			c.factor = level
		} else {
			c.factor = math.Max(1, c.factor-decay)
		}
		buf[i] = s / c.factor
	}
	return nil
}
