package audio

import (
	"fmt"
	"sync/atomic"
)

type envelopeStage int

const (
	stageDone envelopeStage = iota
	stageAttack
	stageDecay
	stageSustain
	stageRelease
)

// Envelope is an ADSR envelope generator. Stage times are in milliseconds.
// The envelope starts its attack when the Trigger signal rises above the
// tolerance and its release when it drops below again. Without a Trigger
// input it only moves through Trigger and Release calls.
type Envelope struct {
	*Props
	Trigger SignalModule

	attack    *atomic.Value
	decay     *atomic.Value
	sustain   *atomic.Value
	release   *atomic.Value
	tolerance *atomic.Value

	val       float64
	stage     envelopeStage
	triggered bool
	trig      []float64
}

func NewEnvelope(props *Props) *Envelope {
	return &Envelope{
		Props:     props,
		attack:    props.MustRegister("attack", setEnvParam, 0.),
		decay:     props.MustRegister("decay", setEnvParam, 0.),
		sustain:   props.MustRegister("sustain", setUnit, 1.),
		release:   props.MustRegister("release", setEnvParam, 0.),
		tolerance: props.MustRegister("tolerance", setFloat64(-1, 1), 0.5),
	}
}

// envelopeParams is the snapshot of the properties used for one buffer.
type envelopeParams struct {
	attack, decay, sustain, release float64
	step                            float64 // milliseconds per sample
}

func (e *Envelope) params(sampleRate int) envelopeParams {
	return envelopeParams{
		attack:  e.attack.Load().(float64),
		decay:   e.decay.Load().(float64),
		sustain: e.sustain.Load().(float64),
		release: e.release.Load().(float64),
		step:    1000 / float64(sampleRate),
	}
}

// Start begins the attack stage from the current value.
func (e *Envelope) Start() {
	e.stage = stageAttack
	e.triggered = true
}

// Release starts the release stage from the current value.
func (e *Envelope) Release() {
	e.stage = stageRelease
	e.triggered = false
}

// Done reports whether the envelope finished its release, or never started.
func (e *Envelope) Done() bool {
	return e.stage == stageDone
}

func (e *Envelope) value(p envelopeParams) float64 {
	switch e.stage {
	case stageDone:
		return 0
	case stageAttack:
		e.val += p.step / p.attack
		if e.val >= 1 {
			if p.decay > 0 && p.sustain != 1 {
				e.stage = stageDecay
				e.val = 1
			} else {
				e.stage = stageSustain
				e.val = p.sustain
			}
			return 1
		}
	case stageDecay:
		e.val -= p.step * (1 - p.sustain) / p.decay
		if e.val <= p.sustain {
			e.val = p.sustain
			e.stage = stageSustain
		}
	case stageSustain:
		return p.sustain
	case stageRelease:
		e.val -= p.step / p.release
		if e.val <= 0 {
			e.val = 0
			e.stage = stageDone
		}
	}
	return e.val
}

func (e *Envelope) Fill(buf []float64, info OutputInfo) error {
	p := e.params(info.SampleRate)
	if e.Trigger == nil {
		for i := range buf {
			buf[i] = e.value(p)
		}
		return nil
	}

	trig := grow(&e.trig, len(buf))
	if err := e.Trigger.Fill(trig, info); err != nil {
		return fmt.Errorf("envelope trigger: %w", err)
	}
	tolerance := e.tolerance.Load().(float64)
	for i := range buf {
		if triggered := trig[i] > tolerance; triggered != e.triggered {
			if triggered {
				e.Start()
			} else {
				e.Release()
			}
		}
		buf[i] = e.value(p)
	}
	return nil
}
