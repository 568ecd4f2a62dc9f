package audio

import (
	"fmt"
	"math"
	"sync/atomic"
)

type StepKind int

const (
	StepNormal StepKind = iota
	// StepSkip steps are passed over without waiting for a clock edge.
	StepSkip
	// StepRepeat steps jump back to the first step when they advance.
	StepRepeat
)

var stepKindNames = []string{"normal", "skip", "repeat"}

func (k StepKind) String() string {
	if k < 0 || int(k) >= len(stepKindNames) {
		return fmt.Sprintf("StepKind(%d)", int(k))
	}
	return stepKindNames[k]
}

func ParseStepKind(s string) (StepKind, error) {
	for i, name := range stepKindNames {
		if s == name {
			return StepKind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown step kind %q", s)
}

type Step struct {
	Kind  StepKind
	Value float64
	Slide float64 // not used yet
}

const (
	EdgeRising  = "rising"
	EdgeFalling = "falling"
	EdgeBoth    = "both"
)

// Sequencer outputs the value of its current step and moves to the next step
// on every edge of the Clock signal while it is playing. An edge is a change
// between two samples larger than the tolerance property, in the direction
// selected by the edge property.
type Sequencer struct {
	*Props
	Clock SignalModule

	cycle     *atomic.Value
	edge      *atomic.Value
	tolerance *atomic.Value

	steps   []Step
	current int
	playing atomic.Bool
	clock   []float64

	// last clock sample of the previous buffer
	prev    float64
	hasPrev bool
}

func NewSequencer(props *Props) *Sequencer {
	return &Sequencer{
		Props:     props,
		cycle:     props.MustRegister("cycle", setBool, true),
		edge:      props.MustRegister("edge", setChoice(EdgeRising, EdgeFalling, EdgeBoth), EdgeFalling),
		tolerance: props.MustRegister("tolerance", setFloat64(0, 2), 0.8),
	}
}

func (s *Sequencer) Start()        { s.playing.Store(true) }
func (s *Sequencer) Stop()         { s.playing.Store(false) }
func (s *Sequencer) Playing() bool { return s.playing.Load() }

func (s *Sequencer) AddStep(step Step) int {
	s.steps = append(s.steps, step)
	return len(s.steps) - 1
}

func (s *Sequencer) RemoveStep(i int) error {
	if err := s.checkIndex(i); err != nil {
		return err
	}
	s.steps = append(s.steps[:i], s.steps[i+1:]...)
	if s.current >= len(s.steps) && s.current > 0 {
		s.current = len(s.steps) - 1
	}
	return nil
}

func (s *Sequencer) SetStep(i int, step Step) error {
	if err := s.checkIndex(i); err != nil {
		return err
	}
	s.steps[i] = step
	return nil
}

// Steps returns a copy of the steps.
func (s *Sequencer) Steps() []Step {
	return append([]Step(nil), s.steps...)
}

// Step returns the index of the current step.
func (s *Sequencer) Step() int {
	return s.current
}

// Advance moves to the next step whether the sequencer is playing or not.
func (s *Sequencer) Advance() {
	s.increment(true, true)
}

func (s *Sequencer) checkIndex(i int) error {
	if i < 0 || i >= len(s.steps) {
		return &IndexError{What: "step", Index: i, Len: len(s.steps)}
	}
	return nil
}

func (s *Sequencer) increment(force, checkSkip bool) {
	n := len(s.steps)
	if n == 0 {
		return
	}
	cycle := s.cycle.Load().(bool)
	if !force && !cycle && s.current == n-1 {
		return
	}

	if s.steps[s.current].Kind == StepRepeat {
		s.current = 0
	} else {
		s.current++
		if s.current == n {
			if cycle {
				s.current = 0
			} else {
				s.Stop()
				s.current = n - 1
			}
		}
	}

	if s.steps[s.current].Kind == StepSkip {
		if checkSkip && s.allSkip() {
			// nothing left to play
			s.current = 0
			return
		}
		s.increment(force, false)
	}
}

func (s *Sequencer) allSkip() bool {
	for _, step := range s.steps {
		if step.Kind != StepSkip {
			return false
		}
	}
	return true
}

func (s *Sequencer) value() float64 {
	if s.current < len(s.steps) {
		return s.steps[s.current].Value
	}
	return 0
}

func (s *Sequencer) Fill(buf []float64, info OutputInfo) error {
	if !s.Playing() {
		s.hasPrev = false
		fill(buf, s.value())
		return nil
	}

	clock, err := input(&s.clock, s.Clock, len(buf), info, 0)
	if err != nil {
		return fmt.Errorf("sequencer clock: %w", err)
	}
	edge := s.edge.Load().(string)
	tolerance := s.tolerance.Load().(float64)

	filled := 0
	for i := range buf {
		prev := s.prev
		if i > 0 {
			prev = clock[i-1]
		} else if !s.hasPrev {
			continue
		}
		cur := clock[i]
		var step bool
		switch edge {
		case EdgeBoth:
			step = math.Abs(prev-cur) > tolerance
		case EdgeFalling:
			step = cur < prev-tolerance
		case EdgeRising:
			step = cur > prev+tolerance
		}
		if step {
			fill(buf[filled:i], s.value())
			filled = i
			s.increment(false, true)
		}
	}
	fill(buf[filled:], s.value())
	if len(clock) > 0 {
		s.prev, s.hasPrev = clock[len(clock)-1], true
	}
	return nil
}

func fill(buf []float64, v float64) {
	for i := range buf {
		buf[i] = v
	}
}
