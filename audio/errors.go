package audio

import (
	"errors"
	"fmt"
)

var (
	// ErrBusy is returned by a shared module that is locked by another
	// caller, either the control thread or a cycle in the graph.
	ErrBusy = errors.New("module is busy")
	// ErrPoisoned is returned by a shared module after it panicked once.
	ErrPoisoned = errors.New("module is poisoned")
	// ErrTriangle is returned for the triangle waveform, which is not implemented.
	ErrTriangle = errors.New("triangle waveform is not implemented")
)

// ConfigError is returned when an output cannot be set up.
type ConfigError struct {
	Op  string
	Err error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("audio config: %s: %v", e.Op, e.Err)
}

func (e *ConfigError) Unwrap() error { return e.Err }

// IndexError is returned for an out of range step or input index.
type IndexError struct {
	What  string
	Index int
	Len   int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("%s index %d out of range [0, %d)", e.What, e.Index, e.Len)
}
