package audio

import (
	"fmt"
	"sync"
	"time"
)

// Handle wraps a module that is used from more than one place in the graph.
//
// The render thread never waits for the lock: when the control thread is in
// Update, or when the module is reached again while it is rendering (a cycle),
// Fill and Notes return ErrBusy. A module that panics is poisoned and every
// later call returns ErrPoisoned. Output is remembered for the last sample
// range so that every consumer in one pass sees the same samples.
type Handle struct {
	name   string
	module interface{}

	mu       sync.Mutex
	poisoned bool

	memoValid bool
	memoRange SampleRange
	memoTime  time.Time
	memoBuf   []float64
	memoNotes []NoteInterval
}

// Share wraps m, which should implement SignalModule, NoteModule or both.
func Share(name string, m interface{}) *Handle {
	return &Handle{name: name, module: m}
}

func (h *Handle) Name() string { return h.name }

// Module returns the wrapped module. Use Update to modify it.
func (h *Handle) Module() interface{} { return h.module }

// Update runs f with the module locked. The cached output is dropped.
func (h *Handle) Update(f func()) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.memoValid = false
	f()
}

func (h *Handle) Poisoned() bool {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.poisoned
}

func (h *Handle) Fill(buf []float64, info OutputInfo) error {
	m, ok := h.module.(SignalModule)
	if !ok {
		return fmt.Errorf("%s: not a signal module", h.name)
	}
	if !h.mu.TryLock() {
		return fmt.Errorf("%s: %w", h.name, ErrBusy)
	}
	defer h.mu.Unlock()
	if h.poisoned {
		return fmt.Errorf("%s: %w", h.name, ErrPoisoned)
	}
	if h.cached(info) && len(h.memoBuf) == len(buf) {
		copy(buf, h.memoBuf)
		return nil
	}

	if err := h.call(func() error { return m.Fill(buf, info) }); err != nil {
		return err
	}
	h.remember(info)
	h.memoNotes = nil
	h.memoBuf = append(h.memoBuf[:0], buf...)
	return nil
}

func (h *Handle) Notes(n int, info OutputInfo) ([]NoteInterval, error) {
	m, ok := h.module.(NoteModule)
	if !ok {
		return nil, fmt.Errorf("%s: not a note module", h.name)
	}
	if !h.mu.TryLock() {
		return nil, fmt.Errorf("%s: %w", h.name, ErrBusy)
	}
	defer h.mu.Unlock()
	if h.poisoned {
		return nil, fmt.Errorf("%s: %w", h.name, ErrPoisoned)
	}
	if h.cached(info) && h.memoNotes != nil {
		return h.memoNotes, nil
	}

	var notes []NoteInterval
	err := h.call(func() error {
		var err error
		notes, err = m.Notes(n, info)
		return err
	})
	if err != nil {
		return nil, err
	}
	if notes == nil {
		notes = []NoteInterval{}
	}
	h.remember(info)
	h.memoBuf = h.memoBuf[:0]
	h.memoNotes = notes
	return notes, nil
}

func (h *Handle) cached(info OutputInfo) bool {
	return h.memoValid && h.memoRange == info.Range && h.memoTime.Equal(info.Timestamp)
}

func (h *Handle) remember(info OutputInfo) {
	h.memoValid = true
	h.memoRange = info.Range
	h.memoTime = info.Timestamp
}

// call runs f and turns a panic into ErrPoisoned.
func (h *Handle) call(f func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			h.poisoned = true
			h.memoValid = false
			err = fmt.Errorf("%s: %w: %v", h.name, ErrPoisoned, r)
		}
	}()
	return f()
}
