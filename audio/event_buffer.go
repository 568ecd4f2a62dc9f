package audio

import "sync/atomic"

// eventBuffer is a lock-free single producer, single consumer queue of note
// events. The size must be a power of 2.
type eventBuffer struct {
	events      []event
	mask        uint32
	read, write atomic.Uint32
}

func newEventBuffer(size int) *eventBuffer {
	if size <= 0 || size&(size-1) != 0 {
		panic("event buffer size must be a power of 2")
	}
	return &eventBuffer{events: make([]event, size), mask: uint32(size - 1)}
}

// push appends ev and reports false when the buffer is full.
func (b *eventBuffer) push(ev event) bool {
	write := b.write.Load()
	if write-b.read.Load() == uint32(len(b.events)) {
		return false
	}
	b.events[write&b.mask] = ev
	b.write.Store(write + 1)
	return true
}

// drain calls f for every queued event in order and empties the buffer.
func (b *eventBuffer) drain(f func(event)) {
	read, write := b.read.Load(), b.write.Load()
	for ; read != write; read++ {
		f(b.events[read&b.mask])
	}
	b.read.Store(read)
}
