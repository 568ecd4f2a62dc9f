package audio

import (
	"fmt"
	"log"
	"sort"
	"sync"

	"gitlab.com/gomidi/midi/v2"
)

type event struct {
	note Note
	on   bool
}

// LiveNotes is a note source for notes played while the synth runs, from a
// MIDI keyboard or the command line. NoteOn and NoteOff are safe for
// concurrent use, the render side reads the queue without locking.
type LiveNotes struct {
	mu     sync.Mutex // serializes producers
	events *eventBuffer

	active   map[Note]bool
	deferred []event
}

func NewLiveNotes() *LiveNotes {
	return &LiveNotes{
		events: newEventBuffer(256),
		active: make(map[Note]bool),
	}
}

func (l *LiveNotes) NoteOn(n Note) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.push(event{note: n, on: true})
}

func (l *LiveNotes) NoteOff(n Note) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.push(event{note: n})
}

func (l *LiveNotes) push(ev event) {
	if !l.events.push(ev) {
		log.Printf("live: event queue full, dropping %v", ev.note)
	}
}

// Notes applies the events received since the last call at the start of the
// buffer. A note that is released in the same buffer it started in is
// released at the start of the next one, so every note sounds for at least
// one buffer.
func (l *LiveNotes) Notes(n int, info OutputInfo) ([]NoteInterval, error) {
	var notes []NoteInterval
	for note := range l.active {
		notes = append(notes, NoteInterval{Note: note})
	}
	sort.Slice(notes, func(i, j int) bool { return notes[i].Note.MIDI() < notes[j].Note.MIDI() })

	index := func(note Note) int {
		for i := range notes {
			if notes[i].Note == note && notes[i].End == nil {
				return i
			}
		}
		return -1
	}
	started := make(map[Note]bool)
	apply := func(ev event) {
		i := index(ev.note)
		switch {
		case ev.on && i < 0:
			notes = append(notes, NoteInterval{Note: ev.note, Start: intPtr(0)})
			l.active[ev.note] = true
			started[ev.note] = true
		case ev.on:
			// pressed again before a deferred release took effect
			l.deferred = dropRelease(l.deferred, ev.note)
		case !ev.on && i >= 0 && started[ev.note]:
			l.deferred = append(l.deferred, ev)
		case !ev.on && i >= 0:
			notes[i].End = intPtr(0)
			delete(l.active, ev.note)
		}
	}

	deferred := l.deferred
	l.deferred = nil
	for _, ev := range deferred {
		apply(ev)
	}
	l.events.drain(apply)
	return notes, nil
}

func dropRelease(events []event, n Note) []event {
	kept := events[:0]
	for _, ev := range events {
		if ev.on || ev.note != n {
			kept = append(kept, ev)
		}
	}
	return kept
}

// ListenMIDI plays the notes received on the named MIDI input port. The
// returned function stops listening.
func ListenMIDI(port string, l *LiveNotes) (func(), error) {
	in, err := midi.FindInPort(port)
	if err != nil {
		return nil, fmt.Errorf("find midi port %q: %w", port, err)
	}
	stop, err := midi.ListenTo(in, func(msg midi.Message, timestampms int32) {
		var ch, key, vel uint8
		switch {
		case msg.GetNoteStart(&ch, &key, &vel):
			l.NoteOn(NoteFromMIDI(key))
		case msg.GetNoteEnd(&ch, &key):
			l.NoteOff(NoteFromMIDI(key))
		}
	})
	if err != nil {
		return nil, fmt.Errorf("listen to midi port %q: %w", port, err)
	}
	return stop, nil
}

// MIDIPorts lists the names of the available MIDI input ports.
func MIDIPorts() []string {
	var names []string
	for _, in := range midi.GetInPorts() {
		names = append(names, in.String())
	}
	return names
}
