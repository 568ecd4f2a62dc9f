package audio

import (
	"fmt"
	"sort"
	"time"

	"github.com/mrdg/modsynth/midi"
)

// MIDISource plays the notes of one track and channel of a MIDI file. Each
// call to Notes reads the next window of the timeline, as long as the
// buffer, and converts the note events in it to intervals.
//
// Seek, SetTrack and SetChannel must not run concurrently with Notes; wrap
// the source in a Handle and use Update when it is part of a running graph.
type MIDISource struct {
	timeline *midi.Timeline
	track    int
	channel  int
	pos      time.Duration // start of the next window

	active map[uint8]bool

	// last rendered buffer, replayed when the backend asks again with the
	// same timestamp
	lastTime  time.Time
	lastNotes []NoteInterval
}

func NewMIDISource(tl *midi.Timeline, track, channel int) (*MIDISource, error) {
	s := &MIDISource{timeline: tl, track: track, channel: channel}
	if err := s.Seek(0); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *MIDISource) Timeline() *midi.Timeline { return s.timeline }
func (s *MIDISource) Track() int               { return s.track }
func (s *MIDISource) Channel() int             { return s.channel }
func (s *MIDISource) Position() time.Duration  { return s.pos }

// Done reports whether the position is past the last event of the track.
func (s *MIDISource) Done() bool {
	return s.pos > s.timeline.Tracks[s.track].Length
}

// Seek moves to t. Notes that are sounding at t continue from the start of
// the next buffer.
func (s *MIDISource) Seek(t time.Duration) error {
	if t < 0 {
		return fmt.Errorf("seek to negative time %v", t)
	}
	on, err := s.timeline.NotesOnAbsolute(s.track, s.channel, t)
	if err != nil {
		return err
	}
	s.pos = t
	s.active = make(map[uint8]bool, len(on))
	for _, n := range on {
		s.active[n] = true
	}
	s.lastTime = time.Time{}
	s.lastNotes = nil
	return nil
}

func (s *MIDISource) SetTrack(track int) error {
	return s.selectNotes(track, s.channel)
}

// SetChannel selects a channel, or midi.AllChannels.
func (s *MIDISource) SetChannel(channel int) error {
	return s.selectNotes(s.track, channel)
}

func (s *MIDISource) selectNotes(track, channel int) error {
	prevTrack, prevChannel := s.track, s.channel
	s.track, s.channel = track, channel
	if err := s.Seek(s.pos); err != nil {
		s.track, s.channel = prevTrack, prevChannel
		return err
	}
	return nil
}

// NotesOn returns the notes sounding at the current position.
func (s *MIDISource) NotesOn() []Note {
	notes := make([]Note, 0, len(s.active))
	for _, n := range s.sortedActive() {
		notes = append(notes, NoteFromMIDI(n))
	}
	return notes
}

func (s *MIDISource) sortedActive() []uint8 {
	keys := make([]uint8, 0, len(s.active))
	for n := range s.active {
		keys = append(keys, n)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

func (s *MIDISource) Notes(n int, info OutputInfo) ([]NoteInterval, error) {
	if !info.Timestamp.IsZero() && info.Timestamp.Equal(s.lastTime) {
		return s.lastNotes, nil
	}
	window := time.Duration(n) * time.Second / time.Duration(info.SampleRate)
	delta, err := s.timeline.NotesDelta(s.track, s.channel, s.pos, s.pos+window)
	if err != nil {
		return nil, err
	}

	var notes []NoteInterval
	open := make(map[uint8]int) // note to index of its open interval
	for _, key := range s.sortedActive() {
		open[key] = len(notes)
		notes = append(notes, NoteInterval{Note: NoteFromMIDI(key)})
	}
	for _, ev := range delta.Events {
		i := sampleOffset(ev.Offset, info.SampleRate, n)
		idx, sounding := open[ev.Note]
		switch {
		case ev.Kind == midi.On && !sounding:
			if i >= n {
				i = n - 1
			}
			open[ev.Note] = len(notes)
			notes = append(notes, NoteInterval{Note: NoteFromMIDI(ev.Note), Start: intPtr(i)})
			s.active[ev.Note] = true
		case ev.Kind == midi.Off && sounding:
			notes[idx].End = intPtr(i)
			delete(open, ev.Note)
			delete(s.active, ev.Note)
		}
	}

	s.pos += window
	s.lastTime = info.Timestamp
	s.lastNotes = notes
	return notes, nil
}

// sampleOffset converts an offset into the buffer to a sample index in
// [0, n].
func sampleOffset(offset time.Duration, sampleRate, n int) int {
	if offset <= 0 {
		return 0
	}
	usPerSample := 1e6 / float64(sampleRate)
	i := int(float64(offset.Microseconds()) / usPerSample)
	if i > n {
		return n
	}
	return i
}
