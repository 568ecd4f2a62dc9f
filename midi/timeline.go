package midi

import (
	"fmt"
	"sort"
	"time"
)

const (
	NumChannels = 16
	// AllChannels selects the merged view of every channel of a track.
	AllChannels = -1
)

type NoteKind int

const (
	On NoteKind = iota
	Off
)

func (k NoteKind) String() string {
	if k == On {
		return "on"
	}
	return "off"
}

// NoteEvent is a note on or off with its position resolved through the
// tempo map.
type NoteEvent struct {
	Tick     uint64
	Time     time.Duration
	Offset   time.Duration // since the start of the query window, only set in a NoteDelta
	Kind     NoteKind
	Channel  uint8
	Note     uint8
	Velocity uint8
}

// NoteDelta holds the note events in the window (From, To]. The Events slice
// may be shared with the timeline's cache and must not be modified.
type NoteDelta struct {
	From, To       time.Duration
	TicksPerSecond float64
	Events         []NoteEvent
}

// ChannelSummary holds the note events of one channel in time order.
type ChannelSummary struct {
	InstrumentName string
	Notes          []NoteEvent

	// next is the index of the first event after the end of the last
	// window read, memo is that window.
	next int
	memo *noteWindow
}

type noteWindow struct {
	from, to time.Duration
	delta    NoteDelta
}

type TrackSummary struct {
	Number            int
	Name              string
	InstrumentName    string
	SequenceNumber    uint16
	HasSequenceNumber bool
	Tempo             uint32 // last tempo set in this track, in microseconds per quarter
	Channels          [NumChannels]ChannelSummary
	Length            time.Duration // time of the last event

	all   ChannelSummary
	tempo *tempoMap
}

// Timeline answers time based note queries for a parsed file. It caches
// read positions and is not safe for concurrent use.
type Timeline struct {
	Header Header
	Tracks []*TrackSummary
}

// LoadTimeline parses the file at path and builds its timeline.
func LoadTimeline(path string) (*Timeline, error) {
	f, err := ParseFile(path)
	if err != nil {
		return nil, err
	}
	return NewTimeline(f)
}

func NewTimeline(f *File) (*Timeline, error) {
	div := f.Header.Division
	if (!div.SMPTE && div.TicksPerQuarter == 0) || (div.SMPTE && (div.FramesPerSecond == 0 || div.TicksPerFrame == 0)) {
		return nil, fmt.Errorf("invalid time division: %+v", div)
	}

	t := &Timeline{Header: f.Header}
	var shared []tempoChange
	perTrack := make([][]tempoChange, len(f.Tracks))
	for i, track := range f.Tracks {
		summary, changes := summarize(i, track)
		t.Tracks = append(t.Tracks, summary)
		perTrack[i] = changes
		shared = append(shared, changes...)
	}

	// Tempo events in a single or multi track file apply to every track,
	// the sequences of a multi sequence file are independent.
	var global *tempoMap
	if f.Header.Format != MultiSequence {
		global = newTempoMap(div, shared)
	}
	for i, ts := range t.Tracks {
		ts.tempo = global
		if ts.tempo == nil {
			ts.tempo = newTempoMap(div, perTrack[i])
		}
		ts.resolve()
	}
	return t, nil
}

func summarize(number int, track Track) (*TrackSummary, []tempoChange) {
	ts := &TrackSummary{Number: number, Tempo: DefaultTempo}
	var changes []tempoChange
	var tick uint64
	prefix := -1
	for _, ev := range track.Events {
		tick += ev.Delta
		ts.Length = time.Duration(tick) // converted in resolve
		switch m := ev.Message.(type) {
		case NoteOn:
			kind := On
			if m.Velocity == 0 {
				kind = Off
			}
			ts.addNote(tick, kind, m.Channel, m.Note, m.Velocity)
		case NoteOff:
			ts.addNote(tick, Off, m.Channel, m.Note, m.Velocity)
		case ChannelPrefix:
			prefix = int(m.Channel)
		case Text:
			switch m.Kind {
			case TrackName:
				if ts.Name == "" {
					ts.Name = m.Text
				}
			case InstrumentName:
				if prefix >= 0 && prefix < NumChannels {
					ts.Channels[prefix].InstrumentName = m.Text
				} else {
					ts.InstrumentName = m.Text
				}
			}
		case SequenceNumber:
			ts.SequenceNumber = m.Number
			ts.HasSequenceNumber = true
		case SetTempo:
			ts.Tempo = m.MicrosPerQuarter
			changes = append(changes, tempoChange{tick: tick, micros: m.MicrosPerQuarter})
		}
	}
	return ts, changes
}

func (ts *TrackSummary) addNote(tick uint64, kind NoteKind, ch, note, vel uint8) {
	if ch >= NumChannels {
		return
	}
	c := &ts.Channels[ch]
	c.Notes = append(c.Notes, NoteEvent{
		Tick:     tick,
		Kind:     kind,
		Channel:  ch,
		Note:     note,
		Velocity: vel,
	})
}

// resolve converts ticks to times and builds the merged channel view.
func (ts *TrackSummary) resolve() {
	ts.Length = ts.tempo.tickToTime(uint64(ts.Length))
	ts.all.Notes = nil
	for ch := range ts.Channels {
		notes := ts.Channels[ch].Notes
		for i := range notes {
			notes[i].Time = ts.tempo.tickToTime(notes[i].Tick)
		}
		ts.all.Notes = append(ts.all.Notes, notes...)
	}
	sort.SliceStable(ts.all.Notes, func(i, j int) bool {
		return ts.all.Notes[i].Tick < ts.all.Notes[j].Tick
	})
}

func (t *Timeline) track(i int) (*TrackSummary, error) {
	if i < 0 || i >= len(t.Tracks) {
		return nil, &IndexError{What: "track", Index: i, Len: len(t.Tracks)}
	}
	return t.Tracks[i], nil
}

func (ts *TrackSummary) channel(ch int) (*ChannelSummary, error) {
	if ch == AllChannels {
		return &ts.all, nil
	}
	if ch < 0 || ch >= NumChannels {
		return nil, &IndexError{What: "channel", Index: ch, Len: NumChannels}
	}
	return &ts.Channels[ch], nil
}

func (t *Timeline) lookup(track, channel int) (*TrackSummary, *ChannelSummary, error) {
	ts, err := t.track(track)
	if err != nil {
		return nil, nil, err
	}
	c, err := ts.channel(channel)
	if err != nil {
		return nil, nil, err
	}
	return ts, c, nil
}

// TicksPerSecond returns the tick rate at the start of a track.
func (t *Timeline) TicksPerSecond(track int) (float64, error) {
	ts, err := t.track(track)
	if err != nil {
		return 0, err
	}
	return ts.tempo.ticksPerSecond(), nil
}

// TickToTime converts a tick position in a track to the time since its start.
func (t *Timeline) TickToTime(track int, tick uint64) (time.Duration, error) {
	ts, err := t.track(track)
	if err != nil {
		return 0, err
	}
	return ts.tempo.tickToTime(tick), nil
}

// TimeToTick converts a time to the last tick at or before it.
func (t *Timeline) TimeToTick(track int, d time.Duration) (uint64, error) {
	ts, err := t.track(track)
	if err != nil {
		return 0, err
	}
	return ts.tempo.timeToTick(d), nil
}

// NotesOnAbsolute replays a channel from the start of the track and returns
// the notes that are sounding at time at, in ascending order.
func (t *Timeline) NotesOnAbsolute(track, channel int, at time.Duration) ([]uint8, error) {
	_, c, err := t.lookup(track, channel)
	if err != nil {
		return nil, err
	}
	on := make(map[uint8]bool)
	for _, ev := range c.Notes {
		if ev.Time > at {
			break
		}
		if ev.Kind == On {
			on[ev.Note] = true
		} else {
			delete(on, ev.Note)
		}
	}
	notes := make([]uint8, 0, len(on))
	for n := range on {
		notes = append(notes, n)
	}
	sort.Slice(notes, func(i, j int) bool { return notes[i] < notes[j] })
	return notes, nil
}

// NotesDelta returns the note events in (from, to]. Reading consecutive
// windows only touches the events inside them, and asking for the previous
// window again returns the same delta.
func (t *Timeline) NotesDelta(track, channel int, from, to time.Duration) (NoteDelta, error) {
	ts, c, err := t.lookup(track, channel)
	if err != nil {
		return NoteDelta{}, err
	}
	d := c.delta(from, to)
	d.TicksPerSecond = ts.tempo.ticksPerSecond()
	return d, nil
}

func (c *ChannelSummary) delta(from, to time.Duration) NoteDelta {
	if c.memo != nil && c.memo.from == from && c.memo.to == to {
		return c.memo.delta
	}
	d := NoteDelta{From: from, To: to}
	if to <= from {
		return d
	}
	i := c.firstAfter(from)
	for ; i < len(c.Notes) && c.Notes[i].Time <= to; i++ {
		ev := c.Notes[i]
		ev.Offset = ev.Time - from
		d.Events = append(d.Events, ev)
	}
	c.next = i
	c.memo = &noteWindow{from: from, to: to, delta: d}
	return d
}

// firstAfter returns the index of the first event later than t. The cached
// position is used when the events around it bracket t.
func (c *ChannelSummary) firstAfter(t time.Duration) int {
	n := c.next
	if n <= len(c.Notes) && (n == 0 || c.Notes[n-1].Time <= t) && (n == len(c.Notes) || c.Notes[n].Time > t) {
		return n
	}
	return sort.Search(len(c.Notes), func(i int) bool { return c.Notes[i].Time > t })
}
