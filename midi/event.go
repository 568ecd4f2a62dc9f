package midi

import "fmt"

// Format is the SMF file format stored in the header chunk.
type Format uint16

const (
	SingleTrack Format = iota
	MultiTrack
	MultiSequence
)

func (f Format) String() string {
	switch f {
	case SingleTrack:
		return "single track"
	case MultiTrack:
		return "multi track"
	case MultiSequence:
		return "multi sequence"
	default:
		return fmt.Sprintf("format(%d)", uint16(f))
	}
}

// Division is the header's time division. When SMPTE is false, TicksPerQuarter
// is set, otherwise FramesPerSecond and TicksPerFrame are.
type Division struct {
	SMPTE           bool
	TicksPerQuarter uint16
	FramesPerSecond uint8
	TicksPerFrame   uint8
}

type Header struct {
	Format    Format
	NumTracks uint16
	Division  Division
}

type File struct {
	Header Header
	Tracks []Track
}

type Track struct {
	Events []Event
}

// Event is a message preceded by the number of ticks since the previous
// event in the same track.
type Event struct {
	Delta   uint64
	Message Message
}

// Category groups messages into the three kinds of events that can appear
// in a track.
type Category int

const (
	CategoryChannel Category = iota
	CategoryMeta
	CategorySystem
)

// Message is implemented by every event body.
type Message interface {
	Category() Category
}

func (NoteOff) Category() Category           { return CategoryChannel }
func (NoteOn) Category() Category            { return CategoryChannel }
func (PolyAftertouch) Category() Category    { return CategoryChannel }
func (ControlChange) Category() Category     { return CategoryChannel }
func (ProgramChange) Category() Category     { return CategoryChannel }
func (ChannelAftertouch) Category() Category { return CategoryChannel }
func (PitchBend) Category() Category         { return CategoryChannel }

func (SequenceNumber) Category() Category    { return CategoryMeta }
func (Text) Category() Category              { return CategoryMeta }
func (ChannelPrefix) Category() Category     { return CategoryMeta }
func (EndOfTrack) Category() Category        { return CategoryMeta }
func (SetTempo) Category() Category          { return CategoryMeta }
func (SMPTEOffset) Category() Category       { return CategoryMeta }
func (TimeSignature) Category() Category     { return CategoryMeta }
func (KeySignature) Category() Category      { return CategoryMeta }
func (SequencerSpecific) Category() Category { return CategoryMeta }

func (SysEx) Category() Category { return CategorySystem }

type NoteOff struct {
	Channel  uint8
	Note     uint8
	Velocity uint8
}

type NoteOn struct {
	Channel  uint8
	Note     uint8
	Velocity uint8
}

type PolyAftertouch struct {
	Channel  uint8
	Note     uint8
	Pressure uint8
}

type ControlChange struct {
	Channel    uint8
	Controller Controller
	Value      uint8
}

type ProgramChange struct {
	Channel uint8
	Program uint8
}

type ChannelAftertouch struct {
	Channel  uint8
	Pressure uint8
}

// PitchBend holds the 14 bit bend value, 0x2000 is centered.
type PitchBend struct {
	Channel uint8
	Value   uint16
}

type SequenceNumber struct {
	Number uint16
}

type TextKind uint8

const (
	TextEvent TextKind = iota + 1
	Copyright
	TrackName
	InstrumentName
	Lyric
	Marker
	CuePoint
)

type Text struct {
	Kind TextKind
	Text string
}

// ChannelPrefix associates the following meta events with a channel.
type ChannelPrefix struct {
	Channel uint8
}

type EndOfTrack struct{}

type SetTempo struct {
	MicrosPerQuarter uint32
}

// BPM returns the tempo in quarter notes per minute.
func (t SetTempo) BPM() float64 {
	return 60_000_000 / float64(t.MicrosPerQuarter)
}

type SMPTEOffset struct {
	Hours, Minutes, Seconds, Frames, FractionalFrames uint8
}

type TimeSignature struct {
	Numerator       uint8
	Denominator     uint8 // as a power of 2, e.g. 3 means eighth notes
	ClocksPerClick  uint8
	DemiSemiQuavers uint8 // 32nd notes per 24 MIDI clocks
}

type KeySignature struct {
	Key   int8 // number of sharps, negative for flats
	Minor bool
}

type SequencerSpecific struct {
	Data []byte
}

type SysExKind int

const (
	// SysExNormal is a complete message, the 0xF7 terminator is stripped.
	SysExNormal SysExKind = iota
	// SysExDivided is an unterminated message that continues in a later 0xF7 packet.
	SysExDivided
	// SysExAuthorization is a 0xF7 packet that does not continue a divided message.
	SysExAuthorization
)

type SysEx struct {
	Kind SysExKind
	Data []byte
}
