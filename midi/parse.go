package midi

import (
	"encoding/binary"
	"io"
	"os"

	"github.com/pkg/errors"
)

// ParseFile reads and parses the standard MIDI file at path.
func ParseFile(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	file, err := Parse(f)
	if err != nil {
		return nil, errors.Wrapf(err, "parse %s", path)
	}
	return file, nil
}

// Parse decodes a header chunk followed by the number of track chunks it
// declares. Any malformed input fails the whole parse.
func Parse(r io.Reader) (*File, error) {
	p := &parser{r: newReader(r)}
	return p.parse()
}

type parser struct {
	r *reader

	end     int64  // position where the current track chunk ends
	status  byte   // running status, 0 when there is none
	pending []byte // payload of a divided system exclusive message
}

func (p *parser) parse() (*File, error) {
	header, err := p.header()
	if err != nil {
		return nil, errors.Wrap(err, "header")
	}
	file := &File{Header: header}
	for i := 0; i < int(header.NumTracks); i++ {
		track, err := p.track()
		if err != nil {
			return nil, errors.Wrapf(err, "track %d", i)
		}
		file.Tracks = append(file.Tracks, track)
	}
	return file, nil
}

// chunk reads a chunk id, which has to match id, and the chunk length.
func (p *parser) chunk(id string) (uint32, error) {
	buf, err := p.r.read(4)
	if err != nil {
		return 0, err
	}
	if string(buf) != id {
		return 0, errors.Wrapf(ErrBadChunkID, "want %q, got %q", id, buf)
	}
	return p.r.uint32()
}

func (p *parser) header() (Header, error) {
	var h Header
	size, err := p.chunk("MThd")
	if err != nil {
		return h, err
	}
	if size != 6 {
		return h, errors.Wrapf(ErrHeaderSize, "got %d", size)
	}
	format, err := p.r.uint16()
	if err != nil {
		return h, err
	}
	if format > uint16(MultiSequence) {
		return h, errors.Wrapf(ErrUnknownFormat, "format %d", format)
	}
	h.Format = Format(format)
	if h.NumTracks, err = p.r.uint16(); err != nil {
		return h, err
	}
	div, err := p.r.uint16()
	if err != nil {
		return h, err
	}
	if div&0x8000 != 0 {
		// The upper byte is the negated frame rate, e.g. 0xE8 is -24. Its
		// low 7 bits are not the rate itself.
		h.Division = Division{
			SMPTE:           true,
			FramesPerSecond: uint8(-int8(div >> 8)),
			TicksPerFrame:   uint8(div),
		}
	} else {
		h.Division = Division{TicksPerQuarter: div}
	}
	return h, nil
}

func (p *parser) track() (Track, error) {
	var track Track
	size, err := p.chunk("MTrk")
	if err != nil {
		return track, err
	}
	start := p.r.pos
	p.end = start + int64(size)
	p.status = 0
	p.pending = nil

	for n := 0; p.r.pos < p.end; n++ {
		offset := p.r.pos - start
		ev, err := p.event()
		if err != nil {
			return track, errors.Wrapf(err, "event %d at offset %d", n, offset)
		}
		track.Events = append(track.Events, ev)
	}
	if p.r.pos > p.end {
		return track, errors.Wrapf(ErrTrackOverrun, "declared %d bytes, read %d", size, p.r.pos-start)
	}
	return track, nil
}

func (p *parser) event() (Event, error) {
	var ev Event
	delta, err := p.r.varLen()
	if err != nil {
		return ev, errors.Wrap(err, "delta time")
	}
	ev.Delta = delta

	status, err := p.r.ReadByte()
	if err != nil {
		return ev, err
	}
	switch {
	case status < 0x80:
		if p.status == 0 {
			return ev, errors.Wrapf(ErrNoRunningStatus, "data byte 0x%02x", status)
		}
		ev.Message, err = p.channel(p.status, &status)
	case status == 0xFF:
		p.status = 0
		ev.Message, err = p.meta()
	case status == 0xF0 || status == 0xF7:
		p.status = 0
		ev.Message, err = p.sysex(status)
	case status > 0xF0:
		return ev, errors.Wrapf(ErrUnknownStatus, "status 0x%02x", status)
	default:
		p.status = status
		ev.Message, err = p.channel(status, nil)
	}
	return ev, err
}

// channel decodes a channel message. first is the already consumed first
// data byte when the message uses running status.
func (p *parser) channel(status byte, first *byte) (Message, error) {
	ch := status & 0x0f
	typ := status >> 4

	a, err := p.data(first)
	if err != nil {
		return nil, errors.Wrapf(err, "channel message 0x%x", typ)
	}
	switch typ {
	case 0xC:
		return ProgramChange{Channel: ch, Program: a}, nil
	case 0xD:
		return ChannelAftertouch{Channel: ch, Pressure: a}, nil
	}

	b, err := p.data(nil)
	if err != nil {
		return nil, errors.Wrapf(err, "channel message 0x%x", typ)
	}
	switch typ {
	case 0x8:
		return NoteOff{Channel: ch, Note: a, Velocity: b}, nil
	case 0x9:
		return NoteOn{Channel: ch, Note: a, Velocity: b}, nil
	case 0xA:
		return PolyAftertouch{Channel: ch, Note: a, Pressure: b}, nil
	case 0xB:
		return ControlChange{Channel: ch, Controller: Controller(a), Value: b}, nil
	case 0xE:
		return PitchBend{Channel: ch, Value: uint16(a) | uint16(b)<<7}, nil
	}
	return nil, errors.Wrapf(ErrUnknownStatus, "status 0x%02x", status)
}

func (p *parser) data(first *byte) (byte, error) {
	if first != nil {
		return *first, nil
	}
	return p.r.ReadByte()
}

// payload reads a length prefixed event body that has to fit in the current
// track chunk.
func (p *parser) payload() ([]byte, error) {
	size, err := p.r.varLen()
	if err != nil {
		return nil, errors.Wrap(err, "length")
	}
	if remaining := p.end - p.r.pos; remaining < 0 || size > uint64(remaining) {
		return nil, errors.Wrapf(ErrTrackOverrun, "event length %d, %d bytes left in track", size, remaining)
	}
	return p.r.read(int(size))
}

func (p *parser) meta() (Message, error) {
	typ, err := p.r.ReadByte()
	if err != nil {
		return nil, errors.Wrap(err, "meta event")
	}
	data, err := p.payload()
	if err != nil {
		return nil, errors.Wrapf(err, "meta event 0x%02x", typ)
	}
	need := func(n int) error {
		if len(data) != n {
			return errors.Wrapf(ErrMetaSize, "meta event 0x%02x: want %d bytes, got %d", typ, n, len(data))
		}
		return nil
	}

	switch {
	case typ == 0x00:
		if err := need(2); err != nil {
			return nil, err
		}
		return SequenceNumber{Number: binary.BigEndian.Uint16(data)}, nil
	case typ >= 0x01 && typ <= 0x07:
		return Text{Kind: TextKind(typ), Text: string(data)}, nil
	case typ == 0x20:
		if err := need(1); err != nil {
			return nil, err
		}
		return ChannelPrefix{Channel: data[0]}, nil
	case typ == 0x2F:
		if err := need(0); err != nil {
			return nil, err
		}
		return EndOfTrack{}, nil
	case typ == 0x51:
		if err := need(3); err != nil {
			return nil, err
		}
		return SetTempo{MicrosPerQuarter: uint32(data[0])<<16 | uint32(data[1])<<8 | uint32(data[2])}, nil
	case typ == 0x54:
		if err := need(5); err != nil {
			return nil, err
		}
		return SMPTEOffset{
			Hours:            data[0],
			Minutes:          data[1],
			Seconds:          data[2],
			Frames:           data[3],
			FractionalFrames: data[4],
		}, nil
	case typ == 0x58:
		if err := need(4); err != nil {
			return nil, err
		}
		return TimeSignature{
			Numerator:       data[0],
			Denominator:     data[1],
			ClocksPerClick:  data[2],
			DemiSemiQuavers: data[3],
		}, nil
	case typ == 0x59:
		if err := need(2); err != nil {
			return nil, err
		}
		return KeySignature{Key: int8(data[0]), Minor: data[1] == 1}, nil
	case typ == 0x7F:
		return SequencerSpecific{Data: data}, nil
	}
	return nil, errors.Wrapf(ErrUnknownMeta, "type 0x%02x", typ)
}

func (p *parser) sysex(status byte) (Message, error) {
	data, err := p.payload()
	if err != nil {
		return nil, errors.Wrapf(err, "sysex 0x%02x", status)
	}
	if len(data) == 0 {
		return nil, errors.Wrapf(ErrEmptySysEx, "sysex 0x%02x", status)
	}
	terminated := data[len(data)-1] == 0xF7
	body := data
	if terminated {
		body = data[:len(data)-1]
	}

	switch {
	case status == 0xF0 && terminated:
		p.pending = nil
		return SysEx{Kind: SysExNormal, Data: body}, nil
	case status == 0xF0:
		p.pending = append([]byte(nil), body...)
		return SysEx{Kind: SysExDivided, Data: body}, nil
	case p.pending != nil:
		p.pending = append(p.pending, body...)
		acc := append([]byte(nil), p.pending...)
		if terminated {
			p.pending = nil
			return SysEx{Kind: SysExNormal, Data: acc}, nil
		}
		return SysEx{Kind: SysExDivided, Data: acc}, nil
	default:
		return SysEx{Kind: SysExAuthorization, Data: data}, nil
	}
}
