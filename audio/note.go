package audio

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

type PitchClass int

const (
	C PitchClass = iota
	CSharp
	D
	DSharp
	E
	F
	FSharp
	G
	GSharp
	A
	ASharp
	B
)

var pitchNames = [12]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

func (p PitchClass) String() string {
	if p < 0 || int(p) >= len(pitchNames) {
		return fmt.Sprintf("PitchClass(%d)", int(p))
	}
	return pitchNames[p]
}

// Frequencies of the pitch classes in octave 4.
var baseFreqs = [12]float64{
	261.63, 277.18, 293.66, 311.13, 329.63, 349.23,
	369.99, 392.00, 415.30, 440.00, 466.16, 493.88,
}

const refOctave = 4

type Note struct {
	Octave int
	Pitch  PitchClass
}

// NoteFromMIDI converts a MIDI note number, 60 is C4.
func NoteFromMIDI(n uint8) Note {
	return Note{Octave: int(n)/12 - 1, Pitch: PitchClass(n % 12)}
}

// MIDI returns the MIDI note number of n.
func (n Note) MIDI() int {
	return (n.Octave+1)*12 + int(n.Pitch)
}

func (n Note) Freq() float64 {
	return baseFreqs[n.Pitch] * math.Pow(2, float64(n.Octave-refOctave))
}

func (n Note) String() string {
	return n.Pitch.String() + strconv.Itoa(n.Octave)
}

// ParseNote accepts a MIDI note number or a name like C4 or F#3.
func ParseNote(s string) (Note, error) {
	if n, err := strconv.Atoi(s); err == nil {
		if n < 0 || n > 127 {
			return Note{}, fmt.Errorf("note number out of range: %d", n)
		}
		return NoteFromMIDI(uint8(n)), nil
	}
	for i := len(pitchNames) - 1; i >= 0; i-- {
		name := pitchNames[i]
		if !strings.HasPrefix(strings.ToUpper(s), name) {
			continue
		}
		oct, err := strconv.Atoi(s[len(name):])
		if err != nil {
			return Note{}, fmt.Errorf("invalid octave in note %q", s)
		}
		return Note{Octave: oct, Pitch: PitchClass(i)}, nil
	}
	return Note{}, fmt.Errorf("invalid note %q", s)
}

// NoteInterval is the span of a note within a buffer. A nil Start means the
// note was already sounding when the buffer started, a nil End means it is
// still sounding when the buffer ends.
type NoteInterval struct {
	Note  Note
	Start *int
	End   *int
}

func (iv NoteInterval) bounds() (start, end int) {
	start, end = 0, math.MaxInt
	if iv.Start != nil {
		start = *iv.Start
	}
	if iv.End != nil {
		end = *iv.End
	}
	return start, end
}

// Overlaps reports whether two intervals share a sample.
func (iv NoteInterval) Overlaps(other NoteInterval) bool {
	start, end := iv.bounds()
	otherStart, otherEnd := other.bounds()
	switch {
	case start >= otherStart && start < otherEnd:
		return true
	case end > otherStart && end <= otherEnd:
		return true
	case otherStart > start && otherStart < end:
		return true
	}
	return false
}

// Contains reports whether sample i of a buffer lies in the interval.
func (iv NoteInterval) Contains(i int) bool {
	start, end := iv.bounds()
	return i >= start && i < end
}

func intPtr(i int) *int { return &i }
