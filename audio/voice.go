package audio

import (
	"fmt"
	"log"
	"math"
	"sync/atomic"
)

// Voice renders one note at a time. The VoiceSet clones voices from a
// reference voice and keeps them in sync with it.
type Voice interface {
	// Clone returns a new voice with the settings of the receiver and no note.
	Clone() Voice
	// Update copies the sound settings of ref, not its note or envelope state.
	Update(ref Voice)
	// Render writes the voice's output for the given intervals of its note.
	// Outside of the intervals the voice is released.
	Render(buf []float64, intervals []NoteInterval, info OutputInfo) error
	// Silent reports whether the voice finished its release.
	Silent() bool
}

// MaxVoices bounds the capacity property of a VoiceSet.
const MaxVoices = 1024

type VoiceState int

const (
	VoiceDeactivated VoiceState = iota
	VoiceActivated
	VoiceDeactivating
)

func (s VoiceState) String() string {
	switch s {
	case VoiceActivated:
		return "active"
	case VoiceDeactivating:
		return "releasing"
	default:
		return "free"
	}
}

type voiceSlot struct {
	voice Voice
	state VoiceState
	note  Note
}

// VoiceStatus describes a voice slot.
type VoiceStatus struct {
	Index int
	State VoiceState
	Note  Note
}

// VoiceSet plays the notes of a note source on a pool of voices. The
// capacity property limits the number of voices, 0 means unlimited. When
// every voice is taken new notes are dropped. Lowering the capacity lets the
// voices above it finish their notes.
type VoiceSet struct {
	*Props
	ref   Voice
	notes NoteModule

	slots    []*voiceSlot
	level    *atomic.Value
	capacity *atomic.Value
	tmp      []float64
	status   atomic.Value // []VoiceStatus
}

func NewVoiceSet(props *Props, ref Voice, capacity int, notes NoteModule) *VoiceSet {
	vs := &VoiceSet{
		Props:    props,
		ref:      ref,
		notes:    notes,
		level:    props.MustRegister("level", setLevel, 0.),
		capacity: props.MustRegister("capacity", setInt(0, MaxVoices), capacity),
	}
	vs.status.Store([]VoiceStatus(nil))
	return vs
}

// Reference returns the voice that new voices are cloned from. Changing its
// properties changes every voice.
func (vs *VoiceSet) Reference() Voice { return vs.ref }

// Voices returns the state of every slot as of the last rendered buffer.
func (vs *VoiceSet) Voices() []VoiceStatus {
	return vs.status.Load().([]VoiceStatus)
}

func (vs *VoiceSet) Fill(buf []float64, info OutputInfo) error {
	capacity := vs.capacity.Load().(int)
	intervals, err := vs.notes.Notes(len(buf), info)
	if err != nil {
		return fmt.Errorf("voiceset notes: %w", err)
	}

	// Group by note, keeping the order in which notes first appear.
	var order []Note
	byNote := make(map[Note][]NoteInterval)
	for _, iv := range intervals {
		if _, ok := byNote[iv.Note]; !ok {
			order = append(order, iv.Note)
		}
		byNote[iv.Note] = append(byNote[iv.Note], iv)
	}
	ending := func(ivs []NoteInterval) bool {
		return len(ivs) == 0 || ivs[len(ivs)-1].End != nil
	}

	// A voice that held its note at the start of the buffer renders all of
	// the note's intervals in it, including the one that releases it.
	playing := make([][]NoteInterval, len(vs.slots))
	held := make(map[Note]bool)
	for i, slot := range vs.slots {
		if slot.state != VoiceActivated {
			continue
		}
		ivs := byNote[slot.note]
		playing[i] = ivs
		held[slot.note] = true
		if ending(ivs) {
			slot.state = VoiceDeactivating
		}
	}

	for _, slot := range vs.slots {
		if slot.state == VoiceDeactivating && slot.voice.Silent() {
			slot.state = VoiceDeactivated
		}
	}

	for _, slot := range vs.slots {
		if slot.state != VoiceDeactivated {
			slot.voice.Update(vs.ref)
		}
	}

	for _, note := range order {
		if held[note] {
			continue
		}
		ivs := byNote[note]
		i := vs.freeSlot(capacity)
		if i < 0 {
			if ivs[0].Start != nil {
				// TODO: steal the voice that has been releasing the longest
				log.Printf("voiceset: no free voice available for %v", note)
			}
			continue
		}
		slot := vs.slots[i]
		slot.voice = vs.ref.Clone()
		slot.note = note
		slot.state = VoiceActivated
		if ending(ivs) {
			slot.state = VoiceDeactivating
		}
		for len(playing) <= i {
			playing = append(playing, nil)
		}
		playing[i] = ivs
	}

	zero(buf)
	tmp := grow(&vs.tmp, len(buf))
	for i, slot := range vs.slots {
		if slot.state == VoiceDeactivated {
			continue
		}
		zero(tmp)
		if err := slot.voice.Render(tmp, playing[i], info); err != nil {
			return fmt.Errorf("voice %d: %w", i, err)
		}
		for n := range buf {
			buf[n] += tmp[n]
		}
	}
	gain := math.Pow(10, vs.level.Load().(float64)/20.0)
	for n := range buf {
		buf[n] *= gain
	}

	vs.publish()
	return nil
}

// freeSlot returns the index of a slot below capacity that can take a new
// note, adding a slot when the capacity allows it, or -1.
func (vs *VoiceSet) freeSlot(capacity int) int {
	for i, slot := range vs.slots {
		if capacity > 0 && i >= capacity {
			break
		}
		if slot.state == VoiceDeactivated {
			return i
		}
	}
	if capacity == 0 || len(vs.slots) < capacity {
		vs.slots = append(vs.slots, &voiceSlot{})
		return len(vs.slots) - 1
	}
	return -1
}

func (vs *VoiceSet) publish() {
	status := make([]VoiceStatus, len(vs.slots))
	for i, slot := range vs.slots {
		status[i] = VoiceStatus{Index: i, State: slot.state, Note: slot.note}
	}
	vs.status.Store(status)
}
