package audio

import (
	"reflect"
	"testing"
)

func TestSynthVoiceProps(t *testing.T) {
	v := NewSynthVoice()
	mustSetProp(t, v, "osc.wave", "pulse")
	if got, err := v.Get("osc.wave"); err != nil || got != Pulse {
		t.Errorf("osc.wave: want pulse, got %v (%v)", got, err)
	}
	for _, key := range []string{"osc", "lfo.rate", "env.hold"} {
		if err := v.Set(key, 1.); err == nil {
			t.Errorf("set %s: expected an error", key)
		}
	}
	if err := LoadPreset("lame-bass", v); err != nil {
		t.Fatal(err)
	}
	if got, _ := v.Get("filter.cutoff"); got != 900. {
		t.Errorf("preset cutoff: want 900, got %v", got)
	}

	want := []string{"amp.control_gain", "amp.gain", "env.attack", "env.decay", "env.release",
		"env.sustain", "env.tolerance", "filter.cutoff", "filter.q", "osc.freq", "osc.pw", "osc.wave"}
	if got := v.Keys(); !reflect.DeepEqual(want, got) {
		t.Errorf("keys:\nwant: %v\ngot:  %v", want, got)
	}
}

func TestSynthVoiceClone(t *testing.T) {
	ref := NewSynthVoice()
	mustSetProp(t, ref, "env.attack", 42.)
	clone := ref.Clone().(*SynthVoice)
	if got, _ := clone.Get("env.attack"); got != 42. {
		t.Errorf("clone: want attack 42, got %v", got)
	}

	mustSetProp(t, ref, "env.attack", 7.)
	clone.Update(ref)
	if got, _ := clone.Get("env.attack"); got != 7. {
		t.Errorf("update: want attack 7, got %v", got)
	}
}

func TestSynthVoiceRender(t *testing.T) {
	v := NewSynthVoice()
	mustSetProp(t, v, "env.attack", 0.)
	mustSetProp(t, v, "env.release", 0.)
	if !v.Silent() {
		t.Error("a new voice should be silent")
	}

	a4 := NoteFromMIDI(69)
	buf := make([]float64, 64)
	inf := OutputInfo{SampleRate: 8000, ChannelCount: 1, Range: SampleRange{First: 1, Len: 64}}
	if err := v.Render(buf, []NoteInterval{{Note: a4, Start: intPtr(2)}}, inf); err != nil {
		t.Fatal(err)
	}
	if buf[0] != 0 || buf[1] != 0 {
		t.Errorf("voice should be quiet before the note starts, got %v", buf[:2])
	}
	var sound bool
	for _, s := range buf[2:] {
		sound = sound || s != 0
	}
	if !sound || v.Silent() {
		t.Error("voice should sound after the note starts")
	}

	inf.Range = SampleRange{First: 65, Len: 64}
	if err := v.Render(buf, nil, inf); err != nil {
		t.Fatal(err)
	}
	if !v.Silent() {
		t.Error("voice should be silent after its release")
	}
}
