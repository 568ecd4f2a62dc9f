package main

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/mrdg/modsynth/audio"
)

func newTestEnv(t *testing.T, midiFile string) *env {
	t.Helper()
	cfg := DefaultConfig()
	cfg.SampleRate = 8000
	cfg.MIDIFile = midiFile
	cfg.Channel = 0
	p, err := newPatch(cfg)
	if err != nil {
		t.Fatal(err)
	}
	return &env{patch: p, out: new(bytes.Buffer)}
}

func mustEval(t *testing.T, e *env, input string) interface{} {
	t.Helper()
	result, err := e.eval(input)
	if err != nil {
		t.Fatalf("%s: %v", input, err)
	}
	return result
}

func renderBuffer(e *env) {
	buf := make([]float32, 256*e.patch.synth.Channels())
	e.patch.synth.Render(buf, time.Time{})
}

func TestSetGet(t *testing.T) {
	e := newTestEnv(t, "")
	mustEval(t, e, "set voice osc.wave pulse")
	mustEval(t, e, "set voice env.attack 20")
	mustEval(t, e, "set mixer level.1 -0.5")
	mustEval(t, e, "set voices capacity 4")

	tests := []struct {
		input string
		want  interface{}
	}{
		{"get voice osc.wave", audio.Pulse},
		{"get voice env.attack", 20.},
		{"get mixer level.1", -0.5},
		{"get mixer mode", audio.MixLimit},
		{"get voices capacity", 4},
	}
	for _, test := range tests {
		if got := mustEval(t, e, test.input); got != test.want {
			t.Errorf("%s: want %v, got %v", test.input, test.want, got)
		}
	}

	mustEval(t, e, "preset voice lame-bass")
	if got := mustEval(t, e, "get voice filter.cutoff"); got != 900. {
		t.Errorf("preset: want cutoff 900, got %v", got)
	}
}

func TestEvalErrors(t *testing.T) {
	e := newTestEnv(t, "")
	tests := []string{
		"frobnicate",
		"set voice osc.wave",
		"set nope gain 1",
		"get voice osc.nope",
		"set voice osc.wave triangle",
		"set voices capacity 2.5",
		"step seq '1",
		"step seq '1 jump",
		"step nope '1 skip",
		"on H4",
		"seek 1",
		"preset voice nope",
		"analyze nope",
	}
	for _, input := range tests {
		if _, err := e.eval(input); err == nil {
			t.Errorf("%s: expected an error", input)
		}
	}
	if _, err := e.eval("notes"); !errors.Is(err, errNoMIDI) {
		t.Errorf("notes without a file: want %v, got %v", errNoMIDI, err)
	}
}

func TestStepCommands(t *testing.T) {
	e := newTestEnv(t, "")
	mustEval(t, e, "step seq '2,4 skip")
	mustEval(t, e, "step seq '*/2 repeat 2")
	mustEval(t, e, "value seq '1 220")

	steps := e.patch.sequencers["seq"].seq.Steps()
	wantKinds := []audio.StepKind{audio.StepNormal, audio.StepRepeat, audio.StepNormal, audio.StepRepeat}
	for i, want := range wantKinds {
		if steps[i].Kind != want {
			t.Errorf("step %d: want %v, got %v", i+1, want, steps[i].Kind)
		}
	}
	if steps[0].Value != 220 {
		t.Errorf("step 1: want value 220, got %v", steps[0].Value)
	}

	mustEval(t, e, "start seq")
	out := mustEval(t, e, "steps seq").(string)
	for _, want := range []string{"repeat", "220", "playing"} {
		if !strings.Contains(out, want) {
			t.Errorf("steps output does not contain %q:\n%s", want, out)
		}
	}
	mustEval(t, e, "stop seq")
	if e.patch.sequencers["seq"].seq.Playing() {
		t.Error("sequencer should be stopped")
	}
}

func countActive(e *env) int {
	var n int
	for _, v := range e.patch.voices.Voices() {
		if v.State == audio.VoiceActivated {
			n++
		}
	}
	return n
}

func TestLiveNoteCommands(t *testing.T) {
	e := newTestEnv(t, "")
	mustEval(t, e, "on C4 E4")
	renderBuffer(e)
	if n := countActive(e); n != 2 {
		t.Errorf("want 2 active voices, got %d", n)
	}
	out := mustEval(t, e, "voices").(string)
	if !strings.Contains(out, "C4") || !strings.Contains(out, "E4") {
		t.Errorf("voices output does not list the notes:\n%s", out)
	}

	mustEval(t, e, "off C4")
	renderBuffer(e)
	if n := countActive(e); n != 1 {
		t.Errorf("want 1 active voice, got %d", n)
	}
}

func TestMIDICommands(t *testing.T) {
	e := newTestEnv(t, "midi/testdata/basic_test.mid")
	mustEval(t, e, "seek 5")
	out := mustEval(t, e, "notes").(string)
	if !strings.Contains(out, "C3 E3 G3") {
		t.Errorf("notes at 5s:\n%s", out)
	}
	mustEval(t, e, "channel all")
	for _, input := range []string{"channel 16", "track 9", "seek -1"} {
		if _, err := e.eval(input); err == nil {
			t.Errorf("%s: expected an error", input)
		}
	}
}

func TestAnalyze(t *testing.T) {
	e := newTestEnv(t, "")
	mustEval(t, e, "set drone freq 440")
	out := mustEval(t, e, "analyze drone").(string)
	var f float64
	if _, err := fmt.Sscanf(out, "%f Hz", &f); err != nil {
		t.Fatal(err)
	}
	if math.Abs(f-440) > 2 {
		t.Errorf("want about 440 Hz, got %s", out)
	}
}

func TestRunScript(t *testing.T) {
	e := newTestEnv(t, "")
	err := e.run([]string{
		"# drone",
		"",
		"set drone-amp gain 1",
		"get drone-amp gain",
		"quit",
	})
	if err != nil {
		t.Fatal(err)
	}
	if got := e.out.(*bytes.Buffer).String(); got != "1\n" {
		t.Errorf("want output %q, got %q", "1\n", got)
	}
	if !e.quit {
		t.Error("quit should end the session")
	}

	err = e.run([]string{"get drone-amp gain", "bogus"})
	if err == nil || !strings.HasPrefix(err.Error(), "line 2:") {
		t.Errorf("want an error on line 2, got %v", err)
	}
}

func TestPatchVoicesRange(t *testing.T) {
	for _, n := range []int{-1, audio.MaxVoices + 1} {
		cfg := DefaultConfig()
		cfg.Voices = n
		if _, err := newPatch(cfg); err == nil {
			t.Errorf("voices %d: expected an error", n)
		}
	}
}
