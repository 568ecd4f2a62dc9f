package main

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/mrdg/modsynth/audio"
	"github.com/mrdg/modsynth/dub"
	"github.com/mrdg/modsynth/midi"
)

var commands []command

func init() {
	commands = []command{
		{"set", setCommand, 3, "set <device> <property> <value>"},
		{"get", getCommand, 2, "get <device> <property>"},
		{"props", propsCommand, 1, "props <device>"},
		{"devices", devicesCommand, 0, "devices"},
		{"preset", presetCommand, 2, "preset <device> <name>"},
		{"presets", presetsCommand, 0, "presets"},
		{"seek", seekCommand, 1, "seek <seconds>"},
		{"notes", notesCommand, 0, "notes"},
		{"track", trackCommand, 1, "track <n>"},
		{"channel", channelCommand, 1, "channel <n|all>"},
		{"on", onCommand, -1, "on <note>..."},
		{"off", offCommand, -1, "off <note>..."},
		{"voices", voicesCommand, 0, "voices"},
		{"steps", stepsCommand, 1, "steps <sequencer>"},
		{"step", stepCommand, -3, "step <sequencer> <match> <kind> [group size]"},
		{"value", valueCommand, -3, "value <sequencer> <match> <value> [group size]"},
		{"start", startCommand, 1, "start <sequencer>"},
		{"stop", stopCommand, 1, "stop <sequencer>"},
		{"analyze", analyzeCommand, 1, "analyze <oscillator|file.wav>"},
		{"help", helpCommand, 0, "help"},
		{"quit", quitCommand, 0, "quit"},
	}
}

func setCommand(env *env, args []dub.Node) (interface{}, error) {
	var device, prop string
	if err := readArgs(args[:2], &device, &prop); err != nil {
		return nil, err
	}
	v, err := value(args[2])
	if err != nil {
		return nil, err
	}
	return nil, env.setProp(device, prop, v)
}

func getCommand(env *env, args []dub.Node) (interface{}, error) {
	var device, prop string
	if err := readArgs(args, &device, &prop); err != nil {
		return nil, err
	}
	return env.getProp(device, prop)
}

type keyer interface {
	Keys() []string
}

func propsCommand(env *env, args []dub.Node) (interface{}, error) {
	var name string
	if err := readArgs(args, &name); err != nil {
		return nil, err
	}
	d, err := env.patch.device(name)
	if err != nil {
		return nil, err
	}
	k, ok := d.(keyer)
	if !ok {
		return nil, fmt.Errorf("%s has no properties", name)
	}
	var lines []string
	for _, key := range k.Keys() {
		v, err := d.Get(key)
		if err != nil {
			return nil, err
		}
		lines = append(lines, fmt.Sprintf("%s = %v", key, v))
	}
	return strings.Join(lines, "\n"), nil
}

func devicesCommand(env *env, args []dub.Node) (interface{}, error) {
	return strings.Join(env.patch.deviceNames(), " "), nil
}

func presetCommand(env *env, args []dub.Node) (interface{}, error) {
	var device, name string
	if err := readArgs(args, &device, &name); err != nil {
		return nil, err
	}
	d, err := env.patch.device(device)
	if err != nil {
		return nil, err
	}
	return nil, audio.LoadPreset(name, d)
}

func presetsCommand(env *env, args []dub.Node) (interface{}, error) {
	return strings.Join(audio.Presets(), " "), nil
}

func seekCommand(env *env, args []dub.Node) (interface{}, error) {
	var seconds float64
	if err := readArgs(args, &seconds); err != nil {
		return nil, err
	}
	t := time.Duration(seconds * float64(time.Second))
	return nil, env.patch.withMIDI(func(src *audio.MIDISource) error {
		return src.Seek(t)
	})
}

func notesCommand(env *env, args []dub.Node) (interface{}, error) {
	var out string
	err := env.patch.withMIDI(func(src *audio.MIDISource) error {
		out = renderNotes(src)
		return nil
	})
	return out, err
}

func trackCommand(env *env, args []dub.Node) (interface{}, error) {
	var track int
	if err := readArgs(args, &track); err != nil {
		return nil, err
	}
	return nil, env.patch.withMIDI(func(src *audio.MIDISource) error {
		return src.SetTrack(track)
	})
}

func channelCommand(env *env, args []dub.Node) (interface{}, error) {
	channel := midi.AllChannels
	if id, ok := args[0].(dub.Identifier); !ok || id != "all" {
		if err := readArgs(args, &channel); err != nil {
			return nil, fmt.Errorf("expected a channel number or all")
		}
	}
	return nil, env.patch.withMIDI(func(src *audio.MIDISource) error {
		return src.SetChannel(channel)
	})
}

func readNotes(args []dub.Node) ([]audio.Note, error) {
	var notes []audio.Note
	for _, arg := range args {
		var s string
		switch v := arg.(type) {
		case dub.Identifier:
			s = string(v)
		case dub.Int:
			s = fmt.Sprint(int(v))
		default:
			return nil, fmt.Errorf("not a note: %v", v)
		}
		n, err := audio.ParseNote(s)
		if err != nil {
			return nil, err
		}
		notes = append(notes, n)
	}
	return notes, nil
}

func onCommand(env *env, args []dub.Node) (interface{}, error) {
	notes, err := readNotes(args)
	if err != nil {
		return nil, err
	}
	for _, n := range notes {
		env.patch.live.NoteOn(n)
	}
	return nil, nil
}

func offCommand(env *env, args []dub.Node) (interface{}, error) {
	notes, err := readNotes(args)
	if err != nil {
		return nil, err
	}
	for _, n := range notes {
		env.patch.live.NoteOff(n)
	}
	return nil, nil
}

func voicesCommand(env *env, args []dub.Node) (interface{}, error) {
	return renderVoices(env.patch.voices.Voices()), nil
}

func stepsCommand(env *env, args []dub.Node) (interface{}, error) {
	var name string
	if err := readArgs(args, &name); err != nil {
		return nil, err
	}
	s, err := env.patch.sequencer(name)
	if err != nil {
		return nil, err
	}
	var out string
	s.handle.Update(func() {
		out = renderSteps(s.seq.Steps(), s.seq.Step(), s.seq.Playing())
	})
	return out, nil
}

// editSteps applies edit to the steps of a sequencer selected by a match
// expression, optionally split into groups.
func editSteps(env *env, args []dub.Node, edit func(*audio.Step, dub.Node) error) (interface{}, error) {
	if len(args) > 4 {
		return nil, fmt.Errorf("wrong number of arguments: want at most 4, got %d", len(args))
	}
	var name string
	var expr dub.MatchExpr
	if err := readArgs(args[:2], &name, &expr); err != nil {
		return nil, err
	}
	size := 1
	if len(args) == 4 {
		if err := readArgs(args[3:], &size); err != nil {
			return nil, err
		}
	}
	s, err := env.patch.sequencer(name)
	if err != nil {
		return nil, err
	}

	var editErr error
	s.handle.Update(func() {
		steps := s.seq.Steps()
		selected, err := dub.Select(expr, len(steps), size)
		if err != nil {
			editErr = err
			return
		}
		for _, i := range selected {
			step := steps[i]
			if err := edit(&step, args[2]); err != nil {
				editErr = err
				return
			}
			if err := s.seq.SetStep(i, step); err != nil {
				editErr = err
				return
			}
		}
	})
	return nil, editErr
}

func stepCommand(env *env, args []dub.Node) (interface{}, error) {
	return editSteps(env, args, func(step *audio.Step, arg dub.Node) error {
		var name string
		if err := readArgs([]dub.Node{arg}, &name); err != nil {
			return err
		}
		kind, err := audio.ParseStepKind(name)
		if err != nil {
			return err
		}
		step.Kind = kind
		return nil
	})
}

func valueCommand(env *env, args []dub.Node) (interface{}, error) {
	return editSteps(env, args, func(step *audio.Step, arg dub.Node) error {
		var v float64
		if err := readArgs([]dub.Node{arg}, &v); err != nil {
			return err
		}
		step.Value = v
		return nil
	})
}

func startCommand(env *env, args []dub.Node) (interface{}, error) {
	var name string
	if err := readArgs(args, &name); err != nil {
		return nil, err
	}
	s, err := env.patch.sequencer(name)
	if err != nil {
		return nil, err
	}
	s.seq.Start()
	return nil, nil
}

func stopCommand(env *env, args []dub.Node) (interface{}, error) {
	var name string
	if err := readArgs(args, &name); err != nil {
		return nil, err
	}
	s, err := env.patch.sequencer(name)
	if err != nil {
		return nil, err
	}
	s.seq.Stop()
	return nil, nil
}

// analyzeCommand reports the strongest frequency in one second of an
// oscillator's output, rendered on a copy so the running graph is not
// touched, or in a wav file.
func analyzeCommand(env *env, args []dub.Node) (interface{}, error) {
	var name string
	if err := readArgs(args, &name); err != nil {
		return nil, err
	}
	sr := env.patch.synth.SampleRate()
	var buf []float64
	if osc, ok := env.patch.oscillator[name]; ok {
		cp := audio.NewOscillator(audio.NewProps())
		cp.CopyFrom(osc.Props)
		buf = make([]float64, sr)
		info := audio.OutputInfo{
			SampleRate:   sr,
			ChannelCount: 1,
			Range:        audio.SampleRange{First: 1, Len: sr},
		}
		if err := cp.Fill(buf, info); err != nil {
			return nil, err
		}
	} else if strings.HasSuffix(name, ".wav") {
		s, err := audio.LoadSamples(name)
		if err != nil {
			return nil, err
		}
		buf = s.Data
	} else {
		return nil, fmt.Errorf("not an oscillator or wav file: %s", name)
	}
	f, err := audio.PeakFrequency(buf, sr)
	if err != nil {
		return nil, err
	}
	return fmt.Sprintf("%.1f Hz", math.Round(f*10)/10), nil
}

func helpCommand(env *env, args []dub.Node) (interface{}, error) {
	var lines []string
	for _, cmd := range commands {
		lines = append(lines, cmd.help)
	}
	sort.Strings(lines)
	return strings.Join(lines, "\n"), nil
}

func quitCommand(env *env, args []dub.Node) (interface{}, error) {
	env.quit = true
	return nil, nil
}
