package main

import (
	"errors"
	"fmt"
	"log"
	"sort"

	"github.com/mrdg/modsynth/audio"
	"github.com/mrdg/modsynth/midi"
)

var errNoMIDI = errors.New("no midi file loaded")

// patch is the module graph played by the synth:
//
//	midi file, live notes -> voices -> mixer.0
//	clock -> seq -> drone -> drone-amp -> mixer.1
//	noise                             -> mixer.2
//	mixer -> comp -> out
type patch struct {
	devices    map[string]audio.Device
	oscillator map[string]*audio.Oscillator
	sequencers map[string]*sharedSequencer

	voice  *audio.SynthVoice
	voices *audio.VoiceSet
	live   *audio.LiveNotes
	midi   *audio.Handle // wraps a *audio.MIDISource, nil without a file
	synth  *audio.Synth
}

type sharedSequencer struct {
	seq    *audio.Sequencer
	handle *audio.Handle
}

func newPatch(cfg *Config) (*patch, error) {
	p := &patch{
		devices:    make(map[string]audio.Device),
		oscillator: make(map[string]*audio.Oscillator),
		sequencers: make(map[string]*sharedSequencer),
		voice:      audio.NewSynthVoice(),
		live:       audio.NewLiveNotes(),
	}
	if cfg.Preset != "" {
		if err := audio.LoadPreset(cfg.Preset, p.voice); err != nil {
			return nil, err
		}
	}

	notes := noteSources{p.live}
	if cfg.MIDIFile != "" {
		tl, err := midi.LoadTimeline(cfg.MIDIFile)
		if err != nil {
			return nil, err
		}
		src, err := audio.NewMIDISource(tl, cfg.Track, cfg.Channel)
		if err != nil {
			return nil, fmt.Errorf("select track %d channel %d: %w", cfg.Track, cfg.Channel, err)
		}
		p.midi = audio.Share("midi", src)
		notes = append(notes, p.midi)
	}
	if cfg.Voices < 0 || cfg.Voices > audio.MaxVoices {
		return nil, fmt.Errorf("voices must be between 0 and %d: %d", audio.MaxVoices, cfg.Voices)
	}
	p.voices = audio.NewVoiceSet(audio.NewProps(), p.voice, cfg.Voices, notes)

	clock := audio.NewOscillator(audio.NewProps())
	mustSet(clock, "wave", "pulse")
	mustSet(clock, "freq", 4.)
	seq := audio.NewSequencer(audio.NewProps())
	seq.Clock = clock
	for _, f := range []float64{55, 82.41, 110, 73.42} {
		seq.AddStep(audio.Step{Value: f})
	}
	seqHandle := audio.Share("seq", seq)

	drone := audio.NewOscillator(audio.NewProps())
	mustSet(drone, "wave", "saw")
	drone.Override = seqHandle
	droneAmp := audio.NewAttenuverter(audio.NewProps())
	droneAmp.Signal = drone
	mustSet(droneAmp, "gain", .5)

	noise := audio.NewNoise(audio.NewProps(), 1)

	mixer := audio.NewMixer(audio.NewProps())
	mixer.AddInput(audio.Share("voices", p.voices), 1)
	mixer.AddInput(droneAmp, 0)
	mixer.AddInput(noise, 0)
	if err := mixer.Set("mode", cfg.MixMode); err != nil {
		return nil, &audio.ConfigError{Op: "mix mode", Err: err}
	}

	comp := audio.NewCompressor(audio.NewProps())
	comp.Signal = mixer
	out := audio.NewOutput(audio.NewProps())
	out.Input = comp
	p.synth = audio.NewSynth(out, cfg.SampleRate, cfg.Channels)

	p.devices["voice"] = p.voice
	p.devices["voices"] = p.voices
	p.devices["clock"] = clock
	p.devices["seq"] = seq
	p.devices["drone"] = drone
	p.devices["drone-amp"] = droneAmp
	p.devices["noise"] = noise
	p.devices["mixer"] = mixer
	p.devices["comp"] = comp
	p.devices["out"] = out
	p.oscillator["clock"] = clock
	p.oscillator["drone"] = drone
	p.sequencers["seq"] = &sharedSequencer{seq: seq, handle: seqHandle}
	return p, nil
}

func mustSet(d audio.Device, key string, v interface{}) {
	if err := d.Set(key, v); err != nil {
		panic(err)
	}
}

func (p *patch) device(name string) (audio.Device, error) {
	d, ok := p.devices[name]
	if !ok {
		return nil, fmt.Errorf("unknown device: %s", name)
	}
	return d, nil
}

func (p *patch) deviceNames() []string {
	var names []string
	for name := range p.devices {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (p *patch) sequencer(name string) (*sharedSequencer, error) {
	s, ok := p.sequencers[name]
	if !ok {
		return nil, fmt.Errorf("unknown sequencer: %s", name)
	}
	return s, nil
}

// withMIDI runs f with the midi source locked against the render thread.
func (p *patch) withMIDI(f func(src *audio.MIDISource) error) error {
	if p.midi == nil {
		return errNoMIDI
	}
	var err error
	p.midi.Update(func() {
		err = f(p.midi.Module().(*audio.MIDISource))
	})
	return err
}

// noteSources plays the notes of several sources on one voice set.
type noteSources []audio.NoteModule

func (ns noteSources) Notes(n int, info audio.OutputInfo) ([]audio.NoteInterval, error) {
	var all []audio.NoteInterval
	for _, src := range ns {
		notes, err := src.Notes(n, info)
		if err != nil {
			return nil, err
		}
		all = append(all, notes...)
	}
	return all, nil
}

func logDevices(p *patch) {
	log.Printf("patch: devices %v", p.deviceNames())
}
