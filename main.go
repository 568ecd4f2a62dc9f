package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/mrdg/modsynth/audio"
	_ "gitlab.com/gomidi/midi/v2/drivers/rtmididrv"
)

func main() {
	var (
		configFile = flag.String("config", "", "config file (default ~/.config/modsynth/config.json)")
		backend    = flag.String("backend", "", "audio backend: portaudio, oto or wav")
		sampleRate = flag.Int("rate", 0, "sample rate, 0 uses the device default")
		bufferSize = flag.Int("buffer", 0, "frames per buffer")
		voices     = flag.Int("voices", 0, "maximum number of voices, 0 is unlimited")
		midiFile   = flag.String("midi", "", "MIDI file to play")
		track      = flag.Int("track", 0, "track of the MIDI file")
		channel    = flag.Int("channel", 0, "channel of the track, -1 plays all channels")
		port       = flag.String("port", "", "MIDI input port, \"list\" prints the available ports")
		render     = flag.String("render", "", "render to this wav file and exit")
		duration   = flag.Duration("duration", 10*time.Second, "length of the rendered file")
		run        = flag.String("run", "", "file with commands to run at startup")
		logFile    = flag.String("log", "", "log file")
	)
	flag.Parse()

	cfg, err := LoadConfig(*configFile)
	if err != nil {
		log.Fatal(err)
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "backend":
			cfg.Backend = *backend
		case "rate":
			cfg.SampleRate = *sampleRate
		case "buffer":
			cfg.BufferSize = *bufferSize
		case "voices":
			cfg.Voices = *voices
		case "midi":
			cfg.MIDIFile = *midiFile
		case "track":
			cfg.Track = *track
		case "channel":
			cfg.Channel = *channel
		case "port":
			cfg.MIDIPort = *port
		case "log":
			cfg.LogFile = *logFile
		}
	})
	if *render != "" {
		cfg.Backend = "wav"
	}

	if cfg.LogFile != "" {
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			log.Fatal(err)
		}
		defer f.Close()
		log.SetOutput(f)
	}

	if cfg.MIDIPort == "list" {
		for _, name := range audio.MIDIPorts() {
			fmt.Println(name)
		}
		return
	}

	p, err := newPatch(cfg)
	if err != nil {
		log.Fatal(err)
	}
	logDevices(p)
	env := &env{patch: p, out: os.Stdout}

	if *run != "" {
		lines, err := readLines(*run)
		if err != nil {
			log.Fatal(err)
		}
		if err := env.run(lines); err != nil {
			log.Fatal(err)
		}
	}

	if cfg.Backend == "wav" {
		if err := renderFile(p, cfg, *render, *duration); err != nil {
			log.Fatal(err)
		}
		return
	}

	var out audio.Backend
	switch cfg.Backend {
	case "portaudio":
		out = audio.NewSink(cfg.SampleRate, cfg.BufferSize)
	case "oto":
		out = audio.NewOtoPlayer(cfg.SampleRate, cfg.Channels)
	default:
		log.Fatalf("unknown backend: %s", cfg.Backend)
	}
	defer out.Close()
	if err := p.synth.Play(out); err != nil {
		log.Fatal(err)
	}

	if cfg.MIDIPort != "" {
		stop, err := audio.ListenMIDI(cfg.MIDIPort, p.live)
		if err != nil {
			log.Fatal(err)
		}
		defer stop()
	}

	if err := repl(env); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func renderFile(p *patch, cfg *Config, path string, d time.Duration) error {
	if path == "" {
		return fmt.Errorf("the wav backend needs an output file, use -render")
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	frames := int(d.Seconds() * float64(cfg.SampleRate))
	w := audio.NewWavWriter(f, cfg.SampleRate, cfg.Channels, frames)
	if err := p.synth.Play(w); err != nil {
		return err
	}
	log.Printf("main: rendered %v to %s", d, path)
	return nil
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, strings.TrimSpace(scanner.Text()))
	}
	return lines, scanner.Err()
}
