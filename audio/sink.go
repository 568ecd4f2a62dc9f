package audio

import (
	"errors"
	"sync"
	"time"

	"github.com/gordonklaus/portaudio"
)

// Sink plays through the default portaudio output device.
type Sink struct {
	sampleRate int
	bufferSize int

	mu       sync.Mutex
	cfg      StreamConfig
	callback Callback
	stream   *portaudio.Stream
	open     bool
}

// NewSink returns a sink that asks for the given rate and buffer size. A zero
// rate uses the device default.
func NewSink(sampleRate, bufferSize int) *Sink {
	return &Sink{sampleRate: sampleRate, bufferSize: bufferSize}
}

func (s *Sink) Negotiate() (StreamConfig, error) {
	if !s.open {
		if err := portaudio.Initialize(); err != nil {
			return StreamConfig{}, &ConfigError{Op: "initialize portaudio", Err: err}
		}
		s.open = true
	}
	dev, err := portaudio.DefaultOutputDevice()
	if err != nil {
		return StreamConfig{}, &ConfigError{Op: "default output device", Err: err}
	}
	channels := dev.MaxOutputChannels
	if channels > 2 {
		channels = 2
	}
	if channels < 1 {
		return StreamConfig{}, &ConfigError{Op: "output channels", Err: errors.New(dev.Name + " has no output channels")}
	}
	rate := s.sampleRate
	if rate == 0 {
		rate = int(dev.DefaultSampleRate)
	}
	s.cfg = StreamConfig{Format: F32, SampleRate: rate, Channels: channels, BufferSize: s.bufferSize}
	return s.cfg, nil
}

func (s *Sink) SetCallback(cb Callback) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.callback = cb
}

func (s *Sink) Play() error {
	if s.cfg.Channels == 0 {
		return &ConfigError{Op: "play", Err: errors.New("stream not negotiated")}
	}
	stream, err := portaudio.OpenDefaultStream(0, s.cfg.Channels, float64(s.cfg.SampleRate), s.cfg.BufferSize, s.process)
	if err != nil {
		return &ConfigError{Op: "open stream", Err: err}
	}
	s.stream = stream
	return stream.Start()
}

func (s *Sink) process(out []float32) {
	s.mu.Lock()
	cb := s.callback
	s.mu.Unlock()
	if cb == nil {
		silence(out)
		return
	}
	cb(out, time.Now())
}

func (s *Sink) Close() error {
	var err error
	if s.stream != nil {
		s.stream.Stop()
		err = s.stream.Close()
		s.stream = nil
	}
	if s.open {
		portaudio.Terminate()
		s.open = false
	}
	return err
}
