package audio

import (
	"fmt"
	"log"
	"time"
)

// Synth connects the module graph to a backend. Render and
// FillOutputBuffer must only be called from one goroutine at a time.
type Synth struct {
	out        *Output
	sampleRate int
	channels   int
	clock      SampleClock
	lastErr    string
}

func NewSynth(out *Output, sampleRate, channels int) *Synth {
	return &Synth{out: out, sampleRate: sampleRate, channels: channels}
}

func (s *Synth) Output() *Output { return s.out }

func (s *Synth) SampleRate() int { return s.sampleRate }

func (s *Synth) Channels() int { return s.channels }

// Elapsed returns the number of frames rendered so far.
func (s *Synth) Elapsed() uint64 { return s.clock.Elapsed() }

// FillOutputBuffer renders the graph into buf. It never panics: when the
// graph fails the whole buffer is silence and the error is logged.
func (s *Synth) FillOutputBuffer(buf []float32, info OutputInfo) {
	defer func() {
		if r := recover(); r != nil {
			silence(buf)
			s.report(fmt.Errorf("panic: %v", r))
		}
	}()
	if err := s.out.Fill(buf, info); err != nil {
		silence(buf)
		s.report(err)
		return
	}
	s.lastErr = ""
}

// report logs err unless it is the same error as in the previous buffer.
func (s *Synth) report(err error) {
	if msg := err.Error(); msg != s.lastErr {
		log.Printf("synth: render failed, output muted: %s", msg)
		s.lastErr = msg
	}
}

// Render advances the sample clock by the frames in buf and renders them.
func (s *Synth) Render(buf []float32, ts time.Time) {
	frames := len(buf) / s.channels
	s.FillOutputBuffer(buf, OutputInfo{
		SampleRate:   s.sampleRate,
		ChannelCount: s.channels,
		Range:        s.clock.Range(frames),
		Timestamp:    ts,
	})
}

// Play negotiates the stream format with b and starts rendering into it.
func (s *Synth) Play(b Backend) error {
	cfg, err := b.Negotiate()
	if err != nil {
		return err
	}
	if cfg.Channels < 1 || cfg.SampleRate < 1 {
		return &ConfigError{Op: "negotiate", Err: fmt.Errorf("unusable stream %+v", cfg)}
	}
	s.sampleRate = cfg.SampleRate
	s.channels = cfg.Channels
	log.Printf("synth: playing %s, %d Hz, %d channels", cfg.Format, cfg.SampleRate, cfg.Channels)
	b.SetCallback(s.Render)
	return b.Play()
}

func silence(buf []float32) {
	for i := range buf {
		buf[i] = 0
	}
}
