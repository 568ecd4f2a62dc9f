package audio

import (
	"encoding/binary"
	"errors"
	"time"

	"github.com/hajimehoshi/oto/v2"
)

// OtoPlayer plays through oto, which pulls signed 16 bit little endian
// samples from an io.Reader.
type OtoPlayer struct {
	sampleRate int
	channels   int

	ctx      *oto.Context
	player   oto.Player
	callback Callback
	buf      []float32
}

func NewOtoPlayer(sampleRate, channels int) *OtoPlayer {
	return &OtoPlayer{sampleRate: sampleRate, channels: channels}
}

func (p *OtoPlayer) Negotiate() (StreamConfig, error) {
	if p.ctx == nil {
		ctx, ready, err := oto.NewContext(p.sampleRate, p.channels, oto.FormatSignedInt16LE)
		if err != nil {
			return StreamConfig{}, &ConfigError{Op: "oto context", Err: err}
		}
		<-ready
		p.ctx = ctx
	}
	return StreamConfig{Format: I16, SampleRate: p.sampleRate, Channels: p.channels}, nil
}

func (p *OtoPlayer) SetCallback(cb Callback) { p.callback = cb }

func (p *OtoPlayer) Play() error {
	if p.ctx == nil {
		return &ConfigError{Op: "play", Err: errors.New("stream not negotiated")}
	}
	if p.callback == nil {
		return &ConfigError{Op: "play", Err: errors.New("no callback")}
	}
	p.player = p.ctx.NewPlayer(p)
	p.player.Play()
	return nil
}

// Read renders as many whole frames as fit in b.
func (p *OtoPlayer) Read(b []byte) (int, error) {
	frame := 2 * p.channels
	frames := len(b) / frame
	if frames == 0 {
		return 0, nil
	}
	n := frames * p.channels
	if cap(p.buf) < n {
		p.buf = make([]float32, n)
	}
	buf := p.buf[:n]
	p.callback(buf, time.Now())
	for i, f := range buf {
		binary.LittleEndian.PutUint16(b[2*i:], uint16(FloatToInt16(f)))
	}
	return frames * frame, nil
}

func (p *OtoPlayer) Close() error {
	if p.player == nil {
		return nil
	}
	err := p.player.Close()
	p.player = nil
	return err
}
