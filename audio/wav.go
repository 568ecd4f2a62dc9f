package audio

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/youpy/go-wav"
)

const wavBlockSize = 512

// WavWriter is an offline backend that renders a fixed number of frames as
// 16 bit PCM into a WAV stream. Play returns when all frames are written.
type WavWriter struct {
	w          io.Writer
	sampleRate int
	channels   int
	frames     int
	callback   Callback
}

func NewWavWriter(w io.Writer, sampleRate, channels, frames int) *WavWriter {
	return &WavWriter{w: w, sampleRate: sampleRate, channels: channels, frames: frames}
}

func (ww *WavWriter) Negotiate() (StreamConfig, error) {
	if ww.channels < 1 || ww.channels > 2 {
		return StreamConfig{}, &ConfigError{Op: "wav channels", Err: fmt.Errorf("unsupported channel count %d", ww.channels)}
	}
	if ww.sampleRate < 1 {
		return StreamConfig{}, &ConfigError{Op: "wav sample rate", Err: fmt.Errorf("invalid sample rate %d", ww.sampleRate)}
	}
	return StreamConfig{Format: I16, SampleRate: ww.sampleRate, Channels: ww.channels, BufferSize: wavBlockSize}, nil
}

func (ww *WavWriter) SetCallback(cb Callback) { ww.callback = cb }

func (ww *WavWriter) Play() error {
	if ww.callback == nil {
		return &ConfigError{Op: "play", Err: errors.New("no callback")}
	}
	w := wav.NewWriter(ww.w, uint32(ww.frames), uint16(ww.channels), uint32(ww.sampleRate), 16)
	buf := make([]float32, wavBlockSize*ww.channels)
	samples := make([]wav.Sample, wavBlockSize)
	for left := ww.frames; left > 0; {
		n := wavBlockSize
		if left < n {
			n = left
		}
		ww.callback(buf[:n*ww.channels], time.Time{})
		for i := 0; i < n; i++ {
			var s wav.Sample
			for c := 0; c < ww.channels; c++ {
				s.Values[c] = int(FloatToInt16(buf[i*ww.channels+c]))
			}
			samples[i] = s
		}
		if err := w.WriteSamples(samples[:n]); err != nil {
			return fmt.Errorf("write wav: %w", err)
		}
		left -= n
	}
	return nil
}

func (ww *WavWriter) Close() error { return nil }
