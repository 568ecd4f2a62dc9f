package audio

import (
	"fmt"
	"time"
)

// SampleFormat is the sample type a backend writes to the device.
type SampleFormat int

const (
	F32 SampleFormat = iota
	I16
	U16
)

func (f SampleFormat) String() string {
	switch f {
	case F32:
		return "f32"
	case I16:
		return "i16"
	case U16:
		return "u16"
	default:
		return fmt.Sprintf("format(%d)", int(f))
	}
}

// StreamConfig is the result of negotiating with an output device.
type StreamConfig struct {
	Format     SampleFormat
	SampleRate int
	Channels   int
	BufferSize int // frames per callback, 0 when the backend decides
}

// Callback renders interleaved float samples. ts is the time the backend
// asked for the buffer, or zero when it has no clock.
type Callback func(buf []float32, ts time.Time)

// Backend drives a callback from an output device or file. Backends that
// write integer samples convert the rendered floats themselves.
type Backend interface {
	Negotiate() (StreamConfig, error)
	SetCallback(cb Callback)
	Play() error
	Close() error
}

func clamp32(f float32) float32 {
	if f > 1 {
		return 1
	}
	if f < -1 {
		return -1
	}
	return f
}

// FloatToInt16 converts a sample in [-1, 1] to a signed 16 bit sample.
func FloatToInt16(f float32) int16 {
	return int16(clamp32(f) * 32767)
}

// FloatToUint16 converts a sample in [-1, 1] to an unsigned 16 bit sample
// centered on 32768.
func FloatToUint16(f float32) uint16 {
	return uint16(int32(FloatToInt16(f)) + 32768)
}
