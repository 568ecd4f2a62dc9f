package audio

import "time"

// OutputInfo describes the buffer being rendered.
type OutputInfo struct {
	SampleRate   int
	ChannelCount int
	Range        SampleRange
	// Timestamp is the time the backend asked for the buffer. It is zero when
	// the backend has no clock.
	Timestamp time.Time
}

// SignalModule produces an audio or control signal.
type SignalModule interface {
	Fill(buf []float64, info OutputInfo) error
}

// NoteModule produces the notes that sound during the next n samples.
type NoteModule interface {
	Notes(n int, info OutputInfo) ([]NoteInterval, error)
}

// Samples is a module that plays back a fixed buffer, one sample per output
// sample. Output past the end of Data is zero.
type Samples struct {
	Data []float64
}

func (s *Samples) Fill(buf []float64, info OutputInfo) error {
	n := copy(buf, s.Data)
	zero(buf[n:])
	return nil
}

// Constant outputs the same value for every sample.
type Constant float64

func (c Constant) Fill(buf []float64, info OutputInfo) error {
	for i := range buf {
		buf[i] = float64(c)
	}
	return nil
}

// input renders m into a scratch buffer of length n, or fills it with def
// when m is nil.
func input(scratch *[]float64, m SignalModule, n int, info OutputInfo, def float64) ([]float64, error) {
	buf := grow(scratch, n)
	if m == nil {
		for i := range buf {
			buf[i] = def
		}
		return buf, nil
	}
	return buf, m.Fill(buf, info)
}

// grow resizes *buf to n samples, reusing its storage when possible.
func grow(buf *[]float64, n int) []float64 {
	if cap(*buf) < n {
		*buf = make([]float64, n)
	}
	*buf = (*buf)[:n]
	return *buf
}

func zero(buf []float64) {
	for i := range buf {
		buf[i] = 0
	}
}
