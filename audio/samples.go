package audio

import (
	"io"
	"os"

	"github.com/youpy/go-wav"
)

// LoadSamples reads the first channel of a WAV file.
func LoadSamples(file string) (*Samples, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadSamples(f)
}

// ReadSamples reads the first channel of WAV data from r, e.g. an *os.File or
// a *bytes.Reader.
func ReadSamples(rd interface {
	io.Reader
	io.ReaderAt
}) (*Samples, error) {
	var s Samples
	r := wav.NewReader(rd)
	for {
		samples, err := r.ReadSamples()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		for _, sample := range samples {
			s.Data = append(s.Data, r.FloatValue(sample, 0))
		}
	}
	return &s, nil
}
