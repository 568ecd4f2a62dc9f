package audio

// SampleRange is a run of consecutive sample indices. Indices count from 1
// since the clock started, so the first sample of a stream is index 1.
type SampleRange struct {
	First uint64
	Len   int
}

// At returns the index of the i'th sample in the range.
func (r SampleRange) At(i int) uint64 {
	return r.First + uint64(i)
}

// End returns the index one past the last sample in the range.
func (r SampleRange) End() uint64 {
	return r.First + uint64(r.Len)
}

// SampleClock hands out consecutive sample ranges.
type SampleClock struct {
	elapsed uint64
}

// Range returns the next n sample indices and advances the clock.
func (c *SampleClock) Range(n int) SampleRange {
	r := SampleRange{First: c.elapsed + 1, Len: n}
	c.elapsed += uint64(n)
	return r
}

// Elapsed returns the number of samples handed out so far.
func (c *SampleClock) Elapsed() uint64 {
	return c.elapsed
}
