package midi

import (
	"math"
	"math/bits"
	"sort"
	"time"
)

// DefaultTempo is the tempo in effect until the first SetTempo event: 120 bpm.
const DefaultTempo = 500_000

type tempoChange struct {
	tick   uint64
	micros uint32        // microseconds per quarter note from tick onwards
	at     time.Duration // time of tick
}

// tempoMap converts between ticks and time. Files with an SMPTE division
// have a constant rate and no tempo changes.
type tempoMap struct {
	division Division
	changes  []tempoChange
}

func newTempoMap(div Division, changes []tempoChange) *tempoMap {
	sort.SliceStable(changes, func(i, j int) bool { return changes[i].tick < changes[j].tick })
	m := &tempoMap{division: div}
	if div.SMPTE {
		return m
	}
	m.changes = append(m.changes, tempoChange{tick: 0, micros: DefaultTempo})
	for _, c := range changes {
		last := &m.changes[len(m.changes)-1]
		if c.tick == last.tick {
			// a later change at the same tick wins
			last.micros = c.micros
			continue
		}
		c.at = addDuration(last.at, m.span(c.tick-last.tick, last.micros))
		m.changes = append(m.changes, c)
	}
	return m
}

// span is the duration of n ticks at the given tempo. Durations that do not
// fit in a time.Duration saturate.
func (m *tempoMap) span(n uint64, micros uint32) time.Duration {
	tpq := uint64(m.division.TicksPerQuarter)
	return time.Duration(mulDiv(n, uint64(micros)*uint64(time.Microsecond), tpq))
}

// mulDiv returns a*b/c with a 128 bit intermediate product, capped at
// math.MaxInt64.
func mulDiv(a, b, c uint64) uint64 {
	hi, lo := bits.Mul64(a, b)
	if hi >= c {
		return math.MaxInt64
	}
	q, _ := bits.Div64(hi, lo, c)
	if q > math.MaxInt64 {
		return math.MaxInt64
	}
	return q
}

func addDuration(a, b time.Duration) time.Duration {
	if a > math.MaxInt64-b {
		return math.MaxInt64
	}
	return a + b
}

func (m *tempoMap) smpteTicksPerSecond() float64 {
	return float64(m.division.FramesPerSecond) * float64(m.division.TicksPerFrame)
}

// ticksPerSecond returns the rate at the start of the track.
func (m *tempoMap) ticksPerSecond() float64 {
	if m.division.SMPTE {
		return m.smpteTicksPerSecond()
	}
	bpm := 60_000_000 / float64(m.changes[0].micros)
	return float64(m.division.TicksPerQuarter) * (bpm / 60)
}

func (m *tempoMap) tickToTime(tick uint64) time.Duration {
	if m.division.SMPTE {
		return time.Duration(float64(tick) / m.smpteTicksPerSecond() * float64(time.Second))
	}
	i := sort.Search(len(m.changes), func(i int) bool { return m.changes[i].tick > tick }) - 1
	c := m.changes[i]
	return addDuration(c.at, m.span(tick-c.tick, c.micros))
}

func (m *tempoMap) timeToTick(d time.Duration) uint64 {
	if d <= 0 {
		return 0
	}
	if m.division.SMPTE {
		return uint64(d.Seconds() * m.smpteTicksPerSecond())
	}
	i := sort.Search(len(m.changes), func(i int) bool { return m.changes[i].at > d }) - 1
	c := m.changes[i]
	if c.micros == 0 {
		return c.tick
	}
	elapsed := uint64(d - c.at)
	tpq := uint64(m.division.TicksPerQuarter)
	return c.tick + mulDiv(elapsed, tpq, uint64(c.micros)*uint64(time.Microsecond))
}
