package audio

import (
	"errors"
	"testing"
	"time"
)

type countingModule struct {
	fills int
	notes int
	panic bool
}

func (m *countingModule) Fill(buf []float64, info OutputInfo) error {
	if m.panic {
		panic("broken module")
	}
	m.fills++
	for i := range buf {
		buf[i] = float64(m.fills)
	}
	return nil
}

func (m *countingModule) Notes(n int, info OutputInfo) ([]NoteInterval, error) {
	m.notes++
	return []NoteInterval{{Note: NoteFromMIDI(60)}}, nil
}

func TestHandleMemo(t *testing.T) {
	m := &countingModule{}
	h := Share("counter", m)
	buf := make([]float64, 4)
	ts := time.Unix(1, 0)
	first := OutputInfo{SampleRate: 4, Range: SampleRange{First: 1, Len: 4}, Timestamp: ts}

	for i := 0; i < 3; i++ {
		if err := h.Fill(buf, first); err != nil {
			t.Fatal(err)
		}
	}
	if m.fills != 1 || buf[0] != 1 {
		t.Errorf("same range: want 1 fill, got %d (buf %v)", m.fills, buf)
	}

	next := first
	next.Range = SampleRange{First: 5, Len: 4}
	if err := h.Fill(buf, next); err != nil {
		t.Fatal(err)
	}
	replay := next
	replay.Timestamp = ts.Add(time.Millisecond)
	if err := h.Fill(buf, replay); err != nil {
		t.Fatal(err)
	}
	if m.fills != 3 || buf[0] != 3 {
		t.Errorf("new range and timestamp: want 3 fills, got %d (buf %v)", m.fills, buf)
	}

	h.Update(func() {})
	if err := h.Fill(buf, replay); err != nil {
		t.Fatal(err)
	}
	if m.fills != 4 {
		t.Errorf("update should drop the cached output, got %d fills", m.fills)
	}
}

func TestHandleNotes(t *testing.T) {
	m := &countingModule{}
	h := Share("notes", m)
	inf := info(4, 4)
	for i := 0; i < 2; i++ {
		notes, err := h.Notes(4, inf)
		if err != nil {
			t.Fatal(err)
		}
		if len(notes) != 1 {
			t.Fatalf("want 1 note, got %v", notes)
		}
	}
	if m.notes != 1 {
		t.Errorf("want 1 call, got %d", m.notes)
	}

	if _, err := Share("signal", Constant(1)).Notes(4, inf); err == nil {
		t.Error("expected an error for a module without notes")
	}
}

func TestHandleBusy(t *testing.T) {
	h := Share("busy", &countingModule{})
	var err error
	h.Update(func() {
		err = h.Fill(make([]float64, 4), info(4, 4))
	})
	if !errors.Is(err, ErrBusy) {
		t.Errorf("want ErrBusy, got %v", err)
	}
}

func TestHandlePoisoned(t *testing.T) {
	m := &countingModule{panic: true}
	h := Share("broken", m)
	buf := make([]float64, 4)
	if err := h.Fill(buf, info(4, 4)); !errors.Is(err, ErrPoisoned) {
		t.Fatalf("want ErrPoisoned, got %v", err)
	}
	if !h.Poisoned() {
		t.Error("handle should be poisoned")
	}
	m.panic = false
	if err := h.Fill(buf, info(4, 4)); !errors.Is(err, ErrPoisoned) {
		t.Errorf("want ErrPoisoned after a panic, got %v", err)
	}
	if m.fills != 0 {
		t.Errorf("a poisoned module should not be called, got %d fills", m.fills)
	}
}
