package audio

import (
	"reflect"
	"testing"
)

func TestLiveNotes(t *testing.T) {
	c4, e4 := NoteFromMIDI(60), NoteFromMIDI(64)
	l := NewLiveNotes()
	next := func() []NoteInterval {
		t.Helper()
		notes, err := l.Notes(4, info(4, 4))
		if err != nil {
			t.Fatal(err)
		}
		return notes
	}

	if notes := next(); len(notes) != 0 {
		t.Errorf("want no notes, got %v", notes)
	}

	l.NoteOn(c4)
	if want, got := []NoteInterval{{Note: c4, Start: intPtr(0)}}, next(); !reflect.DeepEqual(want, got) {
		t.Errorf("note on:\nwant: %+v\ngot:  %+v", want, got)
	}
	l.NoteOn(e4)
	want := []NoteInterval{{Note: c4}, {Note: e4, Start: intPtr(0)}}
	if got := next(); !reflect.DeepEqual(want, got) {
		t.Errorf("second note:\nwant: %+v\ngot:  %+v", want, got)
	}
	l.NoteOff(c4)
	want = []NoteInterval{{Note: c4, End: intPtr(0)}, {Note: e4}}
	if got := next(); !reflect.DeepEqual(want, got) {
		t.Errorf("note off:\nwant: %+v\ngot:  %+v", want, got)
	}
	if want, got := []NoteInterval{{Note: e4}}, next(); !reflect.DeepEqual(want, got) {
		t.Errorf("held note:\nwant: %+v\ngot:  %+v", want, got)
	}
}

func TestLiveNotesShortNote(t *testing.T) {
	c4 := NoteFromMIDI(60)
	l := NewLiveNotes()
	l.NoteOn(c4)
	l.NoteOff(c4)

	notes, _ := l.Notes(4, info(4, 4))
	if want := []NoteInterval{{Note: c4, Start: intPtr(0)}}; !reflect.DeepEqual(want, notes) {
		t.Errorf("first buffer:\nwant: %+v\ngot:  %+v", want, notes)
	}
	notes, _ = l.Notes(4, info(4, 4))
	if want := []NoteInterval{{Note: c4, End: intPtr(0)}}; !reflect.DeepEqual(want, notes) {
		t.Errorf("second buffer:\nwant: %+v\ngot:  %+v", want, notes)
	}
	if notes, _ = l.Notes(4, info(4, 4)); len(notes) != 0 {
		t.Errorf("want no notes, got %+v", notes)
	}
}

func TestLiveNotesRetrigger(t *testing.T) {
	c4 := NoteFromMIDI(60)
	l := NewLiveNotes()
	l.NoteOn(c4)
	l.NoteOff(c4)
	l.NoteOn(c4)

	want := [][]NoteInterval{
		{{Note: c4, Start: intPtr(0)}},
		{{Note: c4}},
		{{Note: c4}},
	}
	for i, w := range want {
		if got, _ := l.Notes(4, info(4, 4)); !reflect.DeepEqual(w, got) {
			t.Errorf("buffer %d:\nwant: %+v\ngot:  %+v", i, w, got)
		}
	}

	l.NoteOff(c4)
	notes, _ := l.Notes(4, info(4, 4))
	if want := []NoteInterval{{Note: c4, End: intPtr(0)}}; !reflect.DeepEqual(want, notes) {
		t.Errorf("release:\nwant: %+v\ngot:  %+v", want, notes)
	}
}
