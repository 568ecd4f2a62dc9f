package midi

import (
	"bytes"
	"io"
	"testing"

	"github.com/pkg/errors"
)

func TestReadVarLen(t *testing.T) {
	tests := []struct {
		in   []byte
		want uint64
	}{
		{[]byte{0x00}, 0},
		{[]byte{0x40}, 0x40},
		{[]byte{0x7f}, 0x7f},
		{[]byte{0x81, 0x00}, 0x80},
		{[]byte{0xc0, 0x00}, 0x2000},
		{[]byte{0xff, 0x7f}, 0x3fff},
		{[]byte{0x81, 0x80, 0x00}, 0x4000},
		{[]byte{0xff, 0xff, 0xff, 0x7f}, 0x0fffffff},
	}
	for _, test := range tests {
		got, n, err := ReadVarLen(bytes.NewReader(test.in))
		if err != nil {
			t.Fatalf("% x: %v", test.in, err)
		}
		if got != test.want {
			t.Errorf("% x: want %#x, got %#x", test.in, test.want, got)
		}
		if n != len(test.in) {
			t.Errorf("% x: want %d bytes read, got %d", test.in, len(test.in), n)
		}
		if enc := AppendVarLen(nil, test.want); !bytes.Equal(enc, test.in) {
			t.Errorf("encode %#x: want % x, got % x", test.want, test.in, enc)
		}
	}
}

func TestReadVarLenTooLong(t *testing.T) {
	in := []byte{0x81, 0x81, 0x81, 0x81, 0x81, 0x81, 0x81, 0x00}
	_, _, err := ReadVarLen(bytes.NewReader(in))
	if errors.Cause(err) != ErrVarLenTooLong {
		t.Errorf("want %v, got %v", ErrVarLenTooLong, err)
	}

	// seven bytes is still fine
	v, n, err := ReadVarLen(bytes.NewReader(in[1:]))
	if err != nil {
		t.Fatal(err)
	}
	if n != 7 || v != 1<<42|1<<35|1<<28|1<<21|1<<14|1<<7 {
		t.Errorf("wrong value %#x after %d bytes", v, n)
	}
}

func TestReadVarLenEOF(t *testing.T) {
	_, _, err := ReadVarLen(bytes.NewReader([]byte{0x81}))
	if err != io.ErrUnexpectedEOF {
		t.Errorf("want %v, got %v", io.ErrUnexpectedEOF, err)
	}
}
