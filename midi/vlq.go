package midi

import (
	"io"

	"github.com/pkg/errors"
)

// MaxVarLenBytes is the longest variable length quantity the parser accepts.
const MaxVarLenBytes = 7

// ReadVarLen decodes a variable length quantity. Each byte carries 7 bits of
// the value, most significant group first, and has its high bit set when
// another byte follows. It returns the value and the number of bytes read.
func ReadVarLen(r io.ByteReader) (uint64, int, error) {
	var v uint64
	for n := 1; n <= MaxVarLenBytes; n++ {
		b, err := r.ReadByte()
		if err != nil {
			if err == io.EOF {
				err = io.ErrUnexpectedEOF
			}
			return 0, n - 1, err
		}
		v = v<<7 | uint64(b&0x7f)
		if b&0x80 == 0 {
			return v, n, nil
		}
	}
	return 0, MaxVarLenBytes, errors.WithStack(ErrVarLenTooLong)
}

// AppendVarLen appends the variable length encoding of v to buf.
func AppendVarLen(buf []byte, v uint64) []byte {
	var tmp [10]byte
	n := len(tmp) - 1
	tmp[n] = byte(v & 0x7f)
	for v >>= 7; v > 0; v >>= 7 {
		n--
		tmp[n] = byte(v&0x7f) | 0x80
	}
	return append(buf, tmp[n:]...)
}
