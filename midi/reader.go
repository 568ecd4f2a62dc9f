package midi

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"io"
)

// smallRead is the largest read that allocates its whole buffer up front.
// Longer reads grow with the data that arrives, so a declared length can't
// allocate more than the stream holds.
const smallRead = 64 << 10

// reader keeps track of how many bytes have been consumed so track parsing
// can stop at the declared chunk length.
type reader struct {
	r   *bufio.Reader
	pos int64
}

func newReader(r io.Reader) *reader {
	if br, ok := r.(*bufio.Reader); ok {
		return &reader{r: br}
	}
	return &reader{r: bufio.NewReader(r)}
}

func (r *reader) ReadByte() (byte, error) {
	b, err := r.r.ReadByte()
	if err != nil {
		return 0, unexpectedEOF(err)
	}
	r.pos++
	return b, nil
}

func (r *reader) read(n int) ([]byte, error) {
	if n > smallRead {
		var buf bytes.Buffer
		m, err := io.CopyN(&buf, r.r, int64(n))
		r.pos += m
		if err != nil {
			return nil, unexpectedEOF(err)
		}
		return buf.Bytes(), nil
	}
	buf := make([]byte, n)
	m, err := io.ReadFull(r.r, buf)
	r.pos += int64(m)
	if err != nil {
		return nil, unexpectedEOF(err)
	}
	return buf, nil
}

func (r *reader) uint16() (uint16, error) {
	buf, err := r.read(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(buf), nil
}

func (r *reader) uint32() (uint32, error) {
	buf, err := r.read(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(buf), nil
}

func (r *reader) varLen() (uint64, error) {
	v, _, err := ReadVarLen(r)
	return v, err
}

func unexpectedEOF(err error) error {
	if err == io.EOF {
		return io.ErrUnexpectedEOF
	}
	return err
}
