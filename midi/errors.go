package midi

import (
	"fmt"

	"github.com/pkg/errors"
)

// Causes of a failed parse. Errors returned by Parse wrap one of these with
// the header/track/event context they occurred in; use errors.Cause to get
// back to the sentinel.
var (
	ErrBadChunkID      = errors.New("unexpected chunk id")
	ErrHeaderSize      = errors.New("header chunk size is not 6")
	ErrUnknownFormat   = errors.New("unknown file format")
	ErrVarLenTooLong   = errors.New("variable length quantity longer than 7 bytes")
	ErrEmptySysEx      = errors.New("system exclusive event with zero length")
	ErrTrackOverrun    = errors.New("read more than declared size")
	ErrUnknownMeta     = errors.New("unknown meta event type")
	ErrUnknownStatus   = errors.New("unknown status byte")
	ErrNoRunningStatus = errors.New("data byte without running status")
	ErrMetaSize        = errors.New("meta event has the wrong size")
)

// IndexError is returned when a track, channel or event index is outside of
// the valid range.
type IndexError struct {
	What  string
	Index int
	Len   int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("%s index %d out of range [0, %d)", e.What, e.Index, e.Len)
}
