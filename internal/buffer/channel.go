// Package buffer holds the fixed-capacity, null-terminated byte region used to
// pass one string at a time across a foreign-call boundary.
//
// A Channel holds exactly one value: the bytes preceding the first zero byte.
// Write replaces that value and appends a terminator; bytes past the terminator
// are left as they were. There is no locking. A Channel must be used by one
// call chain at a time (write, process, read), never concurrently.
package buffer

import (
	"bytes"
	"errors"
	"fmt"
	"unicode/utf8"
	"unsafe"
)

// Capacity is the hard size limit of a Channel, terminator included.
const Capacity = 2048

var ErrCapacityExceeded = fmt.Errorf("value exceeds buffer capacity (max %d bytes including terminator)", Capacity)

// DecodeError reports that the resident value is not valid UTF-8.
type DecodeError struct {
	Offset int // first byte of the invalid sequence
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("buffer contents are not valid UTF-8 (offset %d)", e.Offset)
}

type Channel struct {
	data [Capacity]byte
}

func New() *Channel { return &Channel{} }

// Write stores s at offset 0 followed by a zero byte. The channel is left
// untouched when s does not fit.
func (c *Channel) Write(s string) error {
	if len(s)+1 > Capacity {
		return ErrCapacityExceeded
	}
	n := copy(c.data[:], s)
	c.data[n] = 0
	return nil
}

// Read returns a copy of the value preceding the first zero byte. Without a
// terminator the whole capacity is the value.
func (c *Channel) Read() (string, error) {
	raw := c.data[:]
	if i := bytes.IndexByte(raw, 0); i >= 0 {
		raw = raw[:i]
	}
	if off := invalidOffset(raw); off >= 0 {
		return "", &DecodeError{Offset: off}
	}
	return string(raw), nil
}

// Pointer returns the address of byte 0. The storage never moves, so the
// address is valid for as long as the Channel is reachable. Callers outside
// the process read up to and including the terminator; they must not write
// through it while a call is in flight.
func (c *Channel) Pointer() unsafe.Pointer {
	return unsafe.Pointer(&c.data[0])
}

func invalidOffset(b []byte) int {
	if utf8.Valid(b) {
		return -1
	}
	for off := 0; off < len(b); {
		r, size := utf8.DecodeRune(b[off:])
		if r == utf8.RuneError && size <= 1 {
			return off
		}
		off += size
	}
	return -1
}

// IsDecodeError reports whether err is (or wraps) a *DecodeError.
func IsDecodeError(err error) bool {
	var de *DecodeError
	return errors.As(err, &de)
}
