package core

import (
	"errors"

	"github.com/okpulse/urlsig/internal/buffer"
)

var (
	ErrInvalidEncoding = errors.New("input is not valid UTF-8")
	ErrInvalidURL      = errors.New("input is not a well-formed URL")
)

// Code is the numeric status returned across the foreign-call boundary.
// The values are stable.
type Code int32

const (
	CodeOK              Code = 0
	CodeInvalidEncoding Code = 1
	CodeInvalidURL      Code = 2
	CodeCapacity        Code = 3 // result did not fit the channel
	CodeUnknown         Code = -1
)

func (c Code) String() string {
	switch c {
	case CodeOK:
		return "ok"
	case CodeInvalidEncoding:
		return "invalid encoding"
	case CodeInvalidURL:
		return "invalid url"
	case CodeCapacity:
		return "capacity exceeded"
	default:
		return "unknown"
	}
}

// CodeOf maps an error from this package (or one it wraps) to its Code.
func CodeOf(err error) Code {
	switch {
	case err == nil:
		return CodeOK
	case errors.Is(err, ErrInvalidEncoding), buffer.IsDecodeError(err):
		return CodeInvalidEncoding
	case errors.Is(err, ErrInvalidURL):
		return CodeInvalidURL
	case errors.Is(err, buffer.ErrCapacityExceeded):
		return CodeCapacity
	default:
		return CodeUnknown
	}
}
