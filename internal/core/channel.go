package core

import (
	"fmt"

	"github.com/okpulse/urlsig/internal/buffer"
)

// NormalizeChannel reads the pending URL from ch and returns its normalized
// form. The channel is not modified.
func NormalizeChannel(ch *buffer.Channel) (string, error) {
	raw, err := ch.Read()
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidEncoding, err)
	}
	return NormalizeURL(raw)
}

// HashToChannel replaces the contents of ch with the signature of normalized.
func HashToChannel(ch *buffer.Channel, normalized string) error {
	return ch.Write(Sign(normalized))
}

// NormalizeAndHash runs the whole exchange on ch: read, normalize, sign, write
// back. On failure the channel still holds the input and the returned code
// says why.
func NormalizeAndHash(ch *buffer.Channel) Code {
	normalized, err := NormalizeChannel(ch)
	if err != nil {
		return CodeOf(err)
	}
	if err := HashToChannel(ch, normalized); err != nil {
		return CodeOf(err)
	}
	return CodeOK
}
