package core

import (
	"crypto/sha256"
	"encoding/hex"
)

// SignatureLen is the length of a hex-encoded signature.
const SignatureLen = sha256.Size * 2

// Sign returns the lowercase hex SHA-256 of normalized.
func Sign(normalized string) string {
	sum := sha256.Sum256([]byte(normalized))
	return hex.EncodeToString(sum[:])
}
