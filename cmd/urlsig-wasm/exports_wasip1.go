//go:build wasip1

package main

import (
	"github.com/okpulse/urlsig/internal/buffer"
	"github.com/okpulse/urlsig/internal/core"
)

//go:wasmexport normalize_and_hash_url
func normalizeAndHashURL() int32 {
	return int32(core.NormalizeAndHash(buffer.Shared()))
}

//go:wasmexport get_buffer_pointer
func getBufferPointer() uint32 {
	return uint32(uintptr(buffer.Shared().Pointer()))
}

func main() {}
