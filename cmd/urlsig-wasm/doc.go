// Command urlsig-wasm builds the URL canonicalizer as a WebAssembly module.
//
// For GOOS=wasip1 the module exports two functions that operate on one shared
// 2048-byte buffer in linear memory:
//
//	get_buffer_pointer() -> i32      address of the buffer
//	normalize_and_hash_url() -> i32  0 ok, 1 not UTF-8, 2 not a URL
//
// The host writes a null-terminated UTF-8 URL at the buffer address, calls
// normalize_and_hash_url, and on 0 reads the null-terminated 64-character hex
// signature from the same address. On failure the buffer still holds the
// input. Calls must not overlap.
//
//	GOOS=wasip1 GOARCH=wasm go build -buildmode=c-shared -o urlsig.wasm ./cmd/urlsig-wasm
//
// For GOOS=js the module registers normalizeUrl(url) and hashUrl(url) on the
// global object; both return null on failure.
//
//	GOOS=js GOARCH=wasm go build -o urlsig.wasm ./cmd/urlsig-wasm
package main
