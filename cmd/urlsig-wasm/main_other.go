//go:build !wasip1 && !js

package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Fprintln(os.Stderr, "urlsig-wasm: build with GOOS=wasip1 or GOOS=js and GOARCH=wasm")
	os.Exit(1)
}
