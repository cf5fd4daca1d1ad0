//go:build js && wasm

package main

import (
	"fmt"
	"syscall/js"

	"github.com/okpulse/urlsig/internal/core"
)

func jsCallback(fn func(string) (string, error)) js.Func {
	return js.FuncOf(func(this js.Value, args []js.Value) any {
		if len(args) == 0 || args[0].Type() != js.TypeString {
			return nil
		}
		out, err := fn(args[0].String())
		if err != nil {
			return nil
		}
		return out
	})
}

func main() {
	var p core.Pipeline
	js.Global().Set("normalizeUrl", jsCallback(p.Canonical))
	js.Global().Set("hashUrl", jsCallback(p.Sign))
	fmt.Println("urlsig: ready")

	select {}
}
