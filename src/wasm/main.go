//go:build js && wasm

//Command wasm exports the universe to the JavaScript host as the global "simlife" object
//
//	const u = simlife.new(387, 200, 0.25)
//	const cells = new Uint8Array(u.width() * u.height())
//	u.tick(); u.cells(cells) // 0 - dead, 1 - alive, row-major
//
//syscall/js can't expose Go memory to the host, cells copies the generation into the caller's buffer
package main

import (
	"simlife/src/universe"
	"syscall/js"
)

func main() {
	js.Global().Set("simlife", js.ValueOf(map[string]interface{}{
		"new": js.FuncOf(newUniverse),
	}))
	select {}
}

//newUniverse is new(width, height, aliveProbability), the construction error is thrown as JS Error
func newUniverse(_ js.Value, args []js.Value) interface{} {
	if len(args) != 3 {
		panic(js.Global().Get("Error").New("new(width, height, aliveProbability) expects 3 arguments"))
	}
	u, err := universe.New(uint32(args[0].Int()), uint32(args[1].Int()), float32(args[2].Float()))
	if err != nil {
		panic(js.Global().Get("Error").New(err.Error()))
	}
	return exportUniverse(u)
}

func exportUniverse(u *universe.Universe) js.Value {
	return js.ValueOf(map[string]interface{}{
		"width": js.FuncOf(func(js.Value, []js.Value) interface{} {
			return u.Width()
		}),
		"height": js.FuncOf(func(js.Value, []js.Value) interface{} {
			return u.Height()
		}),
		"tick": js.FuncOf(func(js.Value, []js.Value) interface{} {
			u.Tick()
			return nil
		}),
		"render": js.FuncOf(func(js.Value, []js.Value) interface{} {
			return u.Render()
		}),
		"generation": js.FuncOf(func(js.Value, []js.Value) interface{} {
			return float64(u.Stats().Generation)
		}),
		"liveCells": js.FuncOf(func(js.Value, []js.Value) interface{} {
			return u.Stats().LiveCells
		}),
		//cells(uint8Array) copies the current generation and returns the number of copied bytes
		"cells": js.FuncOf(func(_ js.Value, args []js.Value) interface{} {
			if len(args) != 1 {
				panic(js.Global().Get("Error").New("cells(uint8Array) expects 1 argument"))
			}
			return js.CopyBytesToJS(args[0], u.Bytes())
		}),
	})
}
