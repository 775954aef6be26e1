//go:build js && wasm

package jsdom

import "syscall/js"

// Microtasks schedules tasks with queueMicrotask, so effects run after the
// current render and before the browser paints.
type Microtasks struct{}

func (Microtasks) Schedule(task func()) {
	var fn js.Func
	fn = js.FuncOf(func(js.Value, []js.Value) any {
		defer fn.Release()
		task()
		return nil
	})
	js.Global().Call("queueMicrotask", fn)
}
