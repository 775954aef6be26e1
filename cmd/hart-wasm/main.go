//go:build js && wasm

// Command hart-wasm runs the todo demo in the browser. It mounts into the
// element with id "app" and renders again on the animation frame after
// any change.
package main

import (
	"context"
	"log/slog"
	"syscall/js"

	"github.com/hart-dev/hart"
	"github.com/hart-dev/hart/internal/demo"
	"github.com/hart-dev/hart/internal/errors"
	"github.com/hart-dev/hart/pkg/dom/jsdom"
)

func main() {
	doc := jsdom.Global()
	target := doc.GetElementByID("app")
	if target == nil {
		slog.Error("no #app element")
		return
	}

	app := hart.New(doc, target,
		hart.WithName("hart-wasm"),
		hart.WithScheduler(jsdom.Microtasks{}),
	)
	d := demo.New(app, demo.NewModel("hart", 5))
	ctx := context.Background()

	var frame js.Func
	frame = js.FuncOf(func(js.Value, []js.Value) any {
		if err := d.Settle(ctx); err != nil {
			slog.Error("render failed", "code", errors.Code(err), "error", err)
		}
		js.Global().Call("requestAnimationFrame", frame)
		return nil
	})
	js.Global().Call("requestAnimationFrame", frame)

	select {}
}
