// Package hart renders declarative trees of elements and components into
// a live DOM and keeps that DOM up to date across re-renders.
//
// An App owns one render root. Every call to Render builds the lazy tree
// into concrete nodes, compares it with the tree retained from the
// previous pass and applies the resulting change operations to the DOM:
//
//	doc := memdom.NewDocument()
//	body := memdom.NewElement("body")
//	app := hart.New(doc, body)
//	defer app.Close()
//
//	if err := app.Render(ctx, vdom.Div(vdom.Class("greeting"), "hello")); err != nil {
//	    log.Fatal(err)
//	}
//	app.Flush() // run effects and unmounts
//
// Components keep state between passes through the hooks in vdom.Hooks.
// Effects and unmount callbacks never run inline: they are deferred
// through the App's scheduler, which by default is a queue drained by
// Flush.
//
// Apps share nothing. Several Apps may render into different targets of
// the same document, and each keeps its own arena and hook store.
package hart

import "github.com/hart-dev/hart/internal/errors"

// Version is the hart release.
const Version = "0.4.0"

// ErrorCode returns the registered code ("E001", ...) carried by err,
// or "" when err has none.
func ErrorCode(err error) string {
	return errors.Code(err)
}
