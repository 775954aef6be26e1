// Package prefab holds ready-made components.
package prefab

import (
	"sort"
	"strings"

	"github.com/hart-dev/hart/pkg/dom"
	"github.com/hart-dev/hart/pkg/hooks"
	"github.com/hart-dev/hart/pkg/vdom"
)

// Input renders a controlled <input>. When a "value" prop is given, every
// event handler is wrapped so that after it runs the element's value is
// put back to the prop, and a keyup handler is added if none was given.
// The rendered value only changes when the caller re-renders with a new
// "value".
//
//	vdom.Call(prefab.Input, vdom.Props{
//	    "value":   name,
//	    "oninput": func(ev dom.Event) { setName(ev.Target().Property("value")) },
//	})
var Input = vdom.NewComponent("Input", func(h vdom.Hooks, p vdom.Props, _ vdom.ChildPack) *vdom.Lazy {
	attrs := hooks.Memo(h, func() vdom.Props { return Controlled(p) }, propDeps(p))
	return vdom.Elem("input", attrs)
})

// Controlled returns a copy of p with its event handlers wrapped to
// restore p["value"]. p is returned unchanged in content when it has no
// "value".
func Controlled(p vdom.Props) vdom.Props {
	out := p.Clone()
	value, ok := p["value"]
	if !ok {
		return out
	}

	keyup := false
	for name, handler := range p {
		if !vdom.IsEventHandler(name) {
			continue
		}
		out[name] = revert(handler, value)
		if strings.EqualFold(name, "onkeyup") {
			keyup = true
		}
	}
	if !keyup {
		out["onkeyup"] = revert(nil, value)
	}
	return out
}

// revert runs handler, then cancels the event's default action and puts
// value back on the target. The handler goes first so it can read what
// the user typed.
func revert(handler, value any) dom.Handler {
	return func(ev dom.Event) {
		switch h := handler.(type) {
		case func(dom.Event):
			h(ev)
		case dom.Handler:
			h(ev)
		case func():
			h()
		}
		ev.PreventDefault()
		if t := ev.Target(); t != nil {
			t.SetProperty("value", value)
		}
	}
}

// propDeps flattens p into name/value pairs in name order.
func propDeps(p vdom.Props) vdom.Deps {
	names := make([]string, 0, len(p))
	for name := range p {
		names = append(names, name)
	}
	sort.Strings(names)

	deps := make(vdom.Deps, 0, 2*len(names))
	for _, name := range names {
		deps = append(deps, name, p[name])
	}
	return deps
}
