package memdom

import (
	"strings"

	"github.com/hart-dev/hart/pkg/dom"
)

// Event is a synthetic event delivered by Dispatch.
type Event struct {
	kind      string
	target    dom.Node
	prevented bool
}

// NewEvent creates an event of the given type ("click", "input", ...).
func NewEvent(kind string, target dom.Node) *Event {
	return &Event{kind: strings.ToLower(kind), target: target}
}

func (e *Event) Type() string           { return e.kind }
func (e *Event) Target() dom.Node       { return e.target }
func (e *Event) PreventDefault()        { e.prevented = true }
func (e *Event) DefaultPrevented() bool { return e.prevented }

// Dispatch invokes the on<type> handler property of target, if any, and
// reports whether a handler ran. Handlers may be func(dom.Event),
// dom.Handler or func().
func Dispatch(target dom.Node, ev dom.Event) bool {
	switch h := target.Property("on" + ev.Type()).(type) {
	case func(dom.Event):
		h(ev)
	case dom.Handler:
		h(ev)
	case func():
		h()
	default:
		return false
	}
	return true
}

// Type simulates a user edit of an input: the value property is set to
// text, then input and keyup events fire.
func Type(target dom.Node, text string) {
	target.SetProperty("value", text)
	Dispatch(target, NewEvent("input", target))
	Dispatch(target, NewEvent("keyup", target))
}
