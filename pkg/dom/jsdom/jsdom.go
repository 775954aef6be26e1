//go:build js && wasm

// Package jsdom binds the dom interfaces to the browser DOM through
// syscall/js.
//
//	doc := jsdom.Global()
//	root := doc.GetElementByID("app")
//	app := hart.New(doc, root, hart.WithScheduler(jsdom.Microtasks{}))
//
// Event handler properties such as onclick are wrapped in js.Func values.
// A replaced or cleared handler releases its wrapper, and so does removing
// or replacing the node that holds it.
package jsdom

import (
	"strings"
	"sync"
	"syscall/js"

	"github.com/hart-dev/hart/pkg/dom"
)

// stateKey names the JS property holding a node's registry id.
const stateKey = "__hart"

// Document wraps the browser document.
type Document struct {
	v js.Value
}

// Global returns the page's document.
func Global() *Document {
	return &Document{v: js.Global().Get("document")}
}

// GetElementByID returns the element with id, or nil.
func (d *Document) GetElementByID(id string) dom.Node {
	return wrap(d.v.Call("getElementById", id))
}

func (d *Document) CreateElement(tag string) dom.Node {
	return wrap(d.v.Call("createElement", tag))
}

func (d *Document) CreateElementNS(namespace, tag string) dom.Node {
	return wrap(d.v.Call("createElementNS", namespace, tag))
}

func (d *Document) CreateTextNode(text string) dom.Node {
	return wrap(d.v.Call("createTextNode", text))
}

func (d *Document) CreateComment(text string) dom.Node {
	return wrap(d.v.Call("createComment", text))
}

func (d *Document) CreateDocumentFragment() dom.Node {
	return wrap(d.v.Call("createDocumentFragment"))
}

// Node wraps one browser node.
type Node struct {
	v js.Value
}

// Value returns the underlying JS object.
func (n *Node) Value() js.Value { return n.v }

func wrap(v js.Value) dom.Node {
	if v.IsNull() || v.IsUndefined() {
		return nil
	}
	return &Node{v: v}
}

func unwrap(n dom.Node) js.Value {
	if jn, ok := n.(*Node); ok && jn != nil {
		return jn.v
	}
	return js.Null()
}

func (n *Node) NodeType() dom.NodeType { return dom.NodeType(n.v.Get("nodeType").Int()) }

func (n *Node) TagName() string {
	if n.NodeType() != dom.ElementNode {
		return ""
	}
	return strings.ToLower(n.v.Get("tagName").String())
}

func (n *Node) NamespaceURI() string {
	ns := n.v.Get("namespaceURI")
	if ns.IsNull() || ns.IsUndefined() {
		return ""
	}
	return ns.String()
}

func (n *Node) Data() string {
	d := n.v.Get("data")
	if d.Type() != js.TypeString {
		return ""
	}
	return d.String()
}

func (n *Node) ParentNode() dom.Node  { return wrap(n.v.Get("parentNode")) }
func (n *Node) FirstChild() dom.Node  { return wrap(n.v.Get("firstChild")) }
func (n *Node) NextSibling() dom.Node { return wrap(n.v.Get("nextSibling")) }

func (n *Node) ChildNodes() []dom.Node {
	list := n.v.Get("childNodes")
	out := make([]dom.Node, list.Length())
	for i := range out {
		out[i] = &Node{v: list.Index(i)}
	}
	return out
}

func (n *Node) AppendChild(child dom.Node) { n.v.Call("appendChild", unwrap(child)) }

func (n *Node) InsertBefore(child, ref dom.Node) {
	n.v.Call("insertBefore", unwrap(child), unwrap(ref))
}

func (n *Node) ReplaceChild(newChild, oldChild dom.Node) {
	n.v.Call("replaceChild", unwrap(newChild), unwrap(oldChild))
	release(unwrap(oldChild))
}

// RemoveChild detaches child and releases the handlers of its subtree.
// Nodes meant to survive are moved with InsertBefore instead.
func (n *Node) RemoveChild(child dom.Node) {
	n.v.Call("removeChild", unwrap(child))
	release(unwrap(child))
}

func (n *Node) GetAttribute(name string) (string, bool) {
	v := n.v.Call("getAttribute", name)
	if v.IsNull() {
		return "", false
	}
	return v.String(), true
}

func (n *Node) SetAttribute(name, value string) { n.v.Call("setAttribute", name, value) }

func (n *Node) SetAttributeNS(namespace, name, value string) {
	n.v.Call("setAttributeNS", namespace, name, value)
}

func (n *Node) RemoveAttribute(name string) { n.v.Call("removeAttribute", name) }

func (n *Node) RemoveAttributeNS(namespace, name string) {
	local := name
	if i := strings.IndexByte(name, ':'); i >= 0 {
		local = name[i+1:]
	}
	n.v.Call("removeAttributeNS", namespace, local)
}

func (n *Node) Attributes() []dom.Attr {
	list := n.v.Get("attributes")
	if list.IsUndefined() || list.IsNull() {
		return nil
	}
	out := make([]dom.Attr, 0, list.Length())
	for i := 0; i < list.Length(); i++ {
		a := list.Index(i)
		attr := dom.Attr{Name: a.Get("name").String(), Value: a.Get("value").String()}
		if ns := a.Get("namespaceURI"); !ns.IsNull() {
			attr.Namespace = ns.String()
		}
		out = append(out, attr)
	}
	return out
}

// SetProperty assigns a JS property. Handler values are wrapped so that
// the handler receives a dom.Event; nil clears the property.
func (n *Node) SetProperty(name string, value any) {
	if strings.HasPrefix(name, "on") {
		n.setHandler(name, value)
		return
	}
	switch v := value.(type) {
	case nil:
		n.v.Set(name, js.Null())
	case *Node:
		n.v.Set(name, v.v)
	default:
		n.v.Set(name, js.ValueOf(v))
	}
}

func (n *Node) Property(name string) any {
	if strings.HasPrefix(name, "on") {
		if st := lookup(n.v, false); st != nil {
			return st.handlers[name].value
		}
		return nil
	}
	v := n.v.Get(name)
	switch v.Type() {
	case js.TypeBoolean:
		return v.Bool()
	case js.TypeNumber:
		return v.Float()
	case js.TypeString:
		return v.String()
	case js.TypeNull, js.TypeUndefined:
		return nil
	default:
		return v
	}
}

func (n *Node) IsSameNode(other dom.Node) bool {
	o := unwrap(other)
	return !o.IsNull() && n.v.Equal(o)
}

func (n *Node) setHandler(name string, value any) {
	st := lookup(n.v, value != nil)
	if st == nil {
		return
	}
	if old, ok := st.handlers[name]; ok {
		old.fn.Release()
		delete(st.handlers, name)
	}

	h := handlerOf(value)
	if h == nil {
		n.v.Set(name, js.Null())
		return
	}
	fn := js.FuncOf(func(_ js.Value, args []js.Value) any {
		if len(args) > 0 {
			h(&Event{v: args[0]})
		}
		return nil
	})
	st.handlers[name] = handler{value: value, fn: fn}
	n.v.Set(name, fn)
}

func handlerOf(value any) dom.Handler {
	switch h := value.(type) {
	case dom.Handler:
		return h
	case func(dom.Event):
		return h
	case func():
		return func(dom.Event) { h() }
	}
	return nil
}

// Event wraps a browser event.
type Event struct {
	v js.Value
}

func (e *Event) Type() string           { return e.v.Get("type").String() }
func (e *Event) Target() dom.Node       { return wrap(e.v.Get("target")) }
func (e *Event) PreventDefault()        { e.v.Call("preventDefault") }
func (e *Event) DefaultPrevented() bool { return e.v.Get("defaultPrevented").Bool() }

// Value returns the underlying JS event.
func (e *Event) Value() js.Value { return e.v }

type handler struct {
	value any
	fn    js.Func
}

type state struct {
	handlers map[string]handler
}

var (
	mu     sync.Mutex
	nextID int
	states = map[int]*state{}
)

// lookup returns the Go-side state of v, creating it when create is set.
func lookup(v js.Value, create bool) *state {
	mu.Lock()
	defer mu.Unlock()

	if id := v.Get(stateKey); id.Type() == js.TypeNumber {
		return states[id.Int()]
	}
	if !create {
		return nil
	}
	nextID++
	st := &state{handlers: make(map[string]handler)}
	states[nextID] = st
	v.Set(stateKey, nextID)
	return st
}

// release frees the handler wrappers of v and its descendants.
func release(v js.Value) {
	if v.IsNull() || v.IsUndefined() {
		return
	}
	mu.Lock()
	if id := v.Get(stateKey); id.Type() == js.TypeNumber {
		if st := states[id.Int()]; st != nil {
			for name, h := range st.handlers {
				v.Set(name, js.Null())
				h.fn.Release()
			}
			delete(states, id.Int())
		}
		v.Delete(stateKey)
	}
	mu.Unlock()

	kids := v.Get("childNodes")
	for i := 0; i < kids.Length(); i++ {
		release(kids.Index(i))
	}
}
