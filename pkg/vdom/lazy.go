package vdom

import "fmt"

// DocFrag is the sentinel tag for document-fragment descriptors.
const DocFrag = "#fragment"

// Props holds element attributes or component props.
type Props map[string]any

// Key returns the "key" entry, if present.
func (p Props) Key() (any, bool) {
	v, ok := p["key"]
	return v, ok
}

// Clone returns a shallow copy of p. Cloning nil returns an empty map.
func (p Props) Clone() Props {
	out := make(Props, len(p)+1)
	for k, v := range p {
		out[k] = v
	}
	return out
}

// KeyString converts a key value to its map form.
func KeyString(v any) string {
	switch k := v.(type) {
	case string:
		return k
	case fmt.Stringer:
		return k.String()
	default:
		return fmt.Sprint(k)
	}
}

// ChildPack is an opaque bundle of children handed to a component so it
// can forward them into its own output. It may be empty.
type ChildPack struct {
	nodes []any
}

// NewChildPack bundles children.
func NewChildPack(children ...any) ChildPack {
	return ChildPack{nodes: children}
}

// Len returns the number of children in the pack.
func (c ChildPack) Len() int { return len(c.nodes) }

// Nodes returns the packed children.
func (c ChildPack) Nodes() []any { return c.nodes }

// Lazy is an unresolved node: an element or fragment descriptor, or a
// component call. Creating one does no work; the tree builder resolves it.
type Lazy struct {
	kind     Kind
	tag      string
	attrs    Props
	children []any
	comp     *Component
	mounts   []func()
}

// Elem creates an element descriptor. The DocFrag tag creates a
// document-fragment descriptor, which must have children and no attributes.
func Elem(tag string, attrs Props, children ...any) *Lazy {
	kind := KindElement
	if tag == DocFrag {
		kind = KindFragment
	}
	return &Lazy{kind: kind, tag: tag, attrs: attrs, children: children}
}

// Frag creates a document-fragment descriptor.
func Frag(children ...any) *Lazy {
	return Elem(DocFrag, nil, children...)
}

// Call creates a component-call descriptor. A "key" prop becomes the
// call's identity key and is copied onto the component's output node.
func Call(c *Component, props Props, children ...any) *Lazy {
	return &Lazy{kind: KindComponent, comp: c, attrs: props, children: children}
}

// Kind returns KindElement, KindFragment or KindComponent.
func (l *Lazy) Kind() Kind { return l.kind }

// Tag returns the element tag.
func (l *Lazy) Tag() string { return l.tag }

// Attrs returns element attributes, or component props for calls.
func (l *Lazy) Attrs() Props { return l.attrs }

// Children returns the raw child values.
func (l *Lazy) Children() []any { return l.children }

// Component returns the called component, or nil for element descriptors.
func (l *Lazy) Component() *Component { return l.comp }

// Key returns the descriptor's key in string form.
func (l *Lazy) Key() (string, bool) {
	v, ok := l.attrs.Key()
	if !ok {
		return "", false
	}
	return KeyString(v), true
}

// OnMount registers fn to run right after the resolved node is inserted
// into the live DOM.
func (l *Lazy) OnMount(fn func()) *Lazy {
	if fn != nil {
		l.mounts = append(l.mounts, fn)
	}
	return l
}

// Mounters returns the registered mount callbacks.
func (l *Lazy) Mounters() []func() { return l.mounts }

// String returns a short description for logs and errors.
func (l *Lazy) String() string {
	if l == nil {
		return "<nil>"
	}
	switch l.kind {
	case KindComponent:
		return "call(" + l.comp.Name() + ")"
	case KindFragment:
		return "fragment"
	default:
		return "<" + l.tag + ">"
	}
}
