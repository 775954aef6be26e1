// Package memdom is an in-memory implementation of the dom interfaces.
//
// It follows browser semantics closely enough for the patcher: inserting a
// node detaches it from its previous parent, inserting a document fragment
// moves its children, and on* properties hold Go handlers that Dispatch
// invokes.
package memdom

import (
	"strings"

	"github.com/hart-dev/hart/pkg/dom"
)

// Document creates memdom nodes.
type Document struct{}

// NewDocument returns a new in-memory document.
func NewDocument() *Document {
	return &Document{}
}

func (d *Document) CreateElement(tag string) dom.Node {
	return &Node{kind: dom.ElementNode, tag: strings.ToLower(tag)}
}

func (d *Document) CreateElementNS(namespace, tag string) dom.Node {
	return &Node{kind: dom.ElementNode, tag: tag, ns: namespace}
}

func (d *Document) CreateTextNode(text string) dom.Node {
	return &Node{kind: dom.TextNode, data: text}
}

func (d *Document) CreateComment(text string) dom.Node {
	return &Node{kind: dom.CommentNode, data: text}
}

func (d *Document) CreateDocumentFragment() dom.Node {
	return &Node{kind: dom.DocumentFragmentNode}
}

// Attr is one attribute.
type Attr = dom.Attr

// Node is an in-memory DOM node.
type Node struct {
	kind     dom.NodeType
	tag      string
	ns       string
	data     string
	parent   *Node
	children []*Node
	attrs    []Attr
	props    map[string]any
}

// NewElement is a convenience for building containers in tests.
func NewElement(tag string) *Node {
	return &Node{kind: dom.ElementNode, tag: strings.ToLower(tag)}
}

func (n *Node) NodeType() dom.NodeType { return n.kind }
func (n *Node) TagName() string        { return n.tag }
func (n *Node) NamespaceURI() string   { return n.ns }
func (n *Node) Data() string           { return n.data }

// SetData replaces the character data of a text or comment node.
func (n *Node) SetData(s string) { n.data = s }

func (n *Node) ParentNode() dom.Node {
	if n.parent == nil {
		return nil
	}
	return n.parent
}

func (n *Node) FirstChild() dom.Node {
	if len(n.children) == 0 {
		return nil
	}
	return n.children[0]
}

func (n *Node) NextSibling() dom.Node {
	if n.parent == nil {
		return nil
	}
	i := n.parent.indexOf(n)
	if i < 0 || i+1 >= len(n.parent.children) {
		return nil
	}
	return n.parent.children[i+1]
}

func (n *Node) ChildNodes() []dom.Node {
	out := make([]dom.Node, len(n.children))
	for i, c := range n.children {
		out[i] = c
	}
	return out
}

func (n *Node) AppendChild(child dom.Node) {
	n.InsertBefore(child, nil)
}

func (n *Node) InsertBefore(child, ref dom.Node) {
	c := unwrap(child)
	if c == nil {
		return
	}
	var r *Node
	if ref != nil {
		r = unwrap(ref)
		if r == c {
			return
		}
	}

	var moving []*Node
	if c.kind == dom.DocumentFragmentNode {
		moving = c.children
		c.children = nil
	} else {
		if c.parent != nil {
			c.parent.remove(c)
		}
		moving = []*Node{c}
	}

	at := len(n.children)
	if r != nil {
		if i := n.indexOf(r); i >= 0 {
			at = i
		}
	}

	for _, m := range moving {
		m.parent = n
	}
	rest := append([]*Node{}, n.children[at:]...)
	n.children = append(append(n.children[:at], moving...), rest...)
}

func (n *Node) ReplaceChild(newChild, oldChild dom.Node) {
	old := unwrap(oldChild)
	if old == nil || old.parent != n {
		return
	}
	n.InsertBefore(newChild, old)
	n.remove(old)
}

func (n *Node) RemoveChild(child dom.Node) {
	c := unwrap(child)
	if c == nil || c.parent != n {
		return
	}
	n.remove(c)
}

func (n *Node) GetAttribute(name string) (string, bool) {
	for _, a := range n.attrs {
		if a.Name == name {
			return a.Value, true
		}
	}
	return "", false
}

func (n *Node) SetAttribute(name, value string) {
	n.SetAttributeNS("", name, value)
}

func (n *Node) SetAttributeNS(namespace, name, value string) {
	for i, a := range n.attrs {
		if a.Name == name && a.Namespace == namespace {
			n.attrs[i].Value = value
			return
		}
	}
	n.attrs = append(n.attrs, Attr{Namespace: namespace, Name: name, Value: value})
}

func (n *Node) RemoveAttribute(name string) {
	n.RemoveAttributeNS("", name)
}

func (n *Node) RemoveAttributeNS(namespace, name string) {
	for i, a := range n.attrs {
		if a.Name == name && a.Namespace == namespace {
			n.attrs = append(n.attrs[:i], n.attrs[i+1:]...)
			return
		}
	}
}

func (n *Node) Attributes() []Attr {
	return append([]Attr(nil), n.attrs...)
}

func (n *Node) SetProperty(name string, value any) {
	if n.props == nil {
		n.props = make(map[string]any)
	}
	if value == nil {
		delete(n.props, name)
		return
	}
	n.props[name] = value
}

func (n *Node) Property(name string) any {
	return n.props[name]
}

func (n *Node) IsSameNode(other dom.Node) bool {
	return unwrap(other) == n
}

// TextContent concatenates the data of all descendant text nodes.
func (n *Node) TextContent() string {
	if n.kind == dom.TextNode {
		return n.data
	}
	var b strings.Builder
	for _, c := range n.children {
		if c.kind == dom.CommentNode {
			continue
		}
		b.WriteString(c.TextContent())
	}
	return b.String()
}

func (n *Node) indexOf(c *Node) int {
	for i, x := range n.children {
		if x == c {
			return i
		}
	}
	return -1
}

func (n *Node) remove(c *Node) {
	if i := n.indexOf(c); i >= 0 {
		n.children = append(n.children[:i], n.children[i+1:]...)
	}
	c.parent = nil
}

func unwrap(v dom.Node) *Node {
	if v == nil {
		return nil
	}
	n, _ := v.(*Node)
	return n
}

var (
	_ dom.Document = (*Document)(nil)
	_ dom.Node     = (*Node)(nil)
)
