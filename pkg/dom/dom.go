// Package dom defines the slice of the browser DOM the patcher writes to.
//
// Two implementations ship with hart: memdom, an in-memory tree used by
// tests and the CLI, and jsdom, a syscall/js binding for js/wasm builds.
package dom

// Namespaces used for SVG content.
const (
	SVGNamespace   = "http://www.w3.org/2000/svg"
	XLinkNamespace = "http://www.w3.org/1999/xlink"
)

// NodeType mirrors Node.nodeType.
type NodeType int

const (
	ElementNode          NodeType = 1
	TextNode             NodeType = 3
	CommentNode          NodeType = 8
	DocumentFragmentNode NodeType = 11
)

// String returns the string representation of the NodeType.
func (t NodeType) String() string {
	switch t {
	case ElementNode:
		return "Element"
	case TextNode:
		return "Text"
	case CommentNode:
		return "Comment"
	case DocumentFragmentNode:
		return "DocumentFragment"
	default:
		return "Unknown"
	}
}

// Attr is one element attribute. Namespace is "" for plain attributes.
type Attr struct {
	Namespace string
	Name      string
	Value     string
}

// Document creates nodes.
type Document interface {
	CreateElement(tag string) Node
	CreateElementNS(namespace, tag string) Node
	CreateTextNode(text string) Node
	CreateComment(text string) Node
	CreateDocumentFragment() Node
}

// Node is a live DOM node.
//
// Inserting a document fragment moves its children and leaves the
// fragment empty, as in the browser.
type Node interface {
	NodeType() NodeType

	// TagName is the lower-case tag for elements and "" otherwise.
	TagName() string
	NamespaceURI() string

	// Data is the character data of text and comment nodes.
	Data() string

	ParentNode() Node
	FirstChild() Node
	NextSibling() Node
	ChildNodes() []Node

	AppendChild(child Node)
	// InsertBefore appends child when ref is nil.
	InsertBefore(child, ref Node)
	ReplaceChild(newChild, oldChild Node)
	RemoveChild(child Node)

	GetAttribute(name string) (string, bool)
	SetAttribute(name, value string)
	SetAttributeNS(namespace, name, value string)
	RemoveAttribute(name string)
	RemoveAttributeNS(namespace, name string)
	// Attributes returns the attributes in insertion order.
	Attributes() []Attr

	// SetProperty assigns a live property such as value, checked or onclick.
	SetProperty(name string, value any)
	Property(name string) any

	// IsSameNode reports whether other wraps the same underlying node.
	IsSameNode(other Node) bool
}

// Event is the subset of a DOM event handlers receive.
type Event interface {
	Type() string
	Target() Node
	PreventDefault()
	DefaultPrevented() bool
}

// Handler is the canonical event handler property value.
type Handler func(Event)

// Same reports whether a and b are the same node. Nil nodes are equal.
func Same(a, b Node) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.IsSameNode(b)
}
