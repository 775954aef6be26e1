package vdom

// Kind is the node type discriminator.
type Kind uint8

const (
	KindElement   Kind = iota + 1 // <div>, <svg>, etc.
	KindText                      // Character data
	KindList                      // Keyed list of siblings
	KindEmpty                     // Placeholder for nil children
	KindFragment                  // Document fragment, grouping without a wrapper
	KindComponent                 // Component call, lazy only
)

// String returns the string representation of the Kind.
func (k Kind) String() string {
	switch k {
	case KindElement:
		return "Element"
	case KindText:
		return "Text"
	case KindList:
		return "List"
	case KindEmpty:
		return "Empty"
	case KindFragment:
		return "Fragment"
	case KindComponent:
		return "Component"
	default:
		return "Unknown"
	}
}

// Token returns the identity token used for nodes of this kind that have
// no tag of their own.
func (k Kind) Token() string {
	switch k {
	case KindText:
		return "#text"
	case KindList:
		return "#list"
	case KindEmpty:
		return "#empty"
	case KindFragment:
		return "#fragment"
	default:
		return "#" + k.String()
	}
}
