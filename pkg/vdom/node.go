package vdom

import "github.com/hart-dev/hart/pkg/dom"

// NodeID addresses a node in an Arena. The zero NodeID is "no node".
type NodeID uint32

// ListEntry locates a list member: the member node and its position.
type ListEntry struct {
	Node NodeID
	Pos  int
}

// Node is a concrete, resolved tree node.
type Node struct {
	Kind     Kind
	Tag      string // element tag; "" for other kinds
	Attrs    Props
	Children []NodeID
	Text     string // KindText only

	// Keys maps member keys to entries (KindList only).
	Keys map[string]ListEntry
	// Key is the member key when Listed.
	Key    string
	Listed bool

	// DOM is the live node this node owns, nil until materialized and
	// nil again as soon as it is detached. LIST and FRAGMENT nodes own the
	// comment that ends their run of children.
	DOM dom.Node

	// Parent is a weak link; it never implies ownership.
	Parent NodeID

	OnMount    []func()
	Unmounters []Unmounter

	// Mounters caches the mount callbacks gathered from this subtree when
	// it was last materialized as a unit.
	Mounters []func()
}

// AddUnmounter attaches u once.
func (n *Node) AddUnmounter(u Unmounter) {
	for _, x := range n.Unmounters {
		if x == u {
			return
		}
	}
	n.Unmounters = append(n.Unmounters, u)
}

// Token returns the identity token for this node.
func (n *Node) Token() string {
	if n.Kind == KindElement {
		return n.Tag
	}
	return n.Kind.Token()
}

// Multi reports whether the node renders as a run of siblings.
func (n *Node) Multi() bool {
	return n.Kind == KindList || n.Kind == KindFragment
}

// Arena stores the nodes of one render root. Slots freed by Sweep are
// reused. An Arena is not safe for concurrent use.
type Arena struct {
	nodes []*Node
	free  []NodeID
}

// NewArena creates an empty arena.
func NewArena() *Arena {
	return &Arena{nodes: []*Node{nil}}
}

// Alloc stores n and returns its id.
func (a *Arena) Alloc(n Node) NodeID {
	p := new(Node)
	*p = n
	if k := len(a.free); k > 0 {
		id := a.free[k-1]
		a.free = a.free[:k-1]
		a.nodes[id] = p
		return id
	}
	a.nodes = append(a.nodes, p)
	return NodeID(len(a.nodes) - 1)
}

// Get returns the node for id, or nil if id is zero or freed.
func (a *Arena) Get(id NodeID) *Node {
	if id == 0 || int(id) >= len(a.nodes) {
		return nil
	}
	return a.nodes[id]
}

// Len returns the number of live nodes.
func (a *Arena) Len() int {
	return len(a.nodes) - 1 - len(a.free)
}

// Walk visits id and its descendants in pre-order. Returning false from
// fn skips the node's children.
func (a *Arena) Walk(id NodeID, fn func(NodeID, *Node) bool) {
	n := a.Get(id)
	if n == nil {
		return
	}
	if !fn(id, n) {
		return
	}
	for _, c := range n.Children {
		a.Walk(c, fn)
	}
}

// Mark is a reachability set produced by MarkFrom.
type Mark []bool

// Has reports whether id is marked.
func (m Mark) Has(id NodeID) bool {
	return int(id) < len(m) && m[id]
}

// NewMark returns an empty mark set sized for the arena.
func (a *Arena) NewMark() Mark {
	return make(Mark, len(a.nodes))
}

// MarkFrom marks id and everything reachable from it.
func (a *Arena) MarkFrom(m Mark, id NodeID) {
	a.Walk(id, func(id NodeID, _ *Node) bool {
		if m[id] {
			return false
		}
		m[id] = true
		return true
	})
}

// Sweep frees every node not in m and returns how many were freed.
func (a *Arena) Sweep(m Mark) int {
	freed := 0
	for i := 1; i < len(a.nodes); i++ {
		if a.nodes[i] == nil || m.Has(NodeID(i)) {
			continue
		}
		a.nodes[i] = nil
		a.free = append(a.free, NodeID(i))
		freed++
	}
	return freed
}

// InSVG reports whether id is an svg element or has an svg ancestor.
// Children of foreignObject are back in the HTML namespace.
func (a *Arena) InSVG(id NodeID) bool {
	for cur := id; cur != 0; {
		n := a.Get(cur)
		if n == nil {
			return false
		}
		if n.Kind == KindElement {
			switch {
			case n.Tag == "svg":
				return true
			case n.Tag == "foreignObject" && cur != id:
				return false
			}
		}
		cur = n.Parent
	}
	return false
}

// FirstDOM returns the first live DOM node rendered for id. For LIST and
// FRAGMENT nodes that is the first member's, or the end marker when the
// run is empty.
func (a *Arena) FirstDOM(id NodeID) dom.Node {
	n := a.Get(id)
	if n == nil {
		return nil
	}
	if n.Multi() {
		for _, c := range n.Children {
			if d := a.FirstDOM(c); d != nil {
				return d
			}
		}
	}
	return n.DOM
}
