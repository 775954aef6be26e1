package vdom

import (
	"fmt"
	"sort"
)

// ChangeType identifies a change operation.
type ChangeType uint8

const (
	OpAdd     ChangeType = iota + 1 // Materialize Nodes into Next
	OpRemove                        // Detach Prev
	OpReplace                       // Swap Prev for Next in place
	OpUpdate                        // Apply Attrs to Next's element
	OpReorder                       // Move Next's list members into key order
)

// String returns the string representation of the ChangeType.
func (t ChangeType) String() string {
	switch t {
	case OpAdd:
		return "ADD"
	case OpRemove:
		return "REMOVE"
	case OpReplace:
		return "REPLACE"
	case OpUpdate:
		return "UPDATE"
	case OpReorder:
		return "REORDER"
	default:
		return "UNKNOWN"
	}
}

// DeltaOp identifies an attribute delta.
type DeltaOp uint8

const (
	DeltaSet DeltaOp = iota + 1
	DeltaDelete
)

// String returns the string representation of the DeltaOp.
func (d DeltaOp) String() string {
	switch d {
	case DeltaSet:
		return "SET"
	case DeltaDelete:
		return "DELETE"
	default:
		return "UNKNOWN"
	}
}

// AttrDelta is one attribute change. Value is unset for deletes.
type AttrDelta struct {
	Op    DeltaOp
	Name  string
	Value any
}

// ChangeOp is one unit of work for the patcher.
type ChangeOp struct {
	Type ChangeType
	Prev NodeID
	Next NodeID

	// Nodes are the nodes to materialize for OpAdd, in position order.
	// Next is the element, list or fragment receiving them.
	Nodes []NodeID

	// Attrs are the deltas for OpUpdate: deletes first, then sets, each
	// sorted by name.
	Attrs []AttrDelta

	// Removed are the list members removed in the same pass, for OpReorder.
	Removed []ListEntry
}

// String returns a compact description for logs.
func (op ChangeOp) String() string {
	switch op.Type {
	case OpAdd:
		return fmt.Sprintf("%s %d <- %v", op.Type, op.Next, op.Nodes)
	case OpRemove:
		return fmt.Sprintf("%s %d", op.Type, op.Prev)
	case OpUpdate:
		return fmt.Sprintf("%s %d %d attrs", op.Type, op.Next, len(op.Attrs))
	default:
		return fmt.Sprintf("%s %d -> %d", op.Type, op.Prev, op.Next)
	}
}

// Diff compares the tree at prev to the tree at next and returns the
// operations that turn the live DOM for prev into next, in the order
// they must be applied. Matching nodes inherit prev's DOM handle.
func Diff(a *Arena, prev, next NodeID) []ChangeOp {
	d := &differ{arena: a}
	d.diff(prev, next)
	return d.ops
}

type differ struct {
	arena *Arena
	ops   []ChangeOp
}

func (d *differ) emit(op ChangeOp) {
	d.ops = append(d.ops, op)
}

func (d *differ) diff(prevID, nextID NodeID) {
	// The component wrapper handed back its cached subtree.
	if prevID == nextID {
		return
	}

	prev, next := d.arena.Get(prevID), d.arena.Get(nextID)
	if prev.Kind != next.Kind || prev.Tag != next.Tag {
		d.emit(ChangeOp{Type: OpReplace, Prev: prevID, Next: nextID})
		return
	}

	if next.DOM == nil {
		next.DOM = prev.DOM
	}

	switch next.Kind {
	case KindText:
		if prev.Text != next.Text {
			d.emit(ChangeOp{Type: OpReplace, Prev: prevID, Next: nextID})
		}
	case KindEmpty:
	case KindList:
		d.diffList(prevID, nextID, prev, next)
	case KindElement, KindFragment:
		if deltas := attrDiff(prev.Attrs, next.Attrs); len(deltas) > 0 {
			d.emit(ChangeOp{Type: OpUpdate, Prev: prevID, Next: nextID, Attrs: deltas})
		}
		d.diffChildren(prevID, nextID, prev.Children, next.Children)
	default:
		panic(fmt.Sprintf("vdom: cannot diff node kind %s", next.Kind))
	}
}

func (d *differ) diffChildren(prevID, nextID NodeID, pc, nc []NodeID) {
	if len(pc) > len(nc) {
		for i := range nc {
			d.diff(pc[i], nc[i])
		}
		for _, c := range pc[len(nc):] {
			d.emit(ChangeOp{Type: OpRemove, Prev: c})
		}
		return
	}

	for i := range pc {
		d.diff(pc[i], nc[i])
	}
	if len(nc) > len(pc) {
		d.emit(ChangeOp{Type: OpAdd, Prev: prevID, Next: nextID, Nodes: append([]NodeID(nil), nc[len(pc):]...)})
	}
}

type listDiff struct {
	toRemove  []ListEntry
	toAdd     []ListEntry
	toCompare [][2]NodeID
	reorder   bool
}

// diffList reconciles two keyed lists.
func (d *differ) diffList(prevID, nextID NodeID, prev, next *Node) {
	ld := d.listDiff(prev, next)

	for _, pair := range ld.toCompare {
		d.diff(pair[0], pair[1])
	}
	for _, r := range ld.toRemove {
		d.emit(ChangeOp{Type: OpRemove, Prev: r.Node})
	}
	if len(ld.toAdd) > 0 {
		nodes := make([]NodeID, len(ld.toAdd))
		for i, e := range ld.toAdd {
			nodes[i] = e.Node
		}
		d.emit(ChangeOp{Type: OpAdd, Next: nextID, Nodes: nodes})
	}
	if ld.reorder {
		d.emit(ChangeOp{Type: OpReorder, Prev: prevID, Next: nextID, Removed: ld.toRemove})
	}
}

func (d *differ) listDiff(prev, next *Node) listDiff {
	var ld listDiff
	prevLen := len(prev.Children)

	for pos, id := range prev.Children {
		key := d.arena.Get(id).Key
		n, ok := next.Keys[key]
		if !ok {
			ld.toRemove = append(ld.toRemove, ListEntry{Node: id, Pos: pos})
			continue
		}
		ld.toCompare = append(ld.toCompare, [2]NodeID{id, n.Node})
		// An existing member moved.
		if n.Pos != pos {
			ld.reorder = true
		}
	}

	// Every previous key is gone, usually because keys were regenerated.
	// The additions are already in order, so they never force a reorder.
	removingAll := len(ld.toRemove) == prevLen

	for pos, id := range next.Children {
		if _, ok := prev.Keys[d.arena.Get(id).Key]; ok {
			continue
		}
		ld.toAdd = append(ld.toAdd, ListEntry{Node: id, Pos: pos})
		// A new member lands before the end of the old list.
		if pos < prevLen && !removingAll {
			ld.reorder = true
		}
	}

	// Pair removals with additions by position and diff them in place;
	// only the remainder is really removed or added.
	if removingAll {
		paired := min(len(ld.toRemove), len(ld.toAdd))
		for i := 0; i < paired; i++ {
			ld.toCompare = append(ld.toCompare, [2]NodeID{ld.toRemove[i].Node, ld.toAdd[i].Node})
		}
		ld.toRemove = ld.toRemove[paired:]
		ld.toAdd = ld.toAdd[paired:]
	}

	sort.SliceStable(ld.toAdd, func(i, j int) bool { return ld.toAdd[i].Pos < ld.toAdd[j].Pos })
	return ld
}

// attrDiff returns deletes then sets, each sorted by name. The key
// attribute never produces a delta.
func attrDiff(prev, next Props) []AttrDelta {
	var dels, sets []AttrDelta
	for name, pv := range prev {
		if name == "key" {
			continue
		}
		nv, ok := next[name]
		switch {
		case !ok:
			dels = append(dels, AttrDelta{Op: DeltaDelete, Name: name})
		case !SameValue(pv, nv):
			sets = append(sets, AttrDelta{Op: DeltaSet, Name: name, Value: nv})
		}
	}
	for name, nv := range next {
		if name == "key" {
			continue
		}
		if _, ok := prev[name]; !ok {
			sets = append(sets, AttrDelta{Op: DeltaSet, Name: name, Value: nv})
		}
	}
	sort.Slice(dels, func(i, j int) bool { return dels[i].Name < dels[j].Name })
	sort.Slice(sets, func(i, j int) bool { return sets[i].Name < sets[j].Name })
	return append(dels, sets...)
}
