// Package vdom provides the virtual node model for hart.
//
// A render pass starts from a tree of Lazy descriptors: element
// descriptors created with Elem or the tag helpers, and component calls
// created with Call. The reconcile package resolves a Lazy tree into
// concrete Nodes stored in an Arena, Diff compares two concrete trees and
// returns ChangeOps, and the patch package applies them to a live DOM.
//
// # Lazy children
//
// Children passed to Elem, Call and the tag helpers may be:
//   - *Lazy: an element or component call
//   - []*Lazy: a keyed list; every member needs a unique "key"
//   - ChildPack: children forwarded from a parent component, spliced in place
//   - nil, false or a nil *Lazy: an EMPTY placeholder
//   - strings, numbers, true and fmt.Stringer values: TEXT
//
// # Arena
//
// Concrete nodes live in an Arena and refer to each other by NodeID.
// Parent links are indices, never owning pointers, and the arena is
// collected by mark and sweep after every pass.
//
// # Diffing
//
// Diff emits ADD, REMOVE, REPLACE, UPDATE and REORDER operations in the
// order the patcher must apply them. LIST nodes are reconciled by key.
package vdom
