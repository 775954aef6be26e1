package hooks

import (
	"github.com/hart-dev/hart/internal/errors"
	"github.com/hart-dev/hart/pkg/vdom"
)

// SlotKind identifies the hook that owns a slot.
type SlotKind uint8

const (
	SlotMemo SlotKind = iota + 1
	SlotMemoFn
	SlotRef
	SlotEffect
)

// String returns a human-readable name for the slot kind.
func (k SlotKind) String() string {
	switch k {
	case SlotMemo:
		return "Memo"
	case SlotMemoFn:
		return "MemoFn"
	case SlotRef:
		return "Ref"
	case SlotEffect:
		return "AfterEffect"
	default:
		return "Unknown"
	}
}

type slot struct {
	kind    SlotKind
	deps    vdom.Deps
	value   any
	ref     *vdom.Ref
	cleanup func()
}

// Entry is the hook storage for one identity. It implements vdom.Hooks
// for the component body and vdom.Unmounter for the nodes it produces.
type Entry struct {
	id    uint64
	store *Store

	slots  []*slot
	cursor int

	props       vdom.Props
	node        vdom.NodeID
	childLength int
	rendered    bool

	rendering bool
	retired   bool
	unmounted bool
}

var (
	_ vdom.Hooks     = (*Entry)(nil)
	_ vdom.Unmounter = (*Entry)(nil)
)

// ID returns the identity hash.
func (e *Entry) ID() uint64 { return e.id }

// Props returns the props of the last call.
func (e *Entry) Props() vdom.Props { return e.props }

// SetProps updates the props without re-rendering, so callers reading
// them later see the latest call.
func (e *Entry) SetProps(p vdom.Props) { e.props = p }

// Node returns the node produced by the last render.
func (e *Entry) Node() vdom.NodeID { return e.node }

// ChildLength returns the number of children passed last time.
func (e *Entry) ChildLength() int { return e.childLength }

// Rendered reports whether the component has completed a render.
func (e *Entry) Rendered() bool { return e.rendered }

// Retired reports whether the entry's node has left the DOM.
func (e *Entry) Retired() bool { return e.retired }

// Unmounted reports whether the entry's cleanups have run.
func (e *Entry) Unmounted() bool { return e.unmounted }

// Slots returns the number of hook slots in use.
func (e *Entry) Slots() int { return len(e.slots) }

// BeginRender resets the slot cursor and opens the hook window.
func (e *Entry) BeginRender() {
	e.cursor = 0
	e.rendering = true
}

// EndRender closes the hook window. It fails when a component that has
// rendered before called fewer hooks than last time.
func (e *Entry) EndRender() error {
	e.rendering = false
	if e.rendered && e.cursor != len(e.slots) {
		return errors.New("E002").
			WithDetailf("expected %d hooks, got %d", len(e.slots), e.cursor)
	}
	return nil
}

// Abort closes the hook window after a failed render.
func (e *Entry) Abort() {
	e.rendering = false
}

// Commit records the result of a completed render.
func (e *Entry) Commit(props vdom.Props, node vdom.NodeID, childLength int) {
	e.props = props
	e.node = node
	e.childLength = childLength
	e.rendered = true
}

func (e *Entry) next(kind SlotKind) *slot {
	if !e.rendering {
		panic(errors.New("E003").WithDetailf("%s called outside render", kind))
	}
	i := e.cursor
	e.cursor++

	if i < len(e.slots) {
		s := e.slots[i]
		if s.kind != kind {
			panic(errors.New("E002").
				WithDetailf("hook %d: expected %s, got %s", i, s.kind, kind))
		}
		return s
	}
	if e.rendered {
		panic(errors.New("E002").
			WithDetailf("extra %s hook at index %d", kind, i))
	}
	s := &slot{kind: kind}
	e.slots = append(e.slots, s)
	return s
}

func (e *Entry) memo(kind SlotKind, compute func() any, deps vdom.Deps) any {
	s := e.next(kind)
	if vdom.DepsChanged(s.deps, deps) {
		s.value = compute()
		s.deps = vdom.CopyDeps(deps)
	}
	return s.value
}

// Memo implements vdom.Hooks.
func (e *Entry) Memo(calc func() any, deps vdom.Deps) any {
	return e.memo(SlotMemo, calc, deps)
}

// MemoFn implements vdom.Hooks.
func (e *Entry) MemoFn(fn any, deps vdom.Deps) any {
	return e.memo(SlotMemoFn, func() any { return fn }, deps)
}

// Ref implements vdom.Hooks.
func (e *Entry) Ref(initial any) *vdom.Ref {
	s := e.next(SlotRef)
	if s.ref == nil {
		s.ref = &vdom.Ref{Current: initial}
	}
	return s.ref
}

// AfterEffect implements vdom.Hooks. When deps changed, a task is
// scheduled that runs the slot's previous cleanup and then effect. The
// task is skipped if the entry has been retired by the time it runs.
func (e *Entry) AfterEffect(effect func() func(), deps vdom.Deps) {
	s := e.next(SlotEffect)
	if !vdom.DepsChanged(s.deps, deps) {
		return
	}
	s.deps = vdom.CopyDeps(deps)

	e.store.Schedule(func() {
		if e.retired || e.unmounted {
			return
		}
		if c := s.cleanup; c != nil {
			s.cleanup = nil
			c()
		}
		s.cleanup = effect()
	})
}

// Detach implements vdom.Unmounter. The entry accepts the removal only
// when node is the node it last produced.
func (e *Entry) Detach(node vdom.NodeID) bool {
	if e.retired || node != e.node {
		return false
	}
	e.retired = true
	return true
}

// Retire detaches the entry regardless of its node. Used when the
// entry's output left the tree without a removal.
func (e *Entry) Retire() bool {
	if e.retired {
		return false
	}
	e.retired = true
	return true
}

// Unmount implements vdom.Unmounter: every effect's latest cleanup runs in
// declaration order, then the entry is evicted from its store.
func (e *Entry) Unmount() {
	if e.unmounted {
		return
	}
	e.unmounted = true
	e.retired = true

	for _, s := range e.slots {
		if s.kind != SlotEffect || s.cleanup == nil {
			continue
		}
		c := s.cleanup
		s.cleanup = nil
		c()
	}
	e.store.evict(e)
}
