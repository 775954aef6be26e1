package vdom

// Deps is a hook dependency list. A nil Deps means "no dependency
// argument" and always counts as changed; an empty, non-nil Deps{} only
// changes once.
type Deps []any

// Ref is a mutable box that survives re-renders.
type Ref struct {
	Current any
}

// Hooks is the hook capability handed to component bodies. Hooks are
// consumed positionally, so a component must call them in the same order
// on every render.
type Hooks interface {
	// Memo returns calc's cached result, recomputing when deps change.
	Memo(calc func() any, deps Deps) any

	// MemoFn returns the same fn value for as long as deps are unchanged.
	MemoFn(fn any, deps Deps) any

	// Ref returns the slot's box, created with initial on first use.
	Ref(initial any) *Ref

	// AfterEffect schedules effect to run after the current render and
	// patch when deps change. The previous cleanup runs first.
	AfterEffect(effect func() func(), deps Deps)
}

// Unmounter is attached to nodes by the component wrapper and notified
// when the node leaves the live DOM.
type Unmounter interface {
	// Detach is called synchronously at removal with the removed node.
	// It returns false when the unmounter no longer owns that node.
	Detach(node NodeID) bool

	// Unmount runs deferred, after the patch that removed the node.
	Unmount()
}

// DepsChanged applies the dependency-change rule: deps differ when either
// side is absent, the lengths differ, or any position differs by SameValue.
func DepsChanged(prev, next Deps) bool {
	if prev == nil || next == nil {
		return true
	}
	if len(prev) != len(next) {
		return true
	}
	for i := range prev {
		if !SameValue(prev[i], next[i]) {
			return true
		}
	}
	return false
}

// CopyDeps copies d, keeping nil as nil and empty as empty.
func CopyDeps(d Deps) Deps {
	if d == nil {
		return nil
	}
	return append(Deps{}, d...)
}
