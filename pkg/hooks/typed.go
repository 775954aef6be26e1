package hooks

import "github.com/hart-dev/hart/pkg/vdom"

// Memo is the typed form of Hooks.Memo.
//
//	total := hooks.Memo(h, func() int { return sum(items) }, vdom.Deps{items})
func Memo[T any](h vdom.Hooks, calc func() T, deps vdom.Deps) T {
	v := h.Memo(func() any { return calc() }, deps)
	if v == nil {
		var zero T
		return zero
	}
	return v.(T)
}

// MemoFn is the typed form of Hooks.MemoFn. The returned function keeps
// its identity for as long as deps are unchanged.
func MemoFn[F any](h vdom.Hooks, fn F, deps vdom.Deps) F {
	return h.MemoFn(fn, deps).(F)
}

// UseRef returns the slot's ref box, created with initial on first use.
func UseRef(h vdom.Hooks, initial any) *vdom.Ref {
	return h.Ref(initial)
}
