package vdom

import (
	"reflect"
	"unsafe"
)

// SameValue reports whether a and b are the same value in the sense of a
// strict identity check: comparable values compare with ==, while funcs,
// maps and slices compare by reference. Two closures created separately
// are never the same, even from the same literal.
func SameValue(a, b any) (same bool) {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb {
		return false
	}

	switch ta.Kind() {
	case reflect.Func:
		return dataPointer(a) == dataPointer(b)
	case reflect.Map:
		return reflect.ValueOf(a).Pointer() == reflect.ValueOf(b).Pointer()
	case reflect.Slice:
		va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
		return va.Pointer() == vb.Pointer() && va.Len() == vb.Len()
	}

	if !ta.Comparable() {
		return false
	}
	// Structs and arrays may hold interfaces with uncomparable dynamic values.
	defer func() {
		if recover() != nil {
			same = false
		}
	}()
	return a == b
}

// dataPointer returns the data word of an interface value. For funcs it
// points at the closure, which is unique per closure instance.
func dataPointer(v any) unsafe.Pointer {
	type eface struct {
		typ  unsafe.Pointer
		data unsafe.Pointer
	}
	return (*eface)(unsafe.Pointer(&v)).data
}

// PropsEqual is the shallow key-by-key comparison used by the component
// wrapper.
func PropsEqual(a, b Props) bool {
	if len(a) != len(b) {
		return false
	}
	for k, av := range a {
		bv, ok := b[k]
		if !ok || !SameValue(av, bv) {
			return false
		}
	}
	return true
}
