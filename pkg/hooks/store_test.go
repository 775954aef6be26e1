package hooks

import (
	stderrors "errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/hart-dev/hart/internal/errors"
	"github.com/hart-dev/hart/pkg/scheduler"
	"github.com/hart-dev/hart/pkg/vdom"
)

// render runs body as one invocation of e.
func render(t *testing.T, e *Entry, body func(h vdom.Hooks)) {
	t.Helper()
	e.BeginRender()
	body(e)
	if err := e.EndRender(); err != nil {
		t.Fatalf("EndRender() = %v", err)
	}
	e.Commit(nil, 1, 0)
}

// expectPanic runs fn and returns the code of the coded error it panics with.
func expectPanic(t *testing.T, fn func()) (code string) {
	t.Helper()
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic")
		}
		err, ok := r.(error)
		if !ok {
			t.Fatalf("panic value %v is not an error", r)
		}
		code = errors.Code(err)
	}()
	fn()
	return ""
}

func TestStoreResolve(t *testing.T) {
	s := NewStore(scheduler.NewQueue())

	a := s.Resolve(1)
	if s.Resolve(1) != a {
		t.Error("Resolve returned a different entry for the same id")
	}
	if s.Resolve(2) == a {
		t.Error("Resolve returned the same entry for different ids")
	}
	if s.Len() != 2 {
		t.Errorf("Len() = %d, want 2", s.Len())
	}

	got, ok := s.Lookup(1)
	if !ok || got != a {
		t.Errorf("Lookup(1) = %p, %v; want %p, true", got, ok, a)
	}
	if _, ok := s.Lookup(3); ok {
		t.Error("Lookup(3) found an entry")
	}
}

func TestStoreResolveReplacesRetired(t *testing.T) {
	s := NewStore(scheduler.NewQueue())
	old := s.Resolve(7)
	old.Commit(nil, 4, 0)
	if !old.Detach(4) {
		t.Fatal("Detach(4) = false")
	}

	fresh := s.Resolve(7)
	if fresh == old {
		t.Fatal("Resolve returned the retired entry")
	}

	old.Unmount()
	if got, _ := s.Lookup(7); got != fresh {
		t.Error("unmounting the retired entry evicted its replacement")
	}
}

func TestMemoContinuity(t *testing.T) {
	s := NewStore(scheduler.NewQueue())
	e := s.Resolve(1)

	calls := 0
	var values []any
	for _, dep := range []int{1, 1, 2, 2} {
		render(t, e, func(h vdom.Hooks) {
			values = append(values, h.Memo(func() any {
				calls++
				return calls
			}, vdom.Deps{dep}))
		})
	}

	if diff := cmp.Diff([]any{1, 1, 2, 2}, values); diff != "" {
		t.Errorf("memo values mismatch (-want +got):\n%s", diff)
	}
	if calls != 2 {
		t.Errorf("calc ran %d times, want 2", calls)
	}
}

func TestMemoDepsRules(t *testing.T) {
	tests := []struct {
		name string
		deps func(pass int) vdom.Deps
		want int
	}{
		{"absent reruns", func(int) vdom.Deps { return nil }, 3},
		{"empty runs once", func(int) vdom.Deps { return vdom.Deps{} }, 1},
		{"length change", func(p int) vdom.Deps { return make(vdom.Deps, p) }, 3},
		{"fresh slice", func(int) vdom.Deps { return vdom.Deps{[]int{1}} }, 3},
		{"same string", func(int) vdom.Deps { return vdom.Deps{"a"} }, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := NewStore(scheduler.NewQueue()).Resolve(1)
			calls := 0
			for pass := 0; pass < 3; pass++ {
				render(t, e, func(h vdom.Hooks) {
					h.Memo(func() any { calls++; return nil }, tt.deps(pass))
				})
			}
			if calls != tt.want {
				t.Errorf("calc ran %d times, want %d", calls, tt.want)
			}
		})
	}
}

func TestMemoFnKeepsIdentity(t *testing.T) {
	e := NewStore(scheduler.NewQueue()).Resolve(1)

	var got []func() int
	for _, dep := range []string{"x", "x", "y"} {
		render(t, e, func(h vdom.Hooks) {
			v := dep
			got = append(got, MemoFn(h, func() int { return len(v) }, vdom.Deps{dep}))
		})
	}

	if !vdom.SameValue(got[0], got[1]) {
		t.Error("MemoFn returned a new function with unchanged deps")
	}
	if vdom.SameValue(got[1], got[2]) {
		t.Error("MemoFn kept the old function after deps changed")
	}
}

func TestRefPersists(t *testing.T) {
	e := NewStore(scheduler.NewQueue()).Resolve(1)

	var refs []*vdom.Ref
	for i := 0; i < 2; i++ {
		render(t, e, func(h vdom.Hooks) {
			refs = append(refs, UseRef(h, i))
		})
	}

	if refs[0] != refs[1] {
		t.Fatal("Ref returned a new box on re-render")
	}
	if refs[1].Current != 0 {
		t.Errorf("Current = %v, want initial 0", refs[1].Current)
	}
}

func TestTypedMemo(t *testing.T) {
	e := NewStore(scheduler.NewQueue()).Resolve(1)
	render(t, e, func(h vdom.Hooks) {
		if got := Memo(h, func() string { return "ok" }, vdom.Deps{}); got != "ok" {
			t.Errorf("Memo = %q, want %q", got, "ok")
		}
		if got := Memo(h, func() error { return nil }, vdom.Deps{}); got != nil {
			t.Errorf("Memo = %v, want nil", got)
		}
	})
}

func TestAfterEffectDeferred(t *testing.T) {
	q := scheduler.NewQueue()
	e := NewStore(q).Resolve(1)

	var log []string
	effect := func(dep string) {
		render(t, e, func(h vdom.Hooks) {
			h.AfterEffect(func() func() {
				log = append(log, "run "+dep)
				return func() { log = append(log, "cleanup "+dep) }
			}, vdom.Deps{dep})
		})
	}

	effect("a")
	if len(log) != 0 {
		t.Fatalf("effect ran synchronously: %v", log)
	}
	q.Drain()

	effect("a")
	q.Drain()
	effect("b")
	q.Drain()

	want := []string{"run a", "cleanup a", "run b"}
	if diff := cmp.Diff(want, log); diff != "" {
		t.Errorf("effect log mismatch (-want +got):\n%s", diff)
	}
}

func TestAfterEffectDeclarationOrder(t *testing.T) {
	q := scheduler.NewQueue()
	e := NewStore(q).Resolve(1)

	var log []string
	render(t, e, func(h vdom.Hooks) {
		for _, name := range []string{"first", "second", "third"} {
			n := name
			h.AfterEffect(func() func() {
				log = append(log, n)
				return func() { log = append(log, "cleanup "+n) }
			}, vdom.Deps{})
		}
	})
	q.Drain()

	e.Detach(1)
	e.Unmount()

	want := []string{"first", "second", "third", "cleanup first", "cleanup second", "cleanup third"}
	if diff := cmp.Diff(want, log); diff != "" {
		t.Errorf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestAfterEffectSkippedAfterRetire(t *testing.T) {
	q := scheduler.NewQueue()
	e := NewStore(q).Resolve(1)

	ran := false
	render(t, e, func(h vdom.Hooks) {
		h.AfterEffect(func() func() { ran = true; return nil }, nil)
	})
	e.Detach(1)
	q.Drain()

	if ran {
		t.Error("effect ran after its entry was retired")
	}
}

func TestUnmountEvicts(t *testing.T) {
	q := scheduler.NewQueue()
	s := NewStore(q)
	e := s.Resolve(9)

	cleanups := 0
	render(t, e, func(h vdom.Hooks) {
		h.AfterEffect(func() func() { return func() { cleanups++ } }, vdom.Deps{})
	})
	q.Drain()

	if e.Detach(2) {
		t.Error("Detach accepted a node the entry does not own")
	}
	if !e.Detach(1) {
		t.Fatal("Detach(1) = false")
	}
	if e.Detach(1) {
		t.Error("Detach accepted twice")
	}

	e.Unmount()
	e.Unmount()

	if cleanups != 1 {
		t.Errorf("cleanup ran %d times, want 1", cleanups)
	}
	if s.Len() != 0 {
		t.Errorf("Len() = %d after unmount, want 0", s.Len())
	}
	created, evicted := s.Stats()
	if created != 1 || evicted != 1 {
		t.Errorf("Stats() = %d, %d; want 1, 1", created, evicted)
	}
}

func TestUnmountAll(t *testing.T) {
	q := scheduler.NewQueue()
	s := NewStore(q)
	for id := uint64(1); id <= 3; id++ {
		s.Resolve(id)
	}

	s.UnmountAll()
	if s.Len() != 3 {
		t.Errorf("Len() = %d before drain, want 3", s.Len())
	}
	q.Drain()
	if s.Len() != 0 {
		t.Errorf("Len() = %d after drain, want 0", s.Len())
	}
}

func TestHookMisuse(t *testing.T) {
	t.Run("outside render", func(t *testing.T) {
		e := NewStore(scheduler.NewQueue()).Resolve(1)
		code := expectPanic(t, func() { e.Ref(nil) })
		if code != "E003" {
			t.Errorf("code = %q, want E003", code)
		}
	})

	t.Run("kind changed", func(t *testing.T) {
		e := NewStore(scheduler.NewQueue()).Resolve(1)
		render(t, e, func(h vdom.Hooks) { h.Ref(nil) })

		e.BeginRender()
		code := expectPanic(t, func() { e.Memo(func() any { return nil }, nil) })
		e.Abort()
		if code != "E002" {
			t.Errorf("code = %q, want E002", code)
		}
	})

	t.Run("extra hook", func(t *testing.T) {
		e := NewStore(scheduler.NewQueue()).Resolve(1)
		render(t, e, func(h vdom.Hooks) { h.Ref(nil) })

		e.BeginRender()
		e.Ref(nil)
		code := expectPanic(t, func() { e.Ref(nil) })
		e.Abort()
		if code != "E002" {
			t.Errorf("code = %q, want E002", code)
		}
	})

	t.Run("fewer hooks", func(t *testing.T) {
		e := NewStore(scheduler.NewQueue()).Resolve(1)
		render(t, e, func(h vdom.Hooks) { h.Ref(nil); h.Ref(nil) })

		e.BeginRender()
		e.Ref(nil)
		err := e.EndRender()
		var he *errors.HartError
		if !stderrors.As(err, &he) || he.Code != "E002" {
			t.Errorf("EndRender() = %v, want E002", err)
		}
	})
}
