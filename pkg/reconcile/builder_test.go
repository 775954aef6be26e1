package reconcile

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/hart-dev/hart/internal/errors"
	"github.com/hart-dev/hart/pkg/hooks"
	"github.com/hart-dev/hart/pkg/scheduler"
	"github.com/hart-dev/hart/pkg/vdom"
)

func newBuilder() (*Builder, *vdom.Arena, *hooks.Store) {
	arena := vdom.NewArena()
	store := hooks.NewStore(scheduler.NewQueue())
	return NewBuilder(arena, store), arena, store
}

// shape renders a built tree as a compact string for comparisons.
func shape(a *vdom.Arena, id vdom.NodeID) string {
	n := a.Get(id)
	switch n.Kind {
	case vdom.KindText:
		return fmt.Sprintf("%q", n.Text)
	case vdom.KindEmpty:
		return "_"
	}

	var b strings.Builder
	switch n.Kind {
	case vdom.KindElement:
		b.WriteString(n.Tag)
	case vdom.KindList:
		b.WriteString("list")
	case vdom.KindFragment:
		b.WriteString("frag")
	}
	b.WriteByte('(')
	for i, c := range n.Children {
		if i > 0 {
			b.WriteByte(' ')
		}
		if cn := a.Get(c); cn.Listed {
			b.WriteString(cn.Key + "=")
		}
		b.WriteString(shape(a, c))
	}
	b.WriteByte(')')
	return b.String()
}

type label string

func (l label) String() string { return "label:" + string(l) }

func TestBuildChildValues(t *testing.T) {
	b, arena, _ := newBuilder()

	root, err := b.Build(vdom.Div(
		"text",
		42,
		2.5,
		true,
		false,
		nil,
		(*vdom.Lazy)(nil),
		label("x"),
		vdom.Span(),
	))
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	want := `div("text" "42" "2.5" "true" _ _ _ "label:x" span())`
	if got := shape(arena, root); got != want {
		t.Errorf("shape = %s, want %s", got, want)
	}
}

func TestBuildParentLinks(t *testing.T) {
	b, arena, _ := newBuilder()

	root, err := b.Build(vdom.Ul(
		[]*vdom.Lazy{vdom.Li(vdom.Key("a")), vdom.Li(vdom.Key("b"))},
	))
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	list := arena.Get(root).Children[0]
	if p := arena.Get(list).Parent; p != root {
		t.Errorf("list parent = %d, want %d", p, root)
	}

	ln := arena.Get(list)
	for _, key := range []string{"a", "b"} {
		e, ok := ln.Keys[key]
		if !ok {
			t.Fatalf("Keys[%q] missing", key)
		}
		m := arena.Get(e.Node)
		if !m.Listed || m.Key != key || m.Parent != list {
			t.Errorf("member %q = {Listed:%v Key:%q Parent:%d}", key, m.Listed, m.Key, m.Parent)
		}
	}
	if got := ln.Keys["b"].Pos; got != 1 {
		t.Errorf("Keys[b].Pos = %d, want 1", got)
	}
}

func TestBuildChildPackSplices(t *testing.T) {
	b, arena, _ := newBuilder()

	wrap := vdom.NewComponent("wrap", func(h vdom.Hooks, p vdom.Props, children vdom.ChildPack) *vdom.Lazy {
		return vdom.Section(vdom.H1("title"), children, vdom.Hr())
	})

	root, err := b.Build(vdom.Call(wrap, nil, vdom.P("a"), vdom.NewChildPack(), vdom.P("b")))
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	want := `section(h1("title") p("a") p("b") hr())`
	if got := shape(arena, root); got != want {
		t.Errorf("shape = %s, want %s", got, want)
	}
}

func TestBuildFragment(t *testing.T) {
	b, arena, _ := newBuilder()

	root, err := b.Build(vdom.Div(vdom.Frag("a", vdom.Br())))
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if got, want := shape(arena, root), `div(frag("a" br()))`; got != want {
		t.Errorf("shape = %s, want %s", got, want)
	}
}

func TestBuildErrors(t *testing.T) {
	tests := []struct {
		name string
		root *vdom.Lazy
		code string
	}{
		{
			name: "missing key",
			root: vdom.Ul([]*vdom.Lazy{vdom.Li(vdom.Key("a")), vdom.Li()}),
			code: "E001",
		},
		{
			name: "duplicate key",
			root: vdom.Ul([]*vdom.Lazy{vdom.Li(vdom.Key("a")), vdom.Li(vdom.Key("a"))}),
			code: "E001",
		},
		{
			name: "nil member",
			root: vdom.Ul([]*vdom.Lazy{nil}),
			code: "E001",
		},
		{
			name: "empty fragment",
			root: vdom.Div(vdom.Frag()),
			code: "E004",
		},
		{
			name: "fragment attrs",
			root: vdom.Elem(vdom.DocFrag, vdom.Props{"id": "x"}, "a"),
			code: "E005",
		},
		{
			name: "invalid child",
			root: vdom.Div(struct{}{}),
			code: "E006",
		},
		{
			name: "map child",
			root: vdom.Div(map[string]int{}),
			code: "E006",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, _, _ := newBuilder()
			_, err := b.Build(tt.root)
			if got := errors.Code(err); got != tt.code {
				t.Errorf("Build() error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestBuildErrorPath(t *testing.T) {
	b, _, _ := newBuilder()

	_, err := b.Build(vdom.Div(vdom.P(), vdom.Section(vdom.Frag())))
	var he *errors.HartError
	if !stderrors.As(err, &he) {
		t.Fatalf("Build() error = %v, want *HartError", err)
	}
	if want := "div:0 section:1 #fragment:0"; he.Path != want {
		t.Errorf("Path = %q, want %q", he.Path, want)
	}
}

func TestBuildRecoversAfterError(t *testing.T) {
	b, arena, _ := newBuilder()

	if _, err := b.Build(vdom.Div(vdom.Frag())); err == nil {
		t.Fatal("Build() succeeded on an empty fragment")
	}

	root, err := b.Build(vdom.Div("ok"))
	if err != nil {
		t.Fatalf("Build() after failure error = %v", err)
	}
	if got := shape(arena, root); got != `div("ok")` {
		t.Errorf("shape = %s", got)
	}
}

func TestBuildMountCallbacks(t *testing.T) {
	b, arena, _ := newBuilder()

	fired := 0
	root, err := b.Build(vdom.Div().OnMount(func() { fired++ }))
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if n := len(arena.Get(root).OnMount); n != 1 {
		t.Errorf("OnMount has %d callbacks, want 1", n)
	}
	if fired != 0 {
		t.Error("mount callback fired during build")
	}
}

func TestBuildStats(t *testing.T) {
	b, _, _ := newBuilder()

	leaf := vdom.NewComponent("leaf", func(vdom.Hooks, vdom.Props, vdom.ChildPack) *vdom.Lazy {
		return vdom.Span()
	})
	if _, err := b.Build(vdom.Div(vdom.Call(leaf, nil), vdom.Call(leaf, nil))); err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	want := Stats{Nodes: 3, Renders: 2}
	if diff := cmp.Diff(want, b.Stats()); diff != "" {
		t.Errorf("Stats() mismatch (-want +got):\n%s", diff)
	}
}
