package reconcile

import (
	"fmt"

	"github.com/hart-dev/hart/internal/errors"
	"github.com/hart-dev/hart/pkg/hooks"
	"github.com/hart-dev/hart/pkg/vdom"
)

// Stats counts the work done by the last Build.
type Stats struct {
	Nodes   int // concrete nodes allocated
	Renders int // component bodies invoked
	Reused  int // component calls answered with their previous node
}

// Builder turns lazy trees into concrete trees in one arena. It is not
// safe for concurrent use.
type Builder struct {
	arena   *vdom.Arena
	tracker *hooks.Tracker
	store   *hooks.Store

	active []*hooks.Entry
	stats  Stats
}

// NewBuilder creates a builder over the given arena and hook store.
func NewBuilder(arena *vdom.Arena, store *hooks.Store) *Builder {
	return &Builder{
		arena:   arena,
		tracker: hooks.NewTracker(),
		store:   store,
	}
}

// Stats returns the counters of the last Build.
func (b *Builder) Stats() Stats {
	return b.stats
}

// Build resolves root into a concrete tree and returns the root's id.
func (b *Builder) Build(root *vdom.Lazy) (id vdom.NodeID, err error) {
	b.tracker.Reset()
	b.stats = Stats{}

	defer func() {
		r := recover()
		if r == nil {
			return
		}
		err = b.recovered(r)
		id = 0
	}()

	return b.build(root), nil
}

// recovered converts a panic raised during Build into an error and puts
// the builder back in a clean state.
func (b *Builder) recovered(r any) error {
	path := b.tracker.Path()

	for i := len(b.active) - 1; i >= 0; i-- {
		b.active[i].Abort()
	}
	b.active = b.active[:0]
	b.tracker.Reset()

	switch v := r.(type) {
	case *errors.HartError:
		if v.Path == "" {
			v.Path = path
		}
		return v
	case error:
		return errors.New("E011").WithPath(path).Wrap(v)
	default:
		return errors.New("E011").WithPath(path).WithDetail(fmt.Sprint(v))
	}
}

func (b *Builder) fail(code string, format string, args ...any) {
	panic(errors.New(code).WithDetailf(format, args...).WithPath(b.tracker.Path()))
}

func (b *Builder) alloc(n vdom.Node) vdom.NodeID {
	b.stats.Nodes++
	return b.arena.Alloc(n)
}

// build resolves one child value.
func (b *Builder) build(v any) vdom.NodeID {
	switch c := v.(type) {
	case nil:
		return b.leaf(vdom.Node{Kind: vdom.KindEmpty})
	case *vdom.Lazy:
		if c == nil {
			return b.leaf(vdom.Node{Kind: vdom.KindEmpty})
		}
		return b.lazy(c)
	case []*vdom.Lazy:
		return b.list(c)
	case bool:
		if !c {
			return b.leaf(vdom.Node{Kind: vdom.KindEmpty})
		}
		return b.leaf(vdom.Node{Kind: vdom.KindText, Text: "true"})
	case string:
		return b.leaf(vdom.Node{Kind: vdom.KindText, Text: c})
	case int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return b.leaf(vdom.Node{Kind: vdom.KindText, Text: fmt.Sprint(c)})
	case fmt.Stringer:
		return b.leaf(vdom.Node{Kind: vdom.KindText, Text: c.String()})
	case vdom.ChildPack:
		b.fail("E006", "child pack outside a child list")
	}
	b.fail("E006", "unsupported child of type %T", v)
	return 0
}

// leaf allocates a childless node, keeping its slot in the sibling count.
func (b *Builder) leaf(n vdom.Node) vdom.NodeID {
	b.tracker.Enter(n.Kind.Token(), "", false)
	defer b.tracker.Exit()
	return b.alloc(n)
}

func (b *Builder) lazy(l *vdom.Lazy) vdom.NodeID {
	switch l.Kind() {
	case vdom.KindElement:
		return b.element(l)
	case vdom.KindFragment:
		return b.fragment(l)
	case vdom.KindComponent:
		return b.call(l)
	default:
		panic(fmt.Sprintf("reconcile: lazy node of kind %s", l.Kind()))
	}
}

func (b *Builder) element(l *vdom.Lazy) vdom.NodeID {
	key, keyed := l.Key()
	b.tracker.Enter(l.Tag(), key, keyed)
	defer b.tracker.Exit()

	id := b.alloc(vdom.Node{
		Kind:    vdom.KindElement,
		Tag:     l.Tag(),
		Attrs:   l.Attrs(),
		OnMount: l.Mounters(),
	})
	b.children(id, l.Children())
	return id
}

func (b *Builder) fragment(l *vdom.Lazy) vdom.NodeID {
	b.tracker.Enter(vdom.KindFragment.Token(), "", false)
	defer b.tracker.Exit()

	if len(l.Children()) == 0 {
		b.fail("E004", "fragment built with zero children")
	}
	if len(l.Attrs()) > 0 {
		b.fail("E005", "fragment given %d attribute(s)", len(l.Attrs()))
	}

	id := b.alloc(vdom.Node{
		Kind:    vdom.KindFragment,
		OnMount: l.Mounters(),
	})
	b.children(id, l.Children())
	return id
}

// children builds values as the children of parent, splicing child packs
// in place.
func (b *Builder) children(parent vdom.NodeID, values []any) {
	b.tracker.Nest()
	defer b.tracker.Unnest()
	b.appendChildren(parent, values)
}

func (b *Builder) appendChildren(parent vdom.NodeID, values []any) {
	for _, v := range values {
		if pack, ok := v.(vdom.ChildPack); ok {
			b.appendChildren(parent, pack.Nodes())
			continue
		}
		id := b.build(v)
		b.arena.Get(id).Parent = parent
		p := b.arena.Get(parent)
		p.Children = append(p.Children, id)
	}
}

func (b *Builder) list(items []*vdom.Lazy) vdom.NodeID {
	b.tracker.Enter(vdom.KindList.Token(), "", false)
	defer b.tracker.Exit()
	b.tracker.NestList()
	defer b.tracker.Unnest()

	id := b.alloc(vdom.Node{
		Kind: vdom.KindList,
		Keys: make(map[string]vdom.ListEntry, len(items)),
	})
	children := make([]vdom.NodeID, 0, len(items))

	for pos, item := range items {
		if item == nil {
			b.fail("E001", "member %d is nil", pos)
		}
		key, ok := item.Key()
		if !ok {
			b.fail("E001", "member %d (%s) has no key", pos, item)
		}
		if _, dup := b.arena.Get(id).Keys[key]; dup {
			b.fail("E001", "key %q used twice", key)
		}

		child := b.lazy(item)
		n := b.arena.Get(child)
		n.Listed = true
		n.Key = key
		n.Parent = id

		b.arena.Get(id).Keys[key] = vdom.ListEntry{Node: child, Pos: pos}
		children = append(children, child)
	}

	b.arena.Get(id).Children = children
	return id
}
