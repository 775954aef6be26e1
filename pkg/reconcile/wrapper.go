package reconcile

import (
	"github.com/hart-dev/hart/pkg/hooks"
	"github.com/hart-dev/hart/pkg/vdom"
)

// call resolves a component call through the optimized wrapper.
func (b *Builder) call(l *vdom.Lazy) vdom.NodeID {
	c := l.Component()
	key, keyed := l.Key()

	b.tracker.Enter(c.Token(), key, keyed)
	defer b.tracker.Exit()
	b.tracker.Nest()
	defer b.tracker.Unnest()

	e := b.store.Resolve(b.tracker.Hash())
	props := l.Attrs()
	children := vdom.NewChildPack(l.Children()...)

	if id, ok := b.reuse(e, c, props, children); ok {
		return id
	}

	prev := b.arena.Get(e.Node())
	id := b.render(e, c, props, children)
	n := b.arena.Get(id)

	if keyed || hasID(props) {
		attrs := n.Attrs.Clone()
		if keyed {
			attrs["key"] = props["key"]
		}
		if _, ok := attrs["id"]; !ok && hasID(props) {
			attrs["id"] = props["id"]
		}
		n.Attrs = attrs
	}
	n.OnMount = append(n.OnMount, l.Mounters()...)
	n.AddUnmounter(e)

	if prev != nil && prev.DOM != nil && !prev.Listed && n.DOM == nil &&
		prev.Kind == n.Kind && prev.Tag == n.Tag {
		n.DOM = prev.DOM
	}

	e.Commit(props, id, children.Len())
	return id
}

// reuse answers the call with the previous node when it is still live,
// neither call passed children, and the props compare equal. A cached node
// without a DOM handle was never mounted or has been torn down, and is
// never reused. The entry's props are refreshed on reuse so later reads
// see this call's values.
func (b *Builder) reuse(e *hooks.Entry, c *vdom.Component, props vdom.Props, children vdom.ChildPack) (vdom.NodeID, bool) {
	if c.Cacheless() || !e.Rendered() {
		return 0, false
	}
	prev := b.arena.Get(e.Node())
	if prev == nil || prev.DOM == nil {
		return 0, false
	}
	if e.ChildLength() != 0 || children.Len() != 0 {
		return 0, false
	}
	if !c.SameProps(e.Props(), props) {
		return 0, false
	}

	e.SetProps(props)
	b.stats.Reused++
	return e.Node(), true
}

// render invokes the component body with hooks bound to e and builds its
// output in the component's own sibling scope.
func (b *Builder) render(e *hooks.Entry, c *vdom.Component, props vdom.Props, children vdom.ChildPack) vdom.NodeID {
	b.active = append(b.active, e)
	e.BeginRender()
	out := c.Render(e, props, children)
	if err := e.EndRender(); err != nil {
		panic(err)
	}
	b.active = b.active[:len(b.active)-1]
	b.stats.Renders++

	if out == nil {
		return b.leaf(vdom.Node{Kind: vdom.KindEmpty})
	}
	return b.lazy(out)
}

func hasID(p vdom.Props) bool {
	_, ok := p["id"]
	return ok
}
