package patch

import (
	"sort"

	"github.com/hart-dev/hart/internal/errors"
	"github.com/hart-dev/hart/pkg/dom"
	"github.com/hart-dev/hart/pkg/scheduler"
	"github.com/hart-dev/hart/pkg/vdom"
)

// Stats counts the work done by a Patcher since its last Reset.
type Stats struct {
	Operations int // operations applied
	Created    int // DOM nodes created
	Moved      int // DOM nodes moved by reorders
	Mounts     int // mount callbacks fired
	Unmounts   int // unmount tasks scheduled
}

// Patcher applies change operations for one render root. It is not safe
// for concurrent use.
type Patcher struct {
	doc   dom.Document
	arena *vdom.Arena
	sched scheduler.Scheduler

	// fresh holds the nodes materialized by the operation in progress, so
	// tearing down the old subtree leaves shared nodes alone.
	fresh   map[vdom.NodeID]bool
	mounted []func()
	stats   Stats
}

// New creates a patcher writing through doc.
func New(doc dom.Document, arena *vdom.Arena, sched scheduler.Scheduler) *Patcher {
	return &Patcher{
		doc:   doc,
		arena: arena,
		sched: sched,
		fresh: make(map[vdom.NodeID]bool),
	}
}

// Stats returns the counters accumulated since the last Reset.
func (p *Patcher) Stats() Stats { return p.stats }

// ResetStats zeroes the counters.
func (p *Patcher) ResetStats() { p.stats = Stats{} }

// Mount materializes root and appends it to container, then fires the
// tree's mount callbacks.
func (p *Patcher) Mount(container dom.Node, root vdom.NodeID) error {
	if container == nil {
		return errors.New("E020").WithDetail("mount container is nil")
	}
	if p.arena.Get(root) == nil {
		return errors.New("E020").WithDetailf("root node %d does not exist", root)
	}
	p.begin()
	container.AppendChild(p.materialize(root))
	p.finish()
	return nil
}

// ApplyAll applies ops in order, stopping at the first failure.
func (p *Patcher) ApplyAll(ops []vdom.ChangeOp) error {
	for _, op := range ops {
		if err := p.Apply(op); err != nil {
			return err
		}
	}
	return nil
}

// Apply applies one change operation.
func (p *Patcher) Apply(op vdom.ChangeOp) error {
	p.begin()
	var err error
	switch op.Type {
	case vdom.OpAdd:
		err = p.add(op)
	case vdom.OpRemove:
		err = p.remove(op)
	case vdom.OpReplace:
		err = p.replace(op)
	case vdom.OpUpdate:
		err = p.update(op)
	case vdom.OpReorder:
		err = p.reorder(op)
	default:
		err = errors.New("E007").WithDetailf("change type %d", op.Type)
	}
	if err != nil {
		clear(p.fresh)
		p.mounted = p.mounted[:0]
		return err
	}
	p.stats.Operations++
	p.finish()
	return nil
}

func (p *Patcher) begin() {
	clear(p.fresh)
	p.mounted = p.mounted[:0]
}

// finish fires the mount callbacks gathered by the operation.
func (p *Patcher) finish() {
	mounted := p.mounted
	p.mounted = nil
	clear(p.fresh)
	for _, fn := range mounted {
		p.stats.Mounts++
		fn()
	}
}

func (p *Patcher) node(id vdom.NodeID) (*vdom.Node, error) {
	n := p.arena.Get(id)
	if n == nil {
		return nil, errors.New("E020").WithDetailf("node %d does not exist", id)
	}
	return n, nil
}

func (p *Patcher) live(id vdom.NodeID) (*vdom.Node, error) {
	n, err := p.node(id)
	if err != nil {
		return nil, err
	}
	if n.DOM == nil {
		return nil, errors.New("E020").WithDetailf("%s node %d has no DOM", n.Kind, id)
	}
	return n, nil
}

// add materializes op.Nodes into op.Next. Elements receive them at the
// end; lists and fragments before their end marker.
func (p *Patcher) add(op vdom.ChangeOp) error {
	target, err := p.live(op.Next)
	if err != nil {
		return err
	}

	batch := p.doc.CreateDocumentFragment()
	for _, id := range op.Nodes {
		if _, err := p.node(id); err != nil {
			return err
		}
		batch.AppendChild(p.materialize(id))
	}

	if target.Multi() {
		parent := target.DOM.ParentNode()
		if parent == nil {
			return errors.New("E020").WithDetailf("%s node %d is detached", target.Kind, op.Next)
		}
		parent.InsertBefore(batch, target.DOM)
		return nil
	}
	target.DOM.AppendChild(batch)
	return nil
}

// remove detaches op.Prev and schedules its subtree's unmounts.
func (p *Patcher) remove(op vdom.ChangeOp) error {
	if _, err := p.live(op.Prev); err != nil {
		return err
	}
	p.detach(op.Prev)
	p.teardown(op.Prev)
	return nil
}

// replace swaps op.Prev for a freshly materialized op.Next.
func (p *Patcher) replace(op vdom.ChangeOp) error {
	prev, err := p.live(op.Prev)
	if err != nil {
		return err
	}
	if _, err := p.node(op.Next); err != nil {
		return err
	}

	first := p.arena.FirstDOM(op.Prev)
	parent := first.ParentNode()
	if parent == nil {
		return errors.New("E020").WithDetailf("%s node %d is detached", prev.Kind, op.Prev)
	}

	fresh := p.materialize(op.Next)
	if prev.Multi() {
		parent.InsertBefore(fresh, first)
		p.detach(op.Prev)
	} else {
		parent.ReplaceChild(fresh, prev.DOM)
	}
	p.teardown(op.Prev)
	return nil
}

// update applies attribute deltas to op.Next's element.
func (p *Patcher) update(op vdom.ChangeOp) error {
	next, err := p.node(op.Next)
	if err != nil {
		return err
	}
	if next.DOM == nil {
		if prev := p.arena.Get(op.Prev); prev != nil {
			next.DOM = prev.DOM
		}
	}
	if next.DOM == nil {
		return errors.New("E020").WithDetailf("element %d has no DOM", op.Next)
	}

	var prevAttrs vdom.Props
	if prev := p.arena.Get(op.Prev); prev != nil {
		prevAttrs = prev.Attrs
	}
	svg := p.arena.InSVG(op.Next)

	for _, d := range op.Attrs {
		switch d.Op {
		case vdom.DeltaSet:
			setAttr(next.DOM, svg, d.Name, d.Value)
		case vdom.DeltaDelete:
			clearAttr(next.DOM, svg, d.Name, prevAttrs[d.Name])
		default:
			return errors.New("E008").WithDetailf("delta %d on %q", d.Op, d.Name)
		}
	}
	return nil
}

// reorder moves the members of op.Next into key order. The walk starts
// at the first member still rendered from the previous list and keeps a
// position marker: each member is moved directly after the marker unless
// it is already there, then becomes the marker.
func (p *Patcher) reorder(op vdom.ChangeOp) error {
	next, err := p.live(op.Next)
	if err != nil {
		return err
	}
	prev, err := p.node(op.Prev)
	if err != nil {
		return err
	}
	parent := next.DOM.ParentNode()
	if parent == nil {
		return errors.New("E020").WithDetailf("list %d is detached", op.Next)
	}

	marker := p.firstRendered(prev, next, op.Removed)
	if marker == nil {
		return nil
	}

	sorted := make([]vdom.ListEntry, 0, len(next.Keys))
	for _, e := range next.Keys {
		sorted = append(sorted, e)
	}
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Pos < sorted[j].Pos })

	first := true
	for _, e := range sorted {
		for _, html := range p.domNodes(e.Node) {
			if first {
				first = false
				if !dom.Same(marker, html) {
					parent.InsertBefore(html, marker)
					p.stats.Moved++
				}
			} else if sib := marker.NextSibling(); sib != nil && !dom.Same(sib, html) {
				parent.InsertBefore(html, sib)
				p.stats.Moved++
			}
			marker = html
		}
	}
	return nil
}

// firstRendered finds the DOM node currently leading the list: the first
// previous member that was not removed in this pass, as rendered now.
func (p *Patcher) firstRendered(prev, next *vdom.Node, removed []vdom.ListEntry) dom.Node {
	gone := make(map[vdom.NodeID]bool, len(removed))
	for _, r := range removed {
		gone[r.Node] = true
	}
	for _, id := range prev.Children {
		if gone[id] {
			continue
		}
		key := p.arena.Get(id).Key
		if e, ok := next.Keys[key]; ok {
			if d := p.arena.FirstDOM(e.Node); d != nil {
				return d
			}
		}
	}
	for _, id := range next.Children {
		if d := p.arena.FirstDOM(id); d != nil {
			return d
		}
	}
	return nil
}

// domNodes returns the top-level DOM nodes rendered for id, in order.
func (p *Patcher) domNodes(id vdom.NodeID) []dom.Node {
	n := p.arena.Get(id)
	if n == nil || n.DOM == nil {
		return nil
	}
	if !n.Multi() {
		return []dom.Node{n.DOM}
	}
	var out []dom.Node
	for _, c := range n.Children {
		out = append(out, p.domNodes(c)...)
	}
	return append(out, n.DOM)
}

// detach removes id's DOM nodes from their parent.
func (p *Patcher) detach(id vdom.NodeID) {
	for _, html := range p.domNodes(id) {
		if parent := html.ParentNode(); parent != nil {
			parent.RemoveChild(html)
		}
	}
}

// teardown retires id's subtree: unmounters are detached children first
// and their unmounts scheduled, and every DOM handle is dropped. Nodes
// materialized by the current operation are shared with the new tree and
// are left alone.
func (p *Patcher) teardown(id vdom.NodeID) {
	n := p.arena.Get(id)
	if n == nil || p.fresh[id] {
		return
	}
	for _, c := range n.Children {
		p.teardown(c)
	}
	for _, u := range n.Unmounters {
		if u.Detach(id) {
			p.stats.Unmounts++
			p.sched.Schedule(u.Unmount)
		}
	}
	n.DOM = nil
}

// materialize creates the DOM for id's subtree and returns the node to
// insert. Mount callbacks are gathered in pre-order.
func (p *Patcher) materialize(id vdom.NodeID) dom.Node {
	start := len(p.mounted)
	out := p.build(id)
	n := p.arena.Get(id)
	n.Mounters = append(n.Mounters[:0], p.mounted[start:]...)
	return out
}

func (p *Patcher) build(id vdom.NodeID) dom.Node {
	n := p.arena.Get(id)
	p.fresh[id] = true
	p.mounted = append(p.mounted, n.OnMount...)

	switch n.Kind {
	case vdom.KindEmpty:
		n.DOM = p.doc.CreateComment("")
		p.stats.Created++
		return n.DOM

	case vdom.KindText:
		n.DOM = p.doc.CreateTextNode(n.Text)
		p.stats.Created++
		return n.DOM

	case vdom.KindList, vdom.KindFragment:
		run := p.doc.CreateDocumentFragment()
		for _, c := range n.Children {
			run.AppendChild(p.build(c))
		}
		n.DOM = p.doc.CreateComment("")
		p.stats.Created++
		run.AppendChild(n.DOM)
		return run

	case vdom.KindElement:
		svg := p.arena.InSVG(id)
		var el dom.Node
		if svg {
			el = p.doc.CreateElementNS(dom.SVGNamespace, n.Tag)
		} else {
			el = p.doc.CreateElement(n.Tag)
		}
		n.DOM = el
		p.stats.Created++

		names := make([]string, 0, len(n.Attrs))
		for name := range n.Attrs {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			setAttr(el, svg, name, n.Attrs[name])
		}

		for _, c := range n.Children {
			el.AppendChild(p.build(c))
		}
		return el

	default:
		panic("patch: cannot materialize node kind " + n.Kind.String())
	}
}
