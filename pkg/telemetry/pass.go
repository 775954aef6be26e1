package telemetry

import (
	"sort"
	"time"

	"github.com/hart-dev/hart/pkg/vdom"
)

// Pass describes one render pass.
type Pass struct {
	Seq   uint64
	Start time.Time

	// Mount is true for the first pass, which inserts instead of diffing.
	Mount bool

	Build time.Duration
	Diff  time.Duration
	Patch time.Duration

	Ops []Op

	Renders  int // component bodies invoked
	Reused   int // component calls answered from cache
	Created  int // DOM nodes created
	Moved    int // DOM nodes moved by reorders
	Mounts   int // mount callbacks fired
	Unmounts int // unmount tasks scheduled

	Nodes   int // arena nodes retained after the pass
	Freed   int // arena nodes collected by the pass
	Entries int // hook entries retained after the pass

	Err error
}

// Duration returns the time spent in all phases.
func (p *Pass) Duration() time.Duration {
	return p.Build + p.Diff + p.Patch
}

// Result labels the outcome of the pass.
func (p *Pass) Result() string {
	switch {
	case p.Err != nil:
		return "error"
	case p.Mount:
		return "mount"
	default:
		return "patch"
	}
}

// Op summarizes one change operation with the node details that are
// still meaningful after the pass's nodes are collected.
type Op struct {
	Type   string
	Target uint32 // the node the op was applied to
	Kind   string
	Tag    string
	Nodes  int      // nodes added by ADD
	Keys   []string // target order for REORDER
	Attrs  []string // "SET name" or "DELETE name" for UPDATE
}

// Summarize describes ops against a. It must run before the pass's old
// nodes are swept.
func Summarize(a *vdom.Arena, ops []vdom.ChangeOp) []Op {
	out := make([]Op, 0, len(ops))
	for _, op := range ops {
		s := Op{Type: op.Type.String()}

		target := op.Next
		if op.Type == vdom.OpRemove {
			target = op.Prev
		}
		s.Target = uint32(target)
		if n := a.Get(target); n != nil {
			s.Kind = n.Kind.String()
			s.Tag = n.Tag
		}

		switch op.Type {
		case vdom.OpAdd:
			s.Nodes = len(op.Nodes)
		case vdom.OpUpdate:
			for _, d := range op.Attrs {
				s.Attrs = append(s.Attrs, d.Op.String()+" "+d.Name)
			}
		case vdom.OpReorder:
			if n := a.Get(op.Next); n != nil {
				s.Keys = sortedKeys(n.Keys)
			}
		}
		out = append(out, s)
	}
	return out
}

func sortedKeys(keys map[string]vdom.ListEntry) []string {
	out := make([]string, 0, len(keys))
	for k := range keys {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return keys[out[i]].Pos < keys[out[j]].Pos })
	return out
}

// CountOps tallies ops by type name.
func CountOps(ops []Op) map[string]int {
	out := make(map[string]int, len(ops))
	for _, op := range ops {
		out[op.Type]++
	}
	return out
}
