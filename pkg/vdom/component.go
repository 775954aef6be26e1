package vdom

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/hart-dev/hart/internal/errors"
)

// RenderFunc is a component body. It receives the hook capability bound to
// its identity, the props of this call and the children passed to it. A nil
// result renders as EMPTY.
type RenderFunc func(h Hooks, props Props, children ChildPack) *Lazy

// PropsCompare reports whether a component can skip re-rendering.
type PropsCompare func(prev, next Props) bool

// Component is a render function plus its memoization options.
type Component struct {
	name      string
	fn        RenderFunc
	compare   PropsCompare
	cacheless bool

	tokenOnce sync.Once
	token     string
}

// ComponentOption configures a Component.
type ComponentOption func(*Component)

// WithPropCheck replaces the shallow props comparison used to decide
// whether the component can skip re-rendering. It panics when combined
// with Cacheless.
func WithPropCheck(cmp PropsCompare) ComponentOption {
	return func(c *Component) {
		if c.cacheless {
			panic(errors.New("E009").WithDetailf("component %q", c.name))
		}
		c.compare = cmp
	}
}

// Cacheless makes the component re-render on every pass. It panics when
// combined with WithPropCheck.
func Cacheless() ComponentOption {
	return func(c *Component) {
		if c.compare != nil {
			panic(errors.New("E009").WithDetailf("component %q", c.name))
		}
		c.cacheless = true
	}
}

// NewComponent wraps fn. The name is used in logs and errors only; the
// identity token is assigned separately.
func NewComponent(name string, fn RenderFunc, opts ...ComponentOption) *Component {
	c := &Component{name: name, fn: fn}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var nextToken atomic.Uint64

// Token returns the component's process-lifetime identity token. It is
// assigned on first use, so two components never share a token even when
// their names match.
func (c *Component) Token() string {
	c.tokenOnce.Do(func() {
		c.token = fmt.Sprintf("fn#%d", nextToken.Add(1))
	})
	return c.token
}

// Name returns the component's display name.
func (c *Component) Name() string {
	if c.name == "" {
		return c.Token()
	}
	return c.name
}

// Cacheless reports whether the component skips memoization.
func (c *Component) Cacheless() bool { return c.cacheless }

// SameProps applies the custom comparator or PropsEqual.
func (c *Component) SameProps(prev, next Props) bool {
	if c.compare != nil {
		return c.compare(prev, next)
	}
	return PropsEqual(prev, next)
}

// Render invokes the component body. Only the tree builder calls this,
// with hooks bound to the call's identity.
func (c *Component) Render(h Hooks, props Props, children ChildPack) *Lazy {
	return c.fn(h, props, children)
}
