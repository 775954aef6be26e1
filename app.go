package hart

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/trace"

	"github.com/hart-dev/hart/internal/errors"
	"github.com/hart-dev/hart/pkg/dom"
	"github.com/hart-dev/hart/pkg/hooks"
	"github.com/hart-dev/hart/pkg/patch"
	"github.com/hart-dev/hart/pkg/reconcile"
	"github.com/hart-dev/hart/pkg/scheduler"
	"github.com/hart-dev/hart/pkg/telemetry"
	"github.com/hart-dev/hart/pkg/vdom"
)

// App renders into one target node. It is not safe for concurrent use;
// hosts serialize passes, for example through a scheduler.Loop.
type App struct {
	config Config
	logger *slog.Logger

	target dom.Node
	arena  *vdom.Arena
	store  *hooks.Store
	queue  *scheduler.Queue // nil when the scheduler is injected

	builder *reconcile.Builder
	patcher *patch.Patcher

	root   vdom.NodeID
	seq    uint64
	closed bool
}

// New creates an App that renders into target using doc to create nodes.
func New(doc dom.Document, target dom.Node, opts ...Option) *App {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.Name == "" {
		cfg.Name = "hart"
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	a := &App{
		config: cfg,
		logger: logger.With("app", cfg.Name),
		target: target,
		arena:  vdom.NewArena(),
	}

	sched := cfg.Scheduler
	if sched == nil {
		a.queue = scheduler.NewQueue()
		sched = a.queue
	}

	a.store = hooks.NewStore(sched)
	a.builder = reconcile.NewBuilder(a.arena, a.store)
	a.patcher = patch.New(doc, a.arena, sched)
	return a
}

// Render runs one pass: root is built, then inserted into the target on
// the first pass or diffed against the retained tree and patched on
// later ones. A failed build leaves the DOM untouched.
func (a *App) Render(ctx context.Context, root *vdom.Lazy) error {
	if a.closed {
		return errors.New("E010")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	a.seq++
	pass := &telemetry.Pass{
		Seq:   a.seq,
		Start: time.Now(),
		Mount: a.root == 0,
	}

	var span trace.Span
	if a.config.Tracer != nil {
		_, span = a.config.Tracer.Start(ctx, pass.Seq, pass.Mount)
	}

	pass.Err = a.render(root, pass, span)

	if span != nil {
		a.config.Tracer.End(span, pass)
	}
	a.observe(pass)

	if pass.Err != nil {
		return pass.Err
	}
	if a.config.FlushOnRender {
		a.Flush()
	}
	return nil
}

// Mount renders a call of c with props and children as the root.
func (a *App) Mount(ctx context.Context, c *vdom.Component, props vdom.Props, children ...any) error {
	return a.Render(ctx, vdom.Call(c, props, children...))
}

func (a *App) render(root *vdom.Lazy, pass *telemetry.Pass, span trace.Span) error {
	start := time.Now()
	id, err := a.builder.Build(root)
	pass.Build = time.Since(start)
	stats := a.builder.Stats()
	pass.Renders = stats.Renders
	pass.Reused = stats.Reused
	a.phase(span, "build", pass.Build)

	if err != nil {
		a.collect(pass)
		return err
	}

	a.patcher.ResetStats()
	defer func() {
		ps := a.patcher.Stats()
		pass.Created = ps.Created
		pass.Moved = ps.Moved
		pass.Mounts = ps.Mounts
		pass.Unmounts = ps.Unmounts
	}()

	if a.root == 0 {
		start = time.Now()
		err = a.patcher.Mount(a.target, id)
		pass.Patch = time.Since(start)
		a.phase(span, "patch", pass.Patch)
		if err != nil {
			a.collect(pass)
			return err
		}
		a.root = id
		a.collect(pass)
		return nil
	}

	start = time.Now()
	ops := vdom.Diff(a.arena, a.root, id)
	pass.Diff = time.Since(start)
	a.phase(span, "diff", pass.Diff)
	pass.Ops = telemetry.Summarize(a.arena, ops)

	start = time.Now()
	err = a.patcher.ApplyAll(ops)
	pass.Patch = time.Since(start)
	a.phase(span, "patch", pass.Patch)

	// The diff has already moved DOM handles onto the new tree, so it is
	// retained even when an operation fails.
	a.root = id
	a.collect(pass)
	return err
}

// collect frees every node not reachable from the retained root. Entries
// whose output is no longer in the tree are retired and unmounted, so no
// entry outlives its node.
func (a *App) collect(pass *telemetry.Pass) {
	mark := a.arena.NewMark()
	if a.root != 0 {
		a.arena.MarkFrom(mark, a.root)
	}

	for _, e := range a.store.Entries() {
		if e.Retired() || mark.Has(e.Node()) {
			continue
		}
		if e.Retire() {
			a.store.Schedule(e.Unmount)
		}
	}

	pass.Freed = a.arena.Sweep(mark)
	pass.Nodes = a.arena.Len()
	pass.Entries = a.store.Len()
}

func (a *App) phase(span trace.Span, name string, d time.Duration) {
	if span != nil {
		a.config.Tracer.Phase(span, name, d)
	}
}

func (a *App) observe(pass *telemetry.Pass) {
	if pass.Err != nil {
		a.logger.Error("render pass failed",
			"seq", pass.Seq,
			"code", ErrorCode(pass.Err),
			"error", pass.Err,
		)
	} else {
		a.logger.Debug("render pass",
			"seq", pass.Seq,
			"result", pass.Result(),
			"ops", len(pass.Ops),
			"duration", pass.Duration(),
			"nodes", pass.Nodes,
			"entries", pass.Entries,
		)
	}
	for _, o := range a.config.Observers {
		o.ObservePass(pass)
	}
}

// Flush runs the effects and unmounts queued so far when the App uses its
// own queue, and returns how many tasks ran. With an injected scheduler
// it does nothing.
func (a *App) Flush() int {
	if a.queue == nil {
		return 0
	}
	return a.queue.Drain()
}

// Close removes the rendered tree from the target, unmounts every
// component and frees all nodes. The App can not render afterwards.
func (a *App) Close() error {
	if a.closed {
		return nil
	}
	a.closed = true

	var err error
	if a.root != 0 {
		err = a.patcher.Apply(vdom.ChangeOp{Type: vdom.OpRemove, Prev: a.root})
		a.root = 0
	}
	a.store.UnmountAll()
	a.arena.Sweep(a.arena.NewMark())
	a.Flush()

	a.logger.Debug("app closed", "entries", a.store.Len())
	return err
}

// Closed reports whether Close has been called.
func (a *App) Closed() bool { return a.closed }

// Tree returns the root of the retained tree, or 0 before the first
// successful pass.
func (a *App) Tree() vdom.NodeID { return a.root }

// Arena returns the App's node arena.
func (a *App) Arena() *vdom.Arena { return a.arena }

// Store returns the App's hook store.
func (a *App) Store() *hooks.Store { return a.store }

// Target returns the node the App renders into.
func (a *App) Target() dom.Node { return a.target }

// Config returns the App's configuration.
func (a *App) Config() Config { return a.config }

// Passes returns the number of passes attempted.
func (a *App) Passes() uint64 { return a.seq }
