package hart

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/hart-dev/hart/pkg/dom/memdom"
	"github.com/hart-dev/hart/pkg/render"
	"github.com/hart-dev/hart/pkg/scheduler"
	"github.com/hart-dev/hart/pkg/telemetry"
	"github.com/hart-dev/hart/pkg/vdom"
)

var quiet = slog.New(slog.NewTextHandler(io.Discard, nil))

type passLog struct {
	passes []telemetry.Pass
}

func (l *passLog) ObservePass(p *telemetry.Pass) { l.passes = append(l.passes, *p) }

func (l *passLog) last() *telemetry.Pass { return &l.passes[len(l.passes)-1] }

func newTestApp(t *testing.T, opts ...Option) (*App, *memdom.Node, *passLog) {
	t.Helper()
	body := memdom.NewElement("body")
	log := &passLog{}
	opts = append([]Option{WithLogger(quiet), WithRecorder(log)}, opts...)
	return New(memdom.NewDocument(), body, opts...), body, log
}

func mustRender(t *testing.T, app *App, root *vdom.Lazy) {
	t.Helper()
	if err := app.Render(context.Background(), root); err != nil {
		t.Fatalf("Render() error = %v", err)
	}
}

// item renders a keyed list member and logs its lifecycle.
func item(events *[]string) *vdom.Component {
	return vdom.NewComponent("Item", func(h vdom.Hooks, p vdom.Props, _ vdom.ChildPack) *vdom.Lazy {
		label := p["label"].(string)
		*events = append(*events, "render "+label)
		h.AfterEffect(func() func() {
			*events = append(*events, "effect "+label)
			return func() { *events = append(*events, "cleanup "+label) }
		}, vdom.Deps{})
		return vdom.Li(label)
	})
}

func list(c *vdom.Component, labels ...string) *vdom.Lazy {
	members := make([]*vdom.Lazy, 0, len(labels))
	for _, l := range labels {
		members = append(members, vdom.Call(c, vdom.Props{"key": l, "label": l}))
	}
	return vdom.Ul(members)
}

func TestApp_EndToEnd(t *testing.T) {
	app, body, log := newTestApp(t)
	var events []string
	c := item(&events)

	mustRender(t, app, list(c, "x"))
	if got := render.Markup(body); got != "<ul><li>x</li></ul>" {
		t.Fatalf("mount markup = %q", got)
	}
	if !log.last().Mount {
		t.Error("first pass should be a mount")
	}

	mustRender(t, app, list(c, "x", "y"))
	if diff := cmp.Diff(map[string]int{"ADD": 1}, telemetry.CountOps(log.last().Ops)); diff != "" {
		t.Errorf("[x] -> [x,y] ops mismatch (-want +got):\n%s", diff)
	}
	if got := render.Markup(body); got != "<ul><li>x</li><li>y</li></ul>" {
		t.Errorf("markup = %q", got)
	}

	ul := body.FirstChild()
	liX, liY := ul.ChildNodes()[0], ul.ChildNodes()[1]

	mustRender(t, app, list(c, "y", "x"))
	if diff := cmp.Diff(map[string]int{"REORDER": 1}, telemetry.CountOps(log.last().Ops)); diff != "" {
		t.Errorf("[x,y] -> [y,x] ops mismatch (-want +got):\n%s", diff)
	}
	if got := render.Markup(body); got != "<ul><li>y</li><li>x</li></ul>" {
		t.Errorf("markup = %q", got)
	}
	if kids := ul.ChildNodes(); !kids[0].IsSameNode(liY) || !kids[1].IsSameNode(liX) {
		t.Error("reorder should move the existing <li> nodes")
	}

	app.Flush()
	want := []string{"render x", "render y", "effect x", "effect y"}
	if diff := cmp.Diff(want, events); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestApp_KeyedCallMovesOutsideList(t *testing.T) {
	app, body, _ := newTestApp(t)
	var events []string
	c := vdom.NewComponent("Label", func(h vdom.Hooks, p vdom.Props, _ vdom.ChildPack) *vdom.Lazy {
		label := p["label"].(string)
		events = append(events, "render "+label)
		h.AfterEffect(func() func() {
			return func() { events = append(events, "cleanup "+label) }
		}, vdom.Deps{})
		return vdom.P(vdom.Class(label), label)
	})
	call := func(label string) *vdom.Lazy {
		return vdom.Call(c, vdom.Props{"key": "k", "label": label})
	}

	mustRender(t, app, vdom.Div(call("A"), vdom.P("B")))
	app.Flush()
	if got := render.Markup(body); got != `<div><p class="A">A</p><p>B</p></div>` {
		t.Fatalf("mount markup = %q", got)
	}

	mustRender(t, app, vdom.Div(vdom.P("B"), call("A")))
	app.Flush()
	if got := render.Markup(body); got != `<div><p>B</p><p class="A">A</p></div>` {
		t.Fatalf("markup after move = %q", got)
	}

	div := body.FirstChild()
	kids := div.ChildNodes()
	if kids[0].IsSameNode(kids[1]) {
		t.Fatal("both paragraphs share one element")
	}

	mustRender(t, app, vdom.Div(vdom.P("B"), call("C")))
	app.Flush()
	if got := render.Markup(body); got != `<div><p>B</p><p class="C">C</p></div>` {
		t.Errorf("markup after update = %q", got)
	}
	if !div.ChildNodes()[1].IsSameNode(kids[1]) {
		t.Error("the update should patch the element the call now owns")
	}

	want := []string{"render A", "render A", "cleanup A", "render C"}
	if diff := cmp.Diff(want, events); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
	if got := app.Store().Len(); got != 1 {
		t.Errorf("Store().Len() = %d, want 1", got)
	}
}

func TestApp_EffectsDeferred(t *testing.T) {
	app, _, _ := newTestApp(t)
	var events []string
	c := item(&events)

	mustRender(t, app, list(c, "a", "b"))
	if diff := cmp.Diff([]string{"render a", "render b"}, events); diff != "" {
		t.Fatalf("effects ran before Flush (-want +got):\n%s", diff)
	}
	if n := app.Flush(); n != 2 {
		t.Errorf("Flush() = %d, want 2", n)
	}

	events = nil
	mustRender(t, app, list(c, "b"))
	if len(events) != 0 {
		t.Fatalf("events before Flush = %v, want none", events)
	}
	app.Flush()
	if diff := cmp.Diff([]string{"cleanup a"}, events); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestApp_FlushOnRender(t *testing.T) {
	app, _, _ := newTestApp(t, WithFlushOnRender())
	var events []string

	mustRender(t, app, list(item(&events), "a"))
	if diff := cmp.Diff([]string{"render a", "effect a"}, events); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestApp_InjectedScheduler(t *testing.T) {
	var tasks []func()
	app, _, _ := newTestApp(t, WithScheduler(scheduler.Func(func(task func()) {
		tasks = append(tasks, task)
	})))
	var events []string

	mustRender(t, app, list(item(&events), "a"))
	if app.Flush() != 0 {
		t.Error("Flush() should do nothing with an injected scheduler")
	}
	if len(tasks) != 1 {
		t.Fatalf("scheduled %d tasks, want 1", len(tasks))
	}
	tasks[0]()
	if diff := cmp.Diff([]string{"render a", "effect a"}, events); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestApp_EvictsRemovedEntries(t *testing.T) {
	app, _, _ := newTestApp(t)
	var events []string
	c := item(&events)

	labels := make([]string, 10)
	for i := range labels {
		labels[i] = fmt.Sprintf("k%d", i)
	}
	mustRender(t, app, list(c, labels...))
	app.Flush()
	if got := app.Store().Len(); got != 10 {
		t.Fatalf("Store().Len() = %d, want 10", got)
	}

	mustRender(t, app, list(c))
	app.Flush()
	if got := app.Store().Len(); got != 0 {
		t.Errorf("Store().Len() after clearing = %d, want 0", got)
	}
	created, evicted := app.Store().Stats()
	if created != 10 || evicted != 10 {
		t.Errorf("Stats() = %d created, %d evicted, want 10/10", created, evicted)
	}
}

func TestApp_ArenaStaysBounded(t *testing.T) {
	app, body, _ := newTestApp(t)
	var events []string
	c := item(&events)

	mustRender(t, app, list(c, "a", "b", "c"))
	base := app.Arena().Len()

	for i := 0; i < 50; i++ {
		labels := []string{"a", "b", "c"}
		if i%2 == 0 {
			labels = []string{"c", "b", "a"}
		}
		mustRender(t, app, vdom.Div(vdom.Class(fmt.Sprint("pass-", i)), list(c, labels...)))
		app.Flush()
	}
	mustRender(t, app, list(c, "a", "b", "c"))

	if got := app.Arena().Len(); got > base+2 {
		t.Errorf("Arena().Len() = %d after 50 passes, started at %d", got, base)
	}
	if got := render.Markup(body); got != "<ul><li>a</li><li>b</li><li>c</li></ul>" {
		t.Errorf("markup = %q", got)
	}
}

func TestApp_BuildErrorKeepsDOM(t *testing.T) {
	app, body, log := newTestApp(t)
	var events []string
	c := item(&events)

	mustRender(t, app, list(c, "a"))
	before := render.Markup(body)

	err := app.Render(context.Background(), vdom.Ul([]*vdom.Lazy{
		vdom.Li(vdom.Key("x"), "1"),
		vdom.Li(vdom.Key("x"), "2"),
	}))
	if ErrorCode(err) != "E001" {
		t.Fatalf("Render() error = %v, want E001", err)
	}
	if got := render.Markup(body); got != before {
		t.Errorf("markup after failed pass = %q, want %q", got, before)
	}
	if log.last().Result() != "error" {
		t.Errorf("last pass result = %q, want error", log.last().Result())
	}

	mustRender(t, app, list(c, "a", "b"))
	if got := render.Markup(body); got != "<ul><li>a</li><li>b</li></ul>" {
		t.Errorf("markup after recovery = %q", got)
	}
}

func TestApp_Close(t *testing.T) {
	app, body, _ := newTestApp(t)
	var events []string
	c := item(&events)

	mustRender(t, app, list(c, "a", "b"))
	app.Flush()
	events = nil

	if err := app.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if got := render.Markup(body); got != "" {
		t.Errorf("markup after Close = %q, want empty", got)
	}
	if diff := cmp.Diff([]string{"cleanup a", "cleanup b"}, events); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
	if app.Store().Len() != 0 || app.Arena().Len() != 0 {
		t.Errorf("Close left %d entries, %d nodes", app.Store().Len(), app.Arena().Len())
	}

	if err := app.Render(context.Background(), list(c, "a")); ErrorCode(err) != "E010" {
		t.Errorf("Render() after Close error = %v, want E010", err)
	}
	if err := app.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}

func TestApp_IndependentRoots(t *testing.T) {
	doc := memdom.NewDocument()
	left, right := memdom.NewElement("div"), memdom.NewElement("div")
	a := New(doc, left, WithLogger(quiet), WithName("left"))
	b := New(doc, right, WithLogger(quiet), WithName("right"))

	counter := vdom.NewComponent("Counter", func(h vdom.Hooks, p vdom.Props, _ vdom.ChildPack) *vdom.Lazy {
		r := h.Ref(0)
		r.Current = r.Current.(int) + 1
		return vdom.Span(r.Current, " ", p["tick"])
	})

	for i := 0; i < 3; i++ {
		if err := a.Mount(context.Background(), counter, vdom.Props{"tick": i}); err != nil {
			t.Fatalf("a.Mount() error = %v", err)
		}
	}
	if err := b.Mount(context.Background(), counter, vdom.Props{"tick": 0}); err != nil {
		t.Fatalf("b.Mount() error = %v", err)
	}

	if got := render.Markup(left); got != "<span>3 2</span>" {
		t.Errorf("left = %q", got)
	}
	if got := render.Markup(right); got != "<span>1 0</span>" {
		t.Errorf("right = %q", got)
	}
	if a.Store() == b.Store() || a.Arena() == b.Arena() {
		t.Error("apps must not share state")
	}
}

func TestApp_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := telemetry.NewMetrics(telemetry.WithRegistry(reg))
	app, _, _ := newTestApp(t, WithMetrics(m), WithTracer(telemetry.NewTracer()))
	var events []string
	c := item(&events)

	mustRender(t, app, list(c, "a"))
	mustRender(t, app, list(c, "a", "b"))
	_ = app.Render(context.Background(), vdom.Frag())

	count, err := testutil.GatherAndCount(reg, "hart_passes_total")
	if err != nil {
		t.Fatalf("GatherAndCount: %v", err)
	}
	if count != 3 {
		t.Errorf("passes_total series = %d, want mount, patch and error", count)
	}
	if app.Passes() != 3 {
		t.Errorf("Passes() = %d, want 3", app.Passes())
	}
}

func TestApp_CancelledContext(t *testing.T) {
	app, _, log := newTestApp(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := app.Render(ctx, vdom.Div()); err != context.Canceled {
		t.Errorf("Render() error = %v, want context.Canceled", err)
	}
	if len(log.passes) != 0 || app.Tree() != 0 {
		t.Error("a cancelled render should not run a pass")
	}
}

func TestApp_MountFailure(t *testing.T) {
	app := New(memdom.NewDocument(), nil, WithLogger(quiet))
	var events []string

	err := app.Render(context.Background(), list(item(&events), "a"))
	if ErrorCode(err) != "E020" {
		t.Fatalf("Render() error = %v, want E020", err)
	}
	app.Flush()
	if app.Arena().Len() != 0 || app.Store().Len() != 0 {
		t.Errorf("failed mount left %d nodes, %d entries", app.Arena().Len(), app.Store().Len())
	}
}
