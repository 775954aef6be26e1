package demo

import (
	"context"
	"fmt"

	"github.com/hart-dev/hart"
	"github.com/hart-dev/hart/pkg/vdom"
)

// Demo binds a model to an App.
type Demo struct {
	app   *hart.App
	model *Model
	dirty bool

	// bound once so that props holding them compare equal across passes
	dispatch func(Action)
	logf     func(string)

	// Events collects what the items log from their effects.
	Events []string
}

// New creates a demo rendering m with app.
func New(app *hart.App, m *Model) *Demo {
	d := &Demo{app: app, model: m, dirty: true}
	d.dispatch = d.Dispatch
	d.logf = d.log
	return d
}

// App returns the App the demo renders with.
func (d *Demo) App() *hart.App { return d.app }

// Model returns the demo's model.
func (d *Demo) Model() *Model { return d.model }

// Dispatch applies a to the model. The change shows after Settle.
func (d *Demo) Dispatch(a Action) {
	if d.model.Apply(a) {
		d.dirty = true
	}
}

func (d *Demo) log(s string) {
	d.Events = append(d.Events, s)
}

// View returns the root description for the current model.
func (d *Demo) View() *vdom.Lazy {
	return vdom.Call(TodoApp, vdom.Props{
		"model":    d.model,
		"version":  d.model.Version(),
		"dispatch": d.dispatch,
		"log":      d.logf,
	})
}

// Settle renders when the model changed since the last render and then
// runs the effects that render queued.
func (d *Demo) Settle(ctx context.Context) error {
	if !d.dirty {
		return nil
	}
	if err := d.app.Render(ctx, d.View()); err != nil {
		return err
	}
	d.dirty = false
	d.app.Flush()
	return nil
}

// Step is one scripted interaction.
type Step struct {
	Name   string
	Action Action
}

// Script returns the scripted session: it adds, toggles, reorders,
// regenerates keys and removes items.
func Script() []Step {
	return []Step{
		{"add", Action{Type: ActAdd, Text: "Write docs"}},
		{"toggle first", Action{Type: ActToggle, Index: 0}},
		{"reverse", Action{Type: ActReverse}},
		{"type draft", Action{Type: ActDraft, Text: "Ship it"}},
		{"commit draft", Action{Type: ActCommit}},
		{"regenerate ids", Action{Type: ActRegenerate}},
		{"remove second", Action{Type: ActRemove, Index: 1}},
		{"toggle last", Action{Type: ActToggle, Index: -1}},
		{"reverse back", Action{Type: ActReverse}},
	}
}

// Run renders the initial state and then each step, calling after with
// the step just rendered. It stops at the first error or when ctx is
// done; after may also stop the run by returning an error.
func (d *Demo) Run(ctx context.Context, steps []Step, after func(Step) error) error {
	if err := d.Settle(ctx); err != nil {
		return fmt.Errorf("initial render: %w", err)
	}
	for _, s := range steps {
		if err := d.Step(ctx, s); err != nil {
			return err
		}
		if after != nil {
			if err := after(s); err != nil {
				return err
			}
		}
	}
	return nil
}

// Step dispatches one scripted action and renders the result. A negative
// Index counts from the end of the list.
func (d *Demo) Step(ctx context.Context, s Step) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	a := s.Action
	if a.ID == "" && a.Index < 0 {
		a.Index += len(d.model.Todos)
	}
	d.Dispatch(a)
	if err := d.Settle(ctx); err != nil {
		return fmt.Errorf("step %q: %w", s.Name, err)
	}
	return nil
}
