package demo

import (
	"fmt"

	"github.com/hart-dev/hart/pkg/dom"
	"github.com/hart-dev/hart/pkg/hooks"
	"github.com/hart-dev/hart/pkg/prefab"
	"github.com/hart-dev/hart/pkg/vdom"
)

// TodoApp renders the whole list. Props: "model" (*Model), "version"
// (int), "dispatch" (func(Action)) and "log" (func(string)).
var TodoApp = vdom.NewComponent("TodoApp", func(h vdom.Hooks, p vdom.Props, _ vdom.ChildPack) *vdom.Lazy {
	m := p["model"].(*Model)
	dispatch := p["dispatch"].(func(Action))

	remaining := hooks.Memo(h, m.Remaining, vdom.Deps{p["version"]})
	onInput := hooks.MemoFn(h, func(ev dom.Event) {
		dispatch(Action{Type: ActDraft, Text: fmt.Sprint(ev.Target().Property("value"))})
	}, vdom.Deps{p["dispatch"]})
	onAdd := hooks.MemoFn(h, func() {
		dispatch(Action{Type: ActCommit})
	}, vdom.Deps{p["dispatch"]})

	items := make([]*vdom.Lazy, 0, len(m.Todos))
	for _, t := range m.Todos {
		items = append(items, vdom.Call(TodoItem, vdom.Props{
			"key":      t.ID,
			"id":       t.ID,
			"text":     t.Text,
			"done":     t.Done,
			"dispatch": p["dispatch"],
			"log":      p["log"],
		}))
	}

	return vdom.Div(vdom.Class("todos"),
		vdom.H1(m.Title),
		vdom.Form(
			vdom.Call(prefab.Input, vdom.Props{
				"value":       m.Draft,
				"placeholder": "What needs doing?",
				"oninput":     onInput,
			}),
			vdom.Button(vdom.Type("button"), vdom.OnClick(onAdd), "Add"),
		),
		vdom.Ul(vdom.Class("items"), items),
		vdom.P(vdom.Class("count"), remaining, " left"),
	)
})

// TodoItem renders one item. It logs "done <text>" and "undone <text>"
// after the item's state changes, and "gone <text>" when it unmounts.
var TodoItem = vdom.NewComponent("TodoItem", func(h vdom.Hooks, p vdom.Props, _ vdom.ChildPack) *vdom.Lazy {
	id := p["id"].(string)
	text := p["text"].(string)
	done := p["done"].(bool)
	dispatch := p["dispatch"].(func(Action))
	log := p["log"].(func(string))

	mounted := h.Ref(false)
	toggle := hooks.MemoFn(h, func() { dispatch(Action{Type: ActToggle, ID: id}) }, vdom.Deps{id, p["dispatch"]})
	remove := hooks.MemoFn(h, func() { dispatch(Action{Type: ActRemove, ID: id}) }, vdom.Deps{id, p["dispatch"]})

	h.AfterEffect(func() func() {
		if mounted.Current.(bool) {
			if done {
				log("done " + text)
			} else {
				log("undone " + text)
			}
		}
		mounted.Current = true
		return nil
	}, vdom.Deps{done})
	h.AfterEffect(func() func() {
		return func() { log("gone " + text) }
	}, vdom.Deps{})

	class := "item"
	if done {
		class = "item done"
	}
	return vdom.Li(vdom.Class(class),
		vdom.Input(vdom.Type("checkbox"), vdom.Checked(done), vdom.On("change", toggle)),
		vdom.Span(text),
		vdom.Button(vdom.Type("button"), vdom.OnClick(remove), "x"),
	)
})
