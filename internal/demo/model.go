// Package demo is a headless todo list used by the hart command to
// exercise the renderer: keyed items with fresh ids, memoized counts,
// per-item effects and a controlled input.
package demo

import (
	"fmt"

	"github.com/google/uuid"
)

// Todo is one item.
type Todo struct {
	ID   string
	Text string
	Done bool
}

// ActionType names a model change.
type ActionType string

const (
	ActAdd        ActionType = "add"
	ActToggle     ActionType = "toggle"
	ActRemove     ActionType = "remove"
	ActReverse    ActionType = "reverse"
	ActRegenerate ActionType = "regenerate"
	ActDraft      ActionType = "draft"
	ActCommit     ActionType = "commit"
)

// Action is a model change. Items are addressed by ID, or by Index when
// ID is empty. A negative Index in a scripted step counts from the end.
type Action struct {
	Type  ActionType
	ID    string
	Index int
	Text  string
}

// String returns a short description for logs.
func (a Action) String() string {
	switch a.Type {
	case ActAdd, ActDraft:
		return fmt.Sprintf("%s %q", a.Type, a.Text)
	case ActToggle, ActRemove:
		if a.ID != "" {
			return fmt.Sprintf("%s %s", a.Type, a.ID)
		}
		return fmt.Sprintf("%s #%d", a.Type, a.Index)
	default:
		return string(a.Type)
	}
}

// Model is the todo list state.
type Model struct {
	Title string
	Todos []Todo
	Draft string

	version int
	newID   func() string
}

// NewModel creates a model with n numbered items.
func NewModel(title string, n int) *Model {
	m := &Model{Title: title, newID: uuid.NewString}
	for i := 1; i <= n; i++ {
		m.Todos = append(m.Todos, Todo{ID: m.newID(), Text: fmt.Sprintf("Item %d", i)})
	}
	return m
}

// Version increases with every change.
func (m *Model) Version() int { return m.version }

// Remaining counts the items not done.
func (m *Model) Remaining() int {
	n := 0
	for _, t := range m.Todos {
		if !t.Done {
			n++
		}
	}
	return n
}

// Apply performs a and reports whether the model changed.
func (m *Model) Apply(a Action) bool {
	changed := m.apply(a)
	if changed {
		m.version++
	}
	return changed
}

func (m *Model) apply(a Action) bool {
	switch a.Type {
	case ActAdd:
		if a.Text == "" {
			return false
		}
		m.Todos = append(m.Todos, Todo{ID: m.newID(), Text: a.Text})
		return true

	case ActToggle:
		i := m.find(a)
		if i < 0 {
			return false
		}
		m.Todos[i].Done = !m.Todos[i].Done
		return true

	case ActRemove:
		i := m.find(a)
		if i < 0 {
			return false
		}
		m.Todos = append(m.Todos[:i:i], m.Todos[i+1:]...)
		return true

	case ActReverse:
		if len(m.Todos) < 2 {
			return false
		}
		out := make([]Todo, len(m.Todos))
		for i, t := range m.Todos {
			out[len(out)-1-i] = t
		}
		m.Todos = out
		return true

	case ActRegenerate:
		// Every item gets a new identity, as when a list is reloaded
		// from a source that mints fresh ids.
		out := make([]Todo, len(m.Todos))
		for i, t := range m.Todos {
			t.ID = m.newID()
			out[i] = t
		}
		m.Todos = out
		return len(out) > 0

	case ActDraft:
		if a.Text == m.Draft {
			return false
		}
		m.Draft = a.Text
		return true

	case ActCommit:
		if m.Draft == "" {
			return false
		}
		m.Todos = append(m.Todos, Todo{ID: m.newID(), Text: m.Draft})
		m.Draft = ""
		return true
	}
	return false
}

func (m *Model) find(a Action) int {
	if a.ID == "" {
		if a.Index >= 0 && a.Index < len(m.Todos) {
			return a.Index
		}
		return -1
	}
	for i, t := range m.Todos {
		if t.ID == a.ID {
			return i
		}
	}
	return -1
}
