package vdom

import "strings"

// Attr is a single attribute for the tag helpers.
type Attr struct {
	Key   string
	Value any
}

func attr(key string, value any) Attr {
	return Attr{Key: key, Value: value}
}

// Key sets the reconciliation key of a list member.
func Key(key any) Attr { return attr("key", key) }

// ID sets the id attribute.
func ID(id string) Attr { return attr("id", id) }

// Class sets the class attribute.
func Class(classes ...string) Attr { return attr("className", strings.Join(classes, " ")) }

// For sets the for attribute of a label.
func For(id string) Attr { return attr("htmlFor", id) }

// Style sets the style attribute.
func Style(style string) Attr { return attr("style", style) }

// Data sets a data-* attribute.
func Data(key, value string) Attr { return attr("data-"+key, value) }

// Href sets the href attribute.
func Href(url string) Attr { return attr("href", url) }

// Type sets the type attribute.
func Type(t string) Attr { return attr("type", t) }

// Placeholder sets the placeholder attribute.
func Placeholder(p string) Attr { return attr("placeholder", p) }

// Disabled sets or clears the disabled attribute.
func Disabled(disabled bool) Attr { return attr("disabled", disabled) }

// Value binds an input's value property.
func Value(v any) Attr { return attr("value", v) }

// Checked binds a checkbox's checked property.
func Checked(checked bool) Attr { return attr("checked", checked) }

// RefTo binds the element's live DOM node onto r.
func RefTo(r *Ref) Attr { return attr("ref", r) }

// On attaches an event handler; event is "click", "input", etc.
func On(event string, handler any) Attr {
	return attr("on"+strings.ToLower(event), handler)
}

// OnClick attaches a click handler.
func OnClick(handler any) Attr { return On("click", handler) }

// OnInput attaches an input handler.
func OnInput(handler any) Attr { return On("input", handler) }

// OnKeyUp attaches a keyup handler.
func OnKeyUp(handler any) Attr { return On("keyup", handler) }

// IsEventHandler returns true if the attribute name is an event handler
// ("on" prefix, any case).
func IsEventHandler(key string) bool {
	return len(key) > 2 && strings.EqualFold(key[:2], "on")
}
