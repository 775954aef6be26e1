package patch

import (
	"fmt"
	"strings"

	"github.com/hart-dev/hart/pkg/dom"
	"github.com/hart-dev/hart/pkg/vdom"
)

// attrNames maps descriptor names to their DOM attribute names.
var attrNames = map[string]string{
	"className": "class",
	"htmlFor":   "for",
}

func domName(name string) string {
	if mapped, ok := attrNames[name]; ok {
		return mapped
	}
	return name
}

// skipped attributes never reach the DOM.
func skipped(name string) bool {
	return name == "key" || name == "children"
}

// controlled reports whether name is synchronized through the live
// property on el.
func controlled(el dom.Node, name string) bool {
	if name != "value" && name != "checked" {
		return false
	}
	switch strings.ToLower(el.TagName()) {
	case "input", "textarea", "select":
		return true
	default:
		return false
	}
}

func attrNamespace(name string, svg bool) string {
	if svg && strings.HasPrefix(name, "xlink:") {
		return dom.XLinkNamespace
	}
	return ""
}

// setAttr writes one attribute onto el.
func setAttr(el dom.Node, svg bool, name string, value any) {
	if skipped(name) {
		return
	}
	name = domName(name)

	switch {
	case name == "ref":
		if r, ok := value.(*vdom.Ref); ok && r != nil {
			r.Current = el
		}
		return
	case vdom.IsEventHandler(name), controlled(el, name):
		el.SetProperty(name, value)
		return
	}

	ns := attrNamespace(name, svg)
	switch v := value.(type) {
	case nil:
		removeAttribute(el, svg, ns, name)
	case bool:
		if v {
			setAttribute(el, svg, ns, name, "")
		} else {
			removeAttribute(el, svg, ns, name)
		}
	case string:
		setAttribute(el, svg, ns, name, v)
	default:
		setAttribute(el, svg, ns, name, fmt.Sprint(v))
	}
}

// clearAttr resets one attribute on el to its neutral value. prev is the
// value the attribute had.
func clearAttr(el dom.Node, svg bool, name string, prev any) {
	if skipped(name) {
		return
	}
	name = domName(name)

	switch {
	case name == "ref":
		r, ok := prev.(*vdom.Ref)
		if !ok || r == nil {
			return
		}
		// The box may have been handed to another element since.
		if cur, _ := r.Current.(dom.Node); cur == nil || dom.Same(cur, el) {
			r.Current = nil
		}
	case controlled(el, name):
		if name == "checked" {
			el.SetProperty(name, false)
		} else {
			el.SetProperty(name, "")
		}
	case vdom.IsEventHandler(name):
		el.SetProperty(name, nil)
	default:
		removeAttribute(el, svg, attrNamespace(name, svg), name)
	}
}

func setAttribute(el dom.Node, svg bool, ns, name, value string) {
	if svg {
		el.SetAttributeNS(ns, name, value)
		return
	}
	el.SetAttribute(name, value)
}

func removeAttribute(el dom.Node, svg bool, ns, name string) {
	if svg {
		el.RemoveAttributeNS(ns, name)
		return
	}
	el.RemoveAttribute(name)
}
