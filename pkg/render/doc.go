// Package render serializes a live DOM tree to HTML.
//
// It prints what the patcher actually built, so tests and the inspector
// can compare rendered output as text:
//
//	html, err := render.NewRenderer(render.RendererConfig{}).RenderToString(root)
//
// Attributes are printed in name order. Text and attribute values are
// escaped, void elements have no closing tag, and the empty comments the
// patcher uses as placeholders and list end markers print as <!----> unless
// HideComments is set.
// With Properties set, the live value and checked properties of form
// controls are printed as attributes so controlled inputs can be checked
// from the markup.
package render
