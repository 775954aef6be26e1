package render

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/hart-dev/hart/pkg/dom"
)

// RendererConfig configures the HTML renderer.
type RendererConfig struct {
	// Pretty enables indented output, one element per line.
	Pretty bool

	// Indent is the string used for each indentation level in pretty mode.
	// Defaults to two spaces if not specified.
	Indent string

	// Properties prints the live value and checked properties of form
	// controls as attributes.
	Properties bool

	// HideComments omits comment nodes, including the patcher's
	// placeholders and list end markers.
	HideComments bool
}

// Renderer serializes dom.Node trees.
type Renderer struct {
	config RendererConfig
}

// NewRenderer creates a new Renderer with the given configuration.
func NewRenderer(config RendererConfig) *Renderer {
	if config.Indent == "" {
		config.Indent = "  "
	}
	return &Renderer{config: config}
}

// RenderToString renders node and its subtree.
func (r *Renderer) RenderToString(node dom.Node) (string, error) {
	var buf bytes.Buffer
	if err := r.RenderToWriter(&buf, node); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderToWriter streams node and its subtree to w.
func (r *Renderer) RenderToWriter(w io.Writer, node dom.Node) error {
	return r.renderNode(w, node, 0)
}

// RenderChildren renders the children of node without node itself.
func (r *Renderer) RenderChildren(w io.Writer, node dom.Node) error {
	for _, c := range node.ChildNodes() {
		if err := r.renderNode(w, c, 0); err != nil {
			return err
		}
	}
	return nil
}

// InnerHTML renders the children of node with the default configuration.
func InnerHTML(node dom.Node) string {
	var buf bytes.Buffer
	NewRenderer(RendererConfig{}).RenderChildren(&buf, node)
	return buf.String()
}

// Markup renders the children of node without comments and with form
// control properties, which is how tests usually want to see a tree.
func Markup(node dom.Node) string {
	var buf bytes.Buffer
	NewRenderer(RendererConfig{HideComments: true, Properties: true}).RenderChildren(&buf, node)
	return buf.String()
}

// renderNode dispatches rendering based on node type.
func (r *Renderer) renderNode(w io.Writer, node dom.Node, depth int) error {
	if node == nil {
		return nil
	}

	switch node.NodeType() {
	case dom.ElementNode:
		return r.renderElement(w, node, depth)
	case dom.TextNode:
		_, err := io.WriteString(w, escapeHTML(node.Data()))
		return err
	case dom.CommentNode:
		if r.config.HideComments {
			return nil
		}
		_, err := fmt.Fprintf(w, "<!--%s-->", escapeHTML(node.Data()))
		return err
	case dom.DocumentFragmentNode:
		for _, c := range node.ChildNodes() {
			if err := r.renderNode(w, c, depth); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("render: unknown node type %d", node.NodeType())
	}
}

// renderElement renders an element with its attributes and children.
func (r *Renderer) renderElement(w io.Writer, node dom.Node, depth int) error {
	tag := node.TagName()

	if r.config.Pretty && depth > 0 {
		r.writeIndent(w, depth)
	}

	if _, err := fmt.Fprintf(w, "<%s", tag); err != nil {
		return err
	}
	if err := r.renderAttributes(w, node); err != nil {
		return err
	}
	if _, err := io.WriteString(w, ">"); err != nil {
		return err
	}

	children := node.ChildNodes()
	if node.NamespaceURI() == "" && isVoidElement(tag) && len(children) == 0 {
		if r.config.Pretty {
			io.WriteString(w, "\n")
		}
		return nil
	}

	block := r.config.Pretty && len(children) > 0 && !isInlineElement(tag)
	if block {
		io.WriteString(w, "\n")
	}
	for _, c := range children {
		if err := r.renderNode(w, c, depth+1); err != nil {
			return err
		}
	}
	if block {
		r.writeIndent(w, depth)
	}

	if _, err := fmt.Fprintf(w, "</%s>", tag); err != nil {
		return err
	}
	if r.config.Pretty {
		io.WriteString(w, "\n")
	}
	return nil
}

// renderAttributes prints attributes sorted by name.
func (r *Renderer) renderAttributes(w io.Writer, node dom.Node) error {
	attrs := node.Attributes()

	if r.config.Properties {
		attrs = withProperties(node, attrs)
	}

	sort.SliceStable(attrs, func(i, j int) bool { return attrs[i].Name < attrs[j].Name })

	for _, a := range attrs {
		if a.Value == "" {
			if _, err := fmt.Fprintf(w, " %s", a.Name); err != nil {
				return err
			}
			continue
		}
		if _, err := fmt.Fprintf(w, ` %s="%s"`, a.Name, escapeAttr(a.Value)); err != nil {
			return err
		}
	}
	return nil
}

// withProperties overlays the value and checked properties onto attrs.
func withProperties(node dom.Node, attrs []dom.Attr) []dom.Attr {
	out := make([]dom.Attr, 0, len(attrs)+2)
	for _, a := range attrs {
		if a.Name != "value" && a.Name != "checked" {
			out = append(out, a)
		}
	}
	if v := node.Property("value"); v != nil {
		out = append(out, dom.Attr{Name: "value", Value: fmt.Sprint(v)})
	}
	if c, ok := node.Property("checked").(bool); ok && c {
		out = append(out, dom.Attr{Name: "checked"})
	}
	return out
}

// writeIndent writes indentation for pretty printing.
func (r *Renderer) writeIndent(w io.Writer, depth int) {
	io.WriteString(w, strings.Repeat(r.config.Indent, depth))
}
