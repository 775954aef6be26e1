package vdom

// voidElements are elements that cannot have children.
var voidElements = map[string]bool{
	"area":   true,
	"base":   true,
	"br":     true,
	"col":    true,
	"embed":  true,
	"hr":     true,
	"img":    true,
	"input":  true,
	"link":   true,
	"meta":   true,
	"param":  true,
	"source": true,
	"track":  true,
	"wbr":    true,
}

// IsVoidElement returns true if the tag is a void element.
func IsVoidElement(tag string) bool {
	return voidElements[tag]
}

// createElement builds an element descriptor from mixed arguments.
// Arguments can be: Attr, []Attr, Props (merged into the attributes) or
// any child value accepted by Elem.
func createElement(tag string, args []any) *Lazy {
	var attrs Props
	children := make([]any, 0, len(args))

	set := func(k string, v any) {
		if k == "" {
			return
		}
		if attrs == nil {
			attrs = make(Props)
		}
		attrs[k] = v
	}

	for _, arg := range args {
		switch v := arg.(type) {
		case Attr:
			set(v.Key, v.Value)
		case []Attr:
			for _, a := range v {
				set(a.Key, a.Value)
			}
		case Props:
			for k, val := range v {
				set(k, val)
			}
		default:
			children = append(children, arg)
		}
	}

	return Elem(tag, attrs, children...)
}

// Content sectioning elements

func Header(args ...any) *Lazy  { return createElement("header", args) }
func Footer(args ...any) *Lazy  { return createElement("footer", args) }
func Main(args ...any) *Lazy    { return createElement("main", args) }
func Nav(args ...any) *Lazy     { return createElement("nav", args) }
func Section(args ...any) *Lazy { return createElement("section", args) }
func Article(args ...any) *Lazy { return createElement("article", args) }
func H1(args ...any) *Lazy      { return createElement("h1", args) }
func H2(args ...any) *Lazy      { return createElement("h2", args) }
func H3(args ...any) *Lazy      { return createElement("h3", args) }

// Text content elements

func Div(args ...any) *Lazy  { return createElement("div", args) }
func P(args ...any) *Lazy    { return createElement("p", args) }
func Span(args ...any) *Lazy { return createElement("span", args) }
func Pre(args ...any) *Lazy  { return createElement("pre", args) }
func Ul(args ...any) *Lazy   { return createElement("ul", args) }
func Ol(args ...any) *Lazy   { return createElement("ol", args) }
func Li(args ...any) *Lazy   { return createElement("li", args) }
func Hr(args ...any) *Lazy   { return createElement("hr", args) }

// Inline text semantics

func A(args ...any) *Lazy      { return createElement("a", args) }
func Strong(args ...any) *Lazy { return createElement("strong", args) }
func Em(args ...any) *Lazy     { return createElement("em", args) }
func Code(args ...any) *Lazy   { return createElement("code", args) }
func Br(args ...any) *Lazy     { return createElement("br", args) }

// Forms

func Form(args ...any) *Lazy     { return createElement("form", args) }
func Label(args ...any) *Lazy    { return createElement("label", args) }
func Input(args ...any) *Lazy    { return createElement("input", args) }
func Textarea(args ...any) *Lazy { return createElement("textarea", args) }
func Select(args ...any) *Lazy   { return createElement("select", args) }
func Option(args ...any) *Lazy   { return createElement("option", args) }
func Button(args ...any) *Lazy   { return createElement("button", args) }

// Tables

func Table(args ...any) *Lazy { return createElement("table", args) }
func Tbody(args ...any) *Lazy { return createElement("tbody", args) }
func Tr(args ...any) *Lazy    { return createElement("tr", args) }
func Td(args ...any) *Lazy    { return createElement("td", args) }

// SVG

func Svg(args ...any) *Lazy    { return createElement("svg", args) }
func G(args ...any) *Lazy      { return createElement("g", args) }
func Circle(args ...any) *Lazy { return createElement("circle", args) }
func Path(args ...any) *Lazy   { return createElement("path", args) }
func Use(args ...any) *Lazy    { return createElement("use", args) }
