package ssr

import (
	"bytes"
	"context"
	"io"
	"strconv"
	"strings"

	"github.com/a-h/templ"

	"github.com/vango-dev/vhead/pkg/head"
	"github.com/vango-dev/vhead/pkg/render"
	"github.com/vango-dev/vhead/pkg/vdom"
)

// Datum is the rendering surface shared by every element category.
type Datum interface {
	Nodes() []*vdom.VNode
	String() string
	WriteTo(w io.Writer) (int64, error)
	Templ() templ.Component
}

// newRenderer returns the renderer used for server markup: the marker
// leads, void elements self-close, escaping follows encode. Values are
// written as head.Value text so a client parsing the markup sees the same
// attributes it would create itself.
func newRenderer(encode bool) *render.Renderer {
	return render.NewRenderer(render.RendererConfig{
		SelfCloseVoid:   true,
		NoEscape:        !encode,
		LiteralBooleans: true,
		LeadingAttrs:    []string{head.MarkerAttribute},
	})
}

// TagDatum renders the tags of one category.
type TagDatum struct {
	category head.Category
	tags     []head.Attrs
	renderer *render.Renderer
}

// Category returns the tag category.
func (d TagDatum) Category() head.Category { return d.category }

// Tags returns the tags in render order.
func (d TagDatum) Tags() []head.Attrs { return d.tags }

// Len returns the number of tags.
func (d TagDatum) Len() int { return len(d.tags) }

// Nodes returns one element per tag. Content keys become the raw inner
// HTML of the element.
func (d TagDatum) Nodes() []*vdom.VNode {
	nodes := make([]*vdom.VNode, 0, len(d.tags))
	for i, tag := range d.tags {
		props := vdom.Props{head.MarkerAttribute: "true"}
		for k, v := range tag {
			switch k {
			case head.InnerHTMLKey, head.CSSTextKey:
				props[vdom.InnerHTMLProp] = head.Value(v)
			default:
				props[k] = v
			}
		}
		node := vdom.Element(string(d.category), props)
		node.Key = string(d.category) + "-" + strconv.Itoa(i)
		nodes = append(nodes, node)
	}
	return nodes
}

func (d TagDatum) String() string {
	return renderString(d.renderer, d.Nodes())
}

func (d TagDatum) WriteTo(w io.Writer) (int64, error) {
	return writeString(w, d.String())
}

func (d TagDatum) Templ() templ.Component {
	return component(d)
}

// TitleDatum renders the title element with its attributes.
type TitleDatum struct {
	title    string
	attrs    head.Attrs
	renderer *render.Renderer
}

// Text returns the resolved title.
func (d TitleDatum) Text() string { return d.title }

// Attributes returns the title attributes.
func (d TitleDatum) Attributes() head.Attrs { return d.attrs }

// Nodes returns the title element.
func (d TitleDatum) Nodes() []*vdom.VNode {
	props := vdom.Props{head.MarkerAttribute: "true"}
	for k, v := range d.attrs {
		props[k] = v
	}
	return []*vdom.VNode{vdom.Title(props, d.title)}
}

func (d TitleDatum) String() string {
	return renderString(d.renderer, d.Nodes())
}

func (d TitleDatum) WriteTo(w io.Writer) (int64, error) {
	return writeString(w, d.String())
}

func (d TitleDatum) Templ() templ.Component {
	return component(d)
}

// AttrDatum renders the attributes of the html or body element. The caller
// writes the element itself.
type AttrDatum struct {
	attrs    head.Attrs
	renderer *render.Renderer
}

// Props returns the attributes as markup props.
func (d AttrDatum) Props() vdom.Props {
	props := make(vdom.Props, len(d.attrs))
	for k, v := range d.attrs {
		props[k] = v
	}
	return props
}

// String returns the attributes as `key="value"` pairs separated by
// spaces, without the element name.
func (d AttrDatum) String() string {
	return d.renderer.RenderAttributes(d.Props())
}

// PriorityDatum renders the SEO priority tags: meta, then link, then script.
type PriorityDatum struct {
	parts []TagDatum
}

// Len returns the number of priority tags.
func (d PriorityDatum) Len() int {
	n := 0
	for _, p := range d.parts {
		n += p.Len()
	}
	return n
}

func (d PriorityDatum) Nodes() []*vdom.VNode {
	var nodes []*vdom.VNode
	for _, p := range d.parts {
		nodes = append(nodes, p.Nodes()...)
	}
	return nodes
}

// String joins the non-empty category strings with a space.
func (d PriorityDatum) String() string {
	parts := make([]string, 0, len(d.parts))
	for _, p := range d.parts {
		if s := p.String(); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, " ")
}

func (d PriorityDatum) WriteTo(w io.Writer) (int64, error) {
	return writeString(w, d.String())
}

func (d PriorityDatum) Templ() templ.Component {
	return component(d)
}

var (
	_ Datum = TagDatum{}
	_ Datum = TitleDatum{}
	_ Datum = PriorityDatum{}
)

func renderString(r *render.Renderer, nodes []*vdom.VNode) string {
	var buf bytes.Buffer
	// bytes.Buffer writes cannot fail; node kinds are always valid here
	_ = r.RenderNodes(&buf, nodes)
	return buf.String()
}

func writeString(w io.Writer, s string) (int64, error) {
	n, err := io.WriteString(w, s)
	return int64(n), err
}

func component(d Datum) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := d.WriteTo(w)
		return err
	})
}
