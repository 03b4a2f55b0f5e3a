package ssr

import (
	"io"

	"github.com/vango-dev/vhead/pkg/head"
	"github.com/vango-dev/vhead/pkg/render"
	"github.com/vango-dev/vhead/pkg/vdom"
)

// Option configures Map.
type Option func(*options)

type options struct {
	rules head.SEORules
}

// WithSEORules replaces the rules used when the state asks for SEO tags
// to be prioritized.
func WithSEORules(rules head.SEORules) Option {
	return func(o *options) {
		o.rules = rules
	}
}

// State is the server rendition of a head.State.
type State struct {
	Base     TagDatum
	Link     TagDatum
	Meta     TagDatum
	Noscript TagDatum
	Script   TagDatum
	Style    TagDatum

	Title TitleDatum

	BodyAttributes AttrDatum
	HTMLAttributes AttrDatum

	// Priority holds the SEO tags split out of Meta, Link and Script when
	// the state prioritizes them. It is empty otherwise.
	Priority PriorityDatum

	renderer *render.Renderer
}

// Map materializes state. When state.PrioritizeSEOTags is set, matching
// meta, link and script tags move to Priority.
func Map(state *head.State, opts ...Option) *State {
	o := options{rules: head.DefaultSEORules()}
	for _, opt := range opts {
		opt(&o)
	}

	r := newRenderer(state.Encode)
	datum := func(c head.Category, tags []head.Attrs) TagDatum {
		if tags == nil {
			tags = []head.Attrs{}
		}
		return TagDatum{category: c, tags: tags, renderer: r}
	}

	links, metas, scripts := state.LinkTags, state.MetaTags, state.ScriptTags
	var priority PriorityDatum
	if state.PrioritizeSEOTags {
		link := head.Prioritize(links, o.rules[head.CategoryLink])
		meta := head.Prioritize(metas, o.rules[head.CategoryMeta])
		script := head.Prioritize(scripts, o.rules[head.CategoryScript])
		priority.parts = []TagDatum{
			datum(head.CategoryMeta, meta.Priority),
			datum(head.CategoryLink, link.Priority),
			datum(head.CategoryScript, script.Priority),
		}
		links, metas, scripts = link.Default, meta.Default, script.Default
	}

	return &State{
		Base:           datum(head.CategoryBase, state.BaseTag),
		Link:           datum(head.CategoryLink, links),
		Meta:           datum(head.CategoryMeta, metas),
		Noscript:       datum(head.CategoryNoscript, state.NoscriptTags),
		Script:         datum(head.CategoryScript, scripts),
		Style:          datum(head.CategoryStyle, state.StyleTags),
		Title:          TitleDatum{title: state.Title, attrs: state.TitleAttributes, renderer: r},
		BodyAttributes: AttrDatum{attrs: state.BodyAttributes, renderer: r},
		HTMLAttributes: AttrDatum{attrs: state.HTMLAttributes, renderer: r},
		Priority:       priority,
		renderer:       r,
	}
}

// Empty returns the server state before any declaration is mounted.
func Empty() *State {
	return Map(head.Reduce(nil))
}

// Head returns every head datum in document order: title, priority tags,
// base, meta, link, style, script, noscript.
func (s *State) Head() []Datum {
	return []Datum{
		s.Title,
		s.Priority,
		s.Base,
		s.Meta,
		s.Link,
		s.Style,
		s.Script,
		s.Noscript,
	}
}

// HeadNodes returns the markup nodes of Head, in order.
func (s *State) HeadNodes() []*vdom.VNode {
	var nodes []*vdom.VNode
	for _, d := range s.Head() {
		nodes = append(nodes, d.Nodes()...)
	}
	return nodes
}

// WriteHead writes every non-empty head datum followed by a newline.
func (s *State) WriteHead(w io.Writer) error {
	for _, d := range s.Head() {
		str := d.String()
		if str == "" {
			continue
		}
		if _, err := io.WriteString(w, str+"\n"); err != nil {
			return err
		}
	}
	return nil
}

// Page returns the page data for a full document around body.
func (s *State) Page(body *vdom.VNode, scripts ...*vdom.VNode) render.PageData {
	return render.PageData{
		Head:      s.HeadNodes(),
		HTMLAttrs: s.HTMLAttributes.Props(),
		BodyAttrs: s.BodyAttributes.Props(),
		Body:      body,
		Scripts:   scripts,
	}
}

// RenderPage writes a full document around body with the same markup
// rules as the head strings.
func (s *State) RenderPage(w io.Writer, body *vdom.VNode, scripts ...*vdom.VNode) error {
	return s.renderer.RenderPage(w, s.Page(body, scripts...))
}
