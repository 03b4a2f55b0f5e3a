package render

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/vango-dev/vhead/pkg/vdom"
)

// RendererConfig configures the HTML renderer.
type RendererConfig struct {
	// Pretty enables pretty-printed HTML output with indentation.
	// Should only be used in development as it increases output size.
	Pretty bool

	// Indent is the string used for each indentation level in pretty mode.
	// Defaults to two spaces if not specified.
	Indent string

	// SelfCloseVoid renders void elements as <meta .../> instead of <meta ...>.
	SelfCloseVoid bool

	// NoEscape writes attribute values and text verbatim.
	NoEscape bool

	// LiteralBooleans writes bool values as "true" or "false" text, like
	// any other value, instead of a bare attribute or nothing.
	LiteralBooleans bool

	// LeadingAttrs are rendered first, in this order, when present.
	// The remaining attributes follow in sorted order.
	LeadingAttrs []string
}

// Renderer handles server-side rendering of VNode trees to HTML.
// A Renderer holds no per-render state and is safe for concurrent use.
type Renderer struct {
	config  RendererConfig
	leading map[string]bool
}

// NewRenderer creates a new Renderer with the given configuration.
func NewRenderer(config RendererConfig) *Renderer {
	if config.Indent == "" {
		config.Indent = "  "
	}
	leading := make(map[string]bool, len(config.LeadingAttrs))
	for _, key := range config.LeadingAttrs {
		leading[key] = true
	}
	return &Renderer{
		config:  config,
		leading: leading,
	}
}

// Config returns the renderer configuration.
func (r *Renderer) Config() RendererConfig {
	return r.config
}

// RenderToString renders a VNode tree to an HTML string.
func (r *Renderer) RenderToString(node *vdom.VNode) (string, error) {
	var buf bytes.Buffer
	if err := r.RenderToWriter(&buf, node); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// RenderToWriter streams a VNode tree to the given writer.
func (r *Renderer) RenderToWriter(w io.Writer, node *vdom.VNode) error {
	return r.renderNode(w, node, 0)
}

// RenderNodes streams sibling nodes to the given writer, in order.
func (r *Renderer) RenderNodes(w io.Writer, nodes []*vdom.VNode) error {
	for _, node := range nodes {
		if err := r.renderNode(w, node, 0); err != nil {
			return err
		}
	}
	return nil
}

// RenderAttributes renders props as a space separated attribute list
// without a leading space, e.g. `class="dark" lang="en"`.
func (r *Renderer) RenderAttributes(props vdom.Props) string {
	var buf bytes.Buffer
	// bytes.Buffer writes cannot fail
	_ = r.renderAttributes(&buf, props)
	return strings.TrimPrefix(buf.String(), " ")
}

// renderNode dispatches rendering based on node kind.
func (r *Renderer) renderNode(w io.Writer, node *vdom.VNode, depth int) error {
	if node == nil {
		return nil
	}

	switch node.Kind {
	case vdom.KindElement:
		return r.renderElement(w, node, depth)
	case vdom.KindText:
		return r.renderText(w, node)
	case vdom.KindFragment:
		return r.renderFragment(w, node, depth)
	case vdom.KindRaw:
		return r.renderRaw(w, node)
	default:
		return fmt.Errorf("unknown node kind: %d", node.Kind)
	}
}

// renderElement renders an HTML element with its attributes and children.
func (r *Renderer) renderElement(w io.Writer, node *vdom.VNode, depth int) error {
	tag := node.Tag

	// Indentation (if pretty printing)
	if r.config.Pretty && depth > 0 {
		r.writeIndent(w, depth)
	}

	// Opening tag
	if _, err := w.Write([]byte{'<'}); err != nil {
		return err
	}
	if _, err := w.Write([]byte(tag)); err != nil {
		return err
	}

	if err := r.renderAttributes(w, node.Props); err != nil {
		return err
	}

	// Void elements have no content and no closing tag
	if isVoidElement(tag) {
		closing := ">"
		if r.config.SelfCloseVoid {
			closing = "/>"
		}
		if _, err := w.Write([]byte(closing)); err != nil {
			return err
		}
		if r.config.Pretty {
			w.Write([]byte{'\n'})
		}
		return nil
	}

	if _, err := w.Write([]byte{'>'}); err != nil {
		return err
	}

	if rawHTML, ok := node.InnerHTML(); ok {
		if _, err := w.Write([]byte(rawHTML)); err != nil {
			return err
		}
	} else {
		// Newline after opening tag if has children and pretty printing
		hasBlockChildren := len(node.Children) > 0 && !isInlineElement(tag)
		if r.config.Pretty && hasBlockChildren {
			w.Write([]byte{'\n'})
		}

		for _, child := range node.Children {
			if err := r.renderNode(w, child, depth+1); err != nil {
				return err
			}
		}

		// Closing tag indentation
		if r.config.Pretty && hasBlockChildren {
			r.writeIndent(w, depth)
		}
	}

	if _, err := fmt.Fprintf(w, "</%s>", tag); err != nil {
		return err
	}
	if r.config.Pretty {
		w.Write([]byte{'\n'})
	}

	return nil
}

// renderText renders a text node with HTML escaping.
func (r *Renderer) renderText(w io.Writer, node *vdom.VNode) error {
	_, err := w.Write([]byte(r.escapeText(node.Text)))
	return err
}

// renderFragment renders a fragment's children without a wrapper element.
func (r *Renderer) renderFragment(w io.Writer, node *vdom.VNode, depth int) error {
	for _, child := range node.Children {
		if err := r.renderNode(w, child, depth); err != nil {
			return err
		}
	}
	return nil
}

// renderRaw renders raw HTML without escaping.
func (r *Renderer) renderRaw(w io.Writer, node *vdom.VNode) error {
	_, err := w.Write([]byte(node.Text))
	return err
}

// renderAttributes renders all attributes for an element.
func (r *Renderer) renderAttributes(w io.Writer, props vdom.Props) error {
	if props == nil {
		return nil
	}

	keys := make([]string, 0, len(props))
	for _, key := range r.config.LeadingAttrs {
		if _, ok := props[key]; ok {
			keys = append(keys, key)
		}
	}
	// Sorted for deterministic output
	for _, key := range props.Keys() {
		if !r.leading[key] {
			keys = append(keys, key)
		}
	}

	for _, key := range keys {
		value := props[key]

		// Internal props
		if key == vdom.InnerHTMLProp || key == "key" || strings.HasPrefix(key, "_") {
			continue
		}

		// Valueless attribute
		if value == nil {
			if _, err := fmt.Fprintf(w, " %s", key); err != nil {
				return err
			}
			continue
		}

		// Boolean attributes
		if isBooleanAttr(key) && !r.config.LiteralBooleans {
			if boolValue, ok := value.(bool); ok {
				if boolValue {
					if _, err := fmt.Fprintf(w, " %s", key); err != nil {
						return err
					}
				}
				continue
			}
		}

		if _, err := fmt.Fprintf(w, ` %s="%s"`, key, r.escapeAttr(vdom.PropToString(value))); err != nil {
			return err
		}
	}

	return nil
}

func (r *Renderer) escapeText(s string) string {
	if r.config.NoEscape {
		return s
	}
	return escapeHTML(s)
}

func (r *Renderer) escapeAttr(s string) string {
	if r.config.NoEscape {
		return s
	}
	return escapeAttr(s)
}

// writeIndent writes indentation for pretty printing.
func (r *Renderer) writeIndent(w io.Writer, depth int) {
	for i := 0; i < depth; i++ {
		w.Write([]byte(r.config.Indent))
	}
}
