package render

import (
	"fmt"
	"io"

	"github.com/vango-dev/vhead/pkg/vdom"
)

// PageData contains all data needed to render a complete HTML page.
type PageData struct {
	// Head holds the head elements in render order.
	Head []*vdom.VNode

	// HTMLAttrs are rendered on the <html> element.
	HTMLAttrs vdom.Props

	// BodyAttrs are rendered on the <body> element.
	BodyAttrs vdom.Props

	// Body is the root VNode for the page content.
	Body *vdom.VNode

	// Scripts are appended at the end of the body.
	Scripts []*vdom.VNode
}

// RenderPage renders a complete HTML document to the given writer.
// A charset and a viewport meta tag are emitted unless Head already
// carries one.
func (r *Renderer) RenderPage(w io.Writer, page PageData) error {
	if _, err := w.Write([]byte("<!DOCTYPE html>\n")); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "<html%s>\n", r.attrSuffix(page.HTMLAttrs)); err != nil {
		return err
	}

	if err := r.renderHead(w, page); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(w, "<body%s>\n", r.attrSuffix(page.BodyAttrs)); err != nil {
		return err
	}

	if err := r.RenderToWriter(w, page.Body); err != nil {
		return err
	}

	for _, script := range page.Scripts {
		if err := r.RenderToWriter(w, script); err != nil {
			return err
		}
	}

	if _, err := w.Write([]byte("</body>\n</html>\n")); err != nil {
		return err
	}

	return nil
}

// renderHead renders the document head section.
func (r *Renderer) renderHead(w io.Writer, page PageData) error {
	if _, err := w.Write([]byte("<head>\n")); err != nil {
		return err
	}

	if !hasMeta(page.Head, "charset", "") {
		if _, err := w.Write([]byte(`  <meta charset="utf-8">` + "\n")); err != nil {
			return err
		}
	}

	if !hasMeta(page.Head, "name", "viewport") {
		if _, err := w.Write([]byte(`  <meta name="viewport" content="width=device-width, initial-scale=1">` + "\n")); err != nil {
			return err
		}
	}

	for _, node := range page.Head {
		if node == nil {
			continue
		}
		if _, err := w.Write([]byte("  ")); err != nil {
			return err
		}
		if err := r.RenderToWriter(w, node); err != nil {
			return err
		}
		if _, err := w.Write([]byte{'\n'}); err != nil {
			return err
		}
	}

	if _, err := w.Write([]byte("</head>\n")); err != nil {
		return err
	}

	return nil
}

func (r *Renderer) attrSuffix(props vdom.Props) string {
	attrs := r.RenderAttributes(props)
	if attrs == "" {
		return ""
	}
	return " " + attrs
}

// hasMeta reports whether a meta node carries key. An empty value matches
// any value.
func hasMeta(nodes []*vdom.VNode, key, value string) bool {
	for _, node := range nodes {
		if node == nil || node.Kind != vdom.KindElement || node.Tag != "meta" {
			continue
		}
		v, ok := node.Props[key]
		if !ok {
			continue
		}
		if value == "" || vdom.PropToString(v) == value {
			return true
		}
	}
	return false
}
