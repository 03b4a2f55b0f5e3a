// Package render provides server-side rendering of vdom trees to HTML.
//
// The render package converts VNode trees into HTML strings or streams,
// handling:
//
//   - HTML5 compliant element rendering
//   - Text and attribute escaping (can be disabled per renderer)
//   - Void element handling (base, link, meta, ...), optionally
//     self-closed with "/>"
//   - Boolean attribute handling (async, defer, ...)
//   - Leading attributes, such as the head marker attribute, rendered
//     before the sorted remainder
//   - Full page rendering with DOCTYPE, head, body
//
// # Basic Usage
//
//	renderer := render.NewRenderer(render.RendererConfig{})
//	html, err := renderer.RenderToString(node)
//
// # Full Page Rendering
//
//	page := render.PageData{
//	    Head: headNodes,
//	    Body: bodyNode,
//	}
//	err := renderer.RenderPage(w, page)
//
// # Security
//
// All text content and attribute values are escaped by default. Raw HTML
// can be inserted using KindRaw nodes or the vdom.InnerHTMLProp prop, and
// NoEscape turns escaping off entirely; both should only be used with
// trusted content.
package render
