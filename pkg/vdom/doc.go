// Package vdom provides the in-memory markup model used to hand merged head
// content to server renderers.
//
// A VNode is an element, text, fragment or raw HTML node. Props holds the
// element's attributes. Nodes produced by the server materializer are meant
// to be embedded into a larger server-rendered tree and rendered with the
// render package:
//
//	Meta(Name("description"), Content("A page"), Data("rh", "true"))
//
// Raw content for script, style and noscript elements travels in the
// InnerHTMLProp prop and is written verbatim by renderers.
package vdom
