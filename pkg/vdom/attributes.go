package vdom

import (
	"fmt"
	"strings"
)

// attr creates an Attr with the given key and value.
func attr(key string, value any) Attr {
	return Attr{Key: key, Value: value}
}

// ID sets the id attribute.
func ID(id string) Attr { return attr("id", id) }

// Class sets the class attribute, joining multiple classes with spaces.
func Class(classes ...string) Attr { return attr("class", strings.Join(classes, " ")) }

// Data creates a data-* attribute.
// Example: Data("rh", "true") → data-rh="true"
func Data(key, value string) Attr { return attr("data-"+key, value) }

// Lang sets the lang attribute.
func Lang(lang string) Attr { return attr("lang", lang) }

// Dir sets the dir attribute.
func Dir(dir string) Attr { return attr("dir", dir) }

// Link and base attributes

// Href sets the href attribute.
func Href(url string) Attr { return attr("href", url) }

// Target sets the target attribute.
func Target(target string) Attr { return attr("target", target) }

// Rel sets the rel attribute.
func Rel(rel string) Attr { return attr("rel", rel) }

// Hreflang sets the hreflang attribute.
func Hreflang(lang string) Attr { return attr("hreflang", lang) }

// Media sets the media attribute.
func Media(query string) Attr { return attr("media", query) }

// Sizes sets the sizes attribute.
func Sizes(sizes string) Attr { return attr("sizes", sizes) }

// Meta attributes

// Name sets the name attribute.
func Name(name string) Attr { return attr("name", name) }

// Charset sets the charset attribute.
func Charset(charset string) Attr { return attr("charset", charset) }

// Content sets the content attribute.
func Content(content string) Attr { return attr("content", content) }

// HttpEquiv sets the http-equiv attribute.
func HttpEquiv(value string) Attr { return attr("http-equiv", value) }

// Property sets the property attribute (Open Graph).
func Property(value string) Attr { return attr("property", value) }

// ItemProp sets the itemprop attribute.
func ItemProp(value string) Attr { return attr("itemprop", value) }

// Script attributes

// Src sets the src attribute.
func Src(url string) Attr { return attr("src", url) }

// Type sets the type attribute.
func Type(t string) Attr { return attr("type", t) }

// Async sets the async attribute.
func Async() Attr { return attr("async", true) }

// Defer_ sets the defer attribute (underscore to avoid keyword).
func Defer_() Attr { return attr("defer", true) }

// Crossorigin sets the crossorigin attribute.
func Crossorigin(value string) Attr { return attr("crossorigin", value) }

// Integrity sets the integrity attribute.
func Integrity(value string) Attr { return attr("integrity", value) }

// InnerHTML sets raw, unescaped element content.
// Use with caution - can lead to XSS if content is user-provided.
func InnerHTML(html string) Attr { return attr(InnerHTMLProp, html) }

// Key sets the sibling identity of a node.
// The key is converted to a string using fmt.Sprintf.
func Key(key any) Attr {
	return attr("key", fmt.Sprintf("%v", key))
}
