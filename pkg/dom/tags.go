package dom

import (
	"sort"
	"strconv"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/vango-dev/vhead/pkg/head"
)

// TagUpdate is the result of syncing one category.
type TagUpdate struct {
	// Added are the nodes appended to the head.
	Added []*html.Node
	// Removed are the marked nodes no desired tag matched.
	Removed []*html.Node
}

// SyncTags makes the marked tags of category c in the head match tags.
//
// Existing marked nodes that equal a desired node are kept in place. The
// rest are removed, and desired nodes without a match are appended to the
// head. Unmarked tags are never touched.
func SyncTags(doc *Document, c head.Category, tags []head.Attrs) TagUpdate {
	h := doc.Head()
	if h == nil {
		return TagUpdate{}
	}

	tag := string(c)
	old := findAll(h, tag, func(n *html.Node) bool {
		_, ok := GetAttr(n, head.MarkerAttribute)
		return ok
	})
	oldKeys := make([]string, len(old))
	for i, n := range old {
		oldKeys[i] = canonical(n)
	}

	var added []*html.Node
	for _, t := range tags {
		n := NewTagNode(c, t)
		key := canonical(n)

		matched := -1
		for i, k := range oldKeys {
			if k == key {
				matched = i
				break
			}
		}
		if matched >= 0 {
			old = append(old[:matched], old[matched+1:]...)
			oldKeys = append(oldKeys[:matched], oldKeys[matched+1:]...)
			continue
		}
		added = append(added, n)
	}

	for _, n := range old {
		if n.Parent != nil {
			n.Parent.RemoveChild(n)
		}
	}
	for _, n := range added {
		h.AppendChild(n)
	}

	return TagUpdate{Added: added, Removed: old}
}

// NewTagNode builds the element for tag. Content keys become a text child;
// every other key becomes a lower-cased attribute. The marker is set last.
func NewTagNode(c head.Category, tag head.Attrs) *html.Node {
	name := string(c)
	n := &html.Node{
		Type:     html.ElementNode,
		Data:     name,
		DataAtom: atom.Lookup([]byte(name)),
	}

	var content string
	hasContent := false
	for _, key := range tag.Keys() {
		switch key {
		case head.InnerHTMLKey, head.CSSTextKey:
			content = head.Value(tag[key])
			hasContent = true
		default:
			n.Attr = append(n.Attr, html.Attribute{
				Key: strings.ToLower(key),
				Val: head.Value(tag[key]),
			})
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: head.MarkerAttribute, Val: "true"})

	if hasContent && content != "" {
		n.AppendChild(&html.Node{Type: html.TextNode, Data: content})
	}
	return n
}

// canonical serializes n with attributes in sorted order, so two nodes
// are equal exactly when their serializations are.
func canonical(n *html.Node) string {
	var sb strings.Builder
	writeCanonical(&sb, n)
	return sb.String()
}

func writeCanonical(sb *strings.Builder, n *html.Node) {
	switch n.Type {
	case html.TextNode:
		sb.WriteString("#text:")
		sb.WriteString(n.Data)
		sb.WriteByte(0)
		return
	case html.CommentNode:
		sb.WriteString("#comment:")
		sb.WriteString(n.Data)
		sb.WriteByte(0)
		return
	case html.ElementNode:
	default:
		return
	}

	attrs := make([]html.Attribute, len(n.Attr))
	copy(attrs, n.Attr)
	sort.Slice(attrs, func(i, j int) bool {
		if attrs[i].Namespace != attrs[j].Namespace {
			return attrs[i].Namespace < attrs[j].Namespace
		}
		return attrs[i].Key < attrs[j].Key
	})

	sb.WriteByte('<')
	sb.WriteString(n.Data)
	for _, a := range attrs {
		sb.WriteByte(' ')
		if a.Namespace != "" {
			sb.WriteString(a.Namespace)
			sb.WriteByte(':')
		}
		sb.WriteString(a.Key)
		sb.WriteByte('=')
		sb.WriteString(strconv.Quote(a.Val))
	}
	sb.WriteByte('>')
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		writeCanonical(sb, c)
	}
	sb.WriteString("</")
	sb.WriteString(n.Data)
	sb.WriteByte('>')
}

// EqualNodes reports whether a and b have the same name, attribute set and
// children.
func EqualNodes(a, b *html.Node) bool {
	return canonical(a) == canonical(b)
}
