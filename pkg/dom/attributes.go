package dom

import (
	"strings"

	"golang.org/x/net/html"

	"github.com/vango-dev/vhead/pkg/head"
)

// SyncAttributes makes the library-owned attributes of el match desired.
//
// The marker attribute lists the names the library set last time. Desired
// values are written when they differ, listed names no longer desired are
// removed, and the marker is rewritten to the desired names. Attribute
// names are lower-cased, as the HTML parser does. Attributes the library
// never listed are not touched. A nil el is a no-op.
func SyncAttributes(el *html.Node, desired head.Attrs) {
	if el == nil {
		return
	}

	var managed []string
	if list, ok := GetAttr(el, head.MarkerAttribute); ok && list != "" {
		managed = strings.Split(list, ",")
	}

	lowered := make(head.Attrs, len(desired))
	for key, v := range desired {
		lowered[strings.ToLower(key)] = v
	}

	keys := lowered.Keys()
	for _, key := range keys {
		value := head.Value(lowered[key])
		if current, ok := GetAttr(el, key); !ok || current != value {
			SetAttr(el, key, value)
		}
	}

	for _, key := range managed {
		if _, ok := lowered[key]; !ok {
			RemoveAttr(el, key)
		}
	}

	if len(keys) == 0 {
		RemoveAttr(el, head.MarkerAttribute)
		return
	}
	if list := strings.Join(keys, ","); !hasAttrValue(el, head.MarkerAttribute, list) {
		SetAttr(el, head.MarkerAttribute, list)
	}
}

func hasAttrValue(n *html.Node, key, want string) bool {
	v, ok := GetAttr(n, key)
	return ok && v == want
}
