package head

import (
	"fmt"
	"sort"
	"strconv"
)

// Content keys carry element content rather than an attribute.
const (
	InnerHTMLKey = "innerHTML"
	CSSTextKey   = "cssText"
)

// MarkerAttribute is set on every element the library manages. On html,
// body and title it lists the attribute names the library set.
const MarkerAttribute = "data-rh"

// Attrs is a flat attribute map. Values are string, bool or nil.
type Attrs map[string]any

// Text returns the value of key when it is a string.
func (a Attrs) Text(key string) (string, bool) {
	s, ok := a[key].(string)
	return s, ok
}

// Has reports whether key is present, whatever its value.
func (a Attrs) Has(key string) bool {
	_, ok := a[key]
	return ok
}

// Keys returns the attribute names in sorted order.
func (a Attrs) Keys() []string {
	keys := make([]string, 0, len(a))
	for k := range a {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Clone returns a shallow copy.
func (a Attrs) Clone() Attrs {
	if a == nil {
		return nil
	}
	out := make(Attrs, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}

// Value converts an attribute value to its markup text. nil converts to "".
func Value(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		return strconv.FormatBool(val)
	case int:
		return strconv.Itoa(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return fmt.Sprint(val)
	}
}
