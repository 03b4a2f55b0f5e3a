package head

// AnyValue matches every non-nil value of an attribute.
const AnyValue = "*"

// CategoryRules maps an attribute name to the values that make a tag a
// priority tag.
type CategoryRules map[string][]string

// SEORules holds the priority rules of each category.
type SEORules map[Category]CategoryRules

// DefaultSEORules returns the built-in priority rules for link, meta and
// script tags.
func DefaultSEORules() SEORules {
	return SEORules{
		CategoryLink: {
			"rel": {"amphtml", "canonical", "alternate"},
		},
		CategoryMeta: {
			"charset": {AnyValue},
			"name":    {"robots", "description"},
			"property": {
				"og:type",
				"og:title",
				"og:url",
				"og:image",
				"og:image:alt",
				"og:description",
				"twitter:url",
				"twitter:title",
				"twitter:description",
				"twitter:image",
				"twitter:image:alt",
				"twitter:card",
				"twitter:site",
			},
		},
		CategoryScript: {
			"type": {"application/ld+json"},
		},
	}
}

// Merge returns a copy of r with the values of other added.
func (r SEORules) Merge(other SEORules) SEORules {
	out := make(SEORules, len(r)+len(other))
	for _, src := range []SEORules{r, other} {
		for c, rules := range src {
			if out[c] == nil {
				out[c] = make(CategoryRules, len(rules))
			}
			for attr, values := range rules {
				out[c][attr] = appendUnique(out[c][attr], values...)
			}
		}
	}
	return out
}

func appendUnique(dst []string, values ...string) []string {
	for _, v := range values {
		found := false
		for _, d := range dst {
			if d == v {
				found = true
				break
			}
		}
		if !found {
			dst = append(dst, v)
		}
	}
	return dst
}

// Buckets splits tags into priority and default tags, each in input order.
type Buckets struct {
	Priority []Attrs
	Default  []Attrs
}

// Prioritize partitions tags. A tag is a priority tag when any one of its
// attributes matches rules.
func Prioritize(tags []Attrs, rules CategoryRules) Buckets {
	b := Buckets{Priority: []Attrs{}, Default: []Attrs{}}
	for _, tag := range tags {
		if matches(tag, rules) {
			b.Priority = append(b.Priority, tag)
		} else {
			b.Default = append(b.Default, tag)
		}
	}
	return b
}

func matches(tag Attrs, rules CategoryRules) bool {
	for key, v := range tag {
		allowed, ok := rules[key]
		if !ok || v == nil {
			continue
		}
		text := Value(v)
		for _, a := range allowed {
			if a == AnyValue || a == text {
				return true
			}
		}
	}
	return false
}
