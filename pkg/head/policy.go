package head

import "strings"

// IdentityFunc selects the identity of a tag. The returned key names the
// identity namespace and value is already lower-cased. ok is false when the
// tag has no usable identity and must be dropped.
type IdentityFunc func(tag Attrs) (key, value string, ok bool)

// Policy describes how one tag category is identified and rendered.
type Policy struct {
	Category Category

	// Identity de-duplicates tags across declarations.
	Identity IdentityFunc

	// SelfClosing elements render as <tag .../> on the server.
	SelfClosing bool

	// ContentKey names the attribute holding element content, if any.
	ContentKey string
}

// Policies is the per-category policy table.
var Policies = map[Category]Policy{
	CategoryBase: {
		Category:    CategoryBase,
		Identity:    baseIdentity,
		SelfClosing: true,
	},
	CategoryLink: {
		Category:    CategoryLink,
		Identity:    linkIdentity,
		SelfClosing: true,
	},
	CategoryMeta: {
		Category:    CategoryMeta,
		Identity:    firstPresent("name", "charset", "http-equiv", "property", "itemprop"),
		SelfClosing: true,
	},
	CategoryNoscript: {
		Category:   CategoryNoscript,
		Identity:   firstPresent(InnerHTMLKey),
		ContentKey: InnerHTMLKey,
	},
	CategoryScript: {
		Category:   CategoryScript,
		Identity:   firstPresent("src", InnerHTMLKey),
		ContentKey: InnerHTMLKey,
	},
	CategoryStyle: {
		Category:   CategoryStyle,
		Identity:   firstPresent(CSSTextKey),
		ContentKey: CSSTextKey,
	},
}

// PolicyFor returns the policy of c. Unknown categories get a policy whose
// identity rejects every tag.
func PolicyFor(c Category) Policy {
	if p, ok := Policies[c]; ok {
		return p
	}
	return Policy{
		Category: c,
		Identity: func(Attrs) (string, string, bool) { return "", "", false },
	}
}

// firstPresent identifies a tag by the first of keys it carries. The value
// of that key must be a string.
func firstPresent(keys ...string) IdentityFunc {
	return func(tag Attrs) (string, string, bool) {
		for _, key := range keys {
			if tag.Has(key) {
				return stringIdentity(tag, key)
			}
		}
		return "", "", false
	}
}

func stringIdentity(tag Attrs, key string) (string, string, bool) {
	s, ok := tag.Text(key)
	if !ok {
		return "", "", false
	}
	return key, strings.ToLower(s), true
}

// linkIdentity: a canonical link is identified by rel alone so only one
// survives. Stylesheets are identified by href so several coexist. Other
// links use the rel and href pair, or whichever of the two is present.
func linkIdentity(tag Attrs) (string, string, bool) {
	rel, relIsString := tag.Text("rel")
	if relIsString {
		switch strings.ToLower(rel) {
		case "canonical":
			return "rel", "canonical", true
		case "stylesheet":
			return stringIdentity(tag, "href")
		}
	}

	hasRel, hasHref := tag.Has("rel"), tag.Has("href")
	switch {
	case hasRel && hasHref:
		href, ok := tag.Text("href")
		if !relIsString || !ok {
			return "", "", false
		}
		return "rel+href", strings.ToLower(rel) + "\x00" + strings.ToLower(href), true
	case hasHref:
		return stringIdentity(tag, "href")
	case hasRel:
		return stringIdentity(tag, "rel")
	}
	return "", "", false
}

// baseIdentity accepts a base tag carrying a non-nil href or target.
func baseIdentity(tag Attrs) (string, string, bool) {
	for _, key := range []string{"href", "target"} {
		if v, ok := tag[key]; ok && v != nil {
			return key, strings.ToLower(Value(v)), true
		}
	}
	return "", "", false
}
