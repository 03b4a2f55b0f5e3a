package head

import (
	"log/slog"
	"strings"
)

// Reduce merges declarations into a State. Warnings go to slog.Default().
func Reduce(decls []*Declaration) *State {
	return ReduceWithLogger(slog.Default(), decls)
}

// ReduceWithLogger merges declarations into a State. decls are in mount
// order: a later declaration is nested deeper and wins. nil entries are
// skipped.
func ReduceWithLogger(logger *slog.Logger, decls []*Declaration) *State {
	if logger == nil {
		logger = slog.Default()
	}
	list := make([]*Declaration, 0, len(decls))
	for _, d := range decls {
		if d != nil {
			list = append(list, d)
		}
	}

	title, hasTitle := reduceTitle(list)

	return &State{
		BaseTag:             reduceBase(list),
		BodyAttributes:      reduceAttributes(list, TargetBody),
		HTMLAttributes:      reduceAttributes(list, TargetHTML),
		TitleAttributes:     reduceAttributes(list, TargetTitle),
		Title:               title,
		HasTitle:            hasTitle,
		LinkTags:            reduceTags(logger, list, CategoryLink),
		MetaTags:            reduceTags(logger, list, CategoryMeta),
		NoscriptTags:        reduceTags(logger, list, CategoryNoscript),
		ScriptTags:          reduceTags(logger, list, CategoryScript),
		StyleTags:           reduceTags(logger, list, CategoryStyle),
		Defer:               innermostBool(list, func(d *Declaration) *bool { return d.Defer }),
		Encode:              innermostBool(list, func(d *Declaration) *bool { return d.EncodeSpecialCharacters }),
		PrioritizeSEOTags:   anyPrioritized(list),
		OnChangeClientState: reduceOnChange(list),
	}
}

// reduceTitle applies the innermost template to the innermost title, or
// falls back to the innermost default title.
func reduceTitle(list []*Declaration) (string, bool) {
	var (
		title    *string
		template *string
		fallback *string
	)
	for i := len(list) - 1; i >= 0; i-- {
		d := list[i]
		if title == nil && d.Title.IsSet() {
			s := d.Title.String()
			title = &s
		}
		if template == nil && d.TitleTemplate != nil {
			template = d.TitleTemplate
		}
		if fallback == nil && d.DefaultTitle != nil {
			fallback = d.DefaultTitle
		}
	}

	switch {
	case title != nil && template != nil:
		return strings.ReplaceAll(*template, "%s", *title), true
	case title != nil:
		return *title, true
	case fallback != nil:
		return *fallback, true
	}
	return "", false
}

// reduceAttributes merges attribute maps key by key, deeper values winning.
func reduceAttributes(list []*Declaration, target AttributeTarget) Attrs {
	out := Attrs{}
	for _, d := range list {
		for k, v := range d.Attributes(target) {
			out[k] = v
		}
	}
	return out
}

// reduceBase picks the deepest base tag with a non-nil href or target.
func reduceBase(list []*Declaration) []Attrs {
	identity := PolicyFor(CategoryBase).Identity
	for i := len(list) - 1; i >= 0; i-- {
		base := list[i].Base
		if base == nil {
			continue
		}
		if _, _, ok := identity(base); ok {
			return []Attrs{base.Clone()}
		}
	}
	return []Attrs{}
}

// reduceTags walks declarations deepest first. A tag survives unless a
// deeper declaration already claimed its identity. Identities claimed
// inside the current declaration only take effect for outer ones, so
// duplicates within one declaration are kept.
func reduceTags(logger *slog.Logger, list []*Declaration, c Category) []Attrs {
	identity := PolicyFor(c).Identity
	approved := make(map[string]map[string]bool)
	out := make([]Attrs, 0)

	for i := len(list) - 1; i >= 0; i-- {
		tags := list[i].Tags(c)
		if !tags.Valid() {
			logger.Warn("ignoring tag list with wrong shape",
				"category", string(c),
				"expected", "list of objects",
				"found", tags.Malformed,
				"declaration", i)
			continue
		}
		if len(tags.Tags) == 0 {
			continue
		}

		claimed := make(map[string]map[string]bool)
		for j := len(tags.Tags) - 1; j >= 0; j-- {
			tag := tags.Tags[j]
			key, value, ok := identity(tag)
			if !ok {
				continue
			}
			if approved[key][value] {
				continue
			}
			if claimed[key] == nil {
				claimed[key] = make(map[string]bool)
			}
			claimed[key][value] = true
			out = append(out, tag.Clone())
		}

		for key, values := range claimed {
			if approved[key] == nil {
				approved[key] = make(map[string]bool, len(values))
			}
			for value := range values {
				approved[key][value] = true
			}
		}
	}

	for l, r := 0, len(out)-1; l < r; l, r = l+1, r-1 {
		out[l], out[r] = out[r], out[l]
	}
	return out
}

// innermostBool returns the deepest explicitly set value, or true.
func innermostBool(list []*Declaration, field func(*Declaration) *bool) bool {
	for i := len(list) - 1; i >= 0; i-- {
		if v := field(list[i]); v != nil {
			return *v
		}
	}
	return true
}

func anyPrioritized(list []*Declaration) bool {
	for _, d := range list {
		if d.PrioritizeSEOTags {
			return true
		}
	}
	return false
}

func reduceOnChange(list []*Declaration) ChangeFunc {
	for i := len(list) - 1; i >= 0; i-- {
		if fn := list[i].OnChangeClientState; fn != nil {
			return fn
		}
	}
	return noopChange
}
