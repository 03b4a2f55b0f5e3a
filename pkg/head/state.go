package head

import (
	"reflect"

	"golang.org/x/net/html"
)

// TagNodes groups document nodes by category.
type TagNodes map[Category][]*html.Node

// ChangeFunc is notified once per client commit with the nodes added and
// removed by that commit. Categories without changes are absent.
type ChangeFunc func(state *State, added, removed TagNodes)

// State is the merged result of every mounted declaration.
type State struct {
	// BaseTag holds zero or one base tag.
	BaseTag []Attrs

	BodyAttributes  Attrs
	HTMLAttributes  Attrs
	TitleAttributes Attrs

	// Title is meaningful only when HasTitle is true.
	Title    string
	HasTitle bool

	LinkTags     []Attrs
	MetaTags     []Attrs
	NoscriptTags []Attrs
	ScriptTags   []Attrs
	StyleTags    []Attrs

	Defer             bool
	Encode            bool
	PrioritizeSEOTags bool

	// OnChangeClientState is never nil.
	OnChangeClientState ChangeFunc
}

// Tags returns the tags of category c.
func (s *State) Tags(c Category) []Attrs {
	switch c {
	case CategoryBase:
		return s.BaseTag
	case CategoryLink:
		return s.LinkTags
	case CategoryMeta:
		return s.MetaTags
	case CategoryNoscript:
		return s.NoscriptTags
	case CategoryScript:
		return s.ScriptTags
	case CategoryStyle:
		return s.StyleTags
	}
	return nil
}

// Attributes returns the merged attribute map of target.
func (s *State) Attributes(target AttributeTarget) Attrs {
	switch target {
	case TargetHTML:
		return s.HTMLAttributes
	case TargetBody:
		return s.BodyAttributes
	case TargetTitle:
		return s.TitleAttributes
	}
	return nil
}

// TagCount returns the number of tags across all categories.
func (s *State) TagCount() int {
	n := 0
	for _, c := range TagCategories {
		n += len(s.Tags(c))
	}
	return n
}

// Equal reports whether s and o describe the same head. The change
// callback is not compared.
func (s *State) Equal(o *State) bool {
	if s == nil || o == nil {
		return s == o
	}
	a, b := *s, *o
	a.OnChangeClientState, b.OnChangeClientState = nil, nil
	return reflect.DeepEqual(a, b)
}

func noopChange(*State, TagNodes, TagNodes) {}
