package head

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Declaration is the head content one component asks for. Declarations
// are treated as immutable once added to a Store; replace them through the
// Handle instead of mutating them.
type Declaration struct {
	Base            Attrs `json:"base,omitempty" yaml:"base,omitempty"`
	BodyAttributes  Attrs `json:"bodyAttributes,omitempty" yaml:"bodyAttributes,omitempty"`
	HTMLAttributes  Attrs `json:"htmlAttributes,omitempty" yaml:"htmlAttributes,omitempty"`
	TitleAttributes Attrs `json:"titleAttributes,omitempty" yaml:"titleAttributes,omitempty"`

	Title         Title   `json:"title,omitzero" yaml:"title,omitempty"`
	DefaultTitle  *string `json:"defaultTitle,omitempty" yaml:"defaultTitle,omitempty"`
	TitleTemplate *string `json:"titleTemplate,omitempty" yaml:"titleTemplate,omitempty"`

	Link     TagList `json:"link,omitzero" yaml:"link,omitempty"`
	Meta     TagList `json:"meta,omitzero" yaml:"meta,omitempty"`
	Noscript TagList `json:"noscript,omitzero" yaml:"noscript,omitempty"`
	Script   TagList `json:"script,omitzero" yaml:"script,omitempty"`
	Style    TagList `json:"style,omitzero" yaml:"style,omitempty"`

	// Defer and EncodeSpecialCharacters default to true when unset.
	Defer                   *bool `json:"defer,omitempty" yaml:"defer,omitempty"`
	EncodeSpecialCharacters *bool `json:"encodeSpecialCharacters,omitempty" yaml:"encodeSpecialCharacters,omitempty"`
	PrioritizeSEOTags       bool  `json:"prioritizeSeoTags,omitempty" yaml:"prioritizeSeoTags,omitempty"`

	OnChangeClientState ChangeFunc `json:"-" yaml:"-"`
}

// Tags returns the tag list of a repeated category.
func (d *Declaration) Tags(c Category) TagList {
	switch c {
	case CategoryLink:
		return d.Link
	case CategoryMeta:
		return d.Meta
	case CategoryNoscript:
		return d.Noscript
	case CategoryScript:
		return d.Script
	case CategoryStyle:
		return d.Style
	}
	return TagList{}
}

// Attributes returns the attribute map declared for target.
func (d *Declaration) Attributes(target AttributeTarget) Attrs {
	switch target {
	case TargetHTML:
		return d.HTMLAttributes
	case TargetBody:
		return d.BodyAttributes
	case TargetTitle:
		return d.TitleAttributes
	}
	return nil
}

// Bool returns a pointer to b, for the optional Declaration fields.
func Bool(b bool) *bool { return &b }

// String returns a pointer to s, for the optional Declaration fields.
func String(s string) *string { return &s }

// Title is an optional title. A list of parts is joined without separator.
type Title struct {
	parts []string
	set   bool
}

// TitleOf returns a set title.
func TitleOf(s string) Title {
	return Title{parts: []string{s}, set: true}
}

// TitleParts returns a set title made of parts.
func TitleParts(parts ...string) Title {
	return Title{parts: append([]string(nil), parts...), set: true}
}

// IsSet reports whether the title was declared. An empty string is set.
func (t Title) IsSet() bool { return t.set }

// IsZero supports omitempty in encoders.
func (t Title) IsZero() bool { return !t.set }

// String returns the joined title.
func (t Title) String() string { return strings.Join(t.parts, "") }

func (t Title) MarshalJSON() ([]byte, error) {
	if !t.set {
		return []byte("null"), nil
	}
	if len(t.parts) == 1 {
		return json.Marshal(t.parts[0])
	}
	return json.Marshal(t.parts)
}

func (t *Title) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*t = Title{}
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*t = TitleOf(s)
		return nil
	}
	var parts []string
	if err := json.Unmarshal(data, &parts); err != nil {
		return fmt.Errorf("title must be a string or a list of strings")
	}
	*t = TitleParts(parts...)
	return nil
}

func (t Title) MarshalYAML() (any, error) {
	if !t.set {
		return nil, nil
	}
	if len(t.parts) == 1 {
		return t.parts[0], nil
	}
	return t.parts, nil
}

func (t *Title) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		if node.Tag == "!!null" {
			*t = Title{}
			return nil
		}
		*t = TitleOf(node.Value)
		return nil
	case yaml.SequenceNode:
		var parts []string
		if err := node.Decode(&parts); err != nil {
			return fmt.Errorf("line %d: title must be a string or a list of strings", node.Line)
		}
		*t = TitleParts(parts...)
		return nil
	}
	return fmt.Errorf("line %d: title must be a string or a list of strings", node.Line)
}

// TagList is an ordered list of tags of one category. A list decoded from
// a value that is not a list of objects keeps no tags and records what was
// found in Malformed; the reducer warns about it and moves on.
type TagList struct {
	Tags      []Attrs
	Malformed string
}

// Tags returns a well-formed list.
func Tags(tags ...Attrs) TagList {
	return TagList{Tags: tags}
}

// Invalid returns a list recording a wrong source shape.
func Invalid(found string) TagList {
	return TagList{Malformed: found}
}

// Valid reports whether the list had the right shape.
func (l TagList) Valid() bool { return l.Malformed == "" }

// Len returns the number of tags.
func (l TagList) Len() int { return len(l.Tags) }

// IsZero supports omitempty in encoders.
func (l TagList) IsZero() bool { return l.Valid() && len(l.Tags) == 0 }

func (l TagList) MarshalJSON() ([]byte, error) {
	if l.Tags == nil {
		return []byte("null"), nil
	}
	return json.Marshal(l.Tags)
}

func (l *TagList) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*l = tagListFrom(raw)
	return nil
}

func (l TagList) MarshalYAML() (any, error) {
	return l.Tags, nil
}

func (l *TagList) UnmarshalYAML(node *yaml.Node) error {
	var raw any
	if err := node.Decode(&raw); err != nil {
		return err
	}
	*l = tagListFrom(raw)
	return nil
}

// tagListFrom converts a decoded JSON or YAML value into a TagList.
func tagListFrom(raw any) TagList {
	switch v := raw.(type) {
	case nil:
		return TagList{}
	case []any:
		tags := make([]Attrs, 0, len(v))
		for _, item := range v {
			obj, ok := item.(map[string]any)
			if !ok {
				return Invalid("list of " + shapeOf(item))
			}
			tags = append(tags, Attrs(obj))
		}
		return TagList{Tags: tags}
	default:
		return Invalid(shapeOf(v))
	}
}

func shapeOf(v any) string {
	switch v.(type) {
	case nil:
		return "null"
	case map[string]any:
		return "object"
	case []any:
		return "list"
	case string:
		return "string"
	case bool:
		return "boolean"
	case float64, int, int64, uint64:
		return "number"
	}
	return fmt.Sprintf("%T", v)
}
