package head

import (
	"bytes"
	"log/slog"
	"reflect"
	"strings"
	"testing"
)

// comparableState strips the callback so states can be compared with DeepEqual.
func comparableState(s *State) State {
	c := *s
	c.OnChangeClientState = nil
	return c
}

func TestReduceEmpty(t *testing.T) {
	s := Reduce(nil)

	if s.HasTitle || s.Title != "" {
		t.Errorf("expected no title, got %q (HasTitle=%v)", s.Title, s.HasTitle)
	}
	if !s.Defer || !s.Encode {
		t.Errorf("defer and encode should default to true, got %v %v", s.Defer, s.Encode)
	}
	if s.PrioritizeSEOTags {
		t.Error("PrioritizeSEOTags should default to false")
	}
	if s.OnChangeClientState == nil {
		t.Fatal("OnChangeClientState should never be nil")
	}
	if s.TagCount() != 0 || len(s.BaseTag) != 0 {
		t.Errorf("expected no tags, got %d", s.TagCount())
	}
	if s.BodyAttributes == nil || s.HTMLAttributes == nil || s.TitleAttributes == nil {
		t.Error("attribute maps should be non-nil")
	}
}

func TestReduceTitle(t *testing.T) {
	tests := []struct {
		name     string
		decls    []*Declaration
		want     string
		hasTitle bool
	}{
		{
			name:     "deepest title wins",
			decls:    []*Declaration{{Title: TitleOf("Outer")}, {Title: TitleOf("Inner")}},
			want:     "Inner",
			hasTitle: true,
		},
		{
			name: "template applied to every placeholder",
			decls: []*Declaration{
				{TitleTemplate: String("%s | Site | %s")},
				{Title: TitleOf("Page")},
			},
			want:     "Page | Site | Page",
			hasTitle: true,
		},
		{
			name: "dollar signs are literal",
			decls: []*Declaration{
				{TitleTemplate: String("%s - Shop")},
				{Title: TitleOf("Price $1 $& $$")},
			},
			want:     "Price $1 $& $$ - Shop",
			hasTitle: true,
		},
		{
			name: "deepest template wins",
			decls: []*Declaration{
				{TitleTemplate: String("outer %s")},
				{TitleTemplate: String("inner %s"), Title: TitleOf("x")},
			},
			want:     "inner x",
			hasTitle: true,
		},
		{
			name:     "list title is joined",
			decls:    []*Declaration{{Title: TitleParts("Hello", ", ", "World")}},
			want:     "Hello, World",
			hasTitle: true,
		},
		{
			name:     "empty title is still a title",
			decls:    []*Declaration{{DefaultTitle: String("Fallback")}, {Title: TitleOf("")}},
			want:     "",
			hasTitle: true,
		},
		{
			name: "default title is not templated",
			decls: []*Declaration{
				{DefaultTitle: String("Outer default"), TitleTemplate: String("%s | Site")},
				{DefaultTitle: String("Inner default")},
			},
			want:     "Inner default",
			hasTitle: true,
		},
		{
			name:     "template alone yields no title",
			decls:    []*Declaration{{TitleTemplate: String("%s | Site")}},
			want:     "",
			hasTitle: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Reduce(tt.decls)
			if s.Title != tt.want || s.HasTitle != tt.hasTitle {
				t.Errorf("got (%q, %v), want (%q, %v)", s.Title, s.HasTitle, tt.want, tt.hasTitle)
			}
		})
	}
}

func TestReduceAttributesDeepestWinsPerKey(t *testing.T) {
	s := Reduce([]*Declaration{
		{HTMLAttributes: Attrs{"lang": "en", "class": "outer"}, BodyAttributes: Attrs{"id": "b"}},
		nil,
		{HTMLAttributes: Attrs{"lang": "fr"}, TitleAttributes: Attrs{"itemprop": "name"}},
	})

	want := Attrs{"lang": "fr", "class": "outer"}
	if !reflect.DeepEqual(s.HTMLAttributes, want) {
		t.Errorf("HTMLAttributes = %v, want %v", s.HTMLAttributes, want)
	}
	if !reflect.DeepEqual(s.BodyAttributes, Attrs{"id": "b"}) {
		t.Errorf("BodyAttributes = %v", s.BodyAttributes)
	}
	if !reflect.DeepEqual(s.TitleAttributes, Attrs{"itemprop": "name"}) {
		t.Errorf("TitleAttributes = %v", s.TitleAttributes)
	}
}

func TestReduceBase(t *testing.T) {
	tests := []struct {
		name  string
		decls []*Declaration
		want  []Attrs
	}{
		{
			name: "deepest base wins",
			decls: []*Declaration{
				{Base: Attrs{"href": "/outer/"}},
				{Base: Attrs{"target": "_blank"}},
			},
			want: []Attrs{{"target": "_blank"}},
		},
		{
			name: "base without usable attribute is skipped",
			decls: []*Declaration{
				{Base: Attrs{"href": "/outer/"}},
				{Base: Attrs{"href": nil}},
				{Base: Attrs{"id": "x"}},
			},
			want: []Attrs{{"href": "/outer/"}},
		},
		{
			name:  "no base",
			decls: []*Declaration{{Title: TitleOf("x")}},
			want:  []Attrs{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := Reduce(tt.decls)
			if !reflect.DeepEqual(s.BaseTag, tt.want) {
				t.Errorf("BaseTag = %v, want %v", s.BaseTag, tt.want)
			}
		})
	}
}

func TestReduceTagOrderAndShadowing(t *testing.T) {
	a := Attrs{"name": "a", "content": "outer"}
	b := Attrs{"name": "b", "content": "outer"}
	c := Attrs{"name": "c", "content": "inner"}
	b2 := Attrs{"name": "B", "content": "inner"}

	s := Reduce([]*Declaration{
		{Meta: Tags(a, b)},
		{Meta: Tags(c, b2)},
	})

	want := []Attrs{a, c, b2}
	if !reflect.DeepEqual(s.MetaTags, want) {
		t.Errorf("MetaTags = %v, want %v", s.MetaTags, want)
	}
}

func TestReduceDuplicatesWithinDeclarationSurvive(t *testing.T) {
	first := Attrs{"name": "keywords", "content": "one"}
	second := Attrs{"name": "keywords", "content": "two"}
	outer := Attrs{"name": "keywords", "content": "outer"}

	s := Reduce([]*Declaration{
		{Meta: Tags(outer)},
		{Meta: Tags(first, second)},
	})

	want := []Attrs{first, second}
	if !reflect.DeepEqual(s.MetaTags, want) {
		t.Errorf("MetaTags = %v, want %v", s.MetaTags, want)
	}
}

func TestReduceLinks(t *testing.T) {
	s := Reduce([]*Declaration{
		{Link: Tags(
			Attrs{"rel": "canonical", "href": "https://example.com/outer"},
			Attrs{"rel": "stylesheet", "href": "/a.css"},
			Attrs{"rel": "icon", "href": "/favicon.ico"},
		)},
		{Link: Tags(
			Attrs{"rel": "canonical", "href": "https://example.com/inner"},
			Attrs{"rel": "stylesheet", "href": "/b.css"},
			Attrs{"rel": "icon", "href": "/favicon.ico", "sizes": "32x32"},
		)},
	})

	want := []Attrs{
		{"rel": "stylesheet", "href": "/a.css"},
		{"rel": "canonical", "href": "https://example.com/inner"},
		{"rel": "stylesheet", "href": "/b.css"},
		{"rel": "icon", "href": "/favicon.ico", "sizes": "32x32"},
	}
	if !reflect.DeepEqual(s.LinkTags, want) {
		t.Errorf("LinkTags =\n%v\nwant\n%v", s.LinkTags, want)
	}
}

func TestReduceDropsNullIdentity(t *testing.T) {
	kept := Attrs{"charset": "utf-8"}
	s := Reduce([]*Declaration{{
		Meta:   Tags(Attrs{"name": nil, "content": "x"}, kept, Attrs{"content": "no identity"}),
		Link:   Tags(Attrs{"rel": "icon", "href": nil}),
		Script: Tags(Attrs{"src": true}),
	}})

	if !reflect.DeepEqual(s.MetaTags, []Attrs{kept}) {
		t.Errorf("MetaTags = %v", s.MetaTags)
	}
	if len(s.LinkTags) != 0 || len(s.ScriptTags) != 0 {
		t.Errorf("expected no links or scripts, got %v %v", s.LinkTags, s.ScriptTags)
	}
}

func TestReduceContentIdentity(t *testing.T) {
	s := Reduce([]*Declaration{
		{
			Script:   Tags(Attrs{InnerHTMLKey: "console.log(1)"}, Attrs{"src": "/app.js"}),
			Style:    Tags(Attrs{CSSTextKey: "body{}"}),
			Noscript: Tags(Attrs{InnerHTMLKey: "<p>js</p>"}),
		},
		{
			Script:   Tags(Attrs{"src": "/APP.js", "async": true}),
			Style:    Tags(Attrs{CSSTextKey: "body{}", "media": "print"}),
			Noscript: Tags(Attrs{InnerHTMLKey: "<p>other</p>"}),
		},
	})

	if len(s.ScriptTags) != 2 || s.ScriptTags[1]["async"] != true {
		t.Errorf("ScriptTags = %v", s.ScriptTags)
	}
	if len(s.StyleTags) != 1 || s.StyleTags[0]["media"] != "print" {
		t.Errorf("StyleTags = %v", s.StyleTags)
	}
	if len(s.NoscriptTags) != 2 {
		t.Errorf("NoscriptTags = %v", s.NoscriptTags)
	}
}

func TestReduceMalformedListWarns(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	s := ReduceWithLogger(logger, []*Declaration{
		{Meta: Tags(Attrs{"name": "a"})},
		{Meta: Invalid("object"), Link: Tags(Attrs{"rel": "icon", "href": "/i.png"})},
	})

	if len(s.MetaTags) != 1 || len(s.LinkTags) != 1 {
		t.Errorf("unexpected tags: meta=%v link=%v", s.MetaTags, s.LinkTags)
	}
	out := buf.String()
	if strings.Count(out, "wrong shape") != 1 {
		t.Fatalf("expected one warning, got %q", out)
	}
	if !strings.Contains(out, "category=meta") || !strings.Contains(out, "found=object") {
		t.Errorf("warning missing fields: %q", out)
	}
}

func TestReduceFlags(t *testing.T) {
	s := Reduce([]*Declaration{
		{Defer: Bool(true), EncodeSpecialCharacters: Bool(true), PrioritizeSEOTags: true},
		{Defer: Bool(false)},
		{EncodeSpecialCharacters: Bool(false)},
		{},
	})
	if s.Defer || s.Encode {
		t.Errorf("deepest explicit values should win, got defer=%v encode=%v", s.Defer, s.Encode)
	}
	if !s.PrioritizeSEOTags {
		t.Error("PrioritizeSEOTags should be true when any declaration sets it")
	}
}

func TestReduceOnChange(t *testing.T) {
	var calls []string
	outer := func(*State, TagNodes, TagNodes) { calls = append(calls, "outer") }
	inner := func(*State, TagNodes, TagNodes) { calls = append(calls, "inner") }

	s := Reduce([]*Declaration{
		{OnChangeClientState: outer},
		{OnChangeClientState: inner},
		{Title: TitleOf("no callback")},
	})
	s.OnChangeClientState(s, nil, nil)

	if !reflect.DeepEqual(calls, []string{"inner"}) {
		t.Errorf("calls = %v", calls)
	}
}

func TestReduceIsIdempotent(t *testing.T) {
	decls := []*Declaration{
		{Title: TitleOf("a"), Meta: Tags(Attrs{"name": "x", "content": "1"}), HTMLAttributes: Attrs{"lang": "en"}},
		{TitleTemplate: String("%s!"), Link: Tags(Attrs{"rel": "canonical", "href": "/c"})},
	}

	first := comparableState(Reduce(decls))
	second := comparableState(Reduce(decls))
	if !reflect.DeepEqual(first, second) {
		t.Errorf("reduce is not idempotent:\n%+v\n%+v", first, second)
	}
}

func TestReduceDoesNotAliasInputs(t *testing.T) {
	tag := Attrs{"name": "x", "content": "1"}
	s := Reduce([]*Declaration{{Meta: Tags(tag)}})

	s.MetaTags[0]["content"] = "changed"
	if tag["content"] != "1" {
		t.Error("reduced tags must not alias declaration tags")
	}
}

func TestStateEqual(t *testing.T) {
	decls := []*Declaration{{Title: TitleOf("x"), Meta: Tags(Attrs{"charset": "utf-8"})}}
	a := Reduce(decls)
	b := Reduce(append(decls, &Declaration{OnChangeClientState: func(*State, TagNodes, TagNodes) {}}))
	if !a.Equal(b) {
		t.Error("states differing only by callback should be equal")
	}
	c := Reduce(append(decls, &Declaration{Title: TitleOf("y")}))
	if a.Equal(c) {
		t.Error("states with different titles should differ")
	}
	var nilState *State
	if nilState.Equal(a) || !nilState.Equal(nil) {
		t.Error("unexpected nil comparison")
	}
}
