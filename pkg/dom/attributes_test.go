package dom

import (
	"testing"

	"golang.org/x/net/html"

	"github.com/vango-dev/vhead/pkg/head"
)

func TestSyncAttributes(t *testing.T) {
	doc, err := ParseString(`<html lang="en" class="server"><head></head><body></body></html>`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	el := doc.HTML()

	SyncAttributes(el, head.Attrs{"lang": "fr", "dir": "rtl"})
	assertAttr(t, el, "lang", "fr")
	assertAttr(t, el, "dir", "rtl")
	assertAttr(t, el, "class", "server")
	assertAttr(t, el, head.MarkerAttribute, "dir,lang")

	SyncAttributes(el, head.Attrs{"dir": "ltr"})
	assertAttr(t, el, "dir", "ltr")
	assertAttr(t, el, head.MarkerAttribute, "dir")
	if _, ok := GetAttr(el, "lang"); ok {
		t.Error("lang was listed by the marker and should be removed")
	}

	SyncAttributes(el, head.Attrs{})
	for _, key := range []string{"dir", head.MarkerAttribute} {
		if _, ok := GetAttr(el, key); ok {
			t.Errorf("%s should be removed", key)
		}
	}
	assertAttr(t, el, "class", "server")
}

func TestSyncAttributesMixedCaseKeys(t *testing.T) {
	doc, err := ParseString(`<html dataTheme="dark" data-rh="datatheme"><head></head><body></body></html>`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	el := doc.HTML()
	before := doc.String()

	SyncAttributes(el, head.Attrs{"dataTheme": "dark"})
	if got := doc.String(); got != before {
		t.Errorf("in-sync attributes were rewritten:\n%s\n%s", before, got)
	}

	SyncAttributes(el, head.Attrs{"dataTheme": "light"})
	assertAttr(t, el, "datatheme", "light")
	assertAttr(t, el, head.MarkerAttribute, "datatheme")
	if n := len(el.Attr); n != 2 {
		t.Errorf("got %d attributes, want 2: %v", n, el.Attr)
	}

	SyncAttributes(el, head.Attrs{})
	if _, ok := GetAttr(el, "datatheme"); ok {
		t.Error("datatheme was listed by the marker and should be removed")
	}
}

func TestSyncAttributesValues(t *testing.T) {
	doc := NewDocument()
	el := doc.Body()

	SyncAttributes(el, head.Attrs{"hidden": nil, "data-n": true})
	assertAttr(t, el, "hidden", "")
	assertAttr(t, el, "data-n", "true")
}

func TestSyncAttributesNilElement(t *testing.T) {
	SyncAttributes(nil, head.Attrs{"lang": "en"})
}

func assertAttr(t *testing.T, n *html.Node, key, want string) {
	t.Helper()
	got, ok := GetAttr(n, key)
	if !ok {
		t.Errorf("attribute %s missing", key)
		return
	}
	if got != want {
		t.Errorf("attribute %s = %q, want %q", key, got, want)
	}
}
