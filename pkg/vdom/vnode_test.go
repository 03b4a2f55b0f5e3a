package vdom

import (
	"reflect"
	"testing"
)

func TestVKindString(t *testing.T) {
	tests := []struct {
		kind VKind
		want string
	}{
		{KindElement, "Element"},
		{KindText, "Text"},
		{KindFragment, "Fragment"},
		{KindRaw, "Raw"},
		{VKind(255), "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.kind.String(); got != tt.want {
				t.Errorf("VKind.String() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPropsKeysSorted(t *testing.T) {
	p := Props{"name": "x", "content": "y", "data-rh": true}
	want := []string{"content", "data-rh", "name"}
	if got := p.Keys(); !reflect.DeepEqual(got, want) {
		t.Errorf("Keys() = %v, want %v", got, want)
	}
}

func TestPropsClone(t *testing.T) {
	var nilProps Props
	if nilProps.Clone() != nil {
		t.Error("Clone of nil props should be nil")
	}

	p := Props{"rel": "canonical"}
	c := p.Clone()
	c["rel"] = "stylesheet"
	if p["rel"] != "canonical" {
		t.Errorf("original mutated through clone: %v", p["rel"])
	}
}

func TestInnerHTML(t *testing.T) {
	node := Script(InnerHTML(`console.log("hi")`))
	got, ok := node.InnerHTML()
	if !ok || got != `console.log("hi")` {
		t.Errorf("InnerHTML() = %q, %v", got, ok)
	}

	var nilNode *VNode
	if _, ok := nilNode.InnerHTML(); ok {
		t.Error("nil node should have no inner HTML")
	}
}

func TestPropToString(t *testing.T) {
	tests := []struct {
		in   any
		want string
	}{
		{nil, ""},
		{"x", "x"},
		{true, "true"},
		{false, "false"},
		{42, "42"},
		{int64(7), "7"},
		{1.5, "1.5"},
	}
	for _, tt := range tests {
		if got := PropToString(tt.in); got != tt.want {
			t.Errorf("PropToString(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
