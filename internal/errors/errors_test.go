package errors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		wantMsg string
		wantCat Category
	}{
		{
			name:    "config error",
			code:    "H101",
			wantMsg: "Invalid config file syntax",
			wantCat: CategoryConfig,
		},
		{
			name:    "declaration error",
			code:    "H201",
			wantMsg: "Invalid declaration file syntax",
			wantCat: CategoryDeclaration,
		},
		{
			name:    "document error",
			code:    "H300",
			wantMsg: "Cannot read document",
			wantCat: CategoryDocument,
		},
		{
			name:    "unknown error code",
			code:    "H999",
			wantMsg: "Unknown error",
			wantCat: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code)
			if err.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", err.Message, tt.wantMsg)
			}
			if err.Category != tt.wantCat {
				t.Errorf("Category = %q, want %q", err.Category, tt.wantCat)
			}
			if err.Code != tt.code {
				t.Errorf("Code = %q, want %q", err.Code, tt.code)
			}
		})
	}
}

func TestNewf(t *testing.T) {
	err := Newf(CategoryCLI, "file %q not found", "home.yaml")
	if err.Message != `file "home.yaml" not found` {
		t.Errorf("Message = %q", err.Message)
	}
	if err.Category != CategoryCLI {
		t.Errorf("Category = %q, want %q", err.Category, CategoryCLI)
	}
}

func TestError_Error(t *testing.T) {
	if got, want := New("H200").Error(), "H200: Declaration file not found"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	cause := stderrors.New("permission denied")
	if got, want := New("H200").Wrap(cause).Error(), "H200: Declaration file not found: permission denied"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	plain := &Error{Message: "test error"}
	if plain.Error() != "test error" {
		t.Errorf("Error() = %q, want %q", plain.Error(), "test error")
	}
}

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

const sampleYAML = `title: Home
meta:
  - name: description
    content: [
link:
  - rel: canonical
`

func TestError_WithLocation(t *testing.T) {
	path := writeTemp(t, "home.yaml", sampleYAML)

	err := New("H201").WithLocation(path, 4, 14)

	if err.Location == nil {
		t.Fatal("Location is nil")
	}
	if err.Location.Line != 4 || err.Location.Column != 14 {
		t.Errorf("Location = %v", err.Location)
	}
	if len(err.Context) != 5 {
		t.Fatalf("Context = %d lines, want 5", len(err.Context))
	}
	if err.Context[2] != "    content: [" {
		t.Errorf("Context[2] = %q", err.Context[2])
	}
}

func TestError_WithLocationFromYAMLError(t *testing.T) {
	path := writeTemp(t, "home.yaml", "title: [a\nmeta: 1\n")

	var v any
	yamlErr := yaml.Unmarshal([]byte("title: [a\nmeta: 1\n"), &v)
	if yamlErr == nil {
		t.Fatal("expected YAML error")
	}

	err := New("H201").WithLocationFromError(path, yamlErr)
	if err.Location == nil || err.Location.File != path {
		t.Fatalf("Location = %v", err.Location)
	}
	if err.Location.Line == 0 {
		t.Fatalf("expected a line from %q", yamlErr)
	}
}

func TestError_WithLocationFromJSONError(t *testing.T) {
	content := "{\n  \"title\": \"Home\",\n  \"meta\": [}\n}\n"
	path := writeTemp(t, "home.json", content)

	var v any
	jsonErr := json.Unmarshal([]byte(content), &v)
	if jsonErr == nil {
		t.Fatal("expected JSON error")
	}

	err := New("H201").WithLocationFromError(path, fmt.Errorf("decode: %w", jsonErr))
	if err.Location == nil || err.Location.Line != 3 {
		t.Fatalf("Location = %v, want line 3", err.Location)
	}
}

func TestError_WithLocationFromError_NoPosition(t *testing.T) {
	err := New("H200").WithLocationFromError("missing.yaml", stderrors.New("no such file"))
	if err.Location == nil || err.Location.String() != "missing.yaml" {
		t.Fatalf("Location = %v", err.Location)
	}

	if New("H200").WithLocationFromError("x", nil).Location != nil {
		t.Fatal("nil error should not set a location")
	}
}

func TestLineColumn(t *testing.T) {
	data := []byte("ab\ncd\nef")
	tests := []struct {
		offset       int64
		line, column int
	}{
		{0, 1, 1},
		{2, 1, 3},
		{3, 2, 1},
		{7, 3, 2},
		{100, 3, 3},
		{-1, 1, 1},
	}
	for _, tt := range tests {
		line, col := LineColumn(data, tt.offset)
		if line != tt.line || col != tt.column {
			t.Errorf("LineColumn(%d) = %d:%d, want %d:%d", tt.offset, line, col, tt.line, tt.column)
		}
	}
}

func TestError_Builders(t *testing.T) {
	err := New("H102").
		WithDetail("Custom detail").
		WithSuggestion("Use a positive port").
		WithContext([]string{"a"})

	if err.Detail != "Custom detail" {
		t.Errorf("Detail = %q", err.Detail)
	}
	if err.Suggestion != "Use a positive port" {
		t.Errorf("Suggestion = %q", err.Suggestion)
	}
	if len(err.Context) != 1 {
		t.Errorf("Context = %v", err.Context)
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := os.ErrNotExist
	err := New("H200").Wrap(cause)

	if !stderrors.Is(err, os.ErrNotExist) {
		t.Error("errors.Is should see the wrapped error")
	}
	if CodeOf(fmt.Errorf("load: %w", err)) != "H200" {
		t.Error("CodeOf should find the code through wrapping")
	}
	if CodeOf(cause) != "" {
		t.Error("CodeOf of a plain error should be empty")
	}
}

func TestFromError(t *testing.T) {
	if FromError(nil, "H200") != nil {
		t.Error("FromError(nil, ...) should return nil")
	}

	e := New("H200")
	if FromError(fmt.Errorf("wrapped: %w", e), "H201") != e {
		t.Error("FromError should return an existing Error as-is")
	}

	std := stderrors.New("boom")
	if got := FromError(std, "H300"); got.Wrapped != std || got.Code != "H300" {
		t.Errorf("FromError(std) = %+v", got)
	}
}

func TestLocation_String(t *testing.T) {
	tests := []struct {
		name string
		loc  *Location
		want string
	}{
		{"nil location", nil, ""},
		{"file only", &Location{File: "home.yaml"}, "home.yaml"},
		{"with column", &Location{File: "home.yaml", Line: 10, Column: 5}, "home.yaml:10:5"},
		{"without column", &Location{File: "home.yaml", Line: 10}, "home.yaml:10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.loc.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormat(t *testing.T) {
	DisableColors()
	defer EnableColors()

	path := writeTemp(t, "home.yaml", sampleYAML)
	err := New("H201").
		WithLocation(path, 4, 14).
		WithSuggestion("Close the list").
		Wrap(stderrors.New("did not find expected node content"))

	formatted := err.Format()

	for _, want := range []string{
		"ERROR H201: Invalid declaration file syntax",
		path + ":4:14",
		"→    4 │     content: [",
		"             ^",
		"Cause: did not find expected node content",
		"Hint: Close the list",
	} {
		if !strings.Contains(formatted, want) {
			t.Errorf("Format() missing %q:\n%s", want, formatted)
		}
	}
}

func TestFormatCompact(t *testing.T) {
	err := New("H201").WithLocation("home.yaml", 10, 5)

	want := "home.yaml:10:5: H201: Invalid declaration file syntax"
	if got := err.FormatCompact(); got != want {
		t.Errorf("FormatCompact() = %q, want %q", got, want)
	}
}

func TestFormatJSON(t *testing.T) {
	err := New("H201").WithLocation("home.yaml", 10, 5).Wrap(stderrors.New("bad"))

	var got map[string]any
	if jerr := json.Unmarshal([]byte(err.FormatJSON()), &got); jerr != nil {
		t.Fatalf("FormatJSON is not JSON: %v", jerr)
	}
	if got["code"] != "H201" || got["category"] != "declaration" || got["cause"] != "bad" {
		t.Errorf("FormatJSON() = %v", got)
	}
	loc, _ := got["location"].(map[string]any)
	if loc["file"] != "home.yaml" || loc["line"] != float64(10) {
		t.Errorf("location = %v", loc)
	}
}

func TestPrint(t *testing.T) {
	DisableColors()
	defer EnableColors()

	var b strings.Builder
	Print(&b, New("H400"))
	if !strings.Contains(b.String(), "ERROR H400: Invalid arguments") {
		t.Errorf("Print(Error) = %q", b.String())
	}

	b.Reset()
	Print(&b, stderrors.New("plain"))
	if !strings.Contains(b.String(), "ERROR: plain") {
		t.Errorf("Print(plain) = %q", b.String())
	}
}

func TestRegistry(t *testing.T) {
	codes := GetAllCodes()
	if len(codes) == 0 || codes[0] != "H100" {
		t.Fatalf("GetAllCodes() = %v", codes)
	}
	for _, code := range codes {
		tmpl, _ := GetTemplate(code)
		if tmpl.Message == "" || tmpl.Category == "" {
			t.Errorf("%s: incomplete template %+v", code, tmpl)
		}
	}

	if _, ok := GetTemplate("H999"); ok {
		t.Error("H999 should not exist")
	}

	Register("H999", ErrorTemplate{Category: CategoryCLI, Message: "Custom test error"})
	defer delete(registry, "H999")
	if New("H999").Message != "Custom test error" {
		t.Error("registered template not used")
	}
}

func TestWrapText(t *testing.T) {
	if got := wrapText("short text", 100); len(got) != 1 || got[0] != "short text" {
		t.Errorf("wrapText short text: got %v", got)
	}
	if got := wrapText("this is a longer text that should be wrapped", 20); len(got) != 3 {
		t.Errorf("wrapText long text: expected 3 lines, got %d: %v", len(got), got)
	}
	if got := wrapText("", 10); len(got) != 0 {
		t.Errorf("wrapText empty: expected empty, got %v", got)
	}
}

func TestColorFunctions(t *testing.T) {
	EnableColors()
	if !strings.Contains(red("test"), "\033[31m") {
		t.Error("red should contain ANSI code when colors enabled")
	}

	DisableColors()
	if strings.Contains(red("test"), "\033[") {
		t.Error("red should not contain ANSI code when colors disabled")
	}
	EnableColors()
}
