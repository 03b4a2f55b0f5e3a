package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/net/html"

	"github.com/vango-dev/vhead"
	"github.com/vango-dev/vhead/internal/errors"
	"github.com/vango-dev/vhead/pkg/dom"
	"github.com/vango-dev/vhead/pkg/vdom"
)

// placeholderBody is served when no body file is configured.
const placeholderBody = `<main><p>vhead preview</p></main>`

// headConfig returns the SSR configuration every page head starts from.
func (a *app) headConfig() vhead.Config {
	return vhead.Config{
		SSR:      true,
		Defaults: a.cfg.Defaults,
		SEORules: a.cfg.SEORules(),
		Logger:   a.logger,
	}
}

// loadBody reads the body element of an HTML file. The returned node
// holds the body's children as raw markup.
func loadBody(path string) (*vdom.VNode, error) {
	if path == "" {
		return vdom.Raw(placeholderBody), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New("H300").WithFile(path).Wrap(err)
	}
	doc, err := dom.ParseString(string(data))
	if err != nil {
		return nil, errors.New("H300").WithFile(path).Wrap(err)
	}

	var buf bytes.Buffer
	for c := doc.Body().FirstChild; c != nil; c = c.NextSibling {
		if err := html.Render(&buf, c); err != nil {
			return nil, errors.New("H300").WithFile(path).Wrap(err)
		}
	}
	return vdom.Raw(strings.TrimSpace(buf.String())), nil
}

// pageName derives a page name from a declaration file path.
func pageName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// uniqueNames maps every file to its page name, suffixing duplicates.
func uniqueNames(files []string) []string {
	names := make([]string, len(files))
	seen := make(map[string]int)
	for i, f := range files {
		name := pageName(f)
		seen[name]++
		if n := seen[name]; n > 1 {
			name = fmt.Sprintf("%s-%d", name, n)
		}
		names[i] = name
	}
	return names
}
