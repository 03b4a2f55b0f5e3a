// Package declfile loads head declarations from JSON and YAML files and
// watches them for changes.
//
// A file holds one declaration object or a list of declarations ordered
// outermost first:
//
//	[
//	  {"titleTemplate": "%s | Example", "meta": [{"charset": "utf-8"}]},
//	  {"title": "Home", "meta": [{"name": "description", "content": "The home page"}]}
//	]
//
// YAML files use the same field names.
package declfile

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/vango-dev/vhead/internal/errors"
	"github.com/vango-dev/vhead/pkg/head"
)

// Format is the encoding of a declaration file.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatOf returns the format implied by the extension of path.
func FormatOf(path string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, true
	case ".yaml", ".yml":
		return FormatYAML, true
	}
	return "", false
}

// Load reads the declarations in path.
func Load(path string) ([]*head.Declaration, error) {
	format, ok := FormatOf(path)
	if !ok {
		return nil, errors.New("H203").WithFile(path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.New("H200").WithFile(path).Wrap(err)
	}

	decls, err := Parse(data, format)
	if err != nil {
		var e *errors.Error
		if stderrors.As(err, &e) {
			return nil, e.WithLocationFromError(path, e.Wrapped)
		}
		return nil, err
	}
	return decls, nil
}

// LoadAll loads every file in order and concatenates the declarations,
// so later files nest deeper.
func LoadAll(paths ...string) ([]*head.Declaration, error) {
	var all []*head.Declaration
	for _, path := range paths {
		decls, err := Load(path)
		if err != nil {
			return nil, err
		}
		all = append(all, decls...)
	}
	return all, nil
}

// Parse decodes declarations. Empty input yields no declarations.
func Parse(data []byte, format Format) ([]*head.Declaration, error) {
	switch format {
	case FormatJSON:
		return parseJSON(data)
	case FormatYAML:
		return parseYAML(data)
	}
	return nil, errors.New("H203").WithDetail("Unknown format " + string(format))
}

func parseJSON(data []byte) ([]*head.Declaration, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, nil
	}

	var decls []*head.Declaration
	var err error
	if trimmed[0] == '[' {
		err = json.Unmarshal(data, &decls)
	} else {
		d := &head.Declaration{}
		if err = json.Unmarshal(data, d); err == nil {
			decls = []*head.Declaration{d}
		}
	}
	if err != nil {
		var syntaxErr *json.SyntaxError
		if stderrors.As(err, &syntaxErr) {
			return nil, errors.New("H201").Wrap(err)
		}
		return nil, errors.New("H202").Wrap(err)
	}
	return compact(decls), nil
}

func parseYAML(data []byte) ([]*head.Declaration, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.New("H201").Wrap(err)
	}
	if doc.Kind == 0 || len(doc.Content) == 0 {
		return nil, nil
	}

	root := doc.Content[0]
	if root.Kind == yaml.ScalarNode && root.Tag == "!!null" {
		return nil, nil
	}
	var decls []*head.Declaration
	switch root.Kind {
	case yaml.SequenceNode:
		if err := root.Decode(&decls); err != nil {
			return nil, errors.New("H202").Wrap(err)
		}
	case yaml.MappingNode:
		d := &head.Declaration{}
		if err := root.Decode(d); err != nil {
			return nil, errors.New("H202").Wrap(err)
		}
		decls = []*head.Declaration{d}
	default:
		return nil, errors.New("H202").
			WithSuggestion("Write a mapping of declaration fields or a list of them").
			Wrap(&positionError{line: root.Line, msg: "expected a declaration or a list of declarations, found " + kindName(root)})
	}
	return compact(decls), nil
}

// compact drops null list entries.
func compact(decls []*head.Declaration) []*head.Declaration {
	out := decls[:0]
	for _, d := range decls {
		if d != nil {
			out = append(out, d)
		}
	}
	return out
}

// positionError carries a YAML line in the form WithLocationFromError
// recognizes.
type positionError struct {
	line int
	msg  string
}

func (e *positionError) Error() string {
	return "line " + strconv.Itoa(e.line) + ": " + e.msg
}

func kindName(n *yaml.Node) string {
	switch n.Kind {
	case yaml.ScalarNode:
		return "a scalar"
	case yaml.AliasNode:
		return "an alias"
	}
	return "an unsupported node"
}
