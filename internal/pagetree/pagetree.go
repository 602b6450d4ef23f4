// Package pagetree loads the page-tree description that drives a build.
//
// Two equivalent forms are accepted. The JSON form nests pages in objects
// keyed by path segment:
//
//	{
//	  "home": {
//	    "template": "templates/home.tmpl",
//	    "params": {"title": "Home"},
//	    "data": "data/home.json",
//	    "subpages": {
//	      "about": {"template": "templates/about.tmpl"}
//	    }
//	  }
//	}
//
// The YAML form lists pages with an explicit path:
//
//	- path: home
//	  template: templates/home.tmpl
//	  subpages:
//	    - path: about
//	      template: templates/about.tmpl
//
// Either form may use either shape; the format only picks the parser and
// how the skeleton is serialized for injection. YAML is decoded by yaml.v3
// and JSON by a token reader; both yield yaml.v3 nodes so document order
// is preserved for pages and params.
package pagetree

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	siteerrors "github.com/ksyq12/sitec/internal/errors"
	"github.com/ksyq12/sitec/internal/template"
)

// Description formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Page is one node of the page tree.
type Page struct {
	Path     string          `json:"path"`
	Template string          `json:"template"`
	Params   template.Params `json:"params,omitempty"`
	Data     string          `json:"data,omitempty"`
	Subpages []*Page         `json:"subpages,omitempty"`

	line int
}

// Tree is a loaded description.
type Tree struct {
	Pages  []*Page
	Format string
	Source string
	Raw    []byte
}

// Load reads and parses the description at path. An empty format is
// inferred from the file extension.
func Load(path, format string) (*Tree, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, siteerrors.NotFound(path, err)
		}
		return nil, siteerrors.WrapPath(siteerrors.ErrCodeIO, path, err)
	}
	if format == "" {
		format = FormatFromPath(path)
	}
	return Parse(raw, format, path)
}

// FormatFromPath infers the description format from a file name.
func FormatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatJSON
	}
}

// Parse decodes a description. source names it in error messages.
func Parse(raw []byte, format, source string) (*Tree, error) {
	var root *yaml.Node
	switch format {
	case FormatJSON:
		if err := checkJSON(raw, source); err != nil {
			return nil, err
		}
		node, err := decodeJSON(raw)
		if err != nil {
			return nil, siteerrors.Parse(source, "malformed JSON", err)
		}
		root = node
	case FormatYAML:
		var doc yaml.Node
		if err := yaml.Unmarshal(raw, &doc); err != nil {
			return nil, siteerrors.Parse(source, "malformed description", err)
		}
		if len(doc.Content) > 0 {
			root = doc.Content[0]
		}
	default:
		return nil, siteerrors.Parse(source, fmt.Sprintf("unknown description format %q", format), nil)
	}

	tree := &Tree{Format: format, Source: source, Raw: raw}
	if root == nil {
		return tree, nil
	}

	p := &parser{source: source}
	pages, err := p.pages(root)
	if err != nil {
		return nil, err
	}
	tree.Pages = pages
	return tree, nil
}

// checkJSON validates a JSON description and reports the line of the
// first syntax error.
func checkJSON(raw []byte, source string) error {
	var v interface{}
	err := json.Unmarshal(raw, &v)
	if err == nil {
		return nil
	}
	var syntaxErr *json.SyntaxError
	if siteerrors.As(err, &syntaxErr) {
		line := 1 + bytes.Count(raw[:clampOffset(syntaxErr.Offset, len(raw))], []byte("\n"))
		return siteerrors.Parse(source, fmt.Sprintf("line %d: malformed JSON", line), err)
	}
	return siteerrors.Parse(source, "malformed JSON", err)
}

func clampOffset(offset int64, n int) int {
	if offset < 0 {
		return 0
	}
	if offset > int64(n) {
		return n
	}
	return int(offset)
}

type parser struct {
	source string
}

func (p *parser) errorf(node *yaml.Node, format string, args ...interface{}) error {
	return siteerrors.Parse(p.source, fmt.Sprintf("line %d: ", node.Line)+fmt.Sprintf(format, args...), nil)
}

// pages decodes a page collection: a mapping keyed by path segment or a
// sequence of pages carrying a path field.
func (p *parser) pages(node *yaml.Node) ([]*Page, error) {
	switch {
	case isNull(node):
		return nil, nil
	case node.Kind == yaml.MappingNode:
		pages := make([]*Page, 0, len(node.Content)/2)
		for i := 0; i+1 < len(node.Content); i += 2 {
			key, value := node.Content[i], node.Content[i+1]
			if key.Kind != yaml.ScalarNode {
				return nil, p.errorf(key, "page key must be a string")
			}
			page, err := p.page(value, key.Value, false)
			if err != nil {
				return nil, err
			}
			pages = append(pages, page)
		}
		return pages, nil
	case node.Kind == yaml.SequenceNode:
		pages := make([]*Page, 0, len(node.Content))
		for _, item := range node.Content {
			page, err := p.page(item, "", true)
			if err != nil {
				return nil, err
			}
			pages = append(pages, page)
		}
		return pages, nil
	default:
		return nil, p.errorf(node, "pages must be an object or a list")
	}
}

func (p *parser) page(node *yaml.Node, path string, needPath bool) (*Page, error) {
	if node.Kind != yaml.MappingNode {
		return nil, p.errorf(node, "page %q must be an object", path)
	}

	page := &Page{Path: path, line: node.Line}
	hasPath := false
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		switch key.Value {
		case "path":
			s, err := p.scalar(value, "path")
			if err != nil {
				return nil, err
			}
			page.Path = s
			hasPath = true
		case "template":
			s, err := p.scalar(value, "template")
			if err != nil {
				return nil, err
			}
			page.Template = s
		case "data":
			s, err := p.scalar(value, "data")
			if err != nil {
				return nil, err
			}
			page.Data = s
		case "params":
			params, err := p.params(value)
			if err != nil {
				return nil, err
			}
			page.Params = params
		case "subpages":
			subpages, err := p.pages(value)
			if err != nil {
				return nil, err
			}
			page.Subpages = subpages
		}
	}

	if needPath && !hasPath {
		return nil, p.errorf(node, "page is missing path")
	}
	if page.Template == "" {
		return nil, p.errorf(node, "page %q is missing template", page.Path)
	}
	return page, nil
}

func (p *parser) scalar(node *yaml.Node, field string) (string, error) {
	if isNull(node) {
		return "", nil
	}
	if node.Kind != yaml.ScalarNode {
		return "", p.errorf(node, "%s must be a string", field)
	}
	return node.Value, nil
}

// params keeps document order. Non-string scalars are taken literally.
func (p *parser) params(node *yaml.Node) (template.Params, error) {
	if isNull(node) {
		return nil, nil
	}
	if node.Kind != yaml.MappingNode {
		return nil, p.errorf(node, "params must be an object")
	}
	var params template.Params
	for i := 0; i+1 < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		if key.Kind != yaml.ScalarNode {
			return nil, p.errorf(key, "param name must be a string")
		}
		if value.Kind != yaml.ScalarNode {
			return nil, p.errorf(value, "param %q must be a string", key.Value)
		}
		params = params.Set(key.Value, value.Value)
	}
	return params, nil
}

func isNull(node *yaml.Node) bool {
	return node.Kind == yaml.ScalarNode && node.Tag == "!!null"
}

// Skeleton returns the serialized tree bound at the top of every page. A
// JSON description is injected verbatim; a YAML one is re-encoded as JSON
// so it is a valid script literal.
func (t *Tree) Skeleton() (string, error) {
	if t.Format == FormatJSON && len(t.Raw) > 0 {
		return string(t.Raw), nil
	}
	pages := t.Pages
	if pages == nil {
		pages = []*Page{}
	}
	data, err := json.Marshal(pages)
	if err != nil {
		return "", siteerrors.Wrap(siteerrors.ErrCodeParse, "failed to serialize skeleton", err)
	}
	return string(data), nil
}

// JoinPath appends a page's segment to an accumulated site path. A root
// page with an empty segment yields "/", and its children "/child".
func JoinPath(prefix, segment string) string {
	return strings.TrimSuffix(prefix, "/") + "/" + segment
}

// Walk visits every page depth-first, parents before children, passing
// the accumulated site path. The first error stops the walk.
func (t *Tree) Walk(fn func(sitePath string, page *Page) error) error {
	return walk(t.Pages, "", fn)
}

func walk(pages []*Page, prefix string, fn func(string, *Page) error) error {
	for _, page := range pages {
		sitePath := JoinPath(prefix, page.Path)
		if err := fn(sitePath, page); err != nil {
			return err
		}
		if err := walk(page.Subpages, sitePath, fn); err != nil {
			return err
		}
	}
	return nil
}

// Count returns the number of pages in the tree.
func (t *Tree) Count() int {
	n := 0
	_ = t.Walk(func(string, *Page) error {
		n++
		return nil
	})
	return n
}

// Line returns the description line the page was declared on, or 0.
func (p *Page) Line() int {
	return p.line
}
