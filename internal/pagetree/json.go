package pagetree

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// decodeJSON reads a JSON document into a yaml.Node tree with the same
// shape yaml.v3 produces, so both formats share one page parser. Object
// key order, duplicate keys and line numbers are kept.
func decodeJSON(raw []byte) (*yaml.Node, error) {
	d := &jsonDecoder{dec: json.NewDecoder(bytes.NewReader(raw)), raw: raw}
	d.dec.UseNumber()

	node, err := d.value()
	if err != nil {
		return nil, err
	}
	if _, err := d.dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("line %d: unexpected data after the top-level value", d.line())
	}
	return node, nil
}

type jsonDecoder struct {
	dec *json.Decoder
	raw []byte
}

// line is the line the last token ended on. JSON tokens never span lines.
func (d *jsonDecoder) line() int {
	offset := int(d.dec.InputOffset())
	if offset > len(d.raw) {
		offset = len(d.raw)
	}
	return 1 + bytes.Count(d.raw[:offset], []byte("\n"))
}

func (d *jsonDecoder) value() (*yaml.Node, error) {
	tok, err := d.dec.Token()
	if err != nil {
		return nil, err
	}
	line := d.line()

	switch t := tok.(type) {
	case json.Delim:
		switch t {
		case '{':
			node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map", Line: line}
			for d.dec.More() {
				keyTok, err := d.dec.Token()
				if err != nil {
					return nil, err
				}
				key, ok := keyTok.(string)
				if !ok {
					return nil, fmt.Errorf("line %d: object key must be a string", d.line())
				}
				keyNode := &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: key, Line: d.line()}
				val, err := d.value()
				if err != nil {
					return nil, err
				}
				node.Content = append(node.Content, keyNode, val)
			}
			if _, err := d.dec.Token(); err != nil {
				return nil, err
			}
			return node, nil
		case '[':
			node := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq", Line: line}
			for d.dec.More() {
				item, err := d.value()
				if err != nil {
					return nil, err
				}
				node.Content = append(node.Content, item)
			}
			if _, err := d.dec.Token(); err != nil {
				return nil, err
			}
			return node, nil
		}
		return nil, fmt.Errorf("line %d: unexpected %q", line, t)
	case string:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: t, Line: line}, nil
	case json.Number:
		tag := "!!int"
		if strings.ContainsAny(t.String(), ".eE") {
			tag = "!!float"
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: t.String(), Line: line}, nil
	case bool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: strconv.FormatBool(t), Line: line}, nil
	case nil:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null", Line: line}, nil
	}
	return nil, fmt.Errorf("line %d: unexpected token %v", line, tok)
}
