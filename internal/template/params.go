package template

import (
	"bytes"
	"encoding/json"
	"strings"
)

// Param is one named substitution value.
type Param struct {
	Name  string
	Value string
}

// Params is an ordered parameter set. Order is significant: Replace
// substitutes in slice order.
type Params []Param

// Set assigns name, overwriting an existing entry in place so the
// original position is kept.
func (p Params) Set(name, value string) Params {
	for i := range p {
		if p[i].Name == name {
			p[i].Value = value
			return p
		}
	}
	return append(p, Param{Name: name, Value: value})
}

// Replace substitutes every "$name" in text with its value in a single
// left-to-right pass. Matches never overlap and inserted values are never
// rescanned. Where two names match at the same position the earlier
// parameter wins, so with x before xy the text "$xy" becomes value(x)+"y".
func (p Params) Replace(text string) string {
	if len(p) == 0 {
		return text
	}
	pairs := make([]string, 0, 2*len(p))
	for _, param := range p {
		pairs = append(pairs, "$"+param.Name, param.Value)
	}
	return strings.NewReplacer(pairs...).Replace(text)
}

// MarshalJSON encodes p as a JSON object whose keys keep parameter order.
func (p Params) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, param := range p {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(param.Name)
		if err != nil {
			return nil, err
		}
		value, err := json.Marshal(param.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		buf.Write(value)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
