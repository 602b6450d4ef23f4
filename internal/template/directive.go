package template

import (
	"path"
	"regexp"
	"strings"
)

// A self-closing include must sit on one line. A body include runs to the
// last closing tag in the text.
var (
	selfClosingRe = regexp.MustCompile(`<template-include(.*?)/>`)
	bodyRe        = regexp.MustCompile(`(?s)<template-include(.*?)>(.*)</template-include>`)
	attrRe        = regexp.MustCompile(` *(src|param-[a-zA-Z0-9]+)="(.*?)"`)
)

const paramPrefix = "param-"

// Directive is one matched <template-include> element.
type Directive struct {
	Src     string
	Params  Params
	Body    string
	HasBody bool

	start, end int
}

// parseAttrs extracts src and the param-* attributes from the raw
// attribute text of a directive. Unknown attributes are ignored and a
// repeated attribute keeps its first position with its last value.
func parseAttrs(attrs string) (src string, params Params) {
	for _, m := range attrRe.FindAllStringSubmatch(attrs, -1) {
		key, val := m[1], m[2]
		if key == "src" {
			src = val
			continue
		}
		params = params.Set(strings.TrimPrefix(key, paramPrefix), val)
	}
	return src, params
}

// findDirectives returns every non-overlapping match of re in text, in
// order. re must capture the attribute text first and, for body
// directives, the body second.
func findDirectives(re *regexp.Regexp, text string) []Directive {
	matches := re.FindAllStringSubmatchIndex(text, -1)
	directives := make([]Directive, 0, len(matches))
	for _, m := range matches {
		src, params := parseAttrs(text[m[2]:m[3]])
		d := Directive{
			Src:    src,
			Params: params,
			start:  m[0],
			end:    m[1],
		}
		if len(m) >= 6 && m[4] >= 0 {
			d.Body = text[m[4]:m[5]]
			d.HasBody = true
		}
		directives = append(directives, d)
	}
	return directives
}

// FindSelfClosing returns the self-closing include directives in text.
func FindSelfClosing(text string) []Directive {
	return findDirectives(selfClosingRe, text)
}

// FindBody returns the body-carrying include directives in text.
func FindBody(text string) []Directive {
	return findDirectives(bodyRe, text)
}

// target resolves the directive's src against the directory of the
// including template. A leading slash keeps src root-relative.
func (d Directive) target(including string) string {
	if strings.HasPrefix(d.Src, "/") {
		return d.Src
	}
	return path.Join(path.Dir(including), d.Src)
}

// replaceDirectives rebuilds text with each directive swapped for the
// string expand returns. The first error aborts.
func replaceDirectives(text string, directives []Directive, expand func(Directive) (string, error)) (string, error) {
	if len(directives) == 0 {
		return text, nil
	}
	var b strings.Builder
	b.Grow(len(text))
	last := 0
	for _, d := range directives {
		expanded, err := expand(d)
		if err != nil {
			return "", err
		}
		b.WriteString(text[last:d.start])
		b.WriteString(expanded)
		last = d.end
	}
	b.WriteString(text[last:])
	return b.String(), nil
}
