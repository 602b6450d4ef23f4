// Package template expands sitec templates into fully resolved HTML.
//
// A template is plain markup with two extensions. The first is a parameter
// placeholder:
//
//	<h1>$title</h1>
//
// The second is an include directive, which is either self-closing or
// carries a body:
//
//	<template-include src="nav.tmpl" param-active="home"/>
//
//	<template-include src="/layouts/base.tmpl" param-title="Home">
//	  <p>page content</p>
//	</template-include>
//
// A src without a leading slash is relative to the directory of the
// template containing the directive. A leading slash means relative to the
// project root. The target of a body-carrying include holds a body marker
// (<template-body> by default) that receives the directive's body.
//
// # Pipeline
//
// Resolve runs a fixed sequence of string stages over the template text:
//
//  1. parameter substitution, one pass in parameter order
//  2. self-closing includes, each resolved recursively
//  3. body-carrying includes, each resolved recursively, then body spliced
//  4. script injection, top-level pages only
//
// Substitution runs before directive scanning, so a parameter may choose
// which template an include pulls in. Substituted values are never scanned
// again for placeholders.
//
// Directives are matched with regular expressions, not parsed. A
// self-closing directive must fit on one line. A body-carrying directive
// extends to the last closing tag in the template.
//
// # Script Injection
//
// Top-level output is prefixed with one script element binding the
// serialized page tree and, if the page names a data file, that file's raw
// contents:
//
//	<script>const _skeleton={...};const _data={...};</script>
package template
