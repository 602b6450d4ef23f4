// Package config loads the sitec project configuration from sitec.yaml.
//
// The file is optional. Every field has a default matching the classic
// layout: a skeleton.json page tree, templates anywhere under the project
// root, output in out/ and static files in assets/.
//
// Example sitec.yaml:
//
//	out_dir: public
//	assets_dir: static
//	description: site.yaml      # format inferred from the extension
//	inject_skeleton: true
//	skeleton_var: _skeleton
//	data_var: _data
//	body_marker: <template-body>
//	max_include_depth: 64
//
// Setting assets_dir to "" disables the asset copy. Setting
// inject_skeleton to false leaves top-level pages with a script block
// holding only the bound data, if any.
//
// # Thread Safety
//
// Config values are read-only once loaded and may be shared freely.
package config
