package compiler

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ksyq12/sitec/internal/config"
	siteerrors "github.com/ksyq12/sitec/internal/errors"
	"github.com/ksyq12/sitec/internal/logger"
	"github.com/ksyq12/sitec/internal/pagetree"
	"github.com/ksyq12/sitec/internal/template"
)

// newProject writes files under a temp project root and returns a config
// pointing at it.
func newProject(t *testing.T, files map[string]string) *config.Config {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	cfg := config.New()
	cfg.Root = root
	cfg.AssetsDir = ""
	return cfg
}

func readOut(t *testing.T, cfg *config.Config, rel string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(cfg.OutPath(), filepath.FromSlash(rel)))
	if err != nil {
		t.Fatalf("read output %s: %v", rel, err)
	}
	return string(data)
}

func TestBuildEndToEnd(t *testing.T) {
	skeleton := `{"home": {"template": "t/home.tmpl"}}`
	cfg := newProject(t, map[string]string{
		"skeleton.json": skeleton,
		"t/home.tmpl":   "<h1>Hi</h1>",
	})

	result, err := New(cfg).Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	got := readOut(t, cfg, "home/index.html")
	expected := "<script>const _skeleton=" + skeleton + ";</script><h1>Hi</h1>"
	if got != expected {
		t.Errorf("home/index.html = %q, want %q", got, expected)
	}

	if len(result.Pages) != 1 || result.Pages[0].SitePath != "/home" {
		t.Errorf("unexpected result %+v", result)
	}
	if result.Pages[0].Bytes != len(expected) {
		t.Errorf("Bytes = %d, want %d", result.Pages[0].Bytes, len(expected))
	}

	info, err := os.Stat(filepath.Join(cfg.OutPath(), "home", IndexFile))
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0644 {
		t.Errorf("index.html mode = %v, want 0644", info.Mode().Perm())
	}
}

func TestBuildNestedPages(t *testing.T) {
	cfg := newProject(t, map[string]string{
		"skeleton.json": `{
  "home": {
    "template": "pages/home.tmpl",
    "params": {"title": "Home"},
    "data": "/data/home.json",
    "subpages": {
      "about": {"template": "pages/about.tmpl", "params": {"title": "About"}}
    }
  }
}`,
		"pages/home.tmpl":    `<template-include src="layout.tmpl" param-title="$title"><p>welcome</p></template-include>`,
		"pages/about.tmpl":   `<template-include src="/pages/layout.tmpl" param-title="$title">about us</template-include>`,
		"pages/layout.tmpl":  "<title>$title</title><template-include src=\"nav.tmpl\"/><template-body>",
		"pages/nav.tmpl":     "<nav/>",
		"data/home.json":     `{"n":1}`,
	})

	var seen []string
	c := New(cfg)
	c.OnPage = func(pr PageResult) {
		seen = append(seen, pr.SitePath)
	}
	if _, err := c.Build(); err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	home := readOut(t, cfg, "home/index.html")
	if !strings.Contains(home, `const _data={"n":1};</script>`) {
		t.Errorf("home should bind data: %q", home)
	}
	if !strings.HasSuffix(home, "<title>Home</title><nav/><p>welcome</p>") {
		t.Errorf("unexpected home body: %q", home)
	}

	about := readOut(t, cfg, "home/about/index.html")
	if strings.Contains(about, "_data") {
		t.Errorf("about has no data file: %q", about)
	}
	if !strings.HasSuffix(about, "<title>About</title><nav/>about us") {
		t.Errorf("unexpected about body: %q", about)
	}

	if strings.Join(seen, ",") != "/home,/home/about" {
		t.Errorf("pages compiled in order %v", seen)
	}
}

func TestBuildYAMLDescription(t *testing.T) {
	cfg := newProject(t, map[string]string{
		"site.yaml": "- path: docs\n  template: t/doc.tmpl\n  params:\n    v: \"1\"\n",
		"t/doc.tmpl": "v$v",
	})
	cfg.Description = "site.yaml"

	if _, err := New(cfg).Build(); err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	got := readOut(t, cfg, "docs/index.html")
	expected := `<script>const _skeleton=[{"path":"docs","template":"t/doc.tmpl","params":{"v":"1"}}];</script>v1`
	if got != expected {
		t.Errorf("docs/index.html = %q, want %q", got, expected)
	}
}

func TestBuildWithoutSkeletonInjection(t *testing.T) {
	cfg := newProject(t, map[string]string{
		"skeleton.json": `{"home": {"template": "t/home.tmpl"}}`,
		"t/home.tmpl":   "hi",
	})
	cfg.InjectSkeleton = false

	if _, err := New(cfg).Build(); err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if got := readOut(t, cfg, "home/index.html"); got != "<script></script>hi" {
		t.Errorf("unexpected output %q", got)
	}
}

func TestBuildRootPage(t *testing.T) {
	cfg := newProject(t, map[string]string{
		"skeleton.json": `{"": {"template": "t/index.tmpl", "subpages": {"a": {"template": "t/index.tmpl"}}}}`,
		"t/index.tmpl":  "idx",
	})

	if _, err := New(cfg).Build(); err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if got := readOut(t, cfg, "index.html"); !strings.HasSuffix(got, "idx") {
		t.Errorf("unexpected root page %q", got)
	}
	if got := readOut(t, cfg, "a/index.html"); !strings.HasSuffix(got, "idx") {
		t.Errorf("unexpected subpage %q", got)
	}
}

func TestBuildEmptyTreeWarns(t *testing.T) {
	var buf bytes.Buffer
	logger.SetOutput(&buf)
	t.Cleanup(func() { logger.SetOutput(nil) })

	cfg := newProject(t, map[string]string{"skeleton.json": "{}"})
	result, err := New(cfg).Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if len(result.Pages) != 0 {
		t.Errorf("expected no pages, got %d", len(result.Pages))
	}
	if !strings.Contains(buf.String(), "describes no pages") {
		t.Errorf("expected an empty tree warning, got %q", buf.String())
	}
}

func TestBuildEscapedJSONStrings(t *testing.T) {
	cfg := newProject(t, map[string]string{
		"skeleton.json": `{"home": {"template": "t\/home.tmpl", "params": {"url": "https:\/\/example.com"}}}`,
		"t/home.tmpl":   `<a href="$url">`,
	})
	cfg.InjectSkeleton = false

	if _, err := New(cfg).Build(); err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if got := readOut(t, cfg, "home/index.html"); got != `<script></script><a href="https://example.com">` {
		t.Errorf("home/index.html = %q", got)
	}
}

func TestBuildIdempotent(t *testing.T) {
	cfg := newProject(t, map[string]string{
		"skeleton.json": `{"a": {"template": "t/a.tmpl", "params": {"x": "1"}, "subpages": {"b": {"template": "t/a.tmpl"}}}}`,
		"t/a.tmpl":      `<template-include src="part.tmpl" param-y="$x"/>`,
		"t/part.tmpl":   "y=$y",
	})

	if _, err := New(cfg).Build(); err != nil {
		t.Fatalf("first Build failed: %v", err)
	}
	first := readOut(t, cfg, "a/index.html") + readOut(t, cfg, "a/b/index.html")

	if _, err := New(cfg).Build(); err != nil {
		t.Fatalf("second Build failed: %v", err)
	}
	second := readOut(t, cfg, "a/index.html") + readOut(t, cfg, "a/b/index.html")

	if first != second {
		t.Errorf("rebuild changed output:\n%q\n%q", first, second)
	}
}

func TestBuildWipesStaleOutput(t *testing.T) {
	cfg := newProject(t, map[string]string{
		"skeleton.json":       `{"home": {"template": "t/home.tmpl"}}`,
		"t/home.tmpl":         "hi",
		"out/stale/index.html": "old",
	})

	if _, err := New(cfg).Build(); err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if _, err := os.Stat(filepath.Join(cfg.OutPath(), "stale")); !os.IsNotExist(err) {
		t.Errorf("stale output should be removed, stat err = %v", err)
	}
}

func TestBuildErrors(t *testing.T) {
	tests := []struct {
		name    string
		files   map[string]string
		target  error
		written []string
		absent  []string
	}{
		{
			name:   "missing description",
			files:  map[string]string{},
			target: siteerrors.ErrFileNotFound,
		},
		{
			name: "malformed description",
			files: map[string]string{
				"skeleton.json": `{"home": `,
			},
			target: siteerrors.ErrDescriptionInvalid,
		},
		{
			name: "missing template aborts the rest of the run",
			files: map[string]string{
				"skeleton.json": `{"a": {"template": "t/ok.tmpl"}, "b": {"template": "t/none.tmpl"}, "c": {"template": "t/ok.tmpl"}}`,
				"t/ok.tmpl":     "ok",
			},
			target:  siteerrors.ErrFileNotFound,
			written: []string{"a/index.html"},
			absent:  []string{"b", "c"},
		},
		{
			name: "missing data file",
			files: map[string]string{
				"skeleton.json": `{"a": {"template": "t/ok.tmpl", "data": "data/none.json"}}`,
				"t/ok.tmpl":     "ok",
			},
			target: siteerrors.ErrFileNotFound,
			absent: []string{"a"},
		},
		{
			name: "include without src",
			files: map[string]string{
				"skeleton.json": `{"a": {"template": "t/bad.tmpl"}}`,
				"t/bad.tmpl":    `<template-include param-x="1"/>`,
			},
			target: siteerrors.ErrMissingSrc,
		},
		{
			name: "empty subpage path collides with its parent",
			files: map[string]string{
				"skeleton.json": `{"a": {"template": "t/ok.tmpl", "subpages": {"": {"template": "t/ok.tmpl"}}}}`,
				"t/ok.tmpl":     "ok",
			},
			target:  siteerrors.ErrOutputCollision,
			written: []string{"a/index.html"},
		},
		{
			name: "nested path collides with a later page",
			files: map[string]string{
				"skeleton.json": `{"a/b": {"template": "t/ok.tmpl"}, "a": {"template": "t/ok.tmpl", "subpages": {"b": {"template": "t/ok.tmpl"}}}}`,
				"t/ok.tmpl":     "ok",
			},
			target:  siteerrors.ErrOutputCollision,
			written: []string{"a/b/index.html"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := newProject(t, tt.files)
			_, err := New(cfg).Build()
			if err == nil {
				t.Fatal("expected error")
			}
			if !siteerrors.Is(err, tt.target) {
				t.Errorf("expected %v class, got %v", tt.target, err)
			}
			for _, rel := range tt.written {
				if _, err := os.Stat(filepath.Join(cfg.OutPath(), rel)); err != nil {
					t.Errorf("%s should have been written before the failure: %v", rel, err)
				}
			}
			for _, rel := range tt.absent {
				if _, err := os.Stat(filepath.Join(cfg.OutPath(), rel)); !os.IsNotExist(err) {
					t.Errorf("%s should not exist after the failure", rel)
				}
			}
		})
	}
}

func TestBuildDuplicateYAMLPaths(t *testing.T) {
	cfg := newProject(t, map[string]string{
		"site.yaml": "- path: x\n  template: t.tmpl\n- path: x\n  template: t.tmpl\n",
		"t.tmpl":    "t",
	})
	cfg.Description = "site.yaml"

	_, err := New(cfg).Build()
	if !siteerrors.Is(err, siteerrors.ErrOutputCollision) {
		t.Errorf("expected collision, got %v", err)
	}
}

func TestBuildDuplicateJSONKeys(t *testing.T) {
	cfg := newProject(t, map[string]string{
		"skeleton.json": `{"x": {"template": "t.tmpl"}, "x": {"template": "t.tmpl"}}`,
		"t.tmpl":        "t",
	})

	_, err := New(cfg).Build()
	if !siteerrors.Is(err, siteerrors.ErrOutputCollision) {
		t.Errorf("expected collision, got %v", err)
	}
}

func TestCompilePageRejectsEscapingPath(t *testing.T) {
	cfg := newProject(t, map[string]string{"t.tmpl": "t"})
	c := New(cfg)

	err := c.CompilePage(&pagetree.Page{Path: "../escape", Template: "t.tmpl"}, "")
	var siteErr *siteerrors.SiteError
	if !siteerrors.As(err, &siteErr) || siteErr.Code != siteerrors.ErrCodeValidation {
		t.Errorf("expected VALIDATION error, got %v", err)
	}
}

// recordingResolver captures Resolve calls.
type recordingResolver struct {
	calls []string
	top   []bool
}

func (r *recordingResolver) Resolve(ctx template.Context, templatePath string, params template.Params, dataPath string, topLevel bool) (string, error) {
	r.calls = append(r.calls, templatePath+"|"+dataPath+"|"+params.Replace("$k"))
	r.top = append(r.top, topLevel)
	return "html", nil
}

func TestCompileTreeCallsResolverPerPage(t *testing.T) {
	cfg := newProject(t, nil)
	rec := &recordingResolver{}
	c := NewWithResolver(cfg, rec)

	pages := []*pagetree.Page{
		{Path: "a", Template: "a.tmpl", Params: template.Params{{Name: "k", Value: "v"}}, Subpages: []*pagetree.Page{
			{Path: "b", Template: "b.tmpl", Data: "b.json"},
		}},
		{Path: "c", Template: "c.tmpl"},
	}
	if err := c.CompileTree(pages, ""); err != nil {
		t.Fatalf("CompileTree failed: %v", err)
	}

	expected := []string{"a.tmpl||v", "b.tmpl|b.json|$k", "c.tmpl||$k"}
	if strings.Join(rec.calls, ",") != strings.Join(expected, ",") {
		t.Errorf("Resolve calls = %v, want %v", rec.calls, expected)
	}
	for i, top := range rec.top {
		if !top {
			t.Errorf("call %d should be top level", i)
		}
	}
	if n := len(c.Result().Pages); n != 3 {
		t.Errorf("expected 3 page results, got %d", n)
	}
}
