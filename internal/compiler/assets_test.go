package compiler

import (
	"os"
	"path/filepath"
	"testing"

	siteerrors "github.com/ksyq12/sitec/internal/errors"
)

func TestBuildCopiesAssets(t *testing.T) {
	cfg := newProject(t, map[string]string{
		"skeleton.json":        `{"home": {"template": "t/home.tmpl"}}`,
		"t/home.tmpl":          "hi",
		"assets/app.js":        "console.log(_skeleton)",
		"assets/css/site.css":  "body{}",
	})
	cfg.AssetsDir = "assets"

	result, err := New(cfg).Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if got := readOut(t, cfg, "assets/app.js"); got != "console.log(_skeleton)" {
		t.Errorf("unexpected app.js %q", got)
	}
	if got := readOut(t, cfg, "assets/css/site.css"); got != "body{}" {
		t.Errorf("unexpected site.css %q", got)
	}
	if result.Assets != filepath.Join(cfg.OutPath(), "assets") {
		t.Errorf("Assets = %q", result.Assets)
	}
}

func TestBuildKeepsAssetModes(t *testing.T) {
	cfg := newProject(t, map[string]string{
		"skeleton.json": `{}`,
		"assets/run.sh": "#!/bin/sh",
	})
	cfg.AssetsDir = "assets"
	if err := os.Chmod(filepath.Join(cfg.Root, "assets", "run.sh"), 0755); err != nil {
		t.Fatal(err)
	}

	if _, err := New(cfg).Build(); err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	info, err := os.Stat(filepath.Join(cfg.OutPath(), "assets", "run.sh"))
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm() != 0755 {
		t.Errorf("mode = %v, want 0755", info.Mode().Perm())
	}
}

func TestBuildAssetErrors(t *testing.T) {
	t.Run("missing assets directory", func(t *testing.T) {
		cfg := newProject(t, map[string]string{"skeleton.json": `{}`})
		cfg.AssetsDir = "assets"

		_, err := New(cfg).Build()
		if !siteerrors.Is(err, siteerrors.ErrFileNotFound) {
			t.Errorf("expected NOT_FOUND, got %v", err)
		}
	})

	t.Run("page named like the assets directory", func(t *testing.T) {
		cfg := newProject(t, map[string]string{
			"skeleton.json": `{"assets": {"template": "t.tmpl"}}`,
			"t.tmpl":        "t",
			"assets/a.js":   "a",
		})
		cfg.AssetsDir = "assets"

		_, err := New(cfg).Build()
		if !siteerrors.Is(err, siteerrors.ErrOutputCollision) {
			t.Errorf("expected collision, got %v", err)
		}
	})
}
