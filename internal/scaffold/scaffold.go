// Package scaffold provides the embedded starter project written by
// sitec init. The project config is not part of it; init saves the
// defaults from the config package.
package scaffold

import (
	"bytes"
	"embed"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"

	siteerrors "github.com/ksyq12/sitec/internal/errors"
	"github.com/ksyq12/sitec/internal/logger"
)

// Files contains the starter project, rooted at "files".
//
//go:embed all:files
var Files embed.FS

const root = "files"

// Paths lists the slash-separated project paths of every starter file.
func Paths() ([]string, error) {
	var paths []string
	err := fs.WalkDir(Files, root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		paths = append(paths, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, siteerrors.Wrap(siteerrors.ErrCodeIO, "failed to read starter project", err)
	}
	return paths, nil
}

// Write creates the starter project under dir and returns the files it
// wrote. Nothing is written if any target already exists.
func Write(dir string) ([]string, error) {
	paths, err := Paths()
	if err != nil {
		return nil, err
	}

	if err := check(dir, paths); err != nil {
		return nil, err
	}

	written := make([]string, 0, len(paths))
	for _, p := range paths {
		target := filepath.Join(dir, filepath.FromSlash(p))
		if err := writeFile(root+"/"+p, target); err != nil {
			return written, err
		}
		logger.Debugw("created file", "path", target)
		written = append(written, target)
	}
	return written, nil
}

// check fails with ALREADY_EXISTS if any of the slash-separated paths
// exists under dir.
func check(dir string, paths []string) error {
	for _, p := range paths {
		target := filepath.Join(dir, filepath.FromSlash(p))
		if _, err := os.Stat(target); err == nil {
			return siteerrors.AlreadyExists(target)
		}
	}
	return nil
}

func writeFile(name, target string) error {
	content, err := Files.ReadFile(name)
	if err != nil {
		return siteerrors.WrapPath(siteerrors.ErrCodeIO, name, err)
	}
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return siteerrors.WrapPath(siteerrors.ErrCodeIO, target, err)
	}
	if err := atomic.WriteFile(target, bytes.NewReader(content)); err != nil {
		return siteerrors.WrapPath(siteerrors.ErrCodeIO, target, err)
	}
	if err := os.Chmod(target, 0644); err != nil {
		return siteerrors.WrapPath(siteerrors.ErrCodeIO, target, err)
	}
	return nil
}
