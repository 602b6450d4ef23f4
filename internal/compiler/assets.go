package compiler

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"

	siteerrors "github.com/ksyq12/sitec/internal/errors"
	"github.com/ksyq12/sitec/internal/logger"
)

// copyAssets copies the assets directory to <out>/<base name of assets>.
// The destination must not exist, so a page named like the assets
// directory is a collision.
func (c *Compiler) copyAssets() error {
	src := c.cfg.AssetsPath()
	if src == "" {
		logger.Debug("asset copy disabled")
		return nil
	}

	info, err := os.Stat(src)
	if err != nil {
		if os.IsNotExist(err) {
			return siteerrors.NotFound(src, err)
		}
		return siteerrors.WrapPath(siteerrors.ErrCodeIO, src, err)
	}
	if !info.IsDir() {
		return siteerrors.WrapPath(siteerrors.ErrCodeIO, src, fs.ErrInvalid)
	}

	dst := filepath.Join(c.outDir, filepath.Base(src))
	if _, err := os.Stat(dst); err == nil {
		return siteerrors.AlreadyExists(dst)
	}

	logger.Infow("copying assets", "from", src, "to", dst)
	if err := copyDir(src, dst); err != nil {
		return err
	}
	c.result.Assets = dst
	return nil
}

// copyDir copies the tree at src to dst, keeping file modes.
func copyDir(src, dst string) error {
	return filepath.WalkDir(src, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return siteerrors.WrapPath(siteerrors.ErrCodeIO, path, err)
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return siteerrors.WrapPath(siteerrors.ErrCodeIO, path, err)
		}
		target := filepath.Join(dst, rel)

		if d.IsDir() {
			if err := os.MkdirAll(target, 0755); err != nil {
				return siteerrors.WrapPath(siteerrors.ErrCodeIO, target, err)
			}
			return nil
		}
		return copyFile(path, target)
	})
}

func copyFile(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return siteerrors.WrapPath(siteerrors.ErrCodeIO, src, err)
	}

	f, err := os.Open(src)
	if err != nil {
		return siteerrors.WrapPath(siteerrors.ErrCodeIO, src, err)
	}
	defer f.Close()

	if err := atomic.WriteFile(dst, f); err != nil {
		return siteerrors.WrapPath(siteerrors.ErrCodeIO, dst, err)
	}
	if err := os.Chmod(dst, info.Mode().Perm()); err != nil {
		return siteerrors.WrapPath(siteerrors.ErrCodeIO, dst, err)
	}
	return nil
}
