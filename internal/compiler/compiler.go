// Package compiler walks the page tree and writes one index.html per page.
//
// A build is fail-fast and has no rollback. The output root is wiped
// first, then pages are written depth-first, then the assets directory is
// copied in. The first error stops the build and leaves whatever was
// already written in place until the next build wipes it.
package compiler

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"

	"github.com/ksyq12/sitec/internal/config"
	siteerrors "github.com/ksyq12/sitec/internal/errors"
	"github.com/ksyq12/sitec/internal/logger"
	"github.com/ksyq12/sitec/internal/pagetree"
	"github.com/ksyq12/sitec/internal/template"
)

// IndexFile is the file written for every page.
const IndexFile = "index.html"

// Resolver expands one template. *template.Resolver implements it.
type Resolver interface {
	Resolve(ctx template.Context, templatePath string, params template.Params, dataPath string, topLevel bool) (string, error)
}

// PageResult describes one written page.
type PageResult struct {
	SitePath string `json:"path"`
	File     string `json:"file"`
	Template string `json:"template"`
	Data     string `json:"data,omitempty"`
	Bytes    int    `json:"bytes"`
}

// Result summarizes a build.
type Result struct {
	OutDir string       `json:"out_dir"`
	Pages  []PageResult `json:"pages"`
	Assets string       `json:"assets,omitempty"`
}

// Compiler builds a site for one project configuration.
type Compiler struct {
	cfg      *config.Config
	resolver Resolver
	outDir   string
	ctx      template.Context
	result   *Result

	// OnPage, if set, is called after each page is written.
	OnPage func(PageResult)
}

// New creates a Compiler resolving templates from the project root.
func New(cfg *config.Config) *Compiler {
	fsys := os.DirFS(cfg.Root)
	r := template.New(fsys,
		template.WithBodyMarker(cfg.BodyMarker),
		template.WithMaxDepth(cfg.MaxIncludeDepth),
	)
	return NewWithResolver(cfg, r)
}

// NewWithResolver creates a Compiler around an existing resolver.
func NewWithResolver(cfg *config.Config, r Resolver) *Compiler {
	return &Compiler{
		cfg:      cfg,
		resolver: r,
		outDir:   cfg.OutPath(),
		result:   &Result{OutDir: cfg.OutPath(), Pages: []PageResult{}},
	}
}

// Result returns the pages written so far.
func (c *Compiler) Result() *Result {
	return c.result
}

// Build runs a full clean build: wipe output, load the description,
// compile every page, copy assets.
func (c *Compiler) Build() (*Result, error) {
	logger.Infow("removing old output", "dir", c.outDir)
	if err := os.RemoveAll(c.outDir); err != nil {
		return nil, siteerrors.WrapPath(siteerrors.ErrCodeIO, c.outDir, err)
	}

	tree, err := pagetree.Load(c.cfg.DescriptionPath(), c.cfg.DescriptionFormat())
	if err != nil {
		return nil, err
	}
	logger.Infow("loaded page tree", "source", tree.Source, "format", tree.Format, "pages", tree.Count())
	if tree.Count() == 0 {
		logger.Warn("page tree %s describes no pages", tree.Source)
	}

	if err := c.Compile(tree); err != nil {
		return c.result, err
	}

	if err := c.copyAssets(); err != nil {
		return c.result, err
	}
	return c.result, nil
}

// Compile writes every page of tree under the output root. The output
// root is not wiped.
func (c *Compiler) Compile(tree *pagetree.Tree) error {
	skeleton, err := tree.Skeleton()
	if err != nil {
		return err
	}
	c.ctx = template.Context{
		Skeleton:       skeleton,
		InjectSkeleton: c.cfg.InjectSkeleton,
		SkeletonVar:    c.cfg.SkeletonVar,
		DataVar:        c.cfg.DataVar,
	}
	return c.CompileTree(tree.Pages, "")
}

// CompileTree compiles pages, and recursively their subpages, under the
// accumulated site path prefix.
func (c *Compiler) CompileTree(pages []*pagetree.Page, prefix string) error {
	for _, page := range pages {
		if err := c.CompilePage(page, prefix); err != nil {
			return err
		}
	}
	return nil
}

// CompilePage writes <out>/<prefix>/<page.Path>/index.html, then compiles
// the page's subpages. The page directory must not exist yet.
func (c *Compiler) CompilePage(page *pagetree.Page, prefix string) error {
	sitePath := pagetree.JoinPath(prefix, page.Path)
	logger.Infow("compiling page", "path", sitePath)

	dir, err := c.pageDir(sitePath)
	if err != nil {
		return err
	}

	html, err := c.resolver.Resolve(c.ctx, page.Template, page.Params, page.Data, true)
	if err != nil {
		return err
	}

	if err := createPageDir(dir); err != nil {
		return err
	}

	file := filepath.Join(dir, IndexFile)
	if err := writeFile(file, html); err != nil {
		return err
	}
	logger.Infow("wrote page", "out", file)

	pr := PageResult{
		SitePath: sitePath,
		File:     file,
		Template: page.Template,
		Data:     page.Data,
		Bytes:    len(html),
	}
	c.result.Pages = append(c.result.Pages, pr)
	if c.OnPage != nil {
		c.OnPage(pr)
	}

	return c.CompileTree(page.Subpages, sitePath)
}

// pageDir maps a site path onto the output root, refusing paths that
// would land outside it.
func (c *Compiler) pageDir(sitePath string) (string, error) {
	rel := strings.Trim(filepath.FromSlash(sitePath), string(filepath.Separator))
	if rel == "" {
		return c.outDir, nil
	}
	if !filepath.IsLocal(rel) {
		return "", siteerrors.Validation("page path " + sitePath + " escapes the output directory")
	}
	return filepath.Join(c.outDir, rel), nil
}

func createPageDir(dir string) error {
	if _, err := os.Stat(dir); err == nil {
		return siteerrors.AlreadyExists(dir)
	} else if !os.IsNotExist(err) {
		return siteerrors.WrapPath(siteerrors.ErrCodeIO, dir, err)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return siteerrors.WrapPath(siteerrors.ErrCodeIO, dir, err)
	}
	return nil
}

func writeFile(file, content string) error {
	if err := atomic.WriteFile(file, strings.NewReader(content)); err != nil {
		return siteerrors.WrapPath(siteerrors.ErrCodeIO, file, err)
	}
	// atomic.WriteFile creates new files 0600; pages must be world readable.
	if err := os.Chmod(file, 0644); err != nil {
		return siteerrors.WrapPath(siteerrors.ErrCodeIO, file, err)
	}
	return nil
}
