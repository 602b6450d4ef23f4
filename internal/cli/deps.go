package cli

import (
	"context"

	"github.com/ksyq12/sitec/internal/compiler"
	"github.com/ksyq12/sitec/internal/config"
	"github.com/ksyq12/sitec/internal/input"
	"github.com/ksyq12/sitec/internal/preview"
	"github.com/ksyq12/sitec/internal/scaffold"
)

// Dependencies aggregates all CLI external dependencies for testability
type Dependencies struct {
	ConfigLoader    ConfigLoader
	CompilerFactory CompilerFactory
	Scaffolder      Scaffolder
	ServerFactory   ServerFactory
	StdinReader     input.Reader
}

// ConfigLoader handles configuration loading and saving
type ConfigLoader interface {
	Load(root, file string) (*config.Config, error)
	Save(cfg *config.Config) error
}

// Builder runs one site build
type Builder interface {
	Build() (*compiler.Result, error)
}

// CompilerFactory creates builders. onPage may be nil.
type CompilerFactory interface {
	Create(cfg *config.Config, onPage func(compiler.PageResult)) Builder
}

// Scaffolder writes the starter project
type Scaffolder interface {
	Write(dir string) ([]string, error)
}

// Server serves a directory until its context is cancelled
type Server interface {
	Serve(ctx context.Context, addr string) error
}

// ServerFactory creates preview servers
type ServerFactory interface {
	Create(dir string) Server
}

// Package-level dependencies (can be overridden for testing)
var deps = &Dependencies{
	ConfigLoader:    &realConfigLoader{},
	CompilerFactory: &realCompilerFactory{},
	Scaffolder:      &realScaffolder{},
	ServerFactory:   &realServerFactory{},
	StdinReader:     input.NewStdinReader(),
}

// Real implementations that delegate to existing functions

type realConfigLoader struct{}

func (r *realConfigLoader) Load(root, file string) (*config.Config, error) {
	return config.Load(root, file)
}

func (r *realConfigLoader) Save(cfg *config.Config) error {
	return cfg.Save()
}

type realCompilerFactory struct{}

func (r *realCompilerFactory) Create(cfg *config.Config, onPage func(compiler.PageResult)) Builder {
	c := compiler.New(cfg)
	c.OnPage = onPage
	return c
}

type realScaffolder struct{}

func (r *realScaffolder) Write(dir string) ([]string, error) {
	return scaffold.Write(dir)
}

type realServerFactory struct{}

func (r *realServerFactory) Create(dir string) Server {
	return preview.New(dir)
}
