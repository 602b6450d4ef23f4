package cli

import (
	"context"
	"io"
	"strings"

	"github.com/ksyq12/sitec/internal/compiler"
	"github.com/ksyq12/sitec/internal/config"
)

// MockConfigLoader is a test double for ConfigLoader
type MockConfigLoader struct {
	Cfg       *config.Config
	LoadErr   error
	LoadCalls []string
	SaveErr   error
	Saved     []*config.Config
}

func (m *MockConfigLoader) Load(root, file string) (*config.Config, error) {
	m.LoadCalls = append(m.LoadCalls, root+"|"+file)
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	if m.Cfg == nil {
		m.Cfg = config.New()
		m.Cfg.Root = root
	}
	return m.Cfg, nil
}

func (m *MockConfigLoader) Save(cfg *config.Config) error {
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.Saved = append(m.Saved, cfg)
	return nil
}

// MockBuilder is a test double for Builder. Pages are reported through
// onPage before Result is returned.
type MockBuilder struct {
	Result *compiler.Result
	Err    error
	Calls  int
	onPage func(compiler.PageResult)
}

func (m *MockBuilder) Build() (*compiler.Result, error) {
	m.Calls++
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Result == nil {
		m.Result = &compiler.Result{Pages: []compiler.PageResult{}}
	}
	if m.onPage != nil {
		for _, pr := range m.Result.Pages {
			m.onPage(pr)
		}
	}
	return m.Result, nil
}

// MockCompilerFactory is a test double for CompilerFactory
type MockCompilerFactory struct {
	Builder *MockBuilder
	Configs []*config.Config
}

func (m *MockCompilerFactory) Create(cfg *config.Config, onPage func(compiler.PageResult)) Builder {
	m.Configs = append(m.Configs, cfg)
	if m.Builder == nil {
		m.Builder = &MockBuilder{}
	}
	m.Builder.onPage = onPage
	return m.Builder
}

// MockScaffolder is a test double for Scaffolder
type MockScaffolder struct {
	Files []string
	Err   error
	Dirs  []string
}

func (m *MockScaffolder) Write(dir string) ([]string, error) {
	m.Dirs = append(m.Dirs, dir)
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Files, nil
}

// MockServer is a test double for Server. Serve returns immediately.
type MockServer struct {
	Err   error
	Addrs []string
}

func (m *MockServer) Serve(ctx context.Context, addr string) error {
	m.Addrs = append(m.Addrs, addr)
	return m.Err
}

// MockServerFactory is a test double for ServerFactory
type MockServerFactory struct {
	Server *MockServer
	Dirs   []string
}

func (m *MockServerFactory) Create(dir string) Server {
	m.Dirs = append(m.Dirs, dir)
	if m.Server == nil {
		m.Server = &MockServer{}
	}
	return m.Server
}

// MockStdinReader is a test double for StdinReader
type MockStdinReader struct {
	Input string
	pos   int
}

func (m *MockStdinReader) ReadString(delim byte) (string, error) {
	if m.pos >= len(m.Input) {
		return "", io.EOF
	}
	idx := strings.IndexByte(m.Input[m.pos:], delim)
	if idx == -1 {
		result := m.Input[m.pos:]
		m.pos = len(m.Input)
		return result, nil
	}
	result := m.Input[m.pos : m.pos+idx+1]
	m.pos += idx + 1
	return result, nil
}

// MockDependenciesBuilder helps create mock dependencies for tests
type MockDependenciesBuilder struct {
	deps *Dependencies
}

// NewMockDeps creates a new MockDependenciesBuilder with sensible defaults
func NewMockDeps() *MockDependenciesBuilder {
	return &MockDependenciesBuilder{
		deps: &Dependencies{
			ConfigLoader:    &MockConfigLoader{Cfg: config.New()},
			CompilerFactory: &MockCompilerFactory{},
			Scaffolder:      &MockScaffolder{},
			ServerFactory:   &MockServerFactory{},
			StdinReader:     &MockStdinReader{Input: "y\n"},
		},
	}
}

// WithConfig sets the config for the mock
func (b *MockDependenciesBuilder) WithConfig(cfg *config.Config) *MockDependenciesBuilder {
	b.deps.ConfigLoader = &MockConfigLoader{Cfg: cfg}
	return b
}

// WithConfigLoader sets a custom config loader
func (b *MockDependenciesBuilder) WithConfigLoader(loader ConfigLoader) *MockDependenciesBuilder {
	b.deps.ConfigLoader = loader
	return b
}

// WithCompilerFactory sets a custom compiler factory
func (b *MockDependenciesBuilder) WithCompilerFactory(factory CompilerFactory) *MockDependenciesBuilder {
	b.deps.CompilerFactory = factory
	return b
}

// WithScaffolder sets a custom scaffolder
func (b *MockDependenciesBuilder) WithScaffolder(s Scaffolder) *MockDependenciesBuilder {
	b.deps.Scaffolder = s
	return b
}

// WithServerFactory sets a custom server factory
func (b *MockDependenciesBuilder) WithServerFactory(factory ServerFactory) *MockDependenciesBuilder {
	b.deps.ServerFactory = factory
	return b
}

// WithStdinInput sets the answers read from stdin
func (b *MockDependenciesBuilder) WithStdinInput(inputs ...string) *MockDependenciesBuilder {
	b.deps.StdinReader = &MockStdinReader{Input: strings.Join(inputs, "")}
	return b
}

// Build returns the configured Dependencies
func (b *MockDependenciesBuilder) Build() *Dependencies {
	return b.deps
}
