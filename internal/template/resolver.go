package template

import (
	"errors"
	"io/fs"
	"path"
	"strings"

	siteerrors "github.com/ksyq12/sitec/internal/errors"
	"github.com/ksyq12/sitec/internal/logger"
)

// Defaults applied when a Context or Resolver leaves a field empty.
const (
	DefaultSkeletonVar = "_skeleton"
	DefaultDataVar     = "_data"
	DefaultBodyMarker  = "<template-body>"
	DefaultMaxDepth    = 64
)

// Context carries the per-build values every top-level resolution needs.
type Context struct {
	// Skeleton is the serialized page tree bound at top level.
	Skeleton string
	// InjectSkeleton disables the skeleton binding when false.
	InjectSkeleton bool
	SkeletonVar    string
	DataVar        string
}

// NewContext returns a Context binding skeleton under the default names.
func NewContext(skeleton string) Context {
	return Context{
		Skeleton:       skeleton,
		InjectSkeleton: true,
		SkeletonVar:    DefaultSkeletonVar,
		DataVar:        DefaultDataVar,
	}
}

// Resolver expands templates read from a filesystem rooted at the project
// root. It holds no per-call state and may be reused across pages.
type Resolver struct {
	fsys       fs.FS
	bodyMarker string
	maxDepth   int
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithBodyMarker sets the token a body-carrying include fills.
func WithBodyMarker(marker string) Option {
	return func(r *Resolver) {
		if marker != "" {
			r.bodyMarker = marker
		}
	}
}

// WithMaxDepth bounds include nesting. Zero disables the bound.
func WithMaxDepth(depth int) Option {
	return func(r *Resolver) {
		r.maxDepth = depth
	}
}

// New creates a Resolver over fsys, typically os.DirFS(projectRoot).
func New(fsys fs.FS, opts ...Option) *Resolver {
	r := &Resolver{
		fsys:       fsys,
		bodyMarker: DefaultBodyMarker,
		maxDepth:   DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// state is the value threaded through the pipeline stages.
type state struct {
	ctx      Context
	path     string
	params   Params
	data     string
	hasData  bool
	topLevel bool
	depth    int
	text     string
}

type stage struct {
	name string
	run  func(r *Resolver, s *state) error
}

// pipeline returns the fixed stage order. Reordering it changes output.
func pipeline() []stage {
	return []stage{
		{"params", (*Resolver).substituteParams},
		{"self-closing", (*Resolver).expandSelfClosing},
		{"body", (*Resolver).expandBodies},
		{"inject", (*Resolver).inject},
	}
}

// Resolve expands the template at templatePath with params. dataPath, if
// not empty, names a file whose raw contents are bound in the injected
// script. topLevel marks a page rather than an included fragment.
func (r *Resolver) Resolve(ctx Context, templatePath string, params Params, dataPath string, topLevel bool) (string, error) {
	return r.resolve(ctx, templatePath, params, dataPath, topLevel, 0)
}

func (r *Resolver) resolve(ctx Context, templatePath string, params Params, dataPath string, topLevel bool, depth int) (string, error) {
	if r.maxDepth > 0 && depth > r.maxDepth {
		return "", siteerrors.Malformed(templatePath, "include depth exceeded")
	}

	name, err := normalize(templatePath)
	if err != nil {
		return "", err
	}

	if logger.Enabled(logger.LevelDebug) {
		logger.Debugw("compiling template", "template", name, "params", formatParams(params), "data", dataPath)
	}

	text, err := r.read(name)
	if err != nil {
		return "", err
	}

	s := &state{
		ctx:      ctx,
		path:     name,
		params:   params,
		topLevel: topLevel,
		depth:    depth,
		text:     text,
	}

	if dataPath != "" {
		dataName, err := normalize(dataPath)
		if err != nil {
			return "", err
		}
		if s.data, err = r.read(dataName); err != nil {
			return "", err
		}
		s.hasData = true
	}

	for _, st := range pipeline() {
		if err := st.run(r, s); err != nil {
			logger.Debugw("stage failed", "template", name, "stage", st.name)
			return "", err
		}
	}
	return s.text, nil
}

func (r *Resolver) substituteParams(s *state) error {
	s.text = s.params.Replace(s.text)
	return nil
}

func (r *Resolver) expandSelfClosing(s *state) error {
	text, err := replaceDirectives(s.text, FindSelfClosing(s.text), func(d Directive) (string, error) {
		return r.include(s, d)
	})
	if err != nil {
		return err
	}
	s.text = text
	return nil
}

func (r *Resolver) expandBodies(s *state) error {
	text, err := replaceDirectives(s.text, FindBody(s.text), func(d Directive) (string, error) {
		resolved, err := r.include(s, d)
		if err != nil {
			return "", err
		}
		if !strings.Contains(resolved, r.bodyMarker) {
			logger.Warnw("body include target has no body marker", "template", s.path, "src", d.Src)
			return resolved, nil
		}
		return strings.ReplaceAll(resolved, r.bodyMarker, d.Body), nil
	})
	if err != nil {
		return err
	}
	s.text = text
	return nil
}

// include resolves the target of d. Data files never reach includes.
func (r *Resolver) include(s *state, d Directive) (string, error) {
	if d.Src == "" {
		return "", siteerrors.Malformed(s.path, "include directive missing src")
	}
	return r.resolve(s.ctx, d.target(s.path), d.Params, "", false, s.depth+1)
}

// inject prefixes top-level output with the script block. A fragment
// resolved with a data file also gets one, holding only the data.
func (r *Resolver) inject(s *state) error {
	if !s.topLevel && !s.hasData {
		return nil
	}

	skeletonVar := s.ctx.SkeletonVar
	if skeletonVar == "" {
		skeletonVar = DefaultSkeletonVar
	}
	dataVar := s.ctx.DataVar
	if dataVar == "" {
		dataVar = DefaultDataVar
	}

	var b strings.Builder
	b.Grow(len(s.text) + len(s.ctx.Skeleton) + len(s.data) + 64)
	b.WriteString("<script>")
	if s.topLevel && s.ctx.InjectSkeleton {
		b.WriteString("const " + skeletonVar + "=" + s.ctx.Skeleton + ";")
	}
	if s.hasData {
		b.WriteString("const " + dataVar + "=" + s.data + ";")
	}
	b.WriteString("</script>")
	b.WriteString(s.text)
	s.text = b.String()
	return nil
}

func (r *Resolver) read(name string) (string, error) {
	content, err := fs.ReadFile(r.fsys, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", siteerrors.NotFound(name, err)
		}
		return "", siteerrors.WrapPath(siteerrors.ErrCodeIO, name, err)
	}
	return string(content), nil
}

// normalize strips leading slashes so every path is root-relative, then
// rejects paths that would leave the root.
func normalize(p string) (string, error) {
	trimmed := strings.TrimLeft(p, "/")
	if trimmed == "" {
		return "", siteerrors.NotFound(p, errors.New("empty path"))
	}
	cleaned := path.Clean(trimmed)
	if !fs.ValidPath(cleaned) || cleaned == "." {
		return "", siteerrors.NotFound(p, errors.New("path escapes the project root"))
	}
	return cleaned, nil
}

func formatParams(params Params) string {
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = p.Name + "=" + p.Value
	}
	return "{" + strings.Join(parts, ",") + "}"
}
