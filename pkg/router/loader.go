package router

import (
	"context"
	"go/ast"
	"go/parser"
	"go/token"
	"io"
	"strconv"
	"strings"

	"github.com/vango-dev/pageroute/internal/errors"
	"github.com/vango-dev/pageroute/pkg/source"
)

// ControllerConst is the exported constant a page declares to name its controller.
const ControllerConst = "Controller"

// ComponentLoader resolves the component of a page file.
type ComponentLoader interface {
	Load(ctx context.Context, key string) (Component, error)
}

// ComponentLoaderFunc is a function adapter for ComponentLoader.
type ComponentLoaderFunc func(ctx context.Context, key string) (Component, error)

// Load implements ComponentLoader.
func (f ComponentLoaderFunc) Load(ctx context.Context, key string) (Component, error) {
	return f(ctx, key)
}

// Registry maps page file keys to compiled components.
type Registry map[string]Component

// Load implements ComponentLoader.
func (r Registry) Load(_ context.Context, key string) (Component, error) {
	c, ok := r[key]
	if !ok {
		return nil, errors.New("E203").
			WithFile(key).
			WithDetail("No component is registered for this page file.")
	}
	return c, nil
}

// SourceLoader reads page files from a source. Go files are parsed for their
// package name and Controller constant; other files load as bare PageFiles.
type SourceLoader struct {
	src source.Source
}

// NewSourceLoader creates a loader reading from src.
func NewSourceLoader(src source.Source) *SourceLoader {
	return &SourceLoader{src: src}
}

// Load implements ComponentLoader.
func (l *SourceLoader) Load(ctx context.Context, key string) (Component, error) {
	page := &PageFile{File: key}
	if !strings.HasSuffix(key, ".go") {
		return page, nil
	}

	rc, err := l.src.Open(ctx, key)
	if err != nil {
		return nil, errors.New("E202").WithFile(key).Wrap(err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, errors.New("E202").WithFile(key).Wrap(err)
	}

	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, key, data, parser.SkipObjectResolution)
	if err != nil {
		return nil, errors.New("E203").WithFile(key).Wrap(err)
	}

	page.Package = f.Name.Name
	page.ControllerName = controllerConst(f)
	return page, nil
}

// controllerConst returns the string value of a top-level
// `const Controller = "..."` declaration.
func controllerConst(f *ast.File) string {
	for _, decl := range f.Decls {
		gd, ok := decl.(*ast.GenDecl)
		if !ok || gd.Tok != token.CONST {
			continue
		}
		for _, spec := range gd.Specs {
			vs, ok := spec.(*ast.ValueSpec)
			if !ok {
				continue
			}
			for i, ident := range vs.Names {
				if ident.Name != ControllerConst || i >= len(vs.Values) {
					continue
				}
				lit, ok := vs.Values[i].(*ast.BasicLit)
				if !ok || lit.Kind != token.STRING {
					continue
				}
				if v, err := strconv.Unquote(lit.Value); err == nil {
					return v
				}
			}
		}
	}
	return ""
}
