// Package translator prepares validated GLSL ES shader trees for output as
// Metal Shading Language or Vulkan GLSL.
//
// A front end hands over a typed tree, either built directly with the ast
// package or serialized as JSON (see package astjson). The translator runs
// the rewrite passes of the chosen dialect over it and returns the
// compilation, whose tree an emitter then prints.
//
// Example usage:
//
//	unit, err := astjson.Decode(file)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	c, err := translator.Translate(unit, translator.DefaultOptions())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	ast.Dump(os.Stdout, c.Tree, c.Tree.Root)
//
// For lower-level control, build a pipeline.Compilation and run one of the
// pipelines in package passes directly.
package translator

import (
	"context"
	"fmt"
	"io"

	"github.com/gogpu/translator/ast"
	"github.com/gogpu/translator/astjson"
	"github.com/gogpu/translator/passes"
	"github.com/gogpu/translator/pipeline"
	"github.com/gogpu/translator/target"
)

// Options configures translation.
type Options struct {
	// Dialect is the output language.
	Dialect target.Dialect

	// Flags selects optional rewrites and validation.
	Flags pipeline.Options

	// Resources describes the target device limits.
	Resources pipeline.Resources

	// Config traces the pipeline run.
	Config pipeline.Config
}

// DefaultOptions returns options for Metal output with input and output
// validation.
func DefaultOptions() Options {
	return Options{
		Dialect:   target.Metal,
		Flags:     pipeline.ValidateAST,
		Resources: pipeline.DefaultResources(),
	}
}

// NewCompilation wraps a decoded unit in a compilation configured by opts.
func NewCompilation(unit *astjson.Unit, opts Options) *pipeline.Compilation {
	c := pipeline.NewCompilation(unit.Tree, unit.Stage, unit.Version)
	c.Options = opts.Flags
	c.Resources = opts.Resources
	return c
}

// Translate runs the pipeline of opts.Dialect over unit. The unit's tree is
// rewritten in place and must not be reused when an error is returned.
func Translate(unit *astjson.Unit, opts Options) (*pipeline.Compilation, error) {
	p, err := pipelineFor(opts)
	if err != nil {
		return nil, err
	}
	c := NewCompilation(unit, opts)
	if err := p.Run(c); err != nil {
		return c, err
	}
	return c, nil
}

// TranslateTree is Translate for a tree built with the ast package.
func TranslateTree(tree *ast.Tree, stage ast.ShaderStage, version int, opts Options) (*pipeline.Compilation, error) {
	return Translate(&astjson.Unit{Tree: tree, Symbols: tree.Symbols, Stage: stage, Version: version}, opts)
}

// TranslateJSON decodes one JSON document from r and translates it.
func TranslateJSON(r io.Reader, opts Options) (*pipeline.Compilation, error) {
	unit, err := astjson.Decode(r)
	if err != nil {
		return nil, err
	}
	return Translate(unit, opts)
}

// TranslateAll translates independent units concurrently with the same
// options. The returned compilations are in the order of units; on error
// the first failure is returned and the remaining units may be partially
// rewritten.
func TranslateAll(ctx context.Context, units []*astjson.Unit, opts Options) ([]*pipeline.Compilation, error) {
	p, err := pipelineFor(opts)
	if err != nil {
		return nil, err
	}
	cs := make([]*pipeline.Compilation, len(units))
	for i, u := range units {
		cs[i] = NewCompilation(u, opts)
	}
	if err := p.RunAll(ctx, cs); err != nil {
		return cs, err
	}
	return cs, nil
}

func pipelineFor(opts Options) (*pipeline.Pipeline, error) {
	p, ok := passes.ForDialect(opts.Dialect)
	if !ok {
		return nil, fmt.Errorf("translator: no pipeline for dialect %s", opts.Dialect)
	}
	return p.WithConfig(opts.Config), nil
}
