// Package pipeline runs ordered lists of rewrite passes over a shader tree.
//
// Each Pass declares the invariants it needs from earlier passes, the ones
// it establishes, and the validator categories it relaxes. New checks the
// ordering once, when a pipeline is assembled; Run executes the passes that
// apply to a compilation, optionally validating the tree after each one.
package pipeline

import (
	"fmt"
	"io"
	"slices"

	"github.com/gogpu/translator/ast"
	"github.com/gogpu/translator/builtins"
	"github.com/gogpu/translator/diag"
	"github.com/gogpu/translator/target"
	"github.com/gogpu/translator/validate"
)

// Invariant names a property of the tree that a pass establishes.
type Invariant string

const (
	DeclarationsSeparated     Invariant = "declarations-separated"
	StructsSorted             Invariant = "structs-sorted"
	NamelessBlocksReduced     Invariant = "nameless-blocks-reduced"
	GlobalQualifiersRewritten Invariant = "global-qualifiers-rewritten"
	DriverUniformsDeclared    Invariant = "driver-uniforms"
	StructSamplersSeparated   Invariant = "struct-samplers-separated"
	DefaultUniformsHoisted    Invariant = "default-uniforms-hoisted"
	BindingsAssigned          Invariant = "bindings-assigned"
	PerVertexBlocksDeclared   Invariant = "per-vertex-blocks"
)

// Pass describes one rewrite step.
type Pass struct {
	Name string

	// Stages limits the pass to some shader stages. Empty means all.
	Stages []ast.ShaderStage

	// Enabled, when set, decides per compilation whether the pass runs.
	Enabled func(c *Compilation) bool

	Requires []Invariant
	Provides []Invariant

	// Relaxes lists validator categories the pass's output may violate.
	// Relaxations stay in effect for the rest of the pipeline.
	Relaxes []validate.Category

	Run func(c *Compilation) error
}

// AppliesTo reports whether the pass runs for c.
func (p *Pass) AppliesTo(c *Compilation) bool {
	if len(p.Stages) > 0 && !slices.Contains(p.Stages, c.Stage) {
		return false
	}
	return p.Enabled == nil || p.Enabled(c)
}

// Config controls tracing of a pipeline run.
type Config struct {
	// Trace receives one line per pass and the requested dumps. Nil
	// disables tracing. RunAll writes to it from several goroutines.
	Trace io.Writer
	// DumpBefore dumps the tree before the named pass ("*" for all).
	DumpBefore string
	// DumpAfter dumps the tree after the named pass ("*" for all).
	DumpAfter string
}

// Pipeline is an ordered, checked list of passes for one output dialect.
type Pipeline struct {
	Name    string
	Dialect target.Dialect
	Config  Config

	passes []Pass
}

// New assembles a pipeline. It fails if a pass requires an invariant no
// earlier pass provides, if two passes share a name, or if the generated
// built-in tables are incompatible with this engine.
func New(name string, d target.Dialect, passes ...Pass) (*Pipeline, error) {
	if err := builtins.CheckTablesVersion(); err != nil {
		return nil, fmt.Errorf("pipeline %s: %w", name, err)
	}
	provided := make(map[Invariant]string)
	names := make(map[string]struct{}, len(passes))
	for _, p := range passes {
		if p.Name == "" || p.Run == nil {
			return nil, fmt.Errorf("pipeline %s: pass %q has no name or no run function", name, p.Name)
		}
		if _, dup := names[p.Name]; dup {
			return nil, fmt.Errorf("pipeline %s: pass %q appears twice", name, p.Name)
		}
		names[p.Name] = struct{}{}
		for _, req := range p.Requires {
			if _, ok := provided[req]; !ok {
				return nil, fmt.Errorf("pipeline %s: pass %q requires %q, which no earlier pass provides", name, p.Name, req)
			}
		}
		for _, inv := range p.Provides {
			provided[inv] = p.Name
		}
	}
	return &Pipeline{Name: name, Dialect: d, passes: slices.Clone(passes)}, nil
}

// MustNew is New for pipelines fixed at compile time. It panics on error.
func MustNew(name string, d target.Dialect, passes ...Pass) *Pipeline {
	p, err := New(name, d, passes...)
	if err != nil {
		panic(err)
	}
	return p
}

// Passes returns the pass names in order.
func (p *Pipeline) Passes() []string {
	names := make([]string, len(p.passes))
	for i := range p.passes {
		names[i] = p.passes[i].Name
	}
	return names
}

// WithConfig returns a copy of p that traces according to cfg.
func (p *Pipeline) WithConfig(cfg Config) *Pipeline {
	cp := *p
	cp.Config = cfg
	return &cp
}

// Run transforms c.Tree in place. A failing pass stops the run; the tree is
// then in an unspecified state and must be discarded.
func (p *Pipeline) Run(c *Compilation) error {
	if c == nil || c.Tree == nil {
		return NewError(ErrInputInvalid, "no tree to compile")
	}
	if c.Symbols == nil {
		c.Symbols = c.Tree.Symbols
	}
	c.Dialect = p.Dialect

	if c.Options.Has(ValidateAST) {
		if err := p.validate(c, validate.Default()); err != nil {
			return &Error{Kind: ErrInputInvalid, Message: "input tree is invalid", Err: err}
		}
	}

	provided := make(map[Invariant]bool)
	var relaxed []validate.Category
	for i := range p.passes {
		pass := &p.passes[i]
		if !pass.AppliesTo(c) {
			p.tracef("skip %s", pass.Name)
			continue
		}
		for _, req := range pass.Requires {
			if !provided[req] {
				return &Error{Kind: ErrPrecondition, Pass: pass.Name, Message: fmt.Sprintf("invariant %q was not established", req)}
			}
		}

		p.tracef("run %s", pass.Name)
		p.dump(p.Config.DumpBefore, "before", pass.Name, c.Tree)
		if err := pass.Run(c); err != nil {
			return wrapPassError(pass.Name, err)
		}
		if c.Diag.HasErrors() {
			return &Error{Kind: ErrSemantics, Pass: pass.Name, Err: c.Diag.Err()}
		}
		for _, inv := range pass.Provides {
			provided[inv] = true
		}
		relaxed = append(relaxed, pass.Relaxes...)
		p.dump(p.Config.DumpAfter, "after", pass.Name, c.Tree)

		if c.Options.Has(ValidateEachPass) {
			if err := p.validate(c, validationOptions(provided, relaxed)); err != nil {
				return &Error{Kind: ErrCorruption, Pass: pass.Name, Message: "tree is invalid after the pass", Err: err}
			}
		}
	}

	if c.Options.Has(ValidateAST) && !c.Options.Has(ValidateEachPass) {
		if err := p.validate(c, validationOptions(provided, relaxed)); err != nil {
			return &Error{Kind: ErrCorruption, Message: "output tree is invalid", Err: err}
		}
	}
	return nil
}

// validationOptions returns the checks the tree must pass given what the
// passes so far established and relaxed.
func validationOptions(provided map[Invariant]bool, relaxed []validate.Category) validate.Options {
	opts := validate.Default()
	if provided[DeclarationsSeparated] {
		opts = opts.Enable(validate.MultiDeclarations)
	}
	return opts.Disable(relaxed...)
}

func (p *Pipeline) validate(c *Compilation, opts validate.Options) error {
	var sink diag.List
	if _, err := validate.Validate(c.Tree, c.Tree.Root, opts, &sink); err != nil {
		return err
	}
	return sink.Err()
}

func (p *Pipeline) tracef(format string, args ...any) {
	if p.Config.Trace == nil {
		return
	}
	fmt.Fprintf(p.Config.Trace, "%s: "+format+"\n", append([]any{p.Name}, args...)...)
}

func (p *Pipeline) dump(pattern, when, pass string, tree *ast.Tree) {
	if p.Config.Trace == nil || (pattern != "*" && pattern != pass) {
		return
	}
	fmt.Fprintf(p.Config.Trace, "--- %s %s ---\n", when, pass)
	_ = ast.Dump(p.Config.Trace, tree, tree.Root)
}
