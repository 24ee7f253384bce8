package pipeline

import (
	"fmt"

	"github.com/gogpu/translator/ast"
	"github.com/gogpu/translator/diag"
	"github.com/gogpu/translator/target"
)

// Options is a set of compile flags.
type Options uint32

const (
	// RewriteRowMajorMatrices turns row-major block matrices into
	// column-major ones.
	RewriteRowMajorMatrices Options = 1 << iota
	// AddPreRotation rotates gl_Position for a pre-rotated surface.
	AddPreRotation
	// TransformDepth maps clip-space depth from [-w, w] to [0, w].
	TransformDepth
	// ClampPointSize clamps gl_PointSize to the target's range.
	ClampPointSize
	// EmulateRasterizerDiscard inserts a driver-controlled position discard.
	EmulateRasterizerDiscard
	// ValidateAST validates the input and the final tree.
	ValidateAST
	// ValidateEachPass validates after every pass.
	ValidateEachPass
)

// Has reports whether every flag in f is set.
func (o Options) Has(f Options) bool {
	return o&f == f
}

// Resources describes the capabilities of the target device.
type Resources struct {
	MaxDrawBuffers                  int
	MaxClipDistances                int
	MaxCullDistances                int
	MaxCombinedClipAndCullDistances int
	MaxPatchVertices                int
	MaxPointSize                    float32

	// HoistConstantThreshold is the number of scalar components at which a
	// constant local array moves to the global scope.
	HoistConstantThreshold int
}

// DefaultResources returns the limits of a baseline device.
func DefaultResources() Resources {
	return Resources{
		MaxDrawBuffers:                  8,
		MaxClipDistances:                8,
		MaxCullDistances:                8,
		MaxCombinedClipAndCullDistances: 8,
		MaxPatchVertices:                32,
		MaxPointSize:                    511,
		HoistConstantThreshold:          256,
	}
}

// Compilation is the state of one shader going through a pipeline. It is
// never shared between goroutines.
type Compilation struct {
	Tree      *ast.Tree
	Symbols   *ast.SymbolTable
	Stage     ast.ShaderStage
	Version   int
	Dialect   target.Dialect
	Options   Options
	Resources Resources
	Diag      diag.List

	// DriverUniforms is the instance of the driver uniform block, once
	// declared.
	DriverUniforms ast.VariableID
	// DefaultUniforms is the instance of the default uniform block, once
	// declared.
	DefaultUniforms ast.VariableID
}

// NewCompilation returns a compilation of tree with default resources.
func NewCompilation(tree *ast.Tree, stage ast.ShaderStage, version int) *Compilation {
	return &Compilation{
		Tree:      tree,
		Symbols:   tree.Symbols,
		Stage:     stage,
		Version:   version,
		Resources: DefaultResources(),
	}
}

// Semanticf reports a shader error at loc and returns the matching
// pipeline error for the pass to return.
func (c *Compilation) Semanticf(loc ast.SourceLoc, token, format string, args ...any) error {
	msg := fmt.Sprintf(format, args...)
	c.Diag.Error(loc, token, "%s", msg)
	if token != "" {
		msg = "'" + token + "' : " + msg
	}
	return &Error{Kind: ErrSemantics, Message: msg}
}

// DriverUniformField returns driverUniforms.<field> as a new node.
func (c *Compilation) DriverUniformField(field int) (ast.NodeID, error) {
	if !c.DriverUniforms.IsValid() {
		return ast.NoNode, Preconditionf("driver uniforms are not declared")
	}
	return c.Tree.BlockFieldAccess(c.Tree.Sym(c.DriverUniforms), field), nil
}
