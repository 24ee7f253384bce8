package validate

// Options selects the invariant categories Validate checks. Each field
// toggles one Category.
type Options struct {
	// SingleParent: every node is reachable through exactly one parent.
	SingleParent bool
	// VariableReferences: user variables are referenced only where a
	// declaration is in scope, nameless block fields only where the block
	// is visible, and every built-in is referenced through one handle.
	VariableReferences bool
	// BuiltInOps: built-in operator nodes carry the matching function.
	BuiltInOps bool
	// FunctionCall: calls to functions in the tree name a function whose
	// prototype or definition was already seen.
	FunctionCall bool
	// NoRawFunctionCalls: no calls to functions provided only by the target.
	NoRawFunctionCalls bool
	// NullNodes: no missing required child and no node with fewer children
	// than its kind needs.
	NullNodes bool
	// Qualifiers: parameters use only parameter qualifiers, and declared
	// variables never do.
	Qualifiers bool
	// StructUsage: struct and block names keep one identity per scope and
	// every struct use resolves to the nearest declaration.
	StructUsage bool
	// ExpressionTypes: indexing yields the element type of the indexed value.
	ExpressionTypes bool
	// MultiDeclarations: every declaration has a single declarator.
	MultiDeclarations bool
}

// Category names one field of Options.
type Category uint8

const (
	SingleParent Category = iota
	VariableReferences
	BuiltInOps
	FunctionCall
	NoRawFunctionCalls
	NullNodes
	Qualifiers
	StructUsage
	ExpressionTypes
	MultiDeclarations
)

var categoryNames = [...]string{
	SingleParent:       "single-parent",
	VariableReferences: "variable-references",
	BuiltInOps:         "builtin-ops",
	FunctionCall:       "function-call",
	NoRawFunctionCalls: "no-raw-function-calls",
	NullNodes:          "null-nodes",
	Qualifiers:         "qualifiers",
	StructUsage:        "struct-usage",
	ExpressionTypes:    "expression-types",
	MultiDeclarations:  "multi-declarations",
}

func (c Category) String() string {
	if int(c) < len(categoryNames) {
		return categoryNames[c]
	}
	return "unknown"
}

// Strict returns options with every category enabled.
func Strict() Options {
	return Options{
		SingleParent:       true,
		VariableReferences: true,
		BuiltInOps:         true,
		FunctionCall:       true,
		NoRawFunctionCalls: true,
		NullNodes:          true,
		Qualifiers:         true,
		StructUsage:        true,
		ExpressionTypes:    true,
		MultiDeclarations:  true,
	}
}

// Default returns the options a front-end tree is expected to satisfy:
// everything but MultiDeclarations, which holds only once declarations are
// separated.
func Default() Options {
	return Strict().Disable(MultiDeclarations)
}

// Disable returns a copy of o with the given categories turned off.
func (o Options) Disable(cats ...Category) Options {
	for _, c := range cats {
		*o.field(c) = false
	}
	return o
}

// Enable returns a copy of o with the given categories turned on.
func (o Options) Enable(cats ...Category) Options {
	for _, c := range cats {
		*o.field(c) = true
	}
	return o
}

// Enabled reports whether category c is checked.
func (o Options) Enabled(c Category) bool {
	return *o.field(c)
}

func (o *Options) field(c Category) *bool {
	switch c {
	case SingleParent:
		return &o.SingleParent
	case VariableReferences:
		return &o.VariableReferences
	case BuiltInOps:
		return &o.BuiltInOps
	case FunctionCall:
		return &o.FunctionCall
	case NoRawFunctionCalls:
		return &o.NoRawFunctionCalls
	case NullNodes:
		return &o.NullNodes
	case Qualifiers:
		return &o.Qualifiers
	case StructUsage:
		return &o.StructUsage
	case ExpressionTypes:
		return &o.ExpressionTypes
	case MultiDeclarations:
		return &o.MultiDeclarations
	default:
		panic("validate: unknown category " + c.String())
	}
}
