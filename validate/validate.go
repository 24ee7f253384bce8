// Package validate checks the structural invariants rewrite passes rely on.
//
// Validate makes one traversal of a tree and reports every violation it
// finds to a diagnostics sink. Each invariant category can be switched off
// through Options, so a pipeline can relax a check once it has produced
// constructs the tree cannot describe.
package validate

import (
	"errors"
	"fmt"

	"github.com/gogpu/translator/ast"
	"github.com/gogpu/translator/diag"
)

// Result summarizes one validation run.
type Result struct {
	Violations int
}

// OK reports whether no violation was found.
func (r Result) OK() bool {
	return r.Violations == 0
}

// Validate checks the subtree at root against opts and reports violations
// to sink, which may be nil. The error is non-nil only when the input cannot
// be validated at all.
//
// When root is not the tree's root, VariableReferences and FunctionCall are
// turned off: a detached subtree does not see the declarations around it.
func Validate(tree *ast.Tree, root ast.NodeID, opts Options, sink diag.Reporter) (Result, error) {
	if tree == nil || tree.Symbols == nil {
		return Result{}, errors.New("validate: tree or symbol table is nil")
	}
	if !tree.Contains(root) {
		return Result{}, fmt.Errorf("validate: root %d is not a node of the tree", root)
	}
	subtree := root != tree.Root
	if subtree {
		opts = opts.Disable(VariableReferences, FunctionCall)
	}

	v := &validator{
		tree:      tree,
		syms:      tree.Symbols,
		opts:      opts,
		sink:      sink,
		subtree:   subtree,
		seen:      make(map[ast.NodeID]struct{}, tree.Len()),
		builtins:  make(map[string]ast.VariableID),
		functions: make(map[ast.FunctionID]struct{}),
	}
	ast.NewTraverser(tree, ast.OrderPre).Walk(root, v)
	return Result{Violations: v.violations}, nil
}

type validator struct {
	tree    *ast.Tree
	syms    *ast.SymbolTable
	opts    Options
	sink    diag.Reporter
	subtree bool

	seen      map[ast.NodeID]struct{}
	builtins  map[string]ast.VariableID
	functions map[ast.FunctionID]struct{}

	violations int
}

func (v *validator) report(c Category, id ast.NodeID, token, format string, args ...any) {
	v.emit(id, token, c.String()+": "+fmt.Sprintf(format, args...))
}

// corrupt reports damage that would make the walk itself fail. It is
// reported whatever the options say.
func (v *validator) corrupt(id ast.NodeID, format string, args ...any) {
	v.emit(id, "", "corrupt tree: "+fmt.Sprintf(format, args...))
}

func (v *validator) emit(id ast.NodeID, token, msg string) {
	v.violations++
	if v.sink == nil {
		return
	}
	var loc ast.SourceLoc
	if v.tree.Contains(id) {
		loc = v.tree.Loc(id)
	}
	v.sink.Report(diag.Diagnostic{Severity: diag.Error, Loc: loc, Token: token, Message: msg})
}

func (v *validator) validVariable(id ast.VariableID) bool {
	return id.IsValid() && int(id) < v.syms.NumVariables()
}

func (v *validator) validFunction(id ast.FunctionID) bool {
	return id.IsValid() && int(id) < v.syms.NumFunctions()
}

// Visit implements ast.Visitor.
func (v *validator) Visit(t *ast.Traverser, _ ast.Visit, id ast.NodeID) bool {
	if _, dup := v.seen[id]; dup {
		if v.opts.SingleParent {
			v.report(SingleParent, id, "", "node %d (%s) has more than one parent", id, ast.KindName(v.tree.Data(id)))
		}
		// Never descend twice; a cycle would not terminate.
		return false
	}
	v.seen[id] = struct{}{}

	data := v.tree.Data(id)
	if data == nil {
		v.corrupt(id, "node %d has no payload", id)
		return false
	}
	kids := v.tree.Children(id)
	for _, c := range kids {
		if c != ast.NoNode && !v.tree.Contains(c) {
			v.corrupt(id, "%s node %d has dangling child %d", ast.KindName(data), id, c)
			return false
		}
	}
	if v.opts.NullNodes {
		v.checkChildren(id, data, kids)
	}

	switch d := data.(type) {
	case *ast.Symbol:
		return v.visitSymbol(t, id, d)
	case *ast.Unary:
		v.checkBuiltInOp(id, d.Op, d.Func)
	case *ast.Binary:
		v.checkIndex(id, d)
	case *ast.Aggregate:
		v.visitAggregate(t, id, d)
	case *ast.Declaration:
		return v.visitDeclaration(t, id, d)
	case *ast.FunctionPrototype:
		return v.visitPrototype(id, d.Func)
	}
	return true
}

func (v *validator) checkChildren(id ast.NodeID, data ast.NodeData, kids []ast.NodeID) {
	kind := ast.KindName(data)
	for i, c := range kids {
		if c == ast.NoNode {
			v.report(NullNodes, id, "", "%s node %d has a null child at position %d", kind, id, i)
		}
	}
	if need := ast.MinChildren(data); len(kids) < need {
		v.report(NullNodes, id, "", "%s node %d has %d children, needs at least %d", kind, id, len(kids), need)
	}
}

func (v *validator) visitSymbol(t *ast.Traverser, id ast.NodeID, s *ast.Symbol) bool {
	if !v.validVariable(s.Var) {
		v.corrupt(id, "symbol node %d references unknown variable %d", id, s.Var)
		return false
	}
	vr := v.syms.Variable(s.Var)
	vt := vr.Type

	if v.opts.VariableReferences {
		switch {
		case vr.Kind == ast.SymbolBuiltIn:
			if prev, ok := v.builtins[vr.Name]; ok && prev != s.Var {
				v.report(VariableReferences, id, vr.Name, "built-in referenced through handles %d and %d", prev, s.Var)
			} else {
				v.builtins[vr.Name] = s.Var
			}
		case vt.BlockField >= 0 && vt.Block.IsValid():
			v.checkNamelessField(t, id, vr)
		case !t.Scopes().IsDeclared(s.Var):
			v.report(VariableReferences, id, vr.Name, "variable #%d used without a declaration in scope", s.Var)
		}
	}
	if v.opts.StructUsage && vt.IsStruct() {
		v.checkStructUse(t, id, vt.Struct)
		if int(vt.Struct) < v.syms.NumStructs() && v.syms.Struct(vt.Struct).Name == "" && !vt.StructSpecifier {
			v.report(StructUsage, id, vr.Name, "variable of a nameless struct declared apart from the struct")
		}
	}
	return true
}

// checkNamelessField checks a reference to a field of a nameless interface
// block: the block must be visible and the field must exist under the
// variable's name.
func (v *validator) checkNamelessField(t *ast.Traverser, id ast.NodeID, vr *ast.Variable) {
	vt := vr.Type
	if int(vt.Block) >= v.syms.NumBlocks() {
		v.corrupt(id, "node %d has unknown interface block %d", id, vt.Block)
		return
	}
	if !t.Scopes().IsNamelessVisible(vt.Block) {
		v.report(VariableReferences, id, vr.Name, "field of a nameless block used where the block is not declared")
	}
	fields := v.syms.Block(vt.Block).Fields
	switch {
	case vt.BlockField >= len(fields):
		v.report(VariableReferences, id, vr.Name, "field %d of a nameless block with %d fields", vt.BlockField, len(fields))
	case fields[vt.BlockField].Name != vr.Name:
		v.report(VariableReferences, id, vr.Name, "nameless block field %d is named %q", vt.BlockField, fields[vt.BlockField].Name)
	}
}

func (v *validator) checkStructUse(t *ast.Traverser, id ast.NodeID, sid ast.StructID) {
	if !sid.IsValid() || int(sid) >= v.syms.NumStructs() {
		v.corrupt(id, "node %d has unknown struct %d", id, sid)
		return
	}
	st := v.syms.Struct(sid)
	if st.Name == "" || st.Kind == ast.SymbolBuiltIn {
		return
	}
	got, ok := t.Scopes().LookupStruct(st.Name)
	switch {
	case !ok:
		if !v.subtree {
			v.report(StructUsage, id, st.Name, "struct used outside the scope of its declaration")
		}
	case got != sid:
		v.report(StructUsage, id, st.Name, "struct #%d used where the nearest declaration is #%d", sid, got)
	}
}

func (v *validator) checkBuiltInOp(id ast.NodeID, op ast.Operator, f ast.FunctionID) {
	if !v.opts.BuiltInOps || !op.IsBuiltIn() {
		return
	}
	if !v.validFunction(f) {
		v.report(BuiltInOps, id, op.String(), "built-in operator carries no function")
		return
	}
	fn := v.syms.Function(f)
	if fn.Kind != ast.SymbolBuiltIn || fn.Op != op {
		v.report(BuiltInOps, id, op.String(), "operator carries function %q of operator %s", fn.Name, fn.Op)
	}
}

func (v *validator) visitAggregate(t *ast.Traverser, id ast.NodeID, a *ast.Aggregate) {
	switch {
	case a.Op.IsBuiltIn():
		v.checkBuiltInOp(id, a.Op, a.Func)
	case a.Op == ast.OpCallFunctionInAST:
		if !v.opts.FunctionCall {
			return
		}
		if !v.validFunction(a.Func) {
			v.report(FunctionCall, id, "", "call to unknown function %d", a.Func)
			return
		}
		if _, ok := v.functions[a.Func]; !ok {
			v.report(FunctionCall, id, v.syms.Function(a.Func).Name, "call to a function that is not declared before use")
		}
	case a.Op == ast.OpCallInternalRawFunction:
		if v.opts.NoRawFunctionCalls {
			name := ""
			if v.validFunction(a.Func) {
				name = v.syms.Function(a.Func).Name
			}
			v.report(NoRawFunctionCalls, id, name, "call to a target-provided function")
		}
	case a.Op == ast.OpConstruct:
		if typ := v.tree.TypeOf(id); v.opts.StructUsage && typ.IsStruct() {
			v.checkStructUse(t, id, typ.Struct)
		}
	}
}

func (v *validator) checkIndex(id ast.NodeID, b *ast.Binary) {
	if !v.opts.ExpressionTypes || !b.Op.IsIndex() || !v.tree.Contains(b.Left) {
		return
	}
	if s, ok := v.tree.Data(b.Left).(*ast.Symbol); ok && !v.validVariable(s.Var) {
		return
	}
	left := v.tree.TypeOf(b.Left)
	var want ast.Type
	switch b.Op {
	case ast.OpIndexDirect, ast.OpIndexIndirect:
		want = left.Element()
	case ast.OpIndexDirectStruct, ast.OpIndexDirectInterfaceBlock:
		var fields []ast.Field
		switch {
		case b.Op == ast.OpIndexDirectStruct && left.IsStruct() && int(left.Struct) < v.syms.NumStructs():
			fields = v.syms.Struct(left.Struct).Fields
		case b.Op == ast.OpIndexDirectInterfaceBlock && left.IsInterfaceBlock() && int(left.Block) < v.syms.NumBlocks():
			fields = v.syms.Block(left.Block).Fields
		default:
			v.report(ExpressionTypes, id, "", "field selection on a value of type %s", left)
			return
		}
		i, ok := v.tree.ConstIndex(b.Right)
		if !ok || i < 0 || i >= len(fields) {
			v.report(ExpressionTypes, id, "", "field index is not a constant in range [0, %d)", len(fields))
			return
		}
		want = fields[i].Type
	}
	if got := v.tree.TypeOf(id); !ast.SameType(got, want) {
		v.report(ExpressionTypes, id, "", "%s yields %s, element type is %s", b.Op, got, want)
	}
}

func (v *validator) visitDeclaration(t *ast.Traverser, id ast.NodeID, d *ast.Declaration) bool {
	if v.opts.MultiDeclarations && len(d.Declarators) > 1 {
		v.report(MultiDeclarations, id, "", "declaration has %d declarators", len(d.Declarators))
	}
	for _, decl := range d.Declarators {
		if decl == ast.NoNode {
			continue
		}
		if s, ok := v.tree.Data(decl).(*ast.Symbol); ok && !v.validVariable(s.Var) {
			// reported when the declarator itself is visited
			continue
		}
		vid, ok := v.tree.DeclaredVariable(decl)
		if !ok {
			if v.opts.NullNodes {
				v.report(NullNodes, decl, "", "declarator %d is neither a symbol nor an initialization", decl)
			}
			continue
		}
		if !v.validVariable(vid) {
			continue
		}
		vr := v.syms.Variable(vid)
		if v.opts.Qualifiers && vr.Type.Qualifier.IsParam() {
			v.report(Qualifiers, decl, vr.Name, "variable declared with parameter qualifier %s", vr.Type.Qualifier)
		}
		if v.opts.StructUsage {
			v.checkRedeclaration(t, decl, vr.Type)
		}
	}
	return true
}

// checkRedeclaration runs before the declaration is recorded, so the
// innermost scope still holds only earlier declarations.
func (v *validator) checkRedeclaration(t *ast.Traverser, id ast.NodeID, vt ast.Type) {
	switch {
	case vt.IsStruct() && vt.StructSpecifier && int(vt.Struct) < v.syms.NumStructs():
		name := v.syms.Struct(vt.Struct).Name
		if name == "" {
			return
		}
		if s, b, ok := t.Scopes().InCurrentScope(name); ok && (s != vt.Struct || b.IsValid()) {
			v.report(StructUsage, id, name, "struct redeclared in the same scope")
		}
	case vt.IsInterfaceBlock() && vt.Block.IsValid() && int(vt.Block) < v.syms.NumBlocks():
		blk := v.syms.Block(vt.Block)
		key := ast.BlockScopeKey(blk.Name, vt.Qualifier)
		if s, b, ok := t.Scopes().InCurrentScope(key); ok && (b != vt.Block || s.IsValid()) {
			v.report(StructUsage, id, blk.Name, "interface block redeclared in the same scope")
		}
	}
}

func (v *validator) visitPrototype(id ast.NodeID, f ast.FunctionID) bool {
	if !v.validFunction(f) {
		v.corrupt(id, "prototype node %d names unknown function %d", id, f)
		return false
	}
	v.functions[f] = struct{}{}
	if !v.opts.Qualifiers {
		return true
	}
	fn := v.syms.Function(f)
	for _, p := range fn.Params {
		if !v.validVariable(p) {
			v.corrupt(id, "function %q has unknown parameter %d", fn.Name, p)
			continue
		}
		if pv := v.syms.Variable(p); !pv.Type.Qualifier.IsParam() {
			v.report(Qualifiers, id, fn.Name, "parameter %q has qualifier %s", pv.Name, pv.Type.Qualifier)
		}
	}
	return true
}
