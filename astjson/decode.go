// Package astjson reads shader trees that a front end has serialized as JSON.
//
// A document lists the symbols of one shader and its global statements:
//
//	{
//	  "stage": "fragment",
//	  "version": 300,
//	  "structs":   [{"name": "S", "fields": [{"name": "x", "type": {"code": "f"}}]}],
//	  "blocks":    [{"name": "B", "qualifier": "uniform", "fields": [...]}],
//	  "variables": [{"name": "u", "type": {"code": "f4", "qualifier": "uniform"}}],
//	  "functions": [{"name": "main", "return": {"code": "v"}, "params": []}],
//	  "root": [
//	    {"kind": "declaration", "declarators": [{"kind": "symbol", "var": 0}]},
//	    {"kind": "function", "function": 0, "body": {"kind": "block", "stmts": []}}
//	  ]
//	}
//
// Types are written as the type codes of mangled names ("f", "i3", "m34",
// "s2D", "v") or as "struct" and "block" with an index into the structs or
// blocks list. Variables and functions are referenced by their index in the
// document. Built-in variables are referenced by name and built-in
// functions by mangled signature, so they resolve to the canonical handles
// of the symbol table.
package astjson

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/gogpu/translator/ast"
)

// Unit is a decoded shader.
type Unit struct {
	Tree    *ast.Tree
	Symbols *ast.SymbolTable
	Stage   ast.ShaderStage
	Version int
}

// Error reports a malformed document. Path locates the offending value in
// the document; Loc is the source location of the enclosing node, if known.
type Error struct {
	Path string
	Loc  ast.SourceLoc
	Err  error
}

func (e *Error) Error() string {
	if e.Loc != (ast.SourceLoc{}) {
		return fmt.Sprintf("astjson: %s (%s): %v", e.Path, e.Loc, e.Err)
	}
	return fmt.Sprintf("astjson: %s: %v", e.Path, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// ErrMissing is wrapped by errors about a required field that is absent.
var ErrMissing = errors.New("missing field")

type document struct {
	Stage     string         `json:"stage"`
	Version   int            `json:"version"`
	Structs   []structJSON   `json:"structs"`
	Blocks    []blockJSON    `json:"blocks"`
	Variables []variableJSON `json:"variables"`
	Functions []functionJSON `json:"functions"`
	Root      []*node        `json:"root"`
}

type typeJSON struct {
	Code          string      `json:"code"`
	Struct        *int        `json:"struct,omitempty"`
	Block         *int        `json:"block,omitempty"`
	Precision     string      `json:"precision,omitempty"`
	Qualifier     string      `json:"qualifier,omitempty"`
	Interpolation string      `json:"interpolation,omitempty"`
	Invariant     bool        `json:"invariant,omitempty"`
	Precise       bool        `json:"precise,omitempty"`
	Array         []uint32    `json:"array,omitempty"`
	BlockField    *int        `json:"blockField,omitempty"`
	Specifier     bool        `json:"specifier,omitempty"`
	Layout        *layoutJSON `json:"layout,omitempty"`
}

type layoutJSON struct {
	Location *int   `json:"location,omitempty"`
	Binding  *int   `json:"binding,omitempty"`
	Set      *int   `json:"set,omitempty"`
	Packing  string `json:"packing,omitempty"`
	Storage  string `json:"storage,omitempty"`
}

type fieldJSON struct {
	Name   string    `json:"name"`
	Type   *typeJSON `json:"type"`
	Line   int       `json:"line,omitempty"`
	Column int       `json:"column,omitempty"`
}

type structJSON struct {
	Name   string      `json:"name"`
	Kind   string      `json:"kind,omitempty"`
	Fields []fieldJSON `json:"fields"`
}

type blockJSON struct {
	Name      string      `json:"name"`
	Kind      string      `json:"kind,omitempty"`
	Qualifier string      `json:"qualifier"`
	Layout    *layoutJSON `json:"layout,omitempty"`
	Fields    []fieldJSON `json:"fields"`
}

type variableJSON struct {
	Name string    `json:"name"`
	Kind string    `json:"kind,omitempty"`
	Type *typeJSON `json:"type"`
}

type functionJSON struct {
	Name   string    `json:"name"`
	Kind   string    `json:"kind,omitempty"`
	Return *typeJSON `json:"return"`
	Params []int     `json:"params"`
}

// node is the union of every node kind's fields.
type node struct {
	Kind   string `json:"kind"`
	Line   int    `json:"line,omitempty"`
	Column int    `json:"column,omitempty"`

	Type *typeJSON `json:"type,omitempty"`
	Op   string    `json:"op,omitempty"`

	Var       *int   `json:"var,omitempty"`
	BuiltIn   string `json:"builtin,omitempty"`
	Function  *int   `json:"function,omitempty"`
	Signature string `json:"signature,omitempty"`

	Values  []any `json:"values,omitempty"`
	Offsets []int `json:"offsets,omitempty"`

	Operand  *node `json:"operand,omitempty"`
	Left     *node `json:"left,omitempty"`
	Right    *node `json:"right,omitempty"`
	Cond     *node `json:"cond,omitempty"`
	Then     *node `json:"then,omitempty"`
	Else     *node `json:"else,omitempty"`
	Init     *node `json:"init,omitempty"`
	Expr     *node `json:"expr,omitempty"`
	Body     *node `json:"body,omitempty"`
	Selector *node `json:"selector,omitempty"`
	Target   *node `json:"target,omitempty"`

	Args        []*node `json:"args,omitempty"`
	Stmts       []*node `json:"stmts,omitempty"`
	Declarators []*node `json:"declarators,omitempty"`

	Loop      string `json:"loop,omitempty"`
	Invariant bool   `json:"invariant,omitempty"`
	Precise   bool   `json:"precise,omitempty"`
	Directive string `json:"directive,omitempty"`
	Command   string `json:"command,omitempty"`
}

// Decode reads one document from r.
func Decode(r io.Reader) (*Unit, error) {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	var doc document
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("astjson: %w", err)
	}
	return newUnit(&doc)
}

// Unmarshal decodes a document held in memory.
func Unmarshal(data []byte) (*Unit, error) {
	return Decode(bytes.NewReader(data))
}

type builder struct {
	syms *ast.SymbolTable
	tree *ast.Tree

	structs []ast.StructID
	blocks  []ast.BlockID
	vars    []ast.VariableID
	funcs   []ast.FunctionID
}

func newUnit(doc *document) (*Unit, error) {
	stage, ok := ast.ParseStage(doc.Stage)
	if !ok {
		return nil, &Error{Path: "stage", Err: fmt.Errorf("unknown stage %q", doc.Stage)}
	}
	syms := ast.NewSymbolTable()
	b := &builder{syms: syms, tree: ast.NewTree(syms)}

	for i := range doc.Structs {
		if err := b.addStruct(fmt.Sprintf("structs[%d]", i), &doc.Structs[i]); err != nil {
			return nil, err
		}
	}
	for i := range doc.Blocks {
		if err := b.addBlock(fmt.Sprintf("blocks[%d]", i), &doc.Blocks[i]); err != nil {
			return nil, err
		}
	}
	for i := range doc.Variables {
		if err := b.addVariable(fmt.Sprintf("variables[%d]", i), &doc.Variables[i]); err != nil {
			return nil, err
		}
	}
	for i := range doc.Functions {
		if err := b.addFunction(fmt.Sprintf("functions[%d]", i), &doc.Functions[i]); err != nil {
			return nil, err
		}
	}
	stmts := make([]ast.NodeID, len(doc.Root))
	for i, n := range doc.Root {
		id, err := b.required(fmt.Sprintf("root[%d]", i), n)
		if err != nil {
			return nil, err
		}
		stmts[i] = id
	}
	b.tree.AppendGlobal(stmts...)
	return &Unit{Tree: b.tree, Symbols: syms, Stage: stage, Version: doc.Version}, nil
}

func (b *builder) addStruct(path string, s *structJSON) error {
	kind, err := parseKind(path+".kind", s.Kind)
	if err != nil {
		return err
	}
	fields, err := b.fields(path, s.Fields)
	if err != nil {
		return err
	}
	b.structs = append(b.structs, b.syms.NewStruct(s.Name, kind, fields...))
	return nil
}

func (b *builder) addBlock(path string, bl *blockJSON) error {
	kind, err := parseKind(path+".kind", bl.Kind)
	if err != nil {
		return err
	}
	q, ok := qualifiers[bl.Qualifier]
	if !ok {
		return &Error{Path: path + ".qualifier", Err: fmt.Errorf("unknown qualifier %q", bl.Qualifier)}
	}
	fields, err := b.fields(path, bl.Fields)
	if err != nil {
		return err
	}
	id := b.syms.NewBlock(bl.Name, kind, q, fields...)
	if bl.Layout != nil {
		l, err := parseLayout(path+".layout", bl.Layout)
		if err != nil {
			return err
		}
		b.syms.Block(id).Layout = l
	}
	b.blocks = append(b.blocks, id)
	return nil
}

func (b *builder) fields(path string, in []fieldJSON) ([]ast.Field, error) {
	out := make([]ast.Field, len(in))
	for i, f := range in {
		fp := fmt.Sprintf("%s.fields[%d]", path, i)
		t, err := b.typ(fp+".type", f.Type)
		if err != nil {
			return nil, err
		}
		out[i] = ast.Field{Name: f.Name, Type: t, Loc: ast.SourceLoc{Line: f.Line, Column: f.Column}}
	}
	return out, nil
}

func (b *builder) addVariable(path string, v *variableJSON) error {
	kind, err := parseKind(path+".kind", v.Kind)
	if err != nil {
		return err
	}
	if kind == ast.SymbolBuiltIn {
		return &Error{Path: path + ".kind", Err: errors.New("built-in variables are referenced by name")}
	}
	t, err := b.typ(path+".type", v.Type)
	if err != nil {
		return err
	}
	b.vars = append(b.vars, b.syms.NewVariable(v.Name, kind, t))
	return nil
}

func (b *builder) addFunction(path string, f *functionJSON) error {
	kind, err := parseKind(path+".kind", f.Kind)
	if err != nil {
		return err
	}
	if kind == ast.SymbolBuiltIn {
		return &Error{Path: path + ".kind", Err: errors.New("built-in functions are referenced by signature")}
	}
	ret, err := b.typ(path+".return", f.Return)
	if err != nil {
		return err
	}
	params := make([]ast.VariableID, len(f.Params))
	for i, p := range f.Params {
		v, err := b.variable(fmt.Sprintf("%s.params[%d]", path, i), p)
		if err != nil {
			return err
		}
		params[i] = v
	}
	b.funcs = append(b.funcs, b.syms.NewFunction(f.Name, kind, ret, params...))
	return nil
}

func (b *builder) variable(path string, i int) (ast.VariableID, error) {
	if i < 0 || i >= len(b.vars) {
		return 0, &Error{Path: path, Err: fmt.Errorf("variable %d out of range", i)}
	}
	return b.vars[i], nil
}

func (b *builder) function(path string, i *int) (ast.FunctionID, error) {
	if i == nil {
		return 0, &Error{Path: path, Err: ErrMissing}
	}
	if *i < 0 || *i >= len(b.funcs) {
		return 0, &Error{Path: path, Err: fmt.Errorf("function %d out of range", *i)}
	}
	return b.funcs[*i], nil
}

func (b *builder) typ(path string, in *typeJSON) (ast.Type, error) {
	if in == nil {
		return ast.Type{}, &Error{Path: path, Err: ErrMissing}
	}
	var t ast.Type
	switch in.Code {
	case "struct":
		if in.Struct == nil || *in.Struct < 0 || *in.Struct >= len(b.structs) {
			return ast.Type{}, &Error{Path: path + ".struct", Err: errors.New("struct reference out of range")}
		}
		t = ast.StructType(b.structs[*in.Struct], ast.QualTemporary)
	case "block":
		if in.Block == nil || *in.Block < 0 || *in.Block >= len(b.blocks) {
			return ast.Type{}, &Error{Path: path + ".block", Err: errors.New("block reference out of range")}
		}
		t = ast.BlockType(b.blocks[*in.Block], ast.QualTemporary)
	default:
		var ok bool
		if t, ok = ast.TypeFromCode(in.Code); !ok {
			return ast.Type{}, &Error{Path: path + ".code", Err: fmt.Errorf("unknown type code %q", in.Code)}
		}
	}
	if in.Qualifier != "" {
		q, ok := qualifiers[in.Qualifier]
		if !ok {
			return ast.Type{}, &Error{Path: path + ".qualifier", Err: fmt.Errorf("unknown qualifier %q", in.Qualifier)}
		}
		t.Qualifier = q
	}
	if in.Precision != "" {
		p, ok := precisions[in.Precision]
		if !ok {
			return ast.Type{}, &Error{Path: path + ".precision", Err: fmt.Errorf("unknown precision %q", in.Precision)}
		}
		t.Precision = p
	}
	if in.Interpolation != "" {
		ip, ok := interpolations[in.Interpolation]
		if !ok {
			return ast.Type{}, &Error{Path: path + ".interpolation", Err: fmt.Errorf("unknown interpolation %q", in.Interpolation)}
		}
		t.Interpolation = ip
	}
	t.Invariant = in.Invariant
	t.Precise = in.Precise
	t.StructSpecifier = in.Specifier
	if len(in.Array) > 0 {
		t.ArraySizes = append([]uint32(nil), in.Array...)
	}
	if in.BlockField != nil {
		t.BlockField = *in.BlockField
	}
	if in.Layout != nil {
		l, err := parseLayout(path+".layout", in.Layout)
		if err != nil {
			return ast.Type{}, err
		}
		t.Layout = l
	}
	return t, nil
}

func parseLayout(path string, in *layoutJSON) (ast.Layout, error) {
	l := ast.NoLayout()
	if in.Location != nil {
		l.Location = *in.Location
	}
	if in.Binding != nil {
		l.Binding = *in.Binding
	}
	if in.Set != nil {
		l.Set = *in.Set
	}
	var ok bool
	if l.MatrixPacking, ok = packings[in.Packing]; !ok {
		return l, &Error{Path: path + ".packing", Err: fmt.Errorf("unknown matrix packing %q", in.Packing)}
	}
	if l.BlockStorage, ok = storages[in.Storage]; !ok {
		return l, &Error{Path: path + ".storage", Err: fmt.Errorf("unknown block storage %q", in.Storage)}
	}
	return l, nil
}

func parseKind(path, s string) (ast.SymbolKind, error) {
	if s == "" {
		return ast.SymbolUserDefined, nil
	}
	for k := ast.SymbolUserDefined; k <= ast.SymbolEmpty; k++ {
		if k.String() == s {
			return k, nil
		}
	}
	return 0, &Error{Path: path, Err: fmt.Errorf("unknown symbol kind %q", s)}
}

var qualifiers = func() map[string]ast.Qualifier {
	m := make(map[string]ast.Qualifier)
	for q := ast.QualTemporary; q <= ast.QualSpecConst; q++ {
		m[q.String()] = q
	}
	return m
}()

var precisions = map[string]ast.Precision{
	"lowp":    ast.PrecisionLow,
	"mediump": ast.PrecisionMedium,
	"highp":   ast.PrecisionHigh,
}

var interpolations = map[string]ast.Interpolation{
	"smooth":        ast.InterpSmooth,
	"flat":          ast.InterpFlat,
	"noperspective": ast.InterpNoPerspective,
	"centroid":      ast.InterpCentroid,
	"sample":        ast.InterpSample,
}

var packings = map[string]ast.MatrixPacking{
	"":             ast.PackingUnspecified,
	"column_major": ast.PackingColumnMajor,
	"row_major":    ast.PackingRowMajor,
}

var storages = map[string]ast.BlockStorage{
	"":       ast.StorageUnspecified,
	"std140": ast.StorageStd140,
	"std430": ast.StorageStd430,
}

var loopKinds = map[string]ast.LoopKind{
	"for":      ast.LoopFor,
	"while":    ast.LoopWhile,
	"do_while": ast.LoopDoWhile,
}

var branchOps = map[string]ast.BranchOp{
	"break":    ast.BranchBreak,
	"continue": ast.BranchContinue,
	"return":   ast.BranchReturn,
	"discard":  ast.BranchDiscard,
}

var directives = map[string]ast.DirectiveKind{
	"define":    ast.DirectiveDefine,
	"ifdef":     ast.DirectiveIfdef,
	"if":        ast.DirectiveIf,
	"endif":     ast.DirectiveEndif,
	"extension": ast.DirectiveExtension,
	"pragma":    ast.DirectivePragma,
}

// node builds n and its subtree. A nil n yields NoNode.
func (b *builder) node(path string, n *node) (ast.NodeID, error) {
	if n == nil {
		return ast.NoNode, nil
	}
	loc := ast.SourceLoc{Line: n.Line, Column: n.Column}
	id, err := b.build(path, loc, n)
	if err != nil {
		var e *Error
		if errors.As(err, &e) && e.Loc == (ast.SourceLoc{}) {
			e.Loc = loc
		}
		return ast.NoNode, err
	}
	b.tree.Node(id).Loc = loc
	return id, nil
}

func (b *builder) required(path string, n *node) (ast.NodeID, error) {
	if n == nil {
		return ast.NoNode, &Error{Path: path, Err: ErrMissing}
	}
	return b.node(path, n)
}

func (b *builder) list(path string, ns []*node) ([]ast.NodeID, error) {
	ids := make([]ast.NodeID, len(ns))
	for i, n := range ns {
		id, err := b.required(path+"["+strconv.Itoa(i)+"]", n)
		if err != nil {
			return nil, err
		}
		ids[i] = id
	}
	return ids, nil
}

func (b *builder) build(path string, loc ast.SourceLoc, n *node) (ast.NodeID, error) {
	t := b.tree
	switch n.Kind {
	case "symbol":
		return b.symbol(path, n)

	case "constant":
		typ, err := b.typ(path+".type", n.Type)
		if err != nil {
			return 0, err
		}
		vals, err := constValues(path+".values", typ.Basic, n.Values)
		if err != nil {
			return 0, err
		}
		if n.Type.Qualifier == "" {
			typ.Qualifier = ast.QualConst
		}
		return t.Add(loc, typ, &ast.Constant{Values: vals}), nil

	case "unary":
		op, ok := ast.ParseUnaryOperator(n.Op)
		if !ok {
			return 0, &Error{Path: path + ".op", Err: fmt.Errorf("unknown operator %q", n.Op)}
		}
		operand, err := b.required(path+".operand", n.Operand)
		if err != nil {
			return 0, err
		}
		typ, err := b.exprType(path, n, operand)
		if err != nil {
			return 0, err
		}
		return t.Unary(op, operand, typ), nil

	case "binary":
		op, ok := ast.ParseOperator(n.Op)
		if !ok {
			return 0, &Error{Path: path + ".op", Err: fmt.Errorf("unknown operator %q", n.Op)}
		}
		left, err := b.required(path+".left", n.Left)
		if err != nil {
			return 0, err
		}
		right, err := b.required(path+".right", n.Right)
		if err != nil {
			return 0, err
		}
		if n.Type == nil && (op.IsAssignment() || op == ast.OpInitialize) {
			typ := t.TypeOf(left).Clone()
			if op != ast.OpInitialize {
				typ.Qualifier = ast.QualTemporary
			}
			return t.Binary(op, left, right, typ), nil
		}
		typ, err := b.exprType(path, n, left)
		if err != nil {
			return 0, err
		}
		return t.Binary(op, left, right, typ), nil

	case "ternary":
		cond, err := b.required(path+".cond", n.Cond)
		if err != nil {
			return 0, err
		}
		then, err := b.required(path+".then", n.Then)
		if err != nil {
			return 0, err
		}
		els, err := b.required(path+".else", n.Else)
		if err != nil {
			return 0, err
		}
		typ, err := b.exprType(path, n, then)
		if err != nil {
			return 0, err
		}
		return t.Add(loc, typ, &ast.Ternary{Cond: cond, True: then, False: els}), nil

	case "swizzle":
		operand, err := b.required(path+".operand", n.Operand)
		if err != nil {
			return 0, err
		}
		if len(n.Offsets) == 0 || len(n.Offsets) > 4 {
			return 0, &Error{Path: path + ".offsets", Err: fmt.Errorf("%d components", len(n.Offsets))}
		}
		return t.Swizzle(operand, n.Offsets...), nil

	case "construct":
		typ, err := b.typ(path+".type", n.Type)
		if err != nil {
			return 0, err
		}
		args, err := b.list(path+".args", n.Args)
		if err != nil {
			return 0, err
		}
		return t.Construct(typ, args...), nil

	case "call":
		f, err := b.function(path+".function", n.Function)
		if err != nil {
			return 0, err
		}
		args, err := b.list(path+".args", n.Args)
		if err != nil {
			return 0, err
		}
		return t.Call(f, args...), nil

	case "builtin_call":
		f, ok := b.syms.LookupBuiltInFunction(n.Signature)
		if !ok {
			return 0, &Error{Path: path + ".signature", Err: fmt.Errorf("unknown built-in function %q", n.Signature)}
		}
		args, err := b.list(path+".args", n.Args)
		if err != nil {
			return 0, err
		}
		return t.CallBuiltIn(b.syms.Function(f).BuiltIn, args...), nil

	case "block":
		stmts, err := b.list(path+".stmts", n.Stmts)
		if err != nil {
			return 0, err
		}
		return t.NewBlock(stmts...), nil

	case "declaration":
		if len(n.Declarators) == 0 {
			return 0, &Error{Path: path + ".declarators", Err: ErrMissing}
		}
		decls, err := b.list(path+".declarators", n.Declarators)
		if err != nil {
			return 0, err
		}
		return t.Add(loc, ast.Type{}, &ast.Declaration{Declarators: decls}), nil

	case "loop":
		kind, ok := loopKinds[n.Loop]
		if !ok {
			return 0, &Error{Path: path + ".loop", Err: fmt.Errorf("unknown loop kind %q", n.Loop)}
		}
		init, err := b.node(path+".init", n.Init)
		if err != nil {
			return 0, err
		}
		cond, err := b.node(path+".cond", n.Cond)
		if err != nil {
			return 0, err
		}
		expr, err := b.node(path+".expr", n.Expr)
		if err != nil {
			return 0, err
		}
		body, err := b.required(path+".body", n.Body)
		if err != nil {
			return 0, err
		}
		return t.Add(loc, ast.Type{}, &ast.Loop{Kind: kind, Init: init, Cond: cond, Expr: expr, Body: body}), nil

	case "if":
		cond, err := b.required(path+".cond", n.Cond)
		if err != nil {
			return 0, err
		}
		then, err := b.required(path+".then", n.Then)
		if err != nil {
			return 0, err
		}
		els, err := b.node(path+".else", n.Else)
		if err != nil {
			return 0, err
		}
		return t.If(cond, then, els), nil

	case "branch":
		op, ok := branchOps[n.Op]
		if !ok {
			return 0, &Error{Path: path + ".op", Err: fmt.Errorf("unknown branch %q", n.Op)}
		}
		expr, err := b.node(path+".expr", n.Expr)
		if err != nil {
			return 0, err
		}
		return t.Add(loc, ast.Type{}, &ast.Branch{Op: op, Expr: expr}), nil

	case "switch":
		sel, err := b.required(path+".selector", n.Selector)
		if err != nil {
			return 0, err
		}
		body, err := b.required(path+".body", n.Body)
		if err != nil {
			return 0, err
		}
		return t.Add(loc, ast.Type{}, &ast.Switch{Selector: sel, Body: body}), nil

	case "case":
		cond, err := b.node(path+".cond", n.Cond)
		if err != nil {
			return 0, err
		}
		return t.Add(loc, ast.Type{}, &ast.Case{Cond: cond}), nil

	case "prototype":
		f, err := b.function(path+".function", n.Function)
		if err != nil {
			return 0, err
		}
		return t.Prototype(f), nil

	case "function":
		f, err := b.function(path+".function", n.Function)
		if err != nil {
			return 0, err
		}
		body, err := b.required(path+".body", n.Body)
		if err != nil {
			return 0, err
		}
		return t.Define(f, body), nil

	case "qualifier":
		target, err := b.required(path+".target", n.Target)
		if err != nil {
			return 0, err
		}
		return t.Add(loc, ast.Type{}, &ast.GlobalQualifierDecl{Target: target, Invariant: n.Invariant, Precise: n.Precise}), nil

	case "directive":
		kind, ok := directives[n.Directive]
		if !ok {
			return 0, &Error{Path: path + ".directive", Err: fmt.Errorf("unknown directive %q", n.Directive)}
		}
		return t.Add(loc, ast.Type{}, &ast.PreprocessorDirective{Kind: kind, Command: n.Command}), nil
	}
	return 0, &Error{Path: path + ".kind", Err: fmt.Errorf("unknown node kind %q", n.Kind)}
}

func (b *builder) symbol(path string, n *node) (ast.NodeID, error) {
	switch {
	case n.Var != nil && n.BuiltIn != "":
		return 0, &Error{Path: path, Err: errors.New("symbol names both a variable and a built-in")}
	case n.Var != nil:
		v, err := b.variable(path+".var", *n.Var)
		if err != nil {
			return 0, err
		}
		return b.tree.Sym(v), nil
	case n.BuiltIn != "":
		v, ok := b.syms.LookupBuiltInVariable(n.BuiltIn)
		if !ok {
			return 0, &Error{Path: path + ".builtin", Err: fmt.Errorf("unknown built-in variable %q", n.BuiltIn)}
		}
		return b.tree.Sym(v), nil
	}
	return 0, &Error{Path: path + ".var", Err: ErrMissing}
}

// exprType returns the declared type of n, or the type of like when n
// carries none.
func (b *builder) exprType(path string, n *node, like ast.NodeID) (ast.Type, error) {
	if n.Type != nil {
		return b.typ(path+".type", n.Type)
	}
	typ := b.tree.TypeOf(like).Clone()
	typ.Qualifier = ast.QualTemporary
	return typ, nil
}

func constValues(path string, basic ast.BasicType, in []any) ([]ast.ConstValue, error) {
	if len(in) == 0 {
		return nil, &Error{Path: path, Err: ErrMissing}
	}
	out := make([]ast.ConstValue, len(in))
	for i, v := range in {
		cv := ast.ConstValue{Basic: basic}
		switch x := v.(type) {
		case bool:
			if basic != ast.BasicBool {
				return nil, &Error{Path: fmt.Sprintf("%s[%d]", path, i), Err: fmt.Errorf("bool value in %s constant", basic)}
			}
			cv.Bool = x
		case float64:
			switch basic {
			case ast.BasicFloat:
				cv.Float = float32(x)
			case ast.BasicInt:
				cv.Int = int32(x)
			case ast.BasicUInt:
				if x < 0 {
					return nil, &Error{Path: fmt.Sprintf("%s[%d]", path, i), Err: fmt.Errorf("negative uint %v", x)}
				}
				cv.UInt = uint32(x)
			case ast.BasicBool:
				cv.Bool = x != 0
			default:
				return nil, &Error{Path: path, Err: fmt.Errorf("%s constant", basic)}
			}
		default:
			return nil, &Error{Path: fmt.Sprintf("%s[%d]", path, i), Err: fmt.Errorf("unexpected value %v", v)}
		}
		out[i] = cv
	}
	return out, nil
}
