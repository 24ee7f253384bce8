package ast

import "github.com/gogpu/translator/builtins"

// Constructors for nodes. They use the zero SourceLoc; callers that track
// locations can set Node(id).Loc afterwards.

// Sym returns a reference to v.
func (t *Tree) Sym(v VariableID) NodeID {
	return t.Add(SourceLoc{}, Type{}, &Symbol{Var: v})
}

// FloatConst returns a float constant with one component per value.
func (t *Tree) FloatConst(values ...float32) NodeID {
	vals := make([]ConstValue, len(values))
	for i, f := range values {
		vals[i] = ConstValue{Basic: BasicFloat, Float: f}
	}
	return t.constant(BasicFloat, vals)
}

// IntConst returns an int constant.
func (t *Tree) IntConst(values ...int32) NodeID {
	vals := make([]ConstValue, len(values))
	for i, v := range values {
		vals[i] = ConstValue{Basic: BasicInt, Int: v}
	}
	return t.constant(BasicInt, vals)
}

// UIntConst returns a uint constant.
func (t *Tree) UIntConst(values ...uint32) NodeID {
	vals := make([]ConstValue, len(values))
	for i, v := range values {
		vals[i] = ConstValue{Basic: BasicUInt, UInt: v}
	}
	return t.constant(BasicUInt, vals)
}

// BoolConst returns a bool constant.
func (t *Tree) BoolConst(v bool) NodeID {
	return t.constant(BasicBool, []ConstValue{{Basic: BasicBool, Bool: v}})
}

func (t *Tree) constant(b BasicType, vals []ConstValue) NodeID {
	typ := Vector(b, uint8(len(vals)), QualConst)
	if len(vals) == 1 {
		typ = Scalar(b, QualConst)
	}
	return t.Add(SourceLoc{}, typ, &Constant{Values: vals})
}

// ConstIndex returns the integer value of a scalar constant node, or false
// if id is not one.
func (t *Tree) ConstIndex(id NodeID) (int, bool) {
	c, ok := t.nodes[id].Data.(*Constant)
	if !ok || len(c.Values) != 1 {
		return 0, false
	}
	switch v := c.Values[0]; v.Basic {
	case BasicInt:
		return int(v.Int), true
	case BasicUInt:
		return int(v.UInt), true
	}
	return 0, false
}

// Unary returns op applied to operand with result type typ.
func (t *Tree) Unary(op Operator, operand NodeID, typ Type) NodeID {
	return t.Add(SourceLoc{}, typ, &Unary{Op: op, Operand: operand})
}

// Binary returns left op right with result type typ.
func (t *Tree) Binary(op Operator, left, right NodeID, typ Type) NodeID {
	return t.Add(SourceLoc{}, typ, &Binary{Op: op, Left: left, Right: right})
}

// Assign returns "left = right".
func (t *Tree) Assign(left, right NodeID) NodeID {
	return t.Binary(OpAssign, left, right, t.TypeOf(left).WithQualifier(QualTemporary))
}

// Index returns base[index] with a constant index.
func (t *Tree) Index(base NodeID, index int) NodeID {
	return t.Binary(OpIndexDirect, base, t.IntConst(int32(index)), t.indexedType(base))
}

// IndexBy returns base[index] with an arbitrary index expression.
func (t *Tree) IndexBy(base, index NodeID) NodeID {
	op := OpIndexIndirect
	if _, ok := t.ConstIndex(index); ok {
		op = OpIndexDirect
	}
	return t.Binary(op, base, index, t.indexedType(base))
}

func (t *Tree) indexedType(base NodeID) Type {
	e := t.TypeOf(base).Element()
	e.Qualifier = QualTemporary
	return e
}

// FieldAccess returns base.field for a struct-typed base.
func (t *Tree) FieldAccess(base NodeID, field int) NodeID {
	st := t.TypeOf(base)
	ft := t.Symbols.Struct(st.Struct).Fields[field].Type.Clone()
	ft.Qualifier = QualTemporary
	return t.Binary(OpIndexDirectStruct, base, t.IntConst(int32(field)), ft)
}

// BlockFieldAccess returns instance.field for an interface block instance.
func (t *Tree) BlockFieldAccess(instance NodeID, field int) NodeID {
	bt := t.TypeOf(instance)
	ft := t.Symbols.Block(bt.Block).Fields[field].Type.Clone()
	ft.Qualifier = QualTemporary
	return t.Binary(OpIndexDirectInterfaceBlock, instance, t.IntConst(int32(field)), ft)
}

// Swizzle returns operand.xyzw selected by offsets.
func (t *Tree) Swizzle(operand NodeID, offsets ...int) NodeID {
	typ := t.TypeOf(operand).Clone()
	typ.Qualifier = QualTemporary
	typ.ArraySizes = nil
	typ.Primary = uint8(len(offsets))
	typ.Secondary = 1
	return t.Add(SourceLoc{}, typ, &Swizzle{Operand: operand, Offsets: offsets})
}

// Construct returns a constructor call of type typ.
func (t *Tree) Construct(typ Type, args ...NodeID) NodeID {
	typ = typ.Clone()
	typ.Qualifier = QualTemporary
	return t.Add(SourceLoc{}, typ, &Aggregate{Op: OpConstruct, Args: args})
}

// Call returns a call to a function defined in the tree.
func (t *Tree) Call(f FunctionID, args ...NodeID) NodeID {
	ret := t.Symbols.Function(f).Return.Clone()
	return t.Add(SourceLoc{}, ret, &Aggregate{Op: OpCallFunctionInAST, Func: f, Args: args})
}

// CallRaw returns a call to a function the target provides outside the tree.
func (t *Tree) CallRaw(f FunctionID, args ...NodeID) NodeID {
	ret := t.Symbols.Function(f).Return.Clone()
	return t.Add(SourceLoc{}, ret, &Aggregate{Op: OpCallInternalRawFunction, Func: f, Args: args})
}

// CallBuiltIn returns a call to the built-in function signature id.
func (t *Tree) CallBuiltIn(id builtins.ID, args ...NodeID) NodeID {
	f := t.Symbols.BuiltInFunction(id)
	fn := t.Symbols.Function(f)
	ret := fn.Return.Clone()
	return t.Add(SourceLoc{}, ret, &Aggregate{Op: fn.Op, Func: f, Args: args})
}

// NewBlock returns a non-root block.
func (t *Tree) NewBlock(stmts ...NodeID) NodeID {
	return t.Add(SourceLoc{}, Type{}, &Block{Stmts: stmts})
}

// Declare returns a declaration of v, initialized when init is valid.
func (t *Tree) Declare(v VariableID, init NodeID) NodeID {
	decl := t.Sym(v)
	if init.IsValid() {
		typ := t.Symbols.Variable(v).Type.Clone()
		decl = t.Binary(OpInitialize, decl, init, typ)
	}
	return t.Add(SourceLoc{}, Type{}, &Declaration{Declarators: []NodeID{decl}})
}

// If returns an if statement. els may be NoNode.
func (t *Tree) If(cond, then, els NodeID) NodeID {
	return t.Add(SourceLoc{}, Type{}, &IfElse{Cond: cond, Then: then, Else: els})
}

// Return returns a return statement with an optional value.
func (t *Tree) Return(value NodeID) NodeID {
	return t.Add(SourceLoc{}, Type{}, &Branch{Op: BranchReturn, Expr: value})
}

// Prototype returns a function prototype node.
func (t *Tree) Prototype(f FunctionID) NodeID {
	return t.Add(SourceLoc{}, t.Symbols.Function(f).Return.Clone(), &FunctionPrototype{Func: f})
}

// Define returns a function definition with the given body block.
func (t *Tree) Define(f FunctionID, body NodeID) NodeID {
	return t.Add(SourceLoc{}, Type{}, &FunctionDefinition{Proto: t.Prototype(f), Body: body})
}

// AppendGlobal appends statements to the root block.
func (t *Tree) AppendGlobal(stmts ...NodeID) {
	root := t.nodes[t.Root].Data.(*Block)
	root.Stmts = append(root.Stmts, stmts...)
}

// AppendStatements appends statements to a block.
func (t *Tree) AppendStatements(block NodeID, stmts ...NodeID) {
	b := t.nodes[block].Data.(*Block)
	b.Stmts = append(b.Stmts, stmts...)
}
