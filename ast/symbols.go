package ast

import "github.com/gogpu/translator/builtins"

// Handle types for referencing symbols. The zero value of each is "none".
type (
	VariableID uint32
	FunctionID uint32
	StructID   uint32
	BlockID    uint32
)

// IsValid reports whether the handle refers to a symbol.
func (id VariableID) IsValid() bool { return id != 0 }

// IsValid reports whether the handle refers to a symbol.
func (id FunctionID) IsValid() bool { return id != 0 }

// IsValid reports whether the handle refers to a symbol.
func (id StructID) IsValid() bool { return id != 0 }

// IsValid reports whether the handle refers to a symbol.
func (id BlockID) IsValid() bool { return id != 0 }

// SymbolKind tells where a symbol came from.
type SymbolKind uint8

const (
	SymbolUserDefined SymbolKind = iota
	SymbolBuiltIn
	SymbolInternal
	SymbolEmpty
)

func (k SymbolKind) String() string {
	switch k {
	case SymbolUserDefined:
		return "user"
	case SymbolBuiltIn:
		return "builtin"
	case SymbolInternal:
		return "internal"
	case SymbolEmpty:
		return "empty"
	default:
		return "unknown"
	}
}

// Variable is a variable symbol.
type Variable struct {
	Name string
	Kind SymbolKind
	Type Type

	// BuiltIn is the catalogue id of a built-in variable.
	BuiltIn builtins.ID
}

// Field is a member of a struct or interface block.
type Field struct {
	Name string
	Type Type
	Loc  SourceLoc
	Kind SymbolKind
}

// Structure is a struct definition.
type Structure struct {
	Name   string
	Kind   SymbolKind
	Fields []Field
}

// InterfaceBlock is a uniform, buffer, input or output block definition.
type InterfaceBlock struct {
	Name      string
	Kind      SymbolKind
	Fields    []Field
	Qualifier Qualifier
	Layout    Layout
}

// Function is a function symbol.
type Function struct {
	Name   string
	Kind   SymbolKind
	Params []VariableID
	Return Type

	// Op is the operator a built-in function maps to.
	Op Operator
	// BuiltIn is the catalogue id of a built-in function signature.
	BuiltIn builtins.ID
}

// SymbolTable owns every symbol of one compilation. Built-in symbols are
// created on first use and keep one canonical handle for the whole tree.
type SymbolTable struct {
	variables []Variable
	functions []Function
	structs   []Structure
	blocks    []InterfaceBlock

	builtinVars  map[builtins.ID]VariableID
	builtinFuncs map[builtins.ID]FunctionID

	depthRangeStruct StructID
	perVertexBlock   BlockID

	scopes []map[string]VariableID
}

// NewSymbolTable returns an empty table with the global scope pushed.
func NewSymbolTable() *SymbolTable {
	return &SymbolTable{
		variables:    make([]Variable, 1),
		functions:    make([]Function, 1),
		structs:      make([]Structure, 1),
		blocks:       make([]InterfaceBlock, 1),
		builtinVars:  make(map[builtins.ID]VariableID),
		builtinFuncs: make(map[builtins.ID]FunctionID),
		scopes:       []map[string]VariableID{{}},
	}
}

// NewVariable adds a variable and returns its handle.
func (s *SymbolTable) NewVariable(name string, kind SymbolKind, t Type) VariableID {
	s.variables = append(s.variables, Variable{Name: name, Kind: kind, Type: t})
	return VariableID(len(s.variables) - 1)
}

// NewFunction adds a function and returns its handle.
func (s *SymbolTable) NewFunction(name string, kind SymbolKind, ret Type, params ...VariableID) FunctionID {
	s.functions = append(s.functions, Function{Name: name, Kind: kind, Return: ret, Params: params, Op: OpCallFunctionInAST})
	return FunctionID(len(s.functions) - 1)
}

// NewStruct adds a struct definition and returns its handle.
func (s *SymbolTable) NewStruct(name string, kind SymbolKind, fields ...Field) StructID {
	s.structs = append(s.structs, Structure{Name: name, Kind: kind, Fields: fields})
	return StructID(len(s.structs) - 1)
}

// NewBlock adds an interface block definition and returns its handle.
func (s *SymbolTable) NewBlock(name string, kind SymbolKind, q Qualifier, fields ...Field) BlockID {
	s.blocks = append(s.blocks, InterfaceBlock{Name: name, Kind: kind, Qualifier: q, Fields: fields, Layout: NoLayout()})
	return BlockID(len(s.blocks) - 1)
}

// Variable returns the variable for id. The pointer stays valid until the
// next variable is added.
func (s *SymbolTable) Variable(id VariableID) *Variable {
	return &s.variables[id]
}

// Function returns the function for id.
func (s *SymbolTable) Function(id FunctionID) *Function {
	return &s.functions[id]
}

// Struct returns the struct definition for id.
func (s *SymbolTable) Struct(id StructID) *Structure {
	return &s.structs[id]
}

// Block returns the interface block definition for id.
func (s *SymbolTable) Block(id BlockID) *InterfaceBlock {
	return &s.blocks[id]
}

// NumVariables returns the number of variables, including the reserved slot.
func (s *SymbolTable) NumVariables() int { return len(s.variables) }

// NumFunctions returns the number of functions, including the reserved slot.
func (s *SymbolTable) NumFunctions() int { return len(s.functions) }

// NumStructs returns the number of structs, including the reserved slot.
func (s *SymbolTable) NumStructs() int { return len(s.structs) }

// NumBlocks returns the number of blocks, including the reserved slot.
func (s *SymbolTable) NumBlocks() int { return len(s.blocks) }

// BuiltInVariable returns the canonical handle of a built-in variable.
// It panics if id is not a built-in variable id.
func (s *SymbolTable) BuiltInVariable(id builtins.ID) VariableID {
	if v, ok := s.builtinVars[id]; ok {
		return v
	}
	if !builtins.IsVariable(id) {
		panic("ast: not a built-in variable id: " + builtins.Name(id))
	}
	v := s.NewVariable(builtins.Name(id), SymbolBuiltIn, s.builtinVariableType(id))
	s.variables[v].BuiltIn = id
	s.builtinVars[id] = v
	return v
}

// LookupBuiltInVariable returns the handle of a built-in variable by name,
// or false if name is not a built-in variable.
func (s *SymbolTable) LookupBuiltInVariable(name string) (VariableID, bool) {
	id := builtins.ClassifyUnmangled(name)
	if id == builtins.NotBuiltIn {
		return 0, false
	}
	return s.BuiltInVariable(id), true
}

// FindBuiltInVariable returns the handle of a built-in variable that has
// already been created, without creating one.
func (s *SymbolTable) FindBuiltInVariable(id builtins.ID) (VariableID, bool) {
	v, ok := s.builtinVars[id]
	return v, ok
}

// BuiltInFunction returns the canonical handle of a built-in function
// signature. It panics if id is not a built-in function id.
func (s *SymbolTable) BuiltInFunction(id builtins.ID) FunctionID {
	if f, ok := s.builtinFuncs[id]; ok {
		return f
	}
	sig, ok := builtinSignature(id)
	if !ok {
		panic("ast: not a built-in function id: " + builtins.Name(id))
	}
	params := make([]VariableID, len(sig.params))
	for i, code := range sig.params {
		t, _ := TypeFromCode(code)
		params[i] = s.NewVariable("", SymbolEmpty, t.WithQualifier(QualParamIn))
	}
	ret, _ := TypeFromCode(sig.ret)
	f := s.NewFunction(sig.name, SymbolBuiltIn, ret, params...)
	s.functions[f].Op = sig.op
	s.functions[f].BuiltIn = id
	s.builtinFuncs[id] = f
	return f
}

// LookupBuiltInFunction returns a built-in function by mangled name.
func (s *SymbolTable) LookupBuiltInFunction(mangled string) (FunctionID, bool) {
	id := builtins.ClassifyMangled(mangled)
	if id == builtins.NotBuiltIn {
		return 0, false
	}
	return s.BuiltInFunction(id), true
}

// DepthRangeStruct returns the built-in gl_DepthRangeParameters struct.
func (s *SymbolTable) DepthRangeStruct() StructID {
	if s.depthRangeStruct == 0 {
		f := Scalar(BasicFloat, QualTemporary)
		f.Precision = PrecisionHigh
		s.depthRangeStruct = s.NewStruct("gl_DepthRangeParameters", SymbolBuiltIn,
			Field{Name: "near", Type: f, Kind: SymbolBuiltIn},
			Field{Name: "far", Type: f, Kind: SymbolBuiltIn},
			Field{Name: "diff", Type: f, Kind: SymbolBuiltIn},
		)
	}
	return s.depthRangeStruct
}

// PerVertexBlock returns the built-in gl_PerVertex block used by gl_in and gl_out.
func (s *SymbolTable) PerVertexBlock() BlockID {
	if s.perVertexBlock == 0 {
		s.perVertexBlock = s.NewBlock("gl_PerVertex", SymbolBuiltIn, QualIn, PerVertexFields(0, 0)...)
	}
	return s.perVertexBlock
}

// PerVertexFields returns the gl_PerVertex members with the given clip and
// cull distance array sizes.
func PerVertexFields(clip, cull uint32) []Field {
	pos := Vector(BasicFloat, 4, QualTemporary)
	pos.Precision = PrecisionHigh
	ps := Scalar(BasicFloat, QualTemporary)
	ps.Precision = PrecisionMedium
	dist := Scalar(BasicFloat, QualTemporary)
	dist.Precision = PrecisionHigh
	return []Field{
		{Name: "gl_Position", Type: pos, Kind: SymbolBuiltIn},
		{Name: "gl_PointSize", Type: ps, Kind: SymbolBuiltIn},
		{Name: "gl_ClipDistance", Type: dist.ArrayOf(clip), Kind: SymbolBuiltIn},
		{Name: "gl_CullDistance", Type: dist.ArrayOf(cull), Kind: SymbolBuiltIn},
	}
}

// PushScope opens a name scope for front-end style lookups.
func (s *SymbolTable) PushScope() {
	s.scopes = append(s.scopes, map[string]VariableID{})
}

// PopScope closes the innermost name scope. The global scope is never popped.
func (s *SymbolTable) PopScope() {
	if len(s.scopes) > 1 {
		s.scopes = s.scopes[:len(s.scopes)-1]
	}
}

// Declare binds a variable's name in the innermost scope. It returns false
// if the name is already bound in that scope.
func (s *SymbolTable) Declare(v VariableID) bool {
	name := s.variables[v].Name
	top := s.scopes[len(s.scopes)-1]
	if _, exists := top[name]; exists {
		return false
	}
	top[name] = v
	return true
}

// Lookup resolves a name through the scope stack, then the built-ins.
func (s *SymbolTable) Lookup(name string) (VariableID, bool) {
	for i := len(s.scopes) - 1; i >= 0; i-- {
		if v, ok := s.scopes[i][name]; ok {
			return v, true
		}
	}
	return s.LookupBuiltInVariable(name)
}

// AtGlobalScope reports whether only the global name scope is open.
func (s *SymbolTable) AtGlobalScope() bool {
	return len(s.scopes) == 1
}
