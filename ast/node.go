package ast

import "fmt"

// SourceLoc is a position in the shader source.
type SourceLoc struct {
	Line   int
	Column int
}

func (l SourceLoc) String() string {
	return fmt.Sprintf("%d:%d", l.Line, l.Column)
}

// NodeID addresses a node in a Tree. NoNode marks an absent child.
type NodeID uint32

// NoNode is the zero NodeID.
const NoNode NodeID = 0

// IsValid reports whether id refers to a node.
func (id NodeID) IsValid() bool { return id != NoNode }

// Node is one arena slot. Type is meaningful for expression nodes other
// than Symbol, whose type is that of the referenced variable.
type Node struct {
	Loc  SourceLoc
	Type Type
	Data NodeData
}

// NodeData is the kind-specific payload of a node.
type NodeData interface {
	nodeData()
}

// Symbol references a variable.
type Symbol struct {
	Var VariableID
}

// ConstValue is one scalar component of a constant.
type ConstValue struct {
	Basic BasicType
	Float float32
	Int   int32
	UInt  uint32
	Bool  bool
}

// Constant is a literal value with one entry per scalar component.
type Constant struct {
	Values []ConstValue
}

// Unary applies Op to Operand. Built-in operators also carry Func.
type Unary struct {
	Op      Operator
	Operand NodeID
	Func    FunctionID
}

// Binary applies Op to Left and Right. Index operators index Left by Right.
type Binary struct {
	Op    Operator
	Left  NodeID
	Right NodeID
}

// Ternary is the conditional operator.
type Ternary struct {
	Cond  NodeID
	True  NodeID
	False NodeID
}

// Swizzle selects vector components of Operand.
type Swizzle struct {
	Operand NodeID
	Offsets []int
}

// Aggregate is a function call or constructor with any number of arguments.
type Aggregate struct {
	Op   Operator
	Func FunctionID
	Args []NodeID
}

// Block is a statement list. The root of a tree is a Block with IsRoot set.
type Block struct {
	Stmts  []NodeID
	IsRoot bool
}

// Declaration declares one or more variables. Each declarator is a Symbol
// node or a Binary OpInitialize with a Symbol on the left.
type Declaration struct {
	Declarators []NodeID
}

// LoopKind distinguishes the three loop forms.
type LoopKind uint8

const (
	LoopFor LoopKind = iota
	LoopWhile
	LoopDoWhile
)

// Loop is a for, while or do-while loop. Init, Cond and Expr are optional.
type Loop struct {
	Kind LoopKind
	Init NodeID
	Cond NodeID
	Expr NodeID
	Body NodeID
}

// IfElse is an if statement. Else is optional.
type IfElse struct {
	Cond NodeID
	Then NodeID
	Else NodeID
}

// Branch is a jump statement. Expr is the optional return value.
type Branch struct {
	Op   BranchOp
	Expr NodeID
}

// Switch is a switch statement; Body is a Block holding Case labels and
// statements.
type Switch struct {
	Selector NodeID
	Body     NodeID
}

// Case is a case label. A missing Cond is the default label.
type Case struct {
	Cond NodeID
}

// FunctionPrototype declares a function without defining it.
type FunctionPrototype struct {
	Func FunctionID
}

// FunctionDefinition pairs a prototype node with a body block.
type FunctionDefinition struct {
	Proto NodeID
	Body  NodeID
}

// GlobalQualifierDecl is an "invariant x;" or "precise x;" redeclaration.
// Target is a Symbol node.
type GlobalQualifierDecl struct {
	Target    NodeID
	Invariant bool
	Precise   bool
}

// DirectiveKind is the kind of a preprocessor directive kept in the tree.
type DirectiveKind uint8

const (
	DirectiveDefine DirectiveKind = iota
	DirectiveIfdef
	DirectiveIf
	DirectiveEndif
	DirectiveExtension
	DirectivePragma
)

// PreprocessorDirective is a directive that survives preprocessing.
type PreprocessorDirective struct {
	Kind    DirectiveKind
	Command string
}

func (*Symbol) nodeData()                {}
func (*Constant) nodeData()              {}
func (*Unary) nodeData()                 {}
func (*Binary) nodeData()                {}
func (*Ternary) nodeData()               {}
func (*Swizzle) nodeData()               {}
func (*Aggregate) nodeData()             {}
func (*Block) nodeData()                 {}
func (*Declaration) nodeData()           {}
func (*Loop) nodeData()                  {}
func (*IfElse) nodeData()                {}
func (*Branch) nodeData()                {}
func (*Switch) nodeData()                {}
func (*Case) nodeData()                  {}
func (*FunctionPrototype) nodeData()     {}
func (*FunctionDefinition) nodeData()    {}
func (*GlobalQualifierDecl) nodeData()   {}
func (*PreprocessorDirective) nodeData() {}

// KindName returns a short name for the kind of d.
func KindName(d NodeData) string {
	switch d.(type) {
	case *Symbol:
		return "Symbol"
	case *Constant:
		return "Constant"
	case *Unary:
		return "Unary"
	case *Binary:
		return "Binary"
	case *Ternary:
		return "Ternary"
	case *Swizzle:
		return "Swizzle"
	case *Aggregate:
		return "Aggregate"
	case *Block:
		return "Block"
	case *Declaration:
		return "Declaration"
	case *Loop:
		return "Loop"
	case *IfElse:
		return "IfElse"
	case *Branch:
		return "Branch"
	case *Switch:
		return "Switch"
	case *Case:
		return "Case"
	case *FunctionPrototype:
		return "FunctionPrototype"
	case *FunctionDefinition:
		return "FunctionDefinition"
	case *GlobalQualifierDecl:
		return "GlobalQualifierDecl"
	case *PreprocessorDirective:
		return "PreprocessorDirective"
	default:
		return "Unknown"
	}
}

// IsSequence reports whether d hosts a variable number of children that may
// be replaced by several nodes at once.
func IsSequence(d NodeData) bool {
	switch d.(type) {
	case *Block, *Declaration, *Aggregate:
		return true
	default:
		return false
	}
}

// MinChildren returns the least number of children a node of this kind must
// have.
func MinChildren(d NodeData) int {
	switch d.(type) {
	case *Unary, *Swizzle, *Declaration, *Loop, *GlobalQualifierDecl:
		return 1
	case *Binary, *FunctionDefinition, *Switch, *IfElse:
		return 2
	case *Ternary:
		return 3
	default:
		return 0
	}
}

// children appends the children of d to dst. Required children are listed
// even when absent so callers can detect null links; optional ones only when
// present.
func children(dst []NodeID, d NodeData) []NodeID {
	switch d := d.(type) {
	case *Symbol, *Constant, *FunctionPrototype, *PreprocessorDirective:
		return dst
	case *Unary:
		return append(dst, d.Operand)
	case *Binary:
		return append(dst, d.Left, d.Right)
	case *Ternary:
		return append(dst, d.Cond, d.True, d.False)
	case *Swizzle:
		return append(dst, d.Operand)
	case *Aggregate:
		return append(dst, d.Args...)
	case *Block:
		return append(dst, d.Stmts...)
	case *Declaration:
		return append(dst, d.Declarators...)
	case *Loop:
		if d.Init.IsValid() {
			dst = append(dst, d.Init)
		}
		if d.Cond.IsValid() {
			dst = append(dst, d.Cond)
		}
		if d.Expr.IsValid() {
			dst = append(dst, d.Expr)
		}
		return append(dst, d.Body)
	case *IfElse:
		dst = append(dst, d.Cond, d.Then)
		if d.Else.IsValid() {
			dst = append(dst, d.Else)
		}
		return dst
	case *Branch:
		if d.Expr.IsValid() {
			dst = append(dst, d.Expr)
		}
		return dst
	case *Switch:
		return append(dst, d.Selector, d.Body)
	case *Case:
		if d.Cond.IsValid() {
			dst = append(dst, d.Cond)
		}
		return dst
	case *FunctionDefinition:
		return append(dst, d.Proto, d.Body)
	case *GlobalQualifierDecl:
		return append(dst, d.Target)
	default:
		panic(fmt.Sprintf("ast: unknown node kind %T", d))
	}
}

// replaceChild swaps the child old of d for repl. It reports whether old was
// found. Optional children may be cleared by passing NoNode.
func replaceChild(d NodeData, old, repl NodeID) bool {
	swap := func(p *NodeID) bool {
		if *p == old {
			*p = repl
			return true
		}
		return false
	}
	swapIn := func(s []NodeID) bool {
		for i := range s {
			if s[i] == old {
				s[i] = repl
				return true
			}
		}
		return false
	}
	switch d := d.(type) {
	case *Unary:
		return swap(&d.Operand)
	case *Binary:
		return swap(&d.Left) || swap(&d.Right)
	case *Ternary:
		return swap(&d.Cond) || swap(&d.True) || swap(&d.False)
	case *Swizzle:
		return swap(&d.Operand)
	case *Aggregate:
		return swapIn(d.Args)
	case *Block:
		return swapIn(d.Stmts)
	case *Declaration:
		return swapIn(d.Declarators)
	case *Loop:
		return swap(&d.Init) || swap(&d.Cond) || swap(&d.Expr) || swap(&d.Body)
	case *IfElse:
		return swap(&d.Cond) || swap(&d.Then) || swap(&d.Else)
	case *Branch:
		return swap(&d.Expr)
	case *Switch:
		return swap(&d.Selector) || swap(&d.Body)
	case *Case:
		return swap(&d.Cond)
	case *FunctionDefinition:
		return swap(&d.Proto) || swap(&d.Body)
	case *GlobalQualifierDecl:
		return swap(&d.Target)
	default:
		return false
	}
}

// sequence returns a pointer to the child slice of a sequence container.
func sequence(d NodeData) *[]NodeID {
	switch d := d.(type) {
	case *Block:
		return &d.Stmts
	case *Declaration:
		return &d.Declarators
	case *Aggregate:
		return &d.Args
	default:
		return nil
	}
}
