package ast

import (
	"fmt"
	"slices"
)

// DeepCopy duplicates the subtree at id and returns the new root. Symbol
// references keep their handles; no variable is created.
func (t *Tree) DeepCopy(id NodeID) NodeID {
	if id == NoNode {
		return NoNode
	}
	n := t.nodes[id]
	data := t.copyData(n.Data)
	return t.Add(n.Loc, n.Type.Clone(), data)
}

func (t *Tree) copyData(d NodeData) NodeData {
	cp := t.DeepCopy
	cpAll := func(ids []NodeID) []NodeID {
		out := make([]NodeID, len(ids))
		for i, c := range ids {
			out[i] = cp(c)
		}
		return out
	}
	switch d := d.(type) {
	case *Symbol:
		return &Symbol{Var: d.Var}
	case *Constant:
		return &Constant{Values: slices.Clone(d.Values)}
	case *Unary:
		return &Unary{Op: d.Op, Operand: cp(d.Operand), Func: d.Func}
	case *Binary:
		return &Binary{Op: d.Op, Left: cp(d.Left), Right: cp(d.Right)}
	case *Ternary:
		return &Ternary{Cond: cp(d.Cond), True: cp(d.True), False: cp(d.False)}
	case *Swizzle:
		return &Swizzle{Operand: cp(d.Operand), Offsets: slices.Clone(d.Offsets)}
	case *Aggregate:
		return &Aggregate{Op: d.Op, Func: d.Func, Args: cpAll(d.Args)}
	case *Block:
		return &Block{Stmts: cpAll(d.Stmts), IsRoot: d.IsRoot}
	case *Declaration:
		return &Declaration{Declarators: cpAll(d.Declarators)}
	case *Loop:
		return &Loop{Kind: d.Kind, Init: cp(d.Init), Cond: cp(d.Cond), Expr: cp(d.Expr), Body: cp(d.Body)}
	case *IfElse:
		return &IfElse{Cond: cp(d.Cond), Then: cp(d.Then), Else: cp(d.Else)}
	case *Branch:
		return &Branch{Op: d.Op, Expr: cp(d.Expr)}
	case *Switch:
		return &Switch{Selector: cp(d.Selector), Body: cp(d.Body)}
	case *Case:
		return &Case{Cond: cp(d.Cond)}
	case *FunctionPrototype:
		return &FunctionPrototype{Func: d.Func}
	case *FunctionDefinition:
		return &FunctionDefinition{Proto: cp(d.Proto), Body: cp(d.Body)}
	case *GlobalQualifierDecl:
		return &GlobalQualifierDecl{Target: cp(d.Target), Invariant: d.Invariant, Precise: d.Precise}
	case *PreprocessorDirective:
		return &PreprocessorDirective{Kind: d.Kind, Command: d.Command}
	default:
		panic(fmt.Sprintf("ast: DeepCopy of unknown node kind %T", d))
	}
}
