// Package ast defines the shader abstract syntax tree the translator
// rewrites: an arena of nodes addressed by NodeID, the type and symbol model,
// a traversal engine with scope tracking, and a deferred edit queue.
//
// Nodes are never shared between parents. Symbols are referenced by handle,
// so two references to the same variable carry the same VariableID no matter
// how the tree is copied or rewritten.
package ast

import "fmt"

// ShaderStage is the pipeline stage a shader runs in.
type ShaderStage uint8

const (
	StageVertex ShaderStage = iota
	StageTessControl
	StageTessEvaluation
	StageGeometry
	StageFragment
	StageCompute
)

var stageNames = [...]string{
	StageVertex:         "vertex",
	StageTessControl:    "tess_control",
	StageTessEvaluation: "tess_evaluation",
	StageGeometry:       "geometry",
	StageFragment:       "fragment",
	StageCompute:        "compute",
}

func (s ShaderStage) String() string {
	if int(s) < len(stageNames) {
		return stageNames[s]
	}
	return fmt.Sprintf("stage(%d)", s)
}

// ParseStage returns the stage named s.
func ParseStage(s string) (ShaderStage, bool) {
	for i, name := range stageNames {
		if name == s {
			return ShaderStage(i), true
		}
	}
	return 0, false
}

// Tree is the node arena of one shader. Slot 0 is reserved for NoNode.
type Tree struct {
	nodes []Node

	// Root is the global-scope Block.
	Root NodeID

	// Symbols resolves the handles stored in nodes and types.
	Symbols *SymbolTable
}

// NewTree returns a tree with an empty root block.
func NewTree(symbols *SymbolTable) *Tree {
	t := &Tree{nodes: make([]Node, 1, 64), Symbols: symbols}
	t.Root = t.Add(SourceLoc{}, Void(), &Block{IsRoot: true})
	return t
}

// Add appends a node and returns its id.
func (t *Tree) Add(loc SourceLoc, typ Type, data NodeData) NodeID {
	t.nodes = append(t.nodes, Node{Loc: loc, Type: typ, Data: data})
	return NodeID(len(t.nodes) - 1)
}

// Len returns the number of allocated nodes, including retired ones.
func (t *Tree) Len() int {
	return len(t.nodes) - 1
}

// Node returns the node for id. The pointer is invalidated by Add.
func (t *Tree) Node(id NodeID) *Node {
	return &t.nodes[id]
}

// Data returns the payload of id, or nil for NoNode or an out-of-range id.
func (t *Tree) Data(id NodeID) NodeData {
	if id == NoNode || int(id) >= len(t.nodes) {
		return nil
	}
	return t.nodes[id].Data
}

// Contains reports whether id addresses an allocated node.
func (t *Tree) Contains(id NodeID) bool {
	return id != NoNode && int(id) < len(t.nodes)
}

// Loc returns the source location of id.
func (t *Tree) Loc(id NodeID) SourceLoc {
	return t.nodes[id].Loc
}

// TypeOf returns the static type of an expression node.
func (t *Tree) TypeOf(id NodeID) Type {
	n := &t.nodes[id]
	if s, ok := n.Data.(*Symbol); ok && t.Symbols != nil {
		return t.Symbols.Variable(s.Var).Type
	}
	return n.Type
}

// SetType overwrites the stored type of a non-symbol node.
func (t *Tree) SetType(id NodeID, typ Type) {
	t.nodes[id].Type = typ
}

// Children returns the children of id in traversal order. The result is a
// fresh slice.
func (t *Tree) Children(id NodeID) []NodeID {
	return children(nil, t.nodes[id].Data)
}

// ReplaceChild swaps one child of parent in place. It must not be called
// while a traversal of the tree is running; use Edits instead.
func (t *Tree) ReplaceChild(parent, old, repl NodeID) bool {
	return replaceChild(t.nodes[parent].Data, old, repl)
}

// ReplaceChildren replaces the whole child list of a sequence container.
func (t *Tree) ReplaceChildren(parent NodeID, ids []NodeID) error {
	seq := sequence(t.nodes[parent].Data)
	if seq == nil {
		return fmt.Errorf("ast: node %d (%s) is not a sequence", parent, KindName(t.nodes[parent].Data))
	}
	*seq = append((*seq)[:0:0], ids...)
	return nil
}

// Statements returns the statement list of a Block node.
func (t *Tree) Statements(block NodeID) []NodeID {
	if b, ok := t.nodes[block].Data.(*Block); ok {
		return b.Stmts
	}
	return nil
}

// Parents builds a child-to-parent map of the subtree under root. Nodes
// reachable through more than one parent keep the last one found.
func (t *Tree) Parents(root NodeID) map[NodeID]NodeID {
	parents := make(map[NodeID]NodeID)
	var walk func(NodeID)
	walk = func(id NodeID) {
		for _, c := range t.Children(id) {
			if c == NoNode {
				continue
			}
			parents[c] = id
			walk(c)
		}
	}
	walk(root)
	return parents
}

// FindMain returns the definition node of the function named main at global
// scope, or NoNode.
func (t *Tree) FindMain() NodeID {
	for _, s := range t.Statements(t.Root) {
		def, ok := t.nodes[s].Data.(*FunctionDefinition)
		if !ok {
			continue
		}
		proto, ok := t.nodes[def.Proto].Data.(*FunctionPrototype)
		if ok && t.Symbols.Function(proto.Func).Name == "main" {
			return s
		}
	}
	return NoNode
}

// MainBody returns the body block of main, or NoNode.
func (t *Tree) MainBody() NodeID {
	m := t.FindMain()
	if m == NoNode {
		return NoNode
	}
	return t.nodes[m].Data.(*FunctionDefinition).Body
}

// FunctionOf returns the function declared by a definition or prototype node.
func (t *Tree) FunctionOf(id NodeID) FunctionID {
	switch d := t.Data(id).(type) {
	case *FunctionPrototype:
		return d.Func
	case *FunctionDefinition:
		if p, ok := t.Data(d.Proto).(*FunctionPrototype); ok {
			return p.Func
		}
	}
	return 0
}

// DeclaredVariable returns the variable introduced by a declarator node:
// a Symbol or an OpInitialize whose left side is a Symbol.
func (t *Tree) DeclaredVariable(declarator NodeID) (VariableID, bool) {
	switch d := t.Data(declarator).(type) {
	case *Symbol:
		return d.Var, true
	case *Binary:
		if d.Op != OpInitialize {
			return 0, false
		}
		if s, ok := t.Data(d.Left).(*Symbol); ok {
			return s.Var, true
		}
	}
	return 0, false
}
