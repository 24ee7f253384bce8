package ast

// Visit tells a Visitor which callback of a node is running.
type Visit uint8

const (
	PreVisit Visit = iota
	InVisit
	PostVisit
)

// Order selects which callbacks a Traverser makes.
type Order uint8

const (
	OrderPre Order = 1 << iota
	OrderIn
	OrderPost

	OrderPrePost = OrderPre | OrderPost
	OrderAll     = OrderPre | OrderIn | OrderPost
)

// Visitor receives traversal callbacks. On PreVisit the result selects
// whether children are visited; on InVisit it selects whether the remaining
// children are visited; on PostVisit it is ignored.
type Visitor interface {
	Visit(t *Traverser, visit Visit, id NodeID) bool
}

// VisitorFunc adapts a function to Visitor.
type VisitorFunc func(t *Traverser, visit Visit, id NodeID) bool

// Visit calls f.
func (f VisitorFunc) Visit(t *Traverser, visit Visit, id NodeID) bool {
	return f(t, visit, id)
}

type pathEntry struct {
	id    NodeID
	child int
}

// Traverser walks a tree depth-first. It tracks the path from the traversal
// root, lexical scopes, and queued edits. Visitors must not change the tree
// while it runs; they queue edits instead and the pass commits them with
// UpdateTree once the walk is done.
type Traverser struct {
	Tree  *Tree
	Order Order
	Edits Edits

	path   []pathEntry
	scopes Scopes
}

// NewTraverser returns a traverser for tree making the callbacks in order.
func NewTraverser(tree *Tree, order Order) *Traverser {
	return &Traverser{Tree: tree, Order: order}
}

// Traverse walks tree from its root with a fresh traverser and returns it,
// so the caller can commit queued edits.
func Traverse(tree *Tree, order Order, v Visitor) *Traverser {
	t := NewTraverser(tree, order)
	t.Walk(tree.Root, v)
	return t
}

// Walk visits the subtree at root. Scopes start with only the global frame.
func (t *Traverser) Walk(root NodeID, v Visitor) {
	t.path = t.path[:0]
	t.scopes.reset()
	t.walk(root, v)
}

func (t *Traverser) walk(id NodeID, v Visitor) {
	data := t.Tree.nodes[id].Data
	t.path = append(t.path, pathEntry{id: id})
	defer func() { t.path = t.path[:len(t.path)-1] }()

	descend := true
	if t.Order&OrderPre != 0 {
		descend = v.Visit(t, PreVisit, id)
	}

	opensScope := false
	switch d := data.(type) {
	case *Block:
		opensScope = !d.IsRoot
	case *FunctionDefinition, *Loop:
		opensScope = true
	}
	if opensScope {
		t.scopes.push()
		defer t.scopes.pop()
	}
	t.record(data)

	if descend {
		kids := children(nil, data)
		for i, c := range kids {
			if c == NoNode {
				continue
			}
			t.path[len(t.path)-1].child = i
			t.walk(c, v)
			if t.Order&OrderIn != 0 && i < len(kids)-1 {
				if !v.Visit(t, InVisit, id) {
					break
				}
			}
		}
	}

	if t.Order&OrderPost != 0 {
		v.Visit(t, PostVisit, id)
	}
}

// record adds the symbols a node declares to the current scope.
func (t *Traverser) record(data NodeData) {
	syms := t.Tree.Symbols
	switch d := data.(type) {
	case *Declaration:
		for _, decl := range d.Declarators {
			if decl == NoNode {
				continue
			}
			v, ok := t.Tree.DeclaredVariable(decl)
			if !ok || int(v) >= syms.NumVariables() {
				continue
			}
			t.scopes.Declare(v)
			vt := syms.Variable(v).Type
			switch {
			case vt.IsStruct() && vt.StructSpecifier && int(vt.Struct) < syms.NumStructs():
				if name := syms.Struct(vt.Struct).Name; name != "" {
					t.scopes.DeclareStruct(name, vt.Struct)
				}
			case vt.IsInterfaceBlock() && int(vt.Block) < syms.NumBlocks():
				b := syms.Block(vt.Block)
				t.scopes.DeclareBlock(BlockScopeKey(b.Name, vt.Qualifier), vt.Block)
				if syms.Variable(v).Kind == SymbolEmpty {
					t.scopes.DeclareNameless(vt.Block)
				}
			}
		}
	case *FunctionDefinition:
		if f := t.Tree.FunctionOf(d.Proto); f.IsValid() && int(f) < syms.NumFunctions() {
			for _, p := range syms.Function(f).Params {
				t.scopes.Declare(p)
			}
		}
	}
}

// Scopes returns the scope state at the current node.
func (t *Traverser) Scopes() *Scopes {
	return &t.scopes
}

// Current returns the node being visited.
func (t *Traverser) Current() NodeID {
	if len(t.path) == 0 {
		return NoNode
	}
	return t.path[len(t.path)-1].id
}

// Parent returns the parent of the current node, or NoNode at the root.
func (t *Traverser) Parent() NodeID {
	return t.Ancestor(1)
}

// Ancestor returns the n-th ancestor of the current node; 0 is the node
// itself.
func (t *Traverser) Ancestor(n int) NodeID {
	i := len(t.path) - 1 - n
	if i < 0 {
		return NoNode
	}
	return t.path[i].id
}

// ChildIndex returns the position of the current node among its parent's
// children, or -1 at the root.
func (t *Traverser) ChildIndex() int {
	if len(t.path) < 2 {
		return -1
	}
	return t.path[len(t.path)-2].child
}

// Depth returns the number of nodes on the path, the current one included.
func (t *Traverser) Depth() int {
	return len(t.path)
}

// Path returns a copy of the ids from the traversal root to the current node.
func (t *Traverser) Path() []NodeID {
	ids := make([]NodeID, len(t.path))
	for i, e := range t.path {
		ids[i] = e.id
	}
	return ids
}

// EnclosingFunction returns the function definition containing the current
// node, or NoNode in the global scope.
func (t *Traverser) EnclosingFunction() NodeID {
	for i := len(t.path) - 1; i >= 0; i-- {
		if _, ok := t.Tree.nodes[t.path[i].id].Data.(*FunctionDefinition); ok {
			return t.path[i].id
		}
	}
	return NoNode
}

// InGlobalScope reports whether the current node is outside every function.
func (t *Traverser) InGlobalScope() bool {
	return t.EnclosingFunction() == NoNode
}

// IsLValue reports whether the current node is written by its parent: the
// left operand of an assignment, or the operand of an increment/decrement.
// Index and swizzle chains leading to such a position count as written.
func (t *Traverser) IsLValue() bool {
	for i := len(t.path) - 1; i > 0; i-- {
		child := t.path[i].id
		switch p := t.Tree.nodes[t.path[i-1].id].Data.(type) {
		case *Binary:
			if p.Op.IsAssignment() || p.Op == OpInitialize {
				return p.Left == child
			}
			if p.Op.IsIndex() && p.Left == child {
				continue
			}
			return false
		case *Swizzle:
			continue
		case *Unary:
			switch p.Op {
			case OpPostIncrement, OpPostDecrement, OpPreIncrement, OpPreDecrement:
				return true
			}
			return false
		default:
			return false
		}
	}
	return false
}

// QueueReplace replaces the current node in its parent after the walk.
func (t *Traverser) QueueReplace(repl NodeID, mode ReplaceMode) {
	t.Edits.Replace(t.Parent(), t.Current(), repl, mode)
}

// QueueRemove deletes the current node from its parent sequence.
func (t *Traverser) QueueRemove() {
	t.Edits.ReplaceMulti(t.Parent(), t.Current())
}

// QueueInsertStatements inserts statements around the statement that
// contains the current node, in the nearest enclosing block.
func (t *Traverser) QueueInsertStatements(before, after []NodeID) {
	for i := len(t.path) - 1; i > 0; i-- {
		if _, ok := t.Tree.nodes[t.path[i-1].id].Data.(*Block); ok {
			parent, anchor := t.path[i-1].id, t.path[i].id
			if len(before) > 0 {
				t.Edits.InsertBefore(parent, anchor, before...)
			}
			if len(after) > 0 {
				t.Edits.InsertAfter(parent, anchor, after...)
			}
			return
		}
	}
}

// UpdateTree commits the queued edits to the tree and clears the queue.
func (t *Traverser) UpdateTree() error {
	err := t.Edits.Commit(t.Tree)
	t.Edits.Reset()
	return err
}

type structOrBlock struct {
	s StructID
	b BlockID
}

// Scopes is the lexical scope stack of a traversal: declared variables,
// struct and interface block names, and visible nameless blocks.
type Scopes struct {
	vars     []map[VariableID]struct{}
	types    []map[string]structOrBlock
	nameless []map[BlockID]struct{}
}

func (s *Scopes) reset() {
	s.vars = s.vars[:0]
	s.types = s.types[:0]
	s.nameless = s.nameless[:0]
	s.push()
}

func (s *Scopes) push() {
	s.vars = append(s.vars, map[VariableID]struct{}{})
	s.types = append(s.types, map[string]structOrBlock{})
	s.nameless = append(s.nameless, map[BlockID]struct{}{})
}

func (s *Scopes) pop() {
	n := len(s.vars) - 1
	s.vars = s.vars[:n]
	s.types = s.types[:n]
	s.nameless = s.nameless[:n]
}

// Depth returns the number of open scopes; the global scope is depth 1.
func (s *Scopes) Depth() int {
	return len(s.vars)
}

// Declare records v in the innermost scope.
func (s *Scopes) Declare(v VariableID) {
	s.vars[len(s.vars)-1][v] = struct{}{}
}

// IsDeclared reports whether v is declared in any open scope.
func (s *Scopes) IsDeclared(v VariableID) bool {
	for i := len(s.vars) - 1; i >= 0; i-- {
		if _, ok := s.vars[i][v]; ok {
			return true
		}
	}
	return false
}

// DeclareStruct records a struct definition under name in the innermost scope.
func (s *Scopes) DeclareStruct(name string, id StructID) {
	s.types[len(s.types)-1][name] = structOrBlock{s: id}
}

// DeclareBlock records an interface block under key in the innermost scope.
func (s *Scopes) DeclareBlock(key string, id BlockID) {
	s.types[len(s.types)-1][key] = structOrBlock{b: id}
}

// LookupStruct returns the nearest struct declared under name.
func (s *Scopes) LookupStruct(name string) (StructID, bool) {
	for i := len(s.types) - 1; i >= 0; i-- {
		if e, ok := s.types[i][name]; ok {
			return e.s, e.s.IsValid()
		}
	}
	return 0, false
}

// LookupBlock returns the nearest interface block declared under key.
func (s *Scopes) LookupBlock(key string) (BlockID, bool) {
	for i := len(s.types) - 1; i >= 0; i-- {
		if e, ok := s.types[i][key]; ok {
			return e.b, e.b.IsValid()
		}
	}
	return 0, false
}

// InCurrentScope returns what name denotes in the innermost scope.
func (s *Scopes) InCurrentScope(name string) (StructID, BlockID, bool) {
	e, ok := s.types[len(s.types)-1][name]
	return e.s, e.b, ok
}

// DeclareNameless records a nameless interface block as visible.
func (s *Scopes) DeclareNameless(b BlockID) {
	s.nameless[len(s.nameless)-1][b] = struct{}{}
}

// IsNamelessVisible reports whether a nameless block is declared in an open scope.
func (s *Scopes) IsNamelessVisible(b BlockID) bool {
	for i := len(s.nameless) - 1; i >= 0; i-- {
		if _, ok := s.nameless[i][b]; ok {
			return true
		}
	}
	return false
}

// BlockScopeKey returns the scope key of an interface block. gl_PerVertex
// may be declared once as input and once as output, so its key carries the
// direction.
func BlockScopeKey(name string, q Qualifier) string {
	if name != "gl_PerVertex" {
		return name
	}
	if q.IsInput() {
		return name + "<input>"
	}
	return name + "<output>"
}
