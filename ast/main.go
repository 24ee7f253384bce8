package ast

import (
	"errors"
	"slices"
)

// ErrNoMain is returned when a helper needs main and the tree has none.
var ErrNoMain = errors.New("ast: tree has no main function")

// InternalMainName names the function that takes over main's body when code
// must run after a main that returns early.
const InternalMainName = "__mainImpl"

// RunAtStartOfMain inserts stmts at the start of main's body. It must not be
// called during a traversal.
func (t *Tree) RunAtStartOfMain(stmts ...NodeID) error {
	body := t.MainBody()
	if body == NoNode {
		return ErrNoMain
	}
	b := t.nodes[body].Data.(*Block)
	b.Stmts = slices.Insert(b.Stmts, 0, stmts...)
	return nil
}

// RunAtEndOfMain appends stmts so they run after everything else in main.
// If main returns early, its body moves into a new internal function and
// main becomes a call to it followed by stmts.
func (t *Tree) RunAtEndOfMain(stmts ...NodeID) error {
	main := t.FindMain()
	if main == NoNode {
		return ErrNoMain
	}
	def := t.nodes[main].Data.(*FunctionDefinition)
	if !t.containsReturn(def.Body) {
		t.AppendStatements(def.Body, stmts...)
		return nil
	}

	impl := t.Symbols.NewFunction(InternalMainName, SymbolInternal, Void())
	oldBody := def.Body
	call := t.Call(impl)
	def.Body = t.NewBlock(append([]NodeID{call}, stmts...)...)

	root := t.nodes[t.Root].Data.(*Block)
	i := slices.Index(root.Stmts, main)
	root.Stmts = slices.Insert(root.Stmts, i, t.Define(impl, oldBody))
	return nil
}

func (t *Tree) containsReturn(id NodeID) bool {
	if id == NoNode {
		return false
	}
	if b, ok := t.nodes[id].Data.(*Branch); ok && b.Op == BranchReturn {
		return true
	}
	for _, c := range t.Children(id) {
		if t.containsReturn(c) {
			return true
		}
	}
	return false
}

// InsertGlobalsAtTop inserts stmts into the root block after any leading
// preprocessor directives.
func (t *Tree) InsertGlobalsAtTop(stmts ...NodeID) {
	root := t.nodes[t.Root].Data.(*Block)
	i := 0
	for i < len(root.Stmts) {
		if _, ok := t.nodes[root.Stmts[i]].Data.(*PreprocessorDirective); !ok {
			break
		}
		i++
	}
	root.Stmts = slices.Insert(root.Stmts, i, stmts...)
}

// InsertGlobalsBefore inserts stmts into the root block before anchor, a
// top-level statement. It appends when anchor is not found.
func (t *Tree) InsertGlobalsBefore(anchor NodeID, stmts ...NodeID) {
	root := t.nodes[t.Root].Data.(*Block)
	i := slices.Index(root.Stmts, anchor)
	if i < 0 {
		i = len(root.Stmts)
	}
	root.Stmts = slices.Insert(root.Stmts, i, stmts...)
}
