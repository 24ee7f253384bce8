package ast

import (
	"fmt"
	"slices"
)

// ReplaceMode tells the commit step what happens to a replaced node.
type ReplaceMode uint8

const (
	// OriginalDropped retires the original subtree.
	OriginalDropped ReplaceMode = iota
	// OriginalBecomesChild keeps the original alive inside its replacement,
	// for example when an expression is wrapped in a constructor.
	OriginalBecomesChild
)

type editKind uint8

const (
	editReplace editKind = iota
	editMulti
	editInsertBefore
	editInsertAfter
)

type edit struct {
	kind     editKind
	parent   NodeID
	original NodeID
	repl     []NodeID
	mode     ReplaceMode
}

// EditConflictError reports queued edits that cannot all be applied.
type EditConflictError struct {
	Reason   string
	Parent   NodeID
	Original NodeID
}

func (e *EditConflictError) Error() string {
	return fmt.Sprintf("ast: conflicting edit at node %d (parent %d): %s", e.Original, e.Parent, e.Reason)
}

// Edits is a queue of tree edits recorded during a traversal and applied
// together by Commit.
type Edits struct {
	list []edit
}

// Replace queues replacing original, a child of parent, with repl.
func (e *Edits) Replace(parent, original, repl NodeID, mode ReplaceMode) {
	e.list = append(e.list, edit{kind: editReplace, parent: parent, original: original, repl: []NodeID{repl}, mode: mode})
}

// ReplaceMulti queues replacing original in the sequence parent with any
// number of nodes. No nodes deletes original.
func (e *Edits) ReplaceMulti(parent, original NodeID, repl ...NodeID) {
	e.list = append(e.list, edit{kind: editMulti, parent: parent, original: original, repl: repl})
}

// Remove queues deleting original from the sequence parent.
func (e *Edits) Remove(parent, original NodeID) {
	e.ReplaceMulti(parent, original)
}

// InsertBefore queues inserting nodes before anchor in the sequence parent.
func (e *Edits) InsertBefore(parent, anchor NodeID, nodes ...NodeID) {
	e.list = append(e.list, edit{kind: editInsertBefore, parent: parent, original: anchor, repl: nodes})
}

// InsertAfter queues inserting nodes after anchor in the sequence parent.
func (e *Edits) InsertAfter(parent, anchor NodeID, nodes ...NodeID) {
	e.list = append(e.list, edit{kind: editInsertAfter, parent: parent, original: anchor, repl: nodes})
}

// Len returns the number of queued edits.
func (e *Edits) Len() int {
	return len(e.list)
}

// Reset drops every queued edit.
func (e *Edits) Reset() {
	e.list = e.list[:0]
}

// Commit checks the queued edits against each other and, if none overlap,
// applies them in queue order. On error the tree is left untouched.
//
// Two edits overlap when they replace the same node, when one edits inside
// a subtree another one drops, or when an insertion is anchored at a node
// that is being replaced.
func (e *Edits) Commit(tree *Tree) error {
	if len(e.list) == 0 {
		return nil
	}
	if err := e.check(tree); err != nil {
		return err
	}
	afterCount := make(map[NodeID]int)
	for _, ed := range e.list {
		parent := tree.nodes[ed.parent].Data
		switch ed.kind {
		case editReplace:
			replaceChild(parent, ed.original, ed.repl[0])
		case editMulti:
			seq := sequence(parent)
			i := slices.Index(*seq, ed.original)
			*seq = slices.Replace(*seq, i, i+1, ed.repl...)
		case editInsertBefore:
			seq := sequence(parent)
			i := slices.Index(*seq, ed.original)
			*seq = slices.Insert(*seq, i, ed.repl...)
		case editInsertAfter:
			seq := sequence(parent)
			i := slices.Index(*seq, ed.original) + 1 + afterCount[ed.original]
			*seq = slices.Insert(*seq, i, ed.repl...)
			afterCount[ed.original] += len(ed.repl)
		}
	}
	return nil
}

func (e *Edits) check(tree *Tree) error {
	parents := tree.Parents(tree.Root)
	type target struct{ parent, original NodeID }
	replaced := make(map[target]int, len(e.list))
	dropped := make(map[NodeID]struct{})

	for i, ed := range e.list {
		if !tree.Contains(ed.parent) {
			return &EditConflictError{Reason: "edit has no parent (the root cannot be replaced)", Parent: ed.parent, Original: ed.original}
		}
		if !slices.Contains(tree.Children(ed.parent), ed.original) {
			return &EditConflictError{Reason: "original is not a child of parent", Parent: ed.parent, Original: ed.original}
		}
		if ed.kind != editReplace && sequence(tree.nodes[ed.parent].Data) == nil {
			return &EditConflictError{Reason: "multi-node edit on a non-sequence parent", Parent: ed.parent, Original: ed.original}
		}
		for _, r := range ed.repl {
			if !tree.Contains(r) {
				return &EditConflictError{Reason: fmt.Sprintf("replacement %d is not an allocated node", r), Parent: ed.parent, Original: ed.original}
			}
		}
		if ed.kind == editReplace || ed.kind == editMulti {
			key := target{ed.parent, ed.original}
			if _, dup := replaced[key]; dup {
				return &EditConflictError{Reason: "node replaced twice", Parent: ed.parent, Original: ed.original}
			}
			replaced[key] = i
			if ed.kind == editMulti || ed.mode == OriginalDropped {
				dropped[ed.original] = struct{}{}
			}
		}
	}

	for _, ed := range e.list {
		if ed.kind == editInsertBefore || ed.kind == editInsertAfter {
			if _, hit := replaced[target{ed.parent, ed.original}]; hit {
				return &EditConflictError{Reason: "insertion anchored at a replaced node", Parent: ed.parent, Original: ed.original}
			}
		}
		// Walk up from the edited parent; meeting a dropped node means this
		// edit would land in a retired subtree.
		for n := ed.parent; n != NoNode; n = parents[n] {
			if _, gone := dropped[n]; gone {
				return &EditConflictError{Reason: "edit inside a dropped subtree", Parent: ed.parent, Original: ed.original}
			}
			if n == tree.Root {
				break
			}
		}
	}
	return nil
}
